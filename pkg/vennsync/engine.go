package vennsync

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ukaji3/vennsync/pkg/vennsync/binding"
	"github.com/ukaji3/vennsync/pkg/vennsync/geometry"
	"github.com/ukaji3/vennsync/pkg/vennsync/index"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// Engine updates bound diagrams in response to edits of their source ranges.
// Edits are expected one at a time.
type Engine struct {
	surface Surface
	index   *index.Index
	opts    Options
	log     *zap.Logger
}

// NewEngine creates an Engine over surface. A nil idx uses an in-memory index.
func NewEngine(surface Surface, idx *index.Index, opts Options) *Engine {
	log := opts.logger()
	if idx == nil {
		idx = index.New(index.NewMemoryCache(0), opts.CacheTTL, log)
	}
	return &Engine{surface: surface, index: idx, opts: opts, log: log}
}

// Result summarizes the handling of one edit.
type Result struct {
	// Matched is the number of indexed bindings intersecting the edit.
	Matched int `json:"matched"`
	// Updated lists the identifiers of diagrams whose content and metadata were rewritten.
	Updated []string `json:"updated,omitempty"`
	// Stale lists identifiers whose diagram no longer exists.
	Stale []string `json:"stale,omitempty"`
	// Failed lists identifiers whose update failed.
	Failed []string `json:"failed,omitempty"`
}

type target struct {
	binding models.Binding
	image   models.Image
}

type update struct {
	target
	content []byte
	meta    models.ImageMeta
}

// Affected returns the entries on the edited sheet whose range intersects the edit.
func Affected(entries []models.IndexEntry, edit models.Edit) []models.IndexEntry {
	var matches []models.IndexEntry
	for _, e := range entries {
		if e.SheetID != edit.SheetID {
			continue
		}
		if geometry.Intersects(edit.Extent, e.RangeExtent) {
			matches = append(matches, e)
		}
	}
	return matches
}

// HandleEdit regenerates every diagram bound to a range the edit intersects.
//
// Diagrams are recomputed concurrently. All content replacements complete and
// the surface is settled before any identifier or size is reapplied. A failing
// diagram does not stop the others; failures are returned combined once the
// batch completes.
func (e *Engine) HandleEdit(ctx context.Context, edit models.Edit) (*Result, error) {
	if e.surface == nil {
		return nil, ErrNoSurface
	}

	entries, err := e.index.Resolve(ctx, e.surface)
	if err != nil {
		return nil, err
	}

	matches := Affected(entries, edit)
	result := &Result{Matched: len(matches)}
	if len(matches) == 0 {
		e.log.Debug("No matches", zap.Int("sheet", edit.SheetID))
		return result, nil
	}

	targets, stale, err := e.resolve(matches)
	if err != nil {
		return nil, err
	}
	result.Stale = stale
	if len(targets) == 0 {
		return result, nil
	}

	e.log.Info("Updating images", zap.Int("count", len(targets)), zap.Int("stale", len(stale)))

	errs := make([]error, len(targets))
	updates := e.recompute(targets, errs)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, u := range updates {
		if u == nil {
			continue
		}
		if err := e.surface.ReplaceImage(u.image.Ref, u.content); err != nil {
			errs[i] = NewSyncError(u.binding.Alt, StageReplace, err)
			updates[i] = nil
		}
	}

	settleErr := e.surface.Settle(ctx)
	if settleErr != nil {
		e.log.Warn("Surface did not settle", zap.Error(settleErr))
	}

	for i, u := range updates {
		if u == nil {
			continue
		}
		if err := e.surface.SetImageMeta(u.image.Ref, u.meta); err != nil {
			errs[i] = NewSyncError(u.binding.Alt, StageMeta, err)
			continue
		}
		result.Updated = append(result.Updated, u.binding.Alt)
	}

	for i, err := range errs {
		if err == nil {
			continue
		}
		result.Failed = append(result.Failed, targets[i].binding.Alt)
		e.log.Warn("Diagram update failed", zap.String("alt", targets[i].binding.Alt), zap.Error(err))
	}
	e.log.Info("Applied updates", zap.Int("updated", len(result.Updated)), zap.Int("failed", len(result.Failed)))

	return result, multierr.Append(multierr.Combine(errs...), settleErr)
}

// resolve recovers the live image of every match. Matches whose image is gone
// are reported as stale.
func (e *Engine) resolve(matches []models.IndexEntry) ([]target, []string, error) {
	images, err := e.surface.Images()
	if err != nil {
		return nil, nil, err
	}
	byAlt := make(map[string]models.Image, len(images))
	for _, img := range images {
		if _, dup := byAlt[img.Alt]; !dup && binding.IsBound(img.Alt) {
			byAlt[img.Alt] = img
		}
	}

	var targets []target
	var stale []string
	for _, m := range matches {
		img, ok := byAlt[m.Alt]
		if !ok {
			e.log.Debug("Dropping stale binding", zap.Error(&StaleBindingError{Alt: m.Alt}))
			stale = append(stale, m.Alt)
			continue
		}
		b, ok := binding.Decode(m.Alt)
		if !ok {
			continue
		}
		b.Extent = m.RangeExtent
		targets = append(targets, target{binding: b, image: img})
	}
	return targets, stale, nil
}

// recompute renders every target concurrently. A failed target leaves a nil
// update and its error in errs.
func (e *Engine) recompute(targets []target, errs []error) []*update {
	updates := make([]*update, len(targets))

	var g errgroup.Group
	for i, t := range targets {
		g.Go(func() error {
			u, err := e.render(t)
			if err != nil {
				errs[i] = err
				return nil
			}
			updates[i] = u
			return nil
		})
	}
	_ = g.Wait()

	return updates
}

func (e *Engine) render(t target) (*update, error) {
	gen, err := generatorFor(t.binding.Type)
	if err != nil {
		return nil, NewSyncError(t.binding.Alt, StageRender, err)
	}

	rows, err := e.surface.ReadRange(t.binding.SheetID, t.binding.Extent)
	if err != nil {
		return nil, NewSyncError(t.binding.Alt, StageRead, err)
	}

	d, err := gen(rows, e.opts)
	if err != nil {
		return nil, NewSyncError(t.binding.Alt, StageRender, err)
	}

	meta := t.image.Meta()
	meta.Alt = t.binding.Alt
	if meta.Width <= 0 || meta.Height <= 0 {
		meta.Width, meta.Height = d.Width, d.Height
	}
	return &update{target: t, content: d.Content, meta: meta}, nil
}
