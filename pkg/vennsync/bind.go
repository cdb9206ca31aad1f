package vennsync

import (
	"context"

	"go.uber.org/zap"

	"github.com/ukaji3/vennsync/pkg/vennsync/binding"
	"github.com/ukaji3/vennsync/pkg/vennsync/geometry"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

// Bind renders a diagram of type t from ext on the sheet and inserts it to the
// right of the range, tagged with its binding identifier.
func (e *Engine) Bind(ctx context.Context, t models.DiagramType, sheetID int, ext models.RangeExtent) (models.Binding, error) {
	if e.surface == nil {
		return models.Binding{}, ErrNoSurface
	}
	ext = geometry.Normalize(ext)

	text, err := geometry.FormatExtent(ext)
	if err != nil {
		return models.Binding{}, err
	}
	alt := binding.Encode(t, e.opts.now().UnixMilli(), sheetID, text)

	gen, err := generatorFor(t)
	if err != nil {
		return models.Binding{}, NewSyncError(alt, StageRender, err)
	}
	rows, err := e.surface.ReadRange(sheetID, ext)
	if err != nil {
		return models.Binding{}, NewSyncError(alt, StageRead, err)
	}
	d, err := gen(rows, e.opts)
	if err != nil {
		return models.Binding{}, NewSyncError(alt, StageRender, err)
	}

	img, err := e.surface.InsertImage(sheetID, ext.StartRow, ext.EndCol+1, d.Content, alt)
	if err != nil {
		return models.Binding{}, NewSyncError(alt, StageInsert, err)
	}
	if err := e.surface.Settle(ctx); err != nil {
		e.log.Warn("Surface did not settle", zap.Error(err))
	}
	meta := models.ImageMeta{Alt: alt, Width: d.Width, Height: d.Height}
	if err := e.surface.SetImageMeta(img.Ref, meta); err != nil {
		return models.Binding{}, NewSyncError(alt, StageMeta, err)
	}

	if err := e.index.Invalidate(ctx, e.surface.DocumentID()); err != nil {
		e.log.Warn("Binding index invalidation failed", zap.Error(err))
	}
	e.log.Info("Inserted diagram", zap.String("alt", alt), zap.String("ref", img.Ref))

	b, _ := binding.Decode(alt)
	b.Extent = ext
	return b, nil
}

// Preview renders the diagram of type t for ext without touching the surface's images.
func (e *Engine) Preview(t models.DiagramType, sheetID int, ext models.RangeExtent) (*Diagram, error) {
	if e.surface == nil {
		return nil, ErrNoSurface
	}
	gen, err := generatorFor(t)
	if err != nil {
		return nil, err
	}
	rows, err := e.surface.ReadRange(sheetID, geometry.Normalize(ext))
	if err != nil {
		return nil, err
	}
	return gen(rows, e.opts)
}
