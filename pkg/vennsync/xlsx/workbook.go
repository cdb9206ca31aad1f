package xlsx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/vennsync/pkg/vennsync"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

var (
	// ErrSheetNotFound indicates a sheet id with no sheet in the workbook.
	ErrSheetNotFound = errors.New("sheet not found")
	// ErrImageNotFound indicates an image reference that no longer resolves.
	ErrImageNotFound = errors.New("image not found")
)

var _ vennsync.Surface = (*Workbook)(nil)

// Workbook is a document surface backed by an xlsx file.
//
// Image references have the form "<sheetId>!<cell>#<n>", n being the position
// of the picture among those anchored at the cell.
type Workbook struct {
	// SettleDelay is waited out by Settle.
	SettleDelay time.Duration

	mu    sync.Mutex
	f     *excelize.File
	path  string
	docID string
}

// pathIdentifier returns a name-based UUID for the absolute form of path, or
// a random one when path is empty.
func pathIdentifier(path string) string {
	if path == "" {
		return uuid.NewString()
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("file://"+filepath.ToSlash(path))).String()
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	w, err := New(f, path)
	if err != nil {
		f.Close()
		return nil, err
	}
	return w, nil
}

// New wraps an open excelize file that is saved to path. A workbook without a
// document identifier is assigned one derived from its absolute path, so
// reopening an unsaved workbook yields the same identifier.
func New(f *excelize.File, path string) (*Workbook, error) {
	w := &Workbook{f: f, path: path}

	props, err := f.GetDocProps()
	if err != nil {
		return nil, fmt.Errorf("failed to read document properties: %w", err)
	}
	if props.Identifier == "" {
		props.Identifier = pathIdentifier(path)
		if err := f.SetDocProps(props); err != nil {
			return nil, fmt.Errorf("failed to assign document identifier: %w", err)
		}
	}
	w.docID = props.Identifier
	return w, nil
}

// File returns the underlying excelize file.
func (w *Workbook) File() *excelize.File {
	return w.f
}

// Path returns the path the workbook is saved to.
func (w *Workbook) Path() string {
	return w.path
}

// Save writes the workbook to its path.
func (w *Workbook) Save() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.SaveAs(w.path)
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// DocumentID returns the identifier stored in the workbook's core properties.
func (w *Workbook) DocumentID() string {
	return w.docID
}

// SheetIDs returns the ids of all sheets in ascending order.
func (w *Workbook) SheetIDs() []int {
	w.mu.Lock()
	defer w.mu.Unlock()

	ids := make([]int, 0)
	for id := range w.f.GetSheetMap() {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// SheetID returns the id of the named sheet.
func (w *Workbook) SheetID(name string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for id, n := range w.f.GetSheetMap() {
		if strings.EqualFold(n, name) {
			return id, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
}

// SheetName returns the name of a sheet.
func (w *Workbook) SheetName(sheetID int) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.sheetName(sheetID)
}

func (w *Workbook) sheetName(sheetID int) (string, error) {
	name, ok := w.f.GetSheetMap()[sheetID]
	if !ok {
		return "", fmt.Errorf("%w: %d", ErrSheetNotFound, sheetID)
	}
	return name, nil
}

// Images lists the cell-anchored pictures of every sheet.
func (w *Workbook) Images() ([]models.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	placed, err := w.scan()
	if err != nil {
		return nil, err
	}

	sheetIDs := make([]int, 0, len(placed))
	for id := range placed {
		sheetIDs = append(sheetIDs, id)
	}
	sort.Ints(sheetIDs)

	var images []models.Image
	for _, sheetID := range sheetIDs {
		seen := make(map[string]int)
		for _, p := range placed[sheetID] {
			cell := p.cell()
			images = append(images, models.Image{
				Ref:     formatRef(sheetID, cell, seen[cell]),
				SheetID: sheetID,
				Alt:     p.alt,
				Width:   p.width,
				Height:  p.height,
			})
			seen[cell]++
		}
	}
	return images, nil
}

// InsertImage anchors a new picture at (row, col) at its intrinsic size.
func (w *Workbook) InsertImage(sheetID, row, col int, content []byte, alt string) (models.Image, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	name, err := w.sheetName(sheetID)
	if err != nil {
		return models.Image{}, err
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return models.Image{}, err
	}
	cfg, ext, err := decodeConfig(content)
	if err != nil {
		return models.Image{}, err
	}

	existing, err := w.f.GetPictures(name, cell)
	if err != nil {
		return models.Image{}, err
	}
	pic := &excelize.Picture{
		Extension: ext,
		File:      content,
		Format:    &excelize.GraphicOptions{AltText: alt, ScaleX: 1, ScaleY: 1},
	}
	if err := w.f.AddPictureFromBytes(name, cell, pic); err != nil {
		return models.Image{}, err
	}

	return models.Image{
		Ref:     formatRef(sheetID, cell, len(existing)),
		SheetID: sheetID,
		Alt:     alt,
		Width:   cfg.Width,
		Height:  cfg.Height,
	}, nil
}

// ReplaceImage swaps the content of a picture, keeping its identifier text
// and placed size.
func (w *Workbook) ReplaceImage(ref string, content []byte) error {
	if _, _, err := decodeConfig(content); err != nil {
		return err
	}
	return w.rewrite(ref, func(p *excelize.Picture, meta *models.ImageMeta) {
		p.File = content
	})
}

// SetImageMeta sets the identifier text and placed size of a picture.
func (w *Workbook) SetImageMeta(ref string, meta models.ImageMeta) error {
	return w.rewrite(ref, func(p *excelize.Picture, m *models.ImageMeta) {
		*m = meta
	})
}

// Settle waits SettleDelay. Workbook writes are synchronous so nothing else
// is pending.
func (w *Workbook) Settle(ctx context.Context) error {
	if w.SettleDelay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(w.SettleDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// rewrite re-anchors every picture of the cell behind ref after letting fn
// modify the referenced one. Pictures keep their order within the cell.
func (w *Workbook) rewrite(ref string, fn func(p *excelize.Picture, meta *models.ImageMeta)) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	sheetID, cell, idx, err := parseRef(ref)
	if err != nil {
		return err
	}
	name, err := w.sheetName(sheetID)
	if err != nil {
		return err
	}

	pics, err := w.f.GetPictures(name, cell)
	if err != nil {
		return err
	}
	if idx >= len(pics) {
		return fmt.Errorf("%w: %s", ErrImageNotFound, ref)
	}

	placed, err := w.scan()
	if err != nil {
		return err
	}
	var atCell []placedPicture
	for _, p := range placed[sheetID] {
		if p.cell() == cell {
			atCell = append(atCell, p)
		}
	}

	metas := make([]models.ImageMeta, len(pics))
	for i, p := range pics {
		if p.Format != nil {
			metas[i].Alt = p.Format.AltText
		}
		if len(atCell) == len(pics) {
			metas[i] = models.ImageMeta{Alt: atCell[i].alt, Width: atCell[i].width, Height: atCell[i].height}
		}
	}

	fn(&pics[idx], &metas[idx])

	if err := w.f.DeletePicture(name, cell); err != nil {
		return err
	}
	for i := range pics {
		pics[i].Format = graphicOptions(pics[i], metas[i])
		if err := w.f.AddPictureFromBytes(name, cell, &pics[i]); err != nil {
			return err
		}
	}
	return nil
}

func (w *Workbook) scan() (map[int][]placedPicture, error) {
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return scanPictures(buf.Bytes())
}

// graphicOptions builds the options placing p with meta's text and size.
func graphicOptions(p excelize.Picture, meta models.ImageMeta) *excelize.GraphicOptions {
	opts := &excelize.GraphicOptions{}
	if p.Format != nil {
		*opts = *p.Format
	}
	opts.AltText = meta.Alt
	opts.ScaleX, opts.ScaleY = 1, 1

	if meta.Width > 0 && meta.Height > 0 {
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(p.File)); err == nil && cfg.Width > 0 && cfg.Height > 0 {
			opts.ScaleX = float64(meta.Width) / float64(cfg.Width)
			opts.ScaleY = float64(meta.Height) / float64(cfg.Height)
		}
	}
	return opts
}

func decodeConfig(content []byte) (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(content))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("unsupported image content: %w", err)
	}
	if format == "jpeg" {
		format = "jpg"
	}
	return cfg, "." + format, nil
}

func formatRef(sheetID int, cell string, idx int) string {
	return fmt.Sprintf("%d!%s#%d", sheetID, cell, idx)
}

func parseRef(ref string) (sheetID int, cell string, idx int, err error) {
	sheet, rest, ok := strings.Cut(ref, "!")
	if !ok {
		return 0, "", 0, fmt.Errorf("%w: %q", ErrImageNotFound, ref)
	}
	cell, n, ok := strings.Cut(rest, "#")
	if !ok {
		return 0, "", 0, fmt.Errorf("%w: %q", ErrImageNotFound, ref)
	}
	if sheetID, err = strconv.Atoi(sheet); err != nil {
		return 0, "", 0, fmt.Errorf("%w: %q", ErrImageNotFound, ref)
	}
	if idx, err = strconv.Atoi(n); err != nil || idx < 0 {
		return 0, "", 0, fmt.Errorf("%w: %q", ErrImageNotFound, ref)
	}
	return sheetID, cell, idx, nil
}
