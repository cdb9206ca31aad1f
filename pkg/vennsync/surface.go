package vennsync

import (
	"context"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/ukaji3/vennsync/pkg/vennsync/venn"
)

// Surface is the host document diagrams are read from and written to.
// ReadRange may be called concurrently; the remaining methods are called serially.
type Surface interface {
	// DocumentID returns a stable identifier of the document.
	DocumentID() string
	// ReadRange returns the values of ext on the sheet, row by row. Columns
	// past the second may be omitted.
	ReadRange(sheetID int, ext models.RangeExtent) ([][]string, error)
	// Images lists the image-like objects of every sheet with their identifier text.
	Images() ([]models.Image, error)
	// InsertImage places a new image with its top-left corner at (row, col).
	InsertImage(sheetID, row, col int, content []byte, alt string) (models.Image, error)
	// ReplaceImage replaces the rendered content of an image in place. Hosts may
	// reset the image's metadata as a side effect.
	ReplaceImage(ref string, content []byte) error
	// SetImageMeta sets the identifier text and display size of an image.
	SetImageMeta(ref string, meta models.ImageMeta) error
	// Settle flushes pending rendering and waits until the host is ready for
	// metadata writes.
	Settle(ctx context.Context) error
}

// Diagram is rendered image content ready to be placed on a surface.
type Diagram struct {
	Content []byte
	Width   int
	Height  int
}

// Generator renders a diagram from the rows of its bound range.
type Generator func(rows [][]string, opts Options) (*Diagram, error)

var generators = map[models.DiagramType]Generator{
	models.DiagramVenn: generateVenn,
}

func generateVenn(rows [][]string, opts Options) (*Diagram, error) {
	r, err := venn.Generate(rows, venn.Options{
		LabelFormat: opts.LabelFormat,
		Palette:     opts.Palette,
	})
	if err != nil {
		return nil, err
	}
	return &Diagram{Content: r.PNG, Width: venn.CanvasWidth, Height: venn.CanvasHeight}, nil
}

func generatorFor(t models.DiagramType) (Generator, error) {
	gen, ok := generators[t]
	if !ok {
		return nil, ErrUnknownDiagram
	}
	return gen, nil
}
