package venn

import (
	"bytes"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/ukaji3/vennsync/pkg/vennsync/partition"
)

// Options configures diagram generation.
type Options struct {
	// LabelFormat is the region label template; empty means partition.DefaultFormat.
	LabelFormat string
	// Palette overrides DefaultColors.
	Palette []string
}

// Rendered holds a generated diagram in both vector and raster form.
type Rendered struct {
	Spec models.DiagramSpec
	SVG  []byte
	PNG  []byte
}

// Generate builds a diagram from table rows of [item, group].
func Generate(rows [][]string, opts Options) (*Rendered, error) {
	p, err := partition.Compute(partition.FromRows(rows))
	if err != nil {
		return nil, err
	}

	spec := NewSpec(p, partition.Labels(p, opts.LabelFormat), opts.Palette)

	svg, err := SVG(spec)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := PNG(spec, &buf); err != nil {
		return nil, err
	}

	return &Rendered{Spec: spec, SVG: svg, PNG: buf.Bytes()}, nil
}
