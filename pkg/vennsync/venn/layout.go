// Package venn selects the fixed geometric layout of a Venn diagram for a given
// number of sets and renders it with computed region labels.
package venn

import (
	"errors"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/ukaji3/vennsync/pkg/vennsync/partition"
)

// Canvas dimensions.
const (
	CanvasWidth  = 600
	CanvasHeight = 600
	ViewBoxSize  = 1000
)

// DefaultColors is the fill palette, assigned to groups by index.
var DefaultColors = []string{
	"rgba(92, 192, 98, 0.5)",
	"rgba(90, 155, 212, 0.5)",
	"rgba(246, 236, 86, 0.6)",
	"rgba(241, 90, 96, 0.4)",
	"rgba(255, 117, 0, 0.3)",
	"rgba(82, 82, 190, 0.2)",
}

// Point is a position in layout coordinates.
type Point struct {
	X, Y float64
}

// ShapeKind identifies the geometry of a Shape.
type ShapeKind int

const (
	// ShapeEllipse is a rotated ellipse.
	ShapeEllipse ShapeKind = iota
	// ShapeTriangle is a triangular wedge.
	ShapeTriangle
)

// Shape is one set outline.
type Shape struct {
	Kind ShapeKind
	// Center, Width, Height and Rotation (degrees, counter-clockwise) describe an ellipse.
	Center   Point
	Width    float64
	Height   float64
	Rotation float64
	// Vertices describe a triangle.
	Vertices [3]Point
}

func ellipse(x, y, width, height, rotation float64) Shape {
	return Shape{Kind: ShapeEllipse, Center: Point{x, y}, Width: width, Height: height, Rotation: rotation}
}

func triangle(x1, y1, x2, y2, x3, y3 float64) Shape {
	return Shape{Kind: ShapeTriangle, Vertices: [3]Point{{x1, y1}, {x2, y2}, {x3, y3}}}
}

// Anchor is the position class of a group name. The first letter places the
// text above (t), below (b) or centered on (m) the anchor point; the second
// makes the text start at (l), end at (r) or center on (m) it.
type Anchor string

const (
	AnchorCenter       Anchor = ""
	AnchorTopLeft      Anchor = "tl"
	AnchorTopRight     Anchor = "tr"
	AnchorTopMiddle    Anchor = "tm"
	AnchorBottomLeft   Anchor = "bl"
	AnchorBottomRight  Anchor = "br"
	AnchorBottomMiddle Anchor = "bm"
	AnchorMiddleLeft   Anchor = "ml"
	AnchorMiddleRight  Anchor = "mr"
)

// NameAnchor positions a group name.
type NameAnchor struct {
	Point
	Class Anchor
}

// Layout is the fixed drawing template for one set count.
type Layout struct {
	// Shapes holds one outline per group, by group index.
	Shapes []Shape
	// Regions maps each non-zero membership code to its label position.
	Regions map[uint]Point
	// Names holds the anchor of each group name, by group index.
	Names []NameAnchor
}

// Select returns the layout for n sets.
func Select(n int) (Layout, error) {
	l, ok := layouts[n]
	if !ok {
		return Layout{}, &partition.UnsupportedSetCountError{N: n}
	}
	return l, nil
}

// ErrSpecMismatch indicates a DiagramSpec whose groups or colors do not match its set count.
var ErrSpecMismatch = errors.New("diagram spec does not match its set count")

func layoutFor(spec models.DiagramSpec) (Layout, error) {
	l, err := Select(spec.SetCount)
	if err != nil {
		return Layout{}, err
	}
	if len(spec.Groups) != spec.SetCount || len(spec.Colors) < spec.SetCount {
		return Layout{}, ErrSpecMismatch
	}
	return l, nil
}

// NewSpec binds a partition's labels and group names to a palette.
// Colors are assigned by group index, cycling through palette;
// an empty palette uses DefaultColors.
func NewSpec(p models.GroupPartition, labels map[uint]string, palette []string) models.DiagramSpec {
	if len(palette) == 0 {
		palette = DefaultColors
	}
	colors := make([]string, len(p.Groups))
	for i := range p.Groups {
		colors[i] = palette[i%len(palette)]
	}
	return models.DiagramSpec{
		Groups:   p.Groups,
		Labels:   labels,
		Colors:   colors,
		SetCount: p.SetCount(),
	}
}
