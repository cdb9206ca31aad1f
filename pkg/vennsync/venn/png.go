package venn

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

const (
	pixelScale      = float64(CanvasWidth) / ViewBoxSize
	fontSizePt      = 14
	ellipseSegments = 96
)

var parseFont = sync.OnceValues(func() (*opentype.Font, error) {
	return opentype.Parse(goregular.TTF)
})

// PNG renders spec as a 600x600 PNG image with a transparent background.
func PNG(spec models.DiagramSpec, w io.Writer) error {
	layout, err := layoutFor(spec)
	if err != nil {
		return err
	}

	img := image.NewRGBA(image.Rect(0, 0, CanvasWidth, CanvasHeight))
	for i, s := range layout.Shapes {
		c, err := ParseColor(spec.Colors[i])
		if err != nil {
			return err
		}
		fillShape(img, s, c)
	}

	face, err := newFace()
	if err != nil {
		return err
	}
	defer face.Close()

	for _, code := range sortedCodes(layout.Regions) {
		drawText(img, face, layout.Regions[code], spec.Labels[code], AnchorCenter)
	}
	for i, name := range layout.Names {
		drawText(img, face, name.Point, spec.Groups[i], name.Class)
	}

	return png.Encode(w, img)
}

// newFace returns a Go Regular face sized like the SVG's 14pt text at the canvas scale.
// Faces are not safe for concurrent use, so each render gets its own.
func newFace() (font.Face, error) {
	f, err := parseFont()
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    fontSizePt,
		DPI:     96 * pixelScale,
		Hinting: font.HintingNone,
	})
}

func toPixels(p Point) (float32, float32) {
	return float32(p.X * pixelScale), float32(flipY(p.Y) * pixelScale)
}

func fillShape(dst draw.Image, s Shape, c color.Color) {
	z := vector.NewRasterizer(CanvasWidth, CanvasHeight)
	z.DrawOp = draw.Over

	switch s.Kind {
	case ShapeEllipse:
		cx, cy := toPixels(s.Center)
		rx := s.Width / 2 * pixelScale
		ry := s.Height / 2 * pixelScale
		// Rotation is counter-clockwise on screen, i.e. negative in y-down space.
		theta := -s.Rotation * math.Pi / 180
		sin, cos := math.Sincos(theta)
		for i := 0; i < ellipseSegments; i++ {
			t := 2 * math.Pi * float64(i) / ellipseSegments
			ex, ey := rx*math.Cos(t), ry*math.Sin(t)
			x := cx + float32(ex*cos-ey*sin)
			y := cy + float32(ex*sin+ey*cos)
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
	case ShapeTriangle:
		for i, v := range s.Vertices {
			x, y := toPixels(v)
			if i == 0 {
				z.MoveTo(x, y)
			} else {
				z.LineTo(x, y)
			}
		}
	}
	z.ClosePath()
	z.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{})
}

func drawText(dst draw.Image, face font.Face, p Point, text string, class Anchor) {
	if text == "" {
		return
	}
	px, py := toPixels(p)
	x := fixed.Int26_6(math.Round(float64(px) * 64))
	y := fixed.Int26_6(math.Round(float64(py) * 64))

	width := font.MeasureString(face, text)
	switch class.horizontal() {
	case 'r':
		x -= width
	case 'm':
		x -= width / 2
	}

	m := face.Metrics()
	switch class.vertical() {
	case 'b':
		y += m.Ascent
	case 'm':
		y += (m.Ascent - m.Descent) / 2
	}

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.Point26_6{X: x, Y: y},
	}
	d.DrawString(text)
}

func (a Anchor) vertical() byte {
	if len(a) != 2 {
		return 'm'
	}
	return a[0]
}

func (a Anchor) horizontal() byte {
	if len(a) != 2 {
		return 'm'
	}
	return a[1]
}

// ParseColor parses a CSS color in rgba(), rgb() or #rrggbb form.
func ParseColor(s string) (color.NRGBA, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "#") && len(s) == 7:
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
		}
		return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s, s[len("rgba("):len(s)-1], 4)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseFunctional(s, s[len("rgb("):len(s)-1], 3)
	}
	return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
}

func parseFunctional(orig, args string, want int) (color.NRGBA, error) {
	parts := strings.Split(args, ",")
	if len(parts) != want {
		return color.NRGBA{}, fmt.Errorf("invalid color %q", orig)
	}

	var rgb [3]uint8
	for i := 0; i < 3; i++ {
		v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || v < 0 || v > 255 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", orig)
		}
		rgb[i] = uint8(v)
	}

	alpha := 1.0
	if want == 4 {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return color.NRGBA{}, fmt.Errorf("invalid color %q", orig)
		}
		alpha = a
	}

	return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: uint8(math.Round(alpha * 255))}, nil
}
