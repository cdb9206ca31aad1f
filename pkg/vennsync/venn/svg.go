package venn

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"sort"
	"strconv"

	"github.com/ukaji3/vennsync/pkg/vennsync/models"
)

const svgStyle = `  <style>
    text {
      font-size: 14pt;
      fill: black;
      font-family: "Noto Sans", "Go", sans-serif;
      text-anchor: middle;
      dominant-baseline: middle;
    }
    .tl { text-anchor: start; dominant-baseline: auto; }
    .tr { text-anchor: end; dominant-baseline: auto; }
    .tm { dominant-baseline: auto; }
    .bl { text-anchor: start; dominant-baseline: hanging; }
    .br { text-anchor: end; dominant-baseline: hanging; }
    .bm { dominant-baseline: hanging; }
    .ml { text-anchor: start; }
    .mr { text-anchor: end; }
  </style>
`

// SVG renders spec as a 600x600 SVG document.
func SVG(spec models.DiagramSpec) ([]byte, error) {
	layout, err := layoutFor(spec)
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg width="%d" height="%d" viewBox="0 0 %d %d" xmlns="http://www.w3.org/2000/svg">`+"\n",
		CanvasWidth, CanvasHeight, ViewBoxSize, ViewBoxSize)
	b.WriteString(svgStyle)

	for i, s := range layout.Shapes {
		writeShape(&b, s, spec.Colors[i])
	}
	for _, code := range sortedCodes(layout.Regions) {
		writeText(&b, layout.Regions[code], spec.Labels[code], AnchorCenter)
	}
	for i, name := range layout.Names {
		writeText(&b, name.Point, spec.Groups[i], name.Class)
	}

	b.WriteString("</svg>\n")
	return b.Bytes(), nil
}

func writeShape(b *bytes.Buffer, s Shape, color string) {
	switch s.Kind {
	case ShapeEllipse:
		var rotate string
		if s.Rotation != 0 {
			rotate = fmt.Sprintf(` transform="rotate(%s)"`, num(-s.Rotation))
		}
		fmt.Fprintf(b, `  <g transform="translate(%s,%s)"><ellipse rx="%s" ry="%s" fill="%s"%s/></g>`+"\n",
			num(s.Center.X), num(flipY(s.Center.Y)), num(s.Width/2), num(s.Height/2), escape(color), rotate)
	case ShapeTriangle:
		v := s.Vertices
		fmt.Fprintf(b, `  <path d="M%s,%sL%s,%sL%s,%sZ" fill="%s"/>`+"\n",
			num(v[0].X), num(flipY(v[0].Y)), num(v[1].X), num(flipY(v[1].Y)), num(v[2].X), num(flipY(v[2].Y)),
			escape(color))
	}
}

func writeText(b *bytes.Buffer, p Point, text string, class Anchor) {
	var cls string
	if class != AnchorCenter {
		cls = fmt.Sprintf(` class="%s"`, class)
	}
	fmt.Fprintf(b, `  <text x="%s" y="%s"%s>%s</text>`+"\n", num(p.X), num(flipY(p.Y)), cls, escape(text))
}

func flipY(y float64) float64 {
	return ViewBoxSize - y
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func sortedCodes(regions map[uint]Point) []uint {
	codes := make([]uint, 0, len(regions))
	for code := range regions {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	return codes
}
