package venn

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/vennsync/pkg/vennsync/models"
	"github.com/ukaji3/vennsync/pkg/vennsync/partition"
)

func specFor(t *testing.T, n int, format string) models.DiagramSpec {
	t.Helper()
	var rows []partition.Membership
	for i := 0; i < n; i++ {
		rows = append(rows, partition.Membership{Item: fmt.Sprintf("item%d", i), Group: fmt.Sprintf("G%d", i)})
		rows = append(rows, partition.Membership{Item: "shared", Group: fmt.Sprintf("G%d", i)})
	}
	p, err := partition.Compute(rows)
	require.NoError(t, err)
	return NewSpec(p, partition.Labels(p, format), nil)
}

func TestSVG(t *testing.T) {
	for n := partition.MinSets; n <= partition.MaxSets; n++ {
		svg, err := SVG(specFor(t, n, "{logic}"))
		require.NoError(t, err, "n=%d", n)

		doc := string(svg)
		assert.True(t, strings.HasPrefix(doc, `<svg width="600" height="600" viewBox="0 0 1000 1000"`), "n=%d", n)

		shape := "<ellipse"
		if n == 6 {
			shape = "<path"
		}
		assert.Equal(t, n, strings.Count(doc, shape), "n=%d shapes", n)
		assert.Equal(t, 1<<n-1+n, strings.Count(doc, "<text "), "n=%d texts", n)
		assert.Contains(t, doc, ">"+strings.Repeat("1", n)+"</text>", "n=%d", n)

		var v struct{}
		assert.NoError(t, xml.Unmarshal(svg, &v), "n=%d: not well-formed", n)
	}
}

func TestSVGTwoSets(t *testing.T) {
	p := models.GroupPartition{
		Groups:     []string{"G1", "G2"},
		Counts:     map[uint]int{0b10: 1, 0b11: 1, 0b01: 1},
		TotalItems: 3,
	}
	svg, err := SVG(NewSpec(p, partition.Labels(p, "{percent}"), nil))
	require.NoError(t, err)

	doc := string(svg)
	assert.Contains(t, doc, `<g transform="translate(375,700)"><ellipse rx="250" ry="250" fill="rgba(92, 192, 98, 0.5)"/></g>`)
	assert.Contains(t, doc, `<text x="740" y="700">33.3</text>`)
	assert.Contains(t, doc, `<text x="200" y="440" class="br">G1</text>`)
	assert.Contains(t, doc, `<text x="800" y="440" class="bl">G2</text>`)
}

func TestSVGEscapesText(t *testing.T) {
	p := models.GroupPartition{
		Groups:     []string{"<a>", "b & c"},
		Counts:     map[uint]int{0b11: 1},
		TotalItems: 1,
	}
	svg, err := SVG(NewSpec(p, partition.Labels(p, ""), nil))
	require.NoError(t, err)
	assert.Contains(t, string(svg), "&lt;a&gt;")
	assert.Contains(t, string(svg), "b &amp; c")
}

func TestSVGRotation(t *testing.T) {
	svg, err := SVG(specFor(t, 4, ""))
	require.NoError(t, err)
	assert.Contains(t, string(svg), `transform="rotate(-140)"`)
}

func TestSpecMismatch(t *testing.T) {
	spec := models.DiagramSpec{Groups: []string{"A"}, SetCount: 2, Colors: DefaultColors}
	_, err := SVG(spec)
	assert.True(t, errors.Is(err, ErrSpecMismatch))

	err = PNG(spec, &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrSpecMismatch))
}

func TestPNG(t *testing.T) {
	for _, n := range []int{2, 5, 6} {
		var buf bytes.Buffer
		require.NoError(t, PNG(specFor(t, n, ""), &buf), "n=%d", n)

		cfg, err := png.DecodeConfig(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		assert.Equal(t, CanvasWidth, cfg.Width)
		assert.Equal(t, CanvasHeight, cfg.Height)
	}
}

func TestPNGFillsShapes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PNG(specFor(t, 2, ""), &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)

	// Inside the first ellipse only, away from any label.
	_, _, _, a := img.At(int(180*pixelScale), int(800*pixelScale)).RGBA()
	assert.NotZero(t, a)
	// Canvas corner stays transparent.
	_, _, _, a = img.At(2, 2).RGBA()
	assert.Zero(t, a)
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		input    string
		expected [4]uint8
	}{
		{"rgba(92, 192, 98, 0.5)", [4]uint8{92, 192, 98, 128}},
		{"rgb(1,2,3)", [4]uint8{1, 2, 3, 255}},
		{"#0a0B0c", [4]uint8{10, 11, 12, 255}},
		{" rgba(0, 0, 0, 0) ", [4]uint8{0, 0, 0, 0}},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.input)
		if assert.NoError(t, err, tt.input) {
			assert.Equal(t, tt.expected, [4]uint8{c.R, c.G, c.B, c.A}, tt.input)
		}
	}

	for _, bad := range []string{"", "red", "#12345", "rgba(1,2,3)", "rgb(256,0,0)", "rgba(1,2,3,1.5)"} {
		_, err := ParseColor(bad)
		assert.Error(t, err, bad)
	}
}

func TestGenerate(t *testing.T) {
	rows := [][]string{
		{"x", "G1"},
		{"y", "G1"},
		{"y", "G2"},
		{"z", "G2"},
		{"", ""},
	}
	r, err := Generate(rows, Options{LabelFormat: "{number}"})
	require.NoError(t, err)
	assert.Equal(t, []string{"G1", "G2"}, r.Spec.Groups)
	assert.Equal(t, map[uint]string{1: "1", 2: "1", 3: "1"}, r.Spec.Labels)
	assert.NotEmpty(t, r.SVG)
	assert.NotEmpty(t, r.PNG)

	_, err = Generate([][]string{{"x", "only"}}, Options{})
	var sce *partition.UnsupportedSetCountError
	assert.ErrorAs(t, err, &sce)
}
