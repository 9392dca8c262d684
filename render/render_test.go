package render

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"

	surface "github.com/kitchenlab/surface"
	"github.com/kitchenlab/surface/svgdom"
)

func TestParsePathData(t *testing.T) {
	tests := []struct {
		name string
		d    string
		want []Contour
	}{
		{
			name: "absolute square",
			d:    "M0 0 L10 0 L10 10 L0 10 Z",
			want: []Contour{{{0, 0}, {10, 0}, {10, 10}, {0, 10}}},
		},
		{
			name: "relative with shorthand",
			d:    "m10 10 h5 v5 h-5 z",
			want: []Contour{{{10, 10}, {15, 10}, {15, 15}, {10, 15}}},
		},
		{
			name: "implicit lineto after moveto",
			d:    "M0 0 10 0 10 10 Z",
			want: []Contour{{{0, 0}, {10, 0}, {10, 10}}},
		},
		{
			name: "comma separated",
			d:    "M1,2L3,4L5,2Z",
			want: []Contour{{{1, 2}, {3, 4}, {5, 2}}},
		},
		{
			name: "two subpaths",
			d:    "M0 0 L4 0 L4 4 Z M10 10 L14 10 L14 14 Z",
			want: []Contour{
				{{0, 0}, {4, 0}, {4, 4}},
				{{10, 10}, {14, 10}, {14, 14}},
			},
		},
		{
			name: "degenerate subpath dropped",
			d:    "M0 0 L5 5 M10 0 L14 0 L14 4 Z",
			want: []Contour{{{10, 0}, {14, 0}, {14, 4}}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePathData(tt.d)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d contours, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if len(got[i]) != len(tt.want[i]) {
					t.Fatalf("contour %d: got %d points, want %d", i, len(got[i]), len(tt.want[i]))
				}
				for j := range got[i] {
					if got[i][j] != tt.want[i][j] {
						t.Errorf("contour %d point %d: got %v, want %v", i, j, got[i][j], tt.want[i][j])
					}
				}
			}
		})
	}
}

func TestParsePathData_CurveEndpoints(t *testing.T) {
	tests := []struct {
		name string
		d    string
		end  Point
	}{
		{"cubic", "M0 0 C0 10 10 10 10 0 L10 -1 Z", Point{10, 0}},
		{"relative cubic", "m0 0 c0 10 10 10 10 0 l0 -1 z", Point{10, 0}},
		{"quadratic", "M0 0 Q5 10 10 0 L10 -1 Z", Point{10, 0}},
		{"smooth cubic", "M0 0 C0 5 5 5 5 0 S10 -5 10 0 L10 -1 Z", Point{10, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParsePathData(tt.d)
			if len(got) != 1 {
				t.Fatalf("got %d contours, want 1", len(got))
			}
			c := got[0]
			found := false
			for _, p := range c {
				if math.Abs(p.X-tt.end.X) < 1e-9 && math.Abs(p.Y-tt.end.Y) < 1e-9 {
					found = true
				}
			}
			if !found {
				t.Errorf("flattened contour misses curve endpoint %v: %v", tt.end, c)
			}
			if len(c) < 4 {
				t.Errorf("curve not flattened into segments: %d points", len(c))
			}
		})
	}
}

func TestParsePathData_CurveWithinTolerance(t *testing.T) {
	// A flattened quarter-ish arc must stay close to the true curve; spot
	// check that the midpoint region of the polyline reaches the curve's
	// extremum within tolerance.
	got := ParsePathData("M0 0 Q5 10 10 0 L5 -1 Z")
	if len(got) != 1 {
		t.Fatalf("got %d contours", len(got))
	}
	maxY := 0.0
	for _, p := range got[0] {
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	// The quadratic's apex is at y=5.
	if math.Abs(maxY-5) > 1 {
		t.Errorf("apex of flattened curve = %v, want about 5", maxY)
	}
}

func TestMatrix(t *testing.T) {
	m := Translate(10, 20).Mul(Scale(2, 3))
	got := m.Apply(Point{1, 1})
	if got != (Point{12, 23}) {
		t.Errorf("Apply = %v, want {12 23}", got)
	}

	inv := m.Invert()
	back := inv.Apply(got)
	if math.Abs(back.X-1) > 1e-9 || math.Abs(back.Y-1) > 1e-9 {
		t.Errorf("Invert round trip = %v, want {1 1}", back)
	}
}

func TestParseTransform(t *testing.T) {
	tests := []struct {
		name string
		s    string
		in   Point
		want Point
	}{
		{"translate", "translate(10, 20)", Point{1, 1}, Point{11, 21}},
		{"translate single arg", "translate(5)", Point{1, 1}, Point{6, 1}},
		{"scale uniform", "scale(2)", Point{3, 4}, Point{6, 8}},
		{"scale xy", "scale(2 3)", Point{1, 1}, Point{2, 3}},
		{"matrix", "matrix(2 0 0 2 5 6)", Point{1, 1}, Point{7, 8}},
		{"composed", "translate(10,0) scale(2)", Point{1, 0}, Point{12, 0}},
		{"unknown ignored", "rotate(45) translate(1,1)", Point{0, 0}, Point{1, 1}},
		{"empty", "", Point{3, 4}, Point{3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTransform(tt.s).Apply(tt.in)
			if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Y-tt.want.Y) > 1e-9 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFillContours_Square(t *testing.T) {
	dst := NewPixmap(10, 10)
	red := surface.RGBA{R: 1, A: 1}
	FillContours(dst, []Contour{rectContour(2, 2, 6, 6)}, NonZero, SolidBrush{Color: red})

	if got := dst.GetPixel(5, 5); got != red {
		t.Errorf("inside pixel = %v, want red", got)
	}
	if got := dst.GetPixel(2, 2); got != red {
		t.Errorf("edge pixel (2,2) = %v, want red", got)
	}
	if got := dst.GetPixel(0, 0); got.A != 0 {
		t.Errorf("outside pixel = %v, want transparent", got)
	}
	if got := dst.GetPixel(8, 8); got.A != 0 {
		t.Errorf("pixel past right edge = %v, want transparent", got)
	}
}

func TestFillContours_FillRules(t *testing.T) {
	// Outer and inner square wound the same way: non-zero fills the ring
	// and the middle, even-odd leaves a hole.
	contours := []Contour{rectContour(0, 0, 10, 10), rectContour(3, 3, 4, 4)}
	red := surface.RGBA{R: 1, A: 1}

	nz := NewPixmap(10, 10)
	FillContours(nz, contours, NonZero, SolidBrush{Color: red})
	if got := nz.GetPixel(5, 5); got != red {
		t.Errorf("non-zero middle = %v, want filled", got)
	}

	eo := NewPixmap(10, 10)
	FillContours(eo, contours, EvenOdd, SolidBrush{Color: red})
	if got := eo.GetPixel(5, 5); got.A != 0 {
		t.Errorf("even-odd middle = %v, want hole", got)
	}
	if got := eo.GetPixel(1, 1); got != red {
		t.Errorf("even-odd ring = %v, want filled", got)
	}
}

func TestTileBrush_Wraps(t *testing.T) {
	cell := NewPixmap(2, 2)
	a := surface.RGBA{R: 1, A: 1}
	b := surface.RGBA{B: 1, A: 1}
	cell.SetPixel(0, 0, a)
	cell.SetPixel(1, 0, b)
	cell.SetPixel(0, 1, b)
	cell.SetPixel(1, 1, a)

	brush := TileBrush{Cell: cell}
	tests := []struct {
		p    Point
		want surface.RGBA
	}{
		{Point{0.5, 0.5}, a},
		{Point{1.5, 0.5}, b},
		{Point{2.5, 2.5}, a},
		{Point{-0.5, 0.5}, b},  // wraps to cell x=1
		{Point{-1.5, -1.5}, a}, // wraps to cell (0,0)
	}
	for _, tt := range tests {
		if got := brush.ColorAt(tt.p); got != tt.want {
			t.Errorf("ColorAt(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func mustParse(t *testing.T, svg string) *svgdom.Document {
	t.Helper()
	doc, err := svgdom.Parse(strings.NewReader(svg))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestRender_FlatFill(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 10 10">
		<rect x="0" y="0" width="10" height="10" fill="#ff0000"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 20, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	want := surface.Hex("#ff0000")
	if got := pm.GetPixel(10, 10); got != want {
		t.Errorf("center pixel = %v, want %v", got, want)
	}
	if got := pm.GetPixel(1, 1); got != want {
		t.Errorf("corner pixel = %v, want %v", got, want)
	}
}

func TestRender_GroupTransformAndInheritedFill(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 20 20">
		<g fill="#00ff00" transform="translate(10,10)">
			<rect width="10" height="10"/>
		</g>
	</svg>`)

	pm, err := Render(doc, Options{Width: 20, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	green := surface.Hex("#00ff00")
	if got := pm.GetPixel(15, 15); got != green {
		t.Errorf("translated rect pixel = %v, want green", got)
	}
	if got := pm.GetPixel(5, 5); got.A != 0 {
		t.Errorf("outside translated rect = %v, want transparent", got)
	}
}

func TestRender_FillNoneAndDisplayNone(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 10 10">
		<rect width="10" height="10" fill="none"/>
		<rect width="10" height="10" style="display:none" fill="#ff0000"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := pm.GetPixel(5, 5); got.A != 0 {
		t.Errorf("pixel = %v, want untouched", got)
	}
}

func TestRender_DefaultBlackFill(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 10 10">
		<rect width="10" height="10"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 10, Height: 10})
	if err != nil {
		t.Fatal(err)
	}
	if got := pm.GetPixel(5, 5); got != (surface.RGBA{A: 1}) {
		t.Errorf("pixel = %v, want opaque black", got)
	}
}

func TestRender_Background(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 10 10"></svg>`)

	pm, err := Render(doc, Options{Width: 4, Height: 4, Background: surface.Hex("#ffffff")})
	if err != nil {
		t.Fatal(err)
	}
	if got := pm.GetPixel(0, 0); got != surface.Hex("#ffffff") {
		t.Errorf("background pixel = %v, want white", got)
	}
}

func TestRender_RectPattern(t *testing.T) {
	// A 4x4 cell: base green with a navy top row, tiled over an 8x8 rect
	// rendered 1:1.
	doc := mustParse(t, `<svg viewBox="0 0 8 8">
		<defs>
			<pattern id="p" patternUnits="userSpaceOnUse" width="4" height="4">
				<rect width="4" height="4" fill="#00ff00"/>
				<rect width="4" height="1" fill="#000080"/>
			</pattern>
		</defs>
		<rect width="8" height="8" fill="url(#p)"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	navy := surface.Hex("#000080")
	green := surface.Hex("#00ff00")
	tests := []struct {
		x, y int
		want surface.RGBA
	}{
		{0, 0, navy},
		{0, 2, green},
		{5, 4, navy}, // second tile, top row
		{5, 6, green},
	}
	for _, tt := range tests {
		if got := pm.GetPixel(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestRender_ImagePattern(t *testing.T) {
	// 2x1 tile: red pixel then blue pixel, embedded as a data URI the way
	// the compositor embeds texture tiles.
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	img.Set(1, 0, color.RGBA{B: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	doc := mustParse(t, `<svg viewBox="0 0 4 4">
		<defs>
			<pattern id="tile" patternUnits="userSpaceOnUse" width="2" height="1">
				<image href="`+uri+`" width="2" height="1"/>
			</pattern>
		</defs>
		<rect width="4" height="4" fill="url(#tile)"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	red := surface.RGBA{R: 1, A: 1}
	blue := surface.RGBA{B: 1, A: 1}
	if got := pm.GetPixel(0, 0); got != red {
		t.Errorf("pixel (0,0) = %v, want red", got)
	}
	if got := pm.GetPixel(1, 0); got != blue {
		t.Errorf("pixel (1,0) = %v, want blue", got)
	}
	if got := pm.GetPixel(2, 3); got != red {
		t.Errorf("pixel (2,3) = %v, want red (wrapped)", got)
	}
}

func TestRender_UnresolvablePatternSkipsElement(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 4 4">
		<rect width="4" height="4" fill="url(#missing)"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 4, Height: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := pm.GetPixel(2, 2); got.A != 0 {
		t.Errorf("pixel = %v, want untouched", got)
	}
}

func TestRender_ViewportCentering(t *testing.T) {
	// A 10x5 viewport in a 20x20 target scales by 2 and centers
	// vertically: rows 0..4 and 15..19 stay untouched.
	doc := mustParse(t, `<svg viewBox="0 0 10 5">
		<rect width="10" height="5" fill="#336699"/>
	</svg>`)

	pm, err := Render(doc, Options{Width: 20, Height: 20})
	if err != nil {
		t.Fatal(err)
	}
	want := surface.Hex("#336699")
	if got := pm.GetPixel(10, 10); got != want {
		t.Errorf("center = %v, want %v", got, want)
	}
	if got := pm.GetPixel(10, 2); got.A != 0 {
		t.Errorf("above letterbox = %v, want transparent", got)
	}
	if got := pm.GetPixel(10, 18); got.A != 0 {
		t.Errorf("below letterbox = %v, want transparent", got)
	}
}

func TestPixmap_EncodePNG(t *testing.T) {
	pm := NewPixmap(3, 2)
	pm.Clear(surface.Hex("#abcdef"))

	var buf bytes.Buffer
	if err := pm.EncodePNG(&buf); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("decoded size = %dx%d, want 3x2", b.Dx(), b.Dy())
	}
}

func TestPixmap_BlendPixel(t *testing.T) {
	pm := NewPixmap(1, 1)
	pm.SetPixel(0, 0, surface.RGBA{R: 1, A: 1})
	pm.BlendPixel(0, 0, surface.RGBA{B: 1, A: 0.5})

	got := pm.GetPixel(0, 0)
	if math.Abs(got.R-0.5) > 0.01 || math.Abs(got.B-0.5) > 0.01 {
		t.Errorf("blended pixel = %v, want half red half blue", got)
	}
	if got.A < 0.99 {
		t.Errorf("alpha = %v, want opaque", got.A)
	}
}
