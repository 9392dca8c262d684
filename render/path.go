package render

import (
	"math"
	"strconv"
)

// flattenTolerance is the maximum distance a flattened segment may
// deviate from the true curve, in user units.
const flattenTolerance = 0.25

// Contour is one closed outline in user space.
type Contour []Point

// ParsePathData converts an SVG path data string into contours, with
// curves flattened to line segments. Arc commands are approximated by a
// straight segment to their endpoint; the kitchen artwork does not use
// arcs, but a stray one must not derail the walk.
func ParsePathData(d string) []Contour {
	p := pathScanner{data: d}
	var contours []Contour
	var cur Contour
	var pos, start, prevCtrl Point
	var prevCmd byte

	flush := func() {
		if len(cur) >= 3 {
			contours = append(contours, cur)
		}
		cur = nil
	}

	for {
		cmd, ok := p.command()
		if !ok {
			break
		}
		rel := cmd >= 'a'
		upper := cmd &^ 0x20

		switch upper {
		case 'M':
			x, y, ok := p.pair()
			if !ok {
				break
			}
			flush()
			pos = applyRel(rel, pos, x, y)
			start = pos
			cur = append(cur, pos)
			// Additional pairs after a moveto are implicit linetos.
			for {
				x, y, ok := p.pair()
				if !ok {
					break
				}
				pos = applyRel(rel, pos, x, y)
				cur = append(cur, pos)
			}

		case 'L':
			for {
				x, y, ok := p.pair()
				if !ok {
					break
				}
				pos = applyRel(rel, pos, x, y)
				cur = append(cur, pos)
			}

		case 'H':
			for {
				x, ok := p.number()
				if !ok {
					break
				}
				if rel {
					pos.X += x
				} else {
					pos.X = x
				}
				cur = append(cur, pos)
			}

		case 'V':
			for {
				y, ok := p.number()
				if !ok {
					break
				}
				if rel {
					pos.Y += y
				} else {
					pos.Y = y
				}
				cur = append(cur, pos)
			}

		case 'C':
			for {
				x1, y1, ok := p.pair()
				if !ok {
					break
				}
				x2, y2, ok := p.pair()
				if !ok {
					break
				}
				x, y, ok := p.pair()
				if !ok {
					break
				}
				c1 := applyRel(rel, pos, x1, y1)
				c2 := applyRel(rel, pos, x2, y2)
				end := applyRel(rel, pos, x, y)
				cur = flattenCubic(cur, pos, c1, c2, end)
				prevCtrl = c2
				pos = end
			}

		case 'S':
			for {
				x2, y2, ok := p.pair()
				if !ok {
					break
				}
				x, y, ok := p.pair()
				if !ok {
					break
				}
				c1 := pos
				if prevCmd == 'C' || prevCmd == 'S' {
					c1 = reflect(pos, prevCtrl)
				}
				c2 := applyRel(rel, pos, x2, y2)
				end := applyRel(rel, pos, x, y)
				cur = flattenCubic(cur, pos, c1, c2, end)
				prevCtrl = c2
				pos = end
			}

		case 'Q':
			for {
				x1, y1, ok := p.pair()
				if !ok {
					break
				}
				x, y, ok := p.pair()
				if !ok {
					break
				}
				ctrl := applyRel(rel, pos, x1, y1)
				end := applyRel(rel, pos, x, y)
				cur = flattenQuadratic(cur, pos, ctrl, end)
				prevCtrl = ctrl
				pos = end
			}

		case 'T':
			for {
				x, y, ok := p.pair()
				if !ok {
					break
				}
				ctrl := pos
				if prevCmd == 'Q' || prevCmd == 'T' {
					ctrl = reflect(pos, prevCtrl)
				}
				end := applyRel(rel, pos, x, y)
				cur = flattenQuadratic(cur, pos, ctrl, end)
				prevCtrl = ctrl
				pos = end
			}

		case 'A':
			for {
				// rx ry rot large sweep x y
				if _, ok := p.number(); !ok {
					break
				}
				p.number()
				p.number()
				p.number()
				p.number()
				x, ok := p.number()
				if !ok {
					break
				}
				y, ok2 := p.number()
				if !ok2 {
					break
				}
				pos = applyRel(rel, pos, x, y)
				cur = append(cur, pos)
			}

		case 'Z':
			pos = start
			flush()
		}
		prevCmd = upper
	}
	flush()
	return contours
}

func applyRel(rel bool, pos Point, x, y float64) Point {
	if rel {
		return Point{X: pos.X + x, Y: pos.Y + y}
	}
	return Point{X: x, Y: y}
}

func reflect(pos, ctrl Point) Point {
	return Point{X: 2*pos.X - ctrl.X, Y: 2*pos.Y - ctrl.Y}
}

// flattenCubic appends a cubic Bezier as line segments, subdividing
// recursively until the control points are within tolerance of the chord.
func flattenCubic(out Contour, p0, p1, p2, p3 Point) Contour {
	d1 := distanceToLine(p1, p0, p3)
	d2 := distanceToLine(p2, p0, p3)
	if d1 < flattenTolerance && d2 < flattenTolerance {
		return append(out, p3)
	}
	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	q2 := lerp(p2, p3, 0.5)
	r0 := lerp(q0, q1, 0.5)
	r1 := lerp(q1, q2, 0.5)
	s := lerp(r0, r1, 0.5)
	out = flattenCubic(out, p0, q0, r0, s)
	return flattenCubic(out, s, r1, q2, p3)
}

// flattenQuadratic appends a quadratic Bezier as line segments.
func flattenQuadratic(out Contour, p0, p1, p2 Point) Contour {
	if distanceToLine(p1, p0, p2) < flattenTolerance {
		return append(out, p2)
	}
	q0 := lerp(p0, p1, 0.5)
	q1 := lerp(p1, p2, 0.5)
	s := lerp(q0, q1, 0.5)
	out = flattenQuadratic(out, p0, q0, s)
	return flattenQuadratic(out, s, q1, p2)
}

func lerp(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

// distanceToLine returns the distance from p to the line through a and b.
func distanceToLine(p, a, b Point) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l := math.Hypot(dx, dy)
	if l == 0 {
		return math.Hypot(p.X-a.X, p.Y-a.Y)
	}
	return math.Abs((p.X-a.X)*dy-(p.Y-a.Y)*dx) / l
}

// ellipseContour approximates an ellipse with line segments.
func ellipseContour(cx, cy, rx, ry float64) Contour {
	const segments = 64
	out := make(Contour, 0, segments)
	for i := 0; i < segments; i++ {
		t := 2 * math.Pi * float64(i) / segments
		out = append(out, Point{X: cx + rx*math.Cos(t), Y: cy + ry*math.Sin(t)})
	}
	return out
}

// rectContour builds a rectangle outline.
func rectContour(x, y, w, h float64) Contour {
	return Contour{
		{X: x, Y: y},
		{X: x + w, Y: y},
		{X: x + w, Y: y + h},
		{X: x, Y: y + h},
	}
}

// pointsContour parses a polygon/polyline points attribute.
func pointsContour(s string) Contour {
	nums := parseNumberList(s)
	out := make(Contour, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		out = append(out, Point{X: nums[i], Y: nums[i+1]})
	}
	return out
}

// pathScanner tokenizes SVG path data.
type pathScanner struct {
	data string
	pos  int
}

func (p *pathScanner) skipSeparators() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ' ' || c == ',' || c == '\t' || c == '\n' || c == '\r' {
			p.pos++
			continue
		}
		return
	}
}

// command returns the next command letter. Implicit command repetition is
// handled by the caller looping on pair()/number() until they fail.
func (p *pathScanner) command() (byte, bool) {
	p.skipSeparators()
	if p.pos >= len(p.data) {
		return 0, false
	}
	c := p.data[p.pos]
	if (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') {
		p.pos++
		return c, true
	}
	// A number where a command is expected: malformed enough to stop.
	return 0, false
}

func (p *pathScanner) number() (float64, bool) {
	p.skipSeparators()
	start := p.pos
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
		p.pos++
	}
	digits := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			digits = true
			p.pos++
			continue
		}
		if c == '.' {
			p.pos++
			continue
		}
		if (c == 'e' || c == 'E') && digits {
			p.pos++
			if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
				p.pos++
			}
			continue
		}
		break
	}
	if !digits {
		p.pos = start
		return 0, false
	}
	v, err := strconv.ParseFloat(p.data[start:p.pos], 64)
	if err != nil {
		p.pos = start
		return 0, false
	}
	return v, true
}

func (p *pathScanner) pair() (float64, float64, bool) {
	save := p.pos
	x, ok := p.number()
	if !ok {
		return 0, 0, false
	}
	y, ok := p.number()
	if !ok {
		p.pos = save
		return 0, 0, false
	}
	return x, y, true
}
