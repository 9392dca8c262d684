package render

import (
	"strconv"
	"strings"
)

// Point is a 2D point in user space.
type Point struct {
	X, Y float64
}

// Matrix is a 2D affine transform in row-major order:
//
//	| A  B  C |
//	| D  E  F |
//
// representing x' = A*x + B*y + C, y' = D*x + E*y + F.
type Matrix struct {
	A, B, C float64
	D, E, F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, E: 1}
}

// Translate creates a translation matrix.
func Translate(x, y float64) Matrix {
	return Matrix{A: 1, C: x, E: 1, F: y}
}

// Scale creates a scaling matrix.
func Scale(x, y float64) Matrix {
	return Matrix{A: x, E: y}
}

// Mul returns m * n (n applied first).
func (m Matrix) Mul(n Matrix) Matrix {
	return Matrix{
		A: m.A*n.A + m.B*n.D,
		B: m.A*n.B + m.B*n.E,
		C: m.A*n.C + m.B*n.F + m.C,
		D: m.D*n.A + m.E*n.D,
		E: m.D*n.B + m.E*n.E,
		F: m.D*n.C + m.E*n.F + m.F,
	}
}

// Apply transforms a point.
func (m Matrix) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.B*p.Y + m.C,
		Y: m.D*p.X + m.E*p.Y + m.F,
	}
}

// Invert returns the inverse transform. Singular matrices return
// identity; the illustrations never use degenerate transforms.
func (m Matrix) Invert() Matrix {
	det := m.A*m.E - m.B*m.D
	if det == 0 {
		return Identity()
	}
	inv := 1 / det
	return Matrix{
		A: m.E * inv,
		B: -m.B * inv,
		C: (m.B*m.F - m.E*m.C) * inv,
		D: -m.D * inv,
		E: m.A * inv,
		F: (m.D*m.C - m.A*m.F) * inv,
	}
}

// ParseTransform parses an SVG transform attribute supporting the forms
// the illustrations use: translate, scale and matrix. Unknown functions
// are ignored. Multiple functions compose left to right.
func ParseTransform(s string) Matrix {
	m := Identity()
	for {
		open := strings.IndexByte(s, '(')
		if open < 0 {
			break
		}
		close := strings.IndexByte(s, ')')
		if close < open {
			break
		}
		name := strings.TrimSpace(s[:open])
		args := parseNumberList(s[open+1 : close])
		s = s[close+1:]

		switch {
		case name == "translate" && len(args) >= 1:
			ty := 0.0
			if len(args) >= 2 {
				ty = args[1]
			}
			m = m.Mul(Translate(args[0], ty))
		case name == "scale" && len(args) >= 1:
			sy := args[0]
			if len(args) >= 2 {
				sy = args[1]
			}
			m = m.Mul(Scale(args[0], sy))
		case name == "matrix" && len(args) == 6:
			// SVG order: matrix(a b c d e f) is column-major.
			m = m.Mul(Matrix{A: args[0], B: args[2], C: args[4], D: args[1], E: args[3], F: args[5]})
		}
	}
	return m
}

// parseNumberList splits a comma/space separated list of numbers.
func parseNumberList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
