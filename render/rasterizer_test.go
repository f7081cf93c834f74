// seehuhn.de/go/xyscope - draw pictures on an oscilloscope
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package render

import (
	"math"
	"slices"
	"testing"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

func square(p *path.Data, x0, y0, size float64) *path.Data {
	return p.MoveTo(vec.Vec2{X: x0, Y: y0}).
		LineTo(vec.Vec2{X: x0 + size, Y: y0}).
		LineTo(vec.Vec2{X: x0 + size, Y: y0 + size}).
		LineTo(vec.Vec2{X: x0, Y: y0 + size}).
		Close()
}

// totalCoverage fills p and returns the sum of all coverage values.
func totalCoverage(r *Rasterizer, p *path.Data, rule FillRule) float64 {
	total := 0.0
	r.Fill(p, rule, func(y, xMin int, coverage []float32) {
		for _, c := range coverage {
			total += float64(c)
		}
	})
	return total
}

func TestFillArea(t *testing.T) {
	clip := rect.Rect{URx: 64, URy: 64}
	kappa := 0.5522847498307936
	r := 20.0
	k := r * kappa
	circle := (&path.Data{}).
		MoveTo(vec.Vec2{X: 52, Y: 32}).
		CubeTo(vec.Vec2{X: 52, Y: 32 + k}, vec.Vec2{X: 32 + k, Y: 52}, vec.Vec2{X: 32, Y: 52}).
		CubeTo(vec.Vec2{X: 32 - k, Y: 52}, vec.Vec2{X: 12, Y: 32 + k}, vec.Vec2{X: 12, Y: 32}).
		CubeTo(vec.Vec2{X: 12, Y: 32 - k}, vec.Vec2{X: 32 - k, Y: 12}, vec.Vec2{X: 32, Y: 12}).
		CubeTo(vec.Vec2{X: 32 + k, Y: 12}, vec.Vec2{X: 52, Y: 32 - k}, vec.Vec2{X: 52, Y: 32}).
		Close()

	cases := []struct {
		name string
		path *path.Data
		rule FillRule
		area float64
		tol  float64
	}{
		{"square", square(&path.Data{}, 10, 10, 20), NonZero, 400, 1e-3},
		{"square_offset", square(&path.Data{}, 10.25, 10.5, 20), NonZero, 400, 1e-3},
		{"triangle", (&path.Data{}).
			MoveTo(vec.Vec2{X: 10, Y: 50}).
			LineTo(vec.Vec2{X: 32, Y: 10}).
			LineTo(vec.Vec2{X: 54, Y: 50}).
			Close(), NonZero, 880, 1e-2},
		{"circle", circle, NonZero, math.Pi * r * r, 20},
		{"nested_nonzero", square(square(&path.Data{}, 0, 0, 40), 10, 10, 20), NonZero, 1600, 1e-3},
		{"nested_evenodd", square(square(&path.Data{}, 0, 0, 40), 10, 10, 20), EvenOdd, 1200, 1e-3},
		{"clipped", square(&path.Data{}, -10, 54, 20), NonZero, 100, 1e-3},
		{"outside", square(&path.Data{}, 100, 100, 5), NonZero, 0, 0},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rz := NewRasterizer(clip)
			got := totalCoverage(rz, c.path, c.rule)
			if math.Abs(got-c.area) > c.tol {
				t.Errorf("got area %g, want %g", got, c.area)
			}
		})
	}
}

func TestFillCoverageRange(t *testing.T) {
	rz := NewRasterizer(rect.Rect{URx: 32, URy: 32})
	p := (&path.Data{}).
		MoveTo(vec.Vec2{X: 3.3, Y: 1.7}).
		QuadTo(vec.Vec2{X: 40, Y: 5}, vec.Vec2{X: 20.1, Y: 29.9}).
		LineTo(vec.Vec2{X: 1.2, Y: 17.5}).
		Close()
	for _, rule := range []FillRule{NonZero, EvenOdd} {
		rz.Fill(p, rule, func(y, xMin int, coverage []float32) {
			if y < 0 || y >= 32 || xMin < 0 || xMin+len(coverage) > 32 {
				t.Fatalf("row %d [%d, %d) outside the clip", y, xMin, xMin+len(coverage))
			}
			for _, c := range coverage {
				if c < 0 || c > 1 {
					t.Fatalf("coverage %g out of range", c)
				}
			}
		})
	}
}

func TestFillFlipped(t *testing.T) {
	rz := NewRasterizer(rect.Rect{URx: 10, URy: 10})
	rz.CTM = matrix.Matrix{1, 0, 0, -1, 0, 10}

	// the unit square at the bottom-left corner ends up in the last row
	var rows []int
	rz.Fill(square(&path.Data{}, 0, 0, 1), NonZero, func(y, xMin int, coverage []float32) {
		rows = append(rows, y)
		if xMin != 0 || !slices.Equal(coverage, []float32{1}) {
			t.Errorf("row %d: got %v at %d", y, coverage, xMin)
		}
	})
	if !slices.Equal(rows, []int{9}) {
		t.Errorf("got rows %v, want [9]", rows)
	}
}

func TestIntegrateEvenOdd(t *testing.T) {
	// winding numbers 1, 2, 3, 0
	cover := []float32{1, 1, 1, -3}
	area := []float32{1, 1, 1, -3}
	integrate(cover, area, EvenOdd)
	want := []float32{1, 0, 1, 0}
	if !slices.Equal(cover, want) {
		t.Errorf("got %v, want %v", cover, want)
	}
}

func TestTrimZeros(t *testing.T) {
	row, offset := trimZeros([]float32{0, 0, 0.5, 0, 1, 0})
	if offset != 2 || !slices.Equal(row, []float32{0.5, 0, 1}) {
		t.Errorf("got %v at %d", row, offset)
	}
	if row, _ := trimZeros([]float32{0, 0}); row != nil {
		t.Errorf("got %v for an empty row", row)
	}
}

func BenchmarkFill(b *testing.B) {
	rz := NewRasterizer(rect.Rect{URx: 512, URy: 512})
	p := &path.Data{}
	for i := range 16 {
		p = square(p, float64(i)*31.7, float64(i)*29.3, 40)
	}
	emit := func(y, xMin int, coverage []float32) {}
	for b.Loop() {
		rz.Fill(p, NonZero, emit)
	}
}
