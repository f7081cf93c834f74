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

package testcases

import (
	"math"

	"seehuhn.de/go/geom/path"
)

// All contains the test pictures.
var All = []Picture{
	{
		Name:   "blank",
		Path:   &path.Data{},
		Width:  32,
		Height: 24,
	},
	{
		Name:   "rectangle",
		Path:   rectangle(&path.Data{}, 10, 10, 44, 44),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "triangle",
		Path:   triangle(10, 14, 32, 54, 54, 14),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "star",
		Path:   star(32, 32, 25, 0),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "circle",
		Path:   circle(&path.Data{}, 32, 32, 20),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "ring",
		Path:   circle(circle(&path.Data{}, 40, 30, 24), 40, 30, 12),
		Width:  80,
		Height: 60,
	},
	{
		Name:   "glyph",
		Path:   glyph(),
		Width:  64,
		Height: 64,
	},
	{
		Name:   "grid",
		Path:   grid(6, 8, 96, 72, 3),
		Width:  96,
		Height: 72,
	},
	{
		Name:   "edge_touching",
		Path:   rectangle(&path.Data{}, 0, 0, 16, 12),
		Width:  16,
		Height: 12,
	},
}

// Spinner returns n frames of a five-pointed star which turns once
// around its centre.
func Spinner(n, size int) []Picture {
	res := make([]Picture, n)
	s := float64(size)
	for i := range res {
		res[i] = Picture{
			Name:   "spinner",
			Path:   star(s/2, s/2, 0.4*s, 2*math.Pi*float64(i)/float64(n)),
			Width:  size,
			Height: size,
		}
	}
	return res
}

// rectangle appends an axis-parallel rectangle to p.
func rectangle(p *path.Data, x1, y1, x2, y2 float64) *path.Data {
	return p.
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x1, y2)).
		Close()
}

func triangle(x1, y1, x2, y2, x3, y3 float64) *path.Data {
	return (&path.Data{}).
		MoveTo(pt(x1, y1)).
		LineTo(pt(x2, y2)).
		LineTo(pt(x3, y3)).
		Close()
}

// star builds a self-intersecting five-pointed star, rotated by the given
// angle.  Under the even-odd rule the centre pentagon stays light.
func star(cx, cy, r, angle float64) *path.Data {
	p := &path.Data{}
	for k := range 5 {
		// connect every second point
		phi := angle + math.Pi/2 + float64(2*k%5)*2*math.Pi/5
		q := pt(cx+r*math.Cos(phi), cy+r*math.Sin(phi))
		if k == 0 {
			p = p.MoveTo(q)
		} else {
			p = p.LineTo(q)
		}
	}
	return p.Close()
}

// circle appends an approximate circle, made from four cubic Bézier
// curves, to p.
func circle(p *path.Data, cx, cy, r float64) *path.Data {
	k := r * kappa
	return p.
		MoveTo(pt(cx+r, cy)).
		CubeTo(pt(cx+r, cy+k), pt(cx+k, cy+r), pt(cx, cy+r)).
		CubeTo(pt(cx-k, cy+r), pt(cx-r, cy+k), pt(cx-r, cy)).
		CubeTo(pt(cx-r, cy-k), pt(cx-k, cy-r), pt(cx, cy-r)).
		CubeTo(pt(cx+k, cy-r), pt(cx+r, cy-k), pt(cx+r, cy)).
		Close()
}

// glyph builds a shape resembling a lowercase 'a': a bowl with a counter
// and a stem with a curved hook.
func glyph() *path.Data {
	p := circle(&path.Data{}, 28, 24, 16)
	p = circle(p, 28, 24, 7)
	return p.
		MoveTo(pt(46, 8)).
		LineTo(pt(54, 8)).
		LineTo(pt(54, 40)).
		QuadTo(pt(54, 56), pt(38, 56)).
		LineTo(pt(16, 56)).
		LineTo(pt(16, 49)).
		LineTo(pt(38, 49)).
		QuadTo(pt(46, 49), pt(46, 40)).
		Close()
}

// grid builds rows×cols rectangles which fill the given area, separated
// by gaps of the given width.
func grid(rows, cols, width, height int, gap float64) *path.Data {
	p := &path.Data{}
	cw := float64(width) / float64(cols)
	ch := float64(height) / float64(rows)
	for i := range rows {
		for j := range cols {
			x := float64(j) * cw
			y := float64(i) * ch
			p = rectangle(p, x+gap/2, y+gap/2, x+cw-gap/2, y+ch-gap/2)
		}
	}
	return p
}
