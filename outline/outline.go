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

// Package outline represents traced vector outlines and samples points
// along them.
//
// The number of points taken from an outline is controlled by a single
// density: each segment of length L contributes floor(L*density) points,
// spread evenly over the segment's curve parameter.  The point count never
// decreases when the density grows.
package outline

import (
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// Outline is a vector outline made of straight lines and Bézier curves.
type Outline struct {
	// Path holds the geometry.  It must not be modified after the first
	// call to one of the methods below.
	Path *path.Data

	segs  []segment
	ready bool
}

// New returns an Outline for the given path.
func New(p *path.Data) *Outline {
	if p == nil {
		p = &path.Data{}
	}
	return &Outline{Path: p}
}

type segmentKind uint8

const (
	segLine segmentKind = iota
	segQuad
	segCube
)

// segment is a single drawing command with its start point made explicit.
type segment struct {
	kind   segmentKind
	p      [4]vec.Vec2 // start point, control points, end point
	length float64
}

// end returns the end point of the segment.
func (s *segment) end() vec.Vec2 {
	return s.p[s.kind+1]
}

// at evaluates the segment at curve parameter t in [0, 1].
func (s *segment) at(t float64) vec.Vec2 {
	omt := 1 - t
	switch s.kind {
	case segQuad:
		// B(t) = (1-t)²P0 + 2(1-t)tP1 + t²P2
		return s.p[0].Mul(omt * omt).Add(s.p[1].Mul(2 * omt * t)).Add(s.p[2].Mul(t * t))
	case segCube:
		// B(t) = (1-t)³P0 + 3(1-t)²tP1 + 3(1-t)t²P2 + t³P3
		omt2 := omt * omt
		t2 := t * t
		return s.p[0].Mul(omt2 * omt).Add(s.p[1].Mul(3 * omt2 * t)).Add(s.p[2].Mul(3 * omt * t2)).Add(s.p[3].Mul(t2 * t))
	default:
		return s.p[0].Mul(omt).Add(s.p[1].Mul(t))
	}
}

// segments splits the path into segments and measures their lengths.
func (o *Outline) segments() []segment {
	if o.ready {
		return o.segs
	}
	o.ready = true

	var current, subpath vec.Vec2
	coordIdx := 0
	add := func(s segment) {
		s.length = s.measure()
		o.segs = append(o.segs, s)
		current = s.end()
	}
	for _, cmd := range o.Path.Cmds {
		c := o.Path.Coords
		switch cmd {
		case path.CmdMoveTo:
			current = c[coordIdx]
			subpath = current
			coordIdx++

		case path.CmdLineTo:
			add(segment{kind: segLine, p: [4]vec.Vec2{current, c[coordIdx]}})
			coordIdx++

		case path.CmdQuadTo:
			add(segment{kind: segQuad, p: [4]vec.Vec2{current, c[coordIdx], c[coordIdx+1]}})
			coordIdx += 2

		case path.CmdCubeTo:
			add(segment{kind: segCube, p: [4]vec.Vec2{current, c[coordIdx], c[coordIdx+1], c[coordIdx+2]}})
			coordIdx += 3

		case path.CmdClose:
			add(segment{kind: segLine, p: [4]vec.Vec2{current, subpath}})
		}
	}
	return o.segs
}

// measure approximates the arc length of the segment by the length of a
// polyline through the curve.  The number of chords is chosen with Wang's
// formula, as when flattening curves for rasterisation.
func (s *segment) measure() float64 {
	var n int
	switch s.kind {
	case segQuad:
		e := s.p[0].Sub(s.p[1].Mul(2)).Add(s.p[2]).Mul(0.25)
		n = int(math.Ceil(math.Sqrt(e.Length() / lengthFlatness)))
	case segCube:
		d1 := s.p[0].Sub(s.p[1].Mul(2)).Add(s.p[2])
		d2 := s.p[1].Sub(s.p[2].Mul(2)).Add(s.p[3])
		m := max(d1.Length(), d2.Length())
		n = int(math.Ceil(math.Sqrt(3 * m / (4 * lengthFlatness))))
	default:
		return s.p[1].Sub(s.p[0]).Length()
	}
	n = min(max(n, 1), maxChords)

	length := 0.0
	prev := s.p[0]
	for i := 1; i <= n; i++ {
		pt := s.at(float64(i) / float64(n))
		length += pt.Sub(prev).Length()
		prev = pt
	}
	return length
}

// steps returns the number of points taken from a segment of the given
// length.
func steps(length, density float64) int {
	v := length * density
	if !(v >= 1) {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

// Count returns the number of points [Outline.Sample] produces at the
// given density.
func (o *Outline) Count(density float64) int {
	total := 0
	for i := range o.segments() {
		total += steps(o.segs[i].length, density)
	}
	return total
}

// Sample appends the points of the outline at the given density to dst.
//
// A segment which gets a single point contributes its start point.  A
// segment with n > 1 points contributes both end points and n-2 points in
// between, evenly spaced in the curve parameter.
func (o *Outline) Sample(density float64, dst []vec.Vec2) []vec.Vec2 {
	for i := range o.segments() {
		s := &o.segs[i]
		n := steps(s.length, density)
		switch n {
		case 0:
			// too short to be drawn at this density
		case 1:
			dst = append(dst, s.p[0])
		default:
			last := float64(n - 1)
			for k := range n {
				dst = append(dst, s.at(float64(k)/last))
			}
		}
	}
	return dst
}

// Length returns the total length of all segments.
func (o *Outline) Length() float64 {
	total := 0.0
	for i := range o.segments() {
		total += o.segs[i].length
	}
	return total
}

// IsEmpty reports whether the outline has nothing to draw.
func (o *Outline) IsEmpty() bool {
	return o.Length() == 0
}

// Bounds returns a rectangle enclosing all points and control points of
// the outline.  The zero rectangle is returned for an empty outline.
func (o *Outline) Bounds() rect.Rect {
	if len(o.Path.Coords) == 0 {
		return rect.Rect{}
	}
	first := o.Path.Coords[0]
	r := rect.Rect{LLx: first.X, LLy: first.Y, URx: first.X, URy: first.Y}
	for _, c := range o.Path.Coords[1:] {
		r.LLx = min(r.LLx, c.X)
		r.LLy = min(r.LLy, c.Y)
		r.URx = max(r.URx, c.X)
		r.URy = max(r.URy, c.Y)
	}
	return r
}

const (
	// lengthFlatness is the maximal distance, in outline units, between a
	// curve and the polyline used to measure its length.
	lengthFlatness = 0.01

	// maxChords limits the work spent on measuring a single curve.
	maxChords = 1 << 12
)
