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
	"cmp"
	"math"
	"slices"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"
)

// FillRule selects how the inside of a path is determined.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// edge is a non-horizontal line segment in device coordinates.
type edge struct {
	x0, y0 float64
	x1, y1 float64
	dxdy   float64 // (x1-x0)/(y1-y0)
}

func (e *edge) yMin() float64 { return min(e.y0, e.y1) }
func (e *edge) yMax() float64 { return max(e.y0, e.y1) }

// Rasterizer computes the fraction of every pixel covered by a filled
// path.  Buffers are kept between calls, so one Rasterizer should be
// reused for many paths.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	// CTM maps path coordinates to device pixels.  Must be non-singular.
	CTM matrix.Matrix

	// Clip is the device region which receives output.  The coordinates
	// must be integers.
	Clip rect.Rect

	// Flatness is the maximal distance, in device pixels, between a curve
	// and the polygon which replaces it.  Must be positive.
	Flatness float64

	edges  []edge
	active []int
	cover  []float32 // per pixel change of the winding number
	area   []float32 // per pixel coverage contribution of the crossing edges

	bbox  rect.Rect
	empty bool
}

// NewRasterizer returns a Rasterizer for the given clip rectangle with
// the identity transformation.
func NewRasterizer(clip rect.Rect) *Rasterizer {
	return &Rasterizer{
		CTM:      matrix.Identity,
		Clip:     clip,
		Flatness: defaultFlatness,
	}
}

// Fill computes the coverage of p under the given rule.  For every
// scanline touched by the path, emit is called with the row index, the
// column of the first value and the coverage values in [0, 1].  The
// coverage slice is only valid during the call.
func (r *Rasterizer) Fill(p *path.Data, rule FillRule, emit func(y, xMin int, coverage []float32)) {
	xMin, xMax, yMin, yMax, ok := r.collectEdges(p)
	if !ok {
		return
	}
	width := xMax - xMin
	r.cover = slices.Grow(r.cover[:0], width)[:width]
	r.area = slices.Grow(r.area[:0], width)[:width]

	slices.SortFunc(r.edges, func(a, b edge) int {
		return cmp.Compare(a.yMin(), b.yMin())
	})

	r.active = r.active[:0]
	next := 0
	for y := yMin; y < yMax; y++ {
		top, bot := float64(y), float64(y+1)

		for next < len(r.edges) && r.edges[next].yMin() < bot {
			r.active = append(r.active, next)
			next++
		}
		if len(r.active) == 0 {
			continue
		}

		clear(r.cover)
		clear(r.area)
		touched := false
		for i := 0; i < len(r.active); {
			e := &r.edges[r.active[i]]
			if e.yMax() <= top {
				r.active[i] = r.active[len(r.active)-1]
				r.active = r.active[:len(r.active)-1]
				continue
			}
			if r.accumulate(e, top, bot, xMin, xMax) {
				touched = true
			}
			i++
		}
		if !touched {
			continue
		}

		integrate(r.cover, r.area, rule)
		if row, offset := trimZeros(r.cover); row != nil {
			emit(y, xMin+offset, row)
		}
	}
}

// collectEdges flattens p into device space edges and returns the
// clipped integer bounding box of the result.
func (r *Rasterizer) collectEdges(p *path.Data) (xMin, xMax, yMin, yMax int, ok bool) {
	r.edges = r.edges[:0]
	r.empty = true

	var current, start vec.Vec2
	k := 0
	for _, cmd := range p.Cmds {
		switch cmd {
		case path.CmdMoveTo:
			current = p.Coords[k]
			start = current
			k++
		case path.CmdLineTo:
			r.addEdge(current, p.Coords[k])
			current = p.Coords[k]
			k++
		case path.CmdQuadTo:
			r.flattenQuadratic(current, p.Coords[k], p.Coords[k+1])
			current = p.Coords[k+1]
			k += 2
		case path.CmdCubeTo:
			r.flattenCubic(current, p.Coords[k], p.Coords[k+1], p.Coords[k+2])
			current = p.Coords[k+2]
			k += 3
		case path.CmdClose:
			r.addEdge(current, start)
			current = start
		}
	}
	if r.empty {
		return 0, 0, 0, 0, false
	}

	xMin = max(int(math.Floor(r.bbox.LLx)), int(r.Clip.LLx))
	xMax = min(int(math.Floor(r.bbox.URx))+1, int(r.Clip.URx))
	yMin = max(int(math.Floor(r.bbox.LLy)), int(r.Clip.LLy))
	yMax = min(int(math.Floor(r.bbox.URy))+1, int(r.Clip.URy))
	if xMin >= xMax || yMin >= yMax {
		return 0, 0, 0, 0, false
	}
	return xMin, xMax, yMin, yMax, true
}

// addEdge transforms the segment from p0 to p1 into device space and adds
// it to the edge list.  Horizontal segments do not change the winding
// number and are skipped.
func (r *Rasterizer) addEdge(p0, p1 vec.Vec2) {
	a := r.toDevice(p0)
	b := r.toDevice(p1)

	dy := b.Y - a.Y
	if math.Abs(dy) < horizontalEdgeThreshold {
		return
	}
	r.edges = append(r.edges, edge{
		x0: a.X, y0: a.Y,
		x1: b.X, y1: b.Y,
		dxdy: (b.X - a.X) / dy,
	})

	if r.empty {
		r.bbox = rect.Rect{LLx: a.X, LLy: a.Y, URx: a.X, URy: a.Y}
		r.empty = false
	}
	r.bbox.LLx = min(r.bbox.LLx, a.X, b.X)
	r.bbox.LLy = min(r.bbox.LLy, a.Y, b.Y)
	r.bbox.URx = max(r.bbox.URx, a.X, b.X)
	r.bbox.URy = max(r.bbox.URy, a.Y, b.Y)
}

func (r *Rasterizer) toDevice(p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: r.CTM[0]*p.X + r.CTM[2]*p.Y + r.CTM[4],
		Y: r.CTM[1]*p.X + r.CTM[3]*p.Y + r.CTM[5],
	}
}

// deviceLength returns the device space length of the vector v.
func (r *Rasterizer) deviceLength(v vec.Vec2) float64 {
	return vec.Vec2{
		X: r.CTM[0]*v.X + r.CTM[2]*v.Y,
		Y: r.CTM[1]*v.X + r.CTM[3]*v.Y,
	}.Length()
}

func (r *Rasterizer) flattenQuadratic(p0, p1, p2 vec.Vec2) {
	dev := r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2).Mul(0.25))
	n := 1
	if dev > r.Flatness {
		n = int(math.Ceil(math.Sqrt(dev / r.Flatness)))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s).Add(p1.Mul(2 * s * t)).Add(p2.Mul(t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

func (r *Rasterizer) flattenCubic(p0, p1, p2, p3 vec.Vec2) {
	// Wang's formula
	dev := max(
		r.deviceLength(p0.Sub(p1.Mul(2)).Add(p2)),
		r.deviceLength(p1.Sub(p2.Mul(2)).Add(p3)))
	n := 1
	if nf := math.Sqrt(3 * dev / (4 * r.Flatness)); nf > 1 {
		n = int(math.Ceil(nf))
	}

	prev := p0
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		s := 1 - t
		pt := p0.Mul(s * s * s).
			Add(p1.Mul(3 * s * s * t)).
			Add(p2.Mul(3 * s * t * t)).
			Add(p3.Mul(t * t * t))
		r.addEdge(prev, pt)
		prev = pt
	}
}

// accumulate adds the part of e inside the scanline [top, bot) to the
// cover and area buffers, which are indexed by x-xMin.  Crossings left of
// xMin are folded into the first pixel, crossings right of xMax are
// dropped.  The return value reports whether e intersects the scanline.
//
// A crossing of height dy at horizontal position x inside pixel p adds
// ±dy to cover[p] and ±dy*(1-frac(x)) to area[p].  Summing cover from the
// left and adding area gives the signed winding coverage of each pixel.
func (r *Rasterizer) accumulate(e *edge, top, bot float64, xMin, xMax int) bool {
	top = max(top, e.yMin())
	bot = min(bot, e.yMax())
	if bot <= top {
		return false
	}
	sign := float32(1)
	if e.y1 < e.y0 {
		sign = -1
	}

	xTop := e.x0 + e.dxdy*(top-e.y0)
	xBot := e.x0 + e.dxdy*(bot-e.y0)
	left := int(math.Floor(min(xTop, xBot)))
	right := int(math.Floor(max(xTop, xBot)))

	if left == right {
		r.deposit(e, top, bot, sign, left, xMin, xMax)
		return true
	}

	// split the crossing at pixel boundaries
	dydx := 1 / e.dxdy
	for px := left; px <= right; px++ {
		ya := e.y0 + dydx*(float64(px)-e.x0)
		yb := e.y0 + dydx*(float64(px+1)-e.x0)
		lo := max(min(ya, yb), top)
		hi := min(max(ya, yb), bot)
		if hi > lo {
			r.deposit(e, lo, hi, sign, px, xMin, xMax)
		}
	}
	return true
}

// deposit records the crossing of e between heights lo and hi, which lies
// entirely inside pixel column px.
func (r *Rasterizer) deposit(e *edge, lo, hi float64, sign float32, px, xMin, xMax int) {
	c := sign * float32(hi-lo)
	switch {
	case px < xMin:
		r.cover[0] += c
		r.area[0] += c
	case px < xMax:
		xMid := e.x0 + e.dxdy*((lo+hi)/2-e.y0)
		i := px - xMin
		r.cover[i] += c
		r.area[i] += c * float32(1-(xMid-float64(px)))
	}
}

// integrate turns the accumulated cover and area values of one scanline
// into coverage values, which are stored in cover.
func integrate(cover, area []float32, rule FillRule) {
	var acc float32
	for i := range cover {
		w := acc + area[i]
		acc += cover[i]
		if w < 0 {
			w = -w
		}
		if rule == EvenOdd {
			w -= 2 * float32(int(w/2))
			if w > 1 {
				w = 2 - w
			}
		} else if w > 1 {
			w = 1
		}
		cover[i] = w
	}
}

// trimZeros returns the part of row between the first and last non-zero
// value, and the index of its start.
func trimZeros(row []float32) ([]float32, int) {
	lo, hi := 0, len(row)
	for lo < hi && row[lo] == 0 {
		lo++
	}
	for hi > lo && row[hi-1] == 0 {
		hi--
	}
	if lo == hi {
		return nil, 0
	}
	return row[lo:hi], lo
}

const (
	// defaultFlatness is the default curve tolerance in device pixels.
	defaultFlatness = 0.25

	// horizontalEdgeThreshold is the smallest vertical extent of an edge
	// which contributes to the coverage.
	horizontalEdgeThreshold = 1e-10
)
