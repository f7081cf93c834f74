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

package trace

import (
	"context"
	"math"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/outline"
)

// Contour traces frames by following the boundaries between dark and
// light pixels.  The outlines consist of horizontal and vertical lines
// along the pixel edges.  Contours enclosing an area of at most TurdSize
// pixels are dropped; AlphaMax and OptTolerance are ignored.
//
// Coordinates are in pixels, with the origin in the bottom left corner of
// the frame and the y axis pointing up.
type Contour struct{}

// Trace implements the [Provider] interface.
func (Contour) Trace(ctx context.Context, img *bilevel.Image, p Params) (*outline.Outline, error) {
	t := &contourTracer{
		fg:   img.Invert(),
		used: make([]bool, (img.Width+1)*(img.Height+1)*4),
	}

	res := &path.Data{}
	for vy := 0; vy <= img.Height; vy++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for vx := 0; vx <= img.Width; vx++ {
			// every closed contour has at least one edge going right
			if !t.exists(vx, vy, dirRight) || t.used[t.index(vx, vy, dirRight)] {
				continue
			}
			loop := t.follow(vx, vy, dirRight)
			if math.Abs(polygonArea(loop)) <= p.TurdSize {
				continue
			}
			res = appendLoop(res, loop, img.Height)
		}
	}
	return outline.New(res), nil
}

// Directions of travel along pixel edges, in image coordinates (y down).
// Turning from one direction to the next is a clockwise turn on screen.
const (
	dirRight = iota
	dirDown
	dirLeft
	dirUp
)

var dirStep = [4][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}

type contourTracer struct {
	fg   *bilevel.Image
	used []bool // per vertex and direction
}

func (t *contourTracer) index(vx, vy, d int) int {
	return (vy*(t.fg.Width+1)+vx)*4 + d
}

// exists reports whether a boundary edge leaves vertex (vx, vy) in
// direction d.  Edges are oriented so that the foreground pixel is on the
// right hand side.
func (t *contourTracer) exists(vx, vy, d int) bool {
	m := t.fg
	switch d {
	case dirRight: // top side of pixel (vx, vy)
		return m.At(vx, vy) && !m.At(vx, vy-1)
	case dirDown: // right side of pixel (vx-1, vy)
		return m.At(vx-1, vy) && !m.At(vx, vy)
	case dirLeft: // bottom side of pixel (vx-1, vy-1)
		return m.At(vx-1, vy-1) && !m.At(vx-1, vy)
	default: // left side of pixel (vx, vy-1)
		return m.At(vx, vy-1) && !m.At(vx-1, vy-1)
	}
}

// follow walks a closed contour, starting with the edge leaving (vx, vy)
// in direction d.  The corners of the contour are returned.
//
// Where two contours touch diagonally the walk turns right, so that
// diagonally adjacent foreground pixels end up in separate contours.
func (t *contourTracer) follow(vx, vy, d int) [][2]int {
	var corners [][2]int
	d0 := d
	prev := -1
	for {
		t.used[t.index(vx, vy, d)] = true
		if d != prev {
			corners = append(corners, [2]int{vx, vy})
		}
		prev = d
		vx += dirStep[d][0]
		vy += dirStep[d][1]

		next := -1
		for _, turn := range [3]int{1, 0, 3} {
			c := (d + turn) % 4
			if t.exists(vx, vy, c) {
				next = c
				break
			}
		}
		if next < 0 || t.used[t.index(vx, vy, next)] {
			break
		}
		d = next
	}

	// the start point is not a corner if the walk ends going straight
	if prev == d0 {
		corners = corners[1:]
	}
	return corners
}

// polygonArea returns the signed area of the polygon.
func polygonArea(corners [][2]int) float64 {
	a := 0
	for i, c := range corners {
		n := corners[(i+1)%len(corners)]
		a += c[0]*n[1] - n[0]*c[1]
	}
	return float64(a) / 2
}

// appendLoop adds a closed polygon to p, flipping the y axis.
func appendLoop(p *path.Data, corners [][2]int, height int) *path.Data {
	for i, c := range corners {
		pt := vec.Vec2{X: float64(c[0]), Y: float64(height - c[1])}
		if i == 0 {
			p = p.MoveTo(pt)
		} else {
			p = p.LineTo(pt)
		}
	}
	return p.Close()
}
