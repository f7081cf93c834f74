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

// Package testcases provides named test pictures.
//
// Every picture is a filled path in frame coordinates: units are pixels,
// the origin is the bottom-left corner and y grows upwards.  This is the
// coordinate system of traced outlines.  The inside of a path (even-odd
// rule) is drawn dark.
package testcases

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/outline"
	"seehuhn.de/go/xyscope/render"
)

// Picture is a single test frame.
type Picture struct {
	Name   string     // lowercase a-z, 0-9 and _ only
	Path   *path.Data // the dark regions of the frame
	Width  int        // frame width in pixels
	Height int        // frame height in pixels
}

// Outline returns the picture's path as an outline.
func (p Picture) Outline() *outline.Outline {
	return outline.New(p.Path)
}

// Frame renders the picture into a bi-level frame.
func (p Picture) Frame() *bilevel.Image {
	return render.Bilevel(p.Outline(), p.Width, p.Height)
}

// pt is a helper to create a vec.Vec2 from x, y coordinates.
func pt(x, y float64) vec.Vec2 {
	return vec.Vec2{X: x, Y: y}
}

// kappa is the control point distance for approximating a quarter circle
// of radius 1 by a cubic Bézier curve.
const kappa = 0.5522847498307936
