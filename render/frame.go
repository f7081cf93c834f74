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

// Package render fills traced outlines back into pixel images.
//
// Outlines use y-up pixel coordinates with the origin at the bottom-left
// corner of the frame.  The functions in this package flip them into
// the top-down row order of images.  This is used to inspect how
// faithfully an outline represents its frame.
package render

import (
	"image"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/rect"

	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/outline"
)

// frameRasterizer returns a rasterizer for a frame of the given size,
// set up to map outline coordinates to image rows.
func frameRasterizer(width, height int) *Rasterizer {
	r := NewRasterizer(rect.Rect{URx: float64(width), URy: float64(height)})
	r.CTM = matrix.Matrix{1, 0, 0, -1, 0, float64(height)}
	return r
}

// Bilevel fills o into a new frame of the given size.  Pixels which are
// at least half covered by the outline are dark, all others are lit.
// This is the inverse of what the tracers do.
func Bilevel(o *outline.Outline, width, height int) *bilevel.Image {
	img := bilevel.New(width, height)
	for i := range img.Pix {
		img.Pix[i] = true
	}
	frameRasterizer(width, height).Fill(o.Path, EvenOdd, func(y, xMin int, coverage []float32) {
		for i, c := range coverage {
			if c >= 0.5 {
				img.Set(xMin+i, y, false)
			}
		}
	})
	return img
}

// Gray fills o into an anti-aliased grayscale image of the given size,
// drawing the inside of the outline black on a white background.
func Gray(o *outline.Outline, width, height int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	frameRasterizer(width, height).Fill(o.Path, EvenOdd, func(y, xMin int, coverage []float32) {
		row := img.Pix[y*img.Stride:]
		for i, c := range coverage {
			row[xMin+i] = 255 - byte(max(0, min(255, int(c*256))))
		}
	})
	return img
}
