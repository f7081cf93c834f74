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

package preview

import (
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/vector"

	"seehuhn.de/go/xyscope"
)

// Beam simulates the oscilloscope screen: every beam position in s is
// drawn as a bright dot of the given radius on a black frame.
// Coordinates are frame coordinates with y growing upwards.
func Beam(s xyscope.Samples, width, height int, radius float32) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	if s.Len() == 0 || width <= 0 || height <= 0 {
		return dst
	}

	r := vector.NewRasterizer(width, height)
	h := float32(height)
	for i := range s.Len() {
		x := float32(s.X[i])
		y := h - float32(s.Y[i])
		addDot(r, x, y, radius)
	}
	r.Draw(dst, dst.Bounds(), image.NewUniform(color.Gray{Y: 255}), image.Point{})
	return dst
}

// addDot adds a diamond shaped dot centred at (x, y).
func addDot(r *vector.Rasterizer, x, y, radius float32) {
	r.MoveTo(x, y-radius)
	r.LineTo(x+radius, y)
	r.LineTo(x, y+radius)
	r.LineTo(x-radius, y)
	r.ClosePath()
}

// WritePNG writes img to a PNG file.
func WritePNG(fname string, img image.Image) (err error) {
	fd, err := os.Create(fname)
	if err != nil {
		return err
	}
	defer func() {
		err2 := fd.Close()
		if err == nil {
			err = err2
		}
	}()
	return png.Encode(fd, img)
}
