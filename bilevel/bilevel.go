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

// Package bilevel implements strictly two-valued images.
package bilevel

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	"io"
)

// Image is a bi-level image.  Row 0 is the top row of the image.
type Image struct {
	Width  int
	Height int
	Pix    []bool // row-major, true means set ("lit")
}

// New allocates an image with all pixels cleared.
func New(width, height int) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// FromImage converts img to a bi-level image.  A pixel is set if its
// luminance is at least 50%.  Transparent pixels are treated as black.
func FromImage(img image.Image) *Image {
	b := img.Bounds()
	res := New(b.Dx(), b.Dy())
	for y := range res.Height {
		for x := range res.Width {
			c := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			res.Pix[y*res.Width+x] = c.Y >= 0x8000
		}
	}
	return res
}

// At reports whether pixel (x, y) is set.  Pixels outside the image are
// clear.
func (m *Image) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Pix[y*m.Width+x]
}

// Set changes the value of pixel (x, y).
func (m *Image) Set(x, y int, v bool) {
	m.Pix[y*m.Width+x] = v
}

// Column returns column x, ordered bottom to top.
// The result is written to dst, which is grown if needed.
func (m *Image) Column(x int, dst []bool) []bool {
	dst = dst[:0]
	for y := m.Height - 1; y >= 0; y-- {
		dst = append(dst, m.Pix[y*m.Width+x])
	}
	return dst
}

// Invert returns a copy of m with every pixel flipped.
func (m *Image) Invert() *Image {
	res := New(m.Width, m.Height)
	for i, v := range m.Pix {
		res.Pix[i] = !v
	}
	return res
}

// Count returns the number of set pixels.
func (m *Image) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v {
			n++
		}
	}
	return n
}

// Gray converts m to a grayscale image, with set pixels drawn white.
func (m *Image) Gray() *image.Gray {
	res := image.NewGray(image.Rect(0, 0, m.Width, m.Height))
	for i, v := range m.Pix {
		if v {
			res.Pix[i] = 0xFF
		}
	}
	return res
}

// WritePBM writes m in binary PBM format (P4).
// Set pixels are written as black, which is what tracers outline.
func (m *Image) WritePBM(w io.Writer) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P4\n%d %d\n", m.Width, m.Height); err != nil {
		return err
	}
	row := make([]byte, (m.Width+7)/8)
	for y := range m.Height {
		clear(row)
		for x := range m.Width {
			if m.Pix[y*m.Width+x] {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
		if _, err := bw.Write(row); err != nil {
			return err
		}
	}
	return bw.Flush()
}
