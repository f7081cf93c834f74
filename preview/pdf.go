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

// Package preview draws traced outlines and beam paths for visual
// inspection of the conversion.
package preview

import (
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/xyscope"
	"seehuhn.de/go/xyscope/outline"
)

// WritePDF writes a single page PDF file showing the outline o on a
// frame of the given size.  The inside of the outline is filled in light
// gray and the outline itself is drawn as a thin black line.
//
// If s is non-empty, the beam positions are added as small dots, which
// shows where the sampler places its points.
func WritePDF(fname string, o *outline.Outline, s xyscope.Samples, width, height int) error {
	w, h := float64(width), float64(height)
	paper := &pdf.Rectangle{URx: w, URy: h}

	page, err := document.CreateSinglePage(fname, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	page.SetFillColor(color.DeviceGray(1))
	page.Rectangle(0, 0, w, h)
	page.Fill()

	// Outline coordinates have the origin at the bottom-left corner, the
	// same as PDF.
	if !o.IsEmpty() {
		page.SetFillColor(color.DeviceGray(0.8))
		page.SetStrokeColor(color.DeviceGray(0))
		page.SetLineWidth(0.25)
		page.SetLineJoin(graphics.LineJoinRound)
		drawPath(page, o.Path)
		page.FillEvenOdd()
		drawPath(page, o.Path)
		page.Stroke()
	}

	if s.Len() > 0 {
		page.SetStrokeColor(color.DeviceGray(0.4))
		page.SetLineWidth(0.6)
		page.SetLineCap(graphics.LineCapRound)
		for i := range s.Len() {
			page.MoveTo(s.X[i], s.Y[i])
			page.LineTo(s.X[i], s.Y[i])
		}
		page.Stroke()
	}

	return page.Close()
}

// pathBuilder is the part of a PDF content stream writer used to
// construct paths.
type pathBuilder interface {
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
}

// drawPath adds the path p to the current page.  PDF has no quadratic
// curves, so these are converted to cubic ones.
func drawPath(page pathBuilder, p *path.Data) {
	for cmd, pts := range p.Iter().ToCubic() {
		switch cmd {
		case path.CmdMoveTo:
			page.MoveTo(pts[0].X, pts[0].Y)
		case path.CmdLineTo:
			page.LineTo(pts[0].X, pts[0].Y)
		case path.CmdCubeTo:
			page.CurveTo(pts[0].X, pts[0].Y, pts[1].X, pts[1].Y, pts[2].X, pts[2].Y)
		case path.CmdClose:
			page.ClosePath()
		}
	}
}
