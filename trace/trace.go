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

// Package trace converts bi-level frames into vector outlines.
//
// A [Provider] outlines the dark pixels of a frame, the way potrace treats
// a bitmap.  Two providers are included: [Potrace] runs the external
// potrace program, and [Contour] follows pixel boundaries without any
// external help.
package trace

import (
	"context"
	"errors"

	"seehuhn.de/go/xyscope"
	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/outline"
)

// ErrTracer indicates that a tracer failed or produced unusable output.
var ErrTracer = errors.New("tracer failed")

// Params controls the level of detail of a trace.
type Params struct {
	// AlphaMax is the corner threshold.  Smaller values give more
	// jagged outlines.
	AlphaMax float64

	// TurdSize is the area, in pixels, up to which features are
	// suppressed.
	TurdSize float64

	// OptTolerance is the curve optimisation tolerance.
	OptTolerance float64
}

// ParamsFromConfig extracts the trace parameters from a configuration.
func ParamsFromConfig(cfg *xyscope.Config) Params {
	return Params{
		AlphaMax:     cfg.AlphaMax,
		TurdSize:     cfg.TurdSize,
		OptTolerance: cfg.OptTolerance,
	}
}

// Coarser returns parameters which suppress larger features.
func (p Params) Coarser() Params {
	p.TurdSize = max(p.TurdSize, 1) * 1.5
	return p
}

// Provider traces frames.  Implementations must be safe for concurrent
// use.
type Provider interface {
	Trace(ctx context.Context, img *bilevel.Image, p Params) (*outline.Outline, error)
}

// Func adapts an ordinary function to the Provider interface.
type Func func(ctx context.Context, img *bilevel.Image, p Params) (*outline.Outline, error)

// Trace implements the [Provider] interface.
func (f Func) Trace(ctx context.Context, img *bilevel.Image, p Params) (*outline.Outline, error) {
	return f(ctx, img, p)
}

// FromConfig returns the provider selected by cfg: potrace if an
// executable is configured, the built-in contour tracer otherwise.
func FromConfig(cfg *xyscope.Config) Provider {
	if cfg.Potrace != "" {
		return &Potrace{Command: cfg.Potrace}
	}
	return Contour{}
}
