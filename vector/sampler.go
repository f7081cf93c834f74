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

// Package vector draws frames by sampling points along traced outlines.
//
// For every frame the [Sampler] looks for a sampling density at which the
// traced outline gives (close to) the frame's sample budget.  The search
// is a bisection between an upper density, which must give at least the
// budget, and a lower density, which must give at most the budget.  The
// bounds found for one frame are widened and used as the starting point
// for the next frame.
package vector

import (
	"context"
	"fmt"
	"iter"
	"log/slog"

	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/xyscope"
	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/frames"
	"seehuhn.de/go/xyscope/outline"
	"seehuhn.de/go/xyscope/trace"
)

// Bounds is a bracket for the sampling density.
type Bounds struct {
	Upper float64 // expected to give at least the budget
	Lower float64 // expected to give at most the budget
}

// widen returns the hint for the next frame.  Consecutive frames tend to
// be similar, so the bracket is widened by 20% in each direction.
func (b Bounds) widen() Bounds {
	return Bounds{Upper: b.Upper * 1.2, Lower: b.Lower * 0.8}
}

// Sampler converts frames into exactly SamplePoints beam positions each.
// A Sampler is safe for concurrent use if its Tracer is.
type Sampler struct {
	// SamplePoints is the number of (x, y) pairs per frame.
	SamplePoints int

	// Threshold is the largest accepted difference between the point
	// count and SamplePoints before padding or truncation.
	Threshold int

	// DensityFloor is the smallest density the search may use before
	// the trace is made coarser instead.
	DensityFloor float64

	// Params are the initial trace parameters for every frame.
	Params trace.Params

	Tracer trace.Provider
	Logger *slog.Logger
}

// NewSampler returns a Sampler for the given configuration.
func NewSampler(cfg *xyscope.Config, tracer trace.Provider) *Sampler {
	return &Sampler{
		SamplePoints: cfg.SamplePoints(),
		Threshold:    cfg.Threshold,
		DensityFloor: cfg.DensityFloor,
		Params:       trace.ParamsFromConfig(cfg),
		Tracer:       tracer,
		Logger:       cfg.Log(),
	}
}

// InitialBounds returns the bracket used for the first frame, and after
// blank frames.
func (s *Sampler) InitialBounds() Bounds {
	return Bounds{Upper: initialUpper, Lower: s.DensityFloor}
}

// Frame traces img and returns SamplePoints beam positions along the
// outline, together with the bounds hint for the next frame.
//
// If the outline cannot be fitted into the budget without going below
// DensityFloor, the frame is traced again with coarser parameters.
// Errors are only returned if the tracer fails.
func (s *Sampler) Frame(ctx context.Context, img *bilevel.Image, b Bounds) (xyscope.Samples, Bounds, error) {
	log := s.log()
	budget := s.SamplePoints
	params := s.Params

	var o *outline.Outline
	var density float64
	for retrace := 0; ; retrace++ {
		var err error
		o, err = s.Tracer.Trace(ctx, img, params)
		if err != nil {
			return xyscope.Samples{}, b, err
		}
		if o.IsEmpty() {
			log.Debug("blank frame")
			return s.blank(), s.InitialBounds(), nil
		}

		n := o.Count(b.Upper)
		for n < budget {
			b.Upper *= 2
			n = o.Count(b.Upper)
			log.Debug("rescaling upper bound", "upper", b.Upper, "points", n)
		}

		m := o.Count(b.Lower)
		halved := false
		for m > budget {
			b.Lower /= 2
			m = o.Count(b.Lower)
			halved = true
			log.Debug("rescaling lower bound", "lower", b.Lower, "points", m)
		}

		if halved && b.Lower < s.DensityFloor {
			if retrace < maxRetrace {
				params = params.Coarser()
				b = s.InitialBounds()
				log.Warn("frame too complex, coarsening trace", "turdsize", params.TurdSize)
				continue
			}
			log.Warn("frame too complex, giving up on density floor",
				"lower", b.Lower, "floor", s.DensityFloor)
		}

		switch {
		case n == budget:
			density = b.Upper
		case m == budget:
			density = b.Lower
		default:
			density, b = s.bisect(o, b)
		}
		break
	}
	log.Debug("density found", "density", density, "upper", b.Upper, "lower", b.Lower)

	pts := o.Sample(density, make([]vec.Vec2, 0, budget+s.Threshold+1))
	return s.finalize(pts), b.widen(), nil
}

// bisect narrows the bracket until the point count is within Threshold of
// the budget, or until two successive steps give the same count.
func (s *Sampler) bisect(o *outline.Outline, b Bounds) (float64, Bounds) {
	budget := s.SamplePoints
	current := -budget * 10
	prev := current * 2
	var mid float64
	for abs(budget-current) > s.Threshold && current != prev {
		mid = (b.Upper + b.Lower) / 2
		prev = current
		current = o.Count(mid)
		s.log().Debug("bisection step", "density", mid, "points", current)

		if current > budget {
			b.Upper = mid
		} else if current < budget {
			b.Lower = mid
		}
	}
	return mid, b
}

// finalize pads or truncates pts to exactly SamplePoints pairs.
func (s *Sampler) finalize(pts []vec.Vec2) xyscope.Samples {
	budget := s.SamplePoints
	if len(pts) == 0 {
		return s.blank()
	}
	if len(pts) > budget {
		pts = pts[:budget]
	}
	last := pts[len(pts)-1]
	for len(pts) < budget {
		pts = append(pts, last)
	}

	res := xyscope.MakeSamples(budget)
	for _, p := range pts {
		res.Append(p.X, p.Y)
	}
	return res
}

func (s *Sampler) blank() xyscope.Samples {
	res := xyscope.MakeSamples(s.SamplePoints)
	for range s.SamplePoints {
		res.Append(0, 0)
	}
	return res
}

// Sequence processes a sequence of frames in order.  The density bounds
// are carried over from each frame to the next.
func (s *Sampler) Sequence(ctx context.Context, imgs iter.Seq2[*bilevel.Image, error]) (xyscope.Samples, error) {
	var res xyscope.Samples
	b := s.InitialBounds()
	for img, err := range imgs {
		if err != nil {
			return xyscope.Samples{}, err
		}
		var frame xyscope.Samples
		frame, b, err = s.Frame(ctx, img, b)
		if err != nil {
			return xyscope.Samples{}, err
		}
		res.X = append(res.X, frame.X...)
		res.Y = append(res.Y, frame.Y...)
	}
	return res, nil
}

// Files processes the given frame files in order.
func (s *Sampler) Files(ctx context.Context, files []string) (xyscope.Samples, error) {
	seq := func(yield func(*bilevel.Image, error) bool) {
		for _, fname := range files {
			s.log().Info("processing frame", "file", fname)
			img, err := frames.LoadBilevel(fname)
			if err != nil {
				err = fmt.Errorf("%s: %w", fname, err)
			}
			if !yield(img, err) || err != nil {
				return
			}
		}
	}
	return s.Sequence(ctx, seq)
}

func (s *Sampler) log() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

const (
	// initialUpper is the upper density used for the first frame.
	initialUpper = 1.0

	// maxRetrace limits how often a single frame is traced again with
	// coarser parameters.
	maxRetrace = 16
)
