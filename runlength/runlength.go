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

// Package runlength draws bi-level raster frames column by column.
//
// Each column of a frame is reduced to its runs of set pixels.  The beam
// then moves up the columns from left to right, going back and forth
// between the two ends of every run often enough to fill the column's
// share of the frame's sample budget.
package runlength

import (
	"cmp"
	"log/slog"
	"slices"

	"seehuhn.de/go/xyscope"
	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/frames"
)

// Run is a half-open interval [Start, End) of set pixels in a column,
// counted from the bottom of the image.
type Run struct {
	Start, End int
}

// Len returns the number of pixels in the run.
func (r Run) Len() int {
	return r.End - r.Start
}

// at returns the start of the run for even i and the end for odd i.
func (r Run) at(i int) int {
	if i%2 == 0 {
		return r.Start
	}
	return r.End
}

// emptyColumn stands in for a column without set pixels.
var emptyColumn = Run{0, 0}

// Runs returns the runs of set pixels in col, which is ordered bottom to
// top.  A column without set pixels gives the single run [0, 0).
// The result is appended to dst[:0].
func Runs(col []bool, dst []Run) []Run {
	dst = dst[:0]

	// The column is treated as if it was padded with a clear pixel
	// at both ends.
	prev := false
	start := 0
	for i, v := range col {
		if v == prev {
			continue
		}
		if v {
			start = i
		} else {
			dst = append(dst, Run{start, i})
		}
		prev = v
	}
	if prev {
		dst = append(dst, Run{start, len(col)})
	}

	if len(dst) == 0 {
		dst = append(dst, emptyColumn)
	}
	return dst
}

// Encoder converts bi-level frames into beam positions.
//
// An Encoder is not safe for concurrent use.
type Encoder struct {
	// SamplePoints is the number of (x, y) pairs per frame.
	SamplePoints int

	// Wobble is added cyclically to the x coordinate of the column.
	// It must not be empty.
	Wobble []int

	Logger *slog.Logger

	// internal buffers (reused across frames)
	col  []bool
	runs [][]Run
	idx  []int
}

// NewEncoder returns an Encoder for the given configuration.
func NewEncoder(cfg *xyscope.Config) *Encoder {
	return &Encoder{
		SamplePoints: cfg.SamplePoints(),
		Wobble:       slices.Clone(cfg.Wobble),
		Logger:       cfg.Log(),
	}
}

// Encode returns exactly SamplePoints (x, y) pairs for the frame m.
//
// Every column gets floor(SamplePoints/Width) pairs.  The pairs left over
// by the rounding are spent on the last run of the last column.
func (e *Encoder) Encode(m *bilevel.Image) xyscope.Samples {
	res := xyscope.MakeSamples(e.SamplePoints)
	if m.Width <= 0 {
		for range e.SamplePoints {
			res.Append(0, 0)
		}
		return res
	}

	width := m.Width
	colPoints := e.SamplePoints / width

	if cap(e.runs) < width {
		e.runs = make([][]Run, width)
	}
	e.runs = e.runs[:width]

	pruned := 0
	for x := range width {
		e.col = m.Column(x, e.col)
		runs := Runs(e.col, e.runs[x])
		var n int
		runs, n = e.prune(runs, colPoints)
		if n > 0 {
			pruned++
			e.log().Debug("dropped runs", "column", x, "dropped", n, "kept", len(runs))
		}
		e.runs[x] = runs

		repeats := max(chunkRepeats(colPoints, len(runs)), 0)
		for _, r := range runs {
			e.emitRun(&res, x, r, repeats)
		}
		e.emitRun(&res, x, runs[len(runs)-1], colPoints-repeats*len(runs))
	}
	if pruned > 0 {
		e.log().Warn("low contrast from sample rate, dropping fine detail",
			"columns", pruned)
	}

	last := e.runs[width-1]
	e.emitRun(&res, width-1, last[len(last)-1], e.SamplePoints-colPoints*width)

	return res
}

// emitRun appends n pairs which alternate between the ends of r.
func (e *Encoder) emitRun(res *xyscope.Samples, x int, r Run, n int) {
	for j := range n {
		res.Append(float64(x+e.Wobble[j%len(e.Wobble)]), float64(r.at(j)))
	}
}

// prune drops the shortest runs until every remaining run can be drawn at
// least twice within budget pairs.  Ties are broken in favour of dropping
// lower runs first.  At least one run is always kept.  The number of
// dropped runs is returned together with the remaining runs, which stay in
// bottom to top order.
func (e *Encoder) prune(runs []Run, budget int) ([]Run, int) {
	if chunkRepeats(budget, len(runs)) >= 2 {
		return runs, 0
	}

	keep := 1
	for k := len(runs); k > 1; k-- {
		if chunkRepeats(budget, k) >= 2 {
			keep = k
			break
		}
	}
	drop := len(runs) - keep

	e.idx = e.idx[:0]
	for i := range runs {
		e.idx = append(e.idx, i)
	}
	slices.SortStableFunc(e.idx, func(a, b int) int {
		return cmp.Compare(runs[a].Len(), runs[b].Len())
	})
	dropped := e.idx[:drop]
	slices.Sort(dropped)

	// remove the dropped runs in place, keeping the order of the others
	out := runs[:0]
	k := 0
	for i, r := range runs {
		if k < len(dropped) && dropped[k] == i {
			k++
			continue
		}
		out = append(out, r)
	}
	return out, drop
}

func (e *Encoder) log() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// EncodeFiles loads and encodes the given frame files, in order, and
// returns the concatenated beam positions.
func (e *Encoder) EncodeFiles(files []string) (xyscope.Samples, error) {
	res := xyscope.MakeSamples(len(files) * e.SamplePoints)
	for _, fname := range files {
		e.log().Info("encoding frame", "file", fname)
		m, err := frames.LoadBilevel(fname)
		if err != nil {
			return xyscope.Samples{}, err
		}
		s := e.Encode(m)
		res.X = append(res.X, s.X...)
		res.Y = append(res.Y, s.Y...)
	}
	return res, nil
}

// chunkRepeats returns how often each of n runs can be drawn within budget
// pairs, keeping one pair per run for moving between runs.
func chunkRepeats(budget, n int) int {
	return floorDiv(budget-n-1, n)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
