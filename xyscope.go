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

// Package xyscope converts sequences of frames into two-channel audio which
// redraws the frames on an oscilloscope in XY mode.
//
// Every frame is allotted the same number of (x, y) sample pairs, see
// [SamplePoints]. Bi-level raster frames are encoded by the runlength
// package, traced vector outlines by the vector package, and the pcm
// package turns the per-frame samples into a stereo WAV file.
package xyscope

// SamplePoints returns the number of (x, y) pairs each frame must emit at
// the given audio sample rate and frame rate.
//
// The result is rounded down. If fps does not divide rate, the remaining
// rate%fps samples per second are not used and the playback runs slightly
// fast; see [Config.PacingRemainder].
func SamplePoints(rate, fps int) int {
	if rate <= 0 || fps <= 0 {
		return 0
	}
	return rate / fps
}

// Samples holds the beam positions for one or more frames.
// X and Y always have the same length.
type Samples struct {
	X []float64
	Y []float64
}

// MakeSamples allocates Samples with room for n pairs.
func MakeSamples(n int) Samples {
	return Samples{
		X: make([]float64, 0, n),
		Y: make([]float64, 0, n),
	}
}

// Len returns the number of (x, y) pairs.
func (s Samples) Len() int {
	return len(s.X)
}

// Append adds a single (x, y) pair.
func (s *Samples) Append(x, y float64) {
	s.X = append(s.X, x)
	s.Y = append(s.Y, y)
}

// Concat joins the samples of several frames, in the given order.
func Concat(frames []Samples) Samples {
	n := 0
	for _, f := range frames {
		n += f.Len()
	}
	res := MakeSamples(n)
	for _, f := range frames {
		res.X = append(res.X, f.X...)
		res.Y = append(res.Y, f.Y...)
	}
	return res
}
