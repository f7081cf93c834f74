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

// Package pcm turns beam positions into 16 bit stereo audio.
//
// The left channel drives the X deflection of the oscilloscope and the
// right channel the Y deflection.
package pcm

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"seehuhn.de/go/xyscope"
)

const (
	// fullScale is the peak-to-peak range of a channel.  It stays just
	// below 2^16 so that rounding cannot leave the int16 range.
	fullScale = 65534

	bitDepth  = 16
	numChans  = 2
	formatPCM = 1
)

// Scale maps the values of one channel onto the signed 16 bit range.
// The largest value is mapped to 32767 and zero to -32767.
//
// Inputs are expected to be non-negative.  A channel without positive
// values is mapped to silence.
func Scale(values []float64) []int {
	res := make([]int, len(values))
	peak := 0.0
	for _, v := range values {
		peak = max(peak, v)
	}
	if !(peak > 0) || math.IsInf(peak, 1) {
		return res
	}

	scale := fullScale / peak
	offset := peak * scale / 2
	for i, v := range values {
		res[i] = clamp16(math.Round(v*scale - offset))
	}
	return res
}

func clamp16(v float64) int {
	switch {
	case v > math.MaxInt16:
		return math.MaxInt16
	case v < math.MinInt16:
		return math.MinInt16
	case math.IsNaN(v):
		return 0
	}
	return int(v)
}

// Assemble scales both channels and interleaves them into a single buffer
// of stereo frames, X first.
func Assemble(s xyscope.Samples, sampleRate int) *audio.IntBuffer {
	x := Scale(s.X)
	y := Scale(s.Y)

	data := make([]int, 0, 2*len(x))
	for i := range x {
		data = append(data, x[i], y[i])
	}
	return &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: numChans,
			SampleRate:  sampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
}

// WriteWAV writes the samples as a 16 bit stereo WAV stream.
func WriteWAV(w io.WriteSeeker, s xyscope.Samples, sampleRate int) error {
	if len(s.X) != len(s.Y) {
		return fmt.Errorf("pcm: channel length mismatch (%d != %d)", len(s.X), len(s.Y))
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, numChans, formatPCM)
	err := enc.Write(Assemble(s, sampleRate))
	if err != nil {
		return fmt.Errorf("pcm: %w", err)
	}
	err = enc.Close()
	if err != nil {
		return fmt.Errorf("pcm: %w", err)
	}
	return nil
}

// WriteFile writes the samples to a WAV file.
func WriteFile(fname string, s xyscope.Samples, sampleRate int) (err error) {
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
	return WriteWAV(fd, s, sampleRate)
}
