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

package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func decodedLength(t *testing.T, fname string) int {
	t.Helper()
	fd, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer fd.Close()
	dec := wav.NewDecoder(fd)
	if !dec.IsValidFile() {
		t.Fatalf("%s is not a valid wav file", fname)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return len(buf.Data) / int(dec.NumChans)
}

func TestEndToEnd(t *testing.T) {
	t.Setenv("XYSCOPE_POTRACE", "")
	ctx := context.Background()
	dir := t.TempDir()
	framesDir := filepath.Join(dir, "frames")

	err := run(ctx, "demo", []string{"-n", "4", "-size", "64", "-out", framesDir})
	if err != nil {
		t.Fatal(err)
	}

	common := []string{"-rate", "1000", "-fps", "10", "-log", "error", "-in", framesDir}

	rasterOut := filepath.Join(dir, "raster.wav")
	err = run(ctx, "raster", append(common, "-wobble", "0,1", "-out", rasterOut))
	if err != nil {
		t.Fatal(err)
	}
	if n := decodedLength(t, rasterOut); n != 4*100 {
		t.Errorf("raster: got %d stereo samples, want %d", n, 4*100)
	}

	vectorOut := filepath.Join(dir, "vector.wav")
	err = run(ctx, "vector", append(common, "-turdsize", "2", "-workers", "3", "-out", vectorOut))
	if err != nil {
		t.Fatal(err)
	}
	if n := decodedLength(t, vectorOut); n != 4*100 {
		t.Errorf("vector: got %d stereo samples, want %d", n, 4*100)
	}

	pdfOut := filepath.Join(dir, "frame.pdf")
	pngOut := filepath.Join(dir, "beam.png")
	err = run(ctx, "preview", []string{"-log", "error", "-turdsize", "2",
		"-frame", filepath.Join(framesDir, "1.png"), "-pdf", pdfOut, "-png", pngOut})
	if err != nil {
		t.Fatal(err)
	}
	for _, fname := range []string{pdfOut, pngOut} {
		if fi, err := os.Stat(fname); err != nil || fi.Size() == 0 {
			t.Errorf("%s was not written: %v", fname, err)
		}
	}
}

func TestRunErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cases := map[string][]string{
		"unknown_command": {"bogus"},
		"missing_input":   {"raster", "-log", "error"},
		"empty_input":     {"vector", "-log", "error", "-in", dir},
		"bad_wobble":      {"raster", "-wobble", "x", "-in", dir},
		"bad_level":       {"raster", "-log", "loud", "-in", dir},
		"bad_rate":        {"raster", "-log", "error", "-fps", "0", "-in", dir},
		"missing_frame":   {"preview", "-log", "error", "-frame", "missing.png"},
		"demo_no_out":     {"demo"},
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			if err := run(ctx, args[0], args[1:]); err == nil {
				t.Error("no error reported")
			}
		})
	}

	err := run(ctx, "raster", []string{"-h"})
	if !errors.Is(err, flag.ErrHelp) {
		t.Errorf("got %v, want flag.ErrHelp", err)
	}
}
