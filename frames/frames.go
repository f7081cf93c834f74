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

// Package frames locates and decodes the per-frame input images.
//
// Frame files live in a single directory and are named by their frame
// number, for example "1.png", "2.png", ..., "120.png".  The frames are
// ordered numerically, not lexically.
package frames

import (
	"cmp"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"seehuhn.de/go/xyscope/bilevel"
)

// ErrFrameName indicates a frame file whose name does not start with a
// frame number.
var ErrFrameName = errors.New("frame file name is not an integer")

// Extensions lists the file name extensions which [List] accepts when
// called without explicit extensions.
var Extensions = []string{".png", ".bmp", ".gif", ".tif", ".tiff", ".webp"}

// List returns the frame files in dir, sorted by frame number.
// Only files with one of the given extensions are returned; the comparison
// ignores case.  If no extensions are given, [Extensions] is used.
func List(dir string, exts ...string) ([]string, error) {
	if len(exts) == 0 {
		exts = Extensions
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type frame struct {
		num  int
		name string
	}
	var ff []frame
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if !slices.Contains(exts, ext) {
			continue
		}
		num, err := Number(name)
		if err != nil {
			return nil, err
		}
		ff = append(ff, frame{num: num, name: name})
	}

	slices.SortFunc(ff, func(a, b frame) int {
		if c := cmp.Compare(a.num, b.num); c != 0 {
			return c
		}
		return strings.Compare(a.name, b.name)
	})

	res := make([]string, len(ff))
	for i, f := range ff {
		res[i] = filepath.Join(dir, f.name)
	}
	return res, nil
}

// Number extracts the frame number from a file name like "17.png".
func Number(name string) (int, error) {
	stem, _, _ := strings.Cut(filepath.Base(name), ".")
	num, err := strconv.Atoi(stem)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFrameName, name)
	}
	return num, nil
}

// Load reads and decodes a single frame.
func Load(fname string) (image.Image, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return img, nil
}

// LoadBilevel reads a frame and converts it to a bi-level image.
func LoadBilevel(fname string) (*bilevel.Image, error) {
	img, err := Load(fname)
	if err != nil {
		return nil, err
	}
	return bilevel.FromImage(img), nil
}
