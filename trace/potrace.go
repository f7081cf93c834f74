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

package trace

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"

	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/outline"
)

// Potrace traces frames by running the potrace program.
// The frame is passed to potrace as a PBM file on standard input and the
// SVG output is read from standard output.
type Potrace struct {
	// Command is the name or path of the potrace executable.
	// If empty, "potrace" is looked up in $PATH.
	Command string
}

// Trace implements the [Provider] interface.
func (pt *Potrace) Trace(ctx context.Context, img *bilevel.Image, p Params) (*outline.Outline, error) {
	in := &bytes.Buffer{}
	if err := img.Invert().WritePBM(in); err != nil {
		return nil, err
	}

	name := pt.Command
	if name == "" {
		name = "potrace"
	}
	cmd := exec.CommandContext(ctx, name, pt.args(p)...)
	cmd.Stdin = in
	out := &bytes.Buffer{}
	cmd.Stdout = out
	stderr := &bytes.Buffer{}
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v: %s", ErrTracer, name, err, bytes.TrimSpace(stderr.Bytes()))
	}

	o, err := outline.ReadSVG(out)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTracer, name, err)
	}
	return o, nil
}

// args returns the potrace command line for the given parameters.
// Potrace only accepts integer turd sizes, fractions are dropped.
func (pt *Potrace) args(p Params) []string {
	return []string{
		"-b", "svg",
		"-t", strconv.Itoa(int(p.TurdSize)),
		"-a", strconv.FormatFloat(p.AlphaMax, 'g', -1, 64),
		"-O", strconv.FormatFloat(p.OptTolerance, 'g', -1, 64),
		"-o", "-",
		"-",
	}
}
