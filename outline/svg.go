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

package outline

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"
)

// ErrSyntax indicates malformed or unsupported SVG path data.
var ErrSyntax = errors.New("invalid SVG path data")

// ReadSVG reads an SVG document and collects the outlines of all <path>
// elements, in document order.
//
// Transformations on enclosing groups are ignored.  For potrace output
// this leaves the coordinates in potrace's internal units, with the y
// axis pointing up.
func ReadSVG(r io.Reader) (*Outline, error) {
	dec := xml.NewDecoder(r)
	p := &path.Data{}
	seenSVG := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("reading SVG: %w", err)
		}

		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		switch el.Name.Local {
		case "svg":
			seenSVG = true
		case "path":
			for _, a := range el.Attr {
				if a.Name.Local != "d" {
					continue
				}
				p, err = AppendPathData(p, a.Value)
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if !seenSVG {
		return nil, fmt.Errorf("reading SVG: %w: no <svg> element", ErrSyntax)
	}
	return New(p), nil
}

// AppendPathData parses the value of an SVG "d" attribute and appends the
// commands to p.  All SVG path commands except elliptical arcs are
// supported.
func AppendPathData(p *path.Data, d string) (*path.Data, error) {
	s := &scanner{s: d}

	var current, start vec.Vec2
	var ctrl vec.Vec2 // last control point, for S and T
	var cmd, prev byte

	for {
		s.skipSeparators()
		if s.done() {
			break
		}

		if c := s.peek(); isCommand(c) {
			cmd = c
			s.pos++
		} else if cmd == 0 {
			return nil, s.errorf("expected command, found %q", c)
		}
		// else: the previous command is repeated

		rel := cmd >= 'a'
		base := vec.Vec2{}
		if rel {
			base = current
		}

		switch cmd {
		case 'M', 'm':
			pt, err := s.point(base)
			if err != nil {
				return nil, err
			}
			p = p.MoveTo(pt)
			current, start = pt, pt
			// further coordinate pairs are implicit line-to commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}

		case 'L', 'l':
			pt, err := s.point(base)
			if err != nil {
				return nil, err
			}
			p = p.LineTo(pt)
			current = pt

		case 'H', 'h':
			x, err := s.number()
			if err != nil {
				return nil, err
			}
			pt := vec.Vec2{X: base.X + x, Y: current.Y}
			p = p.LineTo(pt)
			current = pt

		case 'V', 'v':
			y, err := s.number()
			if err != nil {
				return nil, err
			}
			pt := vec.Vec2{X: current.X, Y: base.Y + y}
			p = p.LineTo(pt)
			current = pt

		case 'C', 'c':
			pts, err := s.points(base, 3)
			if err != nil {
				return nil, err
			}
			p = p.CubeTo(pts[0], pts[1], pts[2])
			ctrl, current = pts[1], pts[2]

		case 'S', 's':
			pts, err := s.points(base, 2)
			if err != nil {
				return nil, err
			}
			c1 := current
			if prev == 'C' || prev == 'S' {
				c1 = current.Mul(2).Sub(ctrl)
			}
			p = p.CubeTo(c1, pts[0], pts[1])
			ctrl, current = pts[0], pts[1]

		case 'Q', 'q':
			pts, err := s.points(base, 2)
			if err != nil {
				return nil, err
			}
			p = p.QuadTo(pts[0], pts[1])
			ctrl, current = pts[0], pts[1]

		case 'T', 't':
			pt, err := s.point(base)
			if err != nil {
				return nil, err
			}
			c := current
			if prev == 'Q' || prev == 'T' {
				c = current.Mul(2).Sub(ctrl)
			}
			p = p.QuadTo(c, pt)
			ctrl, current = c, pt

		case 'Z', 'z':
			p = p.Close()
			current = start
			cmd = 0

		case 'A', 'a':
			return nil, s.errorf("elliptical arcs are not supported")
		}

		prev = upper(cmd)
		if cmd == 0 {
			prev = 'Z'
		}
	}
	return p, nil
}

type scanner struct {
	s   string
	pos int
}

func (s *scanner) done() bool {
	return s.pos >= len(s.s)
}

func (s *scanner) peek() byte {
	return s.s[s.pos]
}

func (s *scanner) skipSeparators() {
	for !s.done() {
		switch s.peek() {
		case ' ', '\t', '\n', '\r', '\f', ',':
			s.pos++
		default:
			return
		}
	}
}

// number reads a single number.  Numbers may follow each other without
// separator when this is unambiguous, as in "1-2" or "0.5.5".
func (s *scanner) number() (float64, error) {
	s.skipSeparators()
	start := s.pos
	if !s.done() && (s.peek() == '+' || s.peek() == '-') {
		s.pos++
	}
	digits := s.digits()
	if !s.done() && s.peek() == '.' {
		s.pos++
		digits += s.digits()
	}
	if digits == 0 {
		s.pos = start
		if s.done() {
			return 0, s.errorf("unexpected end of path data")
		}
		return 0, s.errorf("expected number, found %q", s.peek())
	}
	if !s.done() && (s.peek() == 'e' || s.peek() == 'E') {
		mark := s.pos
		s.pos++
		if !s.done() && (s.peek() == '+' || s.peek() == '-') {
			s.pos++
		}
		if s.digits() == 0 {
			s.pos = mark
		}
	}

	v, err := strconv.ParseFloat(s.s[start:s.pos], 64)
	if err != nil {
		return 0, s.errorf("%v", err)
	}
	return v, nil
}

func (s *scanner) digits() int {
	n := 0
	for !s.done() && s.peek() >= '0' && s.peek() <= '9' {
		s.pos++
		n++
	}
	return n
}

func (s *scanner) point(base vec.Vec2) (vec.Vec2, error) {
	x, err := s.number()
	if err != nil {
		return vec.Vec2{}, err
	}
	y, err := s.number()
	if err != nil {
		return vec.Vec2{}, err
	}
	return vec.Vec2{X: base.X + x, Y: base.Y + y}, nil
}

func (s *scanner) points(base vec.Vec2, n int) ([]vec.Vec2, error) {
	res := make([]vec.Vec2, n)
	for i := range res {
		pt, err := s.point(base)
		if err != nil {
			return nil, err
		}
		res[i] = pt
	}
	return res, nil
}

func (s *scanner) errorf(format string, args ...any) error {
	return fmt.Errorf("%w: offset %d: %s", ErrSyntax, s.pos, fmt.Sprintf(format, args...))
}

func isCommand(c byte) bool {
	switch c {
	case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c',
		'S', 's', 'Q', 'q', 'T', 't', 'Z', 'z', 'A', 'a':
		return true
	}
	return false
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
