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

package vector

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/xyscope"
	"seehuhn.de/go/xyscope/bilevel"
	"seehuhn.de/go/xyscope/outline"
	"seehuhn.de/go/xyscope/trace"
)

// fixed returns a tracer which always gives the outline o.
func fixed(o *outline.Outline) trace.Provider {
	return trace.Func(func(context.Context, *bilevel.Image, trace.Params) (*outline.Outline, error) {
		return o, nil
	})
}

// staircase returns an outline made of n unit length line segments.
func staircase(n int) *outline.Outline {
	p := (&path.Data{}).MoveTo(vec.Vec2{})
	for i := 1; i <= n; i++ {
		p = p.LineTo(vec.Vec2{X: float64(i)})
	}
	return outline.New(p)
}

func line(length float64) *outline.Outline {
	return outline.New((&path.Data{}).MoveTo(vec.Vec2{}).LineTo(vec.Vec2{X: length}))
}

func testSampler(sp int, tracer trace.Provider) *Sampler {
	return &Sampler{
		SamplePoints: sp,
		Threshold:    10,
		DensityFloor: 0.01,
		Params:       trace.Params{TurdSize: 50},
		Tracer:       tracer,
	}
}

func closeBounds(a, b Bounds) bool {
	return math.Abs(a.Upper-b.Upper) < 1e-12 && math.Abs(a.Lower-b.Lower) < 1e-12
}

func TestFrameExactAtUpper(t *testing.T) {
	s := testSampler(100, fixed(line(1000)))
	res, hint, err := s.Frame(context.Background(), nil, Bounds{Upper: 0.1, Lower: 0.01})
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 100 {
		t.Fatalf("got %d samples, want 100", res.Len())
	}
	if res.X[0] != 0 || res.X[99] != 1000 {
		t.Errorf("samples span [%g, %g], want [0, 1000]", res.X[0], res.X[99])
	}

	// no bisection took place, so the bounds are only widened
	want := Bounds{Upper: 0.1 * 1.2, Lower: 0.01 * 0.8}
	if !closeBounds(hint, want) {
		t.Errorf("got hint %v, want %v", hint, want)
	}
}

func TestFrameExactAtMidpoint(t *testing.T) {
	s := testSampler(100, fixed(line(1000)))
	s.Threshold = 0
	res, hint, err := s.Frame(context.Background(), nil, Bounds{Upper: 0.15, Lower: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 100 {
		t.Fatalf("got %d samples, want 100", res.Len())
	}
	want := Bounds{Upper: 0.15 * 1.2, Lower: 0.05 * 0.8}
	if !closeBounds(hint, want) {
		t.Errorf("got hint %v, want %v", hint, want)
	}
}

func TestFrameStall(t *testing.T) {
	// With 50 unit segments the point count is a multiple of 50, so 120
	// points can never be hit and the search must stop by itself.
	s := testSampler(120, fixed(staircase(50)))
	s.Threshold = 0
	res, hint, err := s.Frame(context.Background(), nil, Bounds{Upper: 3.5, Lower: 2.5})
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 120 {
		t.Fatalf("got %d samples, want 120", res.Len())
	}
	if res.X[98] != 49 {
		t.Errorf("X[98] = %g, want 49", res.X[98])
	}
	for i := 99; i < 120; i++ {
		if res.X[i] != 50 || res.Y[i] != 0 {
			t.Fatalf("sample %d = (%g, %g), want padding (50, 0)", i, res.X[i], res.Y[i])
		}
	}
	want := Bounds{Upper: 3 * 1.2, Lower: 2.875 * 0.8}
	if !closeBounds(hint, want) {
		t.Errorf("got hint %v, want %v", hint, want)
	}
}

func TestFrameBlank(t *testing.T) {
	s := testSampler(50, fixed(outline.New(nil)))
	res, hint, err := s.Frame(context.Background(), nil, Bounds{Upper: 7, Lower: 3})
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 50 {
		t.Fatalf("got %d samples, want 50", res.Len())
	}
	for i := range res.Len() {
		if res.X[i] != 0 || res.Y[i] != 0 {
			t.Fatalf("sample %d = (%g, %g), want (0, 0)", i, res.X[i], res.Y[i])
		}
	}
	if hint != s.InitialBounds() {
		t.Errorf("got hint %v, want %v", hint, s.InitialBounds())
	}
}

func TestFrameBudget(t *testing.T) {
	outlines := map[string]*outline.Outline{
		"short_line": line(3),
		"long_line":  line(1e5),
		"staircase":  staircase(37),
		"curve": outline.New((&path.Data{}).
			MoveTo(vec.Vec2{}).
			CubeTo(vec.Vec2{X: 100}, vec.Vec2{X: 100, Y: 100}, vec.Vec2{Y: 100}).
			Close()),
	}
	bounds := []Bounds{
		{Upper: 1, Lower: 0.01},
		{Upper: 0.001, Lower: 0.0001},
		{Upper: 1000, Lower: 500},
	}
	for name, o := range outlines {
		for _, sp := range []int{1, 17, 640, 6400} {
			for _, b := range bounds {
				t.Run(fmt.Sprintf("%s/%d/%g", name, sp, b.Upper), func(t *testing.T) {
					s := testSampler(sp, fixed(o))
					res, _, err := s.Frame(context.Background(), nil, b)
					if err != nil {
						t.Fatal(err)
					}
					if res.Len() != sp || len(res.Y) != sp {
						t.Errorf("got %d/%d samples, want %d", len(res.X), len(res.Y), sp)
					}
				})
			}
		}
	}
}

func TestFrameCoarsens(t *testing.T) {
	var calls []float64
	tracer := trace.Func(func(_ context.Context, _ *bilevel.Image, p trace.Params) (*outline.Outline, error) {
		calls = append(calls, p.TurdSize)
		if p.TurdSize < 60 {
			return line(1e5), nil
		}
		return line(500), nil
	})
	s := testSampler(10, tracer)
	s.Threshold = 0
	res, _, err := s.Frame(context.Background(), nil, s.InitialBounds())
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 10 {
		t.Errorf("got %d samples, want 10", res.Len())
	}
	if want := []float64{50, 75}; !slices.Equal(calls, want) {
		t.Errorf("tracer called with turd sizes %v, want %v", calls, want)
	}
}

func TestFrameGivesUpCoarsening(t *testing.T) {
	calls := 0
	tracer := trace.Func(func(context.Context, *bilevel.Image, trace.Params) (*outline.Outline, error) {
		calls++
		return line(1e5), nil
	})
	s := testSampler(10, tracer)
	res, _, err := s.Frame(context.Background(), nil, s.InitialBounds())
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 10 {
		t.Errorf("got %d samples, want 10", res.Len())
	}
	if calls != maxRetrace+1 {
		t.Errorf("tracer called %d times, want %d", calls, maxRetrace+1)
	}
}

func TestFrameTracerError(t *testing.T) {
	tracer := trace.Func(func(context.Context, *bilevel.Image, trace.Params) (*outline.Outline, error) {
		return nil, trace.ErrTracer
	})
	s := testSampler(10, tracer)
	_, _, err := s.Frame(context.Background(), nil, s.InitialBounds())
	if !errors.Is(err, trace.ErrTracer) {
		t.Errorf("got %v, want ErrTracer", err)
	}
}

func TestSplit(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	got := Split(items, 3)
	want := [][]int{{0, 1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	if !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("got %v, want %v", got, want)
	}

	got = Split(items[:2], 4)
	want = [][]int{{0}, {1}}
	if !slices.EqualFunc(got, want, slices.Equal) {
		t.Errorf("got %v, want %v", got, want)
	}

	if got := Split([]int{}, 7); len(got) != 0 {
		t.Errorf("got %v for empty input", got)
	}
}

func TestDispatchOrder(t *testing.T) {
	items := make([]int, 23)
	for i := range items {
		items[i] = i
	}
	// later chunks finish first
	fn := func(ctx context.Context, chunk []int, _ *slog.Logger) (xyscope.Samples, error) {
		time.Sleep(time.Duration(30-chunk[0]) * time.Millisecond)
		var res xyscope.Samples
		for _, i := range chunk {
			res.Append(float64(i), -float64(i))
		}
		return res, nil
	}
	res, err := Dispatch(context.Background(), items, 5, nil, fn)
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != len(items) {
		t.Fatalf("got %d samples, want %d", res.Len(), len(items))
	}
	for i := range items {
		if res.X[i] != float64(i) || res.Y[i] != -float64(i) {
			t.Fatalf("sample %d = (%g, %g)", i, res.X[i], res.Y[i])
		}
	}
}

func TestDispatchError(t *testing.T) {
	errBroken := errors.New("broken frame")
	fn := func(ctx context.Context, chunk []int, _ *slog.Logger) (xyscope.Samples, error) {
		if slices.Contains(chunk, 5) {
			return xyscope.Samples{}, errBroken
		}
		return xyscope.MakeSamples(0), nil
	}
	_, err := Dispatch(context.Background(), []int{0, 1, 2, 3, 4, 5, 6, 7}, 4, nil, fn)
	if !errors.Is(err, errBroken) {
		t.Errorf("got %v, want %v", err, errBroken)
	}
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := range 5 {
		img := bilevel.New(16, 16)
		for y := range 16 {
			for x := range 16 {
				// a dark square which grows from frame to frame
				img.Set(x, y, x < 4 || x > 5+i || y < 4 || y > 5+i)
			}
		}
		fname := filepath.Join(dir, fmt.Sprintf("%d.png", i+1))
		fd, err := os.Create(fname)
		if err != nil {
			t.Fatal(err)
		}
		err = png.Encode(fd, img.Gray())
		if err != nil {
			t.Fatal(err)
		}
		if err := fd.Close(); err != nil {
			t.Fatal(err)
		}
		files = append(files, fname)
	}

	cfg := xyscope.DefaultConfig()
	cfg.SampleRate = 3000
	cfg.FPS = 10
	cfg.Workers = 2
	cfg.TurdSize = 0
	s := NewSampler(cfg, trace.Contour{})

	res, err := Convert(context.Background(), cfg, s, files)
	if err != nil {
		t.Fatal(err)
	}
	if res.Len() != 5*300 {
		t.Fatalf("got %d samples, want %d", res.Len(), 5*300)
	}
	// the squares all start at (4, 12) in y-up pixel coordinates
	for k := range 5 {
		x, y := res.X[k*300], res.Y[k*300]
		if x < 4 || x > 11 || y < 4 || y > 12 {
			t.Errorf("frame %d starts at (%g, %g), outside the square", k, x, y)
		}
	}

	_, err = Convert(context.Background(), cfg, s, append(files, filepath.Join(dir, "99.png")))
	if err == nil {
		t.Error("missing frame file was not reported")
	}
}
