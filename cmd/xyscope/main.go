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

// Command xyscope converts a directory of numbered frame images into a
// stereo WAV file which draws the frames on an oscilloscope in XY mode.
//
// Usage:
//
//	xyscope raster [flags] -in DIR -out FILE.wav
//	xyscope vector [flags] -in DIR -out FILE.wav
//	xyscope preview [flags] -frame FILE [-pdf FILE.pdf] [-png FILE.png]
//	xyscope demo [-n FRAMES] [-size PIXELS] -out DIR
//
// The raster mode sweeps the beam over every column of the frame, the
// vector mode traces the outlines of dark regions.  Defaults can be
// changed using XYSCOPE_* environment variables, see [xyscope.Config].
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"seehuhn.de/go/xyscope"
	"seehuhn.de/go/xyscope/frames"
	"seehuhn.de/go/xyscope/pcm"
	"seehuhn.de/go/xyscope/preview"
	"seehuhn.de/go/xyscope/render"
	"seehuhn.de/go/xyscope/runlength"
	"seehuhn.de/go/xyscope/testcases"
	"seehuhn.de/go/xyscope/trace"
	"seehuhn.de/go/xyscope/vector"
)

func main() {
	flag.Usage = usage
	flag.Parse()
	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := run(ctx, flag.Arg(0), flag.Args()[1:])
	stop()
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(2)
	} else if err != nil {
		fmt.Fprintln(os.Stderr, "xyscope:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: xyscope raster|vector|preview|demo [flags]\n\n")
	fmt.Fprintf(os.Stderr, "Use \"xyscope <command> -h\" for the flags of a command.\n")
}

func run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "raster":
		return runRaster(args)
	case "vector":
		return runVector(ctx, args)
	case "preview":
		return runPreview(ctx, args)
	case "demo":
		return runDemo(args)
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// options holds the flags shared by the conversion commands.
type options struct {
	cfg    *xyscope.Config
	wobble string
	level  string
}

func newFlags(name string) (*flag.FlagSet, *options) {
	cfg := xyscope.DefaultConfig()
	cfg.FromEnv()

	opt := &options{cfg: cfg}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.SampleRate, "rate", cfg.SampleRate, "audio sample rate in Hz")
	fs.IntVar(&cfg.FPS, "fps", cfg.FPS, "frames per second")
	fs.StringVar(&opt.level, "log", "info", "log level (debug, info, warn, error)")
	return fs, opt
}

func (opt *options) addRasterFlags(fs *flag.FlagSet) {
	wobble := make([]string, len(opt.cfg.Wobble))
	for i, w := range opt.cfg.Wobble {
		wobble[i] = fmt.Sprint(w)
	}
	fs.StringVar(&opt.wobble, "wobble", strings.Join(wobble, ","), "x offsets applied cyclically within a column")
}

func (opt *options) addVectorFlags(fs *flag.FlagSet) {
	cfg := opt.cfg
	fs.StringVar(&cfg.Potrace, "potrace", cfg.Potrace, "potrace executable (empty: built-in tracer)")
	fs.Float64Var(&cfg.AlphaMax, "alphamax", cfg.AlphaMax, "potrace corner threshold")
	fs.Float64Var(&cfg.TurdSize, "turdsize", cfg.TurdSize, "suppress features up to this many pixels")
	fs.Float64Var(&cfg.OptTolerance, "opttolerance", cfg.OptTolerance, "potrace curve optimisation tolerance")
	fs.IntVar(&cfg.Threshold, "threshold", cfg.Threshold, "accepted deviation from the sample budget")
	fs.Float64Var(&cfg.DensityFloor, "floor", cfg.DensityFloor, "smallest sampling density before the trace is coarsened")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "number of frame chunks processed in parallel")
}

// finish checks the parsed options and sets up logging.
func (opt *options) finish() error {
	if opt.wobble != "" {
		w, err := xyscope.ParseWobble(opt.wobble)
		if err != nil {
			return err
		}
		opt.cfg.Wobble = w
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opt.level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	opt.cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))

	if err := opt.cfg.Validate(); err != nil {
		return err
	}
	if r := opt.cfg.PacingRemainder(); r != 0 {
		opt.cfg.Logger.Warn("fps does not divide the sample rate, playback will be fast",
			"rate", opt.cfg.SampleRate, "fps", opt.cfg.FPS, "unused", r)
	}
	return nil
}

func runRaster(args []string) error {
	fs, opt := newFlags("raster")
	opt.addRasterFlags(fs)
	in := fs.String("in", "", "directory of numbered frame images")
	out := fs.String("out", "raster_osc_output.wav", "output WAV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opt.finish(); err != nil {
		return err
	}

	files, err := listFrames(*in)
	if err != nil {
		return err
	}
	samples, err := runlength.NewEncoder(opt.cfg).EncodeFiles(files)
	if err != nil {
		return err
	}
	return writeOutput(opt.cfg, *out, samples)
}

func runVector(ctx context.Context, args []string) error {
	fs, opt := newFlags("vector")
	opt.addVectorFlags(fs)
	in := fs.String("in", "", "directory of numbered frame images")
	out := fs.String("out", "vector_osc_output.wav", "output WAV file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opt.finish(); err != nil {
		return err
	}

	files, err := listFrames(*in)
	if err != nil {
		return err
	}
	s := vector.NewSampler(opt.cfg, trace.FromConfig(opt.cfg))
	samples, err := vector.Convert(ctx, opt.cfg, s, files)
	if err != nil {
		return err
	}
	return writeOutput(opt.cfg, *out, samples)
}

func runPreview(ctx context.Context, args []string) error {
	fs, opt := newFlags("preview")
	opt.addRasterFlags(fs)
	opt.addVectorFlags(fs)
	frame := fs.String("frame", "", "frame image to preview")
	mode := fs.String("mode", "vector", "conversion to preview (raster or vector)")
	pdfName := fs.String("pdf", "", "write the traced outline and beam positions to this PDF file")
	pngName := fs.String("png", "", "write the simulated oscilloscope screen to this PNG file")
	fillName := fs.String("fill", "", "write the filled outline to this PNG file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if err := opt.finish(); err != nil {
		return err
	}
	if *frame == "" {
		return errors.New("missing -frame")
	}

	img, err := frames.LoadBilevel(*frame)
	if err != nil {
		return err
	}
	log := opt.cfg.Log()

	var samples xyscope.Samples
	switch *mode {
	case "raster":
		samples = runlength.NewEncoder(opt.cfg).Encode(img)
	case "vector":
		tracer := trace.FromConfig(opt.cfg)
		o, err := tracer.Trace(ctx, img, trace.ParamsFromConfig(opt.cfg))
		if err != nil {
			return err
		}
		log.Info("traced frame", "length", o.Length(), "bounds", o.Bounds())

		s := vector.NewSampler(opt.cfg, tracer)
		samples, _, err = s.Frame(ctx, img, s.InitialBounds())
		if err != nil {
			return err
		}
		if *pdfName != "" {
			err = preview.WritePDF(*pdfName, o, samples, img.Width, img.Height)
			if err != nil {
				return err
			}
		}
		if *fillName != "" {
			err = preview.WritePNG(*fillName, render.Gray(o, img.Width, img.Height))
			if err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown mode %q", *mode)
	}

	if *pngName != "" {
		err = preview.WritePNG(*pngName, preview.Beam(samples, img.Width, img.Height, 0.75))
		if err != nil {
			return err
		}
	}
	return nil
}

func runDemo(args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	n := fs.Int("n", 30, "number of frames")
	size := fs.Int("size", 256, "frame width and height in pixels")
	out := fs.String("out", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return errors.New("missing -out")
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		return err
	}

	for i, pic := range testcases.Spinner(*n, *size) {
		fname := filepath.Join(*out, fmt.Sprintf("%d.png", i+1))
		err := preview.WritePNG(fname, pic.Frame().Gray())
		if err != nil {
			return err
		}
	}
	return nil
}

func listFrames(dir string) ([]string, error) {
	if dir == "" {
		return nil, errors.New("missing -in")
	}
	files, err := frames.List(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no frames found in %s", dir)
	}
	return files, nil
}

func writeOutput(cfg *xyscope.Config, fname string, s xyscope.Samples) error {
	cfg.Log().Info("writing audio", "file", fname, "samples", s.Len(),
		"seconds", float64(s.Len())/float64(cfg.SampleRate))
	return pcm.WriteFile(fname, s, cfg.SampleRate)
}
