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

package xyscope

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// ErrInvalidConfig is returned by [Config.Validate].
var ErrInvalidConfig = errors.New("invalid configuration")

// Config collects the settings of both conversion pipelines.
type Config struct {
	// SampleRate is the audio sample rate in Hz.
	SampleRate int

	// FPS is the frame rate of the input.  SampleRate should be a
	// multiple of FPS, otherwise frame pacing drifts.
	FPS int

	// Wobble is added, cyclically, to the column index of the x
	// coordinate while a raster column is drawn.  [0] draws a sharp
	// vertical line, [0, 0, 1, 1] a wider bow shape.
	Wobble []int

	// AlphaMax is the potrace corner threshold (-a).  Smaller values
	// give more jagged outlines with fewer points.
	AlphaMax float64

	// TurdSize suppresses traced features smaller than this many pixels
	// (potrace -t).  The vector pipeline raises it for frames which are
	// too complex for the sample budget.
	TurdSize float64

	// OptTolerance is the potrace curve optimisation tolerance (-O).
	OptTolerance float64

	// Threshold is how close, in samples, the density search must get
	// to the budget before it stops.
	Threshold int

	// DensityFloor is the smallest sampling density the vector
	// pipeline accepts before it coarsens the trace instead.
	DensityFloor float64

	// Workers is the number of frame chunks traced in parallel.
	Workers int

	// Potrace is the name or path of the potrace executable.  If empty,
	// the built-in contour tracer is used.
	Potrace string

	// Logger receives progress and quality warnings.  Nil discards them.
	Logger *slog.Logger
}

// DefaultConfig returns the settings used when nothing else is specified.
func DefaultConfig() *Config {
	return &Config{
		SampleRate:   96000,
		FPS:          15,
		Wobble:       []int{0},
		AlphaMax:     0.1,
		TurdSize:     50,
		OptTolerance: 0.2,
		Threshold:    10,
		DensityFloor: 0.01,
		Workers:      7,
	}
}

// SamplePoints returns the per-frame sample budget for this configuration.
func (c *Config) SamplePoints() int {
	return SamplePoints(c.SampleRate, c.FPS)
}

// PacingRemainder returns the number of samples per second which are not
// allotted to any frame.  This is zero when FPS divides SampleRate.
func (c *Config) PacingRemainder() int {
	if c.FPS <= 0 {
		return 0
	}
	return c.SampleRate % c.FPS
}

// Log returns the configured logger, or a logger which discards everything.
func (c *Config) Log() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// Validate checks that the configuration can be used for conversion.
func (c *Config) Validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidConfig, c.SampleRate)
	case c.FPS <= 0:
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.FPS)
	case c.SamplePoints() < 1:
		return fmt.Errorf("%w: fps %d exceeds sample rate %d",
			ErrInvalidConfig, c.FPS, c.SampleRate)
	case len(c.Wobble) == 0:
		return fmt.Errorf("%w: empty wobble pattern", ErrInvalidConfig)
	case c.AlphaMax < 0:
		return fmt.Errorf("%w: alpha max %g", ErrInvalidConfig, c.AlphaMax)
	case c.TurdSize < 0:
		return fmt.Errorf("%w: turd size %g", ErrInvalidConfig, c.TurdSize)
	case c.Threshold < 0:
		return fmt.Errorf("%w: threshold %d", ErrInvalidConfig, c.Threshold)
	case !(c.DensityFloor > 0):
		return fmt.Errorf("%w: density floor %g", ErrInvalidConfig, c.DensityFloor)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	return nil
}

// FromEnv overrides fields from XYSCOPE_* environment variables.
// Unset or unparsable variables leave the current value unchanged.
func (c *Config) FromEnv() {
	c.SampleRate = envInt("XYSCOPE_SAMPLE_RATE", c.SampleRate)
	c.FPS = envInt("XYSCOPE_FPS", c.FPS)
	c.Workers = envInt("XYSCOPE_WORKERS", c.Workers)
	c.Threshold = envInt("XYSCOPE_THRESHOLD", c.Threshold)
	c.TurdSize = envFloat("XYSCOPE_TURD_SIZE", c.TurdSize)
	c.DensityFloor = envFloat("XYSCOPE_DENSITY_FLOOR", c.DensityFloor)
	if v := os.Getenv("XYSCOPE_POTRACE"); v != "" {
		c.Potrace = v
	}
	if v := os.Getenv("XYSCOPE_WOBBLE"); v != "" {
		if w, err := ParseWobble(v); err == nil {
			c.Wobble = w
		}
	}
}

// ParseWobble parses a wobble pattern given as comma separated integers,
// for example "0,0,1,1".
func ParseWobble(s string) ([]int, error) {
	var res []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("wobble pattern %q: %w", s, err)
		}
		res = append(res, v)
	}
	if len(res) == 0 {
		return nil, fmt.Errorf("%w: empty wobble pattern %q", ErrInvalidConfig, s)
	}
	return res, nil
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
