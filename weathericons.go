/*
Package weathericons is a library for generating the weather icon bitmaps
compiled into e-paper weather station firmware.

Each registered icon is read from a source directory, encoded as a packed
1-bit bitmap and emitted, together with a function mapping WMO weather codes
to icons, as a C header.
*/
package weathericons

import (
	"errors"
	"io"
	"log"

	"github.com/bodgit/weathericons/bitmap"
	"github.com/bodgit/weathericons/observability"
	"github.com/bodgit/weathericons/weather"
)

// ErrSourceNotFound is returned when a registered icon has no source image.
var ErrSourceNotFound = errors.New("weathericons: source image not found")

// Options configures a Generator.
type Options struct {
	// Encoder is the bitmap configuration shared by every icon
	Encoder bitmap.Config
	// AutoThreshold estimates a threshold per icon instead of using
	// Encoder.Threshold
	AutoThreshold bool
	// Workers is the number of icons encoded concurrently, at least one
	Workers int

	// Icons and Table default to the weather package registry and rules
	Icons []weather.Icon
	Table weather.Table

	// Cache and Metrics are optional
	Cache   *Cache
	Metrics *observability.Metrics
}

// DefaultOptions returns options for a single worker generating every
// registered icon at the default size and threshold.
func DefaultOptions() Options {
	return Options{
		Encoder: bitmap.DefaultConfig(),
		Workers: 1,
		Icons:   weather.Icons(),
		Table:   weather.Rules(),
	}
}

// Generator encodes the registered icons.
type Generator struct {
	opts    Options
	encoder *bitmap.Encoder
	logger  *log.Logger
}

// New returns a Generator for opts. An invalid encoder configuration is
// reported here, wrapping bitmap.ErrConfig, before any file is read. A nil
// logger discards all output.
func New(opts Options, logger *log.Logger) (*Generator, error) {
	encoder, err := bitmap.NewEncoder(opts.Encoder)
	if err != nil {
		return nil, err
	}

	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if opts.Icons == nil {
		opts.Icons = weather.Icons()
	}
	if opts.Table == nil {
		opts.Table = weather.Rules()
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Generator{
		opts:    opts,
		encoder: encoder,
		logger:  logger,
	}, nil
}
