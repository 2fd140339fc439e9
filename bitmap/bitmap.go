/*
Package bitmap implements a 1-bit packed bitmap decoder and encoder.

The format is a square of Size by Size pixels where Size is a multiple of
eight. Each row is written as Size/8 bytes with the leftmost pixel in the most
significant bit, rows are written top to bottom, so the resulting bitmap is
always exactly Size*Size/8 bytes regardless of the source image dimensions.
A set bit is foreground (icon) content, a clear bit is background.
*/
package bitmap

import (
	"errors"
	"fmt"
)

const (
	// DefaultSize is the icon edge length in pixels
	DefaultSize = 64
	// DefaultThreshold is the intensity a sample must exceed to be foreground
	DefaultThreshold = 128

	pixelsPerByte = 8
	maxIntensity  = 0xff
)

var (
	// ErrConfig is returned for an invalid encoder configuration
	ErrConfig = errors.New("bitmap: invalid configuration")
	// ErrDecode is returned when a source image cannot be read
	ErrDecode = errors.New("bitmap: cannot decode image")

	errNotEnough = errors.New("bitmap: not enough image data")
	errTooMuch   = errors.New("bitmap: too much image data")
)

// Polarity selects which end of the intensity range is foreground.
type Polarity int

const (
	// BrightForeground treats samples brighter than the threshold as icon
	// content. Source icons are expected to be negated, with a white glyph on
	// a black background.
	BrightForeground Polarity = iota
	// DarkForeground inverts every sample before comparing it with the
	// threshold, for black glyphs on a white background.
	DarkForeground
)

func (p Polarity) String() string {
	switch p {
	case BrightForeground:
		return "bright"
	case DarkForeground:
		return "dark"
	default:
		return fmt.Sprintf("Polarity(%d)", int(p))
	}
}

// ParsePolarity returns the Polarity named by s, either "bright" or "dark".
func ParsePolarity(s string) (Polarity, error) {
	switch s {
	case "bright":
		return BrightForeground, nil
	case "dark":
		return DarkForeground, nil
	}
	return 0, fmt.Errorf("%w: unknown polarity %q", ErrConfig, s)
}

// Config holds the parameters of an Encoder.
type Config struct {
	Size      int
	Threshold int
	Polarity  Polarity
}

// DefaultConfig returns the 64 pixel, threshold 128, bright foreground
// configuration.
func DefaultConfig() Config {
	return Config{
		Size:      DefaultSize,
		Threshold: DefaultThreshold,
		Polarity:  BrightForeground,
	}
}

// Validate checks c describes an encodable bitmap.
func (c Config) Validate() error {
	if c.Size <= 0 || c.Size%pixelsPerByte != 0 {
		return fmt.Errorf("%w: size %d is not a positive multiple of %d", ErrConfig, c.Size, pixelsPerByte)
	}
	if c.Threshold < 0 || c.Threshold > maxIntensity {
		return fmt.Errorf("%w: threshold %d outside [0,%d]", ErrConfig, c.Threshold, maxIntensity)
	}
	switch c.Polarity {
	case BrightForeground, DarkForeground:
	default:
		return fmt.Errorf("%w: unknown polarity %d", ErrConfig, int(c.Polarity))
	}
	return nil
}

// Bytes returns the length of a bitmap encoded with c.
func (c Config) Bytes() int {
	return Len(c.Size)
}

// Len returns the number of bytes in a packed bitmap of size by size pixels.
func Len(size int) int {
	return size * size / pixelsPerByte
}

// Bitmap is a packed 1-bit image.
type Bitmap []byte
