package bitmap

import (
	"image"
	"image/color"
	"image/draw"
	"io"

	"github.com/disintegration/gift"
	"github.com/ericpauley/go-quantize/quantize"
)

// Encoder converts images into packed bitmaps using a fixed Config.
type Encoder struct {
	cfg Config
}

// NewEncoder returns an Encoder for cfg, or an error wrapping ErrConfig if
// cfg is invalid.
func NewEncoder(cfg Config) (*Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{cfg: cfg}, nil
}

// Config returns the configuration the Encoder was created with.
func (e *Encoder) Config() Config {
	return e.cfg
}

// Convert any image to 8-bit grayscale with the top-left corner at (0, 0)
func grayscale(m image.Image) *image.Gray {
	b := m.Bounds()
	if g, ok := m.(*image.Gray); ok && b.Min == (image.Point{}) {
		return g
	}
	g := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(g, g.Bounds(), m, b.Min, draw.Src)
	return g
}

// Lanczos resampling isn't pixel exact across implementations, so only
// images that aren't already the right size go through it
func (e *Encoder) resample(g *image.Gray) *image.Gray {
	if g.Bounds().Dx() == e.cfg.Size && g.Bounds().Dy() == e.cfg.Size {
		return g
	}
	f := gift.New(gift.Resize(e.cfg.Size, e.cfg.Size, gift.LanczosResampling))
	dst := image.NewGray(f.Bounds(g.Bounds()))
	f.Draw(dst, g)
	return dst
}

func (e *Encoder) foreground(y uint8) bool {
	if e.cfg.Polarity == DarkForeground {
		y = maxIntensity - y
	}
	return int(y) > e.cfg.Threshold
}

func (e *Encoder) pack(g *image.Gray) Bitmap {
	size := e.cfg.Size
	stride := size / pixelsPerByte
	b := make(Bitmap, Len(size))
	for y := 0; y < size; y++ {
		for x := 0; x < stride; x++ {
			var v byte
			for bit := 0; bit < pixelsPerByte; bit++ {
				if e.foreground(g.GrayAt(x*pixelsPerByte+bit, y).Y) {
					v |= 0x80 >> uint(bit)
				}
			}
			b[y*stride+x] = v
		}
	}
	return b
}

// Encode resamples m to the configured size, thresholds every pixel and
// returns the packed result.
func (e *Encoder) Encode(m image.Image) (Bitmap, error) {
	if m == nil || m.Bounds().Empty() {
		return nil, errZeroArea
	}
	return e.pack(e.resample(grayscale(m))), nil
}

// EncodeReader decodes an image from r and encodes it.
func (e *Encoder) EncodeReader(r io.Reader) (Bitmap, error) {
	m, err := ReadImage(r)
	if err != nil {
		return nil, err
	}
	return e.Encode(m)
}

// Encode writes the Image m to w as a packed bitmap using the default
// configuration.
func Encode(w io.Writer, m image.Image) error {
	e, err := NewEncoder(DefaultConfig())
	if err != nil {
		return err
	}
	b, err := e.Encode(m)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// AutoThreshold estimates a threshold for m by reducing it to two colors and
// returning the midpoint between their intensities. Images with a single
// color get DefaultThreshold.
func AutoThreshold(m image.Image) int {
	q := quantize.MedianCutQuantizer{}
	p := q.Quantize(make(color.Palette, 0, 2), grayscale(m))
	if len(p) < 2 {
		return DefaultThreshold
	}
	a := int(color.GrayModel.Convert(p[0]).(color.Gray).Y)
	b := int(color.GrayModel.Convert(p[1]).(color.Gray).Y)
	if a == b {
		return DefaultThreshold
	}
	return (a + b) / 2
}
