package bitmap

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

var errZeroArea = fmt.Errorf("%w: image has zero area", ErrDecode)

// ReadImage decodes a source image in any registered format. Failures, and
// images with no pixels, are wrapped with ErrDecode.
func ReadImage(r io.Reader) (image.Image, error) {
	m, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if m.Bounds().Empty() {
		return nil, errZeroArea
	}
	return m, nil
}

func readFull(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

// Image expands b into a size by size grayscale image, foreground white.
func (b Bitmap) Image(size int) (*image.Gray, error) {
	switch {
	case size <= 0 || size%pixelsPerByte != 0:
		return nil, fmt.Errorf("%w: size %d is not a positive multiple of %d", ErrConfig, size, pixelsPerByte)
	case len(b) < Len(size):
		return nil, errNotEnough
	case len(b) > Len(size):
		return nil, errTooMuch
	}

	stride := size / pixelsPerByte
	m := image.NewGray(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if b[y*stride+x/pixelsPerByte]&(0x80>>uint(x%pixelsPerByte)) != 0 {
				m.SetGray(x, y, color.Gray{Y: maxIntensity})
			}
		}
	}
	return m, nil
}

// Decode reads a size by size packed bitmap from r and returns it as an
// image.Image.
func Decode(r io.Reader, size int) (image.Image, error) {
	if size <= 0 || size%pixelsPerByte != 0 {
		return nil, fmt.Errorf("%w: size %d is not a positive multiple of %d", ErrConfig, size, pixelsPerByte)
	}

	b := make(Bitmap, Len(size))
	if err := readFull(r, b); err != nil {
		if err != io.ErrUnexpectedEOF {
			return nil, err
		}
		return nil, errNotEnough
	}

	var tmp [1]byte
	if n, err := r.Read(tmp[:]); n != 0 || (err != io.EOF && err != io.ErrUnexpectedEOF) {
		if err != nil {
			return nil, err
		}
		return nil, errTooMuch
	}

	return b.Image(size)
}
