package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func grayRow(m *image.Gray, y int, values ...uint8) {
	for x, v := range values {
		m.SetGray(x, y, color.Gray{Y: v})
	}
}

func filled(w, h int, v uint8) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, w, h))
	for i := range m.Pix {
		m.Pix[i] = v
	}
	return m
}

func newEncoder(t *testing.T, cfg Config) *Encoder {
	t.Helper()
	e, err := NewEncoder(cfg)
	require.NoError(t, err)
	return e
}

func TestEncodePacking(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 8, 8))
	grayRow(m, 0, 255, 255, 255, 255, 255, 255, 255, 255)
	grayRow(m, 1, 0, 0, 0, 0, 0, 0, 0, 0)
	grayRow(m, 2, 255, 0, 0, 0, 0, 0, 0, 0)
	grayRow(m, 3, 129, 128, 129, 128, 129, 128, 129, 128)
	grayRow(m, 4, 128, 128, 128, 128, 128, 128, 128, 128)
	grayRow(m, 5, 0, 0, 0, 0, 0, 0, 0, 129)
	grayRow(m, 6, 0, 0, 0, 0, 200, 200, 200, 200)
	grayRow(m, 7, 200, 0, 0, 200, 0, 0, 0, 200)

	e := newEncoder(t, Config{Size: 8, Threshold: 128})
	b, err := e.Encode(m)
	require.NoError(t, err)

	assert.Equal(t, Bitmap{0xFF, 0x00, 0x80, 0xAA, 0x00, 0x01, 0x0F, 0x91}, b)
}

func TestEncodeThresholdBoundary(t *testing.T) {
	tests := []struct {
		name      string
		value     uint8
		threshold int
		want      byte
	}{
		{"equal is background", 128, 128, 0x00},
		{"one above is foreground", 129, 128, 0xFF},
		{"zero threshold", 1, 0, 0xFF},
		{"zero threshold zero sample", 0, 0, 0x00},
		{"maximum threshold", 255, 255, 0x00},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEncoder(t, Config{Size: 8, Threshold: tt.threshold})
			b, err := e.Encode(filled(8, 8, tt.value))
			require.NoError(t, err)
			assert.Equal(t, bytes.Repeat([]byte{tt.want}, 8), []byte(b))
		})
	}
}

func TestEncodePolarity(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 8, 8))
	grayRow(m, 0, 0, 0, 0, 0, 255, 255, 255, 255)

	bright := newEncoder(t, Config{Size: 8, Threshold: 128, Polarity: BrightForeground})
	b, err := bright.Encode(m)
	require.NoError(t, err)
	assert.Equal(t, byte(0x0F), b[0])
	assert.Equal(t, byte(0x00), b[1])

	dark := newEncoder(t, Config{Size: 8, Threshold: 128, Polarity: DarkForeground})
	b, err = dark.Encode(m)
	require.NoError(t, err)
	assert.Equal(t, byte(0xF0), b[0])
	assert.Equal(t, byte(0xFF), b[1])
}

func TestEncodeLength(t *testing.T) {
	e := newEncoder(t, DefaultConfig())

	for _, r := range []image.Rectangle{
		image.Rect(0, 0, 1, 1),
		image.Rect(0, 0, 13, 7),
		image.Rect(0, 0, 64, 64),
		image.Rect(0, 0, 100, 100),
		image.Rect(0, 0, 256, 32),
		image.Rect(10, 20, 74, 84),
	} {
		m := image.NewGray(r)
		b, err := e.Encode(m)
		require.NoError(t, err, r)
		assert.Len(t, b, 512, r)
	}
}

func TestEncodeIdempotent(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 97, 81))
	for i := range m.Pix {
		m.Pix[i] = uint8(i * 7)
	}

	e := newEncoder(t, DefaultConfig())
	b1, err := e.Encode(m)
	require.NoError(t, err)
	b2, err := e.Encode(m)
	require.NoError(t, err)

	assert.Equal(t, b1, b2)
}

func TestEncodeResample(t *testing.T) {
	// Left half white, right half black; Lanczos ringing is only allowed to
	// disturb the bytes either side of the edge
	m := image.NewGray(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 64; x++ {
			m.SetGray(x, y, color.Gray{Y: 255})
		}
	}

	e := newEncoder(t, DefaultConfig())
	b, err := e.Encode(m)
	require.NoError(t, err)

	for y := 0; y < 64; y++ {
		row := b[y*8 : y*8+8]
		assert.Equal(t, []byte{0xFF, 0xFF, 0xFF}, []byte(row[:3]), "row %d", y)
		assert.Equal(t, []byte{0x00, 0x00, 0x00}, []byte(row[5:]), "row %d", y)
	}
}

func TestEncodeSubImage(t *testing.T) {
	m := filled(16, 16, 0)
	for y := 8; y < 16; y++ {
		for x := 8; x < 16; x++ {
			m.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	m.SetGray(8, 8, color.Gray{Y: 0})

	e := newEncoder(t, Config{Size: 8, Threshold: 128})
	b, err := e.Encode(m.SubImage(image.Rect(8, 8, 16, 16)))
	require.NoError(t, err)

	assert.Equal(t, Bitmap{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, b)
}

func TestEncodeRGBA(t *testing.T) {
	m := image.NewRGBA(image.Rect(0, 0, 8, 8))
	m.Set(0, 0, color.White)
	m.Set(1, 0, color.RGBA{0x40, 0x40, 0x40, 0xff})

	e := newEncoder(t, Config{Size: 8, Threshold: 128})
	b, err := e.Encode(m)
	require.NoError(t, err)

	assert.Equal(t, byte(0x80), b[0])
}

func TestEncodeZeroArea(t *testing.T) {
	e := newEncoder(t, DefaultConfig())

	_, err := e.Encode(image.NewGray(image.Rect(0, 0, 0, 10)))
	assert.ErrorIs(t, err, ErrDecode)

	_, err = e.Encode(nil)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"default", DefaultConfig(), true},
		{"size 8", Config{Size: 8, Threshold: 0}, true},
		{"size 128 dark", Config{Size: 128, Threshold: 255, Polarity: DarkForeground}, true},
		{"size not multiple of 8", Config{Size: 60, Threshold: 128}, false},
		{"zero size", Config{Size: 0, Threshold: 128}, false},
		{"negative size", Config{Size: -8, Threshold: 128}, false},
		{"negative threshold", Config{Size: 64, Threshold: -1}, false},
		{"threshold too big", Config{Size: 64, Threshold: 256}, false},
		{"unknown polarity", Config{Size: 64, Threshold: 128, Polarity: Polarity(7)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEncoder(tt.cfg)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestParsePolarity(t *testing.T) {
	p, err := ParsePolarity("bright")
	require.NoError(t, err)
	assert.Equal(t, BrightForeground, p)

	p, err = ParsePolarity("dark")
	require.NoError(t, err)
	assert.Equal(t, DarkForeground, p)
	assert.Equal(t, "dark", p.String())

	_, err = ParsePolarity("inverted")
	assert.ErrorIs(t, err, ErrConfig)
}

func TestReadImage(t *testing.T) {
	t.Run("png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, filled(8, 8, 255)))

		e := newEncoder(t, Config{Size: 8, Threshold: 128})
		b, err := e.EncodeReader(&buf)
		require.NoError(t, err)
		assert.Equal(t, Bitmap(bytes.Repeat([]byte{0xFF}, 8)), b)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ReadImage(bytes.NewReader([]byte("not an image")))
		assert.ErrorIs(t, err, ErrDecode)
	})

	t.Run("truncated png", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, png.Encode(&buf, filled(8, 8, 255)))

		_, err := ReadImage(bytes.NewReader(buf.Bytes()[:buf.Len()/2]))
		assert.ErrorIs(t, err, ErrDecode)
	})
}

func TestDecode(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range m.Pix {
		if i%3 == 0 {
			m.Pix[i] = 255
		}
	}

	e := newEncoder(t, Config{Size: 16, Threshold: 128})
	b, err := e.Encode(m)
	require.NoError(t, err)

	out, err := Decode(bytes.NewReader(b), 16)
	require.NoError(t, err)
	assert.Equal(t, m.Pix, out.(*image.Gray).Pix)

	_, err = Decode(bytes.NewReader(b[:len(b)-1]), 16)
	assert.EqualError(t, err, errNotEnough.Error())

	_, err = Decode(bytes.NewReader(append(b, 0x00)), 16)
	assert.EqualError(t, err, errTooMuch.Error())

	_, err = Decode(bytes.NewReader(b), 12)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestEncodeDefault(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, filled(64, 64, 255)))
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 512), buf.Bytes())
}

func TestAutoThreshold(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 16, 16))
	for i := range m.Pix {
		if i%2 == 0 {
			m.Pix[i] = 40
		} else {
			m.Pix[i] = 200
		}
	}

	threshold := AutoThreshold(m)
	assert.Greater(t, threshold, 40)
	assert.Less(t, threshold, 200)
}
