/*
Package bundle implements a small binary container holding a set of named
icon bitmaps, for firmware that loads icons from flash storage rather than
compiling them in.

The layout is little endian: a four byte magic, the icon edge length and the
number of icons as 16-bit values, then one index entry per icon of a NUL
padded 16 byte name and a 32-bit offset from the start of the file, followed
by the bitmaps themselves.
*/
package bundle

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bodgit/weathericons/bitmap"
)

const (
	// Filename is the conventional filename used when writing to disk
	Filename = "icons.bin"

	nameLength = 16
	maxEntries = 0xffff
	headerSize = 8
	indexSize  = nameLength + 4
)

var magic = [4]byte{'W', 'X', 'I', 'C'}

var (
	errBadMagic  = errors.New("bundle: invalid signature")
	errBadName   = errors.New("bundle: invalid name")
	errBadLength = errors.New("bundle: incorrect length")
	errBadOffset = errors.New("bundle: invalid offset")
)

// Bundle is the icon container. It implements the encoding.BinaryMarshaler
// and encoding.BinaryUnmarshaler interfaces.
type Bundle struct {
	size    int
	names   []string
	bitmaps map[string]bitmap.Bitmap
}

// New returns an empty bundle of size by size icons
func New(size int) *Bundle {
	return &Bundle{
		size:    size,
		bitmaps: make(map[string]bitmap.Bitmap),
	}
}

// Size returns the icon edge length
func (b *Bundle) Size() int {
	return b.size
}

// Length returns the number of icons in the bundle
func (b *Bundle) Length() int {
	return len(b.names)
}

// Names returns the icon names in the order they were added
func (b *Bundle) Names() []string {
	return append([]string(nil), b.names...)
}

// Get returns the bitmap stored under name
func (b *Bundle) Get(name string) (bitmap.Bitmap, bool) {
	bm, ok := b.bitmaps[name]
	return bm, ok
}

// Set stores the bitmap under name, replacing any existing bitmap
func (b *Bundle) Set(name string, bm bitmap.Bitmap) error {
	if name == "" || len(name) > nameLength || bytes.IndexByte([]byte(name), 0) >= 0 {
		return fmt.Errorf("%w: %q", errBadName, name)
	}
	if len(bm) != bitmap.Len(b.size) {
		return fmt.Errorf("%w: %d bytes, expected %d", errBadLength, len(bm), bitmap.Len(b.size))
	}
	if _, ok := b.bitmaps[name]; !ok {
		if len(b.names) == maxEntries {
			return fmt.Errorf("more than %d entries", maxEntries)
		}
		b.names = append(b.names, name)
	}
	b.bitmaps[name] = append(bitmap.Bitmap(nil), bm...)
	return nil
}

// MarshalBinary encodes the bundle into binary form and returns the result
func (b *Bundle) MarshalBinary() ([]byte, error) {
	buf := new(bytes.Buffer)

	if _, err := buf.Write(magic[:]); err != nil {
		return nil, err
	}
	if err := binary.Write(buf, binary.LittleEndian, []uint16{uint16(b.size), uint16(len(b.names))}); err != nil {
		return nil, err
	}

	// Write out the index
	offset := uint32(headerSize + indexSize*len(b.names))
	for _, name := range b.names {
		var n [nameLength]byte
		copy(n[:], name)
		if _, err := buf.Write(n[:]); err != nil {
			return nil, err
		}
		if err := binary.Write(buf, binary.LittleEndian, offset); err != nil {
			return nil, err
		}
		offset += uint32(bitmap.Len(b.size))
	}

	// Write out bitmaps
	for _, name := range b.names {
		if _, err := buf.Write(b.bitmaps[name]); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}

// UnmarshalBinary decodes the bundle from binary form
func (b *Bundle) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)

	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return err
	}
	if m != magic {
		return errBadMagic
	}

	var hdr [2]uint16
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return err
	}

	b.size = int(hdr[0])
	b.names = nil
	b.bitmaps = make(map[string]bitmap.Bitmap)

	length := bitmap.Len(b.size)
	for i := 0; i < int(hdr[1]); i++ {
		var n [nameLength]byte
		if _, err := io.ReadFull(r, n[:]); err != nil {
			return err
		}
		var offset uint32
		if err := binary.Read(r, binary.LittleEndian, &offset); err != nil {
			return err
		}
		if int(offset)+length > len(data) {
			return fmt.Errorf("%w: %d", errBadOffset, offset)
		}

		name := string(bytes.TrimRight(n[:], "\x00"))
		if err := b.Set(name, data[offset:int(offset)+length]); err != nil {
			return err
		}
	}

	return nil
}
