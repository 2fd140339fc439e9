package weathericons

import (
	"bytes"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/weathericons/bundle"
	"github.com/bodgit/weathericons/header"
	"github.com/bodgit/weathericons/weather"
)

// Result is the outcome of one generation run.
type Result struct {
	// Size is the icon edge length
	Size int
	// Entries holds every encoded icon in registry order
	Entries []header.Entry
	// Warnings holds one error per skipped icon
	Warnings []error
	// Table is the rule table used for the resolver function
	Table weather.Table
}

// Names returns the names of the encoded icons.
func (r *Result) Names() []weather.IconName {
	names := make([]weather.IconName, 0, len(r.Entries))
	for _, e := range r.Entries {
		names = append(names, e.Icon.Name)
	}
	return names
}

// WriteHeader writes the C header for r to w.
func (r *Result) WriteHeader(w io.Writer) error {
	return header.Write(w, r.Size, r.Entries, r.Table)
}

// WriteHeaderFile renders the header in memory and only then writes it to
// file, so a failed run leaves no partial output.
func (r *Result) WriteHeaderFile(file string) error {
	b := new(bytes.Buffer)
	if err := r.WriteHeader(b); err != nil {
		return err
	}
	return os.WriteFile(file, b.Bytes(), 0644)
}

// Bundle returns the encoded icons as a bundle.
func (r *Result) Bundle() (*bundle.Bundle, error) {
	b := bundle.New(r.Size)
	for _, e := range r.Entries {
		if err := b.Set(string(e.Icon.Name), e.Bitmap); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// WriteBundleFile writes the encoded icons to file as a bundle.
func (r *Result) WriteBundleFile(file string) error {
	b, err := r.Bundle()
	if err != nil {
		return err
	}
	data, err := b.MarshalBinary()
	if err != nil {
		return err
	}
	return os.WriteFile(file, data, 0644)
}

// WritePreviews renders every bitmap in b as a PNG named after the icon in
// dir and returns the files written.
func WritePreviews(dir string, b *bundle.Bundle) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	var files []string
	for _, name := range b.Names() {
		bm, _ := b.Get(name)
		m, err := bm.Image(b.Size())
		if err != nil {
			return nil, err
		}

		file := filepath.Join(dir, name+".png")
		f, err := os.Create(file)
		if err != nil {
			return nil, err
		}
		if err := png.Encode(f, m); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.Close(); err != nil {
			return nil, err
		}
		files = append(files, file)
	}

	return files, nil
}
