/*
Package buildinfo writes the info.json manifest published next to a built
firmware image so the over-the-air updater can tell which version it is and
verify the download.
*/
package buildinfo

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	// Filename is the manifest written next to the firmware image
	Filename = "info.json"
	// DefaultVersion is used when no VERSION_NUMBER is defined
	DefaultVersion = "0"
)

// Info is the manifest record.
type Info struct {
	Platform string `json:"platform"`
	Version  string `json:"version"`
	MD5      string `json:"md5"`
}

func md5File(file string) (string, error) {
	f, err := os.Open(file)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := md5.New()
	if _, err = io.Copy(h, f); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

// New returns the manifest for the firmware image at artifact. An empty
// version is replaced with DefaultVersion.
func New(platform, version, artifact string) (*Info, error) {
	sum, err := md5File(artifact)
	if err != nil {
		return nil, err
	}

	if version == "" {
		version = DefaultVersion
	}

	return &Info{
		Platform: platform,
		Version:  version,
		MD5:      sum,
	}, nil
}

// MarshalIndent returns the manifest as JSON indented by three spaces.
func (i *Info) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(i, "", "   ")
}

// Write writes the manifest into dir and returns the path written.
func (i *Info) Write(dir string) (string, error) {
	b, err := i.MarshalIndent()
	if err != nil {
		return "", err
	}

	file := filepath.Join(dir, Filename)
	if err := os.WriteFile(file, b, 0644); err != nil {
		return "", err
	}

	return file, nil
}
