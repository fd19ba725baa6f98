// Package config loads cartridge and boot ROM images from disk,
// supporting raw, gzip, zip and 7z-archived ROM files transparently.
package config

import (
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/bodgit/sevenzip"

	"github.com/brineflow/dmgcore/internal/boot"
)

// LoadROM reads the ROM image at path, transparently decompressing it
// if the extension names a supported archive format. A bare .gb/.gbc
// file, or anything with an unrecognized extension, is returned as-is.
func LoadROM(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load rom: %w", err)
	}

	switch filepath.Ext(path) {
	case ".gb", ".gbc", ".bin":
		return data, nil
	case ".gz":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("config: load rom: %w", err)
		}
		defer f.Close()
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("config: load rom: %w", err)
		}
		return io.ReadAll(gz)
	case ".zip":
		zr, err := zip.NewReader(readerAt(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("config: load rom: %w", err)
		}
		return readFirstEntry(zr.File[0].Open())
	case ".7z":
		sr, err := sevenzip.NewReader(readerAt(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("config: load rom: %w", err)
		}
		return readFirstEntry(sr.File[0].Open())
	default:
		return data, nil
	}
}

// LoadBootROM reads a 256-byte DMG boot image from disk.
func LoadBootROM(path string) (*boot.ROM, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: load boot rom: %w", err)
	}
	if len(data) != 256 {
		return nil, fmt.Errorf("config: boot rom %s is %d bytes, want 256", path, len(data))
	}
	return boot.New(data), nil
}

type readerAt []byte

func (r readerAt) ReadAt(p []byte, off int64) (int, error) {
	if off >= int64(len(r)) {
		return 0, io.EOF
	}
	n := copy(p, r[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

func readFirstEntry(rc io.ReadCloser, err error) ([]byte, error) {
	if err != nil {
		return nil, fmt.Errorf("config: load rom: %w", err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
