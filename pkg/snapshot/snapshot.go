// Package snapshot dumps the current frame buffer to disk or the
// system clipboard as a PNG. It is a debug aid, not a save-state
// mechanism: it captures pixels only, never emulator state.
package snapshot

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"time"

	"golang.design/x/clipboard"
)

// WriteFile encodes img as PNG and writes it to path.
func WriteFile(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}
	return nil
}

// DefaultName returns a timestamped screenshot filename.
func DefaultName() string {
	return "dmgcore_" + time.Now().Format("20060102_150405") + ".png"
}

// CopyToClipboard encodes img as PNG and places it on the system
// clipboard.
func CopyToClipboard(img image.Image) error {
	if err := clipboard.Init(); err != nil {
		return fmt.Errorf("snapshot: clipboard init: %w", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	clipboard.Write(clipboard.FmtImage, buf.Bytes())
	return nil
}
