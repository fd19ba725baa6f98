// Package display converts a PPU frame buffer into host-displayable
// images: a fixed DMG 4-shade palette mapping to NRGBA, and an
// integer-scale nearest-neighbour upscale for windowed display.
package display

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"

	"github.com/brineflow/dmgcore/internal/ppu"
)

// Palette is the classic DMG pea-green 4-shade ramp, indexed by the
// PPU's 2-bit shade value (0=lightest .. 3=darkest).
var Palette = [4]color.NRGBA{
	{R: 0x9B, G: 0xBC, B: 0x0F, A: 0xFF},
	{R: 0x8B, G: 0xAC, B: 0x0F, A: 0xFF},
	{R: 0x30, G: 0x62, B: 0x30, A: 0xFF},
	{R: 0x0F, G: 0x38, B: 0x0F, A: 0xFF},
}

// FrameToImage renders a completed frame buffer into an NRGBA image at
// native 160x144 resolution using Palette.
func FrameToImage(frame [ppu.ScreenHeight][ppu.ScreenWidth]uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, ppu.ScreenWidth, ppu.ScreenHeight))
	for y := 0; y < ppu.ScreenHeight; y++ {
		for x := 0; x < ppu.ScreenWidth; x++ {
			img.SetNRGBA(x, y, Palette[frame[y][x]&0x03])
		}
	}
	return img
}

// Scale upscales src by an integer factor using nearest-neighbour
// interpolation, preserving the DMG's hard pixel edges.
func Scale(src image.Image, factor int) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}
