// Package ppu implements the DMG pixel processing unit: the OAM
// scan/pixel-transfer/h-blank/v-blank mode state machine and a
// synchronous, per-scanline background/window/sprite compositor.
//
// Unlike a real LCD controller (and unlike the channel-based renderer
// this package is grounded on), compositing here happens in a single
// call with no suspension point: the whole core runs cooperatively on
// one goroutine, so a scanline is produced all at once at the moment
// the hardware would have finished shifting it out.
package ppu

import "github.com/brineflow/dmgcore/internal/interrupts"

// Mode is the two-bit STAT mode value.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OAMScan
	Drawing
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine     = 456
	linesPerFrame   = 154
	oamScanDots     = 80
	drawingDots     = 172
	vblankStartLine = 144
)

// LCDC bits.
const (
	lcdcEnable       = 1 << 7
	lcdcWindowMap    = 1 << 6
	lcdcWindowEnable = 1 << 5
	lcdcTileData     = 1 << 4
	lcdcBGMap        = 1 << 3
	lcdcObjSize      = 1 << 2
	lcdcObjEnable    = 1 << 1
	lcdcBGEnable     = 1 << 0
)

// STAT bits.
const (
	statLYCInterrupt    = 1 << 6
	statOAMInterrupt    = 1 << 5
	statVBlankInterrupt = 1 << 4
	statHBlankInterrupt = 1 << 3
	statCoincidence     = 1 << 2
)

// object is a decoded sprite attribute entry. index is the sprite's
// position in OAM (0-39), kept for the x-tie priority rule.
type object struct {
	y, x, tile, attr uint8
	index            uint8
}

// PPU owns VRAM, OAM, the LCD registers and the 160x144 frame buffer.
type PPU struct {
	vram [0x2000]byte
	oam  [0xA0]byte

	lcdc, stat      uint8
	scy, scx        uint8
	ly, lyc         uint8
	bgp, obp0, obp1 uint8
	wy, wx          uint8

	mode Mode
	dot  uint16

	windowLine uint8 // internal window-row counter, independent of LY

	frame [ScreenHeight][ScreenWidth]uint8

	irq *interrupts.Controller
}

// New returns a PPU wired to irq for VBlank/STAT interrupt requests.
func New(irq *interrupts.Controller) *PPU {
	return &PPU{irq: irq, mode: OAMScan}
}

func (p *PPU) enabled() bool { return p.lcdc&lcdcEnable != 0 }

// ReadVRAM returns the byte at the VRAM-relative address. During
// Drawing the real LCD controller owns the bus exclusively; reads in
// that window return 0xFF.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	if p.enabled() && p.mode == Drawing {
		return 0xFF
	}
	return p.vram[address]
}

// WriteVRAM stores value at the VRAM-relative address, ignored during
// Drawing.
func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if p.enabled() && p.mode == Drawing {
		return
	}
	p.vram[address] = value
}

// ReadOAM returns the byte at the OAM-relative address. Inaccessible
// during OAMScan and Drawing.
func (p *PPU) ReadOAM(address uint16) uint8 {
	if p.enabled() && (p.mode == OAMScan || p.mode == Drawing) {
		return 0xFF
	}
	return p.oam[address]
}

// WriteOAM stores value at the OAM-relative address, ignored during
// OAMScan and Drawing. OAM DMA bypasses this gate via WriteOAMRaw.
func (p *PPU) WriteOAM(address uint16, value uint8) {
	if p.enabled() && (p.mode == OAMScan || p.mode == Drawing) {
		return
	}
	p.oam[address] = value
}

// WriteOAMRaw stores value at the OAM-relative address unconditionally,
// for use by the OAM DMA transfer, which has exclusive bus access.
func (p *PPU) WriteOAMRaw(address uint16, value uint8) {
	p.oam[address] = value
}

// ReadRegister reads one of the LCD registers at its full address.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		return p.stat | 0x80
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	}
	return 0xFF
}

// WriteRegister writes one of the LCD registers at its full address.
func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case 0xFF40:
		wasEnabled := p.enabled()
		p.lcdc = value
		if wasEnabled && !p.enabled() {
			p.ly = 0
			p.dot = 0
			p.mode = HBlank
			p.frame = [ScreenHeight][ScreenWidth]uint8{}
		}
	case 0xFF41:
		p.stat = (p.stat & 0x07) | (value & 0x78)
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// LY is read-only; any write resets it.
		p.ly = 0
	case 0xFF45:
		p.lyc = value
		p.updateCoincidence()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	}
}

// Mode reports the current STAT mode.
func (p *PPU) Mode() Mode { return p.mode }

// LY reports the current scanline.
func (p *PPU) LY() uint8 { return p.ly }

// Frame returns the completed frame buffer. Each entry is a shade
// index 0 (lightest) to 3 (darkest), already passed through the
// active palette.
func (p *PPU) Frame() [ScreenHeight][ScreenWidth]uint8 { return p.frame }

// Tick advances the PPU by cycles T-cycles, one cycle at a time, so
// that mode transitions and interrupt requests land on the exact dot
// they occur on real hardware.
func (p *PPU) Tick(cycles uint8) {
	if !p.enabled() {
		return
	}
	for i := uint8(0); i < cycles; i++ {
		p.tickOnce()
	}
}

func (p *PPU) tickOnce() {
	p.dot++

	switch p.mode {
	case OAMScan:
		if p.dot == oamScanDots {
			p.mode = Drawing
		}
	case Drawing:
		if p.dot == oamScanDots+drawingDots {
			p.renderScanline()
			p.mode = HBlank
			p.requestStat(statHBlankInterrupt)
		}
	case HBlank:
		if p.dot == dotsPerLine {
			p.advanceLine()
		}
	case VBlank:
		if p.dot == dotsPerLine {
			p.advanceLine()
		}
	}
}

func (p *PPU) advanceLine() {
	p.dot = 0
	p.ly++

	switch {
	case p.ly == vblankStartLine:
		p.mode = VBlank
		p.windowLine = 0
		p.irq.Request(interrupts.VBlankFlag)
		p.requestStat(statVBlankInterrupt)
	case p.ly == linesPerFrame:
		p.ly = 0
		p.mode = OAMScan
		p.requestStat(statOAMInterrupt)
	case p.ly < vblankStartLine:
		p.mode = OAMScan
		p.requestStat(statOAMInterrupt)
	}

	p.updateCoincidence()
}

func (p *PPU) updateCoincidence() {
	if p.ly == p.lyc {
		p.stat |= statCoincidence
		if p.stat&statLYCInterrupt != 0 {
			p.irq.Request(interrupts.LCDStatFlag)
		}
	} else {
		p.stat &^= statCoincidence
	}
}

func (p *PPU) requestStat(bit uint8) {
	if p.stat&bit != 0 {
		p.irq.Request(interrupts.LCDStatFlag)
	}
}

// renderScanline composites background, window and sprites for the
// current LY into the frame buffer.
func (p *PPU) renderScanline() {
	if p.ly >= ScreenHeight {
		return
	}

	var bgColorIndex [ScreenWidth]uint8
	windowDrawn := false

	if p.lcdc&lcdcBGEnable != 0 {
		p.renderBackground(&bgColorIndex)
	}
	if p.lcdc&lcdcWindowEnable != 0 && p.lcdc&lcdcBGEnable != 0 && p.wy <= p.ly && p.wx <= 166 {
		windowDrawn = p.renderWindow(&bgColorIndex)
	}

	for x := 0; x < ScreenWidth; x++ {
		p.frame[p.ly][x] = applyPalette(p.bgp, bgColorIndex[x])
	}

	if p.lcdc&lcdcObjEnable != 0 {
		p.renderSprites(&bgColorIndex)
	}

	if windowDrawn {
		p.windowLine++
	}
}

func (p *PPU) renderBackground(out *[ScreenWidth]uint8) {
	mapBase := uint16(0x9800)
	if p.lcdc&lcdcBGMap != 0 {
		mapBase = 0x9C00
	}

	y := p.scy + p.ly
	row := uint16(y) / 8
	fineY := y % 8

	for x := 0; x < ScreenWidth; x++ {
		bx := p.scx + uint8(x)
		col := uint16(bx) / 8
		fineX := bx % 8

		tileIndex := p.vram[mapBase-0x8000+row*32+col]
		low, high := p.tileRow(tileIndex, fineY)
		out[x] = colorIndex(low, high, 7-fineX)
	}
}

func (p *PPU) renderWindow(out *[ScreenWidth]uint8) bool {
	if p.wx > 166 {
		return false
	}
	startX := int(p.wx) - 7
	if startX >= ScreenWidth {
		return false
	}

	mapBase := uint16(0x9800)
	if p.lcdc&lcdcWindowMap != 0 {
		mapBase = 0x9C00
	}

	row := uint16(p.windowLine) / 8
	fineY := p.windowLine % 8
	drawn := false

	for x := 0; x < ScreenWidth; x++ {
		wx := x - startX
		if wx < 0 {
			continue
		}
		col := uint16(wx) / 8
		fineX := uint8(wx % 8)

		tileIndex := p.vram[mapBase-0x8000+row*32+col]
		low, high := p.tileRow(tileIndex, fineY)
		out[x] = colorIndex(low, high, 7-fineX)
		drawn = true
	}
	return drawn
}

// tileRow returns the two bitplane bytes for row fineY (0-7) of a
// background/window tile, honouring LCDC's signed/unsigned addressing
// mode select.
func (p *PPU) tileRow(tileIndex uint8, fineY uint8) (low, high uint8) {
	var base uint16
	if p.lcdc&lcdcTileData != 0 {
		base = 0x8000 + uint16(tileIndex)*16
	} else {
		base = uint16(int32(0x9000) + int32(int8(tileIndex))*16)
	}
	offset := base - 0x8000 + uint16(fineY)*2
	return p.vram[offset], p.vram[offset+1]
}

// objectTileRow returns the bitplane bytes for row fineY of a sprite
// tile. Sprite tiles always use the unsigned addressing mode.
func (p *PPU) objectTileRow(tileIndex uint8, fineY uint8) (low, high uint8) {
	offset := uint16(tileIndex)*16 + uint16(fineY)*2
	return p.vram[offset], p.vram[offset+1]
}

func (p *PPU) renderSprites(bg *[ScreenWidth]uint8) {
	height := uint8(8)
	if p.lcdc&lcdcObjSize != 0 {
		height = 16
	}

	var visible []object
	for i := 0; i < 40 && len(visible) < 10; i++ {
		base := i * 4
		y := p.oam[base]
		if int16(p.ly)-int16(y)+16 < 0 || int16(p.ly)-int16(y)+16 >= int16(height) {
			continue
		}
		visible = append(visible, object{
			y:     y,
			x:     p.oam[base+1],
			tile:  p.oam[base+2],
			attr:  p.oam[base+3],
			index: uint8(i),
		})
	}

	// Priority: lower x wins, ties broken by lower OAM index. The
	// render loop below draws visible in order and lets later entries
	// overwrite earlier ones, so the winner of each matchup must end
	// up last. drawsBefore orders the lowest-priority sprite (highest
	// x, or equal x with the highest OAM index) first.
	drawsBefore := func(a, b object) bool {
		if a.x != b.x {
			return a.x > b.x
		}
		return a.index > b.index
	}
	for i := 1; i < len(visible); i++ {
		for j := i; j > 0 && drawsBefore(visible[j], visible[j-1]); j-- {
			visible[j], visible[j-1] = visible[j-1], visible[j]
		}
	}

	for _, obj := range visible {
		tileIndex := obj.tile
		if height == 16 {
			tileIndex &^= 0x01
		}

		row := uint8(int16(p.ly) - int16(obj.y) + 16)
		if obj.attr&0x40 != 0 { // Y flip
			row = height - 1 - row
		}
		if height == 16 && row >= 8 {
			tileIndex |= 0x01
			row -= 8
		}

		low, high := p.objectTileRow(tileIndex, row)

		palette := p.obp0
		if obj.attr&0x10 != 0 {
			palette = p.obp1
		}
		behindBG := obj.attr&0x80 != 0

		for col := uint8(0); col < 8; col++ {
			screenX := int16(obj.x) - 8 + int16(col)
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}

			bit := col
			if obj.attr&0x20 == 0 { // no X flip
				bit = 7 - col
			}
			ci := colorIndex(low, high, bit)
			if ci == 0 {
				continue
			}
			if behindBG && bg[screenX] != 0 {
				continue
			}
			p.frame[p.ly][screenX] = applyPalette(palette, ci)
		}
	}
}

// colorIndex extracts the 2-bit color index at bit (7=leftmost pixel
// of the tile row) from a tile row's two bitplane bytes.
func colorIndex(low, high uint8, bit uint8) uint8 {
	l := (low >> bit) & 1
	h := (high >> bit) & 1
	return h<<1 | l
}

// applyPalette maps a 2-bit color index through a BGP/OBP palette
// register to its final 2-bit shade.
func applyPalette(palette uint8, index uint8) uint8 {
	return (palette >> (index * 2)) & 0x03
}
