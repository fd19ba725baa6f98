package mmu

import (
	"testing"

	"github.com/brineflow/dmgcore/internal/boot"
	"github.com/brineflow/dmgcore/internal/cartridge"
)

func minimalROM(romBanks int) []byte {
	rom := make([]byte, (32*1024)<<0) // 0x0148=0 -> 2 banks (32KiB)
	if romBanks > 2 {
		rom = make([]byte, 32*1024*romBanks)
	}
	rom[0x0147] = 0x00 // ROM only (MBC0)
	rom[0x0148] = 0x00
	rom[0x0149] = 0x00
	return rom
}

func newTestMMU(t *testing.T) *MMU {
	t.Helper()
	cart, err := cartridge.New(minimalROM(2))
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	return New(cart, nil)
}

func TestWorkRAMEchoesBackToSameBytes(t *testing.T) {
	m := newTestMMU(t)

	m.Write(0xC010, 0x42)
	if got := m.Read(0xE010); got != 0x42 {
		t.Fatalf("expected echo region to mirror WRAM, got %#x", got)
	}

	m.Write(0xE020, 0x99)
	if got := m.Read(0xC020); got != 0x99 {
		t.Fatalf("expected WRAM write via echo region to land, got %#x", got)
	}
}

func TestUnusableRegionReadsFF(t *testing.T) {
	m := newTestMMU(t)
	if got := m.Read(0xFEA0); got != 0xFF {
		t.Fatalf("expected unusable region to read 0xFF, got %#x", got)
	}
}

func TestBootROMShadowsCartridgeUntilDisabled(t *testing.T) {
	cart, err := cartridge.New(minimalROM(2))
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	raw := make([]byte, 256)
	raw[0x00] = 0xAA
	m := New(cart, boot.New(raw))

	if got := m.Read(0x0000); got != 0xAA {
		t.Fatalf("expected boot ROM byte while shadowed, got %#x", got)
	}

	m.Write(0xFF50, 0x01)
	if got := m.Read(0x0000); got != cart.Read(0x0000) {
		t.Fatalf("expected cartridge byte visible after boot ROM disable, got %#x want %#x", got, cart.Read(0x0000))
	}
}

func TestHighRAMReadWrite(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFF85, 0x7E)
	if got := m.Read(0xFF85); got != 0x7E {
		t.Fatalf("expected HRAM round-trip, got %#x", got)
	}
}

func TestInterruptEnableRegisterRoundTrips(t *testing.T) {
	m := newTestMMU(t)
	m.Write(0xFFFF, 0x1F)
	if got := m.Read(0xFFFF); got != 0x1F {
		t.Fatalf("expected IE round-trip, got %#x", got)
	}
}

func TestOAMDMACopiesFromSourceRegion(t *testing.T) {
	m := newTestMMU(t)

	for i := uint16(0); i < 0xA0; i++ {
		m.Write(0xC100+i, uint8(i))
	}

	m.Write(0xFF46, 0xC1)

	for i := uint16(0); i < 0xA0; i++ {
		if got := m.ppu.ReadOAM(i); got != uint8(i) {
			t.Fatalf("expected OAM[%d]=%d after DMA, got %d", i, uint8(i), got)
		}
	}
}

func TestReadWordWriteWordLittleEndian(t *testing.T) {
	m := newTestMMU(t)
	m.WriteWord(0xC000, 0xBEEF)
	if got := m.ReadWord(0xC000); got != 0xBEEF {
		t.Fatalf("expected 0xBEEF round-trip, got %#x", got)
	}
	if lo, hi := m.Read(0xC000), m.Read(0xC001); lo != 0xEF || hi != 0xBE {
		t.Fatalf("expected little-endian byte order, got lo=%#x hi=%#x", lo, hi)
	}
}
