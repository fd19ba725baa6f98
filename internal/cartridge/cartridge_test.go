package cartridge

import "testing"

func makeROM(mbcType byte, romBanks int, ramSizeCode byte) []byte {
	rom := make([]byte, romBanks*0x4000)
	if len(rom) < 0x0150 {
		rom = make([]byte, 0x8000)
	}
	var romSizeExp byte
	for (32*1024)<<romSizeExp < len(rom) {
		romSizeExp++
	}
	rom[0x0147] = mbcType
	rom[0x0148] = romSizeExp
	rom[0x0149] = ramSizeCode
	copy(rom[0x0134:], []byte("TESTGAME"))
	return rom
}

func TestNewMBC0(t *testing.T) {
	rom := makeROM(0x00, 2, 0x00)
	c, err := New(rom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Title() != "TESTGAME" {
		t.Fatalf("Title() = %q, want TESTGAME", c.Title())
	}
}

func TestTruncatedImageIsRejected(t *testing.T) {
	_, err := New(make([]byte, 0x10))
	if err == nil {
		t.Fatal("expected error for truncated image")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ErrTruncatedImage {
		t.Fatalf("expected ErrTruncatedImage, got %v", err)
	}
}

func TestUnsupportedMBCIsRejected(t *testing.T) {
	rom := makeROM(0xFF, 2, 0x00)
	_, err := New(rom)
	if err == nil {
		t.Fatal("expected error for unsupported MBC")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != ErrUnsupportedMBC {
		t.Fatalf("expected ErrUnsupportedMBC, got %v", err)
	}
}

func TestMBC1RAMDisabledReadsFF(t *testing.T) {
	rom := makeROM(0x02, 4, 0x02) // MBC1+RAM, 8KiB RAM
	c, err := New(rom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Read(0xA000); got != 0xFF {
		t.Fatalf("disabled RAM read = %#02x, want 0xFF", got)
	}
	c.Write(0x0000, 0x0A) // enable RAM
	c.Write(0xA000, 0x42)
	if got := c.Read(0xA000); got != 0x42 {
		t.Fatalf("enabled RAM read = %#02x, want 0x42", got)
	}
}

func TestMBC1ROMBankZeroAdjust(t *testing.T) {
	rom := makeROM(0x01, 8, 0x00)
	// tag bank 1 distinctly so we can see the switch take effect.
	rom[0x4000] = 0xAA
	rom[2*0x4000] = 0xBB
	c, err := New(rom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := c.Read(0x4000); got != 0xAA {
		t.Fatalf("default bank1 read = %#02x, want 0xAA", got)
	}
	c.Write(0x2000, 0x00) // selecting bank 0 must read back as bank 1
	if got := c.Read(0x4000); got != 0xAA {
		t.Fatalf("bank-0 write should select bank 1, got %#02x", got)
	}
	c.Write(0x2000, 0x02)
	if got := c.Read(0x4000); got != 0xBB {
		t.Fatalf("bank 2 read = %#02x, want 0xBB", got)
	}
}

func TestMBC5BankSelection(t *testing.T) {
	rom := makeROM(0x19, 16, 0x00)
	rom[5*0x4000] = 0x5A
	c, err := New(rom)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Write(0x2000, 0x05)
	if got := c.Read(0x4000); got != 0x5A {
		t.Fatalf("MBC5 bank 5 read = %#02x, want 0x5A", got)
	}
}
