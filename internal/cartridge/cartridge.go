// Package cartridge parses a Game Boy ROM header and exposes the
// appropriate memory bank controller (MBC0, MBC1 or MBC5) behind a
// single read/write contract.
package cartridge

import (
	"github.com/cespare/xxhash"
	"github.com/sirupsen/logrus"
)

// Cartridge is a parsed ROM image bound to its memory bank controller.
type Cartridge struct {
	MemoryBankController
	header Header
	hash   uint64
	log    *logrus.Logger
}

// New parses rom and returns a Cartridge wired to the MBC its header
// names. It fails if the image is too short to contain a header or
// shorter than the ROM size its header declares, or if the header names
// an MBC this core does not implement.
func New(rom []byte) (*Cartridge, error) {
	if len(rom) < 0x0150 {
		return nil, newError(ErrTruncatedImage, "image is %d bytes, need at least 0x150", len(rom))
	}

	header := parseHeader(rom)
	if len(rom) < header.ROMSize {
		return nil, newError(ErrTruncatedImage, "image is %d bytes, header declares %d", len(rom), header.ROMSize)
	}

	var mbc MemoryBankController
	switch header.mbcVariant {
	case variantMBC0:
		mbc = newMBC0(rom, header.RAMSize)
	case variantMBC1:
		mbc = newMBC1(rom, header.RAMSize)
	case variantMBC5:
		mbc = newMBC5(rom, header.RAMSize)
	default:
		return nil, newError(ErrUnsupportedMBC, "unsupported cartridge type byte 0x%02X", rom[0x0147])
	}

	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}

	return &Cartridge{
		MemoryBankController: mbc,
		header:               header,
		hash:                 xxhash.Sum64(rom),
		log:                  l,
	}, nil
}

// Header returns the cartridge's parsed header.
func (c *Cartridge) Header() Header {
	return c.header
}

// Title returns the cartridge's title, as found at 0x0134-0x0143.
func (c *Cartridge) Title() string {
	return c.header.Title
}

// Checksum returns the xxhash of the full ROM image, used for logging
// and identification (distinct from the header's own byte checksum).
func (c *Cartridge) Checksum() uint64 {
	return c.hash
}

// Write routes through the cartridge's MBC, logging the bank-select and
// RAM-enable register writes an MBC1/MBC5 cartridge exposes in
// 0x0000-0x5FFF, and warning when a game writes into the external RAM
// window on a cartridge whose header declares no RAM present.
func (c *Cartridge) Write(address uint16, value uint8) {
	switch {
	case c.header.mbcVariant != variantMBC0 && address < 0x6000:
		c.log.Debugf("cartridge: bank-select write %#04x <- %#02x", address, value)
	case address >= 0xA000 && c.header.RAMSize == 0:
		c.log.Warnf("cartridge: RAM write at %#04x but cartridge declares no RAM", address)
	}
	c.MemoryBankController.Write(address, value)
}
