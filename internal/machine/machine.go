// Package machine composes the CPU, MMU and their owned devices into a
// runnable DMG system, and drives the fetch/execute/tick loop a host
// (a CLI, a test harness) steps one instruction at a time.
package machine

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/brineflow/dmgcore/internal/boot"
	"github.com/brineflow/dmgcore/internal/cartridge"
	"github.com/brineflow/dmgcore/internal/cpu"
	"github.com/brineflow/dmgcore/internal/joypad"
	"github.com/brineflow/dmgcore/internal/mmu"
	"github.com/brineflow/dmgcore/internal/ppu"
)

// Option configures a Machine at construction time.
type Option func(*Machine)

// WithBootROM runs the given 256-byte DMG boot image before handing
// control to the cartridge, instead of starting at the entry point
// with boot-complete register state.
func WithBootROM(rom *boot.ROM) Option {
	return func(m *Machine) {
		m.bootROM = rom
	}
}

// WithLogger overrides the machine's structured logger.
func WithLogger(log *logrus.Logger) Option {
	return func(m *Machine) {
		m.log = log
	}
}

// Debug enables logging of the execution faults Step returns.
func Debug() Option {
	return func(m *Machine) {
		m.debug = true
	}
}

// Machine is a fully composed DMG system: one CPU, one MMU, and every
// device the MMU owns underneath it.
type Machine struct {
	cpu *cpu.CPU
	mmu *mmu.MMU

	bootROM *boot.ROM
	log     *logrus.Logger
	debug   bool
}

// New parses rom as a cartridge and returns a Machine ready to Step.
func New(rom []byte, opts ...Option) (*Machine, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, fmt.Errorf("machine: %w", err)
	}

	m := &Machine{
		cpu: cpu.New(),
		log: defaultLogger(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.mmu = mmu.New(cart, m.bootROM)
	if m.bootROM == nil {
		m.skipBootSequence()
	}

	return m, nil
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.Formatter = &logrus.TextFormatter{
		DisableColors:    true,
		DisableTimestamp: true,
		DisableSorting:   true,
	}
	return l
}

// skipBootSequence sets PC/SP and the register file to the state the
// DMG boot ROM leaves behind, for cartridges run without one.
func (m *Machine) skipBootSequence() {
	m.cpu.PC = 0x0100
	m.cpu.SP = 0xFFFE
	m.cpu.A, m.cpu.F = 0x01, 0xB0
	m.cpu.B, m.cpu.C = 0x00, 0x13
	m.cpu.D, m.cpu.E = 0x00, 0xD8
	m.cpu.H, m.cpu.L = 0x01, 0x4D
}

// Step executes exactly one CPU step (an instruction or a serviced
// interrupt) and ticks every MMU-owned device by the cycles it took.
func (m *Machine) Step() (uint8, error) {
	cycles, err := m.cpu.Step(m.mmu)
	if err != nil {
		if m.debug {
			m.log.WithError(err).Error("execution fault")
		}
		return cycles, err
	}
	m.mmu.Tick(cycles)
	return cycles, nil
}

// StepFrame runs Steps until the PPU completes one full frame
// (detected as the first step that leaves VBlank after the PPU has been
// in VBlank), returning the total T-cycles consumed.
func (m *Machine) StepFrame() (uint32, error) {
	var total uint32
	sawVBlank := false
	for {
		cycles, err := m.Step()
		total += uint32(cycles)
		if err != nil {
			return total, err
		}

		inVBlank := m.mmu.PPU().Mode() == ppu.VBlank
		if inVBlank {
			sawVBlank = true
		} else if sawVBlank {
			return total, nil
		}
	}
}

// Frame returns the most recently completed frame buffer.
func (m *Machine) Frame() [ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	return m.mmu.PPU().Frame()
}

// SetKey updates the joypad state for key, requesting a Joypad
// interrupt on a released-to-pressed edge if its group is selected.
func (m *Machine) SetKey(key joypad.Key, pressed bool) {
	m.mmu.Joypad().SetKey(key, pressed)
}

// MMU exposes the bus for callers that need direct memory inspection
// (debuggers, test harnesses).
func (m *Machine) MMU() *mmu.MMU { return m.mmu }

// Cartridge exposes the loaded cartridge's header and identification
// info, for callers that want to log or display it.
func (m *Machine) Cartridge() *cartridge.Cartridge { return m.mmu.Cartridge() }

// CPU exposes the processor for callers that need direct register
// inspection (debuggers, test harnesses).
func (m *Machine) CPU() *cpu.CPU { return m.cpu }
