package cpu

import (
	"testing"

	"github.com/brineflow/dmgcore/internal/cartridge"
	"github.com/brineflow/dmgcore/internal/interrupts"
	"github.com/brineflow/dmgcore/internal/mmu"
)

func newTestSystem(t *testing.T, program []uint8) (*CPU, *mmu.MMU) {
	t.Helper()
	rom := make([]byte, 32*1024)
	rom[0x0147] = 0x00
	copy(rom[0x0150:], program)
	cart, err := cartridge.New(rom)
	if err != nil {
		t.Fatalf("cartridge.New: %v", err)
	}
	m := mmu.New(cart, nil)
	c := New()
	c.PC = 0x0150
	return c, m
}

func step(t *testing.T, c *CPU, m *mmu.MMU) uint8 {
	t.Helper()
	cycles, err := c.Step(m)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	return cycles
}

func TestLDRegisterImmediateAndAdd(t *testing.T) {
	c, m := newTestSystem(t, []uint8{
		0x3E, 0x05, // LD A,5
		0x06, 0x03, // LD B,3
		0x80, // ADD A,B
	})

	if cycles := step(t, c, m); cycles != 8 {
		t.Fatalf("LD A,d8: expected 8 cycles, got %d", cycles)
	}
	if c.A != 5 {
		t.Fatalf("expected A=5, got %d", c.A)
	}
	step(t, c, m)
	if c.B != 3 {
		t.Fatalf("expected B=3, got %d", c.B)
	}
	if cycles := step(t, c, m); cycles != 4 {
		t.Fatalf("ADD A,B: expected 4 cycles, got %d", cycles)
	}
	if c.A != 8 {
		t.Fatalf("expected A=8, got %d", c.A)
	}
	if c.flag(FlagZ) || c.flag(FlagN) || c.flag(FlagH) || c.flag(FlagC) {
		t.Fatalf("expected all flags clear, got F=%#02x", c.F)
	}
}

func TestAdcHalfCarryFoldsIncomingCarry(t *testing.T) {
	c, m := newTestSystem(t, []uint8{0x88}) // ADC A,B
	c.A = 0x0F
	c.B = 0x00
	c.F = FlagC

	step(t, c, m)

	if !c.flag(FlagH) {
		t.Fatal("expected half-carry when carry-in pushes the low nibble past 0xF")
	}
	if c.A != 0x10 {
		t.Fatalf("expected A=0x10, got %#02x", c.A)
	}
}

func TestSbcHalfBorrowFoldsIncomingBorrow(t *testing.T) {
	c, m := newTestSystem(t, []uint8{0x9F}) // SBC A,A
	c.A = 0x00
	c.F = FlagC

	step(t, c, m)

	if !c.flag(FlagH) {
		t.Fatal("expected half-borrow: 0-0-1 borrows out of the low nibble")
	}
	if !c.flag(FlagC) {
		t.Fatal("expected full borrow")
	}
	if c.A != 0xFF {
		t.Fatalf("expected A=0xFF, got %#02x", c.A)
	}
}

func TestDaaAfterAdditionOverflow(t *testing.T) {
	c, m := newTestSystem(t, []uint8{
		0x3E, 0x45, // LD A,0x45 (BCD 45)
		0xC6, 0x38, // ADD A,0x38 (BCD 38) -> binary 0x7D
		0x27, // DAA -> should read 0x83 in BCD
	})
	step(t, c, m)
	step(t, c, m)
	if c.A != 0x7D {
		t.Fatalf("expected intermediate A=0x7D, got %#02x", c.A)
	}
	step(t, c, m)
	if c.A != 0x83 {
		t.Fatalf("expected BCD-corrected A=0x83, got %#02x", c.A)
	}
}

func TestJRConditionalTaken(t *testing.T) {
	c, m := newTestSystem(t, []uint8{
		0xAF,       // XOR A (A=0, Z set)
		0x28, 0x02, // JR Z,+2
		0x00, 0x00, // (skipped NOPs)
		0x3E, 0x07, // LD A,7
	})
	step(t, c, m) // XOR A
	if cycles := step(t, c, m); cycles != 12 {
		t.Fatalf("expected taken JR to cost 12 cycles, got %d", cycles)
	}
	step(t, c, m)
	if c.A != 7 {
		t.Fatalf("expected JR to have skipped the NOPs and landed on LD A,7, got A=%#02x", c.A)
	}
}

func TestCallAndRet(t *testing.T) {
	// @0x0150: CALL 0x0156; @0x0153: NOP (return address); @0x0156: RET
	c, m := newTestSystem(t, []uint8{
		0xCD, 0x56, 0x01,
		0x00,
		0x00, 0x00,
		0xC9,
	})
	c.SP = 0xFFFE

	if cycles := step(t, c, m); cycles != 24 {
		t.Fatalf("expected CALL to cost 24 cycles, got %d", cycles)
	}
	if c.PC != 0x0156 {
		t.Fatalf("expected PC=0x0156 after CALL, got %#04x", c.PC)
	}
	if cycles := step(t, c, m); cycles != 16 {
		t.Fatalf("expected RET to cost 16 cycles, got %d", cycles)
	}
	if c.PC != 0x0153 {
		t.Fatalf("expected PC to return to 0x0153, got %#04x", c.PC)
	}
}

func TestHaltWakesOnPendingInterruptWithIMEDisabled(t *testing.T) {
	c, m := newTestSystem(t, []uint8{0x76}) // HALT
	m.Interrupts().WriteIE(1 << interrupts.VBlankFlag)
	m.Interrupts().Request(interrupts.VBlankFlag)

	step(t, c, m)

	if c.halted {
		t.Fatal("expected HALT to fall through immediately when an interrupt is already pending")
	}
}

func TestInterruptDispatchPushesPCAndJumps(t *testing.T) {
	c, m := newTestSystem(t, []uint8{0x00}) // NOP
	c.SP = 0xFFFE
	m.Interrupts().EnableInstruction()
	m.Interrupts().AdvancePending()
	m.Interrupts().AdvancePending() // IME now Enabled
	m.Interrupts().WriteIE(1 << interrupts.VBlankFlag)
	m.Interrupts().Request(interrupts.VBlankFlag)

	startPC := c.PC
	cycles, err := c.Step(m)
	if err != nil {
		t.Fatalf("Step: %v", err)
	}
	if cycles != 20 {
		t.Fatalf("expected interrupt dispatch to cost 20 cycles, got %d", cycles)
	}
	if c.PC != interrupts.VBlank {
		t.Fatalf("expected PC at VBlank vector %#04x, got %#04x", interrupts.VBlank, c.PC)
	}
	if got := m.ReadWord(c.SP); got != startPC {
		t.Fatalf("expected pushed return address %#04x, got %#04x", startPC, got)
	}
	if m.Interrupts().IME != interrupts.Disabled {
		t.Fatal("expected IME to be disabled after servicing an interrupt")
	}
}

func TestUndefinedOpcodeReturnsError(t *testing.T) {
	c, m := newTestSystem(t, []uint8{0xD3}) // undefined
	if _, err := c.Step(m); err == nil {
		t.Fatal("expected an error for an undefined opcode")
	}
}
