package cpu

import "github.com/brineflow/dmgcore/internal/mmu"

// executeBlock3 handles the x=3 quadrant (opcodes 0xC0-0xFF): returns,
// jumps, calls, stack ops, the immediate-operand ALU forms, RST, and
// the handful of single-purpose opcodes (LDH, EI/DI, CB prefix, the
// eleven undefined byte values).
func (c *CPU) executeBlock3(m *mmu.MMU, y, z, p, q uint8, pc uint16, op uint8) (uint8, error) {
	switch z {
	case 0:
		return c.block3z0(m, y)
	case 1:
		return c.block3z1(m, p, q)
	case 2:
		return c.block3z2(m, y)
	case 3:
		return c.block3z3(m, y, pc, op)
	case 4:
		return c.block3z4(m, y, pc, op)
	case 5:
		return c.block3z5(m, p, q, pc, op)
	case 6:
		c.executeALU(m, y, c.fetch8(m))
		return 8, nil
	default: // z == 7: RST y*8
		c.push16(m, c.PC)
		c.PC = uint16(y) * 8
		return 16, nil
	}
}

func (c *CPU) block3z0(m *mmu.MMU, y uint8) (uint8, error) {
	switch {
	case y <= 3: // RET cc
		if c.condTrue(y) {
			c.PC = c.pop16(m)
			return 20, nil
		}
		return 8, nil
	case y == 4: // LDH (a8),A
		addr := 0xFF00 + uint16(c.fetch8(m))
		m.Write(addr, c.A)
		return 12, nil
	case y == 5: // ADD SP,r8
		n := int8(c.fetch8(m))
		c.SP = c.addSPSigned(c.SP, n)
		return 16, nil
	case y == 6: // LDH A,(a8)
		addr := 0xFF00 + uint16(c.fetch8(m))
		c.A = m.Read(addr)
		return 12, nil
	default: // y == 7: LD HL,SP+r8
		n := int8(c.fetch8(m))
		c.SetHL(c.addSPSigned(c.SP, n))
		return 12, nil
	}
}

func (c *CPU) block3z1(m *mmu.MMU, p, q uint8) (uint8, error) {
	if q == 0 { // POP rp2[p]
		c.writeRP2(p, c.pop16(m))
		return 12, nil
	}
	switch p {
	case 0: // RET
		c.PC = c.pop16(m)
		return 16, nil
	case 1: // RETI
		c.PC = c.pop16(m)
		m.Interrupts().ReturnFromInterrupt()
		return 16, nil
	case 2: // JP HL
		c.PC = c.HL()
		return 4, nil
	default: // LD SP,HL
		c.SP = c.HL()
		return 8, nil
	}
}

func (c *CPU) block3z2(m *mmu.MMU, y uint8) (uint8, error) {
	switch {
	case y <= 3: // JP cc,a16
		addr := c.fetch16(m)
		if c.condTrue(y) {
			c.PC = addr
			return 16, nil
		}
		return 12, nil
	case y == 4: // LD (C),A
		m.Write(0xFF00+uint16(c.C), c.A)
		return 8, nil
	case y == 5: // LD (a16),A
		m.Write(c.fetch16(m), c.A)
		return 16, nil
	case y == 6: // LD A,(C)
		c.A = m.Read(0xFF00 + uint16(c.C))
		return 8, nil
	default: // y == 7: LD A,(a16)
		c.A = m.Read(c.fetch16(m))
		return 16, nil
	}
}

func (c *CPU) block3z3(m *mmu.MMU, y uint8, pc uint16, op uint8) (uint8, error) {
	switch y {
	case 0: // JP a16
		c.PC = c.fetch16(m)
		return 16, nil
	case 1: // CB prefix
		return c.executeCB(m)
	case 6: // DI
		m.Interrupts().DisableInstruction()
		return 4, nil
	case 7: // EI
		m.Interrupts().EnableInstruction()
		return 4, nil
	default: // 2,3,4,5: undefined
		return 0, &ExecutionError{Kind: ErrUndefinedOpcode, PC: pc, Opcode: op}
	}
}

func (c *CPU) block3z4(m *mmu.MMU, y uint8, pc uint16, op uint8) (uint8, error) {
	if y > 3 {
		return 0, &ExecutionError{Kind: ErrUndefinedOpcode, PC: pc, Opcode: op}
	}
	addr := c.fetch16(m)
	if c.condTrue(y) {
		c.push16(m, c.PC)
		c.PC = addr
		return 24, nil
	}
	return 12, nil
}

func (c *CPU) block3z5(m *mmu.MMU, p, q uint8, pc uint16, op uint8) (uint8, error) {
	if q == 0 { // PUSH rp2[p]
		c.push16(m, c.readRP2(p))
		return 16, nil
	}
	if p == 0 { // CALL a16
		addr := c.fetch16(m)
		c.push16(m, c.PC)
		c.PC = addr
		return 24, nil
	}
	return 0, &ExecutionError{Kind: ErrUndefinedOpcode, PC: pc, Opcode: op}
}
