package cpu

import "github.com/brineflow/dmgcore/internal/mmu"

// executeBlock0 handles the x=0 quadrant (opcodes 0x00-0x3F): the
// irregular mix of NOP/LD-immediate/INC-DEC/rotate/JR instructions that
// don't fit the regular LD-r,r or ALU-r grids.
func (c *CPU) executeBlock0(m *mmu.MMU, y, z, p, q uint8) (uint8, error) {
	switch z {
	case 0:
		return c.block0z0(m, y)
	case 1:
		if q == 0 {
			c.writeRP(p, c.fetch16(m))
			return 12, nil
		}
		c.SetHL(c.addHL16(c.HL(), c.readRP(p)))
		return 8, nil
	case 2:
		return c.block0z2(m, p, q), nil
	case 3:
		if q == 0 {
			c.writeRP(p, c.readRP(p)+1)
		} else {
			c.writeRP(p, c.readRP(p)-1)
		}
		return 8, nil
	case 4:
		cycles := uint8(4)
		if y == 6 {
			cycles = 12
		}
		c.writeR(m, y, c.inc8(c.readR(m, y)))
		return cycles, nil
	case 5:
		cycles := uint8(4)
		if y == 6 {
			cycles = 12
		}
		c.writeR(m, y, c.dec8(c.readR(m, y)))
		return cycles, nil
	case 6:
		cycles := uint8(8)
		if y == 6 {
			cycles = 12
		}
		c.writeR(m, y, c.fetch8(m))
		return cycles, nil
	default: // z == 7
		return c.block0z7(y)
	}
}

func (c *CPU) block0z0(m *mmu.MMU, y uint8) (uint8, error) {
	switch y {
	case 0: // NOP
		return 4, nil
	case 1: // LD (a16),SP
		addr := c.fetch16(m)
		m.WriteWord(addr, c.SP)
		return 20, nil
	case 2: // STOP
		c.fetch8(m) // STOP is a 2-byte opcode; the second byte is ignored
		c.stopped = true
		return 4, nil
	case 3: // JR d8
		c.jumpRelative(m)
		return 12, nil
	default: // 4..7: JR cc,d8
		if c.condTrue(y - 4) {
			c.jumpRelative(m)
			return 12, nil
		}
		c.fetch8(m)
		return 8, nil
	}
}

func (c *CPU) jumpRelative(m *mmu.MMU) {
	offset := int8(c.fetch8(m))
	c.PC = uint16(int32(c.PC) + int32(offset))
}

func (c *CPU) block0z2(m *mmu.MMU, p, q uint8) uint8 {
	if q == 0 {
		switch p {
		case 0:
			m.Write(c.BC(), c.A)
		case 1:
			m.Write(c.DE(), c.A)
		case 2:
			hl := c.HL()
			m.Write(hl, c.A)
			c.SetHL(hl + 1)
		case 3:
			hl := c.HL()
			m.Write(hl, c.A)
			c.SetHL(hl - 1)
		}
	} else {
		switch p {
		case 0:
			c.A = m.Read(c.BC())
		case 1:
			c.A = m.Read(c.DE())
		case 2:
			hl := c.HL()
			c.A = m.Read(hl)
			c.SetHL(hl + 1)
		case 3:
			hl := c.HL()
			c.A = m.Read(hl)
			c.SetHL(hl - 1)
		}
	}
	return 8
}

func (c *CPU) block0z7(y uint8) (uint8, error) {
	switch y {
	case 0:
		c.A = c.rlc(c.A)
		c.setFlag(FlagZ, false)
	case 1:
		c.A = c.rrc(c.A)
		c.setFlag(FlagZ, false)
	case 2:
		c.A = c.rl(c.A)
		c.setFlag(FlagZ, false)
	case 3:
		c.A = c.rr(c.A)
		c.setFlag(FlagZ, false)
	case 4:
		c.daa()
	case 5:
		c.A = ^c.A
		c.setFlag(FlagN, true)
		c.setFlag(FlagH, true)
	case 6:
		c.setFlag(FlagN, false)
		c.setFlag(FlagH, false)
		c.setFlag(FlagC, true)
	case 7:
		c.setFlag(FlagN, false)
		c.setFlag(FlagH, false)
		c.setFlag(FlagC, !c.flag(FlagC))
	}
	return 4, nil
}
