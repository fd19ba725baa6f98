package cpu

import "github.com/brineflow/dmgcore/internal/mmu"

// readR reads the 8-bit operand selected by the standard z80/LR35902
// register index: 0=B 1=C 2=D 3=E 4=H 5=L 6=(HL) 7=A.
func (c *CPU) readR(m *mmu.MMU, idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return m.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) writeR(m *mmu.MMU, idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		m.Write(c.HL(), v)
	default:
		c.A = v
	}
}

// readRP reads the 16-bit register pair selected by the group-1 index
// used in LD rp,d16 / INC rp / DEC rp / ADD HL,rp: 0=BC 1=DE 2=HL 3=SP.
func (c *CPU) readRP(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) writeRP(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// readRP2/writeRP2 select the group-2 pairing used by PUSH/POP, which
// substitutes AF for SP: 0=BC 1=DE 2=HL 3=AF.
func (c *CPU) readRP2(idx uint8) uint16 {
	if idx == 3 {
		return c.AF()
	}
	return c.readRP(idx)
}

func (c *CPU) writeRP2(idx uint8, v uint16) {
	if idx == 3 {
		c.SetAF(v)
		return
	}
	c.writeRP(idx, v)
}

// condTrue evaluates the branch condition index used by JR/JP/CALL/RET:
// 0=NZ 1=Z 2=NC 3=C.
func (c *CPU) condTrue(idx uint8) bool {
	switch idx {
	case 0:
		return !c.flag(FlagZ)
	case 1:
		return c.flag(FlagZ)
	case 2:
		return !c.flag(FlagC)
	default:
		return c.flag(FlagC)
	}
}
