package cpu

import "github.com/brineflow/dmgcore/internal/mmu"

// executeALU applies the ALU operation selected by y (0=ADD 1=ADC
// 2=SUB 3=SBC 4=AND 5=XOR 6=OR 7=CP) to A and operand, storing the
// result back into A except for CP, which only updates flags.
func (c *CPU) executeALU(m *mmu.MMU, y uint8, operand uint8) {
	switch y {
	case 0:
		c.A = c.add8(c.A, operand)
	case 1:
		c.A = c.adc8(c.A, operand)
	case 2:
		c.A = c.sub8(c.A, operand)
	case 3:
		c.A = c.sbc8(c.A, operand)
	case 4:
		c.A = c.and8(c.A, operand)
	case 5:
		c.A = c.xor8(c.A, operand)
	case 6:
		c.A = c.or8(c.A, operand)
	case 7:
		c.cp8(c.A, operand)
	}
}
