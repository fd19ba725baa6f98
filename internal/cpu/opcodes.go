package cpu

import (
	"github.com/brineflow/dmgcore/internal/interrupts"
	"github.com/brineflow/dmgcore/internal/mmu"
)

// execute fetches and runs one instruction, decoding it with the
// standard x/y/z/p/q octal decomposition of the opcode byte (x=op>>6,
// y=(op>>3)&7, z=op&7, p=y>>1, q=y&1). This is the same shape the
// whole LR35902/Z80 opcode map is built from; writing the decoder this
// way turns 256 mostly-regular cases into a handful of table lookups
// instead of 256 hand-written bodies.
func (c *CPU) execute(m *mmu.MMU) (uint8, error) {
	pc := c.PC
	op := c.fetch8(m)

	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.executeBlock0(m, y, z, p, q)
	case 1:
		if y == 6 && z == 6 {
			irq := m.Interrupts()
			if irq.IME != interrupts.Enabled && irq.Pending() {
				c.haltBug = true
			} else {
				c.halted = true
			}
			return 4, nil
		}
		cycles := uint8(4)
		if y == 6 || z == 6 {
			cycles = 8
		}
		c.writeR(m, y, c.readR(m, z))
		return cycles, nil
	case 2:
		c.executeALU(m, y, c.readR(m, z))
		cycles := uint8(4)
		if z == 6 {
			cycles = 8
		}
		return cycles, nil
	default:
		return c.executeBlock3(m, y, z, p, q, pc, op)
	}
}
