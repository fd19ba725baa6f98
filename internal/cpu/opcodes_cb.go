package cpu

import "github.com/brineflow/dmgcore/internal/mmu"

// executeCB decodes the CB-prefixed table, which is fully regular: x
// selects the operation group, y is either the bit index (BIT/RES/SET)
// or the rotate/shift variant, and z is the register index.
func (c *CPU) executeCB(m *mmu.MMU) (uint8, error) {
	op := c.fetch8(m)
	x := op >> 6
	y := (op >> 3) & 7
	z := op & 7

	v := c.readR(m, z)

	switch x {
	case 0: // rotate/shift group, selected by y
		var result uint8
		switch y {
		case 0:
			result = c.rlc(v)
		case 1:
			result = c.rrc(v)
		case 2:
			result = c.rl(v)
		case 3:
			result = c.rr(v)
		case 4:
			result = c.sla(v)
		case 5:
			result = c.sra(v)
		case 6:
			result = c.swap(v)
		default:
			result = c.srl(v)
		}
		c.writeR(m, z, result)
		if z == 6 {
			return 16, nil
		}
		return 8, nil
	case 1: // BIT y,r
		c.bit(v, y)
		if z == 6 {
			return 12, nil
		}
		return 8, nil
	case 2: // RES y,r
		c.writeR(m, z, resetBit(v, y))
		if z == 6 {
			return 16, nil
		}
		return 8, nil
	default: // SET y,r
		c.writeR(m, z, setBit(v, y))
		if z == 6 {
			return 16, nil
		}
		return 8, nil
	}
}
