package cpu

import "github.com/brineflow/dmgcore/internal/bits"

// add8 computes a+b, setting Z/N/H/C, and returns the result. Used by
// ADD A,r and ADD A,d8.
func (c *CPU) add8(a, b uint8) uint8 {
	sum := uint16(a) + uint16(b)
	result := uint8(sum)
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, bits.HalfCarryAdd8(a, b))
	c.setFlag(FlagC, sum > 0xFF)
	return result
}

// adc8 computes a+b+carry. The half-carry and carry calculations fold
// the incoming carry bit into the same addition rather than computing
// HalfCarryAdd8(a,b) and OR-ing the carry in afterward: the latter
// misses the case where a and b alone don't half-carry but adding the
// carry bit does (e.g. A=0x0F, b=0x00, carry=1).
func (c *CPU) adc8(a, b uint8) uint8 {
	carry := uint8(0)
	if c.flag(FlagC) {
		carry = 1
	}
	sum := uint16(a) + uint16(b) + uint16(carry)
	result := uint8(sum)
	halfCarry := (a&0xF)+(b&0xF)+carry > 0xF
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, halfCarry)
	c.setFlag(FlagC, sum > 0xFF)
	return result
}

// sub8 computes a-b, setting Z/N/H/C, and returns the result.
func (c *CPU) sub8(a, b uint8) uint8 {
	result := a - b
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, true)
	c.setFlag(FlagH, bits.HalfBorrowSub8(a, b))
	c.setFlag(FlagC, a < b)
	return result
}

// sbc8 computes a-b-carry. Same reasoning as adc8: the incoming borrow
// must be folded into the 4-bit and 8-bit borrow tests directly.
func (c *CPU) sbc8(a, b uint8) uint8 {
	carry := int16(0)
	if c.flag(FlagC) {
		carry = 1
	}
	full := int16(a) - int16(b) - carry
	result := uint8(full)
	halfBorrow := int16(a&0xF)-int16(b&0xF)-carry < 0
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, true)
	c.setFlag(FlagH, halfBorrow)
	c.setFlag(FlagC, full < 0)
	return result
}

func (c *CPU) and8(a, b uint8) uint8 {
	result := a & b
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, true)
	c.setFlag(FlagC, false)
	return result
}

func (c *CPU) or8(a, b uint8) uint8 {
	result := a | b
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, false)
	c.setFlag(FlagC, false)
	return result
}

func (c *CPU) xor8(a, b uint8) uint8 {
	result := a ^ b
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, false)
	c.setFlag(FlagC, false)
	return result
}

// cp8 sets flags as sub8 would, discarding the result.
func (c *CPU) cp8(a, b uint8) {
	c.sub8(a, b)
}

// inc8 increments v, leaving C untouched per the ISA.
func (c *CPU) inc8(v uint8) uint8 {
	result := v + 1
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, v&0xF == 0xF)
	return result
}

// dec8 decrements v, leaving C untouched per the ISA.
func (c *CPU) dec8(v uint8) uint8 {
	result := v - 1
	c.setFlag(FlagZ, result == 0)
	c.setFlag(FlagN, true)
	c.setFlag(FlagH, v&0xF == 0x0)
	return result
}

// addHL16 computes HL+rr for ADD HL,rr: Z is left untouched, N cleared,
// H/C report a carry out of bit 11/15.
func (c *CPU) addHL16(hl, rr uint16) uint16 {
	sum := uint32(hl) + uint32(rr)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, bits.HalfCarryAdd16(hl, rr))
	c.setFlag(FlagC, sum > 0xFFFF)
	return uint16(sum)
}

// addSPSigned implements both ADD SP,r8 and LD HL,SP+r8: the signed
// displacement is added as if it were an 8-bit unsigned addition to
// SP's low byte for flag purposes, with Z and N always cleared.
func (c *CPU) addSPSigned(sp uint16, n int8) uint16 {
	result := uint16(int32(sp) + int32(n))
	un := uint16(uint8(n))
	c.setFlag(FlagZ, false)
	c.setFlag(FlagN, false)
	c.setFlag(FlagH, (sp&0xF)+(un&0xF) > 0xF)
	c.setFlag(FlagC, (sp&0xFF)+(un&0xFF) > 0xFF)
	return result
}

// daa adjusts A into packed BCD after an ADD/ADC/SUB/SBC, per the
// standard correction table: N tells us whether the prior op added or
// subtracted, and H/C (or a stale nibble) tell us whether a 0x06/0x60
// correction is owed.
func (c *CPU) daa() {
	a := c.A
	var adjust uint8
	carry := c.flag(FlagC)

	if c.flag(FlagH) || (!c.flag(FlagN) && a&0xF > 0x9) {
		adjust |= 0x06
	}
	if carry || (!c.flag(FlagN) && a > 0x99) {
		adjust |= 0x60
		carry = true
	}

	if c.flag(FlagN) {
		a -= adjust
	} else {
		a += adjust
	}

	c.A = a
	c.setFlag(FlagZ, a == 0)
	c.setFlag(FlagH, false)
	c.setFlag(FlagC, carry)
}
