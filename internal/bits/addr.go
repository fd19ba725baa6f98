// Package bits provides the 16-bit bus address type and the bit-level
// and half-carry helpers; the CPU's ALU uses the half-carry predicates.
package bits

// Addr is a 16-bit address on the Game Boy's memory bus. Arithmetic on
// Addr always wraps at 16 bits, matching the real hardware's address
// latch behaviour.
type Addr uint16

// Add returns a + n, wrapping on overflow.
func (a Addr) Add(n uint16) Addr {
	return Addr(uint16(a) + n)
}

// AddSigned returns a + n where n is sign-extended before the add,
// wrapping on overflow.
func (a Addr) AddSigned(n int8) Addr {
	return Addr(uint16(int32(a) + int32(n)))
}

// Sub returns a - n, wrapping on underflow.
func (a Addr) Sub(n uint16) Addr {
	return Addr(uint16(a) - n)
}

// Uint16 returns the address as a plain uint16.
func (a Addr) Uint16() uint16 {
	return uint16(a)
}
