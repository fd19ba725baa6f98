// Package joypad models the 0xFF00 input register: two independently
// latched button groups (directions and buttons) multiplexed onto the
// same four low bits by the select lines the CPU writes.
package joypad

import "github.com/brineflow/dmgcore/internal/interrupts"

// Key is a physical button.
type Key int

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// State is the joypad register. Bit state is active-low: true means "not
// pressed", matching the hardware's pull-up default and the register's
// own read-back polarity.
type State struct {
	selectButtons, selectDirections bool // true = group not selected

	right, left, up, down bool
	a, b, select_, start   bool

	irq *interrupts.Controller
}

// New returns a joypad with every key released and both groups
// deselected, matching power-on state.
func New(irq *interrupts.Controller) *State {
	return &State{
		selectButtons:     true,
		selectDirections:  true,
		right:             true,
		left:              true,
		up:                true,
		down:              true,
		a:                 true,
		b:                 true,
		select_:           true,
		start:             true,
		irq:               irq,
	}
}

// Read composes the register: bits 7,6 always read 1; bit 5/4 mirror the
// (inverted) select latches; bits 3..0 report whichever group is
// currently selected, or all released if neither is selected. With both
// groups selected, a bit reads 0 if its key in either group is pressed.
func (s *State) Read() uint8 {
	v := uint8(0xC0)
	if s.selectButtons {
		v |= 0x20
	}
	if s.selectDirections {
		v |= 0x10
	}

	lower := uint8(0x0F)
	if !s.selectDirections {
		lower &= s.pack(s.down, s.up, s.left, s.right)
	}
	if !s.selectButtons {
		lower &= s.pack(s.start, s.select_, s.b, s.a)
	}
	return v | lower
}

// pack folds four active-low booleans (bit3..bit0 order) into a nibble.
func (s *State) pack(bit3, bit2, bit1, bit0 bool) uint8 {
	var v uint8
	if bit3 {
		v |= 0x08
	}
	if bit2 {
		v |= 0x04
	}
	if bit1 {
		v |= 0x02
	}
	if bit0 {
		v |= 0x01
	}
	return v
}

// Write stores the two select bits (5,4); the direction/button latches
// are read-only from the CPU's perspective.
func (s *State) Write(value uint8) {
	s.selectButtons = value&0x20 != 0
	s.selectDirections = value&0x10 != 0
}

// SetKey updates the latch for key and requests a Joypad interrupt on
// the falling edge (released -> pressed) of a key whose group is
// currently selected.
func (s *State) SetKey(key Key, pressed bool) {
	latch := s.latchFor(key)
	wasReleased := *latch
	*latch = !pressed

	if pressed && wasReleased && s.groupSelected(key) {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

func (s *State) latchFor(key Key) *bool {
	switch key {
	case Right:
		return &s.right
	case Left:
		return &s.left
	case Up:
		return &s.up
	case Down:
		return &s.down
	case A:
		return &s.a
	case B:
		return &s.b
	case Select:
		return &s.select_
	case Start:
		return &s.start
	}
	panic("joypad: invalid key")
}

func (s *State) groupSelected(key Key) bool {
	if key <= Down {
		return !s.selectDirections
	}
	return !s.selectButtons
}
