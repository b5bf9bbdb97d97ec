package cpu

import (
	"fmt"
	"strings"
)

const (
	REGISTER_COUNT = 8 // General purpose registers r0-r7.
	REGISTER_MASK  = REGISTER_COUNT - 1
)

// RegisterFile is the register state of the CPU.
type RegisterFile struct {
	R        [REGISTER_COUNT]uint8 // General purpose registers.
	PC       uint8                 // Program counter.
	SP       uint8                 // Stack pointer.
	selected uint8                 // Implicit target register index.
}

// Get returns the value of a general purpose register.
// The index is masked to a valid register.
func (rf *RegisterFile) Get(index uint8) uint8 {
	return rf.R[index&REGISTER_MASK]
}

// Set sets the value of a general purpose register.
// The index is masked to a valid register.
func (rf *RegisterFile) Set(index uint8, value uint8) {
	rf.R[index&REGISTER_MASK] = value
}

// Selected returns the index of the selected register.
func (rf *RegisterFile) Selected() uint8 {
	return rf.selected
}

// Select changes the selected register, masked to a valid register.
func (rf *RegisterFile) Select(index uint8) {
	rf.selected = index & REGISTER_MASK
}

// Current returns the value of the selected register.
func (rf *RegisterFile) Current() uint8 {
	return rf.R[rf.selected]
}

// SetCurrent sets the value of the selected register.
func (rf *RegisterFile) SetCurrent(value uint8) {
	rf.R[rf.selected] = value
}

// Reset clears all registers, and sets SP to the top of memory.
func (rf *RegisterFile) Reset() {
	*rf = RegisterFile{SP: STACK_TOP}
}

// String returns the register state, one register per line.
func (rf *RegisterFile) String() string {
	var text strings.Builder

	fmt.Fprintf(&text, "% 4s: %02X\n", "pc", rf.PC)
	fmt.Fprintf(&text, "% 4s: %02X\n", "sp", rf.SP)
	fmt.Fprintf(&text, "% 4s: r%d\n", "sel", rf.selected)
	for n, val := range rf.R {
		fmt.Fprintf(&text, "% 4s: %02X\n", fmt.Sprintf("r%d", n), val)
	}

	return text.String()
}
