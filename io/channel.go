// Package io provides the peripherals of the LS-8 emulator.
// It includes the program image reader (Rom) and the output renderer
// (Tape), which turns CPU output events into a byte stream.
package io

import (
	"github.com/ezrec/ls8/cpu"
)

// Channel defines the interface for all output channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send renders a single output event.
	Send(ev cpu.Event) error
}
