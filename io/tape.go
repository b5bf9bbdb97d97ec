package io

import (
	"fmt"
	"io"

	"github.com/ezrec/ls8/cpu"
)

// Tape renders output events to a byte stream. Integers are written in
// decimal, one per line; characters are written as their raw byte.
type Tape struct {
	Output io.Writer

	written int
}

var _ Channel = (*Tape)(nil)

// Rewind resets the written byte counter.
func (tc *Tape) Rewind() {
	tc.written = 0
}

// Written returns the number of bytes written since the last Rewind.
func (tc *Tape) Written() int {
	return tc.written
}

// Send writes a single output event.
func (tc *Tape) Send(ev cpu.Event) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	var n int
	switch ev.Kind {
	case cpu.EventPrinted:
		n, err = fmt.Fprintf(tc.Output, "%d\n", ev.Int())
	case cpu.EventPrintedChar:
		n, err = tc.Output.Write([]byte{ev.Value})
	}
	tc.written += n

	return
}
