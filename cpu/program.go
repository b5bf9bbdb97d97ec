package cpu

import (
	"fmt"
	"iter"
	"strings"
)

// Statement is a line of assembled code with its source location and
// generated bytes.
type Statement struct {
	LineNo int
	Ip     int
	Words  []string
	Width  int
	Bytes  []uint8
}

// Program is an assembled program.
type Program struct {
	Statements []Statement
}

type Debug struct {
	*Statement
	Index int
}

// Debug returns the statement that generated the byte at ip.
func (prog *Program) Debug(ip uint8) (dbg Debug) {
	for n, st := range prog.Statements {
		if int(ip) >= st.Ip && int(ip) < st.Ip+len(st.Bytes) {
			dbg = Debug{
				Statement: &prog.Statements[n],
				Index:     int(ip) - st.Ip,
			}
			break
		}
	}

	return
}

// Bytes iterates over every generated byte, with its address.
func (prog *Program) Bytes() iter.Seq2[uint8, uint8] {
	return func(yield func(ip uint8, value uint8) bool) {
		for _, st := range prog.Statements {
			for n, value := range st.Bytes {
				if !yield(uint8(st.Ip+n), value) {
					return
				}
			}
		}
	}
}

// Binary returns the memory image of the program, from address 0 to the
// last generated byte.
func (prog *Program) Binary() (bins []uint8) {
	for ip, value := range prog.Bytes() {
		for len(bins) <= int(ip) {
			bins = append(bins, 0)
		}
		bins[ip] = value
	}

	return
}

// Listing returns the program as a binary text image, one byte per line,
// annotated with the source statements.
func (prog *Program) Listing() string {
	var text strings.Builder

	for _, st := range prog.Statements {
		for n, value := range st.Bytes {
			if n == 0 {
				fmt.Fprintf(&text, "%08b # %02x: %v\n", value, st.Ip, strings.Join(st.Words, " "))
			} else {
				fmt.Fprintf(&text, "%08b\n", value)
			}
		}
	}

	return text.String()
}
