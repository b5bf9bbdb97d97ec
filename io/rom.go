package io

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/ezrec/ls8/cpu"
)

// Rom is a program image, loaded into memory before execution.
type Rom struct {
	Data []uint8
}

// ParseRom reads a binary text program image.
//
// Everything from the first '#' on a line is a comment. After trimming,
// blank lines are skipped; every other line is a base 2 byte, and is
// assigned to the next address.
func ParseRom(in io.Reader) (rom *Rom, err error) {
	rom = &Rom{}

	scanner := bufio.NewScanner(in)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		text, _, _ := strings.Cut(line, "#")
		text = strings.TrimSpace(text)
		if len(text) == 0 {
			continue
		}

		if len(rom.Data) == cpu.MEMORY_SIZE {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: ErrImageTooLarge}
			return
		}

		value, perr := strconv.ParseUint(text, 2, 8)
		if perr != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: ErrParseBinary}
			return
		}

		rom.Data = append(rom.Data, uint8(value))
	}

	err = scanner.Err()
	return
}

// Load pokes the image into memory, starting at base.
func (rc *Rom) Load(cp *cpu.Cpu, base uint8) error {
	return cp.LoadImage(base, rc.Data)
}

// Len returns the image size, in bytes.
func (rc *Rom) Len() int {
	return len(rc.Data)
}
