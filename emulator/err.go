package emulator

import (
	"errors"
	"strings"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	ErrStepBudget = errors.New(f("step budget exhausted"))
	ErrInterval   = errors.New(f("clock interval must be positive"))
)

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	Address uint8 // Program counter of the failing instruction.
	LineNo  int   // Source line, if a program listing is attached.
	Err     error
}

func (err *ErrRuntime) Error() string {
	if err.LineNo > 0 {
		return f("line %d address 0x%02x %v", err.LineNo, err.Address, err.Err)
	}
	return f("address 0x%02x %v", err.Address, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrConfigKey lists configuration keys that were not understood.
type ErrConfigKey []string

func (err ErrConfigKey) Error() string {
	return f("unknown configuration keys: %v", strings.Join(err, ", "))
}
