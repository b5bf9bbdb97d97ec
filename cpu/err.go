package cpu

import (
	"errors"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrHalted        = errors.New(f("cpu halted"))
	ErrOpcodeUnknown = errors.New(f("unknown opcode"))
	ErrDivideByZero  = errors.New(f("division by zero"))
	ErrImageTooLarge = errors.New(f("image too large"))

	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrOrgSyntax       = errors.New(f(".org syntax"))
	ErrOrgBackwards    = errors.New(f(".org moves backwards"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrMnemonicUnknown = errors.New(f("mnemonic unknown"))
	ErrOperandCount    = errors.New(f("operand count"))
	ErrOperandRange    = errors.New(f("operand out of range"))
	ErrRegisterInvalid = errors.New(f("register invalid"))
	ErrProgramTooLarge = errors.New(f("program too large"))
)

// ErrUnknownOpcode is raised when the byte at the program counter is not
// a valid opcode.
type ErrUnknownOpcode struct {
	Address uint8
	Value   uint8
}

func (err *ErrUnknownOpcode) Error() string {
	return f("unknown opcode 0x%02x at address 0x%02x", err.Value, err.Address)
}

func (err *ErrUnknownOpcode) Is(target error) bool {
	return target == ErrOpcodeUnknown
}

// ErrDivisionByZero is raised by DIV when the divisor register is zero.
type ErrDivisionByZero struct {
	Dividend uint8 // Dividend register index.
	Divisor  uint8 // Divisor register index.
}

func (err *ErrDivisionByZero) Error() string {
	return f("division by zero: r%d / r%d", err.Dividend, err.Divisor)
}

func (err *ErrDivisionByZero) Is(target error) bool {
	return target == ErrDivideByZero
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
