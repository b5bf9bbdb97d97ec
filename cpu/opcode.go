package cpu

import (
	"fmt"
	"strings"
)

// Opcode is an instruction identifier byte.
type Opcode uint8

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_HALT = Opcode(0b00000000) // HALT
	OP_INIT = Opcode(0b00000001) // INIT
	OP_SET  = Opcode(0b00000010) // SET
	OP_SAVE = Opcode(0b00000100) // SAVE
	OP_MUL  = Opcode(0b00000101) // MUL
	OP_PRN  = Opcode(0b00000110) // PRN
	OP_PRA  = Opcode(0b00000111) // PRA
	OP_PUSH = Opcode(0b00001010) // PUSH
	OP_POP  = Opcode(0b00001011) // POP
	OP_ADD  = Opcode(0b00001100) // ADD
	OP_SUB  = Opcode(0b00001101) // SUB
	OP_DIV  = Opcode(0b00001110) // DIV
	OP_CALL = Opcode(0b00001111) // CALL
	OP_RET  = Opcode(0b00010000) // RET
	OP_INC  = Opcode(0b00010111) // INC
	OP_DEC  = Opcode(0b00011000) // DEC
)

// opcodeOperands is the operand count of every valid opcode.
var opcodeOperands = map[Opcode]int{
	OP_HALT: 0,
	OP_INIT: 0,
	OP_SET:  1,
	OP_SAVE: 1,
	OP_MUL:  2,
	OP_PRN:  0,
	OP_PRA:  0,
	OP_PUSH: 0,
	OP_POP:  0,
	OP_ADD:  2,
	OP_SUB:  2,
	OP_DIV:  2,
	OP_CALL: 0,
	OP_RET:  0,
	OP_INC:  0,
	OP_DEC:  0,
}

// Opcodes returns all valid opcodes, in encoding order.
func Opcodes() (ops []Opcode) {
	for n := range MEMORY_SIZE {
		op := Opcode(n)
		if op.Valid() {
			ops = append(ops, op)
		}
	}
	return
}

// Decode returns the opcode for an instruction byte, and false if the
// byte is not a valid opcode.
func Decode(value uint8) (op Opcode, ok bool) {
	op = Opcode(value)
	ok = op.Valid()
	return
}

// ParseOpcode returns the opcode for a mnemonic, ignoring case.
func ParseOpcode(mnemonic string) (op Opcode, ok bool) {
	mnemonic = strings.ToUpper(mnemonic)
	for op = range opcodeOperands {
		if op.String() == mnemonic {
			ok = true
			return
		}
	}

	op = 0
	return
}

// Valid returns true if the opcode is part of the instruction set.
func (op Opcode) Valid() bool {
	_, ok := opcodeOperands[op]
	return ok
}

// Operands returns the number of operand bytes following the opcode.
func (op Opcode) Operands() int {
	return opcodeOperands[op]
}

// Width returns the encoded size of the instruction, in bytes.
func (op Opcode) Width() int {
	return 1 + op.Operands()
}

// Instruction is a decoded opcode with its operand bytes.
type Instruction struct {
	Op Opcode
	A  uint8 // First operand, if any.
	B  uint8 // Second operand, if any.
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	switch inst.Op {
	case OP_SET:
		return fmt.Sprintf("%v r%d", inst.Op, inst.A)
	case OP_SAVE:
		return fmt.Sprintf("%v %d", inst.Op, inst.A)
	case OP_MUL, OP_ADD, OP_SUB, OP_DIV:
		return fmt.Sprintf("%v r%d r%d", inst.Op, inst.A, inst.B)
	}

	return inst.Op.String()
}

// Bytes returns the encoded instruction.
func (inst Instruction) Bytes() []uint8 {
	data := []uint8{uint8(inst.Op), inst.A, inst.B}
	return data[:inst.Op.Width()]
}

// Disassemble decodes the instruction at pc. If the byte at pc is not a
// valid opcode, the text is a data directive and the width is 1.
func Disassemble(mem *Memory, pc uint8) (text string, width int) {
	op, ok := Decode(mem.Read(pc))
	if !ok {
		return fmt.Sprintf(".byte 0x%02x", uint8(op)), 1
	}

	inst := Instruction{Op: op}
	if op.Operands() > 0 {
		inst.A = mem.Read(pc + 1)
	}
	if op.Operands() > 1 {
		inst.B = mem.Read(pc + 2)
	}

	return inst.String(), op.Width()
}
