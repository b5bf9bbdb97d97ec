package cpu

import (
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"strings"
)

// Predefined system equates
var _cpu_defines = map[string]string{
	"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
	"STACK_TOP":      fmt.Sprintf("%#x", STACK_TOP),
	"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
}

// Status is the result of a single Step.
type Status int

const (
	StatusContinue = Status(iota) // Ready for the next step.
	StatusHalted                  // Stopped by HALT.
	StatusFaulted                 // Stopped by a fault.
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "continue"
	case StatusHalted:
		return "halted"
	case StatusFaulted:
		return "faulted"
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Cpu is the simulation context of the LS-8 processor.
type Cpu struct {
	Verbose bool         // Set to enable verbose logging.
	Logger  *slog.Logger // Trace logger, slog.Default() if nil.

	Memory   Memory       // Program, data and stack.
	Register RegisterFile // Register bank.

	Steps int // Executed instruction counter.

	status      Status
	fault       error
	events      []Event
	subscribers []func(Event)
}

// NewCpu creates a new CPU with cleared memory, and the stack pointer
// at the top of memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Register.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

func (cpu *Cpu) logger() *slog.Logger {
	if cpu.Logger != nil {
		return cpu.Logger
	}
	return slog.Default()
}

// Reset the CPU state.
// - Clears memory and registers.
// - Sets the stack pointer to the top of memory.
// - Discards recorded events. Subscribers are kept.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		cpu.logger().Debug("cpu: reset")
	}

	cpu.Memory.Reset()
	cpu.Register.Reset()
	cpu.Steps = 0
	cpu.status = StatusContinue
	cpu.fault = nil
	cpu.events = nil
}

// Load writes a single byte into memory, prior to execution.
func (cpu *Cpu) Load(address uint8, value uint8) {
	cpu.Memory.Write(address, value)
}

// LoadImage writes a program image into memory, starting at base.
func (cpu *Cpu) LoadImage(base uint8, data []uint8) (err error) {
	if int(base)+len(data) > MEMORY_SIZE {
		err = ErrImageTooLarge
		return
	}

	for n, value := range data {
		cpu.Load(base+uint8(n), value)
	}

	return
}

// Stack returns the memory backed stack.
func (cpu *Cpu) Stack() Stack {
	return Stack{Memory: &cpu.Memory, SP: &cpu.Register.SP}
}

// Status returns the current execution status.
func (cpu *Cpu) Status() Status {
	return cpu.status
}

// Halted returns true once the CPU has stopped, by HALT or by a fault.
func (cpu *Cpu) Halted() bool {
	return cpu.status != StatusContinue
}

// Fault returns the fault that stopped the CPU, if any.
func (cpu *Cpu) Fault() error {
	return cpu.fault
}

// Events returns the output events, in execution order.
func (cpu *Cpu) Events() []Event {
	return cpu.events
}

// Subscribe adds a callback for every future output event.
// Callbacks run synchronously, inside Step.
func (cpu *Cpu) Subscribe(fn func(Event)) {
	cpu.subscribers = append(cpu.subscribers, fn)
}

func (cpu *Cpu) emit(ev Event) {
	cpu.events = append(cpu.events, ev)
	for _, fn := range cpu.subscribers {
		fn(ev)
	}
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "% 4s: %v\n", "st", cpu.status)
	sb.WriteString(cpu.Register.String())

	strval := "--"
	if val, ok := cpu.Stack().Peek(); ok {
		strval = fmt.Sprintf("%02X", val)
	}
	fmt.Fprintf(&sb, "% 4s: %v\n", "top", strval)

	return sb.String()
}

// Fetch decodes the instruction at the program counter.
func (cpu *Cpu) Fetch() (inst Instruction, err error) {
	pc := cpu.Register.PC
	value := cpu.Memory.Read(pc)

	op, ok := Decode(value)
	if !ok {
		err = &ErrUnknownOpcode{Address: pc, Value: value}
		return
	}

	inst.Op = op
	if op.Operands() > 0 {
		inst.A = cpu.Memory.Read(pc + 1)
	}
	if op.Operands() > 1 {
		inst.B = cpu.Memory.Read(pc + 2)
	}

	return
}

// Step executes a single fetch-decode-execute cycle.
// Once halted or faulted, Step does nothing and returns the terminal
// status and fault again.
func (cpu *Cpu) Step() (status Status, err error) {
	if cpu.status != StatusContinue {
		return cpu.status, cpu.fault
	}

	inst, err := cpu.Fetch()
	if err == nil {
		err = cpu.Execute(inst)
	}

	if err != nil {
		if cpu.Verbose {
			text, _ := Disassemble(&cpu.Memory, cpu.Register.PC)
			cpu.logger().Debug("cpu: fault", "pc", cpu.Register.PC, "inst", text, "error", err)
		}
		cpu.status = StatusFaulted
		cpu.fault = err
	}

	return cpu.status, cpu.fault
}

// Execute executes a single decoded instruction, located at the program
// counter.
func (cpu *Cpu) Execute(inst Instruction) (err error) {
	if cpu.status != StatusContinue {
		return ErrHalted
	}

	rf := &cpu.Register

	if cpu.Verbose {
		cpu.logger().Debug("cpu: exec",
			"pc", fmt.Sprintf("%02x", rf.PC),
			"sp", fmt.Sprintf("%02x", rf.SP),
			"sel", rf.Selected(),
			"inst", inst.String())
	}

	next_pc := rf.PC + uint8(inst.Op.Width())

	switch inst.Op {
	case OP_HALT:
		cpu.status = StatusHalted
		next_pc = rf.PC
	case OP_INIT:
		rf.Select(0)
	case OP_SET:
		rf.Select(inst.A)
	case OP_SAVE:
		rf.SetCurrent(inst.A)
	case OP_MUL, OP_ADD, OP_SUB, OP_DIV:
		a := rf.Get(inst.A)
		b := rf.Get(inst.B)
		if inst.Op == OP_DIV && b == 0 {
			err = &ErrDivisionByZero{Dividend: inst.A & REGISTER_MASK, Divisor: inst.B & REGISTER_MASK}
			return
		}
		rf.SetCurrent(cpu.doAlu(inst.Op, a, b))
	case OP_INC:
		rf.SetCurrent(cpu.doAlu(OP_ADD, rf.Current(), 1))
	case OP_DEC:
		rf.SetCurrent(cpu.doAlu(OP_SUB, rf.Current(), 1))
	case OP_PUSH:
		cpu.Stack().Push(rf.Current())
	case OP_POP:
		rf.SetCurrent(cpu.Stack().Pop())
	case OP_CALL:
		cpu.Stack().Push(rf.PC + 1)
		next_pc = rf.Current()
	case OP_RET:
		next_pc = cpu.Stack().Pop()
	case OP_PRN:
		cpu.emit(Printed(rf.Current()))
	case OP_PRA:
		cpu.emit(PrintedChar(rf.Current()))
	default:
		err = &ErrUnknownOpcode{Address: rf.PC, Value: uint8(inst.Op)}
		return
	}

	rf.PC = next_pc
	cpu.Steps++

	return
}

// doAlu performs the requested arithmetic, modulo 256. The caller checks
// for a zero divisor.
func (cpu *Cpu) doAlu(op Opcode, a uint8, b uint8) (output uint8) {
	switch op {
	case OP_ADD:
		output = a + b
	case OP_SUB:
		output = a - b
	case OP_MUL:
		output = a * b
	case OP_DIV:
		output = a / b
	}

	return
}
