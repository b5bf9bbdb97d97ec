package cpu

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	HALT = uint8(OP_HALT)
	INIT = uint8(OP_INIT)
	SET  = uint8(OP_SET)
	SAVE = uint8(OP_SAVE)
	MUL  = uint8(OP_MUL)
	PRN  = uint8(OP_PRN)
	PRA  = uint8(OP_PRA)
	PUSH = uint8(OP_PUSH)
	POP  = uint8(OP_POP)
	ADD  = uint8(OP_ADD)
	SUB  = uint8(OP_SUB)
	DIV  = uint8(OP_DIV)
	CALL = uint8(OP_CALL)
	RET  = uint8(OP_RET)
	INC  = uint8(OP_INC)
	DEC  = uint8(OP_DEC)
)

func newLoaded(t *testing.T, program ...uint8) (cpu *Cpu) {
	cpu = NewCpu()
	require.NoError(t, cpu.LoadImage(0, program))
	return
}

// runCpu steps until the cpu stops, or the limit is reached.
func runCpu(cpu *Cpu, limit int) (status Status, err error) {
	for range limit {
		status, err = cpu.Step()
		if status != StatusContinue {
			return
		}
	}
	return
}

func TestCpu_New(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.Equal(uint8(0), cpu.Register.PC)
	assert.Equal(uint8(0xff), cpu.Register.SP)
	assert.Equal(uint8(0), cpu.Register.Selected())
	assert.Equal(StatusContinue, cpu.Status())
	assert.False(cpu.Halted())
	assert.Nil(cpu.Fault())
	assert.Empty(cpu.Events())
}

func TestCpu_EndToEnd(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t,
		SET, 0,
		SAVE, 8,
		SET, 1,
		SAVE, 9,
		MUL, 0, 1,
		PRN,
		HALT,
	)

	status, err := runCpu(cpu, 100)
	assert.NoError(err)
	assert.Equal(StatusHalted, status)
	assert.Equal([]Event{Printed(72)}, cpu.Events())
	assert.Equal(uint8(72), cpu.Register.R[1])
	assert.Equal(uint8(12), cpu.Register.PC)
	assert.Equal(7, cpu.Steps)
}

func TestCpu_Masking(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		name    string
		program []uint8
		value   uint8
	}){
		{"add_wrap", []uint8{SET, 0, SAVE, 200, SET, 1, SAVE, 100, ADD, 0, 1, HALT}, 44},
		{"sub_wrap", []uint8{SET, 0, SAVE, 3, SET, 1, SAVE, 5, SUB, 0, 1, HALT}, 254},
		{"mul_wrap", []uint8{SET, 0, SAVE, 16, SET, 1, SAVE, 17, MUL, 0, 1, HALT}, 16},
		{"inc_wrap", []uint8{SET, 2, SAVE, 255, INC, HALT}, 0},
		{"dec_wrap", []uint8{SET, 2, SAVE, 0, DEC, HALT}, 255},
		{"inc", []uint8{SET, 2, SAVE, 41, INC, HALT}, 42},
		{"dec", []uint8{SET, 2, SAVE, 43, DEC, HALT}, 42},
		{"add_self", []uint8{SET, 3, SAVE, 21, ADD, 3, 3, HALT}, 42},
	}

	for _, entry := range table {
		cpu := newLoaded(t, entry.program...)
		status, err := runCpu(cpu, 100)
		assert.NoError(err, entry.name)
		assert.Equal(StatusHalted, status, entry.name)
		assert.Equal(entry.value, cpu.Register.Current(), entry.name)
	}
}

func TestCpu_Division(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t,
		SET, 0, SAVE, 7,
		SET, 1, SAVE, 2,
		SET, 2,
		DIV, 0, 1,
		HALT,
	)

	status, err := runCpu(cpu, 100)
	assert.NoError(err)
	assert.Equal(StatusHalted, status)
	assert.Equal(uint8(3), cpu.Register.R[2])
}

func TestCpu_DivisionByZero(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t,
		SET, 0, SAVE, 5,
		SET, 1, SAVE, 0,
		DIV, 0, 1,
		HALT,
	)

	status, err := runCpu(cpu, 4)
	assert.NoError(err)
	assert.Equal(StatusContinue, status)
	before := cpu.Register

	status, err = cpu.Step()
	assert.Equal(StatusFaulted, status)
	assert.True(errors.Is(err, ErrDivideByZero))

	var dz *ErrDivisionByZero
	assert.True(errors.As(err, &dz))
	assert.Equal(uint8(0), dz.Dividend)
	assert.Equal(uint8(1), dz.Divisor)

	// No register written, PC not advanced.
	assert.Equal(before, cpu.Register)
	assert.Equal(uint8(8), cpu.Register.PC)
	assert.True(cpu.Halted())
	assert.Equal(err, cpu.Fault())
}

func TestCpu_StackRoundTrip(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t,
		SET, 4,
		SAVE, 42,
		PUSH,
		SAVE, 0,
		POP,
		HALT,
	)

	status, err := runCpu(cpu, 3)
	assert.NoError(err)
	assert.Equal(StatusContinue, status)
	assert.Equal(uint8(0xfe), cpu.Register.SP)
	assert.Equal(uint8(42), cpu.Memory.Read(0xfe))

	status, err = runCpu(cpu, 100)
	assert.NoError(err)
	assert.Equal(StatusHalted, status)
	assert.Equal(uint8(42), cpu.Register.R[4])
	assert.Equal(uint8(0xff), cpu.Register.SP)
}

func TestCpu_CallReturn(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, CALL)
	cpu.Load(10, RET)
	cpu.Register.Set(0, 10)

	status, err := cpu.Step()
	assert.NoError(err)
	assert.Equal(StatusContinue, status)
	assert.Equal(uint8(10), cpu.Register.PC)
	assert.Equal(uint8(0xfe), cpu.Register.SP)
	assert.Equal(uint8(1), cpu.Memory.Read(0xfe))

	status, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(StatusContinue, status)
	assert.Equal(uint8(1), cpu.Register.PC)
	assert.Equal(uint8(0xff), cpu.Register.SP)
}

func TestCpu_Subroutine(t *testing.T) {
	assert := assert.New(t)

	// r1 holds the subroutine address; the subroutine prints r0.
	cpu := newLoaded(t,
		SET, 0, SAVE, 'H',
		SET, 1, SAVE, 20,
		// 0x08: return address is 0x09
		CALL,
		SET, 0, SAVE, 'i',
		PRA,
		HALT,
	)
	require.NoError(t, cpu.LoadImage(20, []uint8{
		SET, 0,
		PRA,
		SET, 1,
		RET,
	}))

	status, err := runCpu(cpu, 100)
	assert.NoError(err)
	assert.Equal(StatusHalted, status)
	assert.Equal([]Event{PrintedChar('H'), PrintedChar('i')}, cpu.Events())
	assert.True(cpu.Stack().Empty())
}

func TestCpu_UnknownOpcode(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, 0b11111111)

	status, err := cpu.Step()
	assert.Equal(StatusFaulted, status)
	assert.True(errors.Is(err, ErrOpcodeUnknown))
	assert.Equal(&ErrUnknownOpcode{Address: 0, Value: 0xff}, err)

	// Further steps are no-ops returning the same fault.
	for range 3 {
		again, again_err := cpu.Step()
		assert.Equal(StatusFaulted, again)
		assert.Equal(err, again_err)
	}
	assert.Equal(uint8(0), cpu.Register.PC)
	assert.Equal(0, cpu.Steps)
}

func TestCpu_Halt(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, INIT, HALT, PRN)

	status, err := runCpu(cpu, 100)
	assert.NoError(err)
	assert.Equal(StatusHalted, status)
	assert.Equal(uint8(1), cpu.Register.PC)

	status, err = cpu.Step()
	assert.NoError(err)
	assert.Equal(StatusHalted, status)
	assert.Empty(cpu.Events())

	assert.Equal(ErrHalted, cpu.Execute(Instruction{Op: OP_PRN}))
}

func TestCpu_InitSet(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, SET, 5, SAVE, 9, INIT, SAVE, 1, HALT)

	_, err := runCpu(cpu, 100)
	assert.NoError(err)
	assert.Equal(uint8(0), cpu.Register.Selected())
	assert.Equal(uint8(9), cpu.Register.R[5])
	assert.Equal(uint8(1), cpu.Register.R[0])
}

func TestCpu_Subscribe(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, SET, 0, SAVE, 'A', PRA, PRN, INC, PRA, HALT)

	var seen []Event
	cpu.Subscribe(func(ev Event) { seen = append(seen, ev) })

	_, err := runCpu(cpu, 100)
	assert.NoError(err)

	expected := []Event{PrintedChar('A'), Printed(65), PrintedChar('B')}
	assert.Equal(expected, seen)
	assert.Equal(expected, cpu.Events())
	assert.Equal('B', seen[2].Rune())
	assert.Equal(65, seen[1].Int())
}

func TestCpu_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, SET, 0, SAVE, 1, PUSH, PRN, 0xff)
	status, _ := runCpu(cpu, 100)
	assert.Equal(StatusFaulted, status)

	cpu.Reset()
	assert.Equal(StatusContinue, cpu.Status())
	assert.Nil(cpu.Fault())
	assert.Empty(cpu.Events())
	assert.Equal(uint8(0xff), cpu.Register.SP)
	assert.Equal(uint8(0), cpu.Memory.Read(0))
	assert.Equal(0, cpu.Steps)
}

func TestCpu_LoadImage(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.LoadImage(0xfe, []uint8{1, 2}))
	assert.Equal(uint8(2), cpu.Memory.Read(0xff))
	assert.ErrorIs(cpu.LoadImage(0xfe, []uint8{1, 2, 3}), ErrImageTooLarge)
	assert.NoError(cpu.LoadImage(0, make([]uint8, MEMORY_SIZE)))
}

func TestCpu_String(t *testing.T) {
	assert := assert.New(t)

	cpu := newLoaded(t, SET, 0, SAVE, 0x2a, PUSH, HALT)
	_, err := runCpu(cpu, 100)
	assert.NoError(err)

	text := cpu.String()
	assert.Contains(text, "st: halted")
	assert.Contains(text, "top: 2A")
	assert.Contains(text, "sp: FE")
}

func TestCpu_Independent(t *testing.T) {
	assert := assert.New(t)

	program := []uint8{SET, 0, SAVE, 7, PUSH, PUSH, HALT}
	a := newLoaded(t, program...)
	b := newLoaded(t, program...)

	// Interleave the two machines.
	for range 5 {
		a.Step()
		b.Step()
	}

	assert.Equal(uint8(0xfd), a.Register.SP)
	assert.Equal(uint8(0xfd), b.Register.SP)
	assert.Equal(a.Memory, b.Memory)
}
