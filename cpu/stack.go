package cpu

// Stack is the memory backed stack of a CPU. It grows downward from
// STACK_TOP; the stack pointer addresses the current top of stack.
type Stack struct {
	Memory *Memory
	SP     *uint8
}

// Push decrements the stack pointer, then writes the value.
func (s Stack) Push(value uint8) {
	*s.SP--
	s.Memory.Write(*s.SP, value)
}

// Pop reads the top of stack, then increments the stack pointer.
func (s Stack) Pop() (value uint8) {
	value = s.Memory.Read(*s.SP)
	*s.SP++
	return
}

// Peek returns the top of stack without removing it.
func (s Stack) Peek() (value uint8, ok bool) {
	if s.Empty() {
		return
	}

	return s.Memory.Read(*s.SP), true
}

// Empty returns true if nothing has been pushed.
func (s Stack) Empty() bool {
	return *s.SP == STACK_TOP
}

// Depth returns the number of pushed values.
func (s Stack) Depth() int {
	return STACK_TOP - int(*s.SP)
}

// Data returns a copy of the stack contents, top of stack first.
func (s Stack) Data() []uint8 {
	return s.Memory.Slice(int(*s.SP), STACK_TOP)
}
