package cpu

const (
	MEMORY_SIZE = 256  // Number of addressable cells.
	STACK_TOP   = 0xff // Initial stack pointer.
)

// Memory is the byte addressable store shared by program, data and stack.
type Memory struct {
	Cell [MEMORY_SIZE]uint8
}

// Read returns the cell at address.
func (m *Memory) Read(address uint8) uint8 {
	return m.Cell[address]
}

// Write sets the cell at address.
func (m *Memory) Write(address uint8, value uint8) {
	m.Cell[address] = value
}

// Slice returns a copy of the cells in [from, to).
func (m *Memory) Slice(from, to int) (data []uint8) {
	from = max(from, 0)
	to = min(to, MEMORY_SIZE)
	if from >= to {
		return
	}

	data = make([]uint8, to-from)
	copy(data, m.Cell[from:to])
	return
}

// Reset zeroes all cells.
func (m *Memory) Reset() {
	clear(m.Cell[:])
}
