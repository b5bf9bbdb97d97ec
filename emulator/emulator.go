// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	stdio "io"
	"iter"
	"log/slog"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/io"
)

// Emulator state. CPU + program image + output tape.
type Emulator struct {
	Verbose  bool         // If set, enables verbose logging.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the assembled program listing, if any.
	Config   Config       // Emulator configuration.
	Logger   *slog.Logger // Logger, slog.Default() if nil.

	Rom  io.Rom     // Program image.
	Tape io.Channel // Output channel, output is discarded if nil.

	tapeErr error
}

// NewEmulator creates a new emulator, with the default configuration.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:    cpu.NewCpu(),
		Config: DefaultConfig(),
	}

	emu.Cpu.Subscribe(emu.send)

	return
}

func (emu *Emulator) logger() *slog.Logger {
	if emu.Logger != nil {
		return emu.Logger
	}
	return slog.Default()
}

// send forwards an output event to the tape, keeping the first error.
func (emu *Emulator) send(ev cpu.Event) {
	if emu.Tape == nil {
		return
	}

	err := emu.Tape.Send(ev)
	if err != nil && emu.tapeErr == nil {
		emu.tapeErr = err
	}
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	defines := map[string]string{
		"BASE": fmt.Sprintf("%#x", emu.Config.Base),
	}

	maps.Insert(defines, emu.Cpu.Defines())

	return maps.All(defines)
}

// Assemble parses assembler source, and attaches the program.
func (emu *Emulator) Assemble(in stdio.Reader) (err error) {
	asm := &cpu.Assembler{
		Verbose: emu.verbose(),
		Logger:  emu.Logger,
	}
	for key, value := range emu.Defines() {
		asm.Predefine(key, value)
	}

	prog, err := asm.Parse(in)
	if err != nil {
		return
	}

	emu.Program = prog
	return
}

// verbose is set by either the emulator or its configuration.
func (emu *Emulator) verbose() bool {
	return emu.Verbose || emu.Config.Verbose
}

// Reset the emulator state, and load the program image.
//
// The configured base is the entry point. A raw image is loaded at the
// base. An attached program holds absolute addresses, so its binary is
// loaded at address 0; use `.org BASE` to place its code at the base.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.verbose()
	emu.Cpu.Logger = emu.Logger

	emu.Cpu.Reset()
	if emu.Tape != nil {
		emu.Tape.Rewind()
	}
	emu.tapeErr = nil

	base := emu.Config.Base
	if emu.Program != nil {
		emu.Rom.Data = emu.Program.Binary()
		base = 0
	}

	err = emu.Rom.Load(emu.Cpu, base)
	if err != nil {
		return
	}

	emu.Cpu.Register.PC = emu.Config.Base

	if emu.verbose() {
		emu.logger().Debug("emulator: reset", "base", emu.Config.Base, "size", emu.Rom.Len())
	}

	return
}

// Steps returns the total instructions executed since a reset.
func (emu *Emulator) Steps() int {
	return emu.Cpu.Steps
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() uint8 {
	return emu.Cpu.Register.PC
}

// LineNo returns the current line number for the executing opcode, or 0
// if no program listing is attached.
func (emu *Emulator) LineNo() int {
	if emu.Program == nil {
		return 0
	}

	dbg := emu.Program.Debug(emu.Pc())
	if dbg.Statement == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single step of the emulator. done is set once the CPU
// has stopped; a fault is returned as an ErrRuntime. Ticking a CPU that
// has already halted returns cpu.ErrHalted.
func (emu *Emulator) Tick() (done bool, err error) {
	pc := emu.Pc()
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Address: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.Cpu.Status() == cpu.StatusHalted {
		done = true
		err = cpu.ErrHalted
		return
	}

	status, err := emu.Cpu.Step()
	if emu.tapeErr != nil {
		err = errors.Join(err, emu.tapeErr)
		emu.tapeErr = nil
	}

	done = status != cpu.StatusContinue
	if done && emu.verbose() {
		emu.logger().Debug("emulator: stopped", "status", status, "steps", emu.Steps())
	}

	return
}

// Run ticks the emulator until it stops, the context is cancelled, or
// the configured step budget is exhausted.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	budget := emu.Config.Budget

	for steps := 0; budget <= 0 || steps < budget; steps++ {
		err = ctx.Err()
		if err != nil {
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}

	err = ErrStepBudget
	return
}
