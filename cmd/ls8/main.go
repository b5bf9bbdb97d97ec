// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/kr/pretty"

	"github.com/ezrec/ls8/emulator"
	ls8io "github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/logs"
)

const (
	EXIT_OK    = 0
	EXIT_FAULT = 1
	EXIT_USAGE = 2
)

type options struct {
	config   string
	assemble bool
	listing  bool
	clocked  bool
	interval time.Duration
	budget   int
	verbose  bool
	dump     bool
	level    string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var opt options

	flags := flag.NewFlagSet("ls8", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&opt.config, "c", "", "TOML configuration file")
	flags.BoolVar(&opt.assemble, "a", false, "Input is assembler source")
	flags.BoolVar(&opt.listing, "l", false, "Print the binary listing of assembler source, do not execute")
	flags.BoolVar(&opt.clocked, "clock", false, "Step on the clock interval, instead of as fast as possible")
	flags.DurationVar(&opt.interval, "i", 0, "Clock interval, implies -clock (overrides configuration)")
	flags.IntVar(&opt.budget, "n", -1, "Step budget, 0 for unlimited (overrides configuration)")
	flags.BoolVar(&opt.verbose, "v", false, "Verbose mode")
	flags.BoolVar(&opt.dump, "dump", false, "Print the final machine state")
	flags.StringVar(&opt.level, "log-level", "warn", "Log level: debug, info, warn, error")
	flags.Usage = func() {
		fmt.Fprintf(stderr, "usage: ls8 [flags] input-file\n")
		flags.PrintDefaults()
	}

	err := flags.Parse(args)
	if err != nil {
		return EXIT_USAGE
	}

	if flags.NArg() != 1 {
		flags.Usage()
		return EXIT_USAGE
	}
	filename := flags.Arg(0)

	level := new(slog.LevelVar)
	lvl, err := logs.ParseLevel(opt.level)
	if err != nil {
		fmt.Fprintf(stderr, "ls8: -log-level: %v\n", err)
		return EXIT_USAGE
	}
	level.Set(lvl)
	if opt.verbose {
		level.Set(slog.LevelDebug)
	}
	logger := logs.New(stderr, level)

	cfg := emulator.DefaultConfig()
	if len(opt.config) != 0 {
		cfg, err = emulator.LoadConfig(opt.config)
		if err != nil {
			logger.Error("config", "file", opt.config, "error", err)
			return EXIT_USAGE
		}
	}
	if opt.interval > 0 {
		cfg.Interval = opt.interval
		opt.clocked = true
	}
	if opt.budget >= 0 {
		cfg.Budget = opt.budget
	}
	cfg.Verbose = cfg.Verbose || opt.verbose

	emu := emulator.NewEmulator()
	emu.Config = cfg
	emu.Logger = logger
	emu.Tape = &ls8io.Tape{Output: stdout}

	err = load(emu, filename, opt.assemble)
	if err != nil {
		logger.Error("load", "file", filename, "error", err)
		return EXIT_FAULT
	}

	if opt.listing {
		if emu.Program == nil {
			logger.Error("listing requires assembler source (-a)")
			return EXIT_USAGE
		}
		fmt.Fprint(stdout, emu.Program.Listing())
		return EXIT_OK
	}

	err = emu.Reset()
	if err != nil {
		logger.Error("reset", "error", err)
		return EXIT_FAULT
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if opt.clocked {
		err = runClocked(ctx, emu)
	} else {
		err = emu.Run(ctx)
	}

	if opt.dump {
		fmt.Fprintf(stderr, "%# v\n", pretty.Formatter(emu.Register))
		fmt.Fprint(stderr, emu.Cpu.String())
	}

	if err != nil {
		logger.Error("run", "steps", emu.Steps(), "error", err)
		return EXIT_FAULT
	}

	logger.Info("halted", "steps", emu.Steps())
	return EXIT_OK
}

// load reads the program, either as a binary text image or as assembler
// source.
func load(emu *emulator.Emulator, filename string, assemble bool) (err error) {
	inf, err := os.Open(filename)
	if err != nil {
		return
	}
	defer inf.Close()

	if assemble {
		return emu.Assemble(inf)
	}

	rom, err := ls8io.ParseRom(inf)
	if err != nil {
		return
	}
	emu.Rom = *rom

	return
}

// runClocked steps the emulator on the configured interval, until it
// stops or the context is cancelled. The step budget still applies.
func runClocked(ctx context.Context, emu *emulator.Emulator) (err error) {
	budget := emu.Config.Budget
	exhausted := make(chan struct{})
	steps := 0

	clock := emulator.NewClock(emu, emulator.ClockConfig{
		Interval: emu.Config.Interval,
		OnTick: func(done bool, err error) {
			steps++
			if budget > 0 && steps == budget && !done && err == nil {
				close(exhausted)
			}
		},
	})

	select {
	case <-clock.Done():
		return clock.Wait()
	case <-exhausted:
		err = clock.Stop()
		return errors.Join(err, emulator.ErrStepBudget)
	case <-ctx.Done():
		err = clock.Stop()
		return errors.Join(err, ctx.Err())
	}
}
