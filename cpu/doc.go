// Package cpu implements the processor and assembler for the LS-8 system.
//
// The CPU consists of 256 bytes of memory, eight 8-bit general-purpose
// registers (r0-r7), a program counter (PC), a stack pointer (SP) into the
// top of memory, and a selected register latch that most instructions use
// as their implicit target. Execution is driven one instruction at a time
// by Step; output is reported as a sequence of Events.
//
// The assembler provides a small assembly language for the LS-8 instruction
// set, supporting labels, equates, raw data and compile-time expression
// evaluation.
package cpu
