package io

import (
	"errors"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Image errors
	ErrParseBinary   = errors.New(f("not a binary byte"))
	ErrImageTooLarge = cpu.ErrImageTooLarge

	// Channel errors
	ErrChannelClosed = errors.New(f("channel closed"))
)

// ErrSyntax indicates the location of a program image error.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}
