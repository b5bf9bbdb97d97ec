package cpu

import (
	"fmt"
)

// EventKind is the type of an output event.
type EventKind int

const (
	EventPrinted     = EventKind(iota) // Integer output, from PRN.
	EventPrintedChar                   // Character output, from PRA.
)

// Event is a single output from the running program.
type Event struct {
	Kind  EventKind
	Value uint8
}

// Printed returns an integer output event.
func Printed(value uint8) Event {
	return Event{Kind: EventPrinted, Value: value}
}

// PrintedChar returns a character output event.
func PrintedChar(value uint8) Event {
	return Event{Kind: EventPrintedChar, Value: value}
}

// Int returns the event value as an integer.
func (ev Event) Int() int {
	return int(ev.Value)
}

// Rune returns the event value as a character.
func (ev Event) Rune() rune {
	return rune(ev.Value)
}

func (ev Event) String() string {
	switch ev.Kind {
	case EventPrinted:
		return fmt.Sprintf("Printed(%d)", ev.Value)
	case EventPrintedChar:
		return fmt.Sprintf("PrintedChar(%q)", ev.Rune())
	}

	return fmt.Sprintf("Event(%d, %d)", ev.Kind, ev.Value)
}
