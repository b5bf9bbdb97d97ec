// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Assembler is a two pass assembler for the LS-8 system.
//
// Each line holds at most one statement:
//
//	label:                ; defines label as the current address
//	MNEMONIC operand...   ; an instruction
//	.equ NAME VALUE       ; defines an equate
//	.byte VALUE...        ; raw data
//	.org ADDRESS          ; moves the current address forward
//
// Operands are registers (r0-r7), numbers (decimal, 0x, 0b, 0o),
// characters ('c'), labels, equates, or $(expr) expressions, which
// are evaluated with all labels and equates predefined.
type Assembler struct {
	Verbose bool         // If set, verbosely logs the assembler actions.
	Logger  *slog.Logger // Logger for verbose output, slog.Default() if nil.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of labels to addresses.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

func (asm *Assembler) logger() *slog.Logger {
	if asm.Logger != nil {
		return asm.Logger
	}
	return slog.Default()
}

// register returns the register index of a word, which may be a register
// name, or a value from 0 to 7.
func (asm *Assembler) register(word string) (index uint8, err error) {
	lower := strings.ToLower(word)
	if len(lower) >= 2 && lower[0] == 'r' {
		if n, perr := strconv.ParseUint(lower[1:], 10, 8); perr == nil {
			if n > REGISTER_MASK {
				err = ErrRegisterInvalid
				return
			}
			index = uint8(n)
			return
		}
	}

	value, err := asm.valueOf(word, 0)
	if err != nil {
		return
	}

	if value < 0 || value > REGISTER_MASK {
		err = ErrRegisterInvalid
		return
	}

	index = uint8(value)
	return
}

// byteOf returns the value of a word, which must fit in a byte.
// Negative values are stored as two's complement.
func (asm *Assembler) byteOf(word string) (value uint8, err error) {
	v, err := asm.valueOf(word, 0)
	if err != nil {
		return
	}

	if v < -128 || v > 0xff {
		err = ErrOperandRange
		return
	}

	value = uint8(v)
	return
}

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string, depth int) (value int, err error) {
	if depth > 16 {
		err = ErrParseNumber(word)
		return
	}

	switch {
	case strings.HasPrefix(word, "$(") && strings.HasSuffix(word, ")"):
		return asm.parenEval(word[2 : len(word)-1])
	case len(word) >= 3 && word[0] == '\'' && word[len(word)-1] == '\'':
		return asm.charOf(word)
	}

	if addr, ok := asm.Label[word]; ok {
		value = addr
		return
	}

	if equ, ok := asm.Equate[word]; ok {
		return asm.valueOf(equ, depth+1)
	}

	v64, perr := strconv.ParseInt(word, 0, 16)
	if perr != nil {
		if isIdent(word) {
			err = ErrLabelMissing(word)
		} else {
			err = ErrParseNumber(word)
		}
		return
	}

	value = int(v64)
	return
}

func isIdent(word string) bool {
	for n, ch := range word {
		switch {
		case ch == '_', ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z':
		case n > 0 && ch >= '0' && ch <= '9':
		default:
			return false
		}
	}
	return len(word) > 0
}

// charOf returns the value of a quoted character, with a few escapes.
func (asm *Assembler) charOf(word string) (value int, err error) {
	str := word[1 : len(word)-1]
	if str[0] == '\\' {
		switch str[1:] {
		case "\\":
			str = "\\"
		case "n":
			str = "\n"
		case "r":
			str = "\r"
		case "t":
			str = "\t"
		case "e":
			str = "\033"
		case "'":
			str = "'"
		}
	}

	if len(str) != 1 {
		err = ErrParseNumber(word)
		return
	}

	value = int(str[0])
	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int, err error) {
	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		if strings.Contains(str, "$(") {
			// Nested expressions are not predeclared.
			continue
		}
		var equ int
		equ, err = asm.valueOf(str, 1)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt(equ)
	}
	for key, addr := range asm.Label {
		pred[key] = starlark.MakeInt(addr)
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int64, ok := st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value = int(st_int64)
	return
}

// splitWords splits a line on whitespace, keeping $(...) expressions
// and quoted characters as single words.
func splitWords(line string) (words []string) {
	var word strings.Builder
	depth := 0
	quoted := false

	flush := func() {
		if word.Len() > 0 {
			words = append(words, word.String())
			word.Reset()
		}
	}

	for n := 0; n < len(line); n++ {
		ch := line[n]
		switch {
		case quoted:
			word.WriteByte(ch)
			if ch == '\\' && n+1 < len(line) {
				n++
				word.WriteByte(line[n])
			} else if ch == '\'' {
				quoted = false
			}
		case ch == '\'' && depth == 0:
			quoted = true
			word.WriteByte(ch)
		case ch == '(':
			depth++
			word.WriteByte(ch)
		case ch == ')':
			depth--
			word.WriteByte(ch)
		case (ch == ' ' || ch == '\t' || ch == ',') && depth == 0:
			flush()
		default:
			word.WriteByte(ch)
		}
	}
	flush()

	return
}

// stripComment removes a trailing ';' comment, ignoring quoted ';'.
func stripComment(line string) string {
	quoted := false
	for n := 0; n < len(line); n++ {
		switch line[n] {
		case '\\':
			if quoted {
				n++
			}
		case '\'':
			quoted = !quoted
		case ';':
			if !quoted {
				return line[:n]
			}
		}
	}
	return line
}

// parseLine parses a single line, returning the words of the statement,
// after any label has been defined.
func (asm *Assembler) parseLine(line string, ip int) (words []string, err error) {
	words = splitWords(strings.TrimSpace(stripComment(line)))

	if len(words) > 0 && strings.HasSuffix(words[0], ":") {
		label := strings.TrimSuffix(words[0], ":")
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}
		asm.Label[label] = ip
		if asm.Verbose {
			asm.logger().Debug("asm: label", "label", label, "ip", ip)
		}
		words = words[1:]
	}

	if len(words) == 0 {
		return
	}

	// .equ CONST VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = nil
	}

	return
}

// width returns the encoded size of a statement, during the first pass.
func (asm *Assembler) width(words []string, ip int) (width int, err error) {
	switch words[0] {
	case ".byte":
		width = len(words) - 1
	case ".org":
		if len(words) != 2 {
			err = ErrOrgSyntax
			return
		}
		var org int
		org, err = asm.valueOf(words[1], 0)
		if err != nil {
			return
		}
		if org < ip {
			err = ErrOrgBackwards
			return
		}
		width = org - ip
	default:
		op, ok := ParseOpcode(words[0])
		if !ok {
			err = ErrMnemonicUnknown
			return
		}
		if len(words)-1 != op.Operands() {
			err = ErrOperandCount
			return
		}
		width = op.Width()
	}

	return
}

// encode generates the bytes of a statement, during the second pass.
func (asm *Assembler) encode(words []string, width int) (data []uint8, err error) {
	switch words[0] {
	case ".byte":
		for _, word := range words[1:] {
			var value uint8
			value, err = asm.byteOf(word)
			if err != nil {
				return
			}
			data = append(data, value)
		}
		return
	case ".org":
		data = make([]uint8, width)
		return
	}

	op, _ := ParseOpcode(words[0])
	inst := Instruction{Op: op}

	switch op {
	case OP_SET:
		inst.A, err = asm.register(words[1])
	case OP_SAVE:
		inst.A, err = asm.byteOf(words[1])
	case OP_MUL, OP_ADD, OP_SUB, OP_DIV:
		inst.A, err = asm.register(words[1])
		if err == nil {
			inst.B, err = asm.register(words[2])
		}
	}
	if err != nil {
		return
	}

	data = inst.Bytes()
	return
}

// Parse assembles a program from its source text.
func (asm *Assembler) Parse(in io.Reader) (prog *Program, err error) {
	asm.Label = map[string]int{}
	asm.Equate = map[string]string{}
	for key, value := range _cpu_defines {
		asm.Equate[key] = value
	}
	for key, value := range asm.predefine {
		asm.Equate[key] = value
	}

	prog = &Program{}

	// Pass one: labels, equates and addresses.
	ip := 0
	scanner := bufio.NewScanner(in)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		var words []string
		words, err = asm.parseLine(line, ip)
		if err == nil && len(words) > 0 {
			var width int
			width, err = asm.width(words, ip)
			if err == nil {
				prog.Statements = append(prog.Statements, Statement{
					LineNo: lineno,
					Ip:     ip,
					Words:  words,
					Width:  width,
				})
				ip += width
			}
		}
		if err == nil && ip > MEMORY_SIZE {
			err = ErrProgramTooLarge
		}
		if err != nil {
			err = ErrSyntax{LineNo: lineno, Line: line, Err: err}
			return
		}
	}
	err = scanner.Err()
	if err != nil {
		return
	}

	// Pass two: encoding.
	for n := range prog.Statements {
		op := &prog.Statements[n]
		op.Bytes, err = asm.encode(op.Words, op.Width)
		if err != nil {
			err = ErrSyntax{LineNo: op.LineNo, Line: strings.Join(op.Words, " "), Err: err}
			return
		}
		if asm.Verbose {
			asm.logger().Debug("asm: encode", "ip", op.Ip, "words", op.Words, "bytes", op.Bytes)
		}
	}

	return
}
