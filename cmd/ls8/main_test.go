package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const multRom = `# mult.ls8
00000010 # SET register
00000000 # R0
00000100 # SAVE next
00001000 # 8
00000010 # SET register
00000001 # R1
00000100 # SAVE next
00001001 # 9
00000101 # MUL R0,R1
00000000
00000001
00000110 # PRN
00000000 # HALT
`

const helloAsm = `; prints a single character
	SET r0
	SAVE 'H'
	PRA
	HALT
`

func writeFile(t *testing.T, name string, text string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func runArgs(args ...string) (code int, stdout string, stderr string) {
	var out, errs bytes.Buffer
	code = run(args, &out, &errs)
	return code, out.String(), errs.String()
}

func TestRunRom(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runArgs(writeFile(t, "mult.ls8", multRom))
	assert.Equal(EXIT_OK, code)
	assert.Equal("72\n", stdout)
}

func TestRunAssemble(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runArgs("-a", writeFile(t, "hello.asm", helloAsm))
	assert.Equal(EXIT_OK, code)
	assert.Equal("H", stdout)
}

func TestRunListing(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runArgs("-a", "-l", writeFile(t, "hello.asm", helloAsm))
	assert.Equal(EXIT_OK, code)
	assert.Contains(stdout, "00000010 # 00: SET r0\n")
	assert.Contains(stdout, "01001000\n")
	assert.Contains(stdout, "00000000 # 05: HALT\n")
}

func TestRunClocked(t *testing.T) {
	assert := assert.New(t)

	code, stdout, _ := runArgs("-i", "1ms", writeFile(t, "mult.ls8", multRom))
	assert.Equal(EXIT_OK, code)
	assert.Equal("72\n", stdout)
}

func TestRunDump(t *testing.T) {
	assert := assert.New(t)

	code, _, stderr := runArgs("-dump", writeFile(t, "mult.ls8", multRom))
	assert.Equal(EXIT_OK, code)
	assert.Contains(stderr, "sel: r1")
}

func TestRunConfig(t *testing.T) {
	assert := assert.New(t)

	config := writeFile(t, "ls8.toml", "budget = 2\n")
	code, stdout, _ := runArgs("-c", config, writeFile(t, "mult.ls8", multRom))
	assert.Equal(EXIT_FAULT, code)
	assert.Equal("", stdout)

	// Flags override the configuration file.
	code, stdout, _ = runArgs("-c", config, "-n", "0", writeFile(t, "mult.ls8", multRom))
	assert.Equal(EXIT_OK, code)
	assert.Equal("72\n", stdout)
}

func TestRunErrors(t *testing.T) {
	assert := assert.New(t)

	rom := writeFile(t, "mult.ls8", multRom)
	loop := writeFile(t, "loop.asm", "SET r1\nSAVE loop\nloop:\nCALL\n")

	table := [](struct {
		name string
		args []string
		code int
	}){
		{"no-input", []string{}, EXIT_USAGE},
		{"two-inputs", []string{rom, rom}, EXIT_USAGE},
		{"bad-flag", []string{"-bogus", rom}, EXIT_USAGE},
		{"bad-level", []string{"-log-level", "loud", rom}, EXIT_USAGE},
		{"bad-config", []string{"-c", writeFile(t, "bad.toml", "speed = 1\n"), rom}, EXIT_USAGE},
		{"listing-rom", []string{"-l", rom}, EXIT_USAGE},
		{"missing", []string{filepath.Join(t.TempDir(), "missing.ls8")}, EXIT_FAULT},
		{"bad-rom", []string{writeFile(t, "bad.ls8", "00000002\n")}, EXIT_FAULT},
		{"bad-asm", []string{"-a", writeFile(t, "bad.asm", "JUMP r0\n")}, EXIT_FAULT},
		{"fault", []string{writeFile(t, "fault.ls8", "11111111\n")}, EXIT_FAULT},
		{"budget", []string{"-a", "-n", "5", loop}, EXIT_FAULT},
		{"budget-clocked", []string{"-a", "-i", "1ms", "-n", "5", loop}, EXIT_FAULT},
	}

	for _, entry := range table {
		code, _, _ := runArgs(entry.args...)
		assert.Equal(entry.code, code, entry.name)
	}
}
