package rgbds

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func testProject(ldLong bool) *Project {
	return &Project{
		ROMName: "game.gb",
		AppName: "gbgodisasm",
		LdLong:  ldLong,
		Banks: [][]string{
			{`SECTION "ROM Bank $000", ROM0[$0]`, "", "    nop"},
			{`SECTION "ROM Bank $001", ROMX[$4000], BANK[$1]`, "", "    nop"},
		},
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()

	data, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err)
	return string(data)
}

func TestProjectWrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.NoError(t, testProject(true).Write(dir))

	bank0 := readFile(t, dir, "bank_000.asm")
	assert.True(t, strings.HasPrefix(bank0, "; Disassembly of \"game.gb\"\n; This file was created with gbgodisasm\n\n"))
	assert.True(t, strings.Contains(bank0, `SECTION "ROM Bank $000", ROM0[$0]`))

	bank1 := readFile(t, dir, "bank_001.asm")
	assert.True(t, strings.Contains(bank1, "BANK[$1]"))

	gameASM := readFile(t, dir, "game.asm")
	assert.True(t, strings.Contains(gameASM, "ld_long: MACRO"))
	assert.True(t, strings.Contains(gameASM, `INCLUDE "hardware.inc"`))
	assert.True(t, strings.Contains(gameASM, `INCLUDE "bank_000.asm"`))
	assert.True(t, strings.Contains(gameASM, `INCLUDE "bank_001.asm"`))

	hardwareInc := readFile(t, dir, "hardware.inc")
	assert.True(t, strings.Contains(hardwareInc, "EQU $ff40"))
	assert.True(t, strings.Contains(hardwareInc, "rLCDC"))

	makefile := readFile(t, dir, "Makefile")
	assert.True(t, strings.Contains(makefile, "all: game.gb"))
	assert.True(t, strings.Contains(makefile, "rgbasm -o game.o game.asm"))
	assert.True(t, strings.Contains(makefile, "rgblink -n game.sym"))
	assert.True(t, strings.Contains(makefile, "rgbfix -v -p 255"))
}

func TestProjectWriteWithoutLdLong(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	assert.NoError(t, testProject(false).Write(dir))

	gameASM := readFile(t, dir, "game.asm")
	assert.False(t, strings.Contains(gameASM, "ld_long"))
}

func TestProjectRomExtension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gb", (&Project{}).RomExtension())
	assert.Equal(t, "gbc", (&Project{CGB: true}).RomExtension())
}
