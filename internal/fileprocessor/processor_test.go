package fileprocessor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/gbgodisasm/internal/options"
	"github.com/retroenv/gbgodisasm/internal/rom"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func writeTestROM(t *testing.T, dir string) string {
	t.Helper()

	data := make([]byte, rom.BankSize)
	// boot entry: nop, jp $0150 and an infinite loop at the target
	copy(data[0x0100:], []byte{0x00, 0xc3, 0x50, 0x01})
	copy(data[0x0150:], []byte{0x18, 0xfe})

	path := filepath.Join(dir, "game.gb")
	assert.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestProcessFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outputDir := filepath.Join(dir, "disassembly")

	opts := options.Program{
		Input:     writeTestROM(t, dir),
		OutputDir: outputDir,
	}

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.NewDisassembler())
	assert.NoError(t, err)

	for _, name := range []string{"bank_000.asm", "game.asm", "hardware.inc", "Makefile"} {
		_, err := os.Stat(filepath.Join(outputDir, name))
		assert.NoError(t, err)
	}

	data, err := os.ReadFile(filepath.Join(outputDir, "bank_000.asm"))
	assert.NoError(t, err)
	content := string(data)

	assert.True(t, strings.Contains(content, `SECTION "ROM Bank $000", ROM0[$0]`))
	// default symbols label the boot entry point
	assert.True(t, strings.Contains(content, "Boot::"))
	assert.True(t, strings.Contains(content, "    jp Jump_000_0150"))
}

func TestProcessFileExistingOutputDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	outputDir := filepath.Join(dir, "out")
	assert.NoError(t, os.Mkdir(outputDir, 0o755))

	opts := options.Program{
		Input:     writeTestROM(t, dir),
		OutputDir: outputDir,
	}
	logger := log.NewTestLogger(t)

	err := ProcessFile(context.Background(), logger, opts, options.NewDisassembler())
	assert.Error(t, err)

	opts.Overwrite = true
	assert.NoError(t, ProcessFile(context.Background(), logger, opts, options.NewDisassembler()))
}

func TestProcessFileWithSymbols(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	romPath := writeTestROM(t, dir)

	symPath := filepath.Join(dir, "game.sym")
	assert.NoError(t, os.WriteFile(symPath, []byte("00:0150 MainLoop\n"), 0o644))

	opts := options.Program{
		Input:     romPath,
		OutputDir: filepath.Join(dir, "disassembly"),
		SymFile:   symPath,
	}

	err := ProcessFile(context.Background(), log.NewTestLogger(t), opts, options.NewDisassembler())
	assert.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(opts.OutputDir, "bank_000.asm"))
	assert.NoError(t, err)
	content := string(data)

	assert.True(t, strings.Contains(content, "MainLoop::"))
	assert.True(t, strings.Contains(content, "    jp MainLoop"))
}

func TestGenerateBanner(t *testing.T) {
	t.Parallel()

	// quiet mode suppresses the banner
	PrintBanner(log.NewTestLogger(t), options.Program{Quiet: true}, "dev", "", "")
	PrintBanner(log.NewTestLogger(t), options.Program{}, "1.0.0", "0123456789abcdef", "2026-08-29")
}
