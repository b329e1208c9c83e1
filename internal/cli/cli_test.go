package cli

import (
	"errors"
	"os"
	"testing"

	"github.com/retroenv/gbgodisasm/internal/options"
	"github.com/retroenv/retrogolib/assert"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantInput string
		wantDir   string
		wantSym   string
	}{
		{
			name:      "defaults",
			args:      []string{"prog", "game.gb"},
			wantInput: "game.gb",
			wantDir:   "disassembly",
			wantSym:   "game.sym",
		},
		{
			name:      "output dir and symbol file",
			args:      []string{"prog", "-o", "out", "-sym", "labels.sym", "game.gbc"},
			wantInput: "game.gbc",
			wantDir:   "out",
			wantSym:   "labels.sym",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			t.Cleanup(func() { os.Args = oldArgs })

			os.Args = tt.args

			opts, _, err := ParseFlags()
			assert.NoError(t, err)
			assert.Equal(t, tt.wantInput, opts.Input)
			assert.Equal(t, tt.wantDir, opts.OutputDir)
			assert.Equal(t, tt.wantSym, opts.SymFile)
		})
	}
}

func TestParseFlagsBoolOptions(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "-overwrite", "-verify", "-hexcomments", "game.gb"}

	opts, disasmOptions, err := ParseFlags()
	assert.NoError(t, err)
	assert.True(t, opts.Overwrite)
	assert.True(t, opts.AssembleTest)
	assert.True(t, disasmOptions.HexComments)
}

func TestParseFlagsMissingFile(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog"}

	_, _, err := ParseFlags()
	var usageErr *UsageError
	assert.True(t, errors.As(err, &usageErr))
}

func TestParseFlagsArgumentAfterFile(t *testing.T) {
	oldArgs := os.Args
	t.Cleanup(func() { os.Args = oldArgs })

	os.Args = []string{"prog", "game.gb", "-debug"}

	_, _, err := ParseFlags()
	assert.Error(t, err)
}

func TestCreateLogger(t *testing.T) {
	tests := []struct {
		name string
		opts options.Program
	}{
		{name: "default"},
		{name: "debug", opts: options.Program{Debug: true}},
		{name: "quiet", opts: options.Program{Quiet: true}},
		{name: "debug wins over quiet", opts: options.Program{Debug: true, Quiet: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := CreateLogger(tt.opts)
			assert.NotNil(t, logger)
		})
	}
}
