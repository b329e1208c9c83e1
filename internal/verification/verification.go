// Package verification verifies that the generated output recreates the input.
package verification

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/retroenv/gbgodisasm/internal/rgbds"
	"github.com/retroenv/gbgodisasm/internal/rom"
	"github.com/retroenv/retrogolib/log"
)

// VerifyOutput assembles the generated project with the RGBDS toolchain and
// compares the rebuilt ROM byte for byte with the input image.
func VerifyOutput(ctx context.Context, logger *log.Logger, projectDir string,
	project *rgbds.Project, image *rom.ROM) error {

	tools := []string{"rgbasm", "rgblink", "rgbfix"}
	for i, tool := range tools {
		if runtime.GOOS == "windows" {
			tools[i] += ".exe"
		}
		if _, err := exec.LookPath(tools[i]); err != nil {
			return fmt.Errorf("%s is not installed", tool)
		}
	}

	romFile := "game." + project.RomExtension()

	commands := [][]string{
		{tools[0], "-o", "game.o", "game.asm"},
		{tools[1], "-n", "game.sym", "-o", romFile, "game.o"},
		{tools[2], "-v", "-p", "255", romFile},
	}
	for _, command := range commands {
		cmd := exec.CommandContext(ctx, command[0], command[1:]...)
		cmd.Dir = projectDir
		if out, err := cmd.CombinedOutput(); err != nil {
			return fmt.Errorf("running %s: %s: %w", command[0], strings.TrimSpace(string(out)), err)
		}
	}

	rebuilt, err := os.ReadFile(filepath.Join(projectDir, romFile))
	if err != nil {
		return fmt.Errorf("reading rebuilt ROM: %w", err)
	}

	return checkBufferEqual(logger, image.Data[:image.Size], rebuilt)
}

func checkBufferEqual(logger *log.Logger, input, output []byte) error {
	if len(input) != len(output) {
		return fmt.Errorf("mismatched lengths, %d != %d", len(input), len(output))
	}

	var diffs uint64
	for i := range input {
		if input[i] == output[i] {
			continue
		}

		diffs++
		if diffs < 10 {
			logger.Error("Offset mismatch",
				log.Hex("offset", i),
				log.Hex("expected", input[i]),
				log.Hex("got", output[i]))
		}
	}
	if diffs == 0 {
		return nil
	}
	return fmt.Errorf("%d offset mismatches", diffs)
}
