// Package fileprocessor handles the ROM loading and processing workflow.
package fileprocessor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/retroenv/gbgodisasm/internal/disasm"
	"github.com/retroenv/gbgodisasm/internal/options"
	"github.com/retroenv/gbgodisasm/internal/rgbds"
	"github.com/retroenv/gbgodisasm/internal/rom"
	"github.com/retroenv/gbgodisasm/internal/sym"
	"github.com/retroenv/gbgodisasm/internal/verification"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/retroenv/retrogolib/log"
)

const appName = "gbgodisasm"

// ProcessFile handles the complete file processing workflow: load the ROM,
// build the symbol tables, run both disassembly passes over every bank and
// generate the output project.
func ProcessFile(ctx context.Context, logger *log.Logger, opts options.Program,
	disasmOptions options.Disassembler) error {

	image, err := rom.LoadFile(opts.Input)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	logger.Info("ROM loaded",
		log.String("md5", image.MD5()),
		log.Int("banks", image.NumBanks))

	symbols, err := loadSymbols(logger, opts, image)
	if err != nil {
		return err
	}

	outputDir, err := prepareOutputDir(opts)
	if err != nil {
		return err
	}

	banks := createBanks(logger, image, symbols, disasmOptions)

	project := &rgbds.Project{
		ROMName: filepath.Base(opts.Input),
		AppName: appName,
		CGB:     image.SupportsCGB(),
	}

	if err := disassembleBanks(banks, project); err != nil {
		return fmt.Errorf("disassembling: %w", err)
	}

	if err := project.Write(outputDir); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	logger.Info("Disassembly generated", log.String("directory", outputDir))

	if opts.AssembleTest {
		if err := verification.VerifyOutput(ctx, logger, outputDir, project, image); err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		logger.Info("Verification successful")
	}
	return nil
}

// loadSymbols builds the explicit symbol set from the architecture defaults
// and the symbol file, if one exists. The returned set is complete and must
// not be modified once bank processing starts.
func loadSymbols(logger *log.Logger, opts options.Program, image *rom.ROM) (*sym.Symbols, error) {
	symbols := sym.New(logger, image.NumBanks, image.SupportsCGB())

	if opts.SymFile != "" {
		if _, err := os.Stat(opts.SymFile); err == nil {
			logger.Info("Processing symbol file", log.String("file", opts.SymFile))
			if err := symbols.ReadFile(opts.SymFile); err != nil {
				return nil, fmt.Errorf("loading symbols: %w", err)
			}
		}
	}
	return symbols, nil
}

func createBanks(logger *log.Logger, image *rom.ROM, symbols *sym.Symbols,
	disasmOptions options.Disassembler) []*disasm.Bank {

	banks := make([]*disasm.Bank, image.NumBanks)
	for number := range banks {
		banks[number] = disasm.NewBank(logger, image, number, symbols.Labels, disasmOptions)
	}

	for _, hint := range symbols.Hints {
		if hint.Bank < 0 || hint.Bank >= len(banks) {
			continue
		}
		banks[hint.Bank].AddRegion(hint.Address, hint.Kind, hint.Length)
	}
	return banks
}

// disassembleBanks runs the discovery pass over every bank before any bank
// is emitted, then collects the emitted lines into the project.
func disassembleBanks(banks []*disasm.Bank, project *rgbds.Project) error {
	for _, bank := range banks {
		if err := bank.Discover(); err != nil {
			return err
		}
	}

	for _, bank := range banks {
		lines, err := bank.Emit()
		if err != nil {
			return err
		}
		project.Banks = append(project.Banks, lines)
		if bank.UsedLdLong() {
			project.LdLong = true
		}
	}
	return nil
}

func prepareOutputDir(opts options.Program) (string, error) {
	dir, err := filepath.Abs(opts.OutputDir)
	if err != nil {
		return "", fmt.Errorf("resolving output directory: %w", err)
	}

	info, err := os.Stat(dir)
	switch {
	case err == nil:
		if !info.IsDir() {
			return "", fmt.Errorf("output path %s already exists and is not a directory", dir)
		}
		if !opts.Overwrite {
			return "", fmt.Errorf("output directory %s already exists", dir)
		}
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("creating output directory: %w", err)
		}
	default:
		return "", fmt.Errorf("checking output directory: %w", err)
	}
	return dir, nil
}

// PrintBanner prints application version information
func PrintBanner(logger *log.Logger, opts options.Program, version, commit, date string) {
	if opts.Quiet {
		return
	}
	logger.Info(appName,
		log.String("version", buildinfo.Version(version, commit, date)))
}
