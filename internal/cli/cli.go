// Package cli handles command line interface logic
package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retroenv/gbgodisasm/internal/options"
	"github.com/retroenv/retrogolib/log"
)

// CreateLogger creates a logger with the verbosity the program options ask
// for. Debug wins over quiet.
func CreateLogger(opts options.Program) *log.Logger {
	cfg := log.DefaultConfig()
	if opts.Debug {
		cfg.Level = log.DebugLevel
	} else if opts.Quiet {
		cfg.Level = log.ErrorLevel
	}
	return log.NewWithConfig(cfg)
}

// ParseFlags parses command line flags and returns program and disassembler options
func ParseFlags() (options.Program, options.Disassembler, error) {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	var opts options.Program
	disasmOptions := options.NewDisassembler()
	readOptionFlags(flags, &opts, &disasmOptions)

	err := flags.Parse(os.Args[1:])
	args := flags.Args()
	if err != nil || len(args) == 0 {
		return opts, disasmOptions, &UsageError{flags: flags}
	}

	if err := validateArgs(args); err != nil {
		return opts, disasmOptions, err
	}

	opts.Input = args[0]
	if opts.SymFile == "" {
		opts.SymFile = defaultSymFile(opts.Input)
	}

	return opts, disasmOptions, nil
}

// UsageError represents an error that should show usage information
type UsageError struct {
	flags *flag.FlagSet
	msg   string
}

func (e *UsageError) Error() string {
	return e.msg
}

func (e *UsageError) ShowUsage() {
	fmt.Printf("usage: gbgodisasm [options] <rom file to disassemble>\n\n")
	e.flags.PrintDefaults()
	fmt.Println()
}

// validateArgs checks if arguments are in correct order
func validateArgs(args []string) error {
	for i, arg := range args {
		if i > 0 && strings.HasPrefix(arg, "-") {
			return &UsageError{
				msg: fmt.Sprintf("Potential argument %s found after file to disassemble, please pass the file to disassemble as last argument", arg),
			}
		}
	}
	return nil
}

// defaultSymFile returns the symbol file path derived from the ROM path.
func defaultSymFile(romFile string) string {
	ext := filepath.Ext(romFile)
	return romFile[:len(romFile)-len(ext)] + ".sym"
}

func readOptionFlags(flags *flag.FlagSet, opts *options.Program, disasmOptions *options.Disassembler) {
	flags.StringVar(&opts.OutputDir, "o", "disassembly", "directory to generate the disassembly into")
	flags.StringVar(&opts.SymFile, "sym", "", "name of the symbol file to load (default: ROM file with .sym extension)")
	flags.BoolVar(&opts.Overwrite, "overwrite", false, "allow generating a disassembly into an already existing directory")
	flags.BoolVar(&opts.AssembleTest, "verify", false, "verify the generated output by assembling with rgbasm and check if it matches the input")
	flags.BoolVar(&opts.Debug, "debug", false, "enable debugging options for extended logging")
	flags.BoolVar(&opts.Quiet, "q", false, "perform operations quietly")
	flags.BoolVar(&disasmOptions.HexComments, "hexcomments", false, "output the memory address and instruction bytes as hex values in comments")
}
