// Package options contains the program options.
package options

// Program options of the disassembler.
type Program struct {
	Input     string // ROM file to disassemble
	OutputDir string // directory to generate the project into
	SymFile   string // symbol file, defaults to the ROM path with .sym extension

	Overwrite    bool // allow writing into an existing output directory
	AssembleTest bool // verify the output by reassembling it
	Debug        bool
	Quiet        bool
}

// Disassembler defines options to control the disassembler.
type Disassembler struct {
	// HexComments appends the memory address and instruction bytes as a
	// comment to every code line.
	HexComments bool
}

// NewDisassembler returns a new options instance with default options.
func NewDisassembler() Disassembler {
	return Disassembler{}
}
