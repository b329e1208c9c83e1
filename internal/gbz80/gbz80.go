// Package gbz80 provides the Game Boy CPU instruction and register tables.
//
// The tables describe the Sharp SM83 core used in all Game Boy models: 256
// primary opcodes with 11 unassigned holes and 256 opcodes behind the 0xCB
// prefix. Instruction behavior is irrelevant for disassembly, so an opcode
// carries only its mnemonic and operand descriptors.
package gbz80

import "strings"

const (
	// PrefixOpcode selects the extended instruction table and consumes
	// one extra byte.
	PrefixOpcode = 0xcb

	// StoreAbsoluteOpcode and LoadAbsoluteOpcode are the two absolute
	// addressing forms that rgbasm silently optimizes into the shorter
	// high-page encoding when the address is in 0xff00-0xffff. They need
	// the ld_long macro workaround to reproduce the original bytes.
	StoreAbsoluteOpcode = 0xea
	LoadAbsoluteOpcode  = 0xfa

	// HighPageStart is the start of the I/O register page.
	HighPageStart = 0xff00
)

// OperandKind classifies how an operand is encoded in the instruction
// stream and how it renders in RGBDS syntax.
type OperandKind uint8

const (
	// Literal is a fixed operand text like a register or condition name.
	Literal OperandKind = iota
	// A16 is a 16 bit address.
	A16
	// A16Ind is a 16 bit address used as a memory reference.
	A16Ind
	// HighA8Ind is an 8 bit offset into the high I/O page, used as a
	// memory reference.
	HighA8Ind
	// D8 is an 8 bit immediate.
	D8
	// D16 is a 16 bit immediate.
	D16
	// R8 is a signed 8 bit value.
	R8
	// PCR8 is a signed 8 bit displacement relative to the address of the
	// following instruction.
	PCR8
	// SPR8 is a signed 8 bit offset relative to the stack pointer.
	SPR8
)

// Size returns the number of instruction bytes the operand occupies.
func (k OperandKind) Size() int {
	switch k {
	case A16, A16Ind, D16:
		return 2
	case HighA8Ind, D8, R8, PCR8, SPR8:
		return 1
	default:
		return 0
	}
}

// Operand describes one operand of an instruction. Text is only set for
// literal operands.
type Operand struct {
	Kind OperandKind
	Text string
}

// Opcode describes one instruction form of the CPU.
type Opcode struct {
	Name     string
	Operands []Operand
}

// Valid returns whether the opcode is assigned in the instruction set.
func (o Opcode) Valid() bool {
	return o.Name != ""
}

// operand value tags used by the instruction tables.
var operandKinds = map[string]OperandKind{
	"a16":        A16,
	"[a16]":      A16Ind,
	"[$ff00+a8]": HighA8Ind,
	"d8":         D8,
	"d16":        D16,
	"r8":         R8,
	"pc+r8":      PCR8,
	"sp+r8":      SPR8,
}

// parseOpcode splits a table entry like "ld [a16],sp" into the mnemonic
// and its operand descriptors. Tags not describing an encoded value are
// literal operand texts.
func parseOpcode(entry string) Opcode {
	if entry == "" {
		return Opcode{}
	}

	name, rest, _ := strings.Cut(entry, " ")
	op := Opcode{Name: name}

	if rest == "" {
		return op
	}
	for _, tag := range strings.Split(rest, ",") {
		kind, ok := operandKinds[tag]
		if !ok {
			op.Operands = append(op.Operands, Operand{Kind: Literal, Text: tag})
			continue
		}
		op.Operands = append(op.Operands, Operand{Kind: kind})
	}
	return op
}

func parseTable(entries [256]string) [256]Opcode {
	var table [256]Opcode
	for b, entry := range entries {
		table[b] = parseOpcode(entry)
	}
	return table
}

// Opcodes maps every assigned primary opcode byte to its instruction
// form. Unassigned opcodes have an invalid entry; 0xcb is handled through
// PrefixOpcode and CBOpcodes.
var Opcodes = parseTable(primaryInstructions)

// CBOpcodes maps every opcode byte following the 0xcb prefix to its
// instruction form. The extended table has no holes.
var CBOpcodes = parseTable(cbInstructions)
