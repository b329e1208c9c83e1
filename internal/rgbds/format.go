// Package rgbds produces RGBDS compatible assembly syntax and output files.
package rgbds

import (
	"fmt"
	"strings"
)

// DataDirective is the directive emitted for literal byte values.
const DataDirective = "DB"

// HexByte formats a byte value in RGBDS literal syntax.
func HexByte(value byte) string {
	return fmt.Sprintf("$%02x", value)
}

// HexWord formats a 16 bit value in RGBDS literal syntax.
func HexWord(value uint16) string {
	return fmt.Sprintf("$%04x", value)
}

// Signed formats a signed byte value as a literal.
func Signed(value int) string {
	if value < 0 {
		return fmt.Sprintf("-$%02x", -value)
	}
	return fmt.Sprintf("$%02x", value)
}

// Relative formats a displacement relative to the current instruction
// address.
func Relative(value int) string {
	if value < 0 {
		return fmt.Sprintf("@-$%02x", -value)
	}
	return fmt.Sprintf("@+$%02x", value)
}

// SPOffset formats a signed offset relative to the stack pointer.
func SPOffset(value int) string {
	if value < 0 {
		return fmt.Sprintf("sp-$%02x", -value)
	}
	return fmt.Sprintf("sp+$%02x", value)
}

// Instruction formats an instruction line with its operands.
func Instruction(name string, operands []string) string {
	if len(operands) == 0 {
		return "    " + name
	}
	return "    " + name + " " + strings.Join(operands, ", ")
}

// Data formats a line of literal data values.
func Data(values []string) string {
	return Instruction(DataDirective, values)
}

// SectionHeader formats the section header starting a bank's output.
func SectionHeader(bank int) string {
	if bank == 0 {
		return fmt.Sprintf("SECTION \"ROM Bank $%03x\", ROM0[$0]", bank)
	}
	return fmt.Sprintf("SECTION \"ROM Bank $%03x\", ROMX[$4000], BANK[$%x]", bank, bank)
}

// QuoteText wraps a printable byte run in an RGBDS string literal, escaping
// the quote and backslash characters.
func QuoteText(text string) string {
	var builder strings.Builder
	builder.WriteByte('"')
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"', '\\':
			builder.WriteByte('\\')
		}
		builder.WriteByte(text[i])
	}
	builder.WriteByte('"')
	return builder.String()
}
