package disasm

import (
	"fmt"
	"strings"

	"github.com/retroenv/gbgodisasm/internal/gbz80"
	"github.com/retroenv/gbgodisasm/internal/label"
	"github.com/retroenv/gbgodisasm/internal/rgbds"
	"github.com/retroenv/gbgodisasm/internal/rom"
)

// ldLongMacro is the macro that encodes an absolute load/store of a high
// page address as raw bytes, since rgbasm would otherwise re-encode the
// instruction into the shorter ldh form and change the output size.
const ldLongMacro = "ld_long"

// sharedRAMStart is the lowest address at which explicit labels substitute
// into any operand, independent of the instruction category.
const sharedRAMStart = 0xc000

// instruction is one decoded instruction, produced and consumed within a
// single decode step.
type instruction struct {
	name     string
	operands []string
	length   int
}

// decodeAt decodes the instruction at the ROM address pc. The end address
// bounds the current region; an instruction that would cross it decays to a
// data byte. With record set, branch targets are added to the registry,
// otherwise resolvable targets are replaced by their label names.
func (b *Bank) decodeAt(pc, end int, record bool) (instruction, error) {
	data := b.image.Data
	opcode := data[pc]
	ins := instruction{length: 1}

	var opc gbz80.Opcode
	if opcode == gbz80.PrefixOpcode {
		opc = gbz80.CBOpcodes[data[pc+1]]
		ins.length = 2
	} else {
		opc = gbz80.Opcodes[opcode]
		if !opc.Valid() {
			return instruction{}, fmt.Errorf("unhandled opcode $%02x at ROM address $%06x", opcode, pc)
		}
	}

	ins.name = opc.Name
	operands := opc.Operands

	if ins.name == "stop" || ins.name == "halt" {
		if data[pc+1] == 0x00 {
			// rgbasm emits a nop after stop and halt, consuming the
			// following zero byte keeps the byte count intact
			ins.length = 2
		} else {
			ins.name = rgbds.DataDirective
			ins.operands = []string{rgbds.HexByte(opcode)}
			operands = nil
		}
	}

operandLoop:
	for _, operand := range operands {
		var value int
		hasValue := true
		ins.length += operand.Kind.Size()

		switch operand.Kind {
		case gbz80.A16, gbz80.D16:
			value = int(data[pc+1]) | int(data[pc+2])<<8
			ins.operands = append(ins.operands, rgbds.HexWord(uint16(value)))

		case gbz80.A16Ind:
			value = int(data[pc+1]) | int(data[pc+2])<<8

			if value >= gbz80.HighPageStart &&
				(opcode == gbz80.StoreAbsoluteOpcode || opcode == gbz80.LoadAbsoluteOpcode) {
				b.usedLdLong = true
				ins.name = ldLongMacro
				// the macro takes the bare address, not a reference
				ins.operands = append(ins.operands, rgbds.HexWord(uint16(value)))
			} else {
				ins.operands = append(ins.operands, "["+rgbds.HexWord(uint16(value))+"]")
			}

		case gbz80.HighA8Ind:
			value = int(data[pc+1])
			full := uint16(gbz80.HighPageStart) + uint16(value)

			if name, ok := gbz80.Registers[full]; ok {
				ins.operands = append(ins.operands, "["+name+"]")
			} else {
				ins.operands = append(ins.operands, "[$ff00+"+rgbds.HexByte(data[pc+1])+"]")
			}

		case gbz80.D8:
			value = int(data[pc+1])
			ins.operands = append(ins.operands, rgbds.HexByte(data[pc+1]))

		case gbz80.R8:
			value = toSigned(data[pc+1])
			ins.operands = append(ins.operands, rgbds.Signed(value))

		case gbz80.SPR8:
			value = toSigned(data[pc+1])
			ins.operands = append(ins.operands, rgbds.SPOffset(value))

		case gbz80.PCR8:
			target := pc + 2 + toSigned(data[pc+1])
			ins.operands = append(ins.operands, rgbds.Relative(target-pc))

			if rom.BankOf(target) != b.number {
				// a relative branch into another bank has no symbolic
				// form, keep the raw instruction bytes
				ins.name = rgbds.DataDirective
				ins.operands = []string{rgbds.HexByte(opcode), rgbds.HexByte(data[pc+1])}
				break operandLoop
			}
			value = int(rom.MemAddress(target))

		case gbz80.Literal:
			hasValue = false
			ins.operands = append(ins.operands, operand.Text)
		}

		if !hasValue {
			continue
		}

		if category, ok := label.CategoryFor(ins.name); ok && value < 0x8000 {
			b.resolveBranchTarget(&ins, category, value, record)
		} else if value >= sharedRAMStart {
			b.resolveRAMLabel(&ins, uint16(value))
		}
	}

	// an instruction never spans two regions or banks
	if pc+ins.length-1 >= end {
		return instruction{
			name:     rgbds.DataDirective,
			operands: []string{rgbds.HexByte(opcode)},
			length:   1,
		}, nil
	}

	return ins, nil
}

// resolveBranchTarget records a branch target during discovery and
// substitutes its label during emission. Targets in the fixed window only
// belong to bank 0 and targets in the switched window only to switched
// banks, so that a switched bank never labels bank 0 code.
func (b *Bank) resolveBranchTarget(ins *instruction, category label.Category, value int, record bool) {
	mem := rom.MemAddress(value)

	inFixedWindow := mem < rom.BankSize
	if (inFixedWindow && b.number != 0) || (!inFixedWindow && b.number == 0) {
		return
	}

	if record {
		b.registry.Record(category, mem)
		return
	}
	if name := b.registry.Resolve(category, mem); name != "" {
		ins.operands[len(ins.operands)-1] = name
	}
}

// resolveRAMLabel replaces a RAM address operand with its explicit label,
// preserving memory reference brackets.
func (b *Bank) resolveRAMLabel(ins *instruction, address uint16) {
	name, ok := b.labels.Lookup(b.number, address)
	if !ok {
		return
	}
	if strings.HasPrefix(ins.operands[len(ins.operands)-1], "[") {
		name = "[" + name + "]"
	}
	ins.operands[len(ins.operands)-1] = name
}

func toSigned(value byte) int {
	if value > 127 {
		return int(value) - 256
	}
	return int(value)
}
