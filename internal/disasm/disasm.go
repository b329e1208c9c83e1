// Package disasm implements the per-bank two-pass disassembly engine.
package disasm

import (
	"fmt"

	"github.com/retroenv/gbgodisasm/internal/label"
	"github.com/retroenv/gbgodisasm/internal/options"
	"github.com/retroenv/gbgodisasm/internal/region"
	"github.com/retroenv/gbgodisasm/internal/rgbds"
	"github.com/retroenv/gbgodisasm/internal/rom"
	"github.com/retroenv/retrogolib/log"
)

const maxDataBytesPerLine = 16

// phase is the processing state of a bank. Transitions are one-directional,
// a bank runs through discovery and emission exactly once.
type phase uint8

const (
	unresolved phase = iota
	discovering
	emitting
)

// Bank disassembles one ROM bank. The discovery pass walks the code regions
// to collect branch targets and instruction starts, the emission pass then
// produces the output lines for all regions.
type Bank struct {
	logger *log.Logger
	opts   options.Disassembler

	image   *rom.ROM
	number  int
	memBase uint16
	romBase int

	regions  *region.Map
	resolved []region.Region
	registry *label.Registry
	labels   *label.Table

	phase      phase
	lines      []string
	usedLdLong bool
}

// NewBank creates a bank processor. The label table is shared between all
// banks and must be complete before the first discovery pass starts.
func NewBank(logger *log.Logger, image *rom.ROM, number int,
	labels *label.Table, opts options.Disassembler) *Bank {

	memBase := uint16(0)
	romBase := 0
	if number > 0 {
		memBase = rom.BankSize
		romBase = (number - 1) * rom.BankSize
	}

	b := &Bank{
		logger:   logger,
		opts:     opts,
		image:    image,
		number:   number,
		memBase:  memBase,
		romBase:  romBase,
		regions:  region.NewMap(memBase),
		registry: label.NewRegistry(number, labels),
		labels:   labels,
	}

	// every bank starts as a single code region, hints carve out the rest
	b.regions.Add(memBase, region.Code, rom.BankSize)

	return b
}

// AddRegion records a region hint for the bank window.
func (b *Bank) AddRegion(address uint16, kind region.Kind, length int) {
	b.regions.Add(address, kind, length)
}

// UsedLdLong returns whether emission produced an instruction that needs
// the ld_long macro definition.
func (b *Bank) UsedLdLong() bool {
	return b.usedLdLong
}

// Discover resolves the region map and runs the silent first pass over all
// code regions, recording branch targets and instruction starts.
func (b *Bank) Discover() error {
	if b.phase != unresolved {
		return fmt.Errorf("bank %d: discovery already ran", b.number)
	}
	b.resolved = b.regions.Resolve()
	b.phase = discovering

	for _, reg := range b.resolved {
		if reg.Kind != region.Code {
			continue
		}
		start := b.romBase + int(reg.Start)
		if err := b.processCode(start, start+reg.Length, false); err != nil {
			return err
		}
	}
	return nil
}

// Emit runs the second pass over all regions and returns the output lines
// of the bank.
func (b *Bank) Emit() ([]string, error) {
	if b.phase != discovering {
		return nil, fmt.Errorf("bank %d: emission requires a completed discovery pass", b.number)
	}
	b.phase = emitting

	b.append(rgbds.SectionHeader(b.number))
	b.append("")

	for _, reg := range b.resolved {
		start := b.romBase + int(reg.Start)
		end := start + reg.Length

		switch reg.Kind {
		case region.Code:
			if err := b.processCode(start, end, true); err != nil {
				return nil, err
			}
		case region.Data:
			b.processData(start, end)
		case region.Text:
			b.processText(start, end)
		}

		b.appendEmptyLineIfNoneAlready()
	}
	return b.lines, nil
}

// processCode walks one code region. During discovery it only records
// instruction starts, during emission it produces label and instruction
// lines.
func (b *Bank) processCode(start, end int, emit bool) error {
	if emit {
		b.logger.Debug("Disassembling code range",
			log.Int("bank", b.number),
			log.Hex("from", start),
			log.Hex("to", end))
	}

	pc := start
	for pc < end {
		pcMem := rom.MemAddress(pc)

		ins, err := b.decodeAt(pc, end, !emit)
		if err != nil {
			return err
		}

		if !emit {
			b.registry.MarkInstructionStart(pcMem)
			pc += ins.length
			continue
		}

		if labels := b.registry.CodeLabels(pcMem); len(labels) > 0 {
			b.appendLabels(labels)
		}
		b.append(b.formatInstruction(ins, pc, pcMem))
		pc += ins.length

		b.appendCodeSeparator(ins)
	}
	return nil
}

// appendCodeSeparator breaks up the code flow after control transfer
// instructions: one blank line after conditional forms and relative jumps,
// two after returns and jumps that always execute.
func (b *Bank) appendCodeSeparator(ins instruction) {
	switch ins.name {
	case "ret", "reti", "jr", "jp":
	default:
		return
	}

	conditional := ins.name == "jr" ||
		(ins.name == "jp" && len(ins.operands) > 1) ||
		(ins.name == "ret" && len(ins.operands) > 0)

	b.append("")
	if !conditional {
		b.append("")
	}
}

// processData emits a data region as literal byte lines.
func (b *Bank) processData(start, end int) {
	b.logger.Debug("Outputting data range",
		log.Int("bank", b.number),
		log.Hex("from", start),
		log.Hex("to", end))

	var values []string
	for address := start; address < end; address++ {
		mem := rom.MemAddress(address)

		if labels := b.registry.DataLabels(mem); len(labels) > 0 {
			if len(values) > 0 {
				b.append(rgbds.Data(values))
				values = nil
			}
			b.appendLabels(labels)
		}

		values = append(values, rgbds.HexByte(b.image.Data[address]))

		if len(values) == maxDataBytesPerLine || address == end-1 {
			b.append(rgbds.Data(values))
			values = nil
		}
	}
}

// processText emits a text region, coalescing printable byte runs into
// string literals.
func (b *Bank) processText(start, end int) {
	b.logger.Debug("Outputting text range",
		log.Int("bank", b.number),
		log.Hex("from", start),
		log.Hex("to", end))

	var values []string
	var text []byte

	flushText := func() {
		if len(text) > 0 {
			values = append(values, rgbds.QuoteText(string(text)))
			text = nil
		}
	}

	for address := start; address < end; address++ {
		mem := rom.MemAddress(address)

		if labels := b.registry.DataLabels(mem); len(labels) > 0 {
			flushText()
			if len(values) > 0 {
				b.append(rgbds.Data(values))
				values = nil
			}
			b.appendLabels(labels)
		}

		value := b.image.Data[address]
		if printable(value) {
			text = append(text, value)
		} else {
			flushText()
			values = append(values, rgbds.HexByte(value))
		}
	}

	flushText()
	if len(values) > 0 {
		b.append(rgbds.Data(values))
	}
}

// printable reports whether a byte can appear inside a string literal.
// '{' starts an interpolation in RGBDS strings and is kept as a data byte.
func printable(value byte) bool {
	return value >= 0x20 && value < 0x7f && value != '{'
}

func (b *Bank) formatInstruction(ins instruction, pc int, pcMem uint16) string {
	line := rgbds.Instruction(ins.name, ins.operands)
	if !b.opts.HexComments {
		return line
	}

	bytes := ""
	for i := range ins.length {
		if i > 0 {
			bytes += " "
		}
		bytes += rgbds.HexByte(b.image.Data[pc+i])
	}
	return fmt.Sprintf("%-50s; %s: %s", line, rgbds.HexWord(pcMem), bytes)
}

func (b *Bank) append(line string) {
	b.lines = append(b.lines, line)
}

func (b *Bank) appendLabels(labels []string) {
	b.appendEmptyLineIfNoneAlready()
	for _, l := range labels {
		b.append(l)
	}
}

func (b *Bank) appendEmptyLineIfNoneAlready() {
	if len(b.lines) > 0 && b.lines[len(b.lines)-1] != "" {
		b.append("")
	}
}
