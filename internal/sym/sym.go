// Package sym provides the explicit symbol sources of a disassembly: the
// architecture default symbols, the Game Boy Color extras and .sym symbol
// files.
package sym

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/retroenv/gbgodisasm/internal/label"
	"github.com/retroenv/gbgodisasm/internal/region"
	"github.com/retroenv/retrogolib/log"
)

// defaultSymbols names the RST and interrupt vectors and the cartridge
// header layout, present in every ROM.
var defaultSymbols = []string{
	"00:0000 RST_00",
	"00:0000 .code:8",
	"00:0008 RST_08",
	"00:0008 .code:8",
	"00:0010 RST_10",
	"00:0010 .code:8",
	"00:0018 RST_18",
	"00:0018 .code:8",
	"00:0020 RST_20",
	"00:0020 .code:8",
	"00:0028 RST_28",
	"00:0028 .code:8",
	"00:0030 RST_30",
	"00:0030 .code:8",
	"00:0038 RST_38",
	"00:0038 .code:8",

	"00:0040 VBlankInterrupt",
	"00:0040 .code:8",
	"00:0048 LCDCInterrupt",
	"00:0048 .code:8",
	"00:0050 TimerOverflowInterrupt",
	"00:0050 .code:8",
	"00:0058 SerialTransferCompleteInterrupt",
	"00:0058 .code:8",
	"00:0060 JoypadTransitionInterrupt",
	"00:0060 .code:8",

	"00:0100 Boot",
	"00:0104 HeaderLogo",
	"00:0104 .data:30",
	"00:0134 HeaderTitle",
	"00:0134 .text:10",
	"00:0144 .data:c",
	"00:0144 HeaderNewLicenseeCode",
	"00:0146 HeaderSGBFlag",
	"00:0147 HeaderCartridgeType",
	"00:0148 HeaderROMSize",
	"00:0149 HeaderRAMSize",
	"00:014a HeaderDestinationCode",
	"00:014b HeaderOldLicenseeCode",
	"00:014c HeaderMaskROMVersion",
	"00:014d HeaderComplementCheck",
	"00:014e HeaderGlobalChecksum",
}

// cgbSymbols refines the header layout for ROMs declaring Game Boy Color
// support: the title area shrinks in favor of the manufacturer code and the
// CGB flag.
var cgbSymbols = []string{
	"00:0134 .text:b",
	"00:013f HeaderManufacturerCode",
	"00:013f .text:4",
	"00:0143 HeaderCGBFlag",
	"00:0143 .data:1",
}

// RegionHint is a typed region declaration for one bank.
type RegionHint struct {
	Bank    int
	Address uint16
	Kind    region.Kind
	Length  int
}

// Symbols holds the merged explicit symbol information of all sources.
type Symbols struct {
	logger   *log.Logger
	numBanks int

	Hints  []RegionHint
	Labels *label.Table
}

// New creates the symbol set of a ROM with the given number of banks,
// populated with the architecture defaults and, for Game Boy Color ROMs,
// the CGB header extras.
func New(logger *log.Logger, numBanks int, cgb bool) *Symbols {
	s := &Symbols{
		logger:   logger,
		numBanks: numBanks,
		Labels:   label.NewTable(numBanks),
	}

	for _, definition := range defaultSymbols {
		s.addDefinition(definition)
	}
	if cgb {
		for _, definition := range cgbSymbols {
			s.addDefinition(definition)
		}
	}
	return s
}

// ReadFile merges the definitions of a .sym symbol file. Comment and empty
// lines are ignored, malformed definitions are skipped with a warning.
func (s *Symbols) ReadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening symbol file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == ';' {
			continue
		}
		s.addDefinition(line)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading symbol file %s: %w", path, err)
	}
	return nil
}

// addDefinition parses one "bank:address name" definition. A name of the
// form ".kind:length" declares a typed region instead of a label.
func (s *Symbols) addDefinition(definition string) {
	fields := strings.Fields(definition)
	if len(fields) != 2 {
		s.skip(definition)
		return
	}

	bankField, addressField, ok := strings.Cut(fields[0], ":")
	if !ok {
		s.skip(definition)
		return
	}
	bank, err := strconv.ParseInt(bankField, 16, 32)
	if err != nil {
		s.skip(definition)
		return
	}
	address, err := strconv.ParseUint(addressField, 16, 16)
	if err != nil {
		s.skip(definition)
		return
	}

	name := fields[1]
	if name[0] == '.' {
		if kindField, lengthField, ok := strings.Cut(name, ":"); ok {
			s.addRegionHint(definition, int(bank), uint16(address), kindField, lengthField)
			return
		}
	}

	if int(bank) >= s.numBanks && address < 0x8000 {
		s.skip(definition)
		return
	}
	s.Labels.Add(int(bank), uint16(address), name)
}

func (s *Symbols) addRegionHint(definition string, bank int, address uint16,
	kindField, lengthField string) {

	length, err := strconv.ParseInt(lengthField, 16, 32)
	if err != nil {
		s.skip(definition)
		return
	}

	var kind region.Kind
	switch strings.ToLower(kindField) {
	case ".byt", ".data":
		kind = region.Data
	case ".asc", ".text":
		kind = region.Text
	case ".code":
		kind = region.Code
	default:
		s.skip(definition)
		return
	}

	if bank < 0 || bank >= s.numBanks {
		s.skip(definition)
		return
	}

	s.Hints = append(s.Hints, RegionHint{
		Bank:    bank,
		Address: address,
		Kind:    kind,
		Length:  int(length),
	})
}

func (s *Symbols) skip(definition string) {
	s.logger.Warn("Ignoring invalid symbol definition", log.String("definition", definition))
}
