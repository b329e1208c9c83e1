package rgbds

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/retroenv/gbgodisasm/internal/gbz80"
)

// ldLongMacro encodes the two absolute load/store instructions of a high
// page address as raw bytes. Without it rgbasm re-encodes them into the
// shorter ldh form, changing the output size.
const ldLongMacro = `ld_long: MACRO
    IF STRLWR("\1") == "a"
        ; ld a, [$ff40]
        db $FA
        dw \2
    ELSE
        IF STRLWR("\2") == "a"
            ; ld [$ff40], a
            db $EA
            dw \1
        ENDC
    ENDC
ENDM
`

// Project describes one generated disassembly project.
type Project struct {
	ROMName string // base name of the disassembled ROM file
	AppName string // generating application, named in file headers
	CGB     bool   // the ROM supports the Game Boy Color
	LdLong  bool   // at least one bank uses the ld_long macro

	Banks [][]string // output lines per bank
}

// RomExtension returns the file extension of the rebuilt ROM.
func (p *Project) RomExtension() string {
	if p.CGB {
		return "gbc"
	}
	return "gb"
}

// BankFilename returns the name of a bank's assembly file.
func BankFilename(bank int) string {
	return fmt.Sprintf("bank_%03x.asm", bank)
}

// Write generates all project files into the directory: one assembly file
// per bank, the game.asm root file including them, the hardware register
// include file and a Makefile driving the RGBDS toolchain.
func (p *Project) Write(dir string) error {
	for bank, lines := range p.Banks {
		if err := p.writeBank(dir, bank, lines); err != nil {
			return err
		}
	}

	if err := p.writeGameASM(dir); err != nil {
		return err
	}
	if err := p.writeHardwareInc(dir); err != nil {
		return err
	}
	return p.writeMakefile(dir)
}

func (p *Project) writeBank(dir string, bank int, lines []string) error {
	return p.writeFile(dir, BankFilename(bank), func(w *FileWriter) error {
		if err := w.WriteCommentHeader(p.ROMName, p.AppName); err != nil {
			return err
		}
		return w.WriteLines(lines)
	})
}

func (p *Project) writeGameASM(dir string) error {
	return p.writeFile(dir, "game.asm", func(w *FileWriter) error {
		if err := w.WriteCommentHeader(p.ROMName, p.AppName); err != nil {
			return err
		}

		var lines []string
		if p.LdLong {
			lines = append(lines, ldLongMacro)
		}
		lines = append(lines, `INCLUDE "hardware.inc"`)
		for bank := range p.Banks {
			lines = append(lines, fmt.Sprintf("INCLUDE %q", BankFilename(bank)))
		}
		return w.WriteLines(lines)
	})
}

func (p *Project) writeHardwareInc(dir string) error {
	return p.writeFile(dir, "hardware.inc", func(w *FileWriter) error {
		addresses := make([]uint16, 0, len(gbz80.Registers))
		for address := range gbz80.Registers {
			addresses = append(addresses, address)
		}
		slices.Sort(addresses)

		lines := []string{"; Hardware register definitions", ""}
		for _, address := range addresses {
			lines = append(lines, fmt.Sprintf("DEF %-8s EQU %s", gbz80.Registers[address], HexWord(address)))
		}
		return w.WriteLines(lines)
	})
}

func (p *Project) writeMakefile(dir string) error {
	return p.writeFile(dir, "Makefile", func(w *FileWriter) error {
		ext := p.RomExtension()
		lines := []string{
			fmt.Sprintf("all: game.%s", ext),
			"",
			"game.o: game.asm bank_*.asm",
			"\trgbasm -o game.o game.asm",
			"",
			fmt.Sprintf("game.%s: game.o", ext),
			"\trgblink -n game.sym -m $*.map -o $@ $<",
			"\trgbfix -v -p 255 $@",
			"",
			"clean:",
			fmt.Sprintf("\trm -f game.o game.%s", ext),
		}
		return w.WriteLines(lines)
	})
}

func (p *Project) writeFile(dir, name string, write func(*FileWriter) error) error {
	file, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}

	if err := write(NewFileWriter(file)); err != nil {
		_ = file.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", name, err)
	}
	return nil
}
