// Package rom handles Game Boy ROM image loading and bank address math.
package rom

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
)

// BankSize is the size of one ROM bank. Bank 0 is mapped to memory at
// 0x0000-0x3fff, every other bank is switched into 0x4000-0x7fff.
const BankSize = 0x4000

// cgbFlagAddress is the header byte indicating Game Boy Color support.
const cgbFlagAddress = 0x0143

// ROM is a loaded Game Boy ROM image.
type ROM struct {
	// Data contains the image bytes plus two padding zero bytes, so that
	// decoding the last instruction of the image never reads out of range.
	Data []byte

	Size     int // image size without padding
	NumBanks int
}

// LoadBuffer reads a ROM image from a reader.
func LoadBuffer(reader io.Reader) (*ROM, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}

	size := len(data)
	if size == 0 || size%BankSize != 0 {
		return nil, fmt.Errorf("invalid image size %d: expected a multiple of %d bytes", size, BankSize)
	}

	return &ROM{
		Data:     append(data, 0x00, 0x00),
		Size:     size,
		NumBanks: size / BankSize,
	}, nil
}

// LoadFile reads a ROM image from a file.
func LoadFile(path string) (*ROM, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	image, err := LoadBuffer(file)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return image, nil
}

// SupportsCGB returns whether the cartridge header declares Game Boy Color
// support.
func (r *ROM) SupportsCGB() bool {
	return r.Data[cgbFlagAddress]&0x80 == 0x80
}

// MD5 returns the hex encoded MD5 digest of the image.
func (r *ROM) MD5() string {
	return fmt.Sprintf("%x", md5.Sum(r.Data[:r.Size]))
}

// MemAddress translates a ROM address to the memory address the byte is
// visible at when its bank is mapped in.
func MemAddress(address int) uint16 {
	if address < BankSize {
		return uint16(address)
	}
	return uint16(address%BankSize + BankSize)
}

// BankOf returns the number of the bank containing the ROM address.
// Negative addresses resolve to a negative bank, so that computed branch
// targets before the image start never compare equal to a real bank.
func BankOf(address int) int {
	if address < 0 {
		return -1
	}
	return address / BankSize
}
