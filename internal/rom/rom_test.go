package rom

import (
	"bytes"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func testImage(banks int, cgb bool) []byte {
	data := make([]byte, banks*BankSize)
	if cgb {
		data[cgbFlagAddress] = 0x80
	}
	return data
}

func TestLoadBuffer(t *testing.T) {
	t.Parallel()

	image, err := LoadBuffer(bytes.NewReader(testImage(2, false)))
	assert.NoError(t, err)

	assert.Equal(t, 2*BankSize, image.Size)
	assert.Equal(t, 2, image.NumBanks)
	// padding lets decoding read past the last image byte
	assert.Equal(t, image.Size+2, len(image.Data))
	assert.False(t, image.SupportsCGB())
}

func TestLoadBufferInvalidSize(t *testing.T) {
	t.Parallel()

	_, err := LoadBuffer(bytes.NewReader(make([]byte, 0x123)))
	assert.Error(t, err)

	_, err = LoadBuffer(bytes.NewReader(nil))
	assert.Error(t, err)
}

func TestSupportsCGB(t *testing.T) {
	t.Parallel()

	image, err := LoadBuffer(bytes.NewReader(testImage(1, true)))
	assert.NoError(t, err)
	assert.True(t, image.SupportsCGB())
}

func TestMD5Deterministic(t *testing.T) {
	t.Parallel()

	image, err := LoadBuffer(bytes.NewReader(testImage(1, false)))
	assert.NoError(t, err)
	assert.Equal(t, 32, len(image.MD5()))
	assert.Equal(t, image.MD5(), image.MD5())
}

func TestMemAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		address int
		want    uint16
	}{
		{0x0000, 0x0000},
		{0x3fff, 0x3fff},
		{0x4000, 0x4000},
		{0x7fff, 0x7fff},
		{0x8000, 0x4000},
		{0xc123, 0x4123},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, MemAddress(tt.address))
	}
}

func TestBankOf(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, BankOf(0x0000))
	assert.Equal(t, 0, BankOf(0x3fff))
	assert.Equal(t, 1, BankOf(0x4000))
	assert.Equal(t, 3, BankOf(0xc000))
	// branch targets before the image start are never in a real bank
	assert.Equal(t, -1, BankOf(-2))
}
