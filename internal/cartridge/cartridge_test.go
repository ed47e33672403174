package cartridge

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildImage(t *testing.T, magicValue uint32, name string, extra []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, binary.Write(&buf, binary.BigEndian, magicValue)) // Magic
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0)))  // ClockRate
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0)))  // BootAddress
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0)))  // Release
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0)))  // CRC1
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0)))  // CRC2
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint64(0)))  // reserved

	var nameBytes [20]byte
	copy(nameBytes[:], name)
	buf.Write(nameBytes[:])

	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0))) // reserved
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint32(0))) // ManufacturerID
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint16(0))) // CartridgeID
	require.NoError(t, binary.Write(&buf, binary.BigEndian, uint16(0))) // CountryCode

	require.Equal(t, headerSize, buf.Len())
	buf.Write(extra)
	return buf.Bytes()
}

func TestLoad_ValidImageParsesNameAndSize(t *testing.T) {
	img := buildImage(t, magic, "SUPER MARIO 64", []byte{0x01, 0x02, 0x03, 0x04})
	cart, err := Load(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, "SUPER MARIO 64", cart.Name())
	assert.Equal(t, len(img), cart.Size())
}

func TestLoad_ByteSwappedMagicRejected(t *testing.T) {
	// .n64 byte-swapped dumps carry 0x40123780 instead of 0x80371240.
	img := buildImage(t, 0x40123780, "BAD DUMP", nil)
	_, err := Load(bytes.NewReader(img))
	require.Error(t, err)
}

func TestLoad_TooShortImageRejected(t *testing.T) {
	_, err := Load(bytes.NewReader(make([]byte, headerSize-1)))
	require.Error(t, err)
}

func TestLoad_NameTrimsTrailingPadding(t *testing.T) {
	img := buildImage(t, magic, "ZELDA", nil)
	cart, err := Load(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, "ZELDA", cart.Name())
}

func TestReadROM_BigEndianComposition(t *testing.T) {
	img := buildImage(t, magic, "", []byte{0xDE, 0xAD, 0xBE, 0xEF})
	cart, err := Load(bytes.NewReader(img))
	require.NoError(t, err)

	v, err := cart.ReadROM(uint32(headerSize), 4)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xDEADBEEF), v)
}

func TestReadROM_OutOfRangeErrors(t *testing.T) {
	img := buildImage(t, magic, "", nil)
	cart, err := Load(bytes.NewReader(img))
	require.NoError(t, err)

	_, err = cart.ReadROM(uint32(len(img)), 1)
	assert.Error(t, err)
}
