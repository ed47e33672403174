// Package cartridge loads a big-endian (.z64) N64 ROM image and backs the
// cartridge domain address range on the physical bus.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// magic is the big-endian byte order marker at the start of every .z64 ROM.
const magic uint32 = 0x80371240

const headerSize = 0x40

type header struct {
	Magic          uint32
	ClockRate      uint32
	BootAddress    uint32
	Release        uint32
	CRC1           uint32
	CRC2           uint32
	_              uint64
	Name           [20]byte
	_              uint32
	ManufacturerID uint32
	CartridgeID    uint16
	CountryCode    uint16
}

// Cartridge is a loaded ROM image, addressable byte-for-byte the way the PI
// bus addresses cartridge Domain 1.
type Cartridge struct {
	rom  []byte
	name string
}

// Load parses a ROM image's header and validates its byte-order magic.
// Byte-swapped (.n64) and little-endian (.v64) dumps are rejected rather
// than silently reordered — the caller is expected to hand this a .z64.
func Load(r io.Reader) (*Cartridge, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading cartridge image")
	}
	if len(data) < headerSize {
		return nil, errors.Errorf("cartridge image too short: %d bytes", len(data))
	}

	var h header
	if err := binary.Read(bytes.NewReader(data[:headerSize]), binary.BigEndian, &h); err != nil {
		return nil, errors.Wrap(err, "parsing cartridge header")
	}
	if h.Magic != magic {
		return nil, errors.Errorf("bad cartridge magic %#08x, want %#08x (byte-swapped dump?)", h.Magic, magic)
	}

	return &Cartridge{
		rom:  data,
		name: strings.TrimRight(string(h.Name[:]), "\x00 "),
	}, nil
}

// Name is the 20-byte internal ROM name from the header.
func (c *Cartridge) Name() string { return c.name }

// Size is the ROM image length in bytes.
func (c *Cartridge) Size() int { return len(c.rom) }

// ReadROM implements membus.Cartridge: a sized, big-endian read at a
// cartridge-relative offset.
func (c *Cartridge) ReadROM(offset uint32, sz byte) (uint64, error) {
	if uint64(offset)+uint64(sz) > uint64(len(c.rom)) {
		return 0, errors.Errorf("cartridge read out of range: offset=%#08x sz=%d bound=%#08x", offset, sz, len(c.rom))
	}
	var v uint64
	for i := byte(0); i < sz; i++ {
		v = v<<8 | uint64(c.rom[offset+uint32(i)])
	}
	return v, nil
}
