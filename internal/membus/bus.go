// Package membus is the VR4300's physical bus view: it routes a sized,
// big-endian access at a physical address to RDRAM, the cartridge, PIF RAM,
// or an RCP register, applying whatever side effect a register write
// triggers.
package membus

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	rdramSize  = 8 * 1024 * 1024
	rdramStart = 0x00000000
	rdramEnd   = rdramStart + rdramSize

	cartRomStart = 0x10000000
	cartRomEnd   = 0x1FC00000

	pifStart = 0x1FC00000
	pifSize  = 0x800
	pifEnd   = pifStart + pifSize
)

// Cartridge backs the cartridge domain address range. internal/cartridge
// implements this.
type Cartridge interface {
	ReadROM(offset uint32, sz byte) (uint64, error)
}

// Bus is the concrete MemoryBus the cpu package is constructed with.
type Bus struct {
	rdram []byte
	pif   []byte
	regs  map[uint32]uint64

	cart Cartridge
	sink FramebufferSink
	log  *logrus.Entry
}

// New constructs a Bus over a zeroed RDRAM and PIF RAM backing store. sink
// may be nil — VI register writes are then silently dropped, matching a
// headless run with no display collaborator attached.
func New(cart Cartridge, sink FramebufferSink, log *logrus.Entry) *Bus {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Bus{
		rdram: make([]byte, rdramSize),
		pif:   make([]byte, pifSize),
		regs:  make(map[uint32]uint64),
		cart:  cart,
		sink:  sink,
		log:   log,
	}
}

// AttachCartridge swaps in the cartridge backing the ROM address range,
// replacing whatever was previously attached.
func (b *Bus) AttachCartridge(cart Cartridge) {
	b.cart = cart
}

// Load implements cpu.MemoryBus.
func (b *Bus) Load(cached bool, paddr uint32, sz byte) (uint64, error) {
	switch {
	case paddr < rdramEnd:
		return loadBytes(b.rdram, paddr-rdramStart, sz)
	case paddr >= cartRomStart && paddr < cartRomEnd:
		if b.cart == nil {
			return 0, errors.Errorf("load: no cartridge loaded, paddr=%#08x", paddr)
		}
		return b.cart.ReadROM(paddr-cartRomStart, sz)
	case paddr >= pifStart && paddr < pifEnd:
		return loadBytes(b.pif, paddr-pifStart, sz)
	default:
		return b.regs[paddr], nil
	}
}

// Store implements cpu.MemoryBus. The HW-IO invalidation runs before the
// backing write, matching the source's store_memory ordering (invalidate,
// then the raw write).
func (b *Bus) Store(cached bool, paddr uint32, data uint64, sz byte) error {
	b.invalidateHWIO(paddr, data)

	switch {
	case paddr < rdramEnd:
		return storeBytes(b.rdram, paddr-rdramStart, data, sz)
	case paddr >= pifStart && paddr < pifEnd:
		return storeBytes(b.pif, paddr-pifStart, data, sz)
	case paddr >= cartRomStart && paddr < cartRomEnd:
		return errors.Errorf("store: cartridge ROM is read-only, paddr=%#08x", paddr)
	default:
		b.regs[paddr] = data
		return nil
	}
}

// loadBytes composes a big-endian value from sz bytes starting at paddr —
// the Go-native equivalent of the reference core's byteswap-then-shift
// formula, without needing an unsafe reinterpret of a little-endian
// register cell.
func loadBytes(mem []byte, paddr uint32, sz byte) (uint64, error) {
	if err := checkRange(mem, paddr, sz); err != nil {
		return 0, err
	}
	var v uint64
	for i := byte(0); i < sz; i++ {
		v = v<<8 | uint64(mem[paddr+uint32(i)])
	}
	return v, nil
}

func storeBytes(mem []byte, paddr uint32, data uint64, sz byte) error {
	if err := checkRange(mem, paddr, sz); err != nil {
		return err
	}
	for i := byte(0); i < sz; i++ {
		shift := uint((sz - 1 - i)) * 8
		mem[paddr+uint32(i)] = byte(data >> shift)
	}
	return nil
}

func checkRange(mem []byte, paddr uint32, sz byte) error {
	if uint64(paddr)+uint64(sz) > uint64(len(mem)) {
		return errors.Errorf("access out of range: paddr=%#08x sz=%d bound=%#08x", paddr, sz, len(mem))
	}
	return nil
}
