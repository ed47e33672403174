package cpu

// word is a raw 32-bit instruction word, decodable as R/I/J type (§3).
type word uint32

func (w word) op() byte     { return byte(w >> 26 & 0x3F) }
func (w word) rs() byte     { return byte(w >> 21 & 0x1F) }
func (w word) rt() byte     { return byte(w >> 16 & 0x1F) }
func (w word) rd() byte     { return byte(w >> 11 & 0x1F) }
func (w word) sa() byte     { return byte(w >> 6 & 0x1F) }
func (w word) funct() byte  { return byte(w & 0x3F) }
func (w word) imm() uint16  { return uint16(w & 0xFFFF) }
func (w word) target() uint32 { return uint32(w & 0x03FFFFFF) }

// simm sign-extends the 16-bit immediate to 64 bits.
func (w word) simm() int64 { return int64(int16(w.imm())) }

const (
	opcodeSPECIAL = 0b000000
	opcodeCOP0    = 0b010000
	opcodeCOP1    = 0b010001
	opcodeCOP2    = 0b010010
)

const (
	cop0MFC0 = 0b00000
	cop0MTC0 = 0b00100
)
