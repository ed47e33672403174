package membus

// Register addresses for the RCP interfaces the cpu's store path can
// invalidate into. Only PI_WR_LEN_REG, VI_CTRL_REG and VI_ORIGIN_REG drive
// an actual side effect (see invalidateHWIO) — the rest are supplemented
// from the original register map so a fuller RCP model has somewhere to
// grow without renumbering anything.
const (
	RSPDMASPAddr  = 0x04040000
	RSPDMARAMAddr = 0x04040004
	RSPDMARDLen   = 0x04040008
	RSPDMAWRLen   = 0x0404000C
	RSPStatus     = 0x04040010
	RSPDMAFull    = 0x04040014
	RSPDMABusy    = 0x04040018
	RSPSemaphore  = 0x0404001C

	VICtrlReg      = 0x04400000
	VIOriginReg    = 0x04400004
	VIWidthReg     = 0x04400008
	VIVIntrReg     = 0x0440000C
	VIVCurrentReg  = 0x04400010
	VIBurstReg     = 0x04400014
	VIVSyncReg     = 0x04400018
	VIHSyncReg     = 0x0440001C
	VIHSyncLeapReg = 0x04400020
	VIHVideoReg    = 0x04400024
	VIVVideoReg    = 0x04400028
	VIVBurstReg    = 0x0440002C
	VIXScaleReg    = 0x04400030
	VIYScaleReg    = 0x04400034
	VITestAddrReg  = 0x04400038
	VIStagedData   = 0x0440003C

	AIDRAMAddr = 0x04500000
	AILen      = 0x04500004
	AIControl  = 0x04500008
	AIStatus   = 0x0450000C
	AIDACRate  = 0x04500010
	AIBitRate  = 0x04500014

	PIDRAMAddrReg  = 0x04600000
	PICartAddrReg  = 0x04600004
	PIRDLenReg     = 0x04600008
	PIWRLenReg     = 0x0460000C
	PIStatusReg    = 0x04600010
	PIBSDDom1LAT   = 0x04600014
	PIBSDDom1PWD   = 0x04600018
	PIBSDDom1PGS   = 0x0460001C
	PIBSDDom1RLS   = 0x04600020
	PIBSDDom2LAT   = 0x04600024
	PIBSDDom2PWD   = 0x04600028
	PIBSDDom2PGS   = 0x0460002C
	PIBSDDom2RLS   = 0x04600030

	SIDRAMAddr     = 0x04800000
	SIPIFADRD64B   = 0x04800004
	SIPIFADWR4B    = 0x04800008
	SIPIFADWR64B   = 0x04800010
	SIPIFADRD4B    = 0x04800014
	SIStatus       = 0x04800018
	PIFCommandAddr = 0x1FC007FC
)

// FramebufferSink receives the two VI registers that matter to a bare
// interpreter: the pixel format and the origin pointer.
type FramebufferSink interface {
	SetFormat(rgba bool)
	SetOrigin(framebuffer []byte)
}

// invalidateHWIO applies the store-time side effect of writing to one of
// the three registers this core gives real semantics to, mirroring
// invalidate_hwio's switch. Writing zero is a no-op, matching the source's
// outer "if (data != 0)" guard.
func (b *Bus) invalidateHWIO(paddr uint32, data uint64) {
	if data == 0 {
		return
	}
	switch paddr {
	case PIWRLenReg:
		length := uint32(data) + 1
		b.log.WithField("length", length).Debug("pi dma")
		b.piDMA(length)
	case VICtrlReg:
		if b.sink == nil {
			return
		}
		switch data & 0b11 {
		case 0b10:
			b.log.Debug("vi format: rgb5")
			b.sink.SetFormat(false) // RGB5
		case 0b11:
			b.log.Debug("vi format: rgba")
			b.sink.SetFormat(true) // RGBA
		}
	case VIOriginReg:
		if b.sink == nil {
			return
		}
		origin := uint32(data) & 0xFFFFFF
		if int(origin) < len(b.rdram) {
			b.log.WithField("origin", origin).Debug("vi origin")
			b.sink.SetOrigin(b.rdram[origin:])
		}
	}
}

// piDMA copies length bytes from the cartridge address latched in
// PICartAddrReg into RDRAM at the address latched in PIDRAMAddrReg,
// mirroring the PI_WR_LEN_REG memcpy in invalidate_hwio.
func (b *Bus) piDMA(length uint32) {
	dst := uint32(b.regs[PIDRAMAddrReg])
	src := uint32(b.regs[PICartAddrReg])
	if b.cart == nil || int(dst)+int(length) > len(b.rdram) {
		return
	}
	for i := uint32(0); i < length; i++ {
		v, err := b.cart.ReadROM(src+i, 1)
		if err != nil {
			break
		}
		b.rdram[dst+i] = byte(v)
	}
}
