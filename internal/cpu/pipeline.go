package cpu

import (
	"github.com/sirupsen/logrus"
)

// resetVector is where the VR4300 begins fetching after a cold reset —
// the PIF ROM entry point, mapped uncached in kseg1.
const resetVector uint32 = 0xBFC00000

// Translator resolves a virtual address to a physical one. internal/mmu
// implements this.
type Translator interface {
	Translate(vaddr uint32) (paddr uint32, cached bool, err error)
}

// MemoryBus performs sized, byte-swapped physical memory access and any
// HW-IO side effects a store to a register address triggers. internal/membus
// implements this.
type MemoryBus interface {
	Load(cached bool, paddr uint32, sz byte) (uint64, error)
	Store(cached bool, paddr uint32, data uint64, sz byte) error
}

// CPU is the five-stage VR4300 interpreter core: register file, pipeline
// latches, and the two collaborators (address translator, memory bus) it
// was constructed with.
type CPU struct {
	gpr regFile
	cp0 cp0File
	pc  uint32
	ldi bool

	icrf icrfLatch
	rfex rfexLatch
	ex   effect
	dcwb dcwbLatch

	mmu Translator
	bus MemoryBus
	log *logrus.Entry
}

// New constructs a CPU wired to the given address translator and memory
// bus. A nil logger falls back to logrus's standard logger, matching the
// source's debug-writer-is-optional collaborator pattern.
func New(mmu Translator, bus MemoryBus, log *logrus.Entry) *CPU {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &CPU{mmu: mmu, bus: bus, log: log}
}

// PC reports the current program counter, mainly for tracing and tests.
func (c *CPU) PC() uint32 { return c.pc }

// GPR reports the raw value of general-purpose register i (r0 reads zero).
func (c *CPU) GPR(i byte) uint64 { return c.gpr.read(i) }

// CP0 reports the raw value of CP0 register i.
func (c *CPU) CP0(i byte) uint64 { return c.cp0.read(i) }

// Registers returns a hex dump of all 32 GPRs. It exists for the CLI's
// -dump flag and Trace-level logging, never for core semantics.
func (c *CPU) Registers() string { return c.gpr.String() }

// Reset clears architectural state, sets PC to the reset vector, and primes
// the pipeline with four partial startup cycles.
func (c *CPU) Reset() {
	c.pc = resetVector
	c.ldi = false
	c.gpr = regFile{}
	c.cp0 = cp0File{}
	c.icrf = icrfLatch{}
	c.rfex = rfexLatch{}
	c.ex = effect{}
	c.dcwb = dcwbLatch{}
	c.primeCold()
}

// primeCold runs the four unrolled partial cycles needed to fill IC/RF/EX/DC
// before the first full Step — there is nothing to write back yet, so WB is
// never invoked here.
func (c *CPU) primeCold() {
	c.ic()

	c.rf()
	c.ic()

	_ = c.exStage()
	c.rf()
	c.ic()

	c.dc()
	_ = c.exStage()
	c.rf()
	c.ic()
}

// Step advances the pipeline by one cycle: WB, DC, EX, and — unless a
// load-use hazard freezes fetch — RF and IC, in that reverse-program-order
// sequence. Register 0 is re-zeroed after every stage rather than guarded
// once, staying isomorphic with the reference driver. Only an EX-stage
// fault is returned; DC/WB-stage bus faults are logged and otherwise
// swallowed, since §7's five exception classes are all raised from EX.
func (c *CPU) Step() error {
	c.gpr[0] = 0
	c.wb()
	c.gpr[0] = 0
	c.dc()
	c.gpr[0] = 0
	err := c.exStage()
	if !c.ldi {
		c.gpr[0] = 0
		c.rf()
		c.gpr[0] = 0
		c.ic()
	}
	c.cp0[cp0Count]++
	if uint32(c.cp0[cp0Count]) == uint32(c.cp0[cp0Compare]) {
		c.log.WithField("count", c.cp0[cp0Count]).Debug("cp0 count/compare match")
	}
	return err
}

func (c *CPU) ic() {
	paddr, _, err := c.mmu.Translate(c.pc)
	var instr word
	if err == nil {
		if v, lerr := c.bus.Load(false, paddr, 4); lerr == nil {
			instr = word(uint32(v))
		}
	}
	c.icrf = icrfLatch{instr: instr}
	c.pc += 4
}

func (c *CPU) rf() {
	instr := c.icrf.instr
	var target, typ byte
	if instr != 0 {
		target = 1
		typ = instr.op()
	}
	c.rfex = rfexLatch{
		instr:        instr,
		fetchedRsIdx: instr.rs(),
		fetchedRtIdx: instr.rt(),
		fetchedRs:    c.gpr.read(instr.rs()),
		fetchedRt:    c.gpr.read(instr.rt()),
		target:       target,
		typ:          typ,
	}
}

func (c *CPU) exStage() error {
	c.ex = effect{}
	c.traceStep()
	if err := dispatch(c); err != nil {
		return wrapStage(err, c.pc, mnemonic(c.rfex.instr))
	}
	return nil
}

func (c *CPU) dc() {
	c.dcwb = dcwbLatch{kind: c.ex.kind, dest: c.ex.dest, paddr: c.ex.paddr, cached: c.ex.cached, sz: c.ex.sz}
	if c.ex.kind != effectLateLoad {
		c.dcwb.data = c.ex.data
		return
	}

	paddr, cached, err := c.mmu.Translate(c.ex.vaddr)
	if err != nil {
		c.log.WithError(err).Warn("load address translation failed")
		c.dcwb.kind = effectNone
		return
	}
	data, err := c.bus.Load(cached, paddr, byte(c.ex.sz))
	if err != nil {
		c.log.WithError(err).Warn("load failed")
		c.dcwb.kind = effectNone
		return
	}
	// Zero-extended regardless of width, matching the reference core.
	c.dcwb.cached = cached
	c.dcwb.paddr = paddr
	c.dcwb.data = data
	c.dcwb.sz = sizeDoubleword

	if c.ldi {
		// Write early so the next RF observes the loaded value.
		if c.dcwb.dest.kind == destGPR {
			c.gpr.write(c.dcwb.dest.idx, c.dcwb.data, c.dcwb.sz)
		}
		c.dcwb.kind = effectNone
		c.ldi = false
	}
}

func (c *CPU) wb() {
	switch c.dcwb.kind {
	case effectMMUStore:
		if err := c.bus.Store(c.dcwb.cached, c.dcwb.paddr, c.dcwb.data, byte(c.dcwb.sz)); err != nil {
			c.log.WithError(err).Warn("store failed")
		}
	case effectLateLoad:
		if c.dcwb.dest.kind == destGPR {
			c.gpr.write(c.dcwb.dest.idx, c.dcwb.data, c.dcwb.sz)
		}
	}
}

// translate is the EX-stage address lookup stores need immediately, unlike
// loads which defer translation to DC.
func (c *CPU) translate(vaddr uint32) (uint32, bool, error) {
	return c.mmu.Translate(vaddr)
}

func (c *CPU) bypassGPR(idx byte, data uint64, sz size) {
	c.gpr.write(idx, data, sz)
	c.ex = effect{kind: effectNone}
}

func (c *CPU) bypassCP0(idx byte, data uint64, sz size) {
	c.cp0.write(idx, data, sz)
	c.ex = effect{kind: effectNone}
}

func (c *CPU) bypassPC(addr uint32) {
	c.pc = addr
	c.ex = effect{kind: effectNone}
}

// detectLDI flags a load-use hazard against the instruction already
// prefetched into icrf, and forces a NOP dispatch for the frozen cycle that
// follows (effective only when ldi ends up true — RF overwrites rfex
// otherwise).
func (c *CPU) detectLDI(rt byte) {
	next := c.icrf.instr
	c.ldi = rt == next.rt() || rt == next.rs()
	c.rfex.target = 0
	c.rfex.typ = 0
}
