package cpu

// destKind tags where a deferred pipeline effect ultimately lands. This
// replaces the source's raw byte pointer into the GPR/CP0 cell with a
// tagged destination (§9 "Destination via raw byte pointer"), removing the
// need to special-case a UDOUBLEWORD_DIRECT access class for PC writes.
type destKind byte

const (
	destNone destKind = iota
	destGPR
	destCP0
	destPC
)

type dest struct {
	kind destKind
	idx  byte // valid for destGPR/destCP0
}

// effectKind is the tag of the EX/DC and DC/WB latch's pending effect.
// Bypass writes and direct PC writes are applied immediately in EX (see
// CPU.bypassGPR/bypassCP0/bypassPC) and never occupy a latch slot — only the two effects that
// must survive to a later stage are represented here.
type effectKind byte

const (
	effectNone effectKind = iota
	effectMMUStore         // applied in WB
	effectLateLoad         // memory fetched in DC, committed in DC or WB
)

// effect is the EX/DC latch: a pending memory store or a late register
// load, carrying everything the later stage needs (§3 "EX/DC").
type effect struct {
	kind   effectKind
	dest   dest
	vaddr  uint32 // for effectLateLoad
	paddr  uint32 // for effectMMUStore
	cached bool
	data   uint64
	sz     size
}

// icrfLatch holds the fetched instruction word between IC and RF.
type icrfLatch struct {
	instr word
}

// rfexLatch holds the decoded instruction, its prefetched operands, and the
// dispatch selector between RF and EX.
type rfexLatch struct {
	instr word

	fetchedRsIdx byte
	fetchedRtIdx byte
	fetchedRs    uint64
	fetchedRt    uint64

	// target is 0 to select the NOP table, 1 for the real opcode table —
	// selected by whether the fetched word was non-zero (§4.4).
	target byte
	typ    byte // primary opcode, valid when target == 1
}

// dcwbLatch holds the finalized effect after the optional memory load,
// between DC and WB.
type dcwbLatch struct {
	kind   effectKind
	dest   dest
	paddr  uint32
	cached bool
	data   uint64
	sz     size
}
