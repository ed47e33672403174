package cpu

// opFunc is a decoded instruction handler. It reads the RF/EX latch and
// leaves a pending effect on c.ex (or applies a bypass write immediately),
// mirroring the source's per-opcode functions operating on rfex_latch_ and
// exdc_latch_.
type opFunc func(c *CPU) error

// primaryTable is keyed by the primary opcode field (word.op()) and is
// selected only when rfex.target == 1. When the fetched word is zero,
// dispatch skips straight to opNOP — this is the Go equivalent of the
// source's "NOPTable if word == 0" trick (see rfexLatch.target).
var primaryTable = [64]opFunc{
	opcodeSPECIALIdx: dispatchSpecial,
	0o1:          notImplementedOp("REGIMM"),
	0o2:          opJ,
	0o3:          opJAL,
	0o4:          opBEQ,
	0o5:          opBNE,
	0o6:          notImplementedOp("BLEZ"),
	0o7:          opBGTZ,
	0o10:         opADDI,
	0o11:         opADDIU,
	0o12:         opSLTI,
	0o13:         opSLTIU,
	0o14:         opANDI,
	0o15:         opORI,
	0o16:         opXORI,
	0o17:         opLUI,
	0o20:         opCOP0Handler,
	0o21:         notImplementedOp("COP1"),
	0o22:         notImplementedOp("COP2"),
	0o24:         opBEQL,
	0o25:         opBNEL,
	0o26:         opBLEZL,
	0o27:         notImplementedOp("BGTZL"),
	0o30:         opDADDI,
	0o31:         opDADDIU,
	0o32:         notImplementedOp("LDL"),
	0o33:         notImplementedOp("LDR"),
	0o40:         opLB,
	0o41:         opLH,
	0o42:         notImplementedOp("LWL"),
	0o43:         opLW,
	0o44:         opLBU,
	0o45:         opLHU,
	0o46:         notImplementedOp("LWR"),
	0o47:         opLWU,
	0o50:         notImplementedOp("SB"),
	0o51:         opSH,
	0o52:         notImplementedOp("SWL"),
	0o53:         opSW,
	0o54:         notImplementedOp("SDL"),
	0o55:         notImplementedOp("SDR"),
	0o56:         notImplementedOp("SWR"),
	0o57:         notImplementedOp("CACHE"),
	0o60:         notImplementedOp("LL"),
	0o61:         notImplementedOp("LWC1"),
	0o62:         notImplementedOp("LWC2"),
	0o64:         notImplementedOp("LLD"),
	0o65:         notImplementedOp("LDC1"),
	0o66:         notImplementedOp("LDC2"),
	0o67:         opLD,
	0o70:         notImplementedOp("SC"),
	0o71:         notImplementedOp("SWC1"),
	0o72:         notImplementedOp("SWC2"),
	0o74:         notImplementedOp("SCD"),
	0o75:         notImplementedOp("SDC1"),
	0o76:         notImplementedOp("SDC2"),
	0o77:         opSD,
}

const opcodeSPECIALIdx = opcodeSPECIAL

// specialTable is keyed by the funct field of a SPECIAL (op==0) instruction.
var specialTable = [64]opFunc{
	0o00: opSLL,
	0o02: opSRL,
	0o03: opSRA,
	0o04: opSLLV,
	0o06: opSRLV,
	0o07: opSRAV,
	0o10: opJR,
	0o11: opJALR,
	0o14: notImplementedOp("SYSCALL"),
	0o15: notImplementedOp("BREAK"),
	0o17: notImplementedOp("SYNC"),
	0o20: notImplementedOp("MFHI"),
	0o21: notImplementedOp("MTHI"),
	0o22: notImplementedOp("MFLO"),
	0o23: notImplementedOp("MTLO"),
	0o24: opDSLLV,
	0o26: notImplementedOp("DSRLV"),
	0o27: notImplementedOp("DSRAV"),
	0o30: notImplementedOp("MULT"),
	0o31: notImplementedOp("MULTU"),
	0o32: notImplementedOp("DIV"),
	0o33: notImplementedOp("DIVU"),
	0o34: notImplementedOp("DMULT"),
	0o35: notImplementedOp("DMULTU"),
	0o36: notImplementedOp("DDIV"),
	0o37: notImplementedOp("DDIVU"),
	0o40: opADD,
	0o41: opADDU,
	0o42: opSUB,
	0o43: opSUBU,
	0o44: opAND,
	0o45: opOR,
	0o46: opXOR,
	0o47: opNOR,
	0o52: opSLT,
	0o53: opSLTU,
	0o54: notImplementedOp("DADD"),
	0o55: notImplementedOp("DADDU"),
	0o56: notImplementedOp("DSUB"),
	0o57: notImplementedOp("DSUBU"),
	0o60: opTGE,
	0o61: notImplementedOp("TGEU"),
	0o62: notImplementedOp("TLT"),
	0o63: notImplementedOp("TLTU"),
	0o64: notImplementedOp("TEQ"),
	0o66: notImplementedOp("TNE"),
	0o70: opDSLL,
	0o72: notImplementedOp("DSRL"),
	0o73: notImplementedOp("DSRA"),
	0o74: opDSLL32,
	0o76: notImplementedOp("DSRL32"),
	0o77: opDSRA32,
}

func dispatchSpecial(c *CPU) error {
	fn := specialTable[c.rfex.instr.funct()]
	if fn == nil {
		return newReservedInstruction(c.pc, "SPECIAL")
	}
	return fn(c)
}

// notImplementedOp returns a handler that always raises NotImplementedError
// — the Go equivalent of the source's per-opcode "throw ...opcode reached"
// stub bodies for anything this core doesn't give real semantics to.
func notImplementedOp(mnemonic string) opFunc {
	return func(c *CPU) error {
		return newNotImplemented(c.pc, mnemonic, uint32(c.rfex.instr))
	}
}

// dispatch selects the handler for the instruction currently latched in
// rfex, mirroring execute_instruction()'s TableTable[target][type] lookup.
func dispatch(c *CPU) error {
	if c.rfex.target == 0 {
		return opNOP(c)
	}
	fn := primaryTable[c.rfex.typ]
	if fn == nil {
		return newReservedInstruction(c.pc, "unknown")
	}
	return fn(c)
}
