package cpu

// Each handler below reads the decoded instruction and its prefetched
// operands out of c.rfex and either applies an immediate bypass write
// (c.bypassGPR/bypassCP0/bypassPC — the register write and any in-flight PC
// branch are visible to the very next cycle's RF) or leaves a pending
// effect on c.ex for the DC/WB stages to finish (a deferred load or
// store). This mirrors the source's store_register()-via-bypass_register()
// immediate path versus its WriteType::MMU/LATEREGISTER deferred path.

// ADD, ADDU — s_ADD traps on signed 32-bit overflow; the destination is not
// written when it does.
func opADD(c *CPU) error { return aluAddReg(c, true) }
func opADDU(c *CPU) error { return aluAddReg(c, false) }

func aluAddReg(c *CPU, trap bool) error {
	rs := int32(uint32(c.rfex.fetchedRs))
	rt := int32(uint32(c.rfex.fetchedRt))
	result := rs + rt
	if trap && overflows32(int64(rs), int64(rt), int64(result)) {
		return newIntegerOverflow(c.pc, "ADD")
	}
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(result)), sizeDoubleword)
	return nil
}

// SUB, SUBU — s_SUB traps on signed 32-bit overflow.
func opSUB(c *CPU) error { return aluSubReg(c, true) }
func opSUBU(c *CPU) error { return aluSubReg(c, false) }

func aluSubReg(c *CPU, trap bool) error {
	rs := int32(uint32(c.rfex.fetchedRs))
	rt := int32(uint32(c.rfex.fetchedRt))
	result := rs - rt
	if trap && overflows32(int64(rs), -int64(rt), int64(result)) {
		return newIntegerOverflow(c.pc, "SUB")
	}
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(result)), sizeDoubleword)
	return nil
}

func overflows32(a, b, result int64) bool {
	return a+b != result
}

// AND, OR, XOR, NOR — 64-bit bitwise, never trap.
func opAND(c *CPU) error { return aluBitwiseReg(c, func(a, b uint64) uint64 { return a & b }) }
func opOR(c *CPU) error  { return aluBitwiseReg(c, func(a, b uint64) uint64 { return a | b }) }
func opXOR(c *CPU) error { return aluBitwiseReg(c, func(a, b uint64) uint64 { return a ^ b }) }
func opNOR(c *CPU) error { return aluBitwiseReg(c, func(a, b uint64) uint64 { return ^(a | b) }) }

func aluBitwiseReg(c *CPU, f func(a, b uint64) uint64) error {
	data := f(c.rfex.fetchedRs, c.rfex.fetchedRt)
	c.bypassGPR(c.rfex.instr.rd(), data, sizeDoubleword)
	return nil
}

// SLT, SLTU — set rd to 1 if rs < rt, else 0.
func opSLT(c *CPU) error {
	data := uint64(0)
	if int64(c.rfex.fetchedRs) < int64(c.rfex.fetchedRt) {
		data = 1
	}
	c.bypassGPR(c.rfex.instr.rd(), data, sizeDoubleword)
	return nil
}

func opSLTU(c *CPU) error {
	data := uint64(0)
	if c.rfex.fetchedRs < c.rfex.fetchedRt {
		data = 1
	}
	c.bypassGPR(c.rfex.instr.rd(), data, sizeDoubleword)
	return nil
}

// ADDI traps on overflow; ADDIU never does. Both sign-extend a 32-bit
// result to 64 bits.
func opADDI(c *CPU) error  { return aluAddImmediate(c, true) }
func opADDIU(c *CPU) error { return aluAddImmediate(c, false) }

func aluAddImmediate(c *CPU, trap bool) error {
	rs := int32(uint32(c.rfex.fetchedRs))
	imm := int32(c.rfex.instr.simm())
	result := rs + imm
	if trap && overflows32(int64(rs), int64(imm), int64(result)) {
		return newIntegerOverflow(c.pc, "ADDI")
	}
	c.bypassGPR(c.rfex.instr.rt(), uint64(int64(result)), sizeDoubleword)
	return nil
}

// DADDI traps on 64-bit overflow; DADDIU never does.
func opDADDI(c *CPU) error  { return aluDAddImmediate(c, true) }
func opDADDIU(c *CPU) error { return aluDAddImmediate(c, false) }

func aluDAddImmediate(c *CPU, trap bool) error {
	rs := int64(c.rfex.fetchedRs)
	imm := c.rfex.instr.simm()
	result := rs + imm
	if trap && (rs > 0 && imm > 0 && result < 0 || rs < 0 && imm < 0 && result >= 0) {
		return newIntegerOverflow(c.pc, "DADDI")
	}
	c.bypassGPR(c.rfex.instr.rt(), uint64(result), sizeDoubleword)
	return nil
}

// SLTI, SLTIU both compare as signed — SLTIU mirrors the source's literal
// (and by-the-manual incorrect) signed comparison despite the U suffix.
func opSLTI(c *CPU) error  { return aluSetLessImmediate(c) }
func opSLTIU(c *CPU) error { return aluSetLessImmediate(c) }

func aluSetLessImmediate(c *CPU) error {
	data := uint64(0)
	if int64(c.rfex.fetchedRs) < c.rfex.instr.simm() {
		data = 1
	}
	c.bypassGPR(c.rfex.instr.rt(), data, sizeDoubleword)
	return nil
}

// ANDI, ORI, XORI — zero-extended 16-bit immediate, 64-bit result.
func opANDI(c *CPU) error {
	return aluBitwiseImmediate(c, func(a, b uint64) uint64 { return a & b })
}
func opORI(c *CPU) error {
	return aluBitwiseImmediate(c, func(a, b uint64) uint64 { return a | b })
}
func opXORI(c *CPU) error {
	return aluBitwiseImmediate(c, func(a, b uint64) uint64 { return a ^ b })
}

func aluBitwiseImmediate(c *CPU, f func(a, b uint64) uint64) error {
	data := f(c.rfex.fetchedRs, uint64(c.rfex.instr.imm()))
	c.bypassGPR(c.rfex.instr.rt(), data, sizeDoubleword)
	return nil
}

// LUI loads the immediate into the upper halfword, sign-extended to 64 bits.
func opLUI(c *CPU) error {
	data := int64(int32(uint32(c.rfex.instr.imm()) << 16))
	c.bypassGPR(c.rfex.instr.rt(), uint64(data), sizeDoubleword)
	return nil
}

// SLL, SRL, SRA — 32-bit shift by the fixed sa field, sign-extended result.
func opSLL(c *CPU) error {
	data := int32(uint32(c.rfex.fetchedRt) << c.rfex.instr.sa())
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(data)), sizeDoubleword)
	return nil
}

func opSRL(c *CPU) error {
	data := int32(uint32(c.rfex.fetchedRt) >> c.rfex.instr.sa())
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(data)), sizeDoubleword)
	return nil
}

func opSRA(c *CPU) error {
	data := int32(c.rfex.fetchedRt) >> c.rfex.instr.sa()
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(data)), sizeDoubleword)
	return nil
}

// SLLV, SRLV, SRAV — 32-bit shift by a register amount. The source masks
// SLLV/SRLV to 6 bits and SRAV to 5; both are kept literally.
func opSLLV(c *CPU) error {
	amt := c.rfex.fetchedRs & 0b111111
	data := int32(uint32(c.rfex.fetchedRt) << amt)
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(data)), sizeDoubleword)
	return nil
}

func opSRLV(c *CPU) error {
	amt := c.rfex.fetchedRs & 0b111111
	data := int32(uint32(c.rfex.fetchedRt) >> amt)
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(data)), sizeDoubleword)
	return nil
}

func opSRAV(c *CPU) error {
	amt := c.rfex.fetchedRs & 0b11111
	data := int32(c.rfex.fetchedRt) >> amt
	c.bypassGPR(c.rfex.instr.rd(), uint64(int64(data)), sizeDoubleword)
	return nil
}

// DSLL, DSLLV, DSLL32, DSRA32 — 64-bit shifts.
func opDSLL(c *CPU) error {
	data := c.rfex.fetchedRt << c.rfex.instr.sa()
	c.bypassGPR(c.rfex.instr.rd(), data, sizeDoubleword)
	return nil
}

func opDSLLV(c *CPU) error {
	amt := c.rfex.fetchedRs & 0b111111
	data := c.rfex.fetchedRt << amt
	c.bypassGPR(c.rfex.instr.rd(), data, sizeDoubleword)
	return nil
}

func opDSLL32(c *CPU) error {
	data := c.rfex.fetchedRt << (uint(c.rfex.instr.sa()) + 32)
	c.bypassGPR(c.rfex.instr.rd(), data, sizeDoubleword)
	return nil
}

func opDSRA32(c *CPU) error {
	data := int64(c.rfex.fetchedRt) >> (uint(c.rfex.instr.sa()) + 32)
	c.bypassGPR(c.rfex.instr.rd(), uint64(data), sizeDoubleword)
	return nil
}

// TGE raises a trap when rs >= rt, comparing as signed. The U/LT/EQ/NE
// trap variants are not implemented — see notImplementedOp in tables.go.
func opTGE(c *CPU) error {
	if int64(c.rfex.fetchedRs) >= int64(c.rfex.fetchedRt) {
		return newTrapException(c.pc, "TGE")
	}
	return nil
}

// J, JAL — jump within the current 256MB region.
func opJ(c *CPU) error {
	target := c.rfex.instr.target()
	addr := (c.pc & 0xF0000000) | (target << 2)
	c.bypassPC(addr)
	return nil
}

func opJAL(c *CPU) error {
	c.gpr.write(31, uint64(c.pc), sizeDoubleword)
	return opJ(c)
}

// JR, JALR — jump to a register value; the target must be word-aligned.
func opJR(c *CPU) error {
	addr := uint32(c.rfex.fetchedRs)
	if addr&0b11 != 0 {
		return newInstructionAddressError(c.pc, "JR", addr)
	}
	c.bypassPC(addr)
	return nil
}

func opJALR(c *CPU) error {
	rd := c.rfex.instr.rd()
	if rd == 0 {
		rd = 31
	}
	c.gpr.write(rd, uint64(c.pc), sizeDoubleword)
	return opJR(c)
}

// BEQ, BNE, BGTZ — ordinary branches: the delay slot always executes.
func opBEQ(c *CPU) error { return branch(c, c.rfex.fetchedRs == c.rfex.fetchedRt, false) }
func opBNE(c *CPU) error { return branch(c, c.rfex.fetchedRs != c.rfex.fetchedRt, false) }
func opBGTZ(c *CPU) error {
	return branch(c, int64(c.rfex.fetchedRs) > 0, false)
}

// BEQL, BNEL, BLEZL — likely branches: a not-taken branch annuls the
// instruction already prefetched into the delay slot.
func opBEQL(c *CPU) error { return branch(c, c.rfex.fetchedRs == c.rfex.fetchedRt, true) }
func opBNEL(c *CPU) error { return branch(c, c.rfex.fetchedRs != c.rfex.fetchedRt, true) }
func opBLEZL(c *CPU) error {
	return branch(c, int64(c.rfex.fetchedRs) <= 0, true)
}

func branch(c *CPU, taken bool, likely bool) error {
	if taken {
		offset := int32(c.rfex.instr.simm()) << 2
		target := uint32(int64(c.pc) - 4 + int64(offset))
		c.bypassPC(target)
		return nil
	}
	if likely {
		c.icrf.instr = 0
	}
	return nil
}

// LB delegates to LBU bit for bit — a known quirk of the core this was
// distilled from, kept rather than silently fixed.
func opLB(c *CPU) error { return opLBU(c) }

func opLBU(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	rt := c.rfex.instr.rt()
	c.ex = effect{kind: effectLateLoad, dest: dest{destGPR, rt}, vaddr: vaddr, sz: sizeByte}
	c.detectLDI(rt)
	return nil
}

// LH, LHU — aliased, and unlike LB/LW/LD neither triggers the load-use
// interlock.
func opLH(c *CPU) error  { return loadHalfword(c) }
func opLHU(c *CPU) error { return loadHalfword(c) }

func loadHalfword(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	if vaddr&0b1 != 0 {
		return newInstructionAddressError(c.pc, "LH", vaddr)
	}
	c.ex = effect{kind: effectLateLoad, dest: dest{destGPR, c.rfex.instr.rt()}, vaddr: vaddr, sz: sizeHalfword}
	return nil
}

// LW, LWU — aliased.
func opLW(c *CPU) error  { return loadWord(c) }
func opLWU(c *CPU) error { return loadWord(c) }

func loadWord(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	if vaddr&0b11 != 0 {
		return newInstructionAddressError(c.pc, "LW", vaddr)
	}
	rt := c.rfex.instr.rt()
	c.ex = effect{kind: effectLateLoad, dest: dest{destGPR, rt}, vaddr: vaddr, sz: sizeWord}
	c.detectLDI(rt)
	return nil
}

// LD — reserved-instruction (32-bit-mode) gating is not modeled, since this
// core does not track an operating mode; that exception is reachable only
// via an unrecognized opcode encoding (see tables.go).
func opLD(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	if vaddr&0b111 != 0 {
		return newInstructionAddressError(c.pc, "LD", vaddr)
	}
	rt := c.rfex.instr.rt()
	c.ex = effect{kind: effectLateLoad, dest: dest{destGPR, rt}, vaddr: vaddr, sz: sizeDoubleword}
	c.detectLDI(rt)
	return nil
}

// SW, SH, SD translate their address in EX (unlike loads, which defer
// translation to DC).
func opSW(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	if vaddr&0b11 != 0 {
		return newInstructionAddressError(c.pc, "SW", vaddr)
	}
	return store(c, vaddr, c.rfex.fetchedRt, sizeWord)
}

// SH checks the virtual address directly — the faithful fix for a
// dest-pointer-based check in the source this core was distilled from.
func opSH(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	if vaddr&0b1 != 0 {
		return newInstructionAddressError(c.pc, "SH", vaddr)
	}
	return store(c, vaddr, c.rfex.fetchedRt, sizeHalfword)
}

// SD — see opLD on the skipped reserved-instruction gating.
func opSD(c *CPU) error {
	vaddr := uint32(int64(c.rfex.fetchedRs) + c.rfex.instr.simm())
	if vaddr&0b111 != 0 {
		return newInstructionAddressError(c.pc, "SD", vaddr)
	}
	return store(c, vaddr, c.rfex.fetchedRt, sizeDoubleword)
}

func store(c *CPU, vaddr uint32, data uint64, sz size) error {
	paddr, cached, err := c.translate(vaddr)
	if err != nil {
		return err
	}
	c.ex = effect{kind: effectMMUStore, paddr: paddr, cached: cached, data: data, sz: sz}
	return nil
}

// opCOP0Handler dispatches on the rs field. Only MFC0/MTC0 are given real
// semantics; every other COP0 sub-function (CFC0/CTC0/DMFC0/DMTC0/...) is
// decoded but out of scope, so it raises ReservedInstructionError rather
// than silently doing nothing.
func opCOP0Handler(c *CPU) error {
	switch c.rfex.instr.rs() {
	case cop0MTC0:
		data := int64(int32(uint32(c.gpr.read(c.rfex.instr.rd()))))
		c.bypassCP0(c.rfex.instr.rt(), uint64(data), sizeDoubleword)
	case cop0MFC0:
		data := int64(int32(uint32(c.cp0.read(c.rfex.instr.rd()))))
		c.bypassGPR(c.rfex.instr.rt(), uint64(data), sizeDoubleword)
	default:
		return newReservedInstruction(c.pc, "COP0")
	}
	return nil
}

func opNOP(c *CPU) error { return nil }
