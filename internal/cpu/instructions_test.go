package cpu

import (
	stderrors "errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nullLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func newBareCPU() *CPU {
	return &CPU{log: nullLogger()}
}

func encodeI(op, rs, rt byte, imm uint16) word {
	return word(uint32(op)<<26 | uint32(rs)<<21 | uint32(rt)<<16 | uint32(imm))
}

func encodeR(rs, rt, rd, sa, funct byte) word {
	return word(uint32(rs)<<21 | uint32(rt)<<16 | uint32(rd)<<11 | uint32(sa)<<6 | uint32(funct))
}

func encodeJ(op byte, target uint32) word {
	return word(uint32(op)<<26 | (target & 0x03FFFFFF))
}

func TestADDI_Overflow_LeavesDestinationUnmodified(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0001),
		fetchedRs: uint64(uint32(0x7FFFFFFF)),
	}
	c.gpr.write(2, 0x1234, sizeDoubleword)

	err := opADDI(c)
	require.Error(t, err)

	var overflow *IntegerOverflowError
	require.True(t, stderrors.As(err, &overflow))
	assert.Equal(t, uint64(0x1234), c.gpr.read(2))
}

func TestADDIU_NoOverflowTrap(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0001),
		fetchedRs: uint64(uint32(0x7FFFFFFF)),
	}

	require.NoError(t, opADDIU(c))
	assert.Equal(t, uint64(0xFFFFFFFF80000000), c.gpr.read(2))
}

func TestSUB_Overflow(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeR(1, 2, 3, 0, 0),
		fetchedRs: uint64(uint32(0x80000000)),
		fetchedRt: uint64(uint32(1)),
	}
	err := opSUB(c)
	require.Error(t, err)
	var overflow *IntegerOverflowError
	require.True(t, stderrors.As(err, &overflow))
}

func TestSLTIU_ComparesSigned(t *testing.T) {
	// Mirrors a known quirk: SLTIU compares as signed despite the name.
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0001), // imm = 1
		fetchedRs: ^uint64(0),                // -1 signed
	}
	require.NoError(t, opSLTIU(c))
	assert.Equal(t, uint64(1), c.gpr.read(2)) // -1 < 1 as signed
}

func TestLB_DelegatesToLBU(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0004),
		fetchedRs: 0x1000,
	}
	require.NoError(t, opLB(c))
	assert.Equal(t, effectLateLoad, c.ex.kind)
	assert.Equal(t, sizeByte, c.ex.sz)
	assert.Equal(t, uint32(0x1004), c.ex.vaddr)
}

func TestLH_UnalignedAddressError(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0001),
		fetchedRs: 0,
	}
	err := opLH(c)
	require.Error(t, err)
	var addrErr *InstructionAddressError
	require.True(t, stderrors.As(err, &addrErr))
}

func TestSH_ChecksVirtualAddress(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0001),
		fetchedRs: 0,
		fetchedRt: 0xBEEF,
	}
	err := opSH(c)
	require.Error(t, err)
	var addrErr *InstructionAddressError
	require.True(t, stderrors.As(err, &addrErr))
}

func TestBEQL_AnnulsDelaySlotWhenNotTaken(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0004),
		fetchedRs: 1,
		fetchedRt: 2,
	}
	c.icrf.instr = encodeI(0o11, 0, 3, 1) // a pending delay-slot instruction (ADDIU r3, r0, 1)
	require.NoError(t, opBEQL(c))
	assert.Equal(t, word(0), c.icrf.instr)
}

func TestBEQL_BranchesWhenTaken(t *testing.T) {
	c := newBareCPU()
	c.pc = 0x1000
	c.rfex = rfexLatch{
		instr:     encodeI(0, 1, 2, 0x0004),
		fetchedRs: 5,
		fetchedRt: 5,
	}
	require.NoError(t, opBEQL(c))
	assert.Equal(t, uint32(0x1000-4+(4<<2)), c.pc)
}

func TestTGE_TrapsWhenConditionMet(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{fetchedRs: 5, fetchedRt: 3}
	err := opTGE(c)
	require.Error(t, err)
	var trap *TrapException
	require.True(t, stderrors.As(err, &trap))
}

func TestTGE_NoTrapWhenConditionNotMet(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{fetchedRs: 1, fetchedRt: 3}
	require.NoError(t, opTGE(c))
}

func TestCOP0_MTC0ThenMFC0Roundtrips(t *testing.T) {
	c := newBareCPU()
	c.gpr.write(5, 0x1234, sizeDoubleword)
	c.rfex = rfexLatch{instr: encodeR(0, 6, 5, 0, 0)} // rd=5 (src), rt=6 (dst cp0)
	require.NoError(t, dispatchCOP0MTC0(c))
	assert.Equal(t, uint64(0x1234), c.cp0.read(6))

	c.rfex = rfexLatch{instr: encodeR(0, 7, 6, 0, 0)} // rd=6 (src cp0), rt=7 (dst gpr)
	require.NoError(t, dispatchCOP0MFC0(c))
	assert.Equal(t, uint64(0x1234), c.gpr.read(7))
}

// dispatchCOP0MTC0/MFC0 build the rs-field-tagged word opCOP0Handler expects.
func dispatchCOP0MTC0(c *CPU) error {
	c.rfex.instr = word(uint32(c.rfex.instr) | uint32(cop0MTC0)<<21)
	return opCOP0Handler(c)
}

func dispatchCOP0MFC0(c *CPU) error {
	c.rfex.instr = word(uint32(c.rfex.instr) | uint32(cop0MFC0)<<21)
	return opCOP0Handler(c)
}

func TestCOP0_UnrecognizedSubFunctionReservedInstruction(t *testing.T) {
	c := newBareCPU()
	c.pc = 0x80002000
	const cfc0 = 0b00010 // CFC0 rs encoding, not given semantics by this core
	c.rfex = rfexLatch{instr: word(uint32(encodeR(0, 6, 5, 0, 0)) | uint32(cfc0)<<21)}

	err := opCOP0Handler(c)
	require.Error(t, err)
	var reserved *ReservedInstructionError
	require.True(t, stderrors.As(err, &reserved))
	assert.Equal(t, uint32(0x80002000), reserved.PC())
}

func TestNotImplementedOp_CarriesPCAndOpcode(t *testing.T) {
	c := newBareCPU()
	c.pc = 0x80001000
	c.rfex.instr = encodeR(0, 0, 0, 0, 0o14) // SYSCALL
	err := dispatchSpecial(c)
	require.Error(t, err)
	var ni *NotImplementedError
	require.True(t, stderrors.As(err, &ni))
	assert.Equal(t, uint32(0x80001000), ni.PC())
}
