package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMnemonic_NamesPrimaryAndSpecialOpcodes(t *testing.T) {
	assert.Equal(t, "NOP", mnemonic(word(0)))
	assert.Equal(t, "ADDI", mnemonic(encodeI(0o10, 1, 2, 5)))
	assert.Equal(t, "ADD", mnemonic(encodeR(1, 2, 3, 0, 0o40)))
	assert.Equal(t, "JR", mnemonic(encodeR(1, 0, 0, 0, 0o10)))
}

func TestMnemonic_UnknownFunctFallsBackToRawDump(t *testing.T) {
	// funct 0o05 is unassigned in both specialTable and specialMnemonic.
	got := mnemonic(encodeR(0, 0, 0, 0, 0o05))
	assert.Contains(t, got, "SPECIAL")
	assert.Contains(t, got, "5")
}

func TestTraceStep_NoPanicWhenLoggerBelowDebug(t *testing.T) {
	c := newBareCPU()
	c.rfex = rfexLatch{instr: encodeI(0o10, 1, 2, 5)}
	assert.NotPanics(t, func() { c.traceStep() })
}

func TestRegisters_ReportsAllGPRs(t *testing.T) {
	c := newBareCPU()
	c.gpr.write(1, 0x1234, sizeDoubleword)
	dump := c.Registers()
	assert.Contains(t, dump, "r1 ")
	assert.Contains(t, dump, "0x")
	assert.Contains(t, dump, "1234")
}
