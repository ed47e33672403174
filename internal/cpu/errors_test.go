package cpu

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewIntegerOverflow_CarriesPCAndOpcode(t *testing.T) {
	err := newIntegerOverflow(0x80001234, "ADD")
	var overflow *IntegerOverflowError
	require.True(t, stderrors.As(err, &overflow))
	assert.Equal(t, uint32(0x80001234), overflow.PC())
	assert.Equal(t, "ADD", overflow.Opcode())
}

func TestWrapStage_PreservesUnderlyingType(t *testing.T) {
	inner := newTrapException(0x80000100, "TGE")
	wrapped := wrapStage(inner, 0x80000100, "instr=0x00000000")

	var trap *TrapException
	require.True(t, stderrors.As(wrapped, &trap))
	assert.Equal(t, "TGE", trap.Opcode())
}

func TestWrapStage_NilIsNil(t *testing.T) {
	assert.NoError(t, wrapStage(nil, 0, ""))
}
