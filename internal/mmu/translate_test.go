package mmu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate_Kseg0MapsDirectly(t *testing.T) {
	tr := New()
	paddr, cached, err := tr.Translate(0x80001000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000), paddr)
	assert.False(t, cached)
}

func TestTranslate_Kseg1MapsDirectlyAndUncached(t *testing.T) {
	tr := New()
	paddr, cached, err := tr.Translate(0xA0001000)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000), paddr)
	assert.False(t, cached)
}

func TestTranslate_Kseg0AndKseg1CollapseToSamePhysical(t *testing.T) {
	tr := New()
	p0, _, err := tr.Translate(0x80123456)
	require.NoError(t, err)
	p1, _, err := tr.Translate(0xA0123456)
	require.NoError(t, err)
	assert.Equal(t, p0, p1)
}

func TestTranslate_OutsideKsegReturnsNotImplemented(t *testing.T) {
	tr := New()
	_, _, err := tr.Translate(0x00001000) // kuseg
	require.Error(t, err)
	var notImpl *NotImplementedError
	require.ErrorAs(t, err, &notImpl)
	assert.Equal(t, uint32(0x00001000), notImpl.VAddr)
}

func TestTranslate_AboveKseg1ReturnsNotImplemented(t *testing.T) {
	tr := New()
	_, _, err := tr.Translate(0xC0000000)
	require.Error(t, err)
	var notImpl *NotImplementedError
	require.ErrorAs(t, err, &notImpl)
}
