package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegFile_R0AlwaysZero(t *testing.T) {
	var f regFile
	f.write(0, 0xDEADBEEF, sizeDoubleword)
	assert.Equal(t, uint64(0), f.read(0))
}

func TestRegFile_MaskedWritePreservesHighBytes(t *testing.T) {
	var f regFile
	f.write(1, 0xFFFFFFFFFFFFFFFF, sizeDoubleword)
	f.write(1, 0x00, sizeByte)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFF00), f[1])
}

func TestRegFile_WriteSignExtended64(t *testing.T) {
	var f regFile
	f.writeSignExtended64(2, -1)
	assert.Equal(t, uint64(0xFFFFFFFFFFFFFFFF), f[2])

	f.writeSignExtended64(3, 1)
	assert.Equal(t, uint64(1), f[3])
}

func TestRegFile_ReadSigned32(t *testing.T) {
	var f regFile
	f[4] = 0xFFFFFFFF00000001
	assert.Equal(t, int64(1), f.readSigned32(4))

	f[5] = 0x00000000FFFFFFFF
	assert.Equal(t, int64(-1), f.readSigned32(5))
}

func TestCP0File_MaskedWrite(t *testing.T) {
	var f cp0File
	f.write(cp0Count, 0xFFFFFFFFFFFFFFFF, sizeDoubleword)
	f.write(cp0Count, 0, sizeWord)
	assert.Equal(t, uint64(0xFFFFFFFF00000000), f[cp0Count])
}
