package bank

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMemoryBank_ErasedOnCreation(t *testing.T) {
	m := NewMemoryBank[uint16](8, 0xFF)
	assert.Equal(t, uint16(8), m.Length())
	assert.Equal(t, byte(0xFF), m.EmptyValue())
	assert.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, m.Snapshot())
}

func TestMemoryBank_WriteReadRoundTrip(t *testing.T) {
	m := NewMemoryBank[uint16](8, 0x00)
	assert.Nil(t, m.WriteChunk(2, []byte{1, 2, 3}))

	got := make([]byte, 3)
	assert.Nil(t, m.ReadChunk(2, got))
	assert.Equal(t, []byte{1, 2, 3}, got)
}

func TestMemoryBank_OutOfRange(t *testing.T) {
	m := NewMemoryBank[uint16](4, 0x00)
	assert.Error(t, m.WriteChunk(2, []byte{1, 2, 3}))
	assert.Error(t, m.ReadChunk(2, make([]byte, 3)))
}

func TestMemoryBank_EraseResetsToEmptyValue(t *testing.T) {
	m := NewMemoryBank[uint16](4, 0x00)
	assert.Nil(t, m.WriteChunk(0, []byte{1, 2, 3, 4}))
	assert.Nil(t, m.Erase())
	assert.Equal(t, []byte{0, 0, 0, 0}, m.Snapshot())
}

func TestMemoryBank_SnapshotRestore(t *testing.T) {
	m := NewMemoryBank[uint16](4, 0x00)
	assert.Nil(t, m.WriteChunk(0, []byte{9, 9}))
	snap := m.Snapshot()

	m2 := NewMemoryBank[uint16](4, 0x00)
	m2.Restore(snap[:1])
	assert.Equal(t, []byte{9, 0, 0, 0}, m2.Snapshot())
}
