package txflash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Recovery table completeness (§8, §4.3): all four (EMPTY/RECORD) x
// (EMPTY/RECORD) boot combinations must produce the outcome the table
// names, including the RECORD/RECORD tie-break toward bank1.
func TestScan_RecoveryTable(t *testing.T) {
	b0empty := mem(20, 0x00)
	b1empty := mem(20, 0x00)
	result, err := scan[uint16](b0empty, b1empty)
	assert.Nil(t, err)
	assert.Equal(t, scanEmpty, result.state)

	b0record := mem(20, 0x00)
	assert.Nil(t, b0record.WriteChunk(0, []byte{0x01, 4, 0, 'a', 'b', 'c', 'd', 0x00}))
	b1empty2 := mem(20, 0x00)
	result, err = scan[uint16](b0record, b1empty2)
	assert.Nil(t, err)
	assert.Equal(t, scanValid, result.state)
	assert.False(t, result.activeBank)

	b0empty2 := mem(20, 0x00)
	b1record := mem(20, 0x00)
	assert.Nil(t, b1record.WriteChunk(0, []byte{0x01, 4, 0, 'a', 'b', 'c', 'd', 0x00}))
	result, err = scan[uint16](b0empty2, b1record)
	assert.Nil(t, err)
	assert.Equal(t, scanValid, result.state)
	assert.True(t, result.activeBank)

	b0record2 := mem(20, 0x00)
	assert.Nil(t, b0record2.WriteChunk(0, []byte{0x01, 4, 0, 'a', 'a', 'a', 'a', 0x00}))
	b1record2 := mem(20, 0x00)
	assert.Nil(t, b1record2.WriteChunk(0, []byte{0x01, 4, 0, 'b', 'b', 'b', 'b', 0x00}))
	result, err = scan[uint16](b0record2, b1record2)
	assert.Nil(t, err)
	assert.Equal(t, scanValid, result.state)
	assert.True(t, result.activeBank, "RECORD/RECORD must tie-break to bank1")

	// Any other byte-0 combination is invalid.
	b0garbage := mem(20, 0x00)
	assert.Nil(t, b0garbage.WriteChunk(0, []byte{0x42}))
	b1garbage := mem(20, 0x00)
	result, err = scan[uint16](b0garbage, b1garbage)
	assert.Nil(t, err)
	assert.Equal(t, scanInvalid, result.state)
}

// Fast-forward must walk a chain of committed records to the last one.
func TestScan_FastForwardChain(t *testing.T) {
	b0, b1 := mem(64, 0x00), mem(64, 0x00)
	assert.Nil(t, b0.WriteChunk(0, []byte{0x01, 2, 0, 'a', 'a'}))
	assert.Nil(t, b0.WriteChunk(5, []byte{0x01, 2, 0, 'b', 'b'}))
	assert.Nil(t, b0.WriteChunk(10, []byte{0x01, 2, 0, 'c', 'c'}))
	// byte at 15 stays EMPTY (0x00), terminating the chain.

	result, err := scan[uint16](b0, b1)
	assert.Nil(t, err)
	assert.Equal(t, scanValid, result.state)
	assert.Equal(t, uint16(10), result.readPos)
	assert.Equal(t, uint16(15), result.writePos)
}
