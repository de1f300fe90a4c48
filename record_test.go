package txflash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmit_HeaderLast(t *testing.T) {
	b := mem(32, 0x00)
	assert.Nil(t, emit[uint16](b, 0, []byte("payload")))

	snap := b.Snapshot()
	assert.Equal(t, byte(0x01), snap[0], "header must be RECORD after a completed emit")

	length, err := readLength[uint16](b, 0)
	assert.Nil(t, err)
	assert.Equal(t, uint16(len("payload")), length)

	got := make([]byte, length)
	assert.Nil(t, readPayload[uint16](b, 0, length, got))
	assert.Equal(t, "payload", string(got))
}

func TestEmit_ZeroLengthPayload(t *testing.T) {
	b := mem(16, 0x00)
	assert.Nil(t, emit[uint16](b, 0, nil))

	h, err := readHeaderByte[uint16](b, 0)
	assert.Nil(t, err)
	assert.Equal(t, recordHeader(0x00), h)

	length, err := readLength[uint16](b, 0)
	assert.Nil(t, err)
	assert.Equal(t, uint16(0), length)

	// The terminator right after a zero-length record is untouched, and
	// remains the bank's erased value.
	term, err := readHeaderByte[uint16](b, 1+uint16(positionWidth[uint16]()))
	assert.Nil(t, err)
	assert.Equal(t, emptyHeader(0x00), term)
}

func TestPositionWidths(t *testing.T) {
	assert.Equal(t, 1, positionWidth[uint8]())
	assert.Equal(t, 2, positionWidth[uint16]())
	assert.Equal(t, 4, positionWidth[uint32]())

	buf32 := make([]byte, 4)
	putPosition[uint32](buf32, 0x01020304)
	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01}, buf32)
	assert.Equal(t, uint32(0x01020304), getPosition[uint32](buf32))
}
