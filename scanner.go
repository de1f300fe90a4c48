package txflash

import "github.com/nvflash/txflash/bank"

// scanState is the recovery scanner's outcome (§4.3).
type scanState int

const (
	scanEmpty scanState = iota
	scanValid
	scanInvalid
)

// scanResult carries the cursors the scanner reconstructed, valid only
// when state == scanValid.
type scanResult[P Position] struct {
	state      scanState
	activeBank bool // false = bank0, true = bank1
	readPos    P
	writePos   P
}

// scan runs the recovery scanner exactly once, at construction (§4.3).
// It never returns a Go error for on-flash corruption — that is reported
// as scanInvalid, per the engine's contract that a constructed instance
// is always in a consistent state (§7.2). A non-nil error return means a
// bank I/O failure, which the caller treats as a flash fault (§7.3).
func scan[P Position](bank0, bank1 bank.Bank[P]) (scanResult[P], error) {
	h0, err := readHeaderByte[P](bank0, 0)
	if err != nil {
		return scanResult[P]{}, err
	}
	h1, err := readHeaderByte[P](bank1, 0)
	if err != nil {
		return scanResult[P]{}, err
	}

	empty0 := emptyHeader(bank0.EmptyValue())
	record0 := recordHeader(bank0.EmptyValue())
	empty1 := emptyHeader(bank1.EmptyValue())
	record1 := recordHeader(bank1.EmptyValue())

	switch {
	case h0 == empty0 && h1 == empty1:
		return scanResult[P]{state: scanEmpty}, nil

	case h0 == empty0 && h1 == record1:
		return fastForward[P](bank1, true)

	case h0 == record0 && h1 == empty1:
		return fastForward[P](bank0, false)

	case h0 == record0 && h1 == record1:
		// Both banks hold a valid opening record. This arises only from
		// a crash between committing a record in the new bank and
		// erasing the old one (§4.4); the newer data is always in
		// Bank1 by the ping-pong discipline, so Bank1 is the correct
		// choice. This tie-break must not be changed.
		return fastForward[P](bank1, true)

	default:
		return scanResult[P]{state: scanInvalid}, nil
	}
}

// fastForward walks RECORD -> RECORD chains in the selected bank until it
// finds an EMPTY terminator (§4.3 step 2).
func fastForward[P Position](b bank.Bank[P], activeBank bool) (scanResult[P], error) {
	sizeL := uint64(positionWidth[P]())
	var readPos P = 0

	for {
		if uint64(remaining(b.Length(), readPos)) < 1+sizeL+1 {
			return scanResult[P]{state: scanInvalid}, nil
		}

		length, err := readLength[P](b, readPos)
		if err != nil {
			return scanResult[P]{}, err
		}

		if uint64(remaining(b.Length(), readPos)) < 1+sizeL+uint64(length)+1 {
			return scanResult[P]{state: scanInvalid}, nil
		}

		writePos := readPos + P(1+sizeL) + length
		nextHeader, err := readHeaderByte[P](b, writePos)
		if err != nil {
			return scanResult[P]{}, err
		}

		switch nextHeader {
		case emptyHeader(b.EmptyValue()):
			return scanResult[P]{
				state:      scanValid,
				activeBank: activeBank,
				readPos:    readPos,
				writePos:   writePos,
			}, nil
		case recordHeader(b.EmptyValue()):
			readPos = writePos
		default:
			return scanResult[P]{state: scanInvalid}, nil
		}
	}
}

// remaining computes bankLen - pos without wrapping when pos exceeds
// bankLen (which a well-formed bank never does, but a corrupted one
// might claim to via a bogus length field).
func remaining[P Position](bankLen, pos P) P {
	if pos > bankLen {
		return 0
	}
	return bankLen - pos
}
