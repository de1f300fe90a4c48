package txflash

import "github.com/nvflash/txflash/bank"

// Record layout (§3), contiguous bytes starting at some position P within
// one bank:
//
//	P             : header byte (RECORD)
//	P+1           : length L, little-endian, sizeL bytes
//	P+1+sizeL     : L payload bytes
//	P+1+sizeL+L   : next header (RECORD of the following record, or EMPTY)
//
// emit and readHeaderByte/readLength are pure byte-layout operations; the
// recovery scanner (scanner.go) and the commit engine (engine.go) own the
// bounds checks and cursor bookkeeping that give those bytes their
// meaning.

// emit writes one complete record at pos: length, then payload, then the
// header byte last. The header-last ordering is the commit point (§4.2):
// a crash before the header store leaves an EMPTY byte at pos, so the
// record does not exist on recovery. The caller (Engine.write) is
// responsible for having already verified the record fits.
func emit[P Position](b bank.Bank[P], pos P, payload []byte) error {
	sizeL := positionWidth[P]()
	lenBuf := make([]byte, sizeL)
	putPosition(lenBuf, P(len(payload)))

	if err := b.WriteChunk(pos+1, lenBuf); err != nil {
		return err
	}
	if len(payload) > 0 {
		if err := b.WriteChunk(pos+1+P(sizeL), payload); err != nil {
			return err
		}
	}
	return b.WriteChunk(pos, []byte{byte(recordHeader(b.EmptyValue()))})
}

// readHeaderByte reads the single header byte at pos.
func readHeaderByte[P Position](b bank.Bank[P], pos P) (header, error) {
	buf := make([]byte, 1)
	if err := b.ReadChunk(pos, buf); err != nil {
		return 0, err
	}
	return header(buf[0]), nil
}

// readLength reads the sizeL-byte little-endian length field that follows
// the header byte at pos.
func readLength[P Position](b bank.Bank[P], pos P) (P, error) {
	sizeL := positionWidth[P]()
	buf := make([]byte, sizeL)
	if err := b.ReadChunk(pos+1, buf); err != nil {
		return 0, err
	}
	return getPosition[P](buf), nil
}

// readPayload copies the length bytes of payload starting after a
// record's header and length field at pos.
func readPayload[P Position](b bank.Bank[P], pos P, length P, dst []byte) error {
	sizeL := positionWidth[P]()
	return b.ReadChunk(pos+1+P(sizeL), dst[:length])
}
