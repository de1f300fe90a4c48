// Package txflash implements the log-structured two-sector transactional
// commit engine: on-flash record format, boot-time recovery scan, and
// two-bank ping-pong write protocol described in this repository's
// specification. It is the entire subject of that specification; the
// bank package supplies concrete Bank implementations, and the metrics,
// config, and registry packages wire the engine up for a host process.
package txflash

import (
	"go.uber.org/zap"

	"github.com/nvflash/txflash/bank"
)

// Engine is the transactional store of a single opaque configuration
// blob over two flash banks. Its entire mutable state is four cursors:
// which bank is active for reads and writes, and where within it the
// current record and the next write position sit (§3).
//
// P fixes sizeL, the on-flash width of a record's length field, at the
// Go type level — the same role a C++ template parameter plays in the
// reference implementation. A log written by an Engine[uint16] cannot be
// read by an Engine[uint32] (§6).
type Engine[P Position] struct {
	bank0, bank1 bank.Bank[P]

	activeBank bool // false = bank0 is both read and write bank, true = bank1
	readPos    P
	writePos   P

	defaultPayload []byte

	opts options
}

// New constructs an Engine over bank0 and bank1, taking ownership of
// both for the engine's lifetime. defaultPayload is stored by reference,
// not copied (§3) — the caller must keep it alive at least until reset is
// no longer reachable. Construction never fails due to on-flash
// corruption; it fails only for a programmer-error precondition: a nil
// bank, banks reporting different erased values, or a default payload
// too large for either bank to ever hold.
func New[P Position](bank0, bank1 bank.Bank[P], defaultPayload []byte, opts ...Option) (*Engine[P], error) {
	if bank0 == nil || bank1 == nil {
		return nil, ErrNilBank
	}
	if bank0.EmptyValue() != bank1.EmptyValue() {
		return nil, ErrEmptyValueMismatch
	}

	sizeL := uint64(positionWidth[P]())
	need := 1 + sizeL + uint64(len(defaultPayload)) + 1
	if minLen(bank0.Length(), bank1.Length()) < need {
		return nil, ErrPayloadTooLarge
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine[P]{
		bank0:          bank0,
		bank1:          bank1,
		defaultPayload: defaultPayload,
		opts:           o,
	}

	result, err := scan[P](bank0, bank1)
	if err != nil {
		fault("recovery scan", err)
	}

	switch result.state {
	case scanValid:
		e.activeBank = result.activeBank
		e.readPos = result.readPos
		e.writePos = result.writePos
		e.opts.logger.Debug("txflash: recovered valid log",
			zap.Bool("bank1", e.activeBank), zap.Uint64("read_pos", uint64(e.readPos)))

	case scanEmpty:
		e.opts.logger.Debug("txflash: empty flash, writing default payload")
		e.write(defaultPayload)

	case scanInvalid:
		e.opts.metrics.Corruptions.Inc()
		e.opts.logger.Warn("txflash: corrupt log detected at boot, resetting to default")
		e.Reset()
	}

	return e, nil
}

// Length reports the current record's payload length, re-read from flash
// on every call rather than cached (§4.5).
func (e *Engine[P]) Length() P {
	activeBank := e.activeBankHandle()
	length, err := readLength[P](activeBank, e.readPos)
	if err != nil {
		fault("length", err)
	}
	return length
}

// Read copies the current record's payload into dst, which must be at
// least Length() bytes long.
func (e *Engine[P]) Read(dst []byte) error {
	activeBank := e.activeBankHandle()
	length, err := readLength[P](activeBank, e.readPos)
	if err != nil {
		fault("read", err)
	}
	if uint64(len(dst)) < uint64(length) {
		return ErrShortDst
	}
	if err := readPayload[P](activeBank, e.readPos, length, dst); err != nil {
		fault("read", err)
	}
	return nil
}

// Write stores a new configuration payload, appending after the current
// record if the active bank has room, or migrating to the other bank
// otherwise (§4.4). It returns false only when payload cannot fit in
// either bank even with the mandatory trailing terminator byte; in that
// case engine state is unchanged.
func (e *Engine[P]) Write(payload []byte) bool {
	sizeL := uint64(positionWidth[P]())
	need := 1 + sizeL + uint64(len(payload)) + 1

	if minLen(e.bank0.Length(), e.bank1.Length()) < need {
		return false
	}

	return e.write(payload)
}

// write is the recursive commit engine (§4.4). The capacity check has
// already run in Write for the outward-facing call; the recursive calls
// made from the ping-pong path always succeed because write_position ==
// 0 in a freshly erased bank guarantees the fast path fits, given that
// same precondition.
func (e *Engine[P]) write(payload []byte) bool {
	sizeL := uint64(positionWidth[P]())
	need := 1 + sizeL + uint64(len(payload)) + 1

	activeBank := e.activeBankHandle()
	if uint64(remaining(activeBank.Length(), e.writePos)) >= need {
		if err := emit[P](activeBank, e.writePos, payload); err != nil {
			fault("write", err)
		}

		e.readPos = e.writePos
		e.writePos = e.writePos + P(1+sizeL) + P(len(payload))
		// readBank == writeBank is already true: both are activeBank.

		e.opts.metrics.Commits.Inc()
		return true
	}

	// Ping-pong: migrate the write cursor to the other bank (§4.4).
	targetBank1 := !e.activeBank
	e.opts.metrics.PingPongs.Inc()
	e.opts.logger.Info("txflash: bank full, migrating", zap.Bool("target_bank1", targetBank1))

	e.writePos = 0

	var ok bool
	if targetBank1 {
		if err := e.bank1.Erase(); err != nil {
			fault("erase", err)
		}
		e.activeBank = true
		ok = e.write(payload)
		// Bank0 is deliberately left untouched: leaving both banks with
		// valid headers is the recovery-safe intermediate state (§4.4).
	} else {
		if err := e.bank0.Erase(); err != nil {
			fault("erase", err)
		}
		e.activeBank = false
		ok = e.write(payload)
		if ok {
			if err := e.bank1.Erase(); err != nil {
				fault("erase", err)
			}
		}
	}

	return ok
}

// Reset erases both banks and reinstates the default payload, discarding
// any prior record. It is called automatically at construction when the
// recovery scan finds the log unreadable (§4.5, §7.2); callers may also
// invoke it directly to force a factory reset.
func (e *Engine[P]) Reset() {
	if err := e.bank0.Erase(); err != nil {
		fault("reset", err)
	}
	if err := e.bank1.Erase(); err != nil {
		fault("reset", err)
	}

	e.activeBank = false
	e.readPos = 0
	e.writePos = 0

	e.opts.metrics.Resets.Inc()

	e.write(e.defaultPayload)
}

func (e *Engine[P]) activeBankHandle() bank.Bank[P] {
	if e.activeBank {
		return e.bank1
	}
	return e.bank0
}

func minLen[P Position](a, b P) uint64 {
	if a < b {
		return uint64(a)
	}
	return uint64(b)
}
