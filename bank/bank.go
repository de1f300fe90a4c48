// Package bank defines the flash-bank collaborator contract (§4.1) and
// ships two concrete implementations: an in-memory bank for tests and
// simulation, and a file-backed bank standing in for a real flash sector
// on a host machine. The engine that consumes a Bank never allocates on
// its hot path and never dispatches through an interface it doesn't
// already hold — see the package docs on Position for why the contract is
// generic instead of dynamically typed.
package bank

// Bank is one of the two equal-sized, independently erasable regions the
// commit engine owns. Implementations must uphold the flash invariant
// the engine relies on: WriteChunk is only ever called against a range
// that currently reads back as EmptyValue(), and Erase leaves the whole
// bank reading as EmptyValue() once it returns.
//
// P is the bank's position type; the engine assumes both banks in a pair
// report the same Length and EmptyValue, but correctness only requires
// each bank be at least as large as the largest record ever written to
// it (§4.1). The constraint matches txflash.Position exactly: the three
// exact unsigned kinds, not their ~underlying approximations.
type Bank[P interface {
	uint8 | uint16 | uint32
}] interface {
	// Length reports the bank's fixed byte capacity.
	Length() P

	// EmptyValue is the byte every cell reads as immediately after Erase.
	// It must be identical across both banks in a pair; the engine
	// checks this at construction since Go has no static_assert
	// equivalent for a runtime-supplied interface value (§4.1, §6).
	EmptyValue() byte

	// Erase blocks until every byte in the bank reads as EmptyValue().
	Erase() error

	// ReadChunk copies len(dst) bytes starting at pos into dst. Reading
	// past the bank's length is a caller error.
	ReadChunk(pos P, dst []byte) error

	// WriteChunk programs len(src) bytes at pos. The engine only calls
	// this against ranges that currently read as EmptyValue(); flash
	// cannot program a bit back toward the erased value.
	WriteChunk(pos P, src []byte) error
}
