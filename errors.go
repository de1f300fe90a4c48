package txflash

import "fmt"

// Programmer-error preconditions, not on-flash corruption — corruption is
// recovered silently by reset (see engine.go). ErrNilBank,
// ErrEmptyValueMismatch and ErrPayloadTooLarge are returned by New;
// ErrShortDst is returned by Read.
var (
	ErrNilBank            = addPrefix("bank must not be nil")
	ErrEmptyValueMismatch = addPrefix("bank0 and bank1 report different empty values")
	ErrPayloadTooLarge    = addPrefix("default payload exceeds bank capacity")
	ErrShortDst           = addPrefix("destination buffer shorter than length()")
)

func addPrefix(errStr string) error {
	return fmt.Errorf("txflash: %s", errStr)
}
