package txflash

import "fmt"

// FlashFault is what the engine panics with when a Bank returns an error
// from Erase, ReadChunk, or WriteChunk. Per §7.3, a hardware fault during
// erase or program is fatal and the engine has no recovery path — the
// bank collaborator is meant to decide the response (the reference driver
// invokes a system-level error handler that never returns). A Go Bank
// implementation that can only report the fault rather than halt the
// process still needs the engine to stop touching a bank whose state it
// can no longer trust; panicking with FlashFault is that stop, and a host
// process that wants a clean shutdown can recover it at its own
// boundary with a deferred recover() around the call into this package.
type FlashFault struct {
	Op  string
	Err error
}

func (f FlashFault) Error() string {
	return fmt.Sprintf("txflash: fatal flash fault during %s: %v", f.Op, f.Err)
}

func (f FlashFault) Unwrap() error {
	return f.Err
}

func fault(op string, err error) {
	if err != nil {
		panic(FlashFault{Op: op, Err: err})
	}
}
