package bank

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileBank is an os.File-backed Bank standing in for a real flash sector
// on a host machine — the "reference driver" a CLI tool or a
// crash-injection test runs against, in the same spirit as the teacher's
// fio.FileIO wrapping an *os.File for its data files.
//
// Opening a FileBank takes an exclusive advisory lock on a sidecar
// "<path>.lock" file so two host processes never treat the same sector
// image as theirs simultaneously; the flash hardware itself enforces
// this for free, a plain file on a shared filesystem does not.
type FileBank[P interface {
	uint8 | uint16 | uint32
}] struct {
	empty byte
	size  P

	fd   *os.File
	lock *flock.Flock
}

// OpenFileBank opens (creating if absent) a file of exactly size bytes at
// path to back a bank. A freshly created file is filled with empty; an
// existing file is left as-is, so a process restart sees whatever was
// last durably written — the whole point of the engine this bank serves.
func OpenFileBank[P interface{ uint8 | uint16 | uint32 }](path string, size P, empty byte) (*FileBank[P], error) {
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("bank: lock %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("bank: %s is locked by another process", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("bank: create dir for %s: %w", path, err)
	}

	created := false
	if _, err := os.Stat(path); os.IsNotExist(err) {
		created = true
	}

	fd, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("bank: open %s: %w", path, err)
	}

	fb := &FileBank[P]{empty: empty, size: size, fd: fd, lock: lock}

	if created {
		if err := fb.Erase(); err != nil {
			_ = fd.Close()
			_ = lock.Unlock()
			return nil, err
		}
	}

	return fb, nil
}

func (f *FileBank[P]) Length() P {
	return f.size
}

func (f *FileBank[P]) EmptyValue() byte {
	return f.empty
}

func (f *FileBank[P]) Erase() error {
	buf := make([]byte, f.size)
	for i := range buf {
		buf[i] = f.empty
	}
	if _, err := f.fd.WriteAt(buf, 0); err != nil {
		return fmt.Errorf("bank: erase: %w", err)
	}
	return f.fd.Sync()
}

func (f *FileBank[P]) ReadChunk(pos P, dst []byte) error {
	if int64(pos)+int64(len(dst)) > int64(f.size) {
		return fmt.Errorf("bank: read [%d:%d] out of range (len=%d)", pos, int64(pos)+int64(len(dst)), f.size)
	}
	_, err := f.fd.ReadAt(dst, int64(pos))
	return err
}

func (f *FileBank[P]) WriteChunk(pos P, src []byte) error {
	if int64(pos)+int64(len(src)) > int64(f.size) {
		return fmt.Errorf("bank: write [%d:%d] out of range (len=%d)", pos, int64(pos)+int64(len(src)), f.size)
	}
	if _, err := f.fd.WriteAt(src, int64(pos)); err != nil {
		return err
	}
	return f.fd.Sync()
}

// Close releases the underlying file descriptor and the sidecar lock.
func (f *FileBank[P]) Close() error {
	closeErr := f.fd.Close()
	unlockErr := f.lock.Unlock()
	if closeErr != nil {
		return closeErr
	}
	return unlockErr
}
