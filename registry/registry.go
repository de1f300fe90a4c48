// Package registry keeps several independently named commit engines in
// one process — for example, on one device, a "network" configuration
// blob and a "calibration" blob, each on its own bank pair. This is not
// the multi-record storage the core engine's Non-goals exclude: each
// named entry is still exactly one opaque blob behind one two-bank
// engine. The registry only gives a host process somewhere to keep
// several such engines and iterate them deterministically, the same role
// the teacher's btree-backed keydir plays for its (much larger) set of
// live keys.
package registry

import (
	"fmt"

	"github.com/google/btree"

	"github.com/nvflash/txflash"
)

// Handle is a type-erased view of an *txflash.Engine[P] for some
// Position type P, letting engines with different position widths share
// one Registry.
type Handle interface {
	Length() uint64
	Read(dst []byte) error
	Write(payload []byte) bool
	Reset()
}

type engineHandle[P txflash.Position] struct {
	engine *txflash.Engine[P]
}

// Wrap adapts a concrete *txflash.Engine[P] into a Handle so it can be
// registered regardless of its position width.
func Wrap[P txflash.Position](e *txflash.Engine[P]) Handle {
	return engineHandle[P]{engine: e}
}

func (h engineHandle[P]) Length() uint64            { return uint64(h.engine.Length()) }
func (h engineHandle[P]) Read(dst []byte) error     { return h.engine.Read(dst) }
func (h engineHandle[P]) Write(payload []byte) bool { return h.engine.Write(payload) }
func (h engineHandle[P]) Reset()                    { h.engine.Reset() }

type entry struct {
	name   string
	handle Handle
}

func (e *entry) Less(than btree.Item) bool {
	return e.name < than.(*entry).name
}

// Registry is an ordered, name-keyed collection of Handles.
type Registry struct {
	tree *btree.BTree
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{tree: btree.New(32)}
}

// Register adds or replaces the engine known by name.
func (r *Registry) Register(name string, h Handle) {
	r.tree.ReplaceOrInsert(&entry{name: name, handle: h})
}

// Get looks up the engine known by name.
func (r *Registry) Get(name string) (Handle, bool) {
	item := r.tree.Get(&entry{name: name})
	if item == nil {
		return nil, false
	}
	return item.(*entry).handle, true
}

// Names returns every registered name in ascending order.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.tree.Len())
	r.tree.Ascend(func(item btree.Item) bool {
		names = append(names, item.(*entry).name)
		return true
	})
	return names
}

// Dump reads every registered engine's current payload, in ascending
// name order, for diagnostic tooling.
func (r *Registry) Dump() (map[string][]byte, error) {
	out := make(map[string][]byte, r.tree.Len())
	var dumpErr error

	r.tree.Ascend(func(item btree.Item) bool {
		e := item.(*entry)
		buf := make([]byte, e.handle.Length())
		if err := e.handle.Read(buf); err != nil {
			dumpErr = fmt.Errorf("registry: read %q: %w", e.name, err)
			return false
		}
		out[e.name] = buf
		return true
	})

	return out, dumpErr
}
