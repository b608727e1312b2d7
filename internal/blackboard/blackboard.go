// Package blackboard implements the hierarchical, type-tagged key/value
// store that forms the data-flow scope for behavior tree ports and for the
// embedded scripting VM's global environment.
package blackboard

import (
	"sync"

	"dimasbt/internal/port"
)

// Blackboard is a mapping from string key to Entry, optionally chained to a
// parent scope via manual remaps or an autoremap fallback. Each Blackboard
// owns its own entries exclusively; the parent link is a non-owning,
// shared-reference back-edge, sibling blackboards never reference each
// other, so no owned cycle can form.
type Blackboard struct {
	mu        sync.RWMutex
	parent    *Blackboard
	entries   map[string]Entry
	remap     *port.Remapping
	autoremap bool
}

// New creates a root blackboard with no parent.
func New() *Blackboard {
	return &Blackboard{entries: make(map[string]Entry)}
}

// NewChild creates a blackboard scoped under parent, used when the XML
// factory expands a <SubTree>. The child's remap table and autoremap flag
// are configured separately via SetRemap/SetAutoremap as its attributes are
// ingested.
func NewChild(parent *Blackboard) *Blackboard {
	return &Blackboard{entries: make(map[string]Entry), parent: parent, remap: port.NewRemapping()}
}

// SetAutoremap enables or disables implicit same-name fallback to the
// parent scope when no manual remap matches.
func (b *Blackboard) SetAutoremap(enabled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.autoremap = enabled
}

// SetRemap registers a manual local → parent-scope name mapping.
func (b *Blackboard) SetRemap(local, remapped string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.remap == nil {
		b.remap = port.NewRemapping()
	}
	return b.remap.Set(local, remapped)
}

// root walks the parent chain to the topmost blackboard.
func (b *Blackboard) root() *Blackboard {
	cur := b
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// localLookup returns the entry stored under key in this blackboard alone,
// with no remap or parent fallback.
func (b *Blackboard) localLookup(key string) (Entry, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	e, ok := b.entries[key]
	return e, ok
}

// remapTarget returns the manual remap target for local, if any, without
// touching the parent chain.
func (b *Blackboard) remapTarget(local string) (string, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.remap == nil {
		return "", false
	}
	return b.remap.Get(local)
}

func (b *Blackboard) autoremapEnabled() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.autoremap
}

// locate implements the read-path lookup order shared by
// Contains/Get/GetEntry. It never holds two blackboards' locks at once:
// each step releases the current lock before recursing into the parent.
//
// It returns the blackboard that owns the entry, the key under which it is
// stored there, the entry itself, and whether it was found. remapped
// reports the name substitution applied at the first level where one took
// effect, for NotFoundError's diagnostic path.
func (b *Blackboard) locate(key string) (owner *Blackboard, localKey string, entry Entry, found bool, remapped string) {
	if e, ok := b.localLookup(key); ok {
		return b, key, e, true, ""
	}
	if target, ok := b.remapTarget(key); ok {
		if e, ok := b.localLookup(target); ok {
			return b, target, e, true, target
		}
		if b.parent != nil {
			owner, localKey, entry, found, _ := b.parent.locate(target)
			return owner, localKey, entry, found, target
		}
		return nil, "", Entry{}, false, target
	}
	if b.parent != nil && b.autoremapEnabled() {
		return b.parent.locate(key)
	}
	return nil, "", Entry{}, false, ""
}

// locateForWrite implements the simpler resolution set and delete share,
// which differs from the read path in one deliberate way: a manual remap
// is followed only into the PARENT scope, never to a same-scope entry
// that happens to carry the remapped name. Reads may fall back to such a
// sibling entry; a write must not, or it would clobber unrelated local
// state whose name merely collides with the remap target.
func (b *Blackboard) locateForWrite(key string) (owner *Blackboard, localKey string, entry Entry, found bool, remapped string) {
	if e, ok := b.localLookup(key); ok {
		return b, key, e, true, ""
	}
	if target, ok := b.remapTarget(key); ok {
		if b.parent != nil {
			owner, localKey, entry, found, _ := b.parent.locateForWrite(target)
			return owner, localKey, entry, found, target
		}
		return nil, "", Entry{}, false, target
	}
	if b.parent != nil && b.autoremapEnabled() {
		return b.parent.locateForWrite(key)
	}
	return nil, "", Entry{}, false, ""
}

// resolveForWrite is locateForWrite with the root-escape ("@key") prefix
// handled.
func (b *Blackboard) resolveForWrite(key string) (owner *Blackboard, localKey string, entry Entry, found bool, remapped string) {
	if stripped, ok := port.IsRootEscape(key); ok {
		return b.root().locateForWrite(stripped)
	}
	return b.locateForWrite(key)
}

// createTarget picks the blackboard and local key under which a NEW entry
// for key should be created: a root-escape goes to the chain's root, a
// manual remap redirects into the parent scope under the remapped name
// (chaining across further boundaries), and everything else creates here.
// Autoremap deliberately does not redirect creates, it is a lookup
// fallback for keys the parent already holds, not an aliasing rule.
func (b *Blackboard) createTarget(key string) (*Blackboard, string) {
	if stripped, ok := port.IsRootEscape(key); ok {
		return b.root(), stripped
	}
	if target, ok := b.remapTarget(key); ok {
		if b.parent != nil {
			return b.parent.createTarget(target)
		}
		return b, target
	}
	return b, key
}

// resolve is locate with the root-escape ("@key") prefix handled.
func (b *Blackboard) resolve(key string) (owner *Blackboard, localKey string, entry Entry, found bool, remapped string) {
	if stripped, ok := port.IsRootEscape(key); ok {
		return b.root().locate(stripped)
	}
	return b.locate(key)
}

func notFoundPath(key, remapped string) string {
	if remapped == "" {
		return key
	}
	return key + "/" + remapped
}

// Contains reports whether key resolves to an entry anywhere along the
// lookup chain.
func (b *Blackboard) Contains(key string) bool {
	_, _, _, found, _ := b.resolve(key)
	return found
}

// GetEntry returns the raw Entry resolved for key, if any.
func (b *Blackboard) GetEntry(key string) (Entry, bool) {
	_, _, entry, found, _ := b.resolve(key)
	return entry, found
}

// deleteLocal removes key from b's own entries, returning the prior entry.
func (b *Blackboard) deleteLocal(key string) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if ok {
		delete(b.entries, key)
	}
	return e, ok
}

// storeLocal writes value under key in b's own entries, returning the prior
// entry if one existed.
func (b *Blackboard) storeLocal(key string, e Entry) (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	prior, had := b.entries[key]
	b.entries[key] = e
	return prior, had
}

// Dump returns a snapshot of this blackboard's own entries (not its
// ancestors'), keyed by local name, for diagnostic inspection, e.g. the
// factory's validate --dump-blackboard mode.
func (b *Blackboard) Dump() map[string]Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make(map[string]Entry, len(b.entries))
	for k, v := range b.entries {
		out[k] = v
	}
	return out
}
