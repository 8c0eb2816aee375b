// Package floor tracks the live state of a restaurant's service units:
// tables on the floor and customer tabs. The registry is the in-memory
// view the terminals render from; the repository is its database source.
package floor

import (
	"sync"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/pkg/db/models"
	"github.com/mesalivre/pos-backend/pkg/enums"
)

// UnitKind distinguishes the two service-unit collections.
type UnitKind string

const (
	KindTable UnitKind = "table"
	KindTab   UnitKind = "tab"
)

// UnitKey identifies one service unit across both collections.
type UnitKey struct {
	Kind UnitKind
	ID   uuid.UUID
}

// TableKey builds a key for a floor table.
func TableKey(id uuid.UUID) UnitKey { return UnitKey{Kind: KindTable, ID: id} }

// TabKey builds a key for a customer tab.
func TabKey(id uuid.UUID) UnitKey { return UnitKey{Kind: KindTab, ID: id} }

// Unit is the rendered view of one service unit: its stored state with
// any optimistic override applied, plus the count of kitchen-ready items.
type Unit struct {
	Key           UnitKey
	Number        int
	Status        enums.UnitStatus
	Capacity      *int
	CustomerName  *string
	CustomerPhone *string
	ReadyItems    int
}

// Snapshot is a consistent view of both collections at one version.
type Snapshot struct {
	Version uint64
	Tables  []Unit
	Tabs    []Unit
}

// Registry holds the last full refetch of tables and tabs together with
// the ready-item counts and optimistic status overrides. Overrides make
// a submit or close visible immediately and expire on the next full
// replace, when the database state catches up.
type Registry struct {
	mu        sync.RWMutex
	tables    []models.Table
	tabs      []models.Tab
	ready     map[UnitKey]int
	overrides map[UnitKey]enums.UnitStatus
	version   uint64
	onReplace []func()
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		ready:     make(map[UnitKey]int),
		overrides: make(map[UnitKey]enums.UnitStatus),
	}
}

// Replace swaps in a full refetch of both collections. All optimistic
// overrides expire: the stored rows are now authoritative. Replace
// hooks run after the swap, outside the registry lock.
func (r *Registry) Replace(tables []models.Table, tabs []models.Tab) {
	r.mu.Lock()
	r.tables = tables
	r.tabs = tabs
	r.overrides = make(map[UnitKey]enums.UnitStatus)
	r.version++
	hooks := r.onReplace
	r.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
}

// OnReplace registers fn to run after every full replace, so callers
// can reconcile their own state against the refreshed one.
func (r *Registry) OnReplace(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onReplace = append(r.onReplace, fn)
}

// ReplaceReady rebuilds the ready-item map from scratch. Units absent
// from counts drop to zero, so served items stop being announced.
func (r *Registry) ReplaceReady(counts map[UnitKey]int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ready = make(map[UnitKey]int, len(counts))
	for key, n := range counts {
		if n > 0 {
			r.ready[key] = n
		}
	}
	r.version++
}

// SetOverride flips a unit's displayed status ahead of the database,
// keeping the floor responsive while the write settles.
func (r *Registry) SetOverride(key UnitKey, status enums.UnitStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[key] = status
	r.version++
}

// Version increments on every change; clients compare it to skip
// re-rendering an unchanged floor.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Snapshot renders both collections with overrides and ready counts
// applied.
func (r *Registry) Snapshot() Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := Snapshot{
		Version: r.version,
		Tables:  make([]Unit, 0, len(r.tables)),
		Tabs:    make([]Unit, 0, len(r.tabs)),
	}
	for _, table := range r.tables {
		key := TableKey(table.ID)
		snap.Tables = append(snap.Tables, Unit{
			Key:        key,
			Number:     table.Number,
			Status:     r.statusFor(key, table.Status),
			Capacity:   table.Capacity,
			ReadyItems: r.ready[key],
		})
	}
	for _, tab := range r.tabs {
		key := TabKey(tab.ID)
		snap.Tabs = append(snap.Tabs, Unit{
			Key:           key,
			Number:        tab.Number,
			Status:        r.statusFor(key, tab.Status),
			CustomerName:  tab.CustomerName,
			CustomerPhone: tab.CustomerPhone,
			ReadyItems:    r.ready[key],
		})
	}
	return snap
}

// Find returns the rendered unit for key, or nil when unknown.
func (r *Registry) Find(key UnitKey) *Unit {
	snap := r.Snapshot()
	units := snap.Tables
	if key.Kind == KindTab {
		units = snap.Tabs
	}
	for i := range units {
		if units[i].Key == key {
			return &units[i]
		}
	}
	return nil
}

func (r *Registry) statusFor(key UnitKey, stored enums.UnitStatus) enums.UnitStatus {
	if override, ok := r.overrides[key]; ok {
		return override
	}
	return stored
}
