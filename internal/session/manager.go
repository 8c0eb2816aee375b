package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mesalivre/pos-backend/internal/floor"
	"github.com/mesalivre/pos-backend/pkg/errors"
	"github.com/mesalivre/pos-backend/pkg/logger"
)

// SyncStarter launches the refresh strategies for one restaurant's
// registry. It is called once per restaurant, on first login.
type SyncStarter func(ctx context.Context, restaurantID uuid.UUID, registry *floor.Registry)

type floorState struct {
	registry *floor.Registry
	cancel   context.CancelFunc
}

// Manager owns every live terminal session and one shared floor registry
// per restaurant.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	floors   map[uuid.UUID]*floorState

	startSync SyncStarter
	log       *logger.Logger
}

// NewManager builds an empty session manager.
func NewManager(startSync SyncStarter, log *logger.Logger) *Manager {
	return &Manager{
		sessions:  make(map[string]*Session),
		floors:    make(map[uuid.UUID]*floorState),
		startSync: startSync,
		log:       log,
	}
}

// Create opens a session for an authenticated waiter and ensures the
// restaurant's floor registry is syncing.
func (m *Manager) Create(ctx context.Context, restaurantID, waiterID uuid.UUID) *Session {
	id := uuid.NewString()
	sess := newSession(id, restaurantID, waiterID)

	m.mu.Lock()
	m.sessions[id] = sess
	m.ensureFloorLocked(restaurantID)
	m.mu.Unlock()

	m.log.Info(m.log.WithSessionID(ctx, id), "terminal session opened")
	return sess
}

// Get returns a live session or an unauthorized error.
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	sess, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.CodeUnauthorized, "session expired")
	}
	sess.Touch()
	return sess, nil
}

// HasSession reports whether a session id is still live.
func (m *Manager) HasSession(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[id]
	return ok
}

// Delete removes a session on logout.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Registry returns the shared floor registry for a restaurant, creating
// it on first use.
func (m *Manager) Registry(restaurantID uuid.UUID) *floor.Registry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureFloorLocked(restaurantID)
}

// Sweep drops sessions idle past maxIdle and returns how many fell.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := 0
	for id, sess := range m.sessions {
		if sess.IdleSince().Before(cutoff) {
			delete(m.sessions, id)
			dropped++
		}
	}
	return dropped
}

// Close stops every restaurant's sync loops.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, state := range m.floors {
		if state.cancel != nil {
			state.cancel()
		}
	}
	m.floors = make(map[uuid.UUID]*floorState)
	m.sessions = make(map[string]*Session)
}

// reconcileSessions runs after every full floor refresh. A terminal
// reviewing a unit the refresh reported free lost the race to another
// device; it is pushed back to the floor list.
func (m *Manager) reconcileSessions(restaurantID uuid.UUID, registry *floor.Registry) {
	m.mu.RLock()
	affected := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		if sess.RestaurantID == restaurantID {
			affected = append(affected, sess)
		}
	}
	m.mu.RUnlock()

	for _, sess := range affected {
		if sess.EvictIfStale(registry.Find) {
			m.log.Warn(m.log.WithSessionID(context.Background(), sess.ID), "review unit freed elsewhere, terminal returned to floor")
		}
	}
}

func (m *Manager) ensureFloorLocked(restaurantID uuid.UUID) *floor.Registry {
	if state, ok := m.floors[restaurantID]; ok {
		return state.registry
	}

	registry := floor.NewRegistry()
	registry.OnReplace(func() { m.reconcileSessions(restaurantID, registry) })
	state := &floorState{registry: registry}
	if m.startSync != nil {
		ctx, cancel := context.WithCancel(context.Background())
		state.cancel = cancel
		m.startSync(ctx, restaurantID, registry)
	}
	m.floors[restaurantID] = state
	return registry
}
