package sessions

import (
	"context"
	"sync"

	"github.com/KirkDiggler/rpg-tabletop/internal/errors"
	"github.com/KirkDiggler/rpg-tabletop/internal/pkg/clock"
)

// MemoryConfig holds the dependencies for the in-memory store
type MemoryConfig struct {
	Clock clock.Clock
}

// Validate ensures all required dependencies are provided
func (c *MemoryConfig) Validate() error {
	if c.Clock == nil {
		return errors.InvalidArgument("clock is required")
	}
	return nil
}

type sessionKey struct {
	userID   int64
	category Category
}

// MemoryStore implements Store with a mutex-guarded map
type MemoryStore struct {
	mu       sync.RWMutex
	clock    clock.Clock
	sessions map[sessionKey]Session
}

// NewMemory creates an in-memory session store
func NewMemory(cfg *MemoryConfig) (*MemoryStore, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &MemoryStore{
		clock:    cfg.Clock,
		sessions: make(map[sessionKey]Session),
	}, nil
}

var _ Store = (*MemoryStore)(nil)

// Get returns a copy of the pending session
func (m *MemoryStore) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.UserID, input.Category); err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[sessionKey{input.UserID, input.Category}]
	if !ok {
		return nil, notFound(input.UserID, input.Category)
	}

	return &GetOutput{Session: &session}, nil
}

// Put stores the state under its category
func (m *MemoryStore) Put(_ context.Context, input PutInput) (*PutOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state is required")
	}
	if err := validateKey(input.UserID, input.State.Category()); err != nil {
		return nil, err
	}

	session := Session{UserID: input.UserID, State: input.State, UpdatedAt: m.clock.Now()}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sessions[sessionKey{input.UserID, input.State.Category()}] = session

	return &PutOutput{Session: &session}, nil
}

// Delete discards a pending session
func (m *MemoryStore) Delete(_ context.Context, input DeleteInput) (*DeleteOutput, error) {
	if err := validateKey(input.UserID, input.Category); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := sessionKey{input.UserID, input.Category}
	_, existed := m.sessions[key]
	delete(m.sessions, key)

	return &DeleteOutput{Deleted: existed}, nil
}

func validateKey(userID int64, category Category) error {
	vb := errors.NewValidationBuilder()
	errors.ValidateID("user_id", userID, vb)
	if !category.IsValid() {
		vb.InvalidField("category", "unknown category")
	}
	return vb.Build()
}

func notFound(userID int64, category Category) error {
	return errors.NotFound("session not found").
		WithMeta("user_id", userID).
		WithMeta("category", string(category))
}
