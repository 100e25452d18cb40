package sessions

//go:generate mockgen -destination=mock/mock_store.go -package=sessionsmock github.com/KirkDiggler/rpg-tabletop/internal/sessions Store

import (
	"context"
	"time"
)

// Session is a user's pending step in one flow category
type Session struct {
	UserID    int64
	State     State
	UpdatedAt time.Time
}

// Category returns the flow family of the pending step
func (s *Session) Category() Category {
	return s.State.Category()
}

// GetInput identifies a session
type GetInput struct {
	UserID   int64
	Category Category
}

// GetOutput contains the session
type GetOutput struct {
	Session *Session
}

// PutInput contains the next state for a user. The category is taken from
// the state.
type PutInput struct {
	UserID int64
	State  State
}

// PutOutput contains the stored session
type PutOutput struct {
	Session *Session
}

// DeleteInput identifies a session to discard
type DeleteInput struct {
	UserID   int64
	Category Category
}

// DeleteOutput contains the result of a delete
type DeleteOutput struct {
	Deleted bool
}

// Store keeps at most one session per user per category. Sessions never
// expire.
type Store interface {
	// Get returns NotFound when no session is pending
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put replaces whatever session is pending in the state's category
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// Delete is idempotent
	Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error)
}
