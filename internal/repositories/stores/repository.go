// Package stores provides the repository interface for shop fronts
package stores

//go:generate mockgen -destination=mock/mock_repository.go -package=storesmock github.com/KirkDiggler/rpg-tabletop/internal/repositories/stores Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
)

// ListInput contains parameters for listing stores
type ListInput struct{}

// ListOutput contains every store ordered by id
type ListOutput struct {
	Stores []*entities.Store
}

// GetActiveInput contains parameters for loading the active store
type GetActiveInput struct{}

// GetActiveOutput contains the active store
type GetActiveOutput struct {
	Store *entities.Store
}

// SetActiveInput names the store to activate
type SetActiveInput struct {
	StoreID int64
}

// SetActiveOutput contains the result of activation
type SetActiveOutput struct{}

// CreateInput contains a store to insert
type CreateInput struct {
	Store *entities.Store
}

// CreateOutput contains the result of an insert
type CreateOutput struct{}

// Repository defines the storage interface for stores
type Repository interface {
	// List returns all stores
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// GetActive returns NotFound when no store is active
	GetActive(ctx context.Context, input GetActiveInput) (*GetActiveOutput, error)

	// SetActive makes one store the sole active store in a single statement.
	// Unknown ids return NotFound and leave the current activation alone.
	SetActive(ctx context.Context, input SetActiveInput) (*SetActiveOutput, error)

	// Create inserts a store, returning AlreadyExists if the id is taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
}
