// Package npcs provides the repository interface for game-master controlled NPCs
package npcs

//go:generate mockgen -destination=mock/mock_repository.go -package=npcsmock github.com/KirkDiggler/rpg-tabletop/internal/repositories/npcs Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
)

// GetInput identifies one NPC
type GetInput struct {
	ID int64
}

// GetOutput contains the loaded NPC
type GetOutput struct {
	NPC *entities.NPC
}

// ListInput filters the NPC roster
type ListInput struct {
	InCombatOnly bool
}

// ListOutput contains the NPCs ordered by id
type ListOutput struct {
	NPCs []*entities.NPC
}

// CreateInput contains a new NPC; its ID is assigned by the store
type CreateInput struct {
	NPC *entities.NPC
}

// CreateOutput contains the assigned id
type CreateOutput struct {
	ID int64
}

// UpdateInput contains the NPC to write back
type UpdateInput struct {
	NPC *entities.NPC
}

// UpdateOutput contains the result of an update
type UpdateOutput struct{}

// Repository defines the storage interface for NPCs
type Repository interface {
	// Get returns NotFound for unknown ids
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns the roster, optionally only NPCs in the current encounter
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Create inserts an NPC
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// Update replaces an existing NPC row in a single statement
	Update(ctx context.Context, input UpdateInput) (*UpdateOutput, error)
}
