// Package characters provides the repository interface for player characters
package characters

//go:generate mockgen -destination=mock/mock_repository.go -package=charactersmock github.com/KirkDiggler/rpg-tabletop/internal/repositories/characters Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
)

// GetInput identifies a character by its owner's chat user id
type GetInput struct {
	UserID int64
}

// GetOutput contains the loaded character
type GetOutput struct {
	Character *entities.Character
}

// ListInput contains parameters for listing characters
type ListInput struct{}

// ListOutput contains every character ordered by user id
type ListOutput struct {
	Characters []*entities.Character
}

// UpsertInput contains the character to write
type UpsertInput struct {
	Character *entities.Character
}

// UpsertOutput contains the result of an upsert
type UpsertOutput struct{}

// Repository defines the storage interface for characters
type Repository interface {
	// Get returns NotFound when the user has no character
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// List returns all characters
	List(ctx context.Context, input ListInput) (*ListOutput, error)

	// Upsert inserts or replaces the character row in a single statement
	Upsert(ctx context.Context, input UpsertInput) (*UpsertOutput, error)
}
