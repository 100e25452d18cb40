// Package flags provides the repository interface for process-wide toggles
package flags

//go:generate mockgen -destination=mock/mock_repository.go -package=flagsmock github.com/KirkDiggler/rpg-tabletop/internal/repositories/flags Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
)

// GetInput names the flag to read
type GetInput struct {
	Name string
}

// GetOutput contains the flag
type GetOutput struct {
	Flag *entities.Flag
}

// SetInput contains the flag value to write
type SetInput struct {
	Name  string
	Value int
}

// SetOutput contains the result of a write
type SetOutput struct{}

// Repository defines the storage interface for flags
type Repository interface {
	// Get returns NotFound for unknown flags
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Set creates or overwrites a flag
	Set(ctx context.Context, input SetInput) (*SetOutput, error)
}
