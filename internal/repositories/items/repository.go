// Package items provides the repository interface for the item catalog
package items

//go:generate mockgen -destination=mock/mock_repository.go -package=itemsmock github.com/KirkDiggler/rpg-tabletop/internal/repositories/items Repository

import (
	"context"

	"github.com/KirkDiggler/rpg-tabletop/internal/entities"
	"github.com/KirkDiggler/rpg-tabletop/internal/rules"
)

// GetInput identifies one catalog item
type GetInput struct {
	ID int64
}

// GetOutput contains the loaded item
type GetOutput struct {
	Item *entities.Item
}

// ListByIDsInput filters the catalog to a set of ids, optionally of one type
type ListByIDsInput struct {
	IDs []int64
	// Type restricts results when non-empty
	Type rules.ItemType
}

// ListByIDsOutput contains the matching items ordered by id, each once
type ListByIDsOutput struct {
	Items []*entities.Item
}

// ListByStoreInput selects the goods of one store
type ListByStoreInput struct {
	StoreID       int64
	IncludeHidden bool
}

// ListByStoreOutput contains the store's items ordered by id
type ListByStoreOutput struct {
	Items []*entities.Item
}

// CreateInput contains a catalog entry to insert
type CreateInput struct {
	Item *entities.Item
}

// CreateOutput contains the result of an insert
type CreateOutput struct{}

// Repository defines the storage interface for catalog items
type Repository interface {
	// Get returns NotFound for unknown ids
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByIDs returns the items whose id is in the input set
	ListByIDs(ctx context.Context, input ListByIDsInput) (*ListByIDsOutput, error)

	// ListByStore returns the items owned by a store
	ListByStore(ctx context.Context, input ListByStoreInput) (*ListByStoreOutput, error)

	// Create inserts a catalog entry, returning AlreadyExists if the id is taken
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)
}
