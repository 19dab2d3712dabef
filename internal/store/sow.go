package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/slidesmith/slidesmith-api/internal/domain"
)

// SowStore defines the interface for sow document persistence. All read and
// write operations are scoped to an owning user; a sow that exists but
// belongs to someone else behaves as if it does not exist.
type SowStore interface {
	// Create saves a new sow to the store.
	// Returns validation errors from the domain Sow if data is invalid.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, sow *domain.Sow) error

	// GetByID retrieves a sow by its unique ID, scoped to the owner.
	// Returns ErrSowNotFound if no matching sow exists for the user.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Sow, error)

	// ListByUser retrieves all sows owned by the user, newest first.
	// Returns an empty slice when the user has no sows.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Sow, error)

	// Update saves changes to an existing sow, scoped to the owner.
	// Returns ErrSowNotFound if no matching sow exists for the user.
	Update(ctx context.Context, sow *domain.Sow) error

	// Delete removes a sow, scoped to the owner.
	// Returns ErrSowNotFound if no matching sow exists for the user.
	Delete(ctx context.Context, userID, id uuid.UUID) error
}
