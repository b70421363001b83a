package repository

import (
	"context"

	"quizbank/internal/domain"
)

// CategoryRepository defines persistence operations for Category entities.
type CategoryRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, category *domain.Category) error
	GetByID(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id string) error
	// ExistingIDs returns the subset of the given ids that exist.
	ExistingIDs(ctx context.Context, ids []string) ([]string, error)
}
