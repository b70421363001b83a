package repository

import (
	"context"

	"quizbank/internal/domain"
)

// QuestionRepository defines persistence operations for Question entities
// and their category assignments.
type QuestionRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, question *domain.Question) error
	// CreateMany inserts a batch atomically, skipping questions whose text
	// already exists. It returns the number actually inserted.
	CreateMany(ctx context.Context, questions []domain.Question) (int, error)
	GetByID(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Question, error)
	Update(ctx context.Context, question *domain.Question) error
	Delete(ctx context.Context, id string) error
}
