package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"quizbank/internal/domain"
	"quizbank/internal/repository"
)

// CategoryService coordinates category level operations.
type CategoryService interface {
	Create(ctx context.Context, name, description string) (*domain.Category, error)
	Get(ctx context.Context, id string) (*domain.Category, error)
	List(ctx context.Context) ([]domain.Category, error)
	Update(ctx context.Context, id, name, description string) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	categories repository.CategoryRepository
}

func NewCategoryService(categories repository.CategoryRepository) CategoryService {
	return &categoryService{categories: categories}
}

func validateCategoryName(name string) error {
	if n := utf8.RuneCountInString(name); n < 3 || n > 50 {
		return validationErr("Category name must be between 3 and 50 characters")
	}
	return nil
}

func (s *categoryService) Create(ctx context.Context, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category := &domain.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
	}

	if err := s.categories.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationErr("Category already exists")
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *categoryService) Update(ctx context.Context, id, name, description string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if err := validateCategoryName(name); err != nil {
		return nil, err
	}

	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	category.Name = name
	category.Description = strings.TrimSpace(description)
	if err := s.categories.Update(ctx, category); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, validationErr("Category already exists")
		}
		return nil, err
	}
	return category, nil
}

func (s *categoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
