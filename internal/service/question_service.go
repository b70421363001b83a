package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"quizbank/internal/domain"
	"quizbank/internal/repository"
)

// QuestionService coordinates question level operations, including CSV bulk
// import.
type QuestionService interface {
	Create(ctx context.Context, text string, categoryIDs []string) (*domain.Question, error)
	Get(ctx context.Context, id string) (*domain.Question, error)
	List(ctx context.Context) ([]domain.Question, error)
	ListByCategory(ctx context.Context, categoryID string) ([]domain.Question, error)
	Update(ctx context.Context, id, text string, categoryIDs []string) (*domain.Question, error)
	Delete(ctx context.Context, id string) error
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}

type questionService struct {
	questions  repository.QuestionRepository
	categories repository.CategoryRepository
}

func NewQuestionService(questions repository.QuestionRepository, categories repository.CategoryRepository) QuestionService {
	return &questionService{
		questions:  questions,
		categories: categories,
	}
}

func (s *questionService) validate(ctx context.Context, text string, categoryIDs []string) error {
	if n := utf8.RuneCountInString(text); n < 5 || n > 500 {
		return validationErr("Question text must be between 5 and 500 characters")
	}
	if len(categoryIDs) == 0 {
		return validationErr("At least one category is required")
	}
	return s.checkCategoriesExist(ctx, categoryIDs)
}

func (s *questionService) checkCategoriesExist(ctx context.Context, categoryIDs []string) error {
	unique := dedupe(categoryIDs)
	existing, err := s.categories.ExistingIDs(ctx, unique)
	if err != nil {
		return err
	}
	if len(existing) != len(unique) {
		return ErrUnknownCategories
	}
	return nil
}

func (s *questionService) Create(ctx context.Context, text string, categoryIDs []string) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	categoryIDs = dedupe(categoryIDs)
	if err := s.validate(ctx, text, categoryIDs); err != nil {
		return nil, err
	}

	question := &domain.Question{
		ID:          uuid.NewString(),
		Text:        text,
		CategoryIDs: categoryIDs,
	}

	if err := s.questions.Create(ctx, question); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, validationErr("Question already exists")
		}
		return nil, err
	}
	return s.questions.GetByID(ctx, question.ID)
}

func (s *questionService) Get(ctx context.Context, id string) (*domain.Question, error) {
	question, err := s.questions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return question, nil
}

func (s *questionService) List(ctx context.Context) ([]domain.Question, error) {
	return s.questions.List(ctx)
}

func (s *questionService) ListByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	return s.questions.ListByCategory(ctx, categoryID)
}

func (s *questionService) Update(ctx context.Context, id, text string, categoryIDs []string) (*domain.Question, error) {
	text = strings.TrimSpace(text)
	categoryIDs = dedupe(categoryIDs)
	if err := s.validate(ctx, text, categoryIDs); err != nil {
		return nil, err
	}

	question := &domain.Question{
		ID:          id,
		Text:        text,
		CategoryIDs: categoryIDs,
	}
	if err := s.questions.Update(ctx, question); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrNotFound
		case errors.Is(err, repository.ErrDuplicate):
			return nil, validationErr("Question already exists")
		}
		return nil, err
	}
	return s.questions.GetByID(ctx, id)
}

func (s *questionService) Delete(ctx context.Context, id string) error {
	if err := s.questions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

// ImportCSV reads questions from CSV data with a "text,categories" header,
// categories being a comma separated list of category ids. Invalid rows are
// skipped rather than failing the import: blank text, references that resolve
// to no known category, and duplicate question texts at insert time. Unknown
// ids on an otherwise valid row are dropped from it. It returns the number of
// questions actually imported.
func (s *questionService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return 0, validationErr("No valid questions found in CSV")
	}

	textCol, categoriesCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "text":
			textCol = i
		case "categories":
			categoriesCol = i
		}
	}
	if textCol < 0 {
		return 0, validationErr("CSV must have a 'text' column")
	}

	type csvRow struct {
		text        string
		categoryIDs []string
	}

	var (
		parsed     []csvRow
		referenced []string
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv: %w", err)
		}

		if textCol >= len(record) {
			continue
		}
		text := strings.TrimSpace(record[textCol])
		if text == "" {
			continue
		}

		var categoryIDs []string
		if categoriesCol >= 0 && categoriesCol < len(record) {
			for _, id := range strings.Split(record[categoriesCol], ",") {
				if id = strings.TrimSpace(id); id != "" {
					categoryIDs = append(categoryIDs, id)
				}
			}
		}

		parsed = append(parsed, csvRow{text: text, categoryIDs: dedupe(categoryIDs)})
		referenced = append(referenced, categoryIDs...)
	}

	known := make(map[string]struct{})
	if len(referenced) > 0 {
		existing, err := s.categories.ExistingIDs(ctx, dedupe(referenced))
		if err != nil {
			return 0, err
		}
		for _, id := range existing {
			known[id] = struct{}{}
		}
	}

	var batch []domain.Question
	for _, row := range parsed {
		categoryIDs := row.categoryIDs[:0:0]
		for _, id := range row.categoryIDs {
			if _, ok := known[id]; ok {
				categoryIDs = append(categoryIDs, id)
			}
		}
		// a row whose references all point at unknown categories is invalid
		if len(row.categoryIDs) > 0 && len(categoryIDs) == 0 {
			continue
		}
		batch = append(batch, domain.Question{
			ID:          uuid.NewString(),
			Text:        row.text,
			CategoryIDs: categoryIDs,
		})
	}

	if len(batch) == 0 {
		return 0, validationErr("No valid questions found in CSV")
	}

	return s.questions.CreateMany(ctx, batch)
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
