package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"quizbank/internal/domain"
	"quizbank/internal/repository"
)

const createQuestionsTable = `
CREATE TABLE IF NOT EXISTS questions (
	id TEXT PRIMARY KEY,
	text TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const createQuestionCategoriesTable = `
CREATE TABLE IF NOT EXISTS question_categories (
	question_id TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
	category_id TEXT NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
	PRIMARY KEY (question_id, category_id)
);
`

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) repository.QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createQuestionsTable); err != nil {
		return fmt.Errorf("create questions table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, createQuestionCategoriesTable); err != nil {
		return fmt.Errorf("create question categories table: %w", err)
	}
	return nil
}

func (r *QuestionRepository) Create(ctx context.Context, question *domain.Question) error {
	now := time.Now().UTC()
	question.CreatedAt = now
	question.UpdatedAt = now

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert question: %w", err)
	}
	defer tx.Rollback()

	if err := insertQuestionTx(ctx, tx, question); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *QuestionRepository) CreateMany(ctx context.Context, questions []domain.Question) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin bulk insert: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	inserted := 0
	for i := range questions {
		questions[i].CreatedAt = now
		questions[i].UpdatedAt = now
		if err := insertQuestionTx(ctx, tx, &questions[i]); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				continue
			}
			return 0, err
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit bulk insert: %w", err)
	}
	return inserted, nil
}

func insertQuestionTx(ctx context.Context, tx *sql.Tx, question *domain.Question) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO questions (id, text, created_at, updated_at)
VALUES (?, ?, ?, ?)`,
		question.ID,
		question.Text,
		question.CreatedAt,
		question.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("insert question: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("insert question: %w", err)
	}

	for _, categoryID := range question.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO question_categories (question_id, category_id)
VALUES (?, ?)`,
			question.ID,
			categoryID,
		); err != nil {
			return fmt.Errorf("insert question category: %w", err)
		}
	}
	return nil
}

func (r *QuestionRepository) GetByID(ctx context.Context, id string) (*domain.Question, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, text, created_at, updated_at
FROM questions
WHERE id = ?`,
		id,
	)

	var question domain.Question
	if err := row.Scan(
		&question.ID,
		&question.Text,
		&question.CreatedAt,
		&question.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("question: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan question: %w", err)
	}

	if err := r.attachCategories(ctx, []*domain.Question{&question}); err != nil {
		return nil, err
	}
	return &question, nil
}

func (r *QuestionRepository) List(ctx context.Context) ([]domain.Question, error) {
	return r.listWhere(ctx, "", nil)
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID string) ([]domain.Question, error) {
	return r.listWhere(ctx, `
WHERE q.id IN (SELECT question_id FROM question_categories WHERE category_id = ?)`,
		[]any{categoryID})
}

func (r *QuestionRepository) listWhere(ctx context.Context, where string, args []any) ([]domain.Question, error) {
	query := `
SELECT q.id, q.text, q.created_at, q.updated_at
FROM questions q` + where + `
ORDER BY q.created_at, q.id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var question domain.Question
		if err := rows.Scan(
			&question.ID,
			&question.Text,
			&question.CreatedAt,
			&question.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		questions = append(questions, question)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*domain.Question, len(questions))
	for i := range questions {
		refs[i] = &questions[i]
	}
	if err := r.attachCategories(ctx, refs); err != nil {
		return nil, err
	}
	return questions, nil
}

// attachCategories populates CategoryIDs and CategoryNames on each question,
// the relational equivalent of the document store's category lookup join.
func (r *QuestionRepository) attachCategories(ctx context.Context, questions []*domain.Question) error {
	byID := make(map[string]*domain.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}
	if len(byID) == 0 {
		return nil
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT qc.question_id, c.id, c.name
FROM question_categories qc
JOIN categories c ON c.id = qc.category_id
ORDER BY c.name`)
	if err != nil {
		return fmt.Errorf("list question categories: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var questionID, categoryID, categoryName string
		if err := rows.Scan(&questionID, &categoryID, &categoryName); err != nil {
			return fmt.Errorf("scan question category: %w", err)
		}
		if q, ok := byID[questionID]; ok {
			q.CategoryIDs = append(q.CategoryIDs, categoryID)
			q.CategoryNames = append(q.CategoryNames, categoryName)
		}
	}
	return rows.Err()
}

func (r *QuestionRepository) Update(ctx context.Context, question *domain.Question) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update question: %w", err)
	}
	defer tx.Rollback()

	question.UpdatedAt = time.Now().UTC()
	res, err := tx.ExecContext(ctx, `
UPDATE questions
SET text = ?, updated_at = ?
WHERE id = ?`,
		question.Text,
		question.UpdatedAt,
		question.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("update question: %w", repository.ErrDuplicate)
		}
		return fmt.Errorf("update question: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update question rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update question: %w", repository.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM question_categories WHERE question_id = ?`, question.ID); err != nil {
		return fmt.Errorf("clear question categories: %w", err)
	}
	for _, categoryID := range question.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO question_categories (question_id, category_id)
VALUES (?, ?)`,
			question.ID,
			categoryID,
		); err != nil {
			return fmt.Errorf("insert question category: %w", err)
		}
	}

	return tx.Commit()
}

func (r *QuestionRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete question rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete question: %w", repository.ErrNotFound)
	}
	return nil
}
