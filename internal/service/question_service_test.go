package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"quizbank/internal/repository/sqlite"
)

func newTestQuestionService(t *testing.T) (QuestionService, CategoryService) {
	t.Helper()

	db, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	categories := sqlite.NewCategoryRepository(db)
	questions := sqlite.NewQuestionRepository(db)
	require.NoError(t, categories.Init(ctx))
	require.NoError(t, questions.Init(ctx))

	return NewQuestionService(questions, categories), NewCategoryService(categories)
}

func TestQuestionCreateAndProjection(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	history, err := categories.Create(ctx, "History", "")
	require.NoError(t, err)
	science, err := categories.Create(ctx, "Science", "Natural sciences")
	require.NoError(t, err)

	q, err := questions.Create(ctx, "Who discovered penicillin?", []string{history.ID, science.ID})
	require.NoError(t, err)
	require.Equal(t, "Who discovered penicillin?", q.Text)
	require.ElementsMatch(t, []string{"History", "Science"}, q.CategoryNames)

	listed, err := questions.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	require.ElementsMatch(t, []string{"History", "Science"}, listed[0].CategoryNames)

	byCategory, err := questions.ListByCategory(ctx, science.ID)
	require.NoError(t, err)
	require.Len(t, byCategory, 1)

	byOther, err := questions.ListByCategory(ctx, "nonexistent-id")
	require.NoError(t, err)
	require.Empty(t, byOther)
}

func TestQuestionCreate_Validation(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	cat, err := categories.Create(ctx, "History", "")
	require.NoError(t, err)

	var validation *ValidationError

	_, err = questions.Create(ctx, "hey", []string{cat.ID})
	require.ErrorAs(t, err, &validation)

	_, err = questions.Create(ctx, "A perfectly fine question?", nil)
	require.ErrorAs(t, err, &validation)

	_, err = questions.Create(ctx, "A perfectly fine question?", []string{cat.ID, "bogus-id"})
	require.ErrorIs(t, err, ErrUnknownCategories)

	_, err = questions.Create(ctx, "A perfectly fine question?", []string{cat.ID})
	require.NoError(t, err)
	_, err = questions.Create(ctx, "A perfectly fine question?", []string{cat.ID})
	require.ErrorAs(t, err, &validation, "duplicate text is rejected")
}

func TestQuestionUpdateAndDelete(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	history, err := categories.Create(ctx, "History", "")
	require.NoError(t, err)
	science, err := categories.Create(ctx, "Science", "")
	require.NoError(t, err)

	q, err := questions.Create(ctx, "Who discovered penicillin?", []string{history.ID})
	require.NoError(t, err)

	updated, err := questions.Update(ctx, q.ID, "Who discovered radium?", []string{science.ID})
	require.NoError(t, err)
	require.Equal(t, "Who discovered radium?", updated.Text)
	require.Equal(t, []string{science.ID}, updated.CategoryIDs)

	_, err = questions.Update(ctx, "missing-id", "Who discovered oxygen?", []string{science.ID})
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, questions.Delete(ctx, q.ID))
	require.ErrorIs(t, questions.Delete(ctx, q.ID), ErrNotFound)

	_, err = questions.Get(ctx, q.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryDeleteDetachesQuestions(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	history, err := categories.Create(ctx, "History", "")
	require.NoError(t, err)

	q, err := questions.Create(ctx, "Who discovered penicillin?", []string{history.ID})
	require.NoError(t, err)

	require.NoError(t, categories.Delete(ctx, history.ID))

	got, err := questions.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Empty(t, got.CategoryIDs)
}

func TestImportCSV(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	history, err := categories.Create(ctx, "History", "")
	require.NoError(t, err)
	science, err := categories.Create(ctx, "Science", "")
	require.NoError(t, err)

	csvData := strings.Join([]string{
		"text,categories",
		`Who discovered penicillin?,"` + history.ID + `,` + science.ID + `"`,
		"What is the speed of light?," + science.ID,
		",", // blank text row skipped
		"A question with no categories,",
	}, "\n")

	imported, err := questions.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 3, imported)

	listed, err := questions.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)

	// re-importing the same file only skips duplicates
	imported, err = questions.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 0, imported)
}

func TestImportCSV_Errors(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	var validation *ValidationError

	_, err := questions.ImportCSV(ctx, strings.NewReader(""))
	require.ErrorAs(t, err, &validation)

	_, err = questions.ImportCSV(ctx, strings.NewReader("name\nvalue"))
	require.ErrorAs(t, err, &validation)

	_, err = questions.ImportCSV(ctx, strings.NewReader("text,categories\n,\n,"))
	require.ErrorAs(t, err, &validation)

	_, err = categories.Create(ctx, "History", "")
	require.NoError(t, err)

	// a file whose only row points at an unknown category has nothing usable
	_, err = questions.ImportCSV(ctx, strings.NewReader("text,categories\nWho discovered penicillin?,bogus-id"))
	require.ErrorAs(t, err, &validation)
}

func TestImportCSV_SkipsUnknownCategories(t *testing.T) {
	questions, categories := newTestQuestionService(t)
	ctx := context.Background()

	history, err := categories.Create(ctx, "History", "")
	require.NoError(t, err)

	csvData := strings.Join([]string{
		"text,categories",
		"Who discovered penicillin?," + history.ID,
		"What is the speed of light?,bogus-id", // skipped, no known category
		`Who discovered radium?,"` + history.ID + `,bogus-id"`, // kept, bogus id dropped
	}, "\n")

	imported, err := questions.ImportCSV(ctx, strings.NewReader(csvData))
	require.NoError(t, err)
	require.Equal(t, 2, imported)

	listed, err := questions.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	for _, q := range listed {
		require.Equal(t, []string{history.ID}, q.CategoryIDs)
	}
}
