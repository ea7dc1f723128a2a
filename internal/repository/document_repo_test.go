package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/testutil"
)

func TestDocumentRepository_List_Filters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDocumentRepository(db)
	user := testutil.TestUser(t, db)

	testutil.TestDocument(t, db, user.ID, testutil.WithSubjectLevel("maths", "terminale"))
	testutil.TestDocument(t, db, user.ID, testutil.WithSubjectLevel("maths", "premiere"))
	testutil.TestDocument(t, db, user.ID, testutil.WithSubjectLevel("physique", "terminale"))

	docs, total, err := repo.List(1, 10, "maths", "")
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, docs, 2)

	docs, total, err = repo.List(1, 10, "maths", "terminale")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "terminale", docs[0].Level)

	_, total, err = repo.List(1, 10, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestDocumentRepository_List_Pagination(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewDocumentRepository(db)
	user := testutil.TestUser(t, db)

	for i := 0; i < 5; i++ {
		testutil.TestDocument(t, db, user.ID)
	}

	docs, total, err := repo.List(1, 2, "", "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, docs, 2)

	docs, _, err = repo.List(3, 2, "", "")
	require.NoError(t, err)
	assert.Len(t, docs, 1)
}

func TestQuizRepository_Lifecycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewQuizRepository(db)
	user := testutil.TestUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)
	quiz := testutil.TestQuiz(t, db, user.ID, doc.ID)

	require.NoError(t, repo.UpdateStatus(quiz.ID, "processing"))

	require.NoError(t, repo.MarkReady(quiz.ID, `[{"question":"2+2 ?","choices":["3","4"],"answer":"4"}]`))

	got, err := repo.GetByID(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "ready", got.Status)
	assert.NotEmpty(t, got.QuestionsJSON)
	assert.NotNil(t, got.CompletedAt)
}

func TestQuizRepository_MarkFailed(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	repo := NewQuizRepository(db)
	user := testutil.TestUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)
	quiz := testutil.TestQuiz(t, db, user.ID, doc.ID)

	require.NoError(t, repo.MarkFailed(quiz.ID, "generation interrompue"))

	got, err := repo.GetByID(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, "failed", got.Status)
	assert.Equal(t, "generation interrompue", got.ErrorMessage)
}
