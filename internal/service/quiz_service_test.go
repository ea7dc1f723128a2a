package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/queue"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/testutil"
)

func setupQuizService(t *testing.T) (*QuizService, *queue.Queue, *gorm.DB, func()) {
	t.Helper()

	db := testutil.SetupTestDB(t)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	jobQueue := queue.NewQueue(rdb, "test_quiz_jobs")

	service := NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewDocumentRepository(db),
		NewPremiumService(
			repository.NewSubscriptionRepository(db),
			repository.NewUserRepository(db),
		),
		jobQueue,
	)

	cleanup := func() {
		rdb.Close()
		mr.Close()
		testutil.CleanupTestDB(t, db)
	}
	return service, jobQueue, db, cleanup
}

func premiumUser(t *testing.T, db *gorm.DB) *model.User {
	t.Helper()
	user := testutil.TestUser(t, db, testutil.WithPremiumFlag(true))
	end := time.Now().AddDate(0, 0, 30)
	testutil.TestSubscription(t, db, user.ID,
		testutil.WithStatus(model.SubscriptionStatusActive),
		testutil.WithPeriod(time.Now(), &end),
	)
	return user
}

func TestQuizService_Create(t *testing.T) {
	service, jobQueue, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID, testutil.WithSubjectLevel("maths", "terminale"))

	info, err := service.Create(context.Background(), user.ID, &dto.CreateQuizRequest{
		DocumentID:    doc.ID,
		QuestionCount: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, model.QuizStatusPending, info.Status)
	assert.Nil(t, info.Questions)

	// The generation job landed on the queue with the document context.
	job, err := jobQueue.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, info.ID, job.QuizID)
	assert.Equal(t, doc.ID, job.DocumentID)
	assert.Equal(t, 5, job.QuestionCount)
	assert.Equal(t, "maths", job.Subject)
}

func TestQuizService_Create_DefaultQuestionCount(t *testing.T) {
	service, jobQueue, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)

	_, err := service.Create(context.Background(), user.ID, &dto.CreateQuizRequest{
		DocumentID: doc.ID,
	})
	require.NoError(t, err)

	job, err := jobQueue.Pop(context.Background(), time.Second)
	require.NoError(t, err)
	require.NotNil(t, job)
	assert.Equal(t, defaultQuestionCount, job.QuestionCount)
}

func TestQuizService_Create_FreeUser(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := testutil.TestUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)

	_, err := service.Create(context.Background(), user.ID, &dto.CreateQuizRequest{
		DocumentID: doc.ID,
	})
	assert.ErrorIs(t, err, ErrPremiumRequired)
}

func TestQuizService_Create_DocumentNotFound(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)

	_, err := service.Create(context.Background(), user.ID, &dto.CreateQuizRequest{
		DocumentID: 9999,
	})
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}

func TestQuizService_GetByID_ReadyIncludesQuestions(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)
	quiz := testutil.TestQuiz(t, db, user.ID, doc.ID)

	quizRepo := repository.NewQuizRepository(db)
	require.NoError(t, quizRepo.MarkReady(quiz.ID, `[{"question":"Capitale du Sénégal ?","choices":["Dakar","Thiès"],"answer":0}]`))

	info, err := service.GetByID(user.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuizStatusReady, info.Status)
	assert.NotEmpty(t, info.Questions)
}

func TestQuizService_GetByID_PendingHidesQuestions(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)
	quiz := testutil.TestQuiz(t, db, user.ID, doc.ID)

	info, err := service.GetByID(user.ID, quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuizStatusPending, info.Status)
	assert.Nil(t, info.Questions)
}

func TestQuizService_GetByID_OtherUser(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	owner := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, owner.ID)
	quiz := testutil.TestQuiz(t, db, owner.ID, doc.ID)

	other := testutil.TestUser(t, db, testutil.WithUsername("intrus"))

	_, err := service.GetByID(other.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrQuizPermission)
}

func TestQuizService_List(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)
	for i := 0; i < 3; i++ {
		testutil.TestQuiz(t, db, user.ID, doc.ID)
	}

	infos, total, err := service.List(user.ID, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, infos, 2)
}

func TestQuizService_Delete(t *testing.T) {
	service, _, db, cleanup := setupQuizService(t)
	defer cleanup()

	user := premiumUser(t, db)
	doc := testutil.TestDocument(t, db, user.ID)
	quiz := testutil.TestQuiz(t, db, user.ID, doc.ID)

	require.NoError(t, service.Delete(user.ID, quiz.ID))

	_, err := service.GetByID(user.ID, quiz.ID)
	assert.ErrorIs(t, err, ErrQuizNotFound)
}
