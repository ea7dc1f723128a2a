package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model/dto"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/queue"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

var (
	ErrQuizNotFound   = errors.New("quiz introuvable")
	ErrQuizPermission = errors.New("vous n'êtes pas autorisé à consulter ce quiz")
	ErrQuizNotReady   = errors.New("le quiz est encore en cours de génération")
)

const defaultQuestionCount = 10

// QuizService creates quiz generation jobs and reads back their results.
// Generation itself happens in the worker process.
type QuizService struct {
	quizRepo   *repository.QuizRepository
	docRepo    *repository.DocumentRepository
	premiumSvc *PremiumService
	jobQueue   *queue.Queue
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	docRepo *repository.DocumentRepository,
	premiumSvc *PremiumService,
	jobQueue *queue.Queue,
) *QuizService {
	return &QuizService{
		quizRepo:   quizRepo,
		docRepo:    docRepo,
		premiumSvc: premiumSvc,
		jobQueue:   jobQueue,
	}
}

// Create records a pending quiz and enqueues the generation job. Quiz
// generation is premium-only, and premium documents stay gated here too.
func (s *QuizService) Create(ctx context.Context, userID int64, req *dto.CreateQuizRequest) (*dto.QuizInfo, error) {
	doc, err := s.docRepo.GetByID(req.DocumentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		return nil, err
	}

	isPremium, err := s.premiumSvc.IsPremium(userID)
	if err != nil {
		return nil, err
	}
	if !isPremium {
		return nil, ErrPremiumRequired
	}

	questionCount := req.QuestionCount
	if questionCount == 0 {
		questionCount = defaultQuestionCount
	}

	quiz := &model.Quiz{
		DocumentID: doc.ID,
		UserID:     userID,
		Title:      fmt.Sprintf("Quiz — %s", doc.Title),
		Status:     model.QuizStatusPending,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}

	if err := s.jobQueue.Push(ctx, &queue.JobMessage{
		QuizID:        quiz.ID,
		DocumentID:    doc.ID,
		UserID:        userID,
		QuestionCount: questionCount,
		Subject:       doc.Subject,
		Level:         doc.Level,
	}); err != nil {
		// The quiz row stays pending; without a job it will never advance,
		// so surface the failure instead of leaving the user waiting.
		s.quizRepo.MarkFailed(quiz.ID, "impossible de mettre le quiz en file d'attente")
		return nil, err
	}

	return buildQuizInfo(quiz, false), nil
}

// GetByID returns the quiz; questions are included once generation is done.
func (s *QuizService) GetByID(userID, quizID int64) (*dto.QuizInfo, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.UserID != userID {
		return nil, ErrQuizPermission
	}

	return buildQuizInfo(quiz, quiz.Status == model.QuizStatusReady), nil
}

func (s *QuizService) List(userID int64, page, pageSize int) ([]*dto.QuizInfo, int64, error) {
	quizzes, total, err := s.quizRepo.ListByUserID(userID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.QuizInfo, 0, len(quizzes))
	for _, quiz := range quizzes {
		// Listings never carry the question payload.
		infos = append(infos, buildQuizInfo(quiz, false))
	}
	return infos, total, nil
}

func (s *QuizService) Delete(userID, quizID int64) error {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrQuizNotFound
		}
		return err
	}
	if quiz.UserID != userID {
		return ErrQuizPermission
	}
	return s.quizRepo.Delete(quizID)
}

func buildQuizInfo(quiz *model.Quiz, withQuestions bool) *dto.QuizInfo {
	info := &dto.QuizInfo{
		ID:           quiz.ID,
		DocumentID:   quiz.DocumentID,
		Title:        quiz.Title,
		Status:       quiz.Status,
		ErrorMessage: quiz.ErrorMessage,
		CreatedAt:    quiz.CreatedAt.Format(time.RFC3339),
	}
	if withQuestions && quiz.QuestionsJSON != "" {
		info.Questions = json.RawMessage(quiz.QuestionsJSON)
	}
	return info
}
