package worker

import (
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/ai"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/oss"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/pubsub"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/pkg/queue"
	"github.com/aliounendiaye221/J-ngatub-sub000/internal/repository"
)

// QuizGenerator produces the questions JSON for a document. Satisfied by
// *ai.Client; tests substitute their own.
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, subject, level, documentURL string, questionCount int) (string, error)
}

var _ QuizGenerator = (*ai.Client)(nil)

// DocumentURLSigner hands out time-limited download URLs for stored PDFs.
type DocumentURLSigner interface {
	GetSignedURL(objectKey string, expireSeconds ...int64) (string, error)
}

var _ DocumentURLSigner = (*oss.Client)(nil)

// Processor turns queued quiz jobs into generated quizzes. Each step's
// outcome is pushed over pubsub so the API server can notify the user's
// websocket connections.
type Processor struct {
	quizRepo  *repository.QuizRepository
	docRepo   *repository.DocumentRepository
	generator QuizGenerator
	signer    DocumentURLSigner
	publisher *pubsub.Publisher
}

func NewProcessor(
	quizRepo *repository.QuizRepository,
	docRepo *repository.DocumentRepository,
	generator QuizGenerator,
	signer DocumentURLSigner,
	publisher *pubsub.Publisher,
) *Processor {
	return &Processor{
		quizRepo:  quizRepo,
		docRepo:   docRepo,
		generator: generator,
		signer:    signer,
		publisher: publisher,
	}
}

// Process handles one job. A returned error means the quiz is marked failed;
// the job itself is never requeued, the user retries from the UI.
func (p *Processor) Process(ctx context.Context, msg *queue.JobMessage) error {
	quiz, err := p.quizRepo.GetByID(msg.QuizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Quiz deleted while queued. Drop the job.
			log.Printf("quiz %d no longer exists, dropping job", msg.QuizID)
			return nil
		}
		return fmt.Errorf("load quiz %d: %w", msg.QuizID, err)
	}
	if quiz.Status != model.QuizStatusPending {
		// Duplicate delivery.
		log.Printf("quiz %d is %s, dropping job", quiz.ID, quiz.Status)
		return nil
	}

	publishProgress := func(status, message, errMsg string) {
		if pubErr := p.publisher.PublishProgress(ctx, &pubsub.ProgressMessage{
			UserID:     msg.UserID,
			QuizID:     msg.QuizID,
			DocumentID: msg.DocumentID,
			Status:     status,
			Message:    message,
			Error:      errMsg,
		}); pubErr != nil {
			log.Printf("publish progress for quiz %d failed: %v", msg.QuizID, pubErr)
		}
	}

	fail := func(err error) error {
		p.quizRepo.MarkFailed(msg.QuizID, err.Error())
		publishProgress(model.QuizStatusFailed, "", err.Error())
		return err
	}

	if err := p.quizRepo.UpdateStatus(msg.QuizID, model.QuizStatusProcessing); err != nil {
		return fmt.Errorf("mark quiz %d processing: %w", msg.QuizID, err)
	}
	publishProgress(model.QuizStatusProcessing, "génération du quiz en cours", "")

	doc, err := p.docRepo.GetByID(msg.DocumentID)
	if err != nil {
		return fail(fmt.Errorf("document introuvable"))
	}

	// The generator fetches the PDF itself; hand it a time-limited URL.
	docURL, err := p.signer.GetSignedURL(doc.FileKey)
	if err != nil {
		return fail(fmt.Errorf("accès au document impossible: %w", err))
	}

	questionsJSON, err := p.generator.GenerateQuiz(ctx, msg.Subject, msg.Level, docURL, msg.QuestionCount)
	if err != nil {
		return fail(fmt.Errorf("génération échouée: %w", err))
	}

	if err := p.quizRepo.MarkReady(msg.QuizID, questionsJSON); err != nil {
		return fail(fmt.Errorf("enregistrement du quiz impossible: %w", err))
	}

	publishProgress(model.QuizStatusReady, "quiz prêt", "")
	log.Printf("quiz %d generated for user %d", msg.QuizID, msg.UserID)
	return nil
}
