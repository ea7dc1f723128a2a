package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/aliounendiaye221/J-ngatub-sub000/internal/model"
)

type QuizRepository struct {
	db *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{db: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.db.Create(quiz).Error
}

func (r *QuizRepository) GetByID(id int64) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.db.Where("id = ?", id).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.db.Save(quiz).Error
}

func (r *QuizRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&model.Quiz{}).Where("id = ?", id).
		Update("status", status).Error
}

// MarkReady stores the generated questions and closes the job.
func (r *QuizRepository) MarkReady(id int64, questionsJSON string) error {
	now := time.Now()
	return r.db.Model(&model.Quiz{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":         model.QuizStatusReady,
		"questions_json": questionsJSON,
		"completed_at":   now,
	}).Error
}

func (r *QuizRepository) MarkFailed(id int64, errorMessage string) error {
	now := time.Now()
	return r.db.Model(&model.Quiz{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        model.QuizStatusFailed,
		"error_message": errorMessage,
		"completed_at":  now,
	}).Error
}

func (r *QuizRepository) Delete(id int64) error {
	return r.db.Delete(&model.Quiz{}, id).Error
}

func (r *QuizRepository) ListByUserID(userID int64, page, pageSize int) ([]*model.Quiz, int64, error) {
	query := r.db.Model(&model.Quiz{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var quizzes []*model.Quiz
	err := query.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}
