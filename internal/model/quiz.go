package model

import (
	"time"
)

const (
	QuizStatusPending    = "pending"
	QuizStatusProcessing = "processing"
	QuizStatusReady      = "ready"
	QuizStatusFailed     = "failed"
)

// Quiz is generated asynchronously from a document by the worker.
// QuestionsJSON holds the generated questions as a JSON array.
type Quiz struct {
	ID            int64      `gorm:"primaryKey" json:"id"`
	DocumentID    int64      `gorm:"not null;index" json:"document_id"`
	UserID        int64      `gorm:"not null;index" json:"user_id"`
	Title         string     `gorm:"size:200;not null" json:"title"`
	Status        string     `gorm:"size:20;default:pending;index" json:"status"`
	QuestionsJSON string     `gorm:"type:text" json:"-"`
	ErrorMessage  string     `gorm:"size:500" json:"error_message,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
