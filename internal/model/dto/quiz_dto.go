package dto

import "encoding/json"

type CreateQuizRequest struct {
	DocumentID    int64 `json:"document_id" binding:"required"`
	QuestionCount int   `json:"question_count" binding:"omitempty,min=1,max=50"`
}

type QuizInfo struct {
	ID           int64           `json:"id"`
	DocumentID   int64           `json:"document_id"`
	Title        string          `json:"title"`
	Status       string          `json:"status"`
	Questions    json.RawMessage `json:"questions,omitempty"`
	ErrorMessage string          `json:"error_message,omitempty"`
	CreatedAt    string          `json:"created_at"`
}

// QuizQuestion is the shape the AI generator returns; stored verbatim as the
// quiz's questions JSON.
type QuizQuestion struct {
	Question string   `json:"question"`
	Choices  []string `json:"choices"`
	Answer   int      `json:"answer"`
}
