package dto

import (
	"time"

	"github.com/quillmont/satprep/internal/model"
)

type TestProgressDTO struct {
	CurrentQuestion int  `json:"current_question"`
	CorrectAnswers  int  `json:"correct_answers"`
	Completed       bool `json:"completed"`
}

// TestResponseDTO is the full test payload, questions included.
type TestResponseDTO struct {
	ID            uint             `json:"id"`
	UserID        string           `json:"user_id"`
	Title         string           `json:"title"`
	QuestionType  string           `json:"question_type"`
	QuestionCount int              `json:"question_count"`
	Status        string           `json:"status"`
	Questions     []model.Question `json:"questions"`
	Progress      TestProgressDTO  `json:"progress"`
	CreatedAt     time.Time        `json:"created_at"`
}

// TestSummaryDTO is used for listing a user's tests.
type TestSummaryDTO struct {
	ID            uint      `json:"id"`
	Title         string    `json:"title"`
	QuestionType  string    `json:"question_type"`
	QuestionCount int       `json:"question_count"`
	Status        string    `json:"status"`
	Completed     bool      `json:"completed"`
	CreatedAt     time.Time `json:"created_at"`
}
