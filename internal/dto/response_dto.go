package dto

import "github.com/quillmont/satprep/internal/model"

type ErrorResponse struct {
	Error string `json:"error"`
}

type GenerateResponseDTO struct {
	Questions []model.Question `json:"questions"`
}

type SectionProgressDTO struct {
	Section        string `json:"section"`
	Progress       int    `json:"progress"`
	TotalQuestions int    `json:"total_questions"`
	CorrectAnswers int    `json:"correct_answers"`
}

type UserProgressResponseDTO struct {
	UserID   string               `json:"user_id"`
	Sections []SectionProgressDTO `json:"sections"`
}
