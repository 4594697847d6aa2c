package dto

// GenerateRequestDTO carries a prebuilt instruction prompt to the raw
// generation endpoint.
type GenerateRequestDTO struct {
	Prompt string `json:"prompt" binding:"required"`
}

type CreateTestDTO struct {
	UserID            string `json:"user_id" binding:"required"`
	Title             string `json:"title" binding:"required"`
	QuestionType      string `json:"question_type" binding:"required"`
	NumberOfQuestions int    `json:"number_of_questions"`
}

type CompleteTestDTO struct {
	CurrentQuestion int `json:"current_question"`
	CorrectAnswers  int `json:"correct_answers"`
}

type StartSessionDTO struct {
	UserID       string `json:"user_id" binding:"required"`
	QuestionType string `json:"question_type"`
	Mode         string `json:"mode"`
	Difficulty   string `json:"difficulty"`
	TestID       *uint  `json:"test_id,omitempty"`
}

type SubmitAnswerDTO struct {
	SelectedAnswer string `json:"selected_answer"`
}

type ToggleExclusionDTO struct {
	Option string `json:"option" binding:"required"`
}
