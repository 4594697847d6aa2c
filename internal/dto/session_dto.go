package dto

// SessionQuestionDTO is the active question as shown to the user. The
// correct answer and explanation are withheld until the question has been
// answered.
type SessionQuestionDTO struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer,omitempty"`
	Explanation   string   `json:"explanation,omitempty"`
}

type SessionSummaryDTO struct {
	ScorePercent    int `json:"score_percent"`
	CorrectAnswers  int `json:"correct_answers"`
	TotalQuestions  int `json:"total_questions"`
	DurationSeconds int `json:"duration_seconds"`
	AverageSeconds  int `json:"average_seconds"`
}

// SessionSnapshotDTO is the full observable state of a practice session.
type SessionSnapshotDTO struct {
	SessionID       string              `json:"session_id"`
	UserID          string              `json:"user_id"`
	QuestionType    string              `json:"question_type"`
	Mode            string              `json:"mode"`
	QuestionIndex   int                 `json:"question_index"`
	QueueLength     int                 `json:"queue_length"`
	TotalAnswered   int                 `json:"total_answered"`
	CorrectAnswers  int                 `json:"correct_answers"`
	Answered        bool                `json:"answered"`
	Correct         *bool               `json:"correct,omitempty"`
	TimeLeft        int                 `json:"time_left"`
	ExcludedOptions []string            `json:"excluded_options"`
	Question        *SessionQuestionDTO `json:"question,omitempty"`
	Completed       bool                `json:"completed"`
	Notices         []string            `json:"notices,omitempty"`
	Summary         *SessionSummaryDTO  `json:"summary,omitempty"`
}
