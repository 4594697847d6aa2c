package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	TestStatusGenerating = "generating"
	TestStatusReady      = "ready"
	TestStatusInProgress = "in-progress"
	TestStatusCompleted  = "completed"
)

// Test is a named, durably stored practice set. Questions are kept as a JSON
// document; see DecodeStoredQuestions for the encoding rules.
type Test struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          string         `json:"user_id" gorm:"not null;index"`
	Title           string         `json:"title" gorm:"not null"`
	QuestionType    string         `json:"question_type" gorm:"not null"`
	QuestionCount   int            `json:"question_count" gorm:"not null"`
	Status          string         `json:"status" gorm:"default:'generating'"`
	Questions       datatypes.JSON `json:"questions"`
	CurrentQuestion int            `json:"current_question"`
	CorrectAnswers  int            `json:"correct_answers"`
	Completed       bool           `json:"completed"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

// legacyWrappedQuestion is the older persisted shape: the question JSON is a
// string stashed under a "0" key instead of a plain object.
type legacyWrappedQuestion struct {
	Zero *string `json:"0"`
}

// DecodeStoredQuestions reads a stored questions document. The canonical
// encoding is a plain array of question objects; elements in the legacy
// string-wrapped encoding are unwrapped transparently so old rows keep
// loading. All writes go through EncodeQuestions, which only ever emits the
// canonical form, so a legacy row is migrated the next time it is saved.
func DecodeStoredQuestions(raw datatypes.JSON) ([]Question, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var elements []json.RawMessage
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, fmt.Errorf("stored questions are not a JSON array: %w", err)
	}

	questions := make([]Question, 0, len(elements))
	for i, element := range elements {
		var wrapped legacyWrappedQuestion
		if err := json.Unmarshal(element, &wrapped); err == nil && wrapped.Zero != nil {
			var q Question
			if err := json.Unmarshal([]byte(*wrapped.Zero), &q); err != nil {
				return nil, fmt.Errorf("legacy question %d has an unreadable payload: %w", i, err)
			}
			questions = append(questions, q)
			continue
		}

		var q Question
		if err := json.Unmarshal(element, &q); err != nil {
			return nil, fmt.Errorf("question %d is malformed: %w", i, err)
		}
		questions = append(questions, q)
	}
	return questions, nil
}

// EncodeQuestions writes the canonical encoding.
func EncodeQuestions(questions []Question) (datatypes.JSON, error) {
	data, err := json.Marshal(questions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	return datatypes.JSON(data), nil
}
