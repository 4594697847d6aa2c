package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ModeFinite   = "finite"
	ModeInfinite = "infinite"
)

// PracticeSession is the durable record of a completed ad hoc session (one
// without a backing Test). Live session state stays in memory; only the
// final tally is persisted.
type PracticeSession struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          string         `json:"user_id" gorm:"not null;index"`
	QuestionType    string         `json:"question_type" gorm:"not null"`
	Mode            string         `json:"mode" gorm:"not null"`
	TotalQuestions  int            `json:"total_questions"`
	CorrectAnswers  int            `json:"correct_answers"`
	DurationSeconds int            `json:"duration_seconds"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}
