package model

import (
	"time"
)

// UserProgress holds the per-user, per-section aggregate counters. Progress
// is a percentage, incremented on correct answers and capped at 100.
type UserProgress struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	UserID         string    `json:"user_id" gorm:"not null;uniqueIndex:idx_user_section"`
	Section        string    `json:"section" gorm:"not null;uniqueIndex:idx_user_section"`
	Progress       int       `json:"progress" gorm:"default:0"`
	TotalQuestions int       `json:"total_questions" gorm:"default:0"`
	CorrectAnswers int       `json:"correct_answers" gorm:"default:0"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
