package repository

import (
	"github.com/quillmont/satprep/internal/model"
	"gorm.io/gorm"
)

type SessionRepository interface {
	Create(session *model.PracticeSession) error
	FindAllByUser(userID string) ([]model.PracticeSession, error)
}

type sessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(session *model.PracticeSession) error {
	return r.db.Create(session).Error
}

func (r *sessionRepository) FindAllByUser(userID string) ([]model.PracticeSession, error) {
	var sessions []model.PracticeSession
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
