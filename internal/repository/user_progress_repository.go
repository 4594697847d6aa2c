package repository

import (
	"errors"

	"github.com/quillmont/satprep/internal/model"
	"gorm.io/gorm"
)

type UserProgressRepository interface {
	FindOrCreate(userID, section string) (*model.UserProgress, error)
	Save(progress *model.UserProgress) error
	FindAllByUser(userID string) ([]model.UserProgress, error)
}

type userProgressRepository struct {
	db *gorm.DB
}

func NewUserProgressRepository(db *gorm.DB) UserProgressRepository {
	return &userProgressRepository{db: db}
}

func (r *userProgressRepository) FindOrCreate(userID, section string) (*model.UserProgress, error) {
	var progress model.UserProgress
	err := r.db.Where("user_id = ? AND section = ?", userID, section).First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = model.UserProgress{UserID: userID, Section: section}
		if err := r.db.Create(&progress).Error; err != nil {
			return nil, err
		}
		return &progress, nil
	}
	if err != nil {
		return nil, err
	}
	return &progress, nil
}

func (r *userProgressRepository) Save(progress *model.UserProgress) error {
	return r.db.Save(progress).Error
}

func (r *userProgressRepository) FindAllByUser(userID string) ([]model.UserProgress, error) {
	var progress []model.UserProgress
	if err := r.db.Where("user_id = ?", userID).Order("section ASC").Find(&progress).Error; err != nil {
		return nil, err
	}
	return progress, nil
}
