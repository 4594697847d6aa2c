package repository

import (
	"github.com/quillmont/satprep/internal/model"
	"gorm.io/gorm"
)

type TestRepository interface {
	Create(test *model.Test) error
	Update(test *model.Test) error
	FindByID(id uint) (*model.Test, error)
	FindAllByUser(userID string) ([]model.Test, error)
	UpdateStatus(id uint, status string) error
	Complete(id uint, currentQuestion, correctAnswers int) error
}

type testRepository struct {
	db *gorm.DB
}

func NewTestRepository(db *gorm.DB) TestRepository {
	return &testRepository{db: db}
}

func (r *testRepository) Create(test *model.Test) error {
	return r.db.Create(test).Error
}

func (r *testRepository) Update(test *model.Test) error {
	return r.db.Save(test).Error
}

func (r *testRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	if err := r.db.First(&test, id).Error; err != nil {
		return nil, err
	}
	return &test, nil
}

func (r *testRepository) FindAllByUser(userID string) ([]model.Test, error) {
	var tests []model.Test
	if err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tests).Error; err != nil {
		return nil, err
	}
	return tests, nil
}

func (r *testRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&model.Test{}).Where("id = ?", id).Update("status", status).Error
}

func (r *testRepository) Complete(id uint, currentQuestion, correctAnswers int) error {
	return r.db.Model(&model.Test{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":           model.TestStatusCompleted,
		"current_question": currentQuestion,
		"correct_answers":  correctAnswers,
		"completed":        true,
	}).Error
}
