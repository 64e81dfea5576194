package repository

import (
	"career_compass_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// ListBySet 按题库编号取静态题，保持录入顺序
func (r *QuestionRepository) ListBySet(setID int) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("set_id = ?", setID).
		Order("position ASC").
		Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountBySet(setID int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizQuestion{}).
		Where("set_id = ?", setID).
		Count(&count).Error
	return count, err
}
