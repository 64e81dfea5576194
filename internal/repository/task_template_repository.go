package repository

import (
	"career_compass_backend/internal/model"

	"gorm.io/gorm"
)

type TaskTemplateRepository struct {
	DB *gorm.DB
}

func NewTaskTemplateRepository(db *gorm.DB) *TaskTemplateRepository {
	return &TaskTemplateRepository{DB: db}
}

func (r *TaskTemplateRepository) FindByRole(role string) (*model.TaskTemplate, error) {
	var template model.TaskTemplate
	err := r.DB.Where("role = ?", role).First(&template).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}
