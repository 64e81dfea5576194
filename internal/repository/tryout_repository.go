package repository

import (
	"career_compass_backend/internal/model"

	"gorm.io/gorm"
)

type TryoutRepository struct {
	DB *gorm.DB
}

func NewTryoutRepository(db *gorm.DB) *TryoutRepository {
	return &TryoutRepository{DB: db}
}

func (r *TryoutRepository) Create(tryout *model.Tryout) error {
	return r.DB.Create(tryout).Error
}

func (r *TryoutRepository) FindByIDAndUser(id string, userID uint) (*model.Tryout, error) {
	var tryout model.Tryout
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&tryout).Error
	return &tryout, err
}

func (r *TryoutRepository) ListByUser(userID uint) ([]model.Tryout, error) {
	var tryouts []model.Tryout
	err := r.DB.Select("id", "path_a", "path_b", "duration_days", "summary_a", "summary_b", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tryouts).Error
	return tryouts, err
}

func (r *TryoutRepository) Update(tryout *model.Tryout) error {
	return r.DB.Save(tryout).Error
}
