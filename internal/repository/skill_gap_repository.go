package repository

import (
	"career_compass_backend/internal/model"

	"gorm.io/gorm"
)

type SkillGapRepository struct {
	DB *gorm.DB
}

func NewSkillGapRepository(db *gorm.DB) *SkillGapRepository {
	return &SkillGapRepository{DB: db}
}

func (r *SkillGapRepository) Create(result *model.SkillGapResult) error {
	return r.DB.Create(result).Error
}

func (r *SkillGapRepository) FindByID(id string) (*model.SkillGapResult, error) {
	var result model.SkillGapResult
	err := r.DB.Where("id = ?", id).First(&result).Error
	return &result, err
}

func (r *SkillGapRepository) ListByUser(userID uint, limit int) ([]model.SkillGapResult, error) {
	var results []model.SkillGapResult
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func (r *SkillGapRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.SkillGapResult{}).Error
}

// UpdateProgress 只写勾选进度两列，避免覆盖并发更新的其他字段
func (r *SkillGapRepository) UpdateProgress(result *model.SkillGapResult) error {
	return r.DB.Model(result).
		Select("completed_skills", "completed_courses").
		Updates(model.SkillGapResult{
			CompletedSkills:  result.CompletedSkills,
			CompletedCourses: result.CompletedCourses,
		}).Error
}
