package repository

import (
	"career_compass_backend/internal/model"

	"gorm.io/gorm"
)

type AnalysisRepository struct {
	DB *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{DB: db}
}

func (r *AnalysisRepository) Create(result *model.AnalysisResult) error {
	return r.DB.Create(result).Error
}

func (r *AnalysisRepository) CreateFull(result *model.FullAnalysisResult) error {
	return r.DB.Create(result).Error
}

func (r *AnalysisRepository) FindByID(id string) (*model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := r.DB.Where("id = ?", id).First(&result).Error
	return &result, err
}

func (r *AnalysisRepository) FindFullByID(id string) (*model.FullAnalysisResult, error) {
	var result model.FullAnalysisResult
	err := r.DB.Where("id = ?", id).First(&result).Error
	return &result, err
}

// FindByInputHash 按输入指纹查最近一条摘要记录（重复提交短路用）
func (r *AnalysisRepository) FindByInputHash(hash string) (*model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := r.DB.Where("input_hash = ?", hash).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// FindFullByInputHash 取同一输入指纹对应的全量记录，用于复用原始问答
func (r *AnalysisRepository) FindFullByInputHash(hash string) (*model.FullAnalysisResult, error) {
	var result model.FullAnalysisResult
	err := r.DB.Where("input_hash = ?", hash).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *AnalysisRepository) ListByUser(userID uint, limit int) ([]model.AnalysisResult, error) {
	var results []model.AnalysisResult
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}

func (r *AnalysisRepository) LatestByUser(userID uint) (*model.AnalysisResult, error) {
	var result model.AnalysisResult
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// ListFullByUser 全量记录列表只取摘要列，不拖 response 大字段
func (r *AnalysisRepository) ListFullByUser(userID uint, limit int) ([]model.FullAnalysisResult, error) {
	var results []model.FullAnalysisResult
	err := r.DB.Select("id", "group_name", "answers_count", "duration_ms", "created_at").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	return results, err
}
