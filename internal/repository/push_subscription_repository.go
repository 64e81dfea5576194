package repository

import (
	"career_compass_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PushSubscriptionRepository struct {
	DB *gorm.DB
}

func NewPushSubscriptionRepository(db *gorm.DB) *PushSubscriptionRepository {
	return &PushSubscriptionRepository{DB: db}
}

// Upsert 同一 endpoint 重复订阅时覆盖密钥与归属用户
func (r *PushSubscriptionRepository) Upsert(sub *model.PushSubscription) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth"}),
	}).Create(sub).Error
}

func (r *PushSubscriptionRepository) DeleteByEndpoint(userID uint, endpoint string) error {
	return r.DB.Where("user_id = ? AND endpoint = ?", userID, endpoint).
		Delete(&model.PushSubscription{}).Error
}

func (r *PushSubscriptionRepository) ListByUser(userID uint) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.DB.Where("user_id = ?", userID).Find(&subs).Error
	return subs, err
}
