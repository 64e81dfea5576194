package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
)

type PushService struct {
	subRepo *repository.PushSubscriptionRepository
}

func NewPushService(subRepo *repository.PushSubscriptionRepository) *PushService {
	return &PushService{subRepo: subRepo}
}

// Subscribe 同一 endpoint 重复订阅做 upsert，不报错
func (s *PushService) Subscribe(userID uint, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	sub := &model.PushSubscription{
		UserID:   userID,
		Endpoint: endpoint,
		P256dh:   p256dh,
		Auth:     auth,
	}
	if err := s.subRepo.Upsert(sub); err != nil {
		return nil, err
	}
	return sub, nil
}

func (s *PushService) Unsubscribe(userID uint, endpoint string) error {
	return s.subRepo.DeleteByEndpoint(userID, endpoint)
}

func (s *PushService) List(userID uint) ([]model.PushSubscription, error) {
	return s.subRepo.ListByUser(userID)
}
