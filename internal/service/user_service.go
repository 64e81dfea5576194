package service

import (
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/util"
)

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}
	return user, nil
}

type ProfileUpdate struct {
	Username  *string            `json:"username"`
	Email     *string            `json:"email"`
	GroupType *string            `json:"groupType"`
	Prefs     *model.Preferences `json:"preferences"`
}

// UpdateProfile 部分更新。换邮箱要查重，换用户组要校验分组合法
func (s *UserService) UpdateProfile(userID uint, update ProfileUpdate) (*model.User, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	if update.Email != nil && *update.Email != user.Email {
		inUse, err := s.userRepo.EmailInUse(*update.Email, userID)
		if err != nil {
			return nil, err
		}
		if inUse {
			return nil, util.ErrEmailRegistered
		}
		user.Email = *update.Email
	}
	if update.Username != nil && *update.Username != "" {
		user.Username = *update.Username
	}
	if update.GroupType != nil {
		if _, err := model.ResolveGroup(*update.GroupType); err != nil {
			return nil, err
		}
		user.GroupType = *update.GroupType
	}
	if update.Prefs != nil {
		user.Preferences = *update.Prefs
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateJourneyProgress 同步旅程进度。merge=true 叠加增量，否则整体替换
func (s *UserService) UpdateJourneyProgress(userID uint, progress map[string]bool, merge bool) (map[string]bool, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, util.ErrUserNotFound
	}

	user.JourneyProgress = model.MergeJourneyProgress(user.JourneyProgress, progress, merge)
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user.JourneyProgress, nil
}
