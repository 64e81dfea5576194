package service

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"

	"go.uber.org/zap"
)

// 差距分析最多带上的目标职业数
const maxTargetCareers = 3

// GapStore 差距分析结果的持久化接口
type GapStore interface {
	Create(result *model.SkillGapResult) error
	FindByID(id string) (*model.SkillGapResult, error)
	ListByUser(userID uint, limit int) ([]model.SkillGapResult, error)
	Delete(id string) error
	UpdateProgress(result *model.SkillGapResult) error
}

type SkillGapService struct {
	engine       CareerEngine
	skillGapRepo GapStore
	analysisRepo *repository.AnalysisRepository
	userRepo     *repository.UserRepository

	// 进度更新按结果 ID 串行化，避免并发读改写互相覆盖
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSkillGapService(engine CareerEngine, skillGapRepo GapStore, analysisRepo *repository.AnalysisRepository, userRepo *repository.UserRepository) *SkillGapService {
	return &SkillGapService{
		engine:       engine,
		skillGapRepo: skillGapRepo,
		analysisRepo: analysisRepo,
		userRepo:     userRepo,
		locks:        make(map[string]*sync.Mutex),
	}
}

// RequestGapAnalysis 基于最近一次测评发起技能差距分析。
// 未指定目标职业时取最近测评中匹配度最高的若干条。
func (s *SkillGapService) RequestGapAnalysis(ctx context.Context, userID uint, targetCareers []string) (*model.SkillGapResult, error) {
	latest, err := s.analysisRepo.LatestByUser(userID)
	if err != nil {
		return nil, util.ErrResultNotFound
	}

	if len(targetCareers) == 0 {
		targetCareers = topCareerTitles(latest)
	}
	if len(targetCareers) > maxTargetCareers {
		targetCareers = targetCareers[:maxTargetCareers]
	}

	var prefs *model.Preferences
	if user, err := s.userRepo.FindByID(userID); err == nil {
		prefs = &user.Preferences
	}

	full, err := s.analysisRepo.FindFullByInputHash(latest.InputHash)
	var answers []model.Answer
	if err == nil {
		answers = full.FinalAnswers
	}

	reply, err := s.engine.SkillGap(ctx, SkillGapRequest{
		FinalAnswers:  answers,
		GroupName:     latest.GroupName,
		Preferences:   prefs,
		TargetCareers: targetCareers,
	})
	if err != nil {
		return nil, err
	}

	result := &model.SkillGapResult{
		UserID:           &userID,
		GroupName:        latest.GroupName,
		TargetCareers:    targetCareers,
		UserSkills:       reply.UserSkills,
		Careers:          reply.Careers,
		CompletedSkills:  []string{},
		CompletedCourses: []string{},
		InputHash:        latest.InputHash,
	}
	if prefs != nil {
		result.Preferences = *prefs
	}
	if err := s.skillGapRepo.Create(result); err != nil {
		return nil, err
	}

	logger.Log.Info("Skill gap analysis saved",
		zap.String("result_id", result.ID),
		zap.Strings("target_careers", targetCareers))
	return result, nil
}

// topCareerTitles 两个列表合并后按匹配度降序去重
func topCareerTitles(result *model.AnalysisResult) []string {
	combined := append(append([]model.CareerMatch(nil), result.PDFCareers...), result.AICareers...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Match > combined[j].Match
	})

	seen := make(map[string]bool)
	titles := make([]string, 0, maxTargetCareers)
	for _, c := range combined {
		if c.Title == "" || seen[c.Title] {
			continue
		}
		seen[c.Title] = true
		titles = append(titles, c.Title)
		if len(titles) == maxTargetCareers {
			break
		}
	}
	return titles
}

func (s *SkillGapService) Get(id string, userID uint) (*model.SkillGapResult, error) {
	result, err := s.skillGapRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrResultNotFound
	}
	if result.UserID == nil || *result.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return result, nil
}

func (s *SkillGapService) History(userID uint, limit int) ([]model.SkillGapResult, error) {
	return s.skillGapRepo.ListByUser(userID, limit)
}

func (s *SkillGapService) Delete(id string, userID uint) error {
	if _, err := s.Get(id, userID); err != nil {
		return err
	}
	return s.skillGapRepo.Delete(id)
}

// ToggleProgress 幂等地置位/复位一个技能或课程的完成状态。
// kind 为 "skill" 或 "course"。
func (s *SkillGapService) ToggleProgress(id string, userID uint, kind, item string, completed bool) (*model.SkillGapResult, error) {
	lock := s.resultLock(id)
	lock.Lock()
	defer lock.Unlock()

	result, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	switch kind {
	case "course":
		result.CompletedCourses = model.ToggleItem(result.CompletedCourses, item, completed)
	default:
		result.CompletedSkills = model.ToggleItem(result.CompletedSkills, item, completed)
	}

	if err := s.skillGapRepo.UpdateProgress(result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *SkillGapService) resultLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[id] = lock
	}
	return lock
}

// GenerateCoursePlan 为某个推荐课程生成 90 天学习计划。
// 远端返回的计划形态不稳定，落地前先归一化。
func (s *SkillGapService) GenerateCoursePlan(ctx context.Context, id string, userID uint, careerTitle, course string) (*CoursePlan, error) {
	result, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	// 该职业此前分析出的差距一并传给远端，计划才能针对缺口
	var gaps json.RawMessage
	for _, career := range result.Careers {
		if career.Title == careerTitle {
			gaps = career.Gaps
			break
		}
	}

	raw, err := s.engine.CoursePlan(ctx, CoursePlanRequest{
		CareerTitle: careerTitle,
		Course:      course,
		UserSkills:  result.UserSkills,
		Gaps:        gaps,
	})
	if err != nil {
		return nil, err
	}

	plan, err := NormalizeCoursePlan(raw)
	if err != nil {
		logger.Log.Warn("Course plan normalization failed",
			zap.String("result_id", id), zap.Error(err))
		return nil, util.ErrInvalidEngineReply
	}
	return plan, nil
}
