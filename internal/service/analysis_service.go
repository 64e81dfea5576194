package service

import (
	"context"
	"encoding/json"
	"math"
	"sort"
	"time"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// 摘要里每个列表最多保留的职业条数
	topCareersKept = 5
	maxTopCareers  = 10

	inputHashKeyPrefix = "analysis:input:"
	inputHashTTL       = 24 * time.Hour
)

type AnalysisOutcome struct {
	ResultID     string              `json:"resultId"`
	FullResultID string              `json:"fullResultId,omitempty"`
	AICareers    []model.CareerMatch `json:"aiCareers"`
	PDFCareers   []model.CareerMatch `json:"pdfCareers"`
	Cached       bool                `json:"cached"`
}

// TraitBand 强项快照中的单个维度
type TraitBand struct {
	Trait string  `json:"trait"`
	Score float64 `json:"score"`
	Band  string  `json:"band"`
}

// StrengthsSnapshot 测评强项快照
type StrengthsSnapshot struct {
	Careers []model.CareerMatch `json:"careers"`
	Traits  []TraitBand         `json:"traits"`
}

type AnalysisService struct {
	engine       CareerEngine
	analysisRepo *repository.AnalysisRepository
	userRepo     *repository.UserRepository
	redis        *redis.Client
	snapshot     config.SnapshotConfig
}

func NewAnalysisService(engine CareerEngine, analysisRepo *repository.AnalysisRepository, userRepo *repository.UserRepository, rdb *redis.Client, snapshot config.SnapshotConfig) *AnalysisService {
	return &AnalysisService{
		engine:       engine,
		analysisRepo: analysisRepo,
		userRepo:     userRepo,
		redis:        rdb,
		snapshot:     snapshot,
	}
}

// Analyze 完成一次职业分析。相同问答与用户组的重复提交直接复用已有结果，
// 不再请求远端。远端响应缺少任一职业列表时整体报错，不落库。
func (s *AnalysisService) Analyze(ctx context.Context, userID *uint, groupName string, transcript []model.Answer, durationMs int64) (*AnalysisOutcome, error) {
	hash := util.InputHash(transcript, groupName)

	if cached := s.lookupCached(ctx, hash); cached != nil {
		monitoring.ObserveEngineCall("analyze_answers", "cache_hit", 0)
		logger.Log.Info("Analysis served from cache",
			zap.String("input_hash", hash), zap.String("result_id", cached.ResultID))
		return cached, nil
	}

	var prefs *model.Preferences
	if userID != nil {
		if user, err := s.userRepo.FindByID(*userID); err == nil {
			prefs = &user.Preferences
		}
	}

	reply, err := s.engine.AnalyzeAnswers(ctx, AnalyzeRequest{
		FinalAnswers: transcript,
		GroupName:    groupName,
		Preferences:  prefs,
	})
	if err != nil {
		return nil, err
	}

	result := &model.AnalysisResult{
		UserID:       userID,
		GroupName:    groupName,
		AnswersCount: len(transcript),
		DurationMs:   durationMs,
		AICareers:    minifyCareers(reply.AICareers),
		PDFCareers:   minifyCareers(reply.PDFCareers),
		InputHash:    hash,
	}
	if err := s.analysisRepo.Create(result); err != nil {
		return nil, err
	}

	outcome := &AnalysisOutcome{
		ResultID:   result.ID,
		AICareers:  result.AICareers,
		PDFCareers: result.PDFCareers,
	}

	// 全量记录失败只记日志，摘要已经落库
	raw, err := json.Marshal(reply)
	if err == nil {
		full := &model.FullAnalysisResult{
			UserID:       userID,
			GroupName:    groupName,
			FinalAnswers: transcript,
			Response:     raw,
			AnswersCount: len(transcript),
			DurationMs:   durationMs,
			InputHash:    hash,
		}
		if prefs != nil {
			full.Preferences = *prefs
		}
		if err := s.analysisRepo.CreateFull(full); err != nil {
			logger.Log.Warn("Failed to persist full analysis record", zap.Error(err))
		} else {
			outcome.FullResultID = full.ID
		}
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, inputHashKeyPrefix+hash, result.ID, inputHashTTL).Err(); err != nil {
			logger.Log.Warn("Failed to cache analysis input hash", zap.Error(err))
		}
	}

	return outcome, nil
}

// lookupCached 先查 redis，再回退到数据库的 input_hash 索引
func (s *AnalysisService) lookupCached(ctx context.Context, hash string) *AnalysisOutcome {
	if s.redis != nil {
		if id, err := s.redis.Get(ctx, inputHashKeyPrefix+hash).Result(); err == nil {
			if result, err := s.analysisRepo.FindByID(id); err == nil {
				return cachedOutcome(result)
			}
		}
	}

	if result, err := s.analysisRepo.FindByInputHash(hash); err == nil {
		return cachedOutcome(result)
	}
	return nil
}

func cachedOutcome(result *model.AnalysisResult) *AnalysisOutcome {
	return &AnalysisOutcome{
		ResultID:   result.ID,
		AICareers:  result.AICareers,
		PDFCareers: result.PDFCareers,
		Cached:     true,
	}
}

// minifyCareers 摘要只保留按匹配度排序的前几条
func minifyCareers(careers []model.CareerMatch) []model.CareerMatch {
	sorted := append([]model.CareerMatch(nil), careers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Match > sorted[j].Match
	})
	if len(sorted) > topCareersKept {
		sorted = sorted[:topCareersKept]
	}
	return sorted
}

func (s *AnalysisService) GetResult(id string) (*model.AnalysisResult, error) {
	return s.analysisRepo.FindByID(id)
}

func (s *AnalysisService) GetFullResult(id string) (*model.FullAnalysisResult, error) {
	return s.analysisRepo.FindFullByID(id)
}

func (s *AnalysisService) History(userID uint, limit int) ([]model.AnalysisResult, error) {
	return s.analysisRepo.ListByUser(userID, limit)
}

func (s *AnalysisService) FullHistory(userID uint, limit int) ([]model.FullAnalysisResult, error) {
	return s.analysisRepo.ListFullByUser(userID, limit)
}

func (s *AnalysisService) LatestResult(userID uint) (*model.AnalysisResult, error) {
	return s.analysisRepo.LatestByUser(userID)
}

// TopCareers 最近一次测评中匹配度最高的职业，AI 与文档两路合并去重。
// limit 上限 10 条
func (s *AnalysisService) TopCareers(userID uint, limit int) ([]model.CareerMatch, error) {
	if limit <= 0 || limit > maxTopCareers {
		limit = maxTopCareers
	}

	result, err := s.analysisRepo.LatestByUser(userID)
	if err != nil {
		return nil, err
	}

	combined := append(append([]model.CareerMatch(nil), result.PDFCareers...), result.AICareers...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Match > combined[j].Match
	})

	seen := make(map[string]bool, len(combined))
	top := make([]model.CareerMatch, 0, limit)
	for _, career := range combined {
		if seen[career.Title] {
			continue
		}
		seen[career.Title] = true
		top = append(top, career)
		if len(top) == limit {
			break
		}
	}
	return top, nil
}

// Snapshot 基于一次测评结果生成强项快照：取匹配度最高的若干职业，
// 按维度求均值并分档
func (s *AnalysisService) Snapshot(resultID string) (*StrengthsSnapshot, error) {
	result, err := s.analysisRepo.FindByID(resultID)
	if err != nil {
		return nil, err
	}

	combined := append(append([]model.CareerMatch(nil), result.PDFCareers...), result.AICareers...)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Match > combined[j].Match
	})
	if len(combined) > s.snapshot.TopK {
		combined = combined[:s.snapshot.TopK]
	}

	return &StrengthsSnapshot{
		Careers: combined,
		Traits:  s.traitBands(combined),
	}, nil
}

// traitBands 各维度在候选职业上的均值。缺失的维度按中性分计
func (s *AnalysisService) traitBands(careers []model.CareerMatch) []TraitBand {
	neutral := float64(s.snapshot.NeutralScore)
	traits := []struct {
		name string
		pick func(*model.TraitScores) *float64
	}{
		{"logic", func(t *model.TraitScores) *float64 { return t.Logic }},
		{"creativity", func(t *model.TraitScores) *float64 { return t.Creativity }},
		{"social", func(t *model.TraitScores) *float64 { return t.Social }},
		{"organization", func(t *model.TraitScores) *float64 { return t.Organization }},
	}

	bands := make([]TraitBand, 0, len(traits))
	for _, trait := range traits {
		var sum float64
		for _, career := range careers {
			score := neutral
			if career.Scores != nil {
				if v := trait.pick(career.Scores); v != nil {
					score = *v
				}
			}
			sum += score
		}
		avg := neutral
		if len(careers) > 0 {
			// 展示用整数分
			avg = math.Round(sum / float64(len(careers)))
		}
		bands = append(bands, TraitBand{Trait: trait.name, Score: avg, Band: s.band(avg)})
	}
	return bands
}

func (s *AnalysisService) band(score float64) string {
	switch {
	case score < float64(s.snapshot.LowThreshold):
		return "low"
	case score < float64(s.snapshot.HighThreshold):
		return "medium"
	default:
		return "high"
	}
}
