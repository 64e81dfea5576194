package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// CareerEngine 远端AI分析服务的客户端接口
type CareerEngine interface {
	GenerateQuestion(ctx context.Context, transcript []model.Answer) (*model.Question, error)
	AnalyzeAnswers(ctx context.Context, req AnalyzeRequest) (*AnalyzeReply, error)
	SkillGap(ctx context.Context, req SkillGapRequest) (*SkillGapReply, error)
	CoursePlan(ctx context.Context, req CoursePlanRequest) (json.RawMessage, error)
}

type AnalyzeRequest struct {
	FinalAnswers     []model.Answer     `json:"final_answers"`
	GroupName        string             `json:"group_name"`
	Preferences      *model.Preferences `json:"preferences,omitempty"`
	PreviousAnalysis interface{}        `json:"previous_analysis,omitempty"`
}

type AnalyzeReply struct {
	AICareers  []model.CareerMatch `json:"ai_generated_careers"`
	PDFCareers []model.CareerMatch `json:"pdf_based_careers"`
}

type SkillGapRequest struct {
	FinalAnswers  []model.Answer     `json:"final_answers"`
	GroupName     string             `json:"group_name"`
	Preferences   *model.Preferences `json:"preferences,omitempty"`
	TargetCareers []string           `json:"target_careers"`
}

type SkillGapReply struct {
	UserSkills map[string][]string    `json:"userSkills"`
	Careers    []model.SkillGapCareer `json:"careers"`
}

type CoursePlanRequest struct {
	CareerTitle string              `json:"careerTitle"`
	Course      string              `json:"course"`
	UserSkills  map[string][]string `json:"userSkills"`
	Gaps        json.RawMessage     `json:"gaps,omitempty"`
}

// EngineClient 通过 HTTP JSON 调远端服务。远端自身带 ~25s 的服务端超时，
// 这里的客户端超时是独立的兜底值。
type EngineClient struct {
	mu   sync.RWMutex
	cfg  config.EngineConfig
	http *http.Client
}

func NewEngineClient(cfg config.EngineConfig) *EngineClient {
	return &EngineClient{
		cfg: cfg,
		// 超时统一由每次调用的 context 控制
		http: &http.Client{},
	}
}

// UpdateConfig 配置热更新入口，在途调用不受影响
func (c *EngineClient) UpdateConfig(cfg config.EngineConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *EngineClient) config() config.EngineConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

func (c *EngineClient) GenerateQuestion(ctx context.Context, transcript []model.Answer) (*model.Question, error) {
	var reply struct {
		Question struct {
			Question string   `json:"question"`
			Options  []string `json:"options"`
		} `json:"question"`
	}

	err := c.call(ctx, "generate_question", "/generate-question", map[string]interface{}{
		"previousQA": transcript,
	}, &reply, 0)
	if err != nil {
		return nil, err
	}

	if reply.Question.Question == "" || len(reply.Question.Options) == 0 {
		return nil, util.ErrInvalidEngineReply
	}

	return &model.Question{
		Text:      reply.Question.Question,
		Options:   reply.Question.Options,
		Category:  "AI Generated",
		Skippable: false,
	}, nil
}

func (c *EngineClient) AnalyzeAnswers(ctx context.Context, req AnalyzeRequest) (*AnalyzeReply, error) {
	var reply AnalyzeReply
	if err := c.call(ctx, "analyze_answers", "/analyze-answers", req, &reply, c.config().Retries); err != nil {
		return nil, err
	}

	// 两个列表缺一即视为格式错误，不做静默兜底
	if reply.AICareers == nil || reply.PDFCareers == nil {
		return nil, util.ErrInvalidEngineReply
	}
	return &reply, nil
}

func (c *EngineClient) SkillGap(ctx context.Context, req SkillGapRequest) (*SkillGapReply, error) {
	var reply SkillGapReply
	if err := c.call(ctx, "skill_gap", "/skill-gap", req, &reply, c.config().Retries); err != nil {
		return nil, err
	}
	if reply.Careers == nil {
		return nil, util.ErrInvalidEngineReply
	}
	return &reply, nil
}

func (c *EngineClient) CoursePlan(ctx context.Context, req CoursePlanRequest) (json.RawMessage, error) {
	var reply struct {
		Plan json.RawMessage `json:"plan"`
	}
	if err := c.call(ctx, "course_plan", "/course-plan", req, &reply, c.config().Retries); err != nil {
		return nil, err
	}
	if len(reply.Plan) == 0 {
		return nil, util.ErrInvalidEngineReply
	}
	return reply.Plan, nil
}

// call 带重试的单次 JSON 往返。用户主动取消后不再重试；
// 重试之间固定退避。
func (c *EngineClient) call(ctx context.Context, operation, path string, payload, out interface{}, retries int) error {
	cfg := c.config()
	start := time.Now()

	var lastErr error
	for attempt := 0; attempt <= retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				monitoring.ObserveEngineCall(operation, "cancelled", time.Since(start))
				return util.ErrEngineCancelled
			case <-time.After(cfg.Backoff):
			}
			logger.Log.Warn("Retrying engine call",
				zap.String("operation", operation),
				zap.Int("attempt", attempt+1),
				zap.Error(lastErr))
		}

		err := c.once(ctx, cfg, path, payload, out)
		if err == nil {
			monitoring.ObserveEngineCall(operation, "ok", time.Since(start))
			return nil
		}

		// 调用方取消：立即放弃，绝不重试
		if errors.Is(err, util.ErrEngineCancelled) {
			monitoring.ObserveEngineCall(operation, "cancelled", time.Since(start))
			return err
		}
		if errors.Is(err, util.ErrInvalidEngineReply) {
			monitoring.ObserveEngineCall(operation, "error", time.Since(start))
			return err
		}
		if errors.Is(err, util.ErrEngineTimeout) {
			lastErr = err
			continue
		}
		var re *retryableError
		if errors.As(err, &re) {
			lastErr = err
			continue
		}

		monitoring.ObserveEngineCall(operation, "error", time.Since(start))
		return err
	}

	outcome := "error"
	if errors.Is(lastErr, util.ErrEngineTimeout) {
		outcome = "timeout"
	}
	monitoring.ObserveEngineCall(operation, outcome, time.Since(start))
	return lastErr
}

// retryableError 网络错误与 5xx，允许重试
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func (c *EngineClient) once(ctx context.Context, cfg config.EngineConfig, path string, payload, out interface{}) error {
	callCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, cfg.BaseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// 区分调用方取消与客户端兜底超时
		if ctx.Err() == context.Canceled {
			return util.ErrEngineCancelled
		}
		if callCtx.Err() == context.DeadlineExceeded {
			return util.ErrEngineTimeout
		}
		return &retryableError{err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctx.Err() == context.Canceled {
			return util.ErrEngineCancelled
		}
		return &retryableError{err}
	}

	if resp.StatusCode >= 500 {
		return &retryableError{fmt.Errorf("engine error (status %d): %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine error (status %d): %s", resp.StatusCode, string(body))
	}

	// 远端把业务错误放在 200 响应体里的情况
	var probe struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &probe) == nil && probe.Error != "" {
		return fmt.Errorf("engine error: %s", probe.Error)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return util.ErrInvalidEngineReply
	}
	return nil
}
