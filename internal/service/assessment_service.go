package service

import (
	"context"
	"sync"
	"time"

	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxQuestions 一次测评的总题数上限，达到后自动触发分析
	MaxQuestions = 20

	SessionAnswering  = "answering"
	SessionGenerating = "generating"
	SessionAnalyzing  = "analyzing"
	SessionCancelled  = "cancelled"
	SessionComplete   = "complete"
	SessionErrored    = "errored"
)

const sessionTTL = 2 * time.Hour

// session 单个测评会话。busy 为真时正在等待远端调用，
// 其它操作一律拒绝。
type session struct {
	mu sync.Mutex

	id        string
	userID    *uint
	groupName string
	status    string
	busy      bool
	cancel    context.CancelFunc

	questions  []model.Question
	index      int
	pending    string
	transcript []model.Answer

	startedAt int64 // unix ms，用于计算作答时长
	touched   time.Time

	resultID     string
	fullResultID string
	lastError    string
}

// SessionView 会话对外快照
type SessionView struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Index        int             `json:"index"`
	Total        int             `json:"total"`
	MaxQuestions int             `json:"maxQuestions"`
	Question     *model.Question `json:"question,omitempty"`
	Pending      string          `json:"pendingAnswer,omitempty"`
	Answered     int             `json:"answered"`
	ResultID     string          `json:"resultId,omitempty"`
	FullResultID string          `json:"fullResultId,omitempty"`
	Error        string          `json:"error,omitempty"`
}

// QuestionBank 静态题库来源
type QuestionBank interface {
	ListBySet(setID int) ([]model.QuizQuestion, error)
}

// Analyzer 测评完成后的职业分析入口
type Analyzer interface {
	Analyze(ctx context.Context, userID *uint, groupName string, transcript []model.Answer, durationMs int64) (*AnalysisOutcome, error)
}

type AssessmentService struct {
	questionRepo QuestionBank
	engine       CareerEngine
	analysis     Analyzer

	mu       sync.Mutex
	sessions map[string]*session
}

func NewAssessmentService(questionRepo QuestionBank, engine CareerEngine, analysis Analyzer) *AssessmentService {
	return &AssessmentService{
		questionRepo: questionRepo,
		engine:       engine,
		analysis:     analysis,
		sessions:     make(map[string]*session),
	}
}

// Run 定期清理过期会话，由 app 以 goroutine 启动
func (s *AssessmentService) Run() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		s.sweep()
	}
}

func (s *AssessmentService) sweep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		stale := !sess.busy && time.Since(sess.touched) > sessionTTL
		sess.mu.Unlock()
		if stale {
			delete(s.sessions, id)
		}
	}
}

// StartSession 按用户组加载静态题库并创建会话。
// 未知组直接报错，不做静默回退。
func (s *AssessmentService) StartSession(userID *uint, groupType string) (*SessionView, error) {
	setID, err := model.ResolveGroup(groupType)
	if err != nil {
		return nil, err
	}

	bank, err := s.questionRepo.ListBySet(setID)
	if err != nil {
		return nil, err
	}
	if len(bank) == 0 {
		return nil, util.ErrUnknownGroup
	}

	questions := make([]model.Question, 0, len(bank))
	for _, q := range bank {
		questions = append(questions, q.ToQuestion())
	}

	sess := &session{
		id:        uuid.New().String(),
		userID:    userID,
		groupName: groupType,
		status:    SessionAnswering,
		questions: questions,
		startedAt: time.Now().UnixMilli(),
		touched:   time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	logger.Log.Info("Assessment session started",
		zap.String("session_id", sess.id),
		zap.String("group", groupType),
		zap.Int("bank_size", len(questions)))

	return sess.view(), nil
}

func (s *AssessmentService) get(id string) (*session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, util.ErrSessionNotFound
	}
	return sess, nil
}

// SelectOption 记录暂定答案，无任何副作用,可反复覆盖
func (s *AssessmentService) SelectOption(id, option string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.busy {
		return nil, util.ErrSessionBusy
	}
	if sess.status != SessionAnswering {
		return nil, util.ErrSessionFinished
	}

	sess.pending = option
	sess.touched = time.Now()
	return sess.view(), nil
}

// ConfirmAndAdvance 提交当前答案并推进。题库耗尽时请求 AI 生成下一题；
// 累计达到 MaxQuestions 时进入分析。生成失败会回滚刚提交的答案，
// 会话保持可重试状态。
func (s *AssessmentService) ConfirmAndAdvance(ctx context.Context, id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()

	if sess.busy {
		sess.mu.Unlock()
		return nil, util.ErrSessionBusy
	}
	if sess.status != SessionAnswering {
		sess.mu.Unlock()
		return nil, util.ErrSessionFinished
	}
	if sess.pending == "" {
		// 校验失败不改变任何状态
		sess.mu.Unlock()
		return nil, util.ErrNoAnswerSelected
	}
	if len(sess.transcript) >= MaxQuestions {
		sess.mu.Unlock()
		return nil, util.ErrTranscriptTooLong
	}

	answer := model.Answer{
		Question: sess.questions[sess.index].Text,
		Answer:   sess.pending,
	}
	sess.transcript = append(sess.transcript, answer)
	sess.pending = ""
	sess.touched = time.Now()

	if len(sess.transcript) >= MaxQuestions {
		return s.analyze(ctx, sess)
	}

	if sess.index < len(sess.questions)-1 {
		sess.index++
		defer sess.mu.Unlock()
		return sess.view(), nil
	}

	return s.generateNext(ctx, sess)
}

// generateNext 题库耗尽后生成下一题。调用期间持有 busy 标记但释放会话锁。
// 进入时持有 sess.mu，返回前释放。
func (s *AssessmentService) generateNext(ctx context.Context, sess *session) (*SessionView, error) {
	sess.status = SessionGenerating
	sess.busy = true
	callCtx, cancel := context.WithCancel(ctx)
	sess.cancel = cancel
	transcript := append([]model.Answer(nil), sess.transcript...)
	sess.mu.Unlock()

	question, err := s.engine.GenerateQuestion(callCtx, transcript)
	cancel()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.busy = false
	sess.cancel = nil
	sess.touched = time.Now()

	if sess.status == SessionCancelled {
		return nil, util.ErrSessionFinished
	}

	if err != nil {
		// 回滚刚提交的答案并保持选中，重试时再次确认即可
		rolled := sess.transcript[len(sess.transcript)-1]
		sess.transcript = sess.transcript[:len(sess.transcript)-1]
		sess.pending = rolled.Answer
		sess.status = SessionAnswering
		logger.Log.Warn("Question generation failed, answer rolled back",
			zap.String("session_id", sess.id), zap.Error(err))
		return nil, util.ErrQuestionGeneration
	}

	sess.questions = append(sess.questions, *question)
	sess.index = len(sess.questions) - 1
	sess.status = SessionAnswering
	return sess.view(), nil
}

// analyze 送出完整问答记录做职业分析。进入时持有 sess.mu，返回前释放。
func (s *AssessmentService) analyze(ctx context.Context, sess *session) (*SessionView, error) {
	sess.status = SessionAnalyzing
	sess.busy = true
	callCtx, cancel := context.WithCancel(ctx)
	sess.cancel = cancel
	transcript := append([]model.Answer(nil), sess.transcript...)
	userID := sess.userID
	groupName := sess.groupName
	durationMs := time.Now().UnixMilli() - sess.startedAt
	sess.mu.Unlock()

	outcome, err := s.analysis.Analyze(callCtx, userID, groupName, transcript, durationMs)
	cancel()

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.busy = false
	sess.cancel = nil
	sess.touched = time.Now()

	if sess.status == SessionCancelled {
		return nil, util.ErrSessionFinished
	}

	if err != nil {
		sess.status = SessionErrored
		sess.lastError = err.Error()
		logger.Log.Error("Career analysis failed",
			zap.String("session_id", sess.id), zap.Error(err))
		return nil, err
	}

	sess.status = SessionComplete
	sess.resultID = outcome.ResultID
	sess.fullResultID = outcome.FullResultID
	return sess.view(), nil
}

// Skip 跳过当前题。AI 生成的题不可跳过，最后一题也不可跳过。
func (s *AssessmentService) Skip(id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.busy {
		return nil, util.ErrSessionBusy
	}
	if sess.status != SessionAnswering {
		return nil, util.ErrSessionFinished
	}
	if !sess.questions[sess.index].Skippable || sess.index >= len(sess.questions)-1 {
		return nil, util.ErrNotSkippable
	}

	sess.index++
	sess.pending = ""
	sess.touched = time.Now()
	return sess.view(), nil
}

// Cancel 终止会话。若有远端调用在途则中断它，取消不算失败。
func (s *AssessmentService) Cancel(id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.status == SessionComplete || sess.status == SessionCancelled {
		return sess.view(), nil
	}

	if sess.cancel != nil {
		sess.cancel()
	}
	sess.status = SessionCancelled
	sess.touched = time.Now()

	logger.Log.Info("Assessment session cancelled", zap.String("session_id", sess.id))
	return sess.view(), nil
}

// View 返回会话当前快照
func (s *AssessmentService) View(id string) (*SessionView, error) {
	sess, err := s.get(id)
	if err != nil {
		return nil, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

// view 调用方必须持有 sess.mu
func (sess *session) view() *SessionView {
	v := &SessionView{
		ID:           sess.id,
		Status:       sess.status,
		Index:        sess.index,
		Total:        len(sess.questions),
		MaxQuestions: MaxQuestions,
		Pending:      sess.pending,
		Answered:     len(sess.transcript),
		ResultID:     sess.resultID,
		FullResultID: sess.fullResultID,
		Error:        sess.lastError,
	}
	if sess.status == SessionAnswering && sess.index < len(sess.questions) {
		q := sess.questions[sess.index]
		v.Question = &q
	}
	return v
}
