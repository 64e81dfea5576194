package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBank 固定返回 10 道静态题
type fakeBank struct {
	size int
}

func (b *fakeBank) ListBySet(setID int) ([]model.QuizQuestion, error) {
	questions := make([]model.QuizQuestion, 0, b.size)
	for i := 1; i <= b.size; i++ {
		questions = append(questions, model.QuizQuestion{
			SetID:       setID,
			QuestionKey: fmt.Sprintf("s%d_q%d", setID, i),
			Text:        fmt.Sprintf("Question %d", i),
			Options:     []string{"A", "B", "C", "D"},
			Position:    i,
			Skippable:   true,
		})
	}
	return questions, nil
}

// fakeEngine 可编排的出题引擎
type fakeEngine struct {
	generateCalls int32
	failNext      int32
}

func (e *fakeEngine) GenerateQuestion(ctx context.Context, transcript []model.Answer) (*model.Question, error) {
	n := atomic.AddInt32(&e.generateCalls, 1)
	if atomic.LoadInt32(&e.failNext) > 0 {
		atomic.AddInt32(&e.failNext, -1)
		return nil, errors.New("engine down")
	}
	return &model.Question{
		Text:      fmt.Sprintf("AI question %d", n),
		Options:   []string{"A", "B", "C", "D"},
		Category:  "AI Generated",
		Skippable: false,
	}, nil
}

func (e *fakeEngine) AnalyzeAnswers(ctx context.Context, req AnalyzeRequest) (*AnalyzeReply, error) {
	return nil, errors.New("not used")
}

func (e *fakeEngine) SkillGap(ctx context.Context, req SkillGapRequest) (*SkillGapReply, error) {
	return nil, errors.New("not used")
}

func (e *fakeEngine) CoursePlan(ctx context.Context, req CoursePlanRequest) (json.RawMessage, error) {
	return nil, errors.New("not used")
}

// fakeAnalyzer 记录收到的问答记录
type fakeAnalyzer struct {
	calls       int32
	gotAnswers  int
	failAnalyze bool
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, userID *uint, groupName string, transcript []model.Answer, durationMs int64) (*AnalysisOutcome, error) {
	atomic.AddInt32(&a.calls, 1)
	a.gotAnswers = len(transcript)
	if a.failAnalyze {
		return nil, util.ErrInvalidEngineReply
	}
	return &AnalysisOutcome{ResultID: "result-1", FullResultID: "full-1"}, nil
}

func newTestAssessment(engine *fakeEngine, analyzer *fakeAnalyzer) *AssessmentService {
	return NewAssessmentService(&fakeBank{size: 10}, engine, analyzer)
}

func answerOne(t *testing.T, svc *AssessmentService, id string) *SessionView {
	t.Helper()
	_, err := svc.SelectOption(id, "A")
	require.NoError(t, err)
	view, err := svc.ConfirmAndAdvance(context.Background(), id)
	require.NoError(t, err)
	return view
}

func TestStartSessionUnknownGroupFails(t *testing.T) {
	svc := newTestAssessment(&fakeEngine{}, &fakeAnalyzer{})
	_, err := svc.StartSession(nil, "Kindergarten")
	require.ErrorIs(t, err, util.ErrUnknownGroup)
}

func TestConfirmWithoutSelectionLeavesStateUntouched(t *testing.T) {
	svc := newTestAssessment(&fakeEngine{}, &fakeAnalyzer{})
	view, err := svc.StartSession(nil, model.GroupCollege)
	require.NoError(t, err)

	_, err = svc.ConfirmAndAdvance(context.Background(), view.ID)
	require.ErrorIs(t, err, util.ErrNoAnswerSelected)

	after, err := svc.View(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, after.Index)
	assert.Equal(t, 0, after.Answered)
	assert.Equal(t, SessionAnswering, after.Status)
}

func TestFullRunReachesExactlyTwentyAnswers(t *testing.T) {
	engine := &fakeEngine{}
	analyzer := &fakeAnalyzer{}
	svc := newTestAssessment(engine, analyzer)

	view, err := svc.StartSession(nil, model.GroupCollege)
	require.NoError(t, err)
	require.Equal(t, 10, view.Total)

	var last *SessionView
	for i := 0; i < MaxQuestions; i++ {
		last = answerOne(t, svc, view.ID)
	}

	assert.Equal(t, SessionComplete, last.Status)
	assert.Equal(t, MaxQuestions, last.Answered)
	assert.Equal(t, "result-1", last.ResultID)
	// 静态10题之后每答一题生成一题，第20题答完触发分析而不再生成
	assert.Equal(t, int32(MaxQuestions-10), atomic.LoadInt32(&engine.generateCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&analyzer.calls))
	assert.Equal(t, MaxQuestions, analyzer.gotAnswers)
}

func TestGenerationFailureRollsBackAnswer(t *testing.T) {
	engine := &fakeEngine{}
	svc := newTestAssessment(engine, &fakeAnalyzer{})

	view, err := svc.StartSession(nil, model.GroupCollege)
	require.NoError(t, err)

	// 答完静态题库
	var last *SessionView
	for i := 0; i < 10; i++ {
		last = answerOne(t, svc, view.ID)
	}
	if i := last.Answered; i != 10 {
		t.Fatalf("expected 10 answers, got %d", i)
	}

	// 第11题生成失败：答案回滚，状态可重试
	atomic.StoreInt32(&engine.failNext, 1)
	_, err = svc.SelectOption(view.ID, "B")
	require.NoError(t, err)
	_, err = svc.ConfirmAndAdvance(context.Background(), view.ID)
	require.ErrorIs(t, err, util.ErrQuestionGeneration)

	after, err := svc.View(view.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionAnswering, after.Status)
	assert.Equal(t, 10, after.Answered, "failed generation must roll the answer back")
	assert.Equal(t, "B", after.Pending, "rolled-back answer stays selected")

	// 不重选答案，直接再次确认即为重试
	next, err := svc.ConfirmAndAdvance(context.Background(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, 11, next.Answered)
	assert.Contains(t, next.Question.Text, "AI question")
}

func TestAnalyzeFailureMarksSessionErrored(t *testing.T) {
	svc := newTestAssessment(&fakeEngine{}, &fakeAnalyzer{failAnalyze: true})

	view, err := svc.StartSession(nil, model.GroupCollege)
	require.NoError(t, err)

	for i := 0; i < MaxQuestions-1; i++ {
		answerOne(t, svc, view.ID)
	}

	_, err = svc.SelectOption(view.ID, "A")
	require.NoError(t, err)
	_, err = svc.ConfirmAndAdvance(context.Background(), view.ID)
	require.ErrorIs(t, err, util.ErrInvalidEngineReply)

	after, err := svc.View(view.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionErrored, after.Status)
}

func TestSkipOnlyStaticAndNotLast(t *testing.T) {
	svc := newTestAssessment(&fakeEngine{}, &fakeAnalyzer{})

	view, err := svc.StartSession(nil, model.GroupClass9To10)
	require.NoError(t, err)

	after, err := svc.Skip(view.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, after.Index)
	assert.Equal(t, 0, after.Answered, "skip must not record an answer")

	// 跳到最后一题后不能再跳
	for i := 1; i < 9; i++ {
		after, err = svc.Skip(view.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 9, after.Index)
	_, err = svc.Skip(view.ID)
	require.ErrorIs(t, err, util.ErrNotSkippable)
}

func TestCancelledSessionRejectsFurtherAnswers(t *testing.T) {
	svc := newTestAssessment(&fakeEngine{}, &fakeAnalyzer{})

	view, err := svc.StartSession(nil, model.GroupCollege)
	require.NoError(t, err)

	cancelled, err := svc.Cancel(view.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionCancelled, cancelled.Status)

	_, err = svc.SelectOption(view.ID, "A")
	require.ErrorIs(t, err, util.ErrSessionFinished)

	// 重复取消幂等
	again, err := svc.Cancel(view.ID)
	require.NoError(t, err)
	assert.Equal(t, SessionCancelled, again.Status)
}

func TestSelectOptionOverwritesPending(t *testing.T) {
	svc := newTestAssessment(&fakeEngine{}, &fakeAnalyzer{})

	view, err := svc.StartSession(nil, model.GroupCollege)
	require.NoError(t, err)

	_, err = svc.SelectOption(view.ID, "A")
	require.NoError(t, err)
	after, err := svc.SelectOption(view.ID, "C")
	require.NoError(t, err)
	assert.Equal(t, "C", after.Pending)
	assert.Equal(t, 0, after.Answered)
}
