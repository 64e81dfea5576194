package service

import (
	"errors"
	"testing"

	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memTryoutStore 内存版试验存储
type memTryoutStore struct {
	byID map[string]*model.Tryout
}

func newMemTryoutStore() *memTryoutStore {
	return &memTryoutStore{byID: make(map[string]*model.Tryout)}
}

func (s *memTryoutStore) Create(tryout *model.Tryout) error {
	if tryout.ID == "" {
		tryout.ID = model.GenerateUUID()
	}
	s.byID[tryout.ID] = tryout
	return nil
}

func (s *memTryoutStore) FindByIDAndUser(id string, userID uint) (*model.Tryout, error) {
	tryout, ok := s.byID[id]
	if !ok || tryout.UserID != userID {
		return nil, errors.New("record not found")
	}
	copied := *tryout
	return &copied, nil
}

func (s *memTryoutStore) ListByUser(userID uint) ([]model.Tryout, error) {
	var out []model.Tryout
	for _, tryout := range s.byID {
		if tryout.UserID == userID {
			out = append(out, *tryout)
		}
	}
	return out, nil
}

func (s *memTryoutStore) Update(tryout *model.Tryout) error {
	s.byID[tryout.ID] = tryout
	return nil
}

type noTemplates struct{}

func (noTemplates) FindByRole(role string) (*model.TaskTemplate, error) {
	return nil, errors.New("record not found")
}

func newTestTryout() *TryoutService {
	return NewTryoutService(newMemTryoutStore(), noTemplates{})
}

func completedTask(interest, difficulty, timeMin int) model.TryoutTask {
	return model.TryoutTask{
		Status:     model.TaskCompleted,
		Interest:   interest,
		Difficulty: difficulty,
		TimeMin:    timeMin,
	}
}

func TestComputeSideSummaryIgnoresPendingTasks(t *testing.T) {
	tasks := []model.TryoutTask{
		completedTask(4, 2, 30),
		completedTask(5, 3, 20),
		{Status: model.TaskPending, Interest: 1, Difficulty: 5, TimeMin: 999},
		{Status: model.TaskPending},
	}

	summary := ComputeSideSummary(tasks)
	assert.InDelta(t, 0.5, summary.CompletionRate, 0.001)
	assert.InDelta(t, 4.5, summary.AvgInterest, 0.001)
	assert.InDelta(t, 2.5, summary.AvgDifficulty, 0.001)
}

func TestComputeSideSummaryFitScoreFormula(t *testing.T) {
	// 兴趣4, 难度2, 平均25分钟: 4*18 + (5-2)*10 + 25 = 127 → 收敛到 100
	summary := ComputeSideSummary([]model.TryoutTask{completedTask(4, 2, 25)})
	assert.InDelta(t, 100, summary.FitScore, 0.001)

	// 兴趣1, 难度5, 平均10分钟: 18 + 0 + 10 = 28
	summary = ComputeSideSummary([]model.TryoutTask{completedTask(1, 5, 10)})
	assert.InDelta(t, 28, summary.FitScore, 0.001)

	// 平均时长贡献封顶 30 分钟
	summary = ComputeSideSummary([]model.TryoutTask{completedTask(1, 5, 300)})
	assert.InDelta(t, 48, summary.FitScore, 0.001)
}

func TestComputeSideSummaryNoCompletedTasks(t *testing.T) {
	summary := ComputeSideSummary([]model.TryoutTask{
		{Status: model.TaskPending},
		{Status: model.TaskPending},
	})
	assert.Zero(t, summary.CompletionRate)
	assert.Zero(t, summary.AvgInterest)
	assert.Zero(t, summary.FitScore)
}

func TestComputeSideSummaryEmpty(t *testing.T) {
	summary := ComputeSideSummary(nil)
	assert.Zero(t, summary.CompletionRate)
	assert.Zero(t, summary.FitScore)
}

func TestClampRating(t *testing.T) {
	assert.Equal(t, 1, clampRating(0))
	assert.Equal(t, 1, clampRating(-3))
	assert.Equal(t, 3, clampRating(3))
	assert.Equal(t, 5, clampRating(9))
}

func TestCreateClampsDurationAndGeneratesTasks(t *testing.T) {
	svc := newTestTryout()

	tryout, err := svc.Create(7, "Data Analyst", "UX Designer", 1)
	require.NoError(t, err)
	assert.Equal(t, minTryoutDays, tryout.DurationDays)
	assert.Len(t, tryout.TasksA, minTryoutDays)
	assert.Len(t, tryout.TasksB, minTryoutDays)

	tryout, err = svc.Create(7, "Data Analyst", "UX Designer", 60)
	require.NoError(t, err)
	assert.Equal(t, maxTryoutDays, tryout.DurationDays)
	assert.Len(t, tryout.TasksA, maxTryoutDays)

	// 任务按天编号，初始待办
	assert.Equal(t, "a-d1", tryout.TasksA[0].ID)
	assert.Equal(t, "b-d14", tryout.TasksB[13].ID)
	for _, task := range tryout.TasksA {
		assert.Equal(t, model.TaskPending, task.Status)
	}
}

func TestLogTaskCompletesAndRecomputesSummary(t *testing.T) {
	svc := newTestTryout()
	tryout, err := svc.Create(7, "Data Analyst", "UX Designer", 5)
	require.NoError(t, err)

	updated, err := svc.LogTask(tryout.ID, 7, "a", "a-d1", 30, 4, 2, []string{"notes.md"})
	require.NoError(t, err)

	task := updated.TasksA[0]
	assert.Equal(t, model.TaskCompleted, task.Status)
	assert.Equal(t, 30, task.TimeMin)
	assert.Equal(t, 4, task.Interest)
	assert.Equal(t, 2, task.Difficulty)
	assert.Contains(t, task.Evidence, "notes.md")

	assert.InDelta(t, 0.2, updated.SummaryA.CompletionRate, 0.001)
	assert.InDelta(t, 4, updated.SummaryA.AvgInterest, 0.001)
	// 另一侧不受影响
	assert.Zero(t, updated.SummaryB.CompletionRate)
}

func TestLogTaskRejectsAlreadyCompleted(t *testing.T) {
	svc := newTestTryout()
	tryout, err := svc.Create(7, "Data Analyst", "UX Designer", 5)
	require.NoError(t, err)

	first, err := svc.LogTask(tryout.ID, 7, "a", "a-d2", 45, 5, 3, nil)
	require.NoError(t, err)

	// 完成是单向的：再记一次被拒，指标原样保留
	_, err = svc.LogTask(tryout.ID, 7, "a", "a-d2", 5, 1, 1, nil)
	assert.ErrorIs(t, err, util.ErrTaskAlreadyCompleted)

	after, err := svc.Get(tryout.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, first.TasksA[1], after.TasksA[1])
	assert.Equal(t, first.SummaryA, after.SummaryA)
}

func TestLogTaskUnknownTask(t *testing.T) {
	svc := newTestTryout()
	tryout, err := svc.Create(7, "Data Analyst", "UX Designer", 5)
	require.NoError(t, err)

	_, err = svc.LogTask(tryout.ID, 7, "a", "a-d99", 10, 3, 3, nil)
	assert.ErrorIs(t, err, util.ErrTaskNotFound)
}

func TestLogTaskClampsRatings(t *testing.T) {
	svc := newTestTryout()
	tryout, err := svc.Create(7, "Data Analyst", "UX Designer", 5)
	require.NoError(t, err)

	updated, err := svc.LogTask(tryout.ID, 7, "b", "b-d1", 20, 9, -2, nil)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.TasksB[0].Interest)
	assert.Equal(t, 1, updated.TasksB[0].Difficulty)
}

func TestGetRejectsOtherUsersTryout(t *testing.T) {
	svc := newTestTryout()
	tryout, err := svc.Create(7, "Data Analyst", "UX Designer", 5)
	require.NoError(t, err)

	_, err = svc.Get(tryout.ID, 8)
	assert.ErrorIs(t, err, util.ErrTryoutNotFound)
}
