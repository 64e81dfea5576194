package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memGapStore 内存版差距分析结果存储
type memGapStore struct {
	byID map[string]*model.SkillGapResult
}

func newMemGapStore() *memGapStore {
	return &memGapStore{byID: make(map[string]*model.SkillGapResult)}
}

func (s *memGapStore) Create(result *model.SkillGapResult) error {
	if result.ID == "" {
		result.ID = model.GenerateUUID()
	}
	s.byID[result.ID] = result
	return nil
}

func (s *memGapStore) FindByID(id string) (*model.SkillGapResult, error) {
	result, ok := s.byID[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	copied := *result
	return &copied, nil
}

func (s *memGapStore) ListByUser(userID uint, limit int) ([]model.SkillGapResult, error) {
	var out []model.SkillGapResult
	for _, result := range s.byID {
		if result.UserID != nil && *result.UserID == userID {
			out = append(out, *result)
		}
	}
	return out, nil
}

func (s *memGapStore) Delete(id string) error {
	delete(s.byID, id)
	return nil
}

func (s *memGapStore) UpdateProgress(result *model.SkillGapResult) error {
	s.byID[result.ID] = result
	return nil
}

// planEngine 只关心课程计划调用的引擎桩，记录收到的请求
type planEngine struct {
	fakeEngine
	gotPlanReq CoursePlanRequest
	planReply  json.RawMessage
}

func (e *planEngine) CoursePlan(ctx context.Context, req CoursePlanRequest) (json.RawMessage, error) {
	e.gotPlanReq = req
	return e.planReply, nil
}

func seedGapResult(t *testing.T, store *memGapStore, userID uint) *model.SkillGapResult {
	t.Helper()
	result := &model.SkillGapResult{
		UserID:     &userID,
		GroupName:  "College Student",
		UserSkills: map[string][]string{"technical": {"Python"}},
		Careers: []model.SkillGapCareer{
			{Title: "Data Analyst", Gaps: json.RawMessage(`["SQL","Statistics"]`)},
			{Title: "UX Designer", Gaps: json.RawMessage(`["Figma"]`)},
		},
		CompletedSkills:  []string{},
		CompletedCourses: []string{},
	}
	require.NoError(t, store.Create(result))
	return result
}

func TestGenerateCoursePlanPassesCareerGaps(t *testing.T) {
	store := newMemGapStore()
	engine := &planEngine{planReply: json.RawMessage(`{"day0_30":["Learn SQL basics"],"day31_60":["Statistics course"],"day61_90":["Portfolio project"]}`)}
	svc := NewSkillGapService(engine, store, nil, nil)

	result := seedGapResult(t, store, 7)

	plan, err := svc.GenerateCoursePlan(context.Background(), result.ID, 7, "Data Analyst", "B.Sc. Data Science")
	require.NoError(t, err)
	assert.Equal(t, []string{"Learn SQL basics"}, plan.Day0To30)

	// 请求要带上该职业此前分析出的差距
	assert.Equal(t, "Data Analyst", engine.gotPlanReq.CareerTitle)
	assert.Equal(t, "B.Sc. Data Science", engine.gotPlanReq.Course)
	assert.JSONEq(t, `["SQL","Statistics"]`, string(engine.gotPlanReq.Gaps))
	assert.Equal(t, result.UserSkills, engine.gotPlanReq.UserSkills)

	body, err := json.Marshal(engine.gotPlanReq)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"gaps":["SQL","Statistics"]`)
}

func TestGenerateCoursePlanUnknownCareerSendsNoGaps(t *testing.T) {
	store := newMemGapStore()
	engine := &planEngine{planReply: json.RawMessage(`{"day0_30":["a"],"day31_60":["b"],"day61_90":["c"]}`)}
	svc := NewSkillGapService(engine, store, nil, nil)

	result := seedGapResult(t, store, 7)

	_, err := svc.GenerateCoursePlan(context.Background(), result.ID, 7, "Game Designer", "")
	require.NoError(t, err)
	assert.Nil(t, engine.gotPlanReq.Gaps)

	body, err := json.Marshal(engine.gotPlanReq)
	require.NoError(t, err)
	assert.NotContains(t, string(body), `"gaps"`)
}

func TestGetRejectsOtherUsersGapResult(t *testing.T) {
	store := newMemGapStore()
	svc := NewSkillGapService(&planEngine{}, store, nil, nil)

	result := seedGapResult(t, store, 7)

	_, err := svc.Get(result.ID, 8)
	assert.ErrorIs(t, err, util.ErrPermissionDenied)
}

func TestToggleProgressUpdatesStoredSets(t *testing.T) {
	store := newMemGapStore()
	svc := NewSkillGapService(&planEngine{}, store, nil, nil)

	result := seedGapResult(t, store, 7)

	updated, err := svc.ToggleProgress(result.ID, 7, "skill", "SQL", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL"}, updated.CompletedSkills)

	// 重复置位是幂等的
	updated, err = svc.ToggleProgress(result.ID, 7, "skill", "SQL", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"SQL"}, updated.CompletedSkills)

	updated, err = svc.ToggleProgress(result.ID, 7, "course", "Statistics 101", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Statistics 101"}, updated.CompletedCourses)
	assert.Equal(t, []string{"SQL"}, updated.CompletedSkills)
}
