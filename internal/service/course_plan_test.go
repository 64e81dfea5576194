package service

import (
	"encoding/json"
	"testing"

	"career_compass_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCoursePlanStringLists(t *testing.T) {
	raw := json.RawMessage(`{
		"day0_30": ["Learn SQL basics", "Practice joins"],
		"day31_60": ["Build a dashboard"],
		"day61_90": ["Ship a portfolio project"]
	}`)

	plan, err := NormalizeCoursePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Learn SQL basics", "Practice joins"}, plan.Day0To30)
	assert.Equal(t, []string{"Build a dashboard"}, plan.Day31To60)
	assert.Equal(t, []string{"Ship a portfolio project"}, plan.Day61To90)
}

func TestNormalizeCoursePlanKeyAliases(t *testing.T) {
	cases := []string{
		`{"day_0_30": ["a"], "day_31_60": ["b"], "day_61_90": ["c"]}`,
		`{"0-30": ["a"], "31-60": ["b"], "61-90": ["c"]}`,
		`{"Day0To30": ["a"], "Day31To60": ["b"], "Day61To90": ["c"]}`,
		`{"month1": ["a"], "month2": ["b"], "month3": ["c"]}`,
		`{"phase1": ["a"], "phase2": ["b"], "phase3": ["c"]}`,
	}

	for _, body := range cases {
		plan, err := NormalizeCoursePlan(json.RawMessage(body))
		require.NoError(t, err, body)
		assert.Equal(t, []string{"a"}, plan.Day0To30, body)
		assert.Equal(t, []string{"b"}, plan.Day31To60, body)
		assert.Equal(t, []string{"c"}, plan.Day61To90, body)
	}
}

func TestNormalizeCoursePlanObjectItems(t *testing.T) {
	raw := json.RawMessage(`{
		"day0_30": [{"task": "Install toolchain"}, {"title": "Read the docs"}],
		"day31_60": [{"name": "Pair with a mentor"}],
		"day61_90": []
	}`)

	plan, err := NormalizeCoursePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Install toolchain", "Read the docs"}, plan.Day0To30)
	assert.Equal(t, []string{"Pair with a mentor"}, plan.Day31To60)
	assert.Empty(t, plan.Day61To90)
}

func TestNormalizeCoursePlanSplitsBulletedString(t *testing.T) {
	raw := json.RawMessage(`{
		"day0_30": "- Learn variables\n- Learn loops\n1. Write a script\n• Review"
	}`)

	plan, err := NormalizeCoursePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Learn variables", "Learn loops", "Write a script", "Review"}, plan.Day0To30)
	assert.Empty(t, plan.Day31To60)
}

func TestNormalizeCoursePlanRejectsEmptyAndGarbage(t *testing.T) {
	_, err := NormalizeCoursePlan(json.RawMessage(`{"unrelated": true}`))
	assert.ErrorIs(t, err, util.ErrInvalidEngineReply)

	_, err = NormalizeCoursePlan(json.RawMessage(`"just a string"`))
	assert.ErrorIs(t, err, util.ErrInvalidEngineReply)
}
