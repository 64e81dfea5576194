package service

import (
	"testing"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func snapshotService() *AnalysisService {
	return NewAnalysisService(nil, nil, nil, nil, config.SnapshotConfig{
		TopK:          4,
		NeutralScore:  50,
		LowThreshold:  40,
		HighThreshold: 70,
	})
}

func scorePtr(v float64) *float64 { return &v }

func TestTraitBandsAveragesWithNeutralForMissing(t *testing.T) {
	svc := snapshotService()

	careers := []model.CareerMatch{
		{Title: "A", Scores: &model.TraitScores{Logic: scorePtr(80)}},
		{Title: "B", Scores: &model.TraitScores{Logic: scorePtr(60)}},
		{Title: "C", Scores: &model.TraitScores{}}, // logic 缺失 → 50
		{Title: "D", Scores: &model.TraitScores{Logic: scorePtr(40)}},
	}

	bands := svc.traitBands(careers)
	assert.Equal(t, "logic", bands[0].Trait)
	// (80+60+50+40)/4 = 57.5，展示取整到 58
	assert.InDelta(t, 58, bands[0].Score, 0.001)
	assert.Equal(t, "medium", bands[0].Band)

	// 全员缺失的维度落在中性分
	assert.InDelta(t, 50, bands[1].Score, 0.001)
	assert.Equal(t, "medium", bands[1].Band)
}

func TestTraitBandsNilScoresTreatedAsNeutral(t *testing.T) {
	svc := snapshotService()

	bands := svc.traitBands([]model.CareerMatch{{Title: "A"}, {Title: "B"}})
	for _, band := range bands {
		assert.InDelta(t, 50, band.Score, 0.001)
		assert.Equal(t, "medium", band.Band)
	}
}

func TestBandThresholds(t *testing.T) {
	svc := snapshotService()

	assert.Equal(t, "low", svc.band(39.9))
	assert.Equal(t, "medium", svc.band(40))
	assert.Equal(t, "medium", svc.band(69.9))
	assert.Equal(t, "high", svc.band(70))
	assert.Equal(t, "high", svc.band(100))
}

func TestMinifyCareersKeepsTopFiveByMatch(t *testing.T) {
	careers := []model.CareerMatch{
		{Title: "F", Match: 10},
		{Title: "A", Match: 95},
		{Title: "C", Match: 70},
		{Title: "B", Match: 88},
		{Title: "E", Match: 30},
		{Title: "D", Match: 55},
	}

	kept := minifyCareers(careers)
	assert.Len(t, kept, 5)
	assert.Equal(t, "A", kept[0].Title)
	assert.Equal(t, "B", kept[1].Title)
	assert.Equal(t, "E", kept[4].Title)

	// 原切片顺序不受影响
	assert.Equal(t, "F", careers[0].Title)
}

func TestTopCareerTitlesDeduplicatesAcrossLists(t *testing.T) {
	result := &model.AnalysisResult{
		PDFCareers: []model.CareerMatch{
			{Title: "Software Engineer", Match: 91},
			{Title: "Data Analyst", Match: 80},
		},
		AICareers: []model.CareerMatch{
			{Title: "Software Engineer", Match: 89},
			{Title: "UX Designer", Match: 85},
			{Title: "Teacher", Match: 60},
		},
	}

	titles := topCareerTitles(result)
	assert.Equal(t, []string{"Software Engineer", "UX Designer", "Data Analyst"}, titles)
}
