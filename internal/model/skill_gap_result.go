package model

import "encoding/json"

// SkillGapCareer 单个目标职业的差距分析。远端字段形态不稳定的部分保留原始 JSON。
type SkillGapCareer struct {
	Title           string          `json:"title"`
	Match           float64         `json:"match,omitempty"`
	RequiredSkills  json.RawMessage `json:"requiredSkills,omitempty"`
	Gaps            json.RawMessage `json:"gaps,omitempty"`
	Recommendations json.RawMessage `json:"recommendations,omitempty"`
	Next90DaysPlan  json.RawMessage `json:"next90DaysPlan,omitempty"`
	Metrics         json.RawMessage `json:"metrics,omitempty"`
}

// SkillGapResult 技能差距分析结果。completedSkills/completedCourses
// 随用户勾选原地更新，其余字段创建后不变。
type SkillGapResult struct {
	UUIDBase
	UserID           *uint               `gorm:"index" json:"userId,omitempty"`
	GroupName        string              `gorm:"size:50" json:"groupName"`
	Preferences      Preferences         `gorm:"serializer:json" json:"preferences"`
	TargetCareers    []string            `gorm:"serializer:json" json:"targetCareers"`
	UserSkills       map[string][]string `gorm:"serializer:json" json:"userSkills"`
	Careers          []SkillGapCareer    `gorm:"serializer:json" json:"careers"`
	CompletedSkills  []string            `gorm:"serializer:json" json:"completedSkills"`
	CompletedCourses []string            `gorm:"serializer:json" json:"completedCourses"`
	InputHash        string              `gorm:"size:64;index" json:"inputHash"`
}

func (SkillGapResult) TableName() string {
	return "skill_gap_results"
}

// ToggleItem 幂等地增删一个条目：重复置位/复位不改变集合
func ToggleItem(set []string, item string, completed bool) []string {
	idx := -1
	for i, v := range set {
		if v == item {
			idx = i
			break
		}
	}
	if completed {
		if idx >= 0 {
			return set
		}
		return append(set, item)
	}
	if idx < 0 {
		return set
	}
	return append(set[:idx], set[idx+1:]...)
}
