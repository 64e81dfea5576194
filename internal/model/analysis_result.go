package model

import "encoding/json"

// TraitScores 四维特质分（0-100）。远端可能缺维度，用指针区分缺失与 0。
type TraitScores struct {
	Logic        *float64 `json:"logic,omitempty"`
	Creativity   *float64 `json:"creativity,omitempty"`
	Social       *float64 `json:"social,omitempty"`
	Organization *float64 `json:"organization,omitempty"`
}

// CareerMatch 单条职业推荐
type CareerMatch struct {
	Title          string          `json:"title"`
	Match          float64         `json:"match"`
	Description    string          `json:"description,omitempty"`
	Scores         *TraitScores    `json:"scores,omitempty"`
	RequiredSkills json.RawMessage `json:"requiredSkills,omitempty"`
	Roadmap        json.RawMessage `json:"roadmap,omitempty"`
}

// AnalysisResult 一次完整测评的摘要记录。与全量记录分开存储，
// 牺牲可回放性换取存储体积。创建后不再修改。
type AnalysisResult struct {
	UUIDBase
	UserID       *uint         `gorm:"index" json:"userId,omitempty"`
	GroupName    string        `gorm:"size:50;not null" json:"groupName"`
	AnswersCount int           `gorm:"default:0" json:"answersCount"`
	DurationMs   int64         `gorm:"default:0" json:"durationMs"`
	AICareers    []CareerMatch `gorm:"serializer:json" json:"aiCareers"`
	PDFCareers   []CareerMatch `gorm:"serializer:json" json:"pdfCareers"`
	InputHash    string        `gorm:"size:64;index" json:"inputHash"`
}

func (AnalysisResult) TableName() string {
	return "analysis_results"
}

// FullAnalysisResult 全量测评记录，保留原始问答与远端完整响应
type FullAnalysisResult struct {
	UUIDBase
	UserID       *uint           `gorm:"index" json:"userId,omitempty"`
	GroupName    string          `gorm:"size:50;not null" json:"groupName"`
	Preferences  Preferences     `gorm:"serializer:json" json:"preferences"`
	FinalAnswers []Answer        `gorm:"serializer:json" json:"finalAnswers"`
	Response     json.RawMessage `gorm:"type:json" json:"response"`
	AnswersCount int             `gorm:"default:0" json:"answersCount"`
	DurationMs   int64           `gorm:"default:0" json:"durationMs"`
	InputHash    string          `gorm:"size:64;index" json:"inputHash"`
}

func (FullAnalysisResult) TableName() string {
	return "full_analysis_results"
}
