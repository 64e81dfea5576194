package model

import (
	"errors"
	"fmt"
)

// ErrUnknownGroup 分组名没有对应的题库
var ErrUnknownGroup = errors.New("unknown group type")

// 受访者分组，决定使用哪套静态题库
const (
	GroupClass9To10   = "Class 9-10"
	GroupClass11To12  = "Class 11-12"
	GroupCollege      = "College Student"
	GroupPostGraduate = "PG"
)

// groupSets 分组 -> 题库编号 的显式映射表。未映射的分组在启动与会话创建时
// 都会直接报错，不做静默兜底。
var groupSets = map[string]int{
	GroupClass9To10:   1,
	GroupClass11To12:  2,
	GroupCollege:      3,
	GroupPostGraduate: 4,

	// 历史注册数据里出现过的等价写法
	"UnderGraduate Student": 3,
	"Undergraduate Student": 3,
	"PostGraduate":          4,
	"Post Graduate":         4,
}

// ResolveGroup 将分组名解析为题库编号
func ResolveGroup(groupType string) (int, error) {
	if setID, ok := groupSets[groupType]; ok {
		return setID, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownGroup, groupType)
}

// KnownGroups 返回所有规范分组名（校验种子数据用）
func KnownGroups() []string {
	return []string{GroupClass9To10, GroupClass11To12, GroupCollege, GroupPostGraduate}
}

// QuizQuestion 静态题库中的一道多选题
type QuizQuestion struct {
	BaseModel
	SetID       int      `gorm:"index;not null" json:"setId"`
	QuestionKey string   `gorm:"size:50;uniqueIndex;not null" json:"questionKey"`
	Text        string   `gorm:"type:text;not null" json:"text"`
	Options     []string `gorm:"serializer:json" json:"options"`
	Category    string   `gorm:"size:100" json:"category"`
	Position    int      `gorm:"not null" json:"position"`
	Skippable   bool     `gorm:"default:true" json:"skippable"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}

// Question 会话中实际下发的题目。静态题来自题库，AI 生成的题在运行时
// 以顺延的 key 追加。
type Question struct {
	Key       string   `json:"key"`
	Text      string   `json:"text"`
	Options   []string `json:"options"`
	Category  string   `json:"category,omitempty"`
	Skippable bool     `json:"skippable"`
}

func (q QuizQuestion) ToQuestion() Question {
	return Question{
		Key:       q.QuestionKey,
		Text:      q.Text,
		Options:   q.Options,
		Category:  q.Category,
		Skippable: q.Skippable,
	}
}

// Answer 一条问答记录，按确认顺序构成 Transcript
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
