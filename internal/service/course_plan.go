package service

import (
	"encoding/json"
	"regexp"
	"strings"

	"career_compass_backend/internal/util"
)

// CoursePlan 归一化后的 90 天学习计划
type CoursePlan struct {
	Day0To30  []string `json:"day0_30"`
	Day31To60 []string `json:"day31_60"`
	Day61To90 []string `json:"day61_90"`
}

// 远端各模型对阶段键的命名并不一致，按别名表归并
var planKeyAliases = map[string][]string{
	"day0_30":  {"day0_30", "day_0_30", "day0to30", "days0_30", "0-30", "0_30", "first30", "first_30_days", "month1", "phase1"},
	"day31_60": {"day31_60", "day_31_60", "day31to60", "days31_60", "31-60", "31_60", "next30", "second_30_days", "month2", "phase2"},
	"day61_90": {"day61_90", "day_61_90", "day61to90", "days61_90", "61-90", "61_90", "last30", "final_30_days", "month3", "phase3"},
}

var listItemPrefix = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)

// NormalizeCoursePlan 把远端返回的任意形态计划压成三段字符串列表。
// 三段全空视为无效响应。
func NormalizeCoursePlan(raw json.RawMessage) (*CoursePlan, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, util.ErrInvalidEngineReply
	}

	// 键名统一小写去符号后再比对别名
	canonical := make(map[string]json.RawMessage, len(fields))
	for key, value := range fields {
		canonical[canonicalKey(key)] = value
	}

	plan := &CoursePlan{}
	targets := map[string]*[]string{
		"day0_30":  &plan.Day0To30,
		"day31_60": &plan.Day31To60,
		"day61_90": &plan.Day61To90,
	}
	for bucket, out := range targets {
		for _, alias := range planKeyAliases[bucket] {
			if value, ok := canonical[canonicalKey(alias)]; ok {
				*out = normalizePlanItems(value)
				break
			}
		}
		if *out == nil {
			*out = []string{}
		}
	}

	if len(plan.Day0To30) == 0 && len(plan.Day31To60) == 0 && len(plan.Day61To90) == 0 {
		return nil, util.ErrInvalidEngineReply
	}
	return plan, nil
}

func canonicalKey(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	key = strings.NewReplacer("-", "", "_", "", " ", "").Replace(key)
	return key
}

// normalizePlanItems 接受字符串列表、对象列表或单个长字符串
func normalizePlanItems(raw json.RawMessage) []string {
	var items []string

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, entry := range list {
			var text string
			if json.Unmarshal(entry, &text) == nil {
				items = append(items, cleanPlanItem(text)...)
				continue
			}
			var obj map[string]interface{}
			if json.Unmarshal(entry, &obj) == nil {
				for _, field := range []string{"task", "title", "name", "description", "text"} {
					if v, ok := obj[field].(string); ok && v != "" {
						items = append(items, strings.TrimSpace(v))
						break
					}
				}
			}
		}
		return compactItems(items)
	}

	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return compactItems(cleanPlanItem(text))
	}
	return nil
}

// cleanPlanItem 长字符串按换行拆条，剥掉列表记号
func cleanPlanItem(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		line = listItemPrefix.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line != "" {
			items = append(items, line)
		}
	}
	return items
}

func compactItems(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
