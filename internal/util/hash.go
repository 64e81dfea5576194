package util

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"career_compass_backend/internal/model"
)

// InputHash 对问答全文与分组做指纹，用于识别重复提交
func InputHash(answers []model.Answer, groupName string) string {
	payload, _ := json.Marshal(struct {
		FinalAnswers []model.Answer `json:"finalAnswers"`
		GroupName    string         `json:"groupName"`
	}{answers, groupName})
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
