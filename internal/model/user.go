package model

import "time"

// LocationPreference 求职/升学地点偏好
type LocationPreference struct {
	Country  string `json:"country,omitempty"`
	State    string `json:"state,omitempty"`
	District string `json:"district,omitempty"`
}

// Preferences 学业画像与地点偏好，随用户档案一起下发
type Preferences struct {
	Stream        string             `json:"stream,omitempty"`
	TargetExam    string             `json:"targetExam,omitempty"`
	Colleges      []string           `json:"colleges,omitempty"`
	JobLocation   LocationPreference `json:"jobLocation,omitempty"`
	StudyLocation LocationPreference `json:"studyLocation,omitempty"`
}

// swagger:model User
type User struct {
	BaseModel
	Username        string          `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email           string          `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password        string          `gorm:"size:100;not null" json:"-"`
	GroupType       string          `gorm:"size:50;not null" json:"groupType"`
	Preferences     Preferences     `gorm:"serializer:json" json:"preferences"`
	JourneyProgress map[string]bool `gorm:"serializer:json" json:"journeyProgress"`
	LastLogin       time.Time       `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}

// MergeJourneyProgress 合并本地缓存与服务端进度。merge=false 时整体替换；
// merge=true 时在已存进度上叠加增量，冲突以传入值为准（服务端视角的最后写入胜出）。
func MergeJourneyProgress(stored, incoming map[string]bool, merge bool) map[string]bool {
	if !merge {
		out := make(map[string]bool, len(incoming))
		for k, v := range incoming {
			out[k] = v
		}
		return out
	}
	out := make(map[string]bool, len(stored)+len(incoming))
	for k, v := range stored {
		out[k] = v
	}
	for k, v := range incoming {
		out[k] = v
	}
	return out
}
