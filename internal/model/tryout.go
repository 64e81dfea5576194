package model

const (
	TaskPending   = "pending"
	TaskCompleted = "completed"
)

// TryoutTask A/B 试验中的一条每日小任务。状态只能 pending -> completed，
// 不可回退。
type TryoutTask struct {
	ID         string   `json:"id"`
	Day        int      `json:"day"`
	Title      string   `json:"title"`
	SkillTag   string   `json:"skillTag"`
	Status     string   `json:"status"`
	TimeMin    int      `json:"timeMin"`
	Interest   int      `json:"interest"`
	Difficulty int      `json:"difficulty"`
	Evidence   []string `json:"evidence"`
}

// SideSummary 单侧路径的汇总指标
type SideSummary struct {
	CompletionRate float64 `json:"completionRate"`
	AvgInterest    float64 `json:"avgInterest"`
	AvgDifficulty  float64 `json:"avgDifficulty"`
	FitScore       float64 `json:"fitScore"`
}

// Tryout 两条职业路径的并行自测实验
type Tryout struct {
	UUIDBase
	UserID       uint         `gorm:"index;not null" json:"userId"`
	PathA        string       `gorm:"size:100;not null" json:"pathA"`
	PathB        string       `gorm:"size:100;not null" json:"pathB"`
	DurationDays int          `gorm:"default:7" json:"durationDays"`
	TasksA       []TryoutTask `gorm:"serializer:json" json:"tasksA"`
	TasksB       []TryoutTask `gorm:"serializer:json" json:"tasksB"`
	SummaryA     SideSummary  `gorm:"serializer:json" json:"summaryA"`
	SummaryB     SideSummary  `gorm:"serializer:json" json:"summaryB"`
}

func (Tryout) TableName() string {
	return "tryouts"
}

// TaskTemplate 按职业角色预置的任务模板
type TaskTemplate struct {
	BaseModel
	Role   string   `gorm:"size:100;uniqueIndex;not null" json:"role"`
	Skills []string `gorm:"serializer:json" json:"skills"`
	Titles []string `gorm:"serializer:json" json:"titles"`
}

func (TaskTemplate) TableName() string {
	return "task_templates"
}
