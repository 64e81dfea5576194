package service

import (
	"fmt"
	"math"

	"career_compass_backend/internal/model"
	"career_compass_backend/internal/util"
	"career_compass_backend/pkg/logger"

	"go.uber.org/zap"
)

const (
	minTryoutDays = 3
	maxTryoutDays = 14
)

// TryoutStore 试验记录的持久化接口
type TryoutStore interface {
	Create(tryout *model.Tryout) error
	FindByIDAndUser(id string, userID uint) (*model.Tryout, error)
	ListByUser(userID uint) ([]model.Tryout, error)
	Update(tryout *model.Tryout) error
}

// TemplateStore 按职业角色取任务模板
type TemplateStore interface {
	FindByRole(role string) (*model.TaskTemplate, error)
}

type TryoutService struct {
	tryoutRepo   TryoutStore
	templateRepo TemplateStore
}

func NewTryoutService(tryoutRepo TryoutStore, templateRepo TemplateStore) *TryoutService {
	return &TryoutService{tryoutRepo: tryoutRepo, templateRepo: templateRepo}
}

// Create 创建一次 A/B 路径对比试验，天数收敛到 [3,14]。
// 两侧各生成 durationDays 条待办任务。
func (s *TryoutService) Create(userID uint, pathA, pathB string, durationDays int) (*model.Tryout, error) {
	if durationDays < minTryoutDays {
		durationDays = minTryoutDays
	}
	if durationDays > maxTryoutDays {
		durationDays = maxTryoutDays
	}

	tryout := &model.Tryout{
		UserID:       userID,
		PathA:        pathA,
		PathB:        pathB,
		DurationDays: durationDays,
		TasksA:       s.generateTasks(pathA, "a", durationDays),
		TasksB:       s.generateTasks(pathB, "b", durationDays),
	}

	if err := s.tryoutRepo.Create(tryout); err != nil {
		return nil, err
	}

	logger.Log.Info("Tryout created",
		zap.String("tryout_id", tryout.ID),
		zap.String("path_a", pathA),
		zap.String("path_b", pathB),
		zap.Int("days", durationDays))
	return tryout, nil
}

// generateTasks 优先用该职业的预置模板，没有模板时走通用任务
func (s *TryoutService) generateTasks(role, side string, days int) []model.TryoutTask {
	skills := []string{"Foundations", "Tooling", "Problem Solving", "Project"}
	titles := []string{
		"Read an introduction to " + role + " and note three takeaways",
		"Follow a beginner tutorial related to " + role,
		"Complete a small hands-on exercise for " + role,
		"Build a tiny project artifact for " + role,
	}

	if template, err := s.templateRepo.FindByRole(role); err == nil {
		if len(template.Skills) > 0 {
			skills = template.Skills
		}
		if len(template.Titles) > 0 {
			titles = template.Titles
		}
	}

	tasks := make([]model.TryoutTask, 0, days)
	for day := 1; day <= days; day++ {
		tasks = append(tasks, model.TryoutTask{
			ID:       fmt.Sprintf("%s-d%d", side, day),
			Day:      day,
			Title:    fmt.Sprintf("Day %d: %s", day, titles[(day-1)%len(titles)]),
			SkillTag: skills[(day-1)%len(skills)],
			Status:   model.TaskPending,
			Evidence: []string{},
		})
	}
	return tasks
}

func (s *TryoutService) Get(id string, userID uint) (*model.Tryout, error) {
	tryout, err := s.tryoutRepo.FindByIDAndUser(id, userID)
	if err != nil {
		return nil, util.ErrTryoutNotFound
	}
	return tryout, nil
}

func (s *TryoutService) List(userID uint) ([]model.Tryout, error) {
	return s.tryoutRepo.ListByUser(userID)
}

// LogTask 记录一条任务完成。完成是单向的：已完成的任务再记一次直接拒绝，
// 汇总指标不变。
func (s *TryoutService) LogTask(id string, userID uint, side, taskID string, timeMin, interest, difficulty int, evidence []string) (*model.Tryout, error) {
	tryout, err := s.Get(id, userID)
	if err != nil {
		return nil, err
	}

	tasks := tryout.TasksA
	if side == "b" {
		tasks = tryout.TasksB
	}

	idx := -1
	for i := range tasks {
		if tasks[i].ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, util.ErrTaskNotFound
	}
	if tasks[idx].Status == model.TaskCompleted {
		return nil, util.ErrTaskAlreadyCompleted
	}

	tasks[idx].Status = model.TaskCompleted
	tasks[idx].TimeMin = timeMin
	tasks[idx].Interest = clampRating(interest)
	tasks[idx].Difficulty = clampRating(difficulty)
	if len(evidence) > 0 {
		tasks[idx].Evidence = append(tasks[idx].Evidence, evidence...)
	}

	if side == "b" {
		tryout.TasksB = tasks
		tryout.SummaryB = ComputeSideSummary(tasks)
	} else {
		tryout.TasksA = tasks
		tryout.SummaryA = ComputeSideSummary(tasks)
	}

	if err := s.tryoutRepo.Update(tryout); err != nil {
		return nil, err
	}
	return tryout, nil
}

func clampRating(v int) int {
	if v < 1 {
		return 1
	}
	if v > 5 {
		return 5
	}
	return v
}

// ComputeSideSummary 单侧汇总。均值只统计已完成的任务；
// 适配分 = 兴趣*18 + (5-难度)*10 + min(30, 总时长/完成数)，收敛到 [0,100]。
func ComputeSideSummary(tasks []model.TryoutTask) model.SideSummary {
	var completed, totalInterest, totalDifficulty, totalTime float64
	for _, task := range tasks {
		if task.Status != model.TaskCompleted {
			continue
		}
		completed++
		totalInterest += float64(task.Interest)
		totalDifficulty += float64(task.Difficulty)
		totalTime += float64(task.TimeMin)
	}

	summary := model.SideSummary{}
	if len(tasks) > 0 {
		summary.CompletionRate = completed / float64(len(tasks))
	}
	if completed == 0 {
		return summary
	}

	summary.AvgInterest = totalInterest / completed
	summary.AvgDifficulty = totalDifficulty / completed

	avgTime := totalTime / completed
	fit := summary.AvgInterest*18 +
		(5-math.Min(5, summary.AvgDifficulty))*10 +
		math.Min(30, avgTime)
	summary.FitScore = math.Max(0, math.Min(100, fit))
	return summary
}
