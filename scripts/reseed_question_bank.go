// 手动重建静态题库与任务模板脚本
//
// 正常启动时只在表为空的情况下灌入种子数据。题目文案调整后
// 需要用此脚本清空并重灌。
//
// 用法: go run scripts/reseed_question_bank.go

package main

import (
	"log"
	"os"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"
	"career_compass_backend/pkg/database"

	"gopkg.in/yaml.v3"
)

func main() {
	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	if err := db.Exec("DELETE FROM quiz_questions").Error; err != nil {
		log.Fatalf("清空题库失败: %v", err)
	}
	if err := db.Exec("DELETE FROM task_templates").Error; err != nil {
		log.Fatalf("清空任务模板失败: %v", err)
	}

	if err := database.SeedDefaults(db); err != nil {
		log.Fatalf("重灌种子数据失败: %v", err)
	}

	var questions, templates int64
	db.Model(&model.QuizQuestion{}).Count(&questions)
	db.Model(&model.TaskTemplate{}).Count(&templates)
	log.Printf("重建完成: %d 道题, %d 个任务模板", questions, templates)
}
