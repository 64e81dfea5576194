package database

import (
	"fmt"
	"log"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	err = db.AutoMigrate(
		&model.User{},
		&model.QuizQuestion{},
		&model.AnalysisResult{},
		&model.FullAnalysisResult{},
		&model.SkillGapResult{},
		&model.Tryout{},
		&model.TaskTemplate{},
		&model.PushSubscription{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := SeedDefaults(db); err != nil {
		return nil, err
	}

	return db, nil
}

// SeedDefaults 灌入静态题库与任务模板（已有数据时跳过）
func SeedDefaults(db *gorm.DB) error {
	if err := seedQuestionBank(db); err != nil {
		return err
	}
	return seedTaskTemplates(db)
}

type seedQuestion struct {
	key      string
	category string
	text     string
	options  []string
}

// 固定题库：五个维度的多选题，四个分组各一套
var questionCatalog = []seedQuestion{
	{"critical_1", "Critical Thinking", "Can you describe a situation where you faced a complex problem?",
		[]string{"Analyze and break down the problem", "Ignore the problem", "Seek external help", "Other"}},
	{"critical_2", "Critical Thinking", "How do you approach making important decisions?",
		[]string{"Evaluate available data", "Follow instincts", "Consult with experts", "Delay the decision"}},
	{"critical_3", "Critical Thinking", "Imagine you are given conflicting pieces of data to analyze. How would you determine which data is most reliable and why?",
		[]string{"Cross-check with credible sources", "Trust your intuition", "Choose the data that supports your goals", "Consult a team"}},
	{"critical_4", "Critical Thinking", "If a car travels 60 miles in one hour, how long will it take to travel 150 miles at the same speed?",
		[]string{"2 hours and 30 minutes", "3 hours", "3 hours and 30 minutes", "None of the above"}},
	{"creative_1", "Creative Thinking", "Can you share an example of when you came up with a creative solution to a challenge?",
		[]string{"Brainstorm new ideas", "Use existing solutions", "Collaborate with others", "Take no action"}},
	{"creative_2", "Creative Thinking", "If you were tasked with designing a new app to improve daily productivity, what features would you include?",
		[]string{"Task management tools", "AI-based scheduling", "Notifications and reminders", "Custom themes"}},
	{"creative_3", "Creative Thinking", "If you could reinvent any common object (like a pen or a chair), what would you change?",
		[]string{"Add technology features", "Improve design", "Focus on sustainability", "Make it multipurpose"}},
	{"aptitude_1", "Aptitude", "What is the next number in the sequence: 2, 6, 12, 20...?",
		[]string{"30", "28", "32", "24"}},
	{"aptitude_2", "Aptitude", "Choose the word that best fits the analogy: 'Bird is to sky as fish is to _______'",
		[]string{"Ocean", "Lake", "Water", "River"}},
	{"aptitude_3", "Aptitude", "You have three boxes: one labeled apples, one oranges, and one mixed. All labels are incorrect. By picking one fruit from one box, how can you correctly label all the boxes?",
		[]string{"Pick from the 'Mixed' box", "Pick from the 'Apple' box", "Pick from the 'Orange' box", "Pick randomly"}},
	{"caliber_1", "Caliber", "Describe a time when you were under significant pressure to meet a goal. How did you manage your time and resources?",
		[]string{"Prioritize tasks", "Delegate responsibilities", "Work overtime", "Take frequent breaks"}},
	{"caliber_2", "Caliber", "What long-term goals are you currently working toward?",
		[]string{"Professional development", "Financial stability", "Personal growth", "Academic achievements"}},
	{"caliber_3", "Caliber", "If your company suddenly shifted its entire focus to a different industry, how would you approach learning and adapting to the change?",
		[]string{"Enroll in industry-related courses", "Seek mentorship", "Learn on the job", "Explore other career options"}},
	{"personality_1", "General Personality Insights", "What would you say is your greatest strength?",
		[]string{"Adaptability", "Leadership", "Communication", "Problem-solving"}},
	{"personality_2", "General Personality Insights", "Do you prefer working in a team or independently?",
		[]string{"Teamwork", "Independence", "A mix of both", "It depends on the situation"}},
}

// seedQuestionBank 为每个分组灌入静态题库。映射表里解析不了的分组直接失败，
// 不允许带病启动。
func seedQuestionBank(db *gorm.DB) error {
	for _, group := range model.KnownGroups() {
		setID, err := model.ResolveGroup(group)
		if err != nil {
			return fmt.Errorf("seed question bank: %w", err)
		}

		var count int64
		db.Model(&model.QuizQuestion{}).Where("set_id = ?", setID).Count(&count)
		if count > 0 {
			continue
		}

		for i, q := range questionCatalog {
			question := model.QuizQuestion{
				SetID:       setID,
				QuestionKey: fmt.Sprintf("s%d_%s", setID, q.key),
				Text:        q.text,
				Options:     q.options,
				Category:    q.category,
				Position:    i + 1,
				Skippable:   true,
			}
			if err := db.Create(&question).Error; err != nil {
				return fmt.Errorf("seed question bank: %w", err)
			}
		}
	}
	return nil
}

// 默认任务模板：tryout 创建时按角色匹配，匹配不到用通用模板
func seedTaskTemplates(db *gorm.DB) error {
	var count int64
	db.Model(&model.TaskTemplate{}).Count(&count)
	if count > 0 {
		return nil
	}

	defaults := []model.TaskTemplate{
		{
			Role:   "Software Engineer",
			Skills: []string{"Foundations", "Tooling", "Problem Solving", "Project"},
			Titles: []string{
				"Read a 10-min intro on software engineering fundamentals and write 3 bullets",
				"Set up a code editor and run a hello-world program, capture a screenshot",
				"Solve one small coding puzzle and note your approach",
				"Build a tiny script that solves a daily annoyance and share the link",
			},
		},
		{
			Role:   "Data Analyst",
			Skills: []string{"Foundations", "Tooling", "Problem Solving", "Project"},
			Titles: []string{
				"Read a 10-min intro on data analysis fundamentals and write 3 bullets",
				"Open a spreadsheet tool and chart a public dataset, capture a screenshot",
				"Answer one question from a dataset and note your approach",
				"Publish a one-page summary of an interesting dataset and share the link",
			},
		},
		{
			Role:   "Graphic Designer",
			Skills: []string{"Foundations", "Tooling", "Problem Solving", "Project"},
			Titles: []string{
				"Read a 10-min intro on design principles and write 3 bullets",
				"Install a design tool and recreate a simple logo, capture a screenshot",
				"Redesign one everyday object on paper and note your choices",
				"Create a small poster for an imaginary event and share the link",
			},
		},
	}
	for _, t := range defaults {
		if err := db.Create(&t).Error; err != nil {
			return fmt.Errorf("seed task templates: %w", err)
		}
	}
	return nil
}
