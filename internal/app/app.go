package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"career_compass_backend/internal/config"
	"career_compass_backend/internal/controller"
	"career_compass_backend/internal/repository"
	"career_compass_backend/internal/service"
	"career_compass_backend/pkg/configwatcher"
	"career_compass_backend/pkg/database"
	"career_compass_backend/pkg/logger"
	"career_compass_backend/pkg/monitoring"
	"career_compass_backend/pkg/security"
	"career_compass_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
	tracerShutdown  func(context.Context) error
}

type repositories struct {
	user         *repository.UserRepository
	question     *repository.QuestionRepository
	analysis     *repository.AnalysisRepository
	skillGap     *repository.SkillGapRepository
	tryout       *repository.TryoutRepository
	taskTemplate *repository.TaskTemplateRepository
	pushSub      *repository.PushSubscriptionRepository
}

type services struct {
	engine     service.CareerEngine
	auth       *service.AuthService
	user       *service.UserService
	analysis   *service.AnalysisService
	assessment *service.AssessmentService
	skillGap   *service.SkillGapService
	tryout     *service.TryoutService
	push       *service.PushService
}

type controllers struct {
	auth       *controller.AuthController
	user       *controller.UserController
	assessment *controller.AssessmentController
	analysis   *controller.AnalysisController
	skillGap   *controller.SkillGapController
	tryout     *controller.TryoutController
	push       *controller.PushController
	health     *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		question:     repository.NewQuestionRepository(db),
		analysis:     repository.NewAnalysisRepository(db),
		skillGap:     repository.NewSkillGapRepository(db),
		tryout:       repository.NewTryoutRepository(db),
		taskTemplate: repository.NewTaskTemplateRepository(db),
		pushSub:      repository.NewPushSubscriptionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	engineClient := service.NewEngineClient(cfg.Engine)
	s.engine = engineClient

	// 远端服务地址/超时支持配置热更新
	a.RegisterConfigCallback(func(newCfg *config.Config) {
		engineClient.UpdateConfig(newCfg.Engine)
	})
	s.auth = service.NewAuthService(repos.user, cfg)
	s.user = service.NewUserService(repos.user)
	s.analysis = service.NewAnalysisService(s.engine, repos.analysis, repos.user, rdb, cfg.Snapshot)
	s.assessment = service.NewAssessmentService(repos.question, s.engine, s.analysis)
	s.skillGap = service.NewSkillGapService(s.engine, repos.skillGap, repos.analysis, repos.user)
	s.tryout = service.NewTryoutService(repos.tryout, repos.taskTemplate)
	s.push = service.NewPushService(repos.pushSub)

	// 过期会话清理
	go s.assessment.Run()

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		user:       controller.NewUserController(s.user),
		assessment: controller.NewAssessmentController(s.assessment),
		analysis:   controller.NewAnalysisController(s.analysis),
		skillGap:   controller.NewSkillGapController(s.skillGap),
		tryout:     controller.NewTryoutController(s.tryout),
		push:       controller.NewPushController(s.push),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("career-compass", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracerShutdown = tp.Shutdown
	}

	app.registerRoutes(router, controllers, cfg)

	// 配置文件热更新
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		reloaded, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		for _, callback := range app.configCallbacks {
			callback(reloaded)
		}
		logger.Log.Info("Configuration reloaded")
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}

	log.Println("Server exiting")
}
