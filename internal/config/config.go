package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Engine    EngineConfig `mapstructure:"engine"`
	Redis     RedisConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Snapshot  SnapshotConfig  `mapstructure:"snapshot"`

	// 运行时标志（非配置文件，通过命令行参数设置）
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
}

type DatabaseConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
}

type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	ExpireTime time.Duration `mapstructure:"expire_hours"`
}

// EngineConfig 外部AI分析服务（问题生成/职业分析/技能差距/学习计划）
type EngineConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	TimeoutSeconds int           `mapstructure:"timeout_seconds"`
	Retries        int           `mapstructure:"retries"`
	BackoffMs      int           `mapstructure:"backoff_ms"`
	Timeout        time.Duration `mapstructure:"-"`
	Backoff        time.Duration `mapstructure:"-"`
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

// SnapshotConfig 强项快照/热力图的展示策略常量，不是评分算法
type SnapshotConfig struct {
	TopK          int `mapstructure:"top_k"`
	NeutralScore  int `mapstructure:"neutral_score"`
	LowThreshold  int `mapstructure:"low_threshold"`
	HighThreshold int `mapstructure:"high_threshold"`
}

func LoadConfig(path string) (*Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("CAREER_COMPASS")
	viper.AutomaticEnv()

	// Database
	viper.BindEnv("database.host", "DATABASE_HOST")
	viper.BindEnv("database.port", "DATABASE_PORT")
	viper.BindEnv("database.user", "DATABASE_USER")
	viper.BindEnv("database.password", "DATABASE_PASSWORD")
	viper.BindEnv("database.dbname", "DATABASE_NAME")

	// JWT
	viper.BindEnv("jwt.secret", "JWT_SECRET")

	// Redis
	viper.BindEnv("redis.host", "REDIS_HOST")
	viper.BindEnv("redis.port", "REDIS_PORT")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")

	// Server
	viper.BindEnv("server.mode", "SERVER_MODE")

	// Engine
	viper.BindEnv("engine.base_url", "ENGINE_BASE_URL")
	viper.BindEnv("engine.api_key", "ENGINE_API_KEY")

	// Tracing
	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.JWT.ExpireTime = cfg.JWT.ExpireTime * time.Hour

	// 客户端兜底超时必须大于远端自身的超时（约25s），默认130s
	if cfg.Engine.TimeoutSeconds <= 0 {
		cfg.Engine.TimeoutSeconds = 130
	}
	cfg.Engine.Timeout = time.Duration(cfg.Engine.TimeoutSeconds) * time.Second
	if cfg.Engine.Retries < 0 {
		cfg.Engine.Retries = 0
	}
	if cfg.Engine.BackoffMs <= 0 {
		cfg.Engine.BackoffMs = 2000
	}
	cfg.Engine.Backoff = time.Duration(cfg.Engine.BackoffMs) * time.Millisecond

	if cfg.Snapshot.TopK <= 0 {
		cfg.Snapshot.TopK = 4
	}
	if cfg.Snapshot.NeutralScore <= 0 {
		cfg.Snapshot.NeutralScore = 50
	}
	if cfg.Snapshot.LowThreshold <= 0 {
		cfg.Snapshot.LowThreshold = 40
	}
	if cfg.Snapshot.HighThreshold <= 0 {
		cfg.Snapshot.HighThreshold = 70
	}

	// 生产环境校验 JWT Secret 强度
	if cfg.Server.Mode == "release" && len(cfg.JWT.Secret) < 32 {
		return nil, fmt.Errorf("JWT secret is too short (%d chars), must be at least 32 characters in release mode", len(cfg.JWT.Secret))
	}

	return &cfg, nil
}
