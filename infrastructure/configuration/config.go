package configuration

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"trending-videos/domain/model"
	"trending-videos/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	YouTube     YouTube     `json:"youtube"`
	Fetch       Fetch       `json:"fetch"`
	Cache       Cache       `json:"cache"`
	Scheduler   Scheduler   `json:"scheduler"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	Pubsub      Pubsub      `json:"pubsub"`
}

type App struct {
	Port         int      `json:"port"`
	AllowOrigins []string `json:"allowOrigins"`
}

type YouTube struct {
	APIKey         string        `json:"apiKey"`
	RegionCode     string        `json:"regionCode"`
	RequestTimeout time.Duration `json:"requestTimeout"`
	Breaker        Breaker       `json:"breaker"`
}

// Breaker tunes the circuit breaker around remote API calls
type Breaker struct {
	MaxRequests  uint32        `json:"maxRequests"`
	Interval     time.Duration `json:"interval"`
	Timeout      time.Duration `json:"timeout"`
	FailureRatio float64       `json:"failureRatio"`
}

type Fetch struct {
	TrendingTarget int `json:"trendingTarget"`
	CategoryTarget int `json:"categoryTarget"`
	SearchTarget   int `json:"searchTarget"`
	PageSize       int `json:"pageSize"`
}

type Cache struct {
	Driver         string        `json:"driver"` // file, redis or postgres
	Dir            string        `json:"dir"`
	KeyPrefix      string        `json:"keyPrefix"`
	StaleAfter     time.Duration `json:"staleAfter"`
	SearchCapacity int           `json:"searchCapacity"`
	MaxSessions    int           `json:"maxSessions"`
	SessionTTL     time.Duration `json:"sessionTTL"`
}

type Scheduler struct {
	Enabled    bool          `json:"enabled"`
	Interval   time.Duration `json:"interval"`
	Categories []string      `json:"categories"`
}

type Database struct {
	Psql Db `json:"psql"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Password string `json:"password"`
	Username string `json:"username"`
	Database int    `json:"database"`
}

// Pubsub announces refreshed listings when enabled
type Pubsub struct {
	Enabled   bool   `json:"enabled"`
	ProjectID string `json:"projectId"`
	Topic     string `json:"topic"`
}

var C Config

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 10001)
	v.SetDefault("app.allowOrigins", []string{"http://localhost:4200", "http://localhost:8501"})

	v.SetDefault("youtube.regionCode", "CA")
	v.SetDefault("youtube.requestTimeout", 10*time.Second)
	v.SetDefault("youtube.breaker.maxRequests", 1)
	v.SetDefault("youtube.breaker.interval", time.Minute)
	v.SetDefault("youtube.breaker.timeout", 30*time.Second)
	v.SetDefault("youtube.breaker.failureRatio", 0.6)

	v.SetDefault("fetch.trendingTarget", 200)
	v.SetDefault("fetch.categoryTarget", 50)
	v.SetDefault("fetch.searchTarget", 200)
	v.SetDefault("fetch.pageSize", 50)

	v.SetDefault("cache.driver", "file")
	v.SetDefault("cache.dir", "data")
	v.SetDefault("cache.keyPrefix", "trending-videos")
	v.SetDefault("cache.staleAfter", 60*time.Minute)
	v.SetDefault("cache.searchCapacity", 32)
	v.SetDefault("cache.maxSessions", 1024)
	v.SetDefault("cache.sessionTTL", 30*time.Minute)

	v.SetDefault("scheduler.enabled", false)
	v.SetDefault("scheduler.interval", 60*time.Minute)

	v.SetDefault("database.psql.port", "5432")
	v.SetDefault("database.psql.sslMode", "disable")
	v.SetDefault("redisClient.host", "localhost")
	v.SetDefault("redisClient.port", "6379")
	v.SetDefault("pubsub.enabled", false)
	v.SetDefault("pubsub.topic", "listing-refreshed")
}

// LoadConfig reads config(-ENV).json and the environment into C
func LoadConfig() (*Config, error) {
	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", name, err)
		}
		logger.GetLogger().WithField("config", name).Warn("Config file not found, using defaults and environment")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("viper unable to decode into struct: %w", err)
	}
	applyEnv(&cfg)

	C = cfg
	logger.GetLogger().WithFields(map[string]interface{}{
		"config":      name,
		"cacheDriver": cfg.Cache.Driver,
		"regionCode":  cfg.YouTube.RegionCode,
		"hasAPIKey":   cfg.YouTube.APIKey != "",
	}).Info("Config set up successfully")
	return &cfg, nil
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// applyEnv lets the conventional variable names override the config file
func applyEnv(cfg *Config) {
	cfg.YouTube.APIKey = getConfigValue(cfg.YouTube.APIKey, "YOUTUBE_API_KEY", "")
	cfg.YouTube.RegionCode = strings.ToUpper(getConfigValue(cfg.YouTube.RegionCode, "YOUTUBE_REGION_CODE", "CA"))
	cfg.Cache.Driver = strings.ToLower(getConfigValue(cfg.Cache.Driver, "CACHE_DRIVER", "file"))
	cfg.Database.Psql.Name = getConfigValue(cfg.Database.Psql.Name, "DB_NAME", "")
	cfg.Database.Psql.Host = getConfigValue(cfg.Database.Psql.Host, "DB_HOST", "")
	cfg.Database.Psql.User = getConfigValue(cfg.Database.Psql.User, "DB_USER", "")
	cfg.Database.Psql.Password = getConfigValue(cfg.Database.Psql.Password, "DB_PASSWORD", "")
	cfg.Database.Psql.Port = getConfigValue(cfg.Database.Psql.Port, "DB_PORT", "5432")
	cfg.RedisClient.Host = getConfigValue(cfg.RedisClient.Host, "REDIS_HOST", "localhost")
	cfg.RedisClient.Port = getConfigValue(cfg.RedisClient.Port, "REDIS_PORT", "6379")
	cfg.RedisClient.Password = getConfigValue(cfg.RedisClient.Password, "REDIS_PASSWORD", "")
	cfg.Pubsub.ProjectID = getConfigValue(cfg.Pubsub.ProjectID, "PUBSUB_PROJECT_ID", "")
}

// Validate reports the first setting the service cannot run with
func (c *Config) Validate() error {
	if c.YouTube.APIKey == "" {
		return &model.ConfigurationError{Field: "youtube.apiKey", Reason: "YOUTUBE_API_KEY is not set"}
	}
	if len(c.YouTube.RegionCode) != 2 {
		return &model.ConfigurationError{Field: "youtube.regionCode", Reason: fmt.Sprintf("%q is not a two-letter region code", c.YouTube.RegionCode)}
	}
	switch c.Cache.Driver {
	case "file", "redis", "postgres":
	default:
		return &model.ConfigurationError{Field: "cache.driver", Reason: fmt.Sprintf("unsupported driver %q", c.Cache.Driver)}
	}
	if c.Cache.StaleAfter <= 0 {
		return &model.ConfigurationError{Field: "cache.staleAfter", Reason: "must be positive"}
	}
	if c.Fetch.PageSize <= 0 || c.Fetch.PageSize > 50 {
		return &model.ConfigurationError{Field: "fetch.pageSize", Reason: "must be between 1 and 50"}
	}
	if c.Scheduler.Enabled && c.Scheduler.Interval <= 0 {
		return &model.ConfigurationError{Field: "scheduler.interval", Reason: "must be positive when the scheduler is enabled"}
	}
	if c.Pubsub.Enabled && (c.Pubsub.ProjectID == "" || c.Pubsub.Topic == "") {
		return &model.ConfigurationError{Field: "pubsub", Reason: "projectId and topic are required when pubsub is enabled"}
	}
	return nil
}

// getConfigValue gets value from environment first, then config, then default
func getConfigValue(configValue, envKey, defaultValue string) string {
	if v := os.Getenv(envKey); v != "" {
		return v
	}
	// placeholders such as YOUR_YOUTUBE_API_KEY count as unset
	if configValue != "" && !strings.HasPrefix(configValue, "YOUR_") {
		return configValue
	}
	return defaultValue
}
