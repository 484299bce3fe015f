package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the docsift API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Storage   StorageConfig   `yaml:"storage"`
	Search    SearchConfig    `yaml:"search"`
	Sentiment SentimentConfig `yaml:"sentiment"`
	Upload    UploadConfig    `yaml:"upload"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// StorageConfig holds document store settings.
type StorageConfig struct {
	Driver           string       `yaml:"driver"` // badger, redis (default: badger)
	KeyPrefix        string       `yaml:"key_prefix"`
	ReadinessTimeout int          `yaml:"readiness_timeout_sec"`
	Badger           BadgerConfig `yaml:"badger"`
	Redis            RedisConfig  `yaml:"redis"`
}

// BadgerConfig holds embedded store settings.
type BadgerConfig struct {
	Path     string `yaml:"path"`
	InMemory bool   `yaml:"in_memory"` // для тестов и одноразовых запусков
}

// RedisConfig holds external store connection settings.
type RedisConfig struct {
	Addrs    []string `yaml:"addrs"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	DB       int      `yaml:"db"`
}

// SearchConfig holds search engine settings.
type SearchConfig struct {
	DefaultTopK int `yaml:"default_top_k"`
	MaxTopK     int `yaml:"max_top_k"`
	MaxFeatures int `yaml:"max_features"`
	PoolSize    int `yaml:"pool_size"` // 0 = NumCPU, negative disables the pool
}

// SentimentConfig holds sentiment provider settings.
type SentimentConfig struct {
	Provider string               `yaml:"provider"` // vader, openai (default: vader)
	OpenAI   OpenAIConfig         `yaml:"openai"`
	Cache    SentimentCacheConfig `yaml:"cache"`
}

// BudgetConfig holds token budget settings.
type BudgetConfig struct {
	DailyTokenLimit   int64  `yaml:"daily_token_limit"`   // 0 = unlimited
	MonthlyTokenLimit int64  `yaml:"monthly_token_limit"` // 0 = unlimited
	Action            string `yaml:"action"`              // "reject" | "warn" (default)
}

// OpenAIConfig holds remote sentiment provider settings.
type OpenAIConfig struct {
	APIKey  string       `yaml:"api_key"`
	BaseURL string       `yaml:"base_url"`
	Model   string       `yaml:"model"`
	Budget  BudgetConfig `yaml:"budget"`
}

// SentimentCacheConfig holds score cache settings.
type SentimentCacheConfig struct {
	Enabled bool `yaml:"enabled"`
	TTLSec  int  `yaml:"ttl_sec"` // 0 = no expiry
}

// UploadConfig holds upload limits.
type UploadConfig struct {
	MaxFileSizeMB int `yaml:"max_file_size_mb"`
	MaxFiles      int `yaml:"max_files"`
}

// Load reads configuration from a YAML file by environment name (local,
// dev, prod). A missing file is not an error unless CONFIG_PATH names it
// explicitly; the service then runs on defaults alone.
func Load(env string) (Config, error) {
	var cfg Config

	configPath, explicit := resolveConfigPath(env)
	data, err := os.ReadFile(filepath.Clean(configPath))
	switch {
	case err == nil:
		data = expandEnvVars(data)
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && !explicit:
		// конфиг не обязателен — работаем на дефолтах
	default:
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the APP_ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("APP_ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 30
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "badger"
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "docsift:"
	}
	if c.Storage.ReadinessTimeout <= 0 {
		c.Storage.ReadinessTimeout = 10
	}
	if c.Storage.Badger.Path == "" && !c.Storage.Badger.InMemory {
		c.Storage.Badger.Path = "data/docsift"
	}
	if c.Search.DefaultTopK <= 0 {
		c.Search.DefaultTopK = 10
	}
	if c.Search.MaxTopK <= 0 {
		c.Search.MaxTopK = 100
	}
	if c.Search.MaxFeatures <= 0 {
		c.Search.MaxFeatures = 10000
	}
	if c.Sentiment.Provider == "" {
		c.Sentiment.Provider = "vader"
	}
	if c.Sentiment.OpenAI.Model == "" {
		c.Sentiment.OpenAI.Model = "gpt-4o-mini"
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		c.Upload.MaxFileSizeMB = 10
	}
	if c.Upload.MaxFiles <= 0 {
		c.Upload.MaxFiles = 20
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}

	switch c.Storage.Driver {
	case "badger":
		if !c.Storage.Badger.InMemory && c.Storage.Badger.Path == "" {
			return fmt.Errorf("storage.badger.path is required unless in_memory is set")
		}
	case "redis":
		if len(c.Storage.Redis.Addrs) == 0 {
			return fmt.Errorf("storage.redis.addrs is required")
		}
	default:
		return fmt.Errorf("storage.driver must be \"badger\" or \"redis\", got %q", c.Storage.Driver)
	}

	switch c.Sentiment.Provider {
	case "vader":
	case "openai":
		if c.Sentiment.OpenAI.APIKey == "" {
			return fmt.Errorf("sentiment.openai.api_key is required for the openai provider")
		}
	default:
		return fmt.Errorf("sentiment.provider must be \"vader\" or \"openai\", got %q", c.Sentiment.Provider)
	}

	switch c.Sentiment.OpenAI.Budget.Action {
	case "", "warn", "reject":
		// ok
	default:
		return fmt.Errorf(
			"sentiment.openai.budget.action must be \"warn\" or \"reject\", got %q",
			c.Sentiment.OpenAI.Budget.Action,
		)
	}

	if c.Search.DefaultTopK > c.Search.MaxTopK {
		return fmt.Errorf(
			"search.default_top_k %d exceeds search.max_top_k %d",
			c.Search.DefaultTopK, c.Search.MaxTopK,
		)
	}

	return nil
}

// resolveConfigPath locates the config file. CONFIG_PATH wins when set;
// the second return reports whether the path was named explicitly.
func resolveConfigPath(env string) (string, bool) {
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		return path, true
	}
	return findConfigPath(env), false
}

// findConfigPath locates the config file by environment name.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
