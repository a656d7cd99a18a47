package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ProjectDir   string `json:"project_dir"`
	ResultsDir   string `json:"results_dir"`
	DataDir      string `json:"data_dir"`
	DataCacheDir string `json:"data_cache_dir"`

	LLMProvider     string `json:"llm_provider"`
	DeepThinkModel  string `json:"deep_think_model"`
	QuickThinkModel string `json:"quick_think_model"`
	DeepSeekAPIKey  string `json:"deepseek_api_key"`
	OpenAIAPIKey    string `json:"openai_api_key"`

	// Pipeline behavior.
	ConcurrentAnalysis bool    `json:"concurrent_analysis"`
	MaxDebateRounds    int     `json:"max_debate_rounds"`
	PortfolioValue     float64 `json:"portfolio_value"`

	// Risk limits. Position size fractions proposed by the strategist are
	// clamped into [MinPositionSize, MaxPositionSize].
	MinPositionSize        float64 `json:"min_position_size"`
	MaxPositionSize        float64 `json:"max_position_size"`
	MaxPortfolioRisk       float64 `json:"max_portfolio_risk"`
	MaxSectorConcentration float64 `json:"max_sector_concentration"`

	// Low-latency execution service.
	ExecutorEnabled        bool   `json:"executor_enabled"`
	ExecutorEndpoint       string `json:"executor_endpoint"`
	ExecutorTimeoutSeconds int    `json:"executor_timeout_seconds"`

	// Data providers.
	FinnhubAPIKey       string `json:"finnhub_api_key"`
	LongportAppKey      string `json:"longport_app_key"`
	LongportAppSecret   string `json:"longport_app_secret"`
	LongportAccessToken string `json:"longport_access_token"`
	CacheEnabled        bool   `json:"cache_enabled"`
	NewsLookbackDays    int    `json:"news_lookback_days"`

	// Eino debug server.
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	Debug bool `json:"debug"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file, then override.
	_ = godotenv.Load()
	cfg.loadFromEnv()

	return cfg
}

func DefaultConfigWithRoot(root string) *Config {
	return &Config{
		ProjectDir:   root,
		ResultsDir:   filepath.Join(root, "results"),
		DataDir:      filepath.Join(root, "data"),
		DataCacheDir: filepath.Join(root, "data", "cache"),

		LLMProvider:     "deepseek",
		DeepThinkModel:  "deepseek-reasoner",
		QuickThinkModel: "deepseek-chat",

		ConcurrentAnalysis: true,
		MaxDebateRounds:    3,
		PortfolioValue:     100000,

		MinPositionSize:        0.001,
		MaxPositionSize:        0.05,
		MaxPortfolioRisk:       0.02,
		MaxSectorConcentration: 0.25,

		ExecutorEnabled:        false,
		ExecutorEndpoint:       "http://localhost:8002",
		ExecutorTimeoutSeconds: 5,

		CacheEnabled:     true,
		NewsLookbackDays: 7,

		EinoDebugEnabled: false,
		EinoDebugPort:    52538,

		Debug: false,
	}
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("RESULTS_DIR"); val != "" {
		c.ResultsDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = val
	}
	if val := os.Getenv("DEEP_THINK_MODEL"); val != "" {
		c.DeepThinkModel = val
	}
	if val := os.Getenv("QUICK_THINK_MODEL"); val != "" {
		c.QuickThinkModel = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}

	if val := os.Getenv("CONCURRENT_ANALYSIS"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ConcurrentAnalysis = enabled
		}
	}
	if val := os.Getenv("MAX_DEBATE_ROUNDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxDebateRounds = v
		}
	}
	if val := os.Getenv("PORTFOLIO_VALUE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.PortfolioValue = v
		}
	}

	if val := os.Getenv("MAX_POSITION_SIZE"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MaxPositionSize = v
		}
	}
	if val := os.Getenv("MAX_PORTFOLIO_RISK"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MaxPortfolioRisk = v
		}
	}
	if val := os.Getenv("MAX_SECTOR_CONCENTRATION"); val != "" {
		if v, err := strconv.ParseFloat(val, 64); err == nil {
			c.MaxSectorConcentration = v
		}
	}

	if val := os.Getenv("EXECUTOR_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.ExecutorEnabled = enabled
		}
	}
	if val := os.Getenv("EXECUTOR_ENDPOINT"); val != "" {
		c.ExecutorEndpoint = val
	}
	if val := os.Getenv("EXECUTOR_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.ExecutorTimeoutSeconds = v
		}
	}

	if val := os.Getenv("FINNHUB_API_KEY"); val != "" {
		c.FinnhubAPIKey = val
	}
	if val := os.Getenv("LONGPORT_APP_KEY"); val != "" {
		c.LongportAppKey = val
	}
	if val := os.Getenv("LONGPORT_APP_SECRET"); val != "" {
		c.LongportAppSecret = val
	}
	if val := os.Getenv("LONGPORT_ACCESS_TOKEN"); val != "" {
		c.LongportAccessToken = val
	}
	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("NEWS_LOOKBACK_DAYS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.NewsLookbackDays = v
		}
	}

	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("MARKETMIND_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
}

// Validate rejects configurations the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case "deepseek", "openai":
	default:
		return fmt.Errorf("unsupported llm provider %q", c.LLMProvider)
	}
	if c.MaxDebateRounds < 1 {
		return fmt.Errorf("max_debate_rounds must be >= 1, got %d", c.MaxDebateRounds)
	}
	if c.MinPositionSize <= 0 || c.MaxPositionSize <= 0 || c.MinPositionSize > c.MaxPositionSize {
		return fmt.Errorf("position size bounds invalid: min=%v max=%v", c.MinPositionSize, c.MaxPositionSize)
	}
	if c.MaxPortfolioRisk <= 0 || c.MaxSectorConcentration <= 0 {
		return fmt.Errorf("risk limits must be positive")
	}
	if c.ExecutorTimeoutSeconds <= 0 {
		return fmt.Errorf("executor_timeout_seconds must be positive")
	}
	return nil
}

// APIKey returns the key for the configured provider, empty if unset.
func (c *Config) APIKey() string {
	switch c.LLMProvider {
	case "openai":
		return c.OpenAIAPIKey
	default:
		return c.DeepSeekAPIKey
	}
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.ProjectDir, c.ResultsDir, c.DataDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}
