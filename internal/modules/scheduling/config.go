package scheduling

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/studyflow-backend/internal/platform/logger"
)

const engineConfigEnv = "ENGINE_CONFIG_YAML"

//go:embed engine.yaml
var engineConfigFS embed.FS

type Config struct {
	Engine                string   `yaml:"engine"`
	Version               int      `yaml:"version"`
	Palette               []string `yaml:"palette"`
	GapMinutes            int      `yaml:"gap_minutes"`
	DefaultStartHour      int      `yaml:"default_start_hour"`
	DefaultSessionMinutes int      `yaml:"default_session_minutes"`
	ReviewRatio           float64  `yaml:"review_ratio"`
	WeakBoostMinutes      int      `yaml:"weak_boost_minutes"`
	SafetyBufferDays      int      `yaml:"safety_buffer_days"`
	MinAvailableDays      int      `yaml:"min_available_days"`
	MaxTasksPerDay        int      `yaml:"max_tasks_per_day"`
	DefaultHorizonDays    int      `yaml:"default_horizon_days"`
	MinSplitMinutes       int      `yaml:"min_split_minutes"`
	OverdueSpreadDays     int      `yaml:"overdue_spread_days"`
	MaxSessionsPerSubject int      `yaml:"max_sessions_per_subject"`
	MaxPlanSessions       int      `yaml:"max_plan_sessions"`
}

// DefaultConfig is the compiled-in fallback used when engine.yaml cannot be read.
func DefaultConfig() Config {
	return Config{
		Engine:  "studyflow_scheduler",
		Version: 1,
		Palette: []string{
			"#EF4444", "#F97316", "#F59E0B", "#84CC16", "#10B981", "#14B8A6",
			"#06B6D4", "#3B82F6", "#6366F1", "#8B5CF6", "#D946EF", "#EC4899",
		},
		GapMinutes:            15,
		DefaultStartHour:      9,
		DefaultSessionMinutes: 60,
		ReviewRatio:           0.6,
		WeakBoostMinutes:      15,
		SafetyBufferDays:      3,
		MinAvailableDays:      3,
		MaxTasksPerDay:        3,
		DefaultHorizonDays:    14,
		MinSplitMinutes:       5,
		OverdueSpreadDays:     3,
		MaxSessionsPerSubject: 200,
		MaxPlanSessions:       1000,
	}
}

var (
	configOnce  sync.Once
	configCache Config
	configErr   error
)

// CurrentConfig loads engine.yaml (or the file named by ENGINE_CONFIG_YAML) once.
func CurrentConfig(log *logger.Logger) Config {
	configOnce.Do(func() {
		configCache, configErr = loadConfig()
	})
	if configErr != nil {
		if log != nil {
			log.Warn("scheduling: engine config load failed; using defaults", "error", configErr)
		}
		return DefaultConfig()
	}
	return configCache
}

func loadConfig() (Config, error) {
	data, err := readEngineConfig()
	if err != nil {
		return Config{}, err
	}
	return ParseConfig(data)
}

func readEngineConfig() ([]byte, error) {
	if path := strings.TrimSpace(os.Getenv(engineConfigEnv)); path != "" {
		return os.ReadFile(path)
	}
	return engineConfigFS.ReadFile("engine.yaml")
}

// ParseConfig decodes YAML over the defaults and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	if err := validateConfig(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("missing config")
	}
	if strings.TrimSpace(cfg.Engine) != "studyflow_scheduler" {
		return fmt.Errorf("unexpected engine: %s", cfg.Engine)
	}
	if len(cfg.Palette) == 0 {
		return errors.New("palette is empty")
	}
	for _, c := range cfg.Palette {
		if !strings.HasPrefix(c, "#") {
			return fmt.Errorf("palette color %q must be a hex value", c)
		}
	}
	if cfg.DefaultStartHour < 0 || cfg.DefaultStartHour > 23 {
		return fmt.Errorf("default_start_hour out of range: %d", cfg.DefaultStartHour)
	}
	if cfg.DefaultSessionMinutes <= 0 {
		return fmt.Errorf("default_session_minutes must be positive: %d", cfg.DefaultSessionMinutes)
	}
	if cfg.ReviewRatio <= 0 || cfg.ReviewRatio > 1 {
		return fmt.Errorf("review_ratio out of range: %v", cfg.ReviewRatio)
	}
	if cfg.MaxTasksPerDay < 1 {
		return fmt.Errorf("max_tasks_per_day must be at least 1: %d", cfg.MaxTasksPerDay)
	}
	if cfg.MaxSessionsPerSubject < 1 {
		return fmt.Errorf("max_sessions_per_subject must be at least 1: %d", cfg.MaxSessionsPerSubject)
	}
	if cfg.MaxPlanSessions < cfg.MaxSessionsPerSubject {
		return fmt.Errorf("max_plan_sessions %d is below max_sessions_per_subject %d", cfg.MaxPlanSessions, cfg.MaxSessionsPerSubject)
	}
	// gaps between tasks stay within 10-15 minutes
	if cfg.GapMinutes < 10 {
		cfg.GapMinutes = 10
	}
	if cfg.GapMinutes > 15 {
		cfg.GapMinutes = 15
	}
	if cfg.MinAvailableDays < 1 {
		cfg.MinAvailableDays = 1
	}
	if cfg.SafetyBufferDays < 0 {
		cfg.SafetyBufferDays = 0
	}
	if cfg.DefaultHorizonDays < 1 {
		cfg.DefaultHorizonDays = 14
	}
	if cfg.MinSplitMinutes < 1 {
		cfg.MinSplitMinutes = 5
	}
	if cfg.OverdueSpreadDays < 1 {
		cfg.OverdueSpreadDays = 3
	}
	return nil
}
