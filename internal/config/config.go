package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Pipeline  PipelineConfig
	Extractor ExtractorConfig
	Log       LogConfig
}

// PipelineConfig holds the tunable extraction-pipeline parameters. The
// thresholds and weights are heuristics carried from production behavior, so
// every one of them is a configuration surface rather than a constant.
type PipelineConfig struct {
	// ConfidenceThreshold is the minimum confidence for a required field to
	// count as valid in the completeness computation.
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	// MinSimilarity is the normalized-similarity floor for fuzzy keyword detection.
	MinSimilarity float64 `mapstructure:"min_similarity"`
	// MaxEditDistance is the absolute Levenshtein distance ceiling for detection.
	MaxEditDistance int `mapstructure:"max_edit_distance"`
	// ModelWeight and DetectorWeight combine model and detector confidence
	// for model-extracted fields.
	ModelWeight    float64 `mapstructure:"model_weight"`
	DetectorWeight float64 `mapstructure:"detector_weight"`
	// WatchList names the fields historically under-detected by the model
	// path, eligible for deterministic back-fill.
	WatchList []string `mapstructure:"watch_list"`
	// TimeoutSecs bounds the external model call for one pipeline invocation.
	TimeoutSecs int `mapstructure:"timeout_secs"`
}

// ModelProviderConfig holds settings for a single structured-generation provider.
type ModelProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds structured-generation settings with provider redundancy.
type ExtractorConfig struct {
	Primary   ModelProviderConfig `mapstructure:"primary"`
	Secondary ModelProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractorConfig) SecondaryConfig() *ModelProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the FINESCAN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FINESCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Pipeline defaults
	v.SetDefault("pipeline.confidence_threshold", 0.6)
	v.SetDefault("pipeline.min_similarity", 0.7)
	v.SetDefault("pipeline.max_edit_distance", 2)
	v.SetDefault("pipeline.model_weight", 0.7)
	v.SetDefault("pipeline.detector_weight", 0.3)
	v.SetDefault("pipeline.watch_list", "vehicle_plate,points,appeal_deadline")
	v.SetDefault("pipeline.timeout_secs", 60)

	// Extractor defaults
	v.SetDefault("extractor.primary.provider", "gemini")
	v.SetDefault("extractor.primary.api_key", "")
	v.SetDefault("extractor.primary.default_model", "gemini-2.0-flash")
	v.SetDefault("extractor.primary.timeout_secs", 60)
	v.SetDefault("extractor.secondary.provider", "")
	v.SetDefault("extractor.secondary.api_key", "")
	v.SetDefault("extractor.secondary.default_model", "")
	v.SetDefault("extractor.secondary.timeout_secs", 60)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"pipeline.confidence_threshold":    "FINESCAN_PIPELINE_CONFIDENCE_THRESHOLD",
		"pipeline.min_similarity":          "FINESCAN_PIPELINE_MIN_SIMILARITY",
		"pipeline.max_edit_distance":       "FINESCAN_PIPELINE_MAX_EDIT_DISTANCE",
		"pipeline.model_weight":            "FINESCAN_PIPELINE_MODEL_WEIGHT",
		"pipeline.detector_weight":         "FINESCAN_PIPELINE_DETECTOR_WEIGHT",
		"pipeline.watch_list":              "FINESCAN_PIPELINE_WATCH_LIST",
		"pipeline.timeout_secs":            "FINESCAN_PIPELINE_TIMEOUT_SECS",
		"extractor.primary.provider":       "FINESCAN_EXTRACTOR_PRIMARY_PROVIDER",
		"extractor.primary.api_key":        "FINESCAN_EXTRACTOR_PRIMARY_API_KEY",
		"extractor.primary.default_model":  "FINESCAN_EXTRACTOR_PRIMARY_DEFAULT_MODEL",
		"extractor.primary.timeout_secs":   "FINESCAN_EXTRACTOR_PRIMARY_TIMEOUT_SECS",
		"extractor.secondary.provider":     "FINESCAN_EXTRACTOR_SECONDARY_PROVIDER",
		"extractor.secondary.api_key":      "FINESCAN_EXTRACTOR_SECONDARY_API_KEY",
		"extractor.secondary.default_model": "FINESCAN_EXTRACTOR_SECONDARY_DEFAULT_MODEL",
		"extractor.secondary.timeout_secs": "FINESCAN_EXTRACTOR_SECONDARY_TIMEOUT_SECS",
		"log.level":                        "FINESCAN_LOG_LEVEL",
		"log.format":                       "FINESCAN_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Parse watch list from comma-separated string
	var watchList []string
	for _, f := range strings.Split(v.GetString("pipeline.watch_list"), ",") {
		f = strings.TrimSpace(f)
		if f != "" {
			watchList = append(watchList, f)
		}
	}

	cfg.Pipeline = PipelineConfig{
		ConfidenceThreshold: v.GetFloat64("pipeline.confidence_threshold"),
		MinSimilarity:       v.GetFloat64("pipeline.min_similarity"),
		MaxEditDistance:     v.GetInt("pipeline.max_edit_distance"),
		ModelWeight:         v.GetFloat64("pipeline.model_weight"),
		DetectorWeight:      v.GetFloat64("pipeline.detector_weight"),
		WatchList:           watchList,
		TimeoutSecs:         v.GetInt("pipeline.timeout_secs"),
	}

	cfg.Extractor = ExtractorConfig{
		Primary: ModelProviderConfig{
			Provider:     v.GetString("extractor.primary.provider"),
			APIKey:       v.GetString("extractor.primary.api_key"),
			DefaultModel: v.GetString("extractor.primary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.primary.timeout_secs"),
		},
		Secondary: ModelProviderConfig{
			Provider:     v.GetString("extractor.secondary.provider"),
			APIKey:       v.GetString("extractor.secondary.api_key"),
			DefaultModel: v.GetString("extractor.secondary.default_model"),
			TimeoutSecs:  v.GetInt("extractor.secondary.timeout_secs"),
		},
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
