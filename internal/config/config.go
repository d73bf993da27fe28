// Package config loads application configuration from file and environment
// and initializes the global logger.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	Match    MatchConfig    `yaml:"match" mapstructure:"match"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// PipelineConfig configures batch processing and send cleaning.
type PipelineConfig struct {
	MaxConcurrentBatches int      `yaml:"max_concurrent_batches" mapstructure:"max_concurrent_batches"`
	ExcludedDomains      []string `yaml:"excluded_domains" mapstructure:"excluded_domains"`
}

// MatchConfig bounds the temporal join windows, in seconds. Phase 1 scans
// offsets 0..Phase1MaxSeconds inclusive; Phase 2 continues through
// Phase2MaxSeconds against the opens Phase 1 did not consume.
type MatchConfig struct {
	Phase1MaxSeconds int `yaml:"phase1_max_seconds" mapstructure:"phase1_max_seconds"`
	Phase2MaxSeconds int `yaml:"phase2_max_seconds" mapstructure:"phase2_max_seconds"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OUTREACH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("pipeline.max_concurrent_batches", 4)
	v.SetDefault("pipeline.excluded_domains", []string{"loopwork.co"})
	v.SetDefault("match.phase1_max_seconds", 11)
	v.SetDefault("match.phase2_max_seconds", 60)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	if cfg.Match.Phase1MaxSeconds < 0 || cfg.Match.Phase2MaxSeconds <= cfg.Match.Phase1MaxSeconds {
		return nil, eris.Errorf("config: invalid match windows: phase1=%d phase2=%d",
			cfg.Match.Phase1MaxSeconds, cfg.Match.Phase2MaxSeconds)
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
