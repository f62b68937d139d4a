// Package config defines the run configuration surface and its validation.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/XiaoConstantine/evoprompt/pkg/errors"
)

// Config holds every recognized option for a run. Values are resolved in
// order: defaults, optional YAML file, environment, then CLI flags.
type Config struct {
	// Evolution parameters
	Seed          int64 `yaml:"seed" env:"EVOPROMPT_SEED"`
	NumRounds     int   `yaml:"num_rounds" env:"EVOPROMPT_NUM_ROUNDS" validate:"min=1"`
	SampleSize    int   `yaml:"sample_size" env:"EVOPROMPT_SAMPLE_SIZE" validate:"min=1"`
	TopK          int   `yaml:"top_k" env:"EVOPROMPT_TOP_K" validate:"min=1,ltefield=SampleSize"`
	MutateOnStart bool  `yaml:"mutate_on_start" env:"EVOPROMPT_MUTATE_ON_START"`

	// Backend parameters
	Model             string        `yaml:"model" env:"EVOPROMPT_MODEL" validate:"required"`
	APIKey            string        `yaml:"api_key" env:"EVOPROMPT_API_KEY" validate:"required"`
	MaxRetries        int           `yaml:"max_retries" env:"EVOPROMPT_MAX_RETRIES" validate:"min=0"`
	RetryDelay        time.Duration `yaml:"retry_delay" env:"EVOPROMPT_RETRY_DELAY" validate:"min=0"`
	RetryBackoff      float64       `yaml:"retry_backoff" env:"EVOPROMPT_RETRY_BACKOFF" validate:"min=1"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"EVOPROMPT_REQUESTS_PER_SECOND" validate:"min=0"`

	// Paths
	SeedFile     string `yaml:"seed_file" env:"EVOPROMPT_SEED_FILE" validate:"required"`
	TemplateDir  string `yaml:"template_dir" env:"EVOPROMPT_TEMPLATE_DIR" validate:"required"`
	OutputDir    string `yaml:"output_dir" env:"EVOPROMPT_OUTPUT_DIR" validate:"required"`
	SnapshotPath string `yaml:"snapshot_path" env:"EVOPROMPT_SNAPSHOT_PATH" validate:"required"`
	IndexPath    string `yaml:"index_path" env:"EVOPROMPT_INDEX_PATH"` // empty disables the lineage index
	LogPath      string `yaml:"log_path" env:"EVOPROMPT_LOG_PATH"`

	LogLevel string `yaml:"log_level" env:"EVOPROMPT_LOG_LEVEL"`
}

// Default returns the configuration defaults.
func Default() *Config {
	return &Config{
		Seed:              42,
		NumRounds:         5,
		SampleSize:        10,
		TopK:              5,
		Model:             "gpt-4",
		MaxRetries:        2,
		RetryDelay:        500 * time.Millisecond,
		RetryBackoff:      2.0,
		RequestsPerSecond: 2,
		SeedFile:          "problems/problems.txt",
		TemplateDir:       "prompts/mutations",
		OutputDir:         "output",
		SnapshotPath:      "leaderboard.yaml",
		LogPath:           "processing.log",
		LogLevel:          "INFO",
	}
}

// LoadFile overlays values from a YAML config file.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.WithFields(
				errors.New(errors.ConfigurationFailed, "config file not found"),
				errors.Fields{"path": path})
		}
		return errors.Wrap(err, errors.ResourceFailed, "failed to read config file")
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return errors.Wrap(err, errors.ConfigurationFailed, "failed to parse config file")
	}
	return nil
}

// LoadEnv overlays values from EVOPROMPT_* environment variables.
func (c *Config) LoadEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.Wrap(err, errors.ConfigurationFailed, "failed to parse environment")
	}
	return nil
}

// Validate checks parameter constraints. It runs once at setup; a failure
// aborts the run before any round executes.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		var messages []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				messages = append(messages, describeFieldError(fe))
			}
		}
		if len(messages) == 0 {
			messages = append(messages, err.Error())
		}
		return errors.New(errors.ValidationFailed, strings.Join(messages, "; "))
	}
	return nil
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "ltefield":
		return fe.Field() + " cannot exceed " + fe.Param()
	default:
		return fe.Field() + " failed validation (" + fe.Tag() + ")"
	}
}
