package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"noisebatch/pkg/models"
)

// Config holds all configuration options for the noise batch processor
type Config struct {
	// Hydrophone selection
	Hydrophone HydrophoneConfig `yaml:"hydrophone" json:"hydrophone"`

	// Spectral/temporal resolution of the derived levels
	Resolution models.Resolution `yaml:"resolution" json:"resolution"`

	// Batch controller settings
	Batch BatchConfig `yaml:"batch" json:"batch"`

	// External analysis pipeline settings
	Pipeline PipelineConfig `yaml:"pipeline" json:"pipeline"`

	// Remote upload settings
	Upload UploadConfig `yaml:"upload" json:"upload"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging" json:"logging"`
}

// HydrophoneConfig holds the default source selection
type HydrophoneConfig struct {
	Default string `yaml:"default" json:"default"`
}

// BatchConfig holds batch controller configuration
type BatchConfig struct {
	// Timezone is the IANA name of the zone whose calendar days bound the
	// storage partitions
	Timezone string `yaml:"timezone" json:"timezone"`
	// DefaultLookback is how far behind "now" a first run starts when no
	// checkpoint exists
	DefaultLookback time.Duration `yaml:"default_lookback" json:"default_lookback"`
	// DataDirectory is the local root the partition folders live under
	DataDirectory string `yaml:"data_directory" json:"data_directory"`
	// CheckpointDirectory holds the per-source checkpoint files
	CheckpointDirectory string `yaml:"checkpoint_directory" json:"checkpoint_directory"`
}

// Location resolves the configured timezone
func (b BatchConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", b.Timezone, err)
	}
	return loc, nil
}

// PipelineConfig holds settings for the external noise-analysis tool
type PipelineConfig struct {
	// Binary is the path of the analysis executable
	Binary string `yaml:"binary" json:"binary"`
	// Mode selects the tool's processing mode (e.g. safe vs fast)
	Mode string `yaml:"mode" json:"mode"`
	// Timeout bounds a single partition's pipeline invocation; 0 means none
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// UploadConfig holds remote storage settings
type UploadConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Bucket  string `yaml:"bucket" json:"bucket"`
	Region  string `yaml:"region" json:"region"`
	// PSDPrefix and BroadbandPrefix are prepended per artifact kind ahead of
	// the hydrophone=/date= path
	PSDPrefix       string        `yaml:"psd_prefix" json:"psd_prefix"`
	BroadbandPrefix string        `yaml:"broadband_prefix" json:"broadband_prefix"`
	MaxRetries      int           `yaml:"max_retries" json:"max_retries"`
	RetryDelay      time.Duration `yaml:"retry_delay" json:"retry_delay"`
}

// PrefixFor returns the configured key prefix for an artifact kind
func (u UploadConfig) PrefixFor(kind models.ArtifactKind) string {
	if kind == models.KindBroadband {
		return u.BroadbandPrefix
	}
	return u.PSDPrefix
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
	File  string `yaml:"file" json:"file"`
}

// DefaultConfig returns a Config instance with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Hydrophone: HydrophoneConfig{
			Default: "bush_point",
		},
		Resolution: models.Resolution{
			DeltaF: 10,
			DeltaT: 60,
			Bands:  0,
		},
		Batch: BatchConfig{
			Timezone:            "America/Los_Angeles",
			DefaultLookback:     time.Hour,
			DataDirectory:       "./data",
			CheckpointDirectory: "./checkpoints",
		},
		Pipeline: PipelineConfig{
			Binary:  "noise-analysis",
			Mode:    "safe",
			Timeout: 0,
		},
		Upload: UploadConfig{
			Enabled:         false,
			Region:          "us-west-2",
			PSDPrefix:       "psd",
			BroadbandPrefix: "broadband",
			MaxRetries:      3,
			RetryDelay:      5 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
	}
}

// LoadFromEnv loads configuration from environment variables
func (c *Config) LoadFromEnv() error {
	if hydro := os.Getenv("NOISEBATCH_HYDROPHONE"); hydro != "" {
		c.Hydrophone.Default = hydro
	}
	if tz := os.Getenv("NOISEBATCH_TIMEZONE"); tz != "" {
		c.Batch.Timezone = tz
	}
	if lookback := os.Getenv("NOISEBATCH_LOOKBACK"); lookback != "" {
		d, err := time.ParseDuration(lookback)
		if err != nil {
			return fmt.Errorf("invalid NOISEBATCH_LOOKBACK: %w", err)
		}
		c.Batch.DefaultLookback = d
	}
	if dataDir := os.Getenv("NOISEBATCH_DATA_DIR"); dataDir != "" {
		c.Batch.DataDirectory = dataDir
	}
	if cpDir := os.Getenv("NOISEBATCH_CHECKPOINT_DIR"); cpDir != "" {
		c.Batch.CheckpointDirectory = cpDir
	}
	if binary := os.Getenv("NOISEBATCH_PIPELINE_BINARY"); binary != "" {
		c.Pipeline.Binary = binary
	}
	if deltaF := os.Getenv("NOISEBATCH_DELTA_F"); deltaF != "" {
		var val int
		fmt.Sscanf(deltaF, "%d", &val)
		if val > 0 {
			c.Resolution.DeltaF = val
		}
	}
	if deltaT := os.Getenv("NOISEBATCH_DELTA_T"); deltaT != "" {
		var val int
		fmt.Sscanf(deltaT, "%d", &val)
		if val > 0 {
			c.Resolution.DeltaT = val
		}
	}
	if upload := os.Getenv("NOISEBATCH_UPLOAD"); upload != "" {
		c.Upload.Enabled = strings.ToLower(upload) == "true"
	}
	if bucket := os.Getenv("NOISEBATCH_UPLOAD_BUCKET"); bucket != "" {
		c.Upload.Bucket = bucket
	}
	if region := os.Getenv("NOISEBATCH_UPLOAD_REGION"); region != "" {
		c.Upload.Region = region
	}
	if logLevel := os.Getenv("NOISEBATCH_LOG_LEVEL"); logLevel != "" {
		c.Logging.Level = logLevel
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file
func (c *Config) LoadFromFile(path string) error {
	// If path is empty, try default locations
	if path == "" {
		path = c.findConfigFile()
		if path == "" {
			return nil // No config file found, not an error
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	return nil
}

// findConfigFile searches for config file in standard locations
func (c *Config) findConfigFile() string {
	locations := []string{
		".noisebatch.yaml",
		".noisebatch.yml",
		filepath.Join(os.Getenv("HOME"), ".config", "noisebatch", "config.yaml"),
		filepath.Join(os.Getenv("HOME"), ".config", "noisebatch", "config.yml"),
	}

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}

	return ""
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	if c.Resolution.DeltaF <= 0 && c.Resolution.Bands <= 0 {
		errs = append(errs, errors.New("either delta_f or bands must be positive"))
	}
	if c.Resolution.DeltaT <= 0 {
		errs = append(errs, errors.New("delta_t must be positive"))
	}

	if c.Batch.Timezone == "" {
		errs = append(errs, errors.New("timezone is required"))
	} else if _, err := time.LoadLocation(c.Batch.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("invalid timezone %q", c.Batch.Timezone))
	}
	if c.Batch.DefaultLookback <= 0 {
		errs = append(errs, errors.New("default lookback must be positive"))
	}
	if c.Batch.DataDirectory == "" {
		errs = append(errs, errors.New("data directory is required"))
	}
	if c.Batch.CheckpointDirectory == "" {
		errs = append(errs, errors.New("checkpoint directory is required"))
	}

	if c.Pipeline.Binary == "" {
		errs = append(errs, errors.New("pipeline binary is required"))
	}

	if c.Upload.Enabled {
		if c.Upload.Bucket == "" {
			errs = append(errs, errors.New("upload bucket is required when upload is enabled"))
		}
		if c.Upload.PSDPrefix == "" || c.Upload.BroadbandPrefix == "" {
			errs = append(errs, errors.New("upload prefixes are required when upload is enabled"))
		}
		if c.Upload.MaxRetries < 0 {
			errs = append(errs, errors.New("upload max retries cannot be negative"))
		}
	}

	validLogLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, errors.New("invalid log level"))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// MergeCommandLineFlags merges command line flags into the configuration
func (c *Config) MergeCommandLineFlags(flags map[string]interface{}) {
	if hydro, ok := flags["hydrophone"].(string); ok && hydro != "" {
		c.Hydrophone.Default = hydro
	}
	if dataDir, ok := flags["data-dir"].(string); ok && dataDir != "" {
		c.Batch.DataDirectory = dataDir
	}
	if cpDir, ok := flags["checkpoint-dir"].(string); ok && cpDir != "" {
		c.Batch.CheckpointDirectory = cpDir
	}
	if lookback, ok := flags["lookback"].(time.Duration); ok && lookback > 0 {
		c.Batch.DefaultLookback = lookback
	}
	if upload, ok := flags["upload"].(bool); ok {
		c.Upload.Enabled = upload
	}
	if bucket, ok := flags["upload-bucket"].(string); ok && bucket != "" {
		c.Upload.Bucket = bucket
	}
	if logLevel, ok := flags["log-level"].(string); ok && logLevel != "" {
		c.Logging.Level = logLevel
	}
}

// Load loads configuration from all sources with proper precedence
// Precedence order: Command line flags > Environment variables > .env file > Config file > Defaults
func Load(configPath string, flags map[string]interface{}) (*Config, error) {
	// Try to load .env files (don't fail if they don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join(os.Getenv("HOME"), ".noisebatch.env"))

	config := DefaultConfig()

	if err := config.LoadFromFile(configPath); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	config.MergeCommandLineFlags(flags)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}
