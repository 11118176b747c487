// internal/appconfig/appconfig.go
// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// DefaultFolds is the fold count used when none is configured.
	DefaultFolds = 3
	// DefaultRatingColumn and DefaultTextColumn follow the <Stud|Rating|Link|Comment> export layout.
	DefaultRatingColumn = 1
	DefaultTextColumn   = 3
	// defaultRequestTimeout is the default timeout for classifier HTTP requests.
	defaultRequestTimeout = 120 * time.Second
	// defaultFoldTimeout bounds a whole fold: every train call plus the classify call.
	defaultFoldTimeout = 30 * time.Minute
	// defaultOutputDir is where per-fold outputs and the summary are written.
	defaultOutputDir = "senticvData/results"
	// defaultClassifierType is the backend used when the config omits one.
	defaultClassifierType = "uclassify"
)

// Config represents the top-level application configuration.
type Config struct {
	Dataset            Dataset    `json:"dataset" mapstructure:"dataset"`
	Folds              int        `json:"folds" mapstructure:"folds"`
	Concurrency        int        `json:"concurrency,omitempty" mapstructure:"concurrency"`
	FoldTimeoutSeconds int        `json:"foldTimeout,omitempty" mapstructure:"foldTimeout"`
	Classifier         Classifier `json:"classifier" mapstructure:"classifier"`
	Output             Output     `json:"output" mapstructure:"output"`
	Debug              bool       `json:"debug" mapstructure:"debug"`
	JSONMode           bool       `json:"jsonMode" mapstructure:"jsonMode"`
	LogFile            string     `json:"logFile,omitempty" mapstructure:"logFile"`
	MetricsFile        string     `json:"metricsFile,omitempty" mapstructure:"metricsFile"`
	ConfigPath         string     `json:"-" mapstructure:"-"`
}

// Dataset locates the labeled input and the fixed columns holding rating and text.
type Dataset struct {
	Path         string `json:"path" mapstructure:"path"`
	RatingColumn *int   `json:"ratingColumn,omitempty" mapstructure:"ratingColumn"`
	TextColumn   *int   `json:"textColumn,omitempty" mapstructure:"textColumn"`
	SkipHeader   *bool  `json:"skipHeader,omitempty" mapstructure:"skipHeader"`
	Sheet        string `json:"sheet,omitempty" mapstructure:"sheet"`
}

// Classifier selects the sentiment backend and carries its credentials.
type Classifier struct {
	Type           string `json:"type" mapstructure:"type"`
	URL            string `json:"url,omitempty" mapstructure:"url"`
	Name           string `json:"name,omitempty" mapstructure:"name"`
	ReadKey        string `json:"readKey,omitempty" mapstructure:"readKey"`
	WriteKey       string `json:"writeKey,omitempty" mapstructure:"writeKey"`
	TimeoutSeconds int    `json:"timeout,omitempty" mapstructure:"timeout"`
	Retries        int    `json:"retries,omitempty" mapstructure:"retries"`
}

// Output configures where fold outputs and summaries are persisted.
type Output struct {
	Dir string `json:"dir,omitempty" mapstructure:"dir"`
	S3  S3     `json:"s3,omitempty" mapstructure:"s3"`
}

// S3 configures the optional object-store sink.
type S3 struct {
	Bucket   string `json:"bucket,omitempty" mapstructure:"bucket"`
	Prefix   string `json:"prefix,omitempty" mapstructure:"prefix"`
	Region   string `json:"region,omitempty" mapstructure:"region"`
	Endpoint string `json:"endpoint,omitempty" mapstructure:"endpoint"`
}

// Enabled reports whether an S3 bucket has been configured.
func (s S3) Enabled() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

// RatingColumnIndex returns the 0-based rating column, falling back to the default layout.
func (d Dataset) RatingColumnIndex() int {
	if d.RatingColumn == nil {
		return DefaultRatingColumn
	}
	return *d.RatingColumn
}

// TextColumnIndex returns the 0-based text column, falling back to the default layout.
func (d Dataset) TextColumnIndex() int {
	if d.TextColumn == nil {
		return DefaultTextColumn
	}
	return *d.TextColumn
}

// HeaderSkipped reports whether the first row of the input is a header. Defaults to true.
func (d Dataset) HeaderSkipped() bool {
	if d.SkipHeader == nil {
		return true
	}
	return *d.SkipHeader
}

// RequestTimeout returns the timeout for a single classifier request.
func (c Classifier) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BackendType returns the normalized backend name.
func (c Classifier) BackendType() string {
	if t := strings.ToLower(strings.TrimSpace(c.Type)); t != "" {
		return t
	}
	return defaultClassifierType
}

// RetryAttempts returns the number of transport-level retries. Negative values disable retries.
func (c Classifier) RetryAttempts() int {
	if c.Retries < 0 {
		return 0
	}
	return c.Retries
}

// FoldCount returns the configured fold count or the default.
func (c Config) FoldCount() int {
	if c.Folds == 0 {
		return DefaultFolds
	}
	return c.Folds
}

// FoldConcurrency returns how many folds may run at once; at least one.
func (c Config) FoldConcurrency() int {
	if c.Concurrency <= 0 {
		return 1
	}
	return c.Concurrency
}

// FoldTimeout returns the per-fold deadline.
func (c Config) FoldTimeout() time.Duration {
	if c.FoldTimeoutSeconds <= 0 {
		return defaultFoldTimeout
	}
	return time.Duration(c.FoldTimeoutSeconds) * time.Second
}

// OutputDir returns the results directory, applying a default if not set.
func (c Config) OutputDir() string {
	if dir := strings.TrimSpace(c.Output.Dir); dir != "" {
		return dir
	}
	return defaultOutputDir
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return "senticv.log"
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	if c.Dataset.RatingColumnIndex() < 0 || c.Dataset.TextColumnIndex() < 0 {
		return errors.New("dataset columns must be non-negative")
	}
	if c.Dataset.RatingColumnIndex() == c.Dataset.TextColumnIndex() {
		return errors.New("dataset rating and text columns must differ")
	}
	if c.Concurrency < 0 {
		return errors.New("concurrency must not be negative")
	}
	switch c.Classifier.BackendType() {
	case "uclassify", "textprocessing", "bayes":
	default:
		return fmt.Errorf("unknown classifier type %q", c.Classifier.Type)
	}
	return nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("no configuration file found at %q", path)
		}
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	if config.Folds == 0 {
		config.Folds = DefaultFolds
	}
	if config.Classifier.TimeoutSeconds <= 0 {
		config.Classifier.TimeoutSeconds = int(defaultRequestTimeout.Seconds())
	}

	return config, nil
}
