package types

import "time"

// HTTPConfig holds shared HTTP settings for requests to the registry.
type HTTPConfig struct {
	// Timeout bounds each page request. Zero is rejected by validation so
	// that an unresponsive endpoint cannot block forever.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"gt=0"`

	// UserAgent is the User-Agent header sent with each request
	// (e.g. "ctgov-export/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries is the number of retries on HTTP 429. Zero disables retry.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries" validate:"gte=0,lte=10"`
}

// OutputFormat selects the file format written by the sink.
type OutputFormat string

const (
	FormatCSV    OutputFormat = "csv"
	FormatJSON   OutputFormat = "json"
	FormatYAML   OutputFormat = "yaml"
	FormatSQLite OutputFormat = "sqlite"
)

// ExportConfig holds settings for one fetch-and-export run.
type ExportConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// BaseURL is the registry studies endpoint.
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url" validate:"required,url"`

	// Output is the destination file path. Existing files are overwritten.
	Output string `json:"output" yaml:"output" mapstructure:"output" validate:"required"`

	// Format selects csv, json, yaml, or sqlite output.
	Format OutputFormat `json:"format" yaml:"format" mapstructure:"format" validate:"oneof=csv json yaml sqlite"`

	// Strict makes a truncated pagination run fail after the partial
	// result has been written.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// Preview prints the rows as a table on stdout after writing.
	Preview bool `json:"preview" yaml:"preview" mapstructure:"preview"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level" yaml:"level" mapstructure:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// File is an optional log file path; empty logs to stderr only.
	File string `json:"file" yaml:"file" mapstructure:"file"`

	// MaxSizeMB is the size at which the log file is rotated.
	MaxSizeMB int `json:"max_size_mb" yaml:"max_size_mb" mapstructure:"max_size_mb" validate:"gte=0"`

	// MaxBackups is the number of rotated files kept.
	MaxBackups int `json:"max_backups" yaml:"max_backups" mapstructure:"max_backups" validate:"gte=0"`
}
