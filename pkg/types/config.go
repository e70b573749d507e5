package types

import (
	"errors"
	"strings"
)

// Config holds the settings shared by the shelf command and its shell.
type Config struct {
	LogLevel    string   `json:"log_level" yaml:"log_level,omitempty" mapstructure:"log_level"`
	DataDir     string   `json:"data_dir" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	Snapshot    string   `json:"snapshot" yaml:"snapshot,omitempty" mapstructure:"snapshot"`
	MetricsFile string   `json:"metrics_file" yaml:"metrics_file,omitempty" mapstructure:"metrics_file"`
	S3          S3Config `json:"s3" yaml:"s3,omitempty" mapstructure:"s3"`
}

// S3Config configures access to s3:// snapshot locations. Empty fields fall
// back to the AWS default credential and region chain.
type S3Config struct {
	Region    string `json:"region" yaml:"region,omitempty" mapstructure:"region"`
	Endpoint  string `json:"endpoint" yaml:"endpoint,omitempty" mapstructure:"endpoint"`
	PathStyle bool   `json:"path_style" yaml:"path_style,omitempty" mapstructure:"path_style"`
}

// Config validation errors.
var (
	ErrLogLevelUnknown  = errors.New("unknown log level")
	ErrSnapshotLocation = errors.New("invalid snapshot location")
)

var knownLogLevels = map[string]bool{
	"":      true,
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the Config is well-formed.
func (c Config) Validate() error {
	if !knownLogLevels[strings.ToLower(c.LogLevel)] {
		return ErrLogLevelUnknown
	}
	if c.Snapshot != "" && strings.TrimSpace(c.Snapshot) != c.Snapshot {
		return ErrSnapshotLocation
	}
	return nil
}
