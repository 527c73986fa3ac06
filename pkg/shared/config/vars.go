package config

import (
	"time"
)

// Config is the root of the application configuration. It is loaded once at
// startup, validated, and passed into components by reference afterwards.
// Components never look configuration up from the environment themselves.
type Config struct {
	Scanmill   Scanmill   `yaml:"scanmill"`
	Logger     Logger     `yaml:"logger"`
	Engine     Engine     `yaml:"engine"`
	GitClient  GitClient  `yaml:"git_client"`
	HTTPClient HTTPClient `yaml:"http_client"`
	Server     Server     `yaml:"server"`
	Storage    Storage    `yaml:"storage"`
}

// Scanmill holds the folder layout of the installation.
type Scanmill struct {
	HomeFolder      string `yaml:"home_folder"`
	ResultsFolder   string `yaml:"results_folder"`
	TempFolder      string `yaml:"temp_folder"`
	SuitesFolder    string `yaml:"suites_folder"`
	QueriesFolder   string `yaml:"queries_folder"`
	ArtifactsFolder string `yaml:"artifacts_folder"`
	Mode            string `yaml:"mode"`
}

type Logger struct {
	Level string `yaml:"level"`
}

// Engine configures the external analysis engine binary and its execution limits.
type Engine struct {
	Binary         string            `yaml:"binary"`
	PinnedSuites   map[string]string `yaml:"pinned_suites"`
	CreateTimeout  time.Duration     `yaml:"create_timeout"`
	AnalyzeTimeout time.Duration     `yaml:"analyze_timeout"`
	RemoteTimeout  time.Duration     `yaml:"remote_timeout"`
}

type GitClient struct {
	Depth       int           `yaml:"depth"`
	Timeout     time.Duration `yaml:"timeout"`
	InsecureTLS *bool         `yaml:"insecure_tls"`
}

type HTTPClient struct {
	Debug            *bool           `yaml:"debug"`
	RetryCount       int             `yaml:"retry_count"`
	RetryWaitTime    time.Duration   `yaml:"retry_wait_time"`
	RetryMaxWaitTime time.Duration   `yaml:"retry_max_wait_time"`
	Timeout          time.Duration   `yaml:"timeout"`
	TLSClientConfig  TLSClientConfig `yaml:"tls_client_config"`
	Proxy            Proxy           `yaml:"proxy"`
}

type TLSClientConfig struct {
	Verify *bool `yaml:"verify"`
}

type Proxy struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Server configures the HTTP front of the application.
type Server struct {
	Host          string `yaml:"host"`
	Port          int    `yaml:"port"`
	MaxUploadSize int64  `yaml:"max_upload_size"`
}

// Storage configures the optional object-storage mirror for persisted reports.
type Storage struct {
	S3Bucket string `yaml:"s3_bucket"`
	S3Region string `yaml:"s3_region"`
}
