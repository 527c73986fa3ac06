package config

import (
	"crypto/tls"
	"net"
	"strconv"
	"time"
)

// BaseHTTPConfig holds common HTTP client configuration settings.
type BaseHTTPConfig struct {
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
	Timeout          time.Duration
	TLSClientConfig  *tls.Config
	Proxy            string
}

// RestyHTTPClientConfig holds additional configuration settings for the resty http client.
type RestyHTTPClientConfig struct {
	BaseHTTPConfig
	Debug bool
}

// DefaultHTTPConfig returns the base configuration applicable to all HTTP clients.
func DefaultHTTPConfig() BaseHTTPConfig {
	return BaseHTTPConfig{
		RetryCount:       5,
		RetryWaitTime:    1 * time.Second,
		RetryMaxWaitTime: 2 * time.Second,
		Timeout:          10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12, // Enforce a minimum TLS version
		},
		Proxy: "",
	}
}

// DefaultRestyConfig returns a specific http config for Resty.
func DefaultRestyConfig() RestyHTTPClientConfig {
	baseConfig := DefaultHTTPConfig()
	return RestyHTTPClientConfig{
		BaseHTTPConfig: baseConfig,
		Debug:          false,
	}
}

// Default execution ceilings for the analysis engine. The remote ceiling is
// tighter and applies only to invocations that resolve suites over the
// network, where a stalled download must be cut off early.
const (
	DefaultEngineBinary         = "codeql"
	DefaultEngineCreateTimeout  = 10 * time.Minute
	DefaultEngineAnalyzeTimeout = 10 * time.Minute
	DefaultEngineRemoteTimeout  = 5 * time.Minute
)

// Defaults for the HTTP front.
const (
	DefaultServerHost    = "0.0.0.0"
	DefaultServerPort    = 1234
	DefaultMaxUploadSize = 512 << 20
)

// GetScanmillHome returns the validated home folder.
func GetScanmillHome(cfg *Config) string {
	return cfg.Scanmill.HomeFolder
}

// GetResultsHome returns the folder where persisted result documents live.
func GetResultsHome(cfg *Config) string {
	return cfg.Scanmill.ResultsFolder
}

// GetTempHome returns the folder used for per-scan temporary trees.
func GetTempHome(cfg *Config) string {
	return cfg.Scanmill.TempFolder
}

// GetSuitesHome returns the vendored suites folder.
func GetSuitesHome(cfg *Config) string {
	return cfg.Scanmill.SuitesFolder
}

// GetQueriesHome returns the root of the cloned upstream query repository.
func GetQueriesHome(cfg *Config) string {
	return cfg.Scanmill.QueriesFolder
}

// GetArtifactsHome returns the folder where launch envelopes are archived.
func GetArtifactsHome(cfg *Config) string {
	return cfg.Scanmill.ArtifactsFolder
}

// GetEngineBinary returns the configured engine binary name or the default.
func GetEngineBinary(cfg *Config) string {
	return SetThen(cfg.Engine.Binary, DefaultEngineBinary)
}

// GetServerAddr returns the listen address of the HTTP front.
func GetServerAddr(cfg *Config) string {
	host := SetThen(cfg.Server.Host, DefaultServerHost)
	port := SetThen(cfg.Server.Port, DefaultServerPort)
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// GetMaxUploadSize returns the upload ceiling for the analyze endpoint.
func GetMaxUploadSize(cfg *Config) int64 {
	return SetThen(cfg.Server.MaxUploadSize, int64(DefaultMaxUploadSize))
}

// IsCI reports whether the application runs in CI mode.
func IsCI(cfg *Config) bool {
	return cfg.Scanmill.Mode == "CI"
}
