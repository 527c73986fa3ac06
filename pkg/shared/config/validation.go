package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/scanmill/scanmill/pkg/shared/files"
)

// ValidateConfig checks the loaded configuration, applies environment
// overrides and defaults, and creates the folder layout. After it returns the
// configuration is treated as immutable.
func ValidateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("YAML global config: configuration object is nil")
	}
	if err := ValidateScanmillConfig(cfg); err != nil {
		return fmt.Errorf("YAML global config: scanmill directive is invalid: %w", err)
	}
	if err := ValidateEngineConfig(&cfg.Engine); err != nil {
		return fmt.Errorf("YAML global config: engine directive is invalid: %w", err)
	}
	if err := ValidateHTTPConfig(&cfg.HTTPClient); err != nil {
		return fmt.Errorf("YAML global config: http_client directive is invalid: %w", err)
	}
	if err := ValidateGitConfig(&cfg.GitClient); err != nil {
		return fmt.Errorf("YAML global config: git_client directive is invalid: %w", err)
	}
	if err := ValidateServerConfig(&cfg.Server); err != nil {
		return fmt.Errorf("YAML global config: server directive is invalid: %w", err)
	}
	return nil
}

// ValidateScanmillConfig checks the folder layout directives.
func ValidateScanmillConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("scanmill configuration is nil")
	}
	if err := updateHome(cfg); err != nil {
		return fmt.Errorf("failed to update home folder: %w", err)
	}
	if err := updateFolder(&cfg.Scanmill.ResultsFolder, "SCANMILL_RESULTS_FOLDER", "results", cfg); err != nil {
		return fmt.Errorf("failed to update results folder: %w", err)
	}
	if err := updateFolder(&cfg.Scanmill.TempFolder, "SCANMILL_TEMP_FOLDER", "tmp", cfg); err != nil {
		return fmt.Errorf("failed to update temp folder: %w", err)
	}
	if err := updateFolder(&cfg.Scanmill.SuitesFolder, "SCANMILL_SUITES_FOLDER", "suites", cfg); err != nil {
		return fmt.Errorf("failed to update suites folder: %w", err)
	}
	if err := updateFolder(&cfg.Scanmill.QueriesFolder, "SCANMILL_QUERIES_FOLDER", "codeql-repo", cfg); err != nil {
		return fmt.Errorf("failed to update queries folder: %w", err)
	}
	if err := updateFolder(&cfg.Scanmill.ArtifactsFolder, "SCANMILL_ARTIFACTS_FOLDER", "artifacts", cfg); err != nil {
		return fmt.Errorf("failed to update artifacts folder: %w", err)
	}
	updateMode(cfg)

	return nil
}

// ValidateEngineConfig checks the analysis engine directives.
func ValidateEngineConfig(engineConfig *Engine) error {
	if engineConfig == nil {
		return fmt.Errorf("engine configuration is nil")
	}

	durations := map[string]time.Duration{
		"CreateTimeout":  engineConfig.CreateTimeout,
		"AnalyzeTimeout": engineConfig.AnalyzeTimeout,
		"RemoteTimeout":  engineConfig.RemoteTimeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 2*time.Hour); err != nil {
			return err
		}
	}

	for language, suitePath := range engineConfig.PinnedSuites {
		expanded, err := files.ExpandPath(suitePath)
		if err != nil {
			return fmt.Errorf("failed to expand pinned suite path for %q: %w", language, err)
		}
		engineConfig.PinnedSuites[language] = expanded
	}

	return nil
}

// ValidateGitConfig checks if the Git configurations have valid values.
func ValidateGitConfig(gitConfig *GitClient) error {
	if gitConfig == nil {
		return fmt.Errorf("git configuration is nil")
	}

	if err := validateDuration(gitConfig.Timeout, "timeout", 1*time.Hour); err != nil {
		return err
	}
	return nil
}

// ValidateHTTPConfig checks if the HTTP configurations have valid values.
func ValidateHTTPConfig(httpConfig *HTTPClient) error {
	if httpConfig == nil {
		return fmt.Errorf("HTTP configuration is nil")
	}
	if httpConfig.RetryCount < 0 || httpConfig.RetryCount > 20 {
		return fmt.Errorf("retry_count must be between 0 and 20: %d", httpConfig.RetryCount)
	}

	durations := map[string]time.Duration{
		"RetryMaxWaitTime": httpConfig.RetryMaxWaitTime,
		"RetryWaitTime":    httpConfig.RetryWaitTime,
		"Timeout":          httpConfig.Timeout,
	}
	for name, duration := range durations {
		if err := validateDuration(duration, name, 100*time.Second); err != nil {
			return err
		}
	}

	if err := validateProxy(&httpConfig.Proxy); err != nil {
		return err
	}

	return nil
}

// ValidateServerConfig checks the HTTP server directives.
func ValidateServerConfig(serverConfig *Server) error {
	if serverConfig == nil {
		return fmt.Errorf("server configuration is nil")
	}
	if serverConfig.Port != 0 {
		if err := validatePort(serverConfig.Port); err != nil {
			return err
		}
	}
	if serverConfig.MaxUploadSize < 0 {
		return fmt.Errorf("max_upload_size cannot be negative: %d", serverConfig.MaxUploadSize)
	}
	return nil
}

// validateDuration checks that a time.Duration is valid and within a specified maximum duration.
func validateDuration(d time.Duration, name string, max time.Duration) error {
	if d < 0 {
		return fmt.Errorf("invalid duration for %q: %v cannot be negative", name, d)
	}
	if d > max {
		return fmt.Errorf("%q duration is too long: %v exceeds maximum of %v", name, d, max)
	}
	return nil
}

// validateProxy checks if the given Proxy settings are valid.
func validateProxy(proxy *Proxy) error {
	if proxy == nil {
		return fmt.Errorf("proxy configuration is nil")
	}

	// If host or port is not set, skip further validation
	if proxy.Host == "" || proxy.Port == 0 {
		return nil
	}

	if err := validateHost(&proxy.Host); err != nil {
		return err
	}

	if err := validatePort(proxy.Port); err != nil {
		return err
	}

	return nil
}

// validateHost checks if the host part of the proxy configuration is valid.
// It ensures the host includes a scheme; adds "http" if missing.
func validateHost(host *string) error {
	if host == nil {
		return fmt.Errorf("host string pointer is nil")
	}

	if !strings.Contains(*host, "://") {
		*host = "http://" + *host
	}
	*host = strings.TrimRight(*host, "/")

	_, err := url.Parse(*host)
	if err != nil {
		return fmt.Errorf("invalid host URL: %w", err)
	}

	return nil
}

// validatePort checks if the port is within the valid range.
func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// updateHome updates the HomeFolder from environment variables or sets a default value.
func updateHome(cfg *Config) error {
	if scanmillHomeFolder := os.Getenv("SCANMILL_HOME"); scanmillHomeFolder != "" {
		cfg.Scanmill.HomeFolder = scanmillHomeFolder
	} else if cfg.Scanmill.HomeFolder == "" {
		homeFolder, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("unable to get user home folder: %w", err)
		}
		cfg.Scanmill.HomeFolder = filepath.Join(homeFolder, ".scanmill")
	}

	expandedHomePath, err := files.ExpandPath(cfg.Scanmill.HomeFolder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", cfg.Scanmill.HomeFolder, err)
	}
	cfg.Scanmill.HomeFolder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create home folder %q: %w", cfg.Scanmill.HomeFolder, err)
	}
	return nil
}

// updateFolder updates a folder path in the Scanmill configuration.
func updateFolder(folder *string, envVar, defaultSubFolder string, cfg *Config) error {
	if envVarValue := os.Getenv(envVar); envVarValue != "" {
		*folder = envVarValue
	} else if *folder == "" {
		*folder = filepath.Join(GetScanmillHome(cfg), defaultSubFolder)
	}

	expandedHomePath, err := files.ExpandPath(*folder)
	if err != nil {
		return fmt.Errorf("failed to expand new home path %q: %w", *folder, err)
	}
	*folder = expandedHomePath

	if err := files.CreateFolderIfNotExists(expandedHomePath); err != nil {
		return fmt.Errorf("failed to create folder %q: %w", expandedHomePath, err)
	}
	return nil
}

// updateMode updates the Mode field based on environment variables.
func updateMode(cfg *Config) {
	if os.Getenv("SCANMILL_MODE") == "CI" || os.Getenv("CI") == "true" {
		cfg.Scanmill.Mode = "CI"
		return
	}

	if envVarValue := os.Getenv("SCANMILL_MODE"); envVarValue != "" {
		cfg.Scanmill.Mode = envVarValue
		return
	}

	cfg.Scanmill.Mode = "user"
}
