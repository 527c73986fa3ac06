package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateScanmillConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("SCANMILL_HOME", home)
	t.Setenv("SCANMILL_RESULTS_FOLDER", "")
	t.Setenv("SCANMILL_MODE", "")
	t.Setenv("CI", "")

	cfg := &Config{}
	require.NoError(t, ValidateScanmillConfig(cfg))

	assert.Equal(t, home, cfg.Scanmill.HomeFolder)
	assert.Equal(t, filepath.Join(home, "results"), cfg.Scanmill.ResultsFolder)
	assert.Equal(t, filepath.Join(home, "tmp"), cfg.Scanmill.TempFolder)
	assert.Equal(t, filepath.Join(home, "suites"), cfg.Scanmill.SuitesFolder)
	assert.Equal(t, filepath.Join(home, "codeql-repo"), cfg.Scanmill.QueriesFolder)
	assert.Equal(t, "user", cfg.Scanmill.Mode)

	// the layout must exist after validation
	for _, dir := range []string{cfg.Scanmill.ResultsFolder, cfg.Scanmill.TempFolder, cfg.Scanmill.SuitesFolder} {
		assert.DirExists(t, dir)
	}
}

func TestValidateScanmillConfigEnvOverride(t *testing.T) {
	home := t.TempDir()
	results := t.TempDir()
	t.Setenv("SCANMILL_HOME", home)
	t.Setenv("SCANMILL_RESULTS_FOLDER", results)
	t.Setenv("CI", "true")

	cfg := &Config{}
	require.NoError(t, ValidateScanmillConfig(cfg))

	assert.Equal(t, results, cfg.Scanmill.ResultsFolder)
	assert.Equal(t, "CI", cfg.Scanmill.Mode)
	assert.True(t, IsCI(cfg))
}

func TestValidateEngineConfig(t *testing.T) {
	tests := []struct {
		name    string
		engine  Engine
		wantErr string
	}{
		{
			name:    "empty engine config is valid",
			engine:  Engine{},
			wantErr: "",
		},
		{
			name: "valid timeouts",
			engine: Engine{
				CreateTimeout:  10 * time.Minute,
				AnalyzeTimeout: 10 * time.Minute,
				RemoteTimeout:  5 * time.Minute,
			},
			wantErr: "",
		},
		{
			name: "negative timeout",
			engine: Engine{
				CreateTimeout: -1 * time.Second,
			},
			wantErr: "cannot be negative",
		},
		{
			name: "timeout above ceiling",
			engine: Engine{
				AnalyzeTimeout: 3 * time.Hour,
			},
			wantErr: "duration is too long",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateEngineConfig(&tt.engine)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPConfig(t *testing.T) {
	tests := []struct {
		name    string
		http    HTTPClient
		wantErr string
	}{
		{
			name:    "defaults",
			http:    HTTPClient{},
			wantErr: "",
		},
		{
			name:    "retry count too high",
			http:    HTTPClient{RetryCount: 50},
			wantErr: "retry_count must be between 0 and 20",
		},
		{
			name:    "proxy without scheme gets one",
			http:    HTTPClient{Proxy: Proxy{Host: "proxy.local", Port: 3128}},
			wantErr: "",
		},
		{
			name:    "proxy port out of range",
			http:    HTTPClient{Proxy: Proxy{Host: "proxy.local", Port: 70000}},
			wantErr: "port must be between 1 and 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHTTPConfig(&tt.http)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidateServerConfig(t *testing.T) {
	assert.NoError(t, ValidateServerConfig(&Server{}))
	assert.NoError(t, ValidateServerConfig(&Server{Port: 8080}))
	assert.Error(t, ValidateServerConfig(&Server{Port: -1}))
	assert.Error(t, ValidateServerConfig(&Server{MaxUploadSize: -5}))
}

func TestSetThen(t *testing.T) {
	assert.Equal(t, "codeql", SetThen("", "codeql"))
	assert.Equal(t, "custom", SetThen("custom", "codeql"))
	assert.Equal(t, 5*time.Minute, SetThen(time.Duration(0), 5*time.Minute))
}
