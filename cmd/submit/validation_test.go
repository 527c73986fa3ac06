package submit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSubmitArgs(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "upload.zip")
	require.NoError(t, os.WriteFile(tmpFile, []byte("archive"), 0644))

	tests := []struct {
		name    string
		options RunOptionsSubmit
		wantErr string
	}{
		{
			name: "valid server and file",
			options: RunOptionsSubmit{
				ServerURL: "http://localhost:1234",
				File:      tmpFile,
			},
			wantErr: "",
		},
		{
			name:    "missing server",
			options: RunOptionsSubmit{File: tmpFile},
			wantErr: "the 'server' flag must be specified",
		},
		{
			name: "server without scheme",
			options: RunOptionsSubmit{
				ServerURL: "localhost:1234",
				File:      tmpFile,
			},
			wantErr: "must be a full URL",
		},
		{
			name:    "missing file",
			options: RunOptionsSubmit{ServerURL: "http://localhost:1234"},
			wantErr: "the 'file' flag must be specified",
		},
		{
			name: "absent file",
			options: RunOptionsSubmit{
				ServerURL: "http://localhost:1234",
				File:      filepath.Join(t.TempDir(), "absent.zip"),
			},
			wantErr: "the target file does not exist",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSubmitArgs(&tt.options)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
