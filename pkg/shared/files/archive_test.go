package files

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureWithinRoot(t *testing.T) {
	root := t.TempDir()

	tests := []struct {
		name    string
		target  string
		wantErr bool
	}{
		{
			name:    "direct child",
			target:  filepath.Join(root, "report.sarif"),
			wantErr: false,
		},
		{
			name:    "nested child",
			target:  filepath.Join(root, "sub", "report.sarif"),
			wantErr: false,
		},
		{
			name:    "parent escape",
			target:  filepath.Join(root, "..", "evil"),
			wantErr: true,
		},
		{
			name:    "dotdot inside path",
			target:  filepath.Join(root, "sub", "..", "..", "evil"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := EnsureWithinRoot(root, tt.target)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExtractArchiveZip(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "src.zip")
	writeZip(t, archivePath, map[string]string{
		"App.java":        "public class App {}",
		"sub/Helper.java": "public class Helper {}",
	})

	dest := t.TempDir()
	require.NoError(t, ExtractArchive(archivePath, dest))

	assert.FileExists(t, filepath.Join(dest, "App.java"))
	assert.FileExists(t, filepath.Join(dest, "sub", "Helper.java"))
}

func TestExtractArchiveRejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "evil.zip")
	writeZip(t, archivePath, map[string]string{
		"../outside.txt": "nope",
	})

	err := ExtractArchive(archivePath, t.TempDir())
	assert.ErrorContains(t, err, "rejected archive entry")
}

func TestExtractArchiveUnsupportedFormat(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(plain, []byte("print('hi')"), 0644))

	err := ExtractArchive(plain, t.TempDir())
	assert.ErrorContains(t, err, "unsupported archive format")
}

func TestIsArchive(t *testing.T) {
	assert.True(t, IsArchive("project.zip"))
	assert.True(t, IsArchive("project.tar.gz"))
	assert.True(t, IsArchive("PROJECT.ZIP"))
	assert.False(t, IsArchive("main.py"))
	assert.False(t, IsArchive("archive.rar"))
}

func writeZip(t *testing.T, path string, entries map[string]string) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		entry, err := w.Create(name)
		require.NoError(t, err)
		_, err = entry.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

func TestSanitizeUploadName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "plain name", input: "project.zip", want: "project.zip"},
		{name: "path is reduced to base", input: "a/b/project.zip", want: "project.zip"},
		{name: "traversal is reduced to base", input: "../../etc/passwd", want: "passwd"},
		{name: "windows separators", input: `C:\uploads\project.zip`, want: "project.zip"},
		{name: "empty name", input: "", wantErr: true},
		{name: "dot only", input: ".", wantErr: true},
		{name: "parent only", input: "..", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeUploadName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
