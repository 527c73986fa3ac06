// Package workspace materializes the per-scan working area: the source tree
// under analysis plus the scratch space holding the engine database. Every
// scan owns its area exclusively; nothing here is shared between scans.
package workspace

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/pkg/shared/config"
	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
	"github.com/scanmill/scanmill/pkg/shared/files"
)

// SourceTree is the working area of one scan. Root points at the sources to
// analyze; the scratch folder beneath the temp home holds the engine database
// and any extracted upload, and is removed by Close together with the
// database inside it.
type SourceTree struct {
	Root    string
	Project string
	scratch string
	logger  hclog.Logger
}

// NewFromUpload saves an uploaded file into a fresh scratch area and, when it
// is an archive, extracts it in place. Extraction failure is not fatal: the
// scan proceeds over whatever was saved, which for a raw source file is
// exactly what the caller wants.
func NewFromUpload(logger hclog.Logger, cfg *config.Config, filename string, content io.Reader) (*SourceTree, error) {
	safeName, err := files.SanitizeUploadName(filename)
	if err != nil {
		return nil, scanerrors.Wrap(scanerrors.KindUnsupportedInput, err, fmt.Sprintf("rejected upload name %q", filename))
	}

	scratch, err := os.MkdirTemp(config.GetTempHome(cfg), "scan")
	if err != nil {
		return nil, fmt.Errorf("failed to create a scratch folder: %w", err)
	}

	srcDir := filepath.Join(scratch, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		os.RemoveAll(scratch)
		return nil, fmt.Errorf("failed to create the source folder: %w", err)
	}

	savePath := filepath.Join(srcDir, safeName)
	if err := saveStream(savePath, content); err != nil {
		os.RemoveAll(scratch)
		return nil, err
	}

	if files.IsArchive(safeName) {
		if err := files.ExtractArchive(savePath, srcDir); err != nil {
			logger.Warn("extraction failed, proceeding with the raw upload", "file", safeName, "error", err)
		} else {
			os.Remove(savePath)
		}
	}

	return &SourceTree{
		Root:    srcDir,
		Project: ProjectName(safeName),
		scratch: scratch,
		logger:  logger,
	}, nil
}

// NewFromDir wraps an existing local folder. The folder itself is never
// modified or removed; only the scratch area created for the database is
// owned by the tree.
func NewFromDir(logger hclog.Logger, cfg *config.Config, dir string) (*SourceTree, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", dir, err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to access %q: %w", absDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", absDir)
	}

	scratch, err := os.MkdirTemp(config.GetTempHome(cfg), "scan")
	if err != nil {
		return nil, fmt.Errorf("failed to create a scratch folder: %w", err)
	}

	return &SourceTree{
		Root:    absDir,
		Project: filepath.Base(absDir),
		scratch: scratch,
		logger:  logger,
	}, nil
}

// NewForClone prepares an empty source folder for a repository checkout. The
// caller clones into Root afterwards.
func NewForClone(logger hclog.Logger, cfg *config.Config, project string) (*SourceTree, error) {
	scratch, err := os.MkdirTemp(config.GetTempHome(cfg), "scan")
	if err != nil {
		return nil, fmt.Errorf("failed to create a scratch folder: %w", err)
	}

	srcDir := filepath.Join(scratch, "src")
	if err := os.MkdirAll(srcDir, 0755); err != nil {
		os.RemoveAll(scratch)
		return nil, fmt.Errorf("failed to create the source folder: %w", err)
	}

	return &SourceTree{
		Root:    srcDir,
		Project: project,
		scratch: scratch,
		logger:  logger,
	}, nil
}

// DatabaseDir returns the folder the engine database is created in. It lives
// inside the scratch area and disappears with it.
func (s *SourceTree) DatabaseDir() string {
	return filepath.Join(s.scratch, "codeql_db")
}

// Files returns the relative paths of all regular files under Root in walk
// order. Checkout metadata under .git is not part of the sources and is
// skipped.
func (s *SourceTree) Files() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.Root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			if entry.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list sources under %q: %w", s.Root, err)
	}
	return paths, nil
}

// Close removes the scratch area and everything in it.
func (s *SourceTree) Close() error {
	if s.scratch == "" {
		return nil
	}
	if err := os.RemoveAll(s.scratch); err != nil {
		return fmt.Errorf("failed to remove the scratch folder %q: %w", s.scratch, err)
	}
	s.scratch = ""
	return nil
}

// ProjectName derives the project identifier from an upload name by
// stripping the archive or file extension.
func ProjectName(filename string) string {
	name := filename
	for _, suffix := range []string{".tar.gz", ".tgz", ".tar", ".zip"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	if name == filename {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if name == "" {
		return "upload"
	}
	return name
}

// saveStream writes content to path.
func saveStream(path string, content io.Reader) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", path, err)
	}
	defer file.Close()

	if _, err := io.Copy(file, content); err != nil {
		return fmt.Errorf("failed to save %q: %w", path, err)
	}
	return nil
}
