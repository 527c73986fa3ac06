package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/scanmill/scanmill/internal/findings"
	"github.com/scanmill/scanmill/internal/sarif"
	"github.com/scanmill/scanmill/pkg/shared/config"
	"github.com/scanmill/scanmill/pkg/shared/files"
)

// Store persists result documents in a single flat folder. Concurrent scans
// share it safely because each writes a uniquely named file; the store is
// append-only from the pipeline's perspective.
type Store struct {
	logger hclog.Logger
	dir    string
}

// NewStore builds a store over the validated configuration.
func NewStore(logger hclog.Logger, cfg *config.Config) *Store {
	return &Store{logger: logger, dir: config.GetResultsHome(cfg)}
}

// Dir returns the folder documents live in.
func (s *Store) Dir() string {
	return s.dir
}

// Allocate reserves a document name for a finishing scan. When a scan of the
// same project and language lands within the same second, the timestamp is
// advanced until the name is free, keeping the filename unique without
// changing its structure.
func (s *Store) Allocate(project, language, scanID string) Record {
	ts := time.Now().UTC().Truncate(time.Second)
	filename := BuildFilename(project, language, ts)
	for {
		if _, err := os.Stat(filepath.Join(s.dir, filename)); os.IsNotExist(err) {
			break
		}
		ts = ts.Add(time.Second)
		filename = BuildFilename(project, language, ts)
	}
	return Record{
		Filename:  filename,
		Project:   project,
		Language:  language,
		Timestamp: ts,
		ScanID:    scanID,
	}
}

// Path resolves a document name inside the store, rejecting anything that
// escapes it.
func (s *Store) Path(filename string) (string, error) {
	return files.EnsureWithinRoot(s.dir, filepath.Join(s.dir, filename))
}

// Commit stats the written document, completes the record, and writes the
// side-car next to it.
func (s *Store) Commit(record Record) (Record, error) {
	path, err := s.Path(record.Filename)
	if err != nil {
		return record, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return record, fmt.Errorf("result document %q was not written: %w", record.Filename, err)
	}
	record.Size = info.Size()

	data, err := json.MarshalIndent(record, "", "    ")
	if err != nil {
		return record, fmt.Errorf("error marshaling the report record: %w", err)
	}
	if err := files.WriteJsonFile(filepath.Join(s.dir, metaFilename(record.Filename)), data); err != nil {
		return record, fmt.Errorf("error writing the report record: %w", err)
	}
	s.logger.Info("result document persisted", "file", record.Filename, "size", record.Size)
	return record, nil
}

// List enumerates all persisted documents, newest first. The side-car record
// is preferred; a document without one falls back to filename parsing and
// finally to sentinel values with the file's modification time.
func (s *Store) List() ([]Record, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read the results folder %q: %w", s.dir, err)
	}

	records := []Record{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		records = append(records, s.describe(entry))
	}
	sort.SliceStable(records, func(i, j int) bool {
		if records[i].Timestamp.Equal(records[j].Timestamp) {
			return records[i].Filename < records[j].Filename
		}
		return records[i].Timestamp.After(records[j].Timestamp)
	})
	return records, nil
}

// Detail re-parses a named document on demand and returns its normalized
// findings. An unreadable document surfaces as a parse_failure error.
func (s *Store) Detail(filename string) ([]findings.Finding, error) {
	path, err := s.Path(filename)
	if err != nil {
		return nil, err
	}
	document, err := sarif.ReadReport(path, s.logger)
	if err != nil {
		return nil, err
	}
	return document.Normalize(), nil
}

// describe derives a Record for one directory entry without failing: the
// side-car wins, then the filename pattern, then sentinels plus mtime.
func (s *Store) describe(entry os.DirEntry) Record {
	name := entry.Name()
	if record, err := s.readMeta(name); err == nil {
		return record
	}

	record := Record{Filename: name}
	if info, err := entry.Info(); err == nil {
		record.Size = info.Size()
		record.Timestamp = info.ModTime().UTC()
	}

	project, language, ts, err := ParseFilename(name)
	if err != nil {
		s.logger.Debug("result document name does not match the expected pattern", "file", name)
		record.Project = UnknownProject
		record.Language = UnknownLanguage
		return record
	}
	record.Project = project
	record.Language = language
	record.Timestamp = ts
	return record
}

// readMeta loads the side-car record of a document.
func (s *Store) readMeta(name string) (Record, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, metaFilename(name)))
	if err != nil {
		return Record{}, err
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("error unmarshaling the report record for %q: %w", name, err)
	}
	if record.Filename == "" {
		record.Filename = name
	}
	return record, nil
}
