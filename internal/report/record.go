// Package report owns the persisted results store: the flat folder of result
// documents, the side-car records describing them, and the dashboard
// aggregate computed over them.
package report

import (
	"fmt"
	"strings"
	"time"
)

const (
	filePrefix = "report"
	fileExt    = ".sarif"
	metaExt    = ".meta.json"
)

// Sentinel values for listings whose filename does not match the expected
// pattern and has no side-car record.
const (
	UnknownProject  = "Unknown"
	UnknownLanguage = "-"
)

// Record describes one persisted result document. It is written as a
// side-car next to the document and never mutated afterwards; the filename
// alone still recovers project, language, and creation time, so a missing
// side-car only degrades the listing, never breaks it.
type Record struct {
	Filename  string    `json:"filename"`
	Project   string    `json:"project"`
	Language  string    `json:"language"`
	Timestamp time.Time `json:"timestamp"`
	ScanID    string    `json:"scan_id,omitempty"`
	Size      int64     `json:"size"`
}

// BuildFilename composes the canonical result document name.
// Example: report_juice-shop_javascript_2026-08-25T08:28:46Z.sarif.
func BuildFilename(project, language string, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s%s", filePrefix, project, language, t.UTC().Format(time.RFC3339), fileExt)
}

// ParseFilename recovers project, language, and creation time from a result
// document name. Parsing is anchored on the right, so project names may
// themselves contain underscores.
func ParseFilename(name string) (project, language string, ts time.Time, err error) {
	base := strings.TrimSuffix(name, fileExt)
	if base == name {
		return "", "", time.Time{}, fmt.Errorf("%q is not a result document name", name)
	}
	parts := strings.Split(base, "_")
	if len(parts) < 4 || parts[0] != filePrefix {
		return "", "", time.Time{}, fmt.Errorf("%q does not match the result document pattern", name)
	}

	ts, err = time.Parse(time.RFC3339, parts[len(parts)-1])
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("%q carries no parsable timestamp: %w", name, err)
	}
	language = parts[len(parts)-2]
	project = strings.Join(parts[1:len(parts)-2], "_")
	if project == "" || language == "" {
		return "", "", time.Time{}, fmt.Errorf("%q carries empty name segments", name)
	}
	return project, language, ts, nil
}

// metaFilename returns the side-car name for a result document.
func metaFilename(name string) string {
	return name + metaExt
}
