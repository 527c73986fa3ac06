package sarif

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/scanmill/scanmill/internal/findings"
	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
)

// Report wraps a decoded result document.
type Report struct {
	*sarif.Report
	logger hclog.Logger
}

// ReadReport loads and decodes a persisted result document. Open, read, and
// decode failures all come back as parse_failure errors, so callers can tell
// an unreadable document apart from a readable one with zero findings.
func ReadReport(inputPath string, logger hclog.Logger) (*Report, error) {
	jsonFile, err := os.Open(inputPath)
	if err != nil {
		return nil, scanerrors.Wrap(scanerrors.KindParseFailure, err, fmt.Sprintf("failed to open result document %q", inputPath))
	}
	defer jsonFile.Close()

	byteValue, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, scanerrors.Wrap(scanerrors.KindParseFailure, err, fmt.Sprintf("failed to read result document %q", inputPath))
	}

	var sarifReport sarif.Report
	if err := json.Unmarshal(byteValue, &sarifReport); err != nil {
		return nil, scanerrors.Wrap(scanerrors.KindParseFailure, err, fmt.Sprintf("failed to decode result document %q", inputPath))
	}

	return &Report{Report: &sarifReport, logger: logger}, nil
}

// Normalize flattens every raw result in every run into exactly one Finding,
// preserving document order. Missing fields degrade to sentinels instead of
// dropping the result, so the output length always equals the raw result
// count.
func (r *Report) Normalize() []findings.Finding {
	normalized := []findings.Finding{}
	for _, run := range r.Runs {
		for _, result := range run.Results {
			normalized = append(normalized, normalizeResult(result))
		}
	}
	return normalized
}

// normalizeResult extracts one Finding from a raw result. Only the first
// location is considered; a location without a file URI keeps the sentinels.
func normalizeResult(result *sarif.Result) findings.Finding {
	finding := findings.Finding{
		Rule:     findings.UnknownRule,
		Severity: findings.DefaultSeverity,
		File:     findings.NoLocation,
		Line:     findings.NoLocation,
	}

	if result.RuleID != nil && *result.RuleID != "" {
		finding.Rule = *result.RuleID
	}
	if result.Level != nil && *result.Level != "" {
		finding.Severity = *result.Level
	}
	if result.Message.Text != nil {
		finding.Message = *result.Message.Text
	}

	if len(result.Locations) == 0 {
		return finding
	}
	physical := result.Locations[0].PhysicalLocation
	if physical == nil || physical.ArtifactLocation == nil || physical.ArtifactLocation.URI == nil || *physical.ArtifactLocation.URI == "" {
		return finding
	}
	finding.File = *physical.ArtifactLocation.URI
	if physical.Region != nil && physical.Region.StartLine != nil {
		finding.Line = strconv.Itoa(*physical.Region.StartLine)
	}
	return finding
}

// NewEmptyReport constructs a schema-valid document with zero runs.
func NewEmptyReport() (*sarif.Report, error) {
	report, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("failed to construct an empty result document: %w", err)
	}
	return report, nil
}

// WriteEmpty persists a schema-valid document with zero runs to outputPath.
// Used when the engine exits cleanly without producing an output file.
func WriteEmpty(outputPath string) error {
	report, err := NewEmptyReport()
	if err != nil {
		return err
	}
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create result document %q: %w", outputPath, err)
	}
	defer file.Close()

	if err := report.PrettyWrite(file); err != nil {
		return fmt.Errorf("failed to write result document %q: %w", outputPath, err)
	}
	return nil
}
