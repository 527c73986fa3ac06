package sarif

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanmill/scanmill/internal/findings"
	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
)

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.sarif")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sqlInjectionDoc = `{
  "version": "2.1.0",
  "runs": [
    {
      "tool": {"driver": {"name": "codeql"}},
      "results": [
        {
          "ruleId": "java/sql-injection",
          "level": "error",
          "message": {"text": "Query built from user-controlled sources."},
          "locations": [
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "App.java"},
                "region": {"startLine": 42}
              }
            },
            {
              "physicalLocation": {
                "artifactLocation": {"uri": "Ignored.java"},
                "region": {"startLine": 7}
              }
            }
          ]
        }
      ]
    }
  ]
}`

func TestReadReportAndNormalize(t *testing.T) {
	report, err := ReadReport(writeDoc(t, sqlInjectionDoc), hclog.NewNullLogger())
	require.NoError(t, err)

	normalized := report.Normalize()
	require.Len(t, normalized, 1)
	assert.Equal(t, findings.Finding{
		Rule:     "java/sql-injection",
		Severity: "error",
		File:     "App.java",
		Line:     "42",
		Message:  "Query built from user-controlled sources.",
	}, normalized[0])
}

func TestNormalizeIsIdempotent(t *testing.T) {
	report, err := ReadReport(writeDoc(t, sqlInjectionDoc), hclog.NewNullLogger())
	require.NoError(t, err)

	assert.Equal(t, report.Normalize(), report.Normalize())
}

func TestNormalizeFillsSentinels(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want findings.Finding
	}{
		{
			name: "result with no fields at all",
			doc:  `{"runs": [{"results": [{}]}]}`,
			want: findings.Finding{Rule: "unknown", Severity: "warning", File: "-", Line: "-", Message: ""},
		},
		{
			name: "location without uri keeps sentinels",
			doc:  `{"runs": [{"results": [{"ruleId": "py/clear-text-logging", "locations": [{"physicalLocation": {"region": {"startLine": 3}}}]}]}]}`,
			want: findings.Finding{Rule: "py/clear-text-logging", Severity: "warning", File: "-", Line: "-", Message: ""},
		},
		{
			name: "uri without start line keeps line sentinel",
			doc:  `{"runs": [{"results": [{"ruleId": "py/clear-text-logging", "locations": [{"physicalLocation": {"artifactLocation": {"uri": "app.py"}}}]}]}]}`,
			want: findings.Finding{Rule: "py/clear-text-logging", Severity: "warning", File: "app.py", Line: "-", Message: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ReadReport(writeDoc(t, tt.doc), hclog.NewNullLogger())
			require.NoError(t, err)

			normalized := report.Normalize()
			require.Len(t, normalized, 1)
			assert.Equal(t, tt.want, normalized[0])
		})
	}
}

func TestNormalizeEmptyDocument(t *testing.T) {
	report, err := ReadReport(writeDoc(t, `{"runs": []}`), hclog.NewNullLogger())
	require.NoError(t, err)

	normalized := report.Normalize()
	assert.NotNil(t, normalized)
	assert.Empty(t, normalized)
}

func TestReadReportMalformedDocument(t *testing.T) {
	_, err := ReadReport(writeDoc(t, `{"runs": [`), hclog.NewNullLogger())
	require.Error(t, err)
	assert.True(t, scanerrors.IsKind(err, scanerrors.KindParseFailure))
}

func TestReadReportMissingFile(t *testing.T) {
	_, err := ReadReport(filepath.Join(t.TempDir(), "absent.sarif"), hclog.NewNullLogger())
	require.Error(t, err)
	assert.True(t, scanerrors.IsKind(err, scanerrors.KindParseFailure))
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.sarif")
	require.NoError(t, WriteEmpty(path))

	report, err := ReadReport(path, hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, "2.1.0", report.Version)
	assert.Empty(t, report.Normalize())
}
