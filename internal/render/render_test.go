package render

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scanmill/scanmill/internal/findings"
	"github.com/scanmill/scanmill/internal/language"
	"github.com/scanmill/scanmill/internal/pipeline"
	"github.com/scanmill/scanmill/internal/report"
)

func TestScanSummary(t *testing.T) {
	result := &pipeline.ScanResult{
		ScanID:     "scan-1",
		Project:    "juice-shop",
		Language:   language.Java,
		ReportFile: "report_juice-shop_java_2026-08-25T10:00:00Z.sarif",
		Findings: []findings.Finding{
			{Rule: "java/sql-injection", Severity: "error", File: "App.java", Line: "42", Message: "User input flows into a SQL query."},
		},
		Message: "analysis completed, found 1 issue(s)",
	}

	out := ScanSummary(result)
	assert.Contains(t, out, "juice-shop")
	assert.Contains(t, out, "java")
	assert.Contains(t, out, "analysis completed, found 1 issue(s)")
	assert.Contains(t, out, "java/sql-injection")
	assert.Contains(t, out, "App.java:42")
	assert.Contains(t, out, "report_juice-shop_java_2026-08-25T10:00:00Z.sarif")
}

func TestScanSummaryWithoutLocation(t *testing.T) {
	result := &pipeline.ScanResult{
		Project:  "lib",
		Language: language.Go,
		Findings: []findings.Finding{
			{Rule: "unknown", Severity: "warning", File: "-", Line: "-", Message: ""},
		},
		Message: "analysis completed, found 1 issue(s)",
	}

	out := ScanSummary(result)
	assert.Contains(t, out, "-")
	assert.NotContains(t, out, "-:-", "the line separator must be dropped when there is no location")
}

func TestReportDetailCountsFindings(t *testing.T) {
	out := ReportDetail("report_app_go_2026-08-25T10:00:00Z.sarif", nil)
	assert.Contains(t, out, "0 finding(s)")
	assert.Contains(t, out, "No findings.")
}

func TestRecordList(t *testing.T) {
	records := []report.Record{
		{
			Filename:  "report_shop_java_2026-08-25T10:00:00Z.sarif",
			Project:   "shop",
			Language:  "java",
			Timestamp: time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
		{
			Filename:  "legacy-scan.sarif",
			Project:   report.UnknownProject,
			Language:  report.UnknownLanguage,
			Timestamp: time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
		},
	}

	out := RecordList(records)
	assert.Contains(t, out, "shop")
	assert.Contains(t, out, "2026-08-25 10:00:00")
	assert.Contains(t, out, report.UnknownProject)
	assert.Less(t, strings.Index(out, "shop"), strings.Index(out, "legacy-scan"), "records render in the given order")
}

func TestRecordListEmpty(t *testing.T) {
	out := RecordList(nil)
	assert.Contains(t, out, "no scans recorded yet")
}

func TestDashboard(t *testing.T) {
	stats := report.Stats{
		TotalScans:    3,
		TotalFindings: 5,
		SeverityDistribution: map[string]int{
			"error":   2,
			"warning": 2,
			"info":    1,
		},
		TopRules: []report.RuleCount{
			{Rule: "sql-injection", Count: 3},
			{Rule: "xss", Count: 1},
		},
		UnreadableReports: 1,
	}

	out := Dashboard(stats)
	assert.Contains(t, out, "total scans")
	assert.Contains(t, out, "unreadable reports")
	assert.Contains(t, out, "sql-injection")
	assert.Less(t, strings.Index(out, "sql-injection"), strings.Index(out, "xss"), "top rules keep their rank order")
}

func TestDashboardWithoutRules(t *testing.T) {
	out := Dashboard(report.Stats{SeverityDistribution: map[string]int{}})
	assert.Contains(t, out, "none")
}
