// Package render formats scan outcomes, report listings, and dashboard
// statistics for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/scanmill/scanmill/internal/findings"
	"github.com/scanmill/scanmill/internal/pipeline"
	"github.com/scanmill/scanmill/internal/report"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3") // warm light gray
	dim     = lipgloss.Color("#6B7280") // muted gray
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(fg)
	dimStyle      = lipgloss.NewStyle().Foreground(dim)
	passStyle     = lipgloss.NewStyle().Foreground(success)
	errorTagStyle = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnTagStyle  = lipgloss.NewStyle().Foreground(warning).Bold(true)
	infoTagStyle  = lipgloss.NewStyle().Foreground(info)
	fileStyle     = lipgloss.NewStyle().Foreground(dim)
)

// ScanSummary renders the outcome of one completed scan.
func ScanSummary(result *pipeline.ScanResult) string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("scanmill"))
	b.WriteString("  ")
	b.WriteString(titleStyle.Render(result.Project))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(result.Language.String()))
	b.WriteString("\n\n  ")
	b.WriteString(result.Message)
	b.WriteString("\n\n")

	renderFindings(&b, result.Findings)

	b.WriteString("\n  ")
	b.WriteString(dimStyle.Render("report: " + result.ReportFile))
	b.WriteString("\n")
	return b.String()
}

// ReportDetail renders the findings of a persisted result document.
func ReportDetail(filename string, list []findings.Finding) string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render(filename))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d finding(s)", len(list))))
	b.WriteString("\n\n")

	renderFindings(&b, list)
	return b.String()
}

// RecordList renders the scan history, one document per line.
func RecordList(records []report.Record) string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(titleStyle.Render("Reports"))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render(fmt.Sprintf("%d", len(records))))
	b.WriteString("\n\n")

	if len(records) == 0 {
		b.WriteString("  " + dimStyle.Render("no scans recorded yet") + "\n")
		return b.String()
	}

	for _, record := range records {
		fmt.Fprintf(&b, "  %s %s %s  %s\n",
			padRight(record.Project, 24),
			padRight(record.Language, 12),
			dimStyle.Render(record.Timestamp.Format("2006-01-02 15:04:05")),
			fileStyle.Render(record.Filename),
		)
	}
	return b.String()
}

// Dashboard renders aggregated statistics over every readable document.
func Dashboard(stats report.Stats) string {
	var b strings.Builder

	b.WriteString("\n  ")
	b.WriteString(headerStyle.Render("scanmill"))
	b.WriteString("  ")
	b.WriteString(titleStyle.Render("dashboard"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "  %s %d\n", padRight("total scans", 20), stats.TotalScans)
	fmt.Fprintf(&b, "  %s %d\n", padRight("total findings", 20), stats.TotalFindings)
	if stats.UnreadableReports > 0 {
		fmt.Fprintf(&b, "  %s %d\n", padRight("unreadable reports", 20), stats.UnreadableReports)
	}
	b.WriteString("\n")

	b.WriteString("  " + titleStyle.Render("Severity") + "\n")
	for _, bucket := range []string{"error", "warning", "info"} {
		fmt.Fprintf(&b, "    %s %d\n", severityTag(bucket), stats.SeverityDistribution[bucket])
	}
	b.WriteString("\n")

	b.WriteString("  " + titleStyle.Render("Top rules") + "\n")
	if len(stats.TopRules) == 0 {
		b.WriteString("    " + dimStyle.Render("none") + "\n")
		return b.String()
	}
	for _, rule := range stats.TopRules {
		fmt.Fprintf(&b, "    %s %d\n", padRight(rule.Rule, 28), rule.Count)
	}
	return b.String()
}

func renderFindings(b *strings.Builder, list []findings.Finding) {
	if len(list) == 0 {
		b.WriteString("  " + passStyle.Render("No findings.") + "\n")
		return
	}

	for _, finding := range list {
		location := finding.File
		if finding.Line != findings.NoLocation {
			location = finding.File + ":" + finding.Line
		}
		fmt.Fprintf(b, "    %s %s %s\n", severityTag(finding.Severity), titleStyle.Render(finding.Rule), fileStyle.Render(location))
		if finding.Message != "" {
			fmt.Fprintf(b, "          %s\n", dimStyle.Render(finding.Message))
		}
	}
}

func severityTag(severity string) string {
	switch findings.SeverityBucket(severity) {
	case "error":
		return errorTagStyle.Render("error")
	case "warning":
		return warnTagStyle.Render("warn ")
	default:
		return infoTagStyle.Render("info ")
	}
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
