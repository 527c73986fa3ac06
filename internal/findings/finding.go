package findings

import "strings"

// Sentinel values substituted when a raw result lacks the corresponding field.
const (
	UnknownRule     = "unknown"
	NoLocation      = "-"
	DefaultSeverity = "warning"
)

// Finding is the flattened unit of analysis output served to clients. Line is
// a string so the no-location sentinel and real line numbers share one field.
type Finding struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	File     string `json:"file"`
	Line     string `json:"line"`
	Message  string `json:"message"`
}

// RuleLeaf reduces a hierarchical rule id to its last path segment, so
// "java/sql-injection" and "js/sql-injection" share the "sql-injection"
// bucket.
func RuleLeaf(ruleID string) string {
	if idx := strings.LastIndex(ruleID, "/"); idx >= 0 {
		return ruleID[idx+1:]
	}
	return ruleID
}

// SeverityBucket folds a raw severity string into one of the three dashboard
// buckets by substring match.
func SeverityBucket(severity string) string {
	lowered := strings.ToLower(severity)
	switch {
	case strings.Contains(lowered, "error"):
		return "error"
	case strings.Contains(lowered, "warn"):
		return "warning"
	default:
		return "info"
	}
}
