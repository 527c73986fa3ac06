package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultJSON(ruleID, level string) string {
	return fmt.Sprintf(`{"ruleId": %q, "level": %q, "message": {"text": "finding"}}`, ruleID, level)
}

func TestAggregate(t *testing.T) {
	store := newTestStore(t)

	// Newest document: two errors on the same rule plus one warning.
	writeStoredDoc(t, store, BuildFilename("shop", "java", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)),
		fmt.Sprintf(`{"runs": [{"results": [%s, %s, %s]}]}`,
			resultJSON("java/sql-injection", "error"),
			resultJSON("java/sql-injection", "error"),
			resultJSON("java/xss", "warning")))

	// A clean scan with zero findings still counts toward total scans.
	writeStoredDoc(t, store, BuildFilename("clean", "go", time.Date(2026, 8, 25, 9, 30, 0, 0, time.UTC)),
		`{"runs": []}`)

	// Older document: a note and a warning whose rule shares the
	// sql-injection leaf with the java rule above.
	writeStoredDoc(t, store, BuildFilename("web", "javascript", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC)),
		fmt.Sprintf(`{"runs": [{"results": [%s, %s]}]}`,
			resultJSON("py/clear-text-logging", "note"),
			resultJSON("js/sql-injection", "warning")))

	// Malformed document: skipped, never aborts the rest.
	writeStoredDoc(t, store, BuildFilename("broken", "ruby", time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)),
		`{"runs": [`)

	stats, err := store.Aggregate()
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalScans)
	assert.Equal(t, 1, stats.UnreadableReports)
	assert.Equal(t, 5, stats.TotalFindings)
	assert.Equal(t, map[string]int{"error": 2, "warning": 2, "info": 1}, stats.SeverityDistribution)

	sum := 0
	for _, count := range stats.SeverityDistribution {
		sum += count
	}
	assert.Equal(t, stats.TotalFindings, sum)

	// sql-injection folds the java and js rules into one leaf bucket; the
	// tie between xss and clear-text-logging keeps first-appearance order.
	assert.Equal(t, []RuleCount{
		{Rule: "sql-injection", Count: 3},
		{Rule: "xss", Count: 1},
		{Rule: "clear-text-logging", Count: 1},
	}, stats.TopRules)
}

func TestAggregateBoundsTopRules(t *testing.T) {
	store := newTestStore(t)

	results := ""
	for i := 0; i < 7; i++ {
		if i > 0 {
			results += ", "
		}
		results += resultJSON(fmt.Sprintf("java/rule-%d", i), "warning")
	}
	writeStoredDoc(t, store, BuildFilename("many", "java", time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)),
		fmt.Sprintf(`{"runs": [{"results": [%s]}]}`, results))

	stats, err := store.Aggregate()
	require.NoError(t, err)
	require.Len(t, stats.TopRules, 5)
	assert.Equal(t, "rule-0", stats.TopRules[0].Rule, "equal counts keep first-appearance order")
	assert.Equal(t, "rule-4", stats.TopRules[4].Rule)
}

func TestAggregateEmptyStore(t *testing.T) {
	store := newTestStore(t)

	stats, err := store.Aggregate()
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalScans)
	assert.Equal(t, 0, stats.TotalFindings)
	assert.Equal(t, map[string]int{"error": 0, "warning": 0, "info": 0}, stats.SeverityDistribution)
	assert.Empty(t, stats.TopRules)
}
