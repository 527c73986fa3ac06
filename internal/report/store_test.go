package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanmill/scanmill/pkg/shared/config"
	scanerrors "github.com/scanmill/scanmill/pkg/shared/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	cfg := &config.Config{}
	cfg.Scanmill.ResultsFolder = t.TempDir()
	return NewStore(hclog.NewNullLogger(), cfg)
}

func writeStoredDoc(t *testing.T, s *Store, filename, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(s.Dir(), filename), []byte(content), 0644))
}

func TestAllocateAvoidsFilenameCollision(t *testing.T) {
	store := newTestStore(t)

	first := store.Allocate("app", "java", "scan-1")
	writeStoredDoc(t, store, first.Filename, `{"runs": []}`)

	second := store.Allocate("app", "java", "scan-2")
	assert.NotEqual(t, first.Filename, second.Filename, "a re-scan in the same second must not overwrite the prior document")
}

func TestCommitWritesSideCar(t *testing.T) {
	store := newTestStore(t)

	record := store.Allocate("juice-shop", "javascript", "scan-9")
	content := `{"runs": []}`
	writeStoredDoc(t, store, record.Filename, content)

	committed, err := store.Commit(record)
	require.NoError(t, err)
	assert.Equal(t, int64(len(content)), committed.Size)

	data, err := os.ReadFile(filepath.Join(store.Dir(), record.Filename+".meta.json"))
	require.NoError(t, err)

	var sideCar Record
	require.NoError(t, json.Unmarshal(data, &sideCar))
	assert.Equal(t, committed, sideCar)
}

func TestCommitFailsWithoutDocument(t *testing.T) {
	store := newTestStore(t)
	record := store.Allocate("ghost", "go", "")

	_, err := store.Commit(record)
	assert.ErrorContains(t, err, "was not written")
}

func TestListPrefersSideCar(t *testing.T) {
	store := newTestStore(t)
	writeStoredDoc(t, store, "legacy-scan.sarif", `{"runs": []}`)

	sideCar := Record{
		Filename:  "legacy-scan.sarif",
		Project:   "legacy",
		Language:  "cpp",
		Timestamp: time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		Size:      12,
	}
	data, err := json.MarshalIndent(sideCar, "", "    ")
	require.NoError(t, err)
	writeStoredDoc(t, store, "legacy-scan.sarif.meta.json", string(data))

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sideCar, records[0])
}

func TestListFallsBackToFilenamePattern(t *testing.T) {
	store := newTestStore(t)
	ts := time.Date(2026, 8, 25, 8, 28, 46, 0, time.UTC)
	writeStoredDoc(t, store, BuildFilename("demo", "python", ts), `{"runs": []}`)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "demo", records[0].Project)
	assert.Equal(t, "python", records[0].Language)
	assert.True(t, ts.Equal(records[0].Timestamp))
	assert.Equal(t, int64(len(`{"runs": []}`)), records[0].Size)
}

func TestListDegradesToSentinels(t *testing.T) {
	store := newTestStore(t)
	writeStoredDoc(t, store, "mystery.sarif", `{"runs": []}`)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, UnknownProject, records[0].Project)
	assert.Equal(t, UnknownLanguage, records[0].Language)
	assert.False(t, records[0].Timestamp.IsZero(), "the modification time stands in for the creation time")
}

func TestListNewestFirst(t *testing.T) {
	store := newTestStore(t)
	older := BuildFilename("app", "java", time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC))
	newer := BuildFilename("app", "java", time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC))
	writeStoredDoc(t, store, older, `{"runs": []}`)
	writeStoredDoc(t, store, newer, `{"runs": []}`)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, newer, records[0].Filename)
	assert.Equal(t, older, records[1].Filename)
}

func TestListIgnoresSideCarsAndFolders(t *testing.T) {
	store := newTestStore(t)
	writeStoredDoc(t, store, "only.sarif.meta.json", `{}`)
	require.NoError(t, os.MkdirAll(filepath.Join(store.Dir(), "nested.sarif"), 0755))

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPathRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Path("../../etc/passwd")
	assert.Error(t, err)
}

func TestDetailNormalizesDocument(t *testing.T) {
	store := newTestStore(t)
	doc := `{"runs": [{"results": [{"ruleId": "java/sql-injection", "level": "error", "message": {"text": "tainted"}}]}]}`
	writeStoredDoc(t, store, "report_app_java_2026-08-25T08:28:46Z.sarif", doc)

	normalized, err := store.Detail("report_app_java_2026-08-25T08:28:46Z.sarif")
	require.NoError(t, err)
	require.Len(t, normalized, 1)
	assert.Equal(t, "java/sql-injection", normalized[0].Rule)
}

func TestDetailUnreadableDocument(t *testing.T) {
	store := newTestStore(t)
	writeStoredDoc(t, store, "broken.sarif", `{"runs": [`)

	_, err := store.Detail("broken.sarif")
	require.Error(t, err)
	assert.True(t, scanerrors.IsKind(err, scanerrors.KindParseFailure))
}
