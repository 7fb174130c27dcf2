package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dukex/scribe/pkg/kvstore"
	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintSchedule(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)

	var out bytes.Buffer

	err := printSchedule(&out, []models.Workflow{
		{ID: "wf-1", Name: "Weekly digest", Schedule: "0 9 * * 1"},
		{ID: "wf-2", Name: "Broken", Schedule: "every tuesday"},
	}, now)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)

	assert.Contains(t, string(lines[0]), "NEXT RUN")
	assert.Contains(t, string(lines[1]), "Weekly digest")
	assert.Contains(t, string(lines[1]), "2025-03-10T09:00:00Z")
	assert.Contains(t, string(lines[2]), "invalid schedule")
}

func TestSeedSchedules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflows:
  - id: nightly
    name: Nightly
    schedule: "@daily"
    input: notes
    steps:
      - name: Sum
        prompt: "Summarize {input}"
`), 0o600))

	workflows := services.NewWorkflows(kvstore.NewMemory(), nil)

	require.NoError(t, seedSchedules(context.Background(), workflows, path))
	require.NoError(t, seedSchedules(context.Background(), workflows, path))

	scheduled, err := workflows.Scheduled(context.Background())
	require.NoError(t, err)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "nightly", scheduled[0].ID)
}
