package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dukex/scribe/pkg/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSchedules(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
workflows:
  - id: weekly-digest
    name: Weekly digest
    schedule: "0 9 * * 1"
    input: this week's releases
    steps:
      - name: Summarize
        prompt: "Summarize {input}"
  - id: daily-tip
    name: Daily tip
    schedule: "@daily"
    input: writing
    steps:
      - name: Tip
        prompt: "Give one tip about {input}"
`), 0o600))

	workflows, err := LoadSchedules(path)
	require.NoError(t, err)
	require.Len(t, workflows, 2)

	assert.Equal(t, "weekly-digest", workflows[0].ID)
	assert.Equal(t, "0 9 * * 1", workflows[0].Schedule)
	assert.NotEmpty(t, workflows[0].Steps[0].ID)
	assert.Equal(t, "@daily", workflows[1].Schedule)
}

func TestParseSchedules_Empty(t *testing.T) {
	workflows, err := ParseSchedules([]byte("workflows: []"))
	require.NoError(t, err)
	assert.Empty(t, workflows)
}

func TestParseSchedules_Invalid(t *testing.T) {
	step := "\n    steps:\n      - name: s\n        prompt: p"

	_, err := ParseSchedules([]byte("workflows:\n  - name: no id\n    schedule: \"@daily\"" + step))
	require.ErrorIs(t, err, ErrMissingID)

	_, err = ParseSchedules([]byte("workflows:\n  - id: a\n    name: no schedule" + step))
	require.ErrorIs(t, err, ErrMissingSchedule)

	_, err = ParseSchedules([]byte("workflows:\n  - id: a\n    name: no steps\n    schedule: \"@daily\""))
	require.ErrorIs(t, err, workflow.ErrInvalidDefinition)

	twice := "workflows:\n  - id: a\n    name: x\n    schedule: \"@daily\"" + step +
		"\n  - id: a\n    name: y\n    schedule: \"@daily\"" + step
	_, err = ParseSchedules([]byte(twice))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "defined twice")
}

func TestLoadSchedules_MissingFile(t *testing.T) {
	_, err := LoadSchedules(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
