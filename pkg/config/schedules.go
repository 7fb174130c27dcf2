// Package config loads the scheduler's YAML file of workflows to keep in the store.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/dukex/scribe/pkg/models"
	"github.com/dukex/scribe/pkg/workflow"
	"gopkg.in/yaml.v3"
)

var (
	ErrMissingID       = errors.New("scheduled workflow needs an id")
	ErrMissingSchedule = errors.New("scheduled workflow needs a schedule")
)

// SchedulesFile is the structure of schedules.yaml. Each entry is a workflow definition
// with a fixed id, so loading the file twice updates the same stored workflows.
type SchedulesFile struct {
	Workflows []yaml.Node `yaml:"workflows"`
}

// LoadSchedules reads and validates every workflow in the schedules file.
func LoadSchedules(path string) ([]models.Workflow, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schedules file %s: %w", path, err)
	}

	return ParseSchedules(data)
}

func ParseSchedules(data []byte) ([]models.Workflow, error) {
	var file SchedulesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse schedules YAML: %w", err)
	}

	workflows := make([]models.Workflow, 0, len(file.Workflows))
	seen := make(map[string]bool, len(file.Workflows))

	for i := range file.Workflows {
		body, err := yaml.Marshal(&file.Workflows[i])
		if err != nil {
			return nil, fmt.Errorf("workflow %d: %w", i, err)
		}

		wf, err := workflow.ParseDefinition(body)
		if err != nil {
			return nil, fmt.Errorf("workflow %d: %w", i, err)
		}

		if wf.ID == "" {
			return nil, fmt.Errorf("workflow %d (%s): %w", i, wf.Name, ErrMissingID)
		}

		if wf.Schedule == "" {
			return nil, fmt.Errorf("workflow %s: %w", wf.ID, ErrMissingSchedule)
		}

		if seen[wf.ID] {
			return nil, fmt.Errorf("workflow %s is defined twice", wf.ID)
		}

		seen[wf.ID] = true

		workflows = append(workflows, *wf)
	}

	return workflows, nil
}
