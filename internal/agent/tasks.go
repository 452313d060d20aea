package agent

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultTasks is the demo script run when no task file is given.
var DefaultTasks = []string{
	"Go to github.com. Click on Sign In. Fill in username and Password in their respective input fields after extracting them. Click on Sign in.",
	"Click search. Type 'playwright' in the input field. Once filled, Press Enter key on keyboard. Then Click on playwright-python",
}

// TaskFile is the YAML layout of a task script:
//
//	tasks:
//	  - Go to example.com
//	  - Click on More information
type TaskFile struct {
	Tasks []string `yaml:"tasks"`
}

// LoadTasks reads a task script. Blank entries are dropped.
func LoadTasks(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}
	var tf TaskFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse task file %s: %w", path, err)
	}

	tasks := make([]string, 0, len(tf.Tasks))
	for _, t := range tf.Tasks {
		if t = strings.TrimSpace(t); t != "" {
			tasks = append(tasks, t)
		}
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("task file %s has no tasks", path)
	}
	return tasks, nil
}
