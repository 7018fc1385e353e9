package project

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/vladcosorg/actiongen/internal/branding"
)

// TaskStep is one step of a task. Exactly one of Exec, Spawn or Say is set.
type TaskStep struct {
	Name  string `json:"name,omitempty" yaml:"name,omitempty"`
	Exec  string `json:"exec,omitempty" yaml:"exec,omitempty"`
	Spawn string `json:"spawn,omitempty" yaml:"spawn,omitempty"`
	Say   string `json:"say,omitempty" yaml:"say,omitempty"`
	Cwd   string `json:"cwd,omitempty" yaml:"cwd,omitempty"`
}

// Task is a named, ordered list of steps.
type Task struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Env         map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Steps       []TaskStep        `json:"steps,omitempty" yaml:"steps,omitempty"`
}

// Exec appends a shell command step.
func (t *Task) Exec(command string) *Task {
	t.Steps = append(t.Steps, TaskStep{Exec: command})
	return t
}

// PrependExec inserts a shell command step before all others.
func (t *Task) PrependExec(command string) *Task {
	t.Steps = append([]TaskStep{{Exec: command}}, t.Steps...)
	return t
}

// Spawn appends a step that runs another task.
func (t *Task) Spawn(other *Task) *Task {
	t.Steps = append(t.Steps, TaskStep{Spawn: other.Name})
	return t
}

// Say appends a step that prints a message.
func (t *Task) Say(message string) *Task {
	t.Steps = append(t.Steps, TaskStep{Say: message})
	return t
}

// Reset removes every step and, when commands are given, adds them as exec
// steps.
func (t *Task) Reset(commands ...string) *Task {
	t.Steps = nil
	for _, c := range commands {
		t.Exec(c)
	}
	return t
}

// SetEnv sets an environment variable for every step of the task.
func (t *Task) SetEnv(name, value string) *Task {
	if t.Env == nil {
		t.Env = map[string]string{}
	}
	t.Env[name] = value
	return t
}

// TasksManifest is the on-disk form of a project's tasks.
type TasksManifest struct {
	Tasks map[string]*Task  `json:"tasks"`
	Env   map[string]string `json:"env,omitempty"`
}

// TasksFile is the slash-separated location of the tasks manifest.
func TasksFile() string {
	return path.Join(branding.StateDir(), "tasks.json")
}

// Tasks holds the task definitions of a project.
type Tasks struct {
	tasks map[string]*Task
	order []string
	env   map[string]string
}

// NewTasks creates the task registry and its manifest file.
func NewTasks(p *Project) *Tasks {
	ts := &Tasks{tasks: map[string]*Task{}, env: map[string]string{}}
	NewObjectFile(p, TasksFile(), ObjectFileOptions{
		Format: FormatJSON,
		Lazy: func() (any, error) {
			return ts.Manifest(), nil
		},
	})
	return ts
}

// AddTask registers a new task. Adding a name twice returns the existing task.
func (ts *Tasks) AddTask(name, description string) *Task {
	if t, ok := ts.tasks[name]; ok {
		return t
	}
	t := &Task{Name: name, Description: description}
	ts.tasks[name] = t
	ts.order = append(ts.order, name)
	return t
}

// TryFind returns the task named name, or nil.
func (ts *Tasks) TryFind(name string) *Task {
	return ts.tasks[name]
}

// All returns the tasks in registration order.
func (ts *Tasks) All() []*Task {
	out := make([]*Task, 0, len(ts.order))
	for _, name := range ts.order {
		out = append(out, ts.tasks[name])
	}
	return out
}

// AddEnv sets a variable visible to every task.
func (ts *Tasks) AddEnv(name, value string) {
	ts.env[name] = value
}

// Manifest returns the serializable form of the tasks.
func (ts *Tasks) Manifest() *TasksManifest {
	m := &TasksManifest{Tasks: map[string]*Task{}}
	for name, t := range ts.tasks {
		m.Tasks[name] = t
	}
	if len(ts.env) > 0 {
		m.Env = ts.env
	}
	return m
}

// Script flattens a task into a single shell command line, as used for npm
// scripts.
func (ts *Tasks) Script(t *Task) string {
	var parts []string

	keys := make([]string, 0, len(t.Env))
	for k := range t.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("export %s=%q", k, t.Env[k]))
	}

	for _, s := range t.Steps {
		var cmd string
		switch {
		case s.Exec != "":
			cmd = s.Exec
		case s.Spawn != "":
			cmd = "npm run " + s.Spawn
		case s.Say != "":
			cmd = fmt.Sprintf("echo %q", s.Say)
		default:
			continue
		}
		if s.Cwd != "" {
			cmd = fmt.Sprintf("(cd %s && %s)", s.Cwd, cmd)
		}
		parts = append(parts, cmd)
	}

	return strings.Join(parts, " && ")
}
