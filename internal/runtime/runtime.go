package runtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/vladcosorg/actiongen/internal/project"
	"go.uber.org/zap"
)

// ErrTaskNotFound is returned when a task name is not in the manifest.
var ErrTaskNotFound = errors.New("task not found")

// StepError reports a step that exited with a non-zero status.
type StepError struct {
	Task     string
	Command  string
	ExitCode int
}

func (e *StepError) Error() string {
	return fmt.Sprintf("task %q: %q exited with code %d", e.Task, e.Command, e.ExitCode)
}

// Runner executes tasks of the project rooted at Dir.
type Runner struct {
	Dir      string
	Manifest *project.TasksManifest

	// Stdout and Stderr can be set for testing; defaults to os.Stdout/os.Stderr.
	Stdout io.Writer
	Stderr io.Writer
	Logger *zap.Logger
}

// LoadManifest reads the tasks manifest written by synth under dir.
func LoadManifest(dir string) (*project.TasksManifest, error) {
	p := filepath.Join(dir, filepath.FromSlash(project.TasksFile()))
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("reading tasks manifest: %w", err)
	}
	var m project.TasksManifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}
	if m.Tasks == nil {
		m.Tasks = map[string]*project.Task{}
	}
	return &m, nil
}

// New loads the manifest under dir and returns a runner for it.
func New(dir string) (*Runner, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}
	return &Runner{Dir: dir, Manifest: m}, nil
}

// Names returns the task names, sorted.
func (r *Runner) Names() []string {
	names := make([]string, 0, len(r.Manifest.Tasks))
	for name := range r.Manifest.Tasks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes the named task. A task that spawns itself, directly or
// through other tasks, is an error.
func (r *Runner) Run(ctx context.Context, name string) error {
	env := os.Environ()
	for k, v := range r.Manifest.Env {
		env = setEnv(env, k, v)
	}
	return r.run(ctx, name, env, nil)
}

func (r *Runner) run(ctx context.Context, name string, env []string, stack []string) error {
	for _, s := range stack {
		if s == name {
			return fmt.Errorf("task cycle: %s -> %s", strings.Join(stack, " -> "), name)
		}
	}
	t, ok := r.Manifest.Tasks[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, name)
	}
	stack = append(stack, name)

	env = append([]string(nil), env...)
	for k, v := range t.Env {
		env = setEnv(env, k, v)
	}

	log := r.logger().With(zap.String("task", name))
	for _, step := range t.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch {
		case step.Spawn != "":
			log.Debug("spawning task", zap.String("spawn", step.Spawn))
			if err := r.run(ctx, step.Spawn, env, stack); err != nil {
				return err
			}
		case step.Say != "":
			fmt.Fprintln(r.stdout(), step.Say)
		case step.Exec != "":
			log.Debug("exec", zap.String("command", step.Exec), zap.String("cwd", step.Cwd))
			if err := r.exec(ctx, name, step, env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *Runner) exec(ctx context.Context, task string, step project.TaskStep, env []string) error {
	name, args := shell(step.Exec)
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	if step.Cwd != "" {
		cmd.Dir = filepath.Join(r.Dir, filepath.FromSlash(step.Cwd))
	}
	cmd.Env = env
	cmd.Stdout = r.stdout()
	cmd.Stderr = r.stderr()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &StepError{Task: task, Command: step.Exec, ExitCode: exitErr.ExitCode()}
		}
		return fmt.Errorf("task %q: running %q: %w", task, step.Exec, err)
	}
	return nil
}

func shell(command string) (string, []string) {
	if runtime.GOOS == "windows" {
		return "cmd", []string{"/C", command}
	}
	return "sh", []string{"-c", command}
}

func (r *Runner) stdout() io.Writer {
	if r.Stdout != nil {
		return r.Stdout
	}
	return os.Stdout
}

func (r *Runner) stderr() io.Writer {
	if r.Stderr != nil {
		return r.Stderr
	}
	return os.Stderr
}

func (r *Runner) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return zap.NewNop()
}

// setEnv sets or replaces an environment variable in the env slice.
func setEnv(env []string, key, value string) []string {
	prefix := key + "="
	for i, e := range env {
		if strings.HasPrefix(e, prefix) {
			env[i] = prefix + value
			return env
		}
	}
	return append(env, prefix+value)
}
