package workflow

// Workflow is a GitHub Actions workflow document.
type Workflow struct {
	Name        string            `yaml:"name"`
	On          map[string]any    `yaml:"on"`
	Concurrency *Concurrency      `yaml:"concurrency,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Jobs        map[string]Job    `yaml:"jobs"`
}

// Concurrency limits parallel runs of a workflow.
type Concurrency struct {
	Group            string `yaml:"group"`
	CancelInProgress bool   `yaml:"cancel-in-progress"`
}

// Job is a single job of a workflow.
type Job struct {
	Name        string            `yaml:"name,omitempty"`
	RunsOn      string            `yaml:"runs-on"`
	Needs       []string          `yaml:"needs,omitempty"`
	If          string            `yaml:"if,omitempty"`
	Permissions map[string]string `yaml:"permissions,omitempty"`
	Outputs     map[string]string `yaml:"outputs,omitempty"`
	Env         map[string]string `yaml:"env,omitempty"`
	Steps       []Step            `yaml:"steps"`
}

// Step is a job step. Exactly one of Uses or Run is set.
type Step struct {
	ID               string            `yaml:"id,omitempty"`
	Name             string            `yaml:"name,omitempty"`
	If               string            `yaml:"if,omitempty"`
	Uses             string            `yaml:"uses,omitempty"`
	Run              string            `yaml:"run,omitempty"`
	With             map[string]any    `yaml:"with,omitempty"`
	Env              map[string]string `yaml:"env,omitempty"`
	WorkingDirectory string            `yaml:"working-directory,omitempty"`
	ContinueOnError  bool              `yaml:"continue-on-error,omitempty"`
	Shell            string            `yaml:"shell,omitempty"`
}

// Permission levels.
const (
	PermissionRead  = "read"
	PermissionWrite = "write"
)

const (
	DefaultRunner      = "ubuntu-latest"
	DefaultNodeVersion = "lts/*"

	checkoutAction         = "actions/checkout@v4"
	setupNodeAction        = "actions/setup-node@v4"
	setupGoAction          = "actions/setup-go@v5"
	uploadArtifactAction   = "actions/upload-artifact@v4"
	downloadArtifactAction = "actions/download-artifact@v4"
)

// CheckoutStep checks out the repository with the given inputs.
func CheckoutStep(with map[string]any) Step {
	return Step{Name: "Checkout", Uses: checkoutAction, With: with}
}

// SetupNodeStep installs Node.js.
func SetupNodeStep(version string) Step {
	if version == "" {
		version = DefaultNodeVersion
	}
	return Step{Uses: setupNodeAction, With: map[string]any{"node-version": version}}
}
