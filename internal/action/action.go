package action

import (
	"fmt"

	"github.com/vladcosorg/actiongen/internal/metadata"
	"github.com/vladcosorg/actiongen/internal/project"
	"github.com/vladcosorg/actiongen/internal/workflow"
)

// MetadataFile is the action metadata file.
const MetadataFile = "action.yml"

// Entrypoint is the module entry of the compiled package.
const Entrypoint = "./mjs/index.mjs"

var (
	defaultDeps = []string{
		"@actions/core",
		"@actions/github@6",
		"@actions/exec",
		"zod",
	}
	defaultDevDeps = []string{
		"@vercel/ncc",
		"tsconfig-paths",
		"zod-to-json-schema",
		"replace-in-file",
		"typescript",
		"vitest",
		"packemon",
		"@types/node",
	}
)

// Options configure a GitHubAction.
type Options struct {
	project.Options

	// DefaultReleaseBranch triggers the release workflow. Defaults to "main".
	DefaultReleaseBranch string
	// MinNodeVersion selects runs.using when the metadata does not set it.
	MinNodeVersion string
	Deps           []string
	DevDeps        []string
	// ActionMetadata is merged over the default metadata: an action named
	// after the project that runs dist/index.js.
	ActionMetadata *metadata.Metadata
}

// GitHubAction is a TypeScript project that builds a GitHub Action.
type GitHubAction struct {
	*project.Project
	project.ComponentBase

	Release     *workflow.Release
	ActionsFile *project.ObjectFile
	Metadata    metadata.Metadata
	// InputsRef is set when the inputs are resolved from a reference after
	// the first write.
	InputsRef string

	BuildTask   *project.Task
	CompileTask *project.Task
	TestTask    *project.Task
	PackageTask *project.Task
}

// New creates the project and registers every component.
func New(opts Options) (*GitHubAction, error) {
	p, err := project.New(opts.Options)
	if err != nil {
		return nil, err
	}
	a := &GitHubAction{Project: p}

	a.addTasks()
	a.Package.AddDeps(defaultDeps...)
	a.Package.AddDeps(opts.Deps...)
	a.Package.AddDevDeps(defaultDevDeps...)
	a.Package.AddDevDeps(opts.DevDeps...)

	// Bundled into a single runnable file under dist/.
	a.PackageTask.Reset("ncc build --source-map --license licenses.txt")
	a.Package.AddField("type", "module")
	a.Package.AddField("main", Entrypoint)
	a.Package.AddField("packemon", []any{
		map[string]any{
			"inputs":   map[string]any{"index": "src/index.ts"},
			"format":   "mjs",
			"platform": "node",
			"support":  "current",
		},
	})

	a.GitIgnore.Exclude("/dist/")
	a.GitAttributes.AnnotateGenerated("/dist/**")
	a.GitIgnore.Exclude("/mjs")
	a.GitAttributes.AnnotateGenerated("/mjs/**")

	a.addTypeScriptConfig()
	if err := a.addMetadata(opts); err != nil {
		return nil, err
	}
	a.addSamples()

	a.Release = workflow.NewRelease(p, workflow.ReleaseOptions{
		Branch:    opts.DefaultReleaseBranch,
		BuildTask: a.BuildTask,
	})

	p.AddComponent(a)
	p.AddComponent(&injectBuild{action: a})
	return a, nil
}

func (a *GitHubAction) addTasks() {
	a.CompileTask = a.Tasks.AddTask("compile", "Only compile")
	a.CompileTask.Exec("tsc --build")
	a.TestTask = a.Tasks.AddTask("test", "Run tests")
	a.TestTask.Exec("vitest run --passWithNoTests")
	a.PackageTask = a.Tasks.AddTask("package", "Creates the distribution package")

	a.BuildTask = a.Tasks.AddTask("build", "Full release build")
	a.BuildTask.Spawn(a.CompileTask).Spawn(a.TestTask).Spawn(a.PackageTask)
}

func (a *GitHubAction) addMetadata(opts Options) error {
	md := metadata.Default(a.Name)
	using, err := metadata.RuntimeFor(opts.MinNodeVersion)
	if err != nil {
		return fmt.Errorf("min node version: %w", err)
	}
	md.Runs.Using = using
	if opts.ActionMetadata != nil {
		md = metadata.Merge(md, *opts.ActionMetadata)
	}
	a.Metadata = md

	a.ActionsFile = project.NewObjectFile(a.Project, MetadataFile, project.ObjectFileOptions{Obj: md})
	if md.Inputs.IsRef() {
		a.InputsRef = md.Inputs.Ref
		a.deferInputs()
	}
	return nil
}

// PreSynthesize switches packemon to its single-config form and compiles
// with packemon instead of tsc.
func (a *GitHubAction) PreSynthesize() error {
	a.Package.AddField("packemon", map[string]any{
		"format":   "mjs",
		"platform": "node",
		"support":  "current",
	})
	a.CompileTask.Reset("packemon build --loadConfigs --no-addFiles")
	return nil
}
