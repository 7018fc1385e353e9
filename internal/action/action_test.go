package action

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladcosorg/actiongen/internal/document"
	"github.com/vladcosorg/actiongen/internal/metadata"
	"github.com/vladcosorg/actiongen/internal/project"
	"github.com/vladcosorg/actiongen/internal/workflow"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
)

func newAction(t *testing.T, md *metadata.Metadata) *GitHubAction {
	t.Helper()
	a, err := New(Options{
		Options:        project.Options{Name: "my-action", OutDir: t.TempDir(), Logger: zap.NewNop()},
		ActionMetadata: md,
	})
	require.NoError(t, err)
	return a
}

func readYAML(t *testing.T, a *GitHubAction, rel string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(a.AbsPath(rel))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(data, &doc))
	return doc
}

func readText(t *testing.T, a *GitHubAction, rel string) string {
	t.Helper()
	data, err := os.ReadFile(a.AbsPath(rel))
	require.NoError(t, err)
	return string(data)
}

func TestDefaultMetadata(t *testing.T) {
	a := newAction(t, nil)
	require.NoError(t, a.Synth())

	doc := readYAML(t, a, MetadataFile)
	assert.Equal(t, "my-action", doc["name"])
	assert.Equal(t, "A GitHub Action for my-action", doc["description"])
	assert.Equal(t, map[string]any{"using": "node16", "main": "dist/index.js"}, doc["runs"])
	assert.NotContains(t, doc, "inputs")

	result, err := metadata.ValidateFile(a.AbsPath(MetadataFile))
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %v", result.Issues)
}

func TestMinNodeVersionSelectsRuntime(t *testing.T) {
	a, err := New(Options{
		Options:        project.Options{Name: "x", OutDir: t.TempDir(), Logger: zap.NewNop()},
		MinNodeVersion: "18",
	})
	require.NoError(t, err)
	assert.Equal(t, metadata.RunsNode20, a.Metadata.Runs.Using)

	_, err = New(Options{
		Options:        project.Options{Name: "x", OutDir: t.TempDir(), Logger: zap.NewNop()},
		MinNodeVersion: "banana",
	})
	assert.Error(t, err)
}

func TestLiteralInputsPassThrough(t *testing.T) {
	literal := map[string]any{
		"token":     map[string]any{"description": "GitHub token", "required": true},
		"log-level": map[string]any{"description": "Verbosity", "default": "info"},
	}
	a := newAction(t, &metadata.Metadata{Inputs: metadata.LiteralInputs(literal)})
	require.NoError(t, a.Synth())

	assert.Empty(t, a.InputsRef)
	assert.Equal(t, literal, readYAML(t, a, MetadataFile)["inputs"])
}

// probe records the metadata file as written by the first write pass.
type probe struct {
	project.ComponentBase
	a     *GitHubAction
	first string
}

func (p *probe) Synthesize() error {
	data, err := os.ReadFile(p.a.AbsPath(MetadataFile))
	p.first = string(data)
	return err
}

func TestInputsFromSchemaFile(t *testing.T) {
	a := newAction(t, &metadata.Metadata{Inputs: metadata.InputsRef("./src/inputs.schema.json")})
	require.NoError(t, os.MkdirAll(a.AbsPath("src"), 0755))
	require.NoError(t, os.WriteFile(a.AbsPath("src/inputs.schema.json"), []byte(`{
		"type": "object",
		"properties": {
			"retries": {"type": "number", "default": 3},
			"token": {"type": "string"}
		},
		"required": ["token"]
	}`), 0644))

	pr := &probe{a: a}
	a.AddComponent(pr)
	require.NoError(t, a.Synth())

	assert.Contains(t, pr.first, "inputs: {}")
	assert.NotContains(t, pr.first, "inputs.schema.json")

	assert.Equal(t, map[string]any{
		"retries": map[string]any{"default": 3, "required": false, "description": "No description"},
		"token":   map[string]any{"required": true, "description": "No description"},
	}, readYAML(t, a, MetadataFile)["inputs"])

	result, err := metadata.ValidateFile(a.AbsPath(MetadataFile))
	require.NoError(t, err)
	assert.True(t, result.Valid, "issues: %v", result.Issues)
}

func TestInputsFromGoFactory(t *testing.T) {
	a := newAction(t, &metadata.Metadata{Inputs: metadata.InputsRef("inputs.go")})
	require.NoError(t, os.WriteFile(a.AbsPath("inputs.go"), []byte(`package main

type options struct {
	GithubToken string `+"`json:\"githubToken\"`"+`
	MaxRetries  int    `+"`json:\"maxRetries,omitempty\" jsonschema:\"default=5\"`"+`
}

func Inputs() any { return options{} }
`), 0644))

	require.NoError(t, a.Synth())

	inputs := readYAML(t, a, MetadataFile)["inputs"].(map[string]any)
	assert.Equal(t, map[string]any{"required": true, "description": "No description"}, inputs["github-token"])
	assert.Equal(t, map[string]any{"required": false, "description": "No description", "default": 5}, inputs["max-retries"])
}

func TestInputsResolutionFailureIsFatal(t *testing.T) {
	a := newAction(t, &metadata.Metadata{Inputs: metadata.InputsRef("missing.json")})
	err := a.Synth()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.json")
}

func TestReleaseWorkflowIsPatched(t *testing.T) {
	a := newAction(t, nil)
	require.NoError(t, a.Synth())

	content := readText(t, a, workflow.ReleaseWorkflowFile)
	assert.Contains(t, content, targetCommit)
	assert.NotContains(t, content, targetRef)

	doc := readYAML(t, a, workflow.ReleaseWorkflowFile)
	perm, _ := document.Get(doc, "jobs.release.permissions.id-token")
	assert.Equal(t, "write", perm)

	// Three standard steps, then the ten pre-publish steps.
	step, ok := document.Get(doc, "jobs.release_github.steps.13")
	require.True(t, ok)
	assert.Equal(t, workflow.PublishReleaseStepID, step.(map[string]any)["id"])
	assert.Equal(t, committedCheck, step.(map[string]any)["if"])

	commit, _ := document.Get(doc, "jobs.release_github.steps.12")
	assert.Equal(t, "commit", commit.(map[string]any)["id"])

	if runtime.GOOS != "windows" {
		info, err := os.Stat(a.AbsPath(workflow.ReleaseWorkflowFile))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0444), info.Mode().Perm())
	}
}

func TestSynthIsRepeatable(t *testing.T) {
	a := newAction(t, nil)
	require.NoError(t, a.Synth())
	first := readText(t, a, workflow.ReleaseWorkflowFile)

	again, err := New(Options{Options: project.Options{Name: "my-action", OutDir: a.OutDir, Logger: zap.NewNop()}})
	require.NoError(t, err)
	require.NoError(t, again.Synth())
	assert.Equal(t, first, readText(t, again, workflow.ReleaseWorkflowFile))
}

func TestPrePublishSteps(t *testing.T) {
	steps := PrePublishSteps("dist/version.txt", "dist")
	require.Len(t, steps, 10)

	assert.Equal(t, "branch_exists", steps[0].ID)
	assert.True(t, steps[0].ContinueOnError)
	assert.Equal(t, "latest", steps[0].With["ref"])

	assert.Equal(t, branchMissing, steps[1].If)
	assert.NotContains(t, steps[1].With, "ref")

	assert.Equal(t, "main", steps[2].With["path"])
	assert.Equal(t, "git switch --orphan latest", steps[3].Run)
	assert.Equal(t, "./repo", steps[3].WorkingDirectory)
	assert.Equal(t, "mv ./repo/.git ./.git", steps[4].Run)
	assert.Equal(t, "cp ./main/action.yml action.yml", steps[6].Run)
	assert.Equal(t, `echo "version=$(cut -d '.' -f 1 dist/version.txt)" >> $GITHUB_OUTPUT`, steps[8].Run)

	commit := steps[9]
	assert.Equal(t, "EndBug/add-and-commit@v9", commit.Uses)
	assert.Equal(t, "dist action.yml README.md", commit.With["add"])
	assert.Equal(t, "v${{ steps.major.outputs.version }} --force", commit.With["tag"])
}

func TestInjectBuildWithoutWorkflowIsNoop(t *testing.T) {
	p, err := project.New(project.Options{Name: "bare", OutDir: t.TempDir(), Logger: zap.NewNop()})
	require.NoError(t, err)
	ib := &injectBuild{action: &GitHubAction{Project: p}}

	require.NoError(t, ib.PreSynthesize())
	require.NoError(t, ib.PostSynthesize())
	_, err = os.Stat(filepath.Join(p.OutDir, workflow.ReleaseWorkflowFile))
	assert.True(t, os.IsNotExist(err))
}

func TestPatchOfMissingWorkflowIsFatal(t *testing.T) {
	a := newAction(t, nil)
	ib := &injectBuild{action: a}
	require.NoError(t, ib.PreSynthesize())
	assert.Error(t, ib.PostSynthesize())
}

func TestPackageManifest(t *testing.T) {
	a := newAction(t, nil)
	require.NoError(t, a.Synth())

	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readText(t, a, "package.json")), &pkg))

	assert.Equal(t, "module", pkg["type"])
	assert.Equal(t, Entrypoint, pkg["main"])
	assert.Equal(t, map[string]any{"format": "mjs", "platform": "node", "support": "current"}, pkg["packemon"])

	scripts := pkg["scripts"].(map[string]any)
	assert.Equal(t, "packemon build --loadConfigs --no-addFiles", scripts["compile"])
	assert.Equal(t, "ncc build --source-map --license licenses.txt", scripts["package"])
	assert.Equal(t, "npm run compile && npm run test && npm run package", scripts["build"])
	assert.True(t, strings.HasPrefix(scripts["release"].(string), `export RELEASE="true"`))

	deps := pkg["dependencies"].(map[string]any)
	assert.Equal(t, "6", deps["@actions/github"])
	assert.Contains(t, deps, "zod")
	assert.Contains(t, pkg["devDependencies"], "@vercel/ncc")
}

func TestIgnoresAndSamples(t *testing.T) {
	a := newAction(t, nil)
	require.NoError(t, a.Synth())

	gitignore := readText(t, a, ".gitignore")
	assert.Contains(t, gitignore, "/dist/\n")
	assert.Contains(t, gitignore, "/mjs\n")

	attrs := readText(t, a, ".gitattributes")
	assert.Contains(t, attrs, "/dist/** linguist-generated")
	assert.Contains(t, attrs, "/action.yml linguist-generated")
	assert.NotContains(t, attrs, "/src/index.ts")

	assert.Contains(t, readText(t, a, "src/index.ts"), "Hello from my-action")
	assert.Contains(t, readText(t, a, "README.md"), "A GitHub Action for my-action")

	var tsconfig map[string]any
	require.NoError(t, json.Unmarshal([]byte(readText(t, a, "tsconfig.dev.json")), &tsconfig))
	opts := tsconfig["compilerOptions"].(map[string]any)
	assert.Equal(t, "ES2022", opts["module"])
	assert.Equal(t, "bundler", opts["moduleResolution"])
}
