package project

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
)

func newTestProject(t *testing.T) *Project {
	t.Helper()
	p, err := New(Options{Name: "my-action", OutDir: t.TempDir(), Logger: zap.NewNop()})
	require.NoError(t, err)
	return p
}

// recorder is a component that records hook calls.
type recorder struct {
	name  string
	calls *[]string
	onSyn func() error
}

func (r *recorder) PreSynthesize() error {
	*r.calls = append(*r.calls, r.name+":pre")
	return nil
}

func (r *recorder) Synthesize() error {
	*r.calls = append(*r.calls, r.name+":synth")
	if r.onSyn != nil {
		return r.onSyn()
	}
	return nil
}

func (r *recorder) PostSynthesize() error {
	*r.calls = append(*r.calls, r.name+":post")
	return nil
}

func readFile(t *testing.T, p *Project, rel string) string {
	t.Helper()
	data, err := os.ReadFile(p.AbsPath(rel))
	require.NoError(t, err)
	return string(data)
}

func TestNewRequiresName(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestSynthRunsHooksInOrder(t *testing.T) {
	p := newTestProject(t)
	var calls []string
	p.AddComponent(&recorder{name: "a", calls: &calls})
	p.AddComponent(&recorder{name: "b", calls: &calls})

	require.NoError(t, p.Synth())
	assert.Equal(t, []string{"a:pre", "b:pre", "a:synth", "b:synth", "a:post", "b:post"}, calls)
}

func TestSynthStopsOnError(t *testing.T) {
	p := newTestProject(t)
	var calls []string
	boom := errors.New("boom")
	p.AddComponent(&recorder{name: "a", calls: &calls, onSyn: func() error { return boom }})
	p.AddComponent(&recorder{name: "b", calls: &calls})

	err := p.Synth()
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, calls, "b:post")
}

func TestObjectFileRendersOverrides(t *testing.T) {
	p := newTestProject(t)
	f := NewObjectFile(p, "config.yml", ObjectFileOptions{
		Obj: map[string]any{"name": "x", "nested": map[string]any{"a": 1}},
	})
	f.AddOverride("nested.b", "two")
	f.AddDeletionOverride("nested.a")

	require.NoError(t, p.Synth())

	content := readFile(t, p, "config.yml")
	assert.True(t, strings.HasPrefix(content, "# ~~ Generated by"), "missing marker: %s", content)

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(content), &doc))
	assert.Equal(t, map[string]any{"b": "two"}, doc["nested"])
	assert.Equal(t, "x", doc["name"])
}

func TestGeneratedFilesAreReadOnly(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not supported on windows")
	}
	p := newTestProject(t)
	NewObjectFile(p, "action.yml", ObjectFileOptions{Obj: map[string]any{"name": "x"}})
	require.NoError(t, p.Synth())

	info, err := os.Stat(p.AbsPath("action.yml"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0444), info.Mode().Perm())

	pkg, err := os.Stat(p.AbsPath("package.json"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0644), pkg.Mode().Perm(), "package.json stays writable")

	// A second run must be able to overwrite read-only files.
	require.NoError(t, p.Synth())
}

func TestTryFindObjectFile(t *testing.T) {
	p := newTestProject(t)
	f := NewObjectFile(p, ".github/workflows/release.yml", ObjectFileOptions{})
	NewSampleFile(p, "src/index.ts", "export {}\n")

	assert.Same(t, f, p.TryFindObjectFile(".github/workflows/release.yml"))
	assert.Same(t, f, p.TryFindObjectFile("./.github/workflows/release.yml"))
	assert.Nil(t, p.TryFindObjectFile(".github/workflows/build.yml"))
	assert.Nil(t, p.TryFindObjectFile("src/index.ts"), "sample files are not object files")
}

func TestDeferWritesPlaceholderFirst(t *testing.T) {
	p := newTestProject(t)
	f := NewObjectFile(p, "action.yml", ObjectFileOptions{
		Obj: map[string]any{"name": "x", "inputs": "./src/inputs.json"},
	})

	var firstWrite string
	var calls []string
	p.AddComponent(&recorder{name: "probe", calls: &calls, onSyn: func() error {
		firstWrite = readFile(t, p, "action.yml")
		return nil
	}})

	resolved := map[string]any{"token": map[string]any{"required": true, "description": "No description"}}
	p.Defer(f, "inputs", map[string]any{}, func() (any, error) { return resolved, nil })

	require.NoError(t, p.Synth())

	assert.Contains(t, firstWrite, "inputs: {}")
	assert.NotContains(t, firstWrite, "./src/inputs.json")

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(readFile(t, p, "action.yml")), &doc))
	assert.Equal(t, resolved, doc["inputs"])
}

func TestDeferErrorAbortsBeforePostSynthesize(t *testing.T) {
	p := newTestProject(t)
	f := NewObjectFile(p, "action.yml", ObjectFileOptions{Obj: map[string]any{}})
	var calls []string
	p.AddComponent(&recorder{name: "r", calls: &calls})

	boom := errors.New("cannot load")
	p.Defer(f, "inputs", map[string]any{}, func() (any, error) { return nil, boom })

	err := p.Synth()
	require.ErrorIs(t, err, boom)
	assert.NotContains(t, calls, "r:post")
}

func TestPatchText(t *testing.T) {
	p := newTestProject(t)
	NewObjectFile(p, "release.yml", ObjectFileOptions{
		Obj: map[string]any{"run": "gh release create v1 --target $GITHUB_REF"},
	})
	require.NoError(t, p.Synth())

	require.NoError(t, p.PatchText("release.yml", "--target $GITHUB_REF", "--target ${{ steps.commit.outputs.commit_long_sha }}"))

	content := readFile(t, p, "release.yml")
	assert.Contains(t, content, "--target ${{ steps.commit.outputs.commit_long_sha }}")
	assert.NotContains(t, content, "--target $GITHUB_REF")

	if runtime.GOOS != "windows" {
		info, err := os.Stat(p.AbsPath("release.yml"))
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0444), info.Mode().Perm())
	}
}

func TestPatchTextMissingFile(t *testing.T) {
	p := newTestProject(t)
	assert.Error(t, p.PatchText("missing.yml", "a", "b"))
}

func TestStaleFilesAreRemoved(t *testing.T) {
	dir := t.TempDir()

	first, err := New(Options{Name: "x", OutDir: dir, Logger: zap.NewNop()})
	require.NoError(t, err)
	NewObjectFile(first, "old.yml", ObjectFileOptions{Obj: map[string]any{"a": 1}})
	require.NoError(t, first.Synth())
	require.FileExists(t, filepath.Join(dir, "old.yml"))

	second, err := New(Options{Name: "x", OutDir: dir, Logger: zap.NewNop()})
	require.NoError(t, err)
	require.NoError(t, second.Synth())

	assert.NoFileExists(t, filepath.Join(dir, "old.yml"))
	assert.FileExists(t, filepath.Join(dir, "package.json"))
}

func TestSampleFileIsNotOverwritten(t *testing.T) {
	p := newTestProject(t)
	NewSampleFile(p, "src/index.ts", "sample\n")
	require.NoError(t, os.MkdirAll(p.AbsPath("src"), 0755))
	require.NoError(t, os.WriteFile(p.AbsPath("src/index.ts"), []byte("mine\n"), 0644))

	require.NoError(t, p.Synth())
	assert.Equal(t, "mine\n", readFile(t, p, "src/index.ts"))
}

func TestPackageManifest(t *testing.T) {
	p := newTestProject(t)
	p.Package.AddDeps("@actions/core", "@actions/github@6")
	p.Package.AddDevDeps("@vercel/ncc")
	p.Package.AddField("type", "module")
	build := p.Tasks.AddTask("build", "Full build")
	compile := p.Tasks.AddTask("compile", "Compile")
	compile.Exec("tsc --build")
	build.Spawn(compile).Exec("vitest run")

	require.NoError(t, p.Synth())

	var pkg map[string]any
	require.NoError(t, json.Unmarshal([]byte(readFile(t, p, "package.json")), &pkg))

	assert.Equal(t, "my-action", pkg["name"])
	assert.Equal(t, "module", pkg["type"])
	assert.Equal(t, map[string]any{"@actions/core": "*", "@actions/github": "6"}, pkg["dependencies"])
	assert.Equal(t, map[string]any{"@vercel/ncc": "*"}, pkg["devDependencies"])

	scripts := pkg["scripts"].(map[string]any)
	assert.Equal(t, "npm run compile && vitest run", scripts["build"])
	assert.Equal(t, "tsc --build", scripts["compile"])
}

func TestPackageManifestRejectsInvalidRange(t *testing.T) {
	p := newTestProject(t)
	p.Package.AddDeps("left-pad@not a range!")
	assert.ErrorContains(t, p.Synth(), "invalid version range")
}

func TestParseDependency(t *testing.T) {
	tests := []struct {
		spec, name, rng string
	}{
		{"zod", "zod", "*"},
		{"zod@^3.22.0", "zod", "^3.22.0"},
		{"@actions/core", "@actions/core", "*"},
		{"@actions/github@6", "@actions/github", "6"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			name, rng := ParseDependency(tt.spec)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.rng, rng)
		})
	}
}

func TestTaskScript(t *testing.T) {
	p := newTestProject(t)
	release := p.Tasks.AddTask("release", "")
	release.SetEnv("RELEASE", "true")
	release.Exec("rm -fr dist").Say("done")
	release.Steps = append(release.Steps, TaskStep{Exec: "ls", Cwd: "dist"})

	assert.Equal(t, `export RELEASE="true" && rm -fr dist && echo "done" && (cd dist && ls)`, p.Tasks.Script(release))
}

func TestIgnoreFile(t *testing.T) {
	p := newTestProject(t)
	p.GitIgnore.Exclude("/dist/", "/mjs")
	p.GitIgnore.Include("/dist/keep")
	p.GitIgnore.Exclude("/dist/keep")

	patterns := p.GitIgnore.Patterns()
	assert.Contains(t, patterns, "/dist/")
	assert.Contains(t, patterns, "/dist/keep")
	assert.NotContains(t, patterns, "!/dist/keep")
}

func TestGitAttributesListsGeneratedFiles(t *testing.T) {
	p := newTestProject(t)
	NewObjectFile(p, "action.yml", ObjectFileOptions{Obj: map[string]any{}})
	NewSampleFile(p, "src/index.ts", "")
	p.GitAttributes.AnnotateGenerated("/dist/**")

	require.NoError(t, p.Synth())
	content := readFile(t, p, ".gitattributes")
	assert.Contains(t, content, "/action.yml linguist-generated")
	assert.Contains(t, content, "/dist/** linguist-generated")
	assert.NotContains(t, content, "/src/index.ts")
}
