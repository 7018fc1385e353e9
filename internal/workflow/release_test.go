package workflow

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vladcosorg/actiongen/internal/document"
	"github.com/vladcosorg/actiongen/internal/project"
	"go.uber.org/zap"
)

func newProject(t *testing.T) *project.Project {
	t.Helper()
	p, err := project.New(project.Options{Name: "my-action", OutDir: t.TempDir(), Logger: zap.NewNop()})
	require.NoError(t, err)
	return p
}

func TestReleaseRegistersWorkflowFile(t *testing.T) {
	p := newProject(t)
	r := NewRelease(p, ReleaseOptions{})
	assert.Same(t, r.File, p.TryFindObjectFile(ReleaseWorkflowFile))
}

func TestReleaseFilePaths(t *testing.T) {
	p := newProject(t)
	r := NewRelease(p, ReleaseOptions{})
	assert.Equal(t, "dist/changelog.md", r.ChangelogFile())
	assert.Equal(t, "dist/version.txt", r.VersionFile())
	assert.Equal(t, "dist/releasetag.txt", r.ReleaseTagFile())
}

func TestReleaseTask(t *testing.T) {
	p := newProject(t)
	build := p.Tasks.AddTask("build", "")
	r := NewRelease(p, ReleaseOptions{BuildTask: build})

	var spawned []string
	for _, s := range r.ReleaseTask.Steps {
		if s.Spawn != "" {
			spawned = append(spawned, s.Spawn)
		}
	}
	assert.Equal(t, []string{"bump", "build", "unbump"}, spawned)
	assert.Equal(t, "true", r.ReleaseTask.Env["RELEASE"])
	assert.Contains(t, r.BumpTask.Steps[0].Exec, "--version-file dist/version.txt")
}

func TestWorkflowWithoutPublishers(t *testing.T) {
	p := newProject(t)
	r := NewRelease(p, ReleaseOptions{Branch: "trunk"})

	doc, err := r.File.Document()
	require.NoError(t, err)

	branches, ok := document.Get(doc, "on.push.branches")
	require.True(t, ok)
	assert.Equal(t, []any{"trunk"}, branches)

	_, ok = document.Get(doc, "jobs.release.steps")
	assert.True(t, ok)
	_, ok = document.Get(doc, "jobs."+GitHubReleasesJobID)
	assert.False(t, ok)
}

func prePublish(n int) []Step {
	steps := make([]Step, n)
	for i := range steps {
		steps[i] = Step{Run: "true"}
	}
	return steps
}

func TestPublishToGitHubReleases(t *testing.T) {
	p := newProject(t)
	r := NewRelease(p, ReleaseOptions{})
	r.Publisher.PublishToGitHubReleases(GitHubReleasesPublishOptions{
		ChangelogFile:   r.ChangelogFile(),
		VersionFile:     r.VersionFile(),
		ReleaseTagFile:  r.ReleaseTagFile(),
		PrePublishSteps: prePublish(10),
	})

	doc, err := r.File.Document()
	require.NoError(t, err)

	needs, _ := document.Get(doc, "jobs.release_github.needs")
	assert.Equal(t, []any{"release"}, needs)

	// Three default steps precede the pre-publish steps.
	id, ok := document.Get(doc, "jobs.release_github.steps.13.id")
	require.True(t, ok)
	assert.Equal(t, PublishReleaseStepID, id)

	run, _ := document.Get(doc, "jobs.release_github.steps.@publish_release.run")
	assert.Contains(t, run, "--target $GITHUB_REF")
	assert.Contains(t, run, "-F dist/changelog.md")
	assert.Contains(t, run, "$(cat dist/releasetag.txt)")
}

func TestPublishStepAddressedByIDOrIndex(t *testing.T) {
	cond := "steps.commit.outputs.committed == 'true'"
	for _, path := range []string{
		"jobs.release_github.steps.@publish_release.if",
		"jobs.release_github.steps.13.if",
	} {
		t.Run(path, func(t *testing.T) {
			p := newProject(t)
			r := NewRelease(p, ReleaseOptions{})
			r.Publisher.PublishToGitHubReleases(GitHubReleasesPublishOptions{PrePublishSteps: prePublish(10)})
			r.File.AddOverride(path, cond)
			r.File.AddOverride(path, cond)

			doc, err := r.File.Document()
			require.NoError(t, err)
			got, ok := document.Get(doc, "jobs.release_github.steps.@publish_release.if")
			require.True(t, ok)
			assert.Equal(t, cond, got)
		})
	}
}

func TestReleaseWorkflowSynth(t *testing.T) {
	p := newProject(t)
	NewRelease(p, ReleaseOptions{})
	require.NoError(t, p.Synth())

	data, err := os.ReadFile(p.AbsPath(ReleaseWorkflowFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "npm run release")
	assert.Contains(t, string(data), "name: "+BuildArtifactName)
}
