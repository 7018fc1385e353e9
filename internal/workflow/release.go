package workflow

import (
	"fmt"
	"path"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/project"
)

// ReleaseWorkflowFile is where the release workflow is written.
const ReleaseWorkflowFile = ".github/workflows/release.yml"

// BuildArtifactName is the name of the artifact passed from the release job
// to the publish jobs.
const BuildArtifactName = "build-artifact"

// releaseJobID is the id of the job that builds and versions the project.
const releaseJobID = "release"

// VersionFiles names the files the bump task writes into the artifacts
// directory.
type VersionFiles struct {
	ChangelogFileName  string
	VersionFileName    string
	ReleaseTagFileName string
}

// DefaultVersionFiles returns the standard file names.
func DefaultVersionFiles() VersionFiles {
	return VersionFiles{
		ChangelogFileName:  "changelog.md",
		VersionFileName:    "version.txt",
		ReleaseTagFileName: "releasetag.txt",
	}
}

// ReleaseOptions configure a Release.
type ReleaseOptions struct {
	// Branch triggers the workflow on push. Defaults to "main".
	Branch string
	// NodeVersion is passed to actions/setup-node. Defaults to "lts/*".
	NodeVersion string
	// BuildTask is spawned by the release task between bump and unbump.
	BuildTask *project.Task
}

// Release adds the bump, unbump and release tasks and the release workflow.
type Release struct {
	project.ComponentBase

	Version     VersionFiles
	Publisher   *Publisher
	File        *project.ObjectFile
	BumpTask    *project.Task
	UnbumpTask  *project.Task
	ReleaseTask *project.Task

	project     *project.Project
	branch      string
	nodeVersion string
}

// NewRelease registers the release tasks and workflow on p.
func NewRelease(p *project.Project, opts ReleaseOptions) *Release {
	r := &Release{
		Version:     DefaultVersionFiles(),
		project:     p,
		branch:      opts.Branch,
		nodeVersion: opts.NodeVersion,
	}
	if r.branch == "" {
		r.branch = "main"
	}
	if r.nodeVersion == "" {
		r.nodeVersion = DefaultNodeVersion
	}
	r.Publisher = NewPublisher(PublisherOptions{
		ArtifactsDirectory: p.ArtifactsDirectory,
		BuildJobID:         releaseJobID,
		NodeVersion:        r.nodeVersion,
	})

	cli := branding.CLIName()
	r.BumpTask = p.Tasks.AddTask("bump", "Bumps version based on latest git tag and generates a changelog entry")
	r.BumpTask.Exec(fmt.Sprintf("%s bump --changelog %s --version-file %s --release-tag-file %s",
		cli, r.ChangelogFile(), r.VersionFile(), r.ReleaseTagFile()))

	r.UnbumpTask = p.Tasks.AddTask("unbump", "Restores version to 0.0.0")
	r.UnbumpTask.Exec(cli + " unbump")

	r.ReleaseTask = p.Tasks.AddTask("release", "Prepare a release from \""+r.branch+"\" branch")
	r.ReleaseTask.SetEnv("RELEASE", "true")
	r.ReleaseTask.Exec("rm -fr " + p.ArtifactsDirectory)
	r.ReleaseTask.Spawn(r.BumpTask)
	if opts.BuildTask != nil {
		r.ReleaseTask.Spawn(opts.BuildTask)
	}
	r.ReleaseTask.Spawn(r.UnbumpTask)
	r.ReleaseTask.Exec("git diff --ignore-space-at-eol --exit-code")

	r.File = project.NewObjectFile(p, ReleaseWorkflowFile, project.ObjectFileOptions{
		Lazy: func() (any, error) { return r.Workflow(), nil },
	})
	p.AddComponent(r)
	return r
}

// ChangelogFile is the slash-separated changelog path.
func (r *Release) ChangelogFile() string {
	return path.Join(r.project.ArtifactsDirectory, r.Version.ChangelogFileName)
}

// VersionFile is the slash-separated version file path.
func (r *Release) VersionFile() string {
	return path.Join(r.project.ArtifactsDirectory, r.Version.VersionFileName)
}

// ReleaseTagFile is the slash-separated release tag file path.
func (r *Release) ReleaseTagFile() string {
	return path.Join(r.project.ArtifactsDirectory, r.Version.ReleaseTagFileName)
}

// Workflow builds the release workflow from the release job and every
// registered publish job.
func (r *Release) Workflow() *Workflow {
	jobs := map[string]Job{releaseJobID: r.releaseJob()}
	for id, job := range r.Publisher.Jobs() {
		jobs[id] = job
	}
	return &Workflow{
		Name: "release",
		On: map[string]any{
			"push":              map[string]any{"branches": []string{r.branch}},
			"workflow_dispatch": map[string]any{},
		},
		Concurrency: &Concurrency{Group: "${{ github.workflow }}", CancelInProgress: false},
		Jobs:        jobs,
	}
}

func (r *Release) releaseJob() Job {
	artifacts := r.project.ArtifactsDirectory
	onLatestCommit := "${{ steps.git_remote.outputs.latest_commit == github.sha }}"

	return Job{
		RunsOn:      DefaultRunner,
		Permissions: map[string]string{"contents": PermissionWrite},
		Outputs: map[string]string{
			"latest_commit": "${{ steps.git_remote.outputs.latest_commit }}",
			"tag_exists":    "${{ steps.check_tag_exists.outputs.exists }}",
		},
		Env: map[string]string{"CI": "true"},
		Steps: []Step{
			CheckoutStep(map[string]any{"fetch-depth": 0}),
			{
				Name: "Set git identity",
				Run: heredoc.Doc(`
					git config user.name "github-actions"
					git config user.email "github-actions@github.com"`),
			},
			SetupNodeStep(r.nodeVersion),
			{Uses: setupGoAction, With: map[string]any{"go-version": "stable"}},
			{Name: "Install " + branding.CLIName(), Run: "go install " + branding.GoModule() + "@latest"},
			{Name: "Install dependencies", Run: "npm ci"},
			{Name: "release", Run: "npm run " + r.ReleaseTask.Name},
			{
				Name: "Check if version has already been tagged",
				ID:   "check_tag_exists",
				Run: heredoc.Docf(`
					TAG=$(cat %s)
					([ ! -z "$TAG" ] && git ls-remote -q --exit-code --tags origin $TAG && (echo "exists=true" >> $GITHUB_OUTPUT)) || (echo "exists=false" >> $GITHUB_OUTPUT)
					cat $GITHUB_OUTPUT`, r.ReleaseTagFile()),
			},
			{
				Name: "Check for new commits",
				ID:   "git_remote",
				Run: heredoc.Doc(`
					echo "latest_commit=$(git ls-remote origin -h ${{ github.ref }} | cut -f1)" >> $GITHUB_OUTPUT
					cat $GITHUB_OUTPUT`),
			},
			{
				Name:            "Backup artifact permissions",
				If:              onLatestCommit,
				Run:             fmt.Sprintf("cd %s && getfacl -R . > permissions-backup.acl", artifacts),
				ContinueOnError: true,
			},
			{
				Name: "Upload artifact",
				If:   onLatestCommit,
				Uses: uploadArtifactAction,
				With: map[string]any{"name": BuildArtifactName, "path": artifacts},
			},
		},
	}
}
