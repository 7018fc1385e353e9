package workflow

import (
	"fmt"
	"sort"
)

// PublishReleaseStepID identifies the step that creates the GitHub release.
const PublishReleaseStepID = "publish_release"

// GitHubReleasesJobID is the id of the job added by PublishToGitHubReleases.
const GitHubReleasesJobID = "release_github"

// PublisherOptions configure a Publisher.
type PublisherOptions struct {
	ArtifactsDirectory string
	// BuildJobID is the job that produces the build artifact.
	BuildJobID  string
	NodeVersion string
}

// GitHubReleasesPublishOptions describe a GitHub release. File paths are
// slash-separated and relative to the repository root.
type GitHubReleasesPublishOptions struct {
	ChangelogFile  string
	VersionFile    string
	ReleaseTagFile string
	// PrePublishSteps run after the artifact is restored and before the
	// release is created, in order.
	PrePublishSteps []Step
}

// Publisher collects publish jobs for the release workflow.
type Publisher struct {
	opts PublisherOptions
	jobs map[string]Job
}

// NewPublisher creates a publisher with no jobs.
func NewPublisher(opts PublisherOptions) *Publisher {
	return &Publisher{opts: opts, jobs: map[string]Job{}}
}

// Jobs returns the registered publish jobs keyed by job id.
func (pub *Publisher) Jobs() map[string]Job {
	out := make(map[string]Job, len(pub.jobs))
	for id, j := range pub.jobs {
		out[id] = j
	}
	return out
}

// JobIDs returns the registered job ids, sorted.
func (pub *Publisher) JobIDs() []string {
	ids := make([]string, 0, len(pub.jobs))
	for id := range pub.jobs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// PublishToGitHubReleases adds the job that creates a GitHub release from the
// build artifact. Calling it again replaces the job.
func (pub *Publisher) PublishToGitHubReleases(opts GitHubReleasesPublishOptions) {
	build := pub.opts.BuildJobID
	artifacts := pub.opts.ArtifactsDirectory

	steps := []Step{
		SetupNodeStep(pub.opts.NodeVersion),
		{
			Name: "Download build artifacts",
			Uses: downloadArtifactAction,
			With: map[string]any{"name": BuildArtifactName, "path": artifacts},
		},
		{
			Name:            "Restore build artifact permissions",
			Run:             fmt.Sprintf("cd %s && setfacl --restore=permissions-backup.acl", artifacts),
			ContinueOnError: true,
		},
	}
	steps = append(steps, opts.PrePublishSteps...)
	steps = append(steps, Step{
		ID:   PublishReleaseStepID,
		Name: "Release",
		Env: map[string]string{
			"GITHUB_TOKEN":      "${{ secrets.GITHUB_TOKEN }}",
			"GITHUB_REPOSITORY": "${{ github.repository }}",
			"GITHUB_REF":        "${{ github.sha }}",
		},
		Run: releaseCommand(opts),
	})

	pub.jobs[GitHubReleasesJobID] = Job{
		Name:        "Publish to GitHub Releases",
		RunsOn:      DefaultRunner,
		Needs:       []string{build},
		If:          fmt.Sprintf("needs.%[1]s.outputs.tag_exists != 'true' && needs.%[1]s.outputs.latest_commit == github.sha", build),
		Permissions: map[string]string{"contents": PermissionWrite},
		Steps:       steps,
	}
}

// releaseCommand creates the release and tolerates an existing tag.
func releaseCommand(opts GitHubReleasesPublishOptions) string {
	return fmt.Sprintf(`errout=$(mktemp); gh release create $(cat %[1]s) -R $GITHUB_REPOSITORY -F %[2]s -t $(cat %[1]s) --target $GITHUB_REF 2> $errout && true; exitcode=$?; if [ $exitcode -ne 0 ] && ! grep -q "Release.tag_name already exists" $errout; then cat $errout; exit $exitcode; fi`,
		opts.ReleaseTagFile, opts.ChangelogFile)
}
