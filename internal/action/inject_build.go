package action

import (
	"path"

	"github.com/vladcosorg/actiongen/internal/project"
	"github.com/vladcosorg/actiongen/internal/workflow"
)

const (
	latestBranch   = "latest"
	committedCheck = "steps.commit.outputs.committed == 'true'"
	branchMissing  = "steps.branch_exists.outcome != 'success'"

	targetRef    = "--target $GITHUB_REF"
	targetCommit = "--target ${{ steps.commit.outputs.commit_long_sha }}"
)

// injectBuild publishes each release by committing the build to the latest
// branch and tagging it with the major version.
type injectBuild struct {
	project.ComponentBase
	action  *GitHubAction
	patched bool
}

func (ib *injectBuild) PreSynthesize() error {
	a := ib.action
	f := a.TryFindObjectFile(workflow.ReleaseWorkflowFile)
	if f == nil {
		return nil
	}
	ib.patched = true

	f.AddOverride("jobs.release.permissions.id-token", "write")
	f.AddOverride("jobs."+workflow.GitHubReleasesJobID+".steps.@"+workflow.PublishReleaseStepID+".if", committedCheck)

	if a.Release == nil {
		return nil
	}
	r := a.Release
	r.Publisher.PublishToGitHubReleases(workflow.GitHubReleasesPublishOptions{
		ChangelogFile:   r.ChangelogFile(),
		VersionFile:     r.VersionFile(),
		ReleaseTagFile:  r.ReleaseTagFile(),
		PrePublishSteps: PrePublishSteps(r.VersionFile(), a.ArtifactsDirectory),
	})
	return nil
}

// PostSynthesize points the release at the commit made on the latest branch.
// GITHUB_REF still names the triggering ref inside the publish job.
func (ib *injectBuild) PostSynthesize() error {
	if !ib.patched {
		return nil
	}
	return ib.action.PatchText(workflow.ReleaseWorkflowFile, targetRef, targetCommit)
}

// PrePublishSteps checks out the latest branch (creating it as an orphan on
// first release), replaces its content with the build, commits and
// force-pushes it and moves the v<major> tag.
func PrePublishSteps(versionFile, artifactsDir string) []workflow.Step {
	return []workflow.Step{
		{
			Name:            "Checkout",
			ID:              "branch_exists",
			Uses:            "actions/checkout@v3",
			ContinueOnError: true,
			With:            map[string]any{"path": "repo", "fetch-depth": 0, "ref": latestBranch},
		},
		{
			Name: "Checkout",
			Uses: "actions/checkout@v3",
			If:   branchMissing,
			With: map[string]any{"path": "repo", "fetch-depth": 0},
		},
		{
			Name: "Checkout",
			Uses: "actions/checkout@v3",
			With: map[string]any{"path": "main"},
		},
		{
			Name:             "Create a branch if necessary",
			If:               branchMissing,
			Run:              "git switch --orphan " + latestBranch,
			WorkingDirectory: "./repo",
		},
		{Run: "mv ./repo/.git ./.git"},
		{Run: "ls -la"},
		{Run: "cp ./main/" + MetadataFile + " " + MetadataFile},
		{Run: "cp ./main/README.md README.md"},
		{
			ID:  "major",
			Run: `echo "version=$(cut -d '.' -f 1 ` + path.Clean(versionFile) + `)" >> $GITHUB_OUTPUT`,
		},
		{
			ID:   "commit",
			Uses: "EndBug/add-and-commit@v9",
			With: map[string]any{
				"push":     "origin " + latestBranch + " --set-upstream --force",
				"add":      artifactsDir + " " + MetadataFile + " README.md",
				"tag":      "v${{ steps.major.outputs.version }} --force",
				"tag_push": "--force",
			},
		},
	}
}
