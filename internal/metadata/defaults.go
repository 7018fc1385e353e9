package metadata

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DefaultMain is the entrypoint of the bundled action.
const DefaultMain = "dist/index.js"

// DefaultRuntime is used when no minimum node version is configured.
const DefaultRuntime = RunsNode16

// Default returns the metadata of an action named after the project.
func Default(name string) Metadata {
	return Metadata{
		Name:        name,
		Description: "A GitHub Action for " + name,
		Runs: Runs{
			Using: DefaultRuntime,
			Main:  DefaultMain,
		},
	}
}

// Merge returns base with every non-zero top-level field of override
// applied. Runs is replaced as a whole when override sets Using; otherwise
// only its non-empty entrypoints are copied.
func Merge(base, override Metadata) Metadata {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.Description != "" {
		out.Description = override.Description
	}
	if override.Author != "" {
		out.Author = override.Author
	}
	if override.Branding != nil {
		out.Branding = override.Branding
	}
	if !override.Inputs.IsZero() {
		out.Inputs = override.Inputs
	}
	if override.Outputs != nil {
		out.Outputs = override.Outputs
	}

	if override.Runs.Using != "" {
		out.Runs = override.Runs
	} else {
		if override.Runs.Main != "" {
			out.Runs.Main = override.Runs.Main
		}
		if override.Runs.Pre != "" {
			out.Runs.Pre = override.Runs.Pre
		}
		if override.Runs.Post != "" {
			out.Runs.Post = override.Runs.Post
		}
	}
	return out
}

// RuntimeFor returns the oldest node runtime that satisfies minNode. minNode
// is either a version ("18", "20.1") read as ">= version", or a semver
// constraint (">=18 <22"). An empty minNode selects DefaultRuntime.
func RuntimeFor(minNode string) (RunsUsing, error) {
	if minNode == "" {
		return DefaultRuntime, nil
	}

	expr := minNode
	if _, err := semver.NewVersion(minNode); err == nil {
		expr = ">= " + minNode
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return "", fmt.Errorf("invalid node version %q: %w", minNode, err)
	}

	for _, rt := range NodeRuntimes {
		major := string(rt[len("node"):])
		// Any release of the major line counts, so test its newest version.
		v := semver.MustParse(major + ".999.999")
		if c.Check(v) {
			return rt, nil
		}
	}
	return "", fmt.Errorf("no supported node runtime satisfies %q", minNode)
}
