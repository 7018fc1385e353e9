// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into the
// binary with //go:embed. Generated projects reference them in their file
// markers, rc file name and environment prefix.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	RCFile      string `yaml:"rc_file"`
	StateDir    string `yaml:"state_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	GitHubRepo  string `yaml:"github_repo"`
}

func load() {
	once.Do(func() {
		// Set hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "actiongen",
			DisplayName: "ActionGen",
			Description: "Project generator for GitHub Actions written in TypeScript",
			RCFile:      ".actiongenrc.yaml",
			StateDir:    ".actiongen",
			EnvPrefix:   "ACTIONGEN",
			GoModule:    "github.com/vladcosorg/actiongen",
			GitHubRepo:  "vladcosorg/actiongen",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "actiongen").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name (e.g., "ActionGen").
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// RCFile returns the project configuration file name (e.g., ".actiongenrc.yaml").
func RCFile() string { load(); return defaults.RCFile }

// StateDir returns the directory, relative to a generated project, that holds
// tasks.json and files.json.
func StateDir() string { load(); return defaults.StateDir }

// EnvPrefix returns the environment variable prefix (e.g., "ACTIONGEN").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// GoModule returns the Go module path.
func GoModule() string { load(); return defaults.GoModule }

// GitHubRepo returns the "owner/repo" string.
func GitHubRepo() string { load(); return defaults.GitHubRepo }

// EnvVar returns a fully qualified env var name, e.g., EnvVar("name") → "ACTIONGEN_NAME".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}

// GeneratedMarker returns the comment placed at the top of generated files.
func GeneratedMarker() string {
	load()
	return "~~ Generated by " + defaults.CLIName + ". To modify, edit " + defaults.RCFile +
		" and run \"" + defaults.CLIName + " synth\"."
}
