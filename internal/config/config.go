package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/go-git/go-git/v5"
	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/metadata"
	"github.com/vladcosorg/actiongen/internal/project"
	"go.yaml.in/yaml/v3"
)

const fileType = "yaml"

// ErrNotFound is returned when the project has no settings file.
var ErrNotFound = errors.New("settings file not found")

// envFiles are loaded in order; variables already set are not overwritten.
var envFiles = []string{".env.local", ".env"}

var packageNameRe = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// Settings are the project settings.
type Settings struct {
	Name                 string             `yaml:"name"`
	Description          string             `yaml:"description,omitempty"`
	Repository           string             `yaml:"repository,omitempty"`
	DefaultReleaseBranch string             `yaml:"default_release_branch,omitempty"`
	ArtifactsDirectory   string             `yaml:"artifacts_directory,omitempty"`
	MinNodeVersion       string             `yaml:"min_node_version,omitempty"`
	Deps                 []string           `yaml:"deps,omitempty"`
	DevDeps              []string           `yaml:"dev_deps,omitempty"`
	ActionMetadata       *metadata.Metadata `yaml:"action_metadata,omitempty"`

	// Path is the settings file the values were read from.
	Path string `yaml:"-"`

	v *viper.Viper
}

// scalarKeys can be overridden from the environment.
var scalarKeys = []string{
	"name",
	"description",
	"repository",
	"default_release_branch",
	"artifacts_directory",
	"min_node_version",
}

// FilePath returns the settings file of the project in dir.
func FilePath(dir string) string {
	return filepath.Join(dir, branding.RCFile())
}

// LoadEnv loads .env.local and .env from dir into the process environment.
// Missing files are skipped.
func LoadEnv(dir string) error {
	for _, name := range envFiles {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("loading %s: %w", path, err)
		}
	}
	return nil
}

// Load reads and validates the settings of the project in dir. When no
// repository is configured it is taken from the origin remote of the git
// repository, if any.
func Load(dir string) (*Settings, error) {
	path := FilePath(dir)

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType(fileType)
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotFound)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	// Viper folds keys to lower case, which would rename user inputs, so the
	// body is decoded directly.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	s := &Settings{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	s.Path = path
	s.v = v

	s.Name = v.GetString("name")
	s.Description = v.GetString("description")
	s.Repository = v.GetString("repository")
	s.DefaultReleaseBranch = v.GetString("default_release_branch")
	s.ArtifactsDirectory = v.GetString("artifacts_directory")
	s.MinNodeVersion = v.GetString("min_node_version")

	if s.Repository == "" {
		if url, err := RepositoryFromGit(dir); err == nil {
			s.Repository = url
		}
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return s, nil
}

// Get returns a setting by key, environment overrides included.
func (s *Settings) Get(key string) any {
	if s.v == nil {
		return nil
	}
	return s.v.Get(key)
}

// Keys returns the scalar settings keys.
func Keys() []string {
	return append([]string(nil), scalarKeys...)
}

// Validate reports every problem with the settings.
func (s *Settings) Validate() error {
	var errs *multierror.Error

	switch {
	case s.Name == "":
		errs = multierror.Append(errs, errors.New("name is required"))
	case !packageNameRe.MatchString(s.Name):
		errs = multierror.Append(errs, fmt.Errorf("name %q is not a valid package name", s.Name))
	}
	if s.ArtifactsDirectory != "" && !filepath.IsLocal(s.ArtifactsDirectory) {
		errs = multierror.Append(errs, fmt.Errorf("artifacts_directory %q must be a relative path inside the project", s.ArtifactsDirectory))
	}
	if _, err := metadata.RuntimeFor(s.MinNodeVersion); err != nil {
		errs = multierror.Append(errs, fmt.Errorf("min_node_version: %w", err))
	}
	for _, d := range append(append([]string(nil), s.Deps...), s.DevDeps...) {
		if name, _ := project.ParseDependency(d); name == "" {
			errs = multierror.Append(errs, fmt.Errorf("dependency %q has no name", d))
		}
	}
	if md := s.ActionMetadata; md != nil && md.Runs.Using != "" && !md.Runs.Using.IsNode() &&
		md.Runs.Using != metadata.RunsDocker && md.Runs.Using != metadata.RunsComposite {
		errs = multierror.Append(errs, fmt.Errorf("action_metadata.runs.using %q is not supported", md.Runs.Using))
	}

	return errs.ErrorOrNil()
}

// RepositoryFromGit returns the first URL of the origin remote of the git
// repository containing dir.
func RepositoryFromGit(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	origin, err := repo.Remote("origin")
	if err != nil {
		return "", err
	}
	urls := origin.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return urls[0], nil
}

// ProjectOptions converts the settings into project options.
func (s *Settings) ProjectOptions(dir string) project.Options {
	return project.Options{
		Name:               s.Name,
		Description:        s.Description,
		Repository:         s.Repository,
		OutDir:             dir,
		ArtifactsDirectory: s.ArtifactsDirectory,
	}
}
