package project

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/logging"
	"go.uber.org/zap"
)

// DefaultArtifactsDirectory is where build and release artifacts are placed.
const DefaultArtifactsDirectory = "dist"

// Options configure a new Project.
type Options struct {
	Name        string
	Description string
	// Repository is the git URL of the generated project, if known.
	Repository string
	// OutDir is the directory files are written to. Defaults to ".".
	OutDir string
	// ArtifactsDirectory is relative to OutDir. Defaults to "dist".
	ArtifactsDirectory string
	Logger             *zap.Logger
}

// Project is the root of a generated file tree.
type Project struct {
	Name               string
	Description        string
	Repository         string
	OutDir             string
	ArtifactsDirectory string
	Logger             *zap.Logger

	Tasks         *Tasks
	Package       *PackageManifest
	GitIgnore     *IgnoreFile
	GitAttributes *GitAttributesFile

	components []Component
	files      []File
	deferred   []*deferredValue
	state      *ObjectFile
}

// New creates a project with the standard components: tasks, package.json,
// .gitignore, .gitattributes and the generated-files ledger.
func New(opts Options) (*Project, error) {
	if opts.Name == "" {
		return nil, fmt.Errorf("project name is required")
	}

	p := &Project{
		Name:               opts.Name,
		Description:        opts.Description,
		Repository:         opts.Repository,
		OutDir:             opts.OutDir,
		ArtifactsDirectory: opts.ArtifactsDirectory,
		Logger:             opts.Logger,
	}
	if p.OutDir == "" {
		p.OutDir = "."
	}
	if p.ArtifactsDirectory == "" {
		p.ArtifactsDirectory = DefaultArtifactsDirectory
	}
	if p.Logger == nil {
		p.Logger = logging.Named("project")
	}

	p.GitIgnore = NewIgnoreFile(p, ".gitignore")
	p.GitIgnore.Exclude("node_modules/", "*.log", "coverage/", "*.tsbuildinfo", ".env", ".env.local")
	p.GitAttributes = NewGitAttributesFile(p)
	p.Tasks = NewTasks(p)
	p.Package = NewPackageManifest(p)
	p.state = NewObjectFile(p, path.Join(branding.StateDir(), "files.json"), ObjectFileOptions{
		Format: FormatJSON,
		Lazy: func() (any, error) {
			return map[string]any{"files": p.GeneratedPaths()}, nil
		},
	})

	return p, nil
}

// AddComponent registers c. Hooks run in registration order.
func (p *Project) AddComponent(c Component) {
	p.components = append(p.components, c)
	if f, ok := c.(File); ok {
		p.files = append(p.files, f)
	}
}

// Files returns the registered files in registration order.
func (p *Project) Files() []File {
	return append([]File(nil), p.files...)
}

// TryFindFile returns the file registered at rel, or nil.
func (p *Project) TryFindFile(rel string) File {
	rel = path.Clean(filepath.ToSlash(rel))
	for _, f := range p.files {
		if f.Path() == rel {
			return f
		}
	}
	return nil
}

// TryFindObjectFile returns the object file registered at rel, or nil when
// there is none (or the file at rel is not an object file).
func (p *Project) TryFindObjectFile(rel string) *ObjectFile {
	if of, ok := p.TryFindFile(rel).(*ObjectFile); ok {
		return of
	}
	return nil
}

// GeneratedPaths lists every generated (non-sample) file path.
func (p *Project) GeneratedPaths() []string {
	var paths []string
	for _, f := range p.files {
		if f.Generated() {
			paths = append(paths, f.Path())
		}
	}
	return paths
}

// AbsPath resolves rel against the project output directory.
func (p *Project) AbsPath(rel string) string {
	return filepath.Join(p.OutDir, filepath.FromSlash(rel))
}

// ArtifactPath joins rel onto the artifacts directory using forward slashes,
// as used inside workflow files.
func (p *Project) ArtifactPath(rel string) string {
	return path.Join(p.ArtifactsDirectory, rel)
}

// Synth writes the project to disk. See the package documentation for the
// order of operations.
func (p *Project) Synth() error {
	log := p.Logger.With(zap.String("project", p.Name), zap.String("outdir", p.OutDir))
	log.Debug("synthesizing")

	for _, c := range p.components {
		if err := c.PreSynthesize(); err != nil {
			return fmt.Errorf("pre-synthesize: %w", err)
		}
	}

	if err := os.MkdirAll(p.OutDir, 0755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", p.OutDir, err)
	}
	if err := p.removeStaleFiles(); err != nil {
		return err
	}

	for _, c := range p.components {
		if err := c.Synthesize(); err != nil {
			return fmt.Errorf("synthesize: %w", err)
		}
	}

	if err := p.resolveDeferred(); err != nil {
		return err
	}

	for _, c := range p.components {
		if err := c.PostSynthesize(); err != nil {
			return fmt.Errorf("post-synthesize: %w", err)
		}
	}

	log.Info("synthesis complete", zap.Int("files", len(p.files)))
	return nil
}
