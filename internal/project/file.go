package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/document"
	"github.com/vladcosorg/actiongen/internal/platform"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
)

// File is a component that renders to a single path under the project.
type File interface {
	Component
	// Path is slash-separated and relative to the project output directory.
	Path() string
	// Generated reports whether the file is owned by the generator (and so
	// read-only, annotated and tracked for cleanup).
	Generated() bool
	Render() ([]byte, error)
}

// Format selects the serialization of an ObjectFile.
type Format int

const (
	FormatYAML Format = iota
	FormatJSON
)

// fileBase carries the bookkeeping shared by every file type.
type fileBase struct {
	ComponentBase
	project  *Project
	path     string
	readOnly bool
	sample   bool
}

func (f *fileBase) Path() string    { return f.path }
func (f *fileBase) Generated() bool { return !f.sample }

// write puts data on disk, honoring the read-only and sample flags.
func (f *fileBase) write(data []byte) error {
	full := f.project.AbsPath(f.path)
	if f.sample {
		if _, err := os.Stat(full); err == nil {
			return nil
		}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", f.path, err)
	}

	f.project.Logger.Debug("writing file", zap.String("file", f.path), zap.Bool("readonly", f.readOnly))
	if f.readOnly {
		return platform.WriteReadOnly(full, data)
	}
	if err := platform.Chmod(full, platform.ModeDefault); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("making %s writable: %w", f.path, err)
	}
	if err := os.WriteFile(full, data, platform.ModeDefault); err != nil {
		return fmt.Errorf("writing %s: %w", f.path, err)
	}
	return nil
}

// ObjectFileOptions configure an ObjectFile.
type ObjectFileOptions struct {
	Format Format
	// Obj is the initial object tree. Structs are converted through their
	// yaml tags.
	Obj any
	// Lazy, when set, computes the object tree at render time instead of Obj.
	Lazy func() (any, error)
	// Writable leaves the file writable on disk.
	Writable bool
	// OmitMarker skips the generated-file marker.
	OmitMarker bool
}

// ObjectFile is a YAML or JSON file rendered from an object tree with an
// ordered list of overrides applied on top.
type ObjectFile struct {
	fileBase
	format    Format
	obj       any
	lazy      func() (any, error)
	marker    bool
	overrides []document.Override
}

// NewObjectFile registers an object file at rel.
func NewObjectFile(p *Project, rel string, opts ObjectFileOptions) *ObjectFile {
	f := &ObjectFile{
		fileBase: fileBase{project: p, path: path.Clean(rel), readOnly: !opts.Writable},
		format:   opts.Format,
		obj:      opts.Obj,
		lazy:     opts.Lazy,
		marker:   !opts.OmitMarker,
	}
	p.AddComponent(f)
	return f
}

// AddOverride sets value at the dotted path when the file is rendered. Later
// overrides of the same path win.
func (f *ObjectFile) AddOverride(path string, value any) {
	f.overrides = append(f.overrides, document.Override{Path: path, Value: value})
}

// AddMergeOverride deep-merges a mapping into the mapping at path.
func (f *ObjectFile) AddMergeOverride(path string, value map[string]any) {
	f.overrides = append(f.overrides, document.Override{Path: path, Value: value, Merge: true})
}

// AddDeletionOverride removes the key at path when the file is rendered.
func (f *ObjectFile) AddDeletionOverride(path string) {
	f.overrides = append(f.overrides, document.Override{Path: path, Delete: true})
}

// Overrides returns a copy of the registered overrides.
func (f *ObjectFile) Overrides() []document.Override {
	return append([]document.Override(nil), f.overrides...)
}

// Document returns the object tree with all overrides applied.
func (f *ObjectFile) Document() (map[string]any, error) {
	src := f.obj
	if f.lazy != nil {
		v, err := f.lazy()
		if err != nil {
			return nil, fmt.Errorf("computing %s: %w", f.path, err)
		}
		src = v
	}

	base, err := document.FromValue(src)
	if err != nil {
		return nil, fmt.Errorf("building %s: %w", f.path, err)
	}
	doc := document.DeepCopy(base).(map[string]any)

	for _, o := range f.overrides {
		if err := document.Apply(doc, o); err != nil {
			return nil, fmt.Errorf("%s: %w", f.path, err)
		}
	}
	return doc, nil
}

// Render serializes the document.
func (f *ObjectFile) Render() ([]byte, error) {
	doc, err := f.Document()
	if err != nil {
		return nil, err
	}

	switch f.format {
	case FormatJSON:
		if f.marker {
			doc["//"] = branding.GeneratedMarker()
		}
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.path, err)
		}
		return buf.Bytes(), nil
	default:
		var buf bytes.Buffer
		if f.marker {
			buf.WriteString("# " + branding.GeneratedMarker() + "\n\n")
		}
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.path, err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding %s: %w", f.path, err)
		}
		return buf.Bytes(), nil
	}
}

// Synthesize renders the file and writes it. It may be called again after the
// main write phase to re-write the file with later overrides.
func (f *ObjectFile) Synthesize() error {
	data, err := f.Render()
	if err != nil {
		return err
	}
	return f.write(data)
}

// TextFile is a generated file made of lines.
type TextFile struct {
	fileBase
	lines []string
}

// NewTextFile registers a read-only text file at rel.
func NewTextFile(p *Project, rel string, lines ...string) *TextFile {
	f := &TextFile{
		fileBase: fileBase{project: p, path: path.Clean(rel), readOnly: true},
		lines:    lines,
	}
	p.AddComponent(f)
	return f
}

// AddLine appends a line.
func (f *TextFile) AddLine(line string) { f.lines = append(f.lines, line) }

func (f *TextFile) Render() ([]byte, error) {
	return []byte(strings.Join(f.lines, "\n") + "\n"), nil
}

func (f *TextFile) Synthesize() error {
	data, err := f.Render()
	if err != nil {
		return err
	}
	return f.write(data)
}

// SampleFile is written once, when it does not exist yet, and then belongs to
// the user.
type SampleFile struct {
	fileBase
	contents string
}

// NewSampleFile registers a sample file at rel.
func NewSampleFile(p *Project, rel, contents string) *SampleFile {
	f := &SampleFile{
		fileBase: fileBase{project: p, path: path.Clean(rel), sample: true},
		contents: contents,
	}
	p.AddComponent(f)
	return f
}

func (f *SampleFile) Render() ([]byte, error) { return []byte(f.contents), nil }

func (f *SampleFile) Synthesize() error { return f.write([]byte(f.contents)) }
