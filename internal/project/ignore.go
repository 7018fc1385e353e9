package project

import (
	"sort"
	"strings"

	"github.com/vladcosorg/actiongen/internal/branding"
)

// IgnoreFile renders a .gitignore-style file. Patterns keep their insertion
// order; "!pattern" entries re-include paths.
type IgnoreFile struct {
	fileBase
	patterns []string
}

// NewIgnoreFile registers an ignore file at rel.
func NewIgnoreFile(p *Project, rel string) *IgnoreFile {
	f := &IgnoreFile{fileBase: fileBase{project: p, path: rel, readOnly: true}}
	p.AddComponent(f)
	return f
}

// Exclude adds patterns to ignore. A pattern that was previously included
// with "!" is flipped.
func (f *IgnoreFile) Exclude(patterns ...string) {
	for _, pat := range patterns {
		f.remove("!" + pat)
		f.add(pat)
	}
}

// Include adds "!pattern" entries.
func (f *IgnoreFile) Include(patterns ...string) {
	for _, pat := range patterns {
		f.remove(pat)
		f.add("!" + pat)
	}
}

// Patterns returns the current patterns.
func (f *IgnoreFile) Patterns() []string {
	return append([]string(nil), f.patterns...)
}

func (f *IgnoreFile) add(pat string) {
	for _, existing := range f.patterns {
		if existing == pat {
			return
		}
	}
	f.patterns = append(f.patterns, pat)
}

func (f *IgnoreFile) remove(pat string) {
	out := f.patterns[:0]
	for _, existing := range f.patterns {
		if existing != pat {
			out = append(out, existing)
		}
	}
	f.patterns = out
}

func (f *IgnoreFile) Render() ([]byte, error) {
	lines := append([]string{"# " + branding.GeneratedMarker()}, f.patterns...)
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

func (f *IgnoreFile) Synthesize() error {
	data, err := f.Render()
	if err != nil {
		return err
	}
	return f.write(data)
}

// GitAttributesFile marks every generated file, plus any annotated patterns,
// as linguist-generated.
type GitAttributesFile struct {
	fileBase
	annotated []string
}

// NewGitAttributesFile registers .gitattributes on p.
func NewGitAttributesFile(p *Project) *GitAttributesFile {
	f := &GitAttributesFile{fileBase: fileBase{project: p, path: ".gitattributes", readOnly: true}}
	p.AddComponent(f)
	return f
}

// AnnotateGenerated marks paths matching glob as generated.
func (f *GitAttributesFile) AnnotateGenerated(glob string) {
	f.annotated = append(f.annotated, glob)
}

func (f *GitAttributesFile) Render() ([]byte, error) {
	entries := map[string]bool{}
	for _, rel := range f.project.GeneratedPaths() {
		entries["/"+rel] = true
	}
	for _, g := range f.annotated {
		entries[g] = true
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := []string{"# " + branding.GeneratedMarker(), ""}
	for _, k := range keys {
		lines = append(lines, k+" linguist-generated")
	}
	return []byte(strings.Join(lines, "\n") + "\n"), nil
}

func (f *GitAttributesFile) Synthesize() error {
	data, err := f.Render()
	if err != nil {
		return err
	}
	return f.write(data)
}
