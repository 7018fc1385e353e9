package project

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// PackageManifest renders package.json. Scripts mirror the project's tasks.
type PackageManifest struct {
	project *Project
	File    *ObjectFile

	fields  map[string]any
	deps    map[string]string
	devDeps map[string]string
}

// NewPackageManifest registers package.json on p. The file stays writable so
// package managers can update it.
func NewPackageManifest(p *Project) *PackageManifest {
	pm := &PackageManifest{
		project: p,
		fields:  map[string]any{},
		deps:    map[string]string{},
		devDeps: map[string]string{},
	}
	pm.File = NewObjectFile(p, "package.json", ObjectFileOptions{
		Format:   FormatJSON,
		Writable: true,
		Lazy:     pm.render,
	})
	return pm
}

// AddField sets a top-level field. Setting a field again replaces it.
func (pm *PackageManifest) AddField(name string, value any) {
	pm.fields[name] = value
}

// Field returns a previously set field.
func (pm *PackageManifest) Field(name string) (any, bool) {
	v, ok := pm.fields[name]
	return v, ok
}

// AddDeps adds runtime dependencies given as "name" or "name@range".
func (pm *PackageManifest) AddDeps(specs ...string) {
	for _, s := range specs {
		name, rng := ParseDependency(s)
		pm.deps[name] = rng
	}
}

// AddDevDeps adds development dependencies given as "name" or "name@range".
func (pm *PackageManifest) AddDevDeps(specs ...string) {
	for _, s := range specs {
		name, rng := ParseDependency(s)
		pm.devDeps[name] = rng
	}
}

// Dependencies returns a copy of the runtime dependencies.
func (pm *PackageManifest) Dependencies() map[string]string {
	return copyStrings(pm.deps)
}

// DevDependencies returns a copy of the development dependencies.
func (pm *PackageManifest) DevDependencies() map[string]string {
	return copyStrings(pm.devDeps)
}

// ParseDependency splits "name@range" into its parts. Scoped names
// ("@scope/pkg@1") are handled; a missing range becomes "*".
func ParseDependency(spec string) (name, rng string) {
	at := strings.LastIndex(spec, "@")
	if at <= 0 {
		return spec, "*"
	}
	return spec[:at], spec[at+1:]
}

func (pm *PackageManifest) render() (any, error) {
	if err := validateRanges(pm.deps); err != nil {
		return nil, fmt.Errorf("dependencies: %w", err)
	}
	if err := validateRanges(pm.devDeps); err != nil {
		return nil, fmt.Errorf("devDependencies: %w", err)
	}

	p := pm.project
	out := map[string]any{
		"name":    p.Name,
		"version": "0.0.0",
	}
	if p.Description != "" {
		out["description"] = p.Description
	}
	if p.Repository != "" {
		out["repository"] = map[string]any{"type": "git", "url": p.Repository}
	}

	scripts := map[string]any{}
	for _, t := range p.Tasks.All() {
		scripts[t.Name] = p.Tasks.Script(t)
	}
	if len(scripts) > 0 {
		out["scripts"] = scripts
	}
	if len(pm.deps) > 0 {
		out["dependencies"] = toAny(pm.deps)
	}
	if len(pm.devDeps) > 0 {
		out["devDependencies"] = toAny(pm.devDeps)
	}

	for k, v := range pm.fields {
		out[k] = v
	}
	return out, nil
}

func validateRanges(deps map[string]string) error {
	for name, rng := range deps {
		if rng == "*" || rng == "latest" {
			continue
		}
		if _, err := semver.NewConstraint(rng); err != nil {
			return fmt.Errorf("invalid version range %q for %s: %w", rng, name, err)
		}
	}
	return nil
}

func toAny(m map[string]string) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyStrings(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
