package project

import (
	"fmt"

	"go.uber.org/zap"
)

// Resolver computes a deferred value. It runs once, after every file has been
// written.
type Resolver func() (any, error)

type deferredValue struct {
	file    *ObjectFile
	path    string
	resolve Resolver
}

// Defer registers a value of file that can only be computed after the main
// write phase. The placeholder is applied immediately, so the first write of
// the file never contains anything but the placeholder at path. During Synth
// the resolver runs, its result is applied as an override and the file is
// written again.
func (p *Project) Defer(file *ObjectFile, path string, placeholder any, resolve Resolver) {
	file.AddOverride(path, placeholder)
	p.deferred = append(p.deferred, &deferredValue{file: file, path: path, resolve: resolve})
}

// resolveDeferred resolves every deferred value in registration order and
// re-writes each affected file once.
func (p *Project) resolveDeferred() error {
	var touched []*ObjectFile
	seen := map[*ObjectFile]bool{}

	for _, d := range p.deferred {
		p.Logger.Debug("resolving deferred value", zap.String("file", d.file.Path()), zap.String("path", d.path))
		v, err := d.resolve()
		if err != nil {
			return fmt.Errorf("resolving %s in %s: %w", d.path, d.file.Path(), err)
		}
		d.file.AddOverride(d.path, v)
		if !seen[d.file] {
			seen[d.file] = true
			touched = append(touched, d.file)
		}
	}

	for _, f := range touched {
		if err := f.Synthesize(); err != nil {
			return fmt.Errorf("re-writing %s: %w", f.Path(), err)
		}
	}
	return nil
}
