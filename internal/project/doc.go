// Package project is the scaffolding engine behind the generator. A Project
// owns a set of components (generated files, tasks, the package manifest) and
// writes them to disk in a fixed order:
//
//  1. PreSynthesize on every component, in registration order.
//  2. Synthesize every component. Files registered through Defer are written
//     with their placeholder value.
//  3. Resolve deferred values in registration order, apply each one as an
//     override and re-write the owning file once.
//  4. PostSynthesize on every component.
//
// Generated files are read-only on disk. Edits to a file after it has been
// written go through PatchText, which opens a scoped writable window.
package project
