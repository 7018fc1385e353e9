// Package metadata models action.yml, the metadata file GitHub reads to run
// an action. It builds the default metadata for a project, merges user
// overrides onto it and validates rendered files against an embedded JSON
// schema.
package metadata
