// Package workflow models GitHub Actions workflow documents and provides the
// release component that renders .github/workflows/release.yml.
//
// Workflows are plain structs with yaml tags. They are handed to
// project.ObjectFile, which converts them to a document tree, so overrides
// registered on the file apply on top of the rendered jobs.
package workflow
