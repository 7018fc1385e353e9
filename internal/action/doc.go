// Package action is the GitHub Action project type: a TypeScript project
// bundled into dist/, described by a generated action.yml and released by
// mirroring the build to a "latest" branch tagged with the major version.
package action
