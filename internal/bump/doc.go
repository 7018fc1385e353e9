// Package bump computes the next release version from git history and writes
// the version, release tag and changelog files consumed by the release
// workflow.
//
// The previous version is the highest semver tag carrying the tag prefix.
// Commits after it are read as conventional commits: a breaking change bumps
// the major version, a feat bumps the minor version and anything else bumps
// the patch version. A repository without a matching tag releases 0.0.0.
package bump
