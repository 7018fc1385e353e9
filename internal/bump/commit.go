package bump

import (
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Commit is a parsed conventional commit.
type Commit struct {
	Hash     string
	Type     string
	Scope    string
	Subject  string
	Breaking bool
}

var headerRe = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?:\s*(.+)$`)

// ParseCommit parses a commit message. Messages that are not conventional
// commits keep their first line as the subject and have an empty type.
func ParseCommit(hash, message string) Commit {
	title, body, _ := strings.Cut(strings.TrimSpace(message), "\n")
	c := Commit{Hash: hash, Subject: strings.TrimSpace(title)}

	if m := headerRe.FindStringSubmatch(c.Subject); m != nil {
		c.Type = strings.ToLower(m[1])
		c.Scope = m[2]
		c.Breaking = m[3] == "!"
		c.Subject = m[4]
	}
	if strings.Contains(body, "BREAKING CHANGE:") || strings.Contains(body, "BREAKING-CHANGE:") {
		c.Breaking = true
	}
	return c
}

// NextVersion returns the version that follows current given the commits
// since it. Without commits the version is unchanged.
func NextVersion(current *semver.Version, commits []Commit) semver.Version {
	if len(commits) == 0 {
		return *current
	}

	minor := false
	for _, c := range commits {
		if c.Breaking {
			return current.IncMajor()
		}
		if c.Type == "feat" {
			minor = true
		}
	}
	if minor {
		return current.IncMinor()
	}
	return current.IncPatch()
}
