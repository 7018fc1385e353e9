package bump

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"github.com/vladcosorg/actiongen/internal/logging"
	"go.uber.org/zap"
)

// ErrNotRepository is returned when the project directory is not inside a git
// repository.
var ErrNotRepository = errors.New("not a git repository")

// DefaultTagPrefix is prepended to versions to form release tags.
const DefaultTagPrefix = "v"

// Options configure Bump. File paths are relative to Dir.
type Options struct {
	Dir            string
	ChangelogFile  string
	VersionFile    string
	ReleaseTagFile string
	// PackageFile receives the new version. Defaults to package.json.
	PackageFile string
	TagPrefix   string
	Logger      *zap.Logger
	Now         func() time.Time
}

func (o *Options) defaults() {
	if o.Dir == "" {
		o.Dir = "."
	}
	if o.PackageFile == "" {
		o.PackageFile = "package.json"
	}
	if o.TagPrefix == "" {
		o.TagPrefix = DefaultTagPrefix
	}
	if o.Logger == nil {
		o.Logger = logging.Named("bump")
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Result describes a computed release.
type Result struct {
	Previous *semver.Version
	Next     semver.Version
	Tag      string
	Commits  []Commit
}

// Bump computes the next version and writes the version, release tag,
// changelog and package files.
func Bump(opts Options) (*Result, error) {
	opts.defaults()
	log := opts.Logger

	repo, err := git.PlainOpenWithOptions(opts.Dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s: %w", opts.Dir, ErrNotRepository)
		}
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	prev, tagCommit, err := latestTag(repo, opts.TagPrefix)
	if err != nil {
		return nil, err
	}
	commits, err := commitsSince(repo, tagCommit)
	if err != nil {
		return nil, err
	}

	res := &Result{Previous: prev, Commits: commits}
	if tagCommit.IsZero() {
		res.Next = *prev
	} else {
		res.Next = NextVersion(prev, commits)
	}
	res.Tag = opts.TagPrefix + res.Next.String()

	log.Info("computed release version",
		zap.String("previous", prev.String()),
		zap.String("next", res.Next.String()),
		zap.Int("commits", len(commits)))

	files := map[string]string{
		opts.VersionFile:    res.Next.String(),
		opts.ReleaseTagFile: res.Tag,
		opts.ChangelogFile:  Changelog(res, opts.Now()),
	}
	for rel, content := range files {
		if rel == "" {
			continue
		}
		if err := writeFile(filepath.Join(opts.Dir, rel), content); err != nil {
			return nil, err
		}
	}

	if err := SetPackageVersion(filepath.Join(opts.Dir, opts.PackageFile), res.Next.String()); err != nil {
		return nil, err
	}
	return res, nil
}

// Unbump restores the package version to 0.0.0.
func Unbump(packageFile string) error {
	return SetPackageVersion(packageFile, "0.0.0")
}

// SetPackageVersion rewrites the version field of a package.json file. A
// missing file is left alone.
func SetPackageVersion(file, version string) error {
	data, err := os.ReadFile(file)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", file, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var pkg map[string]any
	if err := dec.Decode(&pkg); err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}
	pkg["version"] = version

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(pkg); err != nil {
		return fmt.Errorf("encoding %s: %w", file, err)
	}

	info, err := os.Stat(file)
	if err != nil {
		return fmt.Errorf("stat %s: %w", file, err)
	}
	if err := os.WriteFile(file, buf.Bytes(), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}
	return nil
}

// Changelog renders the changelog entry for a release.
func Changelog(res *Result, now time.Time) string {
	var breaking, features, fixes []string
	for _, c := range res.Commits {
		line := "* " + c.Subject
		if c.Scope != "" {
			line = fmt.Sprintf("* **%s:** %s", c.Scope, c.Subject)
		}
		if c.Breaking {
			breaking = append(breaking, line)
		}
		switch c.Type {
		case "feat":
			features = append(features, line)
		case "fix":
			fixes = append(fixes, line)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "## %s (%s)\n", res.Tag, now.Format("2006-01-02"))
	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n### %s\n\n%s\n", title, strings.Join(lines, "\n"))
	}
	section("BREAKING CHANGES", breaking)
	section("Features", features)
	section("Bug Fixes", fixes)
	return b.String()
}

// latestTag returns the highest version tagged with prefix and the commit it
// points at. Without such a tag it returns 0.0.0 and a zero hash.
func latestTag(repo *git.Repository, prefix string) (*semver.Version, plumbing.Hash, error) {
	tags, err := repo.Tags()
	if err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("listing tags: %w", err)
	}

	best := semver.MustParse("0.0.0")
	var bestHash plumbing.Hash
	err = tags.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if !strings.HasPrefix(name, prefix) {
			return nil
		}
		v, err := semver.StrictNewVersion(strings.TrimPrefix(name, prefix))
		if err != nil {
			return nil
		}
		if !bestHash.IsZero() && !v.GreaterThan(best) {
			return nil
		}
		hash, err := peel(repo, ref)
		if err != nil {
			return err
		}
		best, bestHash = v, hash
		return nil
	})
	if err != nil {
		return nil, plumbing.ZeroHash, fmt.Errorf("reading tags: %w", err)
	}
	return best, bestHash, nil
}

// peel resolves annotated tags to the commit they point at.
func peel(repo *git.Repository, ref *plumbing.Reference) (plumbing.Hash, error) {
	tag, err := repo.TagObject(ref.Hash())
	switch {
	case err == nil:
		c, err := tag.Commit()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("resolving tag %s: %w", ref.Name().Short(), err)
		}
		return c.Hash, nil
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return ref.Hash(), nil
	default:
		return plumbing.ZeroHash, err
	}
}

// commitsSince lists commits reachable from HEAD, newest first, stopping at
// stop. A zero stop lists the whole history.
func commitsSince(repo *git.Repository, stop plumbing.Hash) ([]Commit, error) {
	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer iter.Close()

	var commits []Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == stop {
			return storer.ErrStop
		}
		commits = append(commits, ParseCommit(c.Hash.String(), c.Message))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	return commits, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
