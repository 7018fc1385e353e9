package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vladcosorg/actiongen/internal/platform"
	"go.uber.org/zap"
)

type fileLedger struct {
	Files []string `json:"files"`
}

// removeStaleFiles deletes files recorded by the previous run that this run
// no longer generates.
func (p *Project) removeStaleFiles() error {
	data, err := os.ReadFile(p.AbsPath(p.state.Path()))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", p.state.Path(), err)
	}

	var prev fileLedger
	if err := json.Unmarshal(data, &prev); err != nil {
		p.Logger.Warn("ignoring unreadable file ledger", zap.String("file", p.state.Path()), zap.Error(err))
		return nil
	}

	current := map[string]bool{}
	for _, rel := range p.GeneratedPaths() {
		current[rel] = true
	}

	for _, rel := range prev.Files {
		if current[rel] {
			continue
		}
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			p.Logger.Warn("ignoring ledger entry outside the project", zap.String("file", rel))
			continue
		}
		p.Logger.Info("removing stale generated file", zap.String("file", rel))
		if err := platform.Remove(p.AbsPath(rel)); err != nil {
			return fmt.Errorf("removing stale file %s: %w", rel, err)
		}
	}
	return nil
}
