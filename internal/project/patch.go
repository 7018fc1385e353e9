package project

import (
	"bytes"
	"fmt"
	"os"

	"github.com/vladcosorg/actiongen/internal/platform"
	"go.uber.org/zap"
)

// PatchText replaces every occurrence of from with to in a file that has
// already been written. It is the escape hatch for edits the override layer
// cannot express, such as text inside generated shell commands. The file is
// writable only for the duration of the edit; its previous mode is restored
// even when the edit fails. A missing file is an error.
func (p *Project) PatchText(rel, from, to string) error {
	full := p.AbsPath(rel)
	log := p.Logger.With(zap.String("file", rel))
	log.Warn("patching generated file text", zap.String("from", from), zap.String("to", to))

	return platform.WithWritable(full, func() error {
		data, err := os.ReadFile(full)
		if err != nil {
			return fmt.Errorf("reading %s: %w", rel, err)
		}

		n := bytes.Count(data, []byte(from))
		if n == 0 {
			log.Debug("nothing to replace")
			return nil
		}

		patched := bytes.ReplaceAll(data, []byte(from), []byte(to))
		if err := os.WriteFile(full, patched, platform.ModeDefault); err != nil {
			return fmt.Errorf("writing %s: %w", rel, err)
		}
		log.Debug("replaced", zap.Int("occurrences", n))
		return nil
	})
}
