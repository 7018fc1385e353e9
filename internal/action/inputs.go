package action

import (
	"github.com/vladcosorg/actiongen/internal/inputs"
	"go.uber.org/zap"
)

// deferInputs writes an empty inputs mapping first and fills it from the
// input factory once every file has been written.
func (a *GitHubAction) deferInputs() {
	ref := a.InputsRef
	log := a.Logger.With(zap.String("inputs", ref))

	a.Defer(a.ActionsFile, "inputs", map[string]any{}, func() (any, error) {
		decls, err := inputs.Resolve(ref, inputs.Options{Dir: a.OutDir, Logger: log})
		if err != nil {
			return nil, err
		}
		log.Info("resolved action inputs", zap.Int("count", len(decls)))
		return decls, nil
	})
}
