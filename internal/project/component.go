package project

// Component takes part in synthesis. Every hook may fail; the first error
// aborts the run.
type Component interface {
	PreSynthesize() error
	Synthesize() error
	PostSynthesize() error
}

// ComponentBase provides no-op hooks for embedding.
type ComponentBase struct{}

func (ComponentBase) PreSynthesize() error  { return nil }
func (ComponentBase) Synthesize() error     { return nil }
func (ComponentBase) PostSynthesize() error { return nil }
