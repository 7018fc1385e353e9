package metadata

import (
	"encoding/json"
	"fmt"

	"go.yaml.in/yaml/v3"
)

// RunsUsing is the runtime an action runs on.
type RunsUsing string

const (
	RunsNode12    RunsUsing = "node12"
	RunsNode16    RunsUsing = "node16"
	RunsNode20    RunsUsing = "node20"
	RunsNode24    RunsUsing = "node24"
	RunsDocker    RunsUsing = "docker"
	RunsComposite RunsUsing = "composite"
)

// NodeRuntimes lists the node runtimes from oldest to newest.
var NodeRuntimes = []RunsUsing{RunsNode12, RunsNode16, RunsNode20, RunsNode24}

// IsNode reports whether u is a node runtime.
func (u RunsUsing) IsNode() bool {
	for _, n := range NodeRuntimes {
		if u == n {
			return true
		}
	}
	return false
}

// Metadata is the content of action.yml.
type Metadata struct {
	Name        string            `yaml:"name" json:"name"`
	Description string            `yaml:"description" json:"description"`
	Author      string            `yaml:"author,omitempty" json:"author,omitempty"`
	Branding    *Branding         `yaml:"branding,omitempty" json:"branding,omitempty"`
	Inputs      Inputs            `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Outputs     map[string]Output `yaml:"outputs,omitempty" json:"outputs,omitempty"`
	Runs        Runs              `yaml:"runs" json:"runs"`
}

// Input is a single input declaration.
type Input struct {
	Description        string `yaml:"description" json:"description"`
	Required           bool   `yaml:"required" json:"required"`
	Default            any    `yaml:"default,omitempty" json:"default,omitempty"`
	DeprecationMessage string `yaml:"deprecationMessage,omitempty" json:"deprecationMessage,omitempty"`
}

// Output is a single output declaration. Value is only used by composite
// actions.
type Output struct {
	Description string `yaml:"description" json:"description"`
	Value       string `yaml:"value,omitempty" json:"value,omitempty"`
}

// Branding controls how the action is shown on the marketplace.
type Branding struct {
	Color string `yaml:"color,omitempty" json:"color,omitempty"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// Runs configures how the action is executed.
type Runs struct {
	Using RunsUsing `yaml:"using" json:"using"`

	// node
	Main   string `yaml:"main,omitempty" json:"main,omitempty"`
	Pre    string `yaml:"pre,omitempty" json:"pre,omitempty"`
	PreIf  string `yaml:"pre-if,omitempty" json:"pre-if,omitempty"`
	Post   string `yaml:"post,omitempty" json:"post,omitempty"`
	PostIf string `yaml:"post-if,omitempty" json:"post-if,omitempty"`

	// docker
	Image          string            `yaml:"image,omitempty" json:"image,omitempty"`
	Args           []string          `yaml:"args,omitempty" json:"args,omitempty"`
	Env            map[string]string `yaml:"env,omitempty" json:"env,omitempty"`
	Entrypoint     string            `yaml:"entrypoint,omitempty" json:"entrypoint,omitempty"`
	PreEntrypoint  string            `yaml:"pre-entrypoint,omitempty" json:"pre-entrypoint,omitempty"`
	PostEntrypoint string            `yaml:"post-entrypoint,omitempty" json:"post-entrypoint,omitempty"`

	// composite
	Steps []map[string]any `yaml:"steps,omitempty" json:"steps,omitempty"`
}

// Inputs is either a literal mapping of input declarations or a reference
// to a file or factory that produces them. A reference is never serialized:
// it marshals as an empty mapping.
type Inputs struct {
	Literal map[string]any
	Ref     string
}

// LiteralInputs wraps a literal mapping.
func LiteralInputs(m map[string]any) Inputs { return Inputs{Literal: m} }

// InputsRef wraps a reference.
func InputsRef(ref string) Inputs { return Inputs{Ref: ref} }

// IsRef reports whether the inputs are resolved later from a reference.
func (in Inputs) IsRef() bool { return in.Ref != "" }

// IsZero reports whether no inputs were configured.
func (in Inputs) IsZero() bool { return in.Ref == "" && in.Literal == nil }

func (in *Inputs) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			*in = Inputs{}
			return nil
		}
		var ref string
		if err := n.Decode(&ref); err != nil {
			return err
		}
		*in = InputsRef(ref)
		return nil
	case yaml.MappingNode:
		var m map[string]any
		if err := n.Decode(&m); err != nil {
			return err
		}
		*in = LiteralInputs(m)
		return nil
	default:
		return fmt.Errorf("line %d: inputs must be a mapping or a path", n.Line)
	}
}

func (in Inputs) MarshalYAML() (any, error) {
	if in.IsRef() || in.Literal == nil {
		return map[string]any{}, nil
	}
	return in.Literal, nil
}

func (in Inputs) MarshalJSON() ([]byte, error) {
	v, _ := in.MarshalYAML()
	return json.Marshal(v)
}
