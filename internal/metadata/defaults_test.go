package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"
)

func TestDefault(t *testing.T) {
	m := Default("my-action")
	assert.Equal(t, "my-action", m.Name)
	assert.Equal(t, "A GitHub Action for my-action", m.Description)
	assert.Equal(t, RunsNode16, m.Runs.Using)
	assert.Equal(t, "dist/index.js", m.Runs.Main)
	assert.True(t, m.Inputs.IsZero())
}

func TestMerge(t *testing.T) {
	base := Default("my-action")

	t.Run("empty override keeps defaults", func(t *testing.T) {
		assert.Equal(t, base, Merge(base, Metadata{}))
	})

	t.Run("fields win", func(t *testing.T) {
		got := Merge(base, Metadata{
			Description: "Custom",
			Branding:    &Branding{Color: "blue", Icon: "zap"},
			Runs:        Runs{Main: "dist/main.js"},
		})
		assert.Equal(t, "my-action", got.Name)
		assert.Equal(t, "Custom", got.Description)
		assert.Equal(t, RunsNode16, got.Runs.Using)
		assert.Equal(t, "dist/main.js", got.Runs.Main)
		assert.Equal(t, "zap", got.Branding.Icon)
	})

	t.Run("runs replaced when using is set", func(t *testing.T) {
		got := Merge(base, Metadata{Runs: Runs{Using: RunsDocker, Image: "Dockerfile"}})
		assert.Equal(t, Runs{Using: RunsDocker, Image: "Dockerfile"}, got.Runs)
	})
}

func TestRuntimeFor(t *testing.T) {
	tests := []struct {
		in      string
		want    RunsUsing
		wantErr bool
	}{
		{"", RunsNode16, false},
		{"12", RunsNode12, false},
		{"16", RunsNode16, false},
		{"18", RunsNode20, false},
		{"20.1", RunsNode20, false},
		{">=21", RunsNode24, false},
		{"<14", RunsNode12, false},
		{"30", "", true},
		{"not a version", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := RuntimeFor(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunsUsingIsNode(t *testing.T) {
	assert.True(t, RunsNode20.IsNode())
	assert.False(t, RunsDocker.IsNode())
	assert.False(t, RunsComposite.IsNode())
}

func TestInputsYAML(t *testing.T) {
	t.Run("reference", func(t *testing.T) {
		var m Metadata
		require.NoError(t, yaml.Unmarshal([]byte("name: x\ninputs: ./src/inputs.go\n"), &m))
		assert.True(t, m.Inputs.IsRef())
		assert.Equal(t, "./src/inputs.go", m.Inputs.Ref)

		out, err := yaml.Marshal(m)
		require.NoError(t, err)
		assert.Contains(t, string(out), "inputs: {}")
		assert.NotContains(t, string(out), "inputs.go")
	})

	t.Run("literal", func(t *testing.T) {
		var m Metadata
		require.NoError(t, yaml.Unmarshal([]byte("inputs:\n  token:\n    description: The token\n"), &m))
		assert.False(t, m.Inputs.IsRef())
		assert.Equal(t, map[string]any{"token": map[string]any{"description": "The token"}}, m.Inputs.Literal)
	})

	t.Run("unset is omitted", func(t *testing.T) {
		out, err := yaml.Marshal(Default("x"))
		require.NoError(t, err)
		assert.NotContains(t, string(out), "inputs")
	})

	t.Run("sequence is rejected", func(t *testing.T) {
		var m Metadata
		assert.Error(t, yaml.Unmarshal([]byte("inputs: [a, b]\n"), &m))
	})
}

func TestParseFile(t *testing.T) {
	m, err := ParseFile(testPath("valid-node.yml"))
	require.NoError(t, err)
	assert.Equal(t, "my-action", m.Name)
	assert.Equal(t, RunsNode20, m.Runs.Using)
	assert.Len(t, m.Inputs.Literal, 2)
}
