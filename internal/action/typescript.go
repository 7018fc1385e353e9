package action

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/vladcosorg/actiongen/internal/project"
)

func (a *GitHubAction) addTypeScriptConfig() {
	compilerOptions := map[string]any{
		"target":                           "ES2022",
		"lib":                              []any{"ES2022"},
		"module":                           "ES2022",
		"moduleResolution":                 "bundler",
		"strict":                           true,
		"esModuleInterop":                  true,
		"skipLibCheck":                     true,
		"declaration":                      true,
		"resolveJsonModule":                true,
		"forceConsistentCasingInFileNames": true,
	}

	project.NewObjectFile(a.Project, "tsconfig.json", project.ObjectFileOptions{
		Format: project.FormatJSON,
		Obj: map[string]any{
			"compilerOptions": merged(compilerOptions, map[string]any{
				"rootDir": "src",
				"outDir":  "lib",
			}),
			"include": []any{"src/**/*.ts"},
			"exclude": []any{"node_modules", a.ArtifactsDirectory},
		},
	})

	// Used by tests and tooling; it also covers test files.
	project.NewObjectFile(a.Project, "tsconfig.dev.json", project.ObjectFileOptions{
		Format: project.FormatJSON,
		Obj: map[string]any{
			"compilerOptions": merged(compilerOptions, map[string]any{"noEmit": true}),
			"include":         []any{"src/**/*.ts", "test/**/*.ts"},
			"exclude":         []any{"node_modules"},
		},
	})
}

func (a *GitHubAction) addSamples() {
	project.NewSampleFile(a.Project, "src/index.ts", heredoc.Docf(`
		import * as core from '@actions/core'

		export async function run(): Promise<void> {
		  try {
		    core.info('Hello from %s')
		  } catch (error) {
		    core.setFailed(error instanceof Error ? error.message : String(error))
		  }
		}

		void run()
	`, a.Name))

	project.NewSampleFile(a.Project, "README.md", fmt.Sprintf("# %s\n\n%s\n", a.Name, a.Metadata.Description))
}

func merged(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
