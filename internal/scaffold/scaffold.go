package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/iancoleman/strcase"
	"github.com/vladcosorg/actiongen/internal/branding"
	"github.com/vladcosorg/actiongen/internal/config"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed all:scaffolds
var scaffoldFS embed.FS

// baseSet is rendered for every project.
const baseSet = "action"

// Inputs formats accepted by Generate.
const (
	InputsNone = "none"
	InputsJSON = "json"
	InputsGo   = "go"
)

// inputsRefs maps an inputs format to the file its template set writes.
var inputsRefs = map[string]string{
	InputsJSON: "./src/inputs.json",
	InputsGo:   "./src/inputs.go",
}

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name           string // e.g., "release-notes"
	Title          string // e.g., "Release Notes"
	TypeName       string // e.g., "ReleaseNotesInputs"
	Description    string // Human-readable description
	Branch         string // Default release branch
	MinNodeVersion string // e.g., "20"
	InputsFormat   string // "none", "json" or "go"
	InputsRef      string // Derived from InputsFormat
	Icon           string
	Color          string
	RCFile         string
	EnvPrefix      string
	Year           int
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with derived fields populated. The
// name is normalized to kebab-case.
func NewScaffoldData(name, inputsFormat string) *ScaffoldData {
	name = strcase.ToKebab(name)
	if inputsFormat == "" {
		inputsFormat = InputsJSON
	}
	words := strcase.ToDelimited(name, ' ')
	return &ScaffoldData{
		Name:           name,
		Title:          cases.Title(language.English).String(words),
		TypeName:       strcase.ToCamel(name) + "Inputs",
		Description:    fmt.Sprintf("GitHub Action: %s", name),
		Branch:         "main",
		MinNodeVersion: "20",
		InputsFormat:   inputsFormat,
		InputsRef:      inputsRefs[inputsFormat],
		Icon:           "zap",
		Color:          "blue",
		RCFile:         branding.RCFile(),
		EnvPrefix:      branding.EnvPrefix(),
		Year:           time.Now().Year(),
	}
}

// templateSets returns the embedded directories rendered for data.
func templateSets(data *ScaffoldData) ([]string, error) {
	switch data.InputsFormat {
	case InputsNone:
		return []string{baseSet}, nil
	case InputsJSON, InputsGo:
		return []string{baseSet, "inputs-" + data.InputsFormat}, nil
	default:
		return nil, fmt.Errorf("unknown inputs format %q: supported formats are %q, %q and %q",
			data.InputsFormat, InputsJSON, InputsGo, InputsNone)
	}
}

// Generate writes the starter files of a new project into outputDir and
// checks that the settings file loads.
func Generate(data *ScaffoldData, outputDir string) (*Result, error) {
	sets, err := templateSets(data)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(config.FilePath(outputDir)); err == nil {
		return nil, fmt.Errorf("%s already exists in %s; remove it first", branding.RCFile(), outputDir)
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	result := &Result{OutputDir: outputDir}
	for _, set := range sets {
		root := path.Join("scaffolds", set)
		err := fs.WalkDir(scaffoldFS, root, func(p string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			rel := strings.TrimSuffix(strings.TrimPrefix(p, root+"/"), ".tmpl")
			written, err := render(p, filepath.Join(outputDir, filepath.FromSlash(rel)), data)
			if err != nil {
				return err
			}
			if written {
				result.Files = append(result.Files, rel)
			} else {
				result.Warnings = append(result.Warnings, rel+" exists, kept")
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("template set %q: %w", set, err)
		}
	}

	if _, err := config.Load(outputDir); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Generated settings do not load: %v", err))
	}

	return result, nil
}

// render executes one template into outPath. Existing files are left alone
// and reported as not written.
func render(tmplPath, outPath string, data *ScaffoldData) (bool, error) {
	tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
	if err != nil {
		return false, fmt.Errorf("reading template %s: %w", tmplPath, err)
	}

	tmpl, err := template.New(path.Base(tmplPath)).Parse(string(tmplBytes))
	if err != nil {
		return false, fmt.Errorf("parsing template %s: %w", tmplPath, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return false, fmt.Errorf("executing template %s: %w", tmplPath, err)
	}

	if _, err := os.Stat(outPath); err == nil {
		return false, nil
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return false, fmt.Errorf("creating directory for %s: %w", outPath, err)
	}
	if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
		return false, fmt.Errorf("writing %s: %w", outPath, err)
	}
	return true, nil
}
