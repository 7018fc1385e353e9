package inputs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"
	"github.com/vladcosorg/actiongen/internal/logging"
	"github.com/vladcosorg/actiongen/internal/metadata"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"
)

// FactoryFunc is the function a .go input file must define.
const FactoryFunc = "Inputs"

// Factory produces a validator.
type Factory func() (any, error)

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register makes a factory available under name. Registering a name again
// replaces the previous factory.
func Register(name string, factory func() any) {
	RegisterFactory(name, func() (any, error) { return factory(), nil })
}

// RegisterFactory is Register for factories that can fail.
func RegisterFactory(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = factory
}

// Registered returns the registered factory names, sorted.
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Options configure Load and Resolve.
type Options struct {
	// Dir resolves relative file references. Defaults to ".".
	Dir    string
	Logger *zap.Logger
}

// Load returns the factory named by ref. Files are checked to exist but not
// read until the factory is called, except .go files, which are interpreted
// here.
func Load(ref string, opts Options) (Factory, error) {
	switch strings.ToLower(filepath.Ext(ref)) {
	case ".json", ".yaml", ".yml":
		path := resolvePath(opts.Dir, ref)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrFactoryNotFound, ref, err)
		}
		return func() (any, error) { return CompileSchemaFile(path) }, nil
	case ".go":
		return loadGoFactory(resolvePath(opts.Dir, ref))
	}

	registryMu.RLock()
	f, ok := registry[ref]
	registryMu.RUnlock()
	if !ok {
		if ext := filepath.Ext(ref); ext != "" {
			return nil, fmt.Errorf("%w: %s: unsupported file extension %q, want .json, .yaml, .yml or .go",
				ErrFactoryNotFound, ref, ext)
		}
		return nil, fmt.Errorf("%w: no file extension and no registered factory named %q", ErrFactoryNotFound, ref)
	}
	return f, nil
}

// Derive builds the descriptive schema of a validator.
func Derive(validator any) (*Schema, error) {
	switch v := validator.(type) {
	case nil:
		return nil, fmt.Errorf("%w: factory returned nil", ErrDerive)
	case *SchemaValidator:
		return FromDocument(v.Document)
	default:
		return reflectSchema(v)
	}
}

// Resolve loads ref, calls its factory, derives the schema and returns the
// input declarations.
func Resolve(ref string, opts Options) (map[string]metadata.Input, error) {
	log := opts.Logger
	if log == nil {
		log = logging.Named("inputs")
	}
	log = log.With(zap.String("ref", ref))

	factory, err := Load(ref, opts)
	if err != nil {
		return nil, err
	}
	validator, err := factory()
	if err != nil {
		return nil, fmt.Errorf("calling input factory %s: %w", ref, err)
	}
	schema, err := Derive(validator)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}

	log.Debug("derived input schema", zap.Strings("properties", schema.Names()), zap.Strings("required", schema.Required))
	return schema.Declarations(), nil
}

func resolvePath(dir, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, filepath.FromSlash(ref))
}

// SchemaValidator validates values against a JSON Schema file.
type SchemaValidator struct {
	Path string
	// Document is the schema decoded into generic values, numbers as
	// json.Number.
	Document any
	schema   *jsonschema.Schema
}

// CompileSchemaFile reads and compiles a JSON or YAML schema file.
func CompileSchemaFile(path string) (*SchemaValidator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		var raw any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		if data, err = json.Marshal(raw); err != nil {
			return nil, fmt.Errorf("converting %s to JSON: %w", path, err)
		}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	c := jsonschema.NewCompiler()
	url := "inputs.schema.json"
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrDerive, path, err)
	}
	schema, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("%w: compiling %s: %w", ErrDerive, path, err)
	}
	return &SchemaValidator{Path: path, Document: doc, schema: schema}, nil
}

// Validate checks v, a value made of maps, slices and scalars, against the
// schema.
func (sv *SchemaValidator) Validate(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding value: %w", err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decoding value: %w", err)
	}
	return sv.schema.Validate(inst)
}

// reflectSchema derives a schema from the Go type of v.
func reflectSchema(v any) (*Schema, error) {
	t := reflect.TypeOf(v)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: validator is %T, want a struct or a schema file", ErrDerive, v)
	}

	reflected, err := reflectRecover(t)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(reflected)
	if err != nil {
		return nil, fmt.Errorf("%w: encoding reflected schema: %w", ErrDerive, err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decoding reflected schema: %w", ErrDerive, err)
	}
	return FromDocument(doc)
}

// reflectType builds the JSON schema of t with every property inlined.
var reflectType = func(t reflect.Type) *invopop.Schema {
	r := &invopop.Reflector{DoNotReference: true}
	return r.ReflectFromType(t)
}

// reflectRecover runs reflectType and turns a panic into ErrDerive.
func reflectRecover(t reflect.Type) (s *invopop.Schema, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: reflecting %s: %v", ErrDerive, t, r)
		}
	}()
	return reflectType(t), nil
}

// loadGoFactory interprets a Go file and returns its Inputs function.
func loadGoFactory(path string) (Factory, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFactoryNotFound, path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	file, err := parser.ParseFile(token.NewFileSet(), path, code, parser.PackageClauseOnly)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("loading interpreter symbols: %w", err)
	}
	if _, err := i.EvalPath(path); err != nil {
		return nil, fmt.Errorf("interpreting %s: %w", path, err)
	}

	name := FactoryFunc
	if pkg := file.Name.Name; pkg != "main" {
		name = pkg + "." + FactoryFunc
	}
	fn, err := i.Eval(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must define func %s() any: %w", ErrFactoryNotFound, path, FactoryFunc, err)
	}
	return factoryFromValue(fn, path)
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// factoryFromValue accepts func() T and func() (T, error).
func factoryFromValue(fn reflect.Value, path string) (Factory, error) {
	if !fn.IsValid() || fn.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s: %s is not a function", ErrNotFactory, path, FactoryFunc)
	}
	ft := fn.Type()
	if ft.NumIn() != 0 || ft.NumOut() == 0 || ft.NumOut() > 2 ||
		(ft.NumOut() == 2 && !ft.Out(1).Implements(errorType)) {
		return nil, fmt.Errorf("%w: %s: %s must have the signature func() any or func() (any, error), got %s",
			ErrNotFactory, path, FactoryFunc, ft)
	}

	return func() (any, error) {
		results := fn.Call(nil)
		if len(results) == 2 && !results[1].IsNil() {
			return nil, results[1].Interface().(error)
		}
		return results[0].Interface(), nil
	}, nil
}
