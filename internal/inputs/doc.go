// Package inputs turns an input validator into action.yml input declarations.
//
// A validator is produced by a zero-argument factory named by a reference:
//
//   - a .json, .yaml or .yml file holds a JSON Schema; the factory compiles it
//     into a *SchemaValidator,
//   - a .go file is interpreted and must define func Inputs() any (optionally
//     returning a second error value); the returned value's type describes
//     the inputs,
//   - any other reference names a factory added with Register.
//
// Go values are reflected into a JSON Schema: fields tagged omitempty are
// optional, and the jsonschema tag carries description and default.
package inputs
