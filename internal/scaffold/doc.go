// Package scaffold creates the starting files of a new action project from
// embedded templates. It powers the "actiongen new" command: a settings file,
// an .env example and, depending on the chosen inputs format, a JSON schema or
// a Go inputs factory that synth resolves into action.yml inputs.
package scaffold
