// Package document holds the generic object trees that generated YAML and JSON
// files are rendered from, and the override layer that patches them by path.
//
// A path is a dot-separated list of segments. A segment addresses a map key,
// a list index ("steps.13") or the list element whose "id" field matches
// ("steps.@publish_release"). A literal dot inside a key is written as "\.".
package document
