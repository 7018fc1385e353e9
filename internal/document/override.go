package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Override is a single patch applied to a document before it is serialized.
type Override struct {
	Path string
	// Value replaces whatever is at Path. Ignored when Delete is set.
	Value any
	// Merge deep-merges a mapping Value into an existing mapping at Path
	// instead of replacing it.
	Merge bool
	// Delete removes the key or list element at Path.
	Delete bool
}

// SplitPath splits a dotted override path into segments.
func SplitPath(path string) []string {
	var (
		parts []string
		cur   strings.Builder
	)
	for i := 0; i < len(path); i++ {
		switch {
		case path[i] == '\\' && i+1 < len(path) && path[i+1] == '.':
			cur.WriteByte('.')
			i++
		case path[i] == '.':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteByte(path[i])
		}
	}
	return append(parts, cur.String())
}

// Apply mutates doc according to o. Missing intermediate mappings are
// created. Addressing a list element that does not exist is an error.
func Apply(doc map[string]any, o Override) error {
	segs := SplitPath(o.Path)
	if len(segs) == 0 || segs[0] == "" {
		return fmt.Errorf("override: empty path")
	}

	value, err := Normalize(o.Value)
	if err != nil {
		return fmt.Errorf("override %s: %w", o.Path, err)
	}

	var parent any = doc
	for i, seg := range segs[:len(segs)-1] {
		child, err := descend(parent, seg, !o.Delete)
		if err != nil {
			return fmt.Errorf("override %s: segment %d: %w", o.Path, i, err)
		}
		if child == nil {
			// Deleting below a missing key is a no-op.
			return nil
		}
		parent = child
	}

	last := segs[len(segs)-1]
	switch p := parent.(type) {
	case map[string]any:
		if o.Delete {
			delete(p, last)
			return nil
		}
		if o.Merge {
			dst, dok := p[last].(map[string]any)
			src, sok := value.(map[string]any)
			if dok && sok {
				Merge(dst, src)
				return nil
			}
		}
		p[last] = value
		return nil
	case []any:
		idx, err := index(p, last)
		if err != nil {
			return fmt.Errorf("override %s: %w", o.Path, err)
		}
		if o.Delete {
			return fmt.Errorf("override %s: deleting list elements is not supported", o.Path)
		}
		if o.Merge {
			dst, dok := p[idx].(map[string]any)
			src, sok := value.(map[string]any)
			if dok && sok {
				Merge(dst, src)
				return nil
			}
		}
		p[idx] = value
		return nil
	default:
		return fmt.Errorf("override %s: cannot set %q on %T", o.Path, last, parent)
	}
}

// Get returns the value at path, if any.
func Get(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, seg := range SplitPath(path) {
		next, err := descend(cur, seg, false)
		if err != nil || next == nil {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// descend returns the child of parent addressed by seg. When create is set,
// missing map keys (or keys holding a non-container value) are replaced by an
// empty mapping.
func descend(parent any, seg string, create bool) (any, error) {
	switch p := parent.(type) {
	case map[string]any:
		child, ok := p[seg]
		switch child.(type) {
		case map[string]any, []any:
			return child, nil
		}
		if !create {
			if ok {
				return child, nil
			}
			return nil, nil
		}
		m := map[string]any{}
		p[seg] = m
		return m, nil
	case []any:
		idx, err := index(p, seg)
		if err != nil {
			return nil, err
		}
		return p[idx], nil
	default:
		return nil, fmt.Errorf("cannot descend into %T with %q", parent, seg)
	}
}

// index resolves a list segment: a decimal index or "@<id>".
func index(list []any, seg string) (int, error) {
	if id, ok := strings.CutPrefix(seg, "@"); ok {
		for i, el := range list {
			if m, ok := el.(map[string]any); ok && m["id"] == id {
				return i, nil
			}
		}
		return 0, fmt.Errorf("no list element with id %q", id)
	}

	idx, err := strconv.Atoi(seg)
	if err != nil {
		return 0, fmt.Errorf("list segment %q is neither an index nor an @id selector", seg)
	}
	if idx < 0 || idx >= len(list) {
		return 0, fmt.Errorf("index %d out of range (len %d)", idx, len(list))
	}
	return idx, nil
}
