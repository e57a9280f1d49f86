// Package variants enumerates the property combinations a block can take.
package variants

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedKey is returned for a key segment that is not name=value.
var ErrMalformedKey = errors.New("malformed variant key")

const (
	pairSep  = ","
	valueSep = "="
)

// Property is one name=value pair of a variant key.
type Property struct {
	Name  string
	Value string

	// literal marks a declared key kept verbatim in Name, such as "normal".
	literal bool
}

// Key identifies one variant of a block. The empty key is the only variant
// of a block without properties.
type Key []Property

// Literal returns a key that formats as s unchanged and carries no
// properties. Blockstates may declare keys like "normal" or "inventory".
func Literal(s string) Key {
	if s == "" {
		return nil
	}
	return Key{{Name: s, literal: true}}
}

// IsLiteral reports whether k was declared verbatim rather than as pairs.
func (k Key) IsLiteral() bool {
	return len(k) == 1 && k[0].literal
}

// String joins the pairs as name=value separated by commas.
// A literal key is returned as declared.
func (k Key) String() string {
	if len(k) == 0 {
		return ""
	}
	if k.IsLiteral() {
		return k[0].Name
	}
	parts := make([]string, len(k))
	for i, p := range k {
		parts[i] = p.Name + valueSep + p.Value
	}
	return strings.Join(parts, pairSep)
}

// IsEmpty reports whether the key has no properties.
func (k Key) IsEmpty() bool {
	return len(k) == 0
}

// Map returns the key as a property state. A literal key has no properties.
func (k Key) Map() map[string]string {
	m := make(map[string]string, len(k))
	for _, p := range k {
		if !p.literal {
			m[p.Name] = p.Value
		}
	}
	return m
}

// Get returns the value of the named property.
func (k Key) Get(name string) (string, bool) {
	for _, p := range k {
		if !p.literal && p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// ParseKey parses a serialized key, keeping the pair order as written.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return nil, nil
	}

	segments := strings.Split(s, pairSep)
	key := make(Key, 0, len(segments))
	seen := make(map[string]bool, len(segments))
	for _, seg := range segments {
		name, value, ok := strings.Cut(seg, valueSep)
		if !ok || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedKey, s)
		}
		if seen[name] {
			return nil, fmt.Errorf("%w: %q repeats %s", ErrMalformedKey, s, name)
		}
		seen[name] = true
		key = append(key, Property{Name: name, Value: value})
	}
	return key, nil
}
