// Package statement holds the values a generated Cypher statement carries:
// its text and the parameter table bound to its placeholders.
package statement

import (
	"fmt"
	"strconv"
	"strings"
)

// Params maps a bind name (without the leading $) to its value.
type Params map[string]Value

// ParamsOf converts a native parameter map, as decoded from JSON or YAML,
// into Params.
func ParamsOf(native map[string]any) (Params, error) {
	params := make(Params, len(native))
	for k, raw := range native {
		v, err := Of(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		params[k] = v
	}
	return params, nil
}

// Clone returns a shallow copy. Values are immutable, so this is a full copy
// for every practical purpose.
func (p Params) Clone() Params {
	cp := make(Params, len(p))
	for k, v := range p {
		cp[k] = v
	}
	return cp
}

// Merge copies every entry of other into p. Colliding names take the value
// from other.
func (p Params) Merge(other Params) {
	for k, v := range other {
		p[k] = v
	}
}

// Native returns the driver representation of the table.
func (p Params) Native() map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v.Native()
	}
	return out
}

// Canonical serializes the table with keys in sorted order.
func (p Params) Canonical() string {
	var sb strings.Builder
	sb.WriteByte('{')
	writeCanonicalEntries(&sb, p)
	sb.WriteByte('}')
	return sb.String()
}

// Statement is one query text plus its parameter table.
type Statement struct {
	Text   string
	Params Params
}

// New is a convenience constructor that converts native parameters.
func New(text string, native map[string]any) (Statement, error) {
	params, err := ParamsOf(native)
	if err != nil {
		return Statement{}, err
	}
	return Statement{Text: text, Params: params}, nil
}

// Canonical returns the order-independent serialization of the statement used
// to key cached results.
func (s Statement) Canonical() string {
	return strconv.Quote(s.Text) + "|" + s.Params.Canonical()
}
