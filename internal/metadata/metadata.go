// Package metadata parses the declarative frontmatter block embedded in
// conformance test files.
//
// The block sits between a "/*---" and a "---*/" marker and holds one
// "key: value" pair per line. Values are coerced into typed form: bracketed
// lists become token sequences, block scalars (">" or "|") absorb the
// following indented lines, numeric text becomes a number and "true"/"false"
// become booleans. A key with an empty value followed by indented pairs is
// read as a nested record, which is how the "negative" expectation is
// spelled.
package metadata

import (
	"sort"
	"strings"
)

// Phase is the stage at which a negative test is expected to fail.
type Phase string

const (
	PhaseParse      Phase = "parse"
	PhaseResolution Phase = "resolution"
	PhaseRuntime    Phase = "runtime"
)

// ParsePhase normalises a declared phase. The corpus spells the execution
// phase "runtime"; "run" is accepted as an alias.
func ParsePhase(s string) Phase {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "parse", "early":
		return PhaseParse
	case "resolution":
		return PhaseResolution
	case "runtime", "run":
		return PhaseRuntime
	default:
		return Phase(strings.TrimSpace(s))
	}
}

// Negative declares that a test is expected to fail.
type Negative struct {
	Phase Phase  `json:"phase" yaml:"phase"`
	Type  string `json:"type" yaml:"type"`
}

// Recognised keys.
const (
	KeyFlags       = "flags"
	KeyIncludes    = "includes"
	KeyFeatures    = "features"
	KeyNegative    = "negative"
	KeyESID        = "esid"
	KeyES5ID       = "es5id"
	KeyDescription = "description"
	KeyInfo        = "info"
	KeyAuthor      = "author"
)

// Metadata is the structured form of one test's frontmatter. Unrecognised
// keys are kept, typed, in Extra.
type Metadata struct {
	Flags       []string
	Includes    []string
	Features    []string
	Negative    *Negative
	ESID        string
	ES5ID       string
	Description string
	Info        string
	Author      string
	Extra       map[string]Value

	keys map[string]struct{}
}

// IsEmpty reports whether no key was parsed. Empty metadata makes a test
// ineligible for selection.
func (m Metadata) IsEmpty() bool {
	return len(m.keys) == 0
}

// Has reports whether key was declared, even with an empty value.
func (m Metadata) Has(key string) bool {
	_, ok := m.keys[key]
	return ok
}

// Keys returns the declared keys in lexical order.
func (m Metadata) Keys() []string {
	keys := make([]string, 0, len(m.keys))
	for k := range m.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// HasFlag reports whether flag is listed under flags.
func (m Metadata) HasFlag(flag string) bool {
	for _, f := range m.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func (m *Metadata) set(key string, v Value) {
	if m.keys == nil {
		m.keys = make(map[string]struct{})
	}
	m.keys[key] = struct{}{}

	switch key {
	case KeyFlags:
		m.Flags = v.Strings()
	case KeyIncludes:
		m.Includes = v.Strings()
	case KeyFeatures:
		m.Features = v.Strings()
	case KeyNegative:
		m.Negative = negativeOf(v)
	case KeyESID:
		m.ESID = v.Text()
	case KeyES5ID:
		m.ES5ID = v.Text()
	case KeyDescription:
		m.Description = v.Text()
	case KeyInfo:
		m.Info = v.Text()
	case KeyAuthor:
		m.Author = v.Text()
	default:
		if m.Extra == nil {
			m.Extra = make(map[string]Value)
		}
		m.Extra[key] = v
	}
}

func negativeOf(v Value) *Negative {
	if v.Kind != KindRecord {
		return &Negative{Type: v.Text()}
	}
	return &Negative{
		Phase: ParsePhase(v.Record["phase"].Text()),
		Type:  v.Record["type"].Text(),
	}
}
