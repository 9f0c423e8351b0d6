package metadata

import (
	"regexp"
	"strconv"
	"strings"
)

// Kind identifies how a raw metadata value was coerced.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
	KindRecord
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindRecord:
		return "record"
	default:
		return "string"
	}
}

// Value is a single coerced metadata value. Raw always holds the trimmed
// source text so identifiers that happen to look numeric ("15.2") can be
// read back verbatim.
type Value struct {
	Kind   Kind
	Raw    string
	Num    float64
	Bool   bool
	List   []string
	Record map[string]Value
}

var numberRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Coerce applies the scalar coercion rules to a single inline value.
func Coerce(raw string) Value {
	raw = strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]"):
		return Value{Kind: KindList, Raw: raw, List: splitList(raw[1 : len(raw)-1])}
	case raw == "true" || raw == "false":
		return Value{Kind: KindBool, Raw: raw, Bool: raw == "true"}
	case numberRe.MatchString(raw):
		n, err := strconv.ParseFloat(raw, 64)
		if err == nil {
			return Value{Kind: KindNumber, Raw: raw, Num: n}
		}
	}
	return Value{Kind: KindString, Raw: raw}
}

func splitList(inner string) []string {
	if strings.TrimSpace(inner) == "" {
		return []string{}
	}
	parts := strings.Split(inner, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// Strings returns the value as a token sequence. Scalars become a single
// token; an empty scalar becomes an empty sequence.
func (v Value) Strings() []string {
	switch v.Kind {
	case KindList:
		out := make([]string, len(v.List))
		copy(out, v.List)
		return out
	case KindRecord:
		return nil
	}
	if v.Raw == "" {
		return []string{}
	}
	return []string{v.Raw}
}

// Text returns the scalar text form of the value.
func (v Value) Text() string {
	return v.Raw
}
