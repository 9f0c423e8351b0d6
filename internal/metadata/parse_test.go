package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTest = `// Copyright (C) 2011 the contributors. All rights reserved.
/*---
es5id: 15.4.4.14-9-9
description: >
    Array.prototype.indexOf must stop searching once the
    element is found
includes: [propertyHelper.js,  compareArray.js ]
flags: [onlyStrict]
---*/

var a = [1, 2, 3];
assert.sameValue(a.indexOf(2), 1);
`

func TestExtract(t *testing.T) {
	md := Extract(sampleTest)

	require.False(t, md.IsEmpty())
	assert.Equal(t, "15.4.4.14-9-9", md.ES5ID)
	assert.Equal(t, "Array.prototype.indexOf must stop searching once the element is found", md.Description)
	assert.Equal(t, []string{"propertyHelper.js", "compareArray.js"}, md.Includes)
	assert.Equal(t, []string{"onlyStrict"}, md.Flags)
	assert.True(t, md.HasFlag("onlyStrict"))
	assert.Nil(t, md.Negative)
	assert.Equal(t, []string{"description", "es5id", "flags", "includes"}, md.Keys())
}

func TestExtract_FailsClosed(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{
			name:   "no block",
			source: "var x = 1;\n",
		},
		{
			name:   "unterminated block",
			source: "/*---\nes5id: 1.2.3\n",
		},
		{
			name:   "dynamic evaluation",
			source: "/*---\nes5id: 10.4.2-1-1\n---*/\neval('var x = 1');\n",
		},
		{
			name:   "empty block",
			source: "/*---\n---*/\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := Extract(tt.source)
			assert.True(t, md.IsEmpty())
			assert.Empty(t, md.Keys())
		})
	}
}

func TestParse_BracketedLists(t *testing.T) {
	tests := []struct {
		raw      string
		expected []string
	}{
		{raw: "[a]", expected: []string{"a"}},
		{raw: "[a, b, c]", expected: []string{"a", "b", "c"}},
		{raw: "[  Symbol.iterator ,Proxy,  let  ]", expected: []string{"Symbol.iterator", "Proxy", "let"}},
		{raw: "[]", expected: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			md := Parse("features: " + tt.raw)
			assert.Equal(t, tt.expected, md.Features)
		})
	}
}

func TestParse_Negative(t *testing.T) {
	md := Parse(`
description: early error
negative:
  phase: parse
  type: SyntaxError
flags: [onlyStrict]
`)

	require.NotNil(t, md.Negative)
	assert.Equal(t, PhaseParse, md.Negative.Phase)
	assert.Equal(t, "SyntaxError", md.Negative.Type)
	assert.Equal(t, []string{"onlyStrict"}, md.Flags)
	assert.True(t, md.Has(KeyNegative))
}

func TestParse_NegativeRunPhaseAlias(t *testing.T) {
	md := Parse("negative:\n  phase: run\n  type: Test262Error\n")

	require.NotNil(t, md.Negative)
	assert.Equal(t, PhaseRuntime, md.Negative.Phase)
}

func TestParse_Coercion(t *testing.T) {
	md := Parse(`
answer: 42
ratio: 0.5
strict: true
loose: false
name: plain text
version: 15.2
`)

	assert.Equal(t, KindNumber, md.Extra["answer"].Kind)
	assert.InDelta(t, 42.0, md.Extra["answer"].Num, 0)
	assert.InDelta(t, 0.5, md.Extra["ratio"].Num, 0)
	assert.Equal(t, KindBool, md.Extra["strict"].Kind)
	assert.True(t, md.Extra["strict"].Bool)
	assert.False(t, md.Extra["loose"].Bool)
	assert.Equal(t, KindString, md.Extra["name"].Kind)
	assert.Equal(t, "plain text", md.Extra["name"].Text())
	// Numeric-looking values keep their source text.
	assert.Equal(t, "15.2", md.Extra["version"].Text())
}

func TestParse_BlockScalars(t *testing.T) {
	md := Parse(`info: |
    first line
    second line

    third line
description: >-
  folded
  text
es5id: 8.7.2-1
`)

	assert.Equal(t, "first line second line third line", md.Info)
	assert.Equal(t, "folded text", md.Description)
	assert.Equal(t, "8.7.2-1", md.ES5ID)
}

func TestParse_BlockSequence(t *testing.T) {
	md := Parse("features:\n  - Symbol\n  - Proxy\n")

	assert.Equal(t, []string{"Symbol", "Proxy"}, md.Features)
}

func TestParse_WrappedFlowList(t *testing.T) {
	md := Parse("features: [Symbol,\n  Proxy, Reflect]\nesid: sec-foo\n")

	assert.Equal(t, []string{"Symbol", "Proxy", "Reflect"}, md.Features)
	assert.Equal(t, "sec-foo", md.ESID)
}

func TestParse_DuplicateKeysLastWins(t *testing.T) {
	md := Parse("features: [a, b]\nfeatures: [c]\ndescription: one\ndescription: two\n")

	assert.Equal(t, []string{"c"}, md.Features)
	assert.Equal(t, "two", md.Description)
}

func TestParse_EmptyValueIsKept(t *testing.T) {
	md := Parse("es5id:\nauthor: \ndescription: x\n")

	assert.True(t, md.Has(KeyES5ID))
	assert.Equal(t, "", md.ES5ID)
	assert.True(t, md.Has(KeyAuthor))
	assert.False(t, md.IsEmpty())
}

func TestParse_ValueWithColon(t *testing.T) {
	md := Parse("description: Object.defineProperty: throws on frozen\n")

	assert.Equal(t, "Object.defineProperty: throws on frozen", md.Description)
}

func TestParse_IgnoresNonKeyLines(t *testing.T) {
	md := Parse("this is prose, not a pair\nes6id: 12.1\n")

	assert.Equal(t, []string{"es6id"}, md.Keys())
	assert.Equal(t, "12.1", md.Extra["es6id"].Text())
}
