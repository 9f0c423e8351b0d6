package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		raw  string
		kind Kind
	}{
		{raw: "1", kind: KindNumber},
		{raw: "-3.25", kind: KindNumber},
		{raw: "1e3", kind: KindNumber},
		{raw: ".5", kind: KindNumber},
		{raw: "NaN", kind: KindString},
		{raw: "Infinity", kind: KindString},
		{raw: "0x10", kind: KindString},
		{raw: "15.4.4.14", kind: KindString},
		{raw: "true", kind: KindBool},
		{raw: "True", kind: KindString},
		{raw: "[x]", kind: KindList},
		{raw: "", kind: KindString},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.kind, Coerce(tt.raw).Kind)
		})
	}
}

func TestValue_Strings(t *testing.T) {
	assert.Equal(t, []string{"onlyStrict"}, Coerce("onlyStrict").Strings())
	assert.Equal(t, []string{}, Coerce("").Strings())
	assert.Equal(t, []string{"a", "b"}, Coerce("[a,b]").Strings())
}
