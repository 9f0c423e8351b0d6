package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bartekus/conform/internal/metadata"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/toolchain"
)

func TestCategory(t *testing.T) {
	tests := []struct {
		block    string
		expected string
	}{
		{block: "es5id: 15.4.4.14-1-1", expected: "15.4.4.14"},
		{block: "es5id: 10.6-13-a-1", expected: "10.6"},
		{block: "es5id: 8.7.2_1", expected: "8.7.2"},
		{block: "es5id: http://es5.github.io/#x15.4.4.14", expected: "x15.4.4.14"},
		{block: "es5id: S15.3_A1", expected: "Miscellaneous"},
		{block: "description: none", expected: "Miscellaneous"},
		{block: "es5id: trailing#", expected: "Miscellaneous"},
	}
	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			assert.Equal(t, tt.expected, Category(metadata.Parse(tt.block)))
		})
	}
}

func TestBaselineRows(t *testing.T) {
	rows := BaselineRows("./js_cmp")
	assert.Len(t, rows, 4)
	var names []string
	for _, r := range rows {
		assert.Equal(t, SectionBaseline, r.Section)
		assert.Len(t, r.Record(), len(Header))
		names = append(names, r.Test)
	}
	assert.Equal(t, []string{"help", "version", "output path", "custom compiler"}, names)
	assert.Equal(t, "./js_cmp --help", rows[0].Steps)
}

func TestTestRow(t *testing.T) {
	tc := toolchain.NewCandidate("./js_cmp")
	md := metadata.Parse("es5id: 15.4.4.14-1-1\ndescription: Array.prototype.indexOf\ninfo: |\n  Checks the length.\n  Second line.\nincludes: [propertyHelper.js]\nflags: [onlyStrict]")

	pass := TestRow(outcome.Result{Rel: "built-ins/Array/a.js", Metadata: md, Outcome: outcome.Pass}, tc)
	assert.Equal(t, SectionTest, pass.Section)
	assert.Equal(t, "Array.prototype.indexOf", pass.Description)
	assert.Equal(t, "15.4.4.14", pass.Category)
	assert.Equal(t, "Checks the length. Second line.", pass.Objective)
	assert.Equal(t, "includes: propertyHelper.js; flags: onlyStrict", pass.Prerequisites)
	assert.Equal(t, "./js_cmp built-ins/Array/a.js -o built-ins/Array/a.out && built-ins/Array/a.out", pass.Steps)
	assert.Equal(t, "Runs to completion without error", pass.Expected)
	assert.Equal(t, StatusDone, pass.Status)
	assert.Equal(t, Compliant, pass.Conformity)

	fail := TestRow(outcome.Result{Rel: "built-ins/Array/a.js", Metadata: md, Outcome: outcome.Crash, Reason: "terminated by SIGSEGV"}, tc)
	assert.Equal(t, StatusInProgress, fail.Status)
	assert.Equal(t, "Non-compliant: Crash (terminated by SIGSEGV)", fail.Conformity)
}

func TestTestRow_Negative(t *testing.T) {
	md := metadata.Parse("negative:\n  phase: parse\n  type: SyntaxError")
	row := TestRow(outcome.Result{Rel: "language/x.js", Metadata: md, Outcome: outcome.PassNegative}, toolchain.NewCandidate("./js_cmp"))

	assert.Equal(t, "Fails at parse with SyntaxError", row.Expected)
	assert.Equal(t, StatusDone, row.Status)
	assert.Equal(t, "language/x.js", row.Description)
	assert.Equal(t, "None", row.Prerequisites)
	assert.Equal(t, "Miscellaneous", row.Category)
}

func TestExportPaths(t *testing.T) {
	tests := []struct {
		name    string
		result  outcome.Result
		wantSrc string
		wantOut string
		steps   string
	}{
		{
			name:    "nested test",
			result:  outcome.Result{Rel: "built-ins/Array/length.js", Path: "test/built-ins/Array/length.js"},
			wantSrc: "built-ins/Array/length.js",
			wantOut: "built-ins/Array/length.out",
			steps:   "./js_cmp built-ins/Array/length.js -o built-ins/Array/length.out && built-ins/Array/length.out",
		},
		{
			name:    "same basename elsewhere",
			result:  outcome.Result{Rel: "built-ins/String/length.js", Path: "test/built-ins/String/length.js"},
			wantSrc: "built-ins/String/length.js",
			wantOut: "built-ins/String/length.out",
			steps:   "./js_cmp built-ins/String/length.js -o built-ins/String/length.out && built-ins/String/length.out",
		},
		{
			name:    "test at corpus root",
			result:  outcome.Result{Rel: "a.js", Path: "test/a.js"},
			wantSrc: "a.js",
			wantOut: "a.out",
			steps:   "./js_cmp a.js -o a.out && ./a.out",
		},
		{
			name:    "relative path escaping the root",
			result:  outcome.Result{Rel: "../outside/x.js", Path: "outside/x.js"},
			wantSrc: "x.js",
			wantOut: "x.out",
			steps:   "./js_cmp x.js -o x.out && ./x.out",
		},
		{
			name:    "no relative path",
			result:  outcome.Result{Path: "test/language/y.js"},
			wantSrc: "y.js",
			wantOut: "y.out",
			steps:   "./js_cmp y.js -o y.out && ./y.out",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, out := ExportPaths(tt.result)
			assert.Equal(t, tt.wantSrc, src)
			assert.Equal(t, tt.wantOut, out)
			assert.Equal(t, tt.steps, TestRow(tt.result, toolchain.NewCandidate("./js_cmp")).Steps)
		})
	}
}
