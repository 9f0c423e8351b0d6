package report

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/conform/internal/outcome"
)

func TestJUnitWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junit.xml")
	j := NewJUnitWriter(path, map[string]string{"toolchain": "./js_cmp"})

	j.TestFinished(outcome.Result{Rel: "built-ins/a.js", Outcome: outcome.Pass, Duration: 1500 * time.Millisecond})
	j.TestFinished(outcome.Result{Rel: "language/b.js", Outcome: outcome.Crash, Reason: "terminated by SIGSEGV", Stderr: "core dumped"})
	j.TestFinished(outcome.Result{Rel: "built-ins/c.js", Outcome: outcome.PassNegative})
	require.NoError(t, j.Write())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc jUnitXMLDocument
	require.NoError(t, xml.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 2)

	builtins := doc.Suites[0]
	assert.Equal(t, "conformance: built-ins", builtins.Name)
	assert.Equal(t, 2, builtins.Tests)
	assert.Equal(t, 0, builtins.Failures)
	assert.Equal(t, "1.500", builtins.Time)
	require.Len(t, builtins.Properties, 1)

	language := doc.Suites[1]
	assert.Equal(t, 1, language.Failures)
	require.NotNil(t, language.TestCases[0].Failure)
	assert.Equal(t, "Crash: terminated by SIGSEGV", language.TestCases[0].Failure.Message)
	assert.Equal(t, "core dumped", language.TestCases[0].Failure.Contents)
}
