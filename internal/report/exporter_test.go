package report

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/conform/internal/metadata"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/testutil/golden"
	"github.com/bartekus/conform/internal/toolchain"
)

func result(t *testing.T, dir, rel string, o outcome.Outcome, withArtifact bool) outcome.Result {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	name := filepath.Base(rel)
	src := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(src, []byte("// merged "+rel), 0644))
	r := outcome.Result{
		Path:     filepath.Join("test262", "test", rel),
		Rel:      rel,
		Metadata: metadata.Parse("es5id: 15.2.3.3-4-1\ndescription: " + name),
		Outcome:  o,
		Source:   src,
	}
	if withArtifact {
		r.Artifact = filepath.Join(dir, name[:len(name)-3]+".out")
		require.NoError(t, os.WriteFile(r.Artifact, []byte("bin"), 0755))
	}
	return r
}

func TestExporter_Finish(t *testing.T) {
	work := t.TempDir()
	exportDir := filepath.Join(t.TempDir(), "export")
	x := NewExporter(exportDir, toolchain.NewCandidate("./js_cmp"), nil)
	x.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }

	summary := outcome.NewSummary()
	for _, r := range []outcome.Result{
		result(t, filepath.Join(work, "1"), "built-ins/a.js", outcome.Pass, true),
		result(t, filepath.Join(work, "2"), "built-ins/b.js", outcome.LexingFailure, false),
		result(t, filepath.Join(work, "3"), "language/c.js", outcome.RunFailure, true),
	} {
		summary.Add(r)
		x.TestFinished(r)
	}

	p, err := x.Finish(summary, Info{Toolchain: "./js_cmp", Target: "ES5", Corpus: "./test262/test"})
	require.NoError(t, err)

	f, err := os.Open(p.CSV)
	require.NoError(t, err)
	defer f.Close()
	records, err := ReadCSV(f)
	require.NoError(t, err)
	assert.Len(t, records, len(BaselineRows("./js_cmp"))+summary.Total)
	assert.Equal(t, SectionBaseline, records[0][0])
	assert.Equal(t, SectionTest, records[4][0])
	assert.Equal(t, "built-ins/a.js", records[4][1])
	assert.Equal(t, "Non-compliant: LexingFailure", records[5][9])

	for _, name := range []string{"built-ins/a.js", "built-ins/a.out", "built-ins/b.js", "language/c.js", "language/c.out"} {
		assert.FileExists(t, filepath.Join(exportDir, filepath.FromSlash(name)))
	}
	assert.NoFileExists(t, filepath.Join(exportDir, "built-ins", "b.out"))

	data, err := os.ReadFile(p.JSON)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 3, doc.Total)
	assert.Equal(t, 1, doc.Passed)
	assert.Equal(t, map[string]int{"LexingFailure": 1, "RunFailure": 1}, doc.Failed)
	assert.Len(t, doc.Rows, 7)
	assert.Equal(t, 2026, doc.GeneratedAt.Year())

	assert.Equal(t, exportDir+".zip", p.Archive)
	zr, err := zip.OpenReader(p.Archive)
	require.NoError(t, err)
	defer zr.Close()
	var entries []string
	for _, zf := range zr.File {
		entries = append(entries, zf.Name)
	}
	assert.Contains(t, entries, "export/report.csv")
	assert.Contains(t, entries, "export/report.json")
	assert.Contains(t, entries, "export/summary.md")
	assert.Contains(t, entries, "export/built-ins/a.js")
	assert.Contains(t, entries, "export/language/c.out")
}

func TestExporter_KeepsExistingCopies(t *testing.T) {
	exportDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(exportDir, "built-ins"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(exportDir, "built-ins", "a.js"), []byte("previous"), 0644))

	x := NewExporter(exportDir, toolchain.NewCandidate("./js_cmp"), nil)
	x.TestFinished(result(t, t.TempDir(), "built-ins/a.js", outcome.Pass, false))

	data, err := os.ReadFile(filepath.Join(exportDir, "built-ins", "a.js"))
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}

func TestExporter_SameBasenameKeptApart(t *testing.T) {
	work := t.TempDir()
	exportDir := t.TempDir()
	x := NewExporter(exportDir, toolchain.NewCandidate("./js_cmp"), nil)

	rels := []string{"built-ins/Array/length.js", "built-ins/String/length.js"}
	for _, rel := range rels {
		x.TestFinished(result(t, filepath.Join(work, filepath.Dir(rel)), rel, outcome.Pass, true))
	}

	rows := x.Rows("./js_cmp")[len(BaselineRows("./js_cmp")):]
	require.Len(t, rows, 2)
	assert.NotEqual(t, rows[0].Steps, rows[1].Steps)

	for _, rel := range rels {
		data, err := os.ReadFile(filepath.Join(exportDir, filepath.FromSlash(rel)))
		require.NoError(t, err)
		assert.Equal(t, "// merged "+rel, string(data))
		assert.FileExists(t, filepath.Join(exportDir, filepath.FromSlash(rel[:len(rel)-len(".js")]+".out")))
	}
	assert.NoFileExists(t, filepath.Join(exportDir, "length.js"))
}

func TestExporter_FailureIsExportError(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	x := NewExporter(filepath.Join(blocker, "export"), toolchain.NewCandidate("./js_cmp"), nil)
	_, err := x.Finish(outcome.NewSummary(), Info{})

	var exportErr *ExportError
	require.True(t, errors.As(err, &exportErr))
}

func TestRenderSummary(t *testing.T) {
	s := outcome.NewSummary()
	s.Add(outcome.Result{Rel: "language/d.js", Outcome: outcome.Timeout, Reason: "exceeded 10s during run"})
	s.Add(outcome.Result{Rel: "built-ins/Array/a.js", Outcome: outcome.Pass})
	s.Add(outcome.Result{Rel: "built-ins/Array/b.js", Outcome: outcome.RunFailure, Reason: "exited with status 1"})
	s.Add(outcome.Result{Rel: "language/c.js", Outcome: outcome.PassNegative})

	got := RenderSummary(s, Info{Toolchain: "./js_cmp", Target: "ES5", Corpus: "./test262/test"})
	golden.Assert(t, golden.TestdataDir(t), "summary", got)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	assert.Contains(t, string(data), "report-v1.json")
	assert.Contains(t, string(data), "development_status")
}
