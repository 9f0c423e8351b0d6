// Package report exports a run: per-test copies, a delimited report, a JSON
// document, a Markdown summary and a zip archive of all of it.
package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bartekus/conform/internal/logging"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/projection"
	"github.com/bartekus/conform/internal/toolchain"
)

// File names written into the export directory.
const (
	CSVFile     = "report.csv"
	JSONFile    = "report.json"
	SummaryFile = "summary.md"
)

// Delimiter separates report.csv fields.
const Delimiter = ';'

// Info describes the run being exported.
type Info struct {
	Toolchain string
	Target    string
	Corpus    string
	Stopped   string
}

// Document is the content of report.json.
type Document struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Toolchain   string         `json:"toolchain"`
	Target      string         `json:"target_edition"`
	Corpus      string         `json:"corpus"`
	Stopped     string         `json:"stopped,omitempty" jsonschema:"description=Stop message when a stop policy ended the run"`
	Total       int            `json:"total"`
	Passed      int            `json:"passed"`
	Failed      map[string]int `json:"failed"`
	Rows        []Row          `json:"rows"`
}

// Paths lists what Finish wrote.
type Paths struct {
	Dir     string
	CSV     string
	JSON    string
	Summary string
	Archive string
}

// Exporter collects results as they finish and writes the report at the end.
type Exporter struct {
	dir    string
	tc     toolchain.Toolchain
	logger logging.Logger
	now    func() time.Time

	mu      sync.Mutex
	rows    []Row
	results []outcome.Result
	errs    []error
}

// NewExporter exports into dir using tc to render reproduction steps.
func NewExporter(dir string, tc toolchain.Toolchain, logger logging.Logger) *Exporter {
	if logger == nil {
		logger = logging.Null()
	}
	return &Exporter{dir: dir, tc: tc, logger: logger, now: time.Now}
}

// Dir is the export directory.
func (x *Exporter) Dir() string {
	return x.dir
}

// TestFinished copies the test's merged source and artifact into the export
// directory under the test's relative path and records its row. A file that
// already exists is kept.
func (x *Exporter) TestFinished(r outcome.Result) {
	x.mu.Lock()
	defer x.mu.Unlock()

	x.rows = append(x.rows, TestRow(r, x.tc))
	x.results = append(x.results, r)

	srcRel, outRel := ExportPaths(r)
	for _, c := range []struct{ from, to string }{
		{r.Source, srcRel},
		{r.Artifact, outRel},
	} {
		if c.from == "" {
			continue
		}
		dst := filepath.Join(x.dir, filepath.FromSlash(c.to))
		err := os.MkdirAll(filepath.Dir(dst), 0755)
		if err == nil {
			err = copyIfAbsent(c.from, dst)
		}
		if err != nil {
			x.logger.Printf("export copy %s: %v", c.from, err)
			x.errs = append(x.errs, err)
		}
	}
}

// Rows returns the baseline rows followed by one row per finished test.
func (x *Exporter) Rows(toolchainPath string) []Row {
	x.mu.Lock()
	defer x.mu.Unlock()
	rows := BaselineRows(toolchainPath)
	return append(rows, x.rows...)
}

// Finish writes the report files and the archive. Copy failures seen
// earlier are reported here too.
func (x *Exporter) Finish(summary *outcome.Summary, info Info) (Paths, error) {
	rows := x.Rows(info.Toolchain)

	x.mu.Lock()
	copyErr := errors.Join(x.errs...)
	x.mu.Unlock()

	p := Paths{
		Dir:     x.dir,
		CSV:     filepath.Join(x.dir, CSVFile),
		JSON:    filepath.Join(x.dir, JSONFile),
		Summary: filepath.Join(x.dir, SummaryFile),
		Archive: filepath.Clean(x.dir) + ".zip",
	}
	if err := os.MkdirAll(x.dir, 0755); err != nil {
		return p, &ExportError{Op: "create dir", Err: err}
	}
	if err := writeCSV(p.CSV, rows); err != nil {
		return p, &ExportError{Op: CSVFile, Err: err}
	}

	doc := Document{
		GeneratedAt: x.now().UTC(),
		Toolchain:   info.Toolchain,
		Target:      info.Target,
		Corpus:      info.Corpus,
		Stopped:     info.Stopped,
		Total:       summary.Total,
		Passed:      summary.Passed,
		Failed:      make(map[string]int),
		Rows:        rows,
	}
	for o, n := range summary.Failed {
		doc.Failed[string(o)] = n
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return p, &ExportError{Op: JSONFile, Err: err}
	}
	if err := projection.AtomicWrite(p.JSON, append(data, '\n')); err != nil {
		return p, &ExportError{Op: JSONFile, Err: err}
	}

	if err := projection.AtomicWrite(p.Summary, []byte(RenderSummary(summary, info))); err != nil {
		return p, &ExportError{Op: SummaryFile, Err: err}
	}

	if err := Archive(x.dir, p.Archive); err != nil {
		return p, &ExportError{Op: "archive", Err: err}
	}

	if copyErr != nil {
		return p, &ExportError{Op: "copy", Err: copyErr}
	}
	x.logger.Printf("exported %d rows to %s", len(rows), x.dir)
	return p, nil
}

func writeCSV(path string, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		cerr := f.Close()
		if err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = Delimiter
	if err := w.Write(Header); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write(r.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV parses a report written by Finish, header excluded.
func ReadCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.Comma = Delimiter
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty report")
	}
	return records[1:], nil
}

func copyIfAbsent(src, dst string) (err error) {
	if _, err := os.Stat(dst); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	info, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return err
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()
	_, err = io.Copy(out, in)
	return err
}
