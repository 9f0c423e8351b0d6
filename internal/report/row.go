package report

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bartekus/conform/internal/metadata"
	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/toolchain"
)

// Sections of the tabular report.
const (
	SectionBaseline = "baseline"
	SectionTest     = "test"
)

const (
	StatusDone       = "Done"
	StatusInProgress = "In Progress"
	Compliant        = "Compliant"
	categoryMisc     = "Miscellaneous"
)

// Header is the first line of report.csv.
var Header = []string{
	"section",
	"test",
	"description",
	"category",
	"objective",
	"prerequisites",
	"reproduction steps",
	"expected result",
	"development status",
	"conformity",
}

// Row is one line of the report.
type Row struct {
	Section       string `json:"section" jsonschema:"enum=baseline,enum=test"`
	Test          string `json:"test"`
	Description   string `json:"description"`
	Category      string `json:"category"`
	Objective     string `json:"objective"`
	Prerequisites string `json:"prerequisites"`
	Steps         string `json:"reproduction_steps"`
	Expected      string `json:"expected_result"`
	Status        string `json:"development_status" jsonschema:"enum=Done,enum=In Progress"`
	Conformity    string `json:"conformity"`
}

// Record returns the row's fields in Header order.
func (r Row) Record() []string {
	return []string{
		r.Section,
		r.Test,
		r.Description,
		r.Category,
		r.Objective,
		r.Prerequisites,
		r.Steps,
		r.Expected,
		r.Status,
		r.Conformity,
	}
}

// BaselineRows describe the toolchain's own command line. They are static.
func BaselineRows(toolchainPath string) []Row {
	tc := toolchainPath
	base := func(test, desc, objective, steps, expected string) Row {
		return Row{
			Section:       SectionBaseline,
			Test:          test,
			Description:   desc,
			Category:      "Toolchain",
			Objective:     objective,
			Prerequisites: "None",
			Steps:         steps,
			Expected:      expected,
			Status:        StatusDone,
			Conformity:    Compliant,
		}
	}
	return []Row{
		base("help", "Display usage",
			"The toolchain documents its command line",
			tc+" --help",
			"Usage is printed and the exit status is 0"),
		base("version", "Display version",
			"The toolchain reports its version",
			tc+" --version",
			"A version string is printed and the exit status is 0"),
		base("output path", "Write to a chosen output path",
			"The build step honours -o",
			tc+" test.js -o out/test.out",
			"out/test.out is created and is executable"),
		base("custom compiler", "Run with a custom compiler location",
			"The runner accepts a toolchain outside the working directory",
			"conform -j --toolchain "+tc,
			"Tests are built with the given toolchain"),
	}
}

var categoryRe = regexp.MustCompile(`^\d+(\.\d+)*`)

// Category derives a report category from the legacy identifier: its
// leading dotted number, else the fragment after '#', else Miscellaneous.
func Category(md metadata.Metadata) string {
	id := strings.TrimSpace(md.ES5ID)
	if m := categoryRe.FindString(id); m != "" {
		return m
	}
	if i := strings.LastIndex(id, "#"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}
	return categoryMisc
}

// ExportPaths returns the slash-separated locations of a test's source and
// artifact copies relative to the export directory. They mirror the test's
// path under the corpus root.
func ExportPaths(r outcome.Result) (src, out string) {
	src = r.Rel
	if src == "" || src == "." || !fs.ValidPath(src) {
		src = path.Base(filepath.ToSlash(r.Path))
	}
	return src, strings.TrimSuffix(src, ".js") + ".out"
}

// TestRow builds the row for an executed test. Steps refer to the copies
// placed in the export directory and run from its root.
func TestRow(r outcome.Result, tc toolchain.Toolchain) Row {
	md := r.Metadata
	src, out := ExportPaths(r)

	run := out
	if !strings.Contains(out, "/") {
		run = "./" + out
	}
	steps := toolchain.Quote(tc.BuildCommand(src, out))
	steps += " && " + toolchain.Quote(tc.RunCommand(run))

	row := Row{
		Section:       SectionTest,
		Test:          r.Rel,
		Description:   firstNonEmpty(md.Description, r.Rel),
		Category:      Category(md),
		Objective:     firstNonEmpty(firstLine(md.Info), md.Description, r.Rel),
		Prerequisites: prerequisites(md),
		Steps:         steps,
		Expected:      expected(md),
		Status:        StatusInProgress,
		Conformity:    "Non-compliant: " + failureReason(r),
	}
	if r.Outcome.Passed() {
		row.Status = StatusDone
		row.Conformity = Compliant
	}
	return row
}

func prerequisites(md metadata.Metadata) string {
	var parts []string
	if len(md.Includes) > 0 {
		parts = append(parts, "includes: "+strings.Join(md.Includes, ", "))
	}
	if len(md.Features) > 0 {
		parts = append(parts, "features: "+strings.Join(md.Features, ", "))
	}
	if len(md.Flags) > 0 {
		parts = append(parts, "flags: "+strings.Join(md.Flags, ", "))
	}
	if len(parts) == 0 {
		return "None"
	}
	return strings.Join(parts, "; ")
}

func expected(md metadata.Metadata) string {
	if n := md.Negative; n != nil {
		if n.Phase == "" {
			return fmt.Sprintf("Fails with %s", n.Type)
		}
		return fmt.Sprintf("Fails at %s with %s", n.Phase, n.Type)
	}
	return "Runs to completion without error"
}

func failureReason(r outcome.Result) string {
	if r.Reason == "" {
		return string(r.Outcome)
	}
	return fmt.Sprintf("%s (%s)", r.Outcome, r.Reason)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
