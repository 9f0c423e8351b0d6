package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bartekus/conform/internal/outcome"
	"github.com/bartekus/conform/internal/projection"
)

// RenderSummary renders the Markdown summary of a run.
func RenderSummary(s *outcome.Summary, info Info) string {
	var b strings.Builder
	b.WriteString(projection.RenderHeader(1, "Conformance summary"))

	var facts []string
	if info.Target != "" {
		facts = append(facts, "Target edition: "+info.Target)
	}
	if info.Toolchain != "" {
		facts = append(facts, "Toolchain: `"+info.Toolchain+"`")
	}
	if info.Corpus != "" {
		facts = append(facts, "Corpus: `"+info.Corpus+"`")
	}
	facts = append(facts, fmt.Sprintf("Passed %d of %d", s.Passed, s.Total))
	if info.Stopped != "" {
		facts = append(facts, "Stopped: "+info.Stopped)
	}
	b.WriteString(projection.RenderList(facts))
	b.WriteString("\n")

	counts := make(map[outcome.Outcome]int)
	for _, r := range s.Results {
		counts[r.Outcome]++
	}
	var rows [][]string
	for _, o := range outcome.All() {
		if counts[o] > 0 {
			rows = append(rows, []string{string(o), strconv.Itoa(counts[o])})
		}
	}
	b.WriteString(projection.RenderHeader(2, "Outcomes"))
	b.WriteString(projection.RenderTable([]string{"Outcome", "Tests"}, rows))

	var failures []outcome.Result
	for _, r := range s.Results {
		if !r.Outcome.Passed() {
			failures = append(failures, r)
		}
	}
	if len(failures) == 0 {
		return b.String()
	}
	sort.Slice(failures, func(i, j int) bool { return failures[i].Rel < failures[j].Rel })

	rows = rows[:0]
	for _, r := range failures {
		rows = append(rows, []string{r.Rel, string(r.Outcome), r.Reason})
	}
	b.WriteString("\n")
	b.WriteString(projection.RenderHeader(2, "Failures"))
	b.WriteString(projection.RenderTable([]string{"Test", "Outcome", "Reason"}, rows))
	return b.String()
}
