// Package toolchain drives the candidate compiler as two subprocess calls:
// a build of a source file into an artifact and a run of that artifact.
package toolchain

import (
	"strings"
)

// Placeholders expanded in command templates.
const (
	PlaceholderSource = "{source}"
	PlaceholderOutput = "{output}"
)

// Toolchain starts the two pipeline phases.
type Toolchain interface {
	StartBuild(source, output string) (Process, error)
	StartRun(output string) (Process, error)
	BuildCommand(source, output string) []string
	RunCommand(output string) []string
}

// DefaultBuildArgs reproduce `<toolchain> <source> -o <output>`.
func DefaultBuildArgs() []string {
	return []string{PlaceholderSource, "-o", PlaceholderOutput}
}

// DefaultRunArgs execute the artifact directly.
func DefaultRunArgs() []string {
	return []string{PlaceholderOutput}
}

// Candidate is the toolchain under evaluation. The build command is Path
// followed by BuildArgs; the run command is RunArgs alone, so an artifact
// needing an interpreter can be run as e.g. ["node", "{output}"].
type Candidate struct {
	Path      string
	BuildArgs []string
	RunArgs   []string
	Dir       string
}

// NewCandidate returns a candidate with default argument templates.
func NewCandidate(path string) *Candidate {
	return &Candidate{
		Path:      path,
		BuildArgs: DefaultBuildArgs(),
		RunArgs:   DefaultRunArgs(),
	}
}

func (c *Candidate) BuildCommand(source, output string) []string {
	args := c.BuildArgs
	if args == nil {
		args = DefaultBuildArgs()
	}
	return append([]string{c.Path}, expand(args, source, output)...)
}

func (c *Candidate) RunCommand(output string) []string {
	args := c.RunArgs
	if args == nil {
		args = DefaultRunArgs()
	}
	return expand(args, "", output)
}

func (c *Candidate) StartBuild(source, output string) (Process, error) {
	return Start(c.BuildCommand(source, output), c.Dir)
}

func (c *Candidate) StartRun(output string) (Process, error) {
	return Start(c.RunCommand(output), c.Dir)
}

func expand(args []string, source, output string) []string {
	r := strings.NewReplacer(PlaceholderSource, source, PlaceholderOutput, output)
	out := make([]string, 0, len(args))
	for _, a := range args {
		out = append(out, r.Replace(a))
	}
	return out
}

// Quote renders argv as a shell-pasteable command line.
func Quote(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if a != "" && !strings.ContainsAny(a, " \t\n'\"\\$`&|;<>()*?[]#~!{}") {
			parts[i] = a
			continue
		}
		parts[i] = "'" + strings.ReplaceAll(a, "'", `'\''`) + "'"
	}
	return strings.Join(parts, " ")
}
