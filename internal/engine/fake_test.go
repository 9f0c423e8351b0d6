package engine

import (
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/bartekus/conform/internal/toolchain"
)

// step scripts one phase of a fake toolchain call.
type step struct {
	exit  toolchain.Exit
	delay time.Duration
	// noArtifact keeps a successful build from writing its output.
	noArtifact bool
}

type script struct {
	build step
	run   step
}

// fakeToolchain answers build and run calls from scripts keyed by the
// test's file name. Unscripted tests pass.
type fakeToolchain struct {
	scripts  map[string]script
	startErr error

	mu      sync.Mutex
	builds  []string
	runs    []string
	sources map[string]string
	dirs    []string
}

func newFakeToolchain(scripts map[string]script) *fakeToolchain {
	return &fakeToolchain{scripts: scripts, sources: make(map[string]string)}
}

func (f *fakeToolchain) StartBuild(source, output string) (toolchain.Process, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	name := filepath.Base(source)
	data, _ := os.ReadFile(source)

	f.mu.Lock()
	f.builds = append(f.builds, name)
	f.sources[name] = string(data)
	f.dirs = append(f.dirs, filepath.Dir(source))
	f.mu.Unlock()

	s := f.scripts[name]
	if !s.build.noArtifact && s.build.exit == (toolchain.Exit{}) {
		if err := os.WriteFile(output, []byte("artifact of "+name), 0755); err != nil {
			return nil, err
		}
	}
	return newFakeProcess(s.build), nil
}

func (f *fakeToolchain) StartRun(output string) (toolchain.Process, error) {
	name := filepath.Base(output)
	f.mu.Lock()
	f.runs = append(f.runs, name)
	f.mu.Unlock()

	key := name[:len(name)-len(".out")] + ".js"
	return newFakeProcess(f.scripts[key].run), nil
}

func (f *fakeToolchain) BuildCommand(source, output string) []string {
	return []string{"./js_cmp", source, "-o", output}
}

func (f *fakeToolchain) RunCommand(output string) []string {
	return []string{output}
}

func (f *fakeToolchain) built() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.builds...)
}

type fakeProcess struct {
	step step
	once sync.Once
	stop chan struct{}
}

func newFakeProcess(s step) *fakeProcess {
	return &fakeProcess{step: s, stop: make(chan struct{})}
}

func (p *fakeProcess) Wait() (toolchain.Exit, error) {
	select {
	case <-time.After(p.step.delay):
		return p.step.exit, nil
	case <-p.stop:
		return toolchain.Exit{Code: -1, Signal: syscall.SIGKILL}, nil
	}
}

func (p *fakeProcess) Kill() error {
	p.once.Do(func() { close(p.stop) })
	return nil
}
