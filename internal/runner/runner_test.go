package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/conform/internal/edition"
	"github.com/bartekus/conform/internal/selector"
)

// MockStep implements Step for testing.
type MockStep struct {
	id     string
	result StepResult
	called bool
}

func (m *MockStep) ID() string {
	return m.id
}

func (m *MockStep) Run(ctx context.Context, deps *Deps) StepResult {
	m.called = true
	return m.result
}

func testDeps() *Deps {
	return &Deps{Selection: selector.Selection{Root: "corpus", Target: edition.ES5}}
}

func TestRunner_RunAll(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	s1 := &MockStep{id: "reference", result: StepResult{Status: StatusPass}}
	s2 := &MockStep{id: "candidate", result: StepResult{Status: StatusPass, Total: 3, Passed: 3}}

	r := NewRunner([]Step{s1, s2}, store, testDeps())

	err := r.RunAll(context.Background())
	require.NoError(t, err)

	assert.True(t, s1.called)
	assert.True(t, s2.called)

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "pass", last.Status)
	assert.Equal(t, "corpus", last.Corpus)
	assert.Equal(t, "ES5", last.Target)
	assert.Equal(t, []string{"reference", "candidate"}, last.Steps)
	assert.Empty(t, last.Failed)

	step, err := store.ReadStep("candidate")
	require.NoError(t, err)
	assert.Equal(t, "candidate", step.Step)
	assert.Equal(t, 3, step.Passed)
}

func TestRunner_RunAll_Failure(t *testing.T) {
	dir := t.TempDir()
	store := NewStateStore(dir)

	s1 := &MockStep{id: "reference", result: StepResult{Status: StatusFail, ExitCode: 1}}
	s2 := &MockStep{id: "candidate", result: StepResult{
		Status: StatusFail,
		Failed: []string{"corpus/b.js", "corpus/a.js"},
	}}

	r := NewRunner([]Step{s1, s2}, store, testDeps())

	err := r.RunAll(context.Background())
	require.ErrorIs(t, err, ErrFailed)

	assert.True(t, s1.called)
	assert.True(t, s2.called, "a failing step does not stop the sequence")

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "fail", last.Status)
	assert.Equal(t, []string{"reference", "candidate"}, last.Failed)
	assert.Equal(t, []string{"corpus/a.js", "corpus/b.js"}, last.FailedTests)

	failed, err := store.LoadFailedTests()
	require.NoError(t, err)
	assert.Equal(t, last.FailedTests, failed)
}

func TestRunner_StepErrAborts(t *testing.T) {
	store := NewStateStore(t.TempDir())
	stop := errors.New("stopping")

	s1 := &MockStep{id: "candidate", result: StepResult{
		Status:  StatusFail,
		Stopped: true,
		Failed:  []string{"corpus/x.js"},
		Err:     stop,
	}}
	s2 := &MockStep{id: "later", result: StepResult{Status: StatusPass}}

	r := NewRunner([]Step{s1, s2}, store, testDeps())
	err := r.RunAll(context.Background())
	require.ErrorIs(t, err, stop)
	assert.False(t, s2.called)

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.True(t, last.Stopped)
	assert.Equal(t, []string{"candidate"}, last.Steps)
	assert.Equal(t, []string{"corpus/x.js"}, last.FailedTests)
}

func TestRunner_Skip(t *testing.T) {
	store := NewStateStore(t.TempDir())
	s1 := &MockStep{id: "reference", result: StepResult{Status: StatusSkip, Note: "no tests"}}

	r := NewRunner([]Step{s1}, store, testDeps())
	require.NoError(t, r.RunAll(context.Background()))

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, "pass", last.Status)
}

func TestRunner_RunList(t *testing.T) {
	store := NewStateStore(t.TempDir())

	s1 := &MockStep{id: "reference", result: StepResult{Status: StatusPass}}
	s2 := &MockStep{id: "candidate", result: StepResult{Status: StatusPass}}

	r := NewRunner([]Step{s1, s2}, store, testDeps())

	require.NoError(t, r.RunList(context.Background(), []string{"candidate"}))
	assert.False(t, s1.called)
	assert.True(t, s2.called)

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Equal(t, []string{"candidate"}, last.Steps)

	err = r.RunList(context.Background(), []string{"missing"})
	require.Error(t, err)
}

func TestStateStore_Empty(t *testing.T) {
	store := NewStateStore(t.TempDir())

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Nil(t, last)

	step, err := store.ReadStep("candidate")
	require.NoError(t, err)
	assert.Nil(t, step)

	sel, err := store.ReadSelection()
	require.NoError(t, err)
	assert.Nil(t, sel)

	require.NoError(t, store.ClearSelection())
}

func TestStateStore_Selection(t *testing.T) {
	store := NewStateStore(t.TempDir())

	in := CachedSelection{Root: "corpus", Target: "ES5", Tests: []string{"a.js", "b/c.js"}}
	require.NoError(t, store.WriteSelection(in))

	out, err := store.ReadSelection()
	require.NoError(t, err)
	require.NotNil(t, out)
	assert.Equal(t, in, *out)

	require.NoError(t, store.ClearSelection())
	out, err = store.ReadSelection()
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestStateStore_Reset(t *testing.T) {
	store := NewStateStore(t.TempDir() + "/state")
	require.NoError(t, store.WriteLastRun(LastRun{Status: "pass"}))
	require.NoError(t, store.Reset())

	last, err := store.ReadLastRun()
	require.NoError(t, err)
	assert.Nil(t, last)
}
