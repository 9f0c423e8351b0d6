package runner

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/bartekus/conform/internal/projection"
)

// StateStore handles reading and writing runner state.
type StateStore struct {
	baseDir string
}

// NewStateStore creates a store at the given base directory (e.g. .conform).
func NewStateStore(baseDir string) *StateStore {
	return &StateStore{baseDir: baseDir}
}

// Dir returns the base directory.
func (s *StateStore) Dir() string {
	return s.baseDir
}

func (s *StateStore) lastRunPath() string {
	return filepath.Join(s.baseDir, "last-run.json")
}

func (s *StateStore) stepPath(id string) string {
	return filepath.Join(s.baseDir, "steps", id+".json")
}

// SelectionPath is where the cached selection lives.
func (s *StateStore) SelectionPath() string {
	return filepath.Join(s.baseDir, "selection.yaml")
}

// ReadLastRun loads the last execution summary. A missing file yields nil.
func (s *StateStore) ReadLastRun() (*LastRun, error) {
	var last LastRun
	ok, err := readJSON(s.lastRunPath(), &last)
	if err != nil || !ok {
		return nil, err
	}
	return &last, nil
}

// ReadStep loads one step's last result. A missing file yields nil.
func (s *StateStore) ReadStep(id string) (*StepResult, error) {
	var res StepResult
	ok, err := readJSON(s.stepPath(id), &res)
	if err != nil || !ok {
		return nil, err
	}
	return &res, nil
}

// WriteLastRun saves the execution summary.
func (s *StateStore) WriteLastRun(last LastRun) error {
	return writeJSON(s.lastRunPath(), last)
}

// WriteStepResult saves a step's result.
func (s *StateStore) WriteStepResult(res StepResult) error {
	return writeJSON(s.stepPath(res.Step), res)
}

// Reset clears the state directory.
func (s *StateStore) Reset() error {
	return os.RemoveAll(s.baseDir)
}

// LoadFailedTests returns the test paths that failed in the last run.
func (s *StateStore) LoadFailedTests() ([]string, error) {
	last, err := s.ReadLastRun()
	if err != nil {
		return nil, err
	}
	if last == nil {
		return nil, nil
	}
	return last.FailedTests, nil
}

// ReadSelection loads the cached selection. A missing file yields nil.
func (s *StateStore) ReadSelection() (*CachedSelection, error) {
	data, err := os.ReadFile(s.SelectionPath())
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading selection cache: %w", err)
	}
	var c CachedSelection
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decoding selection cache: %w", err)
	}
	return &c, nil
}

// WriteSelection saves the selection cache.
func (s *StateStore) WriteSelection(c CachedSelection) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding selection cache: %w", err)
	}
	return projection.AtomicWrite(s.SelectionPath(), data)
}

// ClearSelection removes the selection cache; a missing cache is fine.
func (s *StateStore) ClearSelection() error {
	err := os.Remove(s.SelectionPath())
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func readJSON(path string, v interface{}) (bool, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return false, nil // Not found is clean state
	}
	if err != nil {
		return false, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := json.NewDecoder(f).Decode(v); err != nil {
		return false, fmt.Errorf("decoding %s: %w", path, err)
	}
	return true, nil
}

func writeJSON(path string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return projection.AtomicWrite(path, append(data, '\n'))
}
