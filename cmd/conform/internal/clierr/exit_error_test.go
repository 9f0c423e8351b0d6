package clierr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bartekus/conform/internal/engine"
	"github.com/bartekus/conform/internal/runner"
)

func TestExitCodeOf(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "plain error", err: cause, want: 1},
		{name: "explicit code", err: New(3, "bad"), want: 3},
		{name: "zero normalized", err: New(0, "bad"), want: 1},
		{name: "wrapped further", err: fmt.Errorf("outer: %w", Newf(4, "inner %d", 1)), want: 4},
		{name: "failed tests", err: fmt.Errorf("%w: [candidate]", runner.ErrFailed), want: ExitTestFailure},
		{name: "stop policy", err: &engine.StopError{Message: "Stopping due to test crash"}, want: ExitStopped},
		{name: "wrapped stop policy", err: fmt.Errorf("step: %w", &engine.StopError{}), want: ExitStopped},
		{name: "missing toolchain", err: &engine.FatalError{Op: "toolchain", Path: "./js_cmp", Err: cause}, want: ExitFatal},
		{name: "explicit code over engine error", err: Wrap(5, "run", &engine.FatalError{Op: "x", Err: cause}), want: 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeOf(tt.err))
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(2, "running", cause)

	assert.Equal(t, "running: boom", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 2, ExitCodeOf(err))

	assert.Equal(t, "only", Wrap(2, "only", nil).Error())
}
