package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bartekus/conform/internal/metadata"
	"github.com/bartekus/conform/internal/outcome"
)

func TestStops(t *testing.T) {
	tests := []struct {
		name    string
		policy  Policy
		outcome outcome.Outcome
		phase   outcome.Phase
		stop    bool
		message string
	}{
		{name: "zero policy", outcome: outcome.Crash},
		{name: "lexer", policy: Policy{OnLexerCrash: true}, outcome: outcome.LexingFailure, stop: true, message: "Stopping due to lexer crash"},
		{name: "lexer ignores run", policy: Policy{OnLexerCrash: true}, outcome: outcome.RunFailure},
		{name: "crash on compile", policy: Policy{OnTestCrash: true}, outcome: outcome.CompilationFailure, stop: true, message: "Stopping due to test crash"},
		{name: "crash on signal", policy: Policy{OnTestCrash: true}, outcome: outcome.Crash, stop: true, message: "Stopping due to test crash"},
		{name: "fail", policy: Policy{OnTestFail: true}, outcome: outcome.RunFailure, stop: true, message: "Stopping due to test failure"},
		{name: "fail on run crash", policy: Policy{OnTestFail: true}, outcome: outcome.Crash, phase: outcome.PhaseRun, stop: true, message: "Stopping due to test failure"},
		{name: "fail ignores build crash", policy: Policy{OnTestFail: true}, outcome: outcome.Crash, phase: outcome.PhaseBuild},
		{name: "fail ignores timeout", policy: Policy{OnTestFail: true}, outcome: outcome.Timeout},
		{name: "pass never stops", policy: Policy{OnLexerCrash: true, OnTestCrash: true, OnTestFail: true}, outcome: outcome.Pass},
		{name: "negative pass never stops", policy: Policy{OnTestFail: true}, outcome: outcome.PassNegative},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, stop := tt.policy.Stops(outcome.Result{Outcome: tt.outcome, Phase: tt.phase})
			assert.Equal(t, tt.stop, stop)
			assert.Equal(t, tt.message, msg)
		})
	}
}

func TestNew_When(t *testing.T) {
	p, err := New(false, false, false, `outcome == "Timeout" && "BigInt" in features`)
	require.NoError(t, err)
	assert.True(t, p.Enabled())

	r := outcome.Result{Outcome: outcome.Timeout, Metadata: metadata.Parse("features: [BigInt]")}
	msg, stop := p.Stops(r)
	assert.True(t, stop)
	assert.Contains(t, msg, "stop condition")

	r.Metadata = metadata.Metadata{}
	_, stop = p.Stops(r)
	assert.False(t, stop)
}

func TestNew_WhenSignal(t *testing.T) {
	p, err := New(false, false, false, `signal == "SIGABRT" && phase == "run"`)
	require.NoError(t, err)

	_, stop := p.Stops(outcome.Result{Outcome: outcome.RunFailure, Phase: outcome.PhaseRun, Signal: "SIGABRT"})
	assert.True(t, stop)
	_, stop = p.Stops(outcome.Result{Outcome: outcome.RunFailure, Phase: outcome.PhaseRun, ExitCode: 1})
	assert.False(t, stop)
}

func TestNew_InvalidWhen(t *testing.T) {
	_, err := New(false, false, false, "exit_code +")
	require.Error(t, err)

	_, err = New(false, false, false, `outcome + 1`)
	require.Error(t, err)

	_, err = New(false, false, false, `path`)
	require.Error(t, err, "non-boolean expressions are rejected")
}

func TestEnabled(t *testing.T) {
	var nilPolicy *Policy
	assert.False(t, nilPolicy.Enabled())

	p, err := New(false, false, false, "  ")
	require.NoError(t, err)
	assert.False(t, p.Enabled())

	p, err = New(false, true, false, "")
	require.NoError(t, err)
	assert.True(t, p.Enabled())
}
