package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"training-weather/shared/config"
	"training-weather/shared/monitoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type summary string

func (s summary) GetSummary() string { return string(s) }

type fakeAgent struct {
	err       error
	partial   error
	gotRunID  string
	initCalls int
}

func (f *fakeAgent) Name() string { return "Fake Agent" }

func (f *fakeAgent) Initialize() error {
	f.initCalls++
	return nil
}

func (f *fakeAgent) RunOnce(ctx context.Context, events *AgentEvents) error {
	f.gotRunID = RunID(ctx)
	if f.partial != nil {
		events.OnPartialFailure(f.partial, time.Millisecond)
	}
	if f.err != nil {
		return f.err
	}
	events.OnSuccess(summary("all good"), time.Millisecond)
	return nil
}

func TestRunOnceSuccess(t *testing.T) {
	monitor := monitoring.NewMonitor(nil)
	agent := &fakeAgent{partial: errors.New("briefing skipped")}
	s := New(config.Default(), agent, monitor)

	require.NoError(t, s.RunOnce(context.Background()))

	assert.NotEmpty(t, agent.gotRunID)
	assert.True(t, monitor.IsHealthy())
	assert.Contains(t, monitor.GetStatusSummary(), "Last run")
}

func TestRunOnceFailure(t *testing.T) {
	monitor := monitoring.NewMonitor(nil)
	agent := &fakeAgent{err: errors.New("provider down")}
	s := New(config.Default(), agent, monitor)

	err := s.RunOnce(context.Background())

	require.Error(t, err)
	assert.ErrorContains(t, err, "Fake Agent run")
	assert.ErrorContains(t, err, "provider down")
	assert.False(t, monitor.IsHealthy())
}

func TestRunIDFromContext(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-42")
	assert.Equal(t, "run-42", RunID(ctx))

	a, b := RunID(context.Background()), RunID(context.Background())
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 0 15 * * *"))
	assert.NoError(t, ValidateSchedule("@hourly"))
	assert.Error(t, ValidateSchedule("0 15 * * *"))
	assert.Error(t, ValidateSchedule("not a schedule"))
}
