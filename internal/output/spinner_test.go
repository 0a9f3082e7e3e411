package output

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunWithSpinner_NoTTYRunsAction(t *testing.T) {
	if IsTTY() {
		t.Skip("stderr is a terminal")
	}
	want := errors.New("load failed")
	var got context.Context

	err := RunWithSpinner(context.Background(), func(ctx context.Context) error {
		got = ctx
		return want
	}, WithTitle("Validating"))

	assert.ErrorIs(t, err, want)
	assert.NotNil(t, got)
}

func TestActionRunWait(t *testing.T) {
	want := errors.New("boom")
	run := startAction(context.Background(), func(ctx context.Context) error {
		return want
	})

	assert.ErrorIs(t, run.wait(context.Background()), want)
}

func TestActionRunWait_CancelWaitsForAction(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	started := make(chan struct{})
	var returned atomic.Bool

	run := startAction(ctx, func(actionCtx context.Context) error {
		close(started)
		<-actionCtx.Done()
		returned.Store(true)
		return actionCtx.Err()
	})

	<-started
	cancel()

	err := run.wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, returned.Load(), "wait returned before the action finished")
	assert.ErrorIs(t, run.err, context.Canceled)
}
