package output

import (
	"context"
	"fmt"

	"github.com/charmbracelet/huh/spinner"
)

// SpinnerOption configures a spinner.
type SpinnerOption func(*spinnerConfig)

type spinnerConfig struct {
	title string
}

// WithTitle sets the spinner title.
func WithTitle(title string) SpinnerOption {
	return func(c *spinnerConfig) {
		c.title = title
	}
}

// RunWithSpinner executes an action with a spinner on stderr.
// Without a terminal the action runs directly. The action receives a context
// that is cancelled when ctx is, and RunWithSpinner never returns before the
// action does.
func RunWithSpinner(ctx context.Context, action func(context.Context) error, opts ...SpinnerOption) error {
	cfg := &spinnerConfig{title: "Working..."}
	for _, opt := range opts {
		opt(cfg)
	}

	if !IsTTY() {
		return action(ctx)
	}

	run := startAction(ctx, action)

	var actionErr error
	spinnerErr := spinner.New().
		Title(cfg.title).
		Action(func() {
			actionErr = run.wait(ctx)
		}).
		Run()

	if spinnerErr != nil {
		run.cancel()
		<-run.done
		return fmt.Errorf("spinner error: %w", spinnerErr)
	}
	return actionErr
}

// actionRun is an action running in its own goroutine.
type actionRun struct {
	cancel context.CancelFunc
	done   chan struct{}
	err    error
}

func startAction(ctx context.Context, action func(context.Context) error) *actionRun {
	ctx, cancel := context.WithCancel(ctx)
	r := &actionRun{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(r.done)
		r.err = action(ctx)
	}()
	return r
}

// wait blocks until the action returns. When ctx is done first, the action's
// context is cancelled and wait still blocks until it has returned.
func (r *actionRun) wait(ctx context.Context) error {
	select {
	case <-r.done:
		r.cancel()
		return r.err
	case <-ctx.Done():
		r.cancel()
		<-r.done
		return ctx.Err()
	}
}
