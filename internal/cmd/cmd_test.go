package cmd

import (
	"bytes"
	"testing"

	"github.com/safespot/droidcfg/internal/profile"
	"github.com/safespot/droidcfg/internal/testutil"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	root.SetArgs(args)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	return out.String(), err
}

func isolate(t *testing.T) string {
	t.Helper()
	return testutil.IsolateEnv(t)
}

func appProfile() *profile.Profile {
	return testutil.AppProfile()
}

func writeApp(t *testing.T, p *profile.Profile) string {
	t.Helper()
	return testutil.FlutterApp(t, p, testutil.PubspecVersion)
}
