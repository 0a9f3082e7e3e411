package cmdutil

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safespot/droidcfg/internal/output"
)

func TestOutputFlags_AddTo(t *testing.T) {
	var of OutputFlags
	cmd := &cobra.Command{Use: "test"}
	of.AddTo(cmd)

	flag := cmd.Flags().Lookup("output")
	require.NotNil(t, flag)
	assert.Equal(t, "o", flag.Shorthand)
	assert.Equal(t, "yaml", flag.DefValue)

	require.NoError(t, cmd.Flags().Parse([]string{"-o", "table"}))
	format, err := of.Parsed()
	require.NoError(t, err)
	assert.Equal(t, output.FormatTable, format)

	of.Format = "xml"
	_, err = of.Parsed()
	assert.Error(t, err)
}

func TestWriteFlags_AddTo(t *testing.T) {
	var wf WriteFlags
	cmd := &cobra.Command{Use: "test"}
	wf.AddTo(cmd, "build.gradle.kts", "Output file")

	out := cmd.Flags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "build.gradle.kts", out.DefValue)

	force := cmd.Flags().Lookup("force")
	require.NotNil(t, force)
	assert.Equal(t, "f", force.Shorthand)
	assert.Equal(t, "false", force.DefValue)
}

func TestResolveProfilePath(t *testing.T) {
	assert.Equal(t, "release.yaml", ResolveProfilePath([]string{"release.yaml"}, "droidcfg.yaml"))
	assert.Equal(t, "droidcfg.yaml", ResolveProfilePath(nil, "droidcfg.yaml"))
}
