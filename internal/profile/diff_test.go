package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff(t *testing.T) {
	t.Run("equal profiles", func(t *testing.T) {
		out, err := Diff(Default(), Default(), DiffOptions{})
		require.NoError(t, err)
		assert.Empty(t, out)
	})

	t.Run("changed level", func(t *testing.T) {
		changed := Default()
		changed.Android.CompileSdk = 36

		out, err := Diff(Default(), changed, DiffOptions{FromName: "a.yaml", ToName: "b.yaml"})
		require.NoError(t, err)
		assert.Contains(t, out, "compileSdk")
		assert.Contains(t, out, "36")
	})
}
