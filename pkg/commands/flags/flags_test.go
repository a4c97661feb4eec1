package flags

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMust(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "x", MustString("x", errors.New("ignored")))
	assert.True(t, MustBool(true, nil))
}

func TestAddress(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test", RunE: func(*cobra.Command, []string) error { return nil }}
	Address(cmd, true)

	f := cmd.Flags().Lookup("address")
	require.NotNil(t, f)
	assert.Equal(t, "a", f.Shorthand)

	cmd.SetArgs([]string{})
	err := cmd.Execute()
	require.ErrorContains(t, err, `required flag(s) "address" not set`)
}

func TestNetworkAndJSON(t *testing.T) {
	t.Parallel()

	cmd := &cobra.Command{Use: "test"}
	Network(cmd, "Ring name")
	JSON(cmd)

	n := cmd.Flags().Lookup("network")
	require.NotNil(t, n)
	assert.Equal(t, "n", n.Shorthand)
	assert.Equal(t, "Ring name", n.Usage)

	j := cmd.Flags().Lookup("json")
	require.NotNil(t, j)
	assert.Equal(t, "false", j.DefValue)
}
