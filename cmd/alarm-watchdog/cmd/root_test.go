package cmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestRootCommand_Subcommands verifies the subcommands and their flags are registered.
func TestRootCommand_Subcommands(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"run", "status"} {
		sub, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}

	for _, flag := range []string{"listen", "journal", "build-mode", "timeout"} {
		require.NotNil(t, runCmd.Flags().Lookup(flag), flag)
	}

	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
}
