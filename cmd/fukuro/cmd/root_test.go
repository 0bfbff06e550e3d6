package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.NotNil(t, rootCmd)
	assert.Equal(t, "fukuro", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestRootCommandHelp(t *testing.T) {
	cmd := rootCmd

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	cmd.SetArgs([]string{"--help"})
	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "packaging")
	assert.Contains(t, output, "Available Commands:")
	assert.Contains(t, output, "Usage:")
}

func TestRootCommandVersion(t *testing.T) {
	cmd := rootCmd

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)

	// Cobra commands keep flag state between Execute calls; clear the help
	// flag a previous --help execution may have left set.
	if f := cmd.Flags().Lookup("help"); f != nil {
		require.NoError(t, f.Value.Set("false"))
	}

	cmd.SetArgs([]string{"--version"})
	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "fukuro version")
}

func TestRootCommandSubcommands(t *testing.T) {
	subcommands := rootCmd.Commands()
	commandNames := make([]string, len(subcommands))
	for i, subcmd := range subcommands {
		commandNames[i] = subcmd.Name()
	}

	assert.Contains(t, commandNames, "analyze")
	assert.Contains(t, commandNames, "batch")
	assert.Contains(t, commandNames, "serve")
}

func TestRootCommandGlobalFlags(t *testing.T) {
	flags := rootCmd.PersistentFlags()

	for _, name := range []string{"config", "verbose", "log-level", "version"} {
		assert.NotNil(t, flags.Lookup(name), "missing persistent flag %s", name)
	}
	assert.Equal(t, "info", flags.Lookup("log-level").DefValue)
}

func TestGetConfigLoader(t *testing.T) {
	loader := GetConfigLoader()
	require.NotNil(t, loader)
	// Repeated calls return the same loader.
	assert.Same(t, loader, GetConfigLoader())
}
