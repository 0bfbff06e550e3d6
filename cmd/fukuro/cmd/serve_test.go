package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServeCommand(t *testing.T) {
	assert.NotNil(t, serveCmd)
	assert.Equal(t, "serve", serveCmd.Name())
	for _, name := range []string{
		"host", "port", "cors-origin", "max-upload-size", "timeout", "shutdown-timeout",
		"rate-limit-enabled", "requests-per-minute", "requests-per-hour",
		"max-requests-per-day", "max-data-per-day",
	} {
		assert.NotNil(t, serveCmd.Flags().Lookup(name), "missing flag %s", name)
	}
	assert.Equal(t, "8080", serveCmd.Flags().Lookup("port").DefValue)
	assert.Equal(t, "localhost", serveCmd.Flags().Lookup("host").DefValue)
}
