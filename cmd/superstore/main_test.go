package main

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "superstore", rootCmd.Use)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))

	names := make([]string, 0, len(rootCmd.Commands()))
	for _, cmd := range rootCmd.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Contains(t, names, "serve")
	assert.Contains(t, names, "report")
}

func TestEmbeddedFrontend(t *testing.T) {
	sub, err := fs.Sub(webFiles, "web")
	require.NoError(t, err)

	for _, name := range []string{"index.html", "app.js", "style.css"} {
		file, err := sub.Open(name)
		require.NoError(t, err, name)
		require.NoError(t, file.Close())
	}
}

func TestReportCommandArgs(t *testing.T) {
	require.NotNil(t, reportCmd.Args)

	assert.NoError(t, reportCmd.Args(reportCmd, nil))
	assert.NoError(t, reportCmd.Args(reportCmd, []string{"out"}))
	assert.Error(t, reportCmd.Args(reportCmd, []string{"out", "extra"}))
}
