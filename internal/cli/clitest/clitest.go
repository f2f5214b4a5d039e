// Package clitest runs spendwatch subcommands against an in-memory ledger.
package clitest

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/GustavoCaso/spendwatch/internal/cli"
	"github.com/GustavoCaso/spendwatch/internal/config"
)

// NewEnv returns an Env backed by memory storage that discards notifications.
func NewEnv(t *testing.T) *cli.Env {
	t.Helper()

	conf := config.Default()
	conf.Logger.Output = "discard"
	conf.Storage.Backend = "memory"
	conf.Notify.Channel = "none"

	env := &cli.Env{}
	require.NoError(t, env.Setup(t.Context(), conf, io.Discard))
	t.Cleanup(func() { _ = env.Close() })
	return env
}

// Execute runs cmd with args and returns what it wrote.
func Execute(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	cmd.SilenceUsage = true

	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}
