package commandmodule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/transport"
	"github.com/opsbook/opsbook/internal/transport/transporttest"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

func TestCommandValidateRequiresCmd(t *testing.T) {
	t.Parallel()

	err := New().Validate(module.Params{})

	var missingErr *opserrors.MissingParamError
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, "cmd", missingErr.Param)
}

func TestCommandExecuteAlwaysReportsChanged(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("uptime", transport.Output{Stdout: "up 3 days"})

	res, err := New().Execute(context.Background(), sess, module.Params{"cmd": "uptime"})
	require.NoError(t, err)
	require.True(t, res.Success())
	require.True(t, res.Changed)
	require.Equal(t, []string{"/bin/sh -c 'uptime'"}, sess.Commands)
}

func TestCommandExecuteHonorsShellOverride(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession()

	_, err := New().Execute(context.Background(), sess, module.Params{
		"cmd":   "echo hi",
		"shell": "/bin/bash",
	})
	require.NoError(t, err)
	require.Equal(t, []string{"/bin/bash -c 'echo hi'"}, sess.Commands)
}

func TestCommandExecuteSurfacesNonZeroExit(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("false", transport.Output{ExitCode: 1, Stderr: "nope"})

	res, err := New().Execute(context.Background(), sess, module.Params{"cmd": "false"})
	require.NoError(t, err)
	require.False(t, res.Success())
	require.Equal(t, 1, res.ExitCode)
}

func TestCommandSimulateDoesNotRun(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession()

	res, err := New().Simulate(context.Background(), sess, module.Params{"cmd": "rm -rf /tmp/scratch"})
	require.NoError(t, err)
	require.Empty(t, sess.Commands)

	// No read-only check exists for an arbitrary command; the prediction
	// is optimistic.
	require.True(t, res.Changed)
	require.Contains(t, res.Stdout, "would run")
}
