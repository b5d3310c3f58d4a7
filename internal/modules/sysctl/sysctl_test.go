package sysctlmodule

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/transport"
	"github.com/opsbook/opsbook/internal/transport/transporttest"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

func TestSysctlValidateRequiresAttributeAndValue(t *testing.T) {
	t.Parallel()

	err := New().Validate(module.Params{"attribute": "vm.swappiness"})

	var missingErr *opserrors.MissingParamError
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, "value", missingErr.Param)
}

func TestSysctlExecuteAlreadySet(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("sysctl -n", transport.Output{Stdout: "10\n"})

	res, err := New().Execute(context.Background(), sess,
		module.Params{"attribute": "vm.swappiness", "value": 10})
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Empty(t, sess.CommandsContaining("sysctl -w"))
}

func TestSysctlExecuteAppliesDriftedValue(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("sysctl -n", transport.Output{Stdout: "60\n"}).
		On("sysctl -w", transport.Output{Stdout: "vm.swappiness = 10"})

	res, err := New().Execute(context.Background(), sess,
		module.Params{"attribute": "vm.swappiness", "value": 10})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Len(t, sess.CommandsContaining("sysctl -w"), 1)
}

func TestSysctlExecutePermanentPersistsValue(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("sysctl -n", transport.Output{Stdout: "60\n"}).
		On("sysctl -w", transport.Output{}).
		On("printf", transport.Output{})

	res, err := New().Execute(context.Background(), sess,
		module.Params{"attribute": "vm.swappiness", "value": 10, "permanent": true})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Len(t, sess.CommandsContaining(persistPath), 1)
}

func TestSysctlExecuteUnknownParameter(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("sysctl -n", transport.Output{ExitCode: 255, Stderr: "cannot stat /proc/sys/vm/bogus"})

	_, err := New().Execute(context.Background(), sess,
		module.Params{"attribute": "vm.bogus", "value": 1})

	var execErr *opserrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Contains(t, err.Error(), "unknown kernel parameter")
}

func TestSysctlSimulateNeverWrites(t *testing.T) {
	t.Parallel()

	sess := transporttest.NewFakeSession().
		On("sysctl -n", transport.Output{Stdout: "60\n"})

	res, err := New().Simulate(context.Background(), sess,
		module.Params{"attribute": "vm.swappiness", "value": 10})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Contains(t, res.Stdout, "would set")
	require.Empty(t, sess.CommandsContaining("sysctl -w"))
}
