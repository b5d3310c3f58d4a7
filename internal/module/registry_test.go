package module

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

type stubModule struct {
	name string
}

func (m *stubModule) Name() string                { return m.name }
func (m *stubModule) Validate(Params) error       { return nil }
func (m *stubModule) Execute(context.Context, transport.Session, Params) (*model.CmdResult, error) {
	return &model.CmdResult{}, nil
}
func (m *stubModule) Simulate(context.Context, transport.Session, Params) (*model.CmdResult, error) {
	return &model.CmdResult{}, nil
}

func TestRegistryRegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubModule{name: "apt"}))

	m, err := registry.Get("apt")
	require.NoError(t, err)
	require.Equal(t, "apt", m.Name())
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.NoError(t, registry.Register(&stubModule{name: "copy"}))

	err := registry.Register(&stubModule{name: "copy"})
	var moduleErr *opserrors.ModuleError
	require.ErrorAs(t, err, &moduleErr)
	require.Equal(t, "copy", moduleErr.Module)
}

func TestRegistryRejectsNilAndUnnamed(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	require.Error(t, registry.Register(nil))
	require.Error(t, registry.Register(&stubModule{name: ""}))
}

func TestRegistryUnknownModule(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	_, err := registry.Get("nope")

	var moduleErr *opserrors.ModuleError
	require.ErrorAs(t, err, &moduleErr)
	require.Equal(t, "nope", moduleErr.Module)
	require.Contains(t, err.Error(), "unknown module")
}

func TestRegistryNamesSorted(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	for _, name := range []string{"sysctl", "apt", "copy"} {
		require.NoError(t, registry.Register(&stubModule{name: name}))
	}

	require.Equal(t, []string{"apt", "copy", "sysctl"}, registry.Names())
}
