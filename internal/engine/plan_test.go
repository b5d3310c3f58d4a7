package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsbook/opsbook/internal/config"
	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

func TestNewPlanBindsTasksInOrder(t *testing.T) {
	t.Parallel()

	registry, err := modules.Builtin()
	require.NoError(t, err)

	pb := &config.Playbook{Tasks: []config.Task{
		{Module: "apt", Params: map[string]any{"name": "nginx"}},
		{Module: "service", Params: map[string]any{"name": "nginx", "state": "started"}},
	}}

	plan, err := NewPlan(pb, registry)
	require.NoError(t, err)
	require.Len(t, plan.Tasks, 2)
	require.Equal(t, "apt", plan.Tasks[0].Module.Name())
	require.Equal(t, "service", plan.Tasks[1].Module.Name())
	require.Equal(t, module.Params{"name": "nginx"}, plan.Tasks[0].Params)
}

func TestNewPlanFailsFastOnUnknownModule(t *testing.T) {
	t.Parallel()

	registry, err := modules.Builtin()
	require.NoError(t, err)

	pb := &config.Playbook{Tasks: []config.Task{
		{Module: "apt", Params: map[string]any{"name": "nginx"}},
		{Module: "yum", Params: map[string]any{"name": "nginx"}},
	}}

	_, err = NewPlan(pb, registry)

	var moduleErr *opserrors.ModuleError
	require.ErrorAs(t, err, &moduleErr)
	require.Equal(t, "yum", moduleErr.Module)
	require.Contains(t, err.Error(), "unknown module")
}

func TestNewPlanDefaultsNilParams(t *testing.T) {
	t.Parallel()

	registry, err := modules.Builtin()
	require.NoError(t, err)

	pb := &config.Playbook{Tasks: []config.Task{{Module: "command"}}}

	plan, err := NewPlan(pb, registry)
	require.NoError(t, err)
	require.NotNil(t, plan.Tasks[0].Params)
}
