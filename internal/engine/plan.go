package engine

import (
	"fmt"

	"github.com/opsbook/opsbook/internal/config"
	"github.com/opsbook/opsbook/internal/module"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

// BoundTask is a playbook task resolved against the module registry.
type BoundTask struct {
	Task   config.Task
	Module module.Module
	Params module.Params
}

// Plan is the playbook with every task bound to its handler. Binding
// happens once at load, so a single unknown module name fails the whole
// run before any host is touched.
type Plan struct {
	Tasks []BoundTask
}

// NewPlan resolves every task's module name through the registry.
func NewPlan(pb *config.Playbook, registry *module.Registry) (*Plan, error) {
	if pb == nil {
		return nil, opserrors.NewValidationError("playbook", "playbook is nil", nil)
	}
	if registry == nil {
		return nil, opserrors.NewValidationError("registry", "registry is nil", nil)
	}

	plan := &Plan{Tasks: make([]BoundTask, 0, len(pb.Tasks))}
	for i, task := range pb.Tasks {
		handler, err := registry.Get(task.Module)
		if err != nil {
			return nil, opserrors.NewModuleError(task.Module,
				fmt.Errorf("task %d: unknown module: %w", i+1, err))
		}

		params := module.Params(task.Params)
		if params == nil {
			params = module.Params{}
		}

		plan.Tasks = append(plan.Tasks, BoundTask{Task: task, Module: handler, Params: params})
	}

	return plan, nil
}
