package commandmodule

import (
	"context"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules/shellquote"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

const defaultShell = "/bin/sh"

type commandModule struct{}

// New creates the shell command module.
func New() module.Module {
	return &commandModule{}
}

var _ module.Module = (*commandModule)(nil)

func (m *commandModule) Name() string { return "command" }

func (m *commandModule) Validate(params module.Params) error {
	return params.Require(m.Name(), "cmd")
}

// Execute runs the command unconditionally. There is no generic pre-check
// for an arbitrary shell command, so a successful run always reports
// Changed=true and a non-zero exit fails the task.
func (m *commandModule) Execute(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	shell := params.StringDefault("shell", defaultShell)
	out, err := sess.Run(ctx, shell+" -c "+shellquote.Quote(params.String("cmd")))
	if err != nil {
		return nil, opserrors.NewExecutionError(m.Name(), err)
	}

	return &model.CmdResult{
		Stdout:   out.Stdout,
		Stderr:   out.Stderr,
		ExitCode: out.ExitCode,
		Changed:  out.ExitCode == 0,
	}, nil
}

// Simulate never runs the command. Without a read-only check the outcome is
// unknown; the prediction is optimistic and reports Changed=true.
func (m *commandModule) Simulate(_ context.Context, _ transport.Session, params module.Params) (*model.CmdResult, error) {
	return &model.CmdResult{
		Stdout:  "would run: " + params.String("cmd"),
		Changed: true,
	}, nil
}
