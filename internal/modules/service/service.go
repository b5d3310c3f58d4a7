package servicemodule

import (
	"context"
	"fmt"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules/shellquote"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

const (
	stateStarted   = "started"
	stateStopped   = "stopped"
	stateRestarted = "restarted"
)

type serviceModule struct{}

// New creates the systemd service state module.
func New() module.Module {
	return &serviceModule{}
}

var _ module.Module = (*serviceModule)(nil)

func (m *serviceModule) Name() string { return "service" }

func (m *serviceModule) Validate(params module.Params) error {
	if err := params.Require(m.Name(), "name", "state"); err != nil {
		return err
	}

	switch params.String("state") {
	case stateStarted, stateStopped, stateRestarted:
		return nil
	default:
		return opserrors.NewValidationError("state",
			fmt.Sprintf("must be %q, %q, or %q", stateStarted, stateStopped, stateRestarted), nil)
	}
}

func (m *serviceModule) Execute(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	name := params.String("name")
	state := params.String("state")

	// restart has no meaningful pre-check; it always acts.
	if state == stateRestarted {
		return m.runAction(ctx, sess, "restart", name)
	}

	active, err := m.active(ctx, sess, name)
	if err != nil {
		return nil, err
	}

	if (state == stateStarted) == active {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("service %s already %s", name, state),
			Changed: false,
		}, nil
	}

	action := "start"
	if state == stateStopped {
		action = "stop"
	}
	return m.runAction(ctx, sess, action, name)
}

func (m *serviceModule) Simulate(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	name := params.String("name")
	state := params.String("state")

	if state == stateRestarted {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("would restart service %s", name),
			Changed: true,
		}, nil
	}

	active, err := m.active(ctx, sess, name)
	if err != nil {
		return nil, err
	}

	drift := (state == stateStarted) != active
	msg := fmt.Sprintf("service %s already %s", name, state)
	if drift {
		if state == stateStarted {
			msg = fmt.Sprintf("would start service %s", name)
		} else {
			msg = fmt.Sprintf("would stop service %s", name)
		}
	}

	return &model.CmdResult{Stdout: msg, Changed: drift}, nil
}

func (m *serviceModule) runAction(ctx context.Context, sess transport.Session, action, name string) (*model.CmdResult, error) {
	out, err := sess.Run(ctx, fmt.Sprintf("systemctl %s %s", action, shellquote.Quote(name)))
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

// active reports whether the unit is running. systemctl is-active exits
// non-zero for inactive or unknown units; both count as not running.
func (m *serviceModule) active(ctx context.Context, sess transport.Session, name string) (bool, error) {
	out, err := sess.Run(ctx, fmt.Sprintf("systemctl is-active %s", shellquote.Quote(name)))
	if err != nil {
		return false, opserrors.NewExecutionError(m.Name(), err)
	}
	return out.ExitCode == 0, nil
}
