package sysctlmodule

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules/shellquote"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

// persistPath collects kernel parameters applied with permanent=true.
const persistPath = "/etc/sysctl.d/99-opsbook.conf"

type sysctlModule struct{}

// New creates the kernel parameter module.
func New() module.Module {
	return &sysctlModule{}
}

var _ module.Module = (*sysctlModule)(nil)

func (m *sysctlModule) Name() string { return "sysctl" }

func (m *sysctlModule) Validate(params module.Params) error {
	return params.Require(m.Name(), "attribute", "value")
}

func (m *sysctlModule) Execute(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	attr := params.String("attribute")
	value := params.String("value")

	current, err := m.current(ctx, sess, attr)
	if err != nil {
		return nil, err
	}

	if current == value {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("%s already set to %s", attr, value),
			Changed: false,
		}, nil
	}

	out, err := sess.Run(ctx, fmt.Sprintf("sysctl -w %s", shellquote.Quote(attr+"="+value)))
	if err != nil {
		return nil, opserrors.NewExecutionError(m.Name(), err)
	}
	if out.ExitCode != 0 {
		return &model.CmdResult{
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
			ExitCode: out.ExitCode,
		}, nil
	}

	if params.Bool("permanent", false) {
		line := fmt.Sprintf("%s = %s", attr, value)
		persist := fmt.Sprintf("printf '%%s\\n' %s >> %s", shellquote.Quote(line), persistPath)
		persistOut, err := sess.Run(ctx, persist)
		if err != nil {
			return nil, opserrors.NewExecutionError(m.Name(), err)
		}
		if persistOut.ExitCode != 0 {
			return &model.CmdResult{
				Stdout:   persistOut.Stdout,
				Stderr:   persistOut.Stderr,
				ExitCode: persistOut.ExitCode,
			}, nil
		}
	}

	return &model.CmdResult{Stdout: out.Stdout, Changed: true}, nil
}

func (m *sysctlModule) Simulate(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	attr := params.String("attribute")
	value := params.String("value")

	current, err := m.current(ctx, sess, attr)
	if err != nil {
		return nil, err
	}

	if current == value {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("%s already set to %s", attr, value),
			Changed: false,
		}, nil
	}

	return &model.CmdResult{
		Stdout:  fmt.Sprintf("would set %s from %s to %s", attr, current, value),
		Changed: true,
	}, nil
}

func (m *sysctlModule) current(ctx context.Context, sess transport.Session, attr string) (string, error) {
	out, err := sess.Run(ctx, fmt.Sprintf("sysctl -n %s", shellquote.Quote(attr)))
	if err != nil {
		return "", opserrors.NewExecutionError(m.Name(), err)
	}
	if out.ExitCode != 0 {
		return "", opserrors.NewExecutionError(m.Name(), fmt.Errorf("unknown kernel parameter %q: %s", attr, strings.TrimSpace(out.Stderr)))
	}
	return strings.TrimSpace(out.Stdout), nil
}
