package aptmodule

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

const (
	statePresent = "present"
	stateAbsent  = "absent"
)

type aptModule struct{}

// New creates the apt package-presence module.
func New() module.Module {
	return &aptModule{}
}

var _ module.Module = (*aptModule)(nil)

func (m *aptModule) Name() string { return "apt" }

func (m *aptModule) Validate(params module.Params) error {
	if err := params.Require(m.Name(), "name"); err != nil {
		return err
	}

	state := params.StringDefault("state", statePresent)
	if state != statePresent && state != stateAbsent {
		return opserrors.NewValidationError("state", fmt.Sprintf("must be %q or %q", statePresent, stateAbsent), nil)
	}
	return nil
}

func (m *aptModule) Execute(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	pkg := params.String("name")
	state := params.StringDefault("state", statePresent)

	installed, err := m.installed(ctx, sess, pkg)
	if err != nil {
		return nil, err
	}

	if (state == statePresent) == installed {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("package %s already %s", pkg, state),
			Changed: false,
		}, nil
	}

	var cmd string
	if state == statePresent {
		cmd = fmt.Sprintf("DEBIAN_FRONTEND=noninteractive apt-get install -y %s", shellquote.Quote(pkg))
	} else {
		cmd = fmt.Sprintf("DEBIAN_FRONTEND=noninteractive apt-get remove -y %s", shellquote.Quote(pkg))
	}

	out, err := sess.Run(ctx, cmd)
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

func (m *aptModule) Simulate(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	pkg := params.String("name")
	state := params.StringDefault("state", statePresent)

	installed, err := m.installed(ctx, sess, pkg)
	if err != nil {
		return nil, err
	}

	drift := (state == statePresent) != installed
	msg := fmt.Sprintf("package %s already %s", pkg, state)
	if drift {
		if state == statePresent {
			msg = fmt.Sprintf("would install package %s", pkg)
		} else {
			msg = fmt.Sprintf("would remove package %s", pkg)
		}
	}

	return &model.CmdResult{Stdout: msg, Changed: drift}, nil
}

// installed queries dpkg for the package's install status. A non-zero exit
// from dpkg-query means the package is unknown to dpkg, not an error.
func (m *aptModule) installed(ctx context.Context, sess transport.Session, pkg string) (bool, error) {
	cmd := fmt.Sprintf("dpkg-query -W -f='${Status}' %s", shellquote.Quote(pkg))
	out, err := sess.Run(ctx, cmd)
	if err != nil {
		return false, opserrors.NewExecutionError(m.Name(), err)
	}
	if out.ExitCode != 0 {
		return false, nil
	}
	return strings.Contains(out.Stdout, "install ok installed"), nil
}
