package copymodule

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules/remotefs"
	"github.com/opsbook/opsbook/internal/modules/shellquote"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

type copyModule struct{}

// New creates the file copy module.
func New() module.Module {
	return &copyModule{}
}

var _ module.Module = (*copyModule)(nil)

func (m *copyModule) Name() string { return "copy" }

func (m *copyModule) Validate(params module.Params) error {
	return params.Require(m.Name(), "src", "dest")
}

func (m *copyModule) Execute(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	dest := params.String("dest")

	data, localHash, err := m.readLocal(params.String("src"))
	if err != nil {
		return nil, err
	}

	remoteHash, remoteExists, err := remotefs.FileHash(ctx, sess, m.Name(), dest)
	if err != nil {
		return nil, err
	}

	if remoteExists && remoteHash == localHash {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("%s is up to date", dest),
			Changed: false,
		}, nil
	}

	if remoteExists && params.Bool("backup", false) {
		backup := fmt.Sprintf("cp -p %s %s", shellquote.Quote(dest), shellquote.Quote(dest+".bak"))
		out, err := sess.Run(ctx, backup)
		if err != nil {
			return nil, opserrors.NewExecutionError(m.Name(), err)
		}
		if out.ExitCode != 0 {
			return &model.CmdResult{Stdout: out.Stdout, Stderr: out.Stderr, ExitCode: out.ExitCode}, nil
		}
	}

	if err := sess.Upload(ctx, bytes.NewReader(data), dest); err != nil {
		return nil, opserrors.NewExecutionError(m.Name(), fmt.Errorf("upload %s: %w", dest, err))
	}

	if err := remotefs.ApplyMode(ctx, sess, m.Name(), params.String("mode"), dest); err != nil {
		return nil, err
	}

	return &model.CmdResult{
		Stdout:  fmt.Sprintf("copied %s", dest),
		Changed: true,
	}, nil
}

func (m *copyModule) Simulate(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	dest := params.String("dest")

	_, localHash, err := m.readLocal(params.String("src"))
	if err != nil {
		return nil, err
	}

	remoteHash, remoteExists, err := remotefs.FileHash(ctx, sess, m.Name(), dest)
	if err != nil {
		return nil, err
	}

	if remoteExists && remoteHash == localHash {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("%s is up to date", dest),
			Changed: false,
		}, nil
	}

	return &model.CmdResult{
		Stdout:  fmt.Sprintf("would copy %s", dest),
		Changed: true,
	}, nil
}

func (m *copyModule) readLocal(src string) ([]byte, string, error) {
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, "", opserrors.NewExecutionError(m.Name(), fmt.Errorf("read source: %w", err))
	}
	return data, remotefs.HashBytes(data), nil
}
