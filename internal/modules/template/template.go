package templatemodule

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/opsbook/opsbook/internal/model"
	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules/remotefs"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

type templateModule struct{}

// New creates the templated file module.
func New() module.Module {
	return &templateModule{}
}

var _ module.Module = (*templateModule)(nil)

func (m *templateModule) Name() string { return "template" }

func (m *templateModule) Validate(params module.Params) error {
	return params.Require(m.Name(), "src", "dest")
}

func (m *templateModule) Execute(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	dest := params.String("dest")

	rendered, renderedHash, err := m.render(params)
	if err != nil {
		return nil, err
	}

	remoteHash, remoteExists, err := remotefs.FileHash(ctx, sess, m.Name(), dest)
	if err != nil {
		return nil, err
	}

	if remoteExists && remoteHash == renderedHash {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("%s is up to date", dest),
			Changed: false,
		}, nil
	}

	if err := sess.Upload(ctx, bytes.NewReader(rendered), dest); err != nil {
		return nil, opserrors.NewExecutionError(m.Name(), fmt.Errorf("upload %s: %w", dest, err))
	}

	if err := remotefs.ApplyMode(ctx, sess, m.Name(), params.String("mode"), dest); err != nil {
		return nil, err
	}

	return &model.CmdResult{
		Stdout:  fmt.Sprintf("rendered %s", dest),
		Changed: true,
	}, nil
}

func (m *templateModule) Simulate(ctx context.Context, sess transport.Session, params module.Params) (*model.CmdResult, error) {
	dest := params.String("dest")

	// Rendering is local and read-only; dry-run predicts from the rendered
	// content the same way Execute decides.
	_, renderedHash, err := m.render(params)
	if err != nil {
		return nil, err
	}

	remoteHash, remoteExists, err := remotefs.FileHash(ctx, sess, m.Name(), dest)
	if err != nil {
		return nil, err
	}

	if remoteExists && remoteHash == renderedHash {
		return &model.CmdResult{
			Stdout:  fmt.Sprintf("%s is up to date", dest),
			Changed: false,
		}, nil
	}

	return &model.CmdResult{
		Stdout:  fmt.Sprintf("would render %s", dest),
		Changed: true,
	}, nil
}

func (m *templateModule) render(params module.Params) ([]byte, string, error) {
	src := params.String("src")

	content, err := os.ReadFile(src)
	if err != nil {
		return nil, "", opserrors.NewExecutionError(m.Name(), fmt.Errorf("read template: %w", err))
	}

	tmpl, err := template.New(filepath.Base(src)).Option("missingkey=error").Parse(string(content))
	if err != nil {
		return nil, "", opserrors.NewExecutionError(m.Name(), fmt.Errorf("parse template: %w", err))
	}

	vars := params.Map("vars")

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return nil, "", opserrors.NewExecutionError(m.Name(), fmt.Errorf("render template: %w", err))
	}

	rendered := buf.Bytes()
	return rendered, remotefs.HashBytes(rendered), nil
}
