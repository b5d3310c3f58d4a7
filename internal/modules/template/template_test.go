package templatemodule

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/opsbook/opsbook/internal/module"
	"github.com/opsbook/opsbook/internal/modules/remotefs"
	"github.com/opsbook/opsbook/internal/transport"
	"github.com/opsbook/opsbook/internal/transport/transporttest"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

func writeTemplate(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.conf.tmpl")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTemplateValidateRequiresSrcAndDest(t *testing.T) {
	t.Parallel()

	err := New().Validate(module.Params{"dest": "/etc/app.conf"})

	var missingErr *opserrors.MissingParamError
	require.ErrorAs(t, err, &missingErr)
	require.Equal(t, "src", missingErr.Param)
}

func TestTemplateExecuteRendersAndUploads(t *testing.T) {
	t.Parallel()

	src := writeTemplate(t, "listen {{.port}};\n")
	sess := transporttest.NewFakeSession().
		On("sha256sum", transport.Output{ExitCode: 1})

	res, err := New().Execute(context.Background(), sess, module.Params{
		"src":  src,
		"dest": "/etc/nginx/site.conf",
		"vars": map[string]any{"port": 8080},
	})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Len(t, sess.Uploads, 1)
	require.Equal(t, "listen 8080;\n", string(sess.Uploads[0].Content))
}

func TestTemplateExecuteUpToDate(t *testing.T) {
	t.Parallel()

	src := writeTemplate(t, "listen {{.port}};\n")
	rendered := "listen 8080;\n"
	hash := remotefs.HashBytes([]byte(rendered))

	sess := transporttest.NewFakeSession().
		On("sha256sum", transport.Output{Stdout: hash + "  /etc/nginx/site.conf"})

	res, err := New().Execute(context.Background(), sess, module.Params{
		"src":  src,
		"dest": "/etc/nginx/site.conf",
		"vars": map[string]any{"port": 8080},
	})
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Empty(t, sess.Uploads)
}

func TestTemplateExecuteMissingVariable(t *testing.T) {
	t.Parallel()

	src := writeTemplate(t, "listen {{.port}};\n")
	sess := transporttest.NewFakeSession()

	_, err := New().Execute(context.Background(), sess, module.Params{
		"src":  src,
		"dest": "/etc/nginx/site.conf",
		"vars": map[string]any{"host": "example"},
	})

	var execErr *opserrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Contains(t, err.Error(), "render template")
}

func TestTemplateExecuteInvalidSyntax(t *testing.T) {
	t.Parallel()

	src := writeTemplate(t, "listen {{.port\n")
	sess := transporttest.NewFakeSession()

	_, err := New().Execute(context.Background(), sess, module.Params{
		"src":  src,
		"dest": "/etc/nginx/site.conf",
	})

	var execErr *opserrors.ExecutionError
	require.ErrorAs(t, err, &execErr)
	require.Contains(t, err.Error(), "parse template")
}

func TestTemplateSimulateNeverUploads(t *testing.T) {
	t.Parallel()

	src := writeTemplate(t, "listen {{.port}};\n")
	sess := transporttest.NewFakeSession().
		On("sha256sum", transport.Output{ExitCode: 1})

	res, err := New().Simulate(context.Background(), sess, module.Params{
		"src":  src,
		"dest": "/etc/nginx/site.conf",
		"vars": map[string]any{"port": 8080},
	})
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Contains(t, res.Stdout, "would render")
	require.Empty(t, sess.Uploads)
}
