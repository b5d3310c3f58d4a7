// Package remotefs holds the remote file-state helpers shared by the
// content-deploying modules (copy, template).
package remotefs

import (
	"context"
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/opsbook/opsbook/internal/modules/shellquote"
	"github.com/opsbook/opsbook/internal/transport"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

// HashBytes returns the hex sha256 of data, matching sha256sum output.
func HashBytes(data []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256(data))
}

// FileHash returns the sha256 of the remote file. A non-zero exit from
// sha256sum means the file is absent or unreadable; both count as drift
// rather than an error.
func FileHash(ctx context.Context, sess transport.Session, moduleName, path string) (hash string, exists bool, err error) {
	out, err := sess.Run(ctx, fmt.Sprintf("sha256sum %s", shellquote.Quote(path)))
	if err != nil {
		return "", false, opserrors.NewExecutionError(moduleName, err)
	}
	if out.ExitCode != 0 {
		return "", false, nil
	}

	fields := strings.Fields(out.Stdout)
	if len(fields) == 0 {
		return "", false, nil
	}
	return fields[0], true, nil
}

// ApplyMode chmods the remote path when mode is non-empty.
func ApplyMode(ctx context.Context, sess transport.Session, moduleName, mode, path string) error {
	if mode == "" {
		return nil
	}

	out, err := sess.Run(ctx, fmt.Sprintf("chmod %s %s", shellquote.Quote(mode), shellquote.Quote(path)))
	if err != nil {
		return opserrors.NewExecutionError(moduleName, err)
	}
	if out.ExitCode != 0 {
		return opserrors.NewExecutionError(moduleName, fmt.Errorf("chmod %s: %s", path, strings.TrimSpace(out.Stderr)))
	}
	return nil
}
