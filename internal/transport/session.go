package transport

import (
	"context"
	"io"

	"github.com/opsbook/opsbook/internal/config"
)

// Output holds the raw result of one remote command.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Session is the capability surface modules receive. It can run a remote
// command and transfer file content to a remote path; modules must not
// assume anything beyond these two operations.
type Session interface {
	// Run executes cmd on the remote host. A non-zero exit code is not an
	// error; err is reserved for transport-level failures.
	Run(ctx context.Context, cmd string) (*Output, error)

	// Upload writes content to remotePath on the remote host.
	Upload(ctx context.Context, content io.Reader, remotePath string) error

	Close() error
}

// Dialer opens sessions to inventory hosts. The engine holds a single
// in-flight session per host, never shared or pooled.
type Dialer interface {
	Dial(ctx context.Context, host config.Host) (Session, error)
}
