package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"

	"github.com/opsbook/opsbook/internal/config"
	opserrors "github.com/opsbook/opsbook/pkg/errors"
)

// defaultKeyNames are probed under ~/.ssh when the host declares no key file.
var defaultKeyNames = []string{"id_rsa", "id_ecdsa", "id_ed25519"}

// SSHDialer opens SSH sessions to inventory hosts.
type SSHDialer struct {
	ConnectTimeout time.Duration
}

// NewSSHDialer returns a dialer with the given connection timeout.
func NewSSHDialer(connectTimeout time.Duration) *SSHDialer {
	return &SSHDialer{ConnectTimeout: connectTimeout}
}

var _ Dialer = (*SSHDialer)(nil)

// Dial opens a session to host using password, key-file, default-key, or
// agent authentication, in that order of preference.
func (d *SSHDialer) Dial(ctx context.Context, host config.Host) (Session, error) {
	authMethods, err := buildAuthMethods(host)
	if err != nil {
		return nil, opserrors.NewConnectionError(host.Name, err)
	}

	username := host.User
	if username == "" {
		username = currentUser()
	}

	clientConfig := &ssh.ClientConfig{
		User:            username,
		Auth:            authMethods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         d.ConnectTimeout,
	}

	port := host.Port
	if port == 0 {
		port = 22
	}
	addr := net.JoinHostPort(host.Address, strconv.Itoa(port))

	netDialer := net.Dialer{Timeout: d.ConnectTimeout}
	conn, err := netDialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, opserrors.NewConnectionError(host.Name, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return nil, opserrors.NewConnectionError(host.Name, err)
	}

	return &sshSession{client: ssh.NewClient(sshConn, chans, reqs)}, nil
}

func buildAuthMethods(host config.Host) ([]ssh.AuthMethod, error) {
	var authMethods []ssh.AuthMethod

	if host.Password != "" {
		authMethods = append(authMethods, ssh.Password(host.Password))
	}

	if host.KeyFile != "" {
		signer, err := loadSigner(host.KeyFile)
		if err != nil {
			return nil, err
		}
		authMethods = append(authMethods, ssh.PublicKeys(signer))
	} else {
		for _, name := range defaultKeyNames {
			signer, err := loadSigner(filepath.Join(homeSSHDir(), name))
			if err != nil {
				continue
			}
			authMethods = append(authMethods, ssh.PublicKeys(signer))
			break
		}
	}

	if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
		if agentConn, err := net.Dial("unix", sock); err == nil {
			authMethods = append(authMethods, ssh.PublicKeysCallback(agent.NewClient(agentConn).Signers))
		}
	}

	if len(authMethods) == 0 {
		return nil, fmt.Errorf("no authentication methods available")
	}

	return authMethods, nil
}

func loadSigner(path string) (ssh.Signer, error) {
	key, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read key %s: %w", path, err)
	}
	signer, err := ssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse key %s: %w", path, err)
	}
	return signer, nil
}

func homeSSHDir() string {
	usr, err := user.Current()
	if err != nil {
		return ".ssh"
	}
	return filepath.Join(usr.HomeDir, ".ssh")
}

func currentUser() string {
	if usr, err := user.Current(); err == nil && usr.Username != "" {
		return usr.Username
	}
	return "root"
}

type sshSession struct {
	client *ssh.Client
}

var _ Session = (*sshSession)(nil)

func (s *sshSession) Run(ctx context.Context, cmd string) (*Output, error) {
	sess, err := s.client.NewSession()
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	var stdout, stderr bytes.Buffer
	sess.Stdout = &stdout
	sess.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- sess.Run(cmd) }()

	select {
	case <-ctx.Done():
		// Closing the session unblocks the remote command; the goroutine
		// drains on its buffered channel.
		sess.Close()
		return nil, ctx.Err()
	case err := <-done:
		out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}
		if err != nil {
			var exitErr *ssh.ExitError
			if errors.As(err, &exitErr) {
				out.ExitCode = exitErr.ExitStatus()
				return out, nil
			}
			return nil, err
		}
		return out, nil
	}
}

func (s *sshSession) Upload(ctx context.Context, content io.Reader, remotePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sftpClient, err := sftp.NewClient(s.client)
	if err != nil {
		return err
	}
	defer sftpClient.Close()

	dstFile, err := sftpClient.Create(remotePath)
	if err != nil {
		return err
	}
	defer dstFile.Close()

	_, err = io.Copy(dstFile, content)
	return err
}

func (s *sshSession) Close() error {
	return s.client.Close()
}
