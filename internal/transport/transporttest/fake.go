// Package transporttest provides scripted in-memory implementations of the
// transport boundary for engine and module tests.
package transporttest

import (
	"context"
	"io"
	"strings"

	"github.com/opsbook/opsbook/internal/config"
	"github.com/opsbook/opsbook/internal/transport"
)

type rule struct {
	substr string
	output transport.Output
	err    error
}

// Upload records one file transfer made through a fake session.
type Upload struct {
	RemotePath string
	Content    []byte
}

// FakeSession replays scripted outputs and records every command and upload.
type FakeSession struct {
	rules []rule

	Commands []string
	Uploads  []Upload
	Closed   bool
}

// NewFakeSession returns an empty fake session. Commands with no matching
// rule succeed with an empty output.
func NewFakeSession() *FakeSession {
	return &FakeSession{}
}

var _ transport.Session = (*FakeSession)(nil)

// On registers an output for commands containing substr. Rules are matched
// in registration order, first match wins.
func (s *FakeSession) On(substr string, output transport.Output) *FakeSession {
	s.rules = append(s.rules, rule{substr: substr, output: output})
	return s
}

// OnError registers a transport-level failure for commands containing substr.
func (s *FakeSession) OnError(substr string, err error) *FakeSession {
	s.rules = append(s.rules, rule{substr: substr, err: err})
	return s
}

func (s *FakeSession) Run(_ context.Context, cmd string) (*transport.Output, error) {
	s.Commands = append(s.Commands, cmd)

	for _, r := range s.rules {
		if strings.Contains(cmd, r.substr) {
			if r.err != nil {
				return nil, r.err
			}
			output := r.output
			return &output, nil
		}
	}

	return &transport.Output{}, nil
}

func (s *FakeSession) Upload(_ context.Context, content io.Reader, remotePath string) error {
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.Uploads = append(s.Uploads, Upload{RemotePath: remotePath, Content: data})
	return nil
}

func (s *FakeSession) Close() error {
	s.Closed = true
	return nil
}

// CommandsContaining returns the recorded commands matching substr.
func (s *FakeSession) CommandsContaining(substr string) []string {
	var matched []string
	for _, cmd := range s.Commands {
		if strings.Contains(cmd, substr) {
			matched = append(matched, cmd)
		}
	}
	return matched
}

// FakeDialer hands out fake sessions keyed by host name.
type FakeDialer struct {
	Sessions map[string]*FakeSession
	Errs     map[string]error

	Dialed []string
}

// NewFakeDialer returns an empty dialer; unknown hosts get a fresh session.
func NewFakeDialer() *FakeDialer {
	return &FakeDialer{
		Sessions: make(map[string]*FakeSession),
		Errs:     make(map[string]error),
	}
}

var _ transport.Dialer = (*FakeDialer)(nil)

func (d *FakeDialer) Dial(_ context.Context, host config.Host) (transport.Session, error) {
	d.Dialed = append(d.Dialed, host.Name)

	if err, ok := d.Errs[host.Name]; ok {
		return nil, err
	}

	sess, ok := d.Sessions[host.Name]
	if !ok {
		sess = NewFakeSession()
		d.Sessions[host.Name] = sess
	}
	return sess, nil
}
