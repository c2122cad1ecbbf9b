package remote

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"

	scp "github.com/bramvdbogaerde/go-scp"
	"golang.org/x/crypto/ssh"
)

func (t *implTransport) EnsureDirectory(ctx context.Context, dir string) error {
	t.dirsMu.Lock()
	_, done := t.dirs[dir]
	t.dirsMu.Unlock()
	if done {
		return nil
	}

	err := t.withSlot(ctx, func() error {
		s, err := t.client.NewSession()
		if err != nil {
			return fmt.Errorf("open ssh session: %w", err)
		}
		defer s.Close()

		out, err := s.CombinedOutput("mkdir -p " + shellQuote(dir))
		if err != nil {
			return fmt.Errorf("mkdir -p %s: %w: %s", dir, err, strings.TrimSpace(string(out)))
		}
		return nil
	})
	if err != nil {
		return err
	}

	t.dirsMu.Lock()
	t.dirs[dir] = struct{}{}
	t.dirsMu.Unlock()
	return nil
}

func (t *implTransport) Put(ctx context.Context, localPath, remotePath string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", localPath, err)
	}

	if err := t.EnsureDirectory(ctx, path.Dir(remotePath)); err != nil {
		return err
	}

	return t.withSlot(ctx, func() error {
		client, err := newSCPClient(t.client, t.opts)
		if err != nil {
			return fmt.Errorf("scp client: %w", err)
		}
		defer client.Close()

		if err := client.Copy(ctx, f, remotePath, filePermissions, info.Size()); err != nil {
			return fmt.Errorf("scp %s: %w", remotePath, err)
		}
		return nil
	})
}

const filePermissions = "0644"

// newSCPClient shares conn; closing the returned client leaves conn open.
func newSCPClient(conn *ssh.Client, opts Options) (scp.Client, error) {
	client, err := scp.NewClientBySSH(conn)
	if err != nil {
		return scp.Client{}, err
	}
	if opts.CopyTimeout > 0 {
		client.Timeout = opts.CopyTimeout
	}
	return client, nil
}

// withSlot runs fn while holding one of the connection's session slots.
func (t *implTransport) withSlot(ctx context.Context, fn func() error) error {
	if err := t.sessions.acquire(ctx); err != nil {
		return err
	}
	defer t.sessions.release()
	return fn()
}
