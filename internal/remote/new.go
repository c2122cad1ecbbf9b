package remote

import (
	"sync"
	"time"

	"golang.org/x/crypto/ssh"

	"github.com/nguyentantai21042004/corpus-flow/internal/logger"
)

// Options tunes a Transport.
type Options struct {
	MaxSessions int
	KeepAlive   time.Duration
	// CopyTimeout bounds one file copy. Zero keeps the scp client's default.
	CopyTimeout time.Duration
}

type implTransport struct {
	client   *ssh.Client
	opts     Options
	logger   logger.Logger
	sessions *sessionLimiter

	dirsMu sync.Mutex
	dirs   map[string]struct{}

	stop      chan struct{}
	closeOnce sync.Once
}

// New wraps an SSH client. The Transport owns the client and closes it on Close.
func New(client *ssh.Client, opts Options, log logger.Logger) Transport {
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 8
	}
	t := &implTransport{
		client:   client,
		opts:     opts,
		logger:   log,
		sessions: newSessionLimiter(opts.MaxSessions),
		dirs:     make(map[string]struct{}),
		stop:     make(chan struct{}),
	}
	if opts.KeepAlive > 0 {
		go keepAlive(client, opts.KeepAlive, t.stop, log)
	}
	return t
}

func (t *implTransport) Close() error {
	var err error
	t.closeOnce.Do(func() {
		close(t.stop)
		err = t.client.Close()
	})
	return err
}
