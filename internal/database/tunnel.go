package database

import (
	"context"
	"fmt"
	"net"

	"github.com/go-sql-driver/mysql"
	"golang.org/x/crypto/ssh"
)

const tunnelNet = "corpusflow+ssh"

// OpenThroughSSH opens a MySQL store whose connections are forwarded by client.
// The store takes ownership of client and closes it on Close.
func OpenThroughSSH(ctx context.Context, opts Options, client *ssh.Client) (Store, error) {
	if opts.Driver != "mysql" {
		return nil, fmt.Errorf("ssh tunnel requires the mysql driver, got %q", opts.Driver)
	}

	cfg, err := mysql.ParseDSN(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}

	mysql.RegisterDialContext(tunnelNet, func(ctx context.Context, addr string) (net.Conn, error) {
		return client.DialContext(ctx, "tcp", addr)
	})
	cfg.Net = tunnelNet

	s, err := open(ctx, Options{Driver: "mysql", DSN: cfg.FormatDSN()})
	if err != nil {
		return nil, err
	}
	s.closers = append(s.closers, client.Close)
	return s, nil
}
