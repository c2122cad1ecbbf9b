package remote

import "context"

// Transport copies files to a remote host over SSH.
type Transport interface {
	// EnsureDirectory creates path and its parents on the remote host.
	EnsureDirectory(ctx context.Context, path string) error
	// Put copies the local file to remotePath, creating parent directories first.
	Put(ctx context.Context, localPath, remotePath string) error
	Close() error
}
