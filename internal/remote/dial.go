package remote

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// DialOptions describes an SSH endpoint and its credentials.
type DialOptions struct {
	Host       string
	Port       int
	Username   string
	Password   string
	KeyFile    string
	KnownHosts string
	Timeout    time.Duration
}

// Dial opens an SSH client. Without a known_hosts file the host key is not verified
// and insecure is returned true so the caller can warn about it.
func Dial(opts DialOptions) (client *ssh.Client, insecure bool, err error) {
	auth, err := authMethods(opts)
	if err != nil {
		return nil, false, err
	}

	hostKey := ssh.InsecureIgnoreHostKey()
	insecure = true
	if opts.KnownHosts != "" {
		hostKey, err = knownhosts.New(opts.KnownHosts)
		if err != nil {
			return nil, false, fmt.Errorf("load known hosts: %w", err)
		}
		insecure = false
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	port := opts.Port
	if port == 0 {
		port = 22
	}

	addr := net.JoinHostPort(opts.Host, strconv.Itoa(port))
	client, err = ssh.Dial("tcp", addr, &ssh.ClientConfig{
		User:            opts.Username,
		Auth:            auth,
		HostKeyCallback: hostKey,
		Timeout:         timeout,
	})
	if err != nil {
		return nil, false, fmt.Errorf("ssh dial %s: %w", addr, err)
	}
	return client, insecure, nil
}

func authMethods(opts DialOptions) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod
	if opts.KeyFile != "" {
		key, err := os.ReadFile(opts.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("read ssh key: %w", err)
		}
		var signer ssh.Signer
		if opts.Password != "" {
			signer, err = ssh.ParsePrivateKeyWithPassphrase(key, []byte(opts.Password))
		} else {
			signer, err = ssh.ParsePrivateKey(key)
		}
		if err != nil {
			return nil, fmt.Errorf("parse ssh key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if opts.Password != "" {
		methods = append(methods, ssh.Password(opts.Password))
	}
	if len(methods) == 0 {
		return nil, fmt.Errorf("no ssh credentials configured")
	}
	return methods, nil
}
