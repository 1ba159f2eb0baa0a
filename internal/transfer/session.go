//-------------------------------------------------------------------------
//
// pgEdge Retail Data Generator
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package transfer copies generated files to a remote host over SFTP.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/sftp"
	"go.uber.org/multierr"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// Error categories. Every error returned by Dial and Upload wraps at most
// one of these; anything else is a generic failure.
var (
	ErrAuthentication = errors.New("authentication failed")
	ErrTransport      = errors.New("transport error")
)

// DefaultPort is the SSH port used when none is configured.
const DefaultPort = 22

// Config describes how to reach the remote host.
type Config struct {
	Host     string
	Port     int
	Username string

	// Password and KeyFile may both be set; the key is tried first.
	Password string
	KeyFile  string

	// KnownHostsFile enables host key verification. When empty any host
	// key is accepted.
	KnownHostsFile string

	// Timeout bounds the TCP connect and SSH handshake. Zero means no
	// timeout beyond the context.
	Timeout time.Duration
}

// Addr returns host:port.
func (c Config) Addr() string {
	port := c.Port
	if port == 0 {
		port = DefaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}

// Session is an authenticated SFTP session. A Session returned by Dial is
// always fully open; callers own it and must Close it.
type Session struct {
	addr string
	ssh  *ssh.Client
	sftp *sftp.Client
}

// Dial opens an SSH connection to the configured host and starts an SFTP
// subsystem on it. On failure nothing is left open.
func Dial(ctx context.Context, cfg Config) (*Session, error) {
	auth, err := authMethods(cfg)
	if err != nil {
		return nil, err
	}
	hostKeys, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	clientCfg := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            auth,
		HostKeyCallback: hostKeys,
		Timeout:         cfg.Timeout,
	}

	addr := cfg.Addr()
	logging.Debug().
		Str("addr", addr).
		Str("user", cfg.Username).
		Msg("Connecting to remote host")

	dialer := net.Dialer{Timeout: cfg.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", ErrTransport, addr, err)
	}

	if cfg.Timeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(cfg.Timeout))
	}
	// The handshake itself ignores ctx; closing conn unblocks it.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientCfg)
	if !stop() {
		if err == nil {
			sshConn.Close()
		}
		return nil, fmt.Errorf("handshake with %s: %w", addr, ctx.Err())
	}
	if err != nil {
		conn.Close()
		return nil, classifyHandshakeError(addr, err)
	}
	_ = conn.SetDeadline(time.Time{})

	client := ssh.NewClient(sshConn, chans, reqs)
	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: start sftp subsystem on %s: %v", ErrTransport, addr, err)
	}

	logging.Info().Str("addr", addr).Msg("Connected to remote host")
	return &Session{addr: addr, ssh: client, sftp: sftpClient}, nil
}

// FS returns the remote filesystem of the session.
func (s *Session) FS() RemoteFS {
	return sftpFS{c: s.sftp}
}

// Close closes the SFTP subsystem and then the SSH connection.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.sftp != nil {
		err = multierr.Append(err, s.sftp.Close())
	}
	if s.ssh != nil {
		err = multierr.Append(err, ignoreClosed(s.ssh.Close()))
	}
	return err
}

func ignoreClosed(err error) error {
	if err == nil || errors.Is(err, net.ErrClosed) || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func authMethods(cfg Config) ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if cfg.KeyFile != "" {
		pem, err := os.ReadFile(cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read key file: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(pem)
		if err != nil {
			return nil, fmt.Errorf("failed to parse key file %s: %w", cfg.KeyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		methods = append(methods, ssh.Password(cfg.Password))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("%w: no password or key file configured", ErrAuthentication)
	}
	return methods, nil
}

func hostKeyCallback(cfg Config) (ssh.HostKeyCallback, error) {
	if cfg.KnownHostsFile == "" {
		logging.Warn().
			Str("host", cfg.Host).
			Msg("Host key verification disabled; set transfer.known_hosts_file to enable it")
		return ssh.InsecureIgnoreHostKey(), nil
	}
	cb, err := knownhosts.New(cfg.KnownHostsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load known hosts %s: %w", cfg.KnownHostsFile, err)
	}
	return cb, nil
}

// classifyHandshakeError maps an SSH handshake failure to an error category.
func classifyHandshakeError(addr string, err error) error {
	if strings.Contains(err.Error(), "unable to authenticate") {
		return fmt.Errorf("%w: %s: %v", ErrAuthentication, addr, err)
	}
	return fmt.Errorf("%w: handshake with %s: %v", ErrTransport, addr, err)
}
