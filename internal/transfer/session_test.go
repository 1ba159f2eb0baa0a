package transfer

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/pem"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/sftp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

const (
	testUser     = "etl"
	testPassword = "correct horse"
)

type sftpServer struct {
	cfg     Config
	hostKey ssh.PublicKey
	keyFile string
}

// startSFTPServer runs an in-process SSH server exposing an in-memory SFTP
// filesystem shared by every connection.
func startSFTPServer(t *testing.T) sftpServer {
	t.Helper()

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	hostSigner, err := ssh.NewSignerFromKey(priv)
	require.NoError(t, err)

	clientPub, clientKeyFile := writeClientKey(t)

	srvCfg := &ssh.ServerConfig{
		PasswordCallback: func(c ssh.ConnMetadata, pass []byte) (*ssh.Permissions, error) {
			if c.User() == testUser && string(pass) == testPassword {
				return nil, nil
			}
			return nil, fmt.Errorf("password rejected for %q", c.User())
		},
		PublicKeyCallback: func(c ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if c.User() == testUser && string(key.Marshal()) == string(clientPub.Marshal()) {
				return nil, nil
			}
			return nil, fmt.Errorf("unknown public key for %q", c.User())
		},
	}
	srvCfg.AddHostKey(hostSigner)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	handlers := sftp.InMemHandler()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go serveSSH(conn, srvCfg, handlers)
		}
	}()

	return sftpServer{
		cfg: Config{
			Host:     "127.0.0.1",
			Port:     ln.Addr().(*net.TCPAddr).Port,
			Username: testUser,
			Password: testPassword,
			Timeout:  5 * time.Second,
		},
		hostKey: hostSigner.PublicKey(),
		keyFile: clientKeyFile,
	}
}

func writeClientKey(t *testing.T) (ssh.PublicKey, string) {
	t.Helper()
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	block, err := ssh.MarshalPrivateKey(priv, "")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "id_ed25519")
	require.NoError(t, os.WriteFile(path, pem.EncodeToMemory(block), 0o600))

	sshPub, err := ssh.NewPublicKey(pub)
	require.NoError(t, err)
	return sshPub, path
}

func serveSSH(conn net.Conn, cfg *ssh.ServerConfig, handlers sftp.Handlers) {
	defer conn.Close()
	sconn, chans, reqs, err := ssh.NewServerConn(conn, cfg)
	if err != nil {
		return
	}
	defer sconn.Close()
	go ssh.DiscardRequests(reqs)

	for newCh := range chans {
		if newCh.ChannelType() != "session" {
			_ = newCh.Reject(ssh.UnknownChannelType, "unknown channel type")
			continue
		}
		ch, requests, err := newCh.Accept()
		if err != nil {
			return
		}
		go func(in <-chan *ssh.Request) {
			for req := range in {
				ok := req.Type == "subsystem" && len(req.Payload) > 4 && string(req.Payload[4:]) == "sftp"
				_ = req.Reply(ok, nil)
			}
		}(requests)

		server := sftp.NewRequestServer(ch, handlers)
		go func() {
			_ = server.Serve()
			server.Close()
		}()
	}
}

func TestUploadEndToEnd(t *testing.T) {
	cfg := startSFTPServer(t).cfg

	local := t.TempDir()
	writeFile(t, local, "fact_sales.csv", "order_id\nORD0123456789\n")
	writeFile(t, local, "dim_store.csv", "store_key\n1\n")

	res, err := Upload(context.Background(), cfg, local, "/retail")
	require.NoError(t, err)
	assert.True(t, res.CreatedDir)
	assert.Equal(t, []string{"dim_store.csv", "fact_sales.csv"}, res.Files)

	// Verify through a fresh session.
	session, err := Dial(context.Background(), cfg)
	require.NoError(t, err)
	defer session.Close()

	info, err := session.FS().Stat("/retail/fact_sales.csv")
	require.NoError(t, err)
	assert.Equal(t, int64(len("order_id\nORD0123456789\n")), info.Size())

	// Re-running against the now existing directory does not recreate it.
	res, err = Upload(context.Background(), cfg, local, "/retail")
	require.NoError(t, err)
	assert.False(t, res.CreatedDir)
}

func TestDialWithKeyFile(t *testing.T) {
	srv := startSFTPServer(t)
	cfg := srv.cfg
	cfg.Password = ""
	cfg.KeyFile = srv.keyFile

	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	line := fmt.Sprintf("[%s]:%d %s", cfg.Host, cfg.Port, ssh.MarshalAuthorizedKey(srv.hostKey))
	require.NoError(t, os.WriteFile(knownHosts, []byte(line), 0o600))
	cfg.KnownHostsFile = knownHosts

	session, err := Dial(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, session.Close())
}

func TestDialWrongPassword(t *testing.T) {
	cfg := startSFTPServer(t).cfg
	cfg.Password = "wrong"

	session, err := Dial(context.Background(), cfg)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrAuthentication)
}

func TestDialUnknownHostKey(t *testing.T) {
	cfg := startSFTPServer(t).cfg

	// known_hosts with an unrelated key for this host.
	_, other, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	otherSigner, err := ssh.NewSignerFromKey(other)
	require.NoError(t, err)
	knownHosts := filepath.Join(t.TempDir(), "known_hosts")
	line := fmt.Sprintf("[%s]:%d %s", cfg.Host, cfg.Port, ssh.MarshalAuthorizedKey(otherSigner.PublicKey()))
	require.NoError(t, os.WriteFile(knownHosts, []byte(line), 0o600))
	cfg.KnownHostsFile = knownHosts

	_, err = Dial(context.Background(), cfg)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDialConnectionRefused(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()

	res, err := Upload(context.Background(), Config{
		Host:     "127.0.0.1",
		Port:     port,
		Username: testUser,
		Password: testPassword,
		Timeout:  2 * time.Second,
	}, t.TempDir(), "/retail")
	assert.Empty(t, res.Files)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDialCancelDuringHandshake(t *testing.T) {
	// A server that accepts but never speaks SSH.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	accepted := make(chan net.Conn, 1)
	go func() {
		if conn, err := ln.Accept(); err == nil {
			accepted <- conn
		}
	}()
	t.Cleanup(func() {
		select {
		case conn := <-accepted:
			conn.Close()
		default:
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	session, err := Dial(ctx, Config{
		Host:     "127.0.0.1",
		Port:     ln.Addr().(*net.TCPAddr).Port,
		Username: testUser,
		Password: testPassword,
	})
	assert.Nil(t, session)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}
