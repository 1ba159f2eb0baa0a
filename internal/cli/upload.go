package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
	"github.com/pgEdge/pgedge-retailgen/internal/transfer"
)

var (
	uploadHost       string
	uploadPort       int
	uploadUsername   string
	uploadKeyFile    string
	uploadKnownHosts string
	uploadLocalDir   string
	uploadRemoteDir  string
)

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Copy generated files to a remote host over SFTP",
	Long: `Copy every file in a local directory to a directory on a remote host
over SFTP. The remote directory is created if it does not exist;
subdirectories are not copied.

The password is read from the config file or the RETAILGEN_TRANSFER_PASSWORD
environment variable and is never accepted on the command line.

Example:
  RETAILGEN_TRANSFER_PASSWORD=... pgedge-retailgen upload \
      --host 192.168.206.135 --username etl \
      --local-dir ./datav2/batch --remote-dir /home/etl/data-v2/retail/batch`,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadHost, "host", "",
		"remote host name or address")
	uploadCmd.Flags().IntVar(&uploadPort, "port", 0,
		"remote SSH port (default: 22)")
	uploadCmd.Flags().StringVar(&uploadUsername, "username", "",
		"remote user name")
	uploadCmd.Flags().StringVar(&uploadKeyFile, "key-file", "",
		"private key file for public key authentication")
	uploadCmd.Flags().StringVar(&uploadKnownHosts, "known-hosts", "",
		"known_hosts file for host key verification")
	uploadCmd.Flags().StringVar(&uploadLocalDir, "local-dir", "",
		"local directory to copy (default: ./datav2/batch)")
	uploadCmd.Flags().StringVar(&uploadRemoteDir, "remote-dir", "",
		"remote destination directory")
}

func runUpload(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	t := &cfg.Transfer
	if uploadHost != "" {
		t.Host = uploadHost
	}
	if uploadPort > 0 {
		t.Port = uploadPort
	}
	if uploadUsername != "" {
		t.Username = uploadUsername
	}
	if uploadKeyFile != "" {
		t.KeyFile = uploadKeyFile
	}
	if uploadKnownHosts != "" {
		t.KnownHostsFile = uploadKnownHosts
	}
	if uploadLocalDir != "" {
		t.LocalDir = uploadLocalDir
	}
	if uploadRemoteDir != "" {
		t.RemoteDir = uploadRemoteDir
	}

	// Validate configuration
	if err := cfg.ValidateUpload(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	res, err := transfer.Upload(ctx, transfer.Config{
		Host:           t.Host,
		Port:           t.Port,
		Username:       t.Username,
		Password:       t.Password,
		KeyFile:        t.KeyFile,
		KnownHostsFile: t.KnownHostsFile,
		Timeout:        t.Timeout,
	}, t.LocalDir, t.RemoteDir)
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrAuthentication):
			logging.Error().Err(err).Msg("Authentication failed, please check your credentials")
		case errors.Is(err, transfer.ErrTransport):
			logging.Error().Err(err).Msg("SSH error")
		default:
			logging.Error().Err(err).Msg("Upload failed")
		}
		return fmt.Errorf("upload to %s failed: %w", t.Host, err)
	}

	cmd.Printf("Uploaded %d files (%d bytes) to %s:%s\n", len(res.Files), res.Bytes, t.Host, t.RemoteDir)
	return nil
}
