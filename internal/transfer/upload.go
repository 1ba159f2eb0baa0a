package transfer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"sort"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"

	"github.com/pgEdge/pgedge-retailgen/internal/logging"
)

// RemoteFS is the subset of remote file operations the uploader needs.
type RemoteFS interface {
	Stat(p string) (os.FileInfo, error)
	Mkdir(p string) error
	Create(p string) (io.WriteCloser, error)
}

type sftpFS struct {
	c *sftp.Client
}

func (f sftpFS) Stat(p string) (os.FileInfo, error) { return f.c.Stat(p) }
func (f sftpFS) Mkdir(p string) error                { return f.c.Mkdir(p) }

func (f sftpFS) Create(p string) (io.WriteCloser, error) {
	file, err := f.c.Create(p)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Result summarizes a directory upload.
type Result struct {
	CreatedDir bool
	Files      []string
	Bytes      int64
}

// Uploader copies the files of a local directory into a remote directory.
type Uploader struct {
	fs  RemoteFS
	log zerolog.Logger
}

// NewUploader creates an uploader writing through fs.
func NewUploader(fs RemoteFS) *Uploader {
	return &Uploader{fs: fs, log: logging.Component("transfer")}
}

// UploadDir creates remoteDir if it cannot be stat'ed, then copies every
// regular file at the top level of localDir into it under the same name.
// Subdirectories are skipped. The first failure aborts the upload; files
// already copied are left in place.
func (u *Uploader) UploadDir(ctx context.Context, localDir, remoteDir string) (Result, error) {
	var res Result

	info, err := u.fs.Stat(remoteDir)
	switch {
	case err != nil:
		if err := u.fs.Mkdir(remoteDir); err != nil {
			return res, fmt.Errorf("%w: create remote directory %s: %v", ErrTransport, remoteDir, err)
		}
		res.CreatedDir = true
		u.log.Info().Str("remote_dir", remoteDir).Msg("Created remote directory")
	case !info.IsDir():
		return res, fmt.Errorf("remote path %s exists and is not a directory", remoteDir)
	}

	entries, err := os.ReadDir(localDir)
	if err != nil {
		return res, fmt.Errorf("failed to list %s: %w", localDir, err)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		localPath := filepath.Join(localDir, entry.Name())
		fi, err := os.Stat(localPath)
		if err != nil {
			return res, fmt.Errorf("failed to stat %s: %w", localPath, err)
		}
		if !fi.Mode().IsRegular() {
			u.log.Debug().Str("path", localPath).Msg("Skipping non-regular file")
			continue
		}

		// Remote paths always use forward slashes.
		remotePath := path.Join(remoteDir, entry.Name())
		u.log.Info().Str("file", entry.Name()).Msg("Uploading")

		n, err := u.copyFile(localPath, remotePath)
		if err != nil {
			return res, err
		}
		res.Files = append(res.Files, entry.Name())
		res.Bytes += n

		u.log.Info().
			Str("file", entry.Name()).
			Int64("bytes", n).
			Msg("Uploaded")
	}

	u.log.Info().
		Int("files", len(res.Files)).
		Int64("bytes", res.Bytes).
		Str("remote_dir", remoteDir).
		Msg("All files uploaded")
	return res, nil
}

func (u *Uploader) copyFile(localPath, remotePath string) (int64, error) {
	src, err := os.Open(localPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer src.Close()

	dst, err := u.fs.Create(remotePath)
	if err != nil {
		return 0, fmt.Errorf("%w: create %s: %v", ErrTransport, remotePath, err)
	}

	n, err := io.Copy(dst, src)
	if err != nil {
		dst.Close()
		return n, fmt.Errorf("%w: copy %s: %v", ErrTransport, remotePath, err)
	}
	if err := dst.Close(); err != nil {
		return n, fmt.Errorf("%w: close %s: %v", ErrTransport, remotePath, err)
	}
	return n, nil
}

// Upload opens a session, uploads localDir into remoteDir and closes the
// session on every path, including a failed upload.
func Upload(ctx context.Context, cfg Config, localDir, remoteDir string) (Result, error) {
	session, err := Dial(ctx, cfg)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if cerr := session.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("Error closing remote session")
		}
		logging.Info().Str("addr", session.addr).Msg("Connection closed")
	}()

	return NewUploader(session.FS()).UploadDir(ctx, localDir, remoteDir)
}
