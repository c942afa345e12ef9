// Package mirror uploads index artifacts to a remote host over SFTP.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/sftp"
	"github.com/rs/zerolog"
	xssh "golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/forgeyard/shelf/pkg/types"
)

// Client configuration errors.
var (
	ErrHostEmpty    = errors.New("mirror host must not be empty")
	ErrUserEmpty    = errors.New("mirror user must not be empty")
	ErrKeyPathEmpty = errors.New("mirror key_path must not be empty")
)

// Client uploads files to the configured mirror host.
type Client struct {
	cfg types.Mirror
	log zerolog.Logger
}

// New validates the mirror configuration and returns a Client.
func New(cfg types.Mirror, log zerolog.Logger) (*Client, error) {
	if cfg.Host == "" {
		return nil, ErrHostEmpty
	}
	if cfg.User == "" {
		return nil, ErrUserEmpty
	}
	if cfg.KeyPath == "" {
		return nil, ErrKeyPathEmpty
	}
	return &Client{cfg: cfg, log: log}, nil
}

// addr returns the host:port dial address, defaulting to port 22.
func (c *Client) addr() string {
	port := c.cfg.Port
	if port == 0 {
		port = 22
	}
	return fmt.Sprintf("%s:%d", c.cfg.Host, port)
}

// hostKeyCallback builds a strict known-hosts callback. When no file is
// configured it falls back to ~/.ssh/known_hosts.
func (c *Client) hostKeyCallback() (xssh.HostKeyCallback, error) {
	path := c.cfg.KnownHosts
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve known_hosts: %w", err)
		}
		path = filepath.Join(home, ".ssh", "known_hosts")
	}
	cb, err := knownhosts.New(path)
	if err != nil {
		return nil, fmt.Errorf("load known_hosts %s: %w", path, err)
	}
	return cb, nil
}

// dial opens the SSH connection using key auth and strict host key
// verification.
func (c *Client) dial(ctx context.Context) (*xssh.Client, error) {
	key, err := os.ReadFile(c.cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("read key: %w", err)
	}
	signer, err := xssh.ParsePrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("parse key: %w", err)
	}
	hostKeys, err := c.hostKeyCallback()
	if err != nil {
		return nil, err
	}

	cfg := &xssh.ClientConfig{
		User:            c.cfg.User,
		Auth:            []xssh.AuthMethod{xssh.PublicKeys(signer)},
		HostKeyCallback: hostKeys,
	}

	type res struct {
		cli *xssh.Client
		err error
	}
	ch := make(chan res, 1)
	go func() {
		cli, err := xssh.Dial("tcp", c.addr(), cfg)
		ch <- res{cli: cli, err: err}
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.cli, r.err
	}
}

// Upload pushes the given files from localRoot to the configured remote
// directory, preserving their relative layout.
func (c *Client) Upload(ctx context.Context, localRoot string, relPaths []string) error {
	cli, err := c.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial mirror: %w", err)
	}
	defer cli.Close()

	sf, err := sftp.NewClient(cli)
	if err != nil {
		return fmt.Errorf("sftp client: %w", err)
	}
	defer sf.Close()

	for _, rel := range relPaths {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		remote := path.Join(c.cfg.RemoteDir, filepath.ToSlash(rel))
		local := filepath.Join(localRoot, rel)
		if err := pushFile(sf, local, remote); err != nil {
			return err
		}
		c.log.Info().Str("file", rel).Str("host", c.cfg.Host).Msg("mirrored")
	}
	return nil
}

// pushFile uploads one local file to a remote path, creating remote
// directories as needed.
func pushFile(sf *sftp.Client, localPath, remotePath string) error {
	if err := sf.MkdirAll(path.Dir(remotePath)); err != nil {
		return fmt.Errorf("mkdir remote: %w", err)
	}
	src, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open local: %w", err)
	}
	defer src.Close()
	dst, err := sf.Create(remotePath)
	if err != nil {
		return fmt.Errorf("create remote: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}

// ArtifactPaths lists the index file and every package archive under
// indexDir, relative to indexDir, for upload.
func ArtifactPaths(indexDir string, archiveDirs []string, indexFile string) ([]string, error) {
	paths := []string{indexFile}
	for _, dir := range archiveDirs {
		entries, err := os.ReadDir(filepath.Join(indexDir, dir))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("read archive dir: %w", err)
		}
		for _, e := range entries {
			if e.IsDir() || filepath.Ext(e.Name()) != ".zip" {
				continue
			}
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	return paths, nil
}
