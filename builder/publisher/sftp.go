package publisher

import (
	"context"
	"fmt"
	"io"
	"net"
	"path"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"

	"github.com/Kush-Singh-26/autopost/builder/config"
)

// sftpTransport keeps its own working directory since SFTP has none.
type sftpTransport struct {
	ssh    *ssh.Client
	client *sftp.Client
	cwd    string
}

// DialSFTP opens an SSH session with password auth and starts SFTP on it.
// The host key is checked against KnownHosts unless InsecureHostKey is set.
func DialSFTP(ctx context.Context, cfg config.PublishConfig) (Transport, error) {
	hostKey, err := hostKeyCallback(cfg)
	if err != nil {
		return nil, err
	}

	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	d := net.Dialer{Timeout: cfg.Timeout}
	raw, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(raw, addr, &ssh.ClientConfig{
		User:            cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		HostKeyCallback: hostKey,
		Timeout:         cfg.Timeout,
	})
	if err != nil {
		_ = raw.Close()
		return nil, err
	}
	sshClient := ssh.NewClient(sshConn, chans, reqs)

	client, err := sftp.NewClient(sshClient)
	if err != nil {
		_ = sshClient.Close()
		return nil, err
	}

	cwd, err := client.Getwd()
	if err != nil || cwd == "" {
		cwd = "/"
	}
	return &sftpTransport{ssh: sshClient, client: client, cwd: cwd}, nil
}

func hostKeyCallback(cfg config.PublishConfig) (ssh.HostKeyCallback, error) {
	if cfg.InsecureHostKey {
		return ssh.InsecureIgnoreHostKey(), nil
	}
	if cfg.KnownHosts == "" {
		return nil, fmt.Errorf("sftp: knownHosts is required unless insecureHostKey is set")
	}
	cb, err := knownhosts.New(cfg.KnownHosts)
	if err != nil {
		return nil, fmt.Errorf("sftp: failed to load known hosts: %w", err)
	}
	return cb, nil
}

func (t *sftpTransport) abs(p string) string {
	if path.IsAbs(p) {
		return path.Clean(p)
	}
	return path.Join(t.cwd, p)
}

func (t *sftpTransport) ChangeDir(p string) error {
	target := t.abs(p)
	info, err := t.client.Stat(target)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("sftp: %s is not a directory", target)
	}
	t.cwd = target
	return nil
}

func (t *sftpTransport) MakeDir(p string) error {
	return t.client.Mkdir(t.abs(p))
}

func (t *sftpTransport) Store(name string, r io.Reader) error {
	f, err := t.client.Create(t.abs(name))
	if err != nil {
		return err
	}
	if _, err := f.ReadFrom(r); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (t *sftpTransport) Quit() error {
	cerr := t.client.Close()
	serr := t.ssh.Close()
	if cerr != nil {
		return cerr
	}
	return serr
}
