package publisher

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"strconv"

	"github.com/jlaffaye/ftp"

	"github.com/Kush-Singh-26/autopost/builder/config"
)

type ftpTransport struct {
	conn *ftp.ServerConn
}

// DialFTP connects over plain FTP, or explicit TLS when secure is set.
func DialFTP(ctx context.Context, cfg config.PublishConfig, secure bool) (Transport, error) {
	opts := []ftp.DialOption{
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(cfg.Timeout),
	}
	if secure {
		opts = append(opts, ftp.DialWithExplicitTLS(&tls.Config{
			ServerName: cfg.Host,
			MinVersion: tls.VersionTLS12,
		}))
	}

	conn, err := ftp.Dial(net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)), opts...)
	if err != nil {
		return nil, err
	}
	if err := conn.Login(cfg.User, cfg.Password); err != nil {
		_ = conn.Quit()
		return nil, err
	}
	return &ftpTransport{conn: conn}, nil
}

func (t *ftpTransport) ChangeDir(path string) error          { return t.conn.ChangeDir(path) }
func (t *ftpTransport) MakeDir(path string) error            { return t.conn.MakeDir(path) }
func (t *ftpTransport) Store(name string, r io.Reader) error { return t.conn.Stor(name, r) }
func (t *ftpTransport) Quit() error                          { return t.conn.Quit() }
