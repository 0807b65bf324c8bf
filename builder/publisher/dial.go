package publisher

import (
	"context"
	"errors"

	"github.com/Kush-Singh-26/autopost/builder/config"
)

// ErrNoHost is returned when no remote host is configured.
var ErrNoHost = errors.New("publisher: no remote host configured")

// NewDialer picks the transport for cfg.Protocol.
func NewDialer(cfg config.PublishConfig) (Dialer, error) {
	if cfg.Host == "" {
		return nil, ErrNoHost
	}
	switch cfg.Protocol {
	case config.ProtocolSFTP:
		return func(ctx context.Context) (Transport, error) { return DialSFTP(ctx, cfg) }, nil
	case config.ProtocolFTPS:
		return func(ctx context.Context) (Transport, error) { return DialFTP(ctx, cfg, true) }, nil
	default:
		return func(ctx context.Context) (Transport, error) { return DialFTP(ctx, cfg, false) }, nil
	}
}
