package preview

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/storykeep/storykeep/internal/logging"
	"github.com/storykeep/storykeep/internal/version"
)

const (
	// ServiceType is the mDNS service type preview servers advertise as.
	ServiceType = "_storykeep._tcp"

	// ServiceDomain is the mDNS domain.
	ServiceDomain = "local."
)

// announce publishes the server over mDNS until the context is cancelled.
func (s *Server) announce(ctx context.Context) error {
	port, err := listenPort(s.opts.Addr)
	if err != nil {
		return fmt.Errorf("announcing preview: %w", err)
	}

	txt := []string{
		"version=" + version.Version,
		"generation=" + s.repo.Generation(),
	}
	srv, err := zeroconf.Register(s.opts.InstanceName, ServiceType, ServiceDomain, port, txt, nil)
	if err != nil {
		return fmt.Errorf("registering mDNS service: %w", err)
	}
	defer srv.Shutdown()

	logging.Info("Announcing preview over mDNS",
		zap.String("instance", s.opts.InstanceName),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	<-ctx.Done()
	return nil
}

// listenPort extracts the numeric port from a listen address like ":7465"
// or "192.168.1.10:7465".
func listenPort(addr string) (int, error) {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port in %q: %w", addr, err)
	}
	return port, nil
}
