// Package mdns provides mDNS/Zeroconf advertisement for Crate server
// discovery on the local network, via the Avahi daemon over D-Bus.
package mdns

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

const (
	// ServiceType is the mDNS service type for Crate servers.
	ServiceType = "_crate._tcp"

	// APIVersion is the current API version advertised in TXT records.
	APIVersion = "v1"

	// ServerVersion is the current server version advertised in TXT records.
	ServerVersion = "1.0.0"
)

// Service manages mDNS advertisement for the Crate server. It allows local
// network discovery of the server without manual configuration.
type Service struct {
	logger *slog.Logger

	mu     sync.Mutex
	server *avahi.Server
	group  *avahi.EntryGroup
}

// NewService creates a new mDNS service.
func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

// Start begins advertising the server via Avahi. It should be called after
// the HTTP server is running. Errors are typically non-fatal: the Avahi
// daemon may simply be absent (Docker, CI).
func (s *Service) Start(instanceID, name string, port int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopLocked()

	conn, err := dbus.SystemBus()
	if err != nil {
		return fmt.Errorf("connect system bus: %w", err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return fmt.Errorf("connect avahi daemon: %w", err)
	}

	group, err := server.EntryGroupNew()
	if err != nil {
		server.Close()
		return fmt.Errorf("create avahi entry group: %w", err)
	}

	host, err := os.Hostname()
	if err != nil {
		host = "crate-server"
	}

	txt := [][]byte{
		[]byte("id=" + instanceID),
		[]byte("name=" + name),
		[]byte("version=" + ServerVersion),
		[]byte("api=" + APIVersion),
	}

	err = group.AddService(
		avahi.InterfaceUnspec,
		avahi.ProtoUnspec,
		0,
		host,
		ServiceType,
		"", // domain (empty = .local)
		"", // host (empty = system hostname)
		uint16(port),
		txt,
	)
	if err != nil {
		server.Close()
		return fmt.Errorf("add avahi service: %w", err)
	}

	if err := group.Commit(); err != nil {
		server.Close()
		return fmt.Errorf("commit avahi entry group: %w", err)
	}

	s.server = server
	s.group = group

	s.logger.Info("mDNS advertisement started",
		"service", ServiceType,
		"port", port,
		"name", name,
		"id", instanceID,
	)

	return nil
}

// Stop stops mDNS advertising. Safe to call multiple times or if not
// started.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		s.stopLocked()
		s.logger.Info("mDNS advertisement stopped")
	}
}

func (s *Service) stopLocked() {
	if s.server != nil {
		s.server.Close()
		s.server = nil
		s.group = nil
	}
}
