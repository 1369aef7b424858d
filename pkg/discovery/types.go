package discovery

import (
	"errors"
	"time"
)

// Service type constants for mDNS.
const (
	// ServiceType is the service type advertised by TPM2.net receivers.
	ServiceType = "_tpm2net._udp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// TXT record key constants.
const (
	TXTKeyWidth   = "w"   // Panel width in pixels
	TXTKeyHeight  = "h"   // Panel height in pixels
	TXTKeyPanels  = "n"   // Panel count
	TXTKeyVersion = "ver" // Protocol revision
	TXTKeyName    = "DN"  // Display name (optional, user-configurable)
)

// Timing constants.
const (
	// BrowseTimeout is the default timeout for mDNS browsing.
	BrowseTimeout = 10 * time.Second

	// DefaultTTL is the DNS record TTL used when none is configured.
	DefaultTTL = 120 * time.Second
)

// Limits.
const (
	// MaxInstanceNameLen is the DNS label limit.
	MaxInstanceNameLen = 63

	// MaxPanelDimension bounds the advertised panel geometry. The
	// protocol's payload size cap makes larger panels unusable in a
	// single data packet anyway.
	MaxPanelDimension = 4096
)

// Discovery errors.
var (
	ErrInvalidTXTRecord    = errors.New("invalid TXT record format")
	ErrMissingRequired     = errors.New("missing required field")
	ErrInstanceNameTooLong = errors.New("instance name exceeds 63 characters")
	ErrNotFound            = errors.New("service not found")
)

// WallInfo contains the information a receiver advertises about its
// display: the geometry senders need to produce correctly sized
// frames.
type WallInfo struct {
	// InstanceName is the mDNS instance name (e.g., "tpm2net-lobby").
	InstanceName string

	// Port is the UDP port the receiver listens on.
	Port uint16

	// PanelWidth and PanelHeight are the per-panel dimensions in pixels.
	PanelWidth  int
	PanelHeight int

	// PanelCount is the number of chained panels.
	PanelCount int

	// DisplayName is an optional user-configurable name.
	DisplayName string

	// Version is the TPM2 protocol revision the receiver implements.
	Version int
}

// WallService represents a receiver found via mDNS.
type WallService struct {
	// InstanceName is the mDNS instance name.
	InstanceName string

	// Host is the hostname (e.g., "lobby-wall.local").
	Host string

	// Port is the service port.
	Port uint16

	// Addresses contains resolved IP addresses.
	Addresses []string

	// PanelWidth and PanelHeight are the per-panel dimensions (from TXT "w"/"h").
	PanelWidth  int
	PanelHeight int

	// PanelCount is the number of chained panels (from TXT "n").
	PanelCount int

	// DisplayName is the optional user-configurable name (from TXT "DN").
	DisplayName string

	// Version is the protocol revision (from TXT "ver").
	Version int
}
