package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"

	"github.com/tpm2net/tpm2net-go/pkg/tpm2"
)

// AdvertiserConfig configures advertiser behavior.
type AdvertiserConfig struct {
	// Interface specifies which network interface to use.
	// Empty string means all interfaces.
	Interface string

	// TTL is the DNS record TTL. Default: DefaultTTL.
	TTL time.Duration
}

// Advertiser announces a TPM2.net receiver via mDNS so senders can
// find it and read its geometry without manual configuration.
type Advertiser struct {
	config AdvertiserConfig

	mu     sync.Mutex
	server *zeroconf.Server
}

// NewAdvertiser creates a new mDNS advertiser.
func NewAdvertiser(config AdvertiserConfig) *Advertiser {
	return &Advertiser{config: config}
}

// getInterfaces returns the network interfaces to use for advertising.
// Returns nil to use all interfaces.
func (a *Advertiser) getInterfaces() []net.Interface {
	if a.config.Interface == "" {
		return nil
	}

	iface, err := net.InterfaceByName(a.config.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// Advertise starts announcing the wall. A previous announcement is
// replaced.
func (a *Advertiser) Advertise(info *WallInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	instanceName := info.InstanceName
	if instanceName == "" {
		instanceName = fmt.Sprintf("tpm2net-%dx%d", info.PanelWidth, info.PanelHeight)
	}
	if len(instanceName) > MaxInstanceNameLen {
		instanceName = instanceName[:MaxInstanceNameLen]
	}

	txtStrings := TXTRecordsToStrings(EncodeWallTXT(info))

	port := int(info.Port)
	if port == 0 {
		port = tpm2.NetPort
	}

	var opts []zeroconf.ServerOption
	ttl := a.config.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	opts = append(opts, zeroconf.TTL(uint32(ttl.Seconds())))

	server, err := zeroconf.Register(
		instanceName,
		ServiceType,
		Domain,
		port,
		txtStrings,
		a.getInterfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register wall service: %w", err)
	}

	a.server = server
	return nil
}

// Update replaces the TXT records of the active announcement, e.g.
// after a geometry reconfiguration.
func (a *Advertiser) Update(info *WallInfo) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server == nil {
		return ErrNotFound
	}

	a.server.SetText(TXTRecordsToStrings(EncodeWallTXT(info)))
	return nil
}

// Stop withdraws the announcement. Safe to call without an active
// announcement.
func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}
