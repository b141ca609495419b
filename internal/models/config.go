package models

import (
	"fmt"
	"net"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// WireGuardConfig is the flat form of a client .conf file as rendered for
// download and QR export.
type WireGuardConfig struct {
	// Interface section
	Name       string
	PrivateKey string
	Address    string
	DNS        string
	MTU        int

	Peers []ConfigPeer
}

// ConfigPeer is one [Peer] section of a WireGuardConfig.
type ConfigPeer struct {
	Name                string
	PublicKey           string
	AllowedIPs          string
	Endpoint            string
	PersistentKeepalive int
	PresharedKey        string
}

// Config represents a parsed WireGuard configuration.
type Config struct {
	Interface InterfaceConfig
	Peers     []PeerConfig
}

// HasDefaultRoute returns true if any peer has 0.0.0.0/0 or ::/0 in AllowedIPs.
func (c *Config) HasDefaultRoute() bool {
	for _, peer := range c.Peers {
		for _, ip := range peer.AllowedIPs {
			ones, bits := ip.Mask.Size()
			if ones == 0 && (bits == 32 || bits == 128) {
				return true
			}
		}
	}
	return false
}

// Validate checks that the config can be turned into a controller peer.
func (c *Config) Validate() error {
	if len(c.Interface.Address) == 0 {
		return fmt.Errorf("at least one Address is required in Interface section")
	}

	for i, peer := range c.Peers {
		if len(peer.AllowedIPs) == 0 {
			return fmt.Errorf("peer %d: AllowedIPs is required", i)
		}
	}

	return nil
}

// InterfaceConfig represents the [Interface] section of a WireGuard config.
type InterfaceConfig struct {
	PrivateKey wgtypes.Key
	Address    []net.IPNet
	DNS        []net.IP
	MTU        int
}

// PeerConfig represents a [Peer] section of a WireGuard config.
type PeerConfig struct {
	PublicKey           wgtypes.Key
	PresharedKey        *wgtypes.Key
	Endpoint            string
	AllowedIPs          []net.IPNet
	PersistentKeepalive time.Duration
}
