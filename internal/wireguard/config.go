// Package wireguard holds the local WireGuard helpers used by the admin UI:
// key handling, form validation, and reading and writing client .conf files.
package wireguard

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"wgcAdmin/internal/models"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
	"gopkg.in/ini.v1"
)

// ParseConfigString parses the text of a client .conf file.
func ParseConfigString(content string) (*models.Config, error) {
	return parseConfig([]byte(content))
}

func parseConfig(source []byte) (*models.Config, error) {
	cfg, err := ini.LoadSources(ini.LoadOptions{
		AllowNonUniqueSections: true,
	}, source)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	config := &models.Config{
		Interface: models.InterfaceConfig{
			MTU: 1420, // WireGuard default
		},
	}

	ifaceSection := cfg.Section("Interface")
	if err := parseInterface(ifaceSection, &config.Interface); err != nil {
		return nil, fmt.Errorf("failed to parse Interface section: %w", err)
	}

	for _, section := range cfg.Sections() {
		if section.Name() == "Peer" {
			peer := models.PeerConfig{}
			if err := parsePeer(section, &peer); err != nil {
				return nil, fmt.Errorf("failed to parse Peer section: %w", err)
			}
			config.Peers = append(config.Peers, peer)
		}
	}

	if len(config.Peers) == 0 {
		return nil, fmt.Errorf("no peers defined in configuration")
	}

	return config, nil
}

func parseInterface(section *ini.Section, iface *models.InterfaceConfig) error {
	privKeyStr := section.Key("PrivateKey").String()
	if privKeyStr == "" {
		return fmt.Errorf("PrivateKey is required")
	}
	privKey, err := wgtypes.ParseKey(privKeyStr)
	if err != nil {
		return fmt.Errorf("invalid PrivateKey: %w", err)
	}
	iface.PrivateKey = privKey

	for _, addr := range splitList(section.Key("Address").String()) {
		// Handle addresses without CIDR notation
		if !strings.Contains(addr, "/") {
			if strings.Contains(addr, ":") {
				addr += "/128"
			} else {
				addr += "/32"
			}
		}
		ip, ipNet, err := net.ParseCIDR(addr)
		if err != nil {
			return fmt.Errorf("invalid Address %q: %w", addr, err)
		}
		// keep the host address, the controller stores it that way
		ipNet.IP = ip
		iface.Address = append(iface.Address, *ipNet)
	}

	for _, dns := range splitList(section.Key("DNS").String()) {
		ip := net.ParseIP(dns)
		if ip == nil {
			return fmt.Errorf("invalid DNS address: %s", dns)
		}
		iface.DNS = append(iface.DNS, ip)
	}

	if mtuStr := section.Key("MTU").String(); mtuStr != "" {
		mtu, err := strconv.Atoi(mtuStr)
		if err != nil {
			return fmt.Errorf("invalid MTU: %w", err)
		}
		if mtu < 576 || mtu > 65535 {
			return fmt.Errorf("MTU out of range: %d", mtu)
		}
		iface.MTU = mtu
	}

	return nil
}

func parsePeer(section *ini.Section, peer *models.PeerConfig) error {
	pubKeyStr := section.Key("PublicKey").String()
	if pubKeyStr == "" {
		return fmt.Errorf("PublicKey is required")
	}
	pubKey, err := wgtypes.ParseKey(pubKeyStr)
	if err != nil {
		return fmt.Errorf("invalid PublicKey: %w", err)
	}
	peer.PublicKey = pubKey

	if pskStr := section.Key("PresharedKey").String(); pskStr != "" {
		psk, err := wgtypes.ParseKey(pskStr)
		if err != nil {
			return fmt.Errorf("invalid PresharedKey: %w", err)
		}
		peer.PresharedKey = &psk
	}

	// Endpoint is kept as text; resolving it is the tunnel's job, not ours.
	if endpoint := section.Key("Endpoint").String(); endpoint != "" {
		if !ValidateEndpoint(endpoint) {
			return fmt.Errorf("invalid Endpoint %q", endpoint)
		}
		peer.Endpoint = endpoint
	}

	allowed := splitList(section.Key("AllowedIPs").String())
	if len(allowed) == 0 {
		return fmt.Errorf("AllowedIPs is required")
	}
	for _, cidr := range allowed {
		_, ipNet, err := net.ParseCIDR(cidr)
		if err != nil {
			return fmt.Errorf("invalid AllowedIPs %q: %w", cidr, err)
		}
		peer.AllowedIPs = append(peer.AllowedIPs, *ipNet)
	}

	if keepaliveStr := section.Key("PersistentKeepalive").String(); keepaliveStr != "" {
		keepalive, err := strconv.Atoi(keepaliveStr)
		if err != nil {
			return fmt.Errorf("invalid PersistentKeepalive: %w", err)
		}
		if !ValidateKeepalive(keepalive) {
			return fmt.Errorf("PersistentKeepalive out of range: %d", keepalive)
		}
		peer.PersistentKeepalive = time.Duration(keepalive) * time.Second
	}

	return nil
}

// PeerFromConfig copies the parts of an imported config that the controller
// keeps into peer. Server-owned fields (uuid, tunnel addresses handed out by
// the controller) are left alone unless the config names an address.
func PeerFromConfig(config *models.Config, peer *models.Peer) error {
	if err := config.Validate(); err != nil {
		return err
	}
	if len(config.Peers) == 0 {
		return fmt.Errorf("config has no [Peer] section")
	}

	peer.PrivateKey = config.Interface.PrivateKey.String()
	peer.PublicKey = config.Interface.PrivateKey.PublicKey().String()
	if len(config.Interface.Address) > 0 {
		peer.RemoteTunAddress = config.Interface.Address[0].IP.String()
	}

	// The first [Peer] is the controller.
	server := config.Peers[0]
	if server.PresharedKey != nil {
		peer.PreSharedKey = server.PresharedKey.String()
	}
	if server.PersistentKeepalive > 0 {
		peer.KeepAliveSeconds = int(server.PersistentKeepalive.Seconds())
	}
	subnets := make([]string, 0, len(server.AllowedIPs))
	for _, ipNet := range server.AllowedIPs {
		subnets = append(subnets, ipNet.String())
	}
	peer.AllowedSubnets = subnets

	return nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
