package wireguard

import (
	"fmt"
	"strings"

	"wgcAdmin/internal/models"

	"github.com/skip2/go-qrcode"
)

// qrSize is the edge length in pixels of exported QR codes.
const qrSize = 256

// ClientConfig builds the .conf a peer needs to reach the controller. The
// interface address is the peer's tunnel IP with the server netmask.
func ClientConfig(peer models.Peer, server models.ServerInfo) *models.WireGuardConfig {
	address := peer.RemoteTunAddress
	if address != "" && !strings.Contains(address, "/") {
		if strings.HasPrefix(server.Netmask, "/") {
			address += server.Netmask
		} else {
			address = hostRoute(address)
		}
	}

	allowed := peer.AllowedSubnets
	if len(allowed) == 0 && server.ServerInternalIP != "" {
		// at least reach the controller itself
		allowed = []string{hostRoute(server.ServerInternalIP)}
	}

	return &models.WireGuardConfig{
		Name:       peer.Hostname,
		PrivateKey: peer.PrivateKey,
		Address:    address,
		DNS:        strings.Join(server.NameServers, ", "),
		Peers: []models.ConfigPeer{
			{
				Name:                "wg-controller",
				PublicKey:           server.PublicKey,
				AllowedIPs:          strings.Join(allowed, ", "),
				Endpoint:            server.PublicEndpoint,
				PersistentKeepalive: peer.KeepAliveSeconds,
				PresharedKey:        peer.PreSharedKey,
			},
		},
	}
}

// GenerateConfigString creates the INI-format string for a config
func GenerateConfigString(config *models.WireGuardConfig) string {
	var sb strings.Builder

	if config.Name != "" {
		sb.WriteString(fmt.Sprintf("# %s\n", config.Name))
	}

	// Interface section
	sb.WriteString("[Interface]\n")
	sb.WriteString(fmt.Sprintf("PrivateKey = %s\n", config.PrivateKey))
	sb.WriteString(fmt.Sprintf("Address = %s\n", config.Address))

	if config.DNS != "" {
		sb.WriteString(fmt.Sprintf("DNS = %s\n", config.DNS))
	}
	if config.MTU > 0 {
		sb.WriteString(fmt.Sprintf("MTU = %d\n", config.MTU))
	}

	// Peer sections
	for _, peer := range config.Peers {
		if peer.Name != "" {
			sb.WriteString(fmt.Sprintf("\n# %s\n", peer.Name))
		} else {
			sb.WriteString("\n")
		}
		sb.WriteString("[Peer]\n")
		sb.WriteString(fmt.Sprintf("PublicKey = %s\n", peer.PublicKey))
		if peer.PresharedKey != "" {
			sb.WriteString(fmt.Sprintf("PresharedKey = %s\n", peer.PresharedKey))
		}
		sb.WriteString(fmt.Sprintf("AllowedIPs = %s\n", peer.AllowedIPs))

		if peer.Endpoint != "" {
			sb.WriteString(fmt.Sprintf("Endpoint = %s\n", peer.Endpoint))
		}
		if peer.PersistentKeepalive > 0 {
			sb.WriteString(fmt.Sprintf("PersistentKeepalive = %d\n", peer.PersistentKeepalive))
		}
	}

	return sb.String()
}

// QRCode encodes the config text as a PNG. The WireGuard mobile apps import
// a tunnel from exactly this payload.
func QRCode(config string) ([]byte, error) {
	png, err := qrcode.Encode(config, qrcode.Medium, qrSize)
	if err != nil {
		return nil, fmt.Errorf("qr encode: %w", err)
	}
	return png, nil
}

func hostRoute(addr string) string {
	host := strings.Split(addr, "/")[0]
	if strings.Contains(host, ":") {
		return host + "/128"
	}
	return host + "/32"
}
