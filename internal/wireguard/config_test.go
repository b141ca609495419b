package wireguard

import (
	"net"
	"strings"
	"testing"
	"time"

	"wgcAdmin/internal/models"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

const (
	testPrivateKey = "WG8jSCtXPbZ2nhL1+YBQRWE9jM3d/zj/BZu6xwEQqWs="
	testPublicKey  = "xTIBA5rboUvnH4htodjb60Y7YAf21J7YQMlNGC8HQ14="
	testPSK        = "FpCyhws9cxwWoV4xELtfJvjJN+zQVRi32YulM0ieCGQ="
)

func TestParseConfigString(t *testing.T) {
	content := `# laptop
[Interface]
PrivateKey = ` + testPrivateKey + `
Address = 10.0.0.2/24, fd00::2/64
DNS = 1.1.1.1, 8.8.8.8
MTU = 1400

[Peer]
PublicKey = ` + testPublicKey + `
PresharedKey = ` + testPSK + `
Endpoint = 203.0.113.1:51820
AllowedIPs = 0.0.0.0/0, ::/0
PersistentKeepalive = 25
`

	config, err := ParseConfigString(content)
	if err != nil {
		t.Fatalf("ParseConfigString failed: %v", err)
	}

	if config.Interface.PrivateKey.String() != testPrivateKey {
		t.Errorf("PrivateKey mismatch: %s", config.Interface.PrivateKey)
	}

	if len(config.Interface.Address) != 2 {
		t.Errorf("Expected 2 addresses, got %d", len(config.Interface.Address))
	}

	if got := config.Interface.Address[0].IP.String(); got != "10.0.0.2" {
		t.Errorf("Address should keep the host part, got %s", got)
	}

	if len(config.Interface.DNS) != 2 {
		t.Errorf("Expected 2 DNS servers, got %d", len(config.Interface.DNS))
	}

	if config.Interface.MTU != 1400 {
		t.Errorf("MTU should be 1400, got %d", config.Interface.MTU)
	}

	if len(config.Peers) != 1 {
		t.Fatalf("Expected 1 peer, got %d", len(config.Peers))
	}

	peer := config.Peers[0]

	if peer.PublicKey.String() != testPublicKey {
		t.Error("Peer PublicKey mismatch")
	}

	if peer.PresharedKey == nil || peer.PresharedKey.String() != testPSK {
		t.Error("Peer PresharedKey mismatch")
	}

	if peer.Endpoint != "203.0.113.1:51820" {
		t.Errorf("Peer Endpoint mismatch: %s", peer.Endpoint)
	}

	if len(peer.AllowedIPs) != 2 {
		t.Errorf("Expected 2 AllowedIPs, got %d", len(peer.AllowedIPs))
	}

	if peer.PersistentKeepalive != 25*time.Second {
		t.Errorf("PersistentKeepalive should be 25s, got %v", peer.PersistentKeepalive)
	}
}

func TestParseConfigStringDefaults(t *testing.T) {
	content := `[Interface]
PrivateKey = ` + testPrivateKey + `
Address = 10.0.0.2

[Peer]
PublicKey = ` + testPublicKey + `
AllowedIPs = 10.0.0.0/24
`

	config, err := ParseConfigString(content)
	if err != nil {
		t.Fatalf("ParseConfigString failed: %v", err)
	}

	if config.Interface.MTU != 1420 {
		t.Errorf("Default MTU should be 1420, got %d", config.Interface.MTU)
	}

	ones, _ := config.Interface.Address[0].Mask.Size()
	if ones != 32 {
		t.Errorf("Bare address should become /32, got /%d", ones)
	}
}

func TestParseConfigStringErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing private key", `[Interface]
Address = 10.0.0.2/24

[Peer]
PublicKey = ` + testPublicKey + `
AllowedIPs = 10.0.0.0/24
`},
		{"no peers", `[Interface]
PrivateKey = ` + testPrivateKey + `
Address = 10.0.0.2/24
`},
		{"invalid key", `[Interface]
PrivateKey = invalid-key
Address = 10.0.0.2/24

[Peer]
PublicKey = ` + testPublicKey + `
AllowedIPs = 10.0.0.0/24
`},
		{"missing allowed ips", `[Interface]
PrivateKey = ` + testPrivateKey + `

[Peer]
PublicKey = ` + testPublicKey + `
`},
		{"bad endpoint", `[Interface]
PrivateKey = ` + testPrivateKey + `

[Peer]
PublicKey = ` + testPublicKey + `
AllowedIPs = 10.0.0.0/24
Endpoint = vpn.example.com
`},
		{"keepalive out of range", `[Interface]
PrivateKey = ` + testPrivateKey + `

[Peer]
PublicKey = ` + testPublicKey + `
AllowedIPs = 10.0.0.0/24
PersistentKeepalive = 70000
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfigString(tt.content); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestHasDefaultRoute(t *testing.T) {
	tests := []struct {
		name       string
		allowedIPs string
		expected   bool
	}{
		{"IPv4 default", "0.0.0.0/0", true},
		{"IPv6 default", "::/0", true},
		{"Both defaults", "0.0.0.0/0, ::/0", true},
		{"Subnet only", "10.0.0.0/24", false},
		{"Mixed", "10.0.0.0/24, 0.0.0.0/0", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := `[Interface]
PrivateKey = ` + testPrivateKey + `
Address = 10.0.0.2/24

[Peer]
PublicKey = ` + testPublicKey + `
AllowedIPs = ` + tt.allowedIPs

			config, err := ParseConfigString(content)
			if err != nil {
				t.Fatalf("ParseConfigString failed: %v", err)
			}

			if config.HasDefaultRoute() != tt.expected {
				t.Errorf("HasDefaultRoute() = %v, want %v", config.HasDefaultRoute(), tt.expected)
			}
		})
	}
}

func TestConfigValidate(t *testing.T) {
	privKey, _ := wgtypes.GeneratePrivateKey()
	pubKey := privKey.PublicKey()

	validConfig := &models.Config{
		Interface: models.InterfaceConfig{
			PrivateKey: privKey,
			Address:    []net.IPNet{{IP: net.ParseIP("10.0.0.2"), Mask: net.CIDRMask(24, 32)}},
		},
		Peers: []models.PeerConfig{
			{
				PublicKey:  pubKey,
				AllowedIPs: []net.IPNet{{IP: net.ParseIP("10.0.0.0"), Mask: net.CIDRMask(24, 32)}},
			},
		},
	}

	if err := validConfig.Validate(); err != nil {
		t.Errorf("Valid config should pass validation: %v", err)
	}

	noAddrConfig := &models.Config{
		Interface: models.InterfaceConfig{
			PrivateKey: privKey,
		},
		Peers: validConfig.Peers,
	}

	if err := noAddrConfig.Validate(); err == nil {
		t.Error("Config without address should fail validation")
	}
}

func TestPeerFromConfig(t *testing.T) {
	content := `[Interface]
PrivateKey = ` + testPrivateKey + `
Address = 172.19.0.7/24

[Peer]
PublicKey = ` + testPublicKey + `
PresharedKey = ` + testPSK + `
AllowedIPs = 172.19.0.0/24, 192.168.10.0/24
PersistentKeepalive = 15
`
	config, err := ParseConfigString(content)
	if err != nil {
		t.Fatalf("ParseConfigString failed: %v", err)
	}

	peer := models.Peer{UUID: "keep-me", AllowedSubnets: []string{"10.9.9.0/24"}}
	if err := PeerFromConfig(config, &peer); err != nil {
		t.Fatalf("PeerFromConfig failed: %v", err)
	}

	if peer.UUID != "keep-me" {
		t.Error("UUID must not be touched")
	}
	if peer.PrivateKey != testPrivateKey {
		t.Errorf("PrivateKey mismatch: %s", peer.PrivateKey)
	}
	if !KeysMatch(peer.PrivateKey, peer.PublicKey) {
		t.Error("PublicKey should be derived from the imported private key")
	}
	if peer.RemoteTunAddress != "172.19.0.7" {
		t.Errorf("RemoteTunAddress = %s", peer.RemoteTunAddress)
	}
	if peer.PreSharedKey != testPSK {
		t.Error("PreSharedKey mismatch")
	}
	if peer.KeepAliveSeconds != 15 {
		t.Errorf("KeepAliveSeconds = %d", peer.KeepAliveSeconds)
	}
	if strings.Join(peer.AllowedSubnets, ",") != "172.19.0.0/24,192.168.10.0/24" {
		t.Errorf("AllowedSubnets = %v", peer.AllowedSubnets)
	}
}

func TestClientConfigRoundTrip(t *testing.T) {
	peer := models.Peer{
		Hostname:         "laptop",
		PrivateKey:       testPrivateKey,
		PreSharedKey:     testPSK,
		KeepAliveSeconds: 25,
		RemoteTunAddress: "172.19.0.2",
		AllowedSubnets:   []string{"172.19.0.0/24", "10.1.0.0/16"},
	}
	server := models.ServerInfo{
		PublicKey:        testPublicKey,
		PublicEndpoint:   "vpn.example.com:51820",
		NameServers:      []string{"172.19.0.254"},
		ServerInternalIP: "172.19.0.254/24",
	}

	text := GenerateConfigString(ClientConfig(peer, server))

	for _, want := range []string{
		"# laptop\n[Interface]\n",
		"Address = 172.19.0.2/32\n",
		"DNS = 172.19.0.254\n",
		"Endpoint = vpn.example.com:51820\n",
		"AllowedIPs = 172.19.0.0/24, 10.1.0.0/16\n",
		"PersistentKeepalive = 25\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("config missing %q:\n%s", want, text)
		}
	}

	config, err := ParseConfigString(text)
	if err != nil {
		t.Fatalf("generated config does not parse: %v\n%s", err, text)
	}
	if config.Peers[0].Endpoint != server.PublicEndpoint {
		t.Errorf("Endpoint = %s", config.Peers[0].Endpoint)
	}
}

func TestClientConfigFallsBackToServerRoute(t *testing.T) {
	peer := models.Peer{PrivateKey: testPrivateKey, RemoteTunAddress: "172.19.0.2"}
	server := models.ServerInfo{PublicKey: testPublicKey, ServerInternalIP: "172.19.0.254/24"}

	config := ClientConfig(peer, server)
	if config.Peers[0].AllowedIPs != "172.19.0.254/32" {
		t.Errorf("AllowedIPs = %s", config.Peers[0].AllowedIPs)
	}
	if strings.Contains(GenerateConfigString(config), "PersistentKeepalive") {
		t.Error("zero keepalive must be omitted")
	}
}

func TestClientConfigFromServerInit(t *testing.T) {
	// peers/init hands out the client address in remoteTunAddress only
	init := models.PeerInit{
		UUID:             "3b8f7a52-1d0e-4e8a-9c51-7f2e6b1d0a44",
		PrivateKey:       testPrivateKey,
		PublicKey:        testPublicKey,
		PreSharedKey:     testPSK,
		RemoteTunAddress: "172.19.0.5",
		ServerCIDR:       "172.19.0.0/24",
	}
	peer := init.NewPeer("laptop")

	if errs := ValidatePeer(peer); len(errs) > 0 {
		t.Fatalf("ValidatePeer() = %v", errs)
	}

	server := models.ServerInfo{
		PublicKey:        testPublicKey,
		PublicEndpoint:   "vpn.example.com:51820",
		Netmask:          "/24",
		ServerInternalIP: "172.19.0.1/24",
	}
	text := GenerateConfigString(ClientConfig(peer, server))
	if !strings.Contains(text, "Address = 172.19.0.5/24\n") {
		t.Errorf("config has wrong Address:\n%s", text)
	}
	if _, err := ParseConfigString(text); err != nil {
		t.Errorf("generated config does not parse: %v", err)
	}

	// without a netmask the address is a host route
	server.Netmask = ""
	if got := ClientConfig(peer, server).Address; got != "172.19.0.5/32" {
		t.Errorf("Address = %s, want 172.19.0.5/32", got)
	}
}

func TestQRCode(t *testing.T) {
	png, err := QRCode("[Interface]\nPrivateKey = " + testPrivateKey + "\n")
	if err != nil {
		t.Fatalf("QRCode failed: %v", err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Error("QRCode should return a PNG")
	}
}
