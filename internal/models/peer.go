package models

// Peer is a WireGuard client record as served by the controller.
type Peer struct {
	UUID               string   `json:"uuid"`
	Hostname           string   `json:"hostname"`
	Enabled            bool     `json:"enabled"`
	PrivateKey         string   `json:"privateKey"`   // stored encrypted server side
	PublicKey          string   `json:"publicKey"`
	PreSharedKey       string   `json:"preSharedKey"` // stored encrypted server side
	KeepAliveSeconds   int      `json:"keepAliveSeconds"`
	LocalTunAddress    string   `json:"localTunAddress"`  // server side of the tunnel, unused by the controller
	RemoteTunAddress   string   `json:"remoteTunAddress"` // the client's tunnel IP, handed out by peers/init
	RemoteSubnets      []string `json:"remoteSubnets"`    // subnets the peer provides access to
	AllowedSubnets     []string `json:"allowedSubnets"`   // subnets the peer may reach
	LastSeenUnixMillis int64    `json:"lastSeenUnixMillis"`
	LastIPAddress      string   `json:"lastIPAddress"`
	TransmitBytes      int64    `json:"transmitBytes"`
	ReceiveBytes       int64    `json:"receiveBytes"`
	Attributes         []string `json:"attributes"`
}

// PeerInit holds server generated values for a new peer.
type PeerInit struct {
	UUID             string `json:"uuid"`
	PrivateKey       string `json:"privateKey"`
	PublicKey        string `json:"publicKey"`
	PreSharedKey     string `json:"preSharedKey"`
	LocalTunAddress  string `json:"localTunAddress"`
	RemoteTunAddress string `json:"remoteTunAddress"` // unique client address within ServerCIDR
	ServerCIDR       string `json:"serverCIDR"`
}

// NewPeer seeds a peer from an init response.
func (p PeerInit) NewPeer(hostname string) Peer {
	return Peer{
		UUID:             p.UUID,
		Hostname:         hostname,
		Enabled:          true,
		PrivateKey:       p.PrivateKey,
		PublicKey:        p.PublicKey,
		PreSharedKey:     p.PreSharedKey,
		KeepAliveSeconds: 25,
		LocalTunAddress:  p.LocalTunAddress,
		RemoteTunAddress: p.RemoteTunAddress,
		RemoteSubnets:    []string{},
		AllowedSubnets:   []string{},
		Attributes:       []string{},
	}
}

// ServerInfo describes the controller's public WireGuard endpoint.
type ServerInfo struct {
	PublicKey        string   `json:"publicKey"`
	PublicEndpoint   string   `json:"publicEndpoint"`
	NameServers      []string `json:"nameServers"`
	Netmask          string   `json:"netmask"`
	ServerInternalIP string   `json:"serverInternalIP"`
}

// Health is the body of the health endpoint.
type Health struct {
	Status string `json:"status"`
}
