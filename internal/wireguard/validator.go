package wireguard

import (
	"encoding/base64"
	"fmt"
	"net"
	"net/mail"
	"regexp"
	"strconv"
	"strings"

	"wgcAdmin/internal/models"
)

var (
	endpointPattern = regexp.MustCompile(`^[a-zA-Z0-9.-]+:\d{1,5}$`)
	hostnamePattern = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?$`)
)

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidatePeer checks a peer before it is sent to the controller. It returns
// every problem found so a form can show them together.
func ValidatePeer(peer models.Peer) []error {
	var errs []error

	if peer.UUID == "" {
		errs = append(errs, ValidationError{Field: "UUID", Message: "required"})
	}

	if !ValidateHostname(peer.Hostname) {
		errs = append(errs, ValidationError{Field: "Hostname", Message: "letters, digits and '-' only"})
	}

	if !ValidateKey(peer.PublicKey) {
		errs = append(errs, ValidationError{Field: "PublicKey", Message: "invalid key"})
	}

	if peer.PrivateKey != "" && !KeysMatch(peer.PrivateKey, peer.PublicKey) {
		errs = append(errs, ValidationError{Field: "PrivateKey", Message: "does not match public key"})
	}

	if peer.PreSharedKey != "" && !ValidateKey(peer.PreSharedKey) {
		errs = append(errs, ValidationError{Field: "PreSharedKey", Message: "invalid key"})
	}

	if !ValidateKeepalive(peer.KeepAliveSeconds) {
		errs = append(errs, ValidationError{Field: "KeepAliveSeconds", Message: "must be 0-65535"})
	}

	if net.ParseIP(peer.RemoteTunAddress) == nil {
		errs = append(errs, ValidationError{Field: "RemoteTunAddress", Message: "invalid IP address"})
	}

	if !ValidateSubnets(peer.RemoteSubnets) {
		errs = append(errs, ValidationError{Field: "RemoteSubnets", Message: "invalid CIDR"})
	}

	if !ValidateSubnets(peer.AllowedSubnets) {
		errs = append(errs, ValidationError{Field: "AllowedSubnets", Message: "invalid CIDR"})
	}

	return errs
}

// ValidateKey checks if a key is valid base64 and correct length (32 bytes = 44 chars base64).
func ValidateKey(key string) bool {
	if len(key) != 44 {
		return false
	}
	decoded, err := base64.StdEncoding.DecodeString(key)
	if err != nil {
		return false
	}
	return len(decoded) == 32
}

// ValidateAddress checks CIDR notation (e.g., 10.0.0.1/24).
func ValidateAddress(addr string) bool {
	_, _, err := net.ParseCIDR(addr)
	return err == nil
}

// ValidateSubnets checks a list of CIDRs. An empty list is valid.
func ValidateSubnets(subnets []string) bool {
	for _, subnet := range subnets {
		if !ValidateAddress(strings.TrimSpace(subnet)) {
			return false
		}
	}
	return true
}

// ValidateEndpoint checks host:port format.
func ValidateEndpoint(endpoint string) bool {
	if !endpointPattern.MatchString(endpoint) {
		return false
	}
	_, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		return false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return false
	}
	return port > 0 && port <= 65535
}

// ValidateHostname checks a single DNS label, which is how the controller
// publishes peer names.
func ValidateHostname(name string) bool {
	return hostnamePattern.MatchString(name)
}

// ValidateKeepalive checks a keepalive interval in seconds (0 disables it).
func ValidateKeepalive(seconds int) bool {
	return seconds >= 0 && seconds <= 65535
}

// ValidateEmail checks an account email address.
func ValidateEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// ValidateRole checks an account role.
func ValidateRole(role string) bool {
	return role == models.RoleUser || role == models.RoleAdmin
}
