package wireguard

import (
	"fmt"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"
)

// GenerateKeyPair generates a new private/public key pair. The controller
// hands out keys through peers/init; this is used when an admin regenerates
// keys for an existing peer from the form.
func GenerateKeyPair() (privateKey, publicKey string, err error) {
	privKey, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate private key: %w", err)
	}
	return privKey.String(), privKey.PublicKey().String(), nil
}

// GeneratePrivateKey generates a new private key.
func GeneratePrivateKey() (string, error) {
	key, err := wgtypes.GeneratePrivateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate private key: %w", err)
	}
	return key.String(), nil
}

// DerivePublicKey derives public key from private key
func DerivePublicKey(privateKey string) (string, error) {
	key, err := wgtypes.ParseKey(privateKey)
	if err != nil {
		return "", fmt.Errorf("invalid private key: %w", err)
	}
	return key.PublicKey().String(), nil
}

// GeneratePresharedKey generates a preshared key for additional security
func GeneratePresharedKey() (string, error) {
	key, err := wgtypes.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("failed to generate preshared key: %w", err)
	}
	return key.String(), nil
}

// KeysMatch reports whether publicKey belongs to privateKey. A peer with a
// private key on file must never be saved with some other public key.
func KeysMatch(privateKey, publicKey string) bool {
	derived, err := DerivePublicKey(privateKey)
	if err != nil {
		return false
	}
	return derived == publicKey
}
