package signature

import (
	"crypto/ed25519"
)

// Verify checks an ed25519 signature. Malformed keys or signatures fail.
func Verify(pubKey, payload, sig []byte) bool {
	if len(pubKey) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pubKey), payload, sig)
}
