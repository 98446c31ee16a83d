package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// Generation schemes accepted by Generate.
const (
	TypeHex     = "hex"
	TypeURLSafe = "urlsafe"
)

// Descriptor governs how a secret's entropy is produced: the encoding scheme
// and the number of random bytes drawn. 32 hex bytes yield a 64-character
// string; 18 urlsafe bytes yield a 24-character string. Callers should treat
// lengths below 16 bytes as weak.
type Descriptor struct {
	Type  string
	Bytes int
}

// Generate draws d.Bytes of cryptographically secure entropy and encodes it
// per d.Type: lowercase hexadecimal for hex, unpadded URL-safe base64 for
// urlsafe. An unrecognized type or non-positive length is an input error,
// never a silent fallback.
func Generate(d Descriptor) (string, error) {
	if d.Bytes <= 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidByteLength, d.Bytes)
	}

	raw := make([]byte, d.Bytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}

	switch d.Type {
	case TypeHex:
		return hex.EncodeToString(raw), nil
	case TypeURLSafe:
		return base64.RawURLEncoding.EncodeToString(raw), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, d.Type)
	}
}
