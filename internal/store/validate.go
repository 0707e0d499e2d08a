package store

import (
	"fmt"
	"unicode"
)

// maxOwnerIDLen bounds owner ids well above anything an identity provider
// hands out (OIDC subjects are typically under 64 bytes).
const maxOwnerIDLen = 128

// ValidateOwnerID checks that ownerID is usable as a partition key. It does
// NOT check that the owner exists — owner ids are opaque identifiers from
// the identity provider, not foreign keys. The '/' ban keeps owner ids safe
// to embed in KV key paths.
func ValidateOwnerID(ownerID string) error {
	if ownerID == "" {
		return ErrInvalidOwner
	}
	if len(ownerID) > maxOwnerIDLen {
		return fmt.Errorf("%w: longer than %d bytes", ErrInvalidOwner, maxOwnerIDLen)
	}
	for _, r := range ownerID {
		if unicode.IsSpace(r) || unicode.IsControl(r) || r == '/' {
			return fmt.Errorf("%w: %q", ErrInvalidOwner, ownerID)
		}
	}
	return nil
}
