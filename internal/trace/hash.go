package trace

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// DomainTrace separates trace digests from other hashes in the module.
const DomainTrace = "livepose/trace/v1"

// HashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Digest returns the hex digest of a trace's canonical form.
func Digest(t *Trace) (string, error) {
	data, err := t.Canonical()
	if err != nil {
		return "", fmt.Errorf("trace digest: %w", err)
	}
	return HashWithDomain(DomainTrace, data), nil
}
