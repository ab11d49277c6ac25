// Package secrand provides the cryptographically strong transaction-id
// source the iterator requires for every outbound query.
package secrand

import (
	"crypto/rand"
	"encoding/binary"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
)

// Source draws 16-bit values from a cryptographically strong generator.
type Source interface {
	Uint16() uint16
}

// cryptoSource implements Source over crypto/rand.
type cryptoSource struct{}

// New returns the default crypto/rand-backed Source.
func New() Source {
	return cryptoSource{}
}

// Uint16 returns a fresh cryptographically strong 16-bit value. On the
// practically-impossible failure of the OS entropy source it falls back to
// zero and logs at error level rather than panicking mid-resolution.
func (cryptoSource) Uint16() uint16 {
	var buf [2]byte
	if _, err := rand.Read(buf[:]); err != nil {
		log.Error(map[string]any{"error": err}, "secrand: failed to read random bytes")
		return 0
	}
	return binary.BigEndian.Uint16(buf[:])
}
