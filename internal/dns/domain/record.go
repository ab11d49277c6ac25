package domain

import (
	"fmt"
	"time"
)

// ResourceRecord is a single DNS resource record as received on the wire or
// synthesized locally. Records arriving from upstream carry an expiresAt
// computed at the time they were received; records synthesized by this
// process (e.g. compiled-in root hints) are authoritative and never expire
// on their own account, though callers still bound their use by TTL.
type ResourceRecord struct {
	Name      Name
	Type      RRType
	Class     RRClass
	ttl       uint32
	expiresAt *time.Time // nil if record does not expire on its own
	Data      []byte     // wire-format RDATA
}

// NewResourceRecord constructs a ResourceRecord received at now with the
// given TTL, computing its expiry.
func NewResourceRecord(name Name, rrtype RRType, class RRClass, ttl uint32, data []byte, now time.Time) (ResourceRecord, error) {
	exp := now.Add(time.Duration(ttl) * time.Second)
	rr := ResourceRecord{
		Name:      name,
		Type:      rrtype,
		Class:     class,
		ttl:       ttl,
		expiresAt: &exp,
		Data:      data,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// NewStaticResourceRecord constructs a ResourceRecord that does not expire
// on its own, used for compiled-in and file-loaded root hints.
func NewStaticResourceRecord(name Name, rrtype RRType, class RRClass, ttl uint32, data []byte) (ResourceRecord, error) {
	rr := ResourceRecord{
		Name:      name,
		Type:      rrtype,
		Class:     class,
		ttl:       ttl,
		expiresAt: nil,
		Data:      data,
	}
	if err := rr.Validate(); err != nil {
		return ResourceRecord{}, err
	}
	return rr, nil
}

// Validate checks whether the ResourceRecord fields are valid.
func (rr ResourceRecord) Validate() error {
	if rr.Name == "" {
		return fmt.Errorf("record name must not be empty")
	}
	if !rr.Type.IsValid() {
		return fmt.Errorf("invalid RRType: %d", rr.Type)
	}
	if !rr.Class.IsValid() {
		return fmt.Errorf("invalid RRClass: %d", rr.Class)
	}
	if len(rr.Data) == 0 {
		return fmt.Errorf("record data must not be empty")
	}
	return nil
}

// TTL returns the effective TTL for wire encoding: the original TTL for
// records that don't expire on their own, or the remaining lifetime for
// records received from upstream.
func (rr ResourceRecord) TTL() uint32 {
	if rr.expiresAt == nil {
		return rr.ttl
	}
	remaining := time.Until(*rr.expiresAt).Seconds()
	if remaining <= 0 {
		return 0
	}
	return uint32(remaining)
}

// IsExpired reports whether rr's lifetime has passed.
func (rr ResourceRecord) IsExpired() bool {
	if rr.expiresAt == nil {
		return false
	}
	return time.Now().After(*rr.expiresAt)
}

// CacheKey returns a cache key string derived from the record's name, type, and class.
func (rr ResourceRecord) CacheKey() string {
	return GenerateCacheKey(rr.Name, rr.Type, rr.Class)
}

// RDataName decodes rr.Data as a single domain name, valid for NS and CNAME
// records. By convention records of these types carry their target name
// fully expanded (no compression pointers) in Data, so this needs no
// access to the enclosing message. It reports false for any other type or
// on malformed rdata.
func (rr ResourceRecord) RDataName() (Name, bool) {
	if rr.Type != RRTypeNS && rr.Type != RRTypeCNAME {
		return "", false
	}
	name, ok := decodeNameNoCompression(rr.Data)
	if !ok {
		return "", false
	}
	return NewName(name), true
}

// decodeNameNoCompression decodes a length-prefixed label sequence with no
// compression pointer support.
func decodeNameNoCompression(data []byte) (string, bool) {
	var labels []string
	i := 0
	for i < len(data) {
		l := int(data[i])
		if l == 0 {
			return joinLabels(labels), true
		}
		if l&0xC0 != 0 {
			return "", false // compression pointer, not supported here
		}
		i++
		if i+l > len(data) {
			return "", false
		}
		labels = append(labels, string(data[i:i+l]))
		i += l
	}
	return "", false
}

func joinLabels(labels []string) string {
	if len(labels) == 0 {
		return "."
	}
	s := ""
	for _, l := range labels {
		s += l + "."
	}
	return s
}
