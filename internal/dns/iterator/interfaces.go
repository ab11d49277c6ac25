package iterator

import "github.com/student-dns/rr-iterator/internal/dns/domain"

// RootHints supplies the zone cut a fresh resolution plan starts from.
type RootHints interface {
	InitialZoneCut() ZoneCut
}

// AnswerBuilder accumulates the records destined for the client-facing
// response, bounded by whatever size budget the concrete implementation
// enforces (typically the EDNS(0) UDP payload size).
type AnswerBuilder interface {
	// Put appends rr to the ANSWER section. It returns ErrAnswerBufferFull
	// once the configured budget would be exceeded; the caller still
	// continues CNAME tracking after a Put failure, it just stops copying.
	Put(rr domain.ResourceRecord) error
	// PutAuthority appends rr to the AUTHORITY section, used for negative
	// caching metadata (the single SOA copied in finalizeAnswer).
	PutAuthority(rr domain.ResourceRecord) error
	// SetTC marks the outgoing response as truncated.
	SetTC(tc bool)
}

// Random is a cryptographically strong 16-bit id source.
type Random interface {
	Uint16() uint16
}
