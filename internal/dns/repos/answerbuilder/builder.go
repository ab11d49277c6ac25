// Package answerbuilder provides the iterator.AnswerBuilder implementation
// that accumulates the client-facing ANSWER and AUTHORITY sections,
// tracking their encoded wire size against a UDP payload budget.
package answerbuilder

import (
	"strings"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
	"github.com/student-dns/rr-iterator/internal/dns/iterator"
)

// fixedRRSize is the per-record overhead of TYPE, CLASS, TTL, and RDLENGTH
// that precedes every RDATA, mirroring the field layout udp_codec.go writes.
const fixedRRSize = 2 + 2 + 4 + 2

// DefaultUDPPayloadSize is used when no EDNS(0) budget was negotiated,
// matching the pre-EDNS UDP message limit in RFC 1035 §2.3.4.
const DefaultUDPPayloadSize = 512

// Builder accumulates outward resource records bounded by a wire-size
// budget. It is not safe for concurrent use; each resolution context owns
// its own Builder, consistent with the iterator's single-threaded,
// per-context concurrency model.
type Builder struct {
	budget int
	used   int
	answer []domain.ResourceRecord
	nsRRs  []domain.ResourceRecord
	tc     bool
}

// New constructs a Builder bounded by payloadSize bytes. A non-positive
// payloadSize falls back to DefaultUDPPayloadSize.
func New(payloadSize int) *Builder {
	if payloadSize <= 0 {
		payloadSize = DefaultUDPPayloadSize
	}
	return &Builder{budget: payloadSize, used: headerSize}
}

// headerSize accounts for the fixed 12-byte DNS header only; the question
// section is not counted. The iterator only ever measures incremental
// answer growth against this budget, so an estimate here is sufficient —
// the codec, not the builder, produces the authoritative wire encoding.
const headerSize = 12

// Put appends rr to the ANSWER section, returning ErrAnswerBufferFull
// without mutating state once rr's encoded size would exceed the budget.
func (b *Builder) Put(rr domain.ResourceRecord) error {
	size := recordSize(rr)
	if b.used+size > b.budget {
		return iterator.ErrAnswerBufferFull
	}
	b.used += size
	b.answer = append(b.answer, rr)
	return nil
}

// PutAuthority appends rr to the AUTHORITY section under the same budget,
// used for the single SOA copied into negative responses.
func (b *Builder) PutAuthority(rr domain.ResourceRecord) error {
	size := recordSize(rr)
	if b.used+size > b.budget {
		return iterator.ErrAnswerBufferFull
	}
	b.used += size
	b.nsRRs = append(b.nsRRs, rr)
	return nil
}

// SetTC marks the outgoing response as truncated.
func (b *Builder) SetTC(tc bool) {
	b.tc = tc
}

// Answer returns the accumulated ANSWER section records, in Put order.
func (b *Builder) Answer() []domain.ResourceRecord {
	return append([]domain.ResourceRecord(nil), b.answer...)
}

// Authority returns the accumulated AUTHORITY section records, in
// PutAuthority order.
func (b *Builder) Authority() []domain.ResourceRecord {
	return append([]domain.ResourceRecord(nil), b.nsRRs...)
}

// Truncated reports whether SetTC(true) was ever called.
func (b *Builder) Truncated() bool {
	return b.tc
}

// recordSize estimates rr's wire-encoded size: an uncompressed name plus
// the fixed TYPE/CLASS/TTL/RDLENGTH fields plus RDATA, mirroring
// writeResourceRecord's field layout in the wire codec.
func recordSize(rr domain.ResourceRecord) int {
	return nameSize(string(rr.Name)) + fixedRRSize + len(rr.Data)
}

// nameSize is the wire length of name encoded without compression: one
// length-prefixed label per dot-separated segment, terminated by a zero
// length octet.
func nameSize(name string) int {
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		return 1
	}
	size := 1
	for _, label := range strings.Split(name, ".") {
		size += 1 + len(label)
	}
	return size
}

var _ iterator.AnswerBuilder = (*Builder)(nil)
