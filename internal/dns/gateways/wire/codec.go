package wire

import (
	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// DNSCodec encodes and decodes the full wire representation of a DNS
// message — header, question, all three RR sections, and the EDNS(0) OPT
// pseudo-RR — used for both outbound queries the iterator prepares and
// inbound responses it resolves.
type DNSCodec interface {
	EncodePacket(pkt domain.Packet) ([]byte, error)
	DecodePacket(data []byte) (domain.Packet, error)

	// EncodeTCP and DecodeTCP wrap EncodePacket/DecodePacket with the
	// 2-byte big-endian length prefix RFC 1035 §4.2.2 requires for DNS
	// over TCP, used once a query has been promoted after truncation.
	EncodeTCP(pkt domain.Packet) ([]byte, error)
	DecodeTCP(data []byte) (domain.Packet, error)
}

// NewCodec constructs the DNSCodec implementation, given a logger for
// wire-level debug tracing.
func NewCodec(logger log.Logger) DNSCodec {
	return &udpCodec{logger: logger}
}
