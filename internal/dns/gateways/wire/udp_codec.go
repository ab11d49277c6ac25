// Package wire provides encoding and decoding of DNS messages for UDP and
// TCP transport, per RFC 1035 and the EDNS(0) extension in RFC 6891.
package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// udpCodec implements DNSCodec over the raw DNS wire format. The name is
// kept from the original single-transport codec even though it now also
// serves the TCP length-prefixed variant; the wire format itself doesn't
// change between the two.
type udpCodec struct {
	logger log.Logger
}

// NewUDPCodec constructs a DNSCodec, kept as a named constructor alongside
// the generic NewCodec for callers that want to be explicit about the
// transport they're wiring up.
func NewUDPCodec(logger log.Logger) DNSCodec {
	return &udpCodec{logger: logger}
}

const headerSize = 12

// EncodePacket serializes pkt's header, question, and three RR sections
// into wire format, appending an EDNS(0) OPT record to ADDITIONAL when
// pkt.EDNS is set. Name compression is not used on the way out — every
// name is written fully expanded, which keeps the encoder simple at the
// cost of a handful of extra bytes per query.
func (c *udpCodec) EncodePacket(pkt domain.Packet) ([]byte, error) {
	var buf bytes.Buffer

	arCount := len(pkt.Additional)
	if pkt.EDNS != nil {
		arCount++
	}
	if err := writeHeader(&buf, pkt.Header, 1, len(pkt.Answer), len(pkt.Authority), arCount); err != nil {
		return nil, err
	}

	qname, err := encodeDomainName(string(pkt.Question.Name))
	if err != nil {
		return nil, fmt.Errorf("encode question name: %w", err)
	}
	buf.Write(qname)
	_ = binary.Write(&buf, binary.BigEndian, uint16(pkt.Question.Type))
	_ = binary.Write(&buf, binary.BigEndian, uint16(pkt.Question.Class))

	for _, section := range [][]domain.ResourceRecord{pkt.Answer, pkt.Authority, pkt.Additional} {
		for _, rr := range section {
			if err := writeResourceRecord(&buf, rr); err != nil {
				return nil, err
			}
		}
	}

	if pkt.EDNS != nil {
		if err := writeEDNS(&buf, *pkt.EDNS); err != nil {
			return nil, err
		}
	}

	c.logger.Debug(map[string]any{
		"id":   pkt.Header.ID,
		"qd":   1,
		"an":   len(pkt.Answer),
		"ns":   len(pkt.Authority),
		"ar":   arCount,
		"size": buf.Len(),
	}, "wire: encoded packet")

	return buf.Bytes(), nil
}

// EncodeTCP is EncodePacket with the 2-byte length prefix RFC 1035 §4.2.2
// requires for DNS over TCP.
func (c *udpCodec) EncodeTCP(pkt domain.Packet) ([]byte, error) {
	body, err := c.EncodePacket(pkt)
	if err != nil {
		return nil, err
	}
	if len(body) > 65535 {
		return nil, fmt.Errorf("tcp message too large: %d bytes", len(body))
	}
	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.BigEndian, uint16(len(body)))
	buf.Write(body)
	return buf.Bytes(), nil
}

// DecodeTCP strips the 2-byte length prefix and decodes the framed message,
// erroring if the prefix doesn't match the remaining buffer length.
func (c *udpCodec) DecodeTCP(data []byte) (domain.Packet, error) {
	if len(data) < 2 {
		return domain.Packet{}, errors.New("tcp message too short for length prefix")
	}
	length := int(binary.BigEndian.Uint16(data[0:2]))
	if length != len(data)-2 {
		return domain.Packet{}, fmt.Errorf("tcp length prefix mismatch: header says %d, have %d", length, len(data)-2)
	}
	return c.DecodePacket(data[2:])
}

func writeHeader(buf *bytes.Buffer, h domain.Header, qdCount, anCount, nsCount, arCount int) error {
	for name, n := range map[string]int{"answer": anCount, "authority": nsCount, "additional": arCount} {
		if n > 65535 {
			return fmt.Errorf("too many %s records: %d (max 65535)", name, n)
		}
	}

	_ = binary.Write(buf, binary.BigEndian, h.ID)

	var flags uint16
	if h.QR {
		flags |= 1 << 15
	}
	flags |= uint16(h.Opcode&0x0F) << 11
	if h.AA {
		flags |= 1 << 10
	}
	if h.TC {
		flags |= 1 << 9
	}
	if h.RD {
		flags |= 1 << 8
	}
	if h.RA {
		flags |= 1 << 7
	}
	flags |= uint16(h.RCode) & 0x0F
	_ = binary.Write(buf, binary.BigEndian, flags)

	_ = binary.Write(buf, binary.BigEndian, uint16(qdCount))
	_ = binary.Write(buf, binary.BigEndian, uint16(anCount))
	_ = binary.Write(buf, binary.BigEndian, uint16(nsCount))
	_ = binary.Write(buf, binary.BigEndian, uint16(arCount))
	return nil
}

func writeResourceRecord(buf *bytes.Buffer, rr domain.ResourceRecord) error {
	name, err := encodeDomainName(string(rr.Name))
	if err != nil {
		return fmt.Errorf("encode record name %q: %w", rr.Name, err)
	}
	buf.Write(name)
	_ = binary.Write(buf, binary.BigEndian, uint16(rr.Type))
	_ = binary.Write(buf, binary.BigEndian, uint16(rr.Class))
	_ = binary.Write(buf, binary.BigEndian, rr.TTL())

	if len(rr.Data) > 65535 {
		return fmt.Errorf("resource record data too large: %d bytes (max 65535)", len(rr.Data))
	}
	_ = binary.Write(buf, binary.BigEndian, uint16(len(rr.Data)))
	buf.Write(rr.Data)
	return nil
}

// writeEDNS appends the OPT pseudo-RR: root-owned, type 41, with the
// requestor's UDP payload size in the CLASS field and the extended rcode,
// version, and DO bit packed into the TTL field per RFC 6891 §6.1.
func writeEDNS(buf *bytes.Buffer, e domain.EDNS) error {
	buf.WriteByte(0) // root name
	_ = binary.Write(buf, binary.BigEndian, uint16(domain.RRTypeOPT))
	_ = binary.Write(buf, binary.BigEndian, e.UDPPayloadSize)

	var ttl uint32 = uint32(e.Version) << 16
	if e.DNSSECOK {
		ttl |= 1 << 15
	}
	_ = binary.Write(buf, binary.BigEndian, ttl)
	_ = binary.Write(buf, binary.BigEndian, uint16(0)) // RDLENGTH: no options carried
	return nil
}

// encodeDomainName encodes a domain name into DNS wire format without
// compression.
func encodeDomainName(name string) ([]byte, error) {
	var buf bytes.Buffer
	name = strings.TrimSuffix(name, ".")
	if name == "" {
		buf.WriteByte(0)
		return buf.Bytes(), nil
	}
	for _, label := range strings.Split(name, ".") {
		if len(label) > 63 {
			return nil, fmt.Errorf("label too long: %s", label)
		}
		buf.WriteByte(byte(len(label)))
		buf.WriteString(label)
	}
	buf.WriteByte(0)
	return buf.Bytes(), nil
}

// decodeName decodes a domain name at offset, following chains of
// compression pointers (RFC 1035 §4.1.4) up to a 128-step loop guard, and returns
// the name plus the offset immediately after it in the message (not
// following the pointer, if one was taken).
func decodeName(data []byte, offset int) (domain.Name, int, error) {
	var labels []string
	jumped := false
	endOffset := offset

	for hops := 0; ; hops++ {
		if hops > 128 {
			return "", 0, errors.New("compression pointer loop")
		}
		if offset >= len(data) {
			return "", 0, errors.New("offset out of bounds")
		}
		length := int(data[offset])
		if length == 0 {
			offset++
			if !jumped {
				endOffset = offset
			}
			break
		}
		if length&0xC0 == 0xC0 {
			if offset+1 >= len(data) {
				return "", 0, errors.New("compression pointer out of bounds")
			}
			ptr := int(binary.BigEndian.Uint16(data[offset:offset+2]) & 0x3FFF)
			if !jumped {
				endOffset = offset + 2
			}
			jumped = true
			offset = ptr
			continue
		}
		offset++
		if offset+length > len(data) {
			return "", 0, errors.New("label length out of bounds")
		}
		labels = append(labels, string(data[offset:offset+length]))
		offset += length
	}

	name := strings.Join(labels, ".")
	if name == "" {
		name = "."
	} else {
		name += "."
	}
	return domain.NewName(name), endOffset, nil
}

// DecodePacket parses a full wire message into a domain.Packet. An EDNS(0)
// OPT record found in ADDITIONAL is pulled out into pkt.EDNS rather than
// left in the section, matching how PrepareQuery emits it.
func (c *udpCodec) DecodePacket(data []byte) (domain.Packet, error) {
	if len(data) < headerSize {
		return domain.Packet{}, errors.New("message too short for header")
	}

	id := binary.BigEndian.Uint16(data[0:2])
	flags := binary.BigEndian.Uint16(data[2:4])
	header := domain.Header{
		ID:     id,
		QR:     flags&(1<<15) != 0,
		Opcode: uint8((flags >> 11) & 0x0F),
		AA:     flags&(1<<10) != 0,
		TC:     flags&(1<<9) != 0,
		RD:     flags&(1<<8) != 0,
		RA:     flags&(1<<7) != 0,
		RCode:  domain.RCode(flags & 0x0F),
	}
	qdCount := binary.BigEndian.Uint16(data[4:6])
	anCount := binary.BigEndian.Uint16(data[6:8])
	nsCount := binary.BigEndian.Uint16(data[8:10])
	arCount := binary.BigEndian.Uint16(data[10:12])
	header.QDCount = qdCount
	header.ANCount = anCount
	header.NSCount = nsCount
	header.ARCount = arCount

	offset := headerSize
	var question domain.Question
	if qdCount > 0 {
		name, newOffset, err := decodeName(data, offset)
		if err != nil {
			return domain.Packet{}, fmt.Errorf("decode question name: %w", err)
		}
		offset = newOffset
		if offset+4 > len(data) {
			return domain.Packet{}, errors.New("truncated question")
		}
		qtype := binary.BigEndian.Uint16(data[offset : offset+2])
		offset += 2
		qclass := binary.BigEndian.Uint16(data[offset : offset+2])
		offset += 2
		question = domain.Question{ID: id, Name: name, Type: domain.RRType(qtype), Class: domain.RRClass(qclass)}
	}

	answer, offset, err := parseRRSection(data, offset, int(anCount))
	if err != nil {
		return domain.Packet{}, fmt.Errorf("parse answer section: %w", err)
	}
	authority, offset, err := parseRRSection(data, offset, int(nsCount))
	if err != nil {
		return domain.Packet{}, fmt.Errorf("parse authority section: %w", err)
	}
	additional, edns, offset, err := parseAdditionalSection(data, offset, int(arCount))
	if err != nil {
		return domain.Packet{}, fmt.Errorf("parse additional section: %w", err)
	}

	return domain.Packet{
		Header:       header,
		Question:     question,
		Answer:       answer,
		Authority:    authority,
		Additional:   additional,
		EDNS:         edns,
		ParsedLength: offset,
		WireLength:   len(data),
	}, nil
}

func parseRRSection(data []byte, offset, count int) ([]domain.ResourceRecord, int, error) {
	records := make([]domain.ResourceRecord, 0, count)
	for i := 0; i < count; i++ {
		raw, newOffset, err := parseRawRecord(data, offset)
		if err != nil {
			return nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		rr, err := domain.NewStaticResourceRecord(raw.name, domain.RRType(raw.typ), domain.RRClass(raw.class), raw.ttl, raw.rdata)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid resource record: %w", err)
		}
		records = append(records, rr)
		offset = newOffset
	}
	return records, offset, nil
}

// parseAdditionalSection is like parseRRSection but pulls the first EDNS(0)
// OPT record it finds out of the returned slice and into a domain.EDNS,
// since OPT's CLASS/TTL fields don't carry RRClass/seconds semantics and
// would otherwise fail ResourceRecord.Validate.
func parseAdditionalSection(data []byte, offset, count int) ([]domain.ResourceRecord, *domain.EDNS, int, error) {
	records := make([]domain.ResourceRecord, 0, count)
	var edns *domain.EDNS
	for i := 0; i < count; i++ {
		raw, newOffset, err := parseRawRecord(data, offset)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("record %d: %w", i, err)
		}
		offset = newOffset

		if domain.RRType(raw.typ) == domain.RRTypeOPT {
			if edns == nil {
				e := raw.toEDNS()
				edns = &e
			}
			continue
		}

		rr, err := domain.NewStaticResourceRecord(raw.name, domain.RRType(raw.typ), domain.RRClass(raw.class), raw.ttl, raw.rdata)
		if err != nil {
			return nil, nil, 0, fmt.Errorf("invalid resource record: %w", err)
		}
		records = append(records, rr)
	}
	return records, edns, offset, nil
}

// rawRecord holds a resource record's fields exactly as they appear on the
// wire, before any type-specific reinterpretation (needed for OPT, whose
// CLASS and TTL fields mean something other than class and seconds).
type rawRecord struct {
	name  domain.Name
	typ   uint16
	class uint16
	ttl   uint32
	rdata []byte
}

// toEDNS reinterprets a raw OPT record per RFC 6891 §6.1: UDP payload size
// in CLASS, extended rcode/version/DO bit packed into TTL.
func (r rawRecord) toEDNS() domain.EDNS {
	return domain.EDNS{
		UDPPayloadSize: r.class,
		Version:        uint8((r.ttl >> 16) & 0xFF),
		DNSSECOK:       r.ttl&(1<<15) != 0,
	}
}

func parseRawRecord(data []byte, offset int) (rawRecord, int, error) {
	name, offset, err := decodeName(data, offset)
	if err != nil {
		return rawRecord{}, 0, fmt.Errorf("decode name: %w", err)
	}
	if offset+10 > len(data) {
		return rawRecord{}, 0, errors.New("truncated record header")
	}

	typ := binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2
	class := binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2
	ttl := binary.BigEndian.Uint32(data[offset : offset+4])
	offset += 4
	rdLen := binary.BigEndian.Uint16(data[offset : offset+2])
	offset += 2

	if offset+int(rdLen) > len(data) {
		return rawRecord{}, 0, errors.New("truncated rdata")
	}
	rdata := make([]byte, rdLen)
	copy(rdata, data[offset:offset+int(rdLen)])
	offset += int(rdLen)

	return rawRecord{name: name, typ: typ, class: class, ttl: ttl, rdata: rdata}, offset, nil
}

var _ DNSCodec = (*udpCodec)(nil)
