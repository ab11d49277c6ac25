package domain

import "fmt"

// Header carries the fixed DNS message header fields the iterator cares
// about. Fields it never inspects (Z, AD, CD) are not modeled.
type Header struct {
	ID      uint16
	QR      bool // true if this is a response
	Opcode  uint8
	AA      bool
	TC      bool
	RD      bool
	RA      bool
	RCode   RCode
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// EDNS carries the parsed EDNS(0) OPT pseudo-RR, if one was present.
type EDNS struct {
	UDPPayloadSize uint16
	Version        uint8
	DNSSECOK       bool // the DO bit
}

// Packet is a fully parsed DNS message: header, question, and the three RR
// sections. ParsedLength and WireLength let callers detect a malformed
// message (parsed_bytes != wire_length) without re-walking the buffer.
type Packet struct {
	Header       Header
	Question     Question
	Answer       []ResourceRecord
	Authority    []ResourceRecord
	Additional   []ResourceRecord
	EDNS         *EDNS
	ParsedLength int
	WireLength   int
}

// IsWellFormed reports whether the packet decoded cleanly to the end of
// its wire representation.
func (p Packet) IsWellFormed() bool {
	return p.ParsedLength == p.WireLength
}

// IsResponseTo reports whether p is a plausible response to q: matching
// id, question name, type, and class. This is the anti-spoofing guard —
// callers must still verify the packet arrived from an expected address.
func (p Packet) IsResponseTo(q Question) bool {
	if p.Header.ID != q.ID {
		return false
	}
	if !p.Question.Name.Equal(q.Name) {
		return false
	}
	return p.Question.Type == q.Type && p.Question.Class == q.Class
}

// Validate checks structural validity of the header and all three sections.
func (p Packet) Validate() error {
	if !p.Header.RCode.IsValid() {
		return fmt.Errorf("invalid RCode: %d", p.Header.RCode)
	}
	for i, rr := range p.Answer {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid answer record at index %d: %w", i, err)
		}
	}
	for i, rr := range p.Authority {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid authority record at index %d: %w", i, err)
		}
	}
	for i, rr := range p.Additional {
		if err := rr.Validate(); err != nil {
			return fmt.Errorf("invalid additional record at index %d: %w", i, err)
		}
	}
	return nil
}
