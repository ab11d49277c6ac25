package transport

import (
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// respond builds the response a real authoritative server holding z would
// send for query, following the same three-way classification a resolver
// itself makes downstream: direct answer, referral, or negative.
func (z *Zone) respond(query domain.Packet) domain.Packet {
	q := query.Question
	header := domain.Header{
		ID:      query.Header.ID,
		QR:      true,
		RD:      query.Header.RD,
		QDCount: 1,
	}

	if answers := z.lookup(q.Name, q.Type); len(answers) > 0 {
		header.AA = true
		header.RCode = domain.RCodeNoError
		header.ANCount = uint16(len(answers))
		return domain.Packet{Header: header, Question: q, Answer: answers}
	}

	// CNAME present where a different type was asked: follow it once, as
	// a real authoritative server does within its own zone.
	if cnames := z.lookup(q.Name, domain.RRTypeCNAME); len(cnames) > 0 {
		header.AA = true
		header.RCode = domain.RCodeNoError
		answer := append([]domain.ResourceRecord(nil), cnames...)
		if target, ok := cnames[0].RDataName(); ok {
			answer = append(answer, z.lookup(target, q.Type)...)
		}
		header.ANCount = uint16(len(answer))
		return domain.Packet{Header: header, Question: q, Answer: answer}
	}

	if d, ok := z.bestDelegation(q.Name); ok && !d.cut.Equal(domain.Root) {
		header.RCode = domain.RCodeNoError
		header.NSCount = uint16(len(d.ns))
		header.ARCount = uint16(len(d.glue))
		return domain.Packet{
			Header:     header,
			Question:   q,
			Authority:  d.ns,
			Additional: d.glue,
		}
	}

	header.AA = true
	if z.hasAnyRecord(q.Name) {
		header.RCode = domain.RCodeNoError
	} else {
		header.RCode = domain.RCodeNXDomain
	}
	return domain.Packet{Header: header, Question: q}
}
