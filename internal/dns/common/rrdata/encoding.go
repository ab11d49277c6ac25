package rrdata

import (
	"fmt"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// Encode encodes a record's human-readable text form into wire-format
// rdata, dispatching on its RRType. Used by test fixtures and the
// in-memory authoritative responder to build synthetic records.
func Encode(rrType domain.RRType, data string) ([]byte, error) {
	switch rrType {
	case domain.RRTypeA:
		return EncodeAData(data)
	case domain.RRTypeNS:
		return EncodeNSData(data)
	case domain.RRTypeCNAME:
		return EncodeCNAMEData(data)
	case domain.RRTypeSOA:
		return EncodeSOAData(data)
	case domain.RRTypeAAAA:
		return EncodeAAAAData(data)
	case domain.RRTypeOPT:
		return notAllowedInZone(domain.RRTypeOPT)
	case domain.RRTypeDS:
		return notimp(domain.RRTypeDS)
	case domain.RRTypeRRSIG:
		return notimp(domain.RRTypeRRSIG)
	case domain.RRTypeNSEC:
		return notimp(domain.RRTypeNSEC)
	case domain.RRTypeDNSKEY:
		return notimp(domain.RRTypeDNSKEY)
	default:
		return []byte(data), nil
	}
}

func notimp(t domain.RRType) ([]byte, error) {
	return nil, fmt.Errorf("%s record encoding not implemented yet", t)
}

func notAllowedInZone(t domain.RRType) ([]byte, error) {
	return nil, fmt.Errorf("%s record type not allowed in outbound answers", t)
}
