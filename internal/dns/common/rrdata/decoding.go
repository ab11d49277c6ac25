package rrdata

import (
	"fmt"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// Decode decodes a record's wire-format rdata into human-readable text,
// dispatching on its RRType. The iterator's resolution logic does not call
// it: it reads NS and CNAME targets via domain.ResourceRecord.RDataName and
// copies SOA records without decoding them.
func Decode(rrType domain.RRType, data []byte) (string, error) {
	switch rrType {
	case domain.RRTypeA:
		return decodeAData(data)
	case domain.RRTypeNS:
		return decodeNSData(data)
	case domain.RRTypeCNAME:
		return decodeCNAMEData(data)
	case domain.RRTypeSOA:
		return decodeSOAData(data)
	case domain.RRTypeAAAA:
		return decodeAAAAData(data)
	case domain.RRTypeOPT:
		return decoderNotImplemented(domain.RRTypeOPT)
	case domain.RRTypeDS:
		return decoderNotImplemented(domain.RRTypeDS)
	case domain.RRTypeRRSIG:
		return decoderNotImplemented(domain.RRTypeRRSIG)
	case domain.RRTypeNSEC:
		return decoderNotImplemented(domain.RRTypeNSEC)
	case domain.RRTypeDNSKEY:
		return decoderNotImplemented(domain.RRTypeDNSKEY)
	default:
		return string(data), nil
	}
}

func decoderNotImplemented(t domain.RRType) (string, error) {
	return "", fmt.Errorf("%s record decoding not implemented yet", t)
}
