package iterator

import "github.com/student-dns/rr-iterator/internal/dns/domain"

// Classification buckets a parsed response for the purposes of the
// minimization-retry special case and negative-caching in finalizeAnswer.
type Classification int

const (
	ClassificationPositive Classification = iota
	ClassificationNoData
	ClassificationNXDomain
	ClassificationError
)

func (c Classification) String() string {
	switch c {
	case ClassificationPositive:
		return "POSITIVE"
	case ClassificationNoData:
		return "NODATA"
	case ClassificationNXDomain:
		return "NXDOMAIN"
	case ClassificationError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Classify maps a parsed response packet to one of the four outcomes.
// Classification has no side effects and is independent of whether the
// packet is a referral — that distinction is made by processAuthority.
func Classify(pkt domain.Packet) Classification {
	switch pkt.Header.RCode {
	case domain.RCodeNXDomain:
		return ClassificationNXDomain
	case domain.RCodeNoError:
		if len(pkt.Answer) > 0 {
			return ClassificationPositive
		}
		return ClassificationNoData
	default:
		return ClassificationError
	}
}
