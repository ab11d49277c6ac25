package iterator

import (
	"net"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// ZoneCut holds the current delegation point a query is being resolved
// against: the zone name, the nameserver name authoritative for it, and
// whatever addresses have been learned for that nameserver so far.
type ZoneCut struct {
	Name    domain.Name
	NSName  domain.Name
	NSAddrs []net.IP
}

// NewZoneCut constructs a ZoneCut with no addresses yet learned.
func NewZoneCut(name, nsName domain.Name) ZoneCut {
	return ZoneCut{Name: name, NSName: nsName}
}

// SetName descends the cut to a new delegation point, discarding any
// addresses learned for the previous nameserver name. Callers are
// responsible for having already verified newName is in-bailiwick of the
// prior cut (processAuthority's job) before calling this.
func (z *ZoneCut) SetName(newName, newNS domain.Name) {
	z.Name = newName
	z.NSName = newNS
	z.NSAddrs = nil
}

// SetNSAddr accepts an A or AAAA record whose owner equals the cut's
// current ns_name and appends its address. Any other RR — wrong type or
// wrong owner — is silently ignored, which is the invariant that keeps a
// glue record from ever being attributed to the wrong nameserver.
func (z *ZoneCut) SetNSAddr(rr domain.ResourceRecord) bool {
	if rr.Type != domain.RRTypeA && rr.Type != domain.RRTypeAAAA {
		return false
	}
	if !rr.Name.Equal(z.NSName) {
		return false
	}
	ip := addrFromRData(rr)
	if ip == nil {
		return false
	}
	z.NSAddrs = append(z.NSAddrs, ip)
	return true
}

// addrFromRData interprets rr.Data as a raw A/AAAA address. Both rdata
// encodings in this codebase store the address as its plain 4 or 16 byte
// wire form, so no further decoding is needed.
func addrFromRData(rr domain.ResourceRecord) net.IP {
	switch rr.Type {
	case domain.RRTypeA:
		if len(rr.Data) != 4 {
			return nil
		}
		return net.IP(append([]byte(nil), rr.Data...))
	case domain.RRTypeAAAA:
		if len(rr.Data) != 16 {
			return nil
		}
		return net.IP(append([]byte(nil), rr.Data...))
	default:
		return nil
	}
}
