package transport

import (
	"fmt"

	"github.com/student-dns/rr-iterator/internal/dns/common/rrdata"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// NewTextRecord builds a static resource record from rdata's human-readable
// text form ("192.0.2.1", "ns1.example.com.", a 7-field SOA string, ...),
// the same text encoding zone file fixtures use, so simulated zone content
// reads the way a real zone file would instead of as raw rdata bytes.
func NewTextRecord(name domain.Name, typ domain.RRType, class domain.RRClass, ttl uint32, text string) (domain.ResourceRecord, error) {
	data, err := rrdata.Encode(typ, text)
	if err != nil {
		return domain.ResourceRecord{}, fmt.Errorf("transport: encode %s rdata for %s: %w", typ, name, err)
	}
	return domain.NewStaticResourceRecord(name, typ, class, ttl, data)
}

// Zone is one simulated authoritative server's canned content: the records
// it answers for directly, and the delegations it refers to below cuts it
// doesn't serve itself.
type Zone struct {
	records     map[rrKey][]domain.ResourceRecord
	delegations []delegation
}

type rrKey struct {
	name domain.Name
	typ  domain.RRType
}

// delegation is a referral this zone hands out for names at or below cut,
// carrying the NS records it returns in AUTHORITY and the glue it returns
// in ADDITIONAL.
type delegation struct {
	cut   domain.Name
	ns    []domain.ResourceRecord
	glue  []domain.ResourceRecord
}

// NewZone constructs an empty simulated zone.
func NewZone() *Zone {
	return &Zone{records: make(map[rrKey][]domain.ResourceRecord)}
}

// AddRecord registers rr as data this zone answers for directly.
func (z *Zone) AddRecord(rr domain.ResourceRecord) {
	k := rrKey{name: rr.Name, typ: rr.Type}
	z.records[k] = append(z.records[k], rr)
}

// AddDelegation registers a referral this zone returns for any query at or
// below cut that it doesn't hold a direct answer for.
func (z *Zone) AddDelegation(cut domain.Name, ns []domain.ResourceRecord, glue []domain.ResourceRecord) {
	z.delegations = append(z.delegations, delegation{cut: cut, ns: ns, glue: glue})
}

// lookup returns the direct answers for (name, typ), if any.
func (z *Zone) lookup(name domain.Name, typ domain.RRType) []domain.ResourceRecord {
	return z.records[rrKey{name: name, typ: typ}]
}

// bestDelegation returns the most specific delegation whose cut is an
// ancestor of (or equal to) name, mirroring how a real authoritative
// server picks the deepest matching zone cut it knows about.
func (z *Zone) bestDelegation(name domain.Name) (delegation, bool) {
	var best delegation
	found := false
	for _, d := range z.delegations {
		if !name.IsSubdomainOf(d.cut) && !name.Equal(d.cut) {
			continue
		}
		if !found || d.cut.LabelCount() > best.cut.LabelCount() {
			best = d
			found = true
		}
	}
	return best, found
}

// hasAnyRecord reports whether this zone holds any direct record for name,
// regardless of type — used to distinguish NODATA from NXDOMAIN.
func (z *Zone) hasAnyRecord(name domain.Name) bool {
	for k := range z.records {
		if k.name.Equal(name) {
			return true
		}
	}
	return false
}
