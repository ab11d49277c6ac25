package iterator

import "github.com/student-dns/rr-iterator/internal/dns/domain"

// Minimize computes the QNAME/QTYPE pair to actually put on the wire for
// q's next outbound attempt, given its current zone cut. If q carries
// FlagNoMinimize, the query's real name and type go out unchanged. Otherwise
// exactly one label more than the current cut is exposed, with the type
// forced to NS whenever that exposes less than the full name — this keeps a
// minimized probe indistinguishable from an ordinary delegation probe and
// never leaks the caller's real QTYPE above the zone cut.
func Minimize(q *Query) (domain.Name, domain.RRType) {
	if q.Flags&FlagNoMinimize != 0 {
		return q.SName, q.SType
	}
	keep := q.Cut.Name.LabelCount() + 1
	minimized := q.SName.Ancestor(keep)
	if minimized.Equal(q.SName) {
		return q.SName, q.SType
	}
	return minimized, domain.RRTypeNS
}
