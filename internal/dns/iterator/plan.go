package iterator

import "github.com/student-dns/rr-iterator/internal/dns/domain"

// QueryFlags are the per-query bits the driver and minimizer consult.
type QueryFlags uint8

const (
	// FlagNoMinimize disables QNAME minimization for this query, either
	// because the caller asked for it or because a minimized probe got a
	// NODATA/NXDOMAIN response and is being retried unminimized.
	FlagNoMinimize QueryFlags = 1 << iota
	// FlagTCP marks a query as promoted to TCP after a truncated UDP reply.
	FlagTCP
)

// noParent is the sentinel Parent value for the plan's bottom entry (the
// user's original question).
const noParent = -1

// Query is a single entry in the resolution plan: either the user's
// original question (Parent == noParent) or a sub-query pushed to resolve
// glue or chase a CNAME.
type Query struct {
	SName  domain.Name
	SClass domain.RRClass
	SType  domain.RRType
	TxID   uint16
	Flags  QueryFlags
	Parent int
	Cut    ZoneCut
}

// Plan is the LIFO of pending queries with parent links represented as
// plan-local indices rather than pointers — the plan owns all queries and
// an index is never invalidated by LIFO discipline (an ancestor is never
// popped before its descendants).
type Plan struct {
	queries  []Query
	maxDepth int
}

// NewPlan constructs an empty Plan bounded to maxDepth entries. A
// non-positive maxDepth disables the bound.
func NewPlan(maxDepth int) *Plan {
	return &Plan{maxDepth: maxDepth}
}

// Push appends a new query with the given parent (noParent for the bottom
// entry) and zone cut, returning its plan-local index.
func (p *Plan) Push(parent int, sname domain.Name, sclass domain.RRClass, stype domain.RRType, cut ZoneCut) (int, error) {
	if p.maxDepth > 0 && len(p.queries) >= p.maxDepth {
		return -1, ErrPlanDepthExceeded
	}
	p.queries = append(p.queries, Query{
		SName:  sname,
		SClass: sclass,
		SType:  stype,
		Parent: parent,
		Cut:    cut,
	})
	return len(p.queries) - 1, nil
}

// Pop removes the topmost entry, which must be idx — popping anything but
// the current top indicates a caller bug and fails with ErrPlanDisorder.
func (p *Plan) Pop(idx int) error {
	if len(p.queries) == 0 {
		return ErrPlanDisorder
	}
	top := len(p.queries) - 1
	if idx != top {
		return ErrPlanDisorder
	}
	p.queries = p.queries[:top]
	return nil
}

// Current returns a mutable pointer to the topmost query, its index, and
// whether the plan is non-empty.
func (p *Plan) Current() (*Query, int, bool) {
	if len(p.queries) == 0 {
		return nil, -1, false
	}
	idx := len(p.queries) - 1
	return &p.queries[idx], idx, true
}

// At returns a mutable pointer to the query at idx. Callers only ever pass
// indices they previously received from Push/Current, which LIFO
// discipline guarantees remain valid until that entry itself is popped.
func (p *Plan) At(idx int) *Query {
	return &p.queries[idx]
}

// Empty reports whether the plan has no outstanding queries.
func (p *Plan) Empty() bool {
	return len(p.queries) == 0
}

// Depth returns the current number of outstanding queries.
func (p *Plan) Depth() int {
	return len(p.queries)
}
