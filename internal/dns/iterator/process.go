package iterator

import (
	"fmt"

	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// processAuthority scans a response's AUTHORITY section for NS records.
// This is the cache-injection guard: an NS whose owner lies outside the
// current zone cut is grounds to fail the whole exchange outright, since an
// off-authority server has no business claiming delegation for a name it
// isn't responsible for. An NS that repeats the current cut name is not a
// descent and is ignored. The first NS that represents a genuine descent
// wins; later NS records in the same section are not consulted (section
// order is taken as the authoritative's own preference).
func processAuthority(pkt domain.Packet, cut *ZoneCut) (Progress, error) {
	for _, rr := range pkt.Authority {
		if rr.Type != domain.RRTypeNS {
			continue
		}
		if !rr.Name.IsSubdomainOf(cut.Name) {
			return ProgressMore, fmt.Errorf("%w: %s claims authority outside %s", ErrOutOfBailiwick, rr.Name, cut.Name)
		}
		if rr.Name.Equal(cut.Name) {
			continue
		}
		nsName, ok := rr.RDataName()
		if !ok {
			continue
		}
		cut.SetName(rr.Name, nsName)
		return ProgressReferral, nil
	}
	return ProgressMore, nil
}

// processAnswer handles the authoritative path: either the query at idx is
// the user's original question (Parent == noParent), in which case its
// ANSWER records are copied into the client-facing answer, or it's an
// internal glue/alias sub-query, in which case matching A/AAAA records are
// installed into the parent's zone cut instead. In both cases the response
// is walked once more to follow a CNAME chain rooted at the query's own
// name, pushing exactly one follow-up query if the chain moved the target
// away from the original name. The current query is always popped. Returns
// ProgressDone unconditionally on success, whether or not the plan is empty
// afterward — whether to finalize the answer is the caller's decision, not
// this function's.
func processAnswer(plan *Plan, idx int, pkt domain.Packet, ab AnswerBuilder) (Progress, error) {
	q := *plan.At(idx)
	isFinal := q.Parent == noParent
	cname := q.SName

	for _, rr := range pkt.Answer {
		if isFinal {
			if err := ab.Put(rr); err != nil {
				ab.SetTC(true)
			}
		} else {
			parent := plan.At(q.Parent)
			if rr.Name.Equal(parent.Cut.NSName) && (rr.Type == domain.RRTypeA || rr.Type == domain.RRTypeAAAA) {
				parent.Cut.SetNSAddr(rr)
			}
		}
		if rr.Name.Equal(cname) {
			if rr.Type == domain.RRTypeCNAME {
				if target, ok := rr.RDataName(); ok {
					cname = target
				}
			} else {
				cname = q.SName
			}
		}
	}

	if err := plan.Pop(idx); err != nil {
		return ProgressMore, err
	}

	if !cname.Equal(q.SName) {
		cut := q.Cut
		if q.Parent != noParent {
			cut = plan.At(q.Parent).Cut
		}
		if _, err := plan.Push(q.Parent, cname, q.SClass, q.SType, cut); err != nil {
			return ProgressMore, err
		}
	}

	return ProgressDone, nil
}

// processAdditional handles the referral path: harvest any glue for the new
// cut's nameserver from ADDITIONAL, and if none was found, push sub-queries
// to resolve the nameserver's address. AAAA is pushed before A so that A —
// the more commonly reachable family — ends up on top of the LIFO and is
// tried first; this ordering is deliberate and must be preserved.
func processAdditional(plan *Plan, idx int, cut *ZoneCut, pkt domain.Packet) (Progress, error) {
	foundGlue := false
	for _, rr := range pkt.Additional {
		if rr.Name.Equal(cut.NSName) && (rr.Type == domain.RRTypeA || rr.Type == domain.RRTypeAAAA) {
			if cut.SetNSAddr(rr) {
				foundGlue = true
			}
		}
	}
	if !foundGlue {
		if _, err := plan.Push(idx, cut.NSName, domain.RRClassIN, domain.RRTypeAAAA, *cut); err != nil {
			return ProgressMore, err
		}
		if _, err := plan.Push(idx, cut.NSName, domain.RRClassIN, domain.RRTypeA, *cut); err != nil {
			return ProgressMore, err
		}
	}
	return ProgressDone, nil
}

// finalizeAnswer is called once the plan has drained. It copies the final
// rcode onto the outgoing header and, for negative results, carries the
// authoritative's SOA into the outgoing AUTHORITY section so the caller can
// derive a negative-caching TTL from it.
func finalizeAnswer(ab AnswerBuilder, header *domain.Header, classification Classification, lastResponse domain.Packet) {
	header.RCode = lastResponse.Header.RCode
	if classification != ClassificationNXDomain && classification != ClassificationNoData {
		return
	}
	for _, rr := range lastResponse.Authority {
		if rr.Type == domain.RRTypeSOA {
			_ = ab.PutAuthority(rr)
			return
		}
	}
}
