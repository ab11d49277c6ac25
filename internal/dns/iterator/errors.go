package iterator

import "errors"

// Sentinel errors for the iterator's failure kinds. Those returned by the
// process* routines and the Plan are folded into StateFail at the Layer
// boundary. Resolve fails malformed, bad-rcode and truncated-over-TCP
// responses with StateFail directly, without returning ErrMalformed,
// ErrBadRcode or ErrTruncatedTCP (ErrMalformed appears only in its debug
// log). Mirrors the sentinel-error style used for alias-chase failures
// elsewhere in this codebase.
var (
	// ErrMalformed names a response whose parsed length does not match
	// its wire length.
	ErrMalformed = errors.New("iterator: malformed response")
	// ErrBadRcode names a response that carries an rcode other than
	// NOERROR or NXDOMAIN.
	ErrBadRcode = errors.New("iterator: bad rcode")
	// ErrOutOfBailiwick is raised when an AUTHORITY NS record's owner lies
	// outside the current zone cut — the cache-injection guard.
	ErrOutOfBailiwick = errors.New("iterator: nameserver out of bailiwick")
	// ErrPlanDisorder is raised when a caller attempts to pop a query that
	// is not the plan's current top entry.
	ErrPlanDisorder = errors.New("iterator: plan disorder")
	// ErrPlanDepthExceeded is raised when Plan.Push would exceed the
	// configured maximum plan depth.
	ErrPlanDepthExceeded = errors.New("iterator: plan depth exceeded")
	// ErrTruncatedTCP names a response already sent over TCP that sets
	// the TC bit; there is no further retry available.
	ErrTruncatedTCP = errors.New("iterator: truncated over tcp")
	// ErrAnswerBufferFull is raised by the AnswerBuilder collaborator when
	// an outgoing answer would exceed its configured size budget.
	ErrAnswerBufferFull = errors.New("iterator: answer buffer full")
)
