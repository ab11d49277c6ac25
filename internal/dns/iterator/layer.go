package iterator

import (
	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/common/utils"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// Layer is the four-entrypoint state machine the transport drives: begin
// attaches a fresh Context, prepare_query/resolve alternate across
// suspension points until the plan drains, and finish/reset tear down.
type Layer interface {
	Begin(ctx *Context, param *Params) State
	Reset(ctx *Context) State
	Finish(ctx *Context) State
	PrepareQuery(ctx *Context, out *domain.Packet) State
	Resolve(ctx *Context, in *domain.Packet) State
}

// Params carries everything Begin needs to start a fresh resolution: the
// user's original question, the answer collaborator it should fill, and
// the per-context limits pulled from IteratorConfig.
type Params struct {
	Question        domain.Question
	Answer          AnswerBuilder
	MaxPlanDepth    int
	EDNSPayloadSize uint16
}

// Context is per-exchange state the layer owns between transport calls.
// Only one goroutine may drive a given Context at a time; nothing it holds
// is shared across contexts.
type Context struct {
	plan            *Plan
	answer          AnswerBuilder
	state           State
	ednsPayloadSize uint16
	lastQuestion    domain.Question
	header          domain.Header
}

// layer is the concrete Layer implementation.
type layer struct {
	rootHints RootHints
	random    Random
	logger    log.Logger
}

// LayerOptions are the collaborators a layer is constructed with, following
// this codebase's options-struct dependency-injection convention.
type LayerOptions struct {
	RootHints RootHints
	Random    Random
	Logger    log.Logger
}

// NewLayer constructs a Layer bound to the supplied collaborators.
func NewLayer(opts LayerOptions) Layer {
	return &layer{
		rootHints: opts.RootHints,
		random:    opts.Random,
		logger:    opts.Logger,
	}
}

// Begin attaches a fresh resolution context seeded with the root zone cut
// and the user's original question as the plan's bottom entry.
func (l *layer) Begin(ctx *Context, param *Params) State {
	cut := l.rootHints.InitialZoneCut()
	plan := NewPlan(param.MaxPlanDepth)
	if _, err := plan.Push(noParent, param.Question.Name, param.Question.Class, param.Question.Type, cut); err != nil {
		l.logger.Error(map[string]any{"error": err}, "iterator: failed to seed resolution plan")
		ctx.state = StateFail
		return ctx.state
	}
	ctx.plan = plan
	ctx.answer = param.Answer
	ctx.ednsPayloadSize = param.EDNSPayloadSize
	ctx.header = domain.Header{ID: param.Question.ID, QR: true, RD: true, RA: true}
	ctx.state = StateFull
	return ctx.state
}

// Reset clears per-step scratch state, returning the context to StateFull
// without disturbing the plan.
func (l *layer) Reset(ctx *Context) State {
	ctx.state = StateFull
	return ctx.state
}

// Finish releases the context's plan; any response for this context that
// the transport sees afterward must be dropped, since there is no longer
// anything here to authenticate it against.
func (l *layer) Finish(ctx *Context) State {
	ctx.plan = nil
	ctx.state = StateNoop
	return ctx.state
}

// PrepareQuery emits the next outbound packet for the plan's current query,
// or returns the context's existing state unchanged if there's nothing left
// to send.
func (l *layer) PrepareQuery(ctx *Context, out *domain.Packet) State {
	if ctx.plan == nil || ctx.state == StateDone || ctx.plan.Empty() {
		return ctx.state
	}
	q, _, ok := ctx.plan.Current()
	if !ok {
		return ctx.state
	}
	qname, qtype := Minimize(q)
	id := l.random.Uint16()
	q.TxID = id

	question := domain.Question{ID: id, Name: qname, Type: qtype, Class: q.SClass}
	*out = domain.Packet{
		Header: domain.Header{ID: id, RD: true, QDCount: 1, ARCount: 1},
		Question: question,
		EDNS: &domain.EDNS{
			UDPPayloadSize: ctx.ednsPayloadSize,
			Version:        0,
		},
	}
	ctx.lastQuestion = question

	l.logger.Debug(map[string]any{
		"qname": qname.String(),
		"qtype": qtype.String(),
		"id":    id,
	}, "iterator: prepared outbound query")

	ctx.state = StateMore
	return ctx.state
}

// Resolve consumes an inbound packet, applying the guards and section walks
// described by the response processor, and advances the plan accordingly.
// A successfully processed packet always yields StateDone — referral,
// answer, or CNAME push alike — regardless of whether the plan drained;
// finalizeAnswer only runs once it has. The transport is expected to call
// Reset and PrepareQuery again to keep driving an unfinished plan.
func (l *layer) Resolve(ctx *Context, in *domain.Packet) State {
	if ctx.plan == nil {
		ctx.state = StateFail
		return ctx.state
	}
	if !in.IsWellFormed() {
		l.logger.Debug(map[string]any{"error": ErrMalformed}, "iterator: rejected malformed response")
		ctx.state = StateFail
		return ctx.state
	}
	if !in.IsResponseTo(ctx.lastQuestion) {
		// Spoofed, stale, or otherwise mismatched reply: silently drop it
		// and keep waiting for the real one.
		return StateMore
	}
	if in.Header.RCode != domain.RCodeNoError && in.Header.RCode != domain.RCodeNXDomain {
		l.logger.Debug(map[string]any{"rcode": in.Header.RCode.String()}, "iterator: bad rcode from upstream")
		ctx.state = StateFail
		return ctx.state
	}

	q, idx, ok := ctx.plan.Current()
	if !ok {
		ctx.state = StateFail
		return ctx.state
	}

	if in.Header.TC {
		if q.Flags&FlagTCP != 0 {
			l.logger.Debug(nil, "iterator: truncated again over tcp")
			ctx.state = StateFail
			return ctx.state
		}
		q.Flags |= FlagTCP
		ctx.state = StateDone
		return ctx.state
	}

	classification := Classify(*in)

	progress, err := processAuthority(*in, &q.Cut)
	if err != nil {
		l.logger.Debug(map[string]any{
			"error": err,
			"apex":  utils.GetApexDomain(string(q.SName)),
		}, "iterator: authority section rejected")
		ctx.state = StateFail
		return ctx.state
	}

	if progress != ProgressReferral && !in.Question.Name.Equal(q.SName) && (classification == ClassificationNoData || classification == ClassificationNXDomain) {
		// The minimized probe came back empty rather than as a referral —
		// retry the same query unminimized, the workaround for empty
		// non-terminals and misbehaving authoritatives.
		q.Flags |= FlagNoMinimize
		ctx.state = StateDone
		return ctx.state
	}

	if progress == ProgressReferral {
		_, err = processAdditional(ctx.plan, idx, &q.Cut, *in)
	} else {
		_, err = processAnswer(ctx.plan, idx, *in, ctx.answer)
	}
	if err != nil {
		l.logger.Debug(map[string]any{"error": err}, "iterator: response processing failed")
		ctx.state = StateFail
		return ctx.state
	}

	if ctx.plan.Empty() {
		finalizeAnswer(ctx.answer, &ctx.header, classification, *in)
	}
	ctx.state = StateDone
	return ctx.state
}

var _ Layer = (*layer)(nil)
