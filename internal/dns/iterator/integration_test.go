package iterator

import (
	"context"
	"net"
	"testing"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
	"github.com/student-dns/rr-iterator/internal/dns/gateways/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestIntegration_FullReferralChain drives Begin/PrepareQuery/Resolve/Finish
// against a simulated authoritative-server farm instead of hand-built
// packets, exercising the same root-to-answer referral S1 covers but over
// an actual simulated exchange loop.
func TestIntegration_FullReferralChain(t *testing.T) {
	rootAddr := net.ParseIP("198.41.0.4")
	comAddr := net.ParseIP("192.5.6.30")

	sim, err := transport.NewSimulated(log.NewNoopLogger(), 0)
	require.NoError(t, err)

	root := transport.NewZone()
	comNS, err := transport.NewTextRecord(domain.NewName("com."), domain.RRTypeNS, domain.RRClassIN, 300, "a.gtld-servers.net.")
	require.NoError(t, err)
	comGlue, err := transport.NewTextRecord(domain.NewName("a.gtld-servers.net."), domain.RRTypeA, domain.RRClassIN, 300, comAddr.String())
	require.NoError(t, err)
	root.AddDelegation(domain.NewName("com."), []domain.ResourceRecord{comNS}, []domain.ResourceRecord{comGlue})
	sim.AddServer(rootAddr, root)

	com := transport.NewZone()
	answer, err := transport.NewTextRecord(domain.NewName("example.com."), domain.RRTypeA, domain.RRClassIN, 300, "93.184.216.34")
	require.NoError(t, err)
	com.AddRecord(answer)
	sim.AddServer(comAddr, com)

	cut := ZoneCut{Name: domain.Root, NSName: domain.NewName("a.root-servers.net."), NSAddrs: []net.IP{rootAddr}}
	rnd := &sequentialRandom{ids: []uint16{0x0A01, 0x0A02}}
	l := NewLayer(LayerOptions{
		RootHints: fakeRootHints{cut: cut},
		Random:    rnd,
		Logger:    log.NewNoopLogger(),
	})

	ctx := &Context{}
	ab := &fakeAnswerBuilder{}
	state := l.Begin(ctx, &Params{
		Question:        domain.Question{ID: 1, Name: domain.NewName("example.com."), Type: domain.RRTypeA, Class: domain.RRClassIN},
		Answer:          ab,
		MaxPlanDepth:    30,
		EDNSPayloadSize: 4096,
	})
	require.Equal(t, StateFull, state)

	background := context.Background()
	for i := 0; i < 10; i++ {
		var out domain.Packet
		state = l.PrepareQuery(ctx, &out)
		if state != StateMore {
			break
		}
		q, _, ok := ctx.plan.Current()
		require.True(t, ok)
		require.NotEmpty(t, q.Cut.NSAddrs)
		addr := q.Cut.NSAddrs[0]

		resp, err := sim.Exchange(background, addr, q.Flags&FlagTCP != 0, out)
		require.NoError(t, err)

		state = l.Resolve(ctx, &resp)
		if state == StateFail {
			break
		}
		if state == StateDone {
			if ctx.plan.Empty() {
				break
			}
			// The plan hasn't drained yet: a conformant transport resets
			// back to FULL before preparing the next outbound query.
			state = l.Reset(ctx)
		}
	}

	assert.Equal(t, StateDone, state)
	require.Len(t, ab.answer, 1)
	assert.Equal(t, []byte{93, 184, 216, 34}, ab.answer[0].Data)

	finishState := l.Finish(ctx)
	assert.Equal(t, StateNoop, finishState)
}
