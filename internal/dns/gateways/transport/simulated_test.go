package transport

import (
	"context"
	"net"
	"testing"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulated_Exchange_ReturnsZoneResponse(t *testing.T) {
	sim, err := NewSimulated(log.NewNoopLogger(), 0)
	require.NoError(t, err)

	z := NewZone()
	z.AddRecord(arr(t, "example.com."))
	addr := net.ParseIP("198.51.100.1")
	sim.AddServer(addr, z)

	resp, err := sim.Exchange(context.Background(), addr, false, mkQuery(42, domain.NewName("example.com."), domain.RRTypeA))
	require.NoError(t, err)
	assert.Equal(t, uint16(42), resp.Header.ID)
	assert.True(t, resp.Header.AA)
}

func TestSimulated_Exchange_UnknownServer_Errors(t *testing.T) {
	sim, err := NewSimulated(log.NewNoopLogger(), 0)
	require.NoError(t, err)

	_, err = sim.Exchange(context.Background(), net.ParseIP("198.51.100.2"), false, mkQuery(1, domain.NewName("example.com."), domain.RRTypeA))
	assert.Error(t, err)
}

func TestSimulated_Exchange_CachesByAddrAndQuestion(t *testing.T) {
	sim, err := NewSimulated(log.NewNoopLogger(), 0)
	require.NoError(t, err)

	z := NewZone()
	z.AddRecord(arr(t, "example.com."))
	addr := net.ParseIP("198.51.100.1")
	sim.AddServer(addr, z)

	_, err = sim.Exchange(context.Background(), addr, false, mkQuery(1, domain.NewName("example.com."), domain.RRTypeA))
	require.NoError(t, err)

	// Remove the zone entirely; a cached answer should still be served.
	sim.mu.Lock()
	delete(sim.servers, addr.String())
	sim.mu.Unlock()

	resp, err := sim.Exchange(context.Background(), addr, false, mkQuery(2, domain.NewName("example.com."), domain.RRTypeA))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), resp.Header.ID)
}

func TestSimulated_Exchange_ContextCanceled(t *testing.T) {
	sim, err := NewSimulated(log.NewNoopLogger(), 0)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = sim.Exchange(ctx, net.ParseIP("198.51.100.1"), false, mkQuery(1, domain.NewName("example.com."), domain.RRTypeA))
	assert.ErrorIs(t, err, context.Canceled)
}
