package transport

import (
	"context"
	"fmt"
	"net"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/student-dns/rr-iterator/internal/dns/common/log"
	"github.com/student-dns/rr-iterator/internal/dns/domain"
)

// Exchanger is the client-side transport surface the iterator's driving
// loop needs at each step: send a query to a nameserver address and get
// back its response, with the TCP promotion path Resolve expects after a
// truncated UDP answer.
type Exchanger interface {
	Exchange(ctx context.Context, addr net.IP, useTCP bool, query domain.Packet) (domain.Packet, error)
}

// Simulated is an in-memory farm of authoritative servers, keyed by the
// address each one listens on. It never touches a real socket; it exists
// so integration tests can drive begin/prepareQuery/resolve/finish across
// a whole referral chain without a live network.
type Simulated struct {
	mu      sync.RWMutex
	servers map[string]*Zone
	cache   *lru.Cache[string, domain.Packet]
	logger  log.Logger
}

// NewSimulated constructs a Simulated farm with a response cache bounded
// at cacheSize entries, memoizing the (address, question) pairs already
// answered this run so a repeated query in the same test doesn't re-walk
// zone data.
func NewSimulated(logger log.Logger, cacheSize int) (*Simulated, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, domain.Packet](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("transport: build response cache: %w", err)
	}
	return &Simulated{
		servers: make(map[string]*Zone),
		cache:   cache,
		logger:  logger,
	}, nil
}

// AddServer registers zone as the content served by a simulated nameserver
// listening at addr.
func (s *Simulated) AddServer(addr net.IP, zone *Zone) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.servers[addr.String()] = zone
}

// Exchange looks up the server at addr and returns the response it would
// give for query, transparently over either framing; useTCP only affects
// the simulated transport label attached to the debug log, since an
// in-memory exchange has no real length limit to enforce.
func (s *Simulated) Exchange(ctx context.Context, addr net.IP, useTCP bool, query domain.Packet) (domain.Packet, error) {
	select {
	case <-ctx.Done():
		return domain.Packet{}, ctx.Err()
	default:
	}

	key := cacheKey(addr, query)
	if resp, ok := s.cache.Get(key); ok {
		resp.Header.ID = query.Header.ID
		return resp, nil
	}

	s.mu.RLock()
	zone, ok := s.servers[addr.String()]
	s.mu.RUnlock()
	if !ok {
		return domain.Packet{}, fmt.Errorf("transport: no simulated server at %s", addr)
	}

	framing := TransportUDP
	if useTCP {
		framing = TransportTCP
	}
	resp := zone.respond(query)
	s.logger.Debug(map[string]any{
		"server":   addr.String(),
		"question": string(query.Question.Name),
		"qtype":    query.Question.Type.String(),
		"transport": string(framing),
		"rcode":    resp.Header.RCode,
	}, "transport: simulated exchange")

	s.cache.Add(key, resp)
	return resp, nil
}

func cacheKey(addr net.IP, query domain.Packet) string {
	return addr.String() + "|" + string(query.Question.Name) + "|" + query.Question.Type.String()
}

var _ Exchanger = (*Simulated)(nil)
