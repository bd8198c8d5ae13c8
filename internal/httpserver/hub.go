package httpserver

import (
	"context"
	"log"
	"sync"
	"time"

	"restofront/internal/repository/state"
	cartsvc "restofront/internal/service/cart"
	checkoutsvc "restofront/internal/service/checkout"
	sessionsvc "restofront/internal/service/session"
)

// Eviction bounds: once the hub holds maxClients entries, clients idle
// past clientIdleTTL are dropped on the next materialization. Their
// cart and session are persisted, so coming back is a re-Load; only a
// checkout in progress pins a client in memory.
const (
	maxClients    = 1024
	clientIdleTTL = 30 * time.Minute
)

// client is the server-side materialization of one browser/device session:
// its cart, its session context, and at most one active checkout.
type client struct {
	mu       sync.Mutex
	cart     *cartsvc.Store
	sess     *sessionsvc.Store
	checkout *checkoutsvc.Session
	stale    bool
	lastSeen time.Time
}

// hub lazily creates clients keyed by owner id and restores their
// persisted snapshots on first access.
type hub struct {
	mu      sync.Mutex
	repo    state.Repository
	logger  *log.Logger
	clients map[string]*client
}

func newHub(repo state.Repository, logger *log.Logger) *hub {
	return &hub{
		repo:    repo,
		logger:  logger,
		clients: make(map[string]*client),
	}
}

func (h *hub) get(ctx context.Context, owner string) *client {
	h.mu.Lock()
	cl, ok := h.clients[owner]
	if !ok {
		if len(h.clients) >= maxClients {
			h.evictIdle()
		}
		cart := cartsvc.New(owner, h.repo, h.logger)
		sess := sessionsvc.New(owner, h.repo, cart, h.logger)
		cl = &client{cart: cart, sess: sess}
		h.clients[owner] = cl
		cl.cart.Load(ctx)
		cl.sess.Load(ctx)
	}
	cl.mu.Lock()
	cl.lastSeen = time.Now()
	cl.mu.Unlock()
	h.mu.Unlock()
	return cl
}

// evictIdle drops clients idle past the TTL. Callers hold h.mu. A
// client mid-checkout is never evicted: the checkout flow only lives
// in memory.
func (h *hub) evictIdle() {
	cutoff := time.Now().Add(-clientIdleTTL)
	for owner, cl := range h.clients {
		cl.mu.Lock()
		idle := cl.lastSeen.Before(cutoff)
		active := cl.checkout != nil && !cl.checkout.Step().IsTerminal()
		cl.mu.Unlock()
		if idle && !active {
			delete(h.clients, owner)
		}
	}
}

// invalidate flags every known client so its next view reports that a
// re-fetch is due. Push events carry no business data beyond that.
func (h *hub) invalidate() {
	h.mu.Lock()
	for _, cl := range h.clients {
		cl.mu.Lock()
		cl.stale = true
		cl.mu.Unlock()
	}
	h.mu.Unlock()
}

// consumeStale reports and clears the client's stale flag.
func (cl *client) consumeStale() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	stale := cl.stale
	cl.stale = false
	return stale
}
