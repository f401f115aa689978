// Package session holds the state of a routing simulation: the cost matrix
// loaded from a file, the LSPs derived from it, and the routing tables
// computed for each router. Loading a new matrix creates a new session.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rhartert/lsroute/config"
	"github.com/rhartert/lsroute/lsr"
	"github.com/rhartert/lsroute/lsr/parser"
	"golang.org/x/sync/errgroup"
)

type pathKey struct {
	src int
	dst int
}

// Session is a routing simulation over a fixed cost matrix.
//
// The routes of each origin are computed by at most one goroutine at a time;
// different origins can be computed concurrently.
type Session struct {
	matrix  *lsr.CostMatrix
	lsps    []lsr.LSP
	store   *lsr.RouteStore
	workers int
	log     *slog.Logger

	// mu[o] guards the tables of origin o, computed[o] is true once they hold
	// the routes of o.
	mu       []sync.Mutex
	computed []bool

	paths *ttlcache.Cache[pathKey, *lsr.Path]
}

// Load reads the cost matrix at path and returns a new session over it.
func Load(path string, cfg config.Config, log *slog.Logger) (*Session, error) {
	m, err := parser.LoadCostMatrix(path, cfg.NoLinkConv())
	if err != nil {
		return nil, err
	}
	s := New(m, cfg, log)
	s.log.Info("cost matrix loaded", "file", path, "routers", m.NumRouters())
	return s, nil
}

// New returns a session over the given matrix. A nil logger is replaced by
// slog.Default() and a non-positive number of workers by GOMAXPROCS.
func New(m *lsr.CostMatrix, cfg config.Config, log *slog.Logger) *Session {
	if log == nil {
		log = slog.Default()
	}
	n := m.NumRouters()
	lsps := lsr.BuildLSPs(m)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	nLinks := 0
	for i := range lsps {
		nLinks += lsps[i].NumLinks()
	}
	log.Debug("link state packets built", "routers", n, "links", nLinks)

	return &Session{
		matrix:   m,
		lsps:     lsps,
		store:    lsr.NewRouteStore(n, cfg.FrontierKind()),
		workers:  workers,
		log:      log,
		mu:       make([]sync.Mutex, n),
		computed: make([]bool, n),
		paths: ttlcache.New[pathKey, *lsr.Path](
			ttlcache.WithTTL[pathKey, *lsr.Path](cfg.PathCacheTTL.Duration),
			ttlcache.WithDisableTouchOnHit[pathKey, *lsr.Path](),
		),
	}
}

// Matrix returns the cost matrix of the session.
func (s *Session) Matrix() *lsr.CostMatrix {
	return s.matrix
}

// NumRouters returns the number of routers of the session.
func (s *Session) NumRouters() int {
	return s.matrix.NumRouters()
}

// LSPs returns the link-state packets of every router, indexed by router id.
func (s *Session) LSPs() []lsr.LSP {
	return s.lsps
}

func (s *Session) checkRouter(r int) error {
	if r < 0 || s.NumRouters() <= r {
		return fmt.Errorf("%w: router %d not in [0, %d)", lsr.ErrUnknownRouter, r, s.NumRouters())
	}
	return nil
}

// compute computes the routes of origin. If force is false, routes that
// were already computed are kept. The caller must hold s.mu[origin].
func (s *Session) compute(origin int, force bool) error {
	if s.computed[origin] && !force {
		return nil
	}
	start := time.Now()
	if err := lsr.ComputeRoutes(origin, s.lsps, s.store); err != nil {
		return err
	}
	s.computed[origin] = true
	s.log.Debug("routing table computed",
		"origin", origin,
		"routes", len(s.store.ConfirmedRoutes(origin)),
		"elapsed", time.Since(start))
	return nil
}

// RoutingTable computes the routing table of origin and returns its
// confirmed routes by ascending destination.
func (s *Session) RoutingTable(origin int) ([]lsr.Route, error) {
	if err := s.checkRouter(origin); err != nil {
		return nil, err
	}
	s.mu[origin].Lock()
	defer s.mu[origin].Unlock()

	if err := s.compute(origin, true); err != nil {
		return nil, err
	}
	return s.store.ConfirmedRoutes(origin), nil
}

// Routes returns the confirmed routes of origin by ascending destination.
// Unlike RoutingTable, routes that were already computed are not recomputed.
func (s *Session) Routes(origin int) ([]lsr.Route, error) {
	if err := s.checkRouter(origin); err != nil {
		return nil, err
	}
	s.mu[origin].Lock()
	defer s.mu[origin].Unlock()

	if err := s.compute(origin, false); err != nil {
		return nil, err
	}
	return s.store.ConfirmedRoutes(origin), nil
}

// ComputeAll computes the routing table of every router, using up to the
// configured number of workers. It stops at the first error or when ctx is
// canceled.
func (s *Session) ComputeAll(ctx context.Context) error {
	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for o := 0; o < s.NumRouters(); o++ {
		if gctx.Err() != nil {
			break
		}
		o := o
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.mu[o].Lock()
			defer s.mu[o].Unlock()
			return s.compute(o, true)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.log.Info("all routing tables computed",
		"routers", s.NumRouters(),
		"workers", s.workers,
		"elapsed", time.Since(start))
	return nil
}

// ConfirmedRoute returns the confirmed route from origin to dest, computing
// the routing table of origin if it was never computed.
func (s *Session) ConfirmedRoute(origin int, dest int) (lsr.Route, bool, error) {
	if err := s.checkRouter(origin); err != nil {
		return lsr.Route{}, false, err
	}
	s.mu[origin].Lock()
	defer s.mu[origin].Unlock()

	if err := s.compute(origin, false); err != nil {
		return lsr.Route{}, false, err
	}
	r, ok := s.store.Confirmed(origin, dest)
	return r, ok, nil
}

// Path returns the path from src to dst. Paths are cached for the configured
// TTL.
func (s *Session) Path(src int, dst int) (*lsr.Path, error) {
	key := pathKey{src, dst}
	if item := s.paths.Get(key); item != nil {
		return item.Value(), nil
	}

	p, err := lsr.ComputePath(src, dst, s)
	if err != nil {
		return nil, err
	}
	s.paths.Set(key, p, ttlcache.DefaultTTL)
	s.log.Debug("path computed", "src", src, "dst", dst, "path", p.String(), "cost", p.Cost())
	return p, nil
}
