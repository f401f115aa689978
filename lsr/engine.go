package lsr

import (
	"fmt"
	"math"

	"github.com/rhartert/sparsesets"
)

// ComputeRoutes computes the confirmed routes from origin to every router
// reachable from it, and stores them in the confirmed table of origin. Any
// previous routes of origin are discarded first, which makes the operation
// idempotent.
//
// The algorithm is Dijkstra's algorithm expressed with the tentative and
// confirmed lists of link-state protocols:
//
//  1. The route from origin to itself is confirmed with cost 0.
//  2. Each neighbor r of the last confirmed router c that is not confirmed
//     yet becomes (or improves) a tentative route at cost cost(c) + metric(c, r).
//  3. The least-cost tentative route is confirmed and becomes the last
//     confirmed router. The computation stops when no tentative route is left.
//
// The next hop of a route is the first router on the path from origin: direct
// neighbors of origin are their own next hop, other routers inherit the next
// hop of the router they are reached through.
//
// Unreachable routers never get a confirmed route; this is not an error.
func ComputeRoutes(origin int, lsps []LSP, store *RouteStore) error {
	return computeRoutes(origin, lsps, store, nil)
}

// ComputeRoutesTrace is like ComputeRoutes but also returns the routers in
// the order in which they were confirmed, starting with origin.
func ComputeRoutesTrace(origin int, lsps []LSP, store *RouteStore) ([]int, error) {
	confirmed := sparsesets.New(store.NumRouters())
	if err := computeRoutes(origin, lsps, store, confirmed); err != nil {
		return nil, err
	}
	order := make([]int, len(confirmed.Content()))
	copy(order, confirmed.Content())
	return order, nil
}

// computeRoutes runs the computation. If order is not nil, confirmed routers
// are inserted into it.
func computeRoutes(origin int, lsps []LSP, store *RouteStore, order *sparsesets.Set) error {
	if store == nil {
		return fmt.Errorf("%w: route store is nil", ErrInvalidTopology)
	}
	n := store.NumRouters()
	if origin < 0 || n <= origin {
		return fmt.Errorf("%w: origin %d not in [0, %d)", ErrUnknownRouter, origin, n)
	}
	if err := validateLSPs(lsps, n); err != nil {
		return err
	}

	costs := make([]int, n)
	for i := range costs {
		costs[i] = math.MaxInt
	}
	costs[origin] = 0

	store.Reset(origin)
	store.SetConfirmed(origin, origin, origin, 0)
	if order != nil {
		order.Insert(origin)
	}

	current := origin
	for {
		// The next hop of every candidate reached through current.
		nextHop := origin
		if current != origin {
			r, _ := store.Confirmed(origin, current)
			nextHop = r.NextHop
		}

		for _, l := range lsps[current].Links {
			r := l.Neighbor
			if r == current {
				continue
			}
			if _, ok := store.Confirmed(origin, r); ok {
				continue // confirmed routes are never revisited
			}

			hop := nextHop
			if current == origin {
				hop = r
			}
			candidate := costs[current] + l.Metric

			tr, ok := store.Tentative(origin, r)
			if !ok || candidate < tr.Cost {
				store.SetTentative(origin, r, hop, candidate)
				costs[r] = candidate
			}
		}

		dest, route, ok := store.PopLeastTentative(origin)
		if !ok {
			return nil
		}
		store.SetConfirmed(origin, dest, route.NextHop, route.Cost)
		if order != nil {
			order.Insert(dest)
		}
		current = dest
	}
}
