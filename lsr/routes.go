package lsr

import (
	"fmt"
	"math"

	"github.com/rhartert/yagh"
)

// Route represents "from a fixed origin, reach Destination by first hopping
// to NextHop, at a total cost of Cost".
type Route struct {
	Destination int
	NextHop     int
	Cost        int
}

// RouteTable maps destinations to at most one route.
//
// The table can be emptied in O(1). The presentAt slice acts as a slice of
// booleans: destination d has a route if presentAt[d] == generation. Clearing
// the table only increments the generation.
type RouteTable struct {
	routes     []Route
	presentAt  []uint
	generation uint
	size       int
}

// NewRouteTable returns an empty table for destinations in [0, nRouters).
func NewRouteTable(nRouters int) *RouteTable {
	return &RouteTable{
		routes:     make([]Route, nRouters),
		presentAt:  make([]uint, nRouters),
		generation: 1, // must be greater than the zero values in presentAt
	}
}

// Get returns the route to dest, or false if there is none.
func (t *RouteTable) Get(dest int) (Route, bool) {
	if t.presentAt[dest] != t.generation {
		return Route{}, false
	}
	return t.routes[dest], true
}

// Contains returns true if the table has a route to dest.
func (t *RouteTable) Contains(dest int) bool {
	return t.presentAt[dest] == t.generation
}

// Set inserts or overwrites the route to dest.
func (t *RouteTable) Set(dest int, nextHop int, cost int) {
	if t.presentAt[dest] != t.generation {
		t.presentAt[dest] = t.generation
		t.size++
	}
	t.routes[dest] = Route{Destination: dest, NextHop: nextHop, Cost: cost}
}

// Delete removes the route to dest, if any.
func (t *RouteTable) Delete(dest int) {
	if t.presentAt[dest] == t.generation {
		t.presentAt[dest] = 0
		t.size--
	}
}

// Len returns the number of routes in the table.
func (t *RouteTable) Len() int {
	return t.size
}

// Routes returns the routes of the table by ascending destination.
func (t *RouteTable) Routes() []Route {
	routes := make([]Route, 0, t.size)
	for d := range t.routes {
		if t.presentAt[d] == t.generation {
			routes = append(routes, t.routes[d])
		}
	}
	return routes
}

// Clear removes all the routes from the table.
func (t *RouteTable) Clear() {
	t.size = 0
	if t.generation != math.MaxUint {
		t.generation++
		return
	}
	t.generation = 1
	for i := range t.presentAt {
		t.presentAt[i] = 0
	}
}

// Frontier selects how the least-cost tentative route is found.
type Frontier int

const (
	// FrontierScan scans all destinations, in O(numRouters) per extraction.
	FrontierScan Frontier = iota

	// FrontierHeap maintains tentative routes in an indexed binary heap, in
	// O(log numRouters) per extraction.
	FrontierHeap
)

func (f Frontier) String() string {
	switch f {
	case FrontierScan:
		return "scan"
	case FrontierHeap:
		return "heap"
	default:
		return fmt.Sprintf("Frontier(%d)", int(f))
	}
}

// ParseFrontier returns the frontier with the given name (see String).
func ParseFrontier(s string) (Frontier, error) {
	switch s {
	case "scan":
		return FrontierScan, nil
	case "heap":
		return FrontierHeap, nil
	default:
		return 0, fmt.Errorf("unknown frontier %q", s)
	}
}

// tentativeHeap orders keys cost*nRouters+destination so that ties are broken
// by lowest destination. Every push takes a new element of the IntMap: queued
// elements are never updated in place, and outdated keys are skipped by the
// caller when popped.
type tentativeHeap struct {
	h        *yagh.IntMap[int]
	capacity int
	next     int // next unused element of h
}

func newTentativeHeap(capacity int) *tentativeHeap {
	capacity = max(capacity, 1)
	return &tentativeHeap{h: yagh.New[int](capacity), capacity: capacity}
}

func (th *tentativeHeap) push(key int) {
	if th.next == th.capacity {
		th.grow()
	}
	th.h.Put(th.next, key)
	th.next++
}

// grow moves the queued keys to an IntMap twice as large.
func (th *tentativeHeap) grow() {
	h := yagh.New[int](2 * th.capacity)
	n := 0
	for th.h.Size() > 0 {
		h.Put(n, th.h.Pop().Cost)
		n++
	}
	th.h = h
	th.capacity *= 2
	th.next = n
}

func (th *tentativeHeap) pop() (int, bool) {
	if th.h.Size() == 0 {
		return 0, false
	}
	return th.h.Pop().Cost, true
}

func (th *tentativeHeap) clear() {
	if th.next == 0 {
		return
	}
	th.h = yagh.New[int](th.capacity)
	th.next = 0
}

// originTables holds the tentative and confirmed tables of one origin.
type originTables struct {
	tentative *RouteTable
	confirmed *RouteTable
	heap      *tentativeHeap // nil unless FrontierHeap
}

// RouteStore holds a tentative and a confirmed routing table for each origin
// router. The tables of an origin are allocated the first time a route is
// set for it.
//
// Tables of different origins share no state: they can be mutated
// concurrently as long as each origin is only used by one goroutine.
type RouteStore struct {
	nRouters int
	frontier Frontier
	origins  []*originTables
}

// NewRouteStore returns an empty store for nRouters routers.
func NewRouteStore(nRouters int, frontier Frontier) *RouteStore {
	return &RouteStore{
		nRouters: nRouters,
		frontier: frontier,
		origins:  make([]*originTables, nRouters),
	}
}

// tables returns the tables of origin, allocating them if needed.
func (rs *RouteStore) tables(origin int) *originTables {
	if ot := rs.origins[origin]; ot != nil {
		return ot
	}
	ot := &originTables{
		tentative: NewRouteTable(rs.nRouters),
		confirmed: NewRouteTable(rs.nRouters),
	}
	if rs.frontier == FrontierHeap {
		ot.heap = newTentativeHeap(rs.nRouters)
	}
	rs.origins[origin] = ot
	return ot
}

// NumRouters returns the number of routers of the store.
func (rs *RouteStore) NumRouters() int {
	return rs.nRouters
}

// Frontier returns the frontier used by PopLeastTentative.
func (rs *RouteStore) Frontier() Frontier {
	return rs.frontier
}

// SetTentative inserts or overwrites the tentative route from origin to dest.
// Destinations that are already confirmed are left untouched.
func (rs *RouteStore) SetTentative(origin int, dest int, nextHop int, cost int) {
	ot := rs.tables(origin)
	if ot.confirmed.Contains(dest) {
		return
	}
	ot.tentative.Set(dest, nextHop, cost)
	if ot.heap != nil {
		ot.heap.push(cost*rs.nRouters + dest)
	}
}

// SetConfirmed inserts or overwrites the confirmed route from origin to dest
// and removes dest from the tentative table.
func (rs *RouteStore) SetConfirmed(origin int, dest int, nextHop int, cost int) {
	ot := rs.tables(origin)
	ot.tentative.Delete(dest) // outdated heap keys are skipped on pop
	ot.confirmed.Set(dest, nextHop, cost)
}

// Tentative returns the tentative route from origin to dest, if any.
func (rs *RouteStore) Tentative(origin int, dest int) (Route, bool) {
	ot := rs.origins[origin]
	if ot == nil {
		return Route{}, false
	}
	return ot.tentative.Get(dest)
}

// Confirmed returns the confirmed route from origin to dest, if any.
func (rs *RouteStore) Confirmed(origin int, dest int) (Route, bool) {
	ot := rs.origins[origin]
	if ot == nil {
		return Route{}, false
	}
	return ot.confirmed.Get(dest)
}

// ConfirmedRoutes returns the confirmed routes of origin by ascending
// destination.
func (rs *RouteStore) ConfirmedRoutes(origin int) []Route {
	ot := rs.origins[origin]
	if ot == nil {
		return nil
	}
	return ot.confirmed.Routes()
}

// TentativeLen returns the number of tentative routes of origin.
func (rs *RouteStore) TentativeLen(origin int) int {
	ot := rs.origins[origin]
	if ot == nil {
		return 0
	}
	return ot.tentative.Len()
}

// PopLeastTentative removes and returns the tentative route of origin with
// the smallest cost. Ties are broken by lowest destination. It returns false
// if origin has no tentative route.
func (rs *RouteStore) PopLeastTentative(origin int) (int, Route, bool) {
	ot := rs.origins[origin]
	if ot == nil || ot.tentative.Len() == 0 {
		return -1, Route{}, false
	}

	best := -1
	if ot.heap != nil {
		for {
			key, ok := ot.heap.pop()
			if !ok {
				break
			}
			d := key % rs.nRouters
			if r, ok := ot.tentative.Get(d); ok && key == r.Cost*rs.nRouters+d {
				best = d
				break
			}
		}
	} else {
		bestCost := math.MaxInt
		for d := 0; d < rs.nRouters; d++ {
			r, ok := ot.tentative.Get(d)
			if ok && r.Cost < bestCost {
				best = d
				bestCost = r.Cost
			}
		}
	}
	if best == -1 {
		return -1, Route{}, false
	}

	r, _ := ot.tentative.Get(best)
	ot.tentative.Delete(best)
	return best, r, true
}

// Reset removes all the tentative and confirmed routes of origin.
func (rs *RouteStore) Reset(origin int) {
	ot := rs.origins[origin]
	if ot == nil {
		return
	}
	ot.tentative.Clear()
	ot.confirmed.Clear()
	if ot.heap != nil {
		ot.heap.clear()
	}
}
