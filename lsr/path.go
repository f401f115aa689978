package lsr

import (
	"fmt"
	"strings"
)

// Path is the sequence of routers traversed from a source to a destination.
// The source is the first router of the path and the destination is the last
// one. A path from a router to itself holds a single router.
type Path struct {
	nodes []int
	cost  int
}

// NewPath returns the path made of the given routers and total cost.
func NewPath(nodes []int, cost int) *Path {
	p := &Path{nodes: make([]int, len(nodes)), cost: cost}
	copy(p.nodes, nodes)
	return p
}

// Length returns the length of the path in terms of routers.
func (p *Path) Length() int {
	return len(p.nodes)
}

// Hops returns the number of links traversed by the path.
func (p *Path) Hops() int {
	return len(p.nodes) - 1
}

// Node returns the router at position pos starting from 0 (the source) and
// ending at Length()-1 (the destination).
func (p *Path) Node(pos int) int {
	return p.nodes[pos]
}

// Nodes returns the sequence of routers in the path.
//
// Important: the slice is a view on the path's internal structure and should
// only be used in read-only operations.
func (p *Path) Nodes() []int {
	return p.nodes
}

// Cost returns the total cost of the path.
func (p *Path) Cost() int {
	return p.cost
}

// String returns a representation of the path as a sequence of routers
// separated by " -> ". For example: "0 -> 4 -> 3 -> 1".
func (p *Path) String() string {
	sb := strings.Builder{}
	for i := 0; i < len(p.nodes)-1; i++ {
		sb.WriteString(fmt.Sprintf("%d -> ", p.nodes[i]))
	}
	if len(p.nodes) > 0 {
		sb.WriteString(fmt.Sprintf("%d", p.nodes[len(p.nodes)-1]))
	}
	return sb.String()
}

// TableSource gives access to the confirmed route from any router to a
// destination. Implementations may compute routing tables on demand.
type TableSource interface {
	NumRouters() int
	ConfirmedRoute(origin int, dest int) (Route, bool, error)
}

// ComputePath returns the path from src to dst by following next hops: the
// route from src gives the first hop h, the route from h gives the second hop,
// and so on until dst is reached. Every step strictly decreases the remaining
// cost to dst since link metrics are positive, so the walk takes at most
// NumRouters()-1 steps on a consistent set of tables.
func ComputePath(src int, dst int, tables TableSource) (*Path, error) {
	n := tables.NumRouters()
	if src < 0 || n <= src {
		return nil, fmt.Errorf("%w: source %d not in [0, %d)", ErrUnknownRouter, src, n)
	}
	if dst < 0 || n <= dst {
		return nil, fmt.Errorf("%w: destination %d not in [0, %d)", ErrUnknownRouter, dst, n)
	}

	first, ok, err := tables.ConfirmedRoute(src, dst)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %d is unreachable from %d", ErrNoRoute, dst, src)
	}

	nodes := []int{src}
	cur := src
	for cur != dst {
		if len(nodes) > n {
			return nil, fmt.Errorf("%w: forwarding loop from %d to %d: %v", ErrInvalidTopology, src, dst, nodes)
		}
		r, ok, err := tables.ConfirmedRoute(cur, dst)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%w: %d is unreachable from %d", ErrNoRoute, dst, cur)
		}
		cur = r.NextHop
		nodes = append(nodes, cur)
	}
	return &Path{nodes: nodes, cost: first.Cost}, nil
}

// StoreTables is a TableSource backed by a RouteStore in which the routes
// of every origin are computed lazily, at most once.
type StoreTables struct {
	lsps     []LSP
	store    *RouteStore
	computed []bool
}

// NewStoreTables returns a StoreTables over the given LSPs and store.
func NewStoreTables(lsps []LSP, store *RouteStore) *StoreTables {
	return &StoreTables{
		lsps:     lsps,
		store:    store,
		computed: make([]bool, store.NumRouters()),
	}
}

// NumRouters returns the number of routers in the store.
func (st *StoreTables) NumRouters() int {
	return st.store.NumRouters()
}

// ConfirmedRoute returns the confirmed route from origin to dest, computing
// the routes of origin if needed.
func (st *StoreTables) ConfirmedRoute(origin int, dest int) (Route, bool, error) {
	if !st.computed[origin] {
		if err := ComputeRoutes(origin, st.lsps, st.store); err != nil {
			return Route{}, false, err
		}
		st.computed[origin] = true
	}
	r, ok := st.store.Confirmed(origin, dest)
	return r, ok, nil
}
