package lsr

import (
	"fmt"
	"strings"
)

// LinkTypeDefault is the only link type. It is a placeholder for a future
// classification of link metrics.
const LinkTypeDefault = 1

// Link represents a direct link from a router to one of its neighbors.
type Link struct {
	ID       int // i*numRouters + j for the link i->j
	Type     int
	Neighbor int
	Metric   int
}

// LSP is the link-state packet of a router. It lists every direct link of
// the router in ascending neighbor order.
//
// Real LSPs also carry an age, a sequence number and a length. Those are
// only needed to flood LSPs and are not modelled here.
type LSP struct {
	Router int
	Links  []Link

	// byNeighbor[j] is the index in Links of the link to router j, or -1.
	byNeighbor []int
}

// NewLSP creates the LSP of a router from its links. It is important to
// ensure that all neighbors are within the range [0, nRouters); otherwise,
// the function will panic.
func NewLSP(router int, links []Link, nRouters int) LSP {
	lsp := LSP{
		Router:     router,
		Links:      make([]Link, len(links)),
		byNeighbor: make([]int, nRouters),
	}
	for j := range lsp.byNeighbor {
		lsp.byNeighbor[j] = -1
	}
	for i, l := range links {
		lsp.Links[i] = l
		lsp.byNeighbor[l.Neighbor] = i
	}
	return lsp
}

// BuildLSPs returns one LSP per router of the matrix, indexed by router id.
func BuildLSPs(m *CostMatrix) []LSP {
	n := m.NumRouters()
	lsps := make([]LSP, n)
	for i := 0; i < n; i++ {
		links := []Link{}
		for j := 0; j < n; j++ {
			if i == j || !m.HasLink(i, j) {
				continue
			}
			links = append(links, Link{
				ID:       i*n + j,
				Type:     LinkTypeDefault,
				Neighbor: j,
				Metric:   m.Cost(i, j),
			})
		}
		lsps[i] = NewLSP(i, links, n)
	}
	return lsps
}

// NumLinks returns the number of direct links of the router.
func (lsp *LSP) NumLinks() int {
	return len(lsp.Links)
}

// Metric returns the metric of the direct link to router to, or false if
// there is no such link.
func (lsp *LSP) Metric(to int) (int, bool) {
	if to < 0 || len(lsp.byNeighbor) <= to {
		return 0, false
	}
	i := lsp.byNeighbor[to]
	if i < 0 {
		return 0, false
	}
	return lsp.Links[i].Metric, true
}

// String returns a multi-line dump of the LSP. For example:
//
//	LSP 0
//		numOfLinks = 1
//		Link 0: id=1 type=1 neighbor=1 metric=5
func (lsp *LSP) String() string {
	sb := strings.Builder{}
	sb.WriteString(fmt.Sprintf("LSP %d\n", lsp.Router))
	sb.WriteString(fmt.Sprintf("\tnumOfLinks = %d\n", lsp.NumLinks()))
	for i, l := range lsp.Links {
		sb.WriteString(fmt.Sprintf("\tLink %d: id=%d type=%d neighbor=%d metric=%d\n",
			i, l.ID, l.Type, l.Neighbor, l.Metric))
	}
	return sb.String()
}

// validateLSPs checks that the LSPs describe a topology of n routers in which
// every link has a positive metric.
func validateLSPs(lsps []LSP, n int) error {
	if len(lsps) != n {
		return fmt.Errorf("%w: %d LSPs for %d routers", ErrInvalidTopology, len(lsps), n)
	}
	for i := range lsps {
		for _, l := range lsps[i].Links {
			if l.Neighbor < 0 || n <= l.Neighbor || l.Neighbor == i {
				return fmt.Errorf("%w: LSP %d has a link to router %d", ErrInvalidTopology, i, l.Neighbor)
			}
			if l.Metric <= 0 || MaxMetric < l.Metric {
				return fmt.Errorf("%w: LSP %d has a link with metric %d", ErrInvalidTopology, i, l.Metric)
			}
		}
	}
	return nil
}
