// Package lsr computes link-state routing tables from a static cost matrix.
//
// A CostMatrix is turned into one link-state packet (LSP) per router with
// BuildLSPs. ComputeRoutes then runs Dijkstra's algorithm for one origin
// router, promoting tentative candidate routes into the confirmed routing
// table of that origin, in the same way link-state protocols such as IS-IS
// do.
package lsr

import (
	"fmt"
	"math"
)

// MaxMetric is the largest accepted link metric. Keeping metrics within 31
// bits guarantees that path costs over MaxRouters hops cannot overflow.
const MaxMetric = math.MaxInt32

// MaxRouters is the largest number of routers a CostMatrix can hold. The
// routing tables of all origins take 64 bytes per pair of routers, 1 GiB at
// this limit.
const MaxRouters = 1 << 12

// NoLink is the convention used to decide which matrix values mean that two
// routers are not directly linked.
type NoLink int

const (
	// NoLinkZeroOrNegative treats 0 and any negative value as "no link".
	NoLinkZeroOrNegative NoLink = iota

	// NoLinkStrict treats 0 and -1 as "no link" and rejects other negative
	// values.
	NoLinkStrict

	// NoLinkZero treats 0 as "no link" and rejects negative values.
	NoLinkZero
)

func (c NoLink) String() string {
	switch c {
	case NoLinkZeroOrNegative:
		return "zero-or-negative"
	case NoLinkStrict:
		return "strict"
	case NoLinkZero:
		return "zero"
	default:
		return fmt.Sprintf("NoLink(%d)", int(c))
	}
}

// ParseNoLink returns the convention with the given name (see String).
func ParseNoLink(s string) (NoLink, error) {
	for _, c := range []NoLink{NoLinkZeroOrNegative, NoLinkStrict, NoLinkZero} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown no-link convention %q", s)
}

// isLink reports whether v denotes a direct link, or returns an error if v is
// not allowed under the convention.
func (c NoLink) isLink(v int) (bool, error) {
	switch c {
	case NoLinkZeroOrNegative:
		return v > 0, nil
	case NoLinkStrict:
		if v == 0 || v == -1 {
			return false, nil
		}
		if v < 0 {
			return false, fmt.Errorf("negative cost %d (only -1 means no link)", v)
		}
		return true, nil
	case NoLinkZero:
		if v < 0 {
			return false, fmt.Errorf("negative cost %d", v)
		}
		return v > 0, nil
	default:
		return false, fmt.Errorf("unknown no-link convention %d", int(c))
	}
}

// CostMatrix is a square matrix of costs between routers. The matrix is
// immutable once created.
type CostMatrix struct {
	cost  [][]int
	links [][]bool
	conv  NoLink
}

// NewCostMatrix validates rows and returns the corresponding CostMatrix. The
// rows are copied so that later changes to rows do not affect the matrix.
// Diagonal entries are ignored.
func NewCostMatrix(rows [][]int, conv NoLink) (*CostMatrix, error) {
	n := len(rows)
	if n == 0 {
		return nil, fmt.Errorf("%w: no routers", ErrInvalidTopology)
	}
	if n > MaxRouters {
		return nil, fmt.Errorf("%w: %d routers (max %d)", ErrAllocation, n, MaxRouters)
	}

	m := &CostMatrix{
		cost:  make([][]int, n),
		links: make([][]bool, n),
		conv:  conv,
	}
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d costs, want %d", ErrInvalidTopology, i, len(row), n)
		}
		m.cost[i] = make([]int, n)
		m.links[i] = make([]bool, n)
		copy(m.cost[i], row)

		for j, v := range row {
			if i == j {
				continue
			}
			ok, err := conv.isLink(v)
			if err != nil {
				return nil, fmt.Errorf("%w: cost[%d][%d]: %s", ErrInvalidTopology, i, j, err)
			}
			if v > MaxMetric {
				return nil, fmt.Errorf("%w: cost[%d][%d] = %d exceeds %d", ErrInvalidTopology, i, j, v, MaxMetric)
			}
			m.links[i][j] = ok
		}
	}
	return m, nil
}

// NumRouters returns the number of routers in the matrix.
func (m *CostMatrix) NumRouters() int {
	return len(m.cost)
}

// Cost returns the raw matrix value at (i, j).
func (m *CostMatrix) Cost(i int, j int) int {
	return m.cost[i][j]
}

// HasLink returns true if router i has a direct link to router j. A router
// never has a link to itself.
func (m *CostMatrix) HasLink(i int, j int) bool {
	return m.links[i][j]
}

// NoLink returns the convention the matrix was validated with.
func (m *CostMatrix) NoLink() NoLink {
	return m.conv
}

// Symmetric returns true if every link i->j has a reverse link j->i with the
// same metric.
func (m *CostMatrix) Symmetric() bool {
	n := len(m.cost)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if m.links[i][j] != m.links[j][i] {
				return false
			}
			if m.links[i][j] && m.cost[i][j] != m.cost[j][i] {
				return false
			}
		}
	}
	return true
}
