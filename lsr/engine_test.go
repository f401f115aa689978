package lsr

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// fiveRouters is the following symmetric topology:
//
//	0 --1-- 1 --5-- 3
//	|       |     / |
//	4       2   1   2
//	|       | /     |
//	+------ 2 --3-- 4
var fiveRouters = [][]int{
	{0, 1, 4, 0, 0},
	{1, 0, 2, 5, 0},
	{4, 2, 0, 1, 3},
	{0, 5, 1, 0, 2},
	{0, 0, 3, 2, 0},
}

func TestComputeRoutes(t *testing.T) {
	testCases := []struct {
		desc   string
		rows   [][]int
		origin int
		want   []Route
	}{
		{
			desc:   "single router",
			rows:   [][]int{{0}},
			origin: 0,
			want:   []Route{{0, 0, 0}},
		},
		{
			desc:   "ring of three",
			rows:   [][]int{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}},
			origin: 0,
			want:   []Route{{0, 0, 0}, {1, 1, 1}, {2, 2, 1}},
		},
		{
			desc:   "chain of three",
			rows:   [][]int{{0, 5, -1}, {5, 0, 5}, {-1, 5, 0}},
			origin: 0,
			want:   []Route{{0, 0, 0}, {1, 1, 5}, {2, 1, 10}},
		},
		{
			desc:   "isolated router",
			rows:   [][]int{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}},
			origin: 0,
			want:   []Route{{0, 0, 0}, {1, 1, 1}},
		},
		{
			desc:   "from isolated router",
			rows:   [][]int{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}},
			origin: 2,
			want:   []Route{{2, 2, 0}},
		},
		{
			desc:   "relaxation through cheaper path",
			rows:   fiveRouters,
			origin: 0,
			want:   []Route{{0, 0, 0}, {1, 1, 1}, {2, 1, 3}, {3, 1, 4}, {4, 1, 6}},
		},
		{
			desc:   "relaxation from the other end",
			rows:   fiveRouters,
			origin: 4,
			want:   []Route{{0, 2, 6}, {1, 2, 5}, {2, 2, 3}, {3, 3, 2}, {4, 4, 0}},
		},
		{
			desc:   "cheaper path found after a costlier one",
			rows:   [][]int{{0, 5, -1, 8}, {5, 0, 10, 1}, {-1, 10, 0, 9}, {8, 1, 9, 0}},
			origin: 0,
			want:   []Route{{0, 0, 0}, {1, 1, 5}, {2, 1, 15}, {3, 1, 6}},
		},
		{
			// Next hops are the first router after the origin, not the
			// router preceding the destination.
			desc:   "chain of four from the head",
			rows:   [][]int{{0, 1, 0, 0}, {1, 0, 1, 0}, {0, 1, 0, 1}, {0, 0, 1, 0}},
			origin: 0,
			want:   []Route{{0, 0, 0}, {1, 1, 1}, {2, 1, 2}, {3, 1, 3}},
		},
		{
			desc:   "chain of four from the tail",
			rows:   [][]int{{0, 1, 0, 0}, {1, 0, 1, 0}, {0, 1, 0, 1}, {0, 0, 1, 0}},
			origin: 3,
			want:   []Route{{0, 2, 3}, {1, 2, 2}, {2, 2, 1}, {3, 3, 0}},
		},
		{
			// 0-->1-->2 and 2-->0 only
			desc:   "directed links",
			rows:   [][]int{{0, 1, 0}, {0, 0, 1}, {1, 0, 0}},
			origin: 1,
			want:   []Route{{0, 2, 2}, {1, 1, 0}, {2, 2, 1}},
		},
	}

	for _, tc := range testCases {
		for _, f := range frontiers {
			t.Run(tc.desc+"/"+f.String(), func(t *testing.T) {
				m := mustMatrix(t, tc.rows)
				store := NewRouteStore(m.NumRouters(), f)

				if err := ComputeRoutes(tc.origin, BuildLSPs(m), store); err != nil {
					t.Fatalf("ComputeRoutes(): unexpected error: %s", err)
				}

				if diff := cmp.Diff(tc.want, store.ConfirmedRoutes(tc.origin)); diff != "" {
					t.Errorf("ConfirmedRoutes(): mismatch (-want +got):\n%s", diff)
				}
				if n := store.TentativeLen(tc.origin); n != 0 {
					t.Errorf("TentativeLen(): want 0, got %d", n)
				}
			})
		}
	}
}

func TestComputeRoutes_errors(t *testing.T) {
	m := mustMatrix(t, [][]int{{0, 1}, {1, 0}})
	lsps := BuildLSPs(m)

	testCases := []struct {
		desc    string
		origin  int
		lsps    []LSP
		store   *RouteStore
		wantErr error
	}{
		{"negative origin", -1, lsps, NewRouteStore(2, FrontierScan), ErrUnknownRouter},
		{"origin too large", 2, lsps, NewRouteStore(2, FrontierScan), ErrUnknownRouter},
		{"nil store", 0, lsps, nil, ErrInvalidTopology},
		{"store size mismatch", 0, lsps, NewRouteStore(3, FrontierScan), ErrInvalidTopology},
		{
			desc:   "link outside topology",
			origin: 0,
			lsps: []LSP{
				NewLSP(0, []Link{{ID: 2, Type: 1, Neighbor: 2, Metric: 1}}, 3),
				NewLSP(1, nil, 3),
			},
			store:   NewRouteStore(2, FrontierScan),
			wantErr: ErrInvalidTopology,
		},
		{
			desc:   "non-positive metric",
			origin: 0,
			lsps: []LSP{
				NewLSP(0, []Link{{ID: 1, Type: 1, Neighbor: 1, Metric: 0}}, 2),
				NewLSP(1, nil, 2),
			},
			store:   NewRouteStore(2, FrontierScan),
			wantErr: ErrInvalidTopology,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			err := ComputeRoutes(tc.origin, tc.lsps, tc.store)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("ComputeRoutes(): want error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestComputeRoutes_disconnected(t *testing.T) {
	m := mustMatrix(t, [][]int{{0, 1, 0}, {1, 0, 0}, {0, 0, 0}})
	lsps := BuildLSPs(m)
	store := NewRouteStore(3, FrontierScan)

	for o := 0; o < 3; o++ {
		if err := ComputeRoutes(o, lsps, store); err != nil {
			t.Fatal(err)
		}
	}

	for o := 0; o < 2; o++ {
		if r, ok := store.Confirmed(o, 2); ok {
			t.Errorf("Confirmed(%d, 2): want no route, got %v", o, r)
		}
	}
	if _, _, ok := store.PopLeastTentative(2); ok {
		t.Errorf("PopLeastTentative(2): want none, got one")
	}
}

func TestComputeRoutes_idempotent(t *testing.T) {
	m := mustMatrix(t, fiveRouters)
	lsps := BuildLSPs(m)

	for _, f := range frontiers {
		t.Run(f.String(), func(t *testing.T) {
			store := NewRouteStore(m.NumRouters(), f)

			if err := ComputeRoutes(2, lsps, store); err != nil {
				t.Fatal(err)
			}
			first := store.ConfirmedRoutes(2)
			for i := 0; i < 3; i++ {
				if err := ComputeRoutes(2, lsps, store); err != nil {
					t.Fatal(err)
				}
				if diff := cmp.Diff(first, store.ConfirmedRoutes(2)); diff != "" {
					t.Errorf("ConfirmedRoutes(): run %d mismatch (-first +got):\n%s", i+2, diff)
				}
			}
		})
	}
}

func TestComputeRoutesTrace(t *testing.T) {
	m := mustMatrix(t, fiveRouters)
	store := NewRouteStore(m.NumRouters(), FrontierScan)

	got, err := ComputeRoutesTrace(4, BuildLSPs(m), store)
	if err != nil {
		t.Fatal(err)
	}

	want := []int{4, 3, 2, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ComputeRoutesTrace(): mismatch (-want +got):\n%s", diff)
	}
}

// randomRows returns a random n x n matrix in which about density of the
// off-diagonal entries are links with metrics in [1, 10].
func randomRows(rng *rand.Rand, n int, density float64, symmetric bool) [][]int {
	rows := make([][]int, n)
	for i := range rows {
		rows[i] = make([]int, n)
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j || (symmetric && j < i) {
				continue
			}
			if rng.Float64() < density {
				rows[i][j] = 1 + rng.Intn(10)
			} else {
				rows[i][j] = -1
			}
			if symmetric {
				rows[j][i] = rows[i][j]
			}
		}
	}
	return rows
}

// bellmanFord returns the shortest costs from src, or -1 for unreachable
// routers. It is used as an oracle for ComputeRoutes.
func bellmanFord(m *CostMatrix, src int) []int {
	n := m.NumRouters()
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	dist[src] = 0
	for k := 0; k < n; k++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if dist[i] < 0 || !m.HasLink(i, j) {
					continue
				}
				if c := dist[i] + m.Cost(i, j); dist[j] < 0 || c < dist[j] {
					dist[j] = c
				}
			}
		}
	}
	return dist
}

func TestComputeRoutes_properties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for iter := 0; iter < 50; iter++ {
		n := 1 + rng.Intn(12)
		symmetric := iter%2 == 0
		m := mustMatrix(t, randomRows(rng, n, 0.3, symmetric))
		lsps := BuildLSPs(m)
		scan := NewRouteStore(n, FrontierScan)
		heap := NewRouteStore(n, FrontierHeap)

		for o := 0; o < n; o++ {
			order, err := ComputeRoutesTrace(o, lsps, scan)
			if err != nil {
				t.Fatal(err)
			}
			if err := ComputeRoutes(o, lsps, heap); err != nil {
				t.Fatal(err)
			}

			if r, ok := scan.Confirmed(o, o); !ok || r.Cost != 0 {
				t.Errorf("Confirmed(%d, %d): want cost 0, got %v (present: %t)", o, o, r, ok)
			}
			if diff := cmp.Diff(scan.ConfirmedRoutes(o), heap.ConfirmedRoutes(o)); diff != "" {
				t.Errorf("scan and heap frontiers differ (-scan +heap):\n%s", diff)
			}

			// Confirmation order is non-decreasing in cost.
			prev := 0
			for _, d := range order {
				r, _ := scan.Confirmed(o, d)
				if r.Cost < prev {
					t.Errorf("origin %d: %d confirmed with cost %d after cost %d", o, d, r.Cost, prev)
				}
				prev = r.Cost
			}

			// Costs are optimal and next hops are direct neighbors.
			want := bellmanFord(m, o)
			for d := 0; d < n; d++ {
				r, ok := scan.Confirmed(o, d)
				if ok != (want[d] >= 0) {
					t.Fatalf("Confirmed(%d, %d): present %t, want reachable %t", o, d, ok, want[d] >= 0)
				}
				if !ok {
					continue
				}
				if r.Cost != want[d] {
					t.Errorf("Confirmed(%d, %d).Cost: want %d, got %d", o, d, want[d], r.Cost)
				}
				if d != o && !m.HasLink(o, r.NextHop) {
					t.Errorf("Confirmed(%d, %d).NextHop: %d is not a neighbor", o, d, r.NextHop)
				}
				if _, ok := scan.Tentative(o, d); ok {
					t.Errorf("Tentative(%d, %d): confirmed route also tentative", o, d)
				}
			}
		}

		if !symmetric {
			continue
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				rij, ok1 := scan.Confirmed(i, j)
				rji, ok2 := scan.Confirmed(j, i)
				if ok1 != ok2 || rij.Cost != rji.Cost {
					t.Errorf("asymmetric routes %d<->%d: %v (%t) and %v (%t)", i, j, rij, ok1, rji, ok2)
				}
			}
		}
	}
}
