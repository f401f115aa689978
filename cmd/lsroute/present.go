package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/rhartert/lsroute/config"
	"github.com/rhartert/lsroute/lsr"
)

type yamlRoute struct {
	Destination int `yaml:"destination"`
	NextHop     int `yaml:"next_hop"`
	Cost        int `yaml:"cost"`
}

type yamlTable struct {
	Router int         `yaml:"router"`
	Routes []yamlRoute `yaml:"routes"`
}

type yamlPath struct {
	Source      int   `yaml:"source"`
	Destination int   `yaml:"destination"`
	Cost        int   `yaml:"cost"`
	Hops        []int `yaml:"hops"`
}

type yamlLink struct {
	ID       int `yaml:"id"`
	Type     int `yaml:"type"`
	Neighbor int `yaml:"neighbor"`
	Metric   int `yaml:"metric"`
}

type yamlLSP struct {
	Router int        `yaml:"router"`
	Links  []yamlLink `yaml:"links"`
}

func writeYAML(w io.Writer, v any) error {
	b, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func toYAMLTable(origin int, routes []lsr.Route) yamlTable {
	t := yamlTable{Router: origin, Routes: make([]yamlRoute, len(routes))}
	for i, r := range routes {
		t.Routes[i] = yamlRoute{r.Destination, r.NextHop, r.Cost}
	}
	return t
}

// printLSPs writes the link-state packet of every router.
func printLSPs(w io.Writer, format string, lsps []lsr.LSP) error {
	if format == config.OutputYAML {
		out := make([]yamlLSP, len(lsps))
		for i := range lsps {
			out[i] = yamlLSP{Router: lsps[i].Router, Links: make([]yamlLink, len(lsps[i].Links))}
			for j, l := range lsps[i].Links {
				out[i].Links[j] = yamlLink{l.ID, l.Type, l.Neighbor, l.Metric}
			}
		}
		return writeYAML(w, out)
	}

	for i := range lsps {
		if _, err := io.WriteString(w, lsps[i].String()); err != nil {
			return err
		}
	}
	return nil
}

// printRoutingTable writes the confirmed routes of origin.
func printRoutingTable(w io.Writer, format string, origin int, routes []lsr.Route) error {
	if format == config.OutputYAML {
		return writeYAML(w, toYAMLTable(origin, routes))
	}

	fmt.Fprintf(w, "The routing table for router %d is\n", origin)
	fmt.Fprintf(w, "%11s %8s %6s\n", "Destination", "NextHop", "Cost")
	for _, r := range routes {
		fmt.Fprintf(w, "%11d %8d %6d\n", r.Destination, r.NextHop, r.Cost)
	}
	return nil
}

// printRoutingTables writes the confirmed routes of several origins.
func printRoutingTables(w io.Writer, format string, tables [][]lsr.Route) error {
	if format == config.OutputYAML {
		out := make([]yamlTable, len(tables))
		for o, routes := range tables {
			out[o] = toYAMLTable(o, routes)
		}
		return writeYAML(w, out)
	}

	for o, routes := range tables {
		if o > 0 {
			fmt.Fprintln(w)
		}
		if err := printRoutingTable(w, format, o, routes); err != nil {
			return err
		}
	}
	return nil
}

// printPath writes the path from its source to its destination.
func printPath(w io.Writer, format string, p *lsr.Path) error {
	src, dst := p.Node(0), p.Node(p.Length()-1)
	if format == config.OutputYAML {
		return writeYAML(w, yamlPath{
			Source:      src,
			Destination: dst,
			Cost:        p.Cost(),
			Hops:        p.Nodes(),
		})
	}

	fmt.Fprintf(w, "The path from %d to %d\n", src, dst)
	fmt.Fprintf(w, "%s (cost %d)\n", p, p.Cost())
	return nil
}
