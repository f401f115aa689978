package main

import (
	"fmt"

	"github.com/rhartert/lsroute/lsr"
	"github.com/spf13/cobra"
)

func newLSPCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "lsp",
		Short:   "Print the link-state packet of every router",
		Args:    cobra.NoArgs,
		GroupID: "routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(file)
			if err != nil {
				return fail(err)
			}
			return printLSPs(cmd.OutOrStdout(), a.cfg.Output, s.LSPs())
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Cost matrix file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func newTableCmd(a *app) *cobra.Command {
	var file string
	var router int
	var all bool
	cmd := &cobra.Command{
		Use:     "table",
		Short:   "Print the routing table of a router",
		Long:    `Computes and prints the confirmed routing table of one router (--router) or of every router (--all).`,
		Args:    cobra.NoArgs,
		GroupID: "routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(file)
			if err != nil {
				return fail(err)
			}

			if !all {
				routes, err := s.RoutingTable(router)
				if err != nil {
					return fail(err)
				}
				return printRoutingTable(cmd.OutOrStdout(), a.cfg.Output, router, routes)
			}

			if err := s.ComputeAll(cmd.Context()); err != nil {
				return fail(err)
			}
			tables := make([][]lsr.Route, s.NumRouters())
			for o := range tables {
				if tables[o], err = s.Routes(o); err != nil {
					return fail(err)
				}
			}
			return printRoutingTables(cmd.OutOrStdout(), a.cfg.Output, tables)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Cost matrix file")
	cmd.Flags().IntVarP(&router, "router", "r", 0, "Router whose table is printed")
	cmd.Flags().BoolVar(&all, "all", false, "Print the table of every router")
	cmd.MarkFlagRequired("file")
	cmd.MarkFlagsMutuallyExclusive("router", "all")
	return cmd
}

func newPathCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "path SRC DST",
		Short:   "Print the path with minimum cost between two routers",
		Args:    cobra.ExactArgs(2),
		GroupID: "routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := parseRouter(args[0])
			if err != nil {
				return err
			}
			dst, err := parseRouter(args[1])
			if err != nil {
				return err
			}

			s, err := a.session(file)
			if err != nil {
				return fail(err)
			}
			p, err := s.Path(src, dst)
			if err != nil {
				return fail(fmt.Errorf("path between %d and %d: %w", src, dst, err))
			}
			return printPath(cmd.OutOrStdout(), a.cfg.Output, p)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Cost matrix file")
	cmd.MarkFlagRequired("file")
	return cmd
}
