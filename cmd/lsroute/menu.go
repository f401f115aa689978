package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/rhartert/lsroute/session"
	"github.com/spf13/cobra"
)

var errNotLoaded = errors.New("no cost matrix loaded")

// Menu choices.
const (
	choiceExit  = 0
	choiceLoad  = 1
	choiceTable = 2
	choicePath  = 3
)

func newMenuCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Long: `Reads choices from standard input:
  1. load a cost matrix file and print its link-state packets,
  2. build and print the routing table of a router,
  3. print the path with minimum cost between two routers,
  0. exit.`,
		Args:    cobra.NoArgs,
		GroupID: "routing",
		RunE: func(cmd *cobra.Command, args []string) error {
			m := &menu{
				app: a,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			m.in.Split(bufio.ScanWords)
			return m.run()
		},
	}
}

// menu is the interactive loop. Inputs are read as whitespace-separated
// words so that a choice and its arguments can be on the same line.
type menu struct {
	app *app
	in  *bufio.Scanner
	out io.Writer
	s   *session.Session
}

// word returns the next input word, or io.EOF.
func (m *menu) word() (string, error) {
	if !m.in.Scan() {
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return m.in.Text(), nil
}

func (m *menu) router() (int, error) {
	w, err := m.word()
	if err != nil {
		return 0, err
	}
	return parseRouter(w)
}

func (m *menu) prompt() {
	fmt.Fprintln(m.out, "1. Load File")
	fmt.Fprintln(m.out, "2. Build Routing Table for Each Router")
	fmt.Fprintln(m.out, "3. Out optimal path with minimum cost")
	fmt.Fprintln(m.out, "0. Exit the program")
}

// run reads choices until choice 0 or the end of the input. Any failure to
// load a file, build a table or compute a path ends the loop with an error.
func (m *menu) run() error {
	for {
		m.prompt()
		w, err := m.word()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		choice, err := strconv.Atoi(w)
		if err != nil {
			fmt.Fprintf(m.out, "Unknown choice %q\n", w)
			continue
		}
		fmt.Fprintf(m.out, "Your choice = %d\n", choice)

		switch choice {
		case choiceExit:
			return nil
		case choiceLoad:
			err = m.load()
		case choiceTable:
			err = m.table()
		case choicePath:
			err = m.path()
		default:
			fmt.Fprintf(m.out, "Unknown choice %d\n", choice)
		}
		if err != nil {
			return fail(err)
		}
	}
}

func (m *menu) load() error {
	fmt.Fprintln(m.out, "Please load original routing table data file")
	file, err := m.word()
	if err != nil {
		return err
	}
	s, err := m.app.session(file)
	if err != nil {
		return fmt.Errorf("error in constructing original routing table: %w", err)
	}
	m.s = s // replaces the previous session
	fmt.Fprintln(m.out, "Link State Packets construction success")
	return printLSPs(m.out, m.app.cfg.Output, s.LSPs())
}

func (m *menu) table() error {
	if m.s == nil {
		return errNotLoaded
	}
	fmt.Fprintln(m.out, "Please select a router")
	router, err := m.router()
	if err != nil {
		return err
	}
	routes, err := m.s.RoutingTable(router)
	if err != nil {
		return fmt.Errorf("error in constructing routing table for router %d: %w", router, err)
	}
	return printRoutingTable(m.out, m.app.cfg.Output, router, routes)
}

func (m *menu) path() error {
	if m.s == nil {
		return errNotLoaded
	}
	fmt.Fprintln(m.out, "Please input the source and the destination router")
	src, err := m.router()
	if err != nil {
		return err
	}
	dst, err := m.router()
	if err != nil {
		return err
	}
	p, err := m.s.Path(src, dst)
	if err != nil {
		return fmt.Errorf("error in constructing path between %d and %d: %w", src, dst, err)
	}
	return printPath(m.out, m.app.cfg.Output, p)
}
