// Package parser reads cost matrices from text files.
//
// A cost matrix file has one line per router. Each line holds the
// whitespace-separated costs from that router to every router, including
// itself. The number of routers is the number of costs on the first line.
//
//	0 5 -1
//	5 0 5
//	-1 5 0
package parser

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rhartert/lsroute/lsr"
)

// LoadCostMatrix reads the cost matrix in the file at filepath. Read and
// format errors wrap lsr.ErrMatrixLoad; matrices that cannot be validated
// under conv wrap lsr.ErrInvalidTopology.
func LoadCostMatrix(filepath string, conv lsr.NoLink) (*lsr.CostMatrix, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", lsr.ErrMatrixLoad, err)
	}
	defer file.Close()

	return ParseCostMatrix(file, conv)
}

// ParseCostMatrix reads a cost matrix from r.
func ParseCostMatrix(r io.Reader, conv lsr.NoLink) (*lsr.CostMatrix, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	rows := [][]int{}
	nRouters := -1
	trailing := false // a blank line was seen after the first row

	for line := 1; scanner.Scan(); line++ {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			trailing = len(rows) > 0
			continue
		}
		if trailing {
			return nil, fmt.Errorf("%w: line %d: row after blank line", lsr.ErrMatrixLoad, line)
		}
		if nRouters == -1 {
			nRouters = len(parts)
		}
		if len(parts) != nRouters {
			return nil, fmt.Errorf("%w: line %d: %d costs, want %d", lsr.ErrMatrixLoad, line, len(parts), nRouters)
		}
		if len(rows) == nRouters {
			return nil, fmt.Errorf("%w: line %d: more than %d rows", lsr.ErrMatrixLoad, line, nRouters)
		}

		row := make([]int, nRouters)
		for j, p := range parts {
			c, err := strconv.Atoi(p)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid cost %q", lsr.ErrMatrixLoad, line, p)
			}
			row[j] = c
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s", lsr.ErrMatrixLoad, err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty matrix", lsr.ErrMatrixLoad)
	}
	if len(rows) != nRouters {
		return nil, fmt.Errorf("%w: %d rows, want %d", lsr.ErrMatrixLoad, len(rows), nRouters)
	}

	return lsr.NewCostMatrix(rows, conv)
}
