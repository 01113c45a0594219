package tracker

import (
	"errors"
	"fmt"
)

// large is used as infinity for the dual variables
const large = 1e6

// jvSolver solves the dense square Linear Assignment Problem with the
// Jonker-Volgenant algorithm.  After solve, x[i] is the column assigned to
// row i and y[j] the row assigned to column j.
type jvSolver struct {
	n    int
	cost [][]float64
	x, y []int
	v    []float64
	free []int
}

func newJVSolver(cost [][]float64) *jvSolver {
	n := len(cost)
	return &jvSolver{
		n:    n,
		cost: cost,
		x:    make([]int, n),
		y:    make([]int, n),
		v:    make([]float64, n),
		free: make([]int, n),
	}
}

// solve runs column reduction, two passes of augmenting row reduction, then
// shortest path augmentation for any rows still free
func (s *jvSolver) solve() error {

	nFree := s.columnReduction()

	for i := 0; nFree > 0 && i < 2; i++ {
		nFree = s.augmentingRowReduction(nFree)
	}

	if nFree > 0 {
		return s.augment(nFree)
	}

	return nil
}

// columnReduction assigns each column to its cheapest row, then transfers
// the reduction for rows assigned exactly once.  Returns the number of
// unassigned rows placed at the front of s.free.
func (s *jvSolver) columnReduction() int {

	n := s.n
	unique := make([]bool, n)

	for i := 0; i < n; i++ {
		s.x[i] = -1
		s.v[i] = large
		s.y[i] = 0
		unique[i] = true
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if c := s.cost[i][j]; c < s.v[j] {
				s.v[j] = c
				s.y[j] = i
			}
		}
	}

	for j := n - 1; j >= 0; j-- {
		i := s.y[j]
		if s.x[i] < 0 {
			s.x[i] = j
		} else {
			unique[i] = false
			s.y[j] = -1
		}
	}

	nFree := 0

	for i := 0; i < n; i++ {
		if s.x[i] < 0 {
			s.free[nFree] = i
			nFree++
			continue
		}

		if !unique[i] {
			continue
		}

		j := s.x[i]
		minVal := large

		for j2 := 0; j2 < n; j2++ {
			if j2 == j {
				continue
			}
			if c := s.cost[i][j2] - s.v[j2]; c < minVal {
				minVal = c
			}
		}

		s.v[j] -= minVal
	}

	return nFree
}

// augmentingRowReduction tries to assign each free row to its cheapest
// column, displacing the current owner if needed.  Returns the number of
// rows left free.
func (s *jvSolver) augmentingRowReduction(nFree int) int {

	n := s.n
	current := 0
	newFree := 0
	rrCnt := 0

	for current < nFree {

		rrCnt++
		freeI := s.free[current]
		current++

		// find the lowest and second lowest reduced cost in the row
		j1 := 0
		v1 := s.cost[freeI][0] - s.v[0]
		j2 := -1
		v2 := large

		for j := 1; j < n; j++ {
			c := s.cost[freeI][j] - s.v[j]
			if c < v2 {
				if c >= v1 {
					v2 = c
					j2 = j
				} else {
					v2 = v1
					v1 = c
					j2 = j1
					j1 = j
				}
			}
		}

		i0 := s.y[j1]
		v1New := s.v[j1] - (v2 - v1)
		v1Lowers := v1New < s.v[j1]

		if rrCnt < current*n {
			if v1Lowers {
				s.v[j1] = v1New
			} else if i0 >= 0 && j2 >= 0 {
				j1 = j2
				i0 = s.y[j2]
			}

			if i0 >= 0 {
				if v1Lowers {
					current--
					s.free[current] = i0
				} else {
					s.free[newFree] = i0
					newFree++
				}
			}

		} else if i0 >= 0 {
			s.free[newFree] = i0
			newFree++
		}

		s.x[freeI] = j1
		s.y[j1] = freeI
	}

	return newFree
}

// augment assigns each remaining free row along a shortest augmenting path
func (s *jvSolver) augment(nFree int) error {

	pred := make([]int, s.n)

	for _, freeI := range s.free[:nFree] {

		j := s.shortestPath(freeI, pred)

		if j < 0 || j >= s.n {
			return fmt.Errorf("augmenting path ended at invalid column %d", j)
		}

		i := -1

		for k := 0; i != freeI; k++ {
			if k >= s.n {
				return errors.New("augmenting path did not return to its start row")
			}

			i = pred[j]
			s.y[j] = i
			j, s.x[i] = s.x[i], j
		}
	}

	return nil
}

// shortestPath is a single run of the modified Dijkstra search from the JV
// paper, returning the free column the path from startI ends at
func (s *jvSolver) shortestPath(startI int, pred []int) int {

	n := s.n
	lo, hi := 0, 0
	finalJ := -1
	nReady := 0
	cols := make([]int, n)
	d := make([]float64, n)

	for i := 0; i < n; i++ {
		cols[i] = i
		pred[i] = startI
		d[i] = s.cost[startI][i] - s.v[i]
	}

	for finalJ == -1 {
		// no columns left on the SCAN list
		if lo == hi {
			nReady = lo
			hi = findMinCols(n, lo, d, cols)

			for k := lo; k < hi; k++ {
				if j := cols[k]; s.y[j] < 0 {
					finalJ = j
				}
			}
		}

		if finalJ == -1 {
			finalJ = s.scan(&lo, &hi, d, cols, pred)
		}
	}

	mind := d[cols[lo]]

	for k := 0; k < nReady; k++ {
		j := cols[k]
		s.v[j] += d[j] - mind
	}

	return finalJ
}

// scan relaxes the TODO columns using the columns on the SCAN list.  It
// returns a free column as soon as one is reached at minimum distance, or
// -1 when the SCAN list is exhausted.
func (s *jvSolver) scan(lo, hi *int, d []float64, cols, pred []int) int {

	for *lo != *hi {

		j := cols[*lo]
		*lo++
		i := s.y[j]
		mind := d[j]
		h := s.cost[i][j] - s.v[j] - mind

		for k := *hi; k < s.n; k++ {
			j = cols[k]
			cred := s.cost[i][j] - s.v[j] - h

			if cred < d[j] {
				d[j] = cred
				pred[j] = i

				if cred == mind {
					if s.y[j] < 0 {
						return j
					}

					cols[k] = cols[*hi]
					cols[*hi] = j
					*hi++
				}
			}
		}
	}

	return -1
}

// findMinCols moves the columns with minimum d, starting at lo, to the front
// of the TODO part of cols and returns the new end of the SCAN list
func findMinCols(n, lo int, d []float64, cols []int) int {

	hi := lo + 1
	mind := d[cols[lo]]

	for k := hi; k < n; k++ {
		j := cols[k]

		if d[j] <= mind {
			if d[j] < mind {
				hi = lo
				mind = d[j]
			}

			cols[k] = cols[hi]
			cols[hi] = j
			hi++
		}
	}

	return hi
}

// linearAssignment matches rows to columns of a possibly rectangular cost
// matrix, only accepting pairs whose cost is below limit.  Unmatched rows
// and columns are returned separately.
func linearAssignment(cost [][]float64, rows, cols int, limit float64) (
	matches [][2]int, unmatchedRows, unmatchedCols []int, err error) {

	if rows == 0 || cols == 0 {
		for i := 0; i < rows; i++ {
			unmatchedRows = append(unmatchedRows, i)
		}
		for j := 0; j < cols; j++ {
			unmatchedCols = append(unmatchedCols, j)
		}
		return
	}

	// extend to a square matrix where the padding costs limit/2, any real
	// pair costing more than a pair of dummy assignments is left unmatched
	n := rows + cols
	ext := make([][]float64, n)

	for i := range ext {
		ext[i] = make([]float64, n)

		for j := range ext[i] {
			switch {
			case i < rows && j < cols:
				ext[i][j] = cost[i][j]
			case i >= rows && j >= cols:
				ext[i][j] = 0
			default:
				ext[i][j] = limit / 2
			}
		}
	}

	solver := newJVSolver(ext)

	if err = solver.solve(); err != nil {
		return nil, nil, nil, fmt.Errorf("linear assignment failed: %w", err)
	}

	for i := 0; i < rows; i++ {
		if j := solver.x[i]; j >= 0 && j < cols {
			matches = append(matches, [2]int{i, j})
		} else {
			unmatchedRows = append(unmatchedRows, i)
		}
	}

	for j := 0; j < cols; j++ {
		if i := solver.y[j]; i < 0 || i >= rows {
			unmatchedCols = append(unmatchedCols, j)
		}
	}

	return matches, unmatchedRows, unmatchedCols, nil
}
