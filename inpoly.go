/*
Copyright © 2026 the inpoly authors.
This file is part of inpoly.

inpoly is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

inpoly is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with inpoly.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package inpoly determines which of a set of points lie inside a closed
// polygon ring. It uses the even-odd (crossing number) rule with exact
// floating point comparisons: a point is either exactly on an edge of the
// polygon or it is not, there is no tolerance. Whether points that are
// exactly on an edge count as inside is chosen by the caller.
//
// The polygon ring must be closed, meaning its last vertex must be equal
// to its first vertex. This is not checked. The direction of the ring
// (clockwise or counter-clockwise) does not matter.
package inpoly

import "runtime"

// Version gives the version number.
const Version = "1.0.0"

// Location gives the position of a point relative to a polygon ring:
// whether it is outside, inside, or exactly on an edge.
type Location int

// These are the possible locations of a point.
const (
	Outside Location = iota
	Inside
	OnEdge
)

// Resolve converts l into a membership value. Points on an edge are
// considered inside if includeEdges is true and outside otherwise.
func (l Location) Resolve(includeEdges bool) bool {
	if l == OnEdge {
		return includeEdges
	}
	return l == Inside
}

func (l Location) String() string {
	switch l {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	case OnEdge:
		return "on edge"
	default:
		return "invalid location"
	}
}

// Config holds options for classifying a batch of points.
type Config struct {
	// IncludeEdges specifies whether points that lie exactly on an
	// edge of the polygon should be considered inside it.
	IncludeEdges bool

	// Parallel specifies whether the points should be split among
	// multiple concurrent workers.
	Parallel bool

	// Workers is the number of concurrent workers to use when Parallel
	// is true. If Workers < 1, the value of runtime.GOMAXPROCS(0) is used.
	Workers int
}

// DefaultConfig returns a configuration that includes edges and
// runs in parallel.
func DefaultConfig() *Config {
	return &Config{IncludeEdges: true, Parallel: true}
}

// workers returns the number of workers that should be used.
func (c *Config) workers() int {
	if !c.Parallel {
		return 1
	}
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}
