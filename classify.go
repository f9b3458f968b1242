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

package inpoly

import (
	"context"

	"github.com/ctessum/geom"
)

// Classify returns whether each of the points is inside polygon.
// points holds N rows of [x, y] coordinates and polygon holds the
// M+1 vertices of a closed ring, where the last vertex is equal to the
// first (this is not checked). Points exactly on an edge are considered
// inside if includeEdges is true. If parallel is true the points are
// split among runtime.GOMAXPROCS(0) workers; the result is the same
// either way.
//
// A ShapeError is returned before any work is done if a row of either
// array does not have exactly two values.
func Classify(points, polygon [][]float64, includeEdges, parallel bool) ([]bool, error) {
	pts, ring, err := FromArrays(points, polygon)
	if err != nil {
		return nil, err
	}
	return ClassifyContext(context.Background(), pts, ring, &Config{
		IncludeEdges: includeEdges,
		Parallel:     parallel,
	})
}

// ClassifyPoints returns whether each of the points is inside ring,
// using the options in c. If c is nil, DefaultConfig is used.
// ClassifyPoints panics if a worker panics.
func ClassifyPoints(points []geom.Point, ring geom.Path, c *Config) []bool {
	o, err := ClassifyContext(context.Background(), points, ring, c)
	if err != nil {
		panic(err)
	}
	return o
}

// ClassifyContext returns whether each of the points is inside ring,
// using the options in c. If c is nil, DefaultConfig is used. The result
// at index i always corresponds to points[i].
//
// Cancellation of ctx is checked periodically. If ctx is cancelled
// before all points are classified, no result is returned.
func ClassifyContext(ctx context.Context, points []geom.Point, ring geom.Path, c *Config) ([]bool, error) {
	if c == nil {
		c = DefaultConfig()
	}
	edges := Edges(ring)
	o := make([]bool, len(points))
	err := dispatch(ctx, len(points), c.workers(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			o[i] = locate(points[i], edges).Resolve(c.IncludeEdges)
		}
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// Locations returns the location of each of the points relative to
// ring. c.IncludeEdges is ignored. If c is nil, DefaultConfig is used.
// Locations panics if a worker panics.
func Locations(points []geom.Point, ring geom.Path, c *Config) []Location {
	if c == nil {
		c = DefaultConfig()
	}
	edges := Edges(ring)
	o := make([]Location, len(points))
	err := dispatch(context.Background(), len(points), c.workers(), func(lo, hi int) {
		for i := lo; i < hi; i++ {
			o[i] = locate(points[i], edges)
		}
	})
	if err != nil {
		panic(err)
	}
	return o
}

// Locate returns the location of p relative to ring.
func Locate(p geom.Point, ring geom.Path) Location {
	return locate(p, Edges(ring))
}

// locate walks all of the edges, recording whether p was ever found on
// an edge and flipping its parity for each edge crossed by a ray cast
// in the positive x direction.
func locate(p geom.Point, edges []Edge) Location {
	var inside, onEdge bool
	for _, e := range edges {
		on, crosses := e.test(p)
		if on {
			onEdge = true
		} else if crosses {
			inside = !inside
		}
	}
	switch {
	case onEdge:
		return OnEdge
	case inside:
		return Inside
	default:
		return Outside
	}
}
