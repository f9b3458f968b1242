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

import "github.com/ctessum/geom"

// Edge is a directed polygon edge from P1 to P2.
type Edge struct {
	P1, P2 geom.Point
}

// Edges returns the edges of the closed ring, in order. Edge i goes from
// ring[i] to ring[i+1], so a ring with M+1 vertices has M edges.
// Rings with fewer than two vertices have no edges.
func Edges(ring geom.Path) []Edge {
	if len(ring) < 2 {
		return nil
	}
	e := make([]Edge, len(ring)-1)
	for i := range e {
		e[i] = Edge{P1: ring[i], P2: ring[i+1]}
	}
	return e
}

// test checks p against e. onEdge is true if p lies exactly on e.
// crosses is true if a ray cast from p in the positive x direction crosses e,
// in which case the inside/outside parity of p should be flipped.
//
// Intervals are half-open so that a vertex shared by two edges is only
// attributed to one of them: points on a horizontal edge must satisfy
// min(x) <= p.X < max(x), and non-horizontal edges are only considered
// for min(y) <= p.Y < max(y).
func (e Edge) test(p geom.Point) (onEdge, crosses bool) {
	p1, p2 := e.P1, e.P2
	if p1.Y == p2.Y {
		onEdge = p.Y == p1.Y && p.X >= min2(p1.X, p2.X) && p.X < max2(p1.X, p2.X)
		return onEdge, false
	}
	if !(p.Y >= min2(p1.Y, p2.Y) && p.Y < max2(p1.Y, p2.Y)) {
		return false, false
	}
	xint := (p.Y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y) + p1.X
	if p.X == xint {
		return true, false
	}
	return false, p.X < xint
}

// min2 returns b if b < a and a otherwise.
func min2(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

// max2 returns b if b > a and a otherwise.
func max2(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}
