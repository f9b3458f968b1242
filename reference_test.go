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
	"fmt"
	"math/rand"
	"testing"

	"github.com/ctessum/geom"
)

// classifyReference is a straightforward version of the algorithm that
// processes one edge at a time for all points, and after every edge
// overwrites the result of each point that has been found on an edge
// so far. It is slow but easy to check by hand.
func classifyReference(points []geom.Point, poly geom.Path, includeEdges bool) []bool {
	isInside := make([]bool, len(points))
	onEdge := make([]bool, len(points))
	n := len(poly)
	p1 := poly[0]
	for i := 1; i < n; i++ {
		p2 := poly[i%n]
		if p1.Y == p2.Y {
			for j, p := range points {
				if p.Y == p1.Y && p.X >= min2(p1.X, p2.X) && p.X < max2(p1.X, p2.X) {
					onEdge[j] = true
				}
			}
		} else {
			for j, p := range points {
				if !(p.Y >= min2(p1.Y, p2.Y) && p.Y < max2(p1.Y, p2.Y)) {
					continue
				}
				xinters := (p.Y-p1.Y)*(p2.X-p1.X)/(p2.Y-p1.Y) + p1.X
				if p.X == xinters {
					onEdge[j] = true
				}
				if p.X < xinters {
					isInside[j] = !isInside[j]
				}
			}
		}
		p1 = p2

		for j := range points {
			if onEdge[j] {
				isInside[j] = includeEdges
			}
		}
	}
	return isInside
}

func TestClassifyMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 20; trial++ {
		ring := randomRing(rng, 3+rng.Intn(15))
		pts := randomPoints(rng, 2000)
		for _, include := range []bool{true, false} {
			want := classifyReference(pts, ring, include)
			for _, parallel := range []bool{true, false} {
				t.Run(fmt.Sprintf("trial=%d_include=%v_parallel=%v", trial, include, parallel), func(t *testing.T) {
					have := ClassifyPoints(pts, ring, &Config{IncludeEdges: include, Parallel: parallel})
					for i := range have {
						if have[i] != want[i] {
							t.Errorf("point %d %v: have %v, want %v", i, pts[i], have[i], want[i])
						}
					}
				})
			}
		}
	}
}

func TestReferenceFixedCases(t *testing.T) {
	pts := []geom.Point{{X: 0.5, Y: 0.5}, {X: 2, Y: 2}, {X: -0.5, Y: 0.5}, {X: 0.5, Y: 0}, {X: 0, Y: 0}}
	tests := []struct {
		include bool
		want    []bool
	}{
		{include: true, want: []bool{true, false, false, true, true}},
		{include: false, want: []bool{true, false, false, false, false}},
	}
	for _, test := range tests {
		have := classifyReference(pts, unitSquare, test.include)
		for i := range have {
			if have[i] != test.want[i] {
				t.Errorf("include=%v, point %v: have %v, want %v", test.include, pts[i], have[i], test.want[i])
			}
		}
	}
}
