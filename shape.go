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

	"github.com/ctessum/geom"
)

// ShapeError is returned when an input coordinate array does not
// hold 2D coordinates.
type ShapeError struct {
	// Array is the name of the offending array, either "points"
	// or "polygon".
	Array string

	// Row is the index of the first row with the wrong number
	// of coordinates.
	Row int

	// Dim is the number of coordinates in that row.
	Dim int
}

func (e ShapeError) Error() string {
	what := "points"
	if e.Array == "polygon" {
		what = "polygon"
	}
	return fmt.Sprintf("inpoly: the dimension of the second axis of `%s` must be equal to 2 "+
		"(i.e. 2D %s), not %d (row %d)", e.Array, what, e.Dim, e.Row)
}

// FromArrays converts rows of [x, y] coordinates into query points and a
// polygon ring. It returns a ShapeError if any row of either array
// does not have exactly two values. points is checked before polygon.
func FromArrays(points, polygon [][]float64) ([]geom.Point, geom.Path, error) {
	pts, err := toPoints("points", points)
	if err != nil {
		return nil, nil, err
	}
	ring, err := toPoints("polygon", polygon)
	if err != nil {
		return nil, nil, err
	}
	return pts, geom.Path(ring), nil
}

func toPoints(name string, a [][]float64) ([]geom.Point, error) {
	o := make([]geom.Point, len(a))
	for i, row := range a {
		if len(row) != 2 {
			return nil, ShapeError{Array: name, Row: i, Dim: len(row)}
		}
		o[i] = geom.Point{X: row[0], Y: row[1]}
	}
	return o, nil
}
