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

package inpolyutil

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// insideField is the name of the output attribute holding
// the classification.
const insideField = "inside"

// outputExtensions are the supported output file types.
var outputExtensions = map[string]bool{".csv": true, ".geojson": true, ".json": true, ".shp": true}

// WriteResults writes points and their classifications to path. The output
// format is determined by the file extension: ".csv" files get columns
// x, y, and inside; ".geojson" and ".json" files get a FeatureCollection of
// points with an "inside" property; ".shp" files get a point shapefile with
// an "inside" attribute that is 1 for points inside the polygon and 0
// otherwise.
func WriteResults(path string, points []geom.Point, inside []bool) error {
	if len(points) != len(inside) {
		return fmt.Errorf("inpolyutil: %d points but %d results", len(points), len(inside))
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, points, inside)
	case ".geojson", ".json":
		return writeGeoJSON(path, points, inside)
	case ".shp":
		return writeShp(path, points, inside)
	default:
		return fmt.Errorf("inpolyutil: unsupported output file type '%s'", filepath.Ext(path))
	}
}

func writeCSV(path string, points []geom.Point, inside []bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("inpolyutil: creating output file: %w", err)
	}
	w := csv.NewWriter(f)
	w.Write([]string{"x", "y", insideField})
	for i, p := range points {
		w.Write([]string{
			strconv.FormatFloat(p.X, 'g', -1, 64),
			strconv.FormatFloat(p.Y, 'g', -1, 64),
			strconv.FormatBool(inside[i]),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("inpolyutil: writing output file: %w", err)
	}
	return f.Close()
}

type feature struct {
	Type       string            `json:"type"`
	Geometry   *geojson.Geometry `json:"geometry"`
	Properties map[string]bool   `json:"properties"`
}

func writeGeoJSON(path string, points []geom.Point, inside []bool) error {
	fc := struct {
		Type     string    `json:"type"`
		Features []feature `json:"features"`
	}{
		Type:     "FeatureCollection",
		Features: make([]feature, len(points)),
	}
	for i, p := range points {
		g, err := geojson.ToGeoJSON(p)
		if err != nil {
			return fmt.Errorf("inpolyutil: encoding point %d: %w", i, err)
		}
		fc.Features[i] = feature{
			Type:       "Feature",
			Geometry:   g,
			Properties: map[string]bool{insideField: inside[i]},
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("inpolyutil: creating output file: %w", err)
	}
	if err := json.NewEncoder(f).Encode(fc); err != nil {
		f.Close()
		return fmt.Errorf("inpolyutil: writing output file: %w", err)
	}
	return f.Close()
}

func writeShp(path string, points []geom.Point, inside []bool) error {
	e, err := shp.NewEncoderFromFields(path, goshp.POINT, goshp.NumberField(insideField, 1))
	if err != nil {
		return fmt.Errorf("inpolyutil: creating output shapefile: %w", err)
	}
	for i, p := range points {
		var v int
		if inside[i] {
			v = 1
		}
		if err := e.EncodeFields(p, v); err != nil {
			e.Close()
			return fmt.Errorf("inpolyutil: writing output shapefile: %w", err)
		}
	}
	e.Close()
	return nil
}
