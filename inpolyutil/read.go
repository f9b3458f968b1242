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
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/geojson"
	"github.com/ctessum/geom/encoding/shp"
	"github.com/tealeg/xlsx"
)

// PointColumns specifies where to find point coordinates in
// tabular (CSV and Excel) files.
type PointColumns struct {
	// X and Y are the names of the header columns holding
	// the coordinates. Matching is case-insensitive.
	X, Y string

	// Sheet is the index of the sheet to read from Excel files.
	Sheet int
}

// DefaultPointColumns reads coordinates from columns named "x" and "y"
// in the first sheet.
var DefaultPointColumns = PointColumns{X: "x", Y: "y"}

// ReadPolygon reads a polygon ring from the given file, whose format is
// determined by its extension: GeoJSON (".geojson" or ".json") holding a
// Polygon or single-member MultiPolygon, either bare or as the only feature
// of a FeatureCollection, a shapefile (".shp"), whose first
// record is used, or a CSV file (".csv") of vertices in columns "x" and "y".
// Polygons with holes or more than one ring are not supported. If the ring
// is not closed, the first vertex is appended to the end of it.
func ReadPolygon(path string) (geom.Path, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		b, err := ioutil.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("inpolyutil: reading polygon file: %w", err)
		}
		g, err := decodePolygonGeoJSON(b)
		if err != nil {
			return nil, fmt.Errorf("inpolyutil: decoding polygon file %s: %w", path, err)
		}
		return ringFromGeom(g)
	case ".shp":
		d, err := shp.NewDecoder(path)
		if err != nil {
			return nil, fmt.Errorf("inpolyutil: opening polygon shapefile: %w", err)
		}
		defer d.Close()
		g, _, more := d.DecodeRowFields()
		if err := d.Error(); err != nil {
			return nil, fmt.Errorf("inpolyutil: reading polygon shapefile %s: %w", path, err)
		}
		if !more {
			return nil, fmt.Errorf("inpolyutil: polygon shapefile %s has no records", path)
		}
		return ringFromGeom(g)
	case ".csv":
		pts, err := readCSV(path, DefaultPointColumns)
		if err != nil {
			return nil, err
		}
		return closeRing(pts), nil
	default:
		return nil, fmt.Errorf("inpolyutil: unsupported polygon file type '%s'", filepath.Ext(path))
	}
}

// decodePolygonGeoJSON decodes a bare GeoJSON geometry or a
// FeatureCollection holding exactly one feature.
func decodePolygonGeoJSON(b []byte) (geom.Geom, error) {
	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, err
	}
	if fc.Type != "FeatureCollection" {
		return geojson.Decode(b)
	}
	if len(fc.Features) != 1 {
		return nil, fmt.Errorf("feature collection has %d features but only "+
			"a single polygon feature is supported", len(fc.Features))
	}
	return geojson.FromGeoJSON(&fc.Features[0].Geometry)
}

// ringFromGeom returns the only ring of a polygonal geometry.
func ringFromGeom(g geom.Geom) (geom.Path, error) {
	switch t := g.(type) {
	case geom.Polygon:
		if len(t) != 1 {
			return nil, fmt.Errorf("inpolyutil: polygon has %d rings but only polygons "+
				"with exactly one ring are supported", len(t))
		}
		return closeRing(t[0]), nil
	case geom.MultiPolygon:
		if len(t) != 1 {
			return nil, fmt.Errorf("inpolyutil: multipolygon has %d polygons but only "+
				"a single polygon is supported", len(t))
		}
		return ringFromGeom(t[0])
	default:
		return nil, fmt.Errorf("inpolyutil: invalid polygon geometry type %T", g)
	}
}

// closeRing appends the first vertex of p to the end of it
// if p is not already closed.
func closeRing(p geom.Path) geom.Path {
	if len(p) == 0 || p[len(p)-1].Equals(p[0]) {
		return p
	}
	o := make(geom.Path, len(p), len(p)+1)
	copy(o, p)
	return append(o, p[0])
}

// ReadPoints reads query points from the given file, whose format is
// determined by its extension: CSV (".csv") or Excel (".xlsx") files
// with a header row and coordinates in the columns specified by cols,
// GeoJSON (".geojson" or ".json") holding a Point, a MultiPoint, or a
// FeatureCollection of those, or a shapefile (".shp") of points.
func ReadPoints(path string, cols PointColumns) ([]geom.Point, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSV(path, cols)
	case ".xlsx":
		return readXLSX(path, cols)
	case ".geojson", ".json":
		return readGeoJSONPoints(path)
	case ".shp":
		return readShpPoints(path)
	default:
		return nil, fmt.Errorf("inpolyutil: unsupported points file type '%s'", filepath.Ext(path))
	}
}

// columnIndices returns the indices of the x and y columns in header.
func columnIndices(header []string, cols PointColumns) (int, int, error) {
	xi, yi := -1, -1
	for i, h := range header {
		h = strings.TrimSpace(h)
		if strings.EqualFold(h, cols.X) {
			xi = i
		}
		if strings.EqualFold(h, cols.Y) {
			yi = i
		}
	}
	if xi < 0 || yi < 0 {
		return -1, -1, fmt.Errorf("inpolyutil: header %v does not contain columns '%s' and '%s'",
			header, cols.X, cols.Y)
	}
	return xi, yi, nil
}

func parseCoordinate(s string, line int) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("inpolyutil: line %d: %w", line, err)
	}
	return v, nil
}

func readCSV(path string, cols PointColumns) ([]geom.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: opening CSV file: %w", err)
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: reading header of %s: %w", path, err)
	}
	xi, yi, err := columnIndices(header, cols)
	if err != nil {
		return nil, err
	}
	var o []geom.Point
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, fmt.Errorf("inpolyutil: reading %s: %w", path, err)
		}
		if xi >= len(rec) || yi >= len(rec) {
			return nil, fmt.Errorf("inpolyutil: line %d of %s has %d fields", line, path, len(rec))
		}
		x, err := parseCoordinate(rec[xi], line)
		if err != nil {
			return nil, err
		}
		y, err := parseCoordinate(rec[yi], line)
		if err != nil {
			return nil, err
		}
		o = append(o, geom.Point{X: x, Y: y})
	}
	return o, nil
}

func readXLSX(path string, cols PointColumns) ([]geom.Point, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: opening Excel file: %w", err)
	}
	if cols.Sheet < 0 || cols.Sheet >= len(f.Sheets) {
		return nil, fmt.Errorf("inpolyutil: Excel file %s has %d sheets; sheet %d requested",
			path, len(f.Sheets), cols.Sheet)
	}
	rows := f.Sheets[cols.Sheet].Rows
	if len(rows) == 0 {
		return nil, fmt.Errorf("inpolyutil: Excel file %s has no header row", path)
	}
	header := make([]string, len(rows[0].Cells))
	for i, c := range rows[0].Cells {
		header[i] = c.Value
	}
	xi, yi, err := columnIndices(header, cols)
	if err != nil {
		return nil, err
	}
	var o []geom.Point
	for i, row := range rows[1:] {
		line := i + 2
		xv, yv := cellValue(row, xi), cellValue(row, yi)
		if xv == "" && yv == "" {
			// Blank rows.
			continue
		}
		x, err := parseCoordinate(xv, line)
		if err != nil {
			return nil, err
		}
		y, err := parseCoordinate(yv, line)
		if err != nil {
			return nil, err
		}
		o = append(o, geom.Point{X: x, Y: y})
	}
	return o, nil
}

// cellValue returns the trimmed value of cell i in row, or "" if the
// row is too short to hold it. Trailing empty cells are not stored.
func cellValue(row *xlsx.Row, i int) string {
	if i >= len(row.Cells) {
		return ""
	}
	return strings.TrimSpace(row.Cells[i].Value)
}

// featureCollection is the part of a GeoJSON FeatureCollection
// needed to read geometries.
type featureCollection struct {
	Type     string `json:"type"`
	Features []struct {
		Geometry geojson.Geometry `json:"geometry"`
	} `json:"features"`
}

func readGeoJSONPoints(path string) ([]geom.Point, error) {
	b, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: reading points file: %w", err)
	}
	var fc featureCollection
	if err := json.Unmarshal(b, &fc); err != nil {
		return nil, fmt.Errorf("inpolyutil: decoding points file %s: %w", path, err)
	}
	if fc.Type != "FeatureCollection" {
		g, err := geojson.Decode(b)
		if err != nil {
			return nil, fmt.Errorf("inpolyutil: decoding points file %s: %w", path, err)
		}
		return appendPoints(nil, g)
	}
	var o []geom.Point
	for i, f := range fc.Features {
		g, err := geojson.FromGeoJSON(&f.Geometry)
		if err != nil {
			return nil, fmt.Errorf("inpolyutil: decoding feature %d of %s: %w", i, path, err)
		}
		if o, err = appendPoints(o, g); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func readShpPoints(path string) ([]geom.Point, error) {
	d, err := shp.NewDecoder(path)
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: opening points shapefile: %w", err)
	}
	defer d.Close()
	var o []geom.Point
	for {
		g, _, more := d.DecodeRowFields()
		if !more {
			break
		}
		if o, err = appendPoints(o, g); err != nil {
			return nil, err
		}
	}
	if err := d.Error(); err != nil {
		return nil, fmt.Errorf("inpolyutil: reading points shapefile %s: %w", path, err)
	}
	return o, nil
}

// appendPoints appends the points in g to o.
func appendPoints(o []geom.Point, g geom.Geom) ([]geom.Point, error) {
	switch t := g.(type) {
	case geom.Point:
		return append(o, t), nil
	case geom.MultiPoint:
		return append(o, t...), nil
	default:
		return nil, fmt.Errorf("inpolyutil: invalid point geometry type %T", g)
	}
}
