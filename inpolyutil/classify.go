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
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/inpoly"
	"github.com/spatialmodel/inpoly/internal/hash"
)

// Classify reads a polygon and a set of points, determines which points
// are inside the polygon, and writes the results.
//
// log receives progress messages. Messages are also written to LogFile.
//
// LogFile is the path to the desired logfile location.
//
// PolygonFile is the path to the file holding the polygon ring.
// See ReadPolygon for supported formats.
//
// PointsFile is the path to the file holding the query points.
// See ReadPoints for supported formats; cols specifies where coordinates
// are found in tabular files.
//
// OutputFile is the path to the desired output location.
// See WriteResults for supported formats.
//
// Any of the file paths can be URLs or blob storage locations
// (gs://, s3://, or file://). Input files are downloaded before they
// are read and output files are uploaded after they are written.
//
// c specifies the classification options.
func Classify(ctx context.Context, log *logrus.Logger, LogFile, PolygonFile, PointsFile, OutputFile string,
	cols PointColumns, c *inpoly.Config) error {

	startTime := time.Now()

	var upload uploader

	logfile, err := os.Create(upload.maybeUpload(LogFile))
	if err != nil {
		return fmt.Errorf("inpolyutil: problem creating log file: %w", err)
	}
	defer logfile.Close()
	out := log.Out
	log.Out = io.MultiWriter(out, logfile)
	defer func() { log.Out = out }()

	polygonPath, err := maybeDownload(ctx, PolygonFile)
	if err != nil {
		return err
	}
	ring, err := ReadPolygon(polygonPath)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":     PolygonFile,
		"vertices": len(ring),
		"hash":     hash.Hash(ring),
	}).Info("read polygon")

	pointsPath, err := maybeDownload(ctx, PointsFile)
	if err != nil {
		return err
	}
	points, err := ReadPoints(pointsPath, cols)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"file":   PointsFile,
		"points": len(points),
	}).Info("read points")

	log.WithFields(logrus.Fields{
		"include_edges": c.IncludeEdges,
		"parallel":      c.Parallel,
		"workers":       c.Workers,
	}).Debug("classifying points")
	classifyStart := time.Now()
	inside, err := inpoly.ClassifyContext(ctx, points, ring, c)
	if err != nil {
		return err
	}
	var n int
	for _, in := range inside {
		if in {
			n++
		}
	}
	log.WithFields(logrus.Fields{
		"inside":  n,
		"outside": len(inside) - n,
		"elapsed": time.Since(classifyStart),
	}).Info("classified points")

	if err := WriteResults(upload.maybeUpload(OutputFile), points, inside); err != nil {
		return err
	}
	log.WithField("file", OutputFile).Info("wrote results")

	log.WithField("elapsed", time.Since(startTime)).Info("done")
	if err := logfile.Sync(); err != nil {
		return fmt.Errorf("inpolyutil: writing log file: %w", err)
	}
	return upload.upload(ctx)
}
