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
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/inpoly"
	"github.com/spf13/cast"
)

// ClassifyConfig unmarshals the classification options from a viper
// configuration. Values that were set from environment variables are
// strings, so they are converted and checked here.
func ClassifyConfig(cfg *viper.Viper) (*inpoly.Config, error) {
	includeEdges, err := cast.ToBoolE(cfg.Get("IncludeEdges"))
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: parsing IncludeEdges: %w", err)
	}
	parallel, err := cast.ToBoolE(cfg.Get("Parallel"))
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: parsing Parallel: %w", err)
	}
	workers, err := cast.ToIntE(cfg.Get("Workers"))
	if err != nil {
		return nil, fmt.Errorf("inpolyutil: parsing Workers: %w", err)
	}
	if workers < 0 {
		return nil, fmt.Errorf("inpolyutil: Workers=%d but should be >= 0", workers)
	}
	return &inpoly.Config{
		IncludeEdges: includeEdges,
		Parallel:     parallel,
		Workers:      workers,
	}, nil
}

// PointColumnsConfig unmarshals the tabular points file options from a
// viper configuration.
func PointColumnsConfig(cfg *viper.Viper) (PointColumns, error) {
	c := PointColumns{
		X: os.ExpandEnv(cfg.GetString("PointsXColumn")),
		Y: os.ExpandEnv(cfg.GetString("PointsYColumn")),
	}
	sheet, err := cast.ToIntE(cfg.Get("Sheet"))
	if err != nil {
		return c, fmt.Errorf("inpolyutil: parsing Sheet: %w", err)
	}
	c.Sheet = sheet
	if c.X == "" || c.Y == "" {
		return c, fmt.Errorf("inpolyutil: PointsXColumn and PointsYColumn must both be specified")
	}
	return c, nil
}

// checkInputFile makes sure that the input file named by option is
// specified and expands any environment variables.
func checkInputFile(option, f string) (string, error) {
	f = os.ExpandEnv(f)
	if f == "" {
		return "", fmt.Errorf("inpolyutil: you need to specify the %s configuration variable", option)
	}
	return f, nil
}

// checkOutputFile makes sure that the output file is specified, has a
// supported extension, and that its directory exists, and expands any
// environment variables.
func checkOutputFile(f string) (string, error) {
	if f == "" {
		return "", fmt.Errorf(`inpolyutil: you need to specify an output file configuration variable (for example: OutputFile="output.csv")`)
	}
	f = os.ExpandEnv(f)
	if ext := strings.ToLower(filepath.Ext(f)); !outputExtensions[ext] {
		return f, fmt.Errorf("inpolyutil: OutputFile '%s' must end in .csv, .geojson, .json, or .shp", f)
	}
	if IsBlob(f) {
		u, err := url.Parse(f)
		if err != nil {
			return f, err
		}
		if _, err = OpenBucket(context.TODO(), u.Scheme+"://"+u.Host); err != nil {
			return f, fmt.Errorf("inpolyutil: error when checking OutputFile location: %w", err)
		}
		return f, nil
	}
	outdir := filepath.Dir(f)
	if _, err := os.Stat(outdir); err != nil {
		return f, fmt.Errorf("inpolyutil: the OutputFile directory doesn't exist: %w", err)
	}
	return f, nil
}

// checkLogFile fills in a default value for the log file path if one isn't
// specified.
func checkLogFile(logFile, outputFile string) string {
	logFile = os.ExpandEnv(logFile)
	if logFile == "" {
		logFile = strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + ".log"
	}
	return logFile
}
