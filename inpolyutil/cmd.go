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

// Package inpolyutil provides the command-line and HTTP interfaces to
// package inpoly, along with readers and writers for common geospatial
// file formats.
package inpolyutil

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/inpoly"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to inpoly.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "verbose",
			usage: `
              verbose specifies whether debugging messages should be logged.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "Polygon",
			usage: `
              Polygon is the path to the file holding the polygon ring. It can be
              a GeoJSON file (.geojson or .json) holding a Polygon with a single
              ring or a FeatureCollection with one such feature, a shapefile (.shp) whose first record is used, or a CSV file
              (.csv) of vertices with columns "x" and "y". The path can be a URL
              or a blob storage location (gs://, s3://, or file://) and can
              include environment variables.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "Points",
			usage: `
              Points is the path to the file holding the points to classify. It
              can be a CSV (.csv) or Excel (.xlsx) file with a header row, a GeoJSON
              file (.geojson or .json) holding Point or MultiPoint geometries, or a
              point shapefile (.shp). The path can be a URL or a blob storage
              location and can include environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "PointsXColumn",
			usage: `
              PointsXColumn is the name of the column holding x coordinates in
              CSV and Excel points files.`,
			defaultVal: "x",
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "PointsYColumn",
			usage: `
              PointsYColumn is the name of the column holding y coordinates in
              CSV and Excel points files.`,
			defaultVal: "y",
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "Sheet",
			usage: `
              Sheet is the index of the sheet to read from Excel points files.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to the desired output file location. The
              format is chosen by the extension: .csv, .geojson, .json, or .shp.
              It can be a blob storage location and can include environment
              variables.`,
			shorthand:  "o",
			defaultVal: "inpoly_output.csv",
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "LogFile",
			usage: `
              LogFile is the path to the desired logfile location. It can include
              environment variables. If LogFile is left blank, the logfile will be saved in
              the same location as the OutputFile.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "IncludeEdges",
			usage: `
              IncludeEdges specifies whether points that lie exactly on an edge
              of the polygon should be considered inside it. No tolerance is
              used: a point is either exactly on an edge or it is not.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "Parallel",
			usage: `
              Parallel specifies whether points should be classified by multiple
              concurrent workers. The results are the same either way.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags()},
		},
		{
			name: "Workers",
			usage: `
              Workers is the number of concurrent workers to use when Parallel
              is true. If it is 0, the number of available processors is used.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{classifyCmd.Flags(), serveCmd.Flags()},
		},
		{
			name: "Address",
			usage: `
              Address is the network address the server listens on.`,
			defaultVal: "localhost:7272",
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
		{
			name: "MaxBodyBytes",
			usage: `
              MaxBodyBytes is the maximum size of a request body, in bytes.`,
			defaultVal: 64 << 20,
			flagsets:   []*pflag.FlagSet{serveCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("INPOLY")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(classifyCmd)
	Root.AddCommand(serveCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("inpolyutil: problem reading configuration file: %w", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "inpoly",
	Short: "Exact point-in-polygon classification.",
	Long: `inpoly determines which of a set of points are inside a polygon, using
the even-odd rule with exact comparisons. Points that are exactly on an edge
of the polygon can be counted as inside or outside.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'INPOLY_var' where 'var' is the
name of the variable to be set. Many configuration variables are additionally
allowed to contain environment variables within them.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of inpoly.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("inpoly v%s\n", inpoly.Version)
	},
	DisableAutoGenTag: true,
}

// classifyCmd is a command that classifies the points in a file.
var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Classify points against a polygon.",
	Long: `classify reads a polygon and a set of points from the files specified
by the Polygon and Points configuration variables, determines which
points are inside the polygon, and writes the results to OutputFile.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := ClassifyConfig(Cfg)
		if err != nil {
			return err
		}
		cols, err := PointColumnsConfig(Cfg)
		if err != nil {
			return err
		}
		polygonFile, err := checkInputFile("Polygon", Cfg.GetString("Polygon"))
		if err != nil {
			return err
		}
		pointsFile, err := checkInputFile("Points", Cfg.GetString("Points"))
		if err != nil {
			return err
		}
		outputFile, err := checkOutputFile(Cfg.GetString("OutputFile"))
		if err != nil {
			return err
		}
		log := NewLogger(os.Stderr, Cfg.GetBool("verbose"))
		return Classify(
			context.Background(),
			log,
			checkLogFile(Cfg.GetString("LogFile"), outputFile),
			polygonFile,
			pointsFile,
			outputFile,
			cols,
			c,
		)
	},
	DisableAutoGenTag: true,
}

// serveCmd is a command that starts an HTTP server.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start an HTTP classification server.",
	Long: `serve starts an HTTP server at Address. Points are classified by sending
a POST request to /classify with a JSON body in the format

	{"points": [[x, y], ...], "polygon": [[x, y], ...],
	 "include_edges": true, "parallel": true}

where include_edges and parallel are optional and default to true.
The response is in the format {"inside": [true, false, ...]}.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		workers, err := cast.ToIntE(Cfg.Get("Workers"))
		if err != nil {
			return fmt.Errorf("inpolyutil: parsing Workers: %w", err)
		}
		maxBody, err := cast.ToInt64E(Cfg.Get("MaxBodyBytes"))
		if err != nil {
			return fmt.Errorf("inpolyutil: parsing MaxBodyBytes: %w", err)
		}
		address := strings.TrimSpace(os.ExpandEnv(Cfg.GetString("Address")))

		log := NewLogger(os.Stderr, Cfg.GetBool("verbose"))
		srv := &http.Server{
			Addr:              address,
			Handler:           NewServer(log, workers, maxBody),
			ReadHeaderTimeout: 5 * time.Second,
			IdleTimeout:       120 * time.Second,
			MaxHeaderBytes:    1 << 20,
		}
		log.Infof("listening on http://%s", address)
		return srv.ListenAndServe()
	},
	DisableAutoGenTag: true,
}
