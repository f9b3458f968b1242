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
	"os"
	"reflect"
	"testing"

	"github.com/lnashier/viper"
	"github.com/spatialmodel/inpoly"
)

func TestClassifyConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := viper.New()
		cfg.SetDefault("IncludeEdges", true)
		cfg.SetDefault("Parallel", true)
		cfg.SetDefault("Workers", 0)
		c, err := ClassifyConfig(cfg)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(c, inpoly.DefaultConfig()) {
			t.Errorf("%+v != %+v", c, inpoly.DefaultConfig())
		}
	})
	t.Run("strings", func(t *testing.T) {
		// Values from environment variables are strings.
		cfg := viper.New()
		cfg.Set("IncludeEdges", "false")
		cfg.Set("Parallel", "true")
		cfg.Set("Workers", "3")
		c, err := ClassifyConfig(cfg)
		if err != nil {
			t.Fatal(err)
		}
		want := &inpoly.Config{IncludeEdges: false, Parallel: true, Workers: 3}
		if !reflect.DeepEqual(c, want) {
			t.Errorf("%+v != %+v", c, want)
		}
	})
	t.Run("invalid bool", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("IncludeEdges", "maybe")
		if _, err := ClassifyConfig(cfg); err == nil {
			t.Error("expected an error")
		}
	})
	t.Run("negative workers", func(t *testing.T) {
		cfg := viper.New()
		cfg.Set("IncludeEdges", true)
		cfg.Set("Parallel", true)
		cfg.Set("Workers", -1)
		if _, err := ClassifyConfig(cfg); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestPointColumnsConfig(t *testing.T) {
	os.Setenv("INPOLY_TEST_COLUMN", "lon")
	defer os.Unsetenv("INPOLY_TEST_COLUMN")
	cfg := viper.New()
	cfg.Set("PointsXColumn", "$INPOLY_TEST_COLUMN")
	cfg.Set("PointsYColumn", "lat")
	cfg.Set("Sheet", "2")
	c, err := PointColumnsConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := PointColumns{X: "lon", Y: "lat", Sheet: 2}
	if c != want {
		t.Errorf("%+v != %+v", c, want)
	}

	cfg.Set("PointsYColumn", "")
	if _, err := PointColumnsConfig(cfg); err == nil {
		t.Error("expected an error for a missing column")
	}
}

func TestCheckInputFile(t *testing.T) {
	if _, err := checkInputFile("Points", ""); err == nil {
		t.Error("expected an error for a missing file")
	}
	os.Setenv("INPOLY_TEST_DIR", "testdata")
	defer os.Unsetenv("INPOLY_TEST_DIR")
	f, err := checkInputFile("Points", "${INPOLY_TEST_DIR}/points.csv")
	if err != nil {
		t.Fatal(err)
	}
	if f != "testdata/points.csv" {
		t.Errorf("unexpected file %s", f)
	}
}

func TestCheckOutputFile(t *testing.T) {
	for _, test := range []struct {
		file string
		ok   bool
	}{
		{file: "", ok: false},
		{file: "output.csv", ok: true},
		{file: "testdata/output.SHP", ok: true},
		{file: "output.txt", ok: false},
		{file: "nonexistent_dir/output.csv", ok: false},
		{file: "file://testdata/output.geojson", ok: true},
		{file: "file://nonexistent_dir/output.geojson", ok: false},
	} {
		t.Run(test.file, func(t *testing.T) {
			_, err := checkOutputFile(test.file)
			if test.ok && err != nil {
				t.Error(err)
			} else if !test.ok && err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestCheckLogFile(t *testing.T) {
	if f := checkLogFile("", "dir/output.shp"); f != "dir/output.log" {
		t.Errorf("unexpected log file %s", f)
	}
	if f := checkLogFile("my.log", "dir/output.shp"); f != "my.log" {
		t.Errorf("unexpected log file %s", f)
	}
}
