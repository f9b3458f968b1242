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
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kr/pretty"
	"github.com/spatialmodel/inpoly"
	"github.com/spatialmodel/inpoly/internal/hash"
)

func testServer(t *testing.T) *httptest.Server {
	return httptest.NewServer(NewServer(NewLogger(ioutil.Discard, true), 2, 1<<20))
}

func post(t *testing.T, url string, body interface{}) *http.Response {
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatal(err)
	}
	return resp
}

func TestServerClassify(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	polygon := [][]float64{{0, 0}, {2, 0}, {2, 1}, {1, 1}, {1, 2}, {0, 2}, {0, 0}}
	points := make([][]float64, len(testPoints))
	for i, p := range testPoints {
		points[i] = []float64{p.X, p.Y}
	}
	f := false

	for _, test := range []struct {
		name string
		req  ClassifyRequest
		want []bool
	}{
		{
			name: "defaults",
			req:  ClassifyRequest{Points: points, Polygon: polygon},
			want: []bool{true, false, true, true, false, true},
		},
		{
			name: "exclude edges",
			req:  ClassifyRequest{Points: points, Polygon: polygon, IncludeEdges: &f},
			want: []bool{true, false, true, true, false, false},
		},
		{
			name: "serial",
			req:  ClassifyRequest{Points: points, Polygon: polygon, Parallel: &f},
			want: []bool{true, false, true, true, false, true},
		},
		{
			name: "no points",
			req:  ClassifyRequest{Points: [][]float64{}, Polygon: polygon},
			want: []bool{},
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/classify", test.req)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				b, _ := ioutil.ReadAll(resp.Body)
				t.Fatalf("status %d: %s", resp.StatusCode, b)
			}
			var r ClassifyResponse
			if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
				t.Fatal(err)
			}
			if diff := pretty.Diff(r.Inside, test.want); len(diff) != 0 {
				t.Error(diff)
			}
			_, ring, err := inpoly.FromArrays(test.req.Points, test.req.Polygon)
			if err != nil {
				t.Fatal(err)
			}
			if have, want := resp.Header.Get(PolygonHashHeader), hash.Hash(ring); have != want {
				t.Errorf("hash: %s != %s", have, want)
			}
		})
	}
}

func TestServerErrors(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()

	t.Run("method", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/classify")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Errorf("status %d", resp.StatusCode)
		}
	})
	t.Run("bad json", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/classify", "application/json", strings.NewReader("{"))
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d", resp.StatusCode)
		}
	})
	t.Run("shape", func(t *testing.T) {
		resp := post(t, srv.URL+"/classify", ClassifyRequest{
			Points:  [][]float64{{0, 0, 0}},
			Polygon: [][]float64{{0, 0}, {1, 0}, {1, 1}},
		})
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d", resp.StatusCode)
		}
		b, err := ioutil.ReadAll(resp.Body)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(b), "`points`") {
			t.Errorf("error message should name the points array: %s", b)
		}
	})
	t.Run("too large", func(t *testing.T) {
		s := httptest.NewServer(NewServer(NewLogger(ioutil.Discard, false), 0, 16))
		defer s.Close()
		resp := post(t, s.URL+"/classify", ClassifyRequest{
			Points:  [][]float64{{0.5, 0.5}},
			Polygon: [][]float64{{0, 0}, {1, 0}, {1, 1}, {0, 1}, {0, 0}},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status %d", resp.StatusCode)
		}
	})
}

func TestServerVersion(t *testing.T) {
	srv := testServer(t)
	defer srv.Close()
	resp, err := http.Get(srv.URL + "/version")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	b, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if want := "inpoly v" + inpoly.Version + "\n"; string(b) != want {
		t.Errorf("%q != %q", b, want)
	}
}
