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
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/inpoly"
	"github.com/spatialmodel/inpoly/internal/hash"
)

// ClassifyRequest is the body of a request to the /classify endpoint.
// IncludeEdges and Parallel default to true if they are omitted.
type ClassifyRequest struct {
	Points       [][]float64 `json:"points"`
	Polygon      [][]float64 `json:"polygon"`
	IncludeEdges *bool       `json:"include_edges,omitempty"`
	Parallel     *bool       `json:"parallel,omitempty"`
}

// ClassifyResponse is the body of a successful response from the
// /classify endpoint. Inside[i] corresponds to Points[i] in the request.
type ClassifyResponse struct {
	Inside []bool `json:"inside"`
}

// PolygonHashHeader is the response header holding the fingerprint of
// the polygon that was classified against.
const PolygonHashHeader = "X-Polygon-Hash"

// Server classifies points sent to it over HTTP.
type Server struct {
	// Log receives request log messages.
	Log *logrus.Logger

	// Workers is the number of concurrent workers for parallel requests.
	// See inpoly.Config.
	Workers int

	// MaxBodyBytes is the maximum size of a request body.
	MaxBodyBytes int64

	mux *http.ServeMux
}

// NewServer returns a new server.
func NewServer(log *logrus.Logger, workers int, maxBodyBytes int64) *Server {
	s := &Server{
		Log:          log,
		Workers:      workers,
		MaxBodyBytes: maxBodyBytes,
		mux:          http.NewServeMux(),
	}
	s.mux.HandleFunc("/classify", s.classify)
	s.mux.HandleFunc("/version", s.version)
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) version(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "inpoly v%s\n", inpoly.Version)
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	log := s.Log.WithField("remote", r.RemoteAddr)

	var req ClassifyRequest
	body := http.MaxBytesReader(w, r.Body, s.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		log.WithError(err).Warn("invalid request")
		http.Error(w, fmt.Sprintf("invalid request: %v", err), http.StatusBadRequest)
		return
	}

	points, ring, err := inpoly.FromArrays(req.Points, req.Polygon)
	if err != nil { // always a ShapeError
		log.WithError(err).Warn("invalid shape")
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	c := &inpoly.Config{
		IncludeEdges: boolOrTrue(req.IncludeEdges),
		Parallel:     boolOrTrue(req.Parallel),
		Workers:      s.Workers,
	}
	inside, err := inpoly.ClassifyContext(r.Context(), points, ring, c)
	if err != nil {
		log.WithError(err).Error("classification failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	ringHash := hash.Hash(ring)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(PolygonHashHeader, ringHash)
	if err := json.NewEncoder(w).Encode(ClassifyResponse{Inside: inside}); err != nil {
		log.WithError(err).Error("writing response")
		return
	}
	log.WithFields(logrus.Fields{
		"points":   len(points),
		"vertices": len(ring),
		"hash":     ringHash,
		"elapsed":  time.Since(start),
	}).Debug("classified points")
}

func boolOrTrue(b *bool) bool {
	if b == nil {
		return true
	}
	return *b
}
