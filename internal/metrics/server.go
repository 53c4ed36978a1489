// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

// Package metrics exposes build counters as Prometheus gauges and serves
// them over HTTP, the way flow-dps/service/metrics.Server does: an
// http.Server wrapping a ServeMux, a Start method, a zerolog.Logger field.
package metrics

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	clouddb "github.com/seligman/cloud-sizes"
)

// Gauges holds the Prometheus gauges mirroring clouddb.Stats.
type Gauges struct {
	Ranges   prometheus.Gauge
	Sources  prometheus.Gauge
	Branches prometheus.Gauge
	Leafs    prometheus.Gauge
	Size     prometheus.Gauge
}

// NewGauges registers one gauge per clouddb.Stats field under the
// cloudsizes_build namespace and returns them for Set after each build.
func NewGauges(reg prometheus.Registerer) *Gauges {
	g := &Gauges{
		Ranges: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudsizes", Subsystem: "build", Name: "ranges",
			Help: "Number of ingestion records applied to the trie in the most recent build.",
		}),
		Sources: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudsizes", Subsystem: "build", Name: "sources",
			Help: "Number of distinct sources registered in the most recent build.",
		}),
		Branches: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudsizes", Subsystem: "build", Name: "branches",
			Help: "Number of branch pages written in the most recent build.",
		}),
		Leafs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudsizes", Subsystem: "build", Name: "leafs",
			Help: "Number of deduplicated leaf payloads written in the most recent build.",
		}),
		Size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "cloudsizes", Subsystem: "build", Name: "size_bytes",
			Help: "Container size in bytes, excluding the info page, as of the most recent build.",
		}),
	}
	reg.MustRegister(g.Ranges, g.Sources, g.Branches, g.Leafs, g.Size)
	return g
}

// Set updates every gauge from a Stats snapshot.
func (g *Gauges) Set(s clouddb.Stats) {
	g.Ranges.Set(float64(s.Ranges))
	g.Sources.Set(float64(s.Sources))
	g.Branches.Set(float64(s.Branches))
	g.Leafs.Set(float64(s.Leafs))
	g.Size.Set(float64(s.Size))
}

// Server is the http server serving /metrics for Prometheus.
type Server struct {
	server *http.Server
	log    zerolog.Logger
}

// NewServer creates a new server that exposes metrics registered against
// reg at address.
func NewServer(log zerolog.Logger, address string, reg *prometheus.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	return &Server{
		server: &http.Server{
			Addr:    address,
			Handler: mux,
		},
		log: log,
	}
}

// Start launches the server and blocks until it stops or errors.
func (s *Server) Start() error {
	s.log.Info().Str("address", s.server.Addr).Msg("starting metrics server")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("could not listen and serve: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
