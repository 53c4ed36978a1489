// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"

	clouddb "github.com/seligman/cloud-sizes"
)

type googlePrefix struct {
	IPv4Prefix string `json:"ipv4Prefix"`
	IPv6Prefix string `json:"ipv6Prefix"`
	Service    string `json:"service"`
	Scope      string `json:"scope"`
}

type googleSnapshot struct {
	Prefixes []googlePrefix `json:"prefixes"`
}

// Google parses Google's published cloud.json, grounded on cloud_db.py's
// add_google: service and scope carry straight through as Service and
// Region.
type Google struct {
	Path string
}

func (g *Google) Name() string   { return "google" }
func (g *Google) Pretty() string { return "Google" }

func (g *Google) Fetch(ctx context.Context, emit func(clouddb.Record) error) error {
	var snap googleSnapshot
	if err := readGzipJSON(g.Path, &snap); err != nil {
		return err
	}

	for _, cur := range snap.Prefixes {
		if err := checkCtx(ctx); err != nil {
			return err
		}

		prefix := cur.IPv4Prefix
		if prefix == "" {
			prefix = cur.IPv6Prefix
		}

		rec := clouddb.Record{
			Source:  g.Name(),
			Prefix:  prefix,
			Service: cur.Service,
			Region:  cur.Scope,
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}
