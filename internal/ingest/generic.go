// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"

	clouddb "github.com/seligman/cloud-sizes"
)

type genericSnapshot struct {
	V4 []string `json:"v4"`
	V6 []string `json:"v6"`
}

// Generic parses the flat {"v4": [...], "v6": [...]} shape shared by
// Cloudflare, DigitalOcean, Facebook, Hetzner, iCloud, Linode, Oracle,
// OVHcloud, Vultr, and similar providers, grounded on cloud_db.py's
// add_other: no per-prefix service or region, just a short name and a
// pretty name supplied by the caller.
type Generic struct {
	Path        string
	ShortName   string
	DisplayName string
}

func (g *Generic) Name() string   { return g.ShortName }
func (g *Generic) Pretty() string { return g.DisplayName }

func (g *Generic) Fetch(ctx context.Context, emit func(clouddb.Record) error) error {
	var snap genericSnapshot
	if err := readGzipJSON(g.Path, &snap); err != nil {
		return err
	}

	for _, prefix := range append(snap.V4, snap.V6...) {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		rec := clouddb.Record{Source: g.Name(), Prefix: prefix}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}
