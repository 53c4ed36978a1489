// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"
	"encoding/json"
	"sort"

	clouddb "github.com/seligman/cloud-sizes"
)

// githubExcluded lists the top-level keys in GitHub's meta document that
// aren't CIDR lists (SSH host keys and the like), matching cloud_db.py's
// add_github exclusion set.
var githubExcluded = map[string]bool{
	"verifiable_password_authentication": true,
	"ssh_key_fingerprints":               true,
	"ssh_keys":                           true,
}

// GitHub parses GitHub's published meta API document, grounded on
// cloud_db.py's add_github: every remaining top-level key is a list of
// CIDRs, and the key name itself becomes each Record's Service.
type GitHub struct {
	Path string
}

func (g *GitHub) Name() string   { return "github" }
func (g *GitHub) Pretty() string { return "GitHub" }

func (g *GitHub) Fetch(ctx context.Context, emit func(clouddb.Record) error) error {
	var snap map[string]json.RawMessage
	if err := readGzipJSON(g.Path, &snap); err != nil {
		return err
	}

	keys := make([]string, 0, len(snap))
	for key := range snap {
		keys = append(keys, key)
	}
	sort.Strings(keys) // deterministic build output regardless of map iteration order

	for _, key := range keys {
		raw := snap[key]
		if githubExcluded[key] {
			continue
		}
		var prefixes []string
		if err := json.Unmarshal(raw, &prefixes); err != nil {
			// Not a list of strings (e.g. a nested object); not a CIDR
			// source, skip it the way add_github's isinstance(value, list)
			// guard does.
			continue
		}

		for _, prefix := range prefixes {
			if err := checkCtx(ctx); err != nil {
				return err
			}
			rec := clouddb.Record{
				Source:  g.Name(),
				Prefix:  prefix,
				Service: key,
			}
			if err := emit(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
