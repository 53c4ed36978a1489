// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"

	clouddb "github.com/seligman/cloud-sizes"
)

type azureProperties struct {
	SystemService   string   `json:"systemService"`
	Region          string   `json:"region"`
	AddressPrefixes []string `json:"addressPrefixes"`
}

type azureValue struct {
	Properties azureProperties `json:"properties"`
}

type azureSnapshot struct {
	Values []azureValue `json:"values"`
}

// Azure parses Azure's published service tags JSON, grounded on
// cloud_db.py's add_azure: one Record per address prefix within a group,
// Service/Region taken from that group's properties (both optional,
// defaulting to "").
type Azure struct {
	Path string
}

func (a *Azure) Name() string   { return "azure" }
func (a *Azure) Pretty() string { return "Azure" }

func (a *Azure) Fetch(ctx context.Context, emit func(clouddb.Record) error) error {
	var snap azureSnapshot
	if err := readGzipJSON(a.Path, &snap); err != nil {
		return err
	}

	for _, group := range snap.Values {
		for _, prefix := range group.Properties.AddressPrefixes {
			if err := checkCtx(ctx); err != nil {
				return err
			}

			rec := clouddb.Record{
				Source:  a.Name(),
				Prefix:  prefix,
				Service: group.Properties.SystemService,
				Region:  group.Properties.Region,
			}
			if err := emit(rec); err != nil {
				return err
			}
		}
	}
	return nil
}
