// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"

	clouddb "github.com/seligman/cloud-sizes"
)

type awsPrefix struct {
	IPPrefix           string `json:"ip_prefix"`
	IPv6Prefix         string `json:"ipv6_prefix"`
	Region             string `json:"region"`
	NetworkBorderGroup string `json:"network_border_group"`
	Service            string `json:"service"`
}

type awsSnapshot struct {
	Prefixes     []awsPrefix `json:"prefixes"`
	IPv6Prefixes []awsPrefix `json:"ipv6_prefixes"`
}

// AWS parses AWS's published ip-ranges.json, grounded on cloud_db.py's
// add_aws: one Record per prefix entry, region preferring
// network_border_group when present, matching cur.get("network_border_group",
// cur["region"]).
type AWS struct {
	Path string
}

func (a *AWS) Name() string   { return "aws" }
func (a *AWS) Pretty() string { return "AWS" }

func (a *AWS) Fetch(ctx context.Context, emit func(clouddb.Record) error) error {
	var snap awsSnapshot
	if err := readGzipJSON(a.Path, &snap); err != nil {
		return err
	}

	for _, cur := range append(snap.Prefixes, snap.IPv6Prefixes...) {
		if err := checkCtx(ctx); err != nil {
			return err
		}

		prefix := cur.IPPrefix
		if prefix == "" {
			prefix = cur.IPv6Prefix
		}
		region := cur.NetworkBorderGroup
		if region == "" {
			region = cur.Region
		}

		rec := clouddb.Record{
			Source:  a.Name(),
			Prefix:  prefix,
			Service: cur.Service,
			Region:  region,
		}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}
