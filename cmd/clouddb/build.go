// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	clouddb "github.com/seligman/cloud-sizes"
	"github.com/seligman/cloud-sizes/internal/ingest"
)

func adapterFromConfig(a adapterConfig) (clouddb.Adapter, error) {
	switch a.Kind {
	case "aws":
		return &ingest.AWS{Path: a.Path}, nil
	case "google":
		return &ingest.Google{Path: a.Path}, nil
	case "azure":
		return &ingest.Azure{Path: a.Path}, nil
	case "github":
		return &ingest.GitHub{Path: a.Path}, nil
	case "private":
		return ingest.Private{}, nil
	case "generic":
		if a.Short == "" || a.Pretty == "" {
			return nil, fmt.Errorf("generic adapter requires short and pretty names")
		}
		return &ingest.Generic{Path: a.Path, ShortName: a.Short, DisplayName: a.Pretty}, nil
	default:
		return nil, fmt.Errorf("unknown adapter kind %q", a.Kind)
	}
}

// runBuild reads cfg, fetches every configured adapter's records into a
// fresh Builder, and serializes the result to outPath. A single failing
// adapter is recorded via go-multierror rather than aborting the other
// adapters' ingestion, mirroring flow-dps's pattern for aggregating
// independent subsystem failures while a bad record within one adapter
// still aborts that adapter's own Fetch immediately.
func runBuild(ctx context.Context, log zerolog.Logger, cfg *buildConfig, outPath string, includeStats bool) error {
	b := clouddb.NewBuilder()

	var errs *multierror.Error
	for _, ac := range cfg.Adapters {
		adapter, err := adapterFromConfig(ac)
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", ac.Kind, err))
			continue
		}

		b.RegisterSource(adapter.Name(), adapter.Pretty())
		log.Info().Str("adapter", adapter.Name()).Msg("fetching")

		count := 0
		err = adapter.Fetch(ctx, func(r clouddb.Record) error {
			count++
			return b.InsertRecord(r)
		})
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", adapter.Name(), err))
			continue
		}
		log.Info().Str("adapter", adapter.Name()).Int("records", count).Msg("fetched")
	}
	if errs.ErrorOrNil() != nil {
		return errs
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	opts := clouddb.SerializeOptions{
		Built:        time.Now().UTC().Format("2006-01-02 15:04:05"),
		IncludeStats: includeStats,
	}
	if err := clouddb.Serialize(f, b, opts); err != nil {
		return fmt.Errorf("serializing %s: %w", outPath, err)
	}

	stats := b.Stats()
	log.Info().
		Int("ranges", stats.Ranges).
		Int("sources", stats.Sources).
		Msg("build complete")
	return nil
}
