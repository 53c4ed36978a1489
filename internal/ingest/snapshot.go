// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

// Package ingest implements the publisher adapters that feed Records into
// a clouddb.Builder: AWS, Google, Azure, GitHub, a generic flat-CIDR-list
// shape shared by several smaller providers, and a hardcoded private/RFC
// reserved-range table. Each adapter owns one provider's on-disk snapshot
// format; fetching that snapshot from the vendor in the first place stays
// an external collaborator, matching cloud_db.py's own split between the
// helpers/ fetchers and cloud_db.py's add_* parsers.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
)

// readGzipJSON decodes the gzip-compressed JSON document at path into v.
func readGzipJSON(path string, v any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("ingest: opening %s: %w", path, err)
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fmt.Errorf("ingest: gzip header for %s: %w", path, err)
	}
	defer gz.Close()

	body, err := io.ReadAll(gz)
	if err != nil {
		return fmt.Errorf("ingest: reading %s: %w", path, err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("ingest: decoding %s: %w", path, err)
	}
	return nil
}

// checkCtx returns ctx.Err() if ctx has already been canceled, the shape
// every adapter's emit loop checks between records so a canceled build
// stops promptly instead of finishing a multi-thousand-entry snapshot.
func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
