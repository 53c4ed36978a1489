// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import "context"

// Record is one ingestion tuple: a CIDR prefix claimed by a provider,
// together with the service and region it was published under. service and
// region may be empty; source must not be.
type Record struct {
	Source  string
	Prefix  string
	Service string
	Region  string
}

// Annotation is the ordered 4-tuple stored at a trie leaf. Equality is
// structural, which is what lets the serializer deduplicate identical leaf
// payloads.
type Annotation struct {
	Source  string
	Service string
	Region  string
	Prefix  string
}

// Adapter is the ingestion interface consumed from external publisher
// adapters. An Adapter owns fetching and parsing one
// publisher's format; the compiler only ever sees the Record stream it
// emits. Fetch should call emit once per ingested prefix and return
// promptly once the source is exhausted; a non-nil error from emit must
// abort the fetch.
type Adapter interface {
	// Name is the short source identifier recorded on every Record this
	// adapter emits (e.g. "aws").
	Name() string

	// Pretty is the human-readable provider name registered in the info
	// page's sources map.
	Pretty() string

	// Fetch streams this adapter's records to emit.
	Fetch(ctx context.Context, emit func(Record) error) error
}
