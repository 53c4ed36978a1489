// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"fmt"
	"net/netip"
)

// Stats counts the counters tracked during a build, mirrored into the
// info page's optional "stats" dict.
type Stats struct {
	Ranges   int
	Sources  int
	Branches int
	Leafs    int
	Size     int
}

// Builder incrementally grows an in-memory, path-compressed binary trie
// from a stream of ingestion records. A Builder is used once and is not
// safe for concurrent use.
type Builder struct {
	root *node

	sources map[string]string
	stats   Stats
}

// NewBuilder returns an empty Builder. The root is always a branch: its
// zero subtree holds IPv4 prefixes, its one subtree holds IPv6 prefixes,
// exactly as if every address were prefixed with a single discriminator
// bit before insertion.
func NewBuilder() *Builder {
	return &Builder{
		root:    &node{branch: true, zero: newLeaf(), one: newLeaf()},
		sources: make(map[string]string),
	}
}

// RegisterSource records the human-readable name for a short source
// identifier. It is safe to call multiple times for the same source; the
// last call wins, matching the plain-dict-assignment semantics of the
// Python builder's sources dict.
func (b *Builder) RegisterSource(short, pretty string) {
	if _, ok := b.sources[short]; !ok {
		b.stats.Sources++
	}
	b.sources[short] = pretty
}

// Insert adds one ingestion record to the trie. It parses prefix as an
// IPv4 or IPv6 CIDR, walks the trie one address bit at a time, splitting
// leaves on demand, and appends the annotation to every leaf that lies
// entirely within prefix.
func (b *Builder) Insert(source, prefix, service, region string) error {
	if source == "" {
		return fmt.Errorf("clouddb: empty source for prefix %q", prefix)
	}

	p, err := netip.ParsePrefix(prefix)
	if err != nil {
		return fmt.Errorf("clouddb: invalid prefix %q: %w", prefix, err)
	}

	addr := p.Addr()
	bits := p.Bits()

	var subtreeRoot *node
	var raw [16]byte
	if addr.Is4() {
		subtreeRoot = b.root.zero
		a4 := addr.As4()
		copy(raw[:4], a4[:])
	} else {
		subtreeRoot = b.root.one
		raw = addr.As16()
	}

	bitAt := func(i int) int {
		byteIdx := i / 8
		bitIdx := 7 - (i % 8)
		return int((raw[byteIdx] >> bitIdx) & 1)
	}

	target := subtreeRoot.descend(bitAt, bits)

	ann := Annotation{Source: source, Service: service, Region: region, Prefix: prefix}
	target.annotateSubtree(ann)

	b.stats.Ranges++
	return nil
}

// InsertRecord is a convenience wrapper over Insert for a Record value.
func (b *Builder) InsertRecord(r Record) error {
	return b.Insert(r.Source, r.Prefix, r.Service, r.Region)
}

// Stats returns a snapshot of the build counters accumulated so far.
// Branches, Leafs, and Size are only meaningful after Serialize has run a
// full pass over the trie; until then they read zero.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Sources returns a copy of the short-name to pretty-name map registered
// so far.
func (b *Builder) Sources() map[string]string {
	out := make(map[string]string, len(b.sources))
	for k, v := range b.sources {
		out[k] = v
	}
	return out
}
