// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/seligman/cloud-sizes/internal/tagged"
)

// cookie is the 21-byte magic at the start of every container. Consumers
// seek past it (to byte 21) before reading the header fields that follow;
// see the design notes on the legacy 21-vs-22-byte cookie confusion.
var cookie = []byte("Cloud IPs Database\n\x00\x00")

const (
	headerSize      = 128
	containerVersion = 2
	branchPageWidth = 8 // reserved width per branch page, regardless of field_size
)

// SerializeOptions configures a Serialize call.
type SerializeOptions struct {
	// Built is the build timestamp written into the info page, in
	// "YYYY-MM-DD HH:MM:SS" UTC form. Callers supply it (rather than
	// Serialize calling time.Now itself) so builds are reproducible in
	// tests and so callers can choose their own clock source.
	Built string

	// IncludeStats controls whether the info page carries a "stats" dict
	// alongside the mandatory "sources" and "built" keys.
	IncludeStats bool
}

// annotationToList converts an Annotation to its wire-format
// [source, service, region, prefix] list.
func annotationToList(a Annotation) tagged.List {
	return tagged.List{a.Source, a.Service, a.Region, a.Prefix}
}

// Serialize writes b's trie to w in the binary container format: a
// 128-byte header, a sequence of 8-byte-reserved branch pages, and
// deduplicated leaf payload blobs, followed by the info page.
func Serialize(w io.Writer, b *Builder, opts SerializeOptions) error {
	branchOffset := make(map[*node]int)
	leafKey := make(map[*node]string)

	seen := make(map[string]int) // encoded bytes -> index in order
	var order []string

	offset := headerSize
	branches := 0
	leafCount := 0

	assignLeaf := func(n *node) error {
		buf, err := tagged.Encode(nil, annotationsToList(n.annotations))
		if err != nil {
			return translateTaggedEncodeErr(err)
		}
		key := string(buf)
		leafKey[n] = key
		if _, ok := seen[key]; !ok {
			seen[key] = len(order)
			order = append(order, key)
			leafCount++
		}
		return nil
	}

	var walkErr error
	b.root.walk(func(n *node) {
		if walkErr != nil {
			return
		}
		if n.branch {
			branchOffset[n] = offset
			offset += branchPageWidth
			branches++
			return
		}
		if err := assignLeaf(n); err != nil {
			walkErr = err
		}
	})
	if walkErr != nil {
		return fmt.Errorf("clouddb: encoding leaf payload: %w", walkErr)
	}

	b.stats.Branches = branches
	b.stats.Leafs = leafCount

	// Size mirrors cloud_db.py's stats["size"] = offset + sum(len(x) for x
	// in valid_pages): the header, branch pages and leaf payloads, computed
	// before the info page is encoded so the info page's own bytes (whose
	// length depends on this very counter once IncludeStats is set) can't
	// feed back into it.
	leafSize := offset
	for _, key := range order {
		leafSize += len(key)
	}
	b.stats.Size = leafSize
	stats := b.stats

	info := tagged.NewDict()
	sourcesDict := tagged.NewDict()
	for short, pretty := range b.sources {
		sourcesDict.Set(short, pretty)
	}
	info.Set("sources", sourcesDict)
	info.Set("built", opts.Built)
	if opts.IncludeStats {
		statsDict := tagged.NewDict().
			Set("ranges", fmt.Sprint(stats.Ranges)).
			Set("sources", fmt.Sprint(stats.Sources)).
			Set("branches", fmt.Sprint(stats.Branches)).
			Set("leafs", fmt.Sprint(stats.Leafs)).
			Set("size", fmt.Sprint(stats.Size))
		info.Set("stats", statsDict)
	}

	infoBytes, err := tagged.Encode(nil, info)
	if err != nil {
		return fmt.Errorf("clouddb: encoding info page: %w", translateTaggedEncodeErr(err))
	}
	infoKey := string(infoBytes)
	if _, ok := seen[infoKey]; !ok {
		seen[infoKey] = len(order)
		order = append(order, infoKey)
	}

	// Assign absolute offsets to every deduplicated payload, in the fixed
	// order they were first seen.
	payloadOffset := make([]int, len(order))
	pos := offset
	for i, key := range order {
		payloadOffset[i] = pos
		pos += len(key)
	}
	totalSize := pos

	// field_size is capped at 4: the branch page reservation is a fixed 8
	// bytes regardless of field_size (see branchPageWidth), so two
	// field_size-wide pointers must fit in those 8 bytes.
	const maxFieldSize = branchPageWidth / 2

	fieldSize := 0
	for fs := 1; fs <= maxFieldSize; fs++ {
		if fs == 8 || uint64(2*totalSize) < uint64(1)<<(8*fs) {
			fieldSize = fs
			break
		}
	}
	if fieldSize == 0 {
		return fmt.Errorf("%w: field width up to %d cannot address offset %d", ErrOffsetOverflow, maxFieldSize, totalSize)
	}

	infoOffset := payloadOffset[seen[infoKey]]

	cw := &countingWriter{w: w}

	header := make([]byte, 0, headerSize)
	header = append(header, cookie...)
	var rest [12]byte
	binary.BigEndian.PutUint16(rest[0:2], containerVersion)
	binary.BigEndian.PutUint16(rest[2:4], uint16(fieldSize))
	binary.BigEndian.PutUint64(rest[4:12], uint64(infoOffset))
	header = append(header, rest[:]...)
	header = append(header, make([]byte, headerSize-len(header))...)
	if _, err := cw.Write(header); err != nil {
		return fmt.Errorf("clouddb: writing header: %w", err)
	}

	var writeErr error
	b.root.walk(func(n *node) {
		if writeErr != nil {
			return
		}
		if !n.branch {
			return
		}
		if cw.offset != int64(branchOffset[n]) {
			writeErr = fmt.Errorf("%w: branch at %d, expected %d", ErrLayoutCorruption, cw.offset, branchOffset[n])
			return
		}
		page := make([]byte, branchPageWidth)
		for i, child := range []*node{n.zero, n.one} {
			var pointer uint64
			if child.branch {
				pointer = uint64(branchOffset[child]) * 2
			} else {
				idx := seen[leafKey[child]]
				pointer = uint64(payloadOffset[idx])*2 + 1
			}
			var buf [8]byte
			binary.BigEndian.PutUint64(buf[:], pointer)
			copy(page[i*fieldSize:(i+1)*fieldSize], buf[8-fieldSize:])
		}
		if _, err := cw.Write(page); err != nil {
			writeErr = err
		}
	})
	if writeErr != nil {
		return fmt.Errorf("clouddb: writing branch pages: %w", writeErr)
	}

	for i, key := range order {
		if cw.offset != int64(payloadOffset[i]) {
			return fmt.Errorf("%w: payload at %d, expected %d", ErrLayoutCorruption, cw.offset, payloadOffset[i])
		}
		if _, err := cw.Write([]byte(key)); err != nil {
			return fmt.Errorf("clouddb: writing payload: %w", err)
		}
	}

	return nil
}

// translateTaggedEncodeErr maps the internal tagged-value encode errors to
// their public sentinels, the encode-side counterpart of lookup.go's
// translateTaggedErr. Encode wraps its sentinels with %w, so this unwraps
// via errors.Is rather than the decode side's direct equality check.
func translateTaggedEncodeErr(err error) error {
	switch {
	case errors.Is(err, tagged.ErrDictTooLarge):
		return fmt.Errorf("%w: %v", ErrDictTooLarge, err)
	case errors.Is(err, tagged.ErrListTooLarge):
		return fmt.Errorf("%w: %v", ErrListTooLarge, err)
	default:
		return err
	}
}

// annotationsToList converts a leaf's full annotation slice to a wire-format
// list of [source, service, region, prefix] lists.
func annotationsToList(anns []Annotation) tagged.List {
	out := make(tagged.List, 0, len(anns))
	for _, a := range anns {
		out = append(out, annotationToList(a))
	}
	return out
}

// countingWriter tracks the absolute number of bytes written so Serialize
// can verify its precomputed page offsets against the real stream
// position as it writes, raising ErrLayoutCorruption on mismatch.
type countingWriter struct {
	w      io.Writer
	offset int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.offset += int64(n)
	return n, err
}
