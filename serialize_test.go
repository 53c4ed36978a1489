// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func buildSample(t *testing.T) *bytes.Buffer {
	t.Helper()
	b := NewBuilder()
	b.RegisterSource("aws", "AWS")
	b.RegisterSource("google", "Google")

	require.NoError(t, b.Insert("aws", "34.80.0.0/15", "EC2", "ap-northeast-1"))
	require.NoError(t, b.Insert("google", "34.80.0.0/16", "compute", "asia-east1"))
	require.NoError(t, b.Insert("aws", "2600:1f18::/32", "EC2", "us-east-2"))

	var buf bytes.Buffer
	err := Serialize(&buf, b, SerializeOptions{Built: "2026-01-01 00:00:00", IncludeStats: true})
	require.NoError(t, err)
	return &buf
}

func TestSerializeThenLookupRoundTrip(t *testing.T) {
	buf := buildSample(t)
	src := bytes.NewReader(buf.Bytes())

	result, err := Lookup(src, "34.80.0.0")
	require.NoError(t, err)
	entries := result.([]Entry)
	require.Len(t, entries, 2)
	require.Equal(t, "AWS", entries[0].Source)
	require.Equal(t, "EC2", entries[0].Service)
	require.Equal(t, "Google", entries[1].Source)
	require.Equal(t, "compute", entries[1].Service)
}

func TestLookupReturnsOnlyCoveringPrefix(t *testing.T) {
	buf := buildSample(t)
	src := bytes.NewReader(buf.Bytes())

	result, err := Lookup(src, "34.81.0.0")
	require.NoError(t, err)
	entries := result.([]Entry)
	require.Len(t, entries, 1)
	require.Equal(t, "AWS", entries[0].Source)
}

func TestLookupUnmatchedAddressReturnsEmpty(t *testing.T) {
	buf := buildSample(t)
	src := bytes.NewReader(buf.Bytes())

	result, err := Lookup(src, "8.8.8.8")
	require.NoError(t, err)
	entries := result.([]Entry)
	require.Empty(t, entries)
}

func TestLookupIPv6(t *testing.T) {
	buf := buildSample(t)
	src := bytes.NewReader(buf.Bytes())

	result, err := Lookup(src, "2600:1f18::1")
	require.NoError(t, err)
	entries := result.([]Entry)
	require.Len(t, entries, 1)
	require.Equal(t, "AWS", entries[0].Source)
	require.Equal(t, "us-east-2", entries[0].Region)
}

func TestLookupInfo(t *testing.T) {
	buf := buildSample(t)
	src := bytes.NewReader(buf.Bytes())

	result, err := Lookup(src, "info")
	require.NoError(t, err)
	info := result.(*Info)
	require.Equal(t, "2026-01-01 00:00:00", info.Built)
	require.Equal(t, map[string]string{"aws": "AWS", "google": "Google"}, info.Sources)
	require.NotNil(t, info.Stats)
	require.Equal(t, 3, info.Stats.Ranges)
	require.Greater(t, info.Stats.Size, 0)
}

func TestLookupInvalidAddress(t *testing.T) {
	buf := buildSample(t)
	src := bytes.NewReader(buf.Bytes())

	_, err := Lookup(src, "not-an-address")
	require.ErrorIs(t, err, ErrInvalidAddress)
}

func TestSerializeIsIdempotent(t *testing.T) {
	b := NewBuilder()
	b.RegisterSource("aws", "AWS")
	require.NoError(t, b.Insert("aws", "10.0.0.0/8", "EC2", "us-east-1"))

	opts := SerializeOptions{Built: "2026-01-01 00:00:00", IncludeStats: false}

	var first, second bytes.Buffer
	require.NoError(t, Serialize(&first, b, opts))
	require.NoError(t, Serialize(&second, b, opts))

	require.Equal(t, first.Bytes(), second.Bytes())
}

func TestSerializeDeduplicatesIdenticalLeafPayloads(t *testing.T) {
	b := NewBuilder()
	b.RegisterSource("private", "Private")
	// Every empty leaf split off along the two insertion paths encodes to
	// the same empty list and shares one payload on disk. The two annotated
	// leaves differ in their prefix field, so they stay distinct.
	require.NoError(t, b.Insert("private", "10.0.0.0/8", "RFC 1918", ""))
	require.NoError(t, b.Insert("private", "172.16.0.0/12", "RFC 1918", ""))

	var buf bytes.Buffer
	require.NoError(t, Serialize(&buf, b, SerializeOptions{Built: "2026-01-01 00:00:00", IncludeStats: true}))

	src := bytes.NewReader(buf.Bytes())
	result, err := Lookup(src, "info")
	require.NoError(t, err)
	info := result.(*Info)
	// Distinct payloads: the shared empty list, the 10.0.0.0/8 leaf and
	// the 172.16.0.0/12 leaf.
	require.Equal(t, 3, info.Stats.Leafs)
}

func TestSerializeSourcesDictTooLarge(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 63; i++ {
		short := fmt.Sprintf("src%d", i)
		b.RegisterSource(short, short)
		require.NoError(t, b.Insert(short, fmt.Sprintf("10.0.0.%d/32", i), "", ""))
	}

	var buf bytes.Buffer
	err := Serialize(&buf, b, SerializeOptions{Built: "2026-01-01 00:00:00"})
	require.ErrorIs(t, err, ErrDictTooLarge)
}
