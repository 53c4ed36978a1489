// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderInsertRejectsEmptySource(t *testing.T) {
	b := NewBuilder()
	err := b.Insert("", "10.0.0.0/8", "", "")
	require.Error(t, err)
}

func TestBuilderInsertRejectsInvalidPrefix(t *testing.T) {
	b := NewBuilder()
	err := b.Insert("aws", "not-a-prefix", "", "")
	require.Error(t, err)
}

func TestBuilderRegisterSourceCountsDistinctShortNames(t *testing.T) {
	b := NewBuilder()
	b.RegisterSource("aws", "AWS")
	b.RegisterSource("aws", "Amazon Web Services") // last call wins, still one source
	b.RegisterSource("google", "Google")

	require.Equal(t, 2, b.Stats().Sources)
	require.Equal(t, map[string]string{"aws": "Amazon Web Services", "google": "Google"}, b.Sources())
}

func TestBuilderInsertSeparatesV4AndV6(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("aws", "10.0.0.0/8", "EC2", "us-east-1"))
	require.NoError(t, b.Insert("aws", "2001:db8::/32", "EC2", "us-east-1"))

	require.False(t, b.root.zero.branch == false && len(b.root.zero.annotations) == 0)
	require.True(t, b.root.branch)
}

func TestBuilderInsertOverlappingPrefixesPreservesOrder(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Insert("aws", "34.80.0.0/15", "EC2", "ap-northeast-1"))
	require.NoError(t, b.Insert("google", "34.80.0.0/16", "compute", "asia-east1"))

	bitAt := func(raw [4]byte) func(int) int {
		return func(i int) int {
			byteIdx := i / 8
			bitIdx := 7 - (i % 8)
			return int((raw[byteIdx] >> bitIdx) & 1)
		}
	}

	addr34_80 := [4]byte{34, 80, 0, 0}
	leaf := b.root.zero.descend(bitAt(addr34_80), 32)
	require.Len(t, leaf.annotations, 2)
	require.Equal(t, "aws", leaf.annotations[0].Source)
	require.Equal(t, "google", leaf.annotations[1].Source)

	addr34_81 := [4]byte{34, 81, 0, 0}
	leaf2 := b.root.zero.descend(bitAt(addr34_81), 32)
	require.Len(t, leaf2.annotations, 1)
	require.Equal(t, "aws", leaf2.annotations[0].Source)
}
