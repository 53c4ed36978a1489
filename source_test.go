// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenFileReadsAndCloses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.bin")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o644))

	src := OpenFile(path)
	buf := make([]byte, 5)
	n, err := src.ReadAt(buf, 6)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, "world", string(buf))

	require.NoError(t, Close(src))
}

func TestCloseIsNoOpForUnopenedSource(t *testing.T) {
	src := OpenFile(filepath.Join(t.TempDir(), "never-read.bin"))
	require.NoError(t, Close(src))
}
