// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var zeroTime time.Time

func TestRangedReaderServesByteRange(t *testing.T) {
	body := make([]byte, 4096)
	for i := range body {
		body[i] = byte(i)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.ServeContent(w, r, "data", zeroTime, bytes.NewReader(body))
	}))
	defer srv.Close()

	r := NewRangedReader(srv.URL, srv.Client()).WithWindowSize(1024)

	buf := make([]byte, 16)
	n, err := r.ReadAt(buf, 2000)
	require.NoError(t, err)
	require.Equal(t, 16, n)
	require.Equal(t, body[2000:2016], buf)
}

func TestRangedReaderCachesWindows(t *testing.T) {
	body := []byte("0123456789abcdef")
	var requests int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		http.ServeContent(w, r, "data", zeroTime, bytes.NewReader(body))
	}))
	defer srv.Close()

	r := NewRangedReader(srv.URL, srv.Client()).WithWindowSize(int64(len(body)))

	buf := make([]byte, 4)
	_, err := r.ReadAt(buf, 0)
	require.NoError(t, err)
	_, err = r.ReadAt(buf, 4)
	require.NoError(t, err)

	require.Equal(t, 1, requests)
}
