// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"fmt"
	"io"
	"net/http"
	"sync"
)

// DefaultWindowSize is the default byte-range window cached by a
// RangedReader. Window size is not part of the container format;
// callers may choose a different size per RangedReader instance.
const DefaultWindowSize = 512 * 1024

// RangedReader is a Source backed by HTTP Range requests against a single
// URL, caching fixed-size windows keyed by window index, shaped after
// flow-dps's bucket/gcp.Reader: a thin wrapper that tracks just enough
// state (here, a window cache instead of a segment index) to turn a byte
// range request into a plain []byte.
type RangedReader struct {
	url        string
	client     *http.Client
	windowSize int64

	mu      sync.Mutex
	windows map[int64][]byte
}

// NewRangedReader returns a RangedReader fetching byte ranges from url
// with client, caching DefaultWindowSize windows. Pass a nil client to use
// http.DefaultClient.
func NewRangedReader(url string, client *http.Client) *RangedReader {
	if client == nil {
		client = http.DefaultClient
	}
	return &RangedReader{
		url:        url,
		client:     client,
		windowSize: DefaultWindowSize,
		windows:    make(map[int64][]byte),
	}
}

// WithWindowSize overrides the default window size. It must be called
// before the first ReadAt.
func (r *RangedReader) WithWindowSize(size int64) *RangedReader {
	r.windowSize = size
	return r
}

// ReadAt implements Source. A request spanning a window boundary is
// served by fetching each window it touches and concatenating the
// relevant slices; the lookup engine never asks for more than a few bytes
// at a time, so this almost always resolves to a single cached window.
func (r *RangedReader) ReadAt(p []byte, off int64) (int, error) {
	need := int64(len(p))
	written := int64(0)

	for written < need {
		abs := off + written
		winIdx := abs / r.windowSize
		winStart := winIdx * r.windowSize

		win, err := r.window(winIdx)
		if err != nil {
			return int(written), err
		}

		within := abs - winStart
		if within >= int64(len(win)) {
			return int(written), fmt.Errorf("clouddb: range read past end of %s", r.url)
		}

		n := copy(p[written:], win[within:])
		written += int64(n)
	}

	return int(written), nil
}

// window returns the cached bytes for window idx, fetching it over HTTP
// on a cache miss.
func (r *RangedReader) window(idx int64) ([]byte, error) {
	r.mu.Lock()
	if win, ok := r.windows[idx]; ok {
		r.mu.Unlock()
		return win, nil
	}
	r.mu.Unlock()

	start := idx * r.windowSize
	end := start + r.windowSize - 1

	req, err := http.NewRequest(http.MethodGet, r.url, nil)
	if err != nil {
		return nil, fmt.Errorf("clouddb: building range request: %w", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, end))

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("clouddb: range request to %s: %w", r.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clouddb: range request to %s: status %s", r.url, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("clouddb: reading range response: %w", err)
	}

	r.mu.Lock()
	r.windows[idx] = body
	r.mu.Unlock()

	return body, nil
}
