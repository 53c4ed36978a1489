// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

// Package clouddb compiles cloud-provider IP range publications into a
// path-compressed binary prefix trie, serializes it to a compact
// self-describing container format, and looks addresses up against that
// container without loading it fully into memory.
package clouddb
