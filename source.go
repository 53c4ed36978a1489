// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"fmt"
	"os"
)

// Source is the file accessor abstraction the lookup engine reads through:
// any seekable byte source, local or remote. It intentionally
// mirrors io.ReaderAt rather than io.ReadSeeker, since every read the
// lookup engine performs already carries its own absolute offset and
// concurrent lookups sharing one Source must not race on a shared cursor.
type Source interface {
	// ReadAt reads len(p) bytes starting at absolute offset off. Short
	// reads are treated as ErrTruncatedInput by the caller.
	ReadAt(p []byte, off int64) (int, error)
}

// localSource opens a path lazily on first read and is responsible for
// closing it again once the caller is done, matching the Python reference
// implementation's FileHelper: a string path is opened and closed around
// the call, while a caller-supplied reader is used as-is and never closed.
type localSource struct {
	path string
	f    *os.File
}

// OpenFile returns a Source backed by the file at path. The file is opened
// lazily on first use and must be closed by the caller via Close once
// lookups are done.
func OpenFile(path string) Source {
	return &localSource{path: path}
}

func (l *localSource) ReadAt(p []byte, off int64) (int, error) {
	if l.f == nil {
		f, err := os.Open(l.path)
		if err != nil {
			return 0, fmt.Errorf("clouddb: opening %s: %w", l.path, err)
		}
		l.f = f
	}
	return l.f.ReadAt(p, off)
}

// Close closes the underlying file, if it was ever opened. Close is a
// no-op for Source implementations that don't own a closeable resource
// (an externally supplied io.ReaderAt, or a RangedReader).
func Close(s Source) error {
	if l, ok := s.(*localSource); ok && l.f != nil {
		return l.f.Close()
	}
	return nil
}
