// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

// Package tagged implements the self-describing value encoding used for
// leaf payloads and the info page: a dict (ordered key/value pairs), a list
// (ordered values), or a string, each introduced by a single tag-and-length
// byte. See the container format's §4.1 for the wire layout.
package tagged

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Sentinel errors mirrored by the public clouddb package. Kept unexported
// from the host module's perspective (tagged is an internal package) but
// still comparable with errors.Is across the package boundary.
var (
	ErrMalformedValue = errors.New("tagged: malformed value")
	ErrTruncatedInput = errors.New("tagged: truncated input")
	ErrDictTooLarge   = errors.New("tagged: dict exceeds 62 entries")
	ErrListTooLarge   = errors.New("tagged: list exceeds 62 entries")
)

const (
	tagDict   = 1
	tagList   = 2
	tagString = 3

	maxShortLen = 62
	extendedLen = 63
)

// Dict is an ordered sequence of key/value pairs. Plain map[string]any
// would lose key order and only ever hold string keys; the wire format
// allows any value as a key and preserves insertion order, so this is a
// slice of pairs rather than a map.
type Dict struct {
	Keys   []any
	Values []any
}

// NewDict returns an empty Dict; pairs are added in order with Set.
func NewDict() *Dict {
	return &Dict{}
}

// Set appends a key/value pair. It does not check for duplicate keys;
// callers that need map semantics must deduplicate themselves.
func (d *Dict) Set(key, value any) *Dict {
	d.Keys = append(d.Keys, key)
	d.Values = append(d.Values, value)
	return d
}

// Get returns the value for the first matching string key.
func (d *Dict) Get(key string) (any, bool) {
	for i, k := range d.Keys {
		if s, ok := k.(string); ok && s == key {
			return d.Values[i], true
		}
	}
	return nil, false
}

// Len returns the number of key/value pairs.
func (d *Dict) Len() int {
	return len(d.Keys)
}

// List is an ordered sequence of values.
type List []any

// Encode appends the wire encoding of value to dst and returns the result.
// value must be one of *Dict, List, string, or a type whose fmt.Sprint
// representation is the intended string (used for convenience when callers
// hold e.g. an int stat counter).
func Encode(dst []byte, value any) ([]byte, error) {
	switch v := value.(type) {
	case *Dict:
		if v.Len() > maxShortLen {
			return nil, fmt.Errorf("%w: got %d", ErrDictTooLarge, v.Len())
		}
		dst = append(dst, byte(v.Len()<<2)|tagDict)
		var err error
		for i := range v.Keys {
			dst, err = Encode(dst, v.Keys[i])
			if err != nil {
				return nil, err
			}
			dst, err = Encode(dst, v.Values[i])
			if err != nil {
				return nil, err
			}
		}
		return dst, nil

	case List:
		if len(v) > maxShortLen {
			return nil, fmt.Errorf("%w: got %d", ErrListTooLarge, len(v))
		}
		dst = append(dst, byte(len(v)<<2)|tagList)
		var err error
		for _, item := range v {
			dst, err = Encode(dst, item)
			if err != nil {
				return nil, err
			}
		}
		return dst, nil

	case string:
		return encodeString(dst, v), nil

	default:
		return encodeString(dst, fmt.Sprint(v)), nil
	}
}

func encodeString(dst []byte, s string) []byte {
	b := []byte(s)
	if len(b) < extendedLen {
		dst = append(dst, byte(len(b)<<2)|tagString)
		return append(dst, b...)
	}

	var lenBuf [2]byte
	binary.BigEndian.PutUint16(lenBuf[:], uint16(len(b)))
	dst = append(dst, byte(extendedLen<<2)|tagString)
	dst = append(dst, lenBuf[:]...)
	return append(dst, b...)
}

// Decode reads one value starting at offset in src and returns the value
// plus the offset immediately after it.
func Decode(src []byte, offset int) (any, int, error) {
	if offset >= len(src) {
		return nil, 0, ErrTruncatedInput
	}

	head := src[offset]
	offset++
	tag := head & 3
	length := int(head >> 2)

	switch tag {
	case tagDict:
		d := NewDict()
		for i := 0; i < length; i++ {
			var (
				key, val any
				err      error
			)
			key, offset, err = Decode(src, offset)
			if err != nil {
				return nil, 0, err
			}
			val, offset, err = Decode(src, offset)
			if err != nil {
				return nil, 0, err
			}
			d.Set(key, val)
		}
		return d, offset, nil

	case tagList:
		l := make(List, 0, length)
		for i := 0; i < length; i++ {
			var (
				val any
				err error
			)
			val, offset, err = Decode(src, offset)
			if err != nil {
				return nil, 0, err
			}
			l = append(l, val)
		}
		return l, offset, nil

	case tagString:
		if length == extendedLen {
			if offset+2 > len(src) {
				return nil, 0, ErrTruncatedInput
			}
			length = int(binary.BigEndian.Uint16(src[offset:]))
			offset += 2
		}
		if offset+length > len(src) {
			return nil, 0, ErrTruncatedInput
		}
		s := string(src[offset : offset+length])
		return s, offset + length, nil

	default:
		return nil, 0, ErrMalformedValue
	}
}

// ByteReader is the positional reader DecodeAt reads from, so the lookup
// engine can decode values from a seekable Source at absolute offsets
// without reading the whole file into memory.
type ByteReader interface {
	// ReadAt behaves like io.ReaderAt: it reads len(p) bytes starting at
	// off, returning io.EOF (or a wrapped form of it) on short reads.
	ReadAt(p []byte, off int64) (int, error)
}

// DecodeAt decodes one value from r at absolute byte offset off.
func DecodeAt(r ByteReader, off int64) (any, error) {
	val, _, err := decodeAtAdvance(r, off)
	return val, err
}

// decodeAtAdvance decodes a value at off and also returns the offset right
// after it, which recursive calls need to advance their own cursor.
func decodeAtAdvance(r ByteReader, off int64) (any, int64, error) {
	var head [1]byte
	if _, err := r.ReadAt(head[:], off); err != nil {
		return nil, 0, ErrTruncatedInput
	}
	pos := off + 1

	tag := head[0] & 3
	length := int(head[0] >> 2)

	switch tag {
	case tagDict:
		d := NewDict()
		for i := 0; i < length; i++ {
			key, next, err := decodeAtAdvance(r, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = next
			val, next2, err := decodeAtAdvance(r, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = next2
			d.Set(key, val)
		}
		return d, pos, nil

	case tagList:
		l := make(List, 0, length)
		for i := 0; i < length; i++ {
			val, next, err := decodeAtAdvance(r, pos)
			if err != nil {
				return nil, 0, err
			}
			pos = next
			l = append(l, val)
		}
		return l, pos, nil

	case tagString:
		if length == extendedLen {
			var lenBuf [2]byte
			if _, err := r.ReadAt(lenBuf[:], pos); err != nil {
				return nil, 0, ErrTruncatedInput
			}
			length = int(binary.BigEndian.Uint16(lenBuf[:]))
			pos += 2
		}
		buf := make([]byte, length)
		if length > 0 {
			if _, err := r.ReadAt(buf, pos); err != nil {
				return nil, 0, ErrTruncatedInput
			}
		}
		return string(buf), pos + int64(length), nil

	default:
		return nil, 0, ErrMalformedValue
	}
}
