// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package tagged

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceReader []byte

func (s sliceReader) ReadAt(p []byte, off int64) (int, error) {
	if off < 0 || int(off) > len(s) {
		return 0, ErrTruncatedInput
	}
	n := copy(p, s[off:])
	if n < len(p) {
		return n, ErrTruncatedInput
	}
	return n, nil
}

func TestEncodeDecodeString(t *testing.T) {
	buf, err := Encode(nil, "aws")
	require.NoError(t, err)

	val, n, err := Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, "aws", val)
	assert.Equal(t, len(buf), n)
}

func TestEncodeDecodeLongString(t *testing.T) {
	long := strings.Repeat("x", 1000)
	buf, err := Encode(nil, long)
	require.NoError(t, err)

	val, n, err := Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, long, val)
	assert.Equal(t, len(buf), n)
}

func TestEncodeDecodeList(t *testing.T) {
	list := List{"aws", "EC2", "ap-northeast-1", "34.80.0.0/15"}
	buf, err := Encode(nil, list)
	require.NoError(t, err)

	val, _, err := Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, List(list), val)
}

func TestEncodeDecodeDict(t *testing.T) {
	d := NewDict().Set("aws", "AWS").Set("google", "Google")
	buf, err := Encode(nil, d)
	require.NoError(t, err)

	val, _, err := Decode(buf, 0)
	require.NoError(t, err)
	got, ok := val.(*Dict)
	require.True(t, ok)
	assert.Equal(t, 2, got.Len())
	v, ok := got.Get("aws")
	require.True(t, ok)
	assert.Equal(t, "AWS", v)
}

func TestEncodeDictTooLarge(t *testing.T) {
	d := NewDict()
	for i := 0; i < 63; i++ {
		d.Set(string(rune('a'+i%26)), i)
	}
	_, err := Encode(nil, d)
	require.ErrorIs(t, err, ErrDictTooLarge)
}

func TestEncodeListTooLarge(t *testing.T) {
	l := make(List, 63)
	_, err := Encode(nil, l)
	require.ErrorIs(t, err, ErrListTooLarge)
}

func TestDecodeMalformedTag(t *testing.T) {
	_, _, err := Decode([]byte{0x00}, 0)
	require.ErrorIs(t, err, ErrMalformedValue)
}

func TestDecodeTruncated(t *testing.T) {
	buf, err := Encode(nil, "hello")
	require.NoError(t, err)

	_, _, err = Decode(buf[:len(buf)-1], 0)
	require.ErrorIs(t, err, ErrTruncatedInput)
}

func TestDecodeAtMirrorsDecode(t *testing.T) {
	d := NewDict().
		Set("sources", NewDict().Set("aws", "AWS")).
		Set("built", "2024-01-01 00:00:00")
	buf, err := Encode(nil, d)
	require.NoError(t, err)

	want, _, err := Decode(buf, 0)
	require.NoError(t, err)

	got, err := DecodeAt(sliceReader(buf), 0)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestNestedRoundTrip(t *testing.T) {
	value := List{
		List{"aws", "EC2", "ap-northeast-1", "34.80.0.0/15"},
		List{"google", "compute", "asia-east1", "34.80.0.0/16"},
	}
	buf, err := Encode(nil, value)
	require.NoError(t, err)

	orig := append([]byte(nil), buf...)
	got, n, err := Decode(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, n, len(buf))
	assert.True(t, bytes.Equal(orig, buf)) // sanity: buf not mutated by Decode
	assert.Equal(t, value, got)
}
