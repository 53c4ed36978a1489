// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package clouddb

import (
	"fmt"
	"net/netip"
	"strconv"

	"github.com/seligman/cloud-sizes/internal/tagged"
)

const infoKey = "info"

// headerFields holds the three values read from a container's header.
type headerFields struct {
	version    uint16
	fieldSize  uint16
	infoOffset uint64
}

func readHeader(src Source) (headerFields, error) {
	var buf [12]byte
	n, err := src.ReadAt(buf[:], 21)
	if err != nil || n != len(buf) {
		return headerFields{}, fmt.Errorf("%w: reading header", ErrTruncatedInput)
	}

	h := headerFields{
		version:    beUint16(buf[0:2]),
		fieldSize:  beUint16(buf[2:4]),
		infoOffset: beUint64(buf[4:12]),
	}
	if h.version != containerVersion {
		return headerFields{}, fmt.Errorf("%w: got %d, want %d", ErrUnsupportedVersion, h.version, containerVersion)
	}
	return h, nil
}

// Lookup answers either "info" (returning the container's *Info) or an
// IPv4/IPv6 address (returning the []Entry annotations covering it,
// possibly empty) against src. It performs one header read, one branch
// read per inspected address bit, and the reads needed to decode the leaf
// payload and the info page.
func Lookup(src Source, key string) (any, error) {
	h, err := readHeader(src)
	if err != nil {
		return nil, err
	}

	if key == infoKey {
		val, err := tagged.DecodeAt(src, int64(h.infoOffset))
		if err != nil {
			return nil, translateTaggedErr(err)
		}
		return dictToInfo(val)
	}

	keyBytes, err := encodeLookupKey(key)
	if err != nil {
		return nil, err
	}

	pointer := uint64(headerSize) * 2
	bitIndex := 6
	for pointer%2 == 0 {
		bitIndex++
		bit := (keyBytes[bitIndex/8] >> (7 - uint(bitIndex%8))) & 1

		readOffset := int64(pointer/2) + int64(bit)*int64(h.fieldSize)
		buf := make([]byte, h.fieldSize)
		n, err := src.ReadAt(buf, readOffset)
		if err != nil || n != len(buf) {
			return nil, fmt.Errorf("%w: reading branch pointer", ErrTruncatedInput)
		}
		pointer = beUintN(buf)
	}

	val, err := tagged.DecodeAt(src, int64(pointer/2))
	if err != nil {
		return nil, translateTaggedErr(err)
	}

	list, ok := val.(tagged.List)
	if !ok {
		return nil, fmt.Errorf("%w: leaf payload is not a list", ErrMalformedValue)
	}

	info, err := tagged.DecodeAt(src, int64(h.infoOffset))
	if err != nil {
		return nil, translateTaggedErr(err)
	}
	sources := dictSourcesMap(info)

	return listToEntries(list, sources), nil
}

// encodeLookupKey builds the fixed-width lookup key for an IPv4 or IPv6
// address: a one-byte discriminator (0x00 for v4, 0xff for v6) followed by
// the address in network byte order.
func encodeLookupKey(key string) ([]byte, error) {
	addr, err := netip.ParseAddr(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, key)
	}

	if addr.Is4() {
		a4 := addr.As4()
		out := make([]byte, 5)
		out[0] = 0x00
		copy(out[1:], a4[:])
		return out, nil
	}

	a16 := addr.As16()
	out := make([]byte, 17)
	out[0] = 0xff
	copy(out[1:], a16[:])
	return out, nil
}

func translateTaggedErr(err error) error {
	switch err {
	case tagged.ErrMalformedValue:
		return ErrMalformedValue
	case tagged.ErrTruncatedInput:
		return ErrTruncatedInput
	default:
		return err
	}
}

func dictToInfo(val any) (*Info, error) {
	d, ok := val.(*tagged.Dict)
	if !ok {
		return nil, fmt.Errorf("%w: info page is not a dict", ErrMalformedValue)
	}

	info := &Info{Sources: dictSourcesMap(val)}
	if built, ok := d.Get("built"); ok {
		if s, ok := built.(string); ok {
			info.Built = s
		}
	}
	if rawStats, ok := d.Get("stats"); ok {
		if sd, ok := rawStats.(*tagged.Dict); ok {
			stats := &Stats{}
			stats.Ranges = dictInt(sd, "ranges")
			stats.Sources = dictInt(sd, "sources")
			stats.Branches = dictInt(sd, "branches")
			stats.Leafs = dictInt(sd, "leafs")
			stats.Size = dictInt(sd, "size")
			info.Stats = stats
		}
	}
	return info, nil
}

func dictSourcesMap(val any) map[string]string {
	d, ok := val.(*tagged.Dict)
	if !ok {
		return nil
	}
	rawSources, ok := d.Get("sources")
	if !ok {
		return nil
	}
	sd, ok := rawSources.(*tagged.Dict)
	if !ok {
		return nil
	}
	out := make(map[string]string, sd.Len())
	for i, k := range sd.Keys {
		if ks, ok := k.(string); ok {
			if vs, ok := sd.Values[i].(string); ok {
				out[ks] = vs
			}
		}
	}
	return out
}

func dictInt(d *tagged.Dict, key string) int {
	v, ok := d.Get(key)
	if !ok {
		return 0
	}
	s, ok := v.(string)
	if !ok {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

func listToEntries(list tagged.List, sources map[string]string) []Entry {
	entries := make([]Entry, 0, len(list))
	for _, item := range list {
		tuple, ok := item.(tagged.List)
		if !ok || len(tuple) != 4 {
			continue
		}
		source, _ := tuple[0].(string)
		service, _ := tuple[1].(string)
		region, _ := tuple[2].(string)
		prefix, _ := tuple[3].(string)

		name := source
		if pretty, ok := sources[source]; ok {
			name = pretty
		}

		e := Entry{Source: name}
		if service != "" {
			e.Service = service
		}
		if region != "" {
			e.Region = region
		}
		if prefix != "" {
			e.Prefix = prefix
		}
		entries = append(entries, e)
	}
	return entries
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}

// beUintN decodes a big-endian unsigned integer from a slice narrower than
// 8 bytes, the shape every branch pointer field arrives in once fieldSize
// is chosen smaller than 8.
func beUintN(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
