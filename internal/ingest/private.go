// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

package ingest

import (
	"context"

	clouddb "github.com/seligman/cloud-sizes"
)

type privateRange struct {
	prefix string
	desc   string
}

// privateRanges is the hardcoded RFC reserved/private address table,
// grounded verbatim on cloud_db.py's add_private.
var privateRanges = []privateRange{
	{"0.0.0.0/8", "RFC 1700 broadcast addresses"},
	{"10.0.0.0/8", "RFC 1918 Private address space"},
	{"100.64.0.0/10", "IANA Carrier Grade NAT"},
	{"100.64.0.0/10", "RFC 6598 Carrier graded NAT"},
	{"127.0.0.0/8", "Loopback addresses"},
	{"169.254.0.0/16", "RFC 6890 Link Local address"},
	{"172.16.0.0/12", "RFC 1918 Private address space"},
	{"192.0.0.0/24", "RFC 5736 IANA IPv4 Special Purpose Address Registry"},
	{"192.0.2.0/24", "RFC 5737 TEST-NET for internal use"},
	{"192.168.0.0/16", "RFC 1918 Private address space"},
	{"192.88.99.0/24", "RFC 3068 6to4 anycast relays"},
	{"198.18.0.0/15", "RFC 2544 Testing of inter-network communications"},
	{"198.51.100.0/24", "RFC 5737 TEST-NET-2 for internal use"},
	{"203.0.113.0/24", "RFC 5737 TEST-NET-3 for internal use"},
	{"224.0.0.0/4", "RFC 5771 Multicast Addresses"},
	{"240.0.0.0/4", "RFC 6890 Reserved for future use"},
	{"::1/128", "Loopback addresses"},
	{"::/128", "Unspecified address"},
	{"::ffff:0:0/96", "RFC4291 IPv4-mapped address"},
	{"64:ff9b::/96", "RFC6052 IPv4-IPv6 translators"},
	{"64:ff9b:1::/48", "RFC8215 IPv4-IPv6 translators"},
	{"100::/64", "RFC6666 Discard-only address block"},
	{"2001::/23", "RFC2928 IETF Protocol assignments"},
	{"2001::/32", "RFC4380 TEREDO"},
	{"2001:1::1/128", "RFC7723 Port control protocol anycast"},
	{"2001:1::2/128", "RFC8155 Traversal using relays around NAT anycast"},
	{"2001:2::/48", "RFC5180 Benchmarking"},
	{"2001:3::/32", "RFC7450 AMT"},
	{"2001:4:112::/48", "RFC7535 AS112-v6"},
	{"2001:20::/28", "RFC7343 ORCHIDv2"},
	{"2001:30::/28", "RFC9374 Drone remote ID protocol entity tags (DETs) prefix"},
	{"2001:db8::/32", "RFC3849 Documentation"},
	{"2002::/16", "RFC3056 6to4"},
	{"2620:4f:8000::/48", "RFC7534 Direct delegation AS112 service"},
	{"fc00::/7", "RFC4193 Unique-local"},
	{"fe80::/10", "RFC4291 Link-local unicast"},
}

// Private emits the hardcoded RFC reserved/private address ranges. Unlike
// the other adapters it needs no snapshot file: the table is fixed at
// compile time.
type Private struct{}

func (Private) Name() string   { return "private" }
func (Private) Pretty() string { return "Private IP" }

func (Private) Fetch(ctx context.Context, emit func(clouddb.Record) error) error {
	for _, r := range privateRanges {
		if err := checkCtx(ctx); err != nil {
			return err
		}
		rec := clouddb.Record{Source: "private", Prefix: r.prefix, Service: r.desc}
		if err := emit(rec); err != nil {
			return err
		}
	}
	return nil
}
