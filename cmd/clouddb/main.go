// Copyright (c) 2026 Paul Seligman
// SPDX-License-Identifier: MIT

// Command clouddb builds, serves, and queries cloud-sizes containers: the
// binary tries compiled from cloud-provider IP range publications.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	clouddb "github.com/seligman/cloud-sizes"
	"github.com/seligman/cloud-sizes/internal/metrics"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: clouddb <build|lookup|info|serve> [flags]")
	pflag.PrintDefaults()
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.InfoLevel)

	var err error
	switch cmd {
	case "build":
		err = cmdBuild(log, args)
	case "lookup":
		err = cmdLookup(log, args)
	case "info":
		err = cmdInfo(log, args)
	case "serve":
		err = cmdServe(log, args)
	default:
		usage()
		os.Exit(1)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("clouddb " + cmd + " failed")
	}
}

func cmdBuild(log zerolog.Logger, args []string) error {
	fs := pflag.NewFlagSet("build", pflag.ExitOnError)
	config := fs.StringP("config", "c", "", "YAML file describing the adapter list")
	out := fs.StringP("out", "o", "cloud_db.dat", "output container path")
	logLevel := fs.StringP("log", "l", "info", "log output level")
	stats := fs.Bool("stats", true, "include a stats dict in the info page")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if level, err := zerolog.ParseLevel(*logLevel); err == nil {
		log = log.Level(level)
	}
	if *config == "" {
		return fmt.Errorf("--config is required")
	}

	cfg, err := loadConfig(*config)
	if err != nil {
		return err
	}

	return runBuild(context.Background(), log, cfg, *out, *stats)
}

func cmdLookup(_ zerolog.Logger, args []string) error {
	fs := pflag.NewFlagSet("lookup", pflag.ExitOnError)
	dbPath := fs.StringP("db", "d", "cloud_db.dat", "container path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	ips := fs.Args()
	if len(ips) == 0 {
		return fmt.Errorf("at least one IP address is required")
	}

	src := clouddb.OpenFile(*dbPath)
	defer clouddb.Close(src)

	for _, ip := range ips {
		result, err := clouddb.Lookup(src, ip)
		if err != nil {
			fmt.Printf("%s: ERROR: %v\n", ip, err)
			continue
		}
		entries, _ := result.([]clouddb.Entry)
		if len(entries) == 0 {
			fmt.Printf("%s: not found\n", ip)
			continue
		}
		for _, e := range entries {
			fmt.Printf("%s: source=%q service=%q region=%q prefix=%q\n", ip, e.Source, e.Service, e.Region, e.Prefix)
		}
	}
	return nil
}

func cmdInfo(_ zerolog.Logger, args []string) error {
	fs := pflag.NewFlagSet("info", pflag.ExitOnError)
	dbPath := fs.StringP("db", "d", "cloud_db.dat", "container path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	src := clouddb.OpenFile(*dbPath)
	defer clouddb.Close(src)

	result, err := clouddb.Lookup(src, "info")
	if err != nil {
		return err
	}
	info := result.(*clouddb.Info)
	fmt.Printf("Database last built: %s\n", info.Built)
	if info.Stats != nil {
		fmt.Printf("Stats: ranges=%d sources=%d branches=%d leafs=%d size=%d\n",
			info.Stats.Ranges, info.Stats.Sources, info.Stats.Branches, info.Stats.Leafs, info.Stats.Size)
	}
	return nil
}

func cmdServe(log zerolog.Logger, args []string) error {
	fs := pflag.NewFlagSet("serve", pflag.ExitOnError)
	addr := fs.StringP("addr", "a", ":9102", "metrics listen address")
	dbPath := fs.StringP("db", "d", "cloud_db.dat", "container path, used to seed initial stats")
	if err := fs.Parse(args); err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	gauges := metrics.NewGauges(reg)

	src := clouddb.OpenFile(*dbPath)
	defer clouddb.Close(src)
	if result, err := clouddb.Lookup(src, "info"); err == nil {
		if info, ok := result.(*clouddb.Info); ok && info.Stats != nil {
			gauges.Set(*info.Stats)
		}
	}

	srv := metrics.NewServer(log, *addr, reg)
	return srv.Start()
}
