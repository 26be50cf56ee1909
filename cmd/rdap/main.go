// rdapify/rdap
// Copyright 2026 The rdapify authors.
// MIT License, see the LICENSE file.

// Command rdap is a small command-line client over the rdap package,
// scoped to the three bootstrap-able query kinds: domain, IP, and ASN.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	kingpin "gopkg.in/alecthomas/kingpin.v2"

	"github.com/rdapify/rdap"
	"github.com/rdapify/rdap/bootstrap/cache"
)

var (
	app = kingpin.New("rdap", "RDAP command-line client.")

	query      = app.Arg("query", "Domain name, IP address, or ASN to look up.").Required().String()
	timeout    = app.Flag("timeout", "Overall timeout.").Short('T').Default("30s").Duration()
	jsonOutput = app.Flag("json", "Output pretty-printed JSON.").Short('j').Bool()
	noRedact   = app.Flag("no-redact", "Disable PII redaction.").Bool()
	verbose    = app.Flag("verbose", "Print verbose messages on STDERR.").Short('v').Bool()
	cacheDir   = app.Flag("cache-dir", "Directory for the on-disk bootstrap cache, or \"\" to use an in-memory cache.").Default("default").String()
)

func main() {
	kingpin.MustParse(app.Parse(os.Args[1:]))

	logger := zerolog.Nop()
	if *verbose {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	}

	opts := []rdap.Option{
		rdap.WithTimeout(*timeout),
		rdap.WithLogger(logger),
	}
	if *noRedact {
		opts = append(opts, rdap.WithRedactionPolicy(rdap.RedactionPolicy{}))
	}
	if bc := bootstrapCache(logger); bc != nil {
		opts = append(opts, rdap.WithBootstrapCache(bc))
	}

	cfg := rdap.New(opts...)

	client := rdap.NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	result, err := lookup(ctx, client, *query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rdap: %v\n", err)
		os.Exit(1)
	}

	if err := printResult(result); err != nil {
		fmt.Fprintf(os.Stderr, "rdap: %v\n", err)
		os.Exit(1)
	}
}

func lookup(ctx context.Context, client *rdap.Client, q string) (interface{}, error) {
	switch classify(q) {
	case rdap.QueryIP:
		return client.IP(ctx, q, nil)
	case rdap.QueryASN:
		return client.ASN(ctx, q, nil)
	default:
		return client.Domain(ctx, q, nil)
	}
}

// bootstrapCache builds the disk cache named by --cache-dir, or nil to keep
// bootstrap.NewClient's in-memory default when the flag is cleared.
func bootstrapCache(logger zerolog.Logger) *cache.DiskCache {
	if *cacheDir == "" {
		return nil
	}

	dc := cache.NewDiskCache()
	if *cacheDir != "default" {
		dc.Dir = *cacheDir
	}

	if err := dc.InitDir(); err != nil {
		fmt.Fprintf(os.Stderr, "rdap: cache dir %s: %v\n", dc.Dir, err)
		return nil
	}
	logger.Debug().Str("dir", dc.Dir).Msg("rdap: using disk cache")

	return dc
}

func classify(q string) rdap.QueryKind {
	if net.ParseIP(q) != nil {
		return rdap.QueryIP
	}
	if strings.HasPrefix(strings.ToLower(q), "as") {
		if _, err := rdap.CanonicalizeASN(q); err == nil {
			return rdap.QueryASN
		}
	}
	return rdap.QueryDomain
}

func printResult(result interface{}) error {
	if *jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	switch v := result.(type) {
	case *rdap.Domain:
		fmt.Printf("Domain: %s\n", v.LDHName)
		fmt.Printf("Handle: %s\n", v.Handle)
		fmt.Printf("Status: %s\n", strings.Join(v.Status, ", "))
		if v.Registrar != nil {
			fmt.Printf("Registrar: %s\n", v.Registrar.Name)
		}
		for _, e := range v.Events {
			fmt.Printf("Event: %-12s %s\n", e.Type, e.Date.Format(time.RFC3339))
		}
	case *rdap.IPNetwork:
		fmt.Printf("Network: %s - %s\n", v.StartAddress, v.EndAddress)
		fmt.Printf("Handle: %s\n", v.Handle)
	case *rdap.Autnum:
		fmt.Printf("AS Range: %d - %d\n", v.StartAutnum, v.EndAutnum)
		fmt.Printf("Handle: %s\n", v.Handle)
	default:
		fmt.Printf("%+v\n", v)
	}

	return nil
}
