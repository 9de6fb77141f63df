// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// taxmap rewrites the headers of an RVDB-style FASTA sequence database
// with canonical accessions taken from an NCBI accession2taxid mapping
// table, and writes the joined taxonomy ids to a side table.
//
// Usage:
//
//	taxmap [options] -mapping <accession2taxid> -fasta <db.fasta>
//	taxmap [options] <accession2taxid> <db.fasta>
//
// Inputs and outputs ending in .gz are read and written gzip compressed.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/kortschak/taxmap/acctax"
)

var cfg = acctax.NewConfig("", "")

func init() {
	flag.StringVar(&cfg.Mapping, "mapping", "", "input accession2taxid mapping file name (required)")
	flag.StringVar(&cfg.FASTA, "fasta", "", "input fasta sequence database file name (required)")
	flag.StringVar(&cfg.OutDir, "out-dir", "", "output directory (default to the fasta directory)")
	flag.StringVar(&cfg.Prefix, "prefix", acctax.DefaultPrefix, "output file name prefix")
	flag.StringVar(&cfg.Tag, "tag", "", "join table run tag (default to the current month and year)")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "suppress progress and skipped line diagnostics")
	flag.BoolVar(&cfg.MappingHeader, "mapping-header", false, "mapping file has a header row")
	flag.Var(&cfg.Strategy, "strategy", `memory strategy: filtered or full
    	filtered scans the fasta file for needed accessions before
    	loading the mapping`,
	)
	flag.Var(&cfg.Miss, "miss", "handling of unmapped headers: drop, drop-record or passthrough")
	flag.Var(&cfg.Malformed, "malformed", "handling of headers with fewer than 3 fields: passthrough, drop or drop-record")
	flag.Var(&cfg.Record, "record", "identifier recorded for unmapped headers: bare-key or full-header")
	flag.Int64Var(&cfg.ScanEvery, "scan-every", acctax.DefaultScanEvery, "fasta scan progress cadence in lines")
	flag.Int64Var(&cfg.MappingEvery, "mapping-every", acctax.DefaultMappingEvery, "mapping progress cadence in lines")
	flag.Int64Var(&cfg.RewriteEvery, "rewrite-every", acctax.DefaultRewriteEvery, "rewrite progress cadence in lines")
}

var errFile = flag.String("err", "", "output file name for diagnostics (default to stderr)")

func main() {
	flag.Parse()
	if cfg.Mapping == "" && cfg.FASTA == "" && flag.NArg() == 2 {
		cfg.Mapping, cfg.FASTA = flag.Arg(0), flag.Arg(1)
	}
	if cfg.Mapping == "" || cfg.FASTA == "" {
		fmt.Fprintln(os.Stderr, "invalid argument: must have mapping and fasta set")
		flag.Usage()
		os.Exit(1)
	}

	if *errFile != "" {
		w, err := os.Create(*errFile)
		if err != nil {
			// Oh, the irony.
			log.Fatalf("failed to create log file: %v", err)
		}
		defer w.Close()
		log.SetOutput(w)
	}

	sum, err := acctax.Run(cfg, acctax.LogObserver{})
	if err != nil {
		log.Fatalf("failed mapping: %v", err)
	}

	missing := sum.Paths.Missing
	if sum.Misses == 0 {
		missing = "none"
	}
	fmt.Printf("mapping completed\n")
	fmt.Printf("renamed fasta: %s\n", sum.Paths.FASTA)
	fmt.Printf("mapping table: %s\n", sum.Paths.Joins)
	fmt.Printf("missing ids: %s\n", missing)
	if sum.Needed >= 0 {
		fmt.Printf("needed accessions: %d\n", sum.Needed)
	}
	fmt.Printf("mapping lines: %d (retained %d, skipped %d)\n",
		sum.Mapping.Lines, sum.Mapping.Retained, sum.Mapping.Malformed)
	fmt.Printf("records: %d (extractable %d, malformed %d)\n",
		sum.Records, sum.Extractable, sum.Malformed)
	fmt.Printf("hits: %d\n", sum.Hits)
	fmt.Printf("missing accessions: %d\n", sum.Misses)
	fmt.Printf("runtime: %.2fs\n", sum.Elapsed.Seconds())
}
