// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package acctax joins FASTA sequence databases against accession to
// taxonomy id mapping tables.
//
// Headers of the FASTA database are expected to be pipe-delimited with
// the accession.version of the sequence in the third field, as in
// RVDB. Each header whose accession.version is found in the mapping is
// rewritten with the canonical accession prepended, and the join is
// recorded in a tab-separated table. Accessions without a mapping are
// collected in a missing-id list.
package acctax

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jgbaldwinbrown/csvh"
)

// Summary reports the outcome of a Run.
type Summary struct {
	Paths Paths

	// Needed is the number of distinct keys found by the
	// scan pass. It is -1 for the full strategy.
	Needed int

	Mapping MappingStats
	RewriteStats

	Elapsed time.Duration
}

// Run performs the taxonomy mapping described by cfg, reporting to o.
// Any I/O error is returned and aborts the run. Output files written
// before the error are left in place.
func Run(cfg Config, o Observer) (sum Summary, err error) {
	start := time.Now()
	err = cfg.validate(start)
	if err != nil {
		return sum, err
	}
	err = checkInput("mapping", cfg.Mapping)
	if err != nil {
		return sum, err
	}
	err = checkInput("FASTA", cfg.FASTA)
	if err != nil {
		return sum, err
	}
	if cfg.Quiet {
		o = Quiet(o)
	}
	sum.Paths = cfg.Paths(start)

	sum.Needed = -1
	var needed KeySet
	if cfg.Strategy == Filtered {
		needed, err = scanKeys(cfg.FASTA, o, every(cfg.ScanEvery, DefaultScanEvery))
		if err != nil {
			return sum, err
		}
		sum.Needed = len(needed)
	}

	mr := MappingReader{
		Needed:   needed,
		Header:   cfg.MappingHeader,
		Observer: o,
		Every:    every(cfg.MappingEvery, DefaultMappingEvery),
	}
	var t Table
	t, sum.Mapping, err = loadMapping(cfg.Mapping, mr)
	if err != nil {
		return sum, err
	}

	rw := Rewriter{
		Table:     t,
		Miss:      cfg.Miss,
		Malformed: cfg.Malformed,
		Record:    cfg.Record,
		Observer:  o,
		Every:     every(cfg.RewriteEvery, DefaultRewriteEvery),
	}
	sum.RewriteStats, err = rewrite(cfg.FASTA, sum.Paths, rw)
	if err != nil {
		return sum, err
	}
	err = WriteMissing(sum.Paths.Missing, sum.Missing)
	if err != nil {
		return sum, fmt.Errorf("failed to write missing ids %q: %w", sum.Paths.Missing, err)
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}

func checkInput(kind, path string) error {
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s file not found: %w", kind, err)
		}
		return err
	}
	if fi.IsDir() {
		return fmt.Errorf("%s file not found: %q is a directory", kind, path)
	}
	return nil
}

func scanKeys(path string, o Observer, n int64) (KeySet, error) {
	f, err := csvh.OpenMaybeGz(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open FASTA %q: %w", path, err)
	}
	defer f.Close()
	keys, err := NeededKeys(f, o, n)
	if err != nil {
		return nil, fmt.Errorf("failed reading FASTA %q: %w", path, err)
	}
	return keys, nil
}

func loadMapping(path string, mr MappingReader) (Table, MappingStats, error) {
	f, err := csvh.OpenMaybeGz(path)
	if err != nil {
		return nil, MappingStats{}, fmt.Errorf("failed to open mapping %q: %w", path, err)
	}
	defer f.Close()
	t, stats, err := mr.Read(f)
	if err != nil {
		return nil, stats, fmt.Errorf("failed reading mapping %q: %w", path, err)
	}
	return t, stats, nil
}

func rewrite(path string, p Paths, rw Rewriter) (stats RewriteStats, err error) {
	in, err := csvh.OpenMaybeGz(path)
	if err != nil {
		return stats, fmt.Errorf("failed to open FASTA %q: %w", path, err)
	}
	defer in.Close()

	out, err := create(p.FASTA)
	if err != nil {
		return stats, err
	}
	defer closeOutput(&err, out, p.FASTA)
	tab, err := create(p.Joins)
	if err != nil {
		return stats, err
	}
	defer closeOutput(&err, tab, p.Joins)

	joins, err := NewJoinWriter(tab)
	if err != nil {
		return stats, fmt.Errorf("failed to write join table %q: %w", p.Joins, err)
	}
	stats, err = rw.Rewrite(out, joins, in)
	if err != nil {
		return stats, fmt.Errorf("failed to map %q: %w", path, err)
	}
	return stats, nil
}

func create(path string) (io.WriteCloser, error) {
	w, err := csvh.CreateMaybeGz(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %q: %w", path, err)
	}
	return w, nil
}

func closeOutput(err *error, c io.Closer, path string) {
	cerr := c.Close()
	if cerr != nil {
		cerr = fmt.Errorf("failed to close %q: %w", path, cerr)
	}
	csvh.DeferE(err, cerr)
}
