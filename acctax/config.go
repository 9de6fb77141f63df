// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"
)

var ErrMissingRequired = errors.New("acctax: missing required argument")

// Strategy is the memory strategy used to build a lookup Table.
type Strategy int

const (
	// Filtered scans the FASTA file for its join keys before loading
	// the mapping, and retains only entries for those keys.
	Filtered Strategy = iota
	// Full retains every well-formed mapping entry.
	Full
)

var strategyNames = []string{
	Filtered: "filtered",
	Full:     "full",
}

func (s Strategy) String() string { return enumName(strategyNames, int(s)) }

// Set implements flag.Value.
func (s *Strategy) Set(v string) error {
	i, err := enumValue(strategyNames, "strategy", v)
	if err != nil {
		return err
	}
	*s = Strategy(i)
	return nil
}

// HeaderPolicy specifies how a rewrite handles a header that is not
// rewritten.
type HeaderPolicy int

const (
	// PassThrough writes the header unchanged.
	PassThrough HeaderPolicy = iota
	// DropHeader omits the header line. Body lines that follow it are
	// still written.
	DropHeader
	// DropRecord omits the header line and all body lines up to the
	// next header.
	DropRecord
)

var policyNames = []string{
	PassThrough: "passthrough",
	DropHeader:  "drop",
	DropRecord:  "drop-record",
}

func (p HeaderPolicy) String() string { return enumName(policyNames, int(p)) }

// Set implements flag.Value.
func (p *HeaderPolicy) Set(v string) error {
	i, err := enumValue(policyNames, "header policy", v)
	if err != nil {
		return err
	}
	*p = HeaderPolicy(i)
	return nil
}

// MissRecord specifies the identifier recorded for a miss.
type MissRecord int

const (
	// BareKey records the first pipe-delimited header field.
	BareKey MissRecord = iota
	// FullHeader records the header text without its sentinel.
	FullHeader
)

var recordNames = []string{
	BareKey:    "bare-key",
	FullHeader: "full-header",
}

func (r MissRecord) String() string { return enumName(recordNames, int(r)) }

// Set implements flag.Value.
func (r *MissRecord) Set(v string) error {
	i, err := enumValue(recordNames, "miss record", v)
	if err != nil {
		return err
	}
	*r = MissRecord(i)
	return nil
}

func validEnum(names []string, i int) bool { return 0 <= i && i < len(names) }

func enumName(names []string, i int) string {
	if !validEnum(names, i) {
		return fmt.Sprintf("invalid(%d)", i)
	}
	return names[i]
}

func enumValue(names []string, kind, v string) (int, error) {
	for i, n := range names {
		if v == n {
			return i, nil
		}
	}
	return 0, fmt.Errorf("invalid %s: %q", kind, v)
}

// Default progress cadences in lines.
const (
	DefaultScanEvery    = 1000000
	DefaultMappingEvery = 10000000
	DefaultRewriteEvery = 1000000
)

// DefaultPrefix is the default output file name prefix.
const DefaultPrefix = "rvdb."

// Config holds the parameters of a taxonomy mapping run.
type Config struct {
	Mapping string // Mapping is the accession to taxid table path.
	FASTA   string // FASTA is the sequence database path.

	OutDir string // OutDir is the output directory; defaults to the directory of FASTA.
	Prefix string // Prefix is prepended to all output file names.
	Tag    string // Tag labels the join table; defaults to the current month and year.

	Quiet bool

	Strategy  Strategy
	Miss      HeaderPolicy
	Malformed HeaderPolicy
	Record    MissRecord

	// MappingHeader indicates that the first line of the mapping
	// table is a header row.
	MappingHeader bool

	// Progress cadences in lines. Zero values are replaced by the
	// package defaults and negative values disable reporting.
	ScanEvery    int64
	MappingEvery int64
	RewriteEvery int64
}

// NewConfig returns a Config for the given mapping and FASTA paths
// with the default policies.
func NewConfig(mapping, fasta string) Config {
	return Config{
		Mapping: mapping,
		FASTA:   fasta,
		Prefix:  DefaultPrefix,

		Strategy:  Filtered,
		Miss:      DropHeader,
		Malformed: PassThrough,
		Record:    BareKey,
	}
}

// Validate checks that c describes a runnable configuration.
func (c Config) Validate() error {
	return c.validate(time.Now())
}

func (c Config) validate(now time.Time) error {
	if c.Mapping == "" || c.FASTA == "" {
		return ErrMissingRequired
	}
	switch {
	case !validEnum(strategyNames, int(c.Strategy)):
		return fmt.Errorf("acctax: invalid strategy: %v", c.Strategy)
	case !validEnum(policyNames, int(c.Miss)):
		return fmt.Errorf("acctax: invalid miss policy: %v", c.Miss)
	case !validEnum(policyNames, int(c.Malformed)):
		return fmt.Errorf("acctax: invalid malformed header policy: %v", c.Malformed)
	case !validEnum(recordNames, int(c.Record)):
		return fmt.Errorf("acctax: invalid miss record: %v", c.Record)
	}
	return c.checkPaths(c.Paths(now))
}

// checkPaths returns an error if any output path in p is one of the
// input paths of c.
func (c Config) checkPaths(p Paths) error {
	inputs := []struct{ kind, path string }{
		{"mapping", c.Mapping},
		{"FASTA", c.FASTA},
	}
	outputs := []struct{ kind, path string }{
		{"rewritten FASTA", p.FASTA},
		{"join table", p.Joins},
		{"missing id list", p.Missing},
	}
	for _, in := range inputs {
		inAbs, err := filepath.Abs(in.path)
		if err != nil {
			return err
		}
		for _, out := range outputs {
			outAbs, err := filepath.Abs(out.path)
			if err != nil {
				return err
			}
			if inAbs == outAbs {
				return fmt.Errorf("acctax: %s would overwrite %s input %q", out.kind, in.kind, in.path)
			}
		}
	}
	return nil
}

func every(n, def int64) int64 {
	if n == 0 {
		return def
	}
	return n
}
