// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// lenfilter writes the sequences of a multiple fasta sequence file
// that are within a defined length range.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/jgbaldwinbrown/csvh"
	"gonum.org/v1/gonum/stat"
)

var (
	in      = flag.String("in", "", "specifies the input filename (required)")
	out     = flag.String("out", "", "specifies the output filename (required)")
	min     = flag.Int("min", -1, "specifies the minimum sequence length (-1 for no minimum)")
	max     = flag.Int("max", -1, "specifies the maximum sequence length (-1 for no maximum)")
	width   = flag.Int("width", 0, "specifies the output line width (0 for single line sequence)")
	protein = flag.Bool("protein", false, "specifies the input is protein sequence")
)

func main() {
	flag.Parse()
	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(1)
	}

	inFile, err := csvh.OpenMaybeGz(*in)
	if err != nil {
		log.Fatalf("failed to open input: %v", err)
	}
	defer inFile.Close()
	outFile, err := csvh.CreateMaybeGz(*out)
	if err != nil {
		log.Fatalf("failed to create output: %v", err)
	}

	alpha := alphabetFor(*protein)
	f := filter{min: *min, max: *max, width: *width}
	bw := bufio.NewWriter(outFile)
	stats, err := f.copy(bw, inFile, alpha)
	if err != nil {
		log.Fatalf("failed to filter %q: %v", *in, err)
	}
	err = bw.Flush()
	if err != nil {
		log.Fatalf("failed to write %q: %v", *out, err)
	}
	err = outFile.Close()
	if err != nil {
		log.Fatalf("failed to close %q: %v", *out, err)
	}

	log.Printf("read %d sequences, wrote %d", stats.read, len(stats.lengths))
	if len(stats.lengths) != 0 {
		mean, median := stats.summary()
		log.Printf("written sequence length mean: %.1f median: %.1f", mean, median)
	}
}

// alphabetFor returns the alphabet used to read input sequences.
func alphabetFor(protein bool) alphabet.Alphabet {
	if protein {
		return alphabet.Protein
	}
	return alphabet.DNAgapped
}

// filter is a sequence length filter. Negative bounds are ignored.
type filter struct {
	min, max int

	// width is the line width of written sequences.
	width int
}

// keep returns whether a sequence of length n passes the filter.
// Empty sequences are never kept.
func (f filter) keep(n int) bool {
	if n == 0 {
		return false
	}
	return (f.min < 0 || n >= f.min) && (f.max < 0 || n <= f.max)
}

type filterStats struct {
	read    int
	lengths []float64
}

// summary returns the mean and median of the written sequence lengths.
func (s filterStats) summary() (mean, median float64) {
	l := append([]float64(nil), s.lengths...)
	sort.Float64s(l)
	return stat.Mean(l, nil), stat.Quantile(0.5, stat.Empirical, l, nil)
}

// copy writes the sequences in src that pass the filter to dst.
func (f filter) copy(dst io.Writer, src io.Reader, alpha alphabet.Alphabet) (filterStats, error) {
	var stats filterStats
	sc := seqio.NewScanner(fasta.NewReader(src, linear.NewSeq("", nil, alpha)))
	for sc.Next() {
		stats.read++
		s := sc.Seq().(*linear.Seq)
		if !f.keep(s.Len()) {
			continue
		}
		var err error
		if f.width > 0 {
			_, err = fmt.Fprintf(dst, "%*a\n", f.width, s)
		} else {
			_, err = fmt.Fprintf(dst, "%a\n", s)
		}
		if err != nil {
			return stats, err
		}
		stats.lengths = append(stats.lengths, float64(s.Len()))
	}
	return stats, sc.Error()
}
