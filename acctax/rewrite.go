// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"bufio"
	"io"
)

// RewriteStats summarises a rewrite pass.
type RewriteStats struct {
	Lines       int64 // Lines is the number of FASTA lines read.
	Records     int   // Records is the number of headers read.
	Extractable int   // Extractable is the number of headers holding a join key.
	Hits        int
	Misses      int
	Malformed   int // Malformed is the number of headers without a join key.

	// Missing holds the identifiers recorded for misses
	// in the order they were read.
	Missing []string
}

// Rewriter joins FASTA headers against a lookup table.
type Rewriter struct {
	Table Table

	// Miss is the handling of headers with a key absent
	// from Table.
	Miss HeaderPolicy
	// Malformed is the handling of headers without a key.
	Malformed HeaderPolicy
	// Record is the identifier recorded for a miss.
	Record MissRecord

	Observer Observer
	Every    int64
}

// Rewrite reads FASTA from src and writes it to dst, prefixing the
// header text of each hit with its canonical accession and writing
// the join result for each hit to joins. Body lines and headers that
// are passed through are written unaltered.
func (rw Rewriter) Rewrite(dst io.Writer, joins *JoinWriter, src io.Reader) (RewriteStats, error) {
	c := newCounter(Rewrite, rw.Observer, rw.Every)
	c.begin()

	var stats RewriteStats
	w := bufio.NewWriter(dst)
	lr := newLineReader(src)
	var drop bool
	for {
		line, err := lr.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return stats, err
		}
		c.line()

		if !IsHeader(line) {
			if drop {
				continue
			}
			_, err = w.Write(line)
			if err != nil {
				return stats, err
			}
			continue
		}

		stats.Records++
		drop = false
		h := string(line)
		text, fields := splitHeader(h)
		if len(fields) <= keyField {
			stats.Malformed++
			c.skip(text, "fewer than 3 pipe-delimited fields")
			drop, err = pass(w, line, rw.Malformed)
			if err != nil {
				return stats, err
			}
			continue
		}
		stats.Extractable++

		key := fields[keyField]
		e, ok := rw.Table[key]
		if !ok {
			stats.Misses++
			switch rw.Record {
			case FullHeader:
				stats.Missing = append(stats.Missing, text)
			default:
				stats.Missing = append(stats.Missing, fields[0])
			}
			drop, err = pass(w, line, rw.Miss)
			if err != nil {
				return stats, err
			}
			continue
		}

		stats.Hits++
		_, err = w.WriteString(string(Sentinel) + e.Accession + " ")
		if err != nil {
			return stats, err
		}
		_, err = w.Write(line[1:])
		if err != nil {
			return stats, err
		}
		err = joins.Write(key, e)
		if err != nil {
			return stats, err
		}
	}
	stats.Lines = c.n
	err := w.Flush()
	if err != nil {
		return stats, err
	}
	return stats, joins.Flush()
}

// pass writes a header that is not rewritten according to policy p,
// returning whether the body lines that follow should be dropped.
func pass(w io.Writer, line []byte, p HeaderPolicy) (drop bool, err error) {
	switch p {
	case PassThrough:
		_, err = w.Write(line)
		return false, err
	case DropHeader:
		return false, nil
	default:
		return true, nil
	}
}
