// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"fmt"
	"io"
	"strings"

	"github.com/jgbaldwinbrown/lscan/pkg"
)

const (
	accessionField = iota
	versionField
	taxidField
	giField

	numFields
)

var tab = lscan.ByByte('\t')

// Entry is the mapping for a single accession.version.
type Entry struct {
	Accession string // Accession is the canonical accession.
	TaxID     string
	GI        string
}

// Table is a lookup table from accession.version to Entry.
type Table map[string]Entry

// MappingStats summarises a mapping table load.
type MappingStats struct {
	Lines     int64 // Lines is the number of lines read.
	Malformed int64 // Malformed is the number of lines skipped.
	Retained  int   // Retained is the number of keys in the table.
}

// MappingReader reads accession to taxid mapping tables. Each line
// holds four tab-separated fields: accession, accession.version,
// taxid and gi. Lines with any other number of fields are skipped.
type MappingReader struct {
	// Needed restricts the table to the keys it holds.
	// If Needed is nil all entries are retained.
	Needed KeySet

	// Header indicates the first line is a header row.
	Header bool

	Observer Observer
	Every    int64
}

// Read returns the lookup table held in r. When an accession.version
// appears on more than one line, the last line read wins.
func (m MappingReader) Read(r io.Reader) (Table, MappingStats, error) {
	c := newCounter(Mapping, m.Observer, m.Every)
	c.begin()

	var stats MappingStats
	t := make(Table, len(m.Needed))
	lr := newLineReader(r)
	var fields []string
	for {
		b, err := lr.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			stats.Lines = c.n
			return nil, stats, err
		}
		c.line()
		if c.n == 1 && m.Header {
			continue
		}
		line := strings.TrimRight(string(b), "\r\n")
		fields = lscan.SplitByFunc(fields, line, tab)
		if len(fields) != numFields {
			stats.Malformed++
			c.skip(line, fmt.Sprintf("got %d fields, want %d", len(fields), numFields))
			continue
		}
		key := fields[versionField]
		if m.Needed != nil && !m.Needed.Has(key) {
			continue
		}
		t[key] = Entry{
			Accession: fields[accessionField],
			TaxID:     fields[taxidField],
			GI:        fields[giField],
		}
	}
	stats.Lines = c.n
	stats.Retained = len(t)
	return t, stats, nil
}
