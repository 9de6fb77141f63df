// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/jgbaldwinbrown/csvh"
)

// TagLayout is the time layout of the default run tag.
const TagLayout = "Jan-2006"

// JoinHeader is the header row of a join table.
const JoinHeader = "accession\taccession.version\ttaxid\tgi"

// Paths holds the output file paths of a run.
type Paths struct {
	FASTA   string // FASTA is the rewritten sequence database.
	Joins   string // Joins is the join table.
	Missing string // Missing is the missing-id list.
}

// Paths returns the output paths for c. If c.Tag is empty the tag
// is taken from now.
func (c Config) Paths(now time.Time) Paths {
	dir := c.OutDir
	if dir == "" {
		dir = filepath.Dir(c.FASTA)
	}
	tag := c.Tag
	if tag == "" {
		tag = now.Format(TagLayout)
	}
	return Paths{
		FASTA:   filepath.Join(dir, c.Prefix+filepath.Base(c.FASTA)),
		Joins:   filepath.Join(dir, fmt.Sprintf("%saccession2taxid.%s.txt", c.Prefix, tag)),
		Missing: filepath.Join(dir, c.Prefix+"missing_ids.txt"),
	}
}

// JoinWriter writes join table rows.
type JoinWriter struct {
	w *bufio.Writer
	n int
}

// NewJoinWriter returns a JoinWriter that writes to w after writing
// the join table header row.
func NewJoinWriter(w io.Writer) (*JoinWriter, error) {
	j := &JoinWriter{w: bufio.NewWriter(w)}
	_, err := fmt.Fprintln(j.w, JoinHeader)
	if err != nil {
		return nil, err
	}
	return j, nil
}

// Write writes the row for a hit on key.
func (j *JoinWriter) Write(key string, e Entry) error {
	_, err := fmt.Fprintf(j.w, "%s\t%s\t%s\t%s\n", e.Accession, key, e.TaxID, e.GI)
	if err == nil {
		j.n++
	}
	return err
}

// Rows returns the number of data rows written.
func (j *JoinWriter) Rows() int { return j.n }

// Flush flushes buffered rows to the underlying writer.
func (j *JoinWriter) Flush() error { return j.w.Flush() }

// WriteMissing writes ids to the file at path, one per line. If ids
// is empty no file is created.
func WriteMissing(path string, ids []string) (err error) {
	if len(ids) == 0 {
		return nil
	}
	f, err := csvh.CreateMaybeGz(path)
	if err != nil {
		return err
	}
	defer func() { csvh.DeferE(&err, f.Close()) }()
	bw := bufio.NewWriter(f)
	for _, id := range ids {
		_, err = fmt.Fprintln(bw, id)
		if err != nil {
			return err
		}
	}
	return bw.Flush()
}
