// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	err := os.WriteFile(path, []byte(data), 0o644)
	if err != nil {
		t.Fatalf("failed to write %q: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %q: %v", path, err)
	}
	return string(b)
}

type runOutput struct {
	fasta, joins, missing string
	hasMissing            bool
}

func runIn(t *testing.T, cfg Config) (Summary, runOutput) {
	t.Helper()
	sum, err := Run(cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := runOutput{
		fasta: readFile(t, sum.Paths.FASTA),
		joins: readFile(t, sum.Paths.Joins),
	}
	_, err = os.Stat(sum.Paths.Missing)
	if err == nil {
		out.hasMissing = true
		out.missing = readFile(t, sum.Paths.Missing)
	} else if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("unexpected error: %v", err)
	}
	return sum, out
}

func TestRunStrategyEquivalence(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "accession2taxid")
	fastaPath := filepath.Join(dir, "db.fa")
	writeFile(t, mappingPath, mapping+"X9\tA1.1\t1\t2\n")
	writeFile(t, fastaPath, testFASTA)

	for _, miss := range []HeaderPolicy{PassThrough, DropHeader, DropRecord} {
		for _, rec := range []MissRecord{BareKey, FullHeader} {
			var outs [2]runOutput
			for i, s := range []Strategy{Filtered, Full} {
				cfg := NewConfig(mappingPath, fastaPath)
				cfg.OutDir = filepath.Join(dir, s.String()+miss.String()+rec.String())
				err := os.Mkdir(cfg.OutDir, 0o755)
				if err != nil {
					t.Fatalf("failed to make output directory: %v", err)
				}
				cfg.Tag = "Oct-2026"
				cfg.Strategy = s
				cfg.Miss = miss
				cfg.Record = rec
				var sum Summary
				sum, outs[i] = runIn(t, cfg)
				if s == Filtered && sum.Needed != 3 {
					t.Errorf("unexpected needed key count: got:%d want:3", sum.Needed)
				}
				if s == Full && sum.Needed != -1 {
					t.Errorf("unexpected needed key count for full strategy: %d", sum.Needed)
				}
			}
			if !reflect.DeepEqual(outs[0], outs[1]) {
				t.Errorf("filtered and full outputs differ for miss=%v record=%v:\nfiltered:%+v\nfull:    %+v",
					miss, rec, outs[0], outs[1])
			}
		}
	}
}

func TestRunOutputs(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "accession2taxid")
	fastaPath := filepath.Join(dir, "db.fa")
	writeFile(t, mappingPath, "A1\tA1.1\t9606\t12345\n")
	writeFile(t, fastaPath, ">gi|99|A1.1|desc\nMKV\n")

	cfg := NewConfig(mappingPath, fastaPath)
	cfg.Tag = "Oct-2026"
	sum, out := runIn(t, cfg)

	want := Paths{
		FASTA:   filepath.Join(dir, "rvdb.db.fa"),
		Joins:   filepath.Join(dir, "rvdb.accession2taxid.Oct-2026.txt"),
		Missing: filepath.Join(dir, "rvdb.missing_ids.txt"),
	}
	if sum.Paths != want {
		t.Errorf("unexpected paths:\ngot: %+v\nwant:%+v", sum.Paths, want)
	}
	if want := ">A1 gi|99|A1.1|desc\nMKV\n"; out.fasta != want {
		t.Errorf("unexpected fasta: got:%q want:%q", out.fasta, want)
	}
	if want := JoinHeader + "\nA1\tA1.1\t9606\t12345\n"; out.joins != want {
		t.Errorf("unexpected join table: got:%q want:%q", out.joins, want)
	}
	if out.hasMissing {
		t.Errorf("unexpected missing id file with no misses: %q", out.missing)
	}
	if sum.Hits != 1 || sum.Misses != 0 || sum.Records != 1 {
		t.Errorf("unexpected summary: %+v", sum)
	}
}

func TestRunMissing(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "accession2taxid")
	fastaPath := filepath.Join(dir, "db.fa")
	writeFile(t, mappingPath, "")
	writeFile(t, fastaPath, ">acc|GENBANK|K1.1|x\nAC\n>acc2|GENBANK|K2.1|y\nGT\n")

	cfg := NewConfig(mappingPath, fastaPath)
	_, out := runIn(t, cfg)
	if !out.hasMissing {
		t.Fatal("expected missing id file")
	}
	if want := "acc\nacc2\n"; out.missing != want {
		t.Errorf("unexpected missing ids: got:%q want:%q", out.missing, want)
	}
	if want := JoinHeader + "\n"; out.joins != want {
		t.Errorf("unexpected join table: got:%q want:%q", out.joins, want)
	}
}

func TestRunQuiet(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "accession2taxid")
	fastaPath := filepath.Join(dir, "db.fa")
	writeFile(t, mappingPath, "bad\n")
	writeFile(t, fastaPath, ">short|header\nAC\n")

	for _, quiet := range []bool{false, true} {
		cfg := NewConfig(mappingPath, fastaPath)
		cfg.Quiet = quiet
		cfg.ScanEvery, cfg.MappingEvery, cfg.RewriteEvery = 1, 1, 1
		var rec recorder
		_, err := Run(cfg, &rec)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if want := []Phase{Scan, Mapping, Rewrite}; !reflect.DeepEqual(rec.begins, want) {
			t.Errorf("unexpected phases with quiet=%t: got:%v want:%v", quiet, rec.begins, want)
		}
		if quiet {
			if len(rec.progress) != 0 || len(rec.skips) != 0 {
				t.Errorf("unexpected notifications in quiet mode: %+v", rec)
			}
			continue
		}
		wantSkips := []skip{{Mapping, 1, "bad"}, {Rewrite, 1, "short|header"}}
		if !reflect.DeepEqual(rec.skips, wantSkips) {
			t.Errorf("unexpected skips:\ngot: %v\nwant:%v", rec.skips, wantSkips)
		}
		if want := []int64{1, 2, 1, 1, 2}; !reflect.DeepEqual(rec.progress, want) {
			t.Errorf("unexpected progress: got:%v want:%v", rec.progress, want)
		}
	}
}

func TestRunNotFound(t *testing.T) {
	dir := t.TempDir()
	fastaPath := filepath.Join(dir, "db.fa")
	writeFile(t, fastaPath, ">a|b|c\nAC\n")

	_, err := Run(NewConfig(filepath.Join(dir, "absent"), fastaPath), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected error for absent mapping: %v", err)
	}
	_, err = Run(NewConfig(fastaPath, filepath.Join(dir, "absent.fa")), nil)
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected error for absent fasta: %v", err)
	}
	_, err = Run(NewConfig(dir, fastaPath), nil)
	if err == nil {
		t.Error("expected error for directory mapping path")
	}
	if _, err := os.Stat(filepath.Join(dir, "rvdb.db.fa")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("unexpected output after failed run: %v", err)
	}
}

func TestRunGzip(t *testing.T) {
	dir := t.TempDir()
	mappingPath := filepath.Join(dir, "accession2taxid.gz")
	fastaPath := filepath.Join(dir, "db.fa.gz")
	writeGzip(t, mappingPath, "A1\tA1.1\t9606\t12345\n")
	writeGzip(t, fastaPath, ">gi|99|A1.1|desc\nMKV\n")

	sum, err := Run(NewConfig(mappingPath, fastaPath), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := filepath.Join(dir, "rvdb.db.fa.gz"); sum.Paths.FASTA != want {
		t.Errorf("unexpected fasta path: got:%q want:%q", sum.Paths.FASTA, want)
	}
	f, err := os.Open(sum.Paths.FASTA)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer f.Close()
	r, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("output is not gzipped: %v", err)
	}
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	if got, want := string(b), ">A1 gi|99|A1.1|desc\nMKV\n"; got != want {
		t.Errorf("unexpected fasta: got:%q want:%q", got, want)
	}
}

func writeGzip(t *testing.T, path, data string) {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	_, err := w.Write([]byte(data))
	if err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	err = w.Close()
	if err != nil {
		t.Fatalf("failed to compress: %v", err)
	}
	writeFile(t, path, buf.String())
}
