// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import "strings"

const (
	// Sentinel marks a FASTA header line.
	Sentinel = '>'

	// keyField is the index of the accession.version in a
	// pipe-delimited header.
	keyField = 2
)

// IsHeader returns whether line is a FASTA header line.
func IsHeader(line []byte) bool {
	return len(line) != 0 && line[0] == Sentinel
}

// Key returns the join key of the FASTA header line h. The key is the
// third pipe-delimited field of the header text. ok is false if the
// header has fewer than three fields. Keys are not normalised.
func Key(h string) (key string, ok bool) {
	_, fields := splitHeader(h)
	if len(fields) <= keyField {
		return "", false
	}
	return fields[keyField], true
}

// headerText returns h without its leading sentinel and trailing
// line terminator.
func headerText(h string) string {
	h = strings.TrimRight(h, "\r\n")
	if len(h) != 0 && h[0] == Sentinel {
		h = h[1:]
	}
	return h
}

func splitHeader(h string) (text string, fields []string) {
	text = headerText(h)
	return text, strings.Split(text, "|")
}
