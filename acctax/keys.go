// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"io"
)

// KeySet is a set of join keys.
type KeySet map[string]struct{}

// Has returns whether key is in the set.
func (s KeySet) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// NeededKeys returns the set of join keys held by the headers of the
// FASTA stream r. Progress is reported to o every n lines.
func NeededKeys(r io.Reader, o Observer, n int64) (KeySet, error) {
	c := newCounter(Scan, o, n)
	c.begin()
	keys := make(KeySet)
	lr := newLineReader(r)
	for {
		line, err := lr.next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		c.line()
		if !IsHeader(line) {
			continue
		}
		if key, ok := Key(string(line)); ok {
			keys[key] = struct{}{}
		}
	}
	return keys, nil
}
