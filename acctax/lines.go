// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import (
	"bufio"
	"io"
)

// lineReader returns lines including their terminators, so that
// lines can be written back byte for byte. Lines longer than the
// underlying buffer are accumulated.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, 1<<16)}
}

// next returns the next line. The returned slice is only valid until
// the next call. At the end of the input next returns io.EOF; a final
// line without a terminator is returned with a nil error.
func (l *lineReader) next() ([]byte, error) {
	line, err := l.r.ReadSlice('\n')
	if err == bufio.ErrBufferFull {
		l.buf = append(l.buf[:0], line...)
		for err == bufio.ErrBufferFull {
			line, err = l.r.ReadSlice('\n')
			l.buf = append(l.buf, line...)
		}
		line = l.buf
	}
	if err == io.EOF {
		if len(line) != 0 {
			return line, nil
		}
		return nil, io.EOF
	}
	return line, err
}
