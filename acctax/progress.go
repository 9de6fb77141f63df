// Copyright ©2026 The taxmap Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package acctax

import "log"

// Phase identifies a pass over one of the inputs.
type Phase string

const (
	Scan    Phase = "scan"    // Scan is the needed-key pass over the FASTA file.
	Mapping Phase = "mapping" // Mapping is the mapping table load.
	Rewrite Phase = "rewrite" // Rewrite is the join and rewrite pass.
)

// Observer receives notifications during a run. Observer methods
// must not retain raw beyond the call.
type Observer interface {
	// Begin is called at the start of a phase.
	Begin(p Phase)
	// Progress is called each time a phase has read a
	// multiple of its progress cadence in lines.
	Progress(p Phase, lines int64)
	// Skip is called when a malformed line is skipped or left
	// unrewritten.
	Skip(p Phase, line int64, raw, reason string)
}

// LogObserver is an Observer that writes to a log.Logger. If Logger
// is nil the standard logger is used.
type LogObserver struct {
	Logger *log.Logger
}

func (o LogObserver) printf(format string, args ...interface{}) {
	if o.Logger == nil {
		log.Printf(format, args...)
		return
	}
	o.Logger.Printf(format, args...)
}

var beginMessages = map[Phase]string{
	Scan:    "collecting required accession.version entries from FASTA",
	Mapping: "loading mapping",
	Rewrite: "mapping and writing output",
}

func (o LogObserver) Begin(p Phase) { o.printf("%s", beginMessages[p]) }

func (o LogObserver) Progress(p Phase, lines int64) {
	o.printf("%s: %d lines read", p, lines)
}

func (o LogObserver) Skip(p Phase, line int64, raw, reason string) {
	o.printf("%s: skipping line %d (%s): %q", p, line, reason, raw)
}

// quiet suppresses progress and skip notifications.
type quiet struct {
	Observer
}

func (quiet) Progress(Phase, int64)              {}
func (quiet) Skip(Phase, int64, string, string) {}

// Quiet returns an Observer that only passes phase starts to o.
func Quiet(o Observer) Observer {
	if o == nil {
		return nil
	}
	return quiet{o}
}

// counter counts lines for a phase and notifies an Observer at a
// fixed cadence.
type counter struct {
	phase Phase
	obs   Observer
	every int64
	n     int64
}

func newCounter(p Phase, o Observer, every int64) *counter {
	return &counter{phase: p, obs: o, every: every}
}

func (c *counter) begin() {
	if c.obs != nil {
		c.obs.Begin(c.phase)
	}
}

// line advances the line count.
func (c *counter) line() {
	c.n++
	if c.obs != nil && c.every > 0 && c.n%c.every == 0 {
		c.obs.Progress(c.phase, c.n)
	}
}

func (c *counter) skip(raw, reason string) {
	if c.obs != nil {
		c.obs.Skip(c.phase, c.n, raw, reason)
	}
}
