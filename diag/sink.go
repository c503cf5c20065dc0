// Package diag implements the Diagnostics Sink (spec.md §4.5): a leveled
// message sink shared by every compilation pass, with the level ordering
// "error < warning < success < debug1 < info < debug2 < debug3 < all". A
// verbosity threshold admits a message iff its level is at or below the
// threshold's position in that ordering; error halts the owning pass after
// it finishes reporting its whole batch (see (*Sink).Failed).
//
// Grounded on the prior design's llx.Error/llx.NewError split between
// positioned and unpositioned messages, extended from "return one error"
// to "accumulate a leveled stream of diagnostics", and backed by
// github.com/rs/zerolog for the actual writer/formatting, since zerolog's
// own five levels don't line up with the spec's eight and can't be used
// for filtering directly — this sink does its own ordering and only asks
// zerolog to format and colorize whatever it decides to let through.
package diag

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog"

	"github.com/colebrook/ebnfc"
)

// Level is a diagnostic severity / verbosity setting, ordered per spec.md §4.5.
type Level int

const (
	Error Level = iota
	Warning
	Success
	Debug1
	Info
	Debug2
	Debug3
	All
)

var levelNames = map[Level]string{
	Error: "error", Warning: "warning", Success: "success",
	Debug1: "debug1", Info: "info", Debug2: "debug2", Debug3: "debug3", All: "all",
}

func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}
	return "unknown"
}

// ParseLevel maps a --verbose argument to a Level.
func ParseLevel(s string) (Level, bool) {
	for l, name := range levelNames {
		if name == s {
			return l, true
		}
	}
	return 0, false
}

var zerologLevels = map[Level]zerolog.Level{
	Error:   zerolog.ErrorLevel,
	Warning: zerolog.WarnLevel,
	Success: zerolog.InfoLevel,
	Debug1:  zerolog.DebugLevel,
	Info:    zerolog.InfoLevel,
	Debug2:  zerolog.DebugLevel,
	Debug3:  zerolog.TraceLevel,
}

// Diagnostic is a single reported message, retained for callers (the CLI,
// tests) that want programmatic access instead of parsing log output.
type Diagnostic struct {
	Level      Level
	Code       int
	Message    string
	SourceName string
	Line, Col  int
}

// Sink accumulates and emits Diagnostics, applying the level ordering
// above. It is not safe for concurrent use; the whole pipeline is
// single-threaded (spec.md §5).
type Sink struct {
	threshold Level
	logger    zerolog.Logger
	messages  []Diagnostic
	errors    int
}

// New creates a Sink writing to w (os.Stderr if w is nil) at the given
// verbosity threshold.
func New(threshold Level, w io.Writer) *Sink {
	if w == nil {
		w = os.Stderr
	}
	console := zerolog.ConsoleWriter{Out: w, NoColor: false, TimeFormat: "-"}
	console.PartsExclude = []string{zerolog.TimestampFieldName}
	return &Sink{threshold: threshold, logger: zerolog.New(console)}
}

// Threshold returns the sink's configured verbosity.
func (s *Sink) Threshold() Level { return s.threshold }

// Report records a diagnostic and, if its level is within the sink's
// threshold, writes it out. pos may be nil for diagnostics with no
// meaningful source location.
func (s *Sink) Report(level Level, code int, msg string, pos ebnfc.SourcePos) {
	d := Diagnostic{Level: level, Code: code, Message: msg}
	if pos != nil {
		d.SourceName, d.Line, d.Col = pos.SourceName(), pos.Line(), pos.Col()
	}
	s.messages = append(s.messages, d)
	if level == Error {
		s.errors++
	}

	if level > s.threshold {
		return
	}

	ev := s.logger.WithLevel(zerologLevels[level])
	if d.SourceName != "" {
		ev = ev.Str("source", d.SourceName).Int("line", d.Line).Int("col", d.Col)
	}
	ev.Int("code", code).Msg(msg)
}

// Reportf is Report with fmt-style message formatting.
func (s *Sink) Reportf(level Level, code int, pos ebnfc.SourcePos, format string, args ...any) {
	s.Report(level, code, fmt.Sprintf(format, args...), pos)
}

// Failed reports whether any error-level diagnostic has been recorded.
// Per spec.md §7, the pipeline aborts after the pass that recorded the
// first error finishes reporting every diagnostic in its batch, so callers
// check Failed() once per pass rather than aborting on the first Report call.
func (s *Sink) Failed() bool { return s.errors > 0 }

// ErrorCount returns the number of error-level diagnostics recorded so far.
func (s *Sink) ErrorCount() int { return s.errors }

// Messages returns every recorded diagnostic, most-recent last.
func (s *Sink) Messages() []Diagnostic {
	out := make([]Diagnostic, len(s.messages))
	copy(out, s.messages)
	return out
}

// SortedByPosition returns a copy of Messages ordered by source position
// rather than pass-discovery order.
func (s *Sink) SortedByPosition() []Diagnostic {
	out := s.Messages()
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Line != out[j].Line {
			return out[i].Line < out[j].Line
		}
		return out[i].Col < out[j].Col
	})
	return out
}
