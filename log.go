package rtree

import "github.com/tormol/rtree/internal/rlog"

// sink is the narrow logging surface the engine needs: trace-level
// messages at split/fix-up/rebuild boundaries. It is an external
// collaborator (spec §1) — the engine never constructs one itself, a Tree
// is always handed one at construction time, defaulting to a discarding
// implementation.
type sink interface {
	Debugf(format string, args ...interface{})
}

// noopSink discards everything. Used whenever a caller builds a Tree
// without supplying a *rlog.Logger.
type noopSink struct{}

func (noopSink) Debugf(string, ...interface{}) {}

// rlogSink adapts *rlog.Logger to sink.
type rlogSink struct{ l *rlog.Logger }

func (s rlogSink) Debugf(format string, args ...interface{}) { s.l.Debugf(format, args...) }
