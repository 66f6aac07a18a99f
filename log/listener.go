// Package log adapts the gtc.Listener/gtc.Event notification pattern
// (carried over from the teacher's Event.go) to structured log/slog
// records, the logging idiom used elsewhere in the retrieval pack
// (elliotnunn/BeHierarchic, ClusterCockpit/cc-backend) rather than the
// teacher's own ad hoc JSON-ish Event.String().
package log

import (
	"context"
	"log/slog"

	"github.com/genomepack/gtc"
)

// SlogListener forwards every Event it receives to a *slog.Logger,
// at Debug for high frequency per-sample events and Info for
// stream-lifecycle events.
type SlogListener struct {
	logger *slog.Logger
}

// NewSlogListener creates a Listener that logs through logger. If
// logger is nil, slog.Default() is used.
func NewSlogListener(logger *slog.Logger) *SlogListener {
	if logger == nil {
		logger = slog.Default()
	}

	return &SlogListener{logger: logger}
}

// ProcessEvent implements gtc.Listener.
func (this *SlogListener) ProcessEvent(evt *gtc.Event) {
	level := slog.LevelInfo

	if evt.Type() == gtc.EVT_SAMPLE_WRITTEN {
		level = slog.LevelDebug
	}

	attrs := []any{
		slog.Int("type", evt.Type()),
		slog.Int64("size", evt.Size()),
	}

	if evt.ID() >= 0 {
		attrs = append(attrs, slog.Int("id", evt.ID()))
	}

	if evt.HashType() != gtc.EVT_HASH_NONE {
		attrs = append(attrs, slog.Uint64("hash", evt.Hash()))
	}

	this.logger.Log(context.Background(), level, evt.String(), attrs...)
}
