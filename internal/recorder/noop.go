package recorder

import "OBVSentinel/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *Run) error { return nil }
func (n *NoopRecorder) RecordResult(_ string, _ *model.TickerResult) error { return nil }
func (n *NoopRecorder) Close() error { return nil }
