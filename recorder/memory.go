package recorder

import (
	"sync"

	"github.com/pflow-xyz/tokflow/runtime"
)

// MemorySink keeps every Record in process memory, in firing order. Useful
// for tests and short-lived tools that want to inspect a run afterward
// without standing up a file or database.
type MemorySink struct {
	mu      sync.Mutex
	records []Record
}

// NewMemorySink constructs an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// RecordFiring implements runtime.Recorder.
func (s *MemorySink) RecordFiring(event runtime.FiringEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, toRecord(event))
	return nil
}

// Records returns a copy of every record captured so far, in firing order.
func (s *MemorySink) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

var _ runtime.Recorder = (*MemorySink)(nil)
