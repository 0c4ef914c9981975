package recorder

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pflow-xyz/tokflow/runtime"
)

// JSONLSink appends one JSON object per line, one line per firing —
// the inverse of eventlog.ParseJSONL's read side, same field shapes.
type JSONLSink struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
}

// NewJSONLWriter wraps an already-open io.Writer (e.g. os.Stdout, a
// bytes.Buffer in tests). The caller owns closing it.
func NewJSONLWriter(w io.Writer) *JSONLSink {
	return &JSONLSink{w: w}
}

// NewJSONLFile opens (creating if needed, appending if it exists) a file
// at path for JSONL output. The returned sink owns the file and must be
// closed via Close when the run is done.
func NewJSONLFile(path string) (*JSONLSink, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("recorder: open jsonl file: %w", err)
	}
	return &JSONLSink{w: f, closer: f}, nil
}

// RecordFiring implements runtime.Recorder.
func (s *JSONLSink) RecordFiring(event runtime.FiringEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, err := json.Marshal(toRecord(event))
	if err != nil {
		return fmt.Errorf("recorder: marshal firing event: %w", err)
	}
	line = append(line, '\n')
	if _, err := s.w.Write(line); err != nil {
		return fmt.Errorf("recorder: write jsonl line: %w", err)
	}
	return nil
}

// Close releases the underlying file, if this sink opened one.
func (s *JSONLSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ runtime.Recorder = (*JSONLSink)(nil)
