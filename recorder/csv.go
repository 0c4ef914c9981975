package recorder

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/pflow-xyz/tokflow/runtime"
)

var csvHeader = []string{
	"run_id", "firing_id", "sequence", "transition",
	"fired_at", "input_places", "output_places",
}

// CSVSink appends one row per firing, columns fixed by csvHeader. Place
// snapshots are too structured for flat columns, so each of input_places
// and output_places is a JSON-encoded array cell — the same trade-off
// eventlog's CSV reader makes in reverse (flat columns, structured log).
type CSVSink struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
}

// NewCSVWriter wraps an already-open io.Writer and writes the header row
// immediately.
func NewCSVWriter(w io.Writer) (*CSVSink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("recorder: write csv header: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("recorder: flush csv header: %w", err)
	}
	return &CSVSink{w: cw}, nil
}

// NewCSVFile creates (truncating any existing file) a CSV file at path
// and writes its header row. The returned sink owns the file.
func NewCSVFile(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("recorder: create csv file: %w", err)
	}
	sink, err := NewCSVWriter(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	sink.closer = f
	return sink, nil
}

// RecordFiring implements runtime.Recorder.
func (s *CSVSink) RecordFiring(event runtime.FiringEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := toRecord(event)
	inputJSON, err := json.Marshal(rec.InputPlaces)
	if err != nil {
		return fmt.Errorf("recorder: marshal input places: %w", err)
	}
	outputJSON, err := json.Marshal(rec.OutputPlaces)
	if err != nil {
		return fmt.Errorf("recorder: marshal output places: %w", err)
	}

	row := []string{
		rec.RunID.String(),
		rec.FiringID.String(),
		strconv.Itoa(rec.Sequence),
		rec.Transition,
		rec.FiredAt.Format(time.RFC3339Nano),
		string(inputJSON),
		string(outputJSON),
	}
	if err := s.w.Write(row); err != nil {
		return fmt.Errorf("recorder: write csv row: %w", err)
	}
	s.w.Flush()
	return s.w.Error()
}

// Close releases the underlying file, if this sink opened one.
func (s *CSVSink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

var _ runtime.Recorder = (*CSVSink)(nil)
