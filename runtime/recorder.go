package runtime

import (
	"time"

	"github.com/google/uuid"

	"github.com/pflow-xyz/tokflow/petrinet"
)

// Recorder receives a FiringEvent after each successful firing during
// Execute. Implementations live in the recorder package (memory, JSONL,
// CSV, SQLite sinks); Execute depends only on this interface so the engine
// never touches a sink's storage medium directly — the graph/place/
// transition model itself still persists nothing.
type Recorder interface {
	RecordFiring(event FiringEvent) error
}

// FiringEvent is what Execute reports to a Recorder immediately after a
// firing completes. RunID identifies the Execute call; FiringID identifies
// this one firing within it, so a Recorder can key firings across
// concurrent or repeated runs of the same graph even though spec.md §5
// leaves that concurrent-use case undefined at the engine level.
type FiringEvent struct {
	RunID        uuid.UUID
	FiringID     uuid.UUID
	Sequence     int
	Transition   string
	InputPlaces  []*petrinet.Place
	OutputPlaces []*petrinet.Place
	FiredAt      time.Time
}
