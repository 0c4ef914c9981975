// Package recorder implements optional, opt-in audit sinks a caller can
// attach to runtime.Options.Recorder: an in-memory slice, append-only JSONL
// and CSV writers, and a SQLite-backed sink. None of this is the engine
// persisting its own state (the Graph/Place/Transition model never touches
// disk); it is strictly an external observer of runtime.FiringEvent,
// grounded on the teacher's eventlog package (JSONL/CSV) and the
// catacombs example's migrate-then-insert Store (SQLite).
package recorder

import (
	"time"

	"github.com/google/uuid"

	"github.com/pflow-xyz/tokflow/petrinet"
	"github.com/pflow-xyz/tokflow/runtime"
)

// PlaceSnapshot is the serializable form of a *petrinet.Place used in a
// Record: name, declared type (rendered to its string form), and whatever
// tokens the firing's InputPlaces/OutputPlaces snapshot carried (may be
// empty — firing.Extract only attaches tokens when AllowCopying is set).
type PlaceSnapshot struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Tokens []any  `json:"tokens,omitempty"`
}

// Record is the durable form of a runtime.FiringEvent.
type Record struct {
	RunID        uuid.UUID       `json:"run_id"`
	FiringID     uuid.UUID       `json:"firing_id"`
	Sequence     int             `json:"sequence"`
	Transition   string          `json:"transition"`
	InputPlaces  []PlaceSnapshot `json:"input_places"`
	OutputPlaces []PlaceSnapshot `json:"output_places"`
	FiredAt      time.Time       `json:"fired_at"`
}

func toRecord(event runtime.FiringEvent) Record {
	return Record{
		RunID:        event.RunID,
		FiringID:     event.FiringID,
		Sequence:     event.Sequence,
		Transition:   event.Transition,
		InputPlaces:  snapshotPlaces(event.InputPlaces),
		OutputPlaces: snapshotPlaces(event.OutputPlaces),
		FiredAt:      event.FiredAt,
	}
}

func snapshotPlaces(places []*petrinet.Place) []PlaceSnapshot {
	out := make([]PlaceSnapshot, len(places))
	for i, p := range places {
		tokens := make([]any, len(p.Tokens))
		copy(tokens, p.Tokens)
		out[i] = PlaceSnapshot{Name: p.Name, Type: p.Type.String(), Tokens: tokens}
	}
	return out
}
