// Package telemetry records advisory gameplay events.
package telemetry

import (
	"context"
	"time"

	"github.com/mgalan/lince/internal/model"
)

// EventStore persists telemetry events.
type EventStore interface {
	AppendEvent(ctx context.Context, event model.Event) error
}

// Emitter records gameplay telemetry events. Telemetry is advisory: a nil
// emitter or nil store silently drops events, and failures never surface to
// gameplay.
type Emitter struct {
	store EventStore
	clock func() time.Time
}

// NewEmitter creates a telemetry emitter over the given store.
func NewEmitter(store EventStore) *Emitter {
	return &Emitter{store: store, clock: time.Now}
}

// Emit records one event, stamping the time when unset. It is a no-op when
// the emitter or its store is nil.
func (e *Emitter) Emit(ctx context.Context, event model.Event) error {
	if e == nil || e.store == nil {
		return nil
	}
	if event.Timestamp.IsZero() {
		if e.clock == nil {
			event.Timestamp = time.Now().UTC()
		} else {
			event.Timestamp = e.clock().UTC()
		}
	}
	return e.store.AppendEvent(ctx, event)
}

// GameStart emits a game_start event.
func (e *Emitter) GameStart(ctx context.Context, user, gameCode string, level int) error {
	return e.Emit(ctx, model.Event{
		User: user,
		Type: model.EventGameStart,
		Meta: map[string]any{"game": gameCode, "level": level},
	})
}

// GameEnd emits a game_end event.
func (e *Emitter) GameEnd(ctx context.Context, user, gameCode string, score int, accuracy float64) error {
	return e.Emit(ctx, model.Event{
		User: user,
		Type: model.EventGameEnd,
		Meta: map[string]any{"game": gameCode, "score": score, "accuracy": accuracy},
	})
}

// LevelUp emits a level_up event.
func (e *Emitter) LevelUp(ctx context.Context, user, gameCode string, level int) error {
	return e.Emit(ctx, model.Event{
		User: user,
		Type: model.EventLevelUp,
		Meta: map[string]any{"game": gameCode, "level": level},
	})
}

// XPGain emits an xp_gain event.
func (e *Emitter) XPGain(ctx context.Context, user, source string, delta int) error {
	return e.Emit(ctx, model.Event{
		User: user,
		Type: model.EventXPGain,
		Meta: map[string]any{"source": source, "delta": delta},
	})
}

// WPMMeasured emits a wpm_measured event for reading-paced games.
func (e *Emitter) WPMMeasured(ctx context.Context, user, gameCode string, wpm float64) error {
	return e.Emit(ctx, model.Event{
		User: user,
		Type: model.EventWPMMeasured,
		Meta: map[string]any{"game": gameCode, "wpm": wpm},
	})
}
