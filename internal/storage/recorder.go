package storage

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-task/internal/event"
)

const (
	defaultRecorderQueue = 1024
	eventBatchSize       = 64
)

// Recorder writes one session's history without blocking the controller.
// It is an event.Notifier for game results and observes every inbound
// envelope for the event log. Writes happen on a background goroutine;
// when the queue is full records are dropped and counted.
type Recorder struct {
	store     *Store
	sessionID string
	log       *log.Logger

	queue chan record
	wg    sync.WaitGroup

	mu      sync.Mutex
	closed  bool
	dropped int
}

type record struct {
	game  *GameRecord
	event *EventRecord
}

// NewRecorder starts a recorder for sessionID. Call Close to flush.
func NewRecorder(store *Store, sessionID string, logger *log.Logger) *Recorder {
	r := &Recorder{
		store:     store,
		sessionID: sessionID,
		log:       logger.With("component", "recorder", "session", sessionID),
		queue:     make(chan record, defaultRecorderQueue),
	}
	r.wg.Add(1)
	go r.loop()
	return r
}

// Notify records finished and aborted games.
func (r *Recorder) Notify(n event.Notification) {
	switch ev := n.(type) {
	case event.GameOver:
		r.enqueue(record{game: &GameRecord{
			SessionID: r.sessionID,
			Game:      ev.Game,
			Score:     ev.Score,
			Ticks:     ev.Ticks,
			Outcome:   ev.Outcome.String(),
		}})
	case event.GameAborted:
		r.enqueue(record{game: &GameRecord{
			SessionID: r.sessionID,
			Game:      ev.Game,
			Score:     ev.Score,
			Ticks:     ev.Ticks,
			Outcome:   ev.Reason,
			Aborted:   true,
		}})
	}
}

// Observe records an inbound envelope. Ticks carry nothing worth keeping
// and are skipped.
func (r *Recorder) Observe(env event.Envelope) {
	if _, ok := env.Event.(event.TickEvent); ok {
		return
	}

	payload := "{}"
	if env.Event != nil {
		if data, err := json.Marshal(env.Event); err == nil {
			payload = string(data)
		}
	}
	r.enqueue(record{event: &EventRecord{
		SessionID: r.sessionID,
		Seq:       env.Seq,
		Source:    env.Source.String(),
		Kind:      event.Describe(env.Event),
		Payload:   payload,
		ArrivedAt: env.At,
	}})
}

// Dropped returns how many records were discarded because the queue was full.
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close stops accepting records, flushes the queue and marks the session ended.
// Safe to call multiple times.
func (r *Recorder) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	r.wg.Wait()
	if err := r.store.EndSession(r.sessionID, time.Now()); err != nil {
		r.log.Warn("cannot close session", "err", err)
	}
	if d := r.Dropped(); d > 0 {
		r.log.Warn("history incomplete", "dropped", d)
	}
}

func (r *Recorder) enqueue(rec record) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	select {
	case r.queue <- rec:
	default:
		r.dropped++
		if r.dropped == 1 {
			r.log.Warn("history queue full, dropping records")
		}
	}
}

func (r *Recorder) loop() {
	defer r.wg.Done()

	var batch []EventRecord
	flush := func() {
		if err := r.store.AppendEvents(batch); err != nil {
			r.log.Warn("cannot write events", "err", err, "count", len(batch))
		}
		batch = batch[:0]
	}

	for rec := range r.queue {
		if rec.event != nil {
			batch = append(batch, *rec.event)
			if len(batch) >= eventBatchSize || len(r.queue) == 0 {
				flush()
			}
			continue
		}
		if rec.game != nil {
			if _, err := r.store.SaveGame(*rec.game); err != nil {
				r.log.Warn("cannot save game", "err", err, "game", rec.game.Game)
			}
		}
	}
	flush()
}
