package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-task/internal/core"
	"github.com/vovakirdan/snake-task/internal/event"
	"github.com/vovakirdan/snake-task/internal/snake"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSessionsAndGames(t *testing.T) {
	store := openTestStore(t)
	start := time.UnixMilli(1_700_000_000_000)

	for _, sess := range []Session{
		{ID: "s1", Player: "human", BoardSize: 41, StartedAt: start},
		{ID: "s2", Player: "actr", BoardSize: 41, StartedAt: start.Add(time.Minute)},
	} {
		if err := store.StartSession(sess); err != nil {
			t.Fatalf("StartSession() failed: %v", err)
		}
	}

	games := []GameRecord{
		{SessionID: "s1", Game: 1, Score: 4, Ticks: 80, Outcome: "HIT_WALL"},
		{SessionID: "s1", Game: 2, Score: 12, Ticks: 200, Outcome: "HIT_SELF"},
		{SessionID: "s1", Game: 3, Score: 30, Ticks: 300, Outcome: "model-stop", Aborted: true},
		{SessionID: "s2", Game: 1, Score: 7, Ticks: 90, Outcome: "HIT_WALL"},
	}
	for _, g := range games {
		if _, err := store.SaveGame(g); err != nil {
			t.Fatalf("SaveGame() failed: %v", err)
		}
	}

	top, err := store.TopScores("", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(top) != 3 {
		t.Fatalf("TopScores() returned %d entries, expected 3 (aborted games excluded)", len(top))
	}
	if top[0].Score != 12 || top[1].Score != 7 || top[2].Score != 4 {
		t.Errorf("TopScores() order = %d, %d, %d", top[0].Score, top[1].Score, top[2].Score)
	}

	humanTop, err := store.TopScores("human", 10)
	if err != nil {
		t.Fatalf("TopScores(human) failed: %v", err)
	}
	if len(humanTop) != 2 {
		t.Errorf("TopScores(human) returned %d entries, expected 2", len(humanTop))
	}

	s1Games, err := store.SessionGames("s1")
	if err != nil {
		t.Fatalf("SessionGames() failed: %v", err)
	}
	if len(s1Games) != 3 || !s1Games[2].Aborted {
		t.Errorf("SessionGames(s1) = %+v", s1Games)
	}

	recent, err := store.RecentSessions(10)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "s2" {
		t.Errorf("RecentSessions() = %+v, expected s2 first", recent)
	}
	if !recent[0].EndedAt.IsZero() {
		t.Error("open session should have zero EndedAt")
	}

	if err := store.EndSession("s1", start.Add(time.Hour)); err != nil {
		t.Fatalf("EndSession() failed: %v", err)
	}

	stats, err := store.PlayerStats("human")
	if err != nil {
		t.Fatalf("PlayerStats() failed: %v", err)
	}
	if stats.Sessions != 1 || stats.Games != 2 || stats.HighScore != 12 {
		t.Errorf("PlayerStats(human) = %+v", stats)
	}
	if stats.AvgScore != 8 {
		t.Errorf("AvgScore = %v, expected 8", stats.AvgScore)
	}
	if !stats.LastPlayed.Equal(start) {
		t.Errorf("LastPlayed = %v, expected %v", stats.LastPlayed, start)
	}
}

func TestStoreEmptyStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.PlayerStats("nobody")
	if err != nil {
		t.Fatalf("PlayerStats() failed: %v", err)
	}
	if stats.Games != 0 || stats.HighScore != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("PlayerStats(nobody) = %+v", stats)
	}
}

func TestRecorder(t *testing.T) {
	store := openTestStore(t)
	if err := store.StartSession(Session{ID: "rec", Player: "human", BoardSize: 41, StartedAt: time.Now()}); err != nil {
		t.Fatalf("StartSession() failed: %v", err)
	}

	rec := NewRecorder(store, "rec", log.New(io.Discard))
	now := time.Now()
	rec.Observe(event.Envelope{Seq: 1, At: now, Source: event.SourceSystem, Event: event.SessionStartEvent{Player: "human"}})
	rec.Observe(event.Envelope{Seq: 2, At: now, Source: event.SourceClock, Event: event.TickEvent{Token: 1}})
	rec.Observe(event.Envelope{Seq: 3, At: now, Source: event.SourceKeyboard, Event: event.KeyEvent{Key: core.KeyLeft}})
	rec.Notify(event.ScoreChanged{Score: 1})
	rec.Notify(event.GameOver{Game: 1, Score: 5, Ticks: 40, Outcome: snake.HitWall})
	rec.Close()
	rec.Close()

	events, err := store.SessionEvents("rec")
	if err != nil {
		t.Fatalf("SessionEvents() failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("recorded %d events, expected 2 (ticks skipped)", len(events))
	}
	if events[1].Kind != "key:LEFT" || events[1].Source != "keyboard" {
		t.Errorf("second event = %+v", events[1])
	}

	games, err := store.SessionGames("rec")
	if err != nil {
		t.Fatalf("SessionGames() failed: %v", err)
	}
	if len(games) != 1 || games[0].Outcome != "HIT_WALL" || games[0].Score != 5 {
		t.Errorf("SessionGames() = %+v", games)
	}

	sessions, err := store.RecentSessions(1)
	if err != nil {
		t.Fatalf("RecentSessions() failed: %v", err)
	}
	if sessions[0].EndedAt.IsZero() {
		t.Error("Close should end the session")
	}

	// After Close nothing is accepted.
	rec.Notify(event.GameOver{Game: 2})
	if rec.Dropped() != 0 {
		t.Errorf("Dropped() = %d, expected 0", rec.Dropped())
	}
}

func TestStoreConcurrentWriters(t *testing.T) {
	store := openTestStore(t)

	const writers = 8
	const batches = 20
	const batchSize = 64

	for w := 0; w < writers; w++ {
		id := fmt.Sprintf("w%d", w)
		if err := store.StartSession(Session{ID: id, Player: "human", BoardSize: 41, StartedAt: time.Now()}); err != nil {
			t.Fatalf("StartSession(%s) failed: %v", id, err)
		}
	}

	var wg sync.WaitGroup
	errs := make(chan error, writers*batches)
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			var seq uint64
			for b := 0; b < batches; b++ {
				batch := make([]EventRecord, batchSize)
				for i := range batch {
					seq++
					batch[i] = EventRecord{SessionID: id, Seq: seq, Source: "keyboard", Kind: "key:UP", Payload: "{}", ArrivedAt: time.Now()}
				}
				if err := store.AppendEvents(batch); err != nil {
					errs <- err
				}
				if _, err := store.SaveGame(GameRecord{SessionID: id, Game: b + 1, Score: b, Ticks: 10, Outcome: "HIT_WALL"}); err != nil {
					errs <- err
				}
			}
		}(fmt.Sprintf("w%d", w))
	}
	wg.Wait()
	close(errs)

	failed := 0
	for err := range errs {
		if failed == 0 {
			t.Errorf("concurrent write failed: %v", err)
		}
		failed++
	}
	if failed > 0 {
		t.Fatalf("%d concurrent writes failed, expected 0", failed)
	}

	for w := 0; w < writers; w++ {
		id := fmt.Sprintf("w%d", w)
		events, err := store.SessionEvents(id)
		if err != nil {
			t.Fatalf("SessionEvents(%s) failed: %v", id, err)
		}
		if len(events) != batches*batchSize {
			t.Errorf("SessionEvents(%s) = %d records, expected %d", id, len(events), batches*batchSize)
		}
		games, err := store.SessionGames(id)
		if err != nil {
			t.Fatalf("SessionGames(%s) failed: %v", id, err)
		}
		if len(games) != batches {
			t.Errorf("SessionGames(%s) = %d games, expected %d", id, len(games), batches)
		}
	}
}
