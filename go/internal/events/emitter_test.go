package events

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/models"
)

type memStore struct {
	mu     sync.Mutex
	events []models.MatchEvent
	err    error
}

func (s *memStore) InsertEvent(_ context.Context, gameID uuid.UUID, t models.MatchEventType, period int, details json.RawMessage) (*models.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	e := models.MatchEvent{ID: uuid.New(), GameID: gameID, Type: t, Period: period, Details: details}
	s.events = append(s.events, e)
	return &e, nil
}

func (s *memStore) ListEvents(_ context.Context, gameID uuid.UUID) ([]models.MatchEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.MatchEvent
	for _, e := range s.events {
		if e.GameID == gameID {
			out = append(out, e)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	got []models.MatchEvent
	err error
}

func (p *recordingPublisher) Publish(_ context.Context, e models.MatchEvent) error {
	p.got = append(p.got, e)
	return p.err
}

func TestEmit_PersistsThenPublishes(t *testing.T) {
	store := &memStore{}
	failing := &recordingPublisher{err: errors.New("nats down")}
	ok := &recordingPublisher{}
	e := NewEmitter(store, clockwork.NewFakeClock(), failing, ok)

	gameID := uuid.New()
	e.Emit(context.Background(), gameID, models.EventGoalScored, 2, map[string]string{"team": "home"})

	if len(store.events) != 1 {
		t.Fatalf("persisted %d events, want 1", len(store.events))
	}
	if len(ok.got) != 1 || ok.got[0].ID != store.events[0].ID {
		t.Fatalf("publisher after a failing one got %v", ok.got)
	}
	if string(ok.got[0].Details) != `{"team":"home"}` {
		t.Errorf("details = %s", ok.got[0].Details)
	}
}

func TestEmit_PublishesWhenPersistFails(t *testing.T) {
	clock := clockwork.NewFakeClockAt(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	store := &memStore{err: errors.New("db down")}
	pub := &recordingPublisher{}
	e := NewEmitter(store, clock, pub)

	e.Emit(context.Background(), uuid.New(), models.EventTimerPaused, 1, nil)

	if len(pub.got) != 1 {
		t.Fatalf("published %d events, want 1", len(pub.got))
	}
	if !pub.got[0].CreatedAt.Equal(clock.Now()) {
		t.Errorf("CreatedAt = %v, want %v", pub.got[0].CreatedAt, clock.Now())
	}
	if pub.got[0].Details != nil {
		t.Errorf("nil details should stay empty, got %s", pub.got[0].Details)
	}
}

func TestService_ListEvents(t *testing.T) {
	store := &memStore{}
	e := NewEmitter(store, clockwork.NewFakeClock())
	gameID := uuid.New()
	e.Emit(context.Background(), gameID, models.EventTimerStarted, 1, nil)
	e.Emit(context.Background(), uuid.New(), models.EventTimerStarted, 1, nil)

	r := chi.NewRouter()
	r.Route("/api/games/{gameID}/events", NewService(e).Routes)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/"+gameID.String()+"/events", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var got []models.MatchEvent
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Type != models.EventTimerStarted {
		t.Errorf("events = %+v", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/games/"+uuid.NewString()+"/events", nil))
	if rec.Body.String() != "[]\n" {
		t.Errorf("empty timeline body = %q", rec.Body.String())
	}
}
