package korfball_client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/clients"
	"github.com/mcdev12/korfscore/go/internal/models"
)

func TestGetActivePossession_NotFoundIsNil(t *testing.T) {
	gameID := uuid.New()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/games/"+gameID.String()+"/possessions/active" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"active possession not found"}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL).GetActivePossession(context.Background(), gameID)
	if err != nil || p != nil {
		t.Fatalf("got %v, %v; want nil, nil", p, err)
	}
}

func TestGetActivePossession_OtherErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"internal server error"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).GetActivePossession(context.Background(), uuid.New())
	var apiErr *clients.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("err = %v", err)
	}
}

func TestWithToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(models.TimerState{CurrentPeriod: 2, TimeRemaining: 90})
	}))
	defer srv.Close()

	state, err := NewClient(srv.URL).WithToken("s3cret").GetTimer(context.Background(), uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if state.CurrentPeriod != 2 || state.TimeRemaining != 90 {
		t.Errorf("state = %+v", state)
	}
}

func TestTimerActionPaths(t *testing.T) {
	gameID := uuid.New()
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		paths = append(paths, r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()
	c.StartTimer(ctx, gameID)
	c.PauseTimer(ctx, gameID)
	c.NextPeriod(ctx, gameID)
	c.ResetMatch(ctx, gameID)

	base := "/api/games/" + gameID.String() + "/timer/"
	want := []string{base + "start", base + "pause", base + "next-period", base + "reset-match"}
	if len(paths) != len(want) {
		t.Fatalf("paths = %v", paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
		}
	}
}
