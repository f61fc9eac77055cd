package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/apperr"
)

func TestRespondAppError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", fmt.Errorf("create shot: %w", apperr.Invalid("player_id is required")), http.StatusBadRequest, "player_id is required"},
		{"not found", apperr.NotFound("game"), http.StatusNotFound, "game not found"},
		{"conflict", apperr.Conflict("game is completed"), http.StatusConflict, "game is completed"},
		{"transition", apperr.Transition("completed", "scheduled"), http.StatusConflict, "cannot change status from completed to scheduled"},
		{"internal", fmt.Errorf("dial tcp: refused"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/games", nil)
			RespondAppError(rec, req, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.wantMsg {
				t.Errorf("error = %q, want %q", body["error"], tt.wantMsg)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Fortuna"}`))
	if err := DecodeJSON(req, &dst); err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if dst.Name != "Fortuna" {
		t.Errorf("Name = %q", dst.Name)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"unknown":1}`))
	if err := DecodeJSON(req, &dst); StatusFor(err) != http.StatusBadRequest {
		t.Errorf("unknown field: got %v, want validation error", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/", nil)
	if err := DecodeJSON(req, &dst); err != nil {
		t.Errorf("empty body: %v", err)
	}
}

func TestURLUUID(t *testing.T) {
	id := uuid.New()
	r := chi.NewRouter()
	var got uuid.UUID
	var gotErr error
	r.Get("/games/{gameID}", func(w http.ResponseWriter, req *http.Request) {
		got, gotErr = URLUUID(req, "gameID")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/"+id.String(), nil))
	if gotErr != nil || got != id {
		t.Errorf("URLUUID = %v, %v; want %v", got, gotErr, id)
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/games/nope", nil))
	if StatusFor(gotErr) != http.StatusBadRequest {
		t.Errorf("bad id: got %v, want validation error", gotErr)
	}
}
