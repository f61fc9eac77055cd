package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/db"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/mcdev12/korfscore/go/internal/sqlutil"
)

// Querier defines what the repository needs from the database layer
type Querier interface {
	InsertMatchEvent(ctx context.Context, arg db.InsertMatchEventParams) (db.MatchEvent, error)
	ListMatchEvents(ctx context.Context, gameID uuid.UUID) ([]db.MatchEvent, error)
}

// Repository persists the match timeline.
type Repository struct {
	queries Querier
}

func NewRepository(querier Querier) *Repository {
	return &Repository{
		queries: querier,
	}
}

func (r *Repository) InsertEvent(ctx context.Context, gameID uuid.UUID, eventType models.MatchEventType, period int, details json.RawMessage) (*models.MatchEvent, error) {
	row, err := r.queries.InsertMatchEvent(ctx, db.InsertMatchEventParams{
		GameID:    gameID,
		EventType: string(eventType),
		Period:    int32(period),
		Details:   sqlutil.ToNullRawMessage(details),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to insert match event: %w", err)
	}
	return dbEventToModel(row), nil
}

func (r *Repository) ListEvents(ctx context.Context, gameID uuid.UUID) ([]models.MatchEvent, error) {
	rows, err := r.queries.ListMatchEvents(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match events: %w", err)
	}
	out := make([]models.MatchEvent, len(rows))
	for i, row := range rows {
		out[i] = *dbEventToModel(row)
	}
	return out, nil
}

func dbEventToModel(row db.MatchEvent) *models.MatchEvent {
	return &models.MatchEvent{
		ID:        row.ID,
		GameID:    row.GameID,
		Type:      models.MatchEventType(row.EventType),
		Period:    int(row.Period),
		Details:   sqlutil.FromNullRawMessage(row.Details),
		CreatedAt: row.CreatedAt,
	}
}
