package possessions

import (
	"time"

	"github.com/google/uuid"
)

// CreatePossessionRequest starts a possession. The server ends any other active one.
type CreatePossessionRequest struct {
	TeamID    uuid.UUID `json:"team_id"`
	Period    int       `json:"period"`
	StartedAt time.Time `json:"started_at"`
}
