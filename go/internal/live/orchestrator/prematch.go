package orchestrator

import (
	"context"
	"fmt"

	"github.com/mcdev12/korfscore/go/internal/lineup"
	"github.com/mcdev12/korfscore/go/internal/live/retry"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/rs/zerolog/log"
)

// LineupError reports the first team whose lineup fails the match rules.
type LineupError struct {
	Team   string
	Result lineup.Result
}

func (e *LineupError) Error() string {
	return fmt.Sprintf("%s: %s", e.Team, e.Result.Message)
}

// CheckLineup validates both teams' selections without contacting the server.
func (m *Match) CheckLineup(players []models.LineupPlayer) error {
	game := m.Game()
	if game == nil {
		return ErrNotLoaded
	}
	roster := models.Roster{GameID: m.gameID, Players: players}
	teams := []struct {
		name string
		side models.TeamSide
	}{
		{game.HomeTeamName, models.TeamSideHome},
		{game.AwayTeamName, models.TeamSideAway},
	}
	for _, team := range teams {
		res := lineup.CheckTeamRequirements(roster.ForTeam(game.TeamID(team.side)), m.rules)
		if !res.Valid {
			name := team.name
			if name == "" {
				name = string(team.side)
			}
			return &LineupError{Team: name, Result: res}
		}
	}
	return nil
}

// SubmitLineup validates the lineup, saves it and moves the match to
// in_progress. Nothing is sent when validation fails.
func (m *Match) SubmitLineup(ctx context.Context, players []models.LineupPlayer) error {
	game := m.Game()
	if game == nil {
		return ErrNotLoaded
	}
	if m.Ended() {
		return ErrMatchEnded
	}
	if !game.Status.IsPreMatch() {
		return ErrNotPreMatch
	}
	if err := m.CheckLineup(players); err != nil {
		return err
	}

	policy := m.disp.Policy()
	if _, err := retry.Do(ctx, policy, "save roster", func(ctx context.Context) (*models.Roster, error) {
		return m.api.SaveRoster(ctx, m.gameID, players)
	}); err != nil {
		return fmt.Errorf("failed to save roster: %w", err)
	}

	updated, err := retry.Do(ctx, policy, "start match", func(ctx context.Context) (*models.Game, error) {
		return m.api.UpdateGameStatus(ctx, m.gameID, models.GameStatusInProgress)
	})
	if err != nil {
		return fmt.Errorf("failed to start match: %w", err)
	}
	m.setGame(updated)
	log.Info().Str("game_id", m.gameID.String()).Int("players", len(players)).Msg("lineup submitted, match in progress")
	return nil
}

// SavedLineup returns the roster stored on the server.
func (m *Match) SavedLineup(ctx context.Context) (*models.Roster, error) {
	return retry.Do(ctx, m.disp.Policy(), "get roster", func(ctx context.Context) (*models.Roster, error) {
		return m.api.GetRoster(ctx, m.gameID)
	})
}
