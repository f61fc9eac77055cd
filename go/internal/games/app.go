// Package games serves matches, their clock and their rosters.
package games

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/internal/apperr"
	"github.com/mcdev12/korfscore/go/internal/lineup"
	"github.com/mcdev12/korfscore/go/internal/models"
	"github.com/mcdev12/korfscore/go/internal/rules"
	"github.com/rs/zerolog/log"
)

// GamesRepository defines what the app layer needs from the repository
type GamesRepository interface {
	CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error)
	GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error)
	ListRunningGames(ctx context.Context) ([]models.Game, error)
	UpdateDetails(ctx context.Context, g *models.Game) (*models.Game, error)
	MutateTimer(ctx context.Context, gameID uuid.UUID, at time.Time, mutate TimerMutation) (*models.Game, error)
	ResetMatch(ctx context.Context, gameID uuid.UUID) (*models.Game, error)
	GetRoster(ctx context.Context, gameID uuid.UUID) (*models.Roster, error)
	SaveRoster(ctx context.Context, gameID uuid.UUID, players []models.LineupPlayer) error
}

// EventEmitter records match events.
type EventEmitter interface {
	Emit(ctx context.Context, gameID uuid.UUID, eventType models.MatchEventType, period int, details interface{})
}

// GameCache holds raw game rows between requests.
type GameCache interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Game, bool)
	Set(ctx context.Context, g *models.Game)
	Invalidate(ctx context.Context, id uuid.UUID)
}

type noCache struct{}

func (noCache) Get(context.Context, uuid.UUID) (*models.Game, bool) {
	return nil, false
}

func (noCache) Set(context.Context, *models.Game) {}

func (noCache) Invalidate(context.Context, uuid.UUID) {}

// App handles game business logic
type App struct {
	repo   GamesRepository
	events EventEmitter
	cache  GameCache
	clock  clockwork.Clock
	rules  rules.Rules
}

// NewApp creates a new games App. cache may be nil.
func NewApp(repo GamesRepository, events EventEmitter, cache GameCache, clock clockwork.Clock, r rules.Rules) *App {
	if cache == nil {
		cache = noCache{}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &App{
		repo:   repo,
		events: events,
		cache:  cache,
		clock:  clock,
		rules:  r,
	}
}

func (a *App) now() time.Time {
	return a.clock.Now().UTC()
}

// CreateGame schedules a game with the configured period structure
func (a *App) CreateGame(ctx context.Context, req CreateGameRequest) (*models.Game, error) {
	if req.NumberOfPeriods == 0 {
		req.NumberOfPeriods = a.rules.Match.NumberOfPeriods
	}
	if req.PeriodDuration == 0 {
		req.PeriodDuration = a.rules.PeriodSeconds()
	}
	if err := validateCreateGameRequest(req); err != nil {
		return nil, err
	}

	game, err := a.repo.CreateGame(ctx, req)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("game_id", game.ID.String()).
		Str("home", game.HomeTeamName).
		Str("away", game.AwayTeamName).
		Msg("game created")
	return Project(game, a.now()), nil
}

// GetGame returns the client view of a game
func (a *App) GetGame(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	game, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return Project(game, a.now()), nil
}

// Invalidate drops the cached copy after a write made outside this app.
func (a *App) Invalidate(ctx context.Context, id uuid.UUID) {
	a.cache.Invalidate(ctx, id)
}

func (a *App) load(ctx context.Context, id uuid.UUID) (*models.Game, error) {
	if game, ok := a.cache.Get(ctx, id); ok {
		return game, nil
	}
	game, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	a.cache.Set(ctx, game)
	return game, nil
}

// UpdateGame applies a patch, enforcing the status lifecycle
func (a *App) UpdateGame(ctx context.Context, id uuid.UUID, req UpdateGameRequest) (*models.Game, error) {
	game, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	from := game.Status

	if req.HomeAttackingSide != nil {
		switch *req.HomeAttackingSide {
		case models.AttackingSideLeft, models.AttackingSideRight, models.AttackingSideUnset:
		default:
			return nil, apperr.Invalid("home_attacking_side must be left or right")
		}
		if game.Status.IsTerminal() && *req.HomeAttackingSide != game.HomeAttackingSide {
			return nil, apperr.Conflict("game is %s", game.Status)
		}
		game.HomeAttackingSide = *req.HomeAttackingSide
	}
	if req.HomeTeamName != nil {
		if *req.HomeTeamName == "" {
			return nil, apperr.Invalid("home_team_name must not be empty")
		}
		game.HomeTeamName = *req.HomeTeamName
	}
	if req.AwayTeamName != nil {
		if *req.AwayTeamName == "" {
			return nil, apperr.Invalid("away_team_name must not be empty")
		}
		game.AwayTeamName = *req.AwayTeamName
	}

	if req.Status != nil && *req.Status != from {
		to := *req.Status
		if !to.Valid() {
			return nil, apperr.Invalid("unknown status %q", to)
		}
		if !canTransition(from, to) {
			return nil, apperr.Transition(string(from), string(to))
		}
		if to == models.GameStatusInProgress {
			if err := a.checkRosterGate(ctx, game); err != nil {
				return nil, err
			}
		}
		if to == models.GameStatusCompleted && game.TimerState != models.TimerStopped {
			if _, err := a.repo.MutateTimer(ctx, id, a.now(), func(g *models.Game) (bool, error) {
				freezeClock(g, a.now(), models.TimerStopped)
				return true, nil
			}); err != nil {
				return nil, err
			}
		}
		game.Status = to
	}

	updated, err := a.repo.UpdateDetails(ctx, game)
	if err != nil {
		return nil, err
	}
	a.cache.Invalidate(ctx, id)

	if updated.Status != from {
		a.events.Emit(ctx, id, models.EventStatusChanged, updated.CurrentPeriod, map[string]models.GameStatus{
			"from": from,
			"to":   updated.Status,
		})
		log.Info().
			Str("game_id", id.String()).
			Str("from", string(from)).
			Str("to", string(updated.Status)).
			Msg("game status changed")
	}
	return Project(updated, a.now()), nil
}

// canTransition encodes scheduled|to_reschedule -> in_progress -> completed,
// with cancellation only before kick-off.
func canTransition(from, to models.GameStatus) bool {
	switch from {
	case models.GameStatusScheduled:
		return to == models.GameStatusToReschedule || to == models.GameStatusInProgress || to == models.GameStatusCancelled
	case models.GameStatusToReschedule:
		return to == models.GameStatusScheduled || to == models.GameStatusInProgress || to == models.GameStatusCancelled
	case models.GameStatusInProgress:
		return to == models.GameStatusCompleted
	}
	return false
}

func (a *App) checkRosterGate(ctx context.Context, game *models.Game) error {
	roster, err := a.repo.GetRoster(ctx, game.ID)
	if err != nil {
		return err
	}
	teams := []struct {
		name string
		id   uuid.UUID
	}{
		{game.HomeTeamName, game.HomeTeamID},
		{game.AwayTeamName, game.AwayTeamID},
	}
	for _, team := range teams {
		if res := lineup.CheckTeamRequirements(roster.ForTeam(team.id), a.rules.Lineup); !res.Valid {
			return apperr.Invalid("%s: %s", team.name, res.Message)
		}
	}
	return nil
}

// GetTimer returns the clock projection of a game
func (a *App) GetTimer(ctx context.Context, id uuid.UUID) (models.TimerState, error) {
	game, err := a.load(ctx, id)
	if err != nil {
		return models.TimerState{}, err
	}
	return TimerOf(game, a.now()), nil
}

// StartTimer starts or resumes the match clock
func (a *App) StartTimer(ctx context.Context, id uuid.UUID) (models.TimerState, error) {
	started := false
	game, err := a.mutateTimer(ctx, id, func(g *models.Game) (bool, error) {
		if g.Status != models.GameStatusInProgress {
			return false, apperr.Conflict("game is %s, not in progress", g.Status)
		}
		if g.TimerState == models.TimerRunning {
			return false, nil
		}
		if g.TimeRemaining <= 0 {
			return false, apperr.Conflict("period %d has ended", g.CurrentPeriod)
		}
		startClock(g, a.now())
		started = true
		return false, nil
	})
	if err != nil {
		return models.TimerState{}, err
	}
	if started {
		a.events.Emit(ctx, id, models.EventTimerStarted, game.CurrentPeriod, map[string]int{"time_remaining": game.TimeRemaining})
	}
	return TimerOf(game, a.now()), nil
}

// PauseTimer freezes the match clock
func (a *App) PauseTimer(ctx context.Context, id uuid.UUID) (models.TimerState, error) {
	paused := false
	game, err := a.mutateTimer(ctx, id, func(g *models.Game) (bool, error) {
		if g.Status.IsTerminal() {
			return false, apperr.Conflict("game is %s", g.Status)
		}
		if g.TimerState != models.TimerRunning {
			return false, nil
		}
		freezeClock(g, a.now(), models.TimerPaused)
		paused = true
		return false, nil
	})
	if err != nil {
		return models.TimerState{}, err
	}
	if paused {
		a.events.Emit(ctx, id, models.EventTimerPaused, game.CurrentPeriod, map[string]int{"time_remaining": game.TimeRemaining})
	}
	return TimerOf(game, a.now()), nil
}

// NextPeriod advances the period, resets the clock and ends the active possession
func (a *App) NextPeriod(ctx context.Context, id uuid.UUID) (models.TimerState, error) {
	game, err := a.mutateTimer(ctx, id, func(g *models.Game) (bool, error) {
		if g.Status.IsTerminal() {
			return false, apperr.Conflict("game is %s", g.Status)
		}
		if g.CurrentPeriod >= g.NumberOfPeriods {
			return false, apperr.Conflict("period %d is the last period", g.CurrentPeriod)
		}
		g.CurrentPeriod++
		g.TimeRemaining = g.PeriodDuration
		g.TimerState = models.TimerStopped
		g.TimerStartedAt = nil
		return true, nil
	})
	if err != nil {
		return models.TimerState{}, err
	}
	a.events.Emit(ctx, id, models.EventPeriodAdvanced, game.CurrentPeriod, nil)
	log.Info().
		Str("game_id", id.String()).
		Int("period", game.CurrentPeriod).
		Msg("period advanced")
	return TimerOf(game, a.now()), nil
}

// ResetMatch wipes scores, shots, possessions and events and rewinds to period 1
func (a *App) ResetMatch(ctx context.Context, id uuid.UUID) (models.TimerState, error) {
	current, err := a.repo.GetGame(ctx, id)
	if err != nil {
		return models.TimerState{}, err
	}
	if current.Status.IsTerminal() {
		return models.TimerState{}, apperr.Conflict("game is %s", current.Status)
	}

	game, err := a.repo.ResetMatch(ctx, id)
	if err != nil {
		return models.TimerState{}, err
	}
	a.cache.Invalidate(ctx, id)
	a.events.Emit(ctx, id, models.EventMatchReset, game.CurrentPeriod, nil)
	log.Warn().Str("game_id", id.String()).Msg("match reset")
	return TimerOf(game, a.now()), nil
}

func (a *App) mutateTimer(ctx context.Context, id uuid.UUID, mutate TimerMutation) (*models.Game, error) {
	game, err := a.repo.MutateTimer(ctx, id, a.now(), mutate)
	if err != nil {
		return nil, err
	}
	a.cache.Invalidate(ctx, id)
	return game, nil
}

// SweepPeriodEnds handles every running game whose clock reached zero:
// its active possession ends and period_ended is emitted once per period.
func (a *App) SweepPeriodEnds(ctx context.Context) (int, error) {
	running, err := a.repo.ListRunningGames(ctx)
	if err != nil {
		return 0, err
	}

	handled := 0
	for i := range running {
		g := &running[i]
		if !periodExpired(g, a.now()) {
			continue
		}
		marked := false
		game, err := a.mutateTimer(ctx, g.ID, func(locked *models.Game) (bool, error) {
			if !periodExpired(locked, a.now()) {
				return false, nil
			}
			locked.PeriodEndHandled = locked.CurrentPeriod
			marked = true
			return true, nil
		})
		if err != nil {
			log.Error().Err(err).Str("game_id", g.ID.String()).Msg("failed to handle period end")
			continue
		}
		if !marked {
			continue
		}
		handled++
		a.events.Emit(ctx, game.ID, models.EventPeriodEnded, game.CurrentPeriod, nil)
		log.Info().
			Str("game_id", game.ID.String()).
			Int("period", game.CurrentPeriod).
			Msg("period ended")
	}
	return handled, nil
}

// GetRoster returns the saved roster of a game
func (a *App) GetRoster(ctx context.Context, id uuid.UUID) (*models.Roster, error) {
	if _, err := a.load(ctx, id); err != nil {
		return nil, err
	}
	return a.repo.GetRoster(ctx, id)
}

// SaveRoster replaces the roster. Lineup rules are enforced at kick-off, not here.
func (a *App) SaveRoster(ctx context.Context, id uuid.UUID, players []models.LineupPlayer) (*models.Roster, error) {
	game, err := a.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.Status.IsTerminal() {
		return nil, apperr.Conflict("game is %s", game.Status)
	}
	if err := validateRoster(game, players); err != nil {
		return nil, err
	}
	if err := a.repo.SaveRoster(ctx, id, players); err != nil {
		return nil, err
	}
	a.events.Emit(ctx, id, models.EventRosterSaved, game.CurrentPeriod, map[string]int{"players": len(players)})
	return a.repo.GetRoster(ctx, id)
}

func validateCreateGameRequest(req CreateGameRequest) error {
	switch {
	case req.HomeTeamID == uuid.Nil || req.AwayTeamID == uuid.Nil:
		return apperr.Invalid("home_team_id and away_team_id are required")
	case req.HomeTeamID == req.AwayTeamID:
		return apperr.Invalid("a team cannot play itself")
	case req.HomeTeamName == "" || req.AwayTeamName == "":
		return apperr.Invalid("home_team_name and away_team_name are required")
	case req.NumberOfPeriods < 1:
		return apperr.Invalid("number_of_periods must be at least 1")
	case req.PeriodDuration < 1:
		return apperr.Invalid("period_duration must be at least 1 second")
	}
	switch req.HomeAttackingSide {
	case models.AttackingSideUnset, models.AttackingSideLeft, models.AttackingSideRight:
	default:
		return apperr.Invalid("home_attacking_side must be left or right")
	}
	return nil
}

func validateRoster(game *models.Game, players []models.LineupPlayer) error {
	seen := make(map[uuid.UUID]bool, len(players))
	for i, p := range players {
		if p.PlayerID == uuid.Nil {
			return apperr.Invalid("players[%d]: player_id is required", i)
		}
		if seen[p.PlayerID] {
			return apperr.Invalid("player %s appears twice in the roster", p.PlayerID)
		}
		seen[p.PlayerID] = true
		if _, ok := game.SideOf(p.TeamID); !ok {
			return apperr.Invalid("players[%d]: team %s does not play in this game", i, p.TeamID)
		}
		if p.Name == "" {
			return apperr.Invalid("players[%d]: name is required", i)
		}
		if !p.Gender.Valid() {
			return apperr.Invalid("players[%d]: gender must be male or female", i)
		}
		switch p.Position {
		case models.LineupPositionNone, models.LineupPositionOffense, models.LineupPositionDefense:
		default:
			return apperr.Invalid("players[%d]: position must be offense or defense", i)
		}
	}
	return nil
}
