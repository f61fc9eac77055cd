package orchestrator

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/korfscore/go/clients"
	"github.com/mcdev12/korfscore/go/internal/live/court"
	"github.com/mcdev12/korfscore/go/internal/live/shots"
	"github.com/mcdev12/korfscore/go/internal/models"
)

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

type harness struct {
	server *fakeServer
	clock  fakeClock
	match  *Match

	mu      sync.Mutex
	effects []string
	errs    []string
}

func newHarness(t *testing.T, mutate func(g *models.Game)) *harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	h := &harness{server: newFakeServer(), clock: clock}
	if mutate != nil {
		mutate(&h.server.game)
	}
	h.match = New(context.Background(), Config{
		GameID: h.server.game.ID,
		API:    h.server,
		Clock:  clock,
		OnEffect: func(name string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.effects = append(h.effects, name)
		},
		OnError: func(msg string) {
			h.mu.Lock()
			defer h.mu.Unlock()
			h.errs = append(h.errs, msg)
		},
	})
	t.Cleanup(h.match.Close)
	if err := h.match.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return h
}

func (h *harness) takeEffects() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := h.effects
	h.effects = nil
	return out
}

func (h *harness) errorMessages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.errs...)
}

// running starts the clock and settles the first home possession.
func (h *harness) running(t *testing.T) {
	t.Helper()
	if err := h.match.StartTimer(); err != nil {
		t.Fatalf("StartTimer() error = %v", err)
	}
	h.match.Wait()
	h.takeEffects()
}

func TestStartTimer_FirstStartGivesHomePossession(t *testing.T) {
	h := newHarness(t, nil)

	if err := h.match.StartTimer(); err != nil {
		t.Fatalf("StartTimer() error = %v", err)
	}
	if !h.match.Timer().State().Running() {
		t.Error("timer not running immediately after StartTimer")
	}
	active := h.match.Possessions().Active()
	if active == nil || active.TeamID != h.server.game.HomeTeamID {
		t.Fatalf("Active() = %+v, want home possession", active)
	}
	h.match.Wait()

	if got := h.takeEffects(); !reflect.DeepEqual(got, []string{"start timer", "start possession"}) {
		t.Errorf("effects = %v", got)
	}
	if h.server.called("CreatePossession") != 1 {
		t.Errorf("CreatePossession called %d times, want 1", h.server.called("CreatePossession"))
	}
}

func TestStartTimer_ResumeDoesNotGrantPossession(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	if err := h.match.SwitchPossession(models.TeamSideAway); err != nil {
		t.Fatalf("SwitchPossession() error = %v", err)
	}
	if err := h.match.PauseTimer(); err != nil {
		t.Fatalf("PauseTimer() error = %v", err)
	}
	h.match.Wait()

	if err := h.match.StartTimer(); err != nil {
		t.Fatalf("StartTimer() error = %v", err)
	}
	h.match.Wait()
	if active := h.match.Possessions().Active(); active == nil || active.TeamID != h.server.game.AwayTeamID {
		t.Errorf("Active() = %+v, want away possession kept", active)
	}
	if n := h.server.called("CreatePossession"); n != 2 {
		t.Errorf("CreatePossession called %d times, want 2", n)
	}
}

func TestRecordShot_GoalSequencing(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	home := h.match.Possessions().Active()
	homePossession, _ := home.Ref.ServerID()

	// Home attacks the left half.
	entry, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultGoal, ShotType: models.ShotTypeRunning})
	if err != nil {
		t.Fatalf("RecordShot() error = %v", err)
	}
	if entry.TeamID != h.server.game.HomeTeamID {
		t.Errorf("shot team = %v, want home", entry.TeamID)
	}

	want := []string{"increment possession shots", "pause timer", "start possession", "bump score"}
	if got := h.takeEffects(); !reflect.DeepEqual(got, want) {
		t.Fatalf("effects = %v, want %v", got, want)
	}
	if s := h.match.Timer().State(); s.TimerState != models.TimerPaused {
		t.Errorf("timer = %s immediately after goal, want paused", s.TimerState)
	}
	active := h.match.Possessions().Active()
	if active == nil || active.TeamID != h.server.game.AwayTeamID || active.ShotsTaken != 0 {
		t.Fatalf("Active() = %+v, want away possession with 0 shots", active)
	}
	if g := h.match.Game(); g.HomeScore != 1 {
		t.Errorf("HomeScore = %d immediately after goal, want 1", g.HomeScore)
	}

	h.match.Wait()

	h.server.mu.Lock()
	var oldShots int
	for _, p := range h.server.possessions {
		if p.ID == homePossession {
			oldShots = p.ShotsTaken
		}
	}
	status := h.server.game.TimerState
	h.server.mu.Unlock()
	if oldShots != 1 {
		t.Errorf("home possession shots on server = %d, want 1", oldShots)
	}
	if status != models.TimerPaused {
		t.Errorf("server timer = %s, want paused", status)
	}
	if g := h.match.Game(); g.HomeScore != 1 {
		t.Errorf("HomeScore after confirmation = %d, want 1", g.HomeScore)
	}
	if list := h.match.Shots().Shots(); len(list) != 1 || list[0].Ref.IsPending() {
		t.Errorf("Shots() = %+v, want one confirmed shot", list)
	}
}

func TestRecordShot_MissKeepsPossessionAndClock(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)

	if _, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 25, Y: 40, Result: models.ShotResultMiss}); err != nil {
		t.Fatalf("RecordShot() error = %v", err)
	}
	if got := h.takeEffects(); !reflect.DeepEqual(got, []string{"increment possession shots"}) {
		t.Errorf("effects = %v", got)
	}
	h.match.Wait()
	if !h.match.Timer().State().Running() {
		t.Error("timer paused by a miss")
	}
	if a := h.match.Possessions().Active(); a == nil || a.ShotsTaken != 1 || a.TeamID != h.server.game.HomeTeamID {
		t.Errorf("Active() = %+v, want home possession with 1 shot", a)
	}
}

func TestRecordShot_FailedPauseDoesNotUndoPossessionSwitch(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	h.server.failures["PauseTimer"] = &clients.APIError{Status: 409, Message: "timer is not running"}

	if _, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 80, Y: 50, Result: models.ShotResultGoal}); err != nil {
		t.Fatalf("RecordShot() error = %v", err)
	}
	h.match.Wait()

	if !h.match.Timer().State().Running() {
		t.Error("timer pause not rolled back after failure")
	}
	if a := h.match.Possessions().Active(); a == nil || a.TeamID != h.server.game.HomeTeamID {
		t.Errorf("Active() = %+v, want home possession after away goal", a)
	}
	if msgs := h.errorMessages(); len(msgs) != 1 || h.match.LastError() == "" {
		t.Errorf("errors = %v, LastError = %q; want one surfaced message", msgs, h.match.LastError())
	}
}

func TestRecordShot_AttackingSideUnset(t *testing.T) {
	h := newHarness(t, func(g *models.Game) { g.HomeAttackingSide = models.AttackingSideUnset })
	_, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultMiss})
	if !errors.Is(err, court.ErrAttackingSideUnset) {
		t.Errorf("RecordShot() error = %v, want ErrAttackingSideUnset", err)
	}
	if h.server.called("CreateShot") != 0 {
		t.Error("shot sent despite unresolved team")
	}
}

func TestRecordShot_UnknownTeamOverride(t *testing.T) {
	h := newHarness(t, nil)
	_, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultMiss, TeamID: uuid.New()})
	if !errors.Is(err, ErrUnknownTeam) {
		t.Errorf("RecordShot() error = %v, want ErrUnknownTeam", err)
	}
}

func TestRecordShot_RejectedWhilePaused(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	if err := h.match.PauseTimer(); err != nil {
		t.Fatalf("PauseTimer() error = %v", err)
	}
	h.match.Wait()
	h.takeEffects()

	_, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultGoal})
	if !errors.Is(err, shots.ErrTimerPaused) {
		t.Fatalf("RecordShot() error = %v, want ErrTimerPaused", err)
	}
	h.match.Wait()
	if got := h.takeEffects(); len(got) != 0 {
		t.Errorf("effects = %v, want none", got)
	}
	if h.server.called("CreateShot") != 0 {
		t.Error("shot sent while the clock was paused")
	}
	if g := h.match.Game(); g.HomeScore != 0 {
		t.Errorf("HomeScore = %d, want 0", g.HomeScore)
	}
}

func TestRecordShot_PeriodEndNeedsAcknowledgement(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	h.clock.Advance(1500 * time.Second)
	h.match.Timer().Tick()
	if !h.match.Timer().PeriodHasEnded() {
		t.Fatal("period end not detected")
	}

	req := ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultMiss}
	if _, err := h.match.RecordShot(req); !errors.Is(err, ErrPeriodEnded) {
		t.Fatalf("RecordShot() error = %v, want ErrPeriodEnded", err)
	}
	if h.server.called("CreateShot") != 0 {
		t.Error("shot sent after the period ended")
	}

	h.match.Timer().ResetPeriodEnd()
	if _, err := h.match.RecordShot(req); err != nil {
		t.Fatalf("RecordShot() after acknowledgement error = %v", err)
	}
	h.match.Wait()
	if n := h.server.called("CreateShot"); n != 1 {
		t.Errorf("CreateShot called %d times, want 1", n)
	}
}

func TestNextPeriod_ClearsPossession(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	h.clock.Advance(20 * time.Second)
	if d := h.match.Possessions().Duration(); d != 20*time.Second {
		t.Fatalf("Duration() = %v, want 20s", d)
	}

	if err := h.match.NextPeriod(); err != nil {
		t.Fatalf("NextPeriod() error = %v", err)
	}
	if a := h.match.Possessions().Active(); a != nil {
		t.Errorf("Active() = %+v right after NextPeriod, want nil", a)
	}
	if d := h.match.Possessions().Duration(); d != 0 {
		t.Errorf("Duration() = %v right after NextPeriod, want 0", d)
	}
	s := h.match.Timer().State()
	if s.CurrentPeriod != 2 || s.TimerState != models.TimerStopped || s.TimeRemaining != 1500 {
		t.Errorf("timer = %+v, want period 2 stopped at 1500", s)
	}

	h.match.Wait()
	if err := h.match.NextPeriod(); !errors.Is(err, ErrLastPeriod) {
		t.Errorf("NextPeriod() in last period error = %v, want ErrLastPeriod", err)
	}
}

func TestResetMatch(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)
	if _, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultGoal}); err != nil {
		t.Fatalf("RecordShot() error = %v", err)
	}
	h.match.Wait()

	if err := h.match.ResetMatch(); err != nil {
		t.Fatalf("ResetMatch() error = %v", err)
	}
	if a := h.match.Possessions().Active(); a != nil {
		t.Errorf("Active() = %+v, want nil", a)
	}
	if n := len(h.match.Shots().Shots()); n != 0 {
		t.Errorf("%d shots after reset", n)
	}
	if g := h.match.Game(); g.HomeScore != 0 || g.AwayScore != 0 {
		t.Errorf("score = %d-%d after reset", g.HomeScore, g.AwayScore)
	}
	h.match.Wait()
	s := h.match.Timer().State()
	if s.CurrentPeriod != 1 || s.TimerState != models.TimerStopped {
		t.Errorf("timer = %+v, want period 1 stopped", s)
	}
	if h.server.called("ResetMatch") != 1 {
		t.Error("ResetMatch not sent")
	}
}

func TestEndGame_IsTerminal(t *testing.T) {
	h := newHarness(t, nil)
	h.running(t)

	if err := h.match.EndGame(context.Background()); err != nil {
		t.Fatalf("EndGame() error = %v", err)
	}
	if !h.match.Ended() {
		t.Fatal("Ended() = false after EndGame")
	}

	creates := h.server.called("CreateShot")
	if _, err := h.match.RecordShot(ShotRequest{PlayerID: uuid.New(), X: 20, Y: 50, Result: models.ShotResultGoal}); !errors.Is(err, ErrMatchEnded) {
		t.Errorf("RecordShot() error = %v, want ErrMatchEnded", err)
	}
	if err := h.match.SwitchPossession(models.TeamSideAway); !errors.Is(err, ErrMatchEnded) {
		t.Errorf("SwitchPossession() error = %v, want ErrMatchEnded", err)
	}
	if err := h.match.StartTimer(); !errors.Is(err, ErrMatchEnded) {
		t.Errorf("StartTimer() error = %v, want ErrMatchEnded", err)
	}
	if err := h.match.EndGame(context.Background()); !errors.Is(err, ErrMatchEnded) {
		t.Errorf("second EndGame() error = %v, want ErrMatchEnded", err)
	}
	h.match.Wait()
	if h.server.called("CreateShot") != creates {
		t.Error("shot sent after the match ended")
	}
}

func TestEndGame_FailureKeepsMatchOpen(t *testing.T) {
	h := newHarness(t, nil)
	h.server.failures["UpdateGameStatus"] = &clients.APIError{Status: 409, Message: "invalid status transition"}

	if err := h.match.EndGame(context.Background()); err == nil {
		t.Fatal("EndGame() error = nil, want error")
	}
	if h.match.Ended() {
		t.Error("Ended() = true after failed EndGame")
	}
	if h.match.LastError() == "" {
		t.Error("failure not surfaced")
	}
}

func TestLoad_CompletedGameIsEnded(t *testing.T) {
	h := newHarness(t, func(g *models.Game) { g.Status = models.GameStatusCompleted })
	if !h.match.Ended() {
		t.Error("Ended() = false for a completed game")
	}
	if err := h.match.StartTimer(); !errors.Is(err, ErrMatchEnded) {
		t.Errorf("StartTimer() error = %v, want ErrMatchEnded", err)
	}
}

func TestRefresh_KeepsStateOnFailure(t *testing.T) {
	h := newHarness(t, nil)
	h.server.failures["GetGame"] = errors.New("connection reset")

	if err := h.match.Refresh(context.Background()); err == nil {
		t.Fatal("Refresh() error = nil, want joined error")
	}
	if g := h.match.Game(); g == nil || g.HomeTeamName != "Fortuna" {
		t.Errorf("Game() = %+v, want last known game", g)
	}
}
