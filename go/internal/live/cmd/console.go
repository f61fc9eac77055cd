package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mcdev12/korfscore/go/internal/lineup"
	"github.com/mcdev12/korfscore/go/internal/live/court"
	"github.com/mcdev12/korfscore/go/internal/live/orchestrator"
	"github.com/mcdev12/korfscore/go/internal/models"
)

const helpText = `commands:
  start | pause                          run or pause the match clock
  shot <goal|miss|blocked> <player> <x> <y> [type]
                                         record a shot at court position x,y (0-100)
  switch <home|away>                     hand possession to a team
  delete <n>                             delete shot n from the list
  shots                                  list recorded shots
  lineup                                 submit the saved roster and start the match
  next                                   advance to the next period
  continue                               keep recording after the period ended
  reset confirm                          wipe the match back to the first period
  end                                    mark the match completed
  status | help | quit`

type console struct {
	match   *orchestrator.Match
	players []models.LineupPlayer

	mu  sync.Mutex
	out io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) printf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

func (c *console) prompt() {
	c.printf("> ")
}

func (c *console) loadRoster(ctx context.Context) error {
	roster, err := c.match.SavedLineup(ctx)
	if err != nil {
		return err
	}
	c.players = roster.Players
	return nil
}

type command struct {
	name string
	args []string
}

func parseCommand(line string) (command, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, false
	}
	return command{name: strings.ToLower(fields[0]), args: fields[1:]}, true
}

// shotArgs is a parsed `shot` command before the player is resolved.
type shotArgs struct {
	result   models.ShotResult
	player   string
	x, y     float64
	shotType string
}

func parseShot(args []string) (shotArgs, error) {
	if len(args) < 4 {
		return shotArgs{}, errors.New("usage: shot <goal|miss|blocked> <player> <x> <y> [type]")
	}
	result := models.ShotResult(strings.ToLower(args[0]))
	if !result.Valid() {
		return shotArgs{}, fmt.Errorf("unknown result %q", args[0])
	}
	// Player names may contain spaces; x and y are the last two numbers
	// before an optional type.
	rest := args[1:]
	shotType := models.ShotTypeRunning
	if _, err := strconv.ParseFloat(rest[len(rest)-1], 64); err != nil {
		shotType = rest[len(rest)-1]
		rest = rest[:len(rest)-1]
	}
	if len(rest) < 3 {
		return shotArgs{}, errors.New("usage: shot <goal|miss|blocked> <player> <x> <y> [type]")
	}
	x, err := strconv.ParseFloat(rest[len(rest)-2], 64)
	if err != nil {
		return shotArgs{}, fmt.Errorf("invalid x %q", rest[len(rest)-2])
	}
	y, err := strconv.ParseFloat(rest[len(rest)-1], 64)
	if err != nil {
		return shotArgs{}, fmt.Errorf("invalid y %q", rest[len(rest)-1])
	}
	return shotArgs{
		result:   result,
		player:   strings.Join(rest[:len(rest)-2], " "),
		x:        x,
		y:        y,
		shotType: shotType,
	}, nil
}

func parseSide(arg string) (models.TeamSide, error) {
	switch strings.ToLower(arg) {
	case "home", "h":
		return models.TeamSideHome, nil
	case "away", "a":
		return models.TeamSideAway, nil
	}
	return "", fmt.Errorf("unknown side %q, use home or away", arg)
}

// resolvePlayer accepts a player id or a fuzzy name from the saved roster.
func resolvePlayer(query string, players []models.LineupPlayer) (models.LineupPlayer, error) {
	if id, err := uuid.Parse(query); err == nil {
		for _, p := range players {
			if p.PlayerID == id {
				return p, nil
			}
		}
		return models.LineupPlayer{PlayerID: id}, nil
	}
	var selected []models.LineupPlayer
	for _, p := range players {
		if p.Selected {
			selected = append(selected, p)
		}
	}
	p, ok := lineup.FindPlayer(query, selected)
	if !ok {
		return models.LineupPlayer{}, fmt.Errorf("no selected player matches %q", query)
	}
	return p, nil
}

// shotTeam picks the team credited with a shot at x. The court half decides;
// the player's own team is only used when the attacking side is not set yet.
// A non-empty warning means the two disagree.
func shotTeam(game *models.Game, player models.LineupPlayer, x float64) (uuid.UUID, string, error) {
	if game == nil {
		return player.TeamID, "", nil
	}
	teamID, err := court.ResolveTeam(game, x)
	if err != nil {
		if player.TeamID != uuid.Nil {
			return player.TeamID, "", nil
		}
		return uuid.Nil, "", err
	}
	if player.TeamID == uuid.Nil || player.TeamID == teamID {
		return teamID, "", nil
	}
	side, _ := game.SideOf(teamID)
	return teamID, fmt.Sprintf("%s is not on the team attacking that half, crediting %s", displayName(player), teamName(game, side)), nil
}

func teamName(game *models.Game, side models.TeamSide) string {
	if side == models.TeamSideHome {
		return game.HomeTeamName
	}
	return game.AwayTeamName
}

func (c *console) execute(ctx context.Context, line string) (quit bool, err error) {
	cmd, ok := parseCommand(line)
	if !ok {
		return false, nil
	}

	switch cmd.name {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		c.printf("%s\n", helpText)
	case "status":
		c.printStatus()
	case "start":
		return false, c.match.StartTimer()
	case "pause":
		return false, c.match.PauseTimer()
	case "shot":
		args, err := parseShot(cmd.args)
		if err != nil {
			return false, err
		}
		player, err := resolvePlayer(args.player, c.players)
		if err != nil {
			return false, err
		}
		teamID, warning, err := shotTeam(c.match.Game(), player, args.x)
		if err != nil {
			return false, err
		}
		entry, err := c.match.RecordShot(orchestrator.ShotRequest{
			PlayerID: player.PlayerID,
			X:        args.x,
			Y:        args.y,
			Result:   args.result,
			ShotType: args.shotType,
			TeamID:   teamID,
		})
		if err != nil {
			return false, err
		}
		if warning != "" {
			c.printf("warning: %s\n", warning)
		}
		c.printf("%s by %s from %.1fm\n", entry.Result, displayName(player), entry.Distance)
	case "switch":
		if len(cmd.args) != 1 {
			return false, errors.New("usage: switch <home|away>")
		}
		side, err := parseSide(cmd.args[0])
		if err != nil {
			return false, err
		}
		return false, c.match.SwitchPossession(side)
	case "delete":
		if len(cmd.args) != 1 {
			return false, errors.New("usage: delete <n>")
		}
		n, err := strconv.Atoi(cmd.args[0])
		list := c.match.Shots().Shots()
		if err != nil || n < 1 || n > len(list) {
			return false, fmt.Errorf("no shot %q", cmd.args[0])
		}
		return false, c.match.Shots().Delete(list[n-1].Ref)
	case "shots":
		c.printShots()
	case "lineup":
		if err := c.loadRoster(ctx); err != nil {
			return false, err
		}
		if err := c.match.SubmitLineup(ctx, c.players); err != nil {
			return false, err
		}
		c.printf("lineup accepted, match in progress\n")
	case "next":
		return false, c.match.NextPeriod()
	case "continue":
		c.match.Timer().ResetPeriodEnd()
	case "reset":
		if len(cmd.args) != 1 || strings.ToLower(cmd.args[0]) != "confirm" {
			return false, errors.New("reset wipes every shot and possession, type `reset confirm` to proceed")
		}
		return false, c.match.ResetMatch()
	case "end":
		if err := c.match.EndGame(ctx); err != nil {
			return false, err
		}
		c.printStatus()
	default:
		return false, fmt.Errorf("unknown command %q, try help", cmd.name)
	}
	return false, nil
}

func (c *console) printStatus() {
	game := c.match.Game()
	if game == nil {
		c.printf("match not loaded\n")
		return
	}
	timer := c.match.Timer().State()
	c.printf("%s %d - %d %s | %s | period %d/%d %s %s\n",
		game.HomeTeamName, game.HomeScore, game.AwayScore, game.AwayTeamName,
		game.Status, timer.CurrentPeriod, timer.NumberOfPeriods,
		clockString(timer.TimeRemaining), timer.TimerState)

	if active := c.match.Possessions().Active(); active != nil {
		side, _ := game.SideOf(active.TeamID)
		pending := ""
		if active.Ref.IsPending() {
			pending = " (saving)"
		}
		c.printf("possession: %s for %s, %d shots%s\n",
			side, c.match.Possessions().Duration().Truncate(time.Second), active.ShotsTaken, pending)
	}
	if c.match.Timer().PeriodHasEnded() {
		c.printf("period has ended\n")
	}
	if msg := c.match.LastError(); msg != "" {
		c.printf("last error: %s\n", msg)
	}
}

func (c *console) printShots() {
	game := c.match.Game()
	for i, s := range c.match.Shots().Shots() {
		side := ""
		if game != nil {
			if sd, ok := game.SideOf(s.TeamID); ok {
				side = string(sd)
			}
		}
		name := s.PlayerID.String()
		for _, p := range c.players {
			if p.PlayerID == s.PlayerID {
				name = displayName(p)
			}
		}
		c.printf("%2d. P%d %-4s %-7s %-14s %5.1fm %s\n", i+1, s.Period, side, s.Result, s.ShotType, s.Distance, name)
	}
}

func clockString(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func displayName(p models.LineupPlayer) string {
	if p.Name != "" {
		return p.Name
	}
	return p.PlayerID.String()
}
