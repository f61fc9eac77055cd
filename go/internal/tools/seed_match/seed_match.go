package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/korfscore/go/internal/dbconfig"
)

func main() {
	path := flag.String("fixture", "go/internal/tools/seed_match/match.yaml", "match fixture (YAML)")
	flag.Parse()

	_ = godotenv.Load()

	fixture, err := loadFixture(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	seed, err := fixture.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid fixture: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	cfg, err := dbconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	inserted, err := write(ctx, pool, seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("game %s (%s vs %s)\n", seed.Game.ID, seed.Game.HomeTeamName, seed.Game.AwayTeamName)
	fmt.Printf("players: total=%d inserted=%d skipped=%d\n",
		len(seed.Players), inserted, len(seed.Players)-inserted)
}

// write inserts the game and its roster in one transaction. Existing rows are kept.
func write(ctx context.Context, pool *pgxpool.Pool, seed *SeedGame) (int, error) {
	inserted := 0
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		g := seed.Game
		if _, err := tx.Exec(ctx, `
            INSERT INTO games (
              id, home_team_id, away_team_id, home_team_name, away_team_name,
              number_of_periods, period_duration, time_remaining, timer_state, status
            ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
            ON CONFLICT (id) DO NOTHING
        `,
			g.ID.String(), g.HomeTeamID.String(), g.AwayTeamID.String(), g.HomeTeamName, g.AwayTeamName,
			g.NumberOfPeriods, g.PeriodDuration, g.TimeRemaining, string(g.TimerState), string(g.Status),
		); err != nil {
			return fmt.Errorf("insert game: %w", err)
		}

		batch := &pgx.Batch{}
		for _, p := range seed.Players {
			batch.Queue(`
                INSERT INTO roster_players (
                  game_id, player_id, team_id, name, gender, position, selected, is_captain
                ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
                ON CONFLICT (game_id, player_id) DO NOTHING
            `,
				g.ID.String(), p.PlayerID.String(), p.TeamID.String(), p.Name,
				string(p.Gender), string(p.Position), p.Selected, p.IsCaptain,
			)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()
		for _, p := range seed.Players {
			tag, err := results.Exec()
			if err != nil {
				return fmt.Errorf("insert player %s: %w", p.Name, err)
			}
			if tag.RowsAffected() == 1 {
				inserted++
			}
		}
		return results.Close()
	})
	return inserted, err
}
