package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"endgame/backend/internal/models"
	"endgame/backend/internal/storage"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:  "admin",
		Usage: "inspect game history and live broker state",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "dsn",
				Usage:   "Postgres DSN of the game history database",
				Sources: cli.EnvVars("POSTGRES_DSN"),
			},
			&cli.StringFlag{
				Name:    "redis",
				Usage:   "Redis address of the waiting pool mirror and event feed",
				Sources: cli.EnvVars("REDIS_ADDRESS"),
			},
			&cli.StringFlag{
				Name:    "redis-password",
				Sources: cli.EnvVars("REDIS_PASSWORD"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "game",
				Usage:     "show a game and its moves",
				ArgsUsage: "<game_id>",
				Action: withStorage(func(ctx context.Context, cmd *cli.Command, s *storage.Service) error {
					gameID := cmd.Args().First()
					if gameID == "" {
						return errors.New("usage: admin game <game_id>")
					}
					return showGame(ctx, out, s, gameID)
				}),
			},
			{
				Name:      "history",
				Usage:     "list a player's recent games",
				ArgsUsage: "<player_id>",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum number of games"},
				},
				Action: withStorage(func(ctx context.Context, cmd *cli.Command, s *storage.Service) error {
					playerID := cmd.Args().First()
					if playerID == "" {
						return errors.New("usage: admin history <player_id>")
					}
					games, err := s.GetGamesForPlayer(ctx, playerID, int(cmd.Int("limit")))
					if err != nil {
						return err
					}
					return printGames(out, games)
				}),
			},
			{
				Name:  "active",
				Usage: "list games recorded as in progress",
				Action: withStorage(func(ctx context.Context, _ *cli.Command, s *storage.Service) error {
					ids, err := s.GetActiveGameIDs(ctx)
					if err != nil {
						return err
					}
					return printLines(out, ids, "no active games")
				}),
			},
			{
				Name:  "waiting",
				Usage: "list players waiting for an opponent",
				Action: withStorage(func(ctx context.Context, _ *cli.Command, s *storage.Service) error {
					ids, err := s.GetWaitingPlayers(ctx)
					if err != nil {
						return err
					}
					return printLines(out, ids, "nobody is waiting")
				}),
			},
			{
				Name:  "watch",
				Usage: "print game events as they happen until interrupted",
				Action: withStorage(func(ctx context.Context, _ *cli.Command, s *storage.Service) error {
					enc := json.NewEncoder(out)
					return s.WatchGames(ctx, func(ev models.GameEvent) {
						enc.Encode(ev)
					}, func(err error) {
						fmt.Fprintln(os.Stderr, "skipping event:", err)
					})
				}),
			},
			{
				Name:  "close-stale",
				Usage: "abort games left active by a server that is no longer running",
				Action: withStorage(func(ctx context.Context, _ *cli.Command, s *storage.Service) error {
					n, err := s.CloseStaleGames(ctx)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "aborted %d game(s)\n", n)
					return nil
				}),
			},
		},
	}
}

type storageAction func(ctx context.Context, cmd *cli.Command, s *storage.Service) error

// withStorage connects to the configured backends for the duration of one command.
func withStorage(action storageAction) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		s, err := storage.Connect(connectCtx, storage.Options{
			PostgresDSN:   cmd.String("dsn"),
			RedisAddress:  cmd.String("redis"),
			RedisPassword: cmd.String("redis-password"),
		})
		if err != nil {
			return err
		}
		defer s.Close()

		return action(ctx, cmd, s)
	}
}

func showGame(ctx context.Context, out io.Writer, s storage.Storage, gameID string) error {
	game, err := s.GetGameByID(ctx, gameID)
	if err != nil {
		return err
	}
	moves, err := s.GetMovesForGame(ctx, gameID)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "game     %s (%s)\n", game.GameID, game.Variant)
	fmt.Fprintf(out, "first    %s\nsecond   %s\n", game.FirstPlayerID, game.SecondPlayerID)
	fmt.Fprintf(out, "status   %s %s\n", game.Status, game.Outcome)
	fmt.Fprintf(out, "started  %s\n", game.StartedAt.Format(time.RFC3339))
	if game.EndedAt != nil {
		fmt.Fprintf(out, "ended    %s\n", game.EndedAt.Format(time.RFC3339))
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\nPLY\tROLE\tACTION")
	for _, m := range moves {
		fmt.Fprintf(w, "%d\t%s\t%s\n", m.Ply, m.Role, m.Action)
	}
	return w.Flush()
}

func printGames(out io.Writer, games []models.GameRecord) error {
	if len(games) == 0 {
		fmt.Fprintln(out, "no games")
		return nil
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GAME\tVARIANT\tSTATUS\tOUTCOME\tPLIES\tSTARTED")
	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%s\n",
			g.GameID, g.Variant, g.Status, g.Outcome, g.Plies, g.StartedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func printLines(out io.Writer, lines []string, empty string) error {
	if len(lines) == 0 {
		_, err := fmt.Fprintln(out, empty)
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(out, l); err != nil {
			return err
		}
	}
	return nil
}
