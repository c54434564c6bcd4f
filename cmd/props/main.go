// Command props is the Scoracle Props command-line client.
//
// Usage:
//
//	scoracle-props games --mode preseason
//	scoracle-props first-event
//	scoracle-props find
//	scoracle-props players --event abc123 --market player_reception_yds
//	scoracle-props matchup --file inputs.json
//	scoracle-props convert american -150
//	scoracle-props convert prob 0.6
//	scoracle-props subscribe someone@example.com
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/scoracle-props/internal/app"
	"github.com/albapepper/scoracle-props/internal/config"
	"github.com/albapepper/scoracle-props/internal/matchup"
	"github.com/albapepper/scoracle-props/internal/odds"
	"github.com/albapepper/scoracle-props/internal/props"
)

var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:          "scoracle-props",
		Short:        "Scoracle NFL prop scoring CLI",
		SilenceUsage: true,
	}

	root.AddCommand(playersCmd())
	root.AddCommand(gamesCmd())
	root.AddCommand(firstEventCmd())
	root.AddCommand(findCmd())
	root.AddCommand(matchupCmd())
	root.AddCommand(convertCmd())
	root.AddCommand(subscribeCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// odds commands
// --------------------------------------------------------------------------

func playersCmd() *cobra.Command {
	var req props.Request
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Score every player in one game's market",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), app.Options{}, func(ctx context.Context, a *app.App) (any, error) {
				return a.Props.Players(ctx, req)
			})
		},
	}
	cmd.Flags().StringVar(&req.EventID, "event", "", "Odds provider event ID")
	cmd.Flags().StringVar(&req.Market, "market", "", "Market key (default player_anytime_td)")
	cmd.Flags().StringVar(&req.Mode, "mode", "", "Schedule (preseason)")
	cmd.Flags().StringVar(&req.Regions, "regions", "", "Bookmaker regions")
	cmd.Flags().StringSliceVar(&req.Books, "books", nil, "Only these bookmakers")
	_ = cmd.MarkFlagRequired("event")
	return cmd
}

func gamesCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "games",
		Short: "List games with spread, total, and implied points",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), app.Options{}, func(ctx context.Context, a *app.App) (any, error) {
				return a.Games.List(ctx, mode)
			})
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "", "Schedule (preseason)")
	return cmd
}

func firstEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "first-event",
		Short: "Show the first upcoming preseason game",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), app.Options{}, func(ctx context.Context, a *app.App) (any, error) {
				return a.Games.FirstEvent(ctx)
			})
		},
	}
}

func findCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "find",
		Short: "Find the first game offering player-prop markets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), app.Options{}, func(ctx context.Context, a *app.App) (any, error) {
				return a.Finder.Find(ctx)
			})
		},
	}
}

// --------------------------------------------------------------------------
// offline commands
// --------------------------------------------------------------------------

func matchupCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "matchup",
		Short: "Score a matchup from a JSON inputs file (- for stdin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var in matchup.Inputs
			if err := json.NewDecoder(r).Decode(&in); err != nil {
				return fmt.Errorf("decode inputs: %w", err)
			}
			blender, err := matchup.NewBlender(matchup.DefaultYardCaps())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), blender.Compute(in))
		},
	}
	cmd.Flags().StringVar(&file, "file", "-", "Inputs JSON file")
	return cmd
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between American odds and implied probability",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "american <price>",
		Short: "American price to implied probability",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			price, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("price must be an integer: %w", err)
			}
			p, err := odds.AmericanToImpliedProbability(price)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.4f\n", p)
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "prob <probability>",
		Short: "Implied probability (0-1) to American price",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("probability must be a number: %w", err)
			}
			price, err := odds.ProbabilityToAmerican(p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%+d\n", price)
			return nil
		},
	})
	return cmd
}

func subscribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Add an email to the Pro waitlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), app.Options{Database: true}, func(ctx context.Context, a *app.App) (any, error) {
				e, err := a.Waitlist.Subscribe(ctx, args[0])
				if err != nil {
					return nil, err
				}
				logger.Info("Subscribed", "email", e.Email, "backend", a.Waitlist.Backend())
				return e, nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, service wiring, and context cancellation, then
// prints fn's result as indented JSON.
func run(out io.Writer, opts app.Options, fn func(ctx context.Context, a *app.App) (any, error)) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := app.Build(ctx, cfg, logger, opts)
	if err != nil {
		return err
	}
	defer a.Close()

	v, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return printJSON(out, v)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
