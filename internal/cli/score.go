package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/okian/syncsix/internal/domain/model"
)

type scoreOptions struct {
	players string
	event   string
	date    string
	compact bool
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Rank a player file offline",
		Long: `Score runs the engine on a JSON array of players and prints the ranked
result. The event file is optional; without it (or without a start time in
it) the current date is used.

Example:
  syncsix score --players roster.json --event game.json
  syncsix score --players - --date 2025-10-26 < roster.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, root, opts)
		},
	}
	cmd.Flags().StringVar(&opts.players, "players", "", `players JSON file ("-" for stdin)`)
	cmd.Flags().StringVar(&opts.event, "event", "", "event JSON file")
	cmd.Flags().StringVar(&opts.date, "date", "", "event start, used instead of --event")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "print compact JSON")
	_ = cmd.MarkFlagRequired("players")
	cmd.MarkFlagsMutuallyExclusive("event", "date")
	return cmd
}

func runScore(cmd *cobra.Command, root *rootOptions, opts *scoreOptions) error {
	ctx := cmd.Context()
	cfg, log, err := setup(ctx, root, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	var players []model.RawPlayer
	if err := readJSON(cmd.InOrStdin(), opts.players, &players); err != nil {
		return fmt.Errorf("players: %w", err)
	}

	var event model.Event
	switch {
	case opts.date != "":
		event = model.NewEvent(opts.date)
	case opts.event != "":
		if err := readJSON(cmd.InOrStdin(), opts.event, &event); err != nil {
			return fmt.Errorf("event: %w", err)
		}
	}

	ranked := newEngine(cfg, log.Named("engine")).Run(ctx, players, event)

	enc := json.NewEncoder(cmd.OutOrStdout())
	if !opts.compact {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(ranked)
}

func readJSON(stdin io.Reader, path string, v any) error {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		r = f
	}
	return json.NewDecoder(r).Decode(v)
}
