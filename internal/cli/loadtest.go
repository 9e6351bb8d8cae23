package cli

import (
	"context"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/syncsix/internal/loadtest"
)

const (
	defaultLoadRequests = 1000
	defaultLoadPlayers  = 53
	defaultLoadTimeout  = 30 * time.Second
	defaultLoadRun      = 10 * time.Minute
)

func newLoadTestCmd(root *rootOptions) *cobra.Command {
	cfg := &loadtest.Config{}
	var runTimeout time.Duration

	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Send generated rosters to a running service and verify the rankings",
		Long: `Loadtest posts random rosters to /api/sync with several concurrent senders
and checks that every answer is ordered, bounded, rounded and filtered.

Example:
  syncsix loadtest --url http://localhost:3000 --requests 5000 --workers 16`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			appCfg, log, err := setup(ctx, root, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			cfg.MaxScore = appCfg.MaxScore
			cfg.MinScore = appCfg.MinScore
			cfg.MinHits = appCfg.MinHits

			ctx, cancel := context.WithTimeout(ctx, runTimeout)
			defer cancel()
			stats, err := loadtest.Run(ctx, cfg, log)
			if stats != nil {
				cmd.Printf("submitted=%d successful=%d failed=%d ranked=%d violations=%d duration=%s\n",
					stats.Submitted, stats.Successful, stats.Failed, stats.Ranked, stats.Violations, stats.Duration)
			}
			return err
		},
	}

	f := cmd.Flags()
	f.StringVar(&cfg.BaseURL, "url", "http://localhost:3000", "base URL of the service")
	f.IntVar(&cfg.Requests, "requests", defaultLoadRequests, "number of sync requests")
	f.IntVar(&cfg.Players, "players", defaultLoadPlayers, "players per roster")
	f.IntVar(&cfg.Workers, "workers", runtime.NumCPU()*2, "concurrent senders")
	f.DurationVar(&cfg.Timeout, "timeout", defaultLoadTimeout, "HTTP request timeout")
	f.DurationVar(&runTimeout, "run-timeout", defaultLoadRun, "overall run timeout")
	f.StringVar(&cfg.Date, "date", time.Now().UTC().Format("2006-01-02"), "event start sent with every request")
	f.StringVar(&cfg.Output, "output", "", "write the generated rosters to this file")
	return cmd
}
