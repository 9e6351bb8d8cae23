package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/syncsix/pkg/logger"
)

const (
	filePermission     = 0o600
	maxViolationsShown = 10
)

// Run checks the service health, then sends cfg.Requests generated rosters to
// POST /api/sync over cfg.Workers senders and verifies every answer.
func Run(ctx context.Context, cfg *Config, log logger.Logger) (*Stats, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.Named("loadtest")
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	stats := &Stats{StartTime: time.Now()}
	client := &http.Client{Timeout: cfg.Timeout}

	log.Info(ctx, "starting syncsix load test",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("players", cfg.Players),
		logger.Int("workers", cfg.Workers),
		logger.String("date", cfg.Date),
	)

	if err := checkServiceHealth(ctx, client, cfg.BaseURL); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	rosters := make([][]Player, cfg.Requests)
	for i := range rosters {
		rosters[i] = generateRoster(cfg.Players, stats.StartTime)
	}
	stats.Generated = len(rosters)
	if cfg.Output != "" {
		if err := saveRosters(cfg.Output, rosters); err != nil {
			log.Warn(ctx, "failed to save rosters", logger.Error(err))
		}
	}

	var (
		successful, failed, violations, ranked int64
		mu                                     sync.Mutex
		shown                                  int
	)
	work := make(chan []Player, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for roster := range work {
				result, err := submit(ctx, client, cfg, roster)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					log.Debug(ctx, "sync request failed", logger.Error(err))
					continue
				}
				atomic.AddInt64(&successful, 1)
				atomic.AddInt64(&ranked, int64(len(result)))
				problems := verifyRanking(cfg, result, len(roster))
				if len(problems) == 0 {
					continue
				}
				atomic.AddInt64(&violations, int64(len(problems)))
				mu.Lock()
				for _, p := range problems {
					if shown < maxViolationsShown {
						log.Warn(ctx, "ranking violation", logger.String("detail", p))
						shown++
					}
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(work)
		for _, r := range rosters {
			select {
			case <-ctx.Done():
				return
			case work <- r:
			}
		}
	}()
	wg.Wait()

	stats.Successful = int(successful)
	stats.Failed = int(failed)
	stats.Submitted = stats.Successful + stats.Failed
	stats.Violations = int(violations)
	stats.Ranked = int(ranked)
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	log.Info(ctx, "load test completed",
		logger.Int("submitted", stats.Submitted),
		logger.Int("successful", stats.Successful),
		logger.Int("failed", stats.Failed),
		logger.Int("ranked", stats.Ranked),
		logger.Int("violations", stats.Violations),
		logger.String("duration", stats.Duration.String()),
	)

	if err := ctx.Err(); err != nil {
		return stats, err
	}
	if stats.Violations > 0 {
		return stats, fmt.Errorf("%d ranking violations", stats.Violations)
	}
	if stats.Failed > 0 {
		return stats, fmt.Errorf("%d of %d requests failed", stats.Failed, stats.Submitted)
	}
	return stats, nil
}

func checkServiceHealth(ctx context.Context, client *http.Client, base string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

func submit(ctx context.Context, client *http.Client, cfg *Config, roster []Player) ([]rankedPlayer, error) {
	body, err := json.Marshal(syncRequest{
		Players: roster,
		Event:   map[string]any{"date": map[string]string{"start": cfg.Date}},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.BaseURL+"/api/sync", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var ranked []rankedPlayer
	if err := json.NewDecoder(resp.Body).Decode(&ranked); err != nil {
		return nil, fmt.Errorf("decode ranking: %w", err)
	}
	return ranked, nil
}

func saveRosters(path string, rosters [][]Player) error {
	data, err := json.MarshalIndent(rosters, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, filePermission)
}
