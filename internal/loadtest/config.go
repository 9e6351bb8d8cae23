// Package loadtest drives a running SyncSix service with generated rosters and
// checks every ranking it returns.
package loadtest

import "time"

// Config holds configuration for a load test run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of sync requests to send
	Players  int           // Players per generated roster
	Workers  int           // Number of concurrent senders
	Timeout  time.Duration // HTTP request timeout
	Date     string        // Event start sent with every request
	MaxScore float64       // Upper bound every score must respect
	MinScore float64       // Rank gate: score threshold
	MinHits  int           // Rank gate: hit count threshold
	Output   string        // Optional file for the generated rosters
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Failed     int
	Violations int
	Ranked     int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// Player is the generated roster entry.
type Player struct {
	Name   string `json:"name"`
	Jersey int    `json:"jersey"`
	DOB    string `json:"dob"`
	Team   string `json:"team"`
	Opp    string `json:"opponent"`
}

type syncRequest struct {
	Players []Player       `json:"players"`
	Event   map[string]any `json:"event"`
}

type rankedPlayer struct {
	Name  string   `json:"name"`
	Score float64  `json:"score"`
	Hits  []string `json:"hits"`
}
