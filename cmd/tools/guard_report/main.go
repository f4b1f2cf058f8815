// Command guard_report summarizes guard outcomes across stored generation runs.
//
// It reads the candidates table and prints, per run, how many candidates
// passed the plagiarism guard, the mean overlap percentage, and the worst
// shared n-gram seen. Useful for spotting exemplars that are hard to write
// away from.
//
// Usage:
//
//	go run cmd/tools/guard_report/main.go
//
// Requires DATABASE_URL environment variable to be set.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
)

type guardStats struct {
	runID      string
	storyID    string
	total      int
	passed     int
	sumOverlap float64
	worstNgram int
}

func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Fprintln(os.Stderr, "ERROR: DATABASE_URL environment variable not set")
		os.Exit(1)
	}

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	fmt.Println("=== Guard Report ===")
	fmt.Println()

	rows, err := pool.Query(ctx, `
		SELECT r.id::text, r.story_id, c.guard_verdict
		FROM candidates c
		JOIN generation_runs r ON r.id = c.run_id
		ORDER BY r.created_at, c.round, c.candidate_id
	`)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Failed to query candidates: %v\n", err)
		os.Exit(1)
	}
	defer rows.Close()

	stats := make(map[string]*guardStats)
	var order []string

	for rows.Next() {
		var runID, storyID string
		var verdictJSON []byte
		if err := rows.Scan(&runID, &storyID, &verdictJSON); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: Failed to scan row: %v\n", err)
			os.Exit(1)
		}

		var verdict struct {
			Passed         bool    `json:"passed"`
			OverlapPct     float64 `json:"overlap_pct"`
			MaxSharedNgram int     `json:"max_shared_ngram"`
		}
		if err := json.Unmarshal(verdictJSON, &verdict); err != nil {
			fmt.Fprintf(os.Stderr, "WARNING: Skipping malformed verdict for run %s: %v\n", runID, err)
			continue
		}

		s, ok := stats[runID]
		if !ok {
			s = &guardStats{runID: runID, storyID: storyID}
			stats[runID] = s
			order = append(order, runID)
		}
		s.total++
		if verdict.Passed {
			s.passed++
		}
		s.sumOverlap += verdict.OverlapPct
		if verdict.MaxSharedNgram > s.worstNgram {
			s.worstNgram = verdict.MaxSharedNgram
		}
	}
	if err := rows.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: Row iteration failed: %v\n", err)
		os.Exit(1)
	}

	if len(order) == 0 {
		fmt.Println("No candidates found.")
		return
	}

	fmt.Printf("%-38s %-20s %8s %8s %12s %12s\n", "RUN", "STORY", "CANDS", "PASSED", "AVG OVERLAP", "WORST NGRAM")
	for _, runID := range order {
		s := stats[runID]
		avg := 0.0
		if s.total > 0 {
			avg = s.sumOverlap / float64(s.total)
		}
		fmt.Printf("%-38s %-20s %8d %8d %11.3f%% %12d\n",
			s.runID, s.storyID, s.total, s.passed, avg*100, s.worstNgram)
	}

	fmt.Println()
	fmt.Printf("Reported %d runs.\n", len(order))
}
