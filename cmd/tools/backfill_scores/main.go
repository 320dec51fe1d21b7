package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"job-board/internal/config"
	"job-board/internal/scoring"
	"job-board/internal/storage"
)

// backfill_scores re-scores applications whose score is missing, e.g. after
// the scoring service was down while candidates applied.
func main() {
	var dryRun bool
	var limit int
	var pause time.Duration
	flag.BoolVar(&dryRun, "dry-run", true, "If true, do not persist updates; just print changes")
	flag.IntVar(&limit, "limit", 200, "Max number of applications to process in one run")
	flag.DurationVar(&pause, "pause", 300*time.Millisecond, "Delay between scoring calls")
	flag.Parse()

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}
	if cfg.ScoringURL == "" {
		log.Fatal("SCORING_URL is required")
	}

	log.Printf("Connecting to DB...")
	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	scorer := scoring.NewClient(cfg.ScoringURL, cfg.ScoringTimeout)
	ctx := context.Background()

	apps, err := db.ListUnscoredApplications(ctx, limit)
	if err != nil {
		log.Fatalf("query failed: %v", err)
	}
	log.Printf("Found %d unscored applications (limit %d)", len(apps), limit)

	jobs := map[string]*storage.Job{}
	updated, skipped := 0, 0
	for _, app := range apps {
		job, ok := jobs[app.JobID]
		if !ok {
			job, err = db.GetJob(ctx, app.JobID)
			if errors.Is(err, storage.ErrNotFound) {
				log.Printf("Job %s for application %s no longer exists, skipping", app.JobID, app.ID)
				skipped++
				continue
			}
			if err != nil {
				log.Printf("failed to load job %s: %v", app.JobID, err)
				skipped++
				continue
			}
			jobs[app.JobID] = job
		}

		result, err := scorer.Score(ctx, scoring.RequestForJob(app.ResumeURL, job))
		if err != nil {
			log.Printf("scoring failed for application %s: %v", app.ID, err)
			skipped++
			continue
		}

		log.Printf("Application %s (job %q) -> score %.2f", app.ID, job.Title, *result.OverallScore)

		if dryRun {
			log.Printf("[dry-run] Would update application %s", app.ID)
			continue
		}

		if err := db.UpdateApplicationScore(ctx, app.ID, result.OverallScore, result.Breakdown); err != nil {
			log.Printf("failed to update application %s: %v", app.ID, err)
			skipped++
			continue
		}
		updated++

		time.Sleep(pause)
	}

	log.Printf("Backfill run complete: %d updated, %d skipped", updated, skipped)
}
