package api

import (
	"context"
	"log"
	"time"

	"golang.org/x/time/rate"

	"job-board/internal/events"
	"job-board/internal/scoring"
	"job-board/internal/storage"
)

// RescoreJob represents a background re-score of one job's applicants
type RescoreJob struct {
	Job       *storage.Job
	Timestamp time.Time
}

// StartBackgroundWorkers initializes background job workers
func (a *API) StartBackgroundWorkers() {
	go a.rescoreWorker()

	log.Println("[BackgroundJobs] Workers started (rescore)")
}

// rescoreWorker processes rescore jobs from the queue until it is closed
func (a *API) rescoreWorker() {
	defer close(a.workersDone)
	log.Println("[RescoreWorker] Started")

	// Paces calls to the scoring service across all jobs.
	limiter := rate.NewLimiter(rate.Limit(a.opts.RescoreRate), 1)

	for job := range a.rescoreQueue {
		a.rescoreApplicants(context.Background(), limiter, job)
	}
	log.Println("[RescoreWorker] Stopped")
}

func (a *API) rescoreApplicants(ctx context.Context, limiter *rate.Limiter, job RescoreJob) {
	log.Printf("[RescoreWorker] Processing job %s", job.Job.ID)

	apps, err := a.store.ListApplicationsByJob(ctx, job.Job.ID)
	if err != nil {
		log.Printf("[RescoreWorker] Failed to list applicants for job %s: %v", job.Job.ID, err)
		return
	}

	successCount := 0
	failCount := 0

	for i, app := range apps {
		if err := limiter.Wait(ctx); err != nil {
			log.Printf("[RescoreWorker] Rate limiter stopped: %v", err)
			return
		}

		result, err := a.rescorer.Score(ctx, scoring.RequestForJob(app.ResumeURL, job.Job))
		if err != nil {
			log.Printf("[RescoreWorker] Failed to score application %s: %v", app.ID, err)
			failCount++
			continue
		}
		if err := a.store.UpdateApplicationScore(ctx, app.ID, result.OverallScore, result.Breakdown); err != nil {
			log.Printf("[RescoreWorker] Failed to save score for application %s: %v", app.ID, err)
			failCount++
			continue
		}
		successCount++

		events.Emit(ctx, a.events, events.ApplicationRescored, events.ApplicationEvent{
			ApplicationID: app.ID,
			JobID:         app.JobID,
			UserID:        app.UserID,
			Status:        app.Status,
			Score:         result.OverallScore,
			At:            time.Now(),
		})

		// Progress logging every 5 applicants
		if (i+1)%5 == 0 {
			log.Printf("[RescoreWorker] Progress: %d/%d applicants scored", i+1, len(apps))
		}
	}

	duration := time.Since(job.Timestamp)
	log.Printf("[RescoreWorker] Completed job %s: %d success, %d failed (took %v)",
		job.Job.ID, successCount, failCount, duration)
}

// queueRescoreJob adds a job to the background queue. It reports false when
// the queue is full or shut down.
func (a *API) queueRescoreJob(job *storage.Job) bool {
	a.queueMu.RLock()
	defer a.queueMu.RUnlock()
	if a.queueClosed {
		return false
	}

	// Non-blocking send
	select {
	case a.rescoreQueue <- RescoreJob{Job: job, Timestamp: time.Now()}:
		log.Printf("[BackgroundJobs] Queued rescore for job %s", job.ID)
		return true
	default:
		log.Printf("[BackgroundJobs] Queue full! Dropping rescore for job %s", job.ID)
		return false
	}
}

// Shutdown stops accepting rescore jobs and waits for queued ones to finish
// or for ctx to expire.
func (a *API) Shutdown(ctx context.Context) error {
	a.queueMu.Lock()
	if !a.queueClosed {
		a.queueClosed = true
		close(a.rescoreQueue)
	}
	a.queueMu.Unlock()

	select {
	case <-a.workersDone:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
