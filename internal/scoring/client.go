package scoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"job-board/internal/storage"
	httpclient "job-board/pkg/http"
)

var ErrMissingResumeURL = errors.New("resume url is required")

// Request is the payload of POST /score_resume.
type Request struct {
	ResumeURL          string   `json:"resume_url"`
	JobDescription     string   `json:"job_description"`
	SkillsRequired     []string `json:"skills_required"`
	PrioritySkills     []string `json:"priority_skills"`
	ExperienceKeywords []string `json:"experience_keywords"`
	DegreeRequirements []string `json:"degree_requirements"`
}

// RequestForJob builds a scoring request for a resume against a job posting.
func RequestForJob(resumeURL string, job *storage.Job) Request {
	return Request{
		ResumeURL:          resumeURL,
		JobDescription:     job.Description,
		SkillsRequired:     nonNil(job.SkillsRequired),
		PrioritySkills:     nonNil(job.PrioritySkills),
		ExperienceKeywords: nonNil(job.ExperienceKeywords),
		DegreeRequirements: nonNil(job.DegreeRequirements),
	}
}

// Result is the scoring service response.
type Result struct {
	OverallScore *float64          `json:"overall_score"`
	Breakdown    storage.Breakdown `json:"breakdown"`
}

// Scorer scores a resume against a job.
type Scorer interface {
	Score(ctx context.Context, req Request) (*Result, error)
}

// StatusError is a non-2xx answer from the scoring service.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("scoring service returned %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("scoring service returned %d", e.StatusCode)
}

// Client calls the external resume scoring service.
type Client struct {
	baseURL string
	http    *httpclient.Client

	maxTries       uint
	initialBackoff time.Duration
	maxBackoff     time.Duration
	budget         time.Duration // caps all attempts and waits of one Score call
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           httpclient.NewClient(timeout),
		maxTries:       3,
		initialBackoff: 1 * time.Second,
		maxBackoff:     10 * time.Second,
		budget:         2 * time.Minute,
	}
}

// WithBudget bounds the total time one Score call may take, retries
// included. Non-positive values are ignored.
func (c *Client) WithBudget(d time.Duration) *Client {
	if d > 0 {
		c.budget = d
	}
	return c
}

// Score posts req to {base}/score_resume. Network errors, 429 and 5xx are
// retried with exponential backoff; other statuses fail immediately. The
// whole call, retries included, is bounded by the client's budget.
func (c *Client) Score(ctx context.Context, req Request) (*Result, error) {
	if strings.TrimSpace(req.ResumeURL) == "" {
		return nil, ErrMissingResumeURL
	}
	url := c.baseURL + "/score_resume"

	ctx, cancel := context.WithTimeout(ctx, c.budget)
	defer cancel()

	operation := func() (*Result, error) {
		resp, err := c.http.PostJSON(ctx, url, req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, backoff.Permanent(err)
			}
			log.Printf("[Scoring] request failed, retrying: %v", err)
			return nil, err
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			statusErr := &StatusError{StatusCode: resp.StatusCode, Detail: detail(resp.Body)}
			if retryable(resp.StatusCode) {
				log.Printf("[Scoring] %v, retrying", statusErr)
				return nil, statusErr
			}
			return nil, backoff.Permanent(statusErr)
		}

		var result Result
		if err := json.Unmarshal(resp.Body, &result); err != nil {
			return nil, backoff.Permanent(fmt.Errorf("failed to decode scoring response: %w", err))
		}
		if result.OverallScore == nil {
			return nil, backoff.Permanent(errors.New("scoring response missing overall_score"))
		}
		return &result, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.initialBackoff
	bo.MaxInterval = c.maxBackoff

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(c.maxTries),
		backoff.WithMaxElapsedTime(c.budget),
	)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// detail extracts the FastAPI-style {"detail": ...} message, if any.
func detail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || len(payload.Detail) == 0 {
		return strings.TrimSpace(string(body))
	}
	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	return string(payload.Detail)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
