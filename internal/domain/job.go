package domain

import (
	"fmt"
	"time"
)

// Status is the user-facing application workflow state of a posting.
// It is owned by the workflow (CLI/API), never written by the scraper.
type Status string

const (
	StatusNew          Status = "new"
	StatusReviewed     Status = "reviewed"
	StatusApplied      Status = "applied"
	StatusRejected     Status = "rejected"
	StatusInterviewing Status = "interviewing"
)

// Statuses lists every valid workflow status.
var Statuses = []Status{StatusNew, StatusReviewed, StatusApplied, StatusRejected, StatusInterviewing}

func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown status %q (valid: new, reviewed, applied, rejected, interviewing)", s)
}

// Job is one normalized posting. URL is the natural key: a second
// observation of the same URL refreshes the scrapable fields and never
// resets MatchScore, Status or Notes.
type Job struct {
	ID             int64     `json:"id"`
	Company        string    `json:"company"`
	Title          string    `json:"title"`
	Location       string    `json:"location"`
	Description    string    `json:"description"`
	URL            string    `json:"url"`
	PostedDate     string    `json:"postedDate,omitempty"`
	ScrapedAt      time.Time `json:"scrapedAt"`
	MatchScore     *float64  `json:"matchScore,omitempty"`
	MatchReasoning string    `json:"matchReasoning,omitempty"`
	Status         Status    `json:"status"`
	Notes          string    `json:"notes,omitempty"`
	CreatedAt      string    `json:"createdAt,omitempty"`
	UpdatedAt      string    `json:"updatedAt,omitempty"`
}
