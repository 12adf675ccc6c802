package ports

import (
	"context"

	"autostat/domain/core"
	"autostat/models"
)

// SubmissionRepository holds uploads between checkout creation and report
// generation
type SubmissionRepository interface {
	// Save stores a submission under its checkout session ID, replacing any
	// previous one
	Save(ctx context.Context, sub *models.Submission) error

	// Take returns the submission and removes it. A missing or expired entry
	// yields core.ErrSubmissionExpired.
	Take(ctx context.Context, id core.SessionID) (*models.Submission, error)

	// PurgeExpired drops every expired entry and reports how many were removed
	PurgeExpired(ctx context.Context) (int, error)
}
