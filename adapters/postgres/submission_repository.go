package postgres

import (
	"context"
	"database/sql"
	stderrors "errors"

	"autostat/domain/core"
	"autostat/internal/errors"
	"autostat/models"
	"autostat/ports"

	"github.com/coder/quartz"
	"github.com/jmoiron/sqlx"
)

// SubmissionRepositoryImpl implements SubmissionRepository for PostgreSQL
type SubmissionRepositoryImpl struct {
	db    *sqlx.DB
	clock quartz.Clock
}

// NewSubmissionRepository creates a new PostgreSQL submission repository
func NewSubmissionRepository(db *sqlx.DB, clock quartz.Clock) ports.SubmissionRepository {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &SubmissionRepositoryImpl{db: db, clock: clock}
}

// Save upserts a submission and drops anything already expired
func (r *SubmissionRepositoryImpl) Save(ctx context.Context, sub *models.Submission) error {
	if _, err := r.PurgeExpired(ctx); err != nil {
		return err
	}
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO report_submissions (id, file_name, content, annotations, strategy, created_at, expires_at)
		VALUES (:id, :file_name, :content, :annotations, :strategy, :created_at, :expires_at)
		ON CONFLICT (id) DO UPDATE SET
			file_name = EXCLUDED.file_name,
			content = EXCLUDED.content,
			annotations = EXCLUDED.annotations,
			strategy = EXCLUDED.strategy,
			created_at = EXCLUDED.created_at,
			expires_at = EXCLUDED.expires_at
	`, sub)
	if err != nil {
		return errors.DatabaseError("failed to save submission", err)
	}
	return nil
}

// Take deletes the live row and returns it in one statement
func (r *SubmissionRepositoryImpl) Take(ctx context.Context, id core.SessionID) (*models.Submission, error) {
	var sub models.Submission
	err := r.db.GetContext(ctx, &sub, `
		DELETE FROM report_submissions
		WHERE id = $1 AND expires_at > $2
		RETURNING id, file_name, content, annotations, strategy, created_at, expires_at
	`, id, r.clock.Now())
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrSubmissionExpired
	}
	if err != nil {
		return nil, errors.DatabaseError("failed to load submission", err)
	}
	return &sub, nil
}

// PurgeExpired removes every expired row
func (r *SubmissionRepositoryImpl) PurgeExpired(ctx context.Context) (int, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM report_submissions WHERE expires_at <= $1`, r.clock.Now())
	if err != nil {
		return 0, errors.DatabaseError("failed to purge expired submissions", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}
