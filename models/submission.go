package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"autostat/domain/core"
	"autostat/domain/dataset"
)

// AnnotationList stores variable type annotations in a PostgreSQL JSONB column
type AnnotationList dataset.Annotations

// Value implements driver.Valuer interface
func (a AnnotationList) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner interface
func (a *AnnotationList) Scan(value interface{}) error {
	var bytes []byte
	switch v := value.(type) {
	case nil:
		*a = nil
		return nil
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into AnnotationList", value)
	}

	if len(bytes) == 0 {
		*a = nil
		return nil
	}
	var result AnnotationList
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*a = result
	return nil
}

// Submission is an uploaded file waiting for its checkout to be paid. It is
// keyed by the checkout session ID and lives until ExpiresAt or first use.
type Submission struct {
	ID          core.SessionID `json:"id" db:"id"`
	FileName    string         `json:"file_name" db:"file_name"`
	Content     []byte         `json:"-" db:"content"`
	Annotations AnnotationList `json:"annotations" db:"annotations"`
	Strategy    string         `json:"strategy" db:"strategy"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
	ExpiresAt   time.Time      `json:"expires_at" db:"expires_at"`
}

// NewSubmission creates a submission that expires ttl after now
func NewSubmission(id core.SessionID, fileName string, content []byte, annotations dataset.Annotations, strategy string, now time.Time, ttl time.Duration) *Submission {
	return &Submission{
		ID:          id,
		FileName:    fileName,
		Content:     content,
		Annotations: AnnotationList(annotations),
		Strategy:    strategy,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}
}

// Expired reports whether the submission is no longer usable at now
func (s *Submission) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// VariableTypes returns the annotations as the domain type
func (s *Submission) VariableTypes() dataset.Annotations {
	return dataset.Annotations(s.Annotations)
}
