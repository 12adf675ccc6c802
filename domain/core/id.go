package core

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID represents a domain identifier
type ID string

// NewID creates a new unique identifier using UUID v7 for time-ordered generation
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return ID(id.String())
}

// String returns the string representation
func (id ID) String() string {
	return string(id)
}

// IsEmpty checks if the ID is empty
func (id ID) IsEmpty() bool {
	return id == ""
}

// Domain-specific ID types
type (
	ReportID  ID
	RequestID ID
	SessionID ID
)

// String conversions for domain IDs
func (id ReportID) String() string  { return ID(id).String() }
func (id RequestID) String() string { return ID(id).String() }
func (id SessionID) String() string { return ID(id).String() }

// ParseSessionID validates a checkout session identifier supplied by a client.
func ParseSessionID(s string) (SessionID, error) {
	if strings.TrimSpace(s) == "" {
		return "", fmt.Errorf("%w: session ID cannot be empty", ErrValidation)
	}
	return SessionID(s), nil
}
