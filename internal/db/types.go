package db

import (
	"time"

	"github.com/google/uuid"
)

// Audit statuses
const (
	AuditStatusCompleted = "completed"
	AuditStatusFailed    = "failed"
)

// AuditRun is a stored audit without its report body.
type AuditRun struct {
	ID          uuid.UUID  `json:"id"`
	Strategy    string     `json:"strategy"`
	Status      string     `json:"status"`
	Fulfilled   int        `json:"fulfilled"`
	Total       int        `json:"total"`
	Percentage  int        `json:"percentage"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AuditFilters holds optional filters for listing audits
type AuditFilters struct {
	Strategy      string
	Status        string
	MinPercentage int
	Limit         int
}

// defaultListLimit caps list queries when no limit is given.
const defaultListLimit = 50
