package models

import (
	"fmt"
	"strings"
	"time"
)

// SubmissionStatus is the approval state of a submission.
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "PENDING"
	SubmissionApproved SubmissionStatus = "APPROVED"
	SubmissionRejected SubmissionStatus = "REJECTED"
)

// ParseSubmissionStatus accepts the enum name in any case.
func ParseSubmissionStatus(raw string) (SubmissionStatus, error) {
	switch s := SubmissionStatus(strings.ToUpper(strings.TrimSpace(raw))); s {
	case SubmissionPending, SubmissionApproved, SubmissionRejected:
		return s, nil
	default:
		return "", fmt.Errorf("unknown submission status %q", raw)
	}
}

// Submission is a student's proof-of-payment record against one portal.
type Submission struct {
	ID                     string           `db:"id"`
	StudentID              string           `db:"student_id"`
	PortalID               string           `db:"portal_id"`
	Status                 SubmissionStatus `db:"status"`
	RejectionReason        *string          `db:"rejection_reason"`
	PortalNameAtSubmission string           `db:"portal_name_at_submission"`
	SubmittedAt            time.Time        `db:"submitted_at"`
	LastUpdatedAt          time.Time        `db:"last_updated_at"`
	UpdatedBy              *string          `db:"updated_by"`
	Files                  []UploadedFile   `db:"-"`
}

// UploadedFile references an externally stored file attached to a submission.
type UploadedFile struct {
	ID           string `db:"id"`
	SubmissionID string `db:"submission_id"`
	Position     int    `db:"position"`
	FileID       string `db:"file_id"`
	FileName     string `db:"file_name"`
	FileType     string `db:"file_type"`
}

// SubmissionFilter is the resolved predicate set for submission queries.
// From is inclusive and To is exclusive; both are UTC instants.
type SubmissionFilter struct {
	StudentID *string
	PortalID  *string
	Status    *SubmissionStatus
	From      *time.Time
	To        *time.Time
	Page      int
	PageSize  int
}

// Unpaged reports whether the filter should return every matching row.
func (f SubmissionFilter) Unpaged() bool {
	return f.PageSize <= 0
}
