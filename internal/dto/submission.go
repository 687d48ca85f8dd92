package dto

import (
	"time"

	"github.com/noah-isme/payment-portal-api/internal/models"
)

// UploadedFileRef describes a file already stored by the file service.
type UploadedFileRef struct {
	FileID   string `json:"fileId" validate:"required,uuid"`
	FileName string `json:"fileName" validate:"required"`
	FileType string `json:"fileType" validate:"required"`
}

// CreateSubmissionRequest is a student's proof-of-payment payload.
type CreateSubmissionRequest struct {
	StudentID              string            `json:"studentId" validate:"required,uuid"`
	PortalNameConfirmation string            `json:"portalNameConfirmation" validate:"required"`
	Files                  []UploadedFileRef `json:"files" validate:"required,min=1,dive"`
}

// UpdateSubmissionStatusRequest moves a submission to a new status.
type UpdateSubmissionStatusRequest struct {
	Status          models.SubmissionStatus `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
	RejectionReason *string                 `json:"rejectionReason"`
}

// SubmissionListQuery holds raw list filters bound from the query string.
type SubmissionListQuery struct {
	StudentID *string `form:"studentId"`
	PortalID  *string `form:"portalId"`
	Status    *string `form:"status"`
	FromDate  *string `form:"fromDate"`
	ToDate    *string `form:"toDate"`
	Month     *int    `form:"month"`
	Year      *int    `form:"year"`
	Limit     *int    `form:"limit"`
	Offset    *int    `form:"offset"`
}

// SubmissionResponse is the external representation of a submission.
type SubmissionResponse struct {
	ID                     string                  `json:"id"`
	StudentID              string                  `json:"studentId"`
	PortalID               string                  `json:"portalId"`
	Status                 models.SubmissionStatus `json:"status"`
	RejectionReason        *string                 `json:"rejectionReason"`
	UploadedFiles          []UploadedFileRef       `json:"uploadedFiles"`
	PortalNameAtSubmission string                  `json:"portalNameAtSubmission"`
	SubmittedAt            time.Time               `json:"submittedAt"`
	LastUpdatedAt          time.Time               `json:"lastUpdatedAt"`
}

// NewSubmissionResponse maps a submission model.
func NewSubmissionResponse(s *models.Submission) SubmissionResponse {
	files := make([]UploadedFileRef, 0, len(s.Files))
	for _, f := range s.Files {
		files = append(files, UploadedFileRef{FileID: f.FileID, FileName: f.FileName, FileType: f.FileType})
	}
	return SubmissionResponse{
		ID:                     s.ID,
		StudentID:              s.StudentID,
		PortalID:               s.PortalID,
		Status:                 s.Status,
		RejectionReason:        s.RejectionReason,
		UploadedFiles:          files,
		PortalNameAtSubmission: s.PortalNameAtSubmission,
		SubmittedAt:            s.SubmittedAt,
		LastUpdatedAt:          s.LastUpdatedAt,
	}
}
