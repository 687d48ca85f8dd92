package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/validation"
)

type submissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
	UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus, reason *string, actor *string, at time.Time) error
}

type portalLookup interface {
	FindByID(ctx context.Context, id string) (*models.Portal, error)
}

type statusRecorder interface {
	RecordStatusUpdate(status string)
}

// SubmissionService owns submission creation and status transitions.
type SubmissionService struct {
	repo      submissionRepository
	portals   portalLookup
	validator *validator.Validate
	logger    *zap.Logger
	metrics   statusRecorder
	paging    Paging
	now       func() time.Time
}

// NewSubmissionService constructs the submission service. metrics may be nil.
func NewSubmissionService(repo submissionRepository, portals portalLookup, validate *validator.Validate, logger *zap.Logger, metrics statusRecorder, paging Paging) *SubmissionService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		repo:      repo,
		portals:   portals,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
		paging:    paging.withDefaults(10),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func submissionNotFound(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Payment submission not found with id: %s", id))
}

// Create records a PENDING submission once the caller confirms the portal name.
func (s *SubmissionService) Create(ctx context.Context, portalID string, req dto.CreateSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid submission payload")
	}
	if strings.TrimSpace(req.PortalNameConfirmation) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload").
			WithDetails(map[string]string{"portalNameConfirmation": "must not be blank"})
	}

	portal, err := s.portals.FindByID(ctx, portalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portalNotFound(portalID)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load portal")
	}

	if portal.Name != req.PortalNameConfirmation {
		msg := fmt.Sprintf("Portal name confirmation mismatch. Expected: '%s', Got: '%s'", portal.Name, req.PortalNameConfirmation)
		return nil, appErrors.Clone(appErrors.ErrValidation, msg).WithDetails(map[string]string{
			"expected": portal.Name,
			"provided": req.PortalNameConfirmation,
		})
	}

	files := make([]models.UploadedFile, 0, len(req.Files))
	for _, f := range req.Files {
		files = append(files, models.UploadedFile{FileID: f.FileID, FileName: f.FileName, FileType: f.FileType})
	}
	now := s.now()
	submission := &models.Submission{
		StudentID:              req.StudentID,
		PortalID:               portal.ID,
		Status:                 models.SubmissionPending,
		PortalNameAtSubmission: portal.Name,
		SubmittedAt:            now,
		LastUpdatedAt:          now,
		Files:                  files,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create submission")
	}
	s.logger.Info("payment submission created",
		zap.String("submission_id", submission.ID),
		zap.String("portal_id", portal.ID),
		zap.String("student_id", submission.StudentID),
		zap.Int("files", len(files)),
	)
	return submission, nil
}

// List returns submissions matching the query, newest first.
func (s *SubmissionService) List(ctx context.Context, q SubmissionQuery) ([]models.Submission, *models.Pagination, error) {
	filter, err := composeSubmissionFilter(q, s.paging)
	if err != nil {
		return nil, nil, err
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return items, newPagination(filter.Page, filter.PageSize, total), nil
}

// Get returns a submission with its files.
func (s *SubmissionService) Get(ctx context.Context, id string) (*models.Submission, error) {
	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, submissionNotFound(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submission")
	}
	return submission, nil
}

// UpdateStatus moves a submission to any status. REJECTED needs a non-blank
// reason; for other statuses the stored reason is replaced by whatever was
// supplied, including nothing.
func (s *SubmissionService) UpdateStatus(ctx context.Context, id string, req dto.UpdateSubmissionStatusRequest, actorID string) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid status payload")
	}
	submission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status == models.SubmissionRejected && (req.RejectionReason == nil || strings.TrimSpace(*req.RejectionReason) == "") {
		return nil, appErrors.Clone(appErrors.ErrValidation, "Rejection reason is required when status is REJECTED").
			WithDetails(map[string]string{"rejectionReason": "is required when status is REJECTED"})
	}

	now := s.now()
	actor := optionalActor(actorID)
	if err := s.repo.UpdateStatus(ctx, id, req.Status, req.RejectionReason, actor, now); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, submissionNotFound(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update submission status")
	}

	previous := submission.Status
	submission.Status = req.Status
	submission.RejectionReason = req.RejectionReason
	submission.LastUpdatedAt = now
	submission.UpdatedBy = actor

	if s.metrics != nil {
		s.metrics.RecordStatusUpdate(string(req.Status))
	}
	s.logger.Info("payment submission status changed",
		zap.String("submission_id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(req.Status)),
	)
	return submission, nil
}
