package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	"github.com/noah-isme/payment-portal-api/internal/service"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/response"
)

type submissionService interface {
	Create(ctx context.Context, portalID string, req dto.CreateSubmissionRequest) (*models.Submission, error)
	List(ctx context.Context, q service.SubmissionQuery) ([]models.Submission, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Submission, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateSubmissionStatusRequest, actorID string) (*models.Submission, error)
}

// SubmissionHandler exposes payment submission endpoints.
type SubmissionHandler struct {
	submissions submissionService
}

// NewSubmissionHandler constructs SubmissionHandler.
func NewSubmissionHandler(submissions submissionService) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions}
}

// Create godoc
// @Summary Submit proof of payment to a portal
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Portal ID"
// @Param payload body dto.CreateSubmissionRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /portals/{id}/submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	portalID, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.CreateSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	submission, err := h.submissions.Create(c.Request.Context(), portalID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.NewSubmissionResponse(submission))
}

// List godoc
// @Summary List payment submissions
// @Tags Submissions
// @Produce json
// @Param studentId query string false "Student ID"
// @Param portalId query string false "Portal ID"
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Param fromDate query string false "Inclusive start date (YYYY-MM-DD)"
// @Param toDate query string false "Inclusive end date (YYYY-MM-DD)"
// @Param month query int false "Month (requires year)"
// @Param year query int false "Year"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	var raw dto.SubmissionListQuery
	if err := c.ShouldBindQuery(&raw); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	q, err := submissionQueryFrom(raw)
	if err != nil {
		response.Error(c, err)
		return
	}
	submissions, pagination, err := h.submissions.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	items := make([]dto.SubmissionResponse, 0, len(submissions))
	for i := range submissions {
		items = append(items, dto.NewSubmissionResponse(&submissions[i]))
	}
	response.JSON(c, http.StatusOK, dto.PageResponse[dto.SubmissionResponse]{Items: items, Total: pagination.TotalCount}, pagination)
}

// Get godoc
// @Summary Get payment submission
// @Tags Submissions
// @Produce json
// @Param id path string true "Submission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	submission, err := h.submissions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSubmissionResponse(submission), nil)
}

// UpdateStatus godoc
// @Summary Approve, reject or reset a submission
// @Tags Submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID"
// @Param payload body dto.UpdateSubmissionStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /submissions/{id}/status [patch]
func (h *SubmissionHandler) UpdateStatus(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.UpdateSubmissionStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	if req.Status != "" {
		if status, err := models.ParseSubmissionStatus(string(req.Status)); err == nil {
			req.Status = status
		}
	}
	submission, err := h.submissions.UpdateStatus(c.Request.Context(), id, req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewSubmissionResponse(submission), nil)
}

func submissionQueryFrom(raw dto.SubmissionListQuery) (service.SubmissionQuery, error) {
	q := service.SubmissionQuery{
		Month:  raw.Month,
		Year:   raw.Year,
		Limit:  intOrZero(raw.Limit),
		Offset: intOrZero(raw.Offset),
	}
	var err error
	if q.StudentID, err = optionalUUID("studentId", raw.StudentID); err != nil {
		return q, err
	}
	if q.PortalID, err = optionalUUID("portalId", raw.PortalID); err != nil {
		return q, err
	}
	if q.FromDate, err = optionalDate("fromDate", raw.FromDate); err != nil {
		return q, err
	}
	if q.ToDate, err = optionalDate("toDate", raw.ToDate); err != nil {
		return q, err
	}
	if raw.Status != nil && *raw.Status != "" {
		status, perr := models.ParseSubmissionStatus(*raw.Status)
		if perr != nil {
			return q, appErrors.Clone(appErrors.ErrValidation, "invalid query parameters").
				WithDetails(map[string]string{"status": "must be one of [PENDING APPROVED REJECTED]"})
		}
		q.Status = &status
	}
	return q, nil
}
