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
	"github.com/noah-isme/payment-portal-api/internal/repository"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/validation"
)

type portalRepository interface {
	List(ctx context.Context, filter models.PortalFilter) ([]models.Portal, int, error)
	FindByID(ctx context.Context, id string) (*models.Portal, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Create(ctx context.Context, portal *models.Portal) error
	Update(ctx context.Context, portal *models.Portal) error
	BulkUpdateVisibility(ctx context.Context, ids []string, visibility models.PortalVisibility, actor *string, at time.Time) error
}

// PortalQuery holds portal list filters and paging.
type PortalQuery struct {
	Month       *int
	Year        *int
	IsPublished *bool
	Limit       int
	Offset      int
}

// PortalService handles payment portal use-cases.
type PortalService struct {
	repo      portalRepository
	validator *validator.Validate
	logger    *zap.Logger
	paging    Paging
	now       func() time.Time
}

// NewPortalService constructs the portal service.
func NewPortalService(repo portalRepository, validate *validator.Validate, logger *zap.Logger, paging Paging) *PortalService {
	if validate == nil {
		validate = validation.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		paging:    paging.withDefaults(20),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func portalNotFound(id string) error {
	return appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("Payment portal not found with id: %s", id))
}

func duplicatePortal(name string) error {
	return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("Payment portal with name '%s' already exists", name))
}

// List returns portals newest first.
func (s *PortalService) List(ctx context.Context, q PortalQuery) ([]models.Portal, *models.Pagination, error) {
	if q.Month != nil && (*q.Month < 1 || *q.Month > 12) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "Month must be between 1 and 12")
	}
	page, size := s.paging.resolve(q.Limit, q.Offset)
	portals, total, err := s.repo.List(ctx, models.PortalFilter{
		Month:       q.Month,
		Year:        q.Year,
		IsPublished: q.IsPublished,
		Page:        page,
		PageSize:    size,
	})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list portals")
	}
	return portals, newPagination(page, size, total), nil
}

// Get returns a portal by id.
func (s *PortalService) Get(ctx context.Context, id string) (*models.Portal, error) {
	portal, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portalNotFound(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load portal")
	}
	return portal, nil
}

// Create opens a portal attributed to the acting admin.
func (s *PortalService) Create(ctx context.Context, req dto.CreatePortalRequest, actorID string) (*models.Portal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid portal payload")
	}
	if details := blankFields(map[string]string{"name": req.Name, "displayName": req.DisplayName}); details != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid portal payload").WithDetails(details)
	}
	if actorID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "User ID not found")
	}

	exists, err := s.repo.ExistsByName(ctx, req.Name)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate portal name")
	}
	if exists {
		return nil, duplicatePortal(req.Name)
	}

	now := s.now()
	portal := &models.Portal{
		Month:            req.Month,
		Year:             req.Year,
		Name:             req.Name,
		DisplayName:      req.DisplayName,
		CreatedByAdminID: &actorID,
		CreatedBy:        &actorID,
		UpdatedBy:        &actorID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	portal.SetPublished(req.IsPublished != nil && *req.IsPublished)

	if err := s.repo.Create(ctx, portal); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, duplicatePortal(req.Name)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create portal")
	}
	s.logger.Info("payment portal created",
		zap.String("portal_id", portal.ID),
		zap.String("name", portal.Name),
		zap.String("actor_id", actorID),
	)
	return portal, nil
}

// Update applies the supplied fields. The publish flag is applied before
// visibility, so an explicit visibility wins when both are present.
func (s *PortalService) Update(ctx context.Context, id string, req dto.UpdatePortalRequest, actorID string) (*models.Portal, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.FromValidation(err, "invalid portal payload")
	}
	portal, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid portal payload").
				WithDetails(map[string]string{"displayName": "must not be blank"})
		}
		portal.DisplayName = *req.DisplayName
	}
	if req.IsPublished != nil {
		portal.SetPublished(*req.IsPublished)
	}
	if req.Visibility != nil {
		portal.SetVisibility(*req.Visibility)
	}
	portal.UpdatedAt = s.now()
	portal.UpdatedBy = optionalActor(actorID)

	if err := s.repo.Update(ctx, portal); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, portalNotFound(id)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update portal")
	}
	return portal, nil
}

// BulkUpdateVisibility publishes or hides every listed portal, or none of them.
func (s *PortalService) BulkUpdateVisibility(ctx context.Context, req dto.BulkVisibilityRequest, actorID string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.FromValidation(err, "invalid bulk visibility payload")
	}
	visibility := models.VisibilityFor(*req.IsPublished)
	if err := s.repo.BulkUpdateVisibility(ctx, req.PortalIDs, visibility, optionalActor(actorID), s.now()); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "One or more portal IDs not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update portal visibility")
	}
	s.logger.Info("portal visibility updated",
		zap.Int("count", len(req.PortalIDs)),
		zap.String("visibility", string(visibility)),
	)
	return nil
}

func optionalActor(actorID string) *string {
	if actorID == "" {
		return nil
	}
	return &actorID
}

func blankFields(fields map[string]string) map[string]string {
	var details map[string]string
	for name, value := range fields {
		if strings.TrimSpace(value) == "" {
			if details == nil {
				details = map[string]string{}
			}
			details[name] = "must not be blank"
		}
	}
	return details
}
