package dto

import (
	"time"

	"github.com/noah-isme/payment-portal-api/internal/models"
)

// CreatePortalRequest is the payload for opening a new portal.
type CreatePortalRequest struct {
	Month       int    `json:"month" validate:"required,min=1,max=12"`
	Year        int    `json:"year" validate:"required,min=2000"`
	Name        string `json:"name" validate:"required,max=100"`
	DisplayName string `json:"displayName" validate:"required,max=200"`
	IsPublished *bool  `json:"isPublished"`
}

// UpdatePortalRequest carries optional portal changes. When both publish fields
// are supplied, visibility is applied last and wins.
type UpdatePortalRequest struct {
	DisplayName *string                  `json:"displayName" validate:"omitempty,max=200"`
	IsPublished *bool                    `json:"isPublished"`
	Visibility  *models.PortalVisibility `json:"visibility" validate:"omitempty,oneof=PUBLISHED HIDDEN"`
}

// BulkVisibilityRequest publishes or hides several portals at once.
type BulkVisibilityRequest struct {
	PortalIDs   []string `json:"portalIds" validate:"required,min=1,dive,uuid"`
	IsPublished *bool    `json:"isPublished" validate:"required"`
}

// PortalListQuery holds list filters bound from the query string.
type PortalListQuery struct {
	Month       *int  `form:"month"`
	Year        *int  `form:"year"`
	IsPublished *bool `form:"isPublished"`
	Limit       *int  `form:"limit"`
	Offset      *int  `form:"offset"`
}

// PortalResponse is the external representation of a portal.
type PortalResponse struct {
	ID               string                  `json:"id"`
	Month            int                     `json:"month"`
	Year             int                     `json:"year"`
	Name             string                  `json:"name"`
	DisplayName      string                  `json:"displayName"`
	IsPublished      bool                    `json:"isPublished"`
	Visibility       models.PortalVisibility `json:"visibility"`
	CreatedByAdminID *string                 `json:"createdByAdminId"`
	CreatedAt        time.Time               `json:"createdAt"`
	UpdatedAt        time.Time               `json:"updatedAt"`
}

// NewPortalResponse maps a portal model.
func NewPortalResponse(p *models.Portal) PortalResponse {
	return PortalResponse{
		ID:               p.ID,
		Month:            p.Month,
		Year:             p.Year,
		Name:             p.Name,
		DisplayName:      p.DisplayName,
		IsPublished:      p.IsPublished(),
		Visibility:       p.Visibility,
		CreatedByAdminID: p.CreatedByAdminID,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// PageResponse wraps one page of results with the unpaged total.
type PageResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
