package models

import (
	"fmt"
	"strings"
	"time"
)

// PortalVisibility is the externally observable publish state of a portal.
type PortalVisibility string

const (
	VisibilityPublished PortalVisibility = "PUBLISHED"
	VisibilityHidden    PortalVisibility = "HIDDEN"
)

// ParsePortalVisibility accepts the enum name in any case.
func ParsePortalVisibility(raw string) (PortalVisibility, error) {
	switch v := PortalVisibility(strings.ToUpper(strings.TrimSpace(raw))); v {
	case VisibilityPublished, VisibilityHidden:
		return v, nil
	default:
		return "", fmt.Errorf("unknown visibility %q", raw)
	}
}

// VisibilityFor maps the boolean publish flag onto a visibility state.
func VisibilityFor(published bool) PortalVisibility {
	if published {
		return VisibilityPublished
	}
	return VisibilityHidden
}

// Portal is a dated campaign accepting payment-proof submissions.
// Visibility is the only stored publish state; IsPublished is derived from it.
type Portal struct {
	ID               string           `db:"id"`
	Month            int              `db:"portal_month"`
	Year             int              `db:"portal_year"`
	Name             string           `db:"name"`
	DisplayName      string           `db:"display_name"`
	Visibility       PortalVisibility `db:"visibility"`
	CreatedByAdminID *string          `db:"created_by_admin_id"`
	CreatedAt        time.Time        `db:"created_at"`
	UpdatedAt        time.Time        `db:"updated_at"`
	CreatedBy        *string          `db:"created_by"`
	UpdatedBy        *string          `db:"updated_by"`
}

// IsPublished reports whether the portal is visible to students.
func (p Portal) IsPublished() bool {
	return p.Visibility == VisibilityPublished
}

// SetPublished updates the publish state through the boolean flag.
func (p *Portal) SetPublished(published bool) {
	p.Visibility = VisibilityFor(published)
}

// SetVisibility updates the publish state through the enum.
func (p *Portal) SetVisibility(v PortalVisibility) {
	p.Visibility = v
}

// PortalFilter captures list parameters for portals.
type PortalFilter struct {
	Month       *int
	Year        *int
	IsPublished *bool
	Page        int
	PageSize    int
}
