package service

import (
	"time"

	"github.com/noah-isme/payment-portal-api/internal/models"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
)

// SubmissionQuery is the caller-facing predicate set for submission lists.
// FromDate and ToDate are calendar days; both bounds are inclusive.
type SubmissionQuery struct {
	StudentID *string
	PortalID  *string
	Status    *models.SubmissionStatus
	FromDate  *time.Time
	ToDate    *time.Time
	Month     *int
	Year      *int
	Limit     int
	Offset    int
}

// periodRange derives the half-open UTC interval covered by month/year.
// Month alone or out of range is rejected. No inputs means no bounds.
func periodRange(month, year *int) (from, to *time.Time, err error) {
	if month != nil && (*month < 1 || *month > 12) {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "Month must be between 1 and 12").
			WithDetails(map[string]string{"month": "must be between 1 and 12"})
	}
	if month != nil && year == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "Year must be provided when month is specified").
			WithDetails(map[string]string{"year": "is required when month is specified"})
	}
	if year == nil {
		return nil, nil, nil
	}

	var start, end time.Time
	if month != nil {
		start = time.Date(*year, time.Month(*month), 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(0, 1, 0)
	} else {
		start = time.Date(*year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end = start.AddDate(1, 0, 0)
	}
	return &start, &end, nil
}

// composeSubmissionFilter validates the query and resolves the effective date
// window: the intersection of the explicit range and the month/year period.
func composeSubmissionFilter(q SubmissionQuery, paging Paging) (models.SubmissionFilter, error) {
	derivedFrom, derivedTo, err := periodRange(q.Month, q.Year)
	if err != nil {
		return models.SubmissionFilter{}, err
	}

	var explicitFrom, explicitTo *time.Time
	if q.FromDate != nil {
		d := startOfDay(*q.FromDate)
		explicitFrom = &d
	}
	if q.ToDate != nil {
		d := startOfDay(*q.ToDate).AddDate(0, 0, 1)
		explicitTo = &d
	}

	page, size := paging.resolve(q.Limit, q.Offset)
	return models.SubmissionFilter{
		StudentID: q.StudentID,
		PortalID:  q.PortalID,
		Status:    q.Status,
		From:      later(explicitFrom, derivedFrom),
		To:        earlier(explicitTo, derivedTo),
		Page:      page,
		PageSize:  size,
	}, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func later(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.After(*a):
		return b
	default:
		return a
	}
}

func earlier(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}
