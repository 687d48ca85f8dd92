package service

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	"github.com/noah-isme/payment-portal-api/internal/repository"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/validation"
)

type mockPortalRepo struct {
	portals    map[string]models.Portal
	lastFilter models.PortalFilter
	createErr  error
	err        error
	seq        int
}

func (m *mockPortalRepo) List(ctx context.Context, filter models.PortalFilter) ([]models.Portal, int, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, 0, m.err
	}
	items := make([]models.Portal, 0, len(m.portals))
	for _, p := range m.portals {
		if filter.IsPublished != nil && p.IsPublished() != *filter.IsPublished {
			continue
		}
		items = append(items, p)
	}
	return items, len(items), nil
}

func (m *mockPortalRepo) FindByID(ctx context.Context, id string) (*models.Portal, error) {
	if p, ok := m.portals[id]; ok {
		return &p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPortalRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	for _, p := range m.portals {
		if p.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockPortalRepo) Create(ctx context.Context, portal *models.Portal) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.portals == nil {
		m.portals = make(map[string]models.Portal)
	}
	m.seq++
	if portal.ID == "" {
		portal.ID = "portal-" + string(rune('0'+m.seq))
	}
	m.portals[portal.ID] = *portal
	return nil
}

func (m *mockPortalRepo) Update(ctx context.Context, portal *models.Portal) error {
	if _, ok := m.portals[portal.ID]; !ok {
		return sql.ErrNoRows
	}
	m.portals[portal.ID] = *portal
	return nil
}

func (m *mockPortalRepo) BulkUpdateVisibility(ctx context.Context, ids []string, visibility models.PortalVisibility, actor *string, at time.Time) error {
	for _, id := range ids {
		if _, ok := m.portals[id]; !ok {
			return sql.ErrNoRows
		}
	}
	for _, id := range ids {
		p := m.portals[id]
		p.Visibility = visibility
		p.UpdatedAt = at
		p.UpdatedBy = actor
		m.portals[id] = p
	}
	return nil
}

const (
	portalA = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	portalB = "8d0e6679-7425-40de-944b-e07fc1f90ae8"
	adminID = "11111111-1111-1111-1111-111111111111"
)

func boolPtr(v bool) *bool { return &v }
func intPtr(v int) *int    { return &v }
func strPtr(v string) *string {
	return &v
}

func newPortalServiceForTest(repo *mockPortalRepo) *PortalService {
	svc := NewPortalService(repo, validation.New(), zap.NewNop(), Paging{})
	svc.now = func() time.Time { return time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC) }
	return svc
}

func requireAppError(t *testing.T, err error, status int) *appErrors.Error {
	t.Helper()
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr), "expected *errors.Error, got %T", err)
	assert.Equal(t, status, appErr.Status)
	return appErr
}

func TestPortalServiceCreate(t *testing.T) {
	repo := &mockPortalRepo{}
	svc := newPortalServiceForTest(repo)

	portal, err := svc.Create(context.Background(), dto.CreatePortalRequest{
		Month: 3, Year: 2024, Name: "SPP-MAR-2024", DisplayName: "SPP March",
	}, adminID)
	require.NoError(t, err)
	assert.NotEmpty(t, portal.ID)
	assert.False(t, portal.IsPublished())
	assert.Equal(t, models.VisibilityHidden, portal.Visibility)
	require.NotNil(t, portal.CreatedByAdminID)
	assert.Equal(t, adminID, *portal.CreatedByAdminID)
	assert.Equal(t, time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC), portal.CreatedAt)
}

func TestPortalServiceCreatePublished(t *testing.T) {
	svc := newPortalServiceForTest(&mockPortalRepo{})
	portal, err := svc.Create(context.Background(), dto.CreatePortalRequest{
		Month: 4, Year: 2024, Name: "SPP-APR-2024", DisplayName: "SPP April", IsPublished: boolPtr(true),
	}, adminID)
	require.NoError(t, err)
	assert.Equal(t, models.VisibilityPublished, portal.Visibility)
}

func TestPortalServiceCreateDuplicateName(t *testing.T) {
	repo := &mockPortalRepo{portals: map[string]models.Portal{
		portalA: {ID: portalA, Name: "SPP-MAR-2024"},
	}}
	svc := newPortalServiceForTest(repo)

	_, err := svc.Create(context.Background(), dto.CreatePortalRequest{
		Month: 3, Year: 2024, Name: "SPP-MAR-2024", DisplayName: "Again",
	}, adminID)
	appErr := requireAppError(t, err, http.StatusConflict)
	assert.Equal(t, "Payment portal with name 'SPP-MAR-2024' already exists", appErr.Message)
	assert.Len(t, repo.portals, 1)
}

func TestPortalServiceCreateRaceMapsUniqueViolation(t *testing.T) {
	svc := newPortalServiceForTest(&mockPortalRepo{createErr: repository.ErrDuplicateKey})
	_, err := svc.Create(context.Background(), dto.CreatePortalRequest{
		Month: 3, Year: 2024, Name: "SPP", DisplayName: "SPP",
	}, adminID)
	requireAppError(t, err, http.StatusConflict)
}

func TestPortalServiceCreateValidation(t *testing.T) {
	svc := newPortalServiceForTest(&mockPortalRepo{})

	_, err := svc.Create(context.Background(), dto.CreatePortalRequest{Month: 13, Year: 2024, Name: "x"}, adminID)
	appErr := requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, map[string]string{
		"month":       "must be at most 12",
		"displayName": "is required",
	}, appErr.Details)

	_, err = svc.Create(context.Background(), dto.CreatePortalRequest{Month: 1, Year: 2024, Name: "   ", DisplayName: "y"}, adminID)
	appErr = requireAppError(t, err, http.StatusBadRequest)
	assert.Equal(t, "must not be blank", appErr.Details["name"])
}

func TestPortalServiceCreateWithoutActor(t *testing.T) {
	svc := newPortalServiceForTest(&mockPortalRepo{})
	_, err := svc.Create(context.Background(), dto.CreatePortalRequest{Month: 1, Year: 2024, Name: "x", DisplayName: "y"}, "")
	appErr := requireAppError(t, err, http.StatusUnauthorized)
	assert.Equal(t, "User ID not found", appErr.Message)
}

func TestPortalServiceGetNotFound(t *testing.T) {
	svc := newPortalServiceForTest(&mockPortalRepo{})
	_, err := svc.Get(context.Background(), portalA)
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, "Payment portal not found with id: "+portalA, appErr.Message)
}

func TestPortalServiceListDefaultsAndFilters(t *testing.T) {
	repo := &mockPortalRepo{portals: map[string]models.Portal{
		portalA: {ID: portalA, Visibility: models.VisibilityPublished},
		portalB: {ID: portalB, Visibility: models.VisibilityHidden},
	}}
	svc := newPortalServiceForTest(repo)

	items, pagination, err := svc.List(context.Background(), PortalQuery{IsPublished: boolPtr(true), Limit: 500, Offset: 40})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, portalA, items[0].ID)
	assert.Equal(t, 20, repo.lastFilter.PageSize)
	assert.Equal(t, 3, repo.lastFilter.Page)
	assert.Equal(t, 1, pagination.TotalCount)

	_, _, err = svc.List(context.Background(), PortalQuery{Month: intPtr(0)})
	requireAppError(t, err, http.StatusBadRequest)
}

func TestPortalServiceUpdate(t *testing.T) {
	repo := &mockPortalRepo{portals: map[string]models.Portal{
		portalA: {ID: portalA, Name: "SPP", DisplayName: "Old", Visibility: models.VisibilityHidden},
	}}
	svc := newPortalServiceForTest(repo)

	hidden := models.VisibilityHidden
	portal, err := svc.Update(context.Background(), portalA, dto.UpdatePortalRequest{
		DisplayName: strPtr("New"),
		IsPublished: boolPtr(true),
		Visibility:  &hidden,
	}, adminID)
	require.NoError(t, err)
	assert.Equal(t, "New", portal.DisplayName)
	assert.Equal(t, models.VisibilityHidden, portal.Visibility, "visibility is applied after isPublished")
	assert.Equal(t, "SPP", repo.portals[portalA].Name)

	portal, err = svc.Update(context.Background(), portalA, dto.UpdatePortalRequest{IsPublished: boolPtr(true)}, adminID)
	require.NoError(t, err)
	assert.True(t, portal.IsPublished())

	_, err = svc.Update(context.Background(), portalB, dto.UpdatePortalRequest{}, adminID)
	requireAppError(t, err, http.StatusNotFound)
}

func TestPortalServiceBulkVisibility(t *testing.T) {
	repo := &mockPortalRepo{portals: map[string]models.Portal{
		portalA: {ID: portalA, Visibility: models.VisibilityHidden},
		portalB: {ID: portalB, Visibility: models.VisibilityHidden},
	}}
	svc := newPortalServiceForTest(repo)

	err := svc.BulkUpdateVisibility(context.Background(), dto.BulkVisibilityRequest{
		PortalIDs: []string{portalA, portalB}, IsPublished: boolPtr(true),
	}, adminID)
	require.NoError(t, err)
	assert.True(t, repo.portals[portalA].IsPublished())
	assert.True(t, repo.portals[portalB].IsPublished())
}

func TestPortalServiceBulkVisibilityUnknownIDLeavesPortalsUntouched(t *testing.T) {
	repo := &mockPortalRepo{portals: map[string]models.Portal{
		portalA: {ID: portalA, Visibility: models.VisibilityHidden},
	}}
	svc := newPortalServiceForTest(repo)

	err := svc.BulkUpdateVisibility(context.Background(), dto.BulkVisibilityRequest{
		PortalIDs: []string{portalA, "00000000-0000-4000-8000-000000000000"}, IsPublished: boolPtr(true),
	}, adminID)
	appErr := requireAppError(t, err, http.StatusNotFound)
	assert.Equal(t, "One or more portal IDs not found", appErr.Message)
	assert.False(t, repo.portals[portalA].IsPublished())
}

func TestPortalServiceBulkVisibilityValidation(t *testing.T) {
	svc := newPortalServiceForTest(&mockPortalRepo{})

	err := svc.BulkUpdateVisibility(context.Background(), dto.BulkVisibilityRequest{IsPublished: boolPtr(true)}, adminID)
	requireAppError(t, err, http.StatusBadRequest)

	err = svc.BulkUpdateVisibility(context.Background(), dto.BulkVisibilityRequest{PortalIDs: []string{portalA}}, adminID)
	requireAppError(t, err, http.StatusBadRequest)

	err = svc.BulkUpdateVisibility(context.Background(), dto.BulkVisibilityRequest{PortalIDs: []string{"nope"}, IsPublished: boolPtr(false)}, adminID)
	requireAppError(t, err, http.StatusBadRequest)
}
