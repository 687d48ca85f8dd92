package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	"github.com/noah-isme/payment-portal-api/internal/service"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
)

const testPortalID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"

type portalServiceMock struct {
	portals   []models.Portal
	lastQuery service.PortalQuery
	lastActor string
	lastBulk  dto.BulkVisibilityRequest
	err       error
}

func (m *portalServiceMock) List(ctx context.Context, q service.PortalQuery) ([]models.Portal, *models.Pagination, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, nil, m.err
	}
	return m.portals, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(m.portals)}, nil
}

func (m *portalServiceMock) Get(ctx context.Context, id string) (*models.Portal, error) {
	for i := range m.portals {
		if m.portals[i].ID == id {
			return &m.portals[i], nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "Payment portal not found with id: "+id)
}

func (m *portalServiceMock) Create(ctx context.Context, req dto.CreatePortalRequest, actorID string) (*models.Portal, error) {
	m.lastActor = actorID
	if m.err != nil {
		return nil, m.err
	}
	return &models.Portal{ID: testPortalID, Month: req.Month, Year: req.Year, Name: req.Name, DisplayName: req.DisplayName, Visibility: models.VisibilityHidden, CreatedByAdminID: &actorID}, nil
}

func (m *portalServiceMock) Update(ctx context.Context, id string, req dto.UpdatePortalRequest, actorID string) (*models.Portal, error) {
	m.lastActor = actorID
	portal, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		portal.DisplayName = *req.DisplayName
	}
	return portal, nil
}

func (m *portalServiceMock) BulkUpdateVisibility(ctx context.Context, req dto.BulkVisibilityRequest, actorID string) error {
	m.lastBulk = req
	m.lastActor = actorID
	return m.err
}

func newPortalRouter(svc portalService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewPortalHandler(svc)
	r := gin.New()
	r.GET("/portals", h.List)
	r.POST("/portals", h.Create)
	r.PATCH("/portals/bulk-visibility", h.BulkVisibility)
	r.GET("/portals/:id", h.Get)
	r.PATCH("/portals/:id", h.Update)
	return r
}

// unsignedToken builds a compact token carrying the given claims.
func unsignedToken(claims map[string]any) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, _ := json.Marshal(claims)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func doJSON(r http.Handler, method, path string, body any, header string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestPortalHandlerList(t *testing.T) {
	svc := &portalServiceMock{portals: []models.Portal{
		{ID: testPortalID, Name: "SPP-MAR-2024", Visibility: models.VisibilityPublished, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}}
	rec := doJSON(newPortalRouter(svc), http.MethodGet, "/portals?month=3&year=2024&isPublished=true&limit=5&offset=10", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data struct {
			Items []map[string]any `json:"items"`
			Total int              `json:"total"`
		} `json:"data"`
		Pagination models.Pagination `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	assert.Equal(t, true, body.Data.Items[0]["isPublished"])
	assert.Equal(t, "PUBLISHED", body.Data.Items[0]["visibility"])
	assert.Equal(t, 1, body.Data.Total)
	assert.Equal(t, 1, body.Pagination.TotalCount)

	require.NotNil(t, svc.lastQuery.Month)
	assert.Equal(t, 3, *svc.lastQuery.Month)
	require.NotNil(t, svc.lastQuery.IsPublished)
	assert.True(t, *svc.lastQuery.IsPublished)
	assert.Equal(t, 5, svc.lastQuery.Limit)
	assert.Equal(t, 10, svc.lastQuery.Offset)
}

func TestPortalHandlerListRejectsMalformedQuery(t *testing.T) {
	rec := doJSON(newPortalRouter(&portalServiceMock{}), http.MethodGet, "/portals?month=march", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPortalHandlerCreateAttributesActor(t *testing.T) {
	svc := &portalServiceMock{}
	token := unsignedToken(map[string]any{"sub": "admin@test.com"})
	rec := doJSON(newPortalRouter(svc), http.MethodPost, "/portals", dto.CreatePortalRequest{
		Month: 3, Year: 2024, Name: "SPP-MAR-2024", DisplayName: "SPP March",
	}, "Bearer "+token)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "5b37040e-6200-3db3-87f4-09e994076872", svc.lastActor)
	assert.Contains(t, rec.Body.String(), `"createdByAdminId":"5b37040e-6200-3db3-87f4-09e994076872"`)
}

func TestPortalHandlerCreateWithoutIdentity(t *testing.T) {
	svc := &portalServiceMock{}
	doJSON(newPortalRouter(svc), http.MethodPost, "/portals", dto.CreatePortalRequest{Month: 3, Year: 2024, Name: "a", DisplayName: "b"}, "")
	assert.Equal(t, "", svc.lastActor)
}

func TestPortalHandlerGet(t *testing.T) {
	svc := &portalServiceMock{portals: []models.Portal{{ID: testPortalID, Name: "SPP"}}}
	r := newPortalRouter(svc)

	rec := doJSON(r, http.MethodGet, "/portals/"+testPortalID, nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(r, http.MethodGet, "/portals/not-a-uuid", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(r, http.MethodGet, "/portals/8d0e6679-7425-40de-944b-e07fc1f90ae8", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "RESOURCE_NOT_FOUND")
}

func TestPortalHandlerUpdate(t *testing.T) {
	svc := &portalServiceMock{portals: []models.Portal{{ID: testPortalID, DisplayName: "Old"}}}
	rec := doJSON(newPortalRouter(svc), http.MethodPatch, "/portals/"+testPortalID, map[string]any{"displayName": "New"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"displayName":"New"`)
}

func TestPortalHandlerBulkVisibility(t *testing.T) {
	svc := &portalServiceMock{}
	r := newPortalRouter(svc)

	rec := doJSON(r, http.MethodPatch, "/portals/bulk-visibility", map[string]any{
		"portalIds": []string{testPortalID}, "isPublished": true,
	}, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{testPortalID}, svc.lastBulk.PortalIDs)

	svc.err = appErrors.Clone(appErrors.ErrNotFound, "One or more portal IDs not found")
	rec = doJSON(r, http.MethodPatch, "/portals/bulk-visibility", map[string]any{
		"portalIds": []string{testPortalID}, "isPublished": true,
	}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	req := httptest.NewRequest(http.MethodPatch, "/portals/bulk-visibility", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
