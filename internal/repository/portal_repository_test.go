package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/payment-portal-api/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var portalRowColumns = []string{"id", "portal_month", "portal_year", "name", "display_name", "visibility", "created_by_admin_id", "created_at", "updated_at", "created_by", "updated_by"}

func TestPortalRepositoryListAppliesFilters(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	month, year, published := 11, 2025, true
	now := time.Now().UTC()
	rows := sqlmock.NewRows(portalRowColumns).
		AddRow("p-1", 11, 2025, "nov-2025", "November 2025", "PUBLISHED", nil, now, now, nil, nil)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT "+portalColumns+" FROM payment_portals WHERE 1=1 AND portal_month = $1 AND portal_year = $2 AND visibility = $3 ORDER BY created_at DESC, id DESC LIMIT 10 OFFSET 10")).
		WithArgs(11, 2025, "PUBLISHED").
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payment_portals WHERE 1=1 AND portal_month = $1 AND portal_year = $2 AND visibility = $3")).
		WithArgs(11, 2025, "PUBLISHED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(11))

	portals, total, err := repo.List(context.Background(), models.PortalFilter{Month: &month, Year: &year, IsPublished: &published, Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, portals, 1)
	assert.True(t, portals[0].IsPublished())
	assert.Equal(t, 11, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryListDefaults(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM payment_portals WHERE 1=1 ORDER BY created_at DESC, id DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(sqlmock.NewRows(portalRowColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM payment_portals WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	portals, total, err := repo.List(context.Background(), models.PortalFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Empty(t, portals)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryExistsByName(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM payment_portals WHERE name = $1 LIMIT 1")).
		WithArgs("nov-2025").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM payment_portals WHERE name = $1 LIMIT 1")).
		WithArgs("dec-2025").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByName(context.Background(), "nov-2025")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByName(context.Background(), "dec-2025")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryCreateMapsUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	mock.ExpectExec("INSERT INTO payment_portals").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "uq_payment_portals_name"})

	err := repo.Create(context.Background(), &models.Portal{Month: 11, Year: 2025, Name: "nov-2025", DisplayName: "Nov", Visibility: models.VisibilityHidden})
	assert.True(t, errors.Is(err, ErrDuplicateKey))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	mock.ExpectExec("INSERT INTO payment_portals").
		WithArgs(sqlmock.AnyArg(), 11, 2025, "nov-2025", "Nov", "HIDDEN", sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	portal := &models.Portal{Month: 11, Year: 2025, Name: "nov-2025", DisplayName: "Nov", Visibility: models.VisibilityHidden}
	require.NoError(t, repo.Create(context.Background(), portal))
	assert.NotEmpty(t, portal.ID)
	assert.Equal(t, portal.CreatedAt, portal.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryUpdateMissing(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	mock.ExpectExec("UPDATE payment_portals SET display_name").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Portal{ID: "missing", Visibility: models.VisibilityHidden})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryBulkUpdateVisibility(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	ids := []string{"p-1", "p-2"}
	at := time.Now().UTC()
	actor := "admin"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM payment_portals WHERE id = ANY($1) FOR UPDATE")).
		WithArgs(pq.Array(ids)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-1").AddRow("p-2"))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE payment_portals SET visibility = $1, updated_at = $2, updated_by = $3 WHERE id = ANY($4)")).
		WithArgs("PUBLISHED", at, actor, pq.Array(ids)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	err := repo.BulkUpdateVisibility(context.Background(), []string{"p-1", "p-2", "p-1"}, models.VisibilityPublished, &actor, at)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPortalRepositoryBulkUpdateVisibilityMissingIDRollsBack(t *testing.T) {
	db, mock, cleanup := newMockDB(t)
	defer cleanup()
	repo := NewPortalRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM payment_portals WHERE id = ANY($1) FOR UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("p-1"))
	mock.ExpectRollback()

	err := repo.BulkUpdateVisibility(context.Background(), []string{"p-1", "bogus"}, models.VisibilityHidden, nil, time.Now())
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
