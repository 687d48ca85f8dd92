package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/payment-portal-api/internal/models"
)

const portalColumns = `id, portal_month, portal_year, name, display_name, visibility, created_by_admin_id, created_at, updated_at, created_by, updated_by`

// PortalRepository manages persistence for payment portals.
type PortalRepository struct {
	db *sqlx.DB
}

// NewPortalRepository constructs a PortalRepository.
func NewPortalRepository(db *sqlx.DB) *PortalRepository {
	return &PortalRepository{db: db}
}

// List returns portals matching the filter, newest first, with the unpaged total.
func (r *PortalRepository) List(ctx context.Context, filter models.PortalFilter) ([]models.Portal, int, error) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Month != nil {
		conditions = append(conditions, fmt.Sprintf("portal_month = $%d", len(args)+1))
		args = append(args, *filter.Month)
	}
	if filter.Year != nil {
		conditions = append(conditions, fmt.Sprintf("portal_year = $%d", len(args)+1))
		args = append(args, *filter.Year)
	}
	if filter.IsPublished != nil {
		conditions = append(conditions, fmt.Sprintf("visibility = $%d", len(args)+1))
		args = append(args, string(models.VisibilityFor(*filter.IsPublished)))
	}

	base := fmt.Sprintf("FROM payment_portals WHERE %s", strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC, id DESC LIMIT %d OFFSET %d", portalColumns, base, size, offset)
	var portals []models.Portal
	if err := r.db.SelectContext(ctx, &portals, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list portals: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count portals: %w", err)
	}
	return portals, total, nil
}

// FindByID fetches a portal by id. sql.ErrNoRows is returned untouched.
func (r *PortalRepository) FindByID(ctx context.Context, id string) (*models.Portal, error) {
	var portal models.Portal
	if err := r.db.GetContext(ctx, &portal, "SELECT "+portalColumns+" FROM payment_portals WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &portal, nil
}

// ExistsByName checks whether a portal already uses the name.
func (r *PortalRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists int
	if err := r.db.GetContext(ctx, &exists, "SELECT 1 FROM payment_portals WHERE name = $1 LIMIT 1", name); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check portal name: %w", err)
	}
	return true, nil
}

// Create inserts a new portal. A concurrent duplicate name surfaces as ErrDuplicateKey.
func (r *PortalRepository) Create(ctx context.Context, portal *models.Portal) error {
	if portal.ID == "" {
		portal.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if portal.CreatedAt.IsZero() {
		portal.CreatedAt = now
	}
	portal.UpdatedAt = portal.CreatedAt
	const query = `INSERT INTO payment_portals (id, portal_month, portal_year, name, display_name, visibility, created_by_admin_id, created_at, updated_at, created_by, updated_by)
        VALUES (:id, :portal_month, :portal_year, :name, :display_name, :visibility, :created_by_admin_id, :created_at, :updated_at, :created_by, :updated_by)`
	if _, err := r.db.NamedExecContext(ctx, query, portal); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create portal: %w", ErrDuplicateKey)
		}
		return fmt.Errorf("create portal: %w", err)
	}
	return nil
}

// Update persists the mutable portal fields.
func (r *PortalRepository) Update(ctx context.Context, portal *models.Portal) error {
	if portal.UpdatedAt.IsZero() {
		portal.UpdatedAt = time.Now().UTC()
	}
	const query = `UPDATE payment_portals SET display_name = :display_name, visibility = :visibility, updated_at = :updated_at, updated_by = :updated_by WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, portal)
	if err != nil {
		return fmt.Errorf("update portal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update portal rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// BulkUpdateVisibility sets the visibility of every listed portal in one transaction.
// If any id does not exist nothing is changed and sql.ErrNoRows is returned.
func (r *PortalRepository) BulkUpdateVisibility(ctx context.Context, ids []string, visibility models.PortalVisibility, actor *string, at time.Time) (err error) {
	ids = distinct(ids)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk visibility transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var found []string
	const lockQuery = `SELECT id FROM payment_portals WHERE id = ANY($1) FOR UPDATE`
	if err = tx.SelectContext(ctx, &found, lockQuery, pq.Array(ids)); err != nil {
		return fmt.Errorf("lock portals: %w", err)
	}
	if len(found) != len(ids) {
		err = sql.ErrNoRows
		return err
	}

	const updateQuery = `UPDATE payment_portals SET visibility = $1, updated_at = $2, updated_by = $3 WHERE id = ANY($4)`
	if _, err = tx.ExecContext(ctx, updateQuery, string(visibility), at, actor, pq.Array(ids)); err != nil {
		return fmt.Errorf("update portal visibility: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk visibility: %w", err)
	}
	return nil
}

func distinct(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}
	return result
}
