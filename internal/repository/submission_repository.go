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

const submissionColumns = `id, student_id, portal_id, status, rejection_reason, portal_name_at_submission, submitted_at, last_updated_at, updated_by`

const fileColumns = `id, submission_id, position, file_id, file_name, file_type`

// SubmissionRepository manages payment submissions and their file references.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs a SubmissionRepository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create inserts the submission and all of its files atomically.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) (err error) {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = now
	}
	submission.LastUpdatedAt = submission.SubmittedAt

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin submission transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const insertSubmission = `INSERT INTO payment_submissions (id, student_id, portal_id, status, rejection_reason, portal_name_at_submission, submitted_at, last_updated_at, updated_by)
        VALUES (:id, :student_id, :portal_id, :status, :rejection_reason, :portal_name_at_submission, :submitted_at, :last_updated_at, :updated_by)`
	if _, err = tx.NamedExecContext(ctx, insertSubmission, submission); err != nil {
		return fmt.Errorf("insert submission: %w", err)
	}

	const insertFile = `INSERT INTO uploaded_files (id, submission_id, position, file_id, file_name, file_type)
        VALUES (:id, :submission_id, :position, :file_id, :file_name, :file_type)`
	for i := range submission.Files {
		file := &submission.Files[i]
		if file.ID == "" {
			file.ID = uuid.NewString()
		}
		file.SubmissionID = submission.ID
		file.Position = i
		if _, err = tx.NamedExecContext(ctx, insertFile, file); err != nil {
			return fmt.Errorf("insert uploaded file: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit submission: %w", err)
	}
	return nil
}

// FindByID fetches a submission with its files. sql.ErrNoRows is returned untouched.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, "SELECT "+submissionColumns+" FROM payment_submissions WHERE id = $1", id); err != nil {
		return nil, err
	}
	items := []models.Submission{submission}
	if err := r.attachFiles(ctx, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// FindByIDs fetches the listed submissions. Unknown ids are skipped.
func (r *SubmissionRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Submission, error) {
	if len(ids) == 0 {
		return []models.Submission{}, nil
	}
	query := "SELECT " + submissionColumns + " FROM payment_submissions WHERE id = ANY($1) ORDER BY submitted_at DESC, id DESC"
	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, pq.Array(distinct(ids))); err != nil {
		return nil, fmt.Errorf("find submissions by ids: %w", err)
	}
	if err := r.attachFiles(ctx, submissions); err != nil {
		return nil, err
	}
	return submissions, nil
}

// List returns submissions matching the filter, newest first. An unpaged filter
// returns every match and the total is the slice length.
func (r *SubmissionRepository) List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error) {
	where, args := submissionWhere(filter)
	base := "FROM payment_submissions WHERE " + where

	query := fmt.Sprintf("SELECT %s %s ORDER BY submitted_at DESC, id DESC", submissionColumns, base)
	if !filter.Unpaged() {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.PageSize, (page-1)*filter.PageSize)
	}

	var submissions []models.Submission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	if err := r.attachFiles(ctx, submissions); err != nil {
		return nil, 0, err
	}

	if filter.Unpaged() {
		return submissions, len(submissions), nil
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}
	return submissions, total, nil
}

// UpdateStatus overwrites status and rejection reason and refreshes last_updated_at.
func (r *SubmissionRepository) UpdateStatus(ctx context.Context, id string, status models.SubmissionStatus, reason *string, actor *string, at time.Time) error {
	const query = `UPDATE payment_submissions SET status = $1, rejection_reason = $2, last_updated_at = $3, updated_by = $4 WHERE id = $5`
	res, err := r.db.ExecContext(ctx, query, string(status), reason, at, actor, id)
	if err != nil {
		return fmt.Errorf("update submission status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update submission status rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func submissionWhere(filter models.SubmissionFilter) (string, []interface{}) {
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID != nil {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, *filter.StudentID)
	}
	if filter.PortalID != nil {
		conditions = append(conditions, fmt.Sprintf("portal_id = $%d", len(args)+1))
		args = append(args, *filter.PortalID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, string(*filter.Status))
	}
	if filter.From != nil {
		conditions = append(conditions, fmt.Sprintf("submitted_at >= $%d", len(args)+1))
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		conditions = append(conditions, fmt.Sprintf("submitted_at < $%d", len(args)+1))
		args = append(args, *filter.To)
	}

	return strings.Join(conditions, " AND "), args
}

// attachFiles loads files for the given submissions with a single query.
func (r *SubmissionRepository) attachFiles(ctx context.Context, submissions []models.Submission) error {
	if len(submissions) == 0 {
		return nil
	}
	ids := make([]string, len(submissions))
	index := make(map[string]int, len(submissions))
	for i := range submissions {
		ids[i] = submissions[i].ID
		index[submissions[i].ID] = i
		submissions[i].Files = []models.UploadedFile{}
	}

	query := "SELECT " + fileColumns + " FROM uploaded_files WHERE submission_id = ANY($1) ORDER BY submission_id, position"
	var files []models.UploadedFile
	if err := r.db.SelectContext(ctx, &files, query, pq.Array(ids)); err != nil {
		return fmt.Errorf("load uploaded files: %w", err)
	}
	for _, file := range files {
		if i, ok := index[file.SubmissionID]; ok {
			submissions[i].Files = append(submissions[i].Files, file)
		}
	}
	return nil
}
