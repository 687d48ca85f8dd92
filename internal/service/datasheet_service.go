package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/export"
)

const exportTimeLayout = "2006-01-02 15:04:05"

var defaultExportColumns = []string{"id", "studentId", "portalName", "status", "submittedAt", "fileCount", "rejectionReason"}

var exportLabels = map[string]string{
	"id":              "ID",
	"studentid":       "Student ID",
	"portalname":      "Portal Name",
	"portal":          "Portal Name",
	"status":          "Status",
	"submittedat":     "Submitted At",
	"filecount":       "File Count",
	"files":           "Files",
	"rejectionreason": "Rejection Reason",
	"lastupdatedat":   "Last Updated",
	"portalid":        "Portal ID",
}

type exportSource interface {
	FindByIDs(ctx context.Context, ids []string) ([]models.Submission, error)
	List(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
}

type datasetRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type exportRecorder interface {
	ObserveExport(sheetType, format string, rows int)
}

// DataSheetService renders submission collections into downloadable sheets.
type DataSheetService struct {
	source  exportSource
	csv     datasetRenderer
	pdf     datasetRenderer
	xlsx    datasetRenderer
	metrics exportRecorder
	logger  *zap.Logger
	now     func() time.Time
}

// NewDataSheetService constructs the export service. Nil renderers fall back
// to the pkg/export implementations.
func NewDataSheetService(source exportSource, logger *zap.Logger, metrics exportRecorder, csv, pdf, xlsx datasetRenderer) *DataSheetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if xlsx == nil {
		xlsx = export.NewXLSXExporter("Submissions")
	}
	return &DataSheetService{
		source:  source,
		csv:     csv,
		pdf:     pdf,
		xlsx:    xlsx,
		metrics: metrics,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Export builds the requested data sheet. An explicit id list overrides the
// type and period filters.
func (s *DataSheetService) Export(ctx context.Context, q dto.ExportDataSheetQuery) (*models.DataSheet, error) {
	sheetType, format, err := parseSheetSelectors(q.Type, q.Format)
	if err != nil {
		return nil, err
	}
	from, to, err := periodRange(q.Month, q.Year)
	if err != nil {
		return nil, err
	}
	ids, err := submissionIDs(q.SubmissionIDs)
	if err != nil {
		return nil, err
	}

	var submissions []models.Submission
	if len(ids) > 0 {
		submissions, err = s.source.FindByIDs(ctx, ids)
	} else {
		submissions, _, err = s.source.List(ctx, models.SubmissionFilter{
			Status: sheetType.Status(),
			From:   from,
			To:     to,
		})
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load submissions for export")
	}

	columns := splitList(q.Columns)
	if len(columns) == 0 {
		columns = defaultExportColumns
	}
	generated := s.now()
	data := buildDataset(columns, submissions, generated)

	renderer := s.rendererFor(format)
	content, err := renderer.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render data sheet")
	}

	sheet := &models.DataSheet{
		Filename:    sheetFilename(sheetType, format, q.Month, q.Year),
		ContentType: format.ContentType(),
		Content:     content,
		RowCount:    len(submissions),
	}
	if s.metrics != nil {
		s.metrics.ObserveExport(string(sheetType), string(format), sheet.RowCount)
	}
	s.logger.Info("data sheet exported",
		zap.String("type", string(sheetType)),
		zap.String("format", string(format)),
		zap.Int("rows", sheet.RowCount),
		zap.Int("bytes", len(content)),
	)
	return sheet, nil
}

func (s *DataSheetService) rendererFor(format models.ExportFormat) datasetRenderer {
	switch format {
	case models.ExportPDF:
		return s.pdf
	case models.ExportXLSX:
		return s.xlsx
	default:
		return s.csv
	}
}

func parseSheetSelectors(rawType, rawFormat string) (models.DataSheetType, models.ExportFormat, error) {
	details := map[string]string{}
	sheetType, err := models.ParseDataSheetType(rawType)
	if err != nil {
		details["type"] = "must be one of [APPROVED REJECTED PENDING ALL]"
	}
	format, err := models.ParseExportFormat(rawFormat)
	if err != nil {
		details["format"] = "must be one of [CSV XLSX PDF]"
	}
	if len(details) > 0 {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "invalid export parameters").WithDetails(details)
	}
	return sheetType, format, nil
}

func submissionIDs(raw []string) ([]string, error) {
	ids := splitList(raw)
	for _, id := range ids {
		if _, err := uuid.Parse(id); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid export parameters").
				WithDetails(map[string]string{"submissionIds": fmt.Sprintf("'%s' is not a valid UUID", id)})
		}
	}
	return ids, nil
}

// splitList flattens repeated and comma separated values, dropping blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func buildDataset(columns []string, submissions []models.Submission, generated time.Time) export.Dataset {
	data := export.Dataset{
		Title:       "Payment Submissions Report",
		GeneratedAt: generated,
		Columns:     make([]export.Column, len(columns)),
		Rows:        make([][]string, 0, len(submissions)),
	}
	for i, key := range columns {
		data.Columns[i] = export.Column{Key: key, Label: columnLabel(key)}
	}
	for i := range submissions {
		row := make([]string, len(columns))
		for j, key := range columns {
			row[j] = cellValue(&submissions[i], key)
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func columnLabel(key string) string {
	if label, ok := exportLabels[strings.ToLower(key)]; ok {
		return label
	}
	return key
}

func cellValue(sub *models.Submission, key string) string {
	switch strings.ToLower(key) {
	case "id":
		return sub.ID
	case "studentid":
		return sub.StudentID
	case "portalname", "portal":
		return sub.PortalNameAtSubmission
	case "status":
		return string(sub.Status)
	case "submittedat":
		return formatExportTime(sub.SubmittedAt)
	case "filecount":
		return strconv.Itoa(len(sub.Files))
	case "files":
		names := make([]string, len(sub.Files))
		for i, f := range sub.Files {
			names[i] = f.FileName
		}
		return strings.Join(names, "; ")
	case "rejectionreason":
		if sub.RejectionReason == nil {
			return ""
		}
		return *sub.RejectionReason
	case "lastupdatedat":
		return formatExportTime(sub.LastUpdatedAt)
	case "portalid":
		return sub.PortalID
	default:
		return ""
	}
}

func formatExportTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(exportTimeLayout)
}

func sheetFilename(sheetType models.DataSheetType, format models.ExportFormat, month, year *int) string {
	name := "payment-submissions-" + strings.ToLower(string(sheetType))
	if month != nil && year != nil {
		name += fmt.Sprintf("-%d-%02d", *year, *month)
	}
	return name + "." + format.Extension()
}
