package models

import (
	"fmt"
	"strings"
)

// DataSheetType selects which submissions an export covers.
type DataSheetType string

const (
	DataSheetApproved DataSheetType = "APPROVED"
	DataSheetRejected DataSheetType = "REJECTED"
	DataSheetPending  DataSheetType = "PENDING"
	DataSheetAll      DataSheetType = "ALL"
)

// ParseDataSheetType accepts the enum name in any case.
func ParseDataSheetType(raw string) (DataSheetType, error) {
	switch t := DataSheetType(strings.ToUpper(strings.TrimSpace(raw))); t {
	case DataSheetApproved, DataSheetRejected, DataSheetPending, DataSheetAll:
		return t, nil
	default:
		return "", fmt.Errorf("unknown data sheet type %q", raw)
	}
}

// Status returns the submission status the type filters on. ALL yields nil.
func (t DataSheetType) Status() *SubmissionStatus {
	var status SubmissionStatus
	switch t {
	case DataSheetApproved:
		status = SubmissionApproved
	case DataSheetRejected:
		status = SubmissionRejected
	case DataSheetPending:
		status = SubmissionPending
	default:
		return nil
	}
	return &status
}

// ExportFormat is the binary layout of an export.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "CSV"
	ExportXLSX ExportFormat = "XLSX"
	ExportPDF  ExportFormat = "PDF"
)

// ParseExportFormat accepts the enum name in any case.
func ParseExportFormat(raw string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToUpper(strings.TrimSpace(raw))); f {
	case ExportCSV, ExportXLSX, ExportPDF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", raw)
	}
}

// ContentType returns the MIME type served for the format.
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ExportPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Extension returns the lowercase filename extension.
func (f ExportFormat) Extension() string {
	return strings.ToLower(string(f))
}

// DataSheet is a rendered export ready to be streamed.
type DataSheet struct {
	Filename    string
	ContentType string
	Content     []byte
	RowCount    int
}
