package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/payment-portal-api/internal/dto"
	"github.com/noah-isme/payment-portal-api/internal/models"
	appErrors "github.com/noah-isme/payment-portal-api/pkg/errors"
	"github.com/noah-isme/payment-portal-api/pkg/response"
)

type dataSheetService interface {
	Export(ctx context.Context, q dto.ExportDataSheetQuery) (*models.DataSheet, error)
}

// DataSheetHandler streams submission exports.
type DataSheetHandler struct {
	sheets dataSheetService
}

// NewDataSheetHandler constructs DataSheetHandler.
func NewDataSheetHandler(sheets dataSheetService) *DataSheetHandler {
	return &DataSheetHandler{sheets: sheets}
}

// Export godoc
// @Summary Export submissions as CSV, XLSX or PDF
// @Tags DataSheets
// @Produce text/csv
// @Produce application/pdf
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param type query string true "APPROVED, REJECTED, PENDING or ALL"
// @Param format query string true "CSV, XLSX or PDF"
// @Param month query int false "Month (requires year)"
// @Param year query int false "Year"
// @Param columns query []string false "Column keys" collectionFormat(csv)
// @Param submissionIds query []string false "Explicit submission ids" collectionFormat(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /data-sheets/export [get]
func (h *DataSheetHandler) Export(c *gin.Context) {
	var q dto.ExportDataSheetQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	sheet, err := h.sheets.Export(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, sheet.Filename, sheet.ContentType, sheet.Content)
}
