package handlers

import (
	"net/http"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/models"
	"bitbucket.org/mmdatafocus/shop_backend/models/reports"
	"github.com/gin-gonic/gin"
)

type exportRequest struct {
	ReportType models.ReportType `form:"report_type" binding:"required"`
	DateFrom   *time.Time        `form:"date_from" time_format:"2006-01-02"`
	DateTo     *time.Time        `form:"date_to" time_format:"2006-01-02"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportReportHandler streams the requested workbook. When no range is given
// the report covers the last 30 days, matching the dashboard's default view.
func ExportReportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req exportRequest
		if err := c.ShouldBindQuery(&req); err != nil {
			respondError(c, err)
			return
		}

		to := time.Now()
		if req.DateTo != nil {
			to = *req.DateTo
		}
		from := to.AddDate(0, 0, -30)
		if req.DateFrom != nil {
			from = *req.DateFrom
		}

		buf, filename, err := reports.Export(c.Request.Context(), req.ReportType, from, to)
		if err != nil {
			respondError(c, err)
			return
		}

		c.Header("Content-Disposition", "attachment; filename="+filename)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
	}
}
