package reports

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/models"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

// Export builds the requested report over [from, to] inclusive and returns
// the workbook together with a download filename. The inventory report is a
// point-in-time snapshot and ignores the range.
func Export(ctx context.Context, reportType models.ReportType, from time.Time, to time.Time) (*bytes.Buffer, string, error) {

	if !reportType.IsValid() {
		return nil, "", utils.NewAppError(utils.ErrorKindInvalidLine, "report_type",
			"invalid report type %q", reportType)
	}
	if from.After(to) {
		return nil, "", utils.NewAppError(utils.ErrorKindInvalidRange, "date_from",
			"start date %s is after end date %s",
			from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	var buf *bytes.Buffer
	var err error
	switch reportType {
	case models.ReportTypeSales:
		buf, err = GetSalesReport(ctx, from, to)
	case models.ReportTypePurchases:
		buf, err = GetPurchaseReport(ctx, from, to)
	case models.ReportTypeInventory:
		buf, err = GetInventoryReport(ctx)
	case models.ReportTypeCashflow:
		buf, err = GetCashFlowReport(ctx, from, to)
	}
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_report_%s_%s.xlsx",
		reportType, from.Format("2006-01-02"), to.Format("2006-01-02"))
	return buf, filename, nil
}
