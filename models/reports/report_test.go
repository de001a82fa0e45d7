package reports

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/models"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

func TestExport_RejectsInvertedRange(t *testing.T) {
	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, -1)

	_, _, err := Export(context.Background(), models.ReportTypeSales, from, to)
	if !utils.IsErrorKind(err, utils.ErrorKindInvalidRange) {
		t.Fatalf("expected InvalidRange for from > to, got %v", err)
	}
}

func TestExport_RejectsUnknownReportType(t *testing.T) {
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := Export(context.Background(), models.ReportType("ledger"), from, from)
	if !utils.IsErrorKind(err, utils.ErrorKindInvalidLine) {
		t.Fatalf("expected InvalidLine for unknown report type, got %v", err)
	}
}

func TestExport_SameDayRangeIsValid(t *testing.T) {
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, _, err := Export(context.Background(), models.ReportType("ledger"), day, day)
	if utils.IsErrorKind(err, utils.ErrorKindInvalidRange) {
		t.Fatal("from == to must pass the range guard")
	}
}
