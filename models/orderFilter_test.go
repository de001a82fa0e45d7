package models

import (
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/utils"
)

func datePtr(year int, month time.Month, day int) *time.Time {
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &d
}

func TestOrderFilterValidate_RejectsInvertedRange(t *testing.T) {
	filter := OrderFilter{
		DateFrom: datePtr(2026, 3, 10),
		DateTo:   datePtr(2026, 3, 1),
	}
	err := filter.validate()
	if !utils.IsErrorKind(err, utils.ErrorKindInvalidRange) {
		t.Fatalf("expected InvalidRange error, got %v", err)
	}
}

func TestOrderFilterValidate_SingleDayRangeIsValid(t *testing.T) {
	filter := OrderFilter{
		DateFrom: datePtr(2026, 3, 10),
		DateTo:   datePtr(2026, 3, 10),
	}
	if err := filter.validate(); err != nil {
		t.Fatalf("from == to must be a valid range, got %v", err)
	}
}

func TestOrderFilterValidate_RejectsBadEnums(t *testing.T) {
	badStatus := PaymentStatus("overdue")
	filter := OrderFilter{PaymentStatus: &badStatus}
	if err := filter.validate(); !utils.IsErrorKind(err, utils.ErrorKindInvalidLine) {
		t.Fatalf("expected InvalidLine for bad payment status, got %v", err)
	}

	badType := SalesOrderType("auction")
	filter = OrderFilter{OrderType: &badType}
	if err := filter.validate(); !utils.IsErrorKind(err, utils.ErrorKindInvalidLine) {
		t.Fatalf("expected InvalidLine for bad order type, got %v", err)
	}
}

func TestOrderFilterValidate_NilFilter(t *testing.T) {
	var filter *OrderFilter
	if err := filter.validate(); err != nil {
		t.Fatalf("nil filter must validate, got %v", err)
	}
}
