package models

import (
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"gorm.io/gorm"
)

// OrderFilter narrows order listings. Zero value lists everything.
type OrderFilter struct {
	DateFrom      *time.Time      `form:"date_from" time_format:"2006-01-02"`
	DateTo        *time.Time      `form:"date_to" time_format:"2006-01-02"`
	PaymentStatus *PaymentStatus  `form:"payment_status"`
	OrderType     *SalesOrderType `form:"order_type"`
	Limit         int             `form:"limit"`
	Offset        int             `form:"offset"`
}

func (f *OrderFilter) validate() error {
	if f == nil {
		return nil
	}
	if f.DateFrom != nil && f.DateTo != nil && f.DateFrom.After(*f.DateTo) {
		return utils.NewAppError(utils.ErrorKindInvalidRange, "date_from",
			"start date %s is after end date %s",
			f.DateFrom.Format("2006-01-02"), f.DateTo.Format("2006-01-02"))
	}
	if f.PaymentStatus != nil && !f.PaymentStatus.IsValid() {
		return utils.NewAppError(utils.ErrorKindInvalidLine, "payment_status",
			"invalid payment status %q", *f.PaymentStatus)
	}
	if f.OrderType != nil && !f.OrderType.IsValid() {
		return utils.NewAppError(utils.ErrorKindInvalidLine, "order_type",
			"invalid order type %q", *f.OrderType)
	}
	return nil
}

// apply adds the WHERE/ORDER/LIMIT clauses. Date range is inclusive on both
// ends; ordering is date descending with id descending as tie-breaker.
func (f *OrderFilter) apply(dbCtx *gorm.DB, table string) *gorm.DB {
	if f != nil {
		if f.DateFrom != nil {
			dbCtx = dbCtx.Where(fmt.Sprintf("%s.order_date >= ?", table), *f.DateFrom)
		}
		if f.DateTo != nil {
			dbCtx = dbCtx.Where(fmt.Sprintf("%s.order_date <= ?", table), *f.DateTo)
		}
		if f.PaymentStatus != nil {
			dbCtx = dbCtx.Where(fmt.Sprintf("%s.payment_status = ?", table), *f.PaymentStatus)
		}
		// order_type only exists on sales orders
		if f.OrderType != nil && table == "sales_orders" {
			dbCtx = dbCtx.Where(fmt.Sprintf("%s.order_type = ?", table), *f.OrderType)
		}
	}
	dbCtx = dbCtx.Order(fmt.Sprintf("%s.order_date DESC, %s.id DESC", table, table))
	if f != nil && f.Limit > 0 {
		dbCtx = dbCtx.Limit(f.Limit).Offset(f.Offset)
	}
	return dbCtx
}
