package models

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusActive, ProductStatusInactive:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusUnpaid, PaymentStatusPaid:
		return true
	}
	return false
}

type SalesOrderType string

const (
	SalesOrderTypeNormal     SalesOrderType = "normal"
	SalesOrderTypeLivestream SalesOrderType = "livestream"
)

func (t SalesOrderType) IsValid() bool {
	switch t {
	case SalesOrderTypeNormal, SalesOrderTypeLivestream:
		return true
	}
	return false
}

type UserRole string

const (
	UserRoleEmployee UserRole = "employee"
	UserRoleManager  UserRole = "manager"
	UserRoleAdmin    UserRole = "admin"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleEmployee, UserRoleManager, UserRoleAdmin:
		return true
	}
	return false
}

// StockReferenceType tags a ledger entry with the document that produced it.
type StockReferenceType string

const (
	StockReferencePurchaseOrder StockReferenceType = "PO"
	StockReferenceSalesOrder    StockReferenceType = "SO"
)

type StockBucket string

const (
	StockBucketOutOfStock StockBucket = "out_of_stock"
	StockBucketLowStock   StockBucket = "low_stock"
	StockBucketInStock    StockBucket = "in_stock"
)

type ReportType string

const (
	ReportTypeSales     ReportType = "sales"
	ReportTypePurchases ReportType = "purchases"
	ReportTypeInventory ReportType = "inventory"
	ReportTypeCashflow  ReportType = "cashflow"
)

func (t ReportType) IsValid() bool {
	switch t {
	case ReportTypeSales, ReportTypePurchases, ReportTypeInventory, ReportTypeCashflow:
		return true
	}
	return false
}
