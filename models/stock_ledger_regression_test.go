package models_test

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/shop_backend/config"
	"bitbucket.org/mmdatafocus/shop_backend/models"
	"bitbucket.org/mmdatafocus/shop_backend/models/reports"
	"bitbucket.org/mmdatafocus/shop_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// End-to-end ledger behavior against real MySQL + Redis:
// purchase commits add stock, sales commits subtract, an insufficient sale
// commits nothing, and concurrent sales never oversell.
func TestStockLedger_CommitFlow(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	ctx := setupIntegrationEnv(t)

	category, err := models.CreateCategory(ctx, &models.NewCategory{Name: "Skincare"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	productType, err := models.CreateProductType(ctx, &models.NewProductType{Name: "Soap", CategoryId: category.ID})
	if err != nil {
		t.Fatalf("CreateProductType: %v", err)
	}
	soap, err := models.CreateProduct(ctx, &models.NewProduct{
		Sku:        "SOAP-001",
		Name:       "Lavender Soap",
		CategoryId: category.ID,
		TypeId:     productType.ID,
	})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if soap.CurrentStock != 0 {
		t.Fatalf("new product must start at zero stock, got %d", soap.CurrentStock)
	}

	supplier, err := models.CreateSupplier(ctx, &models.NewSupplier{Name: "Golden Lotus Trading"})
	if err != nil {
		t.Fatalf("CreateSupplier: %v", err)
	}

	orderDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	po, err := models.CreatePurchaseOrder(ctx, &models.NewPurchaseOrder{
		SupplierId: supplier.ID,
		OrderDate:  orderDate,
		Details: []models.NewOrderLine{
			{ProductId: soap.ID, Qty: 10, UnitPrice: decimal.NewFromInt(1500)},
		},
	})
	if err != nil {
		t.Fatalf("CreatePurchaseOrder: %v", err)
	}
	if !po.TotalAmount.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("expected PO total 15000, got %s", po.TotalAmount)
	}
	if got := mustCurrentStock(t, ctx, soap.ID); got != 10 {
		t.Fatalf("after purchase: expected stock 10, got %d", got)
	}

	so, err := models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		OrderDate: orderDate.AddDate(0, 0, 1),
		Details: []models.NewOrderLine{
			{ProductId: soap.ID, Qty: 4, UnitPrice: decimal.NewFromInt(2500)},
		},
	})
	if err != nil {
		t.Fatalf("CreateSalesOrder: %v", err)
	}
	if so.CustomerId != nil {
		t.Fatalf("walk-in sale must have nil customer, got %v", *so.CustomerId)
	}
	if got := mustCurrentStock(t, ctx, soap.ID); got != 6 {
		t.Fatalf("after sale: expected stock 6, got %d", got)
	}

	// Oversell attempt: nothing commits, not even the valid line.
	salesCountBefore := countSalesOrders(t, ctx)
	_, err = models.CreateSalesOrder(ctx, &models.NewSalesOrder{
		OrderDate: orderDate.AddDate(0, 0, 2),
		Details: []models.NewOrderLine{
			{ProductId: soap.ID, Qty: 2, UnitPrice: decimal.NewFromInt(2500)},
			{ProductId: soap.ID, Qty: 5, UnitPrice: decimal.NewFromInt(2500)},
		},
	})
	if !utils.IsErrorKind(err, utils.ErrorKindInsufficientStock) {
		t.Fatalf("expected InsufficientStock, got %v", err)
	}
	if got := mustCurrentStock(t, ctx, soap.ID); got != 6 {
		t.Fatalf("failed sale must not change stock, got %d", got)
	}
	if got := countSalesOrders(t, ctx); got != salesCountBefore {
		t.Fatalf("failed sale must not create an order row: before=%d after=%d", salesCountBefore, got)
	}

	// Two concurrent sales of 3+4 against stock 6: exactly one wins.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	quantities := []int{3, 4}
	for i := range quantities {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = models.CreateSalesOrder(ctx, &models.NewSalesOrder{
				OrderDate: orderDate.AddDate(0, 0, 3),
				Details: []models.NewOrderLine{
					{ProductId: soap.ID, Qty: quantities[i], UnitPrice: decimal.NewFromInt(2500)},
				},
			})
		}(i)
	}
	wg.Wait()
	failures := 0
	for _, e := range errs {
		if e != nil {
			if !utils.IsErrorKind(e, utils.ErrorKindInsufficientStock) {
				t.Fatalf("unexpected concurrent error: %v", e)
			}
			failures++
		}
	}
	if failures != 1 {
		t.Fatalf("expected exactly one of the concurrent sales to fail, got %d failures", failures)
	}
	finalStock := mustCurrentStock(t, ctx, soap.ID)
	if finalStock != 3 && finalStock != 2 {
		t.Fatalf("expected final stock 3 or 2 (one sale committed), got %d", finalStock)
	}

	// Summary equals ledger sum, and survives a rebuild.
	db := config.GetDB()
	var ledgerSum int
	if err := db.WithContext(ctx).Model(&models.StockLedgerEntry{}).
		Select("COALESCE(SUM(qty_delta), 0)").
		Where("product_id = ?", soap.ID).
		Scan(&ledgerSum).Error; err != nil {
		t.Fatalf("ledger sum: %v", err)
	}
	if ledgerSum != finalStock {
		t.Fatalf("summary drifted from ledger: summary=%d ledger=%d", finalStock, ledgerSum)
	}
	if err := db.WithContext(ctx).Model(&models.StockSummary{}).
		Where("product_id = ?", soap.ID).
		Update("current_qty", 999).Error; err != nil {
		t.Fatalf("corrupt summary: %v", err)
	}
	if err := models.RebuildStockSummaries(ctx); err != nil {
		t.Fatalf("RebuildStockSummaries: %v", err)
	}
	if got := mustCurrentStock(t, ctx, soap.ID); got != ledgerSum {
		t.Fatalf("rebuild must restore ledger sum %d, got %d", ledgerSum, got)
	}

	// Listing filters: inclusive date range and payment status flip.
	paid, err := models.SetPurchaseOrderPaymentStatus(ctx, po.ID, models.PaymentStatusPaid)
	if err != nil {
		t.Fatalf("SetPurchaseOrderPaymentStatus: %v", err)
	}
	if paid.PaymentStatus != models.PaymentStatusPaid {
		t.Fatalf("expected paid, got %s", paid.PaymentStatus)
	}
	status := models.PaymentStatusPaid
	listed, err := models.ListPurchaseOrders(ctx, &models.OrderFilter{
		DateFrom:      &orderDate,
		DateTo:        &orderDate,
		PaymentStatus: &status,
	})
	if err != nil {
		t.Fatalf("ListPurchaseOrders: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != po.ID {
		t.Fatalf("expected exactly the paid PO on its order date, got %d orders", len(listed))
	}
	if listed[0].SupplierName != supplier.Name {
		t.Fatalf("expected supplier name %q on listing, got %q", supplier.Name, listed[0].SupplierName)
	}

	// Sales export range is inclusive at both ends. The committed sales sit
	// on day+1 (the first sale) and day+3 (the concurrent winner).
	firstSaleDate := orderDate.AddDate(0, 0, 1)
	lastSaleDate := orderDate.AddDate(0, 0, 3)
	if got := exportedSalesRows(t, ctx, firstSaleDate, lastSaleDate); got != 2 {
		t.Fatalf("full range must include both committed sales, got %d rows", got)
	}
	if got := exportedSalesRows(t, ctx, firstSaleDate, firstSaleDate); got != 1 {
		t.Fatalf("range starting on the first sale date must include it, got %d rows", got)
	}
	if got := exportedSalesRows(t, ctx, lastSaleDate, lastSaleDate); got != 1 {
		t.Fatalf("range ending on the last sale date must include it, got %d rows", got)
	}
	if got := exportedSalesRows(t, ctx, orderDate.AddDate(0, 0, 2), orderDate.AddDate(0, 0, 2)); got != 0 {
		t.Fatalf("day with only the failed sale must export no rows, got %d", got)
	}
}

// exportedSalesRows runs the sales export over [from, to] and counts the
// data rows in the workbook (header excluded).
func exportedSalesRows(t *testing.T, ctx context.Context, from, to time.Time) int {
	t.Helper()
	buf, _, err := reports.Export(ctx, models.ReportTypeSales, from, to)
	if err != nil {
		t.Fatalf("Export(sales, %s, %s): %v", from.Format("2006-01-02"), to.Format("2006-01-02"), err)
	}
	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("open exported workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows("Sales")
	if err != nil {
		t.Fatalf("read Sales sheet: %v", err)
	}
	return len(rows) - 1
}

func mustCurrentStock(t *testing.T, ctx context.Context, productId int) int {
	t.Helper()
	qty, err := models.GetCurrentStock(ctx, productId)
	if err != nil {
		t.Fatalf("GetCurrentStock(%d): %v", productId, err)
	}
	return qty
}

func countSalesOrders(t *testing.T, ctx context.Context) int64 {
	t.Helper()
	var count int64
	if err := config.GetDB().WithContext(ctx).Model(&models.SalesOrder{}).Count(&count).Error; err != nil {
		t.Fatalf("count sales orders: %v", err)
	}
	return count
}

// setupIntegrationEnv boots MySQL + Redis containers, connects the globals,
// migrates and returns an admin context.
func setupIntegrationEnv(t *testing.T) context.Context {
	t.Helper()

	redisName, redisPort := startRedisContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(redisName) })

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("REDIS_ADDRESS", fmt.Sprintf("127.0.0.1:%s", redisPort))
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "shop_test")

	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()
	models.MigrateTable()

	ctx := context.Background()
	ctx = utils.SetUserIdInContext(ctx, 1)
	ctx = utils.SetUserNameInContext(ctx, "Test")
	ctx = utils.SetUserRoleInContext(ctx, string(models.UserRoleAdmin))
	return ctx
}

func startRedisContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("shop-test-redis-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-p", "127.0.0.1:0:6379",
		"redis:7-alpine",
	)
	if err != nil {
		t.Fatalf("start redis container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "6379/tcp")
	if err != nil {
		t.Fatalf("redis docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "redis-cli", "ping")
		if err == nil {
			return name, port
		}
		time.Sleep(250 * time.Millisecond)
	}
	t.Fatalf("redis did not become ready")
	return "", ""
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("shop-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=shop_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}

func dockerRun(args ...string) (string, error) {
	cmd := exec.Command("docker", args...)
	b, err := cmd.CombinedOutput()
	return string(b), err
}
