package services_test

import (
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"

	"milkcart/internal/domain"
	"milkcart/internal/repos"
	"milkcart/internal/services"
)

func newCustomer(t *testing.T, db *sqlx.DB, phone string) int64 {
	t.Helper()
	users := repos.NewUserRepo(db)
	role, err := users.RoleByName(domain.RoleCustomer)
	if err != nil {
		t.Fatal(err)
	}
	id, err := users.Create(phone, "Tester", role.ID)
	if err != nil {
		t.Fatal(err)
	}
	return id
}

// seedMilk builds the spec scenario: category Dairy, product "Milk 1L"
// with stock 50 at price 40.
func seedMilk(t *testing.T, db *sqlx.DB) (*services.CatalogService, *services.OrderService) {
	t.Helper()
	catalog := services.NewCatalogService(
		repos.NewCategoryRepo(db), repos.NewProductRepo(db), repos.NewInventoryRepo(db))
	orders := services.NewOrderService(
		repos.NewProductRepo(db), repos.NewOrderRepo(db), repos.NewSubscriptionRepo(db))

	catID, err := catalog.AddCategory("Dairy", "milk and dairy products")
	if err != nil {
		t.Fatal(err)
	}
	if catID != 1 {
		t.Fatalf("first category id = %d, want 1", catID)
	}
	prodID, err := catalog.AddProduct("Milk 1L", "Dairy", "full cream", "1L", "", 40, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if prodID != 1 {
		t.Fatalf("first product id = %d, want 1", prodID)
	}
	return catalog, orders
}

func TestPlaceOrderDecrementsStock(t *testing.T) {
	db := memdb(t)
	_, orders := seedMilk(t, db)
	uid := newCustomer(t, db, "9990001111")

	placed, err := orders.Place(uid, "Milk 1L", 5)
	if err != nil {
		t.Fatal(err)
	}
	if placed.Total != 200 {
		t.Fatalf("total = %v, want 200", placed.Total)
	}
	if placed.RemainingStock != 45 {
		t.Fatalf("remaining stock = %d, want 45", placed.RemainingStock)
	}

	o, err := orders.Get(placed.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if o.Status != domain.OrderPending || o.PaymentStatus != domain.PaymentPending {
		t.Fatalf("new order status = %s/%s, want Pending/Pending", o.Status, o.PaymentStatus)
	}
	if o.UnitPrice != 40 || o.Total != 200 {
		t.Fatalf("order price copy wrong: unit=%v total=%v", o.UnitPrice, o.Total)
	}

	p, err := repos.NewProductRepo(db).ByName("Milk 1L")
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 45 {
		t.Fatalf("stock = %d, want 45", p.Stock)
	}

	// Only 45 remain: ordering 50 must fail and change nothing.
	if _, err := orders.Place(uid, "Milk 1L", 50); !errors.Is(err, services.ErrInsufficientStock) {
		t.Fatalf("got %v, want ErrInsufficientStock", err)
	}
	p, _ = repos.NewProductRepo(db).ByName("Milk 1L")
	if p.Stock != 45 {
		t.Fatalf("failed order changed stock to %d", p.Stock)
	}
	list, err := orders.ListForUser(uid)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 {
		t.Fatalf("failed order left %d orders, want 1", len(list))
	}
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	db := memdb(t)
	_, orders := seedMilk(t, db)
	uid := newCustomer(t, db, "9990001111")

	if _, err := orders.Place(uid, "Cheese", 1); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if _, err := orders.Place(uid, "Milk 1L", 0); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("zero quantity: got %v, want ErrInvalidArgument", err)
	}
}

func TestPlaceOrderWritesInventoryLog(t *testing.T) {
	db := memdb(t)
	_, orders := seedMilk(t, db)
	uid := newCustomer(t, db, "9990001111")

	if _, err := orders.Place(uid, "Milk 1L", 5); err != nil {
		t.Fatal(err)
	}
	logs, err := repos.NewInventoryRepo(db).ListByProduct(1)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) == 0 || logs[0].ChangeType != domain.StockSold || logs[0].Quantity != 5 {
		t.Fatalf("expected Sold(5) log entry, got %+v", logs)
	}
}

func TestDeliveredOrderIsArchived(t *testing.T) {
	db := memdb(t)
	_, orders := seedMilk(t, db)
	uid := newCustomer(t, db, "9990001111")

	placed, err := orders.Place(uid, "Milk 1L", 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := orders.UpdateStatus(placed.OrderID, "Shipped"); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("bad status: got %v, want ErrInvalidArgument", err)
	}
	if err := orders.UpdateStatus(placed.OrderID, domain.OrderProcessing); err != nil {
		t.Fatal(err)
	}
	if err := orders.UpdateStatus(placed.OrderID, domain.OrderDelivered); err != nil {
		t.Fatal(err)
	}

	// Gone from the active store...
	if _, err := orders.Get(placed.OrderID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("active lookup after delivery: got %v, want ErrNotFound", err)
	}
	// ...and present in history, marked delivered.
	hist, err := repos.NewOrderRepo(db).HistoryByID(placed.OrderID)
	if err != nil {
		t.Fatal(err)
	}
	if hist.Status != domain.OrderDelivered || hist.Total != 80 {
		t.Fatalf("archived order wrong: %+v", hist)
	}

	// A second delivery of the same id has nothing to archive.
	if err := orders.UpdateStatus(placed.OrderID, domain.OrderDelivered); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("re-deliver: got %v, want ErrNotFound", err)
	}
}

func TestDeleteOrderOwnership(t *testing.T) {
	db := memdb(t)
	_, orders := seedMilk(t, db)
	owner := newCustomer(t, db, "9990001111")
	other := newCustomer(t, db, "9990002222")

	placed, err := orders.Place(owner, "Milk 1L", 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := orders.DeleteForUser(placed.OrderID, other); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("foreign delete: got %v, want ErrNotFound", err)
	}
	if err := orders.DeleteForUser(placed.OrderID, owner); err != nil {
		t.Fatal(err)
	}
	if _, err := orders.Get(placed.OrderID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("deleted order still present: %v", err)
	}
}
