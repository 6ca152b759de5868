package services_test

import (
	"errors"
	"testing"

	"milkcart/internal/domain"
	"milkcart/internal/repos"
	"milkcart/internal/services"
)

func TestAddCategoryConflictAndIncreasingIDs(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(
		repos.NewCategoryRepo(db), repos.NewProductRepo(db), repos.NewInventoryRepo(db))

	id1, err := catalog.AddCategory("Dairy", "")
	if err != nil {
		t.Fatal(err)
	}
	id2, err := catalog.AddCategory("Bakery", "")
	if err != nil {
		t.Fatal(err)
	}
	if id2 <= id1 {
		t.Fatalf("ids not strictly increasing: %d then %d", id1, id2)
	}

	if _, err := catalog.AddCategory("Dairy", "again"); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("duplicate: got %v, want ErrConflict", err)
	}
	// Case-insensitive duplicate.
	if _, err := catalog.AddCategory("dairy", ""); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("case duplicate: got %v, want ErrConflict", err)
	}
}

func TestAddProductRules(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(
		repos.NewCategoryRepo(db), repos.NewProductRepo(db), repos.NewInventoryRepo(db))

	if _, err := catalog.AddProduct("Milk 1L", "Dairy", "", "1L", "", 40, 50, 0); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("missing category: got %v, want ErrNotFound", err)
	}

	if _, err := catalog.AddCategory("Dairy", ""); err != nil {
		t.Fatal(err)
	}
	id1, err := catalog.AddProduct("Milk 1L", "Dairy", "", "1L", "", 40, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := catalog.AddProduct("Milk 1L", "Dairy", "", "1L", "", 40, 50, 0); !errors.Is(err, services.ErrConflict) {
		t.Fatalf("duplicate product: got %v, want ErrConflict", err)
	}
	id2, err := catalog.AddProduct("Curd 500g", "Dairy", "", "500g", "", 30, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if id2 <= id1 {
		t.Fatalf("ids not strictly increasing: %d then %d", id1, id2)
	}
}

func TestSetStockAbsoluteWithAuditTrail(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(
		repos.NewCategoryRepo(db), repos.NewProductRepo(db), repos.NewInventoryRepo(db))

	if _, err := catalog.SetStock("Milk 1L", 10, 1); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown product: got %v, want ErrNotFound", err)
	}

	if _, err := catalog.AddCategory("Dairy", ""); err != nil {
		t.Fatal(err)
	}
	pid, err := catalog.AddProduct("Milk 1L", "Dairy", "", "1L", "", 40, 50, 1)
	if err != nil {
		t.Fatal(err)
	}

	// Absolute overwrite, not a delta.
	p, err := catalog.SetStock("Milk 1L", 30, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 30 {
		t.Fatalf("stock = %d, want 30", p.Stock)
	}
	p, err = catalog.SetStock("Milk 1L", 80, 1)
	if err != nil {
		t.Fatal(err)
	}
	if p.Stock != 80 {
		t.Fatalf("stock = %d, want 80", p.Stock)
	}
	if _, err := catalog.SetStock("Milk 1L", -1, 1); !errors.Is(err, services.ErrInvalidArgument) {
		t.Fatalf("negative stock: got %v, want ErrInvalidArgument", err)
	}

	logs, err := repos.NewInventoryRepo(db).ListByProduct(pid)
	if err != nil {
		t.Fatal(err)
	}
	// initial Added(50), Removed(20), Added(50)
	if len(logs) != 3 {
		t.Fatalf("want 3 log entries, got %d", len(logs))
	}
	if logs[0].ChangeType != domain.StockAdded || logs[0].Quantity != 50 {
		t.Fatalf("latest log wrong: %+v", logs[0])
	}
	if logs[1].ChangeType != domain.StockRemoved || logs[1].Quantity != 20 {
		t.Fatalf("middle log wrong: %+v", logs[1])
	}
}

func TestEmptyListingsAreEmptyNotErrors(t *testing.T) {
	db := memdb(t)
	catalog := services.NewCatalogService(
		repos.NewCategoryRepo(db), repos.NewProductRepo(db), repos.NewInventoryRepo(db))

	cats, err := catalog.ListCategories()
	if err != nil {
		t.Fatal(err)
	}
	if len(cats) != 0 {
		t.Fatalf("want empty, got %d", len(cats))
	}
	prods, err := catalog.ListProducts()
	if err != nil {
		t.Fatal(err)
	}
	if len(prods) != 0 {
		t.Fatalf("want empty, got %d", len(prods))
	}
}
