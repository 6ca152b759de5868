package services

import (
	"database/sql"
	"errors"

	"milkcart/internal/domain"
	"milkcart/internal/repos"
)

type CatalogService struct {
	Cats  *repos.CategoryRepo
	Prods *repos.ProductRepo
	Inv   *repos.InventoryRepo
}

func NewCatalogService(cats *repos.CategoryRepo, prods *repos.ProductRepo, inv *repos.InventoryRepo) *CatalogService {
	return &CatalogService{Cats: cats, Prods: prods, Inv: inv}
}

// Listings return empty slices, never an error, when nothing exists.

func (s *CatalogService) ListCategories() ([]domain.Category, error) {
	return s.Cats.List()
}

func (s *CatalogService) ListProducts() ([]domain.Product, error) {
	return s.Prods.List()
}

func (s *CatalogService) ListProductsByCategory(categoryID int64) ([]domain.Product, error) {
	return s.Prods.ListByCategory(categoryID)
}

func (s *CatalogService) GetProduct(id int64) (domain.Product, error) {
	p, err := s.Prods.ByID(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	return p, err
}

func (s *CatalogService) AddCategory(name, description string) (int64, error) {
	if name == "" {
		return 0, ErrInvalidArgument
	}
	if _, err := s.Cats.ByName(name); err == nil {
		return 0, ErrConflict
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	return s.Cats.Insert(name, description)
}

func (s *CatalogService) UpdateCategory(id int64, name, description string) error {
	ok, err := s.Cats.Update(id, name, description)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) DeleteCategory(id int64) error {
	ok, err := s.Cats.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// AddProduct resolves the category by name (the admin API speaks category
// names, as the mobile clients do) and rejects duplicate product names.
func (s *CatalogService) AddProduct(name, categoryName, description, unit, imageURL string, price float64, stock int, actorID int64) (int64, error) {
	if name == "" || price < 0 || stock < 0 {
		return 0, ErrInvalidArgument
	}
	cat, err := s.Cats.ByName(categoryName)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	if _, err := s.Prods.ByName(name); err == nil {
		return 0, ErrConflict
	} else if !errors.Is(err, sql.ErrNoRows) {
		return 0, err
	}
	id, err := s.Prods.Insert(domain.Product{
		CategoryID:  cat.ID,
		Name:        name,
		Description: description,
		Price:       price,
		Unit:        unit,
		Stock:       stock,
		ImageURL:    imageURL,
	})
	if err != nil {
		return 0, err
	}
	if stock > 0 {
		if err := s.Inv.Log(id, domain.StockAdded, stock, actorID); err != nil {
			return 0, err
		}
	}
	return id, nil
}

func (s *CatalogService) UpdateProduct(id int64, name, description, unit, imageURL string, price float64) error {
	ok, err := s.Prods.Update(id, name, description, unit, imageURL, price)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *CatalogService) DeleteProduct(id int64) error {
	ok, err := s.Prods.Delete(id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

// SetStock overwrites the absolute stock value and logs the movement as
// Added or Removed relative to the previous value.
func (s *CatalogService) SetStock(productName string, newStock int, actorID int64) (domain.Product, error) {
	if newStock < 0 {
		return domain.Product{}, ErrInvalidArgument
	}
	p, err := s.Prods.ByName(productName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	if err := s.Prods.SetStock(p.ID, newStock); err != nil {
		return domain.Product{}, err
	}
	switch {
	case newStock > p.Stock:
		err = s.Inv.Log(p.ID, domain.StockAdded, newStock-p.Stock, actorID)
	case newStock < p.Stock:
		err = s.Inv.Log(p.ID, domain.StockRemoved, p.Stock-newStock, actorID)
	}
	if err != nil {
		return domain.Product{}, err
	}
	p.Stock = newStock
	return p, nil
}
