package services

import (
	"database/sql"
	"errors"
	"time"

	"milkcart/internal/domain"
	"milkcart/internal/repos"
)

type OrderService struct {
	Prods  *repos.ProductRepo
	Orders *repos.OrderRepo
	Subs   *repos.SubscriptionRepo
}

func NewOrderService(prods *repos.ProductRepo, orders *repos.OrderRepo, subs *repos.SubscriptionRepo) *OrderService {
	return &OrderService{Prods: prods, Orders: orders, Subs: subs}
}

// PlacedOrder is what Place returns to the caller: the new order plus the
// stock remaining after the decrement.
type PlacedOrder struct {
	OrderID        int64   `json:"order_id"`
	ProductID      int64   `json:"product_id"`
	ProductName    string  `json:"product_name"`
	Quantity       int     `json:"quantity"`
	Total          float64 `json:"total"`
	RemainingStock int     `json:"remaining_stock"`
}

// Place looks up the product by name, then commits the stock decrement and
// the order row atomically. Insufficient stock leaves everything unchanged.
func (s *OrderService) Place(userID int64, productName string, qty int) (PlacedOrder, error) {
	if qty < 1 {
		return PlacedOrder{}, ErrInvalidArgument
	}
	p, err := s.Prods.ByName(productName)
	if errors.Is(err, sql.ErrNoRows) {
		return PlacedOrder{}, ErrNotFound
	}
	if err != nil {
		return PlacedOrder{}, err
	}

	orderID, err := s.Orders.Place(userID, p, qty, domain.OrderPending)
	if errors.Is(err, repos.ErrNoStock) {
		return PlacedOrder{}, ErrInsufficientStock
	}
	if err != nil {
		return PlacedOrder{}, err
	}
	return PlacedOrder{
		OrderID:        orderID,
		ProductID:      p.ID,
		ProductName:    p.Name,
		Quantity:       qty,
		Total:          p.Price * float64(qty),
		RemainingStock: p.Stock - qty,
	}, nil
}

// Subscribe places a Subscribed order and the linked subscription row.
// The duplicate-active check runs before any stock or order mutation, so a
// rejected duplicate consumes nothing.
func (s *OrderService) Subscribe(userID int64, productName string, qty int, startsOn, endsOn time.Time) (PlacedOrder, int64, error) {
	if qty < 1 || !endsOn.After(startsOn) {
		return PlacedOrder{}, 0, ErrInvalidArgument
	}
	p, err := s.Prods.ByName(productName)
	if errors.Is(err, sql.ErrNoRows) {
		return PlacedOrder{}, 0, ErrNotFound
	}
	if err != nil {
		return PlacedOrder{}, 0, err
	}
	dup, err := s.Subs.ActiveForUserProduct(userID, p.ID)
	if err != nil {
		return PlacedOrder{}, 0, err
	}
	if dup {
		return PlacedOrder{}, 0, ErrConflict
	}

	orderID, subID, err := s.Orders.PlaceSubscribed(userID, p, qty,
		startsOn.Format(time.DateOnly), endsOn.Format(time.DateOnly))
	if errors.Is(err, repos.ErrNoStock) {
		return PlacedOrder{}, 0, ErrInsufficientStock
	}
	if err != nil {
		return PlacedOrder{}, 0, err
	}
	return PlacedOrder{
		OrderID:        orderID,
		ProductID:      p.ID,
		ProductName:    p.Name,
		Quantity:       qty,
		Total:          p.Price * float64(qty),
		RemainingStock: p.Stock - qty,
	}, subID, nil
}

// UpdateStatus applies a direct status write. "Delivered" archives the
// order into history instead; the active-store row disappears.
func (s *OrderService) UpdateStatus(orderID int64, status string) error {
	if !domain.ValidOrderStatus(status) {
		return ErrInvalidArgument
	}
	if status == domain.OrderDelivered {
		ok, err := s.Orders.Archive(orderID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	}
	ok, err := s.Orders.UpdateStatus(orderID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *OrderService) UpdatePaymentStatus(orderID int64, status string) error {
	if !domain.ValidPaymentStatus(status) {
		return ErrInvalidArgument
	}
	ok, err := s.Orders.UpdatePaymentStatus(orderID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *OrderService) Get(orderID int64) (domain.Order, error) {
	o, err := s.Orders.ByID(orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	return o, err
}

func (s *OrderService) ListForUser(userID int64) ([]domain.Order, error) {
	return s.Orders.ListByUser(userID)
}

func (s *OrderService) ListAll() ([]domain.Order, error) {
	return s.Orders.ListAll()
}

func (s *OrderService) HistoryForUser(userID int64) ([]domain.ArchivedOrder, error) {
	return s.Orders.HistoryByUser(userID)
}

// DeleteForUser removes an order, but only the owner's own.
func (s *OrderService) DeleteForUser(orderID, userID int64) error {
	ok, err := s.Orders.DeleteForUser(orderID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *OrderService) ListSubscriptionsForUser(userID int64) ([]domain.Subscription, error) {
	return s.Subs.ListByUser(userID)
}

func (s *OrderService) ListAllSubscriptions() ([]domain.Subscription, error) {
	return s.Subs.ListAll()
}

func (s *OrderService) CancelSubscription(subID, userID int64) error {
	ok, err := s.Subs.CancelForUser(subID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}
