package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "milkcart/internal/log"
	"milkcart/internal/services"
	"milkcart/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
}

type placeOrderRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
}

func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	placed, err := h.Orders.Place(currentUser(c).ID, req.ProductName, req.Quantity)
	if err != nil {
		applog.Security(c, "order.place.fail", map[string]any{"product": req.ProductName, "qty": req.Quantity})
		return fail(c, "order.place", err)
	}
	applog.Audit(c, "order.place", map[string]any{"order_id": placed.OrderID, "total": placed.Total})
	return c.Status(fiber.StatusCreated).JSON(placed)
}

func (h *OrderHandler) Mine(c *fiber.Ctx) error {
	orders, err := h.Orders.ListForUser(currentUser(c).ID)
	if err != nil {
		return fail(c, "order.list", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

// History lists the caller's delivered (archived) orders.
func (h *OrderHandler) History(c *fiber.Ctx) error {
	orders, err := h.Orders.HistoryForUser(currentUser(c).ID)
	if err != nil {
		return fail(c, "order.history", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	if err := h.Orders.DeleteForUser(id, currentUser(c).ID); err != nil {
		return fail(c, "order.delete", err)
	}
	applog.Audit(c, "order.delete", map[string]any{"order_id": id})
	return c.JSON(fiber.Map{"message": "order deleted"})
}

type subscribeRequest struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	StartsOn    string `json:"starts_on"` // YYYY-MM-DD
	EndsOn      string `json:"ends_on"`
}

func (h *OrderHandler) Subscribe(c *fiber.Ctx) error {
	var req subscribeRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	starts, err := time.Parse(time.DateOnly, req.StartsOn)
	if err != nil {
		return badRequest(c, "starts_on must be YYYY-MM-DD")
	}
	ends, err := time.Parse(time.DateOnly, req.EndsOn)
	if err != nil {
		return badRequest(c, "ends_on must be YYYY-MM-DD")
	}
	placed, subID, err := h.Orders.Subscribe(currentUser(c).ID, req.ProductName, req.Quantity, starts, ends)
	if err != nil {
		return fail(c, "subscription.create", err)
	}
	applog.Audit(c, "subscription.create", map[string]any{"subscription_id": subID, "order_id": placed.OrderID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"subscription_id": subID,
		"order":           placed,
	})
}

func (h *OrderHandler) MySubscriptions(c *fiber.Ctx) error {
	subs, err := h.Orders.ListSubscriptionsForUser(currentUser(c).ID)
	if err != nil {
		return fail(c, "subscription.list", err)
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}

func (h *OrderHandler) CancelSubscription(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid subscription id")
	}
	if err := h.Orders.CancelSubscription(id, currentUser(c).ID); err != nil {
		return fail(c, "subscription.cancel", err)
	}
	applog.Audit(c, "subscription.cancel", map[string]any{"subscription_id": id})
	return c.JSON(fiber.Map{"message": "subscription cancelled"})
}
