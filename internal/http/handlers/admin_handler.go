package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "milkcart/internal/log"
	"milkcart/internal/services"
	"milkcart/internal/validate"
)

// AdminHandler covers everything behind RequireAdmin: catalog writes,
// stock, users, orders and subscription oversight.
type AdminHandler struct {
	Catalog *services.CatalogService
	Orders  *services.OrderService
	Users   *services.UserService
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (h *AdminHandler) AddCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "invalid category name")
	}
	id, err := h.Catalog.AddCategory(name, req.Description)
	if err != nil {
		return fail(c, "admin.category.add", err)
	}
	applog.Audit(c, "admin.category.add", map[string]any{"category_id": id, "name": name})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "category added"})
}

func (h *AdminHandler) UpdateCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid category id")
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := h.Catalog.UpdateCategory(id, req.Name, req.Description); err != nil {
		return fail(c, "admin.category.update", err)
	}
	applog.Audit(c, "admin.category.update", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"message": "category updated"})
}

func (h *AdminHandler) DeleteCategory(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid category id")
	}
	if err := h.Catalog.DeleteCategory(id); err != nil {
		return fail(c, "admin.category.delete", err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id})
	return c.JSON(fiber.Map{"message": "category deleted"})
}

type productRequest struct {
	Name         string  `json:"name"`
	CategoryName string  `json:"category_name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Unit         string  `json:"unit"`
	Stock        int     `json:"stock"`
	ImageURL     string  `json:"image_url"`
}

func (h *AdminHandler) AddProduct(c *fiber.Ctx) error {
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "invalid product name")
	}
	id, err := h.Catalog.AddProduct(name, req.CategoryName, req.Description, req.Unit, req.ImageURL,
		req.Price, req.Stock, currentUser(c).ID)
	if err != nil {
		return fail(c, "admin.product.add", err)
	}
	applog.Audit(c, "admin.product.add", map[string]any{"product_id": id, "name": name, "stock": req.Stock})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "product added"})
}

func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	var req productRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	price := req.Price
	if price == 0 {
		price = -1 // zero means "not provided" in a partial update
	}
	if err := h.Catalog.UpdateProduct(id, req.Name, req.Description, req.Unit, req.ImageURL, price); err != nil {
		return fail(c, "admin.product.update", err)
	}
	applog.Audit(c, "admin.product.update", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product updated"})
}

func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return fail(c, "admin.product.delete", err)
	}
	applog.Audit(c, "admin.product.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"message": "product deleted"})
}

type stockRequest struct {
	Stock int `json:"stock"`
}

// SetStock overwrites the absolute stock of a product addressed by name.
func (h *AdminHandler) SetStock(c *fiber.Ctx) error {
	var req stockRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	p, err := h.Catalog.SetStock(c.Params("name"), req.Stock, currentUser(c).ID)
	if err != nil {
		return fail(c, "admin.stock.set", err)
	}
	applog.Audit(c, "admin.stock.set", map[string]any{"product_id": p.ID, "stock": p.Stock})
	return c.JSON(fiber.Map{"product_id": p.ID, "stock": p.Stock})
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return fail(c, "admin.users.list", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *AdminHandler) ListUsersByRole(c *fiber.Ctx) error {
	role, ok := validate.Role(c.Params("role"))
	if !ok {
		return badRequest(c, "invalid role name")
	}
	users, err := h.Users.ListByRole(role)
	if err != nil {
		return fail(c, "admin.users.by_role", err)
	}
	return c.JSON(fiber.Map{"users": users})
}

type staffRequest struct {
	Phone string `json:"phone"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

func (h *AdminHandler) AddStaff(c *fiber.Ctx) error {
	var req staffRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	phone, ok := validate.Phone(req.Phone)
	if !ok {
		return badRequest(c, "invalid phone number")
	}
	name, ok := validate.Name(req.Name)
	if !ok {
		return badRequest(c, "invalid name")
	}
	u, err := h.Users.AddStaff(phone, name, req.Role)
	if err != nil {
		return fail(c, "admin.users.add", err)
	}
	applog.Audit(c, "admin.users.add", map[string]any{"user_id": u.ID, "role": u.RoleName})
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *AdminHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := h.Orders.ListAll()
	if err != nil {
		return fail(c, "admin.orders.list", err)
	}
	return c.JSON(fiber.Map{"orders": orders})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := h.Orders.UpdateStatus(id, req.Status); err != nil {
		return fail(c, "admin.orders.status", err)
	}
	applog.Audit(c, "admin.orders.status", map[string]any{"order_id": id, "status": req.Status})
	return c.JSON(fiber.Map{"message": "order status updated"})
}

func (h *AdminHandler) UpdatePaymentStatus(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid order id")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "malformed request body")
	}
	if err := h.Orders.UpdatePaymentStatus(id, req.Status); err != nil {
		return fail(c, "admin.orders.payment", err)
	}
	applog.Audit(c, "admin.orders.payment", map[string]any{"order_id": id, "payment_status": req.Status})
	return c.JSON(fiber.Map{"message": "payment status updated"})
}

func (h *AdminHandler) ListSubscriptions(c *fiber.Ctx) error {
	subs, err := h.Orders.ListAllSubscriptions()
	if err != nil {
		return fail(c, "admin.subscriptions.list", err)
	}
	return c.JSON(fiber.Map{"subscriptions": subs})
}
