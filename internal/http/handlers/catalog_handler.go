package handlers

import (
	"github.com/gofiber/fiber/v2"

	"milkcart/internal/services"
	"milkcart/internal/validate"
)

// CatalogHandler serves the public, unauthenticated browse endpoints.
type CatalogHandler struct {
	Catalog *services.CatalogService
}

func (h *CatalogHandler) Categories(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories()
	if err != nil {
		return fail(c, "catalog.categories", err)
	}
	// Empty catalog is an empty list, not an error.
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *CatalogHandler) Products(c *fiber.Ctx) error {
	if raw := c.Query("category_id"); raw != "" {
		id, ok := validate.ID(raw)
		if !ok {
			return badRequest(c, "invalid category_id")
		}
		prods, err := h.Catalog.ListProductsByCategory(id)
		if err != nil {
			return fail(c, "catalog.products", err)
		}
		return c.JSON(fiber.Map{"products": prods})
	}
	prods, err := h.Catalog.ListProducts()
	if err != nil {
		return fail(c, "catalog.products", err)
	}
	return c.JSON(fiber.Map{"products": prods})
}

func (h *CatalogHandler) Product(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "invalid product id")
	}
	p, err := h.Catalog.GetProduct(id)
	if err != nil {
		return fail(c, "catalog.product", err)
	}
	return c.JSON(p)
}
