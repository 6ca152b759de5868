package handlers

import (
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "milkcart/internal/log"
)

// UploadHandler stores promotional images under MediaDir. Stored names are
// prefixed with a UUID so two uploads of "offer.jpg" never collide.
type UploadHandler struct {
	MediaDir string

	mu     sync.Mutex
	offers []offer
}

type offer struct {
	Filename string `json:"filename"`
	Offer    string `json:"offer"`
	URL      string `json:"url"`
}

func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "missing file")
	}
	base := filepath.Base(file.Filename)
	if base == "." || base == "/" || strings.ContainsRune(base, 0) {
		return badRequest(c, "invalid filename")
	}
	stored := uuid.NewString() + "_" + base
	if err := c.SaveFile(file, filepath.Join(h.MediaDir, stored)); err != nil {
		applog.Error(c, "upload.save", err, map[string]any{"filename": base})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store file"})
	}

	o := offer{Filename: stored, Offer: c.FormValue("offer"), URL: "/media/" + stored}
	h.mu.Lock()
	h.offers = append(h.offers, o)
	h.mu.Unlock()

	applog.Audit(c, "upload.save", map[string]any{"filename": stored})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "upload successful", "data": o})
}

func (h *UploadHandler) Offers(c *fiber.Ctx) error {
	h.mu.Lock()
	out := make([]offer, len(h.offers))
	copy(out, h.offers)
	h.mu.Unlock()
	return c.JSON(fiber.Map{"offers": out})
}
