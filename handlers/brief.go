package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"threadbrief/errors"
	"threadbrief/models"
)

// CreateBrief handles POST /api/briefs.
func (h *Handlers) CreateBrief(c *fiber.Ctx) error {
	const op = "Handlers.CreateBrief"

	var req models.CreateBriefRequest
	if err := c.BodyParser(&req); err != nil {
		return errors.InvalidInput(op, err, "Invalid request body")
	}

	b, err := h.briefs.Create(c.Context(), &req, clientIP(c))
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(b)
}

// GetBrief handles GET /api/briefs/:id.
func (h *Handlers) GetBrief(c *fiber.Ctx) error {
	b, err := h.briefs.Get(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}

	return c.JSON(b)
}

// VideoMeta handles GET /api/video-meta?url=.
func (h *Handlers) VideoMeta(c *fiber.Ctx) error {
	const op = "Handlers.VideoMeta"

	url := c.Query("url")
	if url == "" {
		return errors.InvalidInput(op, nil, "Query parameter url is required")
	}

	meta, err := h.briefs.VideoMeta(c.Context(), url, clientIP(c))
	if err != nil {
		return err
	}

	return c.JSON(meta)
}

// clientIP resolves the caller's address, honoring the first entry of
// X-Forwarded-For when the service runs behind a proxy.
func clientIP(c *fiber.Ctx) string {
	if fwd := c.Get("X-Forwarded-For"); fwd != "" {
		if idx := strings.Index(fwd, ","); idx >= 0 {
			return strings.TrimSpace(fwd[:idx])
		}
		return strings.TrimSpace(fwd)
	}
	return c.IP()
}
