package files

import (
	"errors"
	"net/url"

	"modsync/core/apperr"
	"modsync/core/hashstore"
	"modsync/core/logger"
	"modsync/core/middleware/auth"
	"modsync/core/middleware/rayid"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for served files.
type Handler struct {
	service        *Service
	hashesEndpoint string
	apiKey         string
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, hashesEndpoint, apiKey string) *Handler {
	return &Handler{service: service, hashesEndpoint: hashesEndpoint, apiKey: apiKey}
}

// RegisterRoutes registers the file routes on router.
func (h *Handler) RegisterRoutes(router fiber.Router) {
	if h.hashesEndpoint != "" {
		router.Post("/"+h.hashesEndpoint, auth.New(auth.Config{ApiKey: h.apiKey}), h.HandleReport)
	}
	router.Get("/", h.HandleList)
	router.Get("/:name", h.HandleDownload)
}

// HandleList returns the served files with sizes and hashes.
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	files, err := h.service.List()
	if err != nil {
		l.Error("Listing files failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(files)
}

// HandleDownload streams one file with its Content-Length.
func (h *Handler) HandleDownload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed name"})
	}

	f, size, err := h.service.Open(name)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUnsafePath):
			l.Warn("Rejected unsafe file name", zap.String("name", name))
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			l.Error("Opening file failed", zap.String("name", name), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
	}

	l.Info("Serving file", zap.String("name", name), zap.Int64("size", size))
	c.Set(fiber.HeaderContentType, fiber.MIMEOctetStream)
	c.Attachment(name)
	return c.SendStream(f, int(size))
}

// HandleReport stores a client's hash table and answers with the plan it
// would apply against the current mod pack.
func (h *Handler) HandleReport(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var table hashstore.Table
	if err := c.BodyParser(&table); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid hash table"})
	}

	id := rayid.Get(c)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
	}

	report, err := h.service.SaveReport(id, table)
	if err != nil {
		l.Error("Saving hash report failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Hash report received", zap.String("report", report.ID), zap.Int("files", report.Received))
	return c.JSON(report)
}
