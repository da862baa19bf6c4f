package registro

import (
	"context"
	"fmt"

	"sicbot/internal/logger"
	"sicbot/internal/platform/redis"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// cacheKey is the redis key registro reads are cached under, invalidated by
// the status tracker on every write.
func cacheKey(id int64) string { return fmt.Sprintf("registro:%d", id) }

const cacheTTLSeconds = 10

// Trigger enqueues the automation run for a stored registro. The handler
// never waits for the run; the outcome is only observable on the row.
type Trigger interface {
	Enqueue(ctx context.Context, registroID int64) error
}

type Handler struct {
	log      *logger.Logger
	repo     *Repository
	validate *validator.Validate
	trigger  Trigger
	cache    *redis.Service
}

func NewHandler(repo *Repository, trigger Trigger, cache *redis.Service) *Handler {
	return &Handler{
		log:      logger.New("RegistroHandler"),
		repo:     repo,
		validate: validator.New(),
		trigger:  trigger,
		cache:    cache,
	}
}

type createRequest struct {
	Nit           string `json:"nit" validate:"required"`
	Empresa       string `json:"empresa" validate:"required"`
	Ciudad        string `json:"ciudad"`
	Cliente       string `json:"cliente" validate:"required"`
	Celular       string `json:"celular" validate:"required"`
	Correo        string `json:"correo" validate:"omitempty,email"`
	TipoCliente   string `json:"tipoCliente"`
	Concepto      string `json:"concepto"`
	MedioContacto string `json:"medioContacto"`
	AsignadoA     string `json:"asignadoA"`
	LineaVenta    string `json:"lineaVenta"`
}

// HandleCreate stores the registro and fires the automation run without
// waiting for it.
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid body"})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	r := &Registro{
		Nit:           req.Nit,
		Empresa:       req.Empresa,
		Ciudad:        req.Ciudad,
		Cliente:       req.Cliente,
		Celular:       req.Celular,
		Correo:        req.Correo,
		TipoCliente:   req.TipoCliente,
		Concepto:      req.Concepto,
		MedioContacto: req.MedioContacto,
		AsignadoA:     req.AsignadoA,
		LineaVenta:    req.LineaVenta,
	}
	r.Normalize()

	if err := h.repo.Create(c.Context(), r); err != nil {
		h.log.LogErrorf("create registro failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not store registro"})
	}

	h.log.LogInfof("registro %d stored (nit=%s empresa=%s), triggering automation", r.ID, r.Nit, r.Empresa)
	if err := h.trigger.Enqueue(c.Context(), r.ID); err != nil {
		// The row stays in PENDIENTE; a manual re-trigger can pick it up.
		h.log.LogErrorf("registro %d: enqueue automation failed: %v", r.ID, err)
	}

	return c.JSON(fiber.Map{"message": "Guardado y automatización iniciada", "id": r.ID})
}

func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid id"})
	}

	var cached Registro
	if h.cache != nil && h.cache.CacheGet(c.Context(), cacheKey(int64(id)), &cached) == nil {
		return c.JSON(cached)
	}

	r, err := h.repo.GetByID(c.Context(), int64(id))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
	}
	if h.cache != nil {
		if err := h.cache.CacheSet(c.Context(), cacheKey(r.ID), r, cacheTTLSeconds); err != nil {
			h.log.LogDebugf("registro %d: cache set failed: %v", r.ID, err)
		}
	}
	return c.JSON(r)
}
