package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/serverutils"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/service"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler)
	CreateSession(ctx *fiber.Ctx) error
	GetSnapshot(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{sessionService: sessionService}
}

func (c *sessionController) RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler) {
	h := r.Group("/sessions/v1")

	// Creation is the only unauthenticated endpoint: it mints the token
	// everything else requires.
	h.Post("/", c.CreateSession)
	h.Get("/me", sessionMiddleware, c.GetSnapshot)
}

func (c *sessionController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.sessionService.Create(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *sessionController) GetSnapshot(ctx *fiber.Ctx) error {
	sessionId, ok := ctx.Locals("session_id").(string)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid session")
	}

	res, err := c.sessionService.Snapshot(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session snapshot", res))
}
