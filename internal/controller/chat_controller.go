package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/dto"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/serverutils"
	"github.com/deekshith1818/MULTI-PDF-RAG/internal/service"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler)
	Ask(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	chatService service.IChatService
}

func NewChatController(chatService service.IChatService) IChatController {
	return &chatController{chatService: chatService}
}

func (c *chatController) RegisterRoutes(r fiber.Router, sessionMiddleware fiber.Handler) {
	h := r.Group("/chat/v1")
	h.Use(sessionMiddleware)
	h.Post("/", c.Ask)
	h.Get("/history", c.GetHistory)
	h.Delete("/history", c.ClearHistory)
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	sessionId, ok := ctx.Locals("session_id").(string)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid session")
	}

	req := new(dto.AskRequest)
	if err := ctx.BodyParser(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.Ask(ctx.Context(), sessionId, req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Answer generated", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionId, ok := ctx.Locals("session_id").(string)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid session")
	}

	res, err := c.chatService.History(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Conversation history", res))
}

func (c *chatController) ClearHistory(ctx *fiber.Ctx) error {
	sessionId, ok := ctx.Locals("session_id").(string)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid session")
	}

	if err := c.chatService.Clear(ctx.Context(), sessionId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Conversation cleared", nil))
}
