package handler

import (
	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"

	"github.com/deekshith1818/MULTI-PDF-RAG/internal/pkg/serverutils"
	internalWS "github.com/deekshith1818/MULTI-PDF-RAG/internal/websocket"
)

// ProgressHandler upgrades authenticated clients onto the ingest
// progress stream for their session.
type ProgressHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
}

func NewProgressHandler(hub *internalWS.Hub, jwtSecret string) *ProgressHandler {
	return &ProgressHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// ServeWs authenticates the session token and upgrades the connection.
// Browsers cannot set headers on the WebSocket constructor, so the token
// usually arrives as ?token=; the Bearer header works for CLI clients.
func (h *ProgressHandler) ServeWs(c *fiber.Ctx) error {
	tokenString := c.Query("token")
	if tokenString == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenString = authHeader[7:]
		}
	}
	if tokenString == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "missing session token")
	}

	sessionID, err := serverutils.ParseSessionToken(tokenString, h.jwtSecret)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired session token")
	}

	if fiberws.IsWebSocketUpgrade(c) {
		return fiberws.New(func(conn *fiberws.Conn) {
			internalWS.ServeWs(h.hub, conn, sessionID)
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

func (h *ProgressHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/progress", h.ServeWs)
}
