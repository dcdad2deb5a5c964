package controller

import (
	"io"
	"os"

	"agri-assistant-be/internal/dto"
	"agri-assistant-be/internal/pkg/logger"
	"agri-assistant-be/internal/pkg/serverutils"
	"agri-assistant-be/internal/service"
	internalWS "agri-assistant-be/internal/websocket"
	"agri-assistant-be/pkg/prompt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

type IAssistantController interface {
	RegisterRoutes(r fiber.Router)
	CreateSession(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	SendChat(ctx *fiber.Ctx) error
	SendImage(ctx *fiber.Ctx) error
	UploadDocument(ctx *fiber.Ctx) error
	ClearDocument(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	ServeWs(ctx *fiber.Ctx) error
}

type assistantController struct {
	assistantService service.IAssistantService
	hub              *internalWS.Hub
	logger           logger.ILogger
}

func NewAssistantController(assistantService service.IAssistantService, hub *internalWS.Hub, log logger.ILogger) IAssistantController {
	return &assistantController{
		assistantService: assistantService,
		hub:              hub,
		logger:           log,
	}
}

func (c *assistantController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/assistant/v1")
	h.Get("health", c.Health)
	h.Get("ws/:sessionId", c.ServeWs)

	h.Use(serverutils.JwtMiddleware)
	h.Post("session", c.CreateSession)
	h.Get("session/:id/history", c.GetHistory)
	h.Post("session/:id/chat", c.SendChat)
	h.Post("session/:id/image", c.SendImage)
	h.Post("session/:id/document", c.UploadDocument)
	h.Delete("session/:id/document", c.ClearDocument)
	h.Delete("session/:id", c.DeleteSession)
}

// profileHints reads the farmer profile claims the JWT middleware stashed in
// locals. All of them are optional.
func profileHints(ctx *fiber.Ctx) prompt.Hints {
	hints := prompt.Hints{}
	if v, ok := ctx.Locals("name").(string); ok {
		hints.Name = v
	}
	if v, ok := ctx.Locals("location").(string); ok {
		hints.Location = v
	}
	if v, ok := ctx.Locals("farm_details").(string); ok {
		hints.Details = v
	}
	return hints
}

func userId(ctx *fiber.Ctx) string {
	if v, ok := ctx.Locals("user_id").(string); ok {
		return v
	}
	return ""
}

func (c *assistantController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.assistantService.CreateSession(ctx.Context(), userId(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session created", res))
}

func (c *assistantController) GetHistory(ctx *fiber.Ctx) error {
	res, err := c.assistantService.GetHistory(ctx.Context(), userId(ctx), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get history", res))
}

func (c *assistantController) SendChat(ctx *fiber.Ctx) error {
	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.assistantService.SendChat(ctx.Context(), userId(ctx), ctx.Params("id"), &req, profileHints(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Turn processed", res))
}

func (c *assistantController) SendImage(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Image file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot read image file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot read image file")
	}

	question := ctx.FormValue("question")
	lang := ctx.FormValue("language")

	res, err := c.assistantService.SendImage(ctx.Context(), userId(ctx), ctx.Params("id"), fileHeader.Filename, content, question, lang, profileHints(ctx))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Image processed", res))
}

func (c *assistantController) UploadDocument(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("document")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Document file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot read document file")
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Cannot read document file")
	}

	res, err := c.assistantService.UploadDocument(ctx.Context(), userId(ctx), ctx.Params("id"), fileHeader.Filename, content)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document processed", res))
}

func (c *assistantController) ClearDocument(ctx *fiber.Ctx) error {
	if err := c.assistantService.ClearDocument(ctx.Context(), userId(ctx), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Document cleared", nil))
}

func (c *assistantController) DeleteSession(ctx *fiber.Ctx) error {
	if err := c.assistantService.DeleteSession(ctx.Context(), userId(ctx), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}

func (c *assistantController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("ok", c.assistantService.Health(ctx.Context())))
}

// ServeWs upgrades the connection to the session's push stream. Browsers
// cannot set headers on websocket handshakes, so the token rides in the
// query string.
func (c *assistantController) ServeWs(ctx *fiber.Ctx) error {
	tokenStr := ctx.Query("token")
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("Missing token"))
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		c.logger.Warn("AssistantController", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse("Invalid token"))
	}

	sessionId := ctx.Params("sessionId")
	if _, ok := c.assistantService.SpeechController(sessionId); !ok {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse("Session not found"))
	}

	if websocket.IsWebSocketUpgrade(ctx) {
		return websocket.New(func(conn *websocket.Conn) {
			c.logger.Info("AssistantController", "Starting websocket session", map[string]interface{}{"session_id": sessionId})
			internalWS.ServeWs(c.hub, conn, sessionId)
			c.logger.Info("AssistantController", "Websocket session ended", map[string]interface{}{"session_id": sessionId})
		})(ctx)
	}
	return fiber.ErrUpgradeRequired
}
