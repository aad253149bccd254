package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/msgbox/messaging-service/internal/api/metrics"
	"github.com/msgbox/messaging-service/internal/core/domain"
	"github.com/msgbox/messaging-service/internal/core/ports"
)

// MessageHandler handles HTTP requests for the /messages routes. Every route
// expects the BasicAuth middleware to have run.
type MessageHandler struct {
	service ports.MessageService
}

func NewMessageHandler(service ports.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

// List returns every message addressed to the authenticated user.
//
// @Summary      List received messages
// @Tags         messages
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   messageResponse
// @Failure      400  {string}  string  "Password cannot be empty"
// @Failure      401  {string}  string  "Cannot authenticate user"
// @Failure      500  {string}  string  "Internal server error"
// @Router       /messages/all [get]
func (h *MessageHandler) List(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	views, err := h.service.List(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMessageResponses(views))
}

// Filter returns the authenticated user's messages with the given status.
//
// @Summary      List received messages by status
// @Tags         messages
// @Produce      json
// @Security     BasicAuth
// @Param        status  path      string  true  "Message status"  Enums(New, Received)
// @Success      200     {array}   messageResponse
// @Failure      400     {string}  string  "Invalid message status"
// @Failure      401     {string}  string  "Cannot authenticate user"
// @Failure      500     {string}  string  "Internal server error"
// @Router       /messages/filter/{status} [get]
func (h *MessageHandler) Filter(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	status, err := domain.ParseMessageStatus(c.Param("status"))
	if err != nil {
		return err
	}

	views, err := h.service.ListByStatus(c.Request().Context(), username, status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toMessageResponses(views))
}

// Send stores a new message from the authenticated user. The generated id is
// not returned.
//
// @Summary      Send a message
// @Tags         messages
// @Accept       json
// @Security     BasicAuth
// @Param        Idempotency-Key  header  string              false  "Replays with the same key do not create a second message"
// @Param        body             body    sendMessageRequest  true   "Message"
// @Success      201
// @Failure      400  {string}  string  "Message recipient not found"
// @Failure      401  {string}  string  "Cannot authenticate user"
// @Failure      500  {string}  string  "Error while saving message"
// @Router       /messages/new [post]
func (h *MessageHandler) Send(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid message payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid message payload: "+err.Error())
	}

	idempotencyKey := c.Request().Header.Get("Idempotency-Key")
	if err := h.service.Send(c.Request().Context(), toSendInput(req, username, idempotencyKey)); err != nil {
		return err
	}

	metrics.MessagesSentTotal.Inc()
	return c.NoContent(http.StatusCreated)
}

// Acknowledge marks a message addressed to the authenticated user as Received.
//
// @Summary      Acknowledge a message
// @Tags         messages
// @Security     BasicAuth
// @Param        message_id  path  string  true  "Message id (UUID)"
// @Success      200
// @Failure      400  {string}  string  "Message not found"
// @Failure      401  {string}  string  "Cannot authenticate user"
// @Failure      500  {string}  string  "Internal server error"
// @Router       /messages/ack/received/{message_id} [post]
func (h *MessageHandler) Acknowledge(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	if err := h.service.Acknowledge(c.Request().Context(), username, c.Param("message_id")); err != nil {
		return err
	}

	metrics.MessagesAcknowledgedTotal.Inc()
	return c.NoContent(http.StatusOK)
}
