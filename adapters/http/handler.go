package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/adewidar/storebot/domain"
	"github.com/adewidar/storebot/usecase"
	"github.com/adewidar/storebot/utils/log"
)

// WebhookHandler exposes the chat webhook in two provider envelopes (plain
// JSON and Twilio TwiML) plus the operator-facing catalog reload.
type WebhookHandler struct {
	chat          *usecase.ChatService
	catalog       domain.Catalog
	catalogSource string
}

type webhookRequest struct {
	Message       string `json:"message"`
	ContactNumber string `json:"contact_number"`
	ContactID     string `json:"contact_id"`
}

type webhookResponse struct {
	Response string `json:"response"`
}

func NewWebhookHandler(chat *usecase.ChatService, catalog domain.Catalog, catalogSource string) *WebhookHandler {
	return &WebhookHandler{
		chat:          chat,
		catalog:       catalog,
		catalogSource: catalogSource,
	}
}

// Webhook handles POST /webhook. A malformed payload gets a 400 without
// touching history; a failed generation still gets a 200 with the fallback
// apology so the messaging provider always has something deliverable.
func (h *WebhookHandler) Webhook(c echo.Context) error {
	var req webhookRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	contactID := req.ContactNumber
	if contactID == "" {
		contactID = req.ContactID
	}
	if req.Message == "" || contactID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Message and contact number are required"})
	}

	reply := h.reply(c.Request().Context(), contactID, req.Message, "json")
	return c.JSON(http.StatusOK, webhookResponse{Response: reply})
}

// TwilioWebhook handles POST /webhook/twilio with Twilio's form encoding,
// answering in the TwiML envelope.
func (h *WebhookHandler) TwilioWebhook(c echo.Context) error {
	message := c.FormValue("Body")
	contactID := c.FormValue("From")
	if message == "" || contactID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Body and From are required"})
	}

	reply := h.reply(c.Request().Context(), contactID, message, "twilio")
	return c.XMLBlob(http.StatusOK, []byte(twiml(reply)))
}

// UpdateData handles GET /update_data, the operator catalog refresh. Unlike
// the chat webhook, a failure here surfaces as a 500; the prior catalog is
// retained.
func (h *WebhookHandler) UpdateData(c echo.Context) error {
	ctx := c.Request().Context()
	count, err := h.catalog.Reload(ctx, h.catalogSource)
	if err != nil {
		log.WithCtx(ctx).Error("catalog reload failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"status":  "error",
			"message": "Failed to update product data",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":        "success",
		"message":       "Product data updated successfully",
		"product_count": count,
	})
}

// HealthCheck reports liveness.
func (h *WebhookHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"service":   "storebot",
	})
}

func (h *WebhookHandler) reply(ctx context.Context, contactID, message, platform string) string {
	ctx = context.WithValue(ctx, "contact_id", contactID)
	ctx = context.WithValue(ctx, "platform", platform)

	reply, err := h.chat.Reply(ctx, contactID, strings.ToLower(message))
	if err != nil {
		// Never surface a hard failure to the chat user.
		return domain.FallbackReply
	}
	return reply
}

func twiml(message string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString("<Response><Message>")
	b.WriteString(xmlEscape(message))
	b.WriteString("</Message></Response>")
	return b.String()
}

func xmlEscape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
