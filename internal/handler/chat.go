package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/warrantydesk/tracking-service/internal/chat"
)

type ChatHandler struct {
	relay *chat.Client
}

func NewChatHandler(relay *chat.Client) *ChatHandler {
	return &ChatHandler{relay: relay}
}

// Relay handles POST /chat: forwards the message to the workflow webhook
// and passes its reply back. No claim logic lives here.
func (h *ChatHandler) Relay(c *gin.Context) {
	var req chat.RelayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid request body",
		})
		return
	}
	resp, err := h.relay.Relay(c.Request.Context(), req)
	if err != nil {
		log.Printf("handler: chat relay: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"message": "Failed to process your request. Please try again.",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": resp.Message,
		"data":    resp.Data,
	})
}
