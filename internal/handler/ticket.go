package handler

import (
	"errors"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/warrantydesk/tracking-service/internal/errs"
	"github.com/warrantydesk/tracking-service/internal/kafka"
	"github.com/warrantydesk/tracking-service/internal/ratelimit"
	"github.com/warrantydesk/tracking-service/internal/service"
)

type TicketHandler struct {
	svc     service.TicketReader
	limiter *ratelimit.Limiter
	events  kafka.TrackEventProducer
}

func NewTicketHandler(svc service.TicketReader, limiter *ratelimit.Limiter, events kafka.TrackEventProducer) *TicketHandler {
	return &TicketHandler{svc: svc, limiter: limiter, events: events}
}

// Track handles GET /track/:trackingCode. Public, rate limited per client
// IP, response sanitized of sensitive fields.
func (h *TicketHandler) Track(c *gin.Context) {
	ip := clientIP(c)
	res := h.limiter.Check(c.Request.Context(), ip)
	if !res.Allowed {
		setRateLimitHeaders(c, res)
		c.Header("Retry-After", strconv.Itoa(retryAfterSeconds(res.ResetAt)))
		respondError(c, http.StatusTooManyRequests,
			"Rate limit exceeded. Please try again later.", errs.CodeRateLimited)
		return
	}

	code := c.Param("trackingCode")
	ticket, err := h.svc.ByTrackingCode(c.Request.Context(), code)
	if err != nil {
		switch {
		case errors.Is(err, errs.ErrMissingTrackingCode):
			respondError(c, http.StatusBadRequest, "Tracking code is required", errs.CodeMissingCode)
		case errors.Is(err, errs.ErrInvalidTrackingCode):
			respondError(c, http.StatusBadRequest, "Invalid tracking code format", errs.CodeInvalidFormat)
		case errors.Is(err, errs.ErrTicketNotFound):
			respondError(c, http.StatusNotFound, "Ticket not found", errs.CodeNotFound)
		default:
			// Transport detail stays in the server log, never in the body.
			log.Printf("handler: track %s: %v", code, err)
			respondError(c, http.StatusInternalServerError, "Failed to fetch ticket data", errs.CodeDatabaseError)
		}
		return
	}

	h.events.ProduceTrackEventAsync("ticket.tracked", map[string]interface{}{
		"ticket_id":     ticket.ID,
		"tracking_code": ticket.TrackingCode,
		"status":        string(ticket.Status),
		"client_ip":     ip,
	})

	setRateLimitHeaders(c, res)
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Pragma", "no-cache")
	c.Header("Expires", "0")
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    sanitizeTicket(ticket),
	})
}

// List handles GET /track: every issued tracking code with its status,
// oldest first.
func (h *TicketHandler) List(c *gin.Context) {
	codes, err := h.svc.TrackingCodes(c.Request.Context())
	if err != nil {
		log.Printf("handler: list tracking codes: %v", err)
		respondError(c, http.StatusInternalServerError, "Failed to fetch tracking codes", errs.CodeDatabaseError)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    codes,
	})
}

func respondError(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   message,
		"code":    code,
	})
}

func setRateLimitHeaders(c *gin.Context, res ratelimit.Result) {
	c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
	c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	c.Header("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
}

func retryAfterSeconds(resetAt time.Time) int {
	secs := int(math.Ceil(time.Until(resetAt).Seconds()))
	if secs < 0 {
		secs = 0
	}
	return secs
}

// clientIP resolves the client identity for rate limiting. Falls back to
// the constant placeholder key rather than failing the request.
func clientIP(c *gin.Context) string {
	if v := c.GetHeader("X-Forwarded-For"); v != "" {
		// May hold a chain of proxies; the first entry is the client.
		return strings.TrimSpace(strings.Split(v, ",")[0])
	}
	if v := c.GetHeader("X-Real-IP"); v != "" {
		return v
	}
	if v := c.GetHeader("CF-Connecting-IP"); v != "" {
		return v
	}
	if ip := c.RemoteIP(); ip != "" {
		return ip
	}
	return ratelimit.FallbackKey
}
