package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warrantydesk/tracking-service/internal/chat"
	"github.com/warrantydesk/tracking-service/internal/errs"
	"github.com/warrantydesk/tracking-service/internal/handler"
	"github.com/warrantydesk/tracking-service/internal/kafka"
	"github.com/warrantydesk/tracking-service/internal/model"
	"github.com/warrantydesk/tracking-service/internal/ratelimit"
	"github.com/warrantydesk/tracking-service/internal/service"
)

type emptyReader struct{}

func (emptyReader) ByTrackingCode(_ context.Context, code string) (*model.Ticket, error) {
	if !model.IsValidTrackingCode(code) {
		return nil, errs.ErrInvalidTrackingCode
	}
	return nil, errs.ErrTicketNotFound
}

func (emptyReader) StatusByTrackingCode(context.Context, string) (*service.TicketStatusSummary, error) {
	return nil, errs.ErrTicketNotFound
}

func (emptyReader) TrackingCodes(context.Context) ([]service.TrackingCodeSummary, error) {
	return []service.TrackingCodeSummary{}, nil
}

func newRouter() http.Handler {
	gin.SetMode(gin.TestMode)
	limiter := ratelimit.New(ratelimit.NewMemoryStore(), 10, time.Minute)
	tickets := handler.NewTicketHandler(emptyReader{}, limiter, kafka.NewProducer(nil, ""))
	chats := handler.NewChatHandler(chat.NewClient("http://127.0.0.1:0"))
	return New(tickets, chats)
}

func do(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestHealthEndpoints(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/ready").Code)
}

func TestMethodNotAllowed(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodPost, "/track/a3bb189e-8bf9-3888-9912-ace4e6543002")
	require.Equal(t, http.StatusMethodNotAllowed, w.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
		Code    string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "Method not allowed", resp.Error)
	assert.Equal(t, errs.CodeMethodNotAllowed, resp.Code)

	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodDelete, "/track").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, do(r, http.MethodGet, "/chat").Code)
}

func TestOpenAPISpecServed(t *testing.T) {
	r := newRouter()

	w := do(r, http.MethodGet, "/swagger/openapi.json")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Contains(t, doc, "openapi")
	assert.Contains(t, doc, "paths")
}

func TestTrackRoutes(t *testing.T) {
	r := newRouter()
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/track").Code)
	assert.Equal(t, http.StatusNotFound, do(r, http.MethodGet, "/track/a3bb189e-8bf9-3888-9912-ace4e6543002").Code)
	assert.Equal(t, http.StatusBadRequest, do(r, http.MethodGet, "/track/nope").Code)
}
