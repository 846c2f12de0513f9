package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SydneyWamalwa/customer-service-ai/internal/domain"
)

func postChat(t *testing.T, handler *Handler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, handler.Chat(c))
	return rec
}

func TestChatHappyPath(t *testing.T) {
	handler, _, llmClient := newTestHandler(t)
	llmClient.Reply = "Hi! How can I help you today?"

	rec := postChat(t, handler, domain.ChatRequest{Message: "hello", TenantID: "acme"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Hi! How can I help you today?", resp.Message)
	assert.NotEmpty(t, resp.SessionID)
	assert.NotNil(t, resp.ToolsUsed)
}

func TestChatMissingMessageIs400(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postChat(t, handler, domain.ChatRequest{TenantID: "acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "message")
}

func TestChatMissingTenantIs400(t *testing.T) {
	handler, _, _ := newTestHandler(t)

	rec := postChat(t, handler, domain.ChatRequest{Message: "hello"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestChatGenerationOutageStillReturns200(t *testing.T) {
	handler, _, llmClient := newTestHandler(t)
	llmClient.Err = assert.AnError

	rec := postChat(t, handler, domain.ChatRequest{Message: "hello", TenantID: "acme"})
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Message)
}

func TestGetSessionMessages(t *testing.T) {
	handler, db, llmClient := newTestHandler(t)
	llmClient.Reply = "hi!"

	rec := postChat(t, handler, domain.ChatRequest{Message: "hello", TenantID: "acme"})
	var chatResp domain.ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chatResp))

	// The transcript is readable through the public API.
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/sessions/"+chatResp.SessionID+"/messages", nil)
	getRec := httptest.NewRecorder()
	c := e.NewContext(req, getRec)
	c.SetPath("/v1/sessions/:session_id/messages")
	c.SetParamNames("session_id")
	c.SetParamValues(chatResp.SessionID)

	require.NoError(t, handler.GetSessionMessages(c))
	assert.Equal(t, http.StatusOK, getRec.Code)

	var resp struct {
		Messages []domain.Message `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, domain.RoleUser, resp.Messages[0].Role)
	assert.Equal(t, domain.RoleAssistant, resp.Messages[1].Role)

	// Sanity: the store holds the same rows.
	stored, err := db.GetMessages(context.Background(), chatResp.SessionID, 10)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
