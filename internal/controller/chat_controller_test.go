// FILE: internal/controller/chat_controller_test.go
package controller

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/internal/pkg/serverutils"
	"ai-docchat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChatService struct {
	stream     io.ReadCloser
	err        error
	gotSession string
	gotReq     *dto.ChatRequest
}

func (s *stubChatService) StreamChat(ctx context.Context, sessionId string, req *dto.ChatRequest) (io.ReadCloser, error) {
	s.gotSession = sessionId
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.stream, nil
}

// brokenReader yields one line, then fails the way a dropped provider
// connection would.
type brokenReader struct {
	sent bool
}

func (r *brokenReader) Read(p []byte) (int, error) {
	if !r.sent {
		r.sent = true
		return copy(p, "data: a\n"), nil
	}
	return 0, errors.New("boom")
}

func newChatApp(svc service.IChatService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	app.Use(serverutils.SessionMiddleware())
	api := app.Group("/api")
	NewChatController(svc).RegisterRoutes(api)
	return app
}

func TestChatStreamsProviderLines(t *testing.T) {
	svc := &stubChatService{stream: io.NopCloser(strings.NewReader("data: a\ndata: b\n"))}
	app := newChatApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/event-stream")
	assert.NotEmpty(t, resp.Header.Get("Set-Cookie"), "a fresh caller must be handed a session cookie")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: a\ndata: b\n", string(body))
}

func TestChatRejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty messages", `{"messages":[]}`},
		{"unknown role", `{"messages":[{"role":"wizard","content":"x"}]}`},
		{"not json", `{messages`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubChatService{stream: io.NopCloser(strings.NewReader(""))}
			app := newChatApp(svc)

			req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Nil(t, svc.gotReq, "service must not be reached")
		})
	}
}

func TestChatMissingConfigurationEnvelope(t *testing.T) {
	svc := &stubChatService{err: serverutils.NewMissingConfiguration("chat provider 'openai' requires AI_API_KEY")}
	app := newChatApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "AI_API_KEY")
}

func TestChatEmitsErrorFrameOnUpstreamFailure(t *testing.T) {
	svc := &stubChatService{stream: io.NopCloser(&brokenReader{})}
	app := newChatApp(svc)

	req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}]}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "data: a\ndata: {\"error\":{\"message\":\"read stream: boom\"}}\n", string(body))
}

func TestChatSessionPrecedence(t *testing.T) {
	t.Run("client cookie beats body id", func(t *testing.T) {
		svc := &stubChatService{stream: io.NopCloser(strings.NewReader(""))}
		app := newChatApp(svc)

		req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}],"session_id":"body-id"}`))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(&http.Cookie{Name: serverutils.SessionCookieName, Value: "cookie-id"})

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "cookie-id", svc.gotSession)
	})

	t.Run("body id wins over minted cookie", func(t *testing.T) {
		svc := &stubChatService{stream: io.NopCloser(strings.NewReader(""))}
		app := newChatApp(svc)

		req := httptest.NewRequest("POST", "/api/chat/v1", strings.NewReader(`{"messages":[{"role":"user","content":"hi"}],"session_id":"body-id"}`))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, "body-id", svc.gotSession)
	})
}
