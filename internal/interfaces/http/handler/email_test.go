package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appemail "github.com/thca-multistore/backend/internal/application/email"
	"github.com/thca-multistore/backend/internal/domain/notification"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) Send(ctx context.Context, msg notification.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func newEmailRouter(sender notification.Sender) *gin.Engine {
	var svc *appemail.Service
	if sender != nil {
		svc = appemail.NewService(sender, []string{"liquid-gold.com"}, zap.NewNop())
	}
	h := NewEmailHandler(svc)

	engine := gin.New()
	engine.POST("/admin/email/test", h.SendTest)
	engine.GET("/admin/email/analytics", h.GetAnalytics)
	engine.GET("/admin/email/templates", h.ListTemplates)
	engine.GET("/admin/email/templates/preview", h.PreviewTemplate)
	return engine
}

func TestSendTestEndpoint(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return("msg_1", nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/email/test",
		strings.NewReader(`{"template": "order-confirmation", "to": "buyer@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	newEmailRouter(sender).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "msg_1", body["messageId"])
}

func TestSendTestEndpointUnknownTemplate(t *testing.T) {
	sender := new(mockSender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/email/test",
		strings.NewReader(`{"template": "order-teleported", "to": "buyer@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	newEmailRouter(sender).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	sender.AssertNotCalled(t, "Send")
}

func TestSendTestEndpointInvalidAddress(t *testing.T) {
	sender := new(mockSender)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/email/test",
		strings.NewReader(`{"template": "order-confirmation", "to": "not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	newEmailRouter(sender).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error": "Invalid email address format"}`, w.Body.String())
	sender.AssertNotCalled(t, "Send")
}

func TestSendTestEndpointProviderFailure(t *testing.T) {
	sender := new(mockSender)
	sender.On("Send", mock.Anything, mock.Anything).Return("", errors.New("resend: status 429"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/email/test",
		strings.NewReader(`{"template": "order-confirmation", "to": "buyer@example.com"}`))
	req.Header.Set("Content-Type", "application/json")
	newEmailRouter(sender).ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	// the provider's error text stays out of the response
	assert.JSONEq(t, `{"error": "Failed to send test email"}`, w.Body.String())
}

func TestSendTestEndpointMissingFields(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin/email/test",
		strings.NewReader(`{"template": "order-confirmation"}`))
	req.Header.Set("Content-Type", "application/json")
	newEmailRouter(new(mockSender)).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEmailEndpointsWithoutProvider(t *testing.T) {
	engine := newEmailRouter(nil)

	for _, path := range []string{"/admin/email/analytics", "/admin/email/templates"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		engine.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
	}
}

func TestListTemplatesEndpoint(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/email/templates", nil)
	newEmailRouter(new(mockSender)).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Templates []notification.TemplateInfo `json:"templates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Templates, 8)
}

func TestPreviewTemplateEndpoint(t *testing.T) {
	engine := newEmailRouter(new(mockSender))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/email/templates/preview?template=customer-welcome&store_name=Liquid+Gold", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Liquid Gold")

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/email/templates/preview", nil)
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
