package webhookhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/synapse/server/internal/domain/webhook"
	"github.com/synapse/server/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock implementations ---

type MockWebhookDomain struct {
	mock.Mock
}

func (m *MockWebhookDomain) Dispatch(ctx context.Context, req *model.WebhookRequest) *model.WebhookResult {
	args := m.Called(ctx, req)
	return args.Get(0).(*model.WebhookResult)
}

func (m *MockWebhookDomain) Replay(ctx context.Context, logID uint) (*model.WebhookResult, error) {
	args := m.Called(ctx, logID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.WebhookResult), args.Error(1)
}

func (m *MockWebhookDomain) ListLogs(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.WebhookLog), args.Error(1)
}

func (m *MockWebhookDomain) PurgeLogs(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

func newRouter(domain *MockWebhookDomain, maxBody int64) *gin.Engine {
	r := gin.New()
	NewWebhookHandler(domain, maxBody).RegisterRoutes(r)
	NewAdminHandler(domain).RegisterRoutes(r.Group("/admin"))
	return r
}

func decodeResult(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

// --- Receive ---

func TestReceive_PassesRawBodyAndCredential(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 1<<20)

	payload := `{"order_id":"abc123", "webhook_event_type":"order.paid"}`
	domain.On("Dispatch", mock.Anything, mock.MatchedBy(func(req *model.WebhookRequest) bool {
		return req.IntegrationID == 42 &&
			string(req.Body) == payload &&
			req.Credential == model.Credential{Value: "abcdef", Source: model.CredentialKiwifyHeader} &&
			!req.ReceivedAt.IsZero() &&
			!req.SkipVerification
	})).Return(&model.WebhookResult{Success: true, Message: "Sale created with status CONFIRMED", LogID: 9})

	req := httptest.NewRequest(http.MethodPost, "/webhooks/42", strings.NewReader(payload))
	req.Header.Set("X-Kiwify-Signature", "abcdef")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeResult(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Sale created with status CONFIRMED", body["message"])
	assert.NotContains(t, body, "error")
	assert.NotContains(t, body, "LogID")
	domain.AssertExpectations(t)
}

func TestReceive_FailuresStay200(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 1<<20)

	domain.On("Dispatch", mock.Anything, mock.Anything).Return(&model.WebhookResult{
		Success: false,
		Message: webhook.MsgInvalidSignature,
		Kind:    model.FailureAuthentication,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/1", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusOK, w.Code)
	body := decodeResult(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Invalid signature", body["message"])
}

func TestReceive_IntegrationNotFoundIs404(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 1<<20)

	domain.On("Dispatch", mock.Anything, mock.Anything).Return(&model.WebhookResult{
		Success: false,
		Message: webhook.MsgIntegrationNotFound,
		Kind:    model.FailureNotFound,
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/77", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Integration not found", decodeResult(t, w)["message"])
}

func TestReceive_InvalidIntegrationID(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 1<<20)

	for _, id := range []string{"abc", "0", "-1", "1.5"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/"+id, strings.NewReader(`{}`)))

		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.Equal(t, false, decodeResult(t, w)["success"])
	}
	domain.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

func TestReceive_BodyReadIsBounded(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 8)

	domain.On("Dispatch", mock.Anything, mock.MatchedBy(func(req *model.WebhookRequest) bool {
		return len(req.Body) == 9
	})).Return(&model.WebhookResult{Success: false, Message: webhook.MsgInvalidPayload, Kind: model.FailureExtraction})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhooks/1", strings.NewReader(strings.Repeat("x", 100))))

	assert.Equal(t, http.StatusOK, w.Code)
	domain.AssertExpectations(t)
}

func TestExtractCredential(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		body    string
		want    model.Credential
	}{
		{
			name:    "kiwify header",
			headers: map[string]string{"x-kiwify-signature": "sig"},
			want:    model.Credential{Value: "sig", Source: model.CredentialKiwifyHeader},
		},
		{
			name:    "hottok header",
			headers: map[string]string{"X-Hotmart-Hottok": "hot"},
			want:    model.Credential{Value: "hot", Source: model.CredentialHottokHeader},
		},
		{
			name:    "generic header",
			headers: map[string]string{"X-Signature": "gen"},
			want:    model.Credential{Value: "gen", Source: model.CredentialGenericHeader},
		},
		{
			name:    "header order",
			headers: map[string]string{"X-Signature": "gen", "X-Kiwify-Signature": "sig"},
			want:    model.Credential{Value: "sig", Source: model.CredentialKiwifyHeader},
		},
		{
			name:    "header wins over body",
			headers: map[string]string{"X-Signature": "gen"},
			body:    `{"token":"tok"}`,
			want:    model.Credential{Value: "gen", Source: model.CredentialGenericHeader},
		},
		{
			name: "body token",
			body: `{"evento":"venda","token":"tok"}`,
			want: model.Credential{Value: "tok", Source: model.CredentialBodyToken},
		},
		{
			name: "numeric body token",
			body: `{"token":12345}`,
			want: model.Credential{Value: "12345", Source: model.CredentialBodyToken},
		},
		{name: "null body token", body: `{"token":null}`},
		{name: "object body token", body: `{"token":{"v":1}}`},
		{name: "non-json body", body: `token=abc`},
		{name: "nothing"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			assert.Equal(t, tt.want, extractCredential(h, []byte(tt.body)))
		})
	}
}

// --- Admin ---

func TestListLogs(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 0)

	failed := model.WebhookLogStatusFailed
	domain.On("ListLogs", mock.Anything, model.WebhookLogFilter{IntegrationID: 3, Status: &failed, Limit: 10}).
		Return([]*model.WebhookLog{{ID: 1, IntegrationID: 3, Status: failed}}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/integrations/3/webhook-logs?status=failed&limit=10", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp model.ListResponse[model.WebhookLog]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	domain.AssertExpectations(t)
}

func TestListLogs_Empty(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 0)

	domain.On("ListLogs", mock.Anything, model.WebhookLogFilter{IntegrationID: 3}).Return(nil, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/integrations/3/webhook-logs", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, w.Body.String())
}

func TestListLogs_BadQuery(t *testing.T) {
	domain := new(MockWebhookDomain)
	router := newRouter(domain, 0)

	for _, target := range []string{
		"/admin/integrations/x/webhook-logs",
		"/admin/integrations/3/webhook-logs?status=DONE",
		"/admin/integrations/3/webhook-logs?limit=0",
		"/admin/integrations/3/webhook-logs?limit=ten",
	} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, target)
	}
	domain.AssertNotCalled(t, "ListLogs", mock.Anything, mock.Anything)
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name   string
		result *model.WebhookResult
		err    error
		status int
		code   string
	}{
		{name: "ok", result: &model.WebhookResult{Success: true, Message: "Sale already CONFIRMED"}, status: http.StatusOK},
		{name: "missing", err: webhook.ErrWebhookLogNotFound, status: http.StatusNotFound, code: "webhook_log_not_found"},
		{name: "not replayable", err: webhook.ErrNotReplayable, status: http.StatusConflict, code: "not_replayable"},
		{name: "store failure", err: assert.AnError, status: http.StatusInternalServerError, code: "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			domain := new(MockWebhookDomain)
			router := newRouter(domain, 0)
			if tt.result != nil {
				domain.On("Replay", mock.Anything, uint(5)).Return(tt.result, nil)
			} else {
				domain.On("Replay", mock.Anything, uint(5)).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/webhook-logs/5/replay", nil))

			assert.Equal(t, tt.status, w.Code)
			if tt.code != "" {
				assert.Equal(t, tt.code, decodeResult(t, w)["code"])
			}
		})
	}
}
