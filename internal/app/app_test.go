package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/synapse/server/internal/adapter/outbound/memory"
	"github.com/synapse/server/internal/domain/webhook"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/shared/config"
	"github.com/synapse/server/internal/shared/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		Webhook: config.WebhookConfig{MaxBodyBytes: 1 << 20, LogRetention: 24 * time.Hour, PurgeInterval: time.Hour},
		Admin:   config.AdminConfig{Token: "admin-secret"},
		Metrics: config.MetricsConfig{Enabled: true, Namespace: "synapse", Path: "/metrics"},
		CORS:    config.CORSConfig{AllowOrigins: []string{"https://admin.example.com"}},
	}
}

func newTestApp(t *testing.T, cfg *config.Config) (*App, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	application := NewWithStores(cfg, MemoryStores(store), nil)
	t.Cleanup(application.Stop)
	return application, store
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func serve(a *App, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	w := serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}

func TestWebhookToAdminFlow(t *testing.T) {
	a, store := newTestApp(t, testConfig())
	ctx := context.Background()

	integration := &model.Integration{UserID: 3, Platform: model.PlatformKiwify, Secret: "kiwi", Status: model.IntegrationStatusActive}
	require.NoError(t, store.Integrations().Create(ctx, integration))

	body := `{"order_id":"o-1","webhook_event_type":"order.paid","Product":{"product_name":"Curso"},"Customer":{"email":"a@b.c"},"Commissions":{"charge_amount":"12990"}}`
	req := httptest.NewRequest(http.MethodPost, "/webhooks/"+itoa(integration.ID), strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Kiwify-Signature", webhook.SignHMAC([]byte(body), "kiwi"))

	w := serve(a, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"success":true`)
	assert.Equal(t, 1, store.SaleCount())
	assert.Equal(t, 1, store.ProductCount())

	admin := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(middleware.AdminTokenHeader, "admin-secret")
		return serve(a, req)
	}

	w = admin("/admin/integrations/" + itoa(integration.ID) + "/revenue")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[{"currency":"BRL","total":"129.9","count":1}],"count":1}`, w.Body.String())

	w = admin("/admin/integrations/" + itoa(integration.ID) + "/webhook-logs")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":1`)

	w = admin("/admin/integrations/" + itoa(integration.ID) + "/sales")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"platform_sale_id":"o-1"`)
}

func TestWebhook_UnknownIntegration(t *testing.T) {
	a, store := newTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/webhooks/99", strings.NewReader(`{"order_status":"paid"}`))
	w := serve(a, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, 1, store.WebhookLogCount())
}

func TestAdminRoutes_RequireToken(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	w := serve(a, httptest.NewRequest(http.MethodGet, "/admin/users/1/integrations", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/users/1/integrations", nil)
	req.Header.Set(middleware.AdminTokenHeader, "wrong")
	assert.Equal(t, http.StatusUnauthorized, serve(a, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/users/1/integrations", nil)
	req.Header.Set(middleware.AdminTokenHeader, "admin-secret")
	w = serve(a, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[],"count":0}`, w.Body.String())
}

func TestAdminRoutes_Preflight(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/admin/integrations/1/status", nil)
	req.Header.Set("Origin", "https://admin.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	req.Header.Set("Access-Control-Request-Headers", middleware.AdminTokenHeader)
	w := serve(a, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://admin.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), middleware.AdminTokenHeader)
}

func TestAdminRoutes_DisabledWithoutToken(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	cfg := testConfig()
	cfg.Admin.Token = ""

	a := NewWithStores(cfg, MemoryStores(memory.NewStore()), zap.New(core))
	defer a.Stop()

	req := httptest.NewRequest(http.MethodGet, "/admin/users/1/integrations", nil)
	req.Header.Set(middleware.AdminTokenHeader, "")
	assert.Equal(t, http.StatusNotFound, serve(a, req).Code)
	assert.Equal(t, 1, logs.FilterMessage("Admin token not configured, admin API disabled").Len())
}

func TestMetricsEndpoint(t *testing.T) {
	a, _ := newTestApp(t, testConfig())

	serve(a, httptest.NewRequest(http.MethodGet, "/health", nil))

	w := serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "synapse_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestMetricsEndpoint_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = false
	a, _ := newTestApp(t, cfg)

	assert.Equal(t, http.StatusNotFound, serve(a, httptest.NewRequest(http.MethodGet, "/metrics", nil)).Code)
}

func TestPurgeLogs(t *testing.T) {
	a, store := newTestApp(t, testConfig())
	ctx := context.Background()

	require.NoError(t, store.WebhookLogs().Create(ctx, &model.WebhookLog{
		Platform:  model.PlatformUnknown,
		Status:    model.WebhookLogStatusFailed,
		CreatedAt: time.Now().Add(-48 * time.Hour),
	}))
	require.NoError(t, store.WebhookLogs().Create(ctx, &model.WebhookLog{
		Platform: model.PlatformUnknown,
		Status:   model.WebhookLogStatusFailed,
	}))

	n, err := a.PurgeLogs(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, store.WebhookLogCount())
}
