package inbound

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/model"
)

// WebhookDomain defines the webhook ingestion service interface.
type WebhookDomain interface {
	// Dispatch processes one inbound webhook and records exactly one audit row.
	Dispatch(ctx context.Context, req *model.WebhookRequest) *model.WebhookResult

	// Replay re-dispatches a previously audited payload.
	Replay(ctx context.Context, logID uint) (*model.WebhookResult, error)

	// ListLogs lists audit rows of an integration.
	ListLogs(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error)

	// PurgeLogs deletes audit rows older than the given time.
	PurgeLogs(ctx context.Context, before time.Time) (int64, error)
}

// WebhookHttpPort defines webhook HTTP handler interface.
type WebhookHttpPort interface {
	// Receive handles POST /webhooks/:integrationId.
	Receive(c *gin.Context)
}

// WebhookAdminHttpPort defines webhook administration HTTP handler interface.
type WebhookAdminHttpPort interface {
	// ListLogs handles GET /admin/integrations/:id/webhook-logs.
	ListLogs(c *gin.Context)

	// Replay handles POST /admin/webhook-logs/:id/replay.
	Replay(c *gin.Context)
}
