package outbound

import "time"

// WebhookMetricsPort records webhook processing metrics.
type WebhookMetricsPort interface {
	RecordWebhook(platform, eventType, status string, duration time.Duration)
	RecordSaleTransition(from, to string)
	RecordLockFallback(reason string)
}
