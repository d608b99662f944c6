package webhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/synapse/server/internal/domain/sales"
	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/inbound"
	"github.com/synapse/server/internal/port/outbound"
	"go.uber.org/zap"
)

// Result messages returned to the calling platform.
const (
	MsgIntegrationNotFound = "Integration not found"
	MsgUnsupportedPlatform = "Platform not supported"
	MsgMissingSignature    = "Missing signature"
	MsgInvalidSignature    = "Invalid signature"
	MsgInvalidPayload      = "Invalid payload"
	MsgEventNotHandled     = "Event not handled"
	MsgExtractionFailed    = "Failed to extract sale"
	MsgInternalError       = "Internal error"
	MsgSaleNotTracked      = "Sale not found; no changes applied"
)

// Config holds dispatcher settings.
type Config struct {
	// RequireSignature rejects requests that carry no credential at all.
	RequireSignature bool
	// MaxBodyBytes rejects larger bodies as extraction failures. Zero disables the check.
	MaxBodyBytes int64
}

// webhookDomain implements inbound.WebhookDomain.
type webhookDomain struct {
	integrations outbound.IntegrationDatabasePort
	registry     *Registry
	products     sales.ProductResolver
	ledger       sales.SaleLedger
	audit        AuditLog
	metrics      outbound.WebhookMetricsPort
	cfg          Config
	logger       *zap.Logger
	now          func() time.Time
}

// NewWebhookDomain creates the webhook dispatcher.
func NewWebhookDomain(
	integrations outbound.IntegrationDatabasePort,
	registry *Registry,
	products sales.ProductResolver,
	ledger sales.SaleLedger,
	audit AuditLog,
	metrics outbound.WebhookMetricsPort,
	cfg Config,
	logger *zap.Logger,
) inbound.WebhookDomain {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &webhookDomain{
		integrations: integrations,
		registry:     registry,
		products:     products,
		ledger:       ledger,
		audit:        audit,
		metrics:      metrics,
		cfg:          cfg,
		logger:       logger.Named("webhook"),
		now:          time.Now,
	}
}

// outcome carries a result plus the audit status it maps to.
type outcome struct {
	result *model.WebhookResult
	status model.WebhookLogStatus
}

func success(status model.WebhookLogStatus, message string) outcome {
	return outcome{result: &model.WebhookResult{Success: true, Message: message}, status: status}
}

func failure(kind model.FailureKind, message string, err error) outcome {
	r := &model.WebhookResult{Success: false, Message: message, Kind: kind}
	if err != nil {
		r.Error = err.Error()
	}
	return outcome{result: r, status: model.WebhookLogStatusFailed}
}

func (d *webhookDomain) Dispatch(ctx context.Context, req *model.WebhookRequest) *model.WebhookResult {
	start := d.now()
	if req.ReceivedAt.IsZero() {
		req.ReceivedAt = start
	}

	entry := &model.WebhookLog{
		IntegrationID: req.IntegrationID,
		Platform:      model.PlatformUnknown,
		EventType:     model.EventUnknown,
	}
	if d.cfg.MaxBodyBytes <= 0 || int64(len(req.Body)) <= d.cfg.MaxBodyBytes {
		entry.Payload = payloadJSON(req.Body)
	}

	out := d.process(ctx, req, entry)

	entry.Status = out.status
	if out.result.Kind != model.FailureNone {
		entry.FailureKind = out.result.Kind
		entry.ErrorMessage = out.result.Message
		if out.result.Error != "" {
			entry.ErrorMessage = out.result.Message + ": " + out.result.Error
		}
	}
	processedAt := d.now()
	entry.ProcessedAt = &processedAt
	if err := d.audit.Record(ctx, entry); err == nil {
		out.result.LogID = entry.ID
	}
	out.result.EventType = entry.EventType

	d.observe(entry, out, d.now().Sub(start))
	return out.result
}

func (d *webhookDomain) process(ctx context.Context, req *model.WebhookRequest, entry *model.WebhookLog) outcome {
	integration, err := d.integrations.FindByID(ctx, req.IntegrationID)
	if err != nil {
		return failure(model.FailureInternal, MsgInternalError, err)
	}
	if integration == nil {
		return failure(model.FailureNotFound, MsgIntegrationNotFound, nil)
	}
	entry.Platform = integration.Platform

	adapter, ok := d.registry.Lookup(integration.Platform)
	if !ok {
		return failure(model.FailureUnsupportedPlatform, MsgUnsupportedPlatform,
			fmt.Errorf("%w: %s", ErrUnsupportedPlatform, integration.Platform))
	}

	if !req.SkipVerification {
		if req.Credential.IsZero() {
			if d.cfg.RequireSignature {
				return failure(model.FailureAuthentication, MsgMissingSignature, nil)
			}
		} else if !adapter.Verify(req.Body, req.Credential, integration.Secret) {
			return failure(model.FailureAuthentication, MsgInvalidSignature, nil)
		}
	}

	if d.cfg.MaxBodyBytes > 0 && int64(len(req.Body)) > d.cfg.MaxBodyBytes {
		return failure(model.FailureExtraction, MsgInvalidPayload,
			&ExtractionError{Platform: integration.Platform, Err: ErrPayloadTooLarge})
	}

	payload, err := adapter.Decode(req.Body)
	if err != nil {
		return failure(model.FailureExtraction, MsgInvalidPayload,
			&ExtractionError{Platform: integration.Platform, Err: err})
	}
	eventName := payload.EventName()
	entry.RawEventType = eventName

	kind := Classify(integration.Platform, eventName)
	entry.EventType = kind
	if kind == model.EventUnknown {
		out := success(model.WebhookLogStatusIgnored, MsgEventNotHandled)
		out.result.Kind = model.FailureUnclassified
		return out
	}

	fact, err := adapter.Extract(payload, kind, req.ReceivedAt)
	if err != nil {
		return failure(model.FailureExtraction, MsgExtractionFailed, err)
	}

	var productID uint
	if kind == model.EventSalePaid {
		product, err := d.products.Resolve(ctx, fact.ProductName, integration.UserID)
		if err != nil {
			return failure(model.FailureInternal, MsgInternalError, err)
		}
		productID = product.ID
	}

	result, err := d.ledger.Apply(ctx, integration.ID, productID, fact)
	if err != nil {
		return failure(model.FailureInternal, MsgInternalError, err)
	}

	out := d.ledgerOutcome(result)
	if result.Sale != nil {
		out.result.SaleID = result.Sale.ID
	}
	if result.Applied() {
		if err := d.integrations.TouchLastSync(ctx, integration.ID, d.now()); err != nil {
			d.logger.Warn("failed to update integration last sync",
				zap.Uint("integration_id", integration.ID), zap.Error(err))
		}
	}
	return out
}

func (d *webhookDomain) ledgerOutcome(o *sales.Outcome) outcome {
	switch o.Effect {
	case sales.EffectCreated:
		return success(model.WebhookLogStatusSuccess, fmt.Sprintf("Sale created with status %s", o.Sale.Status))
	case sales.EffectTransitioned:
		return success(model.WebhookLogStatusSuccess, fmt.Sprintf("Sale updated from %s to %s", o.From, o.Target))
	case sales.EffectUnchanged:
		return success(model.WebhookLogStatusSuccess, fmt.Sprintf("Sale already %s", o.Target))
	case sales.EffectNotFound:
		return success(model.WebhookLogStatusIgnored, MsgSaleNotTracked)
	default:
		return success(model.WebhookLogStatusIgnored,
			fmt.Sprintf("Transition from %s to %s not allowed; no changes applied", o.From, o.Target))
	}
}

func (d *webhookDomain) observe(entry *model.WebhookLog, out outcome, elapsed time.Duration) {
	fields := []zap.Field{
		zap.Uint("integration_id", entry.IntegrationID),
		zap.String("platform", string(entry.Platform)),
		zap.String("event_type", string(entry.EventType)),
		zap.String("raw_event", entry.RawEventType),
		zap.String("status", string(entry.Status)),
		zap.Duration("elapsed", elapsed),
	}
	if out.result.Kind != model.FailureNone {
		fields = append(fields, zap.String("failure_kind", string(out.result.Kind)))
	}
	if out.result.SaleID != 0 {
		fields = append(fields, zap.Uint("sale_id", out.result.SaleID))
	}

	switch {
	case out.result.Kind == model.FailureInternal:
		d.logger.Error("webhook failed", append(fields, zap.String("error", out.result.Error))...)
	case !out.result.Success:
		d.logger.Warn("webhook rejected", append(fields, zap.String("message", out.result.Message))...)
	default:
		d.logger.Info("webhook processed", append(fields, zap.String("message", out.result.Message))...)
	}

	if d.metrics != nil {
		d.metrics.RecordWebhook(string(entry.Platform), string(entry.EventType), string(entry.Status), elapsed)
	}
}

func (d *webhookDomain) Replay(ctx context.Context, logID uint) (*model.WebhookResult, error) {
	entry, err := d.audit.Get(ctx, logID)
	if err != nil {
		return nil, err
	}
	if !entry.Replayable() {
		return nil, ErrNotReplayable
	}

	d.logger.Info("replaying webhook", zap.Uint("log_id", logID), zap.Uint("integration_id", entry.IntegrationID))
	return d.Dispatch(ctx, &model.WebhookRequest{
		IntegrationID:    entry.IntegrationID,
		Body:             payloadBody(entry.Payload),
		SkipVerification: true,
	}), nil
}

func (d *webhookDomain) ListLogs(ctx context.Context, filter model.WebhookLogFilter) ([]*model.WebhookLog, error) {
	return d.audit.List(ctx, filter)
}

func (d *webhookDomain) PurgeLogs(ctx context.Context, before time.Time) (int64, error) {
	return d.audit.Purge(ctx, before)
}

// IsNotFound reports whether err means a replay target does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWebhookLogNotFound)
}
