package sales

import (
	"context"
	"fmt"

	"github.com/synapse/server/internal/model"
	"github.com/synapse/server/internal/port/outbound"
	"go.uber.org/zap"
)

// Effect describes what applying a fact did to the ledger.
type Effect string

const (
	// EffectCreated means a new sale row was inserted.
	EffectCreated Effect = "created"
	// EffectTransitioned means an existing sale changed status.
	EffectTransitioned Effect = "transitioned"
	// EffectUnchanged means the sale was already in the target status.
	EffectUnchanged Effect = "unchanged"
	// EffectNotFound means a refund or cancellation referred to an untracked sale.
	EffectNotFound Effect = "not_found"
	// EffectRefused means the transition is not allowed from the current status.
	EffectRefused Effect = "refused"
)

// Outcome is the result of SaleLedger.Apply.
type Outcome struct {
	Effect Effect
	Sale   *model.Sale
	From   model.SaleStatus
	Target model.SaleStatus
}

// Applied reports whether the ledger reflects the fact after the call.
func (o *Outcome) Applied() bool {
	return o.Effect == EffectCreated || o.Effect == EffectTransitioned || o.Effect == EffectUnchanged
}

// SaleLedger applies sale facts to the Sale aggregate.
type SaleLedger interface {
	// Apply creates or transitions the sale identified by (integrationID, fact.PlatformSaleID).
	// productID is only used when a paid event creates the sale.
	Apply(ctx context.Context, integrationID, productID uint, fact *model.SaleFact) (*Outcome, error)
}

type saleLedger struct {
	sales   outbound.SaleDatabasePort
	locker  outbound.KeyLockerPort
	metrics outbound.WebhookMetricsPort
	logger  *zap.Logger
}

// NewSaleLedger creates a sale ledger.
func NewSaleLedger(sales outbound.SaleDatabasePort, locker outbound.KeyLockerPort, metrics outbound.WebhookMetricsPort, logger *zap.Logger) SaleLedger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &saleLedger{
		sales:   sales,
		locker:  locker,
		metrics: metrics,
		logger:  logger.Named("sale_ledger"),
	}
}

func (l *saleLedger) Apply(ctx context.Context, integrationID, productID uint, fact *model.SaleFact) (*Outcome, error) {
	if fact.PlatformSaleID == "" {
		return nil, ErrEmptySaleID
	}
	target, ok := fact.EventType.TargetStatus()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEvent, fact.EventType)
	}
	// A status hint on a paid-class event decides the status of a new sale and
	// is the target for an existing one. A pending hint therefore never moves
	// an existing sale, since nothing transitions back to PENDING.
	if fact.EventType == model.EventSalePaid && fact.InitialStatus != "" {
		target = fact.InitialStatus
	}

	unlock, err := l.locker.Lock(ctx, saleLockKey(integrationID, fact.PlatformSaleID))
	if err != nil {
		return nil, fmt.Errorf("lock sale: %w", err)
	}
	defer unlock()

	sale, err := l.sales.FindByPlatformSaleID(ctx, integrationID, fact.PlatformSaleID)
	if err != nil {
		return nil, fmt.Errorf("find sale: %w", err)
	}

	if sale == nil {
		if fact.EventType != model.EventSalePaid {
			return &Outcome{Effect: EffectNotFound, Target: target}, nil
		}
		sale = newSale(integrationID, productID, target, fact)
		created, err := l.sales.CreateIfAbsent(ctx, sale)
		if err != nil {
			return nil, fmt.Errorf("create sale: %w", err)
		}
		if created {
			l.recordTransition("NONE", sale.Status)
			l.logger.Debug("sale created",
				zap.Uint("sale_id", sale.ID),
				zap.Uint("integration_id", integrationID),
				zap.String("platform_sale_id", fact.PlatformSaleID),
				zap.String("status", string(sale.Status)),
			)
			return &Outcome{Effect: EffectCreated, Sale: sale, Target: target}, nil
		}
		// Lost an insert race to a writer outside this lock.
		sale, err = l.sales.FindByPlatformSaleID(ctx, integrationID, fact.PlatformSaleID)
		if err != nil {
			return nil, fmt.Errorf("find sale: %w", err)
		}
		if sale == nil {
			return nil, ErrSaleVanished
		}
	}

	return l.transition(ctx, sale, target)
}

func (l *saleLedger) transition(ctx context.Context, sale *model.Sale, target model.SaleStatus) (*Outcome, error) {
	from := sale.Status
	if from == target {
		return &Outcome{Effect: EffectUnchanged, Sale: sale, From: from, Target: target}, nil
	}
	if !from.CanTransitionTo(target) {
		return &Outcome{Effect: EffectRefused, Sale: sale, From: from, Target: target}, nil
	}

	updated, err := l.sales.UpdateStatus(ctx, sale.ID, from, target)
	if err != nil {
		return nil, fmt.Errorf("update sale status: %w", err)
	}
	if !updated {
		// Status moved underneath us; report against the stored row.
		current, err := l.sales.FindByPlatformSaleID(ctx, sale.IntegrationID, sale.PlatformSaleID)
		if err != nil {
			return nil, fmt.Errorf("find sale: %w", err)
		}
		if current == nil {
			return nil, ErrSaleVanished
		}
		if current.Status == target {
			return &Outcome{Effect: EffectUnchanged, Sale: current, From: current.Status, Target: target}, nil
		}
		return &Outcome{Effect: EffectRefused, Sale: current, From: current.Status, Target: target}, nil
	}

	sale.Status = target
	l.recordTransition(string(from), target)
	return &Outcome{Effect: EffectTransitioned, Sale: sale, From: from, Target: target}, nil
}

func (l *saleLedger) recordTransition(from string, to model.SaleStatus) {
	if l.metrics != nil {
		l.metrics.RecordSaleTransition(from, string(to))
	}
}

func newSale(integrationID, productID uint, status model.SaleStatus, fact *model.SaleFact) *model.Sale {
	return &model.Sale{
		ProductID:      productID,
		IntegrationID:  integrationID,
		PlatformSaleID: fact.PlatformSaleID,
		Status:         status,
		Amount:         fact.Amount,
		Currency:       fact.Currency,
		CustomerName:   fact.CustomerName,
		CustomerEmail:  fact.CustomerEmail,
		SaleDate:       fact.SaleDate,
	}
}

func saleLockKey(integrationID uint, platformSaleID string) string {
	return fmt.Sprintf("sale:%d:%s", integrationID, platformSaleID)
}
