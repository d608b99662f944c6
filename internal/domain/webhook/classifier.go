package webhook

import (
	"strings"

	"github.com/synapse/server/internal/model"
)

// eventTables maps normalized vendor event strings to canonical event types.
// Chargebacks fold into SALE_CANCELLED. The tables are never mutated after init.
var eventTables = map[model.Platform]map[string]model.EventType{
	model.PlatformKiwify: {
		"order.paid":       model.EventSalePaid,
		"order.approved":   model.EventSalePaid,
		"order_approved":   model.EventSalePaid,
		"order.refunded":   model.EventSaleRefunded,
		"order_refunded":   model.EventSaleRefunded,
		"order.chargeback": model.EventSaleCancelled,
		"order_chargeback": model.EventSaleCancelled,
		"chargeback":       model.EventSaleCancelled,
	},
	model.PlatformEduzz: {
		"venda":                      model.EventSalePaid,
		"reembolso":                  model.EventSaleRefunded,
		"cancelamento":               model.EventSaleCancelled,
		"myeduzz.invoice_paid":       model.EventSalePaid,
		"myeduzz.invoice_refunded":   model.EventSaleRefunded,
		"myeduzz.invoice_chargeback": model.EventSaleCancelled,
		"myeduzz.invoice_canceled":   model.EventSaleCancelled,
		"invoice_paid":               model.EventSalePaid,
		"invoice_refunded":           model.EventSaleRefunded,
		"invoice_chargeback":         model.EventSaleCancelled,
		"invoice_canceled":           model.EventSaleCancelled,
	},
	model.PlatformHotmart: {
		"purchase_complete":   model.EventSalePaid,
		"purchase_approved":   model.EventSalePaid,
		"purchase_refunded":   model.EventSaleRefunded,
		"purchase_chargeback": model.EventSaleCancelled,
		"purchase_canceled":   model.EventSaleCancelled,
	},
}

// Classify maps a platform event string to a canonical event type.
// Strings outside the platform's table classify as UNKNOWN; there is no default kind.
func Classify(platform model.Platform, event string) model.EventType {
	table, ok := eventTables[platform]
	if !ok {
		return model.EventUnknown
	}
	if kind, ok := table[normalizeEvent(event)]; ok {
		return kind
	}
	return model.EventUnknown
}

func normalizeEvent(event string) string {
	return strings.ToLower(strings.TrimSpace(event))
}
