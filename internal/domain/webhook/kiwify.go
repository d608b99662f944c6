package webhook

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/synapse/server/internal/model"
)

type kiwifyPayload struct {
	OrderID          flexString `json:"order_id"`
	OrderRef         string     `json:"order_ref"`
	OrderStatus      string     `json:"order_status"`
	WebhookEventType string     `json:"webhook_event_type"`
	Event            string     `json:"event"`
	ApprovedDate     flexString `json:"approved_date"`
	CreatedAt        flexString `json:"created_at"`
	UpdatedAt        flexString `json:"updated_at"`
	Product          struct {
		ProductID   flexString `json:"product_id"`
		ProductName string     `json:"product_name"`
	} `json:"Product"`
	Customer struct {
		FullName  string `json:"full_name"`
		FirstName string `json:"first_name"`
		Email     string `json:"email"`
	} `json:"Customer"`
	Commissions struct {
		ChargeAmount     flexString `json:"charge_amount"`
		ProductBasePrice flexString `json:"product_base_price"`
		Currency         string     `json:"currency"`
	} `json:"Commissions"`
}

func (p *kiwifyPayload) EventName() string {
	return firstNonEmpty(p.WebhookEventType, p.Event)
}

type kiwifyAdapter struct{}

// NewKiwifyAdapter creates the Kiwify adapter.
// Kiwify signs the raw body with HMAC-SHA256 and sends amounts in cents.
func NewKiwifyAdapter() PlatformAdapter {
	return kiwifyAdapter{}
}

func (kiwifyAdapter) Platform() model.Platform {
	return model.PlatformKiwify
}

func (kiwifyAdapter) Decode(raw []byte) (Payload, error) {
	var p kiwifyPayload
	if err := decodeObject(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (kiwifyAdapter) Verify(raw []byte, credential model.Credential, secret string) bool {
	return VerifyHMAC(raw, credential.Value, secret)
}

func (a kiwifyAdapter) Extract(payload Payload, kind model.EventType, receivedAt time.Time) (*model.SaleFact, error) {
	p, ok := payload.(*kiwifyPayload)
	if !ok {
		return nil, &ExtractionError{Platform: a.Platform(), Err: ErrUnexpectedPayload}
	}
	event := p.EventName()

	fact := &model.SaleFact{
		PlatformSaleID: firstNonEmpty(p.OrderID.String(), p.OrderRef),
		EventType:      kind,
		Currency:       normalizeCurrency(p.Commissions.Currency, model.DefaultProductCurrency),
		CustomerName:   firstNonEmpty(p.Customer.FullName, p.Customer.FirstName),
		CustomerEmail:  p.Customer.Email,
		SaleDate:       firstTimestamp(receivedAt, p.ApprovedDate, p.CreatedAt),
		ProductName:    firstNonEmpty(p.Product.ProductName),
		Amount:         decimal.Zero,
	}

	cents := p.Commissions.ChargeAmount
	if cents == "" {
		cents = p.Commissions.ProductBasePrice
	}
	amountSet := false
	if cents != "" {
		amount, err := parseMinorUnits(cents)
		if err != nil {
			if kind == model.EventSalePaid {
				return nil, invalidField(a.Platform(), event, "Commissions.charge_amount", err)
			}
		} else {
			fact.Amount = amount.Round(2)
			amountSet = true
		}
	}

	if err := requireCommon(a.Platform(), event, kind, fact, amountSet); err != nil {
		return nil, err
	}
	return fact, nil
}
