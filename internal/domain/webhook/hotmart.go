package webhook

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/synapse/server/internal/model"
)

type hotmartPayload struct {
	ID           string     `json:"id"`
	Event        string     `json:"event"`
	Version      string     `json:"version"`
	CreationDate flexString `json:"creation_date"`
	Hottok       string     `json:"hottok"`
	Data         struct {
		Product struct {
			ID   flexString `json:"id"`
			Name string     `json:"name"`
		} `json:"product"`
		Buyer struct {
			Name  string `json:"name"`
			Email string `json:"email"`
		} `json:"buyer"`
		Purchase struct {
			Transaction  string     `json:"transaction"`
			Status       string     `json:"status"`
			ApprovedDate flexString `json:"approved_date"`
			OrderDate    flexString `json:"order_date"`
			Price        struct {
				Value         flexString `json:"value"`
				CurrencyCode  string     `json:"currency_code"`
				CurrencyValue string     `json:"currency_value"`
			} `json:"price"`
		} `json:"purchase"`
	} `json:"data"`
}

func (p *hotmartPayload) EventName() string {
	return p.Event
}

type hotmartAdapter struct{}

// NewHotmartAdapter creates the Hotmart adapter.
// Hotmart authenticates with the opaque "hottok" token and sends amounts in major units.
func NewHotmartAdapter() PlatformAdapter {
	return hotmartAdapter{}
}

func (hotmartAdapter) Platform() model.Platform {
	return model.PlatformHotmart
}

func (hotmartAdapter) Decode(raw []byte) (Payload, error) {
	var p hotmartPayload
	if err := decodeObject(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (hotmartAdapter) Verify(_ []byte, credential model.Credential, secret string) bool {
	return VerifyHottok(credential.Value, secret)
}

func (a hotmartAdapter) Extract(payload Payload, kind model.EventType, receivedAt time.Time) (*model.SaleFact, error) {
	p, ok := payload.(*hotmartPayload)
	if !ok {
		return nil, &ExtractionError{Platform: a.Platform(), Err: ErrUnexpectedPayload}
	}
	purchase := p.Data.Purchase

	fact := &model.SaleFact{
		PlatformSaleID: firstNonEmpty(purchase.Transaction),
		EventType:      kind,
		Currency: normalizeCurrency(
			firstNonEmpty(purchase.Price.CurrencyValue, purchase.Price.CurrencyCode),
			model.DefaultProductCurrency,
		),
		CustomerName:  p.Data.Buyer.Name,
		CustomerEmail: p.Data.Buyer.Email,
		SaleDate:      firstTimestamp(receivedAt, purchase.ApprovedDate, purchase.OrderDate, p.CreationDate),
		ProductName:   firstNonEmpty(p.Data.Product.Name),
		Amount:        decimal.Zero,
	}

	amountSet := false
	if purchase.Price.Value != "" {
		amount, err := parseAmount(purchase.Price.Value)
		if err != nil {
			if kind == model.EventSalePaid {
				return nil, invalidField(a.Platform(), p.Event, "data.purchase.price.value", err)
			}
		} else {
			fact.Amount = amount.Round(2)
			amountSet = true
		}
	}

	if err := requireCommon(a.Platform(), p.Event, kind, fact, amountSet); err != nil {
		return nil, err
	}
	return fact, nil
}
