package webhook

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/synapse/server/internal/model"
)

type eduzzMoney struct {
	Currency string     `json:"currency"`
	Value    flexString `json:"value"`
}

type eduzzInvoice struct {
	ID     flexString `json:"id"`
	Status string     `json:"status"`
	Buyer  struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"buyer"`
	Items []struct {
		Name  string     `json:"name"`
		Price eduzzMoney `json:"price"`
	} `json:"items"`
	Price     eduzzMoney `json:"price"`
	Paid      eduzzMoney `json:"paid"`
	PaidAt    flexString `json:"paidAt"`
	CreatedAt flexString `json:"createdAt"`
}

// eduzzPayload covers both Eduzz shapes: the legacy flat form keyed by
// "evento"/"trans_cod" and the current "myeduzz.*" envelope with a data object.
type eduzzPayload struct {
	Evento      string     `json:"evento"`
	TransCod    flexString `json:"trans_cod"`
	TransStatus flexString `json:"trans_status"`
	Produto     struct {
		NomeProduto string `json:"nome_produto"`
	} `json:"produto"`
	Valor         flexString `json:"valor"`
	Moeda         string     `json:"moeda"`
	DataAprovacao flexString `json:"data_aprovacao"`
	DataCriacao   flexString `json:"data_criacao"`
	Cliente       struct {
		Nome  string `json:"nome"`
		Email string `json:"email"`
	} `json:"cliente"`
	Token string `json:"token"`

	ID       string        `json:"id"`
	Event    string        `json:"event"`
	SentDate flexString    `json:"sentDate"`
	Data     *eduzzInvoice `json:"data"`
}

func (p *eduzzPayload) EventName() string {
	return firstNonEmpty(p.Evento, p.Event)
}

func (p *eduzzPayload) legacy() bool {
	return p.Evento != "" || p.TransCod != ""
}

// eduzzTransStatus maps legacy trans_status values to a first-seen sale status.
var eduzzTransStatus = map[string]model.SaleStatus{
	"aprovado":    model.SaleStatusConfirmed,
	"pago":        model.SaleStatusConfirmed,
	"pendente":    model.SaleStatusPending,
	"aguardando":  model.SaleStatusPending,
	"cancelado":   model.SaleStatusCancelled,
	"reembolsado": model.SaleStatusRefunded,
}

type eduzzAdapter struct{}

// NewEduzzAdapter creates the Eduzz adapter.
// Eduzz either signs with HMAC-SHA256 in a header or embeds the shared token in the body.
func NewEduzzAdapter() PlatformAdapter {
	return eduzzAdapter{}
}

func (eduzzAdapter) Platform() model.Platform {
	return model.PlatformEduzz
}

func (eduzzAdapter) Decode(raw []byte) (Payload, error) {
	var p eduzzPayload
	if err := decodeObject(raw, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (eduzzAdapter) Verify(raw []byte, credential model.Credential, secret string) bool {
	if credential.Source == model.CredentialBodyToken {
		return VerifyToken(credential.Value, secret)
	}
	return VerifyHMAC(raw, credential.Value, secret)
}

func (a eduzzAdapter) Extract(payload Payload, kind model.EventType, receivedAt time.Time) (*model.SaleFact, error) {
	p, ok := payload.(*eduzzPayload)
	if !ok {
		return nil, &ExtractionError{Platform: a.Platform(), Err: ErrUnexpectedPayload}
	}
	if p.legacy() {
		return a.extractLegacy(p, kind, receivedAt)
	}
	return a.extractInvoice(p, kind, receivedAt)
}

func (a eduzzAdapter) extractLegacy(p *eduzzPayload, kind model.EventType, receivedAt time.Time) (*model.SaleFact, error) {
	fact := &model.SaleFact{
		PlatformSaleID: p.TransCod.String(),
		EventType:      kind,
		Currency:       normalizeCurrency(p.Moeda, model.DefaultProductCurrency),
		CustomerName:   p.Cliente.Nome,
		CustomerEmail:  p.Cliente.Email,
		SaleDate:       firstTimestamp(receivedAt, p.DataAprovacao, p.DataCriacao),
		ProductName:    strings.TrimSpace(p.Produto.NomeProduto),
		Amount:         decimal.Zero,
	}
	if kind == model.EventSalePaid {
		if status, ok := eduzzTransStatus[strings.ToLower(p.TransStatus.String())]; ok {
			fact.InitialStatus = status
		}
	}

	amountSet, err := a.applyAmount(fact, p.Evento, "valor", p.Valor, kind)
	if err != nil {
		return nil, err
	}
	if err := requireCommon(a.Platform(), p.Evento, kind, fact, amountSet); err != nil {
		return nil, err
	}
	return fact, nil
}

func (a eduzzAdapter) extractInvoice(p *eduzzPayload, kind model.EventType, receivedAt time.Time) (*model.SaleFact, error) {
	if p.Data == nil {
		return nil, missingField(a.Platform(), p.Event, "data")
	}
	inv := p.Data

	money := inv.Paid
	field := "data.paid.value"
	if money.Value == "" {
		money, field = inv.Price, "data.price.value"
	}
	productName := ""
	if len(inv.Items) > 0 {
		productName = strings.TrimSpace(inv.Items[0].Name)
		if money.Value == "" {
			money, field = inv.Items[0].Price, "data.items[0].price.value"
		}
	}

	fact := &model.SaleFact{
		PlatformSaleID: inv.ID.String(),
		EventType:      kind,
		Currency:       normalizeCurrency(money.Currency, model.DefaultProductCurrency),
		CustomerName:   inv.Buyer.Name,
		CustomerEmail:  inv.Buyer.Email,
		SaleDate:       firstTimestamp(receivedAt, inv.PaidAt, inv.CreatedAt, p.SentDate),
		ProductName:    productName,
		Amount:         decimal.Zero,
	}

	amountSet, err := a.applyAmount(fact, p.Event, field, money.Value, kind)
	if err != nil {
		return nil, err
	}
	if err := requireCommon(a.Platform(), p.Event, kind, fact, amountSet); err != nil {
		return nil, err
	}
	return fact, nil
}

// applyAmount parses a major-unit amount. Parse failures only matter for paid events.
func (a eduzzAdapter) applyAmount(fact *model.SaleFact, event, field string, value flexString, kind model.EventType) (bool, error) {
	if value == "" {
		return false, nil
	}
	amount, err := parseAmount(value)
	if err != nil {
		if kind == model.EventSalePaid {
			return false, invalidField(a.Platform(), event, field, err)
		}
		return false, nil
	}
	fact.Amount = amount.Round(2)
	return true, nil
}
