package webhook

import (
	"sort"
	"time"

	"github.com/synapse/server/internal/model"
)

// Payload is a decoded platform body.
type Payload interface {
	// EventName returns the vendor event string.
	EventName() string
}

// PlatformAdapter decodes, authenticates and extracts sale facts for one platform.
type PlatformAdapter interface {
	Platform() model.Platform

	// Decode parses the raw body into the platform's payload shape.
	Decode(raw []byte) (Payload, error)

	// Verify authenticates raw with the credential the transport found.
	Verify(raw []byte, credential model.Credential, secret string) bool

	// Extract builds the canonical fact for a classified event.
	Extract(payload Payload, kind model.EventType, receivedAt time.Time) (*model.SaleFact, error)
}

// Registry resolves the adapter for a platform. It is built once and read concurrently.
type Registry struct {
	adapters map[model.Platform]PlatformAdapter
}

// NewRegistry creates a registry from the given adapters.
func NewRegistry(adapters ...PlatformAdapter) *Registry {
	r := &Registry{adapters: make(map[model.Platform]PlatformAdapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// DefaultRegistry returns a registry with the Kiwify, Eduzz and Hotmart adapters.
func DefaultRegistry() *Registry {
	return NewRegistry(NewKiwifyAdapter(), NewEduzzAdapter(), NewHotmartAdapter())
}

// Lookup returns the adapter for a platform.
func (r *Registry) Lookup(platform model.Platform) (PlatformAdapter, bool) {
	a, ok := r.adapters[platform]
	return a, ok
}

// Platforms lists the registered platforms.
func (r *Registry) Platforms() []model.Platform {
	platforms := make([]model.Platform, 0, len(r.adapters))
	for p := range r.adapters {
		platforms = append(platforms, p)
	}
	sort.Slice(platforms, func(i, j int) bool { return platforms[i] < platforms[j] })
	return platforms
}

// requireCommon validates the fields every fact needs, plus paid-only fields.
func requireCommon(platform model.Platform, event string, kind model.EventType, fact *model.SaleFact, amountSet bool) error {
	if fact.PlatformSaleID == "" {
		return missingField(platform, event, "platformSaleId")
	}
	if kind != model.EventSalePaid {
		return nil
	}
	if fact.ProductName == "" {
		return missingField(platform, event, "productName")
	}
	if !amountSet {
		return missingField(platform, event, "amount")
	}
	if fact.Amount.IsNegative() {
		return invalidField(platform, event, "amount", errNegativeAmount)
	}
	return nil
}
