package model

import "strings"

// Platform identifies the commerce platform that pushes webhooks for an integration.
type Platform string

const (
	PlatformKiwify  Platform = "KIWIFY"
	PlatformEduzz   Platform = "EDUZZ"
	PlatformHotmart Platform = "HOTMART"

	// PlatformUnknown is only used on audit rows whose integration could not be resolved.
	PlatformUnknown Platform = "UNKNOWN"
)

// IsValid returns true if the platform is one of the supported platforms.
func (p Platform) IsValid() bool {
	switch p {
	case PlatformKiwify, PlatformEduzz, PlatformHotmart:
		return true
	default:
		return false
	}
}

// ParsePlatform parses a platform name, case-insensitively.
func ParsePlatform(s string) (Platform, bool) {
	p := Platform(strings.ToUpper(strings.TrimSpace(s)))
	return p, p.IsValid()
}

// EventType is the canonical, platform-agnostic classification of a webhook.
type EventType string

const (
	EventSalePaid      EventType = "SALE_PAID"
	EventSaleRefunded  EventType = "SALE_REFUNDED"
	EventSaleCancelled EventType = "SALE_CANCELLED"
	EventUnknown       EventType = "UNKNOWN"
)

// TargetStatus returns the sale status an event drives a sale towards.
func (e EventType) TargetStatus() (SaleStatus, bool) {
	switch e {
	case EventSalePaid:
		return SaleStatusConfirmed, true
	case EventSaleRefunded:
		return SaleStatusRefunded, true
	case EventSaleCancelled:
		return SaleStatusCancelled, true
	default:
		return "", false
	}
}
