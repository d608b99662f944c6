package model

import "time"

// CredentialSource identifies where the transport found a webhook credential.
type CredentialSource string

const (
	CredentialNone          CredentialSource = ""
	CredentialKiwifyHeader  CredentialSource = "x-kiwify-signature"
	CredentialHottokHeader  CredentialSource = "x-hotmart-hottok"
	CredentialGenericHeader CredentialSource = "x-signature"
	CredentialBodyToken     CredentialSource = "body.token"
)

// Credential is the signature or token supplied with a webhook.
type Credential struct {
	Value  string
	Source CredentialSource
}

// IsZero reports whether no credential was supplied.
func (c Credential) IsZero() bool {
	return c.Value == ""
}

// WebhookRequest is one inbound webhook call as seen by the dispatcher.
type WebhookRequest struct {
	IntegrationID uint
	Body          []byte
	Credential    Credential
	ReceivedAt    time.Time

	// SkipVerification is set for replays of already-audited payloads.
	SkipVerification bool
}

// WebhookResult is the in-band response returned to the calling platform.
type WebhookResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`

	// Fields below are not serialized to the platform.
	Kind      FailureKind `json:"-"`
	LogID     uint        `json:"-"`
	SaleID    uint        `json:"-"`
	EventType EventType   `json:"-"`
}

// NotFound reports whether the result must be surfaced as a 404-class condition.
func (r *WebhookResult) NotFound() bool {
	return r.Kind == FailureNotFound
}
