package webhook

import (
	"errors"
	"fmt"

	"github.com/synapse/server/internal/model"
)

var (
	// ErrInvalidPayload indicates the body is not a JSON object of the expected shape.
	ErrInvalidPayload = errors.New("invalid payload")

	// ErrPayloadTooLarge indicates the body exceeded the configured size limit.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrMissingField indicates a field required for the event is absent.
	ErrMissingField = errors.New("missing required field")

	// ErrInvalidField indicates a field is present but cannot be parsed.
	ErrInvalidField = errors.New("invalid field value")

	// ErrUnexpectedPayload indicates a payload decoded by one adapter was handed to another.
	ErrUnexpectedPayload = errors.New("unexpected payload type")

	// ErrUnsupportedPlatform indicates no adapter is registered for a platform.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrWebhookLogNotFound indicates the audit row does not exist.
	ErrWebhookLogNotFound = errors.New("webhook log not found")

	// ErrNotReplayable indicates the audit row cannot be re-dispatched.
	ErrNotReplayable = errors.New("webhook log is not replayable")

	errNegativeAmount = errors.New("amount is negative")
)

// ExtractionError reports a payload that lacks or garbles a field the adapter needs.
type ExtractionError struct {
	Platform model.Platform
	Event    string
	Field    string
	Err      error
}

func (e *ExtractionError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s event %q: %v", e.Platform, e.Event, e.Err)
	}
	return fmt.Sprintf("%s event %q: %s: %v", e.Platform, e.Event, e.Field, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

func missingField(platform model.Platform, event, field string) error {
	return &ExtractionError{Platform: platform, Event: event, Field: field, Err: ErrMissingField}
}

func invalidField(platform model.Platform, event, field string, err error) error {
	return &ExtractionError{Platform: platform, Event: event, Field: field, Err: fmt.Errorf("%w: %v", ErrInvalidField, err)}
}
