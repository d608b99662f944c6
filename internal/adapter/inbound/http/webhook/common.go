package webhookhttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/synapse/server/internal/domain/webhook"
	"github.com/synapse/server/internal/model"
)

// credentialHeaders are tried in order; the first non-empty value wins.
var credentialHeaders = []model.CredentialSource{
	model.CredentialKiwifyHeader,
	model.CredentialHottokHeader,
	model.CredentialGenericHeader,
}

// extractCredential finds the webhook credential in the headers, falling back
// to a "token" field in the JSON body.
func extractCredential(header http.Header, body []byte) model.Credential {
	for _, source := range credentialHeaders {
		if v := header.Get(string(source)); v != "" {
			return model.Credential{Value: v, Source: source}
		}
	}
	if token := bodyToken(body); token != "" {
		return model.Credential{Value: token, Source: model.CredentialBodyToken}
	}
	return model.Credential{}
}

func bodyToken(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return ""
	}
	var envelope struct {
		Token json.RawMessage `json:"token"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil || len(envelope.Token) == 0 {
		return ""
	}
	switch envelope.Token[0] {
	case '"':
		var s string
		if err := json.Unmarshal(envelope.Token, &s); err != nil {
			return ""
		}
		return s
	case '{', '[', 'n':
		return ""
	default:
		return string(envelope.Token)
	}
}

// readBody reads at most limit+1 bytes so oversize bodies can be detected downstream.
func readBody(r io.Reader, limit int64) ([]byte, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	return io.ReadAll(r)
}

// parseID parses a positive integer path parameter.
func parseID(s string) (uint, bool) {
	id, err := strconv.ParseUint(s, 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// handleError maps webhook domain errors to HTTP responses.
func handleError(c *gin.Context, err error) {
	var statusCode int
	var errorCode string
	var message string

	switch {
	case errors.Is(err, webhook.ErrWebhookLogNotFound):
		statusCode = http.StatusNotFound
		errorCode = "webhook_log_not_found"
		message = "Webhook log not found"

	case errors.Is(err, webhook.ErrNotReplayable):
		statusCode = http.StatusConflict
		errorCode = "not_replayable"
		message = "Webhook log cannot be replayed"

	default:
		statusCode = http.StatusInternalServerError
		errorCode = "internal_error"
		message = "Internal server error"
	}

	c.JSON(statusCode, model.ErrorResponse{
		Code:    errorCode,
		Message: message,
	})
}
