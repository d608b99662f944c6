package webhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"
)

// VerifyHMAC reports whether signature is the hex HMAC-SHA256 of raw under secret.
// The digest is computed over the exact bytes received. An optional "sha256="
// prefix is accepted. Empty or malformed input never verifies.
func VerifyHMAC(raw []byte, signature, secret string) bool {
	signature = strings.TrimSpace(signature)
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" || secret == "" || len(raw) == 0 {
		return false
	}

	provided, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	return hmac.Equal(mac.Sum(nil), provided)
}

// SignHMAC returns the hex HMAC-SHA256 of raw under secret.
func SignHMAC(raw []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(raw)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyToken compares a token carried in the payload body with the stored secret.
// This is plain equality, not a cryptographic signature.
func VerifyToken(token, secret string) bool {
	if token == "" || secret == "" {
		return false
	}
	return token == secret
}

// VerifyHottok compares an opaque header token with the stored secret in constant time.
func VerifyHottok(token, secret string) bool {
	if token == "" || secret == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(secret)) == 1
}
