package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyHMAC(t *testing.T) {
	body := []byte(`{"order_id":"abc123"}`)
	secret := "s3cret"
	sig := SignHMAC(body, secret)

	tests := []struct {
		name      string
		raw       []byte
		signature string
		secret    string
		want      bool
	}{
		{"valid", body, sig, secret, true},
		{"prefixed", body, "sha256=" + sig, secret, true},
		{"surrounding whitespace", body, "  " + sig + " ", secret, true},
		{"wrong secret", body, sig, "other", false},
		{"tampered body", []byte(`{"order_id":"abc124"}`), sig, secret, false},
		{"not hex", body, "zz" + sig[2:], secret, false},
		{"truncated", body, sig[:10], secret, false},
		{"empty signature", body, "", secret, false},
		{"empty secret", body, sig, "", false},
		{"empty body", nil, sig, secret, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyHMAC(tt.raw, tt.signature, tt.secret))
		})
	}
}

func TestSignHMAC_KnownVector(t *testing.T) {
	// RFC 4231 test case 2
	got := SignHMAC([]byte("what do ya want for nothing?"), "Jefe")
	assert.Equal(t, "5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843", got)
}

func TestVerifyToken(t *testing.T) {
	assert.True(t, VerifyToken("tok", "tok"))
	assert.False(t, VerifyToken("tok", "TOK"))
	assert.False(t, VerifyToken("", ""))
	assert.False(t, VerifyToken("tok", ""))
	assert.False(t, VerifyToken("", "tok"))
}

func TestVerifyHottok(t *testing.T) {
	assert.True(t, VerifyHottok("hot-123", "hot-123"))
	assert.False(t, VerifyHottok("hot-123", "hot-124"))
	assert.False(t, VerifyHottok("hot", "hot-123"))
	assert.False(t, VerifyHottok("", ""))
}
