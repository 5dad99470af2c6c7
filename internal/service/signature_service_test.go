package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignDeterministic(t *testing.T) {
	svc := NewHMACSignatureService()

	sig1 := svc.Sign("0123456789abcdef", `{"transactionId":"TXN1"}`)
	sig2 := svc.Sign("0123456789abcdef", `{"transactionId":"TXN1"}`)

	assert.Equal(t, sig1, sig2)
	assert.Len(t, sig1, 64) // hex-encoded SHA-256
	assert.Regexp(t, "^[0-9a-f]+$", sig1)
}

func TestHMACSignatureService_VerifyRoundTrip(t *testing.T) {
	svc := NewHMACSignatureService()
	secret := "0123456789abcdef"
	payload := `{"transactionId":"TXN1","status":"completed"}`

	sig := svc.Sign(secret, payload)
	assert.True(t, svc.Verify(secret, payload, sig))
}

func TestHMACSignatureService_VerifyRejectsTamperedPayload(t *testing.T) {
	svc := NewHMACSignatureService()
	secret := "0123456789abcdef"
	payload := `{"transactionId":"TXN1","amount":100}`
	sig := svc.Sign(secret, payload)

	// Flip one character anywhere in the body.
	for i := 0; i < len(payload); i++ {
		mutated := payload[:i] + string(payload[i]^1) + payload[i+1:]
		if mutated == payload {
			continue
		}
		assert.False(t, svc.Verify(secret, mutated, sig), "mutation at %d must invalidate", i)
	}
}

func TestHMACSignatureService_VerifyRejectsWrongSecret(t *testing.T) {
	svc := NewHMACSignatureService()
	payload := `{"transactionId":"TXN1"}`
	sig := svc.Sign("0123456789abcdef", payload)

	assert.False(t, svc.Verify("fedcba9876543210", payload, sig))
	assert.False(t, svc.Verify("0123456789abcdef", payload, ""))
}
