package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHMACSignatureService_SignAndVerify(t *testing.T) {
	svc := NewHMACSignatureService()
	body := []byte(`{"event_type":"payment.executed","merchant":"shop"}`)
	content := WebhookSignedContent(1708092000, body)

	signature := svc.Sign("whsec-shop", content)

	assert.Regexp(t, `^[0-9a-f]{64}$`, signature)
	assert.True(t, svc.Verify("whsec-shop", content, signature))
}

func TestHMACSignatureService_VerifyRejectsTampering(t *testing.T) {
	svc := NewHMACSignatureService()
	content := WebhookSignedContent(1708092000, []byte(`{"amount":80}`))
	signature := svc.Sign("whsec-shop", content)

	assert.False(t, svc.Verify("whsec-other", content, signature), "wrong key")
	assert.False(t, svc.Verify("whsec-shop", WebhookSignedContent(1708092000, []byte(`{"amount":81}`)), signature), "wrong body")
	assert.False(t, svc.Verify("whsec-shop", WebhookSignedContent(1708092001, []byte(`{"amount":80}`)), signature), "replayed with a new timestamp")
	assert.False(t, svc.Verify("whsec-shop", content, "invalidsignature"))
}

func TestWebhookSignedContent(t *testing.T) {
	assert.Equal(t, `1708092000.{"a":1}`, WebhookSignedContent(1708092000, []byte(`{"a":1}`)))
}
