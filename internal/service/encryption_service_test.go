package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 32-byte key in hex.
const testAESKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestAESEncryptionService_RejectsBadKeys(t *testing.T) {
	_, err := NewAESEncryptionService("shortkey")
	assert.Error(t, err)

	_, err = NewAESEncryptionService("0123456789abcdef")
	assert.ErrorContains(t, err, "32 bytes")
}

func TestAESEncryptionService_RoundTrip(t *testing.T) {
	svc, err := NewAESEncryptionService(testAESKey)
	require.NoError(t, err)

	ciphertext, err := svc.Encrypt("whsec-shop")
	require.NoError(t, err)
	assert.NotContains(t, ciphertext, "whsec")

	plain, err := svc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "whsec-shop", plain)
}

func TestAESEncryptionService_FreshNoncePerCall(t *testing.T) {
	svc, err := NewAESEncryptionService(testAESKey)
	require.NoError(t, err)

	c1, err := svc.Encrypt("same")
	require.NoError(t, err)
	c2, err := svc.Encrypt("same")
	require.NoError(t, err)
	assert.NotEqual(t, c1, c2)
}

func TestAESEncryptionService_DecryptFailures(t *testing.T) {
	svc, err := NewAESEncryptionService(testAESKey)
	require.NoError(t, err)

	_, err = svc.Decrypt("not-hex")
	assert.Error(t, err)

	_, err = svc.Decrypt("abcd")
	assert.ErrorContains(t, err, "too short")

	ciphertext, err := svc.Encrypt("whsec-shop")
	require.NoError(t, err)
	tampered := []byte(ciphertext)
	if tampered[len(tampered)-1] == '0' {
		tampered[len(tampered)-1] = '1'
	} else {
		tampered[len(tampered)-1] = '0'
	}
	_, err = svc.Decrypt(string(tampered))
	assert.Error(t, err)
}
